package buildpipeline

import (
	"sync"
	"time"
)

// ChannelSink forwards events into a channel.
type ChannelSink struct {
	Ch chan<- Event
}

func (s ChannelSink) OnEvent(evt Event) {
	if s.Ch == nil {
		return
	}
	s.Ch <- evt
}

// FuncSink adapts a function to ProgressSink.
type FuncSink func(Event)

func (f FuncSink) OnEvent(evt Event) {
	if f != nil {
		f(evt)
	}
}

// MultiSink fans events out to several sinks.
type MultiSink []ProgressSink

func (m MultiSink) OnEvent(evt Event) {
	for _, s := range m {
		if s != nil {
			s.OnEvent(evt)
		}
	}
}

// Recorder keeps every event and the accumulated stage timings. It is safe
// for concurrent use.
type Recorder struct {
	mu      sync.Mutex
	events  []Event
	timings Timings
}

func (r *Recorder) OnEvent(evt Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, evt)
	if evt.File != "" && evt.Status.Terminal() && evt.Elapsed > 0 {
		r.timings.Add(evt.Stage, evt.Elapsed)
	}
}

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

// Timings returns the summed per-file stage durations.
func (r *Recorder) Timings() Timings {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := Timings{}
	for stage, d := range r.timings.stages {
		out.Set(stage, d)
	}
	return out
}

// Final returns the last status seen for each file.
func (r *Recorder) Final() map[string]Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]Status)
	for _, ev := range r.events {
		if ev.File != "" {
			out[ev.File] = ev.Status
		}
	}
	return out
}

// Emit sends one event when sink is set.
func Emit(sink ProgressSink, file string, stage Stage, status Status, err error, elapsed time.Duration) {
	if sink == nil {
		return
	}
	sink.OnEvent(Event{File: file, Stage: stage, Status: status, Err: err, Elapsed: elapsed})
}

// EmitQueued marks every file as waiting.
func EmitQueued(sink ProgressSink, files []string) {
	if sink == nil {
		return
	}
	for _, file := range files {
		sink.OnEvent(Event{File: file, Stage: StageLoad, Status: StatusQueued})
	}
}
