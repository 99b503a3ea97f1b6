// Package observ measures compiler phases for `--timings`.
package observ

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"
)

// Phase is one measured step of a compile.
type Phase struct {
	Name  string
	Start time.Time
	Dur   time.Duration
	Note  string
}

// Timer collects phases. It is safe for concurrent use so the files of a
// parallel build can report into one timer.
type Timer struct {
	mu     sync.Mutex
	phases []Phase
}

func NewTimer() *Timer { return &Timer{phases: make([]Phase, 0, 8)} }

// Begin starts a phase and returns its index.
func (t *Timer) Begin(name string) int {
	if t == nil {
		return -1
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.phases = append(t.phases, Phase{Name: name, Start: time.Now()})
	return len(t.phases) - 1
}

// End finishes the phase at idx.
func (t *Timer) End(idx int, note string) {
	if t == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if idx < 0 || idx >= len(t.phases) {
		return
	}
	p := &t.phases[idx]
	p.Dur = time.Since(p.Start)
	p.Note = note
}

// Measure runs fn as the phase name.
func (t *Timer) Measure(name string, fn func() error) error {
	idx := t.Begin(name)
	err := fn()
	note := ""
	if err != nil {
		note = "failed"
	}
	t.End(idx, note)
	return err
}

// PhaseReport is the serialisable form of a phase.
type PhaseReport struct {
	Name       string  `json:"name"`
	DurationMS float64 `json:"duration_ms"`
	Count      int     `json:"count,omitempty"`
	Note       string  `json:"note,omitempty"`
}

// Report is the aggregated view of a timer.
type Report struct {
	TotalMS float64       `json:"total_ms"`
	Phases  []PhaseReport `json:"phases"`
}

// Report sums phases of the same name, in order of first appearance.
// Files of a build each run every pass, so the report shows one line
// per pass with the number of runs.
func (t *Timer) Report() Report {
	if t == nil {
		return Report{}
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	var report Report
	index := make(map[string]int)
	var total time.Duration
	for _, p := range t.phases {
		total += p.Dur
		i, ok := index[p.Name]
		if !ok {
			i = len(report.Phases)
			index[p.Name] = i
			report.Phases = append(report.Phases, PhaseReport{Name: p.Name})
		}
		pr := &report.Phases[i]
		pr.DurationMS += durationToMillis(p.Dur)
		pr.Count++
		if p.Note != "" {
			pr.Note = p.Note
		}
	}
	report.TotalMS = durationToMillis(total)
	return report
}

// Summary renders the report as text.
func (t *Timer) Summary() string {
	report := t.Report()
	var sb strings.Builder
	sb.WriteString("timings:\n")
	for _, p := range report.Phases {
		fmt.Fprintf(&sb, "  %-20s %7.2f ms", p.Name, p.DurationMS)
		if p.Count > 1 {
			fmt.Fprintf(&sb, "  x%d", p.Count)
		}
		if p.Note != "" {
			sb.WriteString("  // " + p.Note)
		}
		sb.WriteByte('\n')
	}
	fmt.Fprintf(&sb, "  %-20s %7.2f ms\n", "total", report.TotalMS)
	return sb.String()
}

func durationToMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

type timerKey struct{}

// WithTimer attaches t to ctx.
func WithTimer(ctx context.Context, t *Timer) context.Context {
	if t == nil {
		return ctx
	}
	return context.WithValue(ctx, timerKey{}, t)
}

// TimerFrom returns the timer attached to ctx, or nil. A nil *Timer
// ignores every call.
func TimerFrom(ctx context.Context) *Timer {
	if ctx == nil {
		return nil
	}
	t, _ := ctx.Value(timerKey{}).(*Timer)
	return t
}
