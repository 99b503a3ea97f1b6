package main

import (
	"fmt"
	"io"
	"time"

	"buble/internal/buildpipeline"
)

var stageVerbs = map[buildpipeline.Stage]string{
	buildpipeline.StageLoad:      "loaded",
	buildpipeline.StageParse:     "parsed",
	buildpipeline.StageTransform: "transformed",
	buildpipeline.StageEmit:      "emitted",
}

// printStageTimings prints how long files spent until they finished in
// each stage, summed over files.
func printStageTimings(out io.Writer, timings buildpipeline.Timings) {
	if out == nil {
		return
	}
	for _, stage := range buildpipeline.Stages {
		if !timings.Has(stage) {
			continue
		}
		if _, err := fmt.Fprintf(out, "%s %.1f ms\n", stageVerbs[stage], toMillis(timings.Duration(stage))); err != nil {
			panic(err)
		}
	}
}

func toMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
