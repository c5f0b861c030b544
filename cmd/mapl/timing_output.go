package main

import (
	"fmt"
	"io"
	"time"

	"mapl/internal/buildpipeline"
	"mapl/internal/observ"
)

func printStageTimings(out io.Writer, timings buildpipeline.Timings, timer *observ.Timer) error {
	for _, stage := range buildpipeline.Stages {
		if !timings.Has(stage) {
			continue
		}
		if _, err := fmt.Fprintf(out, "%s %.1f ms\n", stage, toMillis(timings.Duration(stage))); err != nil {
			return err
		}
	}
	if timer == nil {
		return nil
	}
	_, err := io.WriteString(out, timer.Summary())
	return err
}

func toMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
