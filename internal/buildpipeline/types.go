// Package buildpipeline describes the stages of a MaPL build and the progress
// events a build reports while it runs.
package buildpipeline

import "time"

// Stage names a pipeline phase.
type Stage string

const (
	// StageParse scans every script and its imports.
	StageParse Stage = "parse"
	// StageCompile compiles scripts to bytecode.
	StageCompile Stage = "compile"
	// StageSymbols collates the shared symbol table.
	StageSymbols Stage = "symbols"
	// StageWrite writes bytecode and the symbol table to disk.
	StageWrite Stage = "write"
)

// Stages lists every stage in pipeline order.
var Stages = [...]Stage{StageParse, StageCompile, StageSymbols, StageWrite}

type stageInfo struct {
	progress float64 // доля работы над файлом к началу стадии
	working  string
	done     string
}

var stageTable = [len(Stages)]stageInfo{
	{progress: 0.2, working: "parsing", done: "parsed"},
	{progress: 0.6, working: "compiling", done: "compiled"},
	{progress: 0.7, working: "collating", done: "done"},
	{progress: 0.9, working: "writing", done: "done"},
}

func (s Stage) index() int {
	for i, st := range Stages {
		if st == s {
			return i
		}
	}
	return -1
}

// Progress is the fraction of a file's work done once it reaches s.
func (s Stage) Progress() float64 {
	if i := s.index(); i >= 0 {
		return stageTable[i].progress
	}
	return 0
}

// Label describes a file at stage s with status, e.g. "compiling" or
// "parsed". Unknown stages and statuses give "".
func (s Stage) Label(status Status) string {
	switch status {
	case StatusQueued, StatusCached, StatusError:
		return string(status)
	}
	i := s.index()
	if i < 0 {
		return ""
	}
	switch status {
	case StatusWorking:
		return stageTable[i].working
	case StatusDone:
		return stageTable[i].done
	}
	return ""
}

// Status captures progress state within a stage.
type Status string

const (
	StatusQueued  Status = "queued"
	StatusWorking Status = "working"
	StatusDone    Status = "done"
	StatusCached  Status = "cached" // результат взят из кэша сборки
	StatusError   Status = "error"
)

// Finished reports whether no further events are expected for the task.
func (s Status) Finished() bool {
	return s == StatusDone || s == StatusCached || s == StatusError
}

// Event reports progress for one file, or for the whole pipeline when File
// is empty.
type Event struct {
	File    string
	Stage   Stage
	Status  Status
	Err     error
	Elapsed time.Duration
}

// ProgressSink consumes progress events.
type ProgressSink interface {
	OnEvent(Event)
}

// Timings records how long each stage took. The zero value is empty.
type Timings struct {
	dur [len(Stages)]time.Duration
	set [len(Stages)]bool
}

// Set records dur for stage. Unknown stages are ignored.
func (t *Timings) Set(stage Stage, dur time.Duration) {
	if i := stage.index(); t != nil && i >= 0 {
		t.dur[i], t.set[i] = dur, true
	}
}

// Has reports whether stage was recorded.
func (t Timings) Has(stage Stage) bool {
	i := stage.index()
	return i >= 0 && t.set[i]
}

func (t Timings) Duration(stage Stage) time.Duration {
	if i := stage.index(); i >= 0 {
		return t.dur[i]
	}
	return 0
}

// Sum adds up the durations of stages.
func (t Timings) Sum(stages ...Stage) time.Duration {
	var total time.Duration
	for _, s := range stages {
		total += t.Duration(s)
	}
	return total
}
