package ui

import (
	"errors"
	"strings"
	"testing"

	"mapl/internal/buildpipeline"
)

func newTestModel(files ...string) *progressModel {
	return NewProgressModel("mapl build", files, "/proj", nil).(*progressModel)
}

func TestApplyEventTracksFiles(t *testing.T) {
	m := newTestModel("/proj/a.mapl", "/proj/b.mapl")

	events := []buildpipeline.Event{
		{Stage: buildpipeline.StageCompile, Status: buildpipeline.StatusWorking},
		{File: "/proj/a.mapl", Stage: buildpipeline.StageCompile, Status: buildpipeline.StatusDone},
		{File: "/proj/lib.mapl", Stage: buildpipeline.StageCompile, Status: buildpipeline.StatusDone},
		{File: "/proj/b.mapl", Stage: buildpipeline.StageCompile, Status: buildpipeline.StatusError},
		{File: "/proj/b.mapl", Stage: buildpipeline.StageWrite, Status: buildpipeline.StatusWorking},
	}
	for _, ev := range events {
		m.applyEvent(ev)
	}

	if m.pipeline != "compiling" {
		t.Errorf("pipeline label = %q", m.pipeline)
	}
	if got := m.rows[0].label(); got != "compiled" {
		t.Errorf("a.mapl status = %q", got)
	}
	// ошибка окончательна, поздние события её не перезаписывают
	if got := m.rows[1].label(); got != "error" || !m.rows[1].final {
		t.Errorf("b.mapl status = %q final=%v", got, m.rows[1].final)
	}
	if got, want := m.percent(), (0.6+1.0)/2; got != want {
		t.Errorf("percent = %v, want %v", got, want)
	}
}

func TestWriteDoneFinishesFile(t *testing.T) {
	m := newTestModel("/proj/a.mapl")
	m.applyEvent(buildpipeline.Event{File: "/proj/a.mapl", Stage: buildpipeline.StageWrite, Status: buildpipeline.StatusDone})
	if !m.rows[0].final || m.percent() != 1.0 {
		t.Fatalf("row = %+v percent = %v", m.rows[0], m.percent())
	}
}

func TestErrorMessageAndTally(t *testing.T) {
	m := newTestModel("/proj/a.mapl", "/proj/b.mapl")
	m.applyEvent(buildpipeline.Event{File: "/proj/a.mapl", Stage: buildpipeline.StageWrite, Status: buildpipeline.StatusCached})
	m.applyEvent(buildpipeline.Event{
		File:   "/proj/b.mapl",
		Stage:  buildpipeline.StageWrite,
		Status: buildpipeline.StatusError,
		Err:    errors.New("write /proj/b.maplb: permission denied\nmore detail"),
	})
	if got := m.rows[1].errMsg; got != "write /proj/b.maplb: permission denied" {
		t.Errorf("errMsg = %q", got)
	}
	if ok, failed := m.tally(); ok != 1 || failed != 1 {
		t.Errorf("tally = %d ok, %d failed", ok, failed)
	}
	m.done = true
	view := m.View()
	if !strings.Contains(view, "1 ok, 1 failed") || !strings.Contains(view, "permission denied") {
		t.Errorf("view = %q", view)
	}
}

func TestViewShowsRelativeNames(t *testing.T) {
	m := newTestModel("/proj/scripts/main.mapl", "/proj/scripts/main.mapl")
	if len(m.rows) != 1 {
		t.Fatalf("duplicate files must be shown once, got %d", len(m.rows))
	}
	view := m.View()
	if !strings.Contains(view, "scripts/main.mapl") || strings.Contains(view, "/proj/") {
		t.Errorf("view = %q", view)
	}
	if !strings.Contains(view, "queued") {
		t.Errorf("view must show the initial status: %q", view)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"short.mapl", 20, "short.mapl"},
		{"scripts/very/long/path.mapl", 10, "scri..."},
		{"abcdef", 3, "abc"},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.width); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}
