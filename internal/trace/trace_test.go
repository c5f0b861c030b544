package trace

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{"off", LevelOff, false},
		{"PHASE", LevelPhase, false},
		{" detail ", LevelDetail, false},
		{"debug", LevelDebug, false},
		{"verbose", LevelOff, true},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, %v", tt.in, got, err)
		}
	}
}

func TestLevelScopes(t *testing.T) {
	tests := []struct {
		level Level
		scope Scope
		want  bool
	}{
		{LevelOff, ScopeDriver, false},
		{LevelPhase, ScopePass, true},
		{LevelPhase, ScopeUnit, false},
		{LevelDetail, ScopeUnit, true},
		{LevelDetail, ScopeNode, false},
		{LevelDebug, ScopeNode, true},
	}
	for _, tt := range tests {
		if got := tt.level.ShouldEmit(tt.scope); got != tt.want {
			t.Errorf("%s.ShouldEmit(%s) = %v, want %v", tt.level, tt.scope, got, tt.want)
		}
	}
}

func TestStreamTracerText(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelPhase, FormatText)

	root := Begin(tr, ScopeDriver, "build", 0)
	pass := Begin(tr, ScopePass, "emit", root.ID())
	unit := Begin(tr, ScopeUnit, "unit:main.mapl", pass.ID())
	unit.End("ok")
	pass.End("12 bytes")
	root.End("")

	out := buf.String()
	// unit-спаны отфильтрованы уровнем phase
	if strings.Contains(out, "unit:main.mapl") {
		t.Errorf("unit span leaked at phase level:\n%s", out)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 4 {
		t.Fatalf("lines = %d:\n%s", len(lines), out)
	}
	if !strings.Contains(lines[1], "→ emit") || !strings.Contains(lines[2], "← emit (12 bytes)") {
		t.Errorf("unexpected text:\n%s", out)
	}
}

func TestStreamTracerNDJSON(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelDebug, FormatNDJSON)
	Point(tr, ScopeNode, "stmt", "line 3", 0)

	var ev map[string]any
	if err := json.Unmarshal(buf.Bytes(), &ev); err != nil {
		t.Fatalf("invalid ndjson %q: %v", buf.String(), err)
	}
	if ev["kind"] != "point" || ev["scope"] != "node" || ev["detail"] != "line 3" {
		t.Errorf("event = %v", ev)
	}
}

func TestRingTracerWraps(t *testing.T) {
	tr := NewRingTracer(2, LevelPhase)
	for _, name := range []string{"parse", "api", "emit"} {
		Begin(tr, ScopePass, name, 0)
	}
	events := tr.Snapshot()
	if len(events) != 2 || events[0].Name != "api" || events[1].Name != "emit" {
		t.Fatalf("snapshot = %+v", events)
	}

	if tr.Overwritten() != 1 {
		t.Errorf("overwritten = %d, want 1", tr.Overwritten())
	}

	var buf bytes.Buffer
	if err := tr.Dump(&buf, FormatAuto); err != nil {
		t.Fatal(err)
	}
	// строка о потерянных событиях плюс два события
	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	if len(lines) != 3 || lines[0] != "... 1 earlier events overwritten" {
		t.Errorf("dump = %q", buf.String())
	}
}

func TestRingTracerBeforeWrap(t *testing.T) {
	tr := NewRingTracer(0, LevelDetail)
	Begin(tr, ScopeUnit, "unit:main.mapl", 0)
	// node-события отфильтрованы уровнем
	Point(tr, ScopeNode, "stmt", "", 0)
	events := tr.Snapshot()
	if len(events) != 1 || events[0].Kind != KindSpanBegin || tr.Overwritten() != 0 {
		t.Fatalf("snapshot = %+v", events)
	}
	if len(tr.buf) != defaultRingSize {
		t.Errorf("default size = %d", len(tr.buf))
	}
}

func TestNopAndContext(t *testing.T) {
	if FromContext(context.Background()) != Nop {
		t.Error("a bare context must carry Nop")
	}
	span := Begin(Nop, ScopeDriver, "build", 0)
	if span.ID() != 0 || span.End("") != 0 {
		t.Error("spans of Nop are inert")
	}

	tr := NewRingTracer(4, LevelDebug)
	ctx := WithTracer(context.Background(), tr)
	if FromContext(ctx) != Tracer(tr) {
		t.Error("WithTracer must round-trip")
	}
}

func TestNewPicksFormatFromPath(t *testing.T) {
	if got := formatFor(FormatAuto, "out/trace.ndjson"); got != FormatNDJSON {
		t.Errorf("formatFor(.ndjson) = %v", got)
	}
	if got := formatFor(FormatAuto, "-"); got != FormatText {
		t.Errorf("formatFor(-) = %v", got)
	}
	tr, err := New(Config{Level: LevelOff})
	if err != nil || tr.Enabled() {
		t.Errorf("New(off) = %v, %v", tr, err)
	}
	if _, err := ParseMode("both"); err == nil {
		t.Error("only stream and ring are supported")
	}
	if m, err := ParseMode(" Ring "); err != nil || m != ModeRing || m.String() != "ring" {
		t.Errorf("ParseMode(ring) = %v, %v", m, err)
	}
}
