package trace

import (
	"fmt"
	"io"
	"sync"
)

const defaultRingSize = 4096

// RingTracer keeps the most recent events in memory so a failed build can
// dump what led up to the failure.
type RingTracer struct {
	mu    sync.Mutex
	buf   []Event
	total uint64 // событий записано за всё время
	level Level
}

// NewRingTracer returns a ring holding up to size events. A size of 0 or
// less picks 4096.
func NewRingTracer(size int, level Level) *RingTracer {
	if size <= 0 {
		size = defaultRingSize
	}
	return &RingTracer{buf: make([]Event, size), level: level}
}

func (t *RingTracer) Emit(ev *Event) {
	if !t.level.ShouldEmit(ev.Scope) {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	slot := &t.buf[t.total%uint64(len(t.buf))]
	*slot = *ev
	slot.Seq = NextSeq()
	t.total++
}

// Snapshot returns the kept events, oldest first.
func (t *RingTracer) Snapshot() []Event {
	t.mu.Lock()
	defer t.mu.Unlock()
	size := uint64(len(t.buf))
	if t.total <= size {
		return append([]Event(nil), t.buf[:t.total]...)
	}
	split := t.total % size
	out := make([]Event, 0, size)
	out = append(out, t.buf[split:]...)
	return append(out, t.buf[:split]...)
}

// Overwritten reports how many events fell out of the ring.
func (t *RingTracer) Overwritten() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.total - min(t.total, uint64(len(t.buf)))
}

// Dump writes the kept events to w, oldest first. When older events were
// lost a text dump starts with a line saying how many.
func (t *RingTracer) Dump(w io.Writer, format Format) error {
	format = formatFor(format, "")
	if lost := t.Overwritten(); lost > 0 && format == FormatText {
		if _, err := fmt.Fprintf(w, "... %d earlier events overwritten\n", lost); err != nil {
			return err
		}
	}
	for _, ev := range t.Snapshot() {
		if _, err := w.Write(FormatEvent(&ev, format)); err != nil {
			return err
		}
	}
	return nil
}

func (t *RingTracer) Flush() error  { return nil }
func (t *RingTracer) Close() error  { return nil }
func (t *RingTracer) Level() Level  { return t.level }
func (t *RingTracer) Enabled() bool { return t.level > LevelOff }
