package diag

import "slices"

// Bag collects the diagnostics of one file or one compilation. A positive
// limit caps how many are kept; the rest are counted as dropped.
type Bag struct {
	items   []Diagnostic
	max     int
	dropped int
}

// NewBag returns a bag keeping at most limit diagnostics. Zero or a negative
// limit means no cap.
func NewBag(limit int) *Bag {
	return &Bag{
		items: make([]Diagnostic, 0, min(max(limit, 0), 16)),
		max:   limit,
	}
}

// Add добавляет диагностику, учитывая лимит.
// Возвращает false, если диагностика не добавлена (достигнут лимит).
func (b *Bag) Add(d Diagnostic) bool {
	if b.max > 0 && len(b.items) >= b.max {
		b.dropped++
		return false
	}
	b.items = append(b.items, d)
	return true
}

// Dropped is the number of diagnostics rejected by the cap.
func (b *Bag) Dropped() int {
	return b.dropped
}

// HasErrors возвращает true, если есть хотя бы одна ошибка.
func (b *Bag) HasErrors() bool {
	return b.Count(SevError) > 0
}

// HasWarnings возвращает true, если есть хотя бы одно предупреждение.
func (b *Bag) HasWarnings() bool {
	return b.Count(SevWarning) > 0
}

// Count returns how many kept diagnostics have exactly severity sev.
func (b *Bag) Count(sev Severity) int {
	n := 0
	for i := range b.items {
		if b.items[i].Severity == sev {
			n++
		}
	}
	return n
}

func (b *Bag) Len() int {
	return len(b.items)
}

// Items возвращает read-only slice диагностик.
// ВАЖНО: не модифицируйте возвращаемый срез! (он указывает на внутренний массив Bag)
func (b *Bag) Items() []Diagnostic {
	return b.items
}

// Merge appends every diagnostic of other. A compilation-wide bag reports
// everything its files kept, so the cap grows to fit.
func (b *Bag) Merge(other *Bag) {
	if other == nil {
		return
	}
	if b.max > 0 && len(b.items)+len(other.items) > b.max {
		b.max = len(b.items) + len(other.items)
	}
	b.items = append(b.items, other.items...)
	b.dropped += other.dropped
}

// Sort orders diagnostics by file, start, end, severity (errors first) and
// code so output does not depend on compilation order.
func (b *Bag) Sort() {
	slices.SortStableFunc(b.items, func(di, dj Diagnostic) int {
		switch {
		case di.Primary.File != dj.Primary.File:
			return cmpOrder(di.Primary.File < dj.Primary.File)
		case di.Primary.Start != dj.Primary.Start:
			return cmpOrder(di.Primary.Start < dj.Primary.Start)
		case di.Primary.End != dj.Primary.End:
			return cmpOrder(di.Primary.End < dj.Primary.End)
		case di.Severity != dj.Severity:
			return cmpOrder(di.Severity > dj.Severity)
		case di.Code != dj.Code:
			return cmpOrder(di.Code < dj.Code)
		}
		return 0
	})
}

func cmpOrder(less bool) int {
	if less {
		return -1
	}
	return 1
}
