package source

import "testing"

func TestFileSetVersioning(t *testing.T) {
	fs := NewFileSet()

	id1 := fs.Add("/proj/main.mapl", []byte("int32 a = 1;"), 0)
	id2 := fs.Add("/proj/main.mapl", []byte("int32 a = 2;"), 0)
	if id1 == id2 {
		t.Fatalf("expected distinct ids, got %d twice", id1)
	}

	// GetLatest должен вернуть последнюю версию
	latest, ok := fs.GetLatest("/proj/./main.mapl")
	if !ok || latest != id2 {
		t.Fatalf("expected latest id %d, got %d (ok=%v)", id2, latest, ok)
	}
	if got := string(fs.Get(id1).Content); got != "int32 a = 1;" {
		t.Errorf("old version content changed: %q", got)
	}
}

func TestAddVirtualNormalizesLineEndings(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("a.mapl", []byte("\xEF\xBB\xBFa\r\nb\r\n"))
	f := fs.Get(id)

	if string(f.Content) != "a\nb\n" {
		t.Fatalf("unexpected content %q", f.Content)
	}
	if f.Flags&FileVirtual == 0 || f.Flags&FileHadBOM == 0 || f.Flags&FileNormalizedCRLF == 0 {
		t.Errorf("missing flags: %b", f.Flags)
	}
	want := []uint32{1, 3}
	if len(f.LineIdx) != len(want) || f.LineIdx[0] != want[0] || f.LineIdx[1] != want[1] {
		t.Errorf("LineIdx = %v, want %v", f.LineIdx, want)
	}
}

func TestResolve(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("a.mapl", []byte("ab\ncd\n\nx"))

	tests := []struct {
		off  uint32
		want LineCol
	}{
		{0, LineCol{1, 1}},
		{2, LineCol{1, 3}}, // сам перевод строки принадлежит первой строке
		{3, LineCol{2, 1}},
		{4, LineCol{2, 2}},
		{6, LineCol{3, 1}},
		{7, LineCol{4, 1}},
	}
	for _, tt := range tests {
		start, _ := fs.Resolve(Span{File: id, Start: tt.off, End: tt.off})
		if start != tt.want {
			t.Errorf("offset %d: got %+v, want %+v", tt.off, start, tt.want)
		}
	}
}

func TestGetLine(t *testing.T) {
	fs := NewFileSet()
	f := fs.Get(fs.AddVirtual("a.mapl", []byte("first\nsecond\nthird")))

	for i, want := range []string{"", "first", "second", "third", ""} {
		if got := f.GetLine(uint32(i)); got != want {
			t.Errorf("GetLine(%d) = %q, want %q", i, got, want)
		}
	}
}

func TestAddRawNormalizes(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddRaw("/s/main.mapl", []byte("\xEF\xBB\xBFexit;\r\n"), 0)
	f := fs.Get(id)
	if string(f.Content) != "exit;\n" {
		t.Errorf("content not normalized: %q", f.Content)
	}
	if f.Flags&FileHadBOM == 0 || f.Flags&FileNormalizedCRLF == 0 {
		t.Errorf("flags = %v", f.Flags)
	}
	if _, ok := fs.GetByPath("/s/main.mapl"); !ok {
		t.Error("GetByPath missed the added file")
	}
}

func TestSpanCover(t *testing.T) {
	a := Span{File: 1, Start: 4, End: 6}
	b := Span{File: 1, Start: 2, End: 5}
	if got := a.Cover(b); got != (Span{File: 1, Start: 2, End: 6}) {
		t.Errorf("Cover = %v", got)
	}
	if got := a.Cover(Span{File: 2, Start: 0, End: 10}); got != a {
		t.Errorf("cross-file Cover should keep receiver, got %v", got)
	}
	if !a.Cover(b).Contains(a) || a.Contains(b) {
		t.Errorf("Contains disagrees with Cover")
	}
	if a.Contains(Span{File: 2, Start: 4, End: 5}) {
		t.Errorf("spans of different files never contain each other")
	}
}

func TestLocationAndPathStyles(t *testing.T) {
	fs := NewFileSetWithBase("/proj")
	id := fs.AddVirtual("/proj/scripts/main.mapl", []byte("int32 a;\nbreak;\n"))
	empty := fs.AddVirtual("/proj/missing.mapl", nil)

	tests := []struct {
		span  Span
		style PathStyle
		want  string
	}{
		{Span{File: id, Start: 9, End: 14}, PathAsLoaded, "/proj/scripts/main.mapl:2:1"},
		{Span{File: id, Start: 9, End: 14}, PathRelative, "scripts/main.mapl:2:1"},
		{Span{File: id, Start: 4, End: 5}, PathBase, "main.mapl:1:5"},
		{Span{File: empty}, PathRelative, "missing.mapl"},
		{Span{File: 42}, PathAsLoaded, "<unknown>"},
	}
	for _, tt := range tests {
		if got := fs.Location(tt.span, tt.style); got != tt.want {
			t.Errorf("Location(%v, %d) = %q, want %q", tt.span, tt.style, got, tt.want)
		}
	}
	if fs.Get(42) != nil {
		t.Error("Get of an unknown id must be nil")
	}
}
