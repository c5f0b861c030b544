package bytecode

import (
	"bytes"
	"strings"
	"testing"

	"mapl/internal/diag"
	"mapl/internal/source"
	"mapl/internal/types"
)

// testReporter собирает диагностики буфера
type testReporter struct {
	diagnostics []diag.Diagnostic
}

func (r *testReporter) Report(code diag.Code, sev diag.Severity, primary source.Span, msg string, notes []diag.Note, fixes []diag.Fix) {
	r.diagnostics = append(r.diagnostics, diag.Diagnostic{
		Severity: sev,
		Code:     code,
		Message:  msg,
		Primary:  primary,
		Notes:    notes,
		Fixes:    fixes,
	})
}

func newTestBuffer() (*Buffer, *testReporter) {
	r := &testReporter{}
	return NewBuffer(r, 0), r
}

func TestAppendLiteralEncoding(t *testing.T) {
	tests := []struct {
		name string
		lit  types.Literal
		want []byte
	}{
		{"char", types.Literal{Type: types.Of(types.Char), Char: 7}, []byte{byte(CharLiteral), 7}},
		{"int32", types.Literal{Type: types.Of(types.Int32), Int32: -2}, []byte{byte(Int32Literal), 0xfe, 0xff, 0xff, 0xff}},
		{"uint32", types.Literal{Type: types.Of(types.UInt32), UInt32: 0x01020304}, []byte{byte(UInt32Literal), 4, 3, 2, 1}},
		{"int64", types.Literal{Type: types.Of(types.Int64), Int64: 1}, []byte{byte(Int64Literal), 1, 0, 0, 0, 0, 0, 0, 0}},
		{"float32", types.Literal{Type: types.Of(types.Float32), Float32: 1}, []byte{byte(Float32Literal), 0, 0, 0x80, 0x3f}},
		{"true", types.BoolLiteral(true), []byte{byte(LiteralTrue)}},
		{"false", types.BoolLiteral(false), []byte{byte(LiteralFalse)}},
		{"null", types.NullLiteral(), []byte{byte(LiteralNull)}},
		{"string", types.StringLiteral(`a\tb`), []byte{byte(StringLiteral), 'a', '\t', 'b', 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, r := newTestBuffer()
			b.AppendLiteral(tt.lit, source.Span{})
			if !bytes.Equal(b.Bytes(), tt.want) {
				t.Fatalf("bytes = %v, want %v", b.Bytes(), tt.want)
			}
			if len(r.diagnostics) != 0 {
				t.Fatalf("unexpected diagnostics: %v", r.diagnostics)
			}
		})
	}
}

func TestAppendStringEscapes(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{`plain`, "plain"},
		{`\a\b\e\f\n\r\t\v`, "\a\b\x1b\f\n\r\t\v"},
		{`say \"hi\"`, `say "hi"`},
		{`back\\slash`, `back\slash`},
		{`\\n`, `\n`},
		{`trailing\`, `trailing\`},
	}
	for _, tt := range tests {
		b, r := newTestBuffer()
		b.AppendString(tt.raw, source.Span{})
		want := append([]byte(tt.want), 0)
		if !bytes.Equal(b.Bytes(), want) {
			t.Errorf("AppendString(%q) = %q, want %q", tt.raw, b.Bytes(), want)
		}
		if len(r.diagnostics) != 0 {
			t.Errorf("AppendString(%q) reported %v", tt.raw, r.diagnostics)
		}
	}
}

func TestAppendStringInvalidEscape(t *testing.T) {
	b, r := newTestBuffer()
	b.AppendString(`bad \q escape`, source.Span{Start: 3, End: 16})
	if b.Len() != 0 {
		t.Fatalf("nothing should be appended, got %v", b.Bytes())
	}
	if len(r.diagnostics) != 1 || r.diagnostics[0].Code != diag.LexBadEscape {
		t.Fatalf("diagnostics = %v", r.diagnostics)
	}
	if !strings.HasPrefix(r.diagnostics[0].Message, `Invalid escape sequence '\q' specified in string.`) {
		t.Fatalf("message = %q", r.diagnostics[0].Message)
	}
}

func TestAppendErrorInstructionIsReported(t *testing.T) {
	b, r := newTestBuffer()
	b.AppendInstruction(Error)
	if len(r.diagnostics) != 1 || r.diagnostics[0].Code != diag.IntErrorOpcode {
		t.Fatalf("diagnostics = %v", r.diagnostics)
	}
	if b.Bytes()[0] != byte(Error) {
		t.Fatalf("error opcode should still be written")
	}
}

func TestResolveControlFlow(t *testing.T) {
	b, _ := newTestBuffer()
	b.AppendBytes(0xAA, 0xAA)
	// break: placeholder + 2 bytes
	b.AddAnnotation(AnnotationBreak, "")
	b.AppendInstruction(Placeholder)
	b.AppendUint16(0)
	// continue
	b.AddAnnotation(AnnotationContinue, "")
	b.AppendInstruction(Placeholder)
	b.AppendUint16(0)
	b.AppendBytes(0xBB, 0xBB, 0xBB)

	b.ResolveControlFlow(AnnotationBreak, true)
	b.ResolveControlFlow(AnnotationContinue, false)

	want := []byte{
		0xAA, 0xAA,
		byte(CursorMoveForward), 6, 0, // len 11 - end 5
		byte(CursorMoveBack), 8, 0, // end 8
		0xBB, 0xBB, 0xBB,
	}
	if !bytes.Equal(b.Bytes(), want) {
		t.Fatalf("bytes = %v, want %v", b.Bytes(), want)
	}
	if len(b.Annotations()) != 0 {
		t.Fatalf("resolved annotations must be removed: %v", b.Annotations())
	}
}

func TestResolveSymbolsKeepsAnnotations(t *testing.T) {
	b, _ := newTestBuffer()
	b.AppendInstruction(Int32FunctionInvocation)
	b.AppendInstruction(NoOp)
	b.AddAnnotation(AnnotationSymbol, "GLOBAL_foo")
	b.AppendUint16(0)

	if err := b.ResolveSymbols(map[string]uint16{"GLOBAL_foo": 0x0102}); err != nil {
		t.Fatal(err)
	}
	if got := b.Uint16At(2); got != 0x0102 {
		t.Fatalf("symbol = %#x", got)
	}
	if len(b.Annotations()) != 1 {
		t.Fatalf("symbol annotations must stay")
	}
	if err := b.ResolveSymbols(map[string]uint16{}); err == nil {
		t.Fatalf("expected error for missing symbol")
	}
}

func TestZeroDebugLines(t *testing.T) {
	b, _ := newTestBuffer()
	b.AppendInstruction(DebugLine)
	b.AddAnnotation(AnnotationDebugLine, "")
	b.AppendUint16(42)
	b.AddAnnotation(AnnotationSymbol, "x")
	b.AppendUint16(9)

	b.ZeroDebugLines()
	if got := b.Uint16At(1); got != 0 {
		t.Fatalf("line = %d", got)
	}
	if got := b.Uint16At(3); got != 9 {
		t.Fatalf("unrelated operand changed: %d", got)
	}
	if len(b.Annotations()) != 1 || b.Annotations()[0].Kind != AnnotationSymbol {
		t.Fatalf("annotations = %v", b.Annotations())
	}
}

func TestPrependShiftsAnnotations(t *testing.T) {
	b, _ := newTestBuffer()
	b.AddAnnotation(AnnotationSymbol, "s")
	b.AppendUint16(1)
	b.Prepend(9, 9, 9, 9)
	if b.Annotations()[0].Offset != 4 {
		t.Fatalf("offset = %d", b.Annotations()[0].Offset)
	}
	if !bytes.Equal(b.Bytes(), []byte{9, 9, 9, 9, 1, 0}) {
		t.Fatalf("bytes = %v", b.Bytes())
	}
}

// dependency builds: [dep prefix][EOD][own code with a primitive and an allocated address]
func dependencyBuffer() *Buffer {
	b, _ := newTestBuffer()
	b.AppendBytes(0xEE, 0xEE)
	b.AddAnnotation(AnnotationPrimitiveReference, "/inner.mapl")
	b.AppendUint16(3)
	b.AddAnnotation(AnnotationEndOfDependencies, "")
	b.AppendInstruction(Int32Variable)
	b.AddAnnotation(AnnotationPrimitiveReference, "/dep.mapl")
	b.AppendUint16(4)
	b.AppendInstruction(StringVariable)
	b.AddAnnotation(AnnotationAllocatedReference, "/dep.mapl")
	b.AppendUint16(1)
	return b
}

func TestAppendBufferUniformOffset(t *testing.T) {
	dep := dependencyBuffer()
	b, _ := newTestBuffer()
	b.AppendBytes(0x11)
	b.AppendBuffer(dep, dep.EndOfDependencies(), 10, 2)

	want := []byte{0x11, byte(Int32Variable), 14, 0, byte(StringVariable), 3, 0}
	if !bytes.Equal(b.Bytes(), want) {
		t.Fatalf("bytes = %v, want %v", b.Bytes(), want)
	}
	anns := b.Annotations()
	if len(anns) != 2 {
		t.Fatalf("annotations = %v", anns)
	}
	if anns[0].Offset != 2 || anns[1].Offset != 5 {
		t.Fatalf("offsets = %d, %d", anns[0].Offset, anns[1].Offset)
	}
	for _, a := range anns {
		if a.Kind == AnnotationEndOfDependencies {
			t.Fatalf("end-of-dependencies marker must not be copied")
		}
	}
}

func TestAppendBufferRebasePerOwner(t *testing.T) {
	b, _ := newTestBuffer()
	b.AppendInstruction(Int32Variable)
	b.AddAnnotation(AnnotationPrimitiveReference, "/a.mapl")
	b.AppendUint16(8)
	b.AppendInstruction(Int32Variable)
	b.AddAnnotation(AnnotationPrimitiveReference, "/b.mapl")
	b.AppendUint16(2)

	dst, _ := newTestBuffer()
	dst.AppendBufferRelocated(b, 0, Rebase{
		From: map[string]Base{"/a.mapl": {Primitive: 8}, "/b.mapl": {Primitive: 0}},
		To:   map[string]Base{"/a.mapl": {Primitive: 0}, "/b.mapl": {Primitive: 4}},
	})
	if got := dst.Uint16At(1); got != 0 {
		t.Fatalf("a address = %d, want 0", got)
	}
	if got := dst.Uint16At(4); got != 6 {
		t.Fatalf("b address = %d, want 6", got)
	}
}

func TestSelectors(t *testing.T) {
	tests := []struct {
		got, want Instruction
	}{
		{Add(types.String), StringConcat},
		{Add(types.UInt64), UInt64Add},
		{Negate(types.UInt32), Error},
		{Literal(types.Pointer), Error},
		{Equal(types.Pointer), LogicalEqualityPointer},
		{Assign(types.Boolean), BooleanAssign},
		{Typecast(types.Pointer), Error},
		{Variable(types.Void), Error},
	}
	for i, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("case %d: got %s, want %s", i, tt.got, tt.want)
		}
	}
}
