package bytecode

import (
	"encoding/binary"
	"fmt"
	"math"
	"slices"
	"strings"

	"fortio.org/safecast"

	"mapl/internal/diag"
	"mapl/internal/source"
	"mapl/internal/types"
)

// AnnotationKind classifies a side-channel mark on a buffer offset.
type AnnotationKind uint8

const (
	AnnotationBreak AnnotationKind = iota
	AnnotationContinue
	AnnotationPrimitiveDeclaration
	AnnotationPrimitiveReference
	AnnotationAllocatedDeclaration
	AnnotationAllocatedReference
	AnnotationSymbol
	AnnotationDebugLine
	AnnotationEndOfDependencies
)

func (k AnnotationKind) String() string {
	switch k {
	case AnnotationBreak:
		return "break"
	case AnnotationContinue:
		return "continue"
	case AnnotationPrimitiveDeclaration:
		return "primitive_declaration"
	case AnnotationPrimitiveReference:
		return "primitive_reference"
	case AnnotationAllocatedDeclaration:
		return "allocated_declaration"
	case AnnotationAllocatedReference:
		return "allocated_reference"
	case AnnotationSymbol:
		return "symbol"
	case AnnotationDebugLine:
		return "debug_line"
	case AnnotationEndOfDependencies:
		return "end_of_dependencies"
	}
	return fmt.Sprintf("annotation(%d)", uint8(k))
}

// IsPrimitiveAddress reports whether the annotated uint16 is a primitive memory address.
func (k AnnotationKind) IsPrimitiveAddress() bool {
	return k == AnnotationPrimitiveDeclaration || k == AnnotationPrimitiveReference
}

// IsAllocatedAddress reports whether the annotated uint16 is an allocated slot index.
func (k AnnotationKind) IsAllocatedAddress() bool {
	return k == AnnotationAllocatedDeclaration || k == AnnotationAllocatedReference
}

// Annotation marks a byte offset. For symbols Text is the descriptor, for
// variable addresses it is the path of the declaring file.
type Annotation struct {
	Offset int
	Kind   AnnotationKind
	Text   string
}

// Buffer is an append-only bytecode sequence with annotations.
type Buffer struct {
	bytes       []byte
	annotations []Annotation
	reporter    diag.Reporter
	file        source.FileID
}

// NewBuffer creates an empty buffer that reports encoding problems against file.
func NewBuffer(r diag.Reporter, file source.FileID) *Buffer {
	return &Buffer{
		bytes:       make([]byte, 0, 64),
		annotations: make([]Annotation, 0, 16),
		reporter:    r,
		file:        file,
	}
}

func (b *Buffer) Bytes() []byte { return b.bytes }

func (b *Buffer) Len() int { return len(b.bytes) }

// Annotations returns the live annotation list; callers must not modify it.
func (b *Buffer) Annotations() []Annotation { return b.annotations }

func (b *Buffer) AppendBytes(p ...byte) {
	b.bytes = append(b.bytes, p...)
}

func (b *Buffer) AppendUint16(v uint16) {
	b.bytes = binary.LittleEndian.AppendUint16(b.bytes, v)
}

// AppendLength appends a byte count as a uint16 operand. Counts that do not
// fit are reported and written as zero.
func (b *Buffer) AppendLength(n int, span source.Span) {
	v, err := safecast.Conv[uint16](n)
	if err != nil {
		diag.ReportError(b.reporter, diag.IntJumpTooLong, span,
			fmt.Sprintf("Bytecode length %d exceeds the maximum of %d.", n, math.MaxUint16)).Emit()
	}
	b.AppendUint16(v)
}

// AppendInstruction appends a single opcode. Appending Error is reported.
func (b *Buffer) AppendInstruction(op Instruction) {
	if op == Error {
		diag.ReportError(b.reporter, diag.IntErrorOpcode, source.Span{File: b.file},
			"Internal compiler error. Encountered error instruction.").Emit()
	}
	b.bytes = append(b.bytes, byte(op))
}

// AppendLiteral appends the literal instruction for l followed by its payload.
func (b *Buffer) AppendLiteral(l types.Literal, span source.Span) {
	switch l.Type.Primitive {
	case types.Char:
		b.AppendInstruction(CharLiteral)
		b.bytes = append(b.bytes, l.Char)
	case types.Int32:
		b.AppendInstruction(Int32Literal)
		b.bytes = binary.LittleEndian.AppendUint32(b.bytes, uint32(l.Int32))
	case types.Int64:
		b.AppendInstruction(Int64Literal)
		b.bytes = binary.LittleEndian.AppendUint64(b.bytes, uint64(l.Int64))
	case types.UInt32:
		b.AppendInstruction(UInt32Literal)
		b.bytes = binary.LittleEndian.AppendUint32(b.bytes, l.UInt32)
	case types.UInt64:
		b.AppendInstruction(UInt64Literal)
		b.bytes = binary.LittleEndian.AppendUint64(b.bytes, l.UInt64)
	case types.Float32:
		b.AppendInstruction(Float32Literal)
		b.bytes = binary.LittleEndian.AppendUint32(b.bytes, math.Float32bits(l.Float32))
	case types.Float64:
		b.AppendInstruction(Float64Literal)
		b.bytes = binary.LittleEndian.AppendUint64(b.bytes, math.Float64bits(l.Float64))
	case types.String:
		b.AppendInstruction(StringLiteral)
		b.AppendString(l.Str, span)
	case types.Boolean:
		if l.Bool {
			b.AppendInstruction(LiteralTrue)
		} else {
			b.AppendInstruction(LiteralFalse)
		}
	case types.Pointer:
		b.AppendInstruction(LiteralNull)
	}
}

// AppendString resolves escape sequences in raw and appends the result
// terminated by NUL. An unknown escape is reported and nothing is appended.
func (b *Buffer) AppendString(raw string, span source.Span) {
	s, bad, ok := unescape(raw)
	if !ok {
		diag.ReportError(b.reporter, diag.LexBadEscape, span,
			"Invalid escape sequence '"+bad+"' specified in string. Accepted escape sequences are: \\a, \\b, \\e, \\f, \\n, \\r, \\t, \\v, \\\", \\\\.").Emit()
		return
	}
	if i := strings.IndexByte(s, 0); i >= 0 {
		s = s[:i]
	}
	b.bytes = append(b.bytes, s...)
	b.bytes = append(b.bytes, 0)
}

var escapes = map[byte]byte{
	'a':  '\a',
	'b':  '\b',
	'e':  0x1b,
	'f':  '\f',
	'n':  '\n',
	'r':  '\r',
	't':  '\t',
	'v':  '\v',
	'"':  '"',
	'\\': '\\',
}

// unescape returns the decoded string, or the offending sequence.
func unescape(raw string) (decoded, bad string, ok bool) {
	if strings.IndexByte(raw, '\\') < 0 {
		return raw, "", true
	}
	var sb strings.Builder
	sb.Grow(len(raw))
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		// одиночный обратный слэш в конце или перед переводом строки остаётся как есть
		if c != '\\' || i+1 >= len(raw) || raw[i+1] == '\n' {
			sb.WriteByte(c)
			continue
		}
		r, known := escapes[raw[i+1]]
		if !known {
			return "", raw[i : i+2], false
		}
		sb.WriteByte(r)
		i++
	}
	return sb.String(), "", true
}

// AddAnnotation marks the current end of the buffer.
func (b *Buffer) AddAnnotation(kind AnnotationKind, text string) {
	b.annotations = append(b.annotations, Annotation{Offset: len(b.bytes), Kind: kind, Text: text})
}

// Overwrite replaces bytes starting at offset.
func (b *Buffer) Overwrite(offset int, p ...byte) {
	copy(b.bytes[offset:], p)
}

func (b *Buffer) OverwriteUint16(offset int, v uint16) {
	binary.LittleEndian.PutUint16(b.bytes[offset:], v)
}

// Uint16At reads a little-endian operand.
func (b *Buffer) Uint16At(offset int) uint16 {
	return binary.LittleEndian.Uint16(b.bytes[offset:])
}

// Prepend inserts p at the start of the buffer and shifts every annotation.
func (b *Buffer) Prepend(p ...byte) {
	b.bytes = slices.Insert(b.bytes, 0, p...)
	for i := range b.annotations {
		b.annotations[i].Offset += len(p)
	}
}

// EndOfDependencies returns the offset of the end-of-dependencies marker, or 0.
func (b *Buffer) EndOfDependencies() int {
	for _, a := range b.annotations {
		if a.Kind == AnnotationEndOfDependencies {
			return a.Offset
		}
	}
	return 0
}

// AppendBuffer copies other's bytes at or after cutoff and adds prim and
// alloc to every primitive address and allocated index it carries.
func (b *Buffer) AppendBuffer(other *Buffer, cutoff int, prim, alloc uint16) {
	b.AppendBufferRelocated(other, cutoff, Offset{Primitive: prim, Allocated: alloc})
}

// AppendBufferRelocated copies other's tail starting at cutoff. Annotations
// before cutoff and end-of-dependencies markers are dropped. Every variable
// address in the tail is rewritten through rel.
func (b *Buffer) AppendBufferRelocated(other *Buffer, cutoff int, rel Relocator) {
	prev := len(b.bytes)
	b.bytes = append(b.bytes, other.bytes[cutoff:]...)
	shift := prev - cutoff
	for _, a := range other.annotations {
		if a.Offset < cutoff || a.Kind == AnnotationEndOfDependencies {
			continue
		}
		a.Offset += shift
		if rel != nil && (a.Kind.IsPrimitiveAddress() || a.Kind.IsAllocatedAddress()) {
			b.OverwriteUint16(a.Offset, rel.Relocate(a.Kind, a.Text, b.Uint16At(a.Offset)))
		}
		b.annotations = append(b.annotations, a)
	}
}

// ResolveControlFlow turns every pending break or continue placeholder into a
// cursor move to the end of the buffer (jumpToEnd) or back to its start.
// Resolved annotations are removed.
func (b *Buffer) ResolveControlFlow(kind AnnotationKind, jumpToEnd bool) {
	for i := len(b.annotations) - 1; i >= 0; i-- {
		a := b.annotations[i]
		if a.Kind != kind {
			continue
		}
		end := a.Offset + 1 + 2
		var move int
		if jumpToEnd {
			b.bytes[a.Offset] = byte(CursorMoveForward)
			move = len(b.bytes) - end
		} else {
			b.bytes[a.Offset] = byte(CursorMoveBack)
			move = end
		}
		v, err := safecast.Conv[uint16](move)
		if err != nil {
			diag.ReportError(b.reporter, diag.IntJumpTooLong, source.Span{File: b.file},
				fmt.Sprintf("Jump of %d bytes exceeds the maximum of %d.", move, math.MaxUint16)).Emit()
		}
		b.OverwriteUint16(a.Offset+1, v)
		b.annotations = slices.Delete(b.annotations, i, i+1)
	}
}

// ResolveSymbols writes the numeric symbol for every symbol annotation. The
// annotations are kept. A descriptor missing from table is returned as an error.
func (b *Buffer) ResolveSymbols(table map[string]uint16) error {
	var missing []string
	for _, a := range b.annotations {
		if a.Kind != AnnotationSymbol {
			continue
		}
		id, ok := table[a.Text]
		if !ok {
			missing = append(missing, a.Text)
			continue
		}
		b.OverwriteUint16(a.Offset, id)
	}
	if len(missing) > 0 {
		return fmt.Errorf("unresolved symbols: %s", strings.Join(missing, ", "))
	}
	return nil
}

// ZeroDebugLines writes line 0 into every debug line operand and drops the annotations.
func (b *Buffer) ZeroDebugLines() {
	b.annotations = slices.DeleteFunc(b.annotations, func(a Annotation) bool {
		if a.Kind != AnnotationDebugLine {
			return false
		}
		b.OverwriteUint16(a.Offset, 0)
		return true
	})
}
