package types

import "fmt"

// Primitive is the storage class of a MaPL value. Every object is a Pointer.
type Primitive uint8

const (
	// Uninitialized marks "no type yet": an unresolved variable lookup, an unfoldable
	// constant or a generic parameter reference inside a GenericType.
	Uninitialized Primitive = iota
	Char
	Int32
	Int64
	UInt32
	UInt64
	Float32
	Float64
	String
	Boolean
	Pointer
	// SignedIntAmbiguous is a negated integer literal such as "-1".
	SignedIntAmbiguous
	// IntAmbiguous is an integer literal such as "1".
	IntAmbiguous
	// FloatAmbiguous is a floating point literal such as "1.5".
	FloatAmbiguous
	Void
	// TypeError is the sentinel for failed inference.
	TypeError
)

// String returns the keyword or human description used in diagnostics and descriptors.
func (p Primitive) String() string {
	switch p {
	case Char:
		return "char"
	case Int32:
		return "int32"
	case Int64:
		return "int64"
	case UInt32:
		return "uint32"
	case UInt64:
		return "uint64"
	case Float32:
		return "float32"
	case Float64:
		return "float64"
	case Boolean:
		return "bool"
	case String:
		return "string"
	case Pointer:
		return "pointer"
	case SignedIntAmbiguous:
		return "signed integer"
	case IntAmbiguous:
		return "integer"
	case FloatAmbiguous:
		return "floating point"
	case Void:
		return "void"
	case Uninitialized:
		return "uninitialized"
	case TypeError:
		return "invalid type"
	default:
		return fmt.Sprintf("Primitive(%d)", uint8(p))
	}
}

// IsAmbiguous reports whether p is one of the literal-only numeric kinds.
func (p Primitive) IsAmbiguous() bool {
	return p == FloatAmbiguous || p == SignedIntAmbiguous || p == IntAmbiguous
}

func (p Primitive) IsConcreteFloat() bool {
	return p == Float32 || p == Float64
}

func (p Primitive) IsConcreteSignedInt() bool {
	return p == Int32 || p == Int64
}

func (p Primitive) IsConcreteUnsignedInt() bool {
	return p == Char || p == UInt32 || p == UInt64
}

// IsIntegral includes the ambiguous integer kinds.
func (p Primitive) IsIntegral() bool {
	return p.IsConcreteSignedInt() || p.IsConcreteUnsignedInt() ||
		p == IntAmbiguous || p == SignedIntAmbiguous
}

// IsNumeric includes every ambiguous kind.
func (p Primitive) IsNumeric() bool {
	return p.IsConcreteFloat() || p.IsConcreteSignedInt() || p.IsConcreteUnsignedInt() || p.IsAmbiguous()
}

// IsConcrete reports whether values of p can be stored in a variable.
func (p Primitive) IsConcrete() bool {
	return p.IsConcreteFloat() || p.IsConcreteSignedInt() || p.IsConcreteUnsignedInt() ||
		p == Boolean || p == String || p == Pointer
}

// ByteSize is the width of p in the primitive address space.
// Strings live in the allocated slot space and report 0.
func (p Primitive) ByteSize() uint16 {
	switch p {
	case Char, Boolean:
		return 1
	case Int32, UInt32, Float32:
		return 4
	case Int64, UInt64, Float64, Pointer:
		return 8
	default:
		return 0
	}
}

var primitiveKeywords = map[string]Primitive{
	"char":    Char,
	"int32":   Int32,
	"int64":   Int64,
	"uint32":  UInt32,
	"uint64":  UInt64,
	"float32": Float32,
	"float64": Float64,
	"bool":    Boolean,
	"string":  String,
}

// PrimitiveForKeyword maps a type keyword to its primitive.
func PrimitiveForKeyword(name string) (Primitive, bool) {
	p, ok := primitiveKeywords[name]
	return p, ok
}

// IsPrimitiveName reports whether a declared name would shadow a primitive keyword.
func IsPrimitiveName(name string) bool {
	_, ok := primitiveKeywords[name]
	return ok || name == "void"
}

// NumericAssignable is the implicit widening lattice for ambiguous literals.
// Identical primitives are handled by the caller.
func NumericAssignable(from, to Primitive) bool {
	switch to {
	case Char, UInt32, UInt64:
		return from == IntAmbiguous
	case Int32, Int64:
		return from == SignedIntAmbiguous || from == IntAmbiguous
	case Float32, Float64:
		return from == FloatAmbiguous || from == SignedIntAmbiguous || from == IntAmbiguous
	default:
		return false
	}
}
