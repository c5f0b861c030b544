package types

import (
	"fmt"
	"math"
	"math/bits"
	"strconv"
	"strings"
)

// Literal is a compile-time constant. Only the field matching Type.Primitive is
// meaningful. Ambiguous kinds are stored in their widest representation:
// IntAmbiguous in UInt64, SignedIntAmbiguous in Int64, FloatAmbiguous in Float64.
type Literal struct {
	Type    Type
	Char    uint8
	Int32   int32
	Int64   int64
	UInt32  uint32
	UInt64  uint64
	Float32 float32
	Float64 float64
	Bool    bool
	Str     string
}

// NotConstant is returned by folding when an expression has no compile-time value.
var NotConstant = Literal{}

// IsConstant reports whether l carries a value.
func (l Literal) IsConstant() bool {
	return l.Type.Primitive != Uninitialized && l.Type.Primitive != TypeError
}

func IntLiteral(v uint64) Literal {
	return Literal{Type: Of(IntAmbiguous), UInt64: v}
}

func SignedLiteral(v int64) Literal {
	return Literal{Type: Of(SignedIntAmbiguous), Int64: v}
}

func FloatLiteral(v float64) Literal {
	return Literal{Type: Of(FloatAmbiguous), Float64: v}
}

func StringLiteral(s string) Literal {
	return Literal{Type: Of(String), Str: s}
}

func BoolLiteral(v bool) Literal {
	return Literal{Type: Of(Boolean), Bool: v}
}

func NullLiteral() Literal {
	return Literal{Type: Null()}
}

// String renders the value for debugging and test failures.
func (l Literal) String() string {
	switch l.Type.Primitive {
	case Char:
		return strconv.FormatUint(uint64(l.Char), 10)
	case Int32:
		return strconv.FormatInt(int64(l.Int32), 10)
	case Int64, SignedIntAmbiguous:
		return strconv.FormatInt(l.Int64, 10)
	case UInt32:
		return strconv.FormatUint(uint64(l.UInt32), 10)
	case UInt64, IntAmbiguous:
		return strconv.FormatUint(l.UInt64, 10)
	case Float32:
		return strconv.FormatFloat(float64(l.Float32), 'f', 6, 32)
	case Float64, FloatAmbiguous:
		return strconv.FormatFloat(l.Float64, 'f', 6, 64)
	case String:
		return l.Str
	case Boolean:
		return strconv.FormatBool(l.Bool)
	case Pointer:
		return "0x0000000000000000"
	default:
		return l.Type.Primitive.String()
	}
}

// RangeError reports a constant that does not fit the target width.
type RangeError struct {
	Value  string
	Bits   int
	Signed bool
}

func (e *RangeError) Error() string {
	kind := "unsigned"
	if e.Signed {
		kind = "signed"
	}
	return fmt.Sprintf("A value of %s is outside the range of numbers that can be represented by a %d-bit %s integer.", e.Value, e.Bits, kind)
}

// ConversionError reports a string constant that cannot be read as a number.
type ConversionError struct {
	Value string
	To    Primitive
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("The string \"%s\" cannot be converted to %s.", e.Value, e.To)
}

// caster accumulates the first range failure of a conversion.
type caster struct {
	err error
}

func (c *caster) signed(v int64, width int) {
	if c.err != nil || width >= 64 {
		return
	}
	if v >= 1<<(width-1) || v < -(1<<(width-1)) {
		c.err = &RangeError{Value: strconv.FormatInt(v, 10), Bits: width, Signed: true}
	}
}

func (c *caster) unsignedIntoSigned(v uint64, width int) {
	if c.err == nil && v >= 1<<(width-1) {
		c.err = &RangeError{Value: strconv.FormatUint(v, 10), Bits: width, Signed: true}
	}
}

func (c *caster) signedIntoUnsigned(v int64, width int) {
	if c.err != nil {
		return
	}
	if v < 0 || (width < 64 && v >= 1<<width) {
		c.err = &RangeError{Value: strconv.FormatInt(v, 10), Bits: width}
	}
}

func (c *caster) unsigned(v uint64, width int) {
	if c.err == nil && width < 64 && v >= 1<<width {
		c.err = &RangeError{Value: strconv.FormatUint(v, 10), Bits: width}
	}
}

// float checks the truncated value of f against an integer width.
func (c *caster) float(f float64, width int, signed bool) {
	if c.err != nil {
		return
	}
	t := math.Trunc(f)
	var lo, hi float64
	if signed {
		lo, hi = -math.Ldexp(1, width-1), math.Ldexp(1, width-1)
	} else {
		lo, hi = 0, math.Ldexp(1, width)
	}
	if math.IsNaN(t) || t < lo || t >= hi {
		c.err = &RangeError{Value: strconv.FormatFloat(t, 'f', -1, 64), Bits: width, Signed: signed}
	}
}

func (c *caster) parseUint(s string, to Primitive) uint64 {
	v, err := strconv.ParseUint(strings.TrimSpace(s), 10, 64)
	if err != nil && c.err == nil {
		c.err = &ConversionError{Value: s, To: to}
	}
	return v
}

func (c *caster) parseInt(s string, to Primitive) int64 {
	v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil && c.err == nil {
		c.err = &ConversionError{Value: s, To: to}
	}
	return v
}

func (c *caster) parseFloat(s string, to Primitive) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil && c.err == nil {
		c.err = &ConversionError{Value: s, To: to}
	}
	return v
}

// asInt64 widens any integral or float literal without checks.
func (l Literal) asInt64() int64 {
	switch l.Type.Primitive {
	case Char:
		return int64(l.Char)
	case Int32:
		return int64(l.Int32)
	case Int64, SignedIntAmbiguous:
		return l.Int64
	case UInt32:
		return int64(l.UInt32)
	case UInt64, IntAmbiguous:
		return int64(l.UInt64) // #nosec G115 -- two's complement reinterpretation
	case Float32:
		return int64(l.Float32)
	case Float64, FloatAmbiguous:
		return int64(l.Float64)
	case Boolean:
		if l.Bool {
			return 1
		}
	}
	return 0
}

func (l Literal) asFloat64() float64 {
	switch l.Type.Primitive {
	case Char:
		return float64(l.Char)
	case Int32:
		return float64(l.Int32)
	case Int64, SignedIntAmbiguous:
		return float64(l.Int64)
	case UInt32:
		return float64(l.UInt32)
	case UInt64, IntAmbiguous:
		return float64(l.UInt64)
	case Float32:
		return float64(l.Float32)
	case Float64, FloatAmbiguous:
		return l.Float64
	case Boolean:
		if l.Bool {
			return 1
		}
	}
	return 0
}

func (l Literal) asBool() bool {
	switch l.Type.Primitive {
	case Char:
		return l.Char != 0
	case Int32:
		return l.Int32 != 0
	case Int64, SignedIntAmbiguous:
		return l.Int64 != 0
	case UInt32:
		return l.UInt32 != 0
	case UInt64, IntAmbiguous:
		return l.UInt64 != 0
	case Float32:
		return l.Float32 != 0
	case Float64, FloatAmbiguous:
		return l.Float64 != 0
	case String:
		return l.Str == "true"
	case Boolean:
		return l.Bool
	}
	return false
}

// checkInteger validates l against an integer target of the given width.
func (c *caster) checkInteger(l Literal, width int, signed bool) {
	switch p := l.Type.Primitive; {
	case p == Int32 || p == Int64 || p == SignedIntAmbiguous:
		if signed {
			c.signed(l.asInt64(), width)
		} else {
			c.signedIntoUnsigned(l.asInt64(), width)
		}
	case p == Char || p == UInt32 || p == UInt64 || p == IntAmbiguous:
		var v uint64
		switch p {
		case Char:
			v = uint64(l.Char)
		case UInt32:
			v = uint64(l.UInt32)
		default:
			v = l.UInt64
		}
		if signed {
			c.unsignedIntoSigned(v, width)
		} else {
			c.unsigned(v, width)
		}
	case p.IsConcreteFloat() || p == FloatAmbiguous:
		c.float(l.asFloat64(), width, signed)
	}
}

// Cast converts l to the primitive of to. Narrowing conversions are range checked;
// on a range failure the truncated value is still returned alongside the error so
// compilation can continue. Conversions that do not exist yield a TypeError literal.
func Cast(l Literal, to Type) (Literal, error) {
	from := l.Type.Primitive
	if from == to.Primitive {
		return l, nil
	}
	out := Literal{Type: Of(to.Primitive)}
	c := &caster{}

	switch to.Primitive {
	case Char, Int32, Int64, UInt32, UInt64:
		if !from.IsNumeric() && from != String && from != Boolean {
			return Literal{Type: Of(TypeError)}, nil
		}
		signed := to.Primitive.IsConcreteSignedInt()
		width := int(to.Primitive.ByteSize()) * 8
		var iv int64
		var uv uint64
		switch from {
		case String:
			if signed {
				iv = c.parseInt(l.Str, to.Primitive)
				c.signed(iv, width)
				uv = uint64(iv) // #nosec G115
			} else {
				uv = c.parseUint(l.Str, to.Primitive)
				c.unsigned(uv, width)
				iv = int64(uv) // #nosec G115
			}
		case Float32, Float64, FloatAmbiguous:
			c.checkInteger(l, width, signed)
			if signed {
				iv = l.asInt64()
				uv = uint64(iv) // #nosec G115
			} else {
				uv = uint64(math.Trunc(l.asFloat64()))
				iv = int64(uv) // #nosec G115
			}
		default:
			c.checkInteger(l, width, signed)
			iv = l.asInt64()
			uv = uint64(iv) // #nosec G115
		}
		switch to.Primitive {
		case Char:
			out.Char = uint8(uv) // #nosec G115 -- range checked above
		case Int32:
			out.Int32 = int32(iv) // #nosec G115
		case Int64:
			out.Int64 = iv
		case UInt32:
			out.UInt32 = uint32(uv) // #nosec G115
		case UInt64:
			out.UInt64 = uv
		}
	case Float32, Float64:
		var f float64
		switch {
		case from == String:
			f = c.parseFloat(l.Str, to.Primitive)
		case from.IsNumeric() || from == Boolean:
			f = l.asFloat64()
		default:
			return Literal{Type: Of(TypeError)}, nil
		}
		if to.Primitive == Float32 {
			out.Float32 = float32(f)
		} else {
			out.Float64 = f
		}
	case String:
		switch {
		case from.IsNumeric() || from == Boolean:
			out.Str = l.String()
		case from == Pointer:
			out.Str = "0x0000000000000000"
		default:
			return Literal{Type: Of(TypeError)}, nil
		}
	case Boolean:
		if !from.IsNumeric() && from != String {
			return Literal{Type: Of(TypeError)}, nil
		}
		out.Bool = l.asBool()
	case FloatAmbiguous:
		switch from {
		case SignedIntAmbiguous:
			out.Float64 = float64(l.Int64)
		case IntAmbiguous:
			out.Float64 = float64(l.UInt64)
		default:
			return Literal{Type: Of(TypeError)}, nil
		}
	case SignedIntAmbiguous:
		if from != IntAmbiguous {
			return Literal{Type: Of(TypeError)}, nil
		}
		out.Int64 = int64(l.UInt64) // #nosec G115
	default:
		return Literal{Type: Of(TypeError)}, nil
	}
	return out, c.err
}

// BitShift returns log2 of l when l is an exact positive power of two, else 0.
func BitShift(l Literal) uint8 {
	var v uint64
	switch l.Type.Primitive {
	case Char:
		v = uint64(l.Char)
	case Int32:
		if l.Int32 <= 0 {
			return 0
		}
		v = uint64(l.Int32)
	case Int64, SignedIntAmbiguous:
		if l.Int64 <= 0 {
			return 0
		}
		v = uint64(l.Int64)
	case UInt32:
		v = uint64(l.UInt32)
	case UInt64, IntAmbiguous:
		v = l.UInt64
	default:
		return 0
	}
	if v == 0 || v&(v-1) != 0 {
		return 0
	}
	return uint8(bits.TrailingZeros64(v)) // #nosec G115 -- at most 63
}
