package types

import (
	"errors"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestCastCharBoundary(t *testing.T) {
	tests := []struct {
		value   uint64
		wantErr bool
	}{
		{0, false},
		{255, false},
		{256, true},
		{1 << 40, true},
	}
	for _, tt := range tests {
		got, err := Cast(IntLiteral(tt.value), Of(Char))
		if (err != nil) != tt.wantErr {
			t.Errorf("Cast(%d, char): err = %v, wantErr %v", tt.value, err, tt.wantErr)
		}
		if got.Type.Primitive != Char {
			t.Errorf("Cast(%d, char): type = %v", tt.value, got.Type)
		}
		var rangeErr *RangeError
		if tt.wantErr && !errors.As(err, &rangeErr) {
			t.Errorf("Cast(%d, char): expected *RangeError, got %T", tt.value, err)
		}
	}
}

func TestCastRangeMessages(t *testing.T) {
	_, err := Cast(IntLiteral(256), Of(Char))
	want := "A value of 256 is outside the range of numbers that can be represented by a 8-bit unsigned integer."
	if err == nil || err.Error() != want {
		t.Fatalf("got %v, want %q", err, want)
	}
	_, err = Cast(SignedLiteral(-2147483649), Of(Int32))
	want = "A value of -2147483649 is outside the range of numbers that can be represented by a 32-bit signed integer."
	if err == nil || err.Error() != want {
		t.Fatalf("got %v, want %q", err, want)
	}
	if _, err = Cast(SignedLiteral(-2147483648), Of(Int32)); err != nil {
		t.Fatalf("int32 minimum rejected: %v", err)
	}
	if _, err = Cast(SignedLiteral(-1), Of(UInt64)); err == nil {
		t.Fatalf("negative value accepted by uint64")
	}
}

func TestCastTable(t *testing.T) {
	tests := []struct {
		name string
		in   Literal
		to   Primitive
		want Literal
	}{
		{"int to float32", IntLiteral(3), Float32, Literal{Type: Of(Float32), Float32: 3}},
		{"float to int32 truncates", FloatLiteral(3.75), Int32, Literal{Type: Of(Int32), Int32: 3}},
		{"bool to uint32", BoolLiteral(true), UInt32, Literal{Type: Of(UInt32), UInt32: 1}},
		{"int to string", IntLiteral(42), String, StringLiteral("42")},
		{"float to string", FloatLiteral(1.5), String, StringLiteral("1.500000")},
		{"bool to string", BoolLiteral(false), String, StringLiteral("false")},
		{"null to string", NullLiteral(), String, StringLiteral("0x0000000000000000")},
		{"string to bool", StringLiteral("true"), Boolean, BoolLiteral(true)},
		{"string to int64", StringLiteral("-12"), Int64, Literal{Type: Of(Int64), Int64: -12}},
		{"int to signed ambiguous", IntLiteral(7), SignedIntAmbiguous, SignedLiteral(7)},
		{"signed to float ambiguous", SignedLiteral(-7), FloatAmbiguous, FloatLiteral(-7)},
		{"char widening", Literal{Type: Of(Char), Char: 200}, Int64, Literal{Type: Of(Int64), Int64: 200}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Cast(tt.in, Of(tt.to))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !got.Type.Equal(tt.want.Type) || got.String() != tt.want.String() {
				t.Fatalf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestCastImpossible(t *testing.T) {
	got, err := Cast(NullLiteral(), Of(Int32))
	if err != nil || got.Type.Primitive != TypeError {
		t.Fatalf("null to int32 should be a type error, got %+v (%v)", got, err)
	}
	got, _ = Cast(StringLiteral("x"), Of(IntAmbiguous))
	if got.Type.Primitive != TypeError {
		t.Fatalf("string to ambiguous int should be a type error, got %+v", got)
	}
}

func TestCastUnparsableString(t *testing.T) {
	_, err := Cast(StringLiteral("abc"), Of(UInt32))
	var convErr *ConversionError
	if !errors.As(err, &convErr) {
		t.Fatalf("expected ConversionError, got %v", err)
	}
}

func TestBitShift(t *testing.T) {
	tests := []struct {
		in   Literal
		want uint8
	}{
		{IntLiteral(1), 0},
		{IntLiteral(2), 1},
		{IntLiteral(4), 2},
		{IntLiteral(6), 0},
		{IntLiteral(0), 0},
		{SignedLiteral(-4), 0},
		{Literal{Type: Of(Char), Char: 128}, 7},
		{IntLiteral(1 << 63), 63},
		{FloatLiteral(4), 0},
	}
	for _, tt := range tests {
		if got := BitShift(tt.in); got != tt.want {
			t.Errorf("BitShift(%s) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

// Свойство: сдвиг точен для любой степени двойки и равен нулю для остальных.
func TestProperty_BitShiftExact(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("power of two maps to its exponent", prop.ForAll(
		func(k int) bool {
			return BitShift(IntLiteral(uint64(1)<<uint(k))) == uint8(k)
		},
		gen.IntRange(1, 63),
	))
	properties.Property("shift reproduces the value", prop.ForAll(
		func(v uint64) bool {
			s := BitShift(IntLiteral(v))
			if s == 0 {
				return v <= 1 || v&(v-1) != 0
			}
			return uint64(1)<<s == v
		},
		gen.UInt64(),
	))

	properties.TestingRun(t)
}

// Свойство: приведение к char ошибается ровно за пределами [0, 255].
func TestProperty_CharRange(t *testing.T) {
	properties := gopter.NewProperties(gopter.DefaultTestParameters())

	properties.Property("char accepts exactly 0..255", prop.ForAll(
		func(v int64) bool {
			_, err := Cast(SignedLiteral(v), Of(Char))
			return (err == nil) == (v >= 0 && v <= 255)
		},
		gen.Int64Range(-1000, 1000),
	))

	properties.TestingRun(t)
}
