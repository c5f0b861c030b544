package bytecode

import "mapl/internal/types"

// family lists the opcode variants for one primitive. A zero field means the
// primitive has no such operation.
type family struct {
	literal, variable, add, subtract, multiply, divide, modulo Instruction
	negate, bitAnd, bitOr, bitXor, bitNot, shiftLeft, shiftRight Instruction
	call, subscript, ternary, typecast, assign Instruction
	equal, notEqual, less, lessEqual, greater, greaterEqual Instruction
}

var families = map[types.Primitive]family{
	types.Char: {
		literal:      CharLiteral,
		variable:     CharVariable,
		add:          CharAdd,
		subtract:     CharSubtract,
		multiply:     CharMultiply,
		divide:       CharDivide,
		modulo:       CharModulo,
		bitAnd:       CharBitwiseAnd,
		bitOr:        CharBitwiseOr,
		bitXor:       CharBitwiseXor,
		bitNot:       CharBitwiseNegation,
		shiftLeft:    CharBitwiseShiftLeft,
		shiftRight:   CharBitwiseShiftRight,
		call:         CharFunctionInvocation,
		subscript:    CharSubscriptInvocation,
		ternary:      CharTernaryConditional,
		typecast:     CharTypecast,
		assign:       CharAssign,
		equal:        LogicalEqualityChar,
		notEqual:     LogicalInequalityChar,
		less:         LogicalLessThanChar,
		lessEqual:    LogicalLessThanEqualChar,
		greater:      LogicalGreaterThanChar,
		greaterEqual: LogicalGreaterThanEqualChar,
	},
	types.Int32: {
		literal:      Int32Literal,
		variable:     Int32Variable,
		add:          Int32Add,
		subtract:     Int32Subtract,
		multiply:     Int32Multiply,
		divide:       Int32Divide,
		modulo:       Int32Modulo,
		negate:       Int32NumericNegation,
		bitAnd:       Int32BitwiseAnd,
		bitOr:        Int32BitwiseOr,
		bitXor:       Int32BitwiseXor,
		bitNot:       Int32BitwiseNegation,
		shiftLeft:    Int32BitwiseShiftLeft,
		shiftRight:   Int32BitwiseShiftRight,
		call:         Int32FunctionInvocation,
		subscript:    Int32SubscriptInvocation,
		ternary:      Int32TernaryConditional,
		typecast:     Int32Typecast,
		assign:       Int32Assign,
		equal:        LogicalEqualityInt32,
		notEqual:     LogicalInequalityInt32,
		less:         LogicalLessThanInt32,
		lessEqual:    LogicalLessThanEqualInt32,
		greater:      LogicalGreaterThanInt32,
		greaterEqual: LogicalGreaterThanEqualInt32,
	},
	types.Int64: {
		literal:      Int64Literal,
		variable:     Int64Variable,
		add:          Int64Add,
		subtract:     Int64Subtract,
		multiply:     Int64Multiply,
		divide:       Int64Divide,
		modulo:       Int64Modulo,
		negate:       Int64NumericNegation,
		bitAnd:       Int64BitwiseAnd,
		bitOr:        Int64BitwiseOr,
		bitXor:       Int64BitwiseXor,
		bitNot:       Int64BitwiseNegation,
		shiftLeft:    Int64BitwiseShiftLeft,
		shiftRight:   Int64BitwiseShiftRight,
		call:         Int64FunctionInvocation,
		subscript:    Int64SubscriptInvocation,
		ternary:      Int64TernaryConditional,
		typecast:     Int64Typecast,
		assign:       Int64Assign,
		equal:        LogicalEqualityInt64,
		notEqual:     LogicalInequalityInt64,
		less:         LogicalLessThanInt64,
		lessEqual:    LogicalLessThanEqualInt64,
		greater:      LogicalGreaterThanInt64,
		greaterEqual: LogicalGreaterThanEqualInt64,
	},
	types.UInt32: {
		literal:      UInt32Literal,
		variable:     UInt32Variable,
		add:          UInt32Add,
		subtract:     UInt32Subtract,
		multiply:     UInt32Multiply,
		divide:       UInt32Divide,
		modulo:       UInt32Modulo,
		bitAnd:       UInt32BitwiseAnd,
		bitOr:        UInt32BitwiseOr,
		bitXor:       UInt32BitwiseXor,
		bitNot:       UInt32BitwiseNegation,
		shiftLeft:    UInt32BitwiseShiftLeft,
		shiftRight:   UInt32BitwiseShiftRight,
		call:         UInt32FunctionInvocation,
		subscript:    UInt32SubscriptInvocation,
		ternary:      UInt32TernaryConditional,
		typecast:     UInt32Typecast,
		assign:       UInt32Assign,
		equal:        LogicalEqualityUInt32,
		notEqual:     LogicalInequalityUInt32,
		less:         LogicalLessThanUInt32,
		lessEqual:    LogicalLessThanEqualUInt32,
		greater:      LogicalGreaterThanUInt32,
		greaterEqual: LogicalGreaterThanEqualUInt32,
	},
	types.UInt64: {
		literal:      UInt64Literal,
		variable:     UInt64Variable,
		add:          UInt64Add,
		subtract:     UInt64Subtract,
		multiply:     UInt64Multiply,
		divide:       UInt64Divide,
		modulo:       UInt64Modulo,
		bitAnd:       UInt64BitwiseAnd,
		bitOr:        UInt64BitwiseOr,
		bitXor:       UInt64BitwiseXor,
		bitNot:       UInt64BitwiseNegation,
		shiftLeft:    UInt64BitwiseShiftLeft,
		shiftRight:   UInt64BitwiseShiftRight,
		call:         UInt64FunctionInvocation,
		subscript:    UInt64SubscriptInvocation,
		ternary:      UInt64TernaryConditional,
		typecast:     UInt64Typecast,
		assign:       UInt64Assign,
		equal:        LogicalEqualityUInt64,
		notEqual:     LogicalInequalityUInt64,
		less:         LogicalLessThanUInt64,
		lessEqual:    LogicalLessThanEqualUInt64,
		greater:      LogicalGreaterThanUInt64,
		greaterEqual: LogicalGreaterThanEqualUInt64,
	},
	types.Float32: {
		literal:      Float32Literal,
		variable:     Float32Variable,
		add:          Float32Add,
		subtract:     Float32Subtract,
		multiply:     Float32Multiply,
		divide:       Float32Divide,
		modulo:       Float32Modulo,
		negate:       Float32NumericNegation,
		call:         Float32FunctionInvocation,
		subscript:    Float32SubscriptInvocation,
		ternary:      Float32TernaryConditional,
		typecast:     Float32Typecast,
		assign:       Float32Assign,
		equal:        LogicalEqualityFloat32,
		notEqual:     LogicalInequalityFloat32,
		less:         LogicalLessThanFloat32,
		lessEqual:    LogicalLessThanEqualFloat32,
		greater:      LogicalGreaterThanFloat32,
		greaterEqual: LogicalGreaterThanEqualFloat32,
	},
	types.Float64: {
		literal:      Float64Literal,
		variable:     Float64Variable,
		add:          Float64Add,
		subtract:     Float64Subtract,
		multiply:     Float64Multiply,
		divide:       Float64Divide,
		modulo:       Float64Modulo,
		negate:       Float64NumericNegation,
		call:         Float64FunctionInvocation,
		subscript:    Float64SubscriptInvocation,
		ternary:      Float64TernaryConditional,
		typecast:     Float64Typecast,
		assign:       Float64Assign,
		equal:        LogicalEqualityFloat64,
		notEqual:     LogicalInequalityFloat64,
		less:         LogicalLessThanFloat64,
		lessEqual:    LogicalLessThanEqualFloat64,
		greater:      LogicalGreaterThanFloat64,
		greaterEqual: LogicalGreaterThanEqualFloat64,
	},
	types.String: {
		literal:   StringLiteral,
		add:       StringConcat,
		variable:  StringVariable,
		call:      StringFunctionInvocation,
		subscript: StringSubscriptInvocation,
		ternary:   StringTernaryConditional,
		typecast:  StringTypecast,
		assign:    StringAssign,
		equal:     LogicalEqualityString,
		notEqual:  LogicalInequalityString,
	},
	types.Boolean: {
		variable:  BooleanVariable,
		call:      BooleanFunctionInvocation,
		subscript: BooleanSubscriptInvocation,
		ternary:   BooleanTernaryConditional,
		typecast:  BooleanTypecast,
		assign:    BooleanAssign,
		equal:     LogicalEqualityBoolean,
		notEqual:  LogicalInequalityBoolean,
	},
	types.Pointer: {
		variable:  PointerVariable,
		call:      PointerFunctionInvocation,
		subscript: PointerSubscriptInvocation,
		ternary:   PointerTernaryConditional,
		assign:    PointerAssign,
		equal:     LogicalEqualityPointer,
		notEqual:  LogicalInequalityPointer,
	},
}

func pick(p types.Primitive, field func(family) Instruction) Instruction {
	f, ok := families[p]
	if !ok {
		return Error
	}
	if in := field(f); in != Placeholder {
		return in
	}
	return Error
}

// Literal selects the numeric literal opcode; bool, string and NULL literals have dedicated opcodes.
func Literal(p types.Primitive) Instruction { return pick(p, func(f family) Instruction { return f.literal }) }

func Variable(p types.Primitive) Instruction { return pick(p, func(f family) Instruction { return f.variable }) }

func Add(p types.Primitive) Instruction { return pick(p, func(f family) Instruction { return f.add }) }

func Subtract(p types.Primitive) Instruction { return pick(p, func(f family) Instruction { return f.subtract }) }

func Multiply(p types.Primitive) Instruction { return pick(p, func(f family) Instruction { return f.multiply }) }

func Divide(p types.Primitive) Instruction { return pick(p, func(f family) Instruction { return f.divide }) }

func Modulo(p types.Primitive) Instruction { return pick(p, func(f family) Instruction { return f.modulo }) }

func Negate(p types.Primitive) Instruction { return pick(p, func(f family) Instruction { return f.negate }) }

func BitAnd(p types.Primitive) Instruction { return pick(p, func(f family) Instruction { return f.bitAnd }) }

func BitOr(p types.Primitive) Instruction { return pick(p, func(f family) Instruction { return f.bitOr }) }

func BitXor(p types.Primitive) Instruction { return pick(p, func(f family) Instruction { return f.bitXor }) }

func BitNot(p types.Primitive) Instruction { return pick(p, func(f family) Instruction { return f.bitNot }) }

func ShiftLeft(p types.Primitive) Instruction { return pick(p, func(f family) Instruction { return f.shiftLeft }) }

func ShiftRight(p types.Primitive) Instruction { return pick(p, func(f family) Instruction { return f.shiftRight }) }

// Call selects the function or property invocation variant returning p.
func Call(p types.Primitive) Instruction { return pick(p, func(f family) Instruction { return f.call }) }

// Subscript selects the subscript invocation variant returning p.
func Subscript(p types.Primitive) Instruction { return pick(p, func(f family) Instruction { return f.subscript }) }

func Ternary(p types.Primitive) Instruction { return pick(p, func(f family) Instruction { return f.ternary }) }

// Typecast selects the conversion to p.
func Typecast(p types.Primitive) Instruction { return pick(p, func(f family) Instruction { return f.typecast }) }

// Assign selects the variable assignment variant for p.
func Assign(p types.Primitive) Instruction { return pick(p, func(f family) Instruction { return f.assign }) }

func Equal(p types.Primitive) Instruction { return pick(p, func(f family) Instruction { return f.equal }) }

func NotEqual(p types.Primitive) Instruction { return pick(p, func(f family) Instruction { return f.notEqual }) }

func Less(p types.Primitive) Instruction { return pick(p, func(f family) Instruction { return f.less }) }

func LessEqual(p types.Primitive) Instruction { return pick(p, func(f family) Instruction { return f.lessEqual }) }

func Greater(p types.Primitive) Instruction { return pick(p, func(f family) Instruction { return f.greater }) }

func GreaterEqual(p types.Primitive) Instruction { return pick(p, func(f family) Instruction { return f.greaterEqual }) }
