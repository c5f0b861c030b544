package bytecode

import "fmt"

// Instruction is a one-byte opcode. Opcodes are grouped by the primitive they produce.
type Instruction uint8

const (
	// Placeholder is backpatched once the final instruction is known.
	Placeholder Instruction = 0

	// int32
	Int32Literal             Instruction = 1
	Int32Variable            Instruction = 2
	Int32Add                 Instruction = 3
	Int32Subtract            Instruction = 4
	Int32Divide              Instruction = 5
	Int32Multiply            Instruction = 6
	Int32Modulo              Instruction = 7
	Int32NumericNegation     Instruction = 8
	Int32BitwiseAnd          Instruction = 9
	Int32BitwiseOr           Instruction = 10
	Int32BitwiseXor          Instruction = 11
	Int32BitwiseNegation     Instruction = 12
	Int32BitwiseShiftLeft    Instruction = 13
	Int32BitwiseShiftRight   Instruction = 14
	Int32FunctionInvocation  Instruction = 15
	Int32SubscriptInvocation Instruction = 16
	Int32TernaryConditional  Instruction = 17
	Int32Typecast            Instruction = 18

	// float32
	Float32Literal             Instruction = 19
	Float32Variable            Instruction = 20
	Float32Add                 Instruction = 21
	Float32Subtract            Instruction = 22
	Float32Divide              Instruction = 23
	Float32Multiply            Instruction = 24
	Float32Modulo              Instruction = 25
	Float32NumericNegation     Instruction = 26
	Float32FunctionInvocation  Instruction = 27
	Float32SubscriptInvocation Instruction = 28
	Float32TernaryConditional  Instruction = 29
	Float32Typecast            Instruction = 30

	// string
	StringLiteral             Instruction = 31
	StringVariable            Instruction = 32
	StringConcat              Instruction = 33
	StringFunctionInvocation  Instruction = 34
	StringSubscriptInvocation Instruction = 35
	StringTernaryConditional  Instruction = 36
	StringTypecast            Instruction = 37

	// pointer
	LiteralNull                Instruction = 38
	PointerVariable            Instruction = 39
	PointerNullCoalescing      Instruction = 40
	PointerFunctionInvocation  Instruction = 41
	PointerSubscriptInvocation Instruction = 42
	PointerTernaryConditional  Instruction = 43

	// bool
	LiteralTrue                    Instruction = 44
	LiteralFalse                   Instruction = 45
	BooleanVariable                Instruction = 46
	BooleanFunctionInvocation      Instruction = 47
	BooleanSubscriptInvocation     Instruction = 48
	BooleanTernaryConditional      Instruction = 49
	BooleanTypecast                Instruction = 50
	LogicalEqualityChar            Instruction = 51
	LogicalEqualityInt32           Instruction = 52
	LogicalEqualityInt64           Instruction = 53
	LogicalEqualityUInt32          Instruction = 54
	LogicalEqualityUInt64          Instruction = 55
	LogicalEqualityFloat32         Instruction = 56
	LogicalEqualityFloat64         Instruction = 57
	LogicalEqualityBoolean         Instruction = 58
	LogicalEqualityString          Instruction = 59
	LogicalEqualityPointer         Instruction = 60
	LogicalInequalityChar          Instruction = 61
	LogicalInequalityInt32         Instruction = 62
	LogicalInequalityInt64         Instruction = 63
	LogicalInequalityUInt32        Instruction = 64
	LogicalInequalityUInt64        Instruction = 65
	LogicalInequalityFloat32       Instruction = 66
	LogicalInequalityFloat64       Instruction = 67
	LogicalInequalityBoolean       Instruction = 68
	LogicalInequalityString        Instruction = 69
	LogicalInequalityPointer       Instruction = 70
	LogicalLessThanChar            Instruction = 71
	LogicalLessThanInt32           Instruction = 72
	LogicalLessThanInt64           Instruction = 73
	LogicalLessThanUInt32          Instruction = 74
	LogicalLessThanUInt64          Instruction = 75
	LogicalLessThanFloat32         Instruction = 76
	LogicalLessThanFloat64         Instruction = 77
	LogicalLessThanEqualChar       Instruction = 78
	LogicalLessThanEqualInt32      Instruction = 79
	LogicalLessThanEqualInt64      Instruction = 80
	LogicalLessThanEqualUInt32     Instruction = 81
	LogicalLessThanEqualUInt64     Instruction = 82
	LogicalLessThanEqualFloat32    Instruction = 83
	LogicalLessThanEqualFloat64    Instruction = 84
	LogicalGreaterThanChar         Instruction = 85
	LogicalGreaterThanInt32        Instruction = 86
	LogicalGreaterThanInt64        Instruction = 87
	LogicalGreaterThanUInt32       Instruction = 88
	LogicalGreaterThanUInt64       Instruction = 89
	LogicalGreaterThanFloat32      Instruction = 90
	LogicalGreaterThanFloat64      Instruction = 91
	LogicalGreaterThanEqualChar    Instruction = 92
	LogicalGreaterThanEqualInt32   Instruction = 93
	LogicalGreaterThanEqualInt64   Instruction = 94
	LogicalGreaterThanEqualUInt32  Instruction = 95
	LogicalGreaterThanEqualUInt64  Instruction = 96
	LogicalGreaterThanEqualFloat32 Instruction = 97
	LogicalGreaterThanEqualFloat64 Instruction = 98
	LogicalAnd                     Instruction = 99
	LogicalOr                      Instruction = 100
	LogicalNegation                Instruction = 101

	// int64
	Int64Literal             Instruction = 102
	Int64Variable            Instruction = 103
	Int64Add                 Instruction = 104
	Int64Subtract            Instruction = 105
	Int64Divide              Instruction = 106
	Int64Multiply            Instruction = 107
	Int64Modulo              Instruction = 108
	Int64NumericNegation     Instruction = 109
	Int64BitwiseAnd          Instruction = 110
	Int64BitwiseOr           Instruction = 111
	Int64BitwiseXor          Instruction = 112
	Int64BitwiseNegation     Instruction = 113
	Int64BitwiseShiftLeft    Instruction = 114
	Int64BitwiseShiftRight   Instruction = 115
	Int64FunctionInvocation  Instruction = 116
	Int64SubscriptInvocation Instruction = 117
	Int64TernaryConditional  Instruction = 118
	Int64Typecast            Instruction = 119

	// float64
	Float64Literal             Instruction = 120
	Float64Variable            Instruction = 121
	Float64Add                 Instruction = 122
	Float64Subtract            Instruction = 123
	Float64Divide              Instruction = 124
	Float64Multiply            Instruction = 125
	Float64Modulo              Instruction = 126
	Float64NumericNegation     Instruction = 127
	Float64FunctionInvocation  Instruction = 128
	Float64SubscriptInvocation Instruction = 129
	Float64TernaryConditional  Instruction = 130
	Float64Typecast            Instruction = 131

	// uint32
	UInt32Literal             Instruction = 132
	UInt32Variable            Instruction = 133
	UInt32Add                 Instruction = 134
	UInt32Subtract            Instruction = 135
	UInt32Divide              Instruction = 136
	UInt32Multiply            Instruction = 137
	UInt32Modulo              Instruction = 138
	UInt32BitwiseAnd          Instruction = 139
	UInt32BitwiseOr           Instruction = 140
	UInt32BitwiseXor          Instruction = 141
	UInt32BitwiseNegation     Instruction = 142
	UInt32BitwiseShiftLeft    Instruction = 143
	UInt32BitwiseShiftRight   Instruction = 144
	UInt32FunctionInvocation  Instruction = 145
	UInt32SubscriptInvocation Instruction = 146
	UInt32TernaryConditional  Instruction = 147
	UInt32Typecast            Instruction = 148

	// uint64
	UInt64Literal             Instruction = 149
	UInt64Variable            Instruction = 150
	UInt64Add                 Instruction = 151
	UInt64Subtract            Instruction = 152
	UInt64Divide              Instruction = 153
	UInt64Multiply            Instruction = 154
	UInt64Modulo              Instruction = 155
	UInt64BitwiseAnd          Instruction = 156
	UInt64BitwiseOr           Instruction = 157
	UInt64BitwiseXor          Instruction = 158
	UInt64BitwiseNegation     Instruction = 159
	UInt64BitwiseShiftLeft    Instruction = 160
	UInt64BitwiseShiftRight   Instruction = 161
	UInt64FunctionInvocation  Instruction = 162
	UInt64SubscriptInvocation Instruction = 163
	UInt64TernaryConditional  Instruction = 164
	UInt64Typecast            Instruction = 165

	// char
	CharLiteral             Instruction = 166
	CharVariable            Instruction = 167
	CharAdd                 Instruction = 168
	CharSubtract            Instruction = 169
	CharDivide              Instruction = 170
	CharMultiply            Instruction = 171
	CharModulo              Instruction = 172
	CharBitwiseAnd          Instruction = 173
	CharBitwiseOr           Instruction = 174
	CharBitwiseXor          Instruction = 175
	CharBitwiseNegation     Instruction = 176
	CharBitwiseShiftLeft    Instruction = 177
	CharBitwiseShiftRight   Instruction = 178
	CharFunctionInvocation  Instruction = 179
	CharSubscriptInvocation Instruction = 180
	CharTernaryConditional  Instruction = 181
	CharTypecast            Instruction = 182

	// void
	UnusedReturnFunctionInvocation Instruction = 183
	CharAssign                     Instruction = 184
	Int32Assign                    Instruction = 185
	Int64Assign                    Instruction = 186
	UInt32Assign                   Instruction = 187
	UInt64Assign                   Instruction = 188
	Float32Assign                  Instruction = 189
	Float64Assign                  Instruction = 190
	BooleanAssign                  Instruction = 191
	StringAssign                   Instruction = 192
	PointerAssign                  Instruction = 193
	AssignSubscript                Instruction = 194
	AssignProperty                 Instruction = 195

	// control flow
	Conditional       Instruction = 196
	CursorMoveForward Instruction = 197
	CursorMoveBack    Instruction = 198
	ProgramExit       Instruction = 199

	// metadata
	Metadata Instruction = 200

	// debugging
	DebugLine           Instruction = 201
	DebugUpdateVariable Instruction = 202
	DebugDeleteVariable Instruction = 203

	NoOp Instruction = 204
	// Error must never reach an artifact; emitting it is an internal compiler error.
	Error Instruction = 205
)

var instructionNames = [...]string{
	Placeholder:                    "placeholder",
	Int32Literal:                   "int32_literal",
	Int32Variable:                  "int32_variable",
	Int32Add:                       "int32_add",
	Int32Subtract:                  "int32_subtract",
	Int32Divide:                    "int32_divide",
	Int32Multiply:                  "int32_multiply",
	Int32Modulo:                    "int32_modulo",
	Int32NumericNegation:           "int32_numeric_negation",
	Int32BitwiseAnd:                "int32_bitwise_and",
	Int32BitwiseOr:                 "int32_bitwise_or",
	Int32BitwiseXor:                "int32_bitwise_xor",
	Int32BitwiseNegation:           "int32_bitwise_negation",
	Int32BitwiseShiftLeft:          "int32_bitwise_shift_left",
	Int32BitwiseShiftRight:         "int32_bitwise_shift_right",
	Int32FunctionInvocation:        "int32_function_invocation",
	Int32SubscriptInvocation:       "int32_subscript_invocation",
	Int32TernaryConditional:        "int32_ternary_conditional",
	Int32Typecast:                  "int32_typecast",
	Float32Literal:                 "float32_literal",
	Float32Variable:                "float32_variable",
	Float32Add:                     "float32_add",
	Float32Subtract:                "float32_subtract",
	Float32Divide:                  "float32_divide",
	Float32Multiply:                "float32_multiply",
	Float32Modulo:                  "float32_modulo",
	Float32NumericNegation:         "float32_numeric_negation",
	Float32FunctionInvocation:      "float32_function_invocation",
	Float32SubscriptInvocation:     "float32_subscript_invocation",
	Float32TernaryConditional:      "float32_ternary_conditional",
	Float32Typecast:                "float32_typecast",
	StringLiteral:                  "string_literal",
	StringVariable:                 "string_variable",
	StringConcat:                   "string_concat",
	StringFunctionInvocation:       "string_function_invocation",
	StringSubscriptInvocation:      "string_subscript_invocation",
	StringTernaryConditional:       "string_ternary_conditional",
	StringTypecast:                 "string_typecast",
	LiteralNull:                    "literal_null",
	PointerVariable:                "pointer_variable",
	PointerNullCoalescing:          "pointer_null_coalescing",
	PointerFunctionInvocation:      "pointer_function_invocation",
	PointerSubscriptInvocation:     "pointer_subscript_invocation",
	PointerTernaryConditional:      "pointer_ternary_conditional",
	LiteralTrue:                    "literal_true",
	LiteralFalse:                   "literal_false",
	BooleanVariable:                "boolean_variable",
	BooleanFunctionInvocation:      "boolean_function_invocation",
	BooleanSubscriptInvocation:     "boolean_subscript_invocation",
	BooleanTernaryConditional:      "boolean_ternary_conditional",
	BooleanTypecast:                "boolean_typecast",
	LogicalEqualityChar:            "logical_equality_char",
	LogicalEqualityInt32:           "logical_equality_int32",
	LogicalEqualityInt64:           "logical_equality_int64",
	LogicalEqualityUInt32:          "logical_equality_uint32",
	LogicalEqualityUInt64:          "logical_equality_uint64",
	LogicalEqualityFloat32:         "logical_equality_float32",
	LogicalEqualityFloat64:         "logical_equality_float64",
	LogicalEqualityBoolean:         "logical_equality_boolean",
	LogicalEqualityString:          "logical_equality_string",
	LogicalEqualityPointer:         "logical_equality_pointer",
	LogicalInequalityChar:          "logical_inequality_char",
	LogicalInequalityInt32:         "logical_inequality_int32",
	LogicalInequalityInt64:         "logical_inequality_int64",
	LogicalInequalityUInt32:        "logical_inequality_uint32",
	LogicalInequalityUInt64:        "logical_inequality_uint64",
	LogicalInequalityFloat32:       "logical_inequality_float32",
	LogicalInequalityFloat64:       "logical_inequality_float64",
	LogicalInequalityBoolean:       "logical_inequality_boolean",
	LogicalInequalityString:        "logical_inequality_string",
	LogicalInequalityPointer:       "logical_inequality_pointer",
	LogicalLessThanChar:            "logical_less_than_char",
	LogicalLessThanInt32:           "logical_less_than_int32",
	LogicalLessThanInt64:           "logical_less_than_int64",
	LogicalLessThanUInt32:          "logical_less_than_uint32",
	LogicalLessThanUInt64:          "logical_less_than_uint64",
	LogicalLessThanFloat32:         "logical_less_than_float32",
	LogicalLessThanFloat64:         "logical_less_than_float64",
	LogicalLessThanEqualChar:       "logical_less_than_equal_char",
	LogicalLessThanEqualInt32:      "logical_less_than_equal_int32",
	LogicalLessThanEqualInt64:      "logical_less_than_equal_int64",
	LogicalLessThanEqualUInt32:     "logical_less_than_equal_uint32",
	LogicalLessThanEqualUInt64:     "logical_less_than_equal_uint64",
	LogicalLessThanEqualFloat32:    "logical_less_than_equal_float32",
	LogicalLessThanEqualFloat64:    "logical_less_than_equal_float64",
	LogicalGreaterThanChar:         "logical_greater_than_char",
	LogicalGreaterThanInt32:        "logical_greater_than_int32",
	LogicalGreaterThanInt64:        "logical_greater_than_int64",
	LogicalGreaterThanUInt32:       "logical_greater_than_uint32",
	LogicalGreaterThanUInt64:       "logical_greater_than_uint64",
	LogicalGreaterThanFloat32:      "logical_greater_than_float32",
	LogicalGreaterThanFloat64:      "logical_greater_than_float64",
	LogicalGreaterThanEqualChar:    "logical_greater_than_equal_char",
	LogicalGreaterThanEqualInt32:   "logical_greater_than_equal_int32",
	LogicalGreaterThanEqualInt64:   "logical_greater_than_equal_int64",
	LogicalGreaterThanEqualUInt32:  "logical_greater_than_equal_uint32",
	LogicalGreaterThanEqualUInt64:  "logical_greater_than_equal_uint64",
	LogicalGreaterThanEqualFloat32: "logical_greater_than_equal_float32",
	LogicalGreaterThanEqualFloat64: "logical_greater_than_equal_float64",
	LogicalAnd:                     "logical_and",
	LogicalOr:                      "logical_or",
	LogicalNegation:                "logical_negation",
	Int64Literal:                   "int64_literal",
	Int64Variable:                  "int64_variable",
	Int64Add:                       "int64_add",
	Int64Subtract:                  "int64_subtract",
	Int64Divide:                    "int64_divide",
	Int64Multiply:                  "int64_multiply",
	Int64Modulo:                    "int64_modulo",
	Int64NumericNegation:           "int64_numeric_negation",
	Int64BitwiseAnd:                "int64_bitwise_and",
	Int64BitwiseOr:                 "int64_bitwise_or",
	Int64BitwiseXor:                "int64_bitwise_xor",
	Int64BitwiseNegation:           "int64_bitwise_negation",
	Int64BitwiseShiftLeft:          "int64_bitwise_shift_left",
	Int64BitwiseShiftRight:         "int64_bitwise_shift_right",
	Int64FunctionInvocation:        "int64_function_invocation",
	Int64SubscriptInvocation:       "int64_subscript_invocation",
	Int64TernaryConditional:        "int64_ternary_conditional",
	Int64Typecast:                  "int64_typecast",
	Float64Literal:                 "float64_literal",
	Float64Variable:                "float64_variable",
	Float64Add:                     "float64_add",
	Float64Subtract:                "float64_subtract",
	Float64Divide:                  "float64_divide",
	Float64Multiply:                "float64_multiply",
	Float64Modulo:                  "float64_modulo",
	Float64NumericNegation:         "float64_numeric_negation",
	Float64FunctionInvocation:      "float64_function_invocation",
	Float64SubscriptInvocation:     "float64_subscript_invocation",
	Float64TernaryConditional:      "float64_ternary_conditional",
	Float64Typecast:                "float64_typecast",
	UInt32Literal:                  "uint32_literal",
	UInt32Variable:                 "uint32_variable",
	UInt32Add:                      "uint32_add",
	UInt32Subtract:                 "uint32_subtract",
	UInt32Divide:                   "uint32_divide",
	UInt32Multiply:                 "uint32_multiply",
	UInt32Modulo:                   "uint32_modulo",
	UInt32BitwiseAnd:               "uint32_bitwise_and",
	UInt32BitwiseOr:                "uint32_bitwise_or",
	UInt32BitwiseXor:               "uint32_bitwise_xor",
	UInt32BitwiseNegation:          "uint32_bitwise_negation",
	UInt32BitwiseShiftLeft:         "uint32_bitwise_shift_left",
	UInt32BitwiseShiftRight:        "uint32_bitwise_shift_right",
	UInt32FunctionInvocation:       "uint32_function_invocation",
	UInt32SubscriptInvocation:      "uint32_subscript_invocation",
	UInt32TernaryConditional:       "uint32_ternary_conditional",
	UInt32Typecast:                 "uint32_typecast",
	UInt64Literal:                  "uint64_literal",
	UInt64Variable:                 "uint64_variable",
	UInt64Add:                      "uint64_add",
	UInt64Subtract:                 "uint64_subtract",
	UInt64Divide:                   "uint64_divide",
	UInt64Multiply:                 "uint64_multiply",
	UInt64Modulo:                   "uint64_modulo",
	UInt64BitwiseAnd:               "uint64_bitwise_and",
	UInt64BitwiseOr:                "uint64_bitwise_or",
	UInt64BitwiseXor:               "uint64_bitwise_xor",
	UInt64BitwiseNegation:          "uint64_bitwise_negation",
	UInt64BitwiseShiftLeft:         "uint64_bitwise_shift_left",
	UInt64BitwiseShiftRight:        "uint64_bitwise_shift_right",
	UInt64FunctionInvocation:       "uint64_function_invocation",
	UInt64SubscriptInvocation:      "uint64_subscript_invocation",
	UInt64TernaryConditional:       "uint64_ternary_conditional",
	UInt64Typecast:                 "uint64_typecast",
	CharLiteral:                    "char_literal",
	CharVariable:                   "char_variable",
	CharAdd:                        "char_add",
	CharSubtract:                   "char_subtract",
	CharDivide:                     "char_divide",
	CharMultiply:                   "char_multiply",
	CharModulo:                     "char_modulo",
	CharBitwiseAnd:                 "char_bitwise_and",
	CharBitwiseOr:                  "char_bitwise_or",
	CharBitwiseXor:                 "char_bitwise_xor",
	CharBitwiseNegation:            "char_bitwise_negation",
	CharBitwiseShiftLeft:           "char_bitwise_shift_left",
	CharBitwiseShiftRight:          "char_bitwise_shift_right",
	CharFunctionInvocation:         "char_function_invocation",
	CharSubscriptInvocation:        "char_subscript_invocation",
	CharTernaryConditional:         "char_ternary_conditional",
	CharTypecast:                   "char_typecast",
	UnusedReturnFunctionInvocation: "unused_return_function_invocation",
	CharAssign:                     "char_assign",
	Int32Assign:                    "int32_assign",
	Int64Assign:                    "int64_assign",
	UInt32Assign:                   "uint32_assign",
	UInt64Assign:                   "uint64_assign",
	Float32Assign:                  "float32_assign",
	Float64Assign:                  "float64_assign",
	BooleanAssign:                  "boolean_assign",
	StringAssign:                   "string_assign",
	PointerAssign:                  "pointer_assign",
	AssignSubscript:                "assign_subscript",
	AssignProperty:                 "assign_property",
	Conditional:                    "conditional",
	CursorMoveForward:              "cursor_move_forward",
	CursorMoveBack:                 "cursor_move_back",
	ProgramExit:                    "program_exit",
	Metadata:                       "metadata",
	DebugLine:                      "debug_line",
	DebugUpdateVariable:            "debug_update_variable",
	DebugDeleteVariable:            "debug_delete_variable",
	NoOp:                           "no_op",
	Error:                          "error",
}

func (i Instruction) String() string {
	if int(i) < len(instructionNames) && instructionNames[i] != "" {
		return instructionNames[i]
	}
	return fmt.Sprintf("Instruction(%d)", uint8(i))
}
