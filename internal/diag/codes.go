package diag

import (
	"fmt"
)

type Code uint16

const (
	// Неизвестная ошибка
	UnknownCode Code = 0

	// Ввод-вывод и разрешение файлов
	IOInfo             Code = 1000
	IOLoadFileError    Code = 1001
	IOImportNotFound   Code = 1002
	IOImportCycle      Code = 1003
	IOPathNotAbsolute  Code = 1004
	IOBytecodeTooLarge Code = 1005

	// Лексические
	LexInfo                     Code = 2000
	LexUnknownChar              Code = 2001
	LexUnterminatedString       Code = 2002
	LexUnterminatedBlockComment Code = 2003
	LexBadNumber                Code = 2004
	LexUnterminatedMetadata     Code = 2005
	LexBadEscape                Code = 2006

	// Синтаксические
	SynInfo              Code = 3000
	SynUnexpectedToken   Code = 3001
	SynExpectSemicolon   Code = 3002
	SynUnclosedDelimiter Code = 3003
	SynExpectIdentifier  Code = 3004
	SynExpectType        Code = 3005
	SynExpectExpression  Code = 3006
	SynBitshiftSpacing   Code = 3007
	SynExpectScope       Code = 3008

	// Объявления API
	APIInfo                   Code = 4000
	APITypeShadowsPrimitive   Code = 4001
	APIGenericShadowsPrim     Code = 4002
	APIDuplicateGeneric       Code = 4003
	APIGenericWithGenerics    Code = 4004
	APIGenericArity           Code = 4005
	APIMissingType            Code = 4006
	APIDuplicateType          Code = 4007
	APIDuplicateProperty      Code = 4008
	APIDuplicateGlobalProp    Code = 4009
	APIFunctionCollision      Code = 4010
	APISubscriptCollision     Code = 4011
	APIGenericShadowsType     Code = 4012
	APIInheritanceCycle       Code = 4013
	APIInheritanceDiamond     Code = 4014
	APIDuplicateVariable      Code = 4015
	APIAmbiguousVariableType  Code = 4016
	APIDeclarationNotTopLevel Code = 4017

	// Типизация выражений
	TypInfo               Code = 5000
	TypMismatch           Code = 5001
	TypAmbiguousLiteral   Code = 5002
	TypNotNumeric         Code = 5003
	TypNotIntegral        Code = 5004
	TypUnsignedNegation   Code = 5005
	TypNotPointer         Code = 5006
	TypUnknownVariable    Code = 5007
	TypUnknownProperty    Code = 5008
	TypUnknownFunction    Code = 5009
	TypUnknownSubscript   Code = 5010
	TypAmbiguousFunction  Code = 5011
	TypAmbiguousSubscript Code = 5012
	TypReadonly           Code = 5013
	TypNoEffect           Code = 5014
	TypOutsideLoop        Code = 5015
	TypNotBoolean         Code = 5016
	TypVoidValue          Code = 5017
	TypOperatorMismatch   Code = 5018
	TypAmbiguousVariadic  Code = 5019

	// Диапазоны литералов
	RngInfo       Code = 6000
	RngOutOfRange Code = 6001
	RngConversion Code = 6002

	// Внутренние ошибки компилятора
	IntInfo           Code = 9000
	IntErrorOpcode    Code = 9001
	IntUnknownSymbol  Code = 9002
	IntJumpTooLong    Code = 9003
	IntAddressOverrun Code = 9004
)

var codeDescription = map[Code]string{
	UnknownCode:                 "Unknown error",
	IOInfo:                      "I/O information",
	IOLoadFileError:             "Unable to read file",
	IOImportNotFound:            "Imported file not found",
	IOImportCycle:               "Import cycle",
	IOPathNotAbsolute:           "Path is not absolute",
	IOBytecodeTooLarge:          "Bytecode exceeds addressable size",
	LexInfo:                     "Lexical information",
	LexUnknownChar:              "Unknown character",
	LexUnterminatedString:       "Unterminated string",
	LexUnterminatedBlockComment: "Unterminated block comment",
	LexBadNumber:                "Bad number",
	LexUnterminatedMetadata:     "Unterminated metadata",
	LexBadEscape:                "Invalid escape sequence",
	SynInfo:                     "Syntax information",
	SynUnexpectedToken:          "Unexpected token",
	SynExpectSemicolon:          "Expected semicolon",
	SynUnclosedDelimiter:        "Unclosed delimiter",
	SynExpectIdentifier:         "Expected identifier",
	SynExpectType:               "Expected type",
	SynExpectExpression:         "Expected expression",
	SynBitshiftSpacing:          "Whitespace inside bit shift operator",
	SynExpectScope:              "Expected scope",
	APIInfo:                     "Declaration information",
	APITypeShadowsPrimitive:     "Type name shadows a primitive",
	APIGenericShadowsPrim:       "Generic name shadows a primitive",
	APIDuplicateGeneric:         "Duplicate generic name",
	APIGenericWithGenerics:      "Generic parameter with generics",
	APIGenericArity:             "Wrong number of generics",
	APIMissingType:              "Missing type declaration",
	APIDuplicateType:            "Duplicate type",
	APIDuplicateProperty:        "Duplicate property",
	APIDuplicateGlobalProp:      "Duplicate global property",
	APIFunctionCollision:        "Conflicting functions",
	APISubscriptCollision:       "Conflicting subscripts",
	APIGenericShadowsType:       "Generic name shadows a type",
	APIInheritanceCycle:         "Inheritance cycle",
	APIInheritanceDiamond:       "Inheritance diamond",
	APIDuplicateVariable:        "Duplicate variable",
	APIAmbiguousVariableType:    "Variable with ambiguous type",
	APIDeclarationNotTopLevel:   "Declaration outside the top level",
	TypInfo:                     "Typing information",
	TypMismatch:                 "Type mismatch",
	TypAmbiguousLiteral:         "Ambiguous numeric literal",
	TypNotNumeric:               "Numeric operand required",
	TypNotIntegral:              "Integer operand required",
	TypUnsignedNegation:         "Unsigned negation",
	TypNotPointer:               "Pointer operand required",
	TypUnknownVariable:          "Unknown variable",
	TypUnknownProperty:          "Unknown property",
	TypUnknownFunction:          "Unknown function",
	TypUnknownSubscript:         "Unknown subscript",
	TypAmbiguousFunction:        "Ambiguous function invocation",
	TypAmbiguousSubscript:       "Ambiguous subscript invocation",
	TypReadonly:                 "Assignment to read-only member",
	TypNoEffect:                 "Statement has no effect",
	TypOutsideLoop:              "Loop control outside a loop",
	TypNotBoolean:               "Boolean condition required",
	TypVoidValue:                "Void value used",
	TypOperatorMismatch:         "Operator not applicable",
	TypAmbiguousVariadic:        "Ambiguous variadic parameter",
	RngInfo:                     "Range information",
	RngOutOfRange:               "Value out of range",
	RngConversion:               "Invalid literal conversion",
	IntInfo:                     "Internal information",
	IntErrorOpcode:              "Error instruction emitted",
	IntUnknownSymbol:            "Unresolved symbol",
	IntJumpTooLong:              "Jump distance overflow",
	IntAddressOverrun:           "Address space overflow",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("API%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("TYP%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("RNG%04d", ic)
	case ic >= 9000 && ic < 10000:
		return fmt.Sprintf("INT%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
