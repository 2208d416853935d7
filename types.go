package barkml

import "fmt"

// TypeKind enumerates the closed set of value categories BarkML
// recognizes. It is deliberately exhaustive: every switch over TypeKind
// in this package is expected to cover every case, and a new case added
// here needs a matching case everywhere it is switched on.
type TypeKind int

const (
	TypeString TypeKind = iota
	TypeSymbol
	TypeBool
	TypeNull
	TypeVersion
	TypeRequire
	TypeBytes

	TypeI8
	TypeI16
	TypeI32
	TypeI64
	TypeI128
	TypeU8
	TypeU16
	TypeU32
	TypeU64
	TypeU128
	TypeF32
	TypeF64

	TypeArray
	TypeTable
	TypeSection
	TypeBlock
	TypeModule

	TypeAny
	TypeMacro
)

var typeNames = map[TypeKind]string{
	TypeString:  "string",
	TypeSymbol:  "symbol",
	TypeBool:    "bool",
	TypeNull:    "null",
	TypeVersion: "version",
	TypeRequire: "require",
	TypeBytes:   "bytes",
	TypeI8:      "i8",
	TypeI16:     "i16",
	TypeI32:     "i32",
	TypeI64:     "i64",
	TypeI128:    "i128",
	TypeU8:      "u8",
	TypeU16:     "u16",
	TypeU32:     "u32",
	TypeU64:     "u64",
	TypeU128:    "u128",
	TypeF32:     "f32",
	TypeF64:     "f64",
	TypeArray:   "array",
	TypeTable:   "table",
	TypeSection: "section",
	TypeBlock:   "block",
	TypeModule:  "module",
	TypeAny:     "any",
	TypeMacro:   "macro",
}

// keywordTypes maps the reserved type-name keywords the lexer/parser
// recognize onto their TypeKind, for the simple (non-compound) cases.
// array and table are compound (array[elem], table{value}) and are
// parsed separately by the parser.
var keywordTypes = map[string]TypeKind{
	"string":  TypeString,
	"symbol":  TypeSymbol,
	"bool":    TypeBool,
	"null":    TypeNull,
	"version": TypeVersion,
	"require": TypeRequire,
	"bytes":   TypeBytes,
	"i8":      TypeI8,
	"i16":     TypeI16,
	"i32":     TypeI32,
	"i64":     TypeI64,
	"i128":    TypeI128,
	"u8":      TypeU8,
	"u16":     TypeU16,
	"u32":     TypeU32,
	"u64":     TypeU64,
	"u128":    TypeU128,
	"f32":     TypeF32,
	"f64":     TypeF64,
	"section": TypeSection,
	"block":   TypeBlock,
}

func (k TypeKind) IsNumeric() bool {
	return k >= TypeI8 && k <= TypeF64
}

func (k TypeKind) IsInteger() bool {
	return k >= TypeI8 && k <= TypeU128
}

func (k TypeKind) IsSigned() bool {
	return k >= TypeI8 && k <= TypeI128
}

func (k TypeKind) IsFloat() bool {
	return k == TypeF32 || k == TypeF64
}

// numericWidth orders numeric kinds within their family so that widening
// comparisons (is b at least as wide as a?) are a simple index compare.
var numericWidth = map[TypeKind]int{
	TypeI8: 0, TypeI16: 1, TypeI32: 2, TypeI64: 3, TypeI128: 4,
	TypeU8: 0, TypeU16: 1, TypeU32: 2, TypeU64: 3, TypeU128: 4,
	TypeF32: 0, TypeF64: 1,
}

// ValueType is a closed discriminated type descriptor. Array and Table
// carry an Elem describing their element/value type; every other kind
// ignores Elem.
type ValueType struct {
	Kind TypeKind
	Elem *ValueType
}

func SimpleType(k TypeKind) ValueType { return ValueType{Kind: k} }

func ArrayType(elem ValueType) ValueType { return ValueType{Kind: TypeArray, Elem: &elem} }

func TableType(value ValueType) ValueType { return ValueType{Kind: TypeTable, Elem: &value} }

func AnyType() ValueType { return ValueType{Kind: TypeAny} }

func (t ValueType) String() string {
	switch t.Kind {
	case TypeArray:
		return fmt.Sprintf("array[%s]", t.elemString())
	case TypeTable:
		return fmt.Sprintf("table{%s}", t.elemString())
	default:
		return typeNames[t.Kind]
	}
}

func (t ValueType) elemString() string {
	if t.Elem == nil {
		return "any"
	}
	return t.Elem.String()
}

func (t ValueType) Equal(o ValueType) bool {
	if t.Kind != o.Kind {
		return false
	}
	if t.Kind == TypeArray || t.Kind == TypeTable {
		if t.Elem == nil || o.Elem == nil {
			return t.Elem == o.Elem
		}
		return t.Elem.Equal(*o.Elem)
	}
	return true
}

// compatibleFamily reports whether a and b sit in the same numeric
// family (both integer or both float), which is required before a
// widening comparison makes sense.
func compatibleFamily(a, b TypeKind) bool {
	if a.IsInteger() && b.IsInteger() {
		return a.IsSigned() == b.IsSigned()
	}
	return a.IsFloat() && b.IsFloat()
}

// Compatible reports whether a value of type `actual` may be used where
// `expected` is declared, per the rules in the data model: reflexive,
// Any accepts everything, numeric widening is one-directional within the
// same family, and composite heads must match with recursively
// compatible element/value types.
func Compatible(expected, actual ValueType) bool {
	if expected.Kind == TypeAny || actual.Kind == TypeAny {
		return true
	}
	if expected.Equal(actual) {
		return true
	}
	if expected.Kind.IsNumeric() && actual.Kind.IsNumeric() {
		if !compatibleFamily(expected.Kind, actual.Kind) {
			return false
		}
		return numericWidth[actual.Kind] <= numericWidth[expected.Kind]
	}
	switch expected.Kind {
	case TypeArray:
		if actual.Kind != TypeArray {
			return false
		}
		return Compatible(*expected.Elem, *actual.Elem)
	case TypeTable:
		if actual.Kind != TypeTable {
			return false
		}
		return Compatible(*expected.Elem, *actual.Elem)
	}
	return false
}
