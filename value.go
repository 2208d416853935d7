package barkml

import (
	"fmt"
	"math/big"

	"github.com/google/uuid"
)

// Value is a tagged union over the value categories in the type system.
// Only the field(s) relevant to Kind are populated; this mirrors the
// Rust original's enum-of-structs (ast/value.rs) as closely as Go's type
// system allows without resorting to an `any` payload, keeping
// exhaustive switches on Kind meaningful throughout the package.
type Value struct {
	UID  uuid.UUID
	Kind TypeKind
	Loc  Location
	Meta Metadata

	str     string      // String, Symbol
	boolean bool        // Bool
	intVal  *big.Int    // I8..U128
	floatVal float64    // F32, F64
	version VersionVal
	bytes   []byte      // Bytes
	macro   string      // Macro: the raw dotted path
	elems   []*Value    // Array
	table   *orderedMap[*Value] // Table
}

// VersionVal holds either a Version or a VersionReq payload depending on
// the owning Value's Kind (TypeVersion or TypeRequire respectively).
type VersionVal struct {
	V   Version
	Req VersionReq
}

func newValue(kind TypeKind, loc Location, meta Metadata) *Value {
	return &Value{UID: uuid.New(), Kind: kind, Loc: loc, Meta: meta}
}

func NewStringValue(s string, loc Location, meta Metadata) *Value {
	v := newValue(TypeString, loc, meta)
	v.str = s
	return v
}

func NewSymbolValue(s string, loc Location, meta Metadata) *Value {
	v := newValue(TypeSymbol, loc, meta)
	v.str = s
	return v
}

func NewBoolValue(b bool, loc Location, meta Metadata) *Value {
	v := newValue(TypeBool, loc, meta)
	v.boolean = b
	return v
}

func NewNullValue(loc Location, meta Metadata) *Value {
	return newValue(TypeNull, loc, meta)
}

func NewBytesValue(b []byte, loc Location, meta Metadata) *Value {
	v := newValue(TypeBytes, loc, meta)
	v.bytes = b
	return v
}

func NewVersionValue(ver Version, loc Location, meta Metadata) *Value {
	v := newValue(TypeVersion, loc, meta)
	v.version = VersionVal{V: ver}
	return v
}

func NewRequireValue(req VersionReq, loc Location, meta Metadata) *Value {
	v := newValue(TypeRequire, loc, meta)
	v.version = VersionVal{Req: req}
	return v
}

func NewMacroValue(path string, loc Location, meta Metadata) *Value {
	v := newValue(TypeMacro, loc, meta)
	v.macro = path
	return v
}

func NewArrayValue(elems []*Value, loc Location, meta Metadata) *Value {
	v := newValue(TypeArray, loc, meta)
	v.elems = elems
	return v
}

func NewTableValue(t *orderedMap[*Value], loc Location, meta Metadata) *Value {
	v := newValue(TypeTable, loc, meta)
	v.table = t
	return v
}

// integerBounds gives the inclusive [min, max] range for each integer
// kind, used to range-check literals at construction time.
var integerBounds = map[TypeKind][2]*big.Int{
	TypeI8:   {big.NewInt(-128), big.NewInt(127)},
	TypeI16:  {big.NewInt(-32768), big.NewInt(32767)},
	TypeI32:  {big.NewInt(-2147483648), big.NewInt(2147483647)},
	TypeI64:  {bigFromString("-9223372036854775808"), bigFromString("9223372036854775807")},
	TypeI128: {bigFromString("-170141183460469231731687303715884105728"), bigFromString("170141183460469231731687303715884105727")},
	TypeU8:   {big.NewInt(0), big.NewInt(255)},
	TypeU16:  {big.NewInt(0), big.NewInt(65535)},
	TypeU32:  {big.NewInt(0), big.NewInt(4294967295)},
	TypeU64:  {big.NewInt(0), bigFromString("18446744073709551615")},
	TypeU128: {big.NewInt(0), bigFromString("340282366920938463463374607431768211455")},
}

func bigFromString(s string) *big.Int {
	n, ok := new(big.Int).SetString(s, 10)
	if !ok {
		panic("barkml: invalid integer literal bound " + s)
	}
	return n
}

// NewIntValue builds an integer value of the given kind, validating that
// n fits within that kind's range.
func NewIntValue(kind TypeKind, n *big.Int, loc Location, meta Metadata) (*Value, error) {
	bounds, ok := integerBounds[kind]
	if !ok {
		return nil, fmt.Errorf("barkml: %v is not an integer kind", kind)
	}
	if n.Cmp(bounds[0]) < 0 || n.Cmp(bounds[1]) > 0 {
		return nil, &Error{
			Kind:     KindParseError,
			Location: loc,
			Message:  fmt.Sprintf("integer literal %s out of range for %s", n, typeNames[kind]),
		}
	}
	v := newValue(kind, loc, meta)
	v.intVal = new(big.Int).Set(n)
	return v, nil
}

func NewFloatValue(kind TypeKind, f float64, loc Location, meta Metadata) (*Value, error) {
	if kind != TypeF32 && kind != TypeF64 {
		return nil, fmt.Errorf("barkml: %v is not a float kind", kind)
	}
	v := newValue(kind, loc, meta)
	v.floatVal = f
	return v, nil
}

// Type returns the value's ValueType, including element/value types for
// composites. Array element type is taken from the first element if the
// array is non-empty; an empty array infers Any.
func (v *Value) Type() ValueType {
	switch v.Kind {
	case TypeArray:
		if len(v.elems) == 0 {
			return ArrayType(AnyType())
		}
		return ArrayType(v.elems[0].Type())
	case TypeTable:
		keys := v.table.Keys()
		if len(keys) == 0 {
			return TableType(AnyType())
		}
		first, _ := v.table.Get(keys[0])
		return TableType(first.Type())
	default:
		return SimpleType(v.Kind)
	}
}

func (v *Value) AsString() (string, bool) {
	if v.Kind != TypeString {
		return "", false
	}
	return v.str, true
}

func (v *Value) AsSymbol() (string, bool) {
	if v.Kind != TypeSymbol {
		return "", false
	}
	return v.str, true
}

func (v *Value) AsBool() (bool, bool) {
	if v.Kind != TypeBool {
		return false, false
	}
	return v.boolean, true
}

func (v *Value) IsNull() bool { return v.Kind == TypeNull }

func (v *Value) AsBytes() ([]byte, bool) {
	if v.Kind != TypeBytes {
		return nil, false
	}
	return v.bytes, true
}

func (v *Value) AsInt() (*big.Int, bool) {
	if !v.Kind.IsInteger() {
		return nil, false
	}
	return v.intVal, true
}

func (v *Value) AsFloat() (float64, bool) {
	if !v.Kind.IsFloat() {
		return 0, false
	}
	return v.floatVal, true
}

func (v *Value) AsVersion() (Version, bool) {
	if v.Kind != TypeVersion {
		return Version{}, false
	}
	return v.version.V, true
}

func (v *Value) AsRequire() (VersionReq, bool) {
	if v.Kind != TypeRequire {
		return VersionReq{}, false
	}
	return v.version.Req, true
}

func (v *Value) AsMacroPath() (string, bool) {
	if v.Kind != TypeMacro {
		return "", false
	}
	return v.macro, true
}

func (v *Value) AsArray() ([]*Value, bool) {
	if v.Kind != TypeArray {
		return nil, false
	}
	return v.elems, true
}

func (v *Value) AsTable() (*orderedMap[*Value], bool) {
	if v.Kind != TypeTable {
		return nil, false
	}
	return v.table, true
}

// WithLocation returns a shallow copy of v with its Location replaced.
// Used by the macro resolver: a substituted value inherits the
// reference's location while retaining the target's type and metadata.
func (v *Value) WithLocation(loc Location) *Value {
	clone := *v
	clone.Loc = loc
	return &clone
}

func (v *Value) String() string {
	switch v.Kind {
	case TypeString:
		return fmt.Sprintf("%q", v.str)
	case TypeSymbol:
		return ":" + v.str
	case TypeBool:
		return fmt.Sprintf("%t", v.boolean)
	case TypeNull:
		return "null"
	case TypeBytes:
		return fmt.Sprintf("b(%d bytes)", len(v.bytes))
	case TypeVersion:
		return v.version.V.String()
	case TypeRequire:
		return v.version.Req.String()
	case TypeMacro:
		return "m!" + v.macro
	case TypeArray:
		return fmt.Sprintf("array(%d)", len(v.elems))
	case TypeTable:
		return fmt.Sprintf("table(%d)", v.table.Len())
	default:
		if v.intVal != nil {
			return v.intVal.String()
		}
		return fmt.Sprintf("%v", v.floatVal)
	}
}
