// Package schema defines the structural schema model produced by deriving
// the shape of a Go type: a closed set of immutable DataType variants for
// primitives, logical types, containers, unions, records, and enums.
package schema

import "fmt"

// Kind identifies a DataType variant.
type Kind int

const (
	KindBoolean Kind = iota
	KindByte
	KindShort
	KindInt
	KindLong
	KindFloat
	KindDouble
	KindString
	KindBinary
	KindUUID
	KindDecimal
	KindTimestamp
	KindDate
	KindLocalDateTime
	KindNullable
	KindArray
	KindMap
	KindUnion
	KindRecord
	KindEnum
)

func (k Kind) String() string {
	s, ok := map[Kind]string{
		KindBoolean:       "Boolean",
		KindByte:          "Byte",
		KindShort:         "Short",
		KindInt:           "Int",
		KindLong:          "Long",
		KindFloat:         "Float",
		KindDouble:        "Double",
		KindString:        "String",
		KindBinary:        "Binary",
		KindUUID:          "UUID",
		KindDecimal:       "Decimal",
		KindTimestamp:     "Timestamp",
		KindDate:          "Date",
		KindLocalDateTime: "LocalDateTime",
		KindNullable:      "Nullable",
		KindArray:         "Array",
		KindMap:           "Map",
		KindUnion:         "Union",
		KindRecord:        "Record",
		KindEnum:          "Enum",
	}[k]
	if ok {
		return s
	}
	return "<unknown kind>"
}

// DataType is the derived structural schema for a type. Implementations form
// a closed set; trees are immutable once built and safe to share.
type DataType interface {
	isDataType()
	Kind() Kind
}

// Primitive is a scalar DataType with a 1:1 mapping from a Go scalar kind.
type Primitive int

const (
	Boolean Primitive = iota
	Byte
	Short
	Int
	Long
	Float
	Double
	String
	Binary
)

func (Primitive) isDataType()  {}
func (p Primitive) Kind() Kind { return Kind(p) }

func (p Primitive) String() string {
	return p.Kind().String()
}

// UUIDType is the UUID logical type, carried as a canonical string.
type UUIDType struct{}

func (UUIDType) isDataType() {}
func (UUIDType) Kind() Kind  { return KindUUID }

// DecimalType is an arbitrary-precision decimal with a fixed precision and
// scale, carried as bytes.
type DecimalType struct {
	Precision int
	Scale     int
}

func (DecimalType) isDataType() {}
func (DecimalType) Kind() Kind  { return KindDecimal }

// TimestampType is an instant with millisecond precision.
type TimestampType struct{}

func (TimestampType) isDataType() {}
func (TimestampType) Kind() Kind  { return KindTimestamp }

// DateType is a calendar date without a time component.
type DateType struct{}

func (DateType) isDataType() {}
func (DateType) Kind() Kind  { return KindDate }

// LocalDateTimeType is a wall-clock date and time without a zone.
type LocalDateTimeType struct{}

func (LocalDateTimeType) isDataType() {}
func (LocalDateTimeType) Kind() Kind  { return KindLocalDateTime }

// NullableType marks its inner type as optional. Nesting is preserved:
// deriving a doubly-optional shape yields Nullable{Nullable{X}}.
type NullableType struct {
	Inner DataType
}

func (NullableType) isDataType() {}
func (NullableType) Kind() Kind  { return KindNullable }

// ArrayType is a homogeneous ordered sequence. Container identity of the
// source type is erased; only the element type matters.
type ArrayType struct {
	Element DataType
}

func (ArrayType) isDataType() {}
func (ArrayType) Kind() Kind  { return KindArray }

// MapType is a string-keyed mapping. Non-string key types are rejected at
// derivation time, so only the value type is carried.
type MapType struct {
	Value DataType
}

func (MapType) isDataType() {}
func (MapType) Kind() Kind  { return KindMap }

// UnionType is "exactly one of N alternatives". Members never contain
// another UnionType: construction through Union splices nested unions into
// the parent member sequence.
type UnionType struct {
	Members []DataType
}

func (UnionType) isDataType() {}
func (UnionType) Kind() Kind  { return KindUnion }

// Union combines the given types into a flat UnionType. Any member that is
// itself a UnionType contributes its members in place, in order.
func Union(members ...DataType) UnionType {
	out := make([]DataType, 0, len(members))
	for _, m := range members {
		if u, ok := m.(UnionType); ok {
			out = append(out, u.Members...)
		} else {
			out = append(out, m)
		}
	}
	return UnionType{Members: out}
}

// Anno is a piece of metadata attached to a type or field. It is carried
// through derivation but never interpreted.
type Anno struct {
	Name      string
	Arguments []string
}

// StructField is one named, typed, optionally-defaulted member of a record.
type StructField struct {
	Name        string
	Type        DataType
	Doc         string
	Annotations []Anno
	Default     any
	HasDefault  bool
}

// RecordType is the schema node for a product of named fields. Field order
// mirrors declaration order and names are unique within a record. Tuples
// derive to anonymous records (empty Name and Namespace) with positional
// field names.
type RecordType struct {
	Name        string
	Namespace   string
	Doc         string
	Annotations []Anno
	Fields      []StructField
}

func (RecordType) isDataType() {}
func (RecordType) Kind() Kind  { return KindRecord }

// FullName returns the namespace-qualified record name, or the simple name
// when no namespace is set.
func (r RecordType) FullName() string {
	if r.Namespace == "" {
		return r.Name
	}
	return r.Namespace + "." + r.Name
}

// Field returns the field with the given name.
func (r RecordType) Field(name string) (StructField, bool) {
	for _, f := range r.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return StructField{}, false
}

// EnumType is the schema node for a closed set of named singleton
// alternatives.
type EnumType struct {
	Name        string
	Namespace   string
	Symbols     []string
	Annotations []Anno
}

func (EnumType) isDataType() {}
func (EnumType) Kind() Kind  { return KindEnum }

// FullName returns the namespace-qualified enum name.
func (e EnumType) FullName() string {
	if e.Namespace == "" {
		return e.Name
	}
	return e.Namespace + "." + e.Name
}

// HasSymbol reports whether s is one of the enum's declared symbols.
func (e EnumType) HasSymbol(s string) bool {
	for _, sym := range e.Symbols {
		if sym == s {
			return true
		}
	}
	return false
}

// Describe renders a short single-line description of a DataType, intended
// for diagnostics.
func Describe(dt DataType) string {
	switch t := dt.(type) {
	case Primitive:
		return t.String()
	case NullableType:
		return fmt.Sprintf("Nullable[%s]", Describe(t.Inner))
	case ArrayType:
		return fmt.Sprintf("Array[%s]", Describe(t.Element))
	case MapType:
		return fmt.Sprintf("Map[String,%s]", Describe(t.Value))
	case UnionType:
		s := "Union["
		for i, m := range t.Members {
			if i > 0 {
				s += ","
			}
			s += Describe(m)
		}
		return s + "]"
	case RecordType:
		return "Record[" + t.FullName() + "]"
	case EnumType:
		return "Enum[" + t.FullName() + "]"
	case DecimalType:
		return fmt.Sprintf("Decimal[%d,%d]", t.Precision, t.Scale)
	default:
		return dt.Kind().String()
	}
}
