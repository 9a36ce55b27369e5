package schema

import "reflect"

// Equal reports structural equality of two DataType trees. Deriving the same
// type shape twice yields Equal trees, which is what makes derivation output
// safe to memoize.
func Equal(a, b DataType) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Kind() != b.Kind() {
		return false
	}
	switch at := a.(type) {
	case Primitive:
		return at == b.(Primitive)
	case UUIDType, TimestampType, DateType, LocalDateTimeType:
		return true
	case DecimalType:
		bt := b.(DecimalType)
		return at.Precision == bt.Precision && at.Scale == bt.Scale
	case NullableType:
		return Equal(at.Inner, b.(NullableType).Inner)
	case ArrayType:
		return Equal(at.Element, b.(ArrayType).Element)
	case MapType:
		return Equal(at.Value, b.(MapType).Value)
	case UnionType:
		bt := b.(UnionType)
		if len(at.Members) != len(bt.Members) {
			return false
		}
		for i := range at.Members {
			if !Equal(at.Members[i], bt.Members[i]) {
				return false
			}
		}
		return true
	case RecordType:
		bt := b.(RecordType)
		if at.Name != bt.Name || at.Namespace != bt.Namespace || at.Doc != bt.Doc {
			return false
		}
		if !annosEqual(at.Annotations, bt.Annotations) || len(at.Fields) != len(bt.Fields) {
			return false
		}
		for i := range at.Fields {
			if !fieldsEqual(at.Fields[i], bt.Fields[i]) {
				return false
			}
		}
		return true
	case EnumType:
		bt := b.(EnumType)
		if at.Name != bt.Name || at.Namespace != bt.Namespace {
			return false
		}
		if !annosEqual(at.Annotations, bt.Annotations) || len(at.Symbols) != len(bt.Symbols) {
			return false
		}
		for i := range at.Symbols {
			if at.Symbols[i] != bt.Symbols[i] {
				return false
			}
		}
		return true
	default:
		return false
	}
}

func fieldsEqual(a, b StructField) bool {
	if a.Name != b.Name || a.Doc != b.Doc || a.HasDefault != b.HasDefault {
		return false
	}
	if !annosEqual(a.Annotations, b.Annotations) {
		return false
	}
	if a.HasDefault && !reflect.DeepEqual(a.Default, b.Default) {
		return false
	}
	return Equal(a.Type, b.Type)
}

func annosEqual(a, b []Anno) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Name != b[i].Name {
			return false
		}
		if len(a[i].Arguments) != len(b[i].Arguments) {
			return false
		}
		for j := range a[i].Arguments {
			if a[i].Arguments[j] != b[i].Arguments[j] {
				return false
			}
		}
	}
	return true
}
