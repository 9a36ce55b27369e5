package schema

import (
	"encoding/json"
	"fmt"
)

// JSON renders a DataType tree as an Avro schema document. Named types
// (records, enums) are defined at their first occurrence and referenced by
// full name afterwards. The wire format cannot nest unions, so nullable and
// union shapes that compose flatten to one member list: nested nullability
// collapses to a single "null" branch and union members splice in place.
func JSON(dt DataType) ([]byte, error) {
	tree, err := jsonTree(dt, map[string]bool{})
	if err != nil {
		return nil, err
	}
	return json.Marshal(tree)
}

func jsonTree(dt DataType, defined map[string]bool) (any, error) {
	switch t := dt.(type) {
	case Primitive:
		return primitiveName(t), nil
	case UUIDType:
		return map[string]any{"type": "string", "logicalType": "uuid"}, nil
	case DecimalType:
		return map[string]any{
			"type":        "bytes",
			"logicalType": "decimal",
			"precision":   t.Precision,
			"scale":       t.Scale,
		}, nil
	case TimestampType:
		return map[string]any{"type": "long", "logicalType": "timestamp-millis"}, nil
	case DateType:
		return map[string]any{"type": "int", "logicalType": "date"}, nil
	case LocalDateTimeType:
		return map[string]any{"type": "long", "logicalType": "local-timestamp-millis"}, nil
	case NullableType:
		return wireUnion(t, defined)
	case ArrayType:
		elem, err := jsonTree(t.Element, defined)
		if err != nil {
			return nil, err
		}
		return map[string]any{"type": "array", "items": elem}, nil
	case MapType:
		val, err := jsonTree(t.Value, defined)
		if err != nil {
			return nil, err
		}
		return map[string]any{"type": "map", "values": val}, nil
	case UnionType:
		return wireUnion(t, defined)
	case RecordType:
		name := recordJSONName(t)
		full := name
		if t.Namespace != "" {
			full = t.Namespace + "." + name
		}
		if defined[full] {
			return full, nil
		}
		defined[full] = true
		fields := make([]any, 0, len(t.Fields))
		for _, f := range t.Fields {
			ft, err := jsonTree(f.Type, defined)
			if err != nil {
				return nil, err
			}
			fj := map[string]any{"name": f.Name, "type": ft}
			if f.Doc != "" {
				fj["doc"] = f.Doc
			}
			if f.HasDefault {
				fj["default"] = f.Default
			}
			fields = append(fields, fj)
		}
		rj := map[string]any{"type": "record", "name": name, "fields": fields}
		if t.Namespace != "" {
			rj["namespace"] = t.Namespace
		}
		if t.Doc != "" {
			rj["doc"] = t.Doc
		}
		return rj, nil
	case EnumType:
		if defined[t.FullName()] {
			return t.FullName(), nil
		}
		defined[t.FullName()] = true
		ej := map[string]any{"type": "enum", "name": t.Name, "symbols": t.Symbols}
		if t.Namespace != "" {
			ej["namespace"] = t.Namespace
		}
		return ej, nil
	default:
		return nil, fmt.Errorf("cannot render %s schema", dt.Kind())
	}
}

// wireUnion renders a union-shaped node as one flat member list. Nullable
// members contribute a single shared "null" branch followed by their inner
// rendering; union shapes reached through a nullable wrapper splice their
// members in place.
func wireUnion(dt DataType, defined map[string]bool) (any, error) {
	leaves, hasNull := wireMembers(dt, nil, false)
	out := make([]any, 0, len(leaves)+1)
	if hasNull {
		out = append(out, "null")
	}
	for _, leaf := range leaves {
		lj, err := jsonTree(leaf, defined)
		if err != nil {
			return nil, err
		}
		out = append(out, lj)
	}
	return out, nil
}

// wireMembers flattens a union-shaped node to its non-null leaf members,
// reporting whether any level was nullable.
func wireMembers(dt DataType, leaves []DataType, hasNull bool) ([]DataType, bool) {
	switch t := dt.(type) {
	case NullableType:
		return wireMembers(t.Inner, leaves, true)
	case UnionType:
		for _, m := range t.Members {
			leaves, hasNull = wireMembers(m, leaves, hasNull)
		}
		return leaves, hasNull
	default:
		return append(leaves, dt), hasNull
	}
}

func primitiveName(p Primitive) string {
	switch p {
	case Boolean:
		return "boolean"
	case Byte, Short, Int:
		return "int"
	case Long:
		return "long"
	case Float:
		return "float"
	case Double:
		return "double"
	case String:
		return "string"
	case Binary:
		return "bytes"
	}
	return "null"
}

// recordJSONName supplies the wire name for a record. Anonymous records only
// arise from tuples, which render as TupleN.
func recordJSONName(r RecordType) string {
	if r.Name != "" {
		return r.Name
	}
	return fmt.Sprintf("Tuple%d", len(r.Fields))
}

// BranchName returns the key identifying a DataType inside an encoded union
// value, matching the naming the Avro codec library expects.
func BranchName(dt DataType) string {
	switch t := dt.(type) {
	case Primitive:
		return primitiveName(t)
	case UUIDType:
		return "string.uuid"
	case DecimalType:
		return "bytes.decimal"
	case TimestampType:
		return "long.timestamp-millis"
	case DateType:
		return "int.date"
	case LocalDateTimeType:
		return "long.local-timestamp-millis"
	case NullableType:
		return BranchName(t.Inner)
	case ArrayType:
		return "array"
	case MapType:
		return "map"
	case RecordType:
		if t.Name == "" {
			return recordJSONName(t)
		}
		return t.FullName()
	case EnumType:
		return t.FullName()
	default:
		return "null"
	}
}
