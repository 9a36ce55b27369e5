package structavro

import (
	"fmt"
	"math/big"
	"reflect"
	"time"

	"github.com/linkedin/goavro/v2"

	"github.com/hengadev/structavro/generic"
	"github.com/hengadev/structavro/schema"
)

// avroCodec lazily builds the goavro codec for the plan's schema. The codec
// is immutable and shared by every Marshal call for the type.
func (p *plan) avroCodec() (*goavro.Codec, error) {
	p.codecOnce.Do(func() {
		js, err := schema.JSON(p.dataType)
		if err != nil {
			p.codecErr = err
			return
		}
		p.codec, p.codecErr = goavro.NewCodec(string(js))
	})
	return p.codec, p.codecErr
}

// Codec returns the Avro codec for the value's derived schema. The codec
// can decode binary data produced by Marshal back into goavro native form.
func (d *Deriver) Codec(v any) (*goavro.Codec, error) {
	t := reflect.TypeOf(v)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil {
		return nil, fmt.Errorf("%w: cannot derive a codec from a nil value", ErrNotAStruct)
	}
	pl, err := d.planFor(t)
	if err != nil {
		return nil, err
	}
	return pl.avroCodec()
}

// Marshal encodes a struct value to Avro binary, using the value's derived
// schema as the writer schema.
func (d *Deriver) Marshal(v any) ([]byte, error) {
	rec, err := d.Encode(v)
	if err != nil {
		return nil, err
	}
	pl, err := d.planFor(derefType(reflect.TypeOf(v)))
	if err != nil {
		return nil, err
	}
	codec, err := pl.avroCodec()
	if err != nil {
		return nil, err
	}
	native, err := nativeValue(pl.dataType, rec)
	if err != nil {
		return nil, err
	}
	return codec.BinaryFromNative(nil, native)
}

func derefType(t reflect.Type) reflect.Type {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}

// nativeValue converts an encoded value into the goavro native form for its
// schema node. Record fields absent from the encoded record fall back to
// their declared default, or to null for nullable fields.
func nativeValue(dt schema.DataType, v any) (any, error) {
	switch t := dt.(type) {
	case schema.NullableType:
		if v == nil {
			return nil, nil
		}
		return branchNative(t.Inner, v)
	case schema.UnionType:
		member, err := matchMember(t.Members, v)
		if err != nil {
			return nil, err
		}
		return branchNative(member, v)
	case schema.RecordType:
		rec, ok := v.(*generic.Record)
		if !ok {
			return nil, fmt.Errorf("record schema %s holds %T, want *generic.Record",
				schema.Describe(t), v)
		}
		out := make(map[string]any, len(t.Fields))
		for _, f := range t.Fields {
			fv, present := rec.Get(f.Name)
			switch {
			case present:
				nv, err := nativeValue(f.Type, fv)
				if err != nil {
					return nil, err
				}
				out[f.Name] = nv
			case f.HasDefault:
				nv, err := nativeValue(f.Type, f.Default)
				if err != nil {
					return nil, err
				}
				out[f.Name] = nv
			default:
				if hasNullBranch(f.Type) {
					out[f.Name] = nil
					continue
				}
				return nil, fmt.Errorf("field %s of %s is absent and has no default",
					f.Name, t.FullName())
			}
		}
		return out, nil
	case schema.ArrayType:
		in, ok := v.([]any)
		if !ok {
			return nil, fmt.Errorf("array schema holds %T, want []any", v)
		}
		out := make([]any, len(in))
		for i, e := range in {
			nv, err := nativeValue(t.Element, e)
			if err != nil {
				return nil, err
			}
			out[i] = nv
		}
		return out, nil
	case schema.MapType:
		in, ok := v.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("map schema holds %T, want map[string]any", v)
		}
		out := make(map[string]any, len(in))
		for k, e := range in {
			nv, err := nativeValue(t.Value, e)
			if err != nil {
				return nil, err
			}
			out[k] = nv
		}
		return out, nil
	default:
		// Scalars and logical values are already in goavro native form:
		// time.Time for the time logical types, *big.Rat for decimals,
		// strings for uuids and enum symbols.
		return v, nil
	}
}

// branchNative wraps a present value in the single branch map the codec
// expects, resolving nullable wrapping and spliced union shapes down to the
// leaf branch.
func branchNative(dt schema.DataType, v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	for {
		n, ok := dt.(schema.NullableType)
		if !ok {
			break
		}
		dt = n.Inner
	}
	if u, ok := dt.(schema.UnionType); ok {
		member, err := matchMember(u.Members, v)
		if err != nil {
			return nil, err
		}
		return branchNative(member, v)
	}
	nv, err := nativeValue(dt, v)
	if err != nil {
		return nil, err
	}
	return map[string]any{schema.BranchName(dt): nv}, nil
}

// hasNullBranch reports whether a schema node's wire form admits null.
func hasNullBranch(dt schema.DataType) bool {
	switch t := dt.(type) {
	case schema.NullableType:
		return true
	case schema.UnionType:
		for _, m := range t.Members {
			if hasNullBranch(m) {
				return true
			}
		}
	}
	return false
}

// matchMember picks the union member an encoded value belongs to, by the
// value's shape. Members are tried in union order, so an ambiguous value
// (a string against both a string and an enum member) takes the first match.
func matchMember(members []schema.DataType, v any) (schema.DataType, error) {
	for _, m := range members {
		if memberHolds(m, v) {
			return m, nil
		}
	}
	return nil, fmt.Errorf("no union member matches value of type %T", v)
}

func memberHolds(m schema.DataType, v any) bool {
	switch t := m.(type) {
	case schema.Primitive:
		switch t {
		case schema.Boolean:
			_, ok := v.(bool)
			return ok
		case schema.Byte, schema.Short, schema.Int:
			_, ok := v.(int32)
			return ok
		case schema.Long:
			_, ok := v.(int64)
			return ok
		case schema.Float:
			_, ok := v.(float32)
			return ok
		case schema.Double:
			_, ok := v.(float64)
			return ok
		case schema.String:
			_, ok := v.(string)
			return ok
		case schema.Binary:
			_, ok := v.([]byte)
			return ok
		}
		return false
	case schema.UUIDType, schema.EnumType:
		_, ok := v.(string)
		return ok
	case schema.TimestampType, schema.DateType, schema.LocalDateTimeType:
		_, ok := v.(time.Time)
		return ok
	case schema.DecimalType:
		_, ok := v.(*big.Rat)
		return ok
	case schema.NullableType:
		return memberHolds(t.Inner, v)
	case schema.UnionType:
		for _, m := range t.Members {
			if memberHolds(m, v) {
				return true
			}
		}
		return false
	case schema.ArrayType:
		_, ok := v.([]any)
		return ok
	case schema.MapType:
		_, ok := v.(map[string]any)
		return ok
	case schema.RecordType:
		rec, ok := v.(*generic.Record)
		if !ok {
			return false
		}
		rs := rec.Schema()
		if t.Name != "" || rs.Name != "" {
			return t.FullName() == rs.FullName()
		}
		return len(t.Fields) == len(rs.Fields)
	default:
		return false
	}
}
