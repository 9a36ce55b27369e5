package structavro

import (
	"reflect"

	"github.com/linkedin/goavro/v2"

	"github.com/hengadev/structavro/generic"
	"github.com/hengadev/structavro/schema"
)

// Schema derives the schema for the value's type.
func (d *Deriver) Schema(v any) (schema.DataType, error) {
	t := reflect.TypeOf(v)
	if t == nil {
		return nil, NewUnsupportedTypeError("value", nil)
	}
	return d.SchemaOf(derefType(t))
}

// SchemaOf derives the schema for a reflect.Type. Any supported type shape
// works, not just structs.
func (d *Deriver) SchemaOf(t reflect.Type) (schema.DataType, error) {
	pl, err := d.planFor(t)
	if err != nil {
		return nil, err
	}
	return pl.dataType, nil
}

// defaultDeriver backs the package-level convenience functions. It carries
// the default configuration; callers needing a namespace, decimal shape, or
// field naming style construct their own Deriver with New.
var defaultDeriver = func() *Deriver {
	d, err := New()
	if err != nil {
		panic(err)
	}
	return d
}()

// Schema derives the schema for the value's type using the default
// configuration.
func Schema(v any) (schema.DataType, error) {
	return defaultDeriver.Schema(v)
}

// SchemaFor derives the schema for the type parameter using the default
// configuration.
func SchemaFor[T any]() (schema.DataType, error) {
	return defaultDeriver.SchemaOf(reflect.TypeFor[T]())
}

// Encode converts a struct value into a generic record using the default
// configuration.
func Encode(v any) (*generic.Record, error) {
	return defaultDeriver.Encode(v)
}

// Marshal encodes a struct value to Avro binary using the default
// configuration.
func Marshal(v any) ([]byte, error) {
	return defaultDeriver.Marshal(v)
}

// Codec returns the Avro codec for the value's derived schema using the
// default configuration.
func Codec(v any) (*goavro.Codec, error) {
	return defaultDeriver.Codec(v)
}
