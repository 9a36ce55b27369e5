package structavro

import (
	"fmt"
	"reflect"
	"time"

	"github.com/hengadev/structavro/generic"
	"github.com/hengadev/structavro/schema"
)

// fieldConverter pairs a record field with the struct field it reads from.
type fieldConverter struct {
	name    string
	index   int
	convert converter
}

// writeRecord folds a struct value into a record field by field. Absent
// results are skipped, so the record only holds the fields that produced a
// value. The empty field list is the base case and writes nothing.
func writeRecord(rec *generic.Record, fields []fieldConverter, v reflect.Value) error {
	for _, fc := range fields {
		out, ok, err := fc.convert(v.Field(fc.index))
		if err != nil {
			return err
		}
		if ok {
			rec.Set(fc.name, out)
		}
	}
	return nil
}

// Encode converts a struct value into a generic record whose layout follows
// the value's derived schema. Pointers are followed to the underlying
// struct; a nil pointer cannot be encoded.
func (d *Deriver) Encode(v any) (*generic.Record, error) {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil, fmt.Errorf("%w: cannot encode a nil pointer", ErrNotAStruct)
		}
		rv = rv.Elem()
	}
	if !rv.IsValid() {
		return nil, fmt.Errorf("%w: cannot encode a nil value", ErrNotAStruct)
	}

	pl, err := d.planFor(rv.Type())
	if err != nil {
		return nil, err
	}
	if _, ok := pl.dataType.(schema.RecordType); !ok {
		return nil, fmt.Errorf("%w: %s derives to %s, only record-shaped types encode",
			ErrNotAStruct, rv.Type(), schema.Describe(pl.dataType))
	}

	start := time.Now()
	out, _, err := pl.convert(rv)
	d.hook.OnEncodeComplete(rv.Type(), time.Since(start), err)
	d.metrics.RecordTiming(MetricEncodeTime, time.Since(start), map[string]string{"type": rv.Type().String()})
	if err != nil {
		d.metrics.IncrementCounter(MetricEncodeErrors, nil)
		return nil, err
	}
	return out.(*generic.Record), nil
}
