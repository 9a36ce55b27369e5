// Package structavro derives Avro schemas from Go struct types and encodes
// struct values into records that conform to those schemas.
//
// Derivation walks a type's shape with reflection and produces an immutable
// DataType tree: primitives, logical types (UUID, timestamps, dates,
// decimals), nullable pointers, sequences, string-keyed maps, registered
// unions and enums, and nested records. Encoding reuses the same walk to
// turn a value into an ordered generic.Record whose layout mirrors the
// derived schema, and Marshal bridges the record to Avro binary through a
// goavro codec built from the schema.
//
// Basic usage:
//
//	type Pizza struct {
//		Name     string  `avro:"name"`
//		Vegan    bool    `avro:"vegan"`
//		Calories int32   `avro:"kcals" default:"600"`
//	}
//
//	dt, err := structavro.Schema(Pizza{})
//	rec, err := structavro.Encode(Pizza{Name: "margherita", Vegan: true})
//	data, err := structavro.Marshal(Pizza{Name: "margherita"})
//
// Struct tags control field names (`avro:"name"`), logical-type hints for
// time.Time fields (`avro:"d,date"`, `avro:"ts,localdatetime"`), decimal
// shape for big.Rat fields (`decimal:"10,2"`), defaults (`default:"600"`),
// documentation (`doc:"..."`), and annotations (`anno:"pii;since(2)"`).
// Fields tagged `avro:"-"` are skipped.
//
// Go has no sum types, so closed alternatives are declared up front:
// RegisterUnion binds an interface type to its ordered alternatives,
// RegisterEnum binds a string-kind type to its symbol set, and
// RegisterWrapper marks a single-field struct as structurally transparent.
//
// A Deriver memoizes one derivation per type and is safe for concurrent
// use. Configure namespaces, decimal precision, and field naming with New:
//
//	d, err := structavro.New(
//		structavro.WithNamespace("com.example.kitchen"),
//		structavro.WithFieldNames(structavro.FieldNamesSnake),
//	)
package structavro
