// Package generic provides the structured-record sink that encoded values
// are written into: an ordered name-to-value container conforming to a
// derived record schema.
package generic

import (
	"github.com/hengadev/structavro/schema"
)

// Record is a concrete, ordered name-to-value container for one encoded
// value of a record type. Fields whose converted value is absent are never
// set, so a Record holds one entry per present field, in field order.
// Records are built fresh per input value and hold no identity beyond their
// contents.
type Record struct {
	schema  schema.RecordType
	index   map[string]int
	entries []entry
}

type entry struct {
	name  string
	value any
}

// NewRecord creates an empty Record conforming to the given record schema.
func NewRecord(rt schema.RecordType) *Record {
	return &Record{
		schema: rt,
		index:  make(map[string]int, len(rt.Fields)),
	}
}

// Schema returns the record schema this Record conforms to.
func (r *Record) Schema() schema.RecordType { return r.schema }

// Set writes a field value, preserving first-set order. Setting the same
// name again replaces the value in place.
func (r *Record) Set(name string, value any) {
	if i, ok := r.index[name]; ok {
		r.entries[i].value = value
		return
	}
	r.index[name] = len(r.entries)
	r.entries = append(r.entries, entry{name: name, value: value})
}

// Get returns the value set for name, and whether it was set at all.
func (r *Record) Get(name string) (any, bool) {
	i, ok := r.index[name]
	if !ok {
		return nil, false
	}
	return r.entries[i].value, true
}

// Has reports whether a value was set for name.
func (r *Record) Has(name string) bool {
	_, ok := r.index[name]
	return ok
}

// Len returns the number of set fields.
func (r *Record) Len() int { return len(r.entries) }

// Fields returns the set field names in order.
func (r *Record) Fields() []string {
	names := make([]string, len(r.entries))
	for i, e := range r.entries {
		names[i] = e.name
	}
	return names
}

// Map returns a snapshot of the set fields as a plain map.
func (r *Record) Map() map[string]any {
	m := make(map[string]any, len(r.entries))
	for _, e := range r.entries {
		m[e.name] = e.value
	}
	return m
}
