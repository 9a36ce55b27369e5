// Package structinfo is the type-structure introspection facade used by
// schema derivation. It answers exactly one question: for a struct type,
// what is the ordered list of fields together with their declared metadata
// (rename, logical-type hints, default literal, documentation, annotations).
package structinfo

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/hengadev/structavro/schema"
)

// Tag names understood by derivation.
const (
	TagName    = "avro"
	TagDefault = "default"
	TagDoc     = "doc"
	TagAnno    = "anno"
	TagDecimal = "decimal"
)

// Field describes one struct field in declaration order.
type Field struct {
	// GoName is the declared Go field name.
	GoName string
	// TagName is the rename from the avro tag, or empty.
	TagName string
	// Index is the field's position in the struct.
	Index int
	// Type is the field's declared type.
	Type reflect.Type

	Doc         string
	Annotations []schema.Anno

	// DefaultRaw is the literal from the default tag, parsed against the
	// derived field type once at derivation time.
	DefaultRaw string
	HasDefault bool

	// Logical-type hints from avro tag options.
	Date          bool
	LocalDateTime bool

	// Decimal shape from the decimal tag.
	Precision  int
	Scale      int
	HasDecimal bool
}

// Fields returns the ordered, exported fields of a struct type with their
// parsed tag metadata. Unexported fields and fields tagged `avro:"-"` are
// omitted.
func Fields(t reflect.Type) ([]Field, error) {
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("structinfo: %s is not a struct", t)
	}
	fields := make([]Field, 0, t.NumField())
	for i := range t.NumField() {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		tag := sf.Tag.Get(TagName)
		if tag == "-" {
			continue
		}
		f := Field{
			GoName: sf.Name,
			Index:  i,
			Type:   sf.Type,
			Doc:    sf.Tag.Get(TagDoc),
		}
		if err := parseNameTag(tag, &f); err != nil {
			return nil, fmt.Errorf("field %s.%s: %w", t.Name(), sf.Name, err)
		}
		if raw, ok := sf.Tag.Lookup(TagDefault); ok {
			f.DefaultRaw = raw
			f.HasDefault = true
		}
		if dec, ok := sf.Tag.Lookup(TagDecimal); ok {
			p, s, err := parseDecimalTag(dec)
			if err != nil {
				return nil, fmt.Errorf("field %s.%s: %w", t.Name(), sf.Name, err)
			}
			f.Precision, f.Scale, f.HasDecimal = p, s, true
		}
		annos, err := parseAnnoTag(sf.Tag.Get(TagAnno))
		if err != nil {
			return nil, fmt.Errorf("field %s.%s: %w", t.Name(), sf.Name, err)
		}
		f.Annotations = annos
		fields = append(fields, f)
	}
	return fields, nil
}

func parseNameTag(tag string, f *Field) error {
	if tag == "" {
		return nil
	}
	parts := strings.Split(tag, ",")
	f.TagName = strings.TrimSpace(parts[0])
	for _, opt := range parts[1:] {
		switch strings.TrimSpace(opt) {
		case "date":
			f.Date = true
		case "localdatetime":
			f.LocalDateTime = true
		case "":
		default:
			return fmt.Errorf("unknown avro tag option %q", opt)
		}
	}
	return nil
}

func parseDecimalTag(tag string) (precision, scale int, err error) {
	parts := strings.Split(tag, ",")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("decimal tag must be \"precision,scale\", got %q", tag)
	}
	precision, err = strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, fmt.Errorf("decimal precision %q: %w", parts[0], err)
	}
	scale, err = strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, fmt.Errorf("decimal scale %q: %w", parts[1], err)
	}
	if precision <= 0 || scale < 0 || scale > precision {
		return 0, 0, fmt.Errorf("decimal shape (%d,%d) out of range", precision, scale)
	}
	return precision, scale, nil
}

// parseAnnoTag parses `anno:"name(a,b);name2"` into ordered annotations.
func parseAnnoTag(tag string) ([]schema.Anno, error) {
	if tag == "" {
		return nil, nil
	}
	var annos []schema.Anno
	for _, part := range strings.Split(tag, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		open := strings.IndexByte(part, '(')
		if open < 0 {
			annos = append(annos, schema.Anno{Name: part})
			continue
		}
		if !strings.HasSuffix(part, ")") {
			return nil, fmt.Errorf("malformed annotation %q", part)
		}
		name := strings.TrimSpace(part[:open])
		if name == "" {
			return nil, fmt.Errorf("malformed annotation %q", part)
		}
		body := part[open+1 : len(part)-1]
		var args []string
		if body != "" {
			for _, a := range strings.Split(body, ",") {
				args = append(args, strings.TrimSpace(a))
			}
		}
		annos = append(annos, schema.Anno{Name: name, Arguments: args})
	}
	return annos, nil
}
