package structavro

import (
	"fmt"
	"math/big"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/google/uuid"
	"github.com/hengadev/errsx"
	"github.com/linkedin/goavro/v2"

	"github.com/hengadev/structavro/generic"
	"github.com/hengadev/structavro/internal/structinfo"
	"github.com/hengadev/structavro/schema"
)

// plan is the derivation output for one type: its schema tree plus the
// converter that encodes values of the type in lock-step with that tree.
// Plans are immutable after derivation and shared across callers.
type plan struct {
	dataType schema.DataType
	convert  converter

	// annos are annotations contributed by transparent wrapper types,
	// propagated up to the owning record field.
	annos []schema.Anno

	codecOnce sync.Once
	codec     *goavro.Codec
	codecErr  error
}

// converter encodes one runtime value into its schema-compatible
// representation. The boolean reports presence: an absent result (a None
// option, the inactive side of a union) contributes nothing to the
// enclosing record, sequence, or map. Errors only arise from caller
// contract violations such as an unregistered dynamic type inside a union.
type converter func(v reflect.Value) (any, bool, error)

// deriveState tracks in-progress struct derivations to reject recursive
// type shapes, which the immutable DataType tree cannot represent.
type deriveState struct {
	inProgress map[reflect.Type]struct{}
}

func newDeriveState() *deriveState {
	return &deriveState{inProgress: make(map[reflect.Type]struct{})}
}

var (
	uuidType   = reflect.TypeOf(uuid.UUID{})
	timeType   = reflect.TypeOf(time.Time{})
	ratType    = reflect.TypeOf(big.Rat{})
	eitherType = reflect.TypeOf((*eitherValue)(nil)).Elem()
	tupleType  = reflect.TypeOf((*tupleValue)(nil)).Elem()
)

// derive resolves the plan for a type shape. Dispatch is keyed by the shape
// of the type, never by runtime values; the path names the field under
// derivation for diagnostics.
func (d *Deriver) derive(t reflect.Type, path string, st *deriveState) (*plan, error) {
	switch t {
	case uuidType:
		return scalarPlan(schema.UUIDType{}, func(v reflect.Value) (any, bool, error) {
			return v.Interface().(uuid.UUID).String(), true, nil
		}), nil
	case timeType:
		return scalarPlan(schema.TimestampType{}, timeConverter), nil
	case ratType:
		return decimalPlan(d.config.DecimalPrecision, d.config.DecimalScale), nil
	}
	if t.Implements(eitherType) {
		return d.deriveEither(t, path, st)
	}
	if t.Implements(tupleType) {
		return d.deriveTuple(t, path, st)
	}
	if symbols, ok := enumSymbols(t); ok {
		return d.enumPlan(t, symbols), nil
	}

	switch t.Kind() {
	case reflect.Bool:
		return scalarPlan(schema.Boolean, func(v reflect.Value) (any, bool, error) {
			return v.Bool(), true, nil
		}), nil
	case reflect.String:
		return scalarPlan(schema.String, func(v reflect.Value) (any, bool, error) {
			return v.String(), true, nil
		}), nil
	case reflect.Int8:
		return intPlan(schema.Byte), nil
	case reflect.Int16:
		return intPlan(schema.Short), nil
	case reflect.Int32:
		return intPlan(schema.Int), nil
	case reflect.Int, reflect.Int64:
		return scalarPlan(schema.Long, func(v reflect.Value) (any, bool, error) {
			return v.Int(), true, nil
		}), nil
	case reflect.Uint8, reflect.Uint16:
		return scalarPlan(schema.Int, func(v reflect.Value) (any, bool, error) {
			return int32(v.Uint()), true, nil
		}), nil
	case reflect.Uint, reflect.Uint32, reflect.Uint64:
		return scalarPlan(schema.Long, func(v reflect.Value) (any, bool, error) {
			return int64(v.Uint()), true, nil
		}), nil
	case reflect.Float32:
		return scalarPlan(schema.Float, func(v reflect.Value) (any, bool, error) {
			return float32(v.Float()), true, nil
		}), nil
	case reflect.Float64:
		return scalarPlan(schema.Double, func(v reflect.Value) (any, bool, error) {
			return v.Float(), true, nil
		}), nil
	case reflect.Slice, reflect.Array:
		if t.Elem().Kind() == reflect.Uint8 {
			return scalarPlan(schema.Binary, bytesConverter), nil
		}
		return d.deriveSequence(t, path, st)
	case reflect.Map:
		return d.deriveMap(t, path, st)
	case reflect.Pointer:
		inner, err := d.derive(t.Elem(), path, st)
		if err != nil {
			return nil, err
		}
		return nullablePlan(inner), nil
	case reflect.Interface:
		members, ok := unionMembers(t)
		if !ok {
			return nil, NewUnregisteredTypeError(path, t)
		}
		return d.deriveUnion(t, members, path, st)
	case reflect.Struct:
		if isWrapper(t) {
			return d.deriveWrapper(t, path, st)
		}
		return d.deriveStruct(t, path, st)
	default:
		return nil, NewUnsupportedTypeError(path, t)
	}
}

// deriveStruct builds a record plan: fields derive in declaration order,
// each carrying its collected annotations and its default value, computed
// once here rather than per record. Field errors are collected per path so
// one pass reports every unsupported field.
func (d *Deriver) deriveStruct(t reflect.Type, path string, st *deriveState) (*plan, error) {
	if _, busy := st.inProgress[t]; busy {
		return nil, NewRecursiveTypeError(path, t)
	}
	st.inProgress[t] = struct{}{}
	defer delete(st.inProgress, t)

	infos, err := structinfo.Fields(t)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTag, err)
	}

	var errs errsx.Map
	fields := make([]schema.StructField, 0, len(infos))
	convs := make([]fieldConverter, 0, len(infos))
	seen := make(map[string]struct{}, len(infos))
	for _, fi := range infos {
		name := fi.TagName
		if name == "" {
			name = mapFieldName(fi.GoName, d.config.FieldNames)
		}
		fpath := path + "." + name
		if _, dup := seen[name]; dup {
			errs.Set(fpath, NewDuplicateFieldError(fpath, name))
			continue
		}
		seen[name] = struct{}{}

		fpl, err := d.deriveField(fi, fpath, st)
		if err != nil {
			errs.Set(fpath, err)
			continue
		}
		sf := schema.StructField{
			Name:        name,
			Type:        fpl.dataType,
			Doc:         fi.Doc,
			Annotations: mergeAnnos(fi.Annotations, fpl.annos),
		}
		if fi.HasDefault {
			def, err := parseDefault(fi.DefaultRaw, fpl.dataType)
			if err != nil {
				errs.Set(fpath, NewInvalidDefaultError(fpath, fi.DefaultRaw, err))
				continue
			}
			sf.Default, sf.HasDefault = def, true
		}
		fields = append(fields, sf)
		convs = append(convs, fieldConverter{name: name, index: fi.Index, convert: fpl.convert})
	}
	if !errs.IsEmpty() {
		return nil, errs.AsError()
	}

	rt := schema.RecordType{Name: t.Name(), Namespace: d.config.Namespace, Fields: fields}
	return &plan{
		dataType: rt,
		convert: func(v reflect.Value) (any, bool, error) {
			rec := generic.NewRecord(rt)
			if err := writeRecord(rec, convs, v); err != nil {
				return nil, false, err
			}
			return rec, true, nil
		},
	}, nil
}

// deriveField resolves one struct field, honoring its logical-type hints
// before falling back to shape dispatch.
func (d *Deriver) deriveField(fi structinfo.Field, path string, st *deriveState) (*plan, error) {
	switch {
	case fi.Date, fi.LocalDateTime:
		var dt schema.DataType = schema.DateType{}
		if fi.LocalDateTime {
			dt = schema.LocalDateTimeType{}
		}
		switch fi.Type {
		case timeType:
			return scalarPlan(dt, timeConverter), nil
		case reflect.PointerTo(timeType):
			return nullablePlan(scalarPlan(dt, timeConverter)), nil
		}
		return nil, fmt.Errorf("%w: date option requires time.Time at field %s, got %s",
			ErrInvalidTag, path, fi.Type)
	case fi.HasDecimal:
		switch fi.Type {
		case ratType:
			return decimalPlan(fi.Precision, fi.Scale), nil
		case reflect.PointerTo(ratType):
			return nullablePlan(decimalPlan(fi.Precision, fi.Scale)), nil
		}
		return nil, fmt.Errorf("%w: decimal tag requires big.Rat at field %s, got %s",
			ErrInvalidTag, path, fi.Type)
	default:
		return d.derive(fi.Type, path, st)
	}
}

// deriveWrapper makes a registered single-field wrapper transparent: the
// plan is the wrapped field's plan, and the wrapped field's annotations
// propagate up to whatever record field holds the wrapper.
func (d *Deriver) deriveWrapper(t reflect.Type, path string, st *deriveState) (*plan, error) {
	infos, err := structinfo.Fields(t)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTag, err)
	}
	if len(infos) != 1 {
		return nil, fmt.Errorf("%w: wrapper %s must expose exactly one field",
			ErrInvalidRegistration, t)
	}
	fi := infos[0]
	inner, err := d.deriveField(fi, path, st)
	if err != nil {
		return nil, err
	}
	idx := fi.Index
	return &plan{
		dataType: inner.dataType,
		annos:    mergeAnnos(fi.Annotations, inner.annos),
		convert: func(v reflect.Value) (any, bool, error) {
			return inner.convert(v.Field(idx))
		},
	}, nil
}

// deriveTuple builds an anonymous record with positional field names.
func (d *Deriver) deriveTuple(t reflect.Type, path string, st *deriveState) (*plan, error) {
	n := t.NumField()
	fields := make([]schema.StructField, 0, n)
	convs := make([]fieldConverter, 0, n)
	for i := range n {
		name := fmt.Sprintf("_%d", i+1)
		fpl, err := d.derive(t.Field(i).Type, path+"."+name, st)
		if err != nil {
			return nil, err
		}
		fields = append(fields, schema.StructField{Name: name, Type: fpl.dataType})
		convs = append(convs, fieldConverter{name: name, index: i, convert: fpl.convert})
	}
	rt := schema.RecordType{Fields: fields}
	return &plan{
		dataType: rt,
		convert: func(v reflect.Value) (any, bool, error) {
			rec := generic.NewRecord(rt)
			if err := writeRecord(rec, convs, v); err != nil {
				return nil, false, err
			}
			return rec, true, nil
		},
	}, nil
}

// deriveEither builds a two-member union, left first, flattened if either
// side is itself union-shaped. Encoding dispatches on the populated side;
// the inactive side contributes nothing.
func (d *Deriver) deriveEither(t reflect.Type, path string, st *deriveState) (*plan, error) {
	lt, rt := reflect.Zero(t).Interface().(eitherValue).eitherSides()
	lp, err := d.derive(lt, path+".left", st)
	if err != nil {
		return nil, err
	}
	rp, err := d.derive(rt, path+".right", st)
	if err != nil {
		return nil, err
	}
	u := schema.Union(lp.dataType, rp.dataType)
	if err := validateUnionBranches(u, path); err != nil {
		return nil, err
	}
	return &plan{
		dataType: u,
		convert: func(v reflect.Value) (any, bool, error) {
			side, isRight := v.Interface().(eitherValue).eitherValue()
			if isRight {
				return rp.convert(side)
			}
			return lp.convert(side)
		},
	}, nil
}

// deriveUnion builds the plan for a registered interface type. Member
// schemas combine left-to-right with the flattening union merge; the single
// alternative base case yields the member's own schema, not a one-member
// union. Encoding dispatches on the value's dynamic type in registration
// order; a nil interface value is absent.
func (d *Deriver) deriveUnion(t reflect.Type, members []reflect.Type, path string, st *deriveState) (*plan, error) {
	type unionEntry struct {
		t       reflect.Type
		convert converter
	}
	dts := make([]schema.DataType, 0, len(members))
	entries := make([]unionEntry, 0, len(members))
	for _, mt := range members {
		mpath := path + "." + mt.String()
		mp, err := d.derive(mt, mpath, st)
		if err != nil {
			return nil, err
		}
		dts = append(dts, mp.dataType)
		entries = append(entries, unionEntry{t: mt, convert: mp.convert})
	}

	var dt schema.DataType
	if len(dts) == 1 {
		dt = dts[0]
	} else {
		u := schema.Union(dts...)
		if err := validateUnionBranches(u, path); err != nil {
			return nil, err
		}
		dt = u
	}
	return &plan{
		dataType: dt,
		convert: func(v reflect.Value) (any, bool, error) {
			if v.IsNil() {
				return nil, false, nil
			}
			dyn := v.Elem()
			for _, e := range entries {
				if dyn.Type() == e.t {
					return e.convert(dyn)
				}
			}
			return nil, false, fmt.Errorf("%w: dynamic type %s is not an alternative of %s",
				ErrUnregisteredType, dyn.Type(), t)
		},
	}, nil
}

// deriveSequence erases the container: any slice or array of T becomes
// Array[T]. Elements whose converter yields nothing are dropped, so the
// encoded sequence holds the ordered present elements and may be shorter
// than the input.
func (d *Deriver) deriveSequence(t reflect.Type, path string, st *deriveState) (*plan, error) {
	ep, err := d.derive(t.Elem(), path, st)
	if err != nil {
		return nil, err
	}
	return &plan{
		dataType: schema.ArrayType{Element: ep.dataType},
		convert: func(v reflect.Value) (any, bool, error) {
			out := make([]any, 0, v.Len())
			for i := range v.Len() {
				o, ok, err := ep.convert(v.Index(i))
				if err != nil {
					return nil, false, err
				}
				if ok {
					out = append(out, o)
				}
			}
			return out, true, nil
		},
	}, nil
}

// deriveMap requires string keys; entries whose value converts to nothing
// are dropped from the encoded mapping.
func (d *Deriver) deriveMap(t reflect.Type, path string, st *deriveState) (*plan, error) {
	if t.Key().Kind() != reflect.String {
		return nil, NewUnsupportedKeyTypeError(path, t.Key())
	}
	vp, err := d.derive(t.Elem(), path, st)
	if err != nil {
		return nil, err
	}
	return &plan{
		dataType: schema.MapType{Value: vp.dataType},
		convert: func(v reflect.Value) (any, bool, error) {
			out := make(map[string]any, v.Len())
			iter := v.MapRange()
			for iter.Next() {
				o, ok, err := vp.convert(iter.Value())
				if err != nil {
					return nil, false, err
				}
				if ok {
					out[iter.Key().String()] = o
				}
			}
			return out, true, nil
		},
	}, nil
}

func (d *Deriver) enumPlan(t reflect.Type, symbols []string) *plan {
	return scalarPlan(schema.EnumType{
		Name:      t.Name(),
		Namespace: d.config.Namespace,
		Symbols:   symbols,
	}, func(v reflect.Value) (any, bool, error) {
		return v.String(), true, nil
	})
}

func scalarPlan(dt schema.DataType, conv converter) *plan {
	return &plan{dataType: dt, convert: conv}
}

func intPlan(p schema.Primitive) *plan {
	return scalarPlan(p, func(v reflect.Value) (any, bool, error) {
		return int32(v.Int()), true, nil
	})
}

func decimalPlan(precision, scale int) *plan {
	return scalarPlan(schema.DecimalType{Precision: precision, Scale: scale},
		func(v reflect.Value) (any, bool, error) {
			r := v.Interface().(big.Rat)
			return &r, true, nil
		})
}

// nullablePlan wraps a plan for optional occurrence: nil is absent, a
// present value converts with the inner plan and propagates that plan's own
// absence.
func nullablePlan(inner *plan) *plan {
	return &plan{
		dataType: schema.NullableType{Inner: inner.dataType},
		annos:    inner.annos,
		convert: func(v reflect.Value) (any, bool, error) {
			if v.IsNil() {
				return nil, false, nil
			}
			return inner.convert(v.Elem())
		},
	}
}

func timeConverter(v reflect.Value) (any, bool, error) {
	return v.Interface().(time.Time), true, nil
}

func bytesConverter(v reflect.Value) (any, bool, error) {
	if v.Kind() == reflect.Slice {
		return append([]byte(nil), v.Bytes()...), true, nil
	}
	out := make([]byte, v.Len())
	for i := range v.Len() {
		out[i] = byte(v.Index(i).Uint())
	}
	return out, true, nil
}

// parseDefault turns a field's declared default literal into the value
// attached to its StructField, parsed once against the derived type.
func parseDefault(raw string, dt schema.DataType) (any, error) {
	switch t := dt.(type) {
	case schema.Primitive:
		switch t {
		case schema.Boolean:
			return strconv.ParseBool(raw)
		case schema.Byte, schema.Short, schema.Int:
			n, err := strconv.ParseInt(raw, 10, 32)
			return int32(n), err
		case schema.Long:
			return strconv.ParseInt(raw, 10, 64)
		case schema.Float:
			f, err := strconv.ParseFloat(raw, 32)
			return float32(f), err
		case schema.Double:
			return strconv.ParseFloat(raw, 64)
		case schema.String:
			return raw, nil
		case schema.Binary:
			return []byte(raw), nil
		}
	case schema.UUIDType:
		if _, err := uuid.Parse(raw); err != nil {
			return nil, err
		}
		return raw, nil
	case schema.EnumType:
		if !t.HasSymbol(raw) {
			return nil, fmt.Errorf("%q is not a symbol of %s", raw, t.FullName())
		}
		return raw, nil
	case schema.NullableType:
		if raw != "null" {
			return nil, fmt.Errorf("nullable fields only accept the default \"null\"")
		}
		return nil, nil
	}
	return nil, fmt.Errorf("defaults are not supported for %s fields", schema.Describe(dt))
}

// validateUnionBranches rejects unions whose members collapse to the same
// wire branch. Such a union could never dispatch unambiguously and would
// otherwise only surface later as a codec construction failure.
func validateUnionBranches(u schema.UnionType, path string) error {
	names := branchNames(u, nil)
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		if _, dup := seen[name]; dup {
			return fmt.Errorf("%w: union members at field %s share the branch %q",
				ErrInvalidRegistration, path, name)
		}
		seen[name] = struct{}{}
	}
	return nil
}

// branchNames collects the non-null wire branch names reachable from a
// union-shaped node. Nullable members all share the one null branch, so
// nullability itself never collides.
func branchNames(dt schema.DataType, names []string) []string {
	switch t := dt.(type) {
	case schema.NullableType:
		return branchNames(t.Inner, names)
	case schema.UnionType:
		for _, m := range t.Members {
			names = branchNames(m, names)
		}
		return names
	default:
		return append(names, schema.BranchName(dt))
	}
}

func mergeAnnos(a, b []schema.Anno) []schema.Anno {
	if len(a) == 0 && len(b) == 0 {
		return nil
	}
	out := make([]schema.Anno, 0, len(a)+len(b))
	out = append(out, a...)
	return append(out, b...)
}

// mapFieldName applies the configured naming style to Go field names that
// carry no explicit rename.
func mapFieldName(name, style string) string {
	switch style {
	case FieldNamesSnake:
		var b strings.Builder
		for i, r := range name {
			if unicode.IsUpper(r) {
				if i > 0 {
					b.WriteByte('_')
				}
				b.WriteRune(unicode.ToLower(r))
			} else {
				b.WriteRune(r)
			}
		}
		return b.String()
	case FieldNamesCamel:
		r := []rune(name)
		r[0] = unicode.ToLower(r[0])
		return string(r)
	default:
		return name
	}
}
