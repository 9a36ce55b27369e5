package structavro

import (
	"fmt"
	"reflect"
	"sync"
)

// Go has no sealed sum types, so closed sets of alternatives are declared
// once through the registries below and resolved during derivation. The
// registries are process-wide: a type's shape never changes at runtime, so
// entries are never invalidated.
var (
	regMu    sync.RWMutex
	unions   = make(map[reflect.Type][]reflect.Type)
	enums    = make(map[reflect.Type][]string)
	wrappers = make(map[reflect.Type]struct{})
)

// RegisterUnion declares the closed, ordered set of alternative types for
// the interface type I. Each alternative is given as a (zero) value whose
// dynamic type implements I. Fields typed I derive to a flattened UnionType
// of the alternatives' schemas, in registration order.
func RegisterUnion[I any](alternatives ...any) error {
	iface := reflect.TypeFor[I]()
	if iface.Kind() != reflect.Interface {
		return fmt.Errorf("%w: union target %s is not an interface type",
			ErrInvalidRegistration, iface)
	}
	if len(alternatives) == 0 {
		return fmt.Errorf("%w: union %s needs at least one alternative",
			ErrInvalidRegistration, iface)
	}
	members := make([]reflect.Type, 0, len(alternatives))
	for _, alt := range alternatives {
		at := reflect.TypeOf(alt)
		if at == nil {
			return fmt.Errorf("%w: union %s alternative is untyped nil",
				ErrInvalidRegistration, iface)
		}
		if !at.Implements(iface) {
			return fmt.Errorf("%w: %s does not implement %s",
				ErrInvalidRegistration, at, iface)
		}
		members = append(members, at)
	}

	regMu.Lock()
	defer regMu.Unlock()
	if _, exists := unions[iface]; exists {
		return fmt.Errorf("%w: union %s", ErrAlreadyRegistered, iface)
	}
	unions[iface] = members
	return nil
}

// RegisterEnum declares the closed, ordered symbol set for the string-kind
// type E. Fields typed E derive to an EnumType with the given symbols;
// values encode as their string form.
func RegisterEnum[E ~string](symbols ...string) error {
	et := reflect.TypeFor[E]()
	if len(symbols) == 0 {
		return fmt.Errorf("%w: enum %s needs at least one symbol",
			ErrInvalidRegistration, et)
	}
	seen := make(map[string]struct{}, len(symbols))
	for _, s := range symbols {
		if s == "" {
			return fmt.Errorf("%w: enum %s has an empty symbol",
				ErrInvalidRegistration, et)
		}
		if _, dup := seen[s]; dup {
			return fmt.Errorf("%w: enum %s repeats symbol %q",
				ErrInvalidRegistration, et, s)
		}
		seen[s] = struct{}{}
	}

	regMu.Lock()
	defer regMu.Unlock()
	if _, exists := enums[et]; exists {
		return fmt.Errorf("%w: enum %s", ErrAlreadyRegistered, et)
	}
	enums[et] = append([]string(nil), symbols...)
	return nil
}

// RegisterWrapper declares the single-field struct type W as structurally
// transparent: fields typed W derive to the schema of W's only field, and
// that field's annotations propagate to the owning record field.
func RegisterWrapper[W any]() error {
	wt := reflect.TypeFor[W]()
	if wt.Kind() != reflect.Struct {
		return fmt.Errorf("%w: wrapper %s is not a struct type",
			ErrInvalidRegistration, wt)
	}
	exported := 0
	for i := range wt.NumField() {
		if wt.Field(i).IsExported() {
			exported++
		}
	}
	if exported != 1 {
		return fmt.Errorf("%w: wrapper %s must have exactly one exported field, has %d",
			ErrInvalidRegistration, wt, exported)
	}

	regMu.Lock()
	defer regMu.Unlock()
	if _, exists := wrappers[wt]; exists {
		return fmt.Errorf("%w: wrapper %s", ErrAlreadyRegistered, wt)
	}
	wrappers[wt] = struct{}{}
	return nil
}

// MustRegisterUnion is RegisterUnion, panicking on error. Intended for
// package-level declarations.
func MustRegisterUnion[I any](alternatives ...any) {
	if err := RegisterUnion[I](alternatives...); err != nil {
		panic(err)
	}
}

// MustRegisterEnum is RegisterEnum, panicking on error.
func MustRegisterEnum[E ~string](symbols ...string) {
	if err := RegisterEnum[E](symbols...); err != nil {
		panic(err)
	}
}

// MustRegisterWrapper is RegisterWrapper, panicking on error.
func MustRegisterWrapper[W any]() {
	if err := RegisterWrapper[W](); err != nil {
		panic(err)
	}
}

func unionMembers(t reflect.Type) ([]reflect.Type, bool) {
	regMu.RLock()
	defer regMu.RUnlock()
	members, ok := unions[t]
	return members, ok
}

func enumSymbols(t reflect.Type) ([]string, bool) {
	regMu.RLock()
	defer regMu.RUnlock()
	symbols, ok := enums[t]
	return symbols, ok
}

func isWrapper(t reflect.Type) bool {
	regMu.RLock()
	defer regMu.RUnlock()
	_, ok := wrappers[t]
	return ok
}
