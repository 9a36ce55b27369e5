package structavro

import (
	"errors"
	"fmt"
	"reflect"
)

var (
	// Derivation errors
	ErrUnsupportedType    = errors.New("unsupported type")
	ErrUnsupportedKeyType = errors.New("unsupported map key type")
	ErrDuplicateField     = errors.New("duplicate field name")
	ErrNotAStruct         = errors.New("not a struct type")
	ErrUnregisteredType   = errors.New("type not registered")
	ErrRecursiveType      = errors.New("recursive type")
	ErrInvalidDefault     = errors.New("invalid default value")
	ErrInvalidTag         = errors.New("invalid struct tag")

	// Registration errors
	ErrAlreadyRegistered   = errors.New("already registered")
	ErrInvalidRegistration = errors.New("invalid registration")

	// Configuration errors
	ErrInvalidConfiguration = errors.New("invalid configuration")
)

func NewUnsupportedTypeError(path string, t reflect.Type) error {
	return fmt.Errorf("%w: no schema available for type %s at field %s",
		ErrUnsupportedType, t, path)
}

func NewUnsupportedKeyTypeError(path string, key reflect.Type) error {
	return fmt.Errorf("%w: map key type must be string, got %s at field %s",
		ErrUnsupportedKeyType, key, path)
}

func NewDuplicateFieldError(path, name string) error {
	return fmt.Errorf("%w: field %s resolves to name %q already used in the same record",
		ErrDuplicateField, path, name)
}

func NewUnregisteredTypeError(path string, t reflect.Type) error {
	return fmt.Errorf("%w: interface type %s at field %s has no registered union alternatives",
		ErrUnregisteredType, t, path)
}

func NewRecursiveTypeError(path string, t reflect.Type) error {
	return fmt.Errorf("%w: type %s references itself at field %s",
		ErrRecursiveType, t, path)
}

func NewInvalidDefaultError(path, raw string, cause error) error {
	return fmt.Errorf("%w: cannot parse default %q for field %s: %v",
		ErrInvalidDefault, raw, path, cause)
}

// IsDerivationError returns true if the error was raised while deriving a
// schema from a type's shape. Derivation errors are terminal for the
// enclosing type: there is no partial schema.
func IsDerivationError(err error) bool {
	return errors.Is(err, ErrUnsupportedType) ||
		errors.Is(err, ErrUnsupportedKeyType) ||
		errors.Is(err, ErrDuplicateField) ||
		errors.Is(err, ErrNotAStruct) ||
		errors.Is(err, ErrUnregisteredType) ||
		errors.Is(err, ErrRecursiveType) ||
		errors.Is(err, ErrInvalidDefault) ||
		errors.Is(err, ErrInvalidTag)
}

// IsConfigurationError returns true if the error represents a configuration
// or registration problem rather than an unsupported type shape.
func IsConfigurationError(err error) bool {
	return errors.Is(err, ErrInvalidConfiguration) ||
		errors.Is(err, ErrAlreadyRegistered) ||
		errors.Is(err, ErrInvalidRegistration)
}
