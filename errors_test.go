package structavro

import (
	"errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsDerivationError(t *testing.T) {
	derivation := []error{
		NewUnsupportedTypeError("User.ch", reflect.TypeFor[chan int]()),
		NewUnsupportedKeyTypeError("User.scores", reflect.TypeFor[int]()),
		NewDuplicateFieldError("User.name", "name"),
		NewUnregisteredTypeError("User.shape", reflect.TypeFor[Shape]()),
		NewRecursiveTypeError("Node.next", reflect.TypeFor[Pizza]()),
		NewInvalidDefaultError("User.age", "abc", errors.New("parse")),
		fmt.Errorf("%w: bad option", ErrInvalidTag),
		ErrNotAStruct,
	}
	for _, err := range derivation {
		assert.True(t, IsDerivationError(err), "%v", err)
		assert.False(t, IsConfigurationError(err), "%v", err)
	}
}

func TestIsConfigurationError(t *testing.T) {
	configuration := []error{
		fmt.Errorf("%w: scale out of range", ErrInvalidConfiguration),
		fmt.Errorf("%w: union Shape", ErrAlreadyRegistered),
		fmt.Errorf("%w: not an interface", ErrInvalidRegistration),
	}
	for _, err := range configuration {
		assert.True(t, IsConfigurationError(err), "%v", err)
		assert.False(t, IsDerivationError(err), "%v", err)
	}
}

func TestClassifiers_UnrelatedErrors(t *testing.T) {
	err := errors.New("something else")
	assert.False(t, IsDerivationError(err))
	assert.False(t, IsConfigurationError(err))
	assert.False(t, IsDerivationError(nil))
}

func TestErrorMessages_NamePath(t *testing.T) {
	err := NewUnsupportedTypeError("Order.items", reflect.TypeFor[chan int]())
	assert.Contains(t, err.Error(), "Order.items")
	assert.Contains(t, err.Error(), "chan int")

	err = NewDuplicateFieldError("Order.id", "id")
	assert.Contains(t, err.Error(), `"id"`)
}
