package structavro

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterUnion_Validation(t *testing.T) {
	t.Run("target must be an interface", func(t *testing.T) {
		err := RegisterUnion[Circle](Circle{})
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidRegistration)
	})

	t.Run("needs at least one alternative", func(t *testing.T) {
		type empty interface{ m() }
		err := RegisterUnion[empty]()
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidRegistration)
	})

	t.Run("alternatives must implement the interface", func(t *testing.T) {
		err := RegisterUnion[Shape](Pizza{})
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidRegistration)
	})

	t.Run("untyped nil alternative is rejected", func(t *testing.T) {
		err := RegisterUnion[Shape](nil)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidRegistration)
	})

	t.Run("double registration is rejected", func(t *testing.T) {
		err := RegisterUnion[Shape](Circle{})
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrAlreadyRegistered)
		assert.True(t, IsConfigurationError(err))
	})
}

func TestRegisterEnum_Validation(t *testing.T) {
	type scratch string

	t.Run("needs at least one symbol", func(t *testing.T) {
		err := RegisterEnum[scratch]()
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidRegistration)
	})

	t.Run("empty symbols are rejected", func(t *testing.T) {
		err := RegisterEnum[scratch]("A", "")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidRegistration)
	})

	t.Run("duplicate symbols are rejected", func(t *testing.T) {
		err := RegisterEnum[scratch]("A", "B", "A")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidRegistration)
	})

	t.Run("double registration is rejected", func(t *testing.T) {
		err := RegisterEnum[Size]("S")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrAlreadyRegistered)
	})
}

func TestRegisterWrapper_Validation(t *testing.T) {
	t.Run("target must be a struct", func(t *testing.T) {
		err := RegisterWrapper[string]()
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidRegistration)
	})

	t.Run("needs exactly one exported field", func(t *testing.T) {
		err := RegisterWrapper[Topping]()
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidRegistration)
	})

	t.Run("double registration is rejected", func(t *testing.T) {
		err := RegisterWrapper[Celsius]()
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrAlreadyRegistered)
	})
}

func TestMustRegister_PanicsOnError(t *testing.T) {
	assert.Panics(t, func() { MustRegisterUnion[Shape](Circle{}) })
	assert.Panics(t, func() { MustRegisterEnum[Size]("S") })
	assert.Panics(t, func() { MustRegisterWrapper[Celsius]() })
}
