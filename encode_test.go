package structavro

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hengadev/structavro/generic"
)

func mustEncode(t *testing.T, d *Deriver, v any) *generic.Record {
	t.Helper()
	rec, err := d.Encode(v)
	require.NoError(t, err)
	return rec
}

func TestEncode_FlatRecord(t *testing.T) {
	d := newTestDeriver(t)
	rec := mustEncode(t, d, Pizza{Name: "margherita", Vegan: true, Kcals: 550})

	name, ok := rec.Get("name")
	require.True(t, ok)
	assert.Equal(t, "margherita", name)

	vegan, _ := rec.Get("vegan")
	assert.Equal(t, true, vegan)

	kcals, _ := rec.Get("kcals")
	assert.Equal(t, int32(550), kcals)
}

func TestEncode_OptionalFields(t *testing.T) {
	d := newTestDeriver(t)

	t.Run("nil pointer is absent", func(t *testing.T) {
		rec := mustEncode(t, d, Pizza{Name: "plain"})
		assert.False(t, rec.Has("note"))
	})

	t.Run("present pointer carries the value", func(t *testing.T) {
		rec := mustEncode(t, d, Pizza{Name: "plain", Note: strPtr("extra crispy")})
		note, ok := rec.Get("note")
		require.True(t, ok)
		assert.Equal(t, "extra crispy", note)
	})

	t.Run("nil pointer to pointer is absent", func(t *testing.T) {
		type deep struct {
			V **string `avro:"v"`
		}
		rec := mustEncode(t, d, deep{})
		assert.False(t, rec.Has("v"))

		inner := strPtr("x")
		rec = mustEncode(t, d, deep{V: &inner})
		v, ok := rec.Get("v")
		require.True(t, ok)
		assert.Equal(t, "x", v)
	})
}

func TestEncode_NestedSequences(t *testing.T) {
	d := newTestDeriver(t)
	rec := mustEncode(t, d, Pizza{
		Name: "funghi",
		Toppings: []Topping{
			{Name: "mushroom", Vegan: true},
			{Name: "mozzarella"},
		},
	})

	raw, ok := rec.Get("toppings")
	require.True(t, ok)
	toppings, ok := raw.([]any)
	require.True(t, ok)
	require.Len(t, toppings, 2)

	first, ok := toppings[0].(*generic.Record)
	require.True(t, ok)
	n, _ := first.Get("name")
	assert.Equal(t, "mushroom", n)
	v, _ := first.Get("vegan")
	assert.Equal(t, true, v)
}

func TestEncode_SequenceDropsAbsentElements(t *testing.T) {
	d := newTestDeriver(t)
	type bag struct {
		Items []*int64 `avro:"items"`
	}
	one, three := int64(1), int64(3)
	rec := mustEncode(t, d, bag{Items: []*int64{&one, nil, &three}})

	items, _ := rec.Get("items")
	assert.Equal(t, []any{int64(1), int64(3)}, items)
}

func TestEncode_MapDropsAbsentValues(t *testing.T) {
	d := newTestDeriver(t)
	type prefs struct {
		Flags map[string]*bool `avro:"flags"`
	}
	yes := true
	rec := mustEncode(t, d, prefs{Flags: map[string]*bool{"dark": &yes, "beta": nil}})

	flags, _ := rec.Get("flags")
	assert.Equal(t, map[string]any{"dark": true}, flags)
}

func TestEncode_Either(t *testing.T) {
	d := newTestDeriver(t)
	type result struct {
		Outcome Either[string, int64] `avro:"outcome"`
	}

	t.Run("left side", func(t *testing.T) {
		rec := mustEncode(t, d, result{Outcome: Left[string, int64]("failed")})
		v, ok := rec.Get("outcome")
		require.True(t, ok)
		assert.Equal(t, "failed", v)
	})

	t.Run("right side", func(t *testing.T) {
		rec := mustEncode(t, d, result{Outcome: Right[string, int64](42)})
		v, _ := rec.Get("outcome")
		assert.Equal(t, int64(42), v)
	})

	t.Run("zero value is the left zero", func(t *testing.T) {
		rec := mustEncode(t, d, result{})
		v, _ := rec.Get("outcome")
		assert.Equal(t, "", v)
	})
}

func TestEncode_Unions(t *testing.T) {
	d := newTestDeriver(t)
	type canvas struct {
		Shape Shape `avro:"shape"`
	}

	t.Run("dispatches on dynamic type", func(t *testing.T) {
		rec := mustEncode(t, d, canvas{Shape: Circle{Radius: 2}})
		v, ok := rec.Get("shape")
		require.True(t, ok)
		inner, ok := v.(*generic.Record)
		require.True(t, ok)
		r, _ := inner.Get("radius")
		assert.Equal(t, float64(2), r)
	})

	t.Run("nil interface is absent", func(t *testing.T) {
		rec := mustEncode(t, d, canvas{})
		assert.False(t, rec.Has("shape"))
	})

	t.Run("unknown dynamic type fails", func(t *testing.T) {
		_, err := d.Encode(canvas{Shape: triangle{Base: 1}})
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrUnregisteredType)
		assert.Contains(t, err.Error(), "triangle")
	})
}

func TestEncode_Enum(t *testing.T) {
	d := newTestDeriver(t)
	type cup struct {
		Size Size `avro:"size"`
	}
	rec := mustEncode(t, d, cup{Size: "LARGE"})
	v, _ := rec.Get("size")
	assert.Equal(t, "LARGE", v)
}

func TestEncode_Wrapper(t *testing.T) {
	d := newTestDeriver(t)
	type oven struct {
		Temp Celsius `avro:"temp"`
	}
	rec := mustEncode(t, d, oven{Temp: Celsius{Value: 220}})
	v, _ := rec.Get("temp")
	assert.Equal(t, float64(220), v)
}

func TestEncode_Tuple(t *testing.T) {
	d := newTestDeriver(t)
	type entry struct {
		KV Pair[string, int64] `avro:"kv"`
	}
	rec := mustEncode(t, d, entry{KV: PairOf("hits", int64(7))})
	raw, _ := rec.Get("kv")
	kv := raw.(*generic.Record)
	first, _ := kv.Get("_1")
	second, _ := kv.Get("_2")
	assert.Equal(t, "hits", first)
	assert.Equal(t, int64(7), second)
}

func TestEncode_LogicalValues(t *testing.T) {
	d := newTestDeriver(t)
	id := uuid.New()
	placed := time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)
	rec := mustEncode(t, d, Order{ID: id, Placed: placed, Size: "SMALL",
		Payload: []byte{0x01, 0x02}})

	got, _ := rec.Get("id")
	assert.Equal(t, id.String(), got)

	ts, _ := rec.Get("placed")
	assert.Equal(t, placed, ts)

	payload, _ := rec.Get("payload")
	assert.Equal(t, []byte{0x01, 0x02}, payload)

	// nil *big.Rat stays absent
	assert.False(t, rec.Has("total"))
}

func TestEncode_BytesAreCopied(t *testing.T) {
	d := newTestDeriver(t)
	type blob struct {
		Data []byte `avro:"data"`
	}
	src := []byte{1, 2, 3}
	rec := mustEncode(t, d, blob{Data: src})
	src[0] = 9

	data, _ := rec.Get("data")
	assert.Equal(t, []byte{1, 2, 3}, data)
}

func TestEncode_PointerInputsFollowed(t *testing.T) {
	d := newTestDeriver(t)
	rec := mustEncode(t, d, &Pizza{Name: "via pointer"})
	v, _ := rec.Get("name")
	assert.Equal(t, "via pointer", v)

	_, err := d.Encode((*Pizza)(nil))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotAStruct)
}

func TestEncode_NonRecordValues(t *testing.T) {
	d := newTestDeriver(t)
	_, err := d.Encode("just a string")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotAStruct)

	_, err = d.Encode(nil)
	require.Error(t, err)
}
