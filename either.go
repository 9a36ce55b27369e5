package structavro

import "reflect"

// Either holds exactly one of two values. Fields typed Either[L, R] derive
// to a flattened two-member union, left first. The zero Either is
// Left(zero L).
type Either[L, R any] struct {
	left    L
	right   R
	isRight bool
}

// Left builds an Either holding a left value.
func Left[L, R any](v L) Either[L, R] {
	return Either[L, R]{left: v}
}

// Right builds an Either holding a right value.
func Right[L, R any](v R) Either[L, R] {
	return Either[L, R]{right: v, isRight: true}
}

// IsRight reports whether the right side is populated.
func (e Either[L, R]) IsRight() bool { return e.isRight }

// Left returns the left value and whether it is the populated side.
func (e Either[L, R]) Left() (L, bool) { return e.left, !e.isRight }

// Right returns the right value and whether it is the populated side.
func (e Either[L, R]) Right() (R, bool) { return e.right, e.isRight }

// eitherValue is the derivation-internal view of an Either: the side types
// for schema derivation and the populated side for encoding.
type eitherValue interface {
	eitherSides() (reflect.Type, reflect.Type)
	eitherValue() (reflect.Value, bool)
}

func (e Either[L, R]) eitherSides() (reflect.Type, reflect.Type) {
	return reflect.TypeFor[L](), reflect.TypeFor[R]()
}

func (e Either[L, R]) eitherValue() (reflect.Value, bool) {
	if e.isRight {
		return reflect.ValueOf(&e.right).Elem(), true
	}
	return reflect.ValueOf(&e.left).Elem(), false
}

// Pair is a fixed-size 2-tuple. It derives to an anonymous record with
// positional fields _1 and _2.
type Pair[A, B any] struct {
	First  A
	Second B
}

// PairOf builds a Pair.
func PairOf[A, B any](a A, b B) Pair[A, B] {
	return Pair[A, B]{First: a, Second: b}
}

// Triple is a fixed-size 3-tuple deriving to positional fields _1, _2, _3.
type Triple[A, B, C any] struct {
	First  A
	Second B
	Third  C
}

// TripleOf builds a Triple.
func TripleOf[A, B, C any](a A, b B, c C) Triple[A, B, C] {
	return Triple[A, B, C]{First: a, Second: b, Third: c}
}

// tupleValue marks the fixed-arity tuple carriers.
type tupleValue interface {
	tupleArity() int
}

func (Pair[A, B]) tupleArity() int      { return 2 }
func (Triple[A, B, C]) tupleArity() int { return 3 }
