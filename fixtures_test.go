package structavro

import (
	"math/big"
	"time"

	"github.com/google/uuid"
)

// Shared test model. The registries are process-wide, so every registered
// test type lives here and registers exactly once.

type Size string

type Shape interface{ area() float64 }

type Circle struct {
	Radius float64 `avro:"radius"`
}

type Square struct {
	Side float64 `avro:"side"`
}

func (c Circle) area() float64 { return 3.14159 * c.Radius * c.Radius }
func (s Square) area() float64 { return s.Side * s.Side }

// triangle implements Shape but is not a registered alternative.
type triangle struct {
	Base float64 `avro:"base"`
}

func (t triangle) area() float64 { return t.Base * t.Base / 2 }

// Dimension's alternatives both derive to a double, so the union can never
// dispatch on the wire.
type Dimension interface{ dim() }

type Meters float64

type Feet float64

func (Meters) dim() {}
func (Feet) dim()   {}

// Celsius wraps a bare float with a unit annotation.
type Celsius struct {
	Value float64 `anno:"unit(celsius)"`
}

func init() {
	MustRegisterEnum[Size]("SMALL", "MEDIUM", "LARGE")
	MustRegisterUnion[Shape](Circle{}, Square{})
	MustRegisterUnion[Dimension](Meters(0), Feet(0))
	MustRegisterWrapper[Celsius]()
}

type Topping struct {
	Name  string `avro:"name"`
	Vegan bool   `avro:"vegan"`
}

type Pizza struct {
	Name     string    `avro:"name" doc:"display name"`
	Vegan    bool      `avro:"vegan"`
	Kcals    int32     `avro:"kcals" default:"600"`
	Toppings []Topping `avro:"toppings"`
	Note     *string   `avro:"note"`
}

type Order struct {
	ID      uuid.UUID `avro:"id"`
	Placed  time.Time `avro:"placed"`
	Day     time.Time `avro:"day,date"`
	Local   time.Time `avro:"local,localdatetime"`
	Total   *big.Rat  `avro:"total" decimal:"10,2"`
	Size    Size      `avro:"size"`
	Shape   Shape     `avro:"shape"`
	Temp    Celsius   `avro:"temp"`
	Payload []byte    `avro:"payload"`
}

func strPtr(s string) *string { return &s }
