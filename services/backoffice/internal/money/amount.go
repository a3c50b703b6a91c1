// Package money holds peso amounts as exact decimals. JSON carries them as
// numbers with two decimals and BSON stores them as decimal strings.
package money

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

const Places = 2

var ErrInvalidAmount = errors.New("invalid amount")

type Amount struct {
	d decimal.Decimal
}

var Zero = Amount{}

func New(d decimal.Decimal) Amount {
	return Amount{d: d}
}

func FromInt(i int64) Amount {
	return Amount{d: decimal.NewFromInt(i)}
}

// Parse reads a plain decimal such as "600" or "1250.50".
func Parse(s string) (Amount, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Zero, fmt.Errorf("%w: empty", ErrInvalidAmount)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	return Amount{d: d}, nil
}

func MustParse(s string) Amount {
	a, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return a
}

func (a Amount) Decimal() decimal.Decimal {
	return a.d
}

func (a Amount) Add(b Amount) Amount {
	return Amount{d: a.d.Add(b.d)}
}

func (a Amount) Sub(b Amount) Amount {
	return Amount{d: a.d.Sub(b.d)}
}

func (a Amount) MulInt(n int) Amount {
	return Amount{d: a.d.Mul(decimal.NewFromInt(int64(n)))}
}

// Round rounds half away from zero to centavos.
func (a Amount) Round() Amount {
	return Amount{d: a.d.Round(Places)}
}

// InCentavos reports whether a has no digits past the second decimal.
func (a Amount) InCentavos() bool {
	return a.d.Equal(a.d.Truncate(Places))
}

func (a Amount) IsPositive() bool {
	return a.d.IsPositive()
}

func (a Amount) IsNegative() bool {
	return a.d.IsNegative()
}

func (a Amount) IsZero() bool {
	return a.d.IsZero()
}

func (a Amount) Equal(b Amount) bool {
	return a.d.Equal(b.d)
}

func (a Amount) String() string {
	return a.d.StringFixed(Places)
}

func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalJSON accepts both 1250.5 and "1250.5".
func (a *Amount) UnmarshalJSON(data []byte) error {
	raw := strings.Trim(strings.TrimSpace(string(data)), `"`)
	if raw == "null" {
		return fmt.Errorf("%w: null", ErrInvalidAmount)
	}
	parsed, err := Parse(raw)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

func (a Amount) MarshalBSONValue() (bsontype.Type, []byte, error) {
	return bson.MarshalValue(a.d.String())
}

func (a *Amount) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	rv := bson.RawValue{Type: t, Value: data}
	switch t {
	case bsontype.String:
		parsed, err := Parse(rv.StringValue())
		if err != nil {
			return err
		}
		*a = parsed
	case bsontype.Double:
		*a = Amount{d: decimal.NewFromFloat(rv.Double())}
	case bsontype.Int32:
		*a = Amount{d: decimal.NewFromInt32(rv.Int32())}
	case bsontype.Int64:
		*a = Amount{d: decimal.NewFromInt(rv.Int64())}
	case bsontype.Decimal128:
		parsed, err := Parse(rv.Decimal128().String())
		if err != nil {
			return err
		}
		*a = parsed
	case bsontype.Null:
		*a = Zero
	default:
		return fmt.Errorf("%w: cannot decode bson %s", ErrInvalidAmount, t)
	}
	return nil
}

// Sum adds amounts left to right.
func Sum(amounts ...Amount) Amount {
	total := Zero
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total
}
