package models

import (
	"github.com/cockroachdb/errors"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Money is a currency amount. It travels as a JSON number and is stored in
// Mongo as Decimal128.
type Money struct {
	decimal.Decimal
}

// NewMoney builds a Money value from a float literal
func NewMoney(v float64) Money {
	return Money{decimal.NewFromFloat(v)}
}

// MoneyFromString parses a decimal string such as "25.90"
func MoneyFromString(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, errors.Wrapf(err, "invalid amount %q", s)
	}
	return Money{d}, nil
}

// Format renders the amount with two decimal places
func (m Money) Format() string {
	return m.StringFixed(2)
}

func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.StringFixed(2)), nil
}

func (m *Money) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		m.Decimal = decimal.Zero
		return nil
	}
	return m.Decimal.UnmarshalJSON(data)
}

func (m Money) MarshalBSONValue() (bsontype.Type, []byte, error) {
	d128, err := primitive.ParseDecimal128(m.String())
	if err != nil {
		return 0, nil, errors.Wrap(err, "encoding money")
	}
	return bson.MarshalValue(d128)
}

func (m *Money) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	raw := bson.RawValue{Type: t, Value: data}
	switch t {
	case bsontype.Decimal128:
		parsed, err := MoneyFromString(raw.Decimal128().String())
		if err != nil {
			return errors.Wrap(err, "decoding money")
		}
		*m = parsed
	case bsontype.Double:
		m.Decimal = decimal.NewFromFloat(raw.Double())
	case bsontype.Int32:
		m.Decimal = decimal.NewFromInt32(raw.Int32())
	case bsontype.Int64:
		m.Decimal = decimal.NewFromInt(raw.Int64())
	case bsontype.String:
		parsed, err := MoneyFromString(raw.StringValue())
		if err != nil {
			return errors.Wrap(err, "decoding money")
		}
		*m = parsed
	case bsontype.Null:
		m.Decimal = decimal.Zero
	default:
		return errors.Newf("cannot decode %s into models.Money", t)
	}
	return nil
}
