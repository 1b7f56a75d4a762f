package grpcutil

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/fekuna/omnipos-ledger-service/internal/model"
)

// largest integer a float64 holds exactly
const maxExactInt = 1 << 53

// Fields reads typed values out of a request struct. Absent keys and null values decode to
// the zero value; a present value of the wrong shape is a validation error.
type Fields struct {
	m map[string]*structpb.Value
}

func FieldsOf(s *structpb.Struct) Fields {
	if s == nil {
		return Fields{}
	}
	return Fields{m: s.GetFields()}
}

func (f Fields) lookup(key string) (*structpb.Value, bool) {
	v, ok := f.m[key]
	if !ok || v == nil {
		return nil, false
	}
	if _, isNull := v.GetKind().(*structpb.Value_NullValue); isNull {
		return nil, false
	}
	return v, true
}

func (f Fields) Has(key string) bool {
	_, ok := f.lookup(key)
	return ok
}

func (f Fields) String(key string) string {
	v, ok := f.lookup(key)
	if !ok {
		return ""
	}
	switch k := v.GetKind().(type) {
	case *structpb.Value_StringValue:
		return k.StringValue
	case *structpb.Value_NumberValue:
		return strconv.FormatFloat(k.NumberValue, 'f', -1, 64)
	case *structpb.Value_BoolValue:
		return strconv.FormatBool(k.BoolValue)
	}
	return ""
}

func (f Fields) Int(key string) (int, error) {
	v, ok := f.lookup(key)
	if !ok {
		return 0, nil
	}
	switch k := v.GetKind().(type) {
	case *structpb.Value_NumberValue:
		n := k.NumberValue
		if n != math.Trunc(n) || math.Abs(n) > maxExactInt {
			return 0, fieldError(key, "integer", "must be a whole number")
		}
		return int(n), nil
	case *structpb.Value_StringValue:
		n, err := strconv.Atoi(strings.TrimSpace(k.StringValue))
		if err != nil {
			return 0, fieldError(key, "integer", "must be a whole number")
		}
		return n, nil
	}
	return 0, fieldError(key, "integer", "must be a whole number")
}

// Decimal accepts a decimal string ("19.90") or a JSON number.
func (f Fields) Decimal(key string) (decimal.Decimal, error) {
	v, ok := f.lookup(key)
	if !ok {
		return decimal.Zero, nil
	}
	switch k := v.GetKind().(type) {
	case *structpb.Value_StringValue:
		s := strings.TrimSpace(k.StringValue)
		if s == "" {
			return decimal.Zero, nil
		}
		d, err := decimal.NewFromString(s)
		if err != nil {
			return decimal.Zero, fieldError(key, "decimal", "must be a decimal number")
		}
		return d, nil
	case *structpb.Value_NumberValue:
		if math.IsNaN(k.NumberValue) || math.IsInf(k.NumberValue, 0) {
			return decimal.Zero, fieldError(key, "decimal", "must be a decimal number")
		}
		return decimal.NewFromFloat(k.NumberValue), nil
	}
	return decimal.Zero, fieldError(key, "decimal", "must be a decimal number")
}

// Time accepts RFC 3339 timestamps or plain YYYY-MM-DD dates (local midnight, the calendar
// cash-flow months are counted in).
func (f Fields) Time(key string) (time.Time, error) {
	s := strings.TrimSpace(f.String(key))
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation(time.DateOnly, s, time.Local); err == nil {
		return t, nil
	}
	return time.Time{}, fieldError(key, "timestamp", "must be an RFC 3339 timestamp or a YYYY-MM-DD date")
}

// TimePtr is Time returning nil for an absent value.
func (f Fields) TimePtr(key string) (*time.Time, error) {
	t, err := f.Time(key)
	if err != nil || t.IsZero() {
		return nil, err
	}
	return &t, nil
}

func (f Fields) List(key string) ([]*structpb.Value, error) {
	v, ok := f.lookup(key)
	if !ok {
		return nil, nil
	}
	l, isList := v.GetKind().(*structpb.Value_ListValue)
	if !isList {
		return nil, fieldError(key, "list", "must be a list")
	}
	return l.ListValue.GetValues(), nil
}

// Struct returns the nested object stored at key, or an empty Fields.
func (f Fields) Struct(key string) (Fields, error) {
	v, ok := f.lookup(key)
	if !ok {
		return Fields{}, nil
	}
	s, isStruct := v.GetKind().(*structpb.Value_StructValue)
	if !isStruct {
		return Fields{}, fieldError(key, "object", "must be an object")
	}
	return FieldsOf(s.StructValue), nil
}

func fieldError(key, rule, msg string) error {
	return &model.ValidationError{Field: key, Rule: rule, Message: msg}
}

// FormatTime is the wire form of every timestamp in responses.
func FormatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// NewStruct wraps structpb.NewStruct for response payloads.
func NewStruct(m map[string]any) (*structpb.Struct, error) {
	s, err := structpb.NewStruct(m)
	if err != nil {
		return nil, fmt.Errorf("encode response: %w", err)
	}
	return s, nil
}
