package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// TimeLayout is fixed width so text columns sort chronologically.
const TimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

func ParseTime(s string) (time.Time, error) {
	t, err := time.Parse(TimeLayout, s)
	if err != nil {
		if t, err2 := time.Parse(time.RFC3339Nano, s); err2 == nil {
			return t, nil
		}
		return time.Time{}, fmt.Errorf("database: parse time %q: %w", s, err)
	}
	return t, nil
}

func ParseDecimal(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("database: parse decimal %q: %w", s, err)
	}
	return d, nil
}

func NullDecimal(d *decimal.Decimal) sql.NullString {
	if d == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: d.String(), Valid: true}
}

func ParseNullDecimal(s sql.NullString) (*decimal.Decimal, error) {
	if !s.Valid {
		return nil, nil
	}
	d, err := ParseDecimal(s.String)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
