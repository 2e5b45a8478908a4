package models

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	dateLayout     = "2006-01-02"
	datetimeLayout = "2006-01-02 15:04:05"
)

// Text is a string field as returned by the ERP.
// The framework sends `null` or `false` for empty text fields and
// occasionally numbers for code-like fields; all of them decode to a string.
type Text string

// UnmarshalJSON handles dynamic typing from the ERP
func (t *Text) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if isEmptyJSON(data) {
		*t = ""
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*t = Text(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		*t = Text(n.String())
		return nil
	}

	if string(data) == "true" {
		*t = "true"
		return nil
	}

	return fmt.Errorf("Text: cannot unmarshal %s into string", string(data))
}

// Value implements driver.Valuer interface for database storage
func (t Text) Value() (driver.Value, error) {
	return string(t), nil
}

// Scan implements sql.Scanner interface for database retrieval
func (t *Text) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*t = ""
	case string:
		*t = Text(v)
	case []byte:
		*t = Text(string(v))
	case int64:
		*t = Text(strconv.FormatInt(v, 10))
	default:
		return fmt.Errorf("failed to scan Text: %v", value)
	}
	return nil
}

func (t Text) String() string { return string(t) }

// Float is a numeric field (quantity or amount). Absent values are 0.
type Float float64

// UnmarshalJSON accepts numbers, numeric strings, null and false.
func (f *Float) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if isEmptyJSON(data) {
		*f = 0
		return nil
	}

	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		*f = Float(n)
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		s = strings.TrimSpace(s)
		if s == "" {
			*f = 0
			return nil
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("Float: %q is not a number", s)
		}
		*f = Float(v)
		return nil
	}

	return fmt.Errorf("Float: cannot unmarshal %s into number", string(data))
}

// Value implements driver.Valuer interface for database storage
func (f Float) Value() (driver.Value, error) {
	return float64(f), nil
}

// Scan implements sql.Scanner interface for database retrieval
func (f *Float) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*f = 0
	case float64:
		*f = Float(v)
	case float32:
		*f = Float(v)
	case int64:
		*f = Float(v)
	case []byte:
		return f.Scan(string(v))
	case string:
		if strings.TrimSpace(v) == "" {
			*f = 0
			return nil
		}
		n, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return fmt.Errorf("failed to scan Float: %w", err)
		}
		*f = Float(n)
	default:
		return fmt.Errorf("failed to scan Float: %v", value)
	}
	return nil
}

func (f Float) Float64() float64 { return float64(f) }

// Date is a date field rendered as YYYY-MM-DD. Absent values are "".
type Date string

// UnmarshalJSON accepts date strings, null and false.
func (d *Date) UnmarshalJSON(data []byte) error {
	var t Text
	if err := t.UnmarshalJSON(data); err != nil {
		return fmt.Errorf("Date: %w", err)
	}
	*d = Date(t)
	return nil
}

// Value stores an empty date as NULL
func (d Date) Value() (driver.Value, error) {
	if d == "" {
		return nil, nil
	}
	return string(d), nil
}

// Scan implements sql.Scanner interface for database retrieval
func (d *Date) Scan(value interface{}) error {
	if tm, ok := value.(time.Time); ok {
		*d = Date(tm.Format(dateLayout))
		return nil
	}
	var t Text
	if err := t.Scan(value); err != nil {
		return err
	}
	*d = Date(t)
	return nil
}

func (d Date) String() string { return string(d) }

// DateTime is a timestamp field rendered as YYYY-MM-DD HH:MM:SS. Absent values are "".
type DateTime string

// UnmarshalJSON accepts datetime strings, null and false.
func (d *DateTime) UnmarshalJSON(data []byte) error {
	var t Text
	if err := t.UnmarshalJSON(data); err != nil {
		return fmt.Errorf("DateTime: %w", err)
	}
	*d = DateTime(t)
	return nil
}

// Value stores an empty timestamp as NULL
func (d DateTime) Value() (driver.Value, error) {
	if d == "" {
		return nil, nil
	}
	return string(d), nil
}

// Scan implements sql.Scanner interface for database retrieval
func (d *DateTime) Scan(value interface{}) error {
	if tm, ok := value.(time.Time); ok {
		*d = DateTime(tm.Format(datetimeLayout))
		return nil
	}
	var t Text
	if err := t.Scan(value); err != nil {
		return err
	}
	*d = DateTime(t)
	return nil
}

func (d DateTime) String() string { return string(d) }

// NewDateTime formats t the way the ERP stores timestamps
func NewDateTime(t time.Time) DateTime {
	return DateTime(t.Format(datetimeLayout))
}

func isEmptyJSON(data []byte) bool {
	s := string(data)
	return s == "" || s == "null" || s == "false"
}
