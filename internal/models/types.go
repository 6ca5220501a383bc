package models

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the wire format for calendar dates
const DateLayout = "2006-01-02"

// Date is a calendar day without a time component
type Date struct {
	time.Time
}

// ParseDate parses a YYYY-MM-DD string
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, err
	}
	return Date{Time: t}, nil
}

// String formats the date as YYYY-MM-DD
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

// MarshalJSON encodes the date as "YYYY-MM-DD" or null
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.Format(DateLayout))
}

// UnmarshalJSON accepts "YYYY-MM-DD" or null
func (d *Date) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		*d = Date{}
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// FlexFloat accepts a JSON number or a numeric string. A value that is
// present but not numeric decodes with Valid false instead of failing the
// whole body, so callers can answer with a field-specific error.
type FlexFloat struct {
	Value float64
	Valid bool
}

// UnmarshalJSON implements json.Unmarshaler
func (f *FlexFloat) UnmarshalJSON(b []byte) error {
	raw := strings.TrimSpace(strings.Trim(string(b), `"`))
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		*f = FlexFloat{}
		return nil
	}
	*f = FlexFloat{Value: v, Valid: true}
	return nil
}

// MarshalJSON implements json.Marshaler
func (f FlexFloat) MarshalJSON() ([]byte, error) {
	if !f.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(f.Value)
}

// FlexInt accepts a JSON integer or an integer string
type FlexInt struct {
	Value int64
	Valid bool
}

// UnmarshalJSON implements json.Unmarshaler
func (i *FlexInt) UnmarshalJSON(b []byte) error {
	raw := strings.TrimSpace(strings.Trim(string(b), `"`))
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		// 3.0 style numbers from loosely typed clients
		fv, ferr := strconv.ParseFloat(raw, 64)
		if ferr != nil || fv != float64(int64(fv)) {
			*i = FlexInt{}
			return nil
		}
		v = int64(fv)
	}
	*i = FlexInt{Value: v, Valid: true}
	return nil
}

// MarshalJSON implements json.Marshaler
func (i FlexInt) MarshalJSON() ([]byte, error) {
	if !i.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(i.Value)
}

// NewFlexFloat returns a valid FlexFloat pointer
func NewFlexFloat(v float64) *FlexFloat {
	return &FlexFloat{Value: v, Valid: true}
}

// NewFlexInt returns a valid FlexInt pointer
func NewFlexInt(v int64) *FlexInt {
	return &FlexInt{Value: v, Valid: true}
}
