// Package api defines the JSON wire format of the REST API. The handlers
// and the remote repository client both speak it.
package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/budgetloop/budgetloop-backend/internal/util"
	"github.com/shopspring/decimal"
)

// Date is a calendar date encoded as "YYYY-MM-DD". Decoding also accepts
// RFC3339 timestamps.
type Date struct {
	time.Time
}

func NewDate(t time.Time) Date {
	return Date{Time: t}
}

// DatePtr converts an optional time to an optional Date.
func DatePtr(t *time.Time) *Date {
	if t == nil {
		return nil
	}
	d := NewDate(*t)
	return &d
}

// TimePtr converts an optional Date to an optional time.
func (d *Date) TimePtr() *time.Time {
	if d == nil {
		return nil
	}
	t := d.Time
	return &t
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + d.Format(util.ISODateLayout) + `"`), nil
}

func (d *Date) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	t, err := util.ParseISODate(s)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

// Money is a decimal amount encoded as a JSON number with two decimals.
// Decoding accepts numbers and numeric strings.
type Money struct {
	decimal.Decimal
}

func NewMoney(d decimal.Decimal) Money {
	return Money{Decimal: d}
}

func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.StringFixed(2)), nil
}

func (m *Money) UnmarshalJSON(data []byte) error {
	return m.Decimal.UnmarshalJSON(data)
}

// FieldError describes one invalid input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error  string       `json:"error"`
	Errors []FieldError `json:"errors,omitempty"`
}

// IDsRequest carries ids for bulk operations.
type IDsRequest struct {
	IDs []string `json:"ids"`
}

// ImportResult is returned by the CSV import endpoint.
type ImportResult struct {
	Imported int         `json:"imported"`
	Errors   []LineError `json:"errors"`
}

type LineError struct {
	Line    int    `json:"line"`
	Message string `json:"message"`
}

// HealthResponse is returned by /health.
type HealthResponse struct {
	Status string `json:"status"`
}
