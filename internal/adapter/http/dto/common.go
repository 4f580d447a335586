package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/iho/contabil/internal/domain"
)

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// Date is a civil date encoded as "YYYY-MM-DD".
type Date struct {
	time.Time
}

// NewDate wraps t, dropping its time of day.
func NewDate(t time.Time) Date {
	return Date{Time: domain.TruncateDate(t)}
}

// ParseDate parses a "YYYY-MM-DD" string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}
	return Date{Time: t}, nil
}

// MarshalJSON implements json.Marshaler.
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.Format(time.DateOnly))
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Date) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		*d = Date{}
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// String implements fmt.Stringer.
func (d Date) String() string {
	return d.Format(time.DateOnly)
}

// Ptr returns nil for the zero date.
func (d Date) Ptr() *time.Time {
	if d.IsZero() {
		return nil
	}
	t := d.Time
	return &t
}

// DatePtr converts an optional time into an optional Date.
func DatePtr(t *time.Time) *Date {
	if t == nil {
		return nil
	}
	d := NewDate(*t)
	return &d
}

// OriginDTO links an entry to the document that produced it.
type OriginDTO struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

func (o *OriginDTO) toDomain() *domain.Origin {
	if o == nil {
		return nil
	}
	return &domain.Origin{Type: o.Type, ID: o.ID}
}

func originFromDomain(o *domain.Origin) *OriginDTO {
	if o == nil {
		return nil
	}
	return &OriginDTO{Type: o.Type, ID: o.ID}
}

