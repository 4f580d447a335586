package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Validation errors
var (
	ErrInvalidAmount       = errors.New("amount must be positive")
	ErrAmountTooLarge      = errors.New("amount exceeds maximum allowed")
	ErrAmountPrecision     = errors.New("amount has more than two decimal places")
	ErrInvalidDescription  = errors.New("invalid account description")
	ErrMemoTooLong         = errors.New("memo exceeds maximum length")
	ErrInvalidAccountInput = errors.New("invalid account input")
)

// Validation constants
const (
	MaxDescriptionLength = 255
	MaxMemoLength        = 1000
	MaxEntryAmount       = "1000000000000" // 1 trillion
	CurrencyPlaces       = 2
)

var maxEntryAmount = decimal.RequireFromString(MaxEntryAmount)

// ValidateAmount validates a journal entry amount. Failures wrap ErrInvalidEntry.
func ValidateAmount(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("%w: %w", ErrInvalidEntry, ErrInvalidAmount)
	}

	if !amount.Equal(amount.Truncate(CurrencyPlaces)) {
		return fmt.Errorf("%w: %w", ErrInvalidEntry, ErrAmountPrecision)
	}

	if amount.GreaterThan(maxEntryAmount) {
		return fmt.Errorf("%w: %w: maximum amount is %s", ErrInvalidEntry, ErrAmountTooLarge, MaxEntryAmount)
	}

	return nil
}

// ValidateMemo validates the free-text history of an entry.
func ValidateMemo(memo string) error {
	memo = strings.TrimSpace(memo)
	if memo == "" {
		return fmt.Errorf("%w: memo is required", ErrInvalidEntry)
	}
	if len(memo) > MaxMemoLength {
		return fmt.Errorf("%w: %w: %d characters", ErrInvalidEntry, ErrMemoTooLong, MaxMemoLength)
	}
	return nil
}

// ValidateAccountDescription validates a chart node description.
func ValidateAccountDescription(description string) error {
	description = strings.TrimSpace(description)

	if description == "" {
		return fmt.Errorf("%w: description cannot be empty", ErrInvalidDescription)
	}

	if len(description) > MaxDescriptionLength {
		return fmt.Errorf("%w: description exceeds %d characters", ErrInvalidDescription, MaxDescriptionLength)
	}

	return nil
}

// ValidateAccount checks a chart node before it is stored.
func ValidateAccount(a *Account) error {
	if err := ValidateAccountCode(a.Code); err != nil {
		return err
	}

	if err := ValidateAccountDescription(a.Description); err != nil {
		return err
	}

	if !a.Type.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidAccountType, a.Type)
	}

	if !a.Nature.IsValid() {
		return fmt.Errorf("%w: unknown nature %q", ErrInvalidAccountInput, a.Nature)
	}

	if !a.Postable && len(a.Keywords) > 0 {
		return fmt.Errorf("%w: grouping account %s cannot carry classification keywords", ErrInvalidAccountInput, a.Code)
	}

	return nil
}
