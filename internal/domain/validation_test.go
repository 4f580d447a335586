package domain

import (
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func TestValidateAmount(t *testing.T) {
	t.Parallel()

	if err := ValidateAmount(decimal.RequireFromString("100.25")); err != nil {
		t.Fatalf("expected valid amount, got %v", err)
	}

	if err := ValidateAmount(decimal.RequireFromString("0.01")); err != nil {
		t.Fatalf("expected one cent to be valid, got %v", err)
	}

	if err := ValidateAmount(decimal.Zero); !errors.Is(err, ErrInvalidAmount) || !errors.Is(err, ErrInvalidEntry) {
		t.Fatalf("expected ErrInvalidAmount wrapped in ErrInvalidEntry, got %v", err)
	}

	if err := ValidateAmount(decimal.RequireFromString("0.001")); !errors.Is(err, ErrAmountPrecision) {
		t.Fatalf("expected ErrAmountPrecision, got %v", err)
	}

	huge := decimal.RequireFromString(MaxEntryAmount).Add(decimal.NewFromInt(1))
	if err := ValidateAmount(huge); !errors.Is(err, ErrAmountTooLarge) {
		t.Fatalf("expected ErrAmountTooLarge, got %v", err)
	}
}

func TestValidateMemo(t *testing.T) {
	t.Parallel()

	if err := ValidateMemo("Energia elétrica"); err != nil {
		t.Fatalf("expected valid memo, got %v", err)
	}

	if err := ValidateMemo(" "); !errors.Is(err, ErrInvalidEntry) {
		t.Fatalf("expected ErrInvalidEntry, got %v", err)
	}

	if err := ValidateMemo(strings.Repeat("a", MaxMemoLength+1)); !errors.Is(err, ErrMemoTooLong) {
		t.Fatalf("expected ErrMemoTooLong, got %v", err)
	}
}

func TestValidateAccountDescription(t *testing.T) {
	t.Parallel()

	if err := ValidateAccountDescription("Bancos conta movimento"); err != nil {
		t.Fatalf("expected valid description, got %v", err)
	}

	if err := ValidateAccountDescription("   "); !errors.Is(err, ErrInvalidDescription) {
		t.Fatalf("expected ErrInvalidDescription, got %v", err)
	}
}
