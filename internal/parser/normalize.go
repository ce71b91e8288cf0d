package parser

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mwrona-dev/wyciag/internal/models"
)

const dateLayout = "02.01.2006"

// parseAmount converts a Polish-formatted amount like "-1 234,56" into a
// decimal. Thousands are separated by (possibly non-breaking) spaces and the
// decimal separator is a comma.
func parseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, ",", ".")
	if s == "" {
		return decimal.Decimal{}, fmt.Errorf("empty amount")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("unparsable amount %q: %w", s, err)
	}
	return d, nil
}

// validateDate checks that s is a real calendar date in DD.MM.YYYY form.
// "31.02.2024" and friends are rejected even though they match the pattern.
func validateDate(s string) error {
	if _, err := time.Parse(dateLayout, s); err != nil {
		return fmt.Errorf("invalid date %q: %w", s, err)
	}
	return nil
}

// expectedSign returns the amount sign a category demands: -1 for debits,
// +1 for credits, 0 when the sign follows the source text (or is forced to
// zero, as for opening balances).
//
// Currency exchange lines carry the direction in the description suffix
// (UZNANIE = credit, OBCIĄŻENIE = debit).
func expectedSign(cat models.Category, description string) int {
	switch cat {
	case models.CategoryCardPurchase, models.CategoryWebPayment, models.CategoryOutgoingTransfer:
		return -1
	case models.CategoryBlikRefund, models.CategoryIncomingTransfer:
		return 1
	case models.CategoryCurrencyExchange:
		if strings.Contains(description, "OBCIĄŻENIE") {
			return -1
		}
		return 1
	default:
		return 0
	}
}

// applySign enforces the category-derived sign on amt. It returns the signed
// amount and whether the raw text disagreed with the category's convention.
func applySign(cat models.Category, description string, amt decimal.Decimal) (decimal.Decimal, bool) {
	want := expectedSign(cat, description)
	if want == 0 || amt.IsZero() {
		return amt, false
	}
	conflict := amt.Sign() != want
	if want < 0 {
		return amt.Abs().Neg(), conflict
	}
	return amt.Abs(), conflict
}
