package calculator

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/billsplit/billsplit/internal/models"
)

// ShareError reports a validation failure scoped to a single field of a
// share, so callers can surface actionable feedback.
type ShareError struct {
	Field   string
	Message string
}

func (e *ShareError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateShare checks a proposed or edited share against its split-type
// constraints and the item's sibling shares. siblings must exclude any
// existing share for the same person that this one replaces.
//
// Rules per split type:
//   - PERCENTAGE: percentage required, in (0, 100]; the sum over sibling
//     PERCENTAGE shares plus this one must not exceed 100.
//   - EXACT: exact amount required, >= 0; the sum over sibling EXACT shares
//     plus this one must not exceed the item price.
//   - SHARES: share units required and positive.
//   - EQUAL / ADJUSTED: no extra numeric constraint.
func ValidateShare(itemPrice decimal.Decimal, share models.ItemShare, siblings []models.ItemShare) error {
	if !share.SplitType.Valid() {
		return &ShareError{Field: "split_type", Message: fmt.Sprintf("unknown split type %q", share.SplitType)}
	}

	switch share.SplitType {
	case models.SplitTypePercentage:
		if share.Percentage == nil {
			return &ShareError{Field: "percentage", Message: "percentage is required for percentage split"}
		}
		if share.Percentage.LessThanOrEqual(decimal.Zero) || share.Percentage.GreaterThan(hundred) {
			return &ShareError{Field: "percentage", Message: "percentage must be between 0 and 100"}
		}
		total := *share.Percentage
		for i := range siblings {
			if siblings[i].SplitType == models.SplitTypePercentage && siblings[i].Percentage != nil {
				total = total.Add(*siblings[i].Percentage)
			}
		}
		if total.GreaterThan(hundred) {
			return &ShareError{
				Field:   "percentage",
				Message: fmt.Sprintf("total percentage (%s%%) exceeds 100%%", total),
			}
		}

	case models.SplitTypeExact:
		if share.ExactAmount == nil {
			return &ShareError{Field: "exact_amount", Message: "exact amount is required for exact split"}
		}
		if share.ExactAmount.IsNegative() {
			return &ShareError{Field: "exact_amount", Message: "exact amount cannot be negative"}
		}
		total := *share.ExactAmount
		for i := range siblings {
			if siblings[i].SplitType == models.SplitTypeExact && siblings[i].ExactAmount != nil {
				total = total.Add(*siblings[i].ExactAmount)
			}
		}
		if total.GreaterThan(itemPrice) {
			return &ShareError{
				Field:   "exact_amount",
				Message: fmt.Sprintf("total amount (%s) exceeds item price (%s)", total, itemPrice),
			}
		}

	case models.SplitTypeShares:
		if share.ShareUnits == nil {
			return &ShareError{Field: "share_units", Message: "share units are required for shares split"}
		}
		if *share.ShareUnits <= 0 {
			return &ShareError{Field: "share_units", Message: "share units must be positive"}
		}
	}

	return nil
}

// ValidateItemShares validates a full batch of shares proposed for one item:
// every (item, person) pair must be unique and every share must pass
// ValidateShare against the shares before it in the batch. It returns the
// index of the offending share along with the error.
func ValidateItemShares(itemPrice decimal.Decimal, shares []models.ItemShare) (int, error) {
	seen := make(map[string]bool, len(shares))
	for i, share := range shares {
		if seen[share.PersonID] {
			return i, &ShareError{Field: "person_id", Message: "duplicate share for person"}
		}
		seen[share.PersonID] = true

		if err := ValidateShare(itemPrice, share, shares[:i]); err != nil {
			return i, err
		}
	}
	return -1, nil
}
