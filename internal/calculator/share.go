// Package calculator computes per-person share amounts for bill items and
// validates proposed shares against the per-split-type constraints.
package calculator

import (
	"github.com/shopspring/decimal"

	"github.com/billsplit/billsplit/internal/models"
)

var hundred = decimal.NewFromInt(100)

// ComputeShare computes the monetary amount one share owes for an item,
// given the item price and all sibling shares of the same item (including
// the share itself).
//
// A share's amount depends only on siblings of the same split-type family:
// EXACT and PERCENTAGE shares are self-contained, SHARES divides by the
// total units of SHARES-typed siblings, and EQUAL divides by the count of
// EQUAL-typed siblings. ADJUSTED shares use the EQUAL formula. Because of
// this, the per-item sum of share amounts need not equal the item price
// when split types are mixed; callers decide whether to require full
// coverage.
//
// Amounts are rounded to cents with banker's rounding.
func ComputeShare(itemPrice decimal.Decimal, share models.ItemShare, allShares []models.ItemShare) decimal.Decimal {
	switch share.SplitType {
	case models.SplitTypeExact:
		if share.ExactAmount == nil {
			return decimal.Zero
		}
		return share.ExactAmount.RoundBank(2)

	case models.SplitTypePercentage:
		if share.Percentage == nil {
			return decimal.Zero
		}
		return itemPrice.Mul(*share.Percentage).Div(hundred).RoundBank(2)

	case models.SplitTypeShares:
		totalUnits := int64(0)
		for i := range allShares {
			if allShares[i].SplitType == models.SplitTypeShares && allShares[i].ShareUnits != nil {
				totalUnits += *allShares[i].ShareUnits
			}
		}
		if totalUnits > 0 && share.ShareUnits != nil && *share.ShareUnits > 0 {
			units := decimal.NewFromInt(*share.ShareUnits)
			return itemPrice.Mul(units).Div(decimal.NewFromInt(totalUnits)).RoundBank(2)
		}
		return decimal.Zero

	default: // EQUAL and ADJUSTED
		equalCount := int64(0)
		for i := range allShares {
			if allShares[i].SplitType == models.SplitTypeEqual {
				equalCount++
			}
		}
		if equalCount > 0 {
			return itemPrice.Div(decimal.NewFromInt(equalCount)).RoundBank(2)
		}
		return decimal.Zero
	}
}

// ComputePersonTotals sums share amounts per person across all items of a
// bill. The result keys are person IDs; every person holding at least one
// share appears, even if their total is zero.
func ComputePersonTotals(items []models.Item) map[string]decimal.Decimal {
	totals := make(map[string]decimal.Decimal)
	for i := range items {
		item := &items[i]
		for _, share := range item.Shares {
			amount := ComputeShare(item.Price, share, item.Shares)
			totals[share.PersonID] = totals[share.PersonID].Add(amount)
		}
	}
	return totals
}
