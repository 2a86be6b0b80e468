package models

import "github.com/shopspring/decimal"

// SplitType is the strategy for deriving a share's monetary amount.
type SplitType string

const (
	// SplitTypeEqual divides the item price evenly among EQUAL-typed shares.
	SplitTypeEqual SplitType = "EQUAL"

	// SplitTypePercentage assigns a fixed percentage of the item price.
	SplitTypePercentage SplitType = "PERCENTAGE"

	// SplitTypeExact assigns a fixed monetary amount.
	SplitTypeExact SplitType = "EXACT"

	// SplitTypeShares divides the item price proportionally to share units.
	SplitTypeShares SplitType = "SHARES"

	// SplitTypeAdjusted is an equal split with manual adjustments. The share
	// computation treats it like EQUAL; it exists so callers can distinguish
	// adjusted rows later.
	SplitTypeAdjusted SplitType = "ADJUSTED"
)

// Valid reports whether t is one of the known split types.
func (t SplitType) Valid() bool {
	switch t {
	case SplitTypeEqual, SplitTypePercentage, SplitTypeExact, SplitTypeShares, SplitTypeAdjusted:
		return true
	}
	return false
}

// ItemShare represents how a bill item is shared by a specific person.
// Exactly one of Percentage, ExactAmount or ShareUnits is populated,
// depending on SplitType. The (ItemID, PersonID) pair is unique.
type ItemShare struct {
	// ID is the unique identifier for the share (UUID format).
	ID string `json:"id"`

	// ItemID is the item this share belongs to.
	ItemID string `json:"item_id"`

	// PersonID is the person holding this share.
	PersonID string `json:"person_id"`

	// SplitType selects the strategy for computing the share amount.
	SplitType SplitType `json:"split_type"`

	// Percentage of the item price (0-100], set for PERCENTAGE shares.
	Percentage *decimal.Decimal `json:"percentage,omitempty"`

	// ExactAmount is a fixed amount, set for EXACT shares.
	ExactAmount *decimal.Decimal `json:"exact_amount,omitempty"`

	// ShareUnits is a positive unit count, set for SHARES shares.
	ShareUnits *int64 `json:"share_units,omitempty"`
}
