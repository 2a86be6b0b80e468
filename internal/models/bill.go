package models

import "github.com/shopspring/decimal"

// Bill represents a shared expense event composed of items.
type Bill struct {
	// ID is the unique identifier for the bill (UUID format).
	ID string `json:"id"`

	// Title is the human-readable name for the bill.
	Title string `json:"title"`

	// Date is the bill date in ISO format (YYYY-MM-DD).
	Date string `json:"date"`

	// CreatedBy is the ID of the person who created the bill.
	CreatedBy string `json:"created_by"`

	// GroupID is the optional group this bill belongs to.
	GroupID string `json:"group_id,omitempty"`

	// IsPersonal marks bills created in personal-expense mode, where the
	// unattributed remainder of each item is assigned to the reserved
	// unassigned person.
	IsPersonal bool `json:"is_personal"`

	// Items are the priced lines on the bill, created in one batch with it.
	Items []Item `json:"items,omitempty"`

	// CreatedAt is the Unix timestamp when the bill was created.
	CreatedAt int64 `json:"created_at"`
}

// TotalAmount returns the sum of all item prices on the bill.
func (b *Bill) TotalAmount() decimal.Decimal {
	total := decimal.Zero
	for i := range b.Items {
		total = total.Add(b.Items[i].Price)
	}
	return total
}

// Item represents a single priced line on a bill. Items are immutable once
// created; edits go through recreating the bill.
type Item struct {
	// ID is the unique identifier for the item (UUID format).
	ID string `json:"id"`

	// BillID is the bill this item belongs to.
	BillID string `json:"bill_id"`

	// Name is the description of the item (e.g., "Pizza", "Beer").
	Name string `json:"name"`

	// Price is the item price. Always positive.
	Price decimal.Decimal `json:"price"`

	// Shares describe how the item is divided among people.
	Shares []ItemShare `json:"shares"`
}

// BillParticipant represents a person's participation in a bill, tracking
// their share obligation. OwedAmount is a recomputable aggregate over the
// person's item shares in the bill, not a source of truth.
type BillParticipant struct {
	// ID is the unique identifier for the participant row (UUID format).
	ID string `json:"id"`

	// BillID is the bill being participated in.
	BillID string `json:"bill_id"`

	// PersonID is the participating person.
	PersonID string `json:"person_id"`

	// OwedAmount is the cached sum of this person's share amounts across
	// the bill's items. Refreshed by the participant ledger, never written
	// directly by callers.
	OwedAmount decimal.Decimal `json:"owed_amount"`

	// Version is bumped on every owed recomputation; concurrent recompute
	// attempts use it as a compare-and-swap guard.
	Version int64 `json:"-"`
}
