package models

import "github.com/shopspring/decimal"

// PaymentType distinguishes bill contributions from settlement transfers.
type PaymentType string

const (
	// PaymentTypeBill is a contribution toward a bill.
	PaymentTypeBill PaymentType = "BILL"

	// PaymentTypeSettlement is one leg of a peer-to-peer settlement pair.
	PaymentTypeSettlement PaymentType = "SETTLEMENT"
)

// Payment represents a monetary record. Bill payments are single rows tied
// to a bill. Settlements are always created as a mirrored pair: the payer's
// leg carries a positive amount, the receiver's leg the negated amount, and
// the two reference each other through PairedPaymentID. Payments are never
// mutated after creation.
type Payment struct {
	// ID is the unique identifier for the payment (UUID format).
	ID string `json:"id"`

	// Type is BILL or SETTLEMENT.
	Type PaymentType `json:"payment_type"`

	// PersonID is the person this record belongs to.
	PersonID string `json:"person_id"`

	// OtherPersonID is the counterparty. Set only for SETTLEMENT payments.
	OtherPersonID string `json:"other_person_id,omitempty"`

	// BillID is the bill being contributed to. Set only for BILL payments.
	BillID string `json:"bill_id,omitempty"`

	// Amount is the signed amount. Positive on the payer's settlement leg,
	// negative on the receiver's leg.
	Amount decimal.Decimal `json:"amount"`

	// Date is the payment date in ISO format (YYYY-MM-DD).
	Date string `json:"date"`

	// Description is an optional free-form note.
	Description string `json:"description,omitempty"`

	// PairedPaymentID links the mirrored settlement leg. Empty for BILL
	// payments.
	PairedPaymentID string `json:"paired_payment_id,omitempty"`

	// CreatedAt is the Unix timestamp when the payment was recorded.
	CreatedAt int64 `json:"created_at"`
}
