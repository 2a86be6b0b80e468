// Package storage provides abstractions for persistent ledger storage.
package storage

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/billsplit/billsplit/internal/models"
)

// ErrNotFound is returned when a referenced entity does not exist.
var ErrNotFound = errors.New("not found")

// ErrRecalcConflict is returned when an owed recomputation could not win
// its compare-and-swap within the retry budget.
var ErrRecalcConflict = errors.New("owed recalculation conflict")

// Store defines the interface for ledger storage operations.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL,
// etc.) without changing the service layer.
//
// Multi-row operations (CreateBill, CreateBillPayment, CreateSettlementPair)
// are atomic: either every row is persisted or none is.
type Store interface {
	// CreatePerson persists a new person. The ID and CreatedAt fields are
	// populated by the store if unset.
	CreatePerson(ctx context.Context, person *models.Person) error

	// GetPerson retrieves a person by ID.
	GetPerson(ctx context.Context, personID string) (*models.Person, error)

	// ListPersons retrieves all persons ordered by name.
	ListPersons(ctx context.Context) ([]*models.Person, error)

	// CreateGroup persists a new group with its members.
	CreateGroup(ctx context.Context, group *models.Group) error

	// GetGroup retrieves a group by ID, including member IDs.
	GetGroup(ctx context.Context, groupID string) (*models.Group, error)

	// ListGroups retrieves all groups, newest first. If createdBy is
	// non-empty only groups created by that person are returned.
	ListGroups(ctx context.Context, createdBy string) ([]*models.Group, error)

	// AddGroupMembers adds the given persons to a group, skipping existing
	// members.
	AddGroupMembers(ctx context.Context, groupID string, personIDs []string) error

	// CreateBill persists a bill with its items, shares, participant rows
	// and initial payments as one atomic unit. Participant owed amounts
	// are expected to be precomputed by the caller.
	CreateBill(ctx context.Context, bill *models.Bill, participants []*models.BillParticipant, payments []*models.Payment) error

	// GetBill retrieves a bill by ID including items and their shares.
	GetBill(ctx context.Context, billID string) (*models.Bill, error)

	// ListBills retrieves all bills without items, newest first.
	ListBills(ctx context.Context) ([]*models.Bill, error)

	// GetParticipant retrieves the participant row for (bill, person).
	GetParticipant(ctx context.Context, billID, personID string) (*models.BillParticipant, error)

	// ListParticipants retrieves all participant rows of a bill.
	ListParticipants(ctx context.Context, billID string) ([]*models.BillParticipant, error)

	// RecalculateOwed recomputes the owed amount for (bill, person) from
	// the person's item shares across the bill and stores it. Concurrent
	// calls for the same participant serialize through a version-guarded
	// compare-and-swap; all callers observe the same final value.
	RecalculateOwed(ctx context.Context, billID, personID string) (decimal.Decimal, error)

	// CreateBillPayment atomically ensures a participant row exists for
	// (payment.BillID, payment.PersonID) — recomputing its owed amount if
	// newly created — and inserts the BILL payment. Reports whether the
	// participant row was created.
	CreateBillPayment(ctx context.Context, payment *models.Payment) (participantCreated bool, err error)

	// CreateSettlementPair atomically inserts both legs of a settlement.
	// The two payments must already reference each other through
	// PairedPaymentID; a failure on either insert rolls back both.
	CreateSettlementPair(ctx context.Context, out, in *models.Payment) error

	// ListBillPayments retrieves all BILL payments for a bill, newest first.
	ListBillPayments(ctx context.Context, billID string) ([]*models.Payment, error)

	// SumBillPayments aggregates BILL payment amounts for (bill, person).
	// This is the source of truth behind any paid-amount cache.
	SumBillPayments(ctx context.Context, billID, personID string) (decimal.Decimal, error)

	// SumSettlements aggregates SETTLEMENT amounts recorded for a person
	// across all counterparties.
	SumSettlements(ctx context.Context, personID string) (decimal.Decimal, error)

	// SumSettlementsBetween aggregates SETTLEMENT amounts where person is
	// personID and the counterparty is otherID.
	SumSettlementsBetween(ctx context.Context, personID, otherID string) (decimal.Decimal, error)

	// SumBillPaymentsByPerson aggregates all BILL payments made by a person
	// across every bill.
	SumBillPaymentsByPerson(ctx context.Context, personID string) (decimal.Decimal, error)

	// SumOwedByPerson aggregates the person's owed amounts across every
	// bill they participate in.
	SumOwedByPerson(ctx context.Context, personID string) (decimal.Decimal, error)

	// Close releases any resources held by the store.
	Close() error
}
