package service

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/billsplit/billsplit/internal/storage"
)

// Balance statuses as reported to API consumers.
const (
	StatusOwes    = "owes"
	StatusIsOwed  = "is_owed"
	StatusSettled = "settled"
)

// ParticipantBalance is a person's position on a single bill.
type ParticipantBalance struct {
	BillID     string          `json:"bill_id"`
	PersonID   string          `json:"person_id"`
	OwedAmount decimal.Decimal `json:"owed_amount"`
	PaidAmount decimal.Decimal `json:"paid_amount"`
	Balance    decimal.Decimal `json:"balance"`
	Status     string          `json:"status"`
}

// PairBalance is the net settlement position between two persons.
type PairBalance struct {
	PersonID      string          `json:"person_id"`
	OtherPersonID string          `json:"other_person_id"`
	Balance       decimal.Decimal `json:"balance"`
	Status        string          `json:"status"`
}

// OverallBalance is a person's aggregate position across all bills and
// settlements.
type OverallBalance struct {
	PersonID      string          `json:"person_id"`
	TotalOwed     decimal.Decimal `json:"total_owed"`
	TotalPaid     decimal.Decimal `json:"total_paid"`
	SettlementNet decimal.Decimal `json:"settlement_net"`
	Balance       decimal.Decimal `json:"balance"`
	Status        string          `json:"status"`
}

// BalanceService derives balances from the payment and participant ledgers.
// Balances are always computed from stored rows, never stored themselves.
type BalanceService struct {
	store    storage.Store
	payments *PaymentService
}

// NewBalanceService creates a BalanceService.
func NewBalanceService(store storage.Store, payments *PaymentService) *BalanceService {
	return &BalanceService{store: store, payments: payments}
}

func statusOf(balance decimal.Decimal) string {
	switch balance.Sign() {
	case -1:
		return StatusOwes
	case 1:
		return StatusIsOwed
	default:
		return StatusSettled
	}
}

// BillBalance reports a person's position on one bill: paid minus owed.
// Negative means the person still owes toward the bill.
func (s *BalanceService) BillBalance(ctx context.Context, billID, personID string) (*ParticipantBalance, error) {
	participant, err := s.store.GetParticipant(ctx, billID, personID)
	if err != nil {
		return nil, err
	}
	paid, err := s.payments.PaidAmount(ctx, billID, personID)
	if err != nil {
		return nil, err
	}
	balance := paid.Sub(participant.OwedAmount)
	return &ParticipantBalance{
		BillID:     billID,
		PersonID:   personID,
		OwedAmount: participant.OwedAmount,
		PaidAmount: paid,
		Balance:    balance,
		Status:     statusOf(balance),
	}, nil
}

// BalanceBetween reports the net settlement position of personID against
// otherID. Positive means otherID owes personID.
func (s *BalanceService) BalanceBetween(ctx context.Context, personID, otherID string) (*PairBalance, error) {
	if _, err := s.store.GetPerson(ctx, personID); err != nil {
		return nil, err
	}
	if _, err := s.store.GetPerson(ctx, otherID); err != nil {
		return nil, err
	}
	net, err := s.store.SumSettlementsBetween(ctx, personID, otherID)
	if err != nil {
		return nil, err
	}
	return &PairBalance{
		PersonID:      personID,
		OtherPersonID: otherID,
		Balance:       net,
		Status:        statusOf(net),
	}, nil
}

// Overall reports a person's aggregate position: everything paid toward
// bills, minus everything owed, plus the net of all settlements.
func (s *BalanceService) Overall(ctx context.Context, personID string) (*OverallBalance, error) {
	if _, err := s.store.GetPerson(ctx, personID); err != nil {
		return nil, err
	}
	totalPaid, err := s.store.SumBillPaymentsByPerson(ctx, personID)
	if err != nil {
		return nil, err
	}
	totalOwed, err := s.store.SumOwedByPerson(ctx, personID)
	if err != nil {
		return nil, err
	}
	settlementNet, err := s.store.SumSettlements(ctx, personID)
	if err != nil {
		return nil, err
	}
	balance := totalPaid.Sub(totalOwed).Add(settlementNet)
	return &OverallBalance{
		PersonID:      personID,
		TotalOwed:     totalOwed,
		TotalPaid:     totalPaid,
		SettlementNet: settlementNet,
		Balance:       balance,
		Status:        statusOf(balance),
	}, nil
}

// Dashboard summarizes a person's overall position together with the bills
// they participate in.
type Dashboard struct {
	Overall *OverallBalance       `json:"overall"`
	Bills   []*ParticipantBalance `json:"bills"`
}

// DashboardFor builds the dashboard summary for a person. Bills the person
// participates in are resolved through the participant ledger.
func (s *BalanceService) DashboardFor(ctx context.Context, personID string) (*Dashboard, error) {
	overall, err := s.Overall(ctx, personID)
	if err != nil {
		return nil, err
	}
	bills, err := s.store.ListBills(ctx)
	if err != nil {
		return nil, err
	}
	positions := make([]*ParticipantBalance, 0, len(bills))
	for _, bill := range bills {
		bb, err := s.BillBalance(ctx, bill.ID, personID)
		if errors.Is(err, storage.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		positions = append(positions, bb)
	}
	return &Dashboard{Overall: overall, Bills: positions}, nil
}
