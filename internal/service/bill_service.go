package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/billsplit/billsplit/internal/calculator"
	"github.com/billsplit/billsplit/internal/metrics"
	"github.com/billsplit/billsplit/internal/models"
	"github.com/billsplit/billsplit/internal/storage"
)

const dateLayout = "2006-01-02"

// BillService owns bill construction and owed recomputation.
type BillService struct {
	store    storage.Store
	payments *PaymentService
}

// NewBillService creates a new BillService with the given storage backend.
// The payment service handles the bill's initial contributions so their
// cache bookkeeping stays in one place.
func NewBillService(store storage.Store, payments *PaymentService) *BillService {
	return &BillService{store: store, payments: payments}
}

// ShareInput is one proposed share of one item.
type ShareInput struct {
	PersonID    string
	SplitType   models.SplitType
	Percentage  *decimal.Decimal
	ExactAmount *decimal.Decimal
	ShareUnits  *int64
}

// ItemInput is one proposed bill line.
type ItemInput struct {
	Name   string
	Price  decimal.Decimal
	Shares []ShareInput
}

// PaidByInput is an initial contribution recorded with the bill.
type PaidByInput struct {
	PersonID string
	Amount   decimal.Decimal
}

// CreateBillRequest is the validated-shape payload for creating a bill
// with its items, shares and optional initial payments.
type CreateBillRequest struct {
	Title      string
	Date       string
	GroupID    string
	IsPersonal bool
	CreatedBy  string
	Items      []ItemInput
	PaidBy     []PaidByInput
}

// ParticipantShare reports one participant's owed amount after creation.
type ParticipantShare struct {
	PersonID   string          `json:"person_id"`
	OwedAmount decimal.Decimal `json:"owed_amount"`
}

// CreateBillResult is the outcome of a successful bill creation.
type CreateBillResult struct {
	BillID       string             `json:"bill_id"`
	Participants []ParticipantShare `json:"participants"`
}

// CreateBill validates the payload, computes every participant's owed
// amount and persists the bill, items, shares, participant rows and
// initial payments as one atomic unit. On validation failure nothing is
// persisted and the error carries field-scoped messages.
func (s *BillService) CreateBill(ctx context.Context, req CreateBillRequest) (*CreateBillResult, error) {
	if err := s.validateCreateBill(ctx, req); err != nil {
		return nil, err
	}

	bill := &models.Bill{
		Title:      req.Title,
		Date:       req.Date,
		CreatedBy:  req.CreatedBy,
		GroupID:    req.GroupID,
		IsPersonal: req.IsPersonal,
		Items:      make([]models.Item, len(req.Items)),
	}
	for i, in := range req.Items {
		shares := make([]models.ItemShare, len(in.Shares))
		for j, sh := range in.Shares {
			shares[j] = models.ItemShare{
				PersonID:    sh.PersonID,
				SplitType:   sh.SplitType,
				Percentage:  sh.Percentage,
				ExactAmount: sh.ExactAmount,
				ShareUnits:  sh.ShareUnits,
			}
		}
		bill.Items[i] = models.Item{Name: in.Name, Price: in.Price, Shares: shares}
	}

	if bill.IsPersonal {
		assignRemainders(bill)
	}

	totals := calculator.ComputePersonTotals(bill.Items)
	// Payers without any share still become participants, owing zero.
	for _, paidBy := range req.PaidBy {
		if _, ok := totals[paidBy.PersonID]; !ok {
			totals[paidBy.PersonID] = decimal.Zero
		}
	}

	participants := make([]*models.BillParticipant, 0, len(totals))
	for i := range bill.Items {
		for _, share := range bill.Items[i].Shares {
			if owed, ok := totals[share.PersonID]; ok {
				participants = append(participants, &models.BillParticipant{
					PersonID:   share.PersonID,
					OwedAmount: owed,
				})
				delete(totals, share.PersonID)
			}
		}
	}
	for personID, owed := range totals {
		participants = append(participants, &models.BillParticipant{PersonID: personID, OwedAmount: owed})
	}

	payments := make([]*models.Payment, len(req.PaidBy))
	for i, paidBy := range req.PaidBy {
		payments[i] = &models.Payment{
			Type:        models.PaymentTypeBill,
			PersonID:    paidBy.PersonID,
			Amount:      paidBy.Amount,
			Date:        req.Date,
			Description: fmt.Sprintf("Payment for %s", req.Title),
		}
	}

	if err := s.store.CreateBill(ctx, bill, participants, payments); err != nil {
		return nil, fmt.Errorf("failed to create bill: %w", err)
	}

	// The initial contributions changed paid totals; drop stale cache
	// entries for the payers.
	for _, paidBy := range req.PaidBy {
		s.payments.invalidatePaid(bill.ID, paidBy.PersonID)
	}

	metrics.BillsCreated.Inc()
	slog.Info("Bill created",
		"bill_id", bill.ID,
		"title", bill.Title,
		"items", len(bill.Items),
		"participants", len(participants),
		"is_personal", bill.IsPersonal,
	)

	result := &CreateBillResult{BillID: bill.ID}
	for _, participant := range participants {
		result.Participants = append(result.Participants, ParticipantShare{
			PersonID:   participant.PersonID,
			OwedAmount: participant.OwedAmount,
		})
	}
	return result, nil
}

func (s *BillService) validateCreateBill(ctx context.Context, req CreateBillRequest) error {
	errs := fieldErrors{}

	if req.Title == "" {
		errs.addf("bill.title", "title is required")
	}
	if _, err := time.Parse(dateLayout, req.Date); err != nil {
		errs.addf("bill.date", "date must be in YYYY-MM-DD format")
	}
	if len(req.Items) == 0 {
		errs.addf("items", "at least one item is required")
	}
	if req.CreatedBy == "" {
		errs.addf("created_by", "creator is required")
	} else if err := s.personExists(ctx, req.CreatedBy); err != nil {
		errs.addf("created_by", "person %s not found", req.CreatedBy)
	}

	for i, item := range req.Items {
		scope := fmt.Sprintf("items[%d]", i)
		if item.Name == "" {
			errs.addf(scope+".name", "item name is required")
		}
		if !item.Price.IsPositive() {
			errs.addf(scope+".price", "item price must be positive")
		}
		if len(item.Shares) == 0 {
			errs.addf(scope+".shares", "item must have at least one share")
			continue
		}

		shares := make([]models.ItemShare, len(item.Shares))
		for j, sh := range item.Shares {
			shares[j] = models.ItemShare{
				PersonID:    sh.PersonID,
				SplitType:   sh.SplitType,
				Percentage:  sh.Percentage,
				ExactAmount: sh.ExactAmount,
				ShareUnits:  sh.ShareUnits,
			}
			if sh.PersonID == "" {
				errs.addf(fmt.Sprintf("%s.shares[%d].person_id", scope, j), "person is required")
			} else if err := s.personExists(ctx, sh.PersonID); err != nil {
				errs.addf(fmt.Sprintf("%s.shares[%d].person_id", scope, j), "person %s not found", sh.PersonID)
			}
		}

		if idx, err := calculator.ValidateItemShares(item.Price, shares); err != nil {
			field := fmt.Sprintf("%s.shares[%d]", scope, idx)
			if shareErr, ok := err.(*calculator.ShareError); ok {
				errs.addf(field+"."+shareErr.Field, "%s", shareErr.Message)
			} else {
				errs.addf(field, "%s", err)
			}
		}
	}

	for i, paidBy := range req.PaidBy {
		scope := fmt.Sprintf("bill_paid_by[%d]", i)
		if !paidBy.Amount.IsPositive() {
			errs.addf(scope+".amount", "payment amount must be positive")
		}
		if paidBy.PersonID == "" {
			errs.addf(scope+".person_id", "person is required")
		} else if err := s.personExists(ctx, paidBy.PersonID); err != nil {
			errs.addf(scope+".person_id", "person %s not found", paidBy.PersonID)
		}
	}

	if req.GroupID != "" {
		if _, err := s.store.GetGroup(ctx, req.GroupID); err != nil {
			errs.addf("group_id", "group %s not found", req.GroupID)
		}
	}

	return errs.err()
}

func (s *BillService) personExists(ctx context.Context, personID string) error {
	_, err := s.store.GetPerson(ctx, personID)
	return err
}

// assignRemainders adds, for each item of a personal-expense bill, an EXACT
// share for the reserved unassigned person covering whatever part of the
// item price the provided shares leave unattributed.
func assignRemainders(bill *models.Bill) {
	for i := range bill.Items {
		item := &bill.Items[i]

		covered := decimal.Zero
		for _, share := range item.Shares {
			covered = covered.Add(calculator.ComputeShare(item.Price, share, item.Shares))
		}

		remainder := item.Price.Sub(covered)
		if remainder.IsPositive() {
			item.Shares = append(item.Shares, models.ItemShare{
				PersonID:    models.UnassignedPersonID,
				SplitType:   models.SplitTypeExact,
				ExactAmount: &remainder,
			})
		}
	}
}

// BillDetail is a bill with its participants, contributions and totals.
type BillDetail struct {
	Bill            *models.Bill              `json:"bill"`
	Participants    []*models.BillParticipant `json:"participants"`
	Payments        []*models.Payment         `json:"payments"`
	TotalAmount     decimal.Decimal           `json:"total_amount"`
	TotalPaid       decimal.Decimal           `json:"total_paid"`
	RemainingAmount decimal.Decimal           `json:"remaining_amount"`
}

// GetBill returns a bill with items, shares, participants, contributions
// and derived totals.
func (s *BillService) GetBill(ctx context.Context, billID string) (*BillDetail, error) {
	bill, err := s.store.GetBill(ctx, billID)
	if err != nil {
		return nil, err
	}

	participants, err := s.store.ListParticipants(ctx, billID)
	if err != nil {
		return nil, err
	}

	payments, err := s.store.ListBillPayments(ctx, billID)
	if err != nil {
		return nil, err
	}

	totalPaid := decimal.Zero
	for _, payment := range payments {
		totalPaid = totalPaid.Add(payment.Amount)
	}
	totalAmount := bill.TotalAmount()

	return &BillDetail{
		Bill:            bill,
		Participants:    participants,
		Payments:        payments,
		TotalAmount:     totalAmount,
		TotalPaid:       totalPaid,
		RemainingAmount: totalAmount.Sub(totalPaid),
	}, nil
}

// ListBills returns all bills, newest first, without items.
func (s *BillService) ListBills(ctx context.Context) ([]*models.Bill, error) {
	return s.store.ListBills(ctx)
}

// RecalculateOwed refreshes the owed amount for (bill, person) from the
// authoritative item shares. Safe to call repeatedly and concurrently;
// concurrent callers converge on the same stored value.
func (s *BillService) RecalculateOwed(ctx context.Context, billID, personID string) (decimal.Decimal, error) {
	owed, err := s.store.RecalculateOwed(ctx, billID, personID)
	if err != nil {
		return decimal.Zero, err
	}
	slog.Info("Owed amount recalculated", "bill_id", billID, "person_id", personID, "owed", owed)
	return owed, nil
}
