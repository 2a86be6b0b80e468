package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/billsplit/billsplit/internal/cache"
	"github.com/billsplit/billsplit/internal/metrics"
	"github.com/billsplit/billsplit/internal/models"
	"github.com/billsplit/billsplit/internal/storage"
)

// PaymentService records bill contributions and peer-to-peer settlements,
// and serves the derived paid amount through a best-effort TTL cache.
type PaymentService struct {
	store   storage.Store
	cache   cache.Cache
	paidTTL time.Duration
}

// NewPaymentService creates a PaymentService. paidTTL bounds how stale a
// cached paid amount may be when an external write skips invalidation.
func NewPaymentService(store storage.Store, c cache.Cache, paidTTL time.Duration) *PaymentService {
	return &PaymentService{store: store, cache: c, paidTTL: paidTTL}
}

func paidKey(billID, personID string) string {
	return fmt.Sprintf("participant:%s:%s:paid_amount", billID, personID)
}

func (s *PaymentService) invalidatePaid(billID, personID string) {
	s.cache.Invalidate(paidKey(billID, personID))
}

// RecordBillPayment records a contribution toward a bill. Atomically, a
// participant row is ensured for (bill, person) — with its owed amount
// computed if newly created — and the payment is inserted; then the cached
// paid amount is invalidated. Cache failures never fail the operation.
func (s *PaymentService) RecordBillPayment(ctx context.Context, personID, billID string, amount decimal.Decimal, date, description string) (*models.Payment, error) {
	errs := fieldErrors{}
	if !amount.IsPositive() {
		errs.addf("amount", "payment amount must be positive")
	}
	if _, err := time.Parse(dateLayout, date); err != nil {
		errs.addf("date", "date must be in YYYY-MM-DD format")
	}
	if err := errs.err(); err != nil {
		return nil, err
	}
	if _, err := s.store.GetPerson(ctx, personID); err != nil {
		return nil, err
	}

	payment := &models.Payment{
		Type:        models.PaymentTypeBill,
		PersonID:    personID,
		BillID:      billID,
		Amount:      amount,
		Date:        date,
		Description: description,
	}

	participantCreated, err := s.store.CreateBillPayment(ctx, payment)
	if err != nil {
		return nil, err
	}

	s.invalidatePaid(billID, personID)
	metrics.PaymentsRecorded.WithLabelValues(string(models.PaymentTypeBill)).Inc()
	slog.Info("Bill payment recorded",
		"payment_id", payment.ID,
		"bill_id", billID,
		"person_id", personID,
		"amount", amount,
		"participant_created", participantCreated,
	)
	return payment, nil
}

// RecordSettlement creates the mirrored settlement pair: a positive leg
// for the payer and a negated leg for the receiver, linked through their
// paired-payment references. Both rows are created or neither.
// The payer's leg is returned.
func (s *PaymentService) RecordSettlement(ctx context.Context, fromPersonID, toPersonID string, amount decimal.Decimal, date, description string) (*models.Payment, error) {
	errs := fieldErrors{}
	if !amount.IsPositive() {
		errs.addf("amount", "settlement amount must be positive")
	}
	if _, err := time.Parse(dateLayout, date); err != nil {
		errs.addf("date", "date must be in YYYY-MM-DD format")
	}
	if fromPersonID != "" && fromPersonID == toPersonID {
		errs.addf("to_person_id", "cannot settle with yourself")
	}
	if err := errs.err(); err != nil {
		return nil, err
	}
	if _, err := s.store.GetPerson(ctx, fromPersonID); err != nil {
		return nil, err
	}
	if _, err := s.store.GetPerson(ctx, toPersonID); err != nil {
		return nil, err
	}

	out := &models.Payment{
		ID:            uuid.New().String(),
		Type:          models.PaymentTypeSettlement,
		PersonID:      fromPersonID,
		OtherPersonID: toPersonID,
		Amount:        amount,
		Date:          date,
		Description:   description,
	}
	in := &models.Payment{
		ID:            uuid.New().String(),
		Type:          models.PaymentTypeSettlement,
		PersonID:      toPersonID,
		OtherPersonID: fromPersonID,
		Amount:        amount.Neg(),
		Date:          date,
		Description:   description,
	}
	out.PairedPaymentID = in.ID
	in.PairedPaymentID = out.ID

	if err := s.store.CreateSettlementPair(ctx, out, in); err != nil {
		return nil, err
	}

	metrics.PaymentsRecorded.WithLabelValues(string(models.PaymentTypeSettlement)).Inc()
	slog.Info("Settlement recorded",
		"payment_id", out.ID,
		"paired_payment_id", in.ID,
		"from", fromPersonID,
		"to", toPersonID,
		"amount", amount,
	)
	return out, nil
}

// PaidAmount returns how much a person has contributed toward a bill.
// Served from the TTL cache when possible; the aggregation query over the
// payment rows is always the source of truth.
func (s *PaymentService) PaidAmount(ctx context.Context, billID, personID string) (decimal.Decimal, error) {
	key := paidKey(billID, personID)
	if paid, ok := s.cache.Get(key); ok {
		metrics.PaidCacheHits.Inc()
		return paid, nil
	}
	metrics.PaidCacheMisses.Inc()

	paid, err := s.store.SumBillPayments(ctx, billID, personID)
	if err != nil {
		return decimal.Zero, err
	}
	s.cache.Set(key, paid, s.paidTTL)
	return paid, nil
}

// BillContributions lists all contributions made toward a bill.
func (s *PaymentService) BillContributions(ctx context.Context, billID string) ([]*models.Payment, error) {
	if _, err := s.store.GetBill(ctx, billID); err != nil {
		return nil, err
	}
	return s.store.ListBillPayments(ctx, billID)
}
