package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/billsplit/billsplit/internal/models"
	"github.com/billsplit/billsplit/internal/storage"
)

func insertPayment(ctx context.Context, q dbtx, payment *models.Payment) error {
	if payment.ID == "" {
		payment.ID = uuid.New().String()
	}
	if payment.CreatedAt == 0 {
		payment.CreatedAt = time.Now().Unix()
	}

	var otherPerson, billID, pairedID any
	if payment.OtherPersonID != "" {
		otherPerson = payment.OtherPersonID
	}
	if payment.BillID != "" {
		billID = payment.BillID
	}
	if payment.PairedPaymentID != "" {
		pairedID = payment.PairedPaymentID
	}

	_, err := q.ExecContext(ctx,
		`INSERT INTO payments (id, payment_type, person_id, other_person_id, bill_id, amount, date, description, paired_payment_id, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		payment.ID, string(payment.Type), payment.PersonID, otherPerson, billID,
		payment.Amount.String(), payment.Date, payment.Description, pairedID, payment.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert payment: %w", err)
	}
	return nil
}

// CreateBillPayment atomically ensures a participant row exists for the
// payment's (bill, person) — recomputing its owed amount when newly
// created — and inserts the BILL payment. A failure at any step rolls back
// the whole unit.
func (s *SQLiteStore) CreateBillPayment(ctx context.Context, payment *models.Payment) (bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	exists, err := billExists(ctx, tx, payment.BillID)
	if err != nil {
		return false, err
	}
	if !exists {
		return false, fmt.Errorf("bill %s: %w", payment.BillID, storage.ErrNotFound)
	}

	created, err := ensureParticipant(ctx, tx, payment.BillID, payment.PersonID)
	if err != nil {
		return false, err
	}

	if err := insertPayment(ctx, tx, payment); err != nil {
		return false, err
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return created, nil
}

// CreateSettlementPair atomically inserts both legs of a settlement.
// Both rows are created or neither; no half-pair is ever observable.
func (s *SQLiteStore) CreateSettlementPair(ctx context.Context, out, in *models.Payment) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := insertPayment(ctx, tx, out); err != nil {
		return err
	}
	if err := insertPayment(ctx, tx, in); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// ListBillPayments retrieves all BILL payments for a bill, newest first.
func (s *SQLiteStore) ListBillPayments(ctx context.Context, billID string) ([]*models.Payment, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, payment_type, person_id, other_person_id, bill_id, amount, date, description, paired_payment_id, created_at
		 FROM payments WHERE payment_type = ? AND bill_id = ? ORDER BY created_at DESC, rowid DESC`,
		string(models.PaymentTypeBill), billID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list bill payments: %w", err)
	}
	defer rows.Close()

	var payments []*models.Payment
	for rows.Next() {
		payment, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		payments = append(payments, payment)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate payments: %w", err)
	}
	return payments, nil
}

func scanPayment(row rowScanner) (*models.Payment, error) {
	payment := &models.Payment{}
	var paymentType, amount string
	var otherPerson, billID, pairedID *string
	if err := row.Scan(&payment.ID, &paymentType, &payment.PersonID, &otherPerson, &billID,
		&amount, &payment.Date, &payment.Description, &pairedID, &payment.CreatedAt); err != nil {
		return nil, fmt.Errorf("failed to scan payment: %w", err)
	}
	payment.Type = models.PaymentType(paymentType)
	if otherPerson != nil {
		payment.OtherPersonID = *otherPerson
	}
	if billID != nil {
		payment.BillID = *billID
	}
	if pairedID != nil {
		payment.PairedPaymentID = *pairedID
	}
	var err error
	if payment.Amount, err = scanDecimal(amount); err != nil {
		return nil, err
	}
	return payment, nil
}

// SumBillPayments aggregates BILL payment amounts for (bill, person).
func (s *SQLiteStore) SumBillPayments(ctx context.Context, billID, personID string) (decimal.Decimal, error) {
	total, err := sumColumn(ctx, s.db,
		"SELECT amount FROM payments WHERE payment_type = ? AND bill_id = ? AND person_id = ?",
		string(models.PaymentTypeBill), billID, personID,
	)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum bill payments: %w", err)
	}
	return total, nil
}

// SumSettlements aggregates SETTLEMENT amounts recorded for a person.
func (s *SQLiteStore) SumSettlements(ctx context.Context, personID string) (decimal.Decimal, error) {
	total, err := sumColumn(ctx, s.db,
		"SELECT amount FROM payments WHERE payment_type = ? AND person_id = ?",
		string(models.PaymentTypeSettlement), personID,
	)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum settlements: %w", err)
	}
	return total, nil
}

// SumSettlementsBetween aggregates SETTLEMENT amounts where person is
// personID and the counterparty is otherID.
func (s *SQLiteStore) SumSettlementsBetween(ctx context.Context, personID, otherID string) (decimal.Decimal, error) {
	total, err := sumColumn(ctx, s.db,
		"SELECT amount FROM payments WHERE payment_type = ? AND person_id = ? AND other_person_id = ?",
		string(models.PaymentTypeSettlement), personID, otherID,
	)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum settlements between persons: %w", err)
	}
	return total, nil
}

// SumBillPaymentsByPerson aggregates all BILL payments made by a person.
func (s *SQLiteStore) SumBillPaymentsByPerson(ctx context.Context, personID string) (decimal.Decimal, error) {
	total, err := sumColumn(ctx, s.db,
		"SELECT amount FROM payments WHERE payment_type = ? AND person_id = ?",
		string(models.PaymentTypeBill), personID,
	)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum bill payments by person: %w", err)
	}
	return total, nil
}
