package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/billsplit/billsplit/internal/calculator"
	"github.com/billsplit/billsplit/internal/metrics"
	"github.com/billsplit/billsplit/internal/models"
	"github.com/billsplit/billsplit/internal/storage"
)

// recalcMaxRetries bounds the compare-and-swap loop in RecalculateOwed.
const recalcMaxRetries = 5

// GetParticipant retrieves the participant row for (bill, person).
func (s *SQLiteStore) GetParticipant(ctx context.Context, billID, personID string) (*models.BillParticipant, error) {
	return getParticipant(ctx, s.db, billID, personID)
}

func getParticipant(ctx context.Context, q dbtx, billID, personID string) (*models.BillParticipant, error) {
	participant := &models.BillParticipant{}
	var owed string
	err := q.QueryRowContext(ctx,
		"SELECT id, bill_id, person_id, owed_amount, version FROM bill_participants WHERE bill_id = ? AND person_id = ?",
		billID, personID,
	).Scan(&participant.ID, &participant.BillID, &participant.PersonID, &owed, &participant.Version)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("participant (%s, %s): %w", billID, personID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get participant: %w", err)
	}
	if participant.OwedAmount, err = scanDecimal(owed); err != nil {
		return nil, err
	}
	return participant, nil
}

// ListParticipants retrieves all participant rows of a bill.
func (s *SQLiteStore) ListParticipants(ctx context.Context, billID string) ([]*models.BillParticipant, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, bill_id, person_id, owed_amount, version FROM bill_participants WHERE bill_id = ? ORDER BY rowid",
		billID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list participants: %w", err)
	}
	defer rows.Close()

	var participants []*models.BillParticipant
	for rows.Next() {
		participant := &models.BillParticipant{}
		var owed string
		if err := rows.Scan(&participant.ID, &participant.BillID, &participant.PersonID, &owed, &participant.Version); err != nil {
			return nil, fmt.Errorf("failed to scan participant: %w", err)
		}
		if participant.OwedAmount, err = scanDecimal(owed); err != nil {
			return nil, err
		}
		participants = append(participants, participant)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate participants: %w", err)
	}
	return participants, nil
}

// RecalculateOwed recomputes the owed amount for (bill, person) from the
// person's item shares and stores it. Concurrent recalculations for the
// same participant serialize through a version-guarded compare-and-swap:
// each attempt reads the participant's version, recomputes the total inside
// the same transaction, and only commits if the version is unchanged.
// After the retry budget is exhausted the call fails with
// storage.ErrRecalcConflict rather than risking a lost update.
func (s *SQLiteStore) RecalculateOwed(ctx context.Context, billID, personID string) (decimal.Decimal, error) {
	for attempt := 0; attempt < recalcMaxRetries; attempt++ {
		owed, ok, err := s.tryRecalculateOwed(ctx, billID, personID)
		if err != nil {
			return decimal.Zero, err
		}
		if ok {
			return owed, nil
		}
		metrics.OwedRecalcRetries.Inc()
	}
	return decimal.Zero, fmt.Errorf("recalculate owed (%s, %s): %w", billID, personID, storage.ErrRecalcConflict)
}

func (s *SQLiteStore) tryRecalculateOwed(ctx context.Context, billID, personID string) (decimal.Decimal, bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return decimal.Zero, false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	participant, err := getParticipant(ctx, tx, billID, personID)
	if err != nil {
		return decimal.Zero, false, err
	}

	owed, err := computeOwed(ctx, tx, billID, personID)
	if err != nil {
		return decimal.Zero, false, err
	}

	res, err := tx.ExecContext(ctx,
		"UPDATE bill_participants SET owed_amount = ?, version = version + 1 WHERE id = ? AND version = ?",
		owed.String(), participant.ID, participant.Version,
	)
	if err != nil {
		return decimal.Zero, false, fmt.Errorf("failed to update owed amount: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return decimal.Zero, false, fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		// Lost the race; the caller retries against the new version.
		return decimal.Zero, false, nil
	}

	if err := tx.Commit(); err != nil {
		return decimal.Zero, false, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return owed, true, nil
}

// computeOwed sums the person's share amounts over every item of the bill,
// reading through q so the computation sees the transaction's snapshot.
func computeOwed(ctx context.Context, q dbtx, billID, personID string) (decimal.Decimal, error) {
	items, err := loadItems(ctx, q, billID)
	if err != nil {
		return decimal.Zero, err
	}

	owed := decimal.Zero
	for i := range items {
		item := &items[i]
		for _, share := range item.Shares {
			if share.PersonID != personID {
				continue
			}
			owed = owed.Add(calculator.ComputeShare(item.Price, share, item.Shares))
		}
	}
	return owed, nil
}

// ensureParticipant creates the participant row for (bill, person) inside
// the given transaction if it does not exist, seeding owed_amount from the
// person's current shares. Reports whether a row was created.
func ensureParticipant(ctx context.Context, q dbtx, billID, personID string) (bool, error) {
	_, err := getParticipant(ctx, q, billID, personID)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return false, err
	}

	owed, err := computeOwed(ctx, q, billID, personID)
	if err != nil {
		return false, err
	}

	_, err = q.ExecContext(ctx,
		"INSERT INTO bill_participants (id, bill_id, person_id, owed_amount, version) VALUES (?, ?, ?, ?, 0)",
		uuid.New().String(), billID, personID, owed.String(),
	)
	if err != nil {
		return false, fmt.Errorf("failed to insert participant: %w", err)
	}
	return true, nil
}

// SumOwedByPerson aggregates the person's owed amounts across all bills.
func (s *SQLiteStore) SumOwedByPerson(ctx context.Context, personID string) (decimal.Decimal, error) {
	total, err := sumColumn(ctx, s.db,
		"SELECT owed_amount FROM bill_participants WHERE person_id = ?",
		personID,
	)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum owed amounts: %w", err)
	}
	return total, nil
}
