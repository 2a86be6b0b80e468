package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/billsplit/billsplit/internal/models"
	"github.com/billsplit/billsplit/internal/storage"
)

// CreateBill persists a bill with its items, shares, participant rows and
// initial payments in one transaction. Any failure rolls back the whole
// unit, leaving no partial bill.
func (s *SQLiteStore) CreateBill(ctx context.Context, bill *models.Bill, participants []*models.BillParticipant, payments []*models.Payment) error {
	if bill.ID == "" {
		bill.ID = uuid.New().String()
	}
	if bill.CreatedAt == 0 {
		bill.CreatedAt = time.Now().Unix()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var groupID any
	if bill.GroupID != "" {
		groupID = bill.GroupID
	}
	_, err = tx.ExecContext(ctx,
		"INSERT INTO bills (id, title, date, created_by, group_id, is_personal, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
		bill.ID, bill.Title, bill.Date, bill.CreatedBy, groupID, bill.IsPersonal, bill.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert bill: %w", err)
	}

	for i := range bill.Items {
		item := &bill.Items[i]
		if item.ID == "" {
			item.ID = uuid.New().String()
		}
		item.BillID = bill.ID

		_, err = tx.ExecContext(ctx,
			"INSERT INTO items (id, bill_id, name, price) VALUES (?, ?, ?, ?)",
			item.ID, bill.ID, item.Name, item.Price.String(),
		)
		if err != nil {
			return fmt.Errorf("failed to insert item: %w", err)
		}

		for j := range item.Shares {
			share := &item.Shares[j]
			if share.ID == "" {
				share.ID = uuid.New().String()
			}
			share.ItemID = item.ID

			if err := insertShare(ctx, tx, share); err != nil {
				return err
			}
		}
	}

	for _, participant := range participants {
		if participant.ID == "" {
			participant.ID = uuid.New().String()
		}
		participant.BillID = bill.ID

		_, err = tx.ExecContext(ctx,
			"INSERT INTO bill_participants (id, bill_id, person_id, owed_amount, version) VALUES (?, ?, ?, ?, 0)",
			participant.ID, bill.ID, participant.PersonID, participant.OwedAmount.String(),
		)
		if err != nil {
			return fmt.Errorf("failed to insert participant: %w", err)
		}
	}

	for _, payment := range payments {
		if payment.ID == "" {
			payment.ID = uuid.New().String()
		}
		payment.BillID = bill.ID
		if err := insertPayment(ctx, tx, payment); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func insertShare(ctx context.Context, q dbtx, share *models.ItemShare) error {
	var percentage, exactAmount any
	if share.Percentage != nil {
		percentage = share.Percentage.String()
	}
	if share.ExactAmount != nil {
		exactAmount = share.ExactAmount.String()
	}
	var units any
	if share.ShareUnits != nil {
		units = *share.ShareUnits
	}

	_, err := q.ExecContext(ctx,
		"INSERT INTO item_shares (id, item_id, person_id, split_type, percentage, exact_amount, share_units) VALUES (?, ?, ?, ?, ?, ?, ?)",
		share.ID, share.ItemID, share.PersonID, string(share.SplitType), percentage, exactAmount, units,
	)
	if err != nil {
		return fmt.Errorf("failed to insert item share: %w", err)
	}
	return nil
}

// GetBill retrieves a bill by ID, including items and their shares.
func (s *SQLiteStore) GetBill(ctx context.Context, billID string) (*models.Bill, error) {
	bill, err := scanBill(s.db.QueryRowContext(ctx,
		"SELECT id, title, date, created_by, group_id, is_personal, created_at FROM bills WHERE id = ?",
		billID,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("bill %s: %w", billID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get bill: %w", err)
	}

	items, err := loadItems(ctx, s.db, billID)
	if err != nil {
		return nil, err
	}
	bill.Items = items
	return bill, nil
}

// ListBills retrieves all bills without items, newest first.
func (s *SQLiteStore) ListBills(ctx context.Context) ([]*models.Bill, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, title, date, created_by, group_id, is_personal, created_at FROM bills ORDER BY date DESC, created_at DESC",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list bills: %w", err)
	}
	defer rows.Close()

	var bills []*models.Bill
	for rows.Next() {
		bill, err := scanBill(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bill: %w", err)
		}
		bills = append(bills, bill)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate bills: %w", err)
	}
	return bills, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBill(row rowScanner) (*models.Bill, error) {
	bill := &models.Bill{}
	var groupID sql.NullString
	if err := row.Scan(&bill.ID, &bill.Title, &bill.Date, &bill.CreatedBy, &groupID, &bill.IsPersonal, &bill.CreatedAt); err != nil {
		return nil, err
	}
	if groupID.Valid {
		bill.GroupID = groupID.String
	}
	return bill, nil
}

// loadItems fetches a bill's items with their shares. It runs against either
// the pool or a transaction so owed recomputation can read a consistent
// snapshot.
func loadItems(ctx context.Context, q dbtx, billID string) ([]models.Item, error) {
	rows, err := q.QueryContext(ctx,
		"SELECT id, bill_id, name, price FROM items WHERE bill_id = ? ORDER BY rowid",
		billID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get items: %w", err)
	}
	defer rows.Close()

	var items []models.Item
	for rows.Next() {
		var item models.Item
		var price string
		if err := rows.Scan(&item.ID, &item.BillID, &item.Name, &price); err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		if item.Price, err = scanDecimal(price); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate items: %w", err)
	}

	for i := range items {
		shares, err := loadShares(ctx, q, items[i].ID)
		if err != nil {
			return nil, err
		}
		items[i].Shares = shares
	}
	return items, nil
}

func loadShares(ctx context.Context, q dbtx, itemID string) ([]models.ItemShare, error) {
	rows, err := q.QueryContext(ctx,
		"SELECT id, item_id, person_id, split_type, percentage, exact_amount, share_units FROM item_shares WHERE item_id = ? ORDER BY rowid",
		itemID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get item shares: %w", err)
	}
	defer rows.Close()

	var shares []models.ItemShare
	for rows.Next() {
		var share models.ItemShare
		var splitType string
		var percentage, exactAmount sql.NullString
		var units sql.NullInt64
		if err := rows.Scan(&share.ID, &share.ItemID, &share.PersonID, &splitType, &percentage, &exactAmount, &units); err != nil {
			return nil, fmt.Errorf("failed to scan item share: %w", err)
		}
		share.SplitType = models.SplitType(splitType)
		if percentage.Valid {
			d, err := scanDecimal(percentage.String)
			if err != nil {
				return nil, err
			}
			share.Percentage = &d
		}
		if exactAmount.Valid {
			d, err := scanDecimal(exactAmount.String)
			if err != nil {
				return nil, err
			}
			share.ExactAmount = &d
		}
		if units.Valid {
			u := units.Int64
			share.ShareUnits = &u
		}
		shares = append(shares, share)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate item shares: %w", err)
	}
	return shares, nil
}

// billExists reports whether a bill row is present, for cheap referential
// checks inside payment transactions.
func billExists(ctx context.Context, q dbtx, billID string) (bool, error) {
	var one int
	err := q.QueryRowContext(ctx, "SELECT 1 FROM bills WHERE id = ?", billID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check bill existence: %w", err)
	}
	return true, nil
}
