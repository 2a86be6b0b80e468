package sqlite

import (
	"database/sql"

	"github.com/billsplit/billsplit/internal/models"
)

// schema contains the SQL statements to set up the database.
// These run on startup to ensure tables exist.
// Money columns are TEXT holding decimal strings, never REAL.
const schema = `
CREATE TABLE IF NOT EXISTS persons (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    email TEXT NOT NULL DEFAULT '',
    phone TEXT NOT NULL DEFAULT '',
    created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS groups (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    created_by TEXT NOT NULL,
    created_at INTEGER NOT NULL,
    FOREIGN KEY (created_by) REFERENCES persons(id)
);

CREATE TABLE IF NOT EXISTS group_members (
    group_id TEXT NOT NULL,
    person_id TEXT NOT NULL,
    PRIMARY KEY (group_id, person_id),
    FOREIGN KEY (group_id) REFERENCES groups(id) ON DELETE CASCADE,
    FOREIGN KEY (person_id) REFERENCES persons(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS bills (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    date TEXT NOT NULL,
    created_by TEXT NOT NULL,
    group_id TEXT,
    is_personal INTEGER NOT NULL DEFAULT 0,
    created_at INTEGER NOT NULL,
    FOREIGN KEY (created_by) REFERENCES persons(id),
    FOREIGN KEY (group_id) REFERENCES groups(id) ON DELETE SET NULL
);

CREATE TABLE IF NOT EXISTS items (
    id TEXT PRIMARY KEY,
    bill_id TEXT NOT NULL,
    name TEXT NOT NULL,
    price TEXT NOT NULL,
    FOREIGN KEY (bill_id) REFERENCES bills(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS item_shares (
    id TEXT PRIMARY KEY,
    item_id TEXT NOT NULL,
    person_id TEXT NOT NULL,
    split_type TEXT NOT NULL,
    percentage TEXT,
    exact_amount TEXT,
    share_units INTEGER,
    UNIQUE (item_id, person_id),
    FOREIGN KEY (item_id) REFERENCES items(id) ON DELETE CASCADE,
    FOREIGN KEY (person_id) REFERENCES persons(id)
);

CREATE TABLE IF NOT EXISTS bill_participants (
    id TEXT PRIMARY KEY,
    bill_id TEXT NOT NULL,
    person_id TEXT NOT NULL,
    owed_amount TEXT NOT NULL DEFAULT '0',
    version INTEGER NOT NULL DEFAULT 0,
    UNIQUE (bill_id, person_id),
    FOREIGN KEY (bill_id) REFERENCES bills(id) ON DELETE CASCADE,
    FOREIGN KEY (person_id) REFERENCES persons(id)
);

CREATE TABLE IF NOT EXISTS payments (
    id TEXT PRIMARY KEY,
    payment_type TEXT NOT NULL,
    person_id TEXT NOT NULL,
    other_person_id TEXT,
    bill_id TEXT,
    amount TEXT NOT NULL,
    date TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    paired_payment_id TEXT,
    created_at INTEGER NOT NULL,
    FOREIGN KEY (person_id) REFERENCES persons(id),
    FOREIGN KEY (other_person_id) REFERENCES persons(id),
    FOREIGN KEY (bill_id) REFERENCES bills(id)
);

CREATE INDEX IF NOT EXISTS idx_items_bill_id ON items(bill_id);
CREATE INDEX IF NOT EXISTS idx_item_shares_item_id ON item_shares(item_id);
CREATE INDEX IF NOT EXISTS idx_item_shares_person_id ON item_shares(person_id);
CREATE INDEX IF NOT EXISTS idx_bill_participants_bill_id ON bill_participants(bill_id);
CREATE INDEX IF NOT EXISTS idx_bill_participants_person_id ON bill_participants(person_id);
CREATE INDEX IF NOT EXISTS idx_payments_type_person_bill ON payments(payment_type, person_id, bill_id);
CREATE INDEX IF NOT EXISTS idx_payments_type_person_other ON payments(payment_type, person_id, other_person_id);
CREATE INDEX IF NOT EXISTS idx_bills_group_id ON bills(group_id);
CREATE INDEX IF NOT EXISTS idx_group_members_group_id ON group_members(group_id);
`

// runMigrations executes the schema setup and seeds the reserved
// unassigned-remainder person so personal-expense bills can always
// reference it.
func runMigrations(db *sql.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return err
	}
	_, err := db.Exec(
		`INSERT OR IGNORE INTO persons (id, name, email, phone, created_at) VALUES (?, 'Unassigned', '', '', 0)`,
		models.UnassignedPersonID,
	)
	return err
}
