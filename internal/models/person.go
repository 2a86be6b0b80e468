package models

// UnassignedPersonID is the fixed identity that absorbs unattributed
// remainder amounts on personal-expense bills. The row is seeded by the
// storage migrations so the ID is always resolvable; it is never created
// on demand or discovered by name.
const UnassignedPersonID = "00000000-0000-0000-0000-000000000001"

// Person represents an identity that can participate in bills and payments.
type Person struct {
	// ID is the unique identifier for the person (UUID format).
	ID string `json:"id"`

	// Name is the display name of the person.
	Name string `json:"name"`

	// Email is the person's email address (optional).
	Email string `json:"email,omitempty"`

	// Phone is the person's phone number (optional).
	Phone string `json:"phone,omitempty"`

	// CreatedAt is the Unix timestamp when the person was created.
	CreatedAt int64 `json:"created_at"`
}

// IsUnassigned reports whether this person is the reserved
// unassigned-remainder identity.
func (p *Person) IsUnassigned() bool {
	return p.ID == UnassignedPersonID
}
