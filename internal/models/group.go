package models

// Group represents a reusable participant list.
// Groups can own bills, enabling group bill history.
type Group struct {
	// ID is the unique identifier for the group (UUID format).
	ID string `json:"id"`

	// Name is the display name of the group (e.g., "Roommates", "Work Lunch").
	Name string `json:"name"`

	// Description is an optional free-form description.
	Description string `json:"description,omitempty"`

	// CreatedBy is the ID of the person who created the group.
	CreatedBy string `json:"created_by"`

	// MemberIDs is the list of person IDs in this group.
	MemberIDs []string `json:"member_ids"`

	// CreatedAt is the Unix timestamp when the group was created.
	CreatedAt int64 `json:"created_at"`
}
