package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/billsplit/billsplit/internal/models"
	"github.com/billsplit/billsplit/internal/storage"
)

// GroupService manages persons and the groups that organize them.
type GroupService struct {
	store storage.Store
}

// NewGroupService creates a GroupService.
func NewGroupService(store storage.Store) *GroupService {
	return &GroupService{store: store}
}

// CreatePerson creates a person. Name is required; email and phone are
// optional.
func (s *GroupService) CreatePerson(ctx context.Context, name, email, phone string) (*models.Person, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, newValidationError("name", "person name is required")
	}

	person := &models.Person{
		Name:  name,
		Email: email,
		Phone: phone,
	}
	if err := s.store.CreatePerson(ctx, person); err != nil {
		return nil, err
	}
	slog.Info("Person created", "person_id", person.ID, "name", person.Name)
	return person, nil
}

// GetPerson retrieves a person by ID.
func (s *GroupService) GetPerson(ctx context.Context, personID string) (*models.Person, error) {
	return s.store.GetPerson(ctx, personID)
}

// ListPersons retrieves all persons ordered by name.
func (s *GroupService) ListPersons(ctx context.Context) ([]*models.Person, error) {
	return s.store.ListPersons(ctx)
}

// CreateGroup creates a group with an initial member list. The creator is
// always a member, even when omitted from memberIDs.
func (s *GroupService) CreateGroup(ctx context.Context, name, description, createdBy string, memberIDs []string) (*models.Group, error) {
	errs := fieldErrors{}
	if strings.TrimSpace(name) == "" {
		errs.addf("name", "group name is required")
	}
	if createdBy == "" {
		errs.addf("created_by", "creator is required")
	}
	if err := errs.err(); err != nil {
		return nil, err
	}
	if _, err := s.store.GetPerson(ctx, createdBy); err != nil {
		return nil, err
	}

	members := make([]string, 0, len(memberIDs)+1)
	seen := map[string]bool{}
	for _, id := range append([]string{createdBy}, memberIDs...) {
		if seen[id] {
			continue
		}
		seen[id] = true
		if id != createdBy {
			if _, err := s.store.GetPerson(ctx, id); err != nil {
				return nil, err
			}
		}
		members = append(members, id)
	}

	group := &models.Group{
		Name:        strings.TrimSpace(name),
		Description: description,
		CreatedBy:   createdBy,
		MemberIDs:   members,
	}
	if err := s.store.CreateGroup(ctx, group); err != nil {
		return nil, err
	}
	slog.Info("Group created", "group_id", group.ID, "name", group.Name, "members", len(group.MemberIDs))
	return group, nil
}

// GetGroup retrieves a group by ID.
func (s *GroupService) GetGroup(ctx context.Context, groupID string) (*models.Group, error) {
	return s.store.GetGroup(ctx, groupID)
}

// ListGroups retrieves groups, optionally filtered to those created by one
// person.
func (s *GroupService) ListGroups(ctx context.Context, createdBy string) ([]*models.Group, error) {
	return s.store.ListGroups(ctx, createdBy)
}

// AddMembers adds persons to an existing group, skipping ones already in
// it.
func (s *GroupService) AddMembers(ctx context.Context, groupID string, personIDs []string) (*models.Group, error) {
	if _, err := s.store.GetGroup(ctx, groupID); err != nil {
		return nil, err
	}
	for _, id := range personIDs {
		if _, err := s.store.GetPerson(ctx, id); err != nil {
			return nil, err
		}
	}
	if err := s.store.AddGroupMembers(ctx, groupID, personIDs); err != nil {
		return nil, err
	}
	return s.store.GetGroup(ctx, groupID)
}
