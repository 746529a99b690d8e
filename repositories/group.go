//go:generate go run go.uber.org/mock/mockgen -source=group.go -destination=../mocks/mock_group_repository.go -package=mocks
package repositories

import (
	"chat-seeder/domain"
	seederrors "chat-seeder/errors"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/samber/lo"
)

type IGroupRepository interface {
	CreateGroup(title, ownerID string) (domain.Group, error)
	GroupExists(id string) (bool, error)
	GetGroup(id string) (domain.Group, error)
	AddMembership(groupID, userID string, isAdmin bool) (domain.Group, error)
	GroupsContainingUser(userID string) ([]domain.Group, error)
	AllGroups() ([]domain.Group, error)
}

type GroupRepository struct {
	db    *badger.DB
	log   *slog.Logger
	users IUserRepository
}

func NewGroupRepository(db *badger.DB, log *slog.Logger, users IUserRepository) *GroupRepository {
	return &GroupRepository{db: db, log: log, users: users}
}

func (g GroupRepository) CreateGroup(title, ownerID string) (domain.Group, error) {
	exists, err := g.users.UserExists(ownerID)
	if err != nil {
		return domain.Group{}, err
	}
	if !exists {
		return domain.Group{}, fmt.Errorf("user %s doesn't exist: %w", ownerID, seederrors.ErrNotFound)
	}

	group := domain.Group{
		ID:        uuid.New().String(),
		OwnerID:   ownerID,
		Title:     title,
		CreatedAt: time.Now().UTC(),
	}
	if err := g.put(group); err != nil {
		return domain.Group{}, err
	}
	return group, nil
}

func (g GroupRepository) GroupExists(id string) (bool, error) {
	err := g.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get([]byte("group:" + id))
		return err
	})
	switch err {
	case nil:
		return true, nil
	case badger.ErrKeyNotFound:
		return false, nil
	default:
		return false, err
	}
}

func (g GroupRepository) GetGroup(id string) (domain.Group, error) {
	var group domain.Group
	err := g.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte("group:" + id))
		if err == badger.ErrKeyNotFound {
			return fmt.Errorf("group %s doesn't exist: %w", id, seederrors.ErrNotFound)
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &group)
		})
	})
	return group, err
}

// AddMembership appends a membership record to the group. Re-adding the owner
// or an existing member is a no-op, not an error: the group is returned
// unchanged so callers re-check the member count against the store.
func (g GroupRepository) AddMembership(groupID, userID string, isAdmin bool) (domain.Group, error) {
	exists, err := g.users.UserExists(userID)
	if err != nil {
		return domain.Group{}, err
	}
	if !exists {
		return domain.Group{}, fmt.Errorf("user %s doesn't exist: %w", userID, seederrors.ErrNotFound)
	}

	group, err := g.GetGroup(groupID)
	if err != nil {
		return domain.Group{}, err
	}
	if group.HasMember(userID) {
		g.log.Debug("User is already part of the group", "user", userID, "group", group.Title)
		return group, nil
	}

	group.Members = append(group.Members, domain.Membership{
		UserID:    userID,
		InvitedAt: time.Now().UTC(),
		IsAdmin:   isAdmin,
	})
	if err := g.put(group); err != nil {
		return domain.Group{}, err
	}
	return group, nil
}

// GroupsContainingUser returns every group where the user is owner or member.
func (g GroupRepository) GroupsContainingUser(userID string) ([]domain.Group, error) {
	groups, err := g.AllGroups()
	if err != nil {
		return nil, err
	}
	return lo.Filter(groups, func(group domain.Group, _ int) bool {
		return group.HasMember(userID)
	}), nil
}

func (g GroupRepository) AllGroups() ([]domain.Group, error) {
	var groups []domain.Group
	err := g.db.View(func(txn *badger.Txn) error {
		return scanPrefix(txn, "group:", func(val []byte) error {
			var group domain.Group
			if err := json.Unmarshal(val, &group); err != nil {
				return err
			}
			groups = append(groups, group)
			return nil
		})
	})
	return groups, err
}

func (g GroupRepository) put(group domain.Group) error {
	data, err := json.Marshal(group)
	if err != nil {
		return fmt.Errorf("marshal failed: %w", err)
	}
	return g.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte("group:"+group.ID), data)
	})
}
