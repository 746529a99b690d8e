//go:generate go run go.uber.org/mock/mockgen -source=conversation.go -destination=../mocks/mock_conversation_repository.go -package=mocks
package repositories

import (
	"chat-seeder/domain"
	seederrors "chat-seeder/errors"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/samber/lo"
)

type IConversationRepository interface {
	FindConversation(key string) (domain.Conversation, bool, error)
	CreateConversationIfAbsent(kind domain.ConversationType, members []string, title string) (domain.Conversation, bool, error)
	ConversationsForUser(userID string) ([]domain.Conversation, error)
	AppendMessage(key, content, authorID string) error
	AllConversations() ([]domain.Conversation, error)
}

type ConversationRepository struct {
	db     *badger.DB
	log    *slog.Logger
	users  IUserRepository
	groups IGroupRepository
}

func NewConversationRepository(db *badger.DB, log *slog.Logger, users IUserRepository, groups IGroupRepository) *ConversationRepository {
	return &ConversationRepository{db: db, log: log, users: users, groups: groups}
}

func (c ConversationRepository) FindConversation(key string) (domain.Conversation, bool, error) {
	var conversation domain.Conversation
	found := false
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte("conv:" + key))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		found = true
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &conversation)
		})
	})
	return conversation, found, err
}

// CreateConversationIfAbsent stores a conversation under its canonical key.
// The boolean reports whether a conversation was actually created; a key
// collision returns the existing conversation with created=false. Uniqueness
// is a lookup-before-insert inside a single transaction, not a store
// constraint.
func (c ConversationRepository) CreateConversationIfAbsent(kind domain.ConversationType, members []string, title string) (domain.Conversation, bool, error) {
	key, err := domain.CanonicalKey(kind, members)
	if err != nil {
		return domain.Conversation{}, false, fmt.Errorf("%v: %w", err, seederrors.ErrValidation)
	}

	conversation := domain.Conversation{
		Key:       key,
		Type:      kind,
		Title:     title,
		CreatedAt: time.Now().UTC(),
	}
	data, err := json.Marshal(conversation)
	if err != nil {
		return domain.Conversation{}, false, fmt.Errorf("marshal failed: %w", err)
	}

	created := false
	err = c.db.Update(func(txn *badger.Txn) error {
		dbKey := []byte("conv:" + key)
		if item, err := txn.Get(dbKey); err == nil {
			c.log.Debug("Conversation already exists", "key", key)
			return item.Value(func(val []byte) error {
				return json.Unmarshal(val, &conversation)
			})
		}
		created = true
		return txn.Set(dbKey, data)
	})
	if err != nil {
		return domain.Conversation{}, false, err
	}
	return conversation, created, nil
}

// ConversationsForUser returns every conversation whose canonical key
// references the user id directly, or references a group the user belongs to.
func (c ConversationRepository) ConversationsForUser(userID string) ([]domain.Conversation, error) {
	exists, err := c.users.UserExists(userID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("user %s doesn't exist: %w", userID, seederrors.ErrNotFound)
	}

	userGroups, err := c.groups.GroupsContainingUser(userID)
	if err != nil {
		return nil, err
	}
	references := []string{userID}
	for _, g := range userGroups {
		references = append(references, g.ID)
	}

	all, err := c.AllConversations()
	if err != nil {
		return nil, err
	}
	return lo.Filter(all, func(conversation domain.Conversation, _ int) bool {
		return lo.SomeBy(references, func(ref string) bool {
			return strings.Contains(conversation.Key, ref)
		})
	}), nil
}

// AppendMessage adds an immutable message to an existing conversation.
// Content is trimmed first; blank content is a validation error and leaves
// the conversation untouched.
func (c ConversationRepository) AppendMessage(key, content, authorID string) error {
	exists, err := c.users.UserExists(authorID)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("user %s doesn't exist: %w", authorID, seederrors.ErrNotFound)
	}

	content = strings.TrimSpace(content)
	if content == "" {
		return fmt.Errorf("message has no content: %w", seederrors.ErrValidation)
	}

	return c.db.Update(func(txn *badger.Txn) error {
		dbKey := []byte("conv:" + key)
		item, err := txn.Get(dbKey)
		if err == badger.ErrKeyNotFound {
			return fmt.Errorf("conversation %s doesn't exist: %w", key, seederrors.ErrNotFound)
		}
		if err != nil {
			return err
		}

		var conversation domain.Conversation
		if err := item.Value(func(val []byte) error {
			return json.Unmarshal(val, &conversation)
		}); err != nil {
			return err
		}

		conversation.Messages = append(conversation.Messages, domain.Message{
			AuthorID:  authorID,
			Content:   content,
			CreatedAt: time.Now().UTC(),
		})
		data, err := json.Marshal(conversation)
		if err != nil {
			return fmt.Errorf("marshal failed: %w", err)
		}
		return txn.Set(dbKey, data)
	})
}

func (c ConversationRepository) AllConversations() ([]domain.Conversation, error) {
	var conversations []domain.Conversation
	err := c.db.View(func(txn *badger.Txn) error {
		return scanPrefix(txn, "conv:", func(val []byte) error {
			var conversation domain.Conversation
			if err := json.Unmarshal(val, &conversation); err != nil {
				return err
			}
			conversations = append(conversations, conversation)
			return nil
		})
	})
	return conversations, err
}
