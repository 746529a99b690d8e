//go:generate go run go.uber.org/mock/mockgen -source=user.go -destination=../mocks/mock_user_repository.go -package=mocks
package repositories

import (
	"chat-seeder/domain"
	seederrors "chat-seeder/errors"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type IUserRepository interface {
	CreateUser(fields domain.UserFields) (domain.User, error)
	UserExists(id string) (bool, error)
	GetUser(id string) (domain.User, error)
	AllUsers() ([]domain.User, error)
}

type UserRepository struct {
	db       *badger.DB
	log      *slog.Logger
	validate *validator.Validate
}

func NewUserRepository(db *badger.DB, log *slog.Logger) *UserRepository {
	v := validator.New()
	// Username charset mirrors the store schema: latin letters, digits, dot, underscore.
	_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return domain.UsernameRegexp.MatchString(fl.Field().String())
	})
	return &UserRepository{db: db, log: log, validate: v}
}

// CreateUser persists a new user under "user:{uuid}". Username uniqueness is
// enforced with a secondary "uname:{username}" key probed in the same
// transaction.
func (u UserRepository) CreateUser(fields domain.UserFields) (domain.User, error) {
	if err := u.validate.Struct(fields); err != nil {
		return domain.User{}, fmt.Errorf("user fields rejected: %v: %w", err, seederrors.ErrValidation)
	}

	user := domain.User{
		ID:        uuid.New().String(),
		Username:  fields.Username,
		Name:      fields.Name,
		Email:     fields.Email,
		AboutInfo: fields.AboutInfo,
		CreatedAt: time.Now().UTC(),
	}
	data, err := json.Marshal(user)
	if err != nil {
		return domain.User{}, fmt.Errorf("marshal failed: %w", err)
	}

	err = u.db.Update(func(txn *badger.Txn) error {
		unameKey := []byte("uname:" + user.Username)
		if _, err := txn.Get(unameKey); err == nil {
			return fmt.Errorf("username %q already taken: %w", user.Username, seederrors.ErrValidation)
		}
		if err := txn.Set(unameKey, []byte(user.ID)); err != nil {
			return err
		}
		return txn.Set([]byte("user:"+user.ID), data)
	})
	if err != nil {
		return domain.User{}, err
	}
	u.log.Debug("User created", "id", user.ID, "username", user.Username)
	return user, nil
}

func (u UserRepository) UserExists(id string) (bool, error) {
	err := u.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get([]byte("user:" + id))
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

func (u UserRepository) GetUser(id string) (domain.User, error) {
	var user domain.User
	err := u.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte("user:" + id))
		if err == badger.ErrKeyNotFound {
			return fmt.Errorf("user %s doesn't exist: %w", id, seederrors.ErrNotFound)
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &user)
		})
	})
	return user, err
}

func (u UserRepository) AllUsers() ([]domain.User, error) {
	var users []domain.User
	err := u.db.View(func(txn *badger.Txn) error {
		return scanPrefix(txn, "user:", func(val []byte) error {
			var user domain.User
			if err := json.Unmarshal(val, &user); err != nil {
				return err
			}
			users = append(users, user)
			return nil
		})
	})
	return users, err
}
