package repositories

import (
	seederrors "chat-seeder/errors"
	"log/slog"
	"testing"

	"chat-seeder/domain"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *badger.DB {
	t.Helper()
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func Test_CreateUser_Assigns_ID_And_Persists(t *testing.T) {
	req := require.New(t)
	repository := NewUserRepository(openTestDB(t), slog.Default())

	user, err := repository.CreateUser(domain.UserFields{
		Username:  "alice_01",
		Name:      "Alice",
		Email:     "alice@example.com",
		AboutInfo: "likes graphs",
	})
	req.NoError(err)
	req.NotEmpty(user.ID)
	req.False(user.CreatedAt.IsZero())

	exists, err := repository.UserExists(user.ID)
	req.NoError(err)
	req.True(exists)

	fetched, err := repository.GetUser(user.ID)
	req.NoError(err)
	req.Equal(user.Username, fetched.Username)
}

func Test_CreateUser_Rejects_Duplicate_Username(t *testing.T) {
	req := require.New(t)
	repository := NewUserRepository(openTestDB(t), slog.Default())

	fields := domain.UserFields{Username: "bob.smith", Name: "Bob", Email: "bob@example.com"}
	_, err := repository.CreateUser(fields)
	req.NoError(err)

	_, err = repository.CreateUser(fields)
	req.ErrorIs(err, seederrors.ErrValidation)

	users, err := repository.AllUsers()
	req.NoError(err)
	req.Len(users, 1)
}

func Test_CreateUser_Rejects_Malformed_Username(t *testing.T) {
	repository := NewUserRepository(openTestDB(t), slog.Default())

	tests := []struct {
		description string
		username    string
		wantErr     bool
	}{
		{"Should accept letters, digits, dot, underscore", "User_2.b", false},
		{"Should reject spaces", "bad name", true},
		{"Should reject punctuation", "bad!name", true},
		{"Should reject empty username", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.description, func(t *testing.T) {
			_, err := repository.CreateUser(domain.UserFields{Username: tt.username})
			if tt.wantErr {
				require.ErrorIs(t, err, seederrors.ErrValidation)
				return
			}
			require.NoError(t, err)
		})
	}
}

func Test_GetUser_Unknown_Is_NotFound(t *testing.T) {
	req := require.New(t)
	repository := NewUserRepository(openTestDB(t), slog.Default())

	_, err := repository.GetUser("missing")
	req.ErrorIs(err, seederrors.ErrNotFound)

	exists, err := repository.UserExists("missing")
	req.NoError(err)
	req.False(exists)
}
