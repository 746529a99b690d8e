package seeder

import (
	seederrors "chat-seeder/errors"
	"chat-seeder/repositories"
	"log/slog"
	"testing"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	users         *repositories.UserRepository
	groups        *repositories.GroupRepository
	conversations *repositories.ConversationRepository
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	users := repositories.NewUserRepository(db, slog.Default())
	groups := repositories.NewGroupRepository(db, slog.Default(), users)
	conversations := repositories.NewConversationRepository(db, slog.Default(), users, groups)
	return fixture{users: users, groups: groups, conversations: conversations}
}

func Test_Engine_Run_Satisfies_All_Invariants(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)

	cfg := Config{
		UsersNumber:             8,
		GroupsNumber:            2,
		MessagesNumber:          2,
		MinGroupSize:            3,
		MinConversationsPerUser: 2,
		MaxAttempts:             100_000,
	}
	engine := NewEngine(slog.Default(), cfg, f.users, f.groups, f.conversations)
	summary, err := engine.Run()
	req.NoError(err)
	req.Positive(summary.Users)
	req.Equal(2, summary.Groups)

	users, err := f.users.AllUsers()
	req.NoError(err)
	req.NotEmpty(users)

	groups, err := f.groups.AllGroups()
	req.NoError(err)
	req.Len(groups, 2)

	// Group size, no owner in members, no duplicated membership.
	for _, group := range groups {
		req.GreaterOrEqual(len(group.Members), 3)
		seen := make(map[string]bool)
		for _, m := range group.Members {
			req.NotEqual(group.OwnerID, m.UserID)
			req.False(seen[m.UserID], "user %s appears twice in group %s", m.UserID, group.ID)
			seen[m.UserID] = true
		}
	}

	// Every user belongs to at least one group and enough conversations.
	for _, user := range users {
		containing, err := f.groups.GroupsContainingUser(user.ID)
		req.NoError(err)
		req.NotEmpty(containing, "user %s has no group", user.ID)

		conversations, err := f.conversations.ConversationsForUser(user.ID)
		req.NoError(err)
		req.GreaterOrEqual(len(conversations), 2, "user %s lacks conversations", user.ID)
	}

	// Message saturation and canonical key uniqueness.
	conversations, err := f.conversations.AllConversations()
	req.NoError(err)
	req.NotEmpty(conversations)
	keys := make(map[string]bool)
	for _, conversation := range conversations {
		req.GreaterOrEqual(len(conversation.Messages), 2)
		req.False(keys[conversation.Key], "duplicate canonical key %s", conversation.Key)
		keys[conversation.Key] = true
	}
}

func Test_Config_Normalized_Raises_Small_UsersNumber(t *testing.T) {
	req := require.New(t)

	cfg := Config{UsersNumber: 5, GroupsNumber: 1, MessagesNumber: 1, MinGroupSize: 10}.
		Normalized(slog.Default())
	req.Equal(20, cfg.UsersNumber)
	req.Equal(3, cfg.MinConversationsPerUser)
}

func Test_Config_Normalized_Applies_Defaults(t *testing.T) {
	req := require.New(t)

	cfg := Config{}.Normalized(slog.Default())
	req.Equal(DefaultUsersNumber, cfg.UsersNumber)
	req.Equal(DefaultGroupsNumber, cfg.GroupsNumber)
	req.Equal(DefaultMessagesNumber, cfg.MessagesNumber)
	req.Equal(DefaultMinGroupSize, cfg.MinGroupSize)
	req.Zero(cfg.MaxAttempts)
}

func Test_Engine_Stalls_With_Attempt_Ceiling(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)

	// One attempt per loop cannot fill a three-member group.
	cfg := Config{
		UsersNumber:             8,
		GroupsNumber:            1,
		MessagesNumber:          1,
		MinGroupSize:            3,
		MinConversationsPerUser: 1,
		MaxAttempts:             1,
	}
	engine := NewEngine(slog.Default(), cfg, f.users, f.groups, f.conversations)
	_, err := engine.Run()
	req.ErrorIs(err, seederrors.ErrPhaseStalled)
}
