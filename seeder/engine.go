package seeder

import (
	"chat-seeder/domain"
	seederrors "chat-seeder/errors"
	"chat-seeder/generators"
	"chat-seeder/repositories"
	"errors"
	"fmt"
	"log/slog"
)

const (
	DefaultUsersNumber    = 20
	DefaultGroupsNumber   = 10
	DefaultMessagesNumber = 70

	DefaultMinGroupSize            = 10
	DefaultMinConversationsPerUser = 3
)

// Phase names, used for logs and the skipped-attempt summary.
const (
	PhaseUsers                = "users"
	PhaseGroups               = "groups"
	PhaseGroupSize            = "group-size"
	PhaseGroupCoverage        = "group-coverage"
	PhaseConversationCoverage = "conversation-coverage"
	PhaseMessages             = "messages"
)

type Config struct {
	UsersNumber    int
	GroupsNumber   int
	MessagesNumber int

	MinGroupSize            int
	MinConversationsPerUser int

	// MaxAttempts bounds every convergence loop; 0 means unbounded.
	// When exceeded the engine fails with ErrPhaseStalled instead of
	// sampling forever against a pool that cannot satisfy the invariant.
	MaxAttempts int
}

// Normalized applies defaults and raises UsersNumber to twice the minimum
// group size when the supplied value is too small to ever fill a group.
// The adjustment is reported, not treated as an error.
func (c Config) Normalized(log *slog.Logger) Config {
	if c.UsersNumber <= 0 {
		c.UsersNumber = DefaultUsersNumber
	}
	if c.GroupsNumber <= 0 {
		c.GroupsNumber = DefaultGroupsNumber
	}
	if c.MessagesNumber <= 0 {
		c.MessagesNumber = DefaultMessagesNumber
	}
	if c.MinGroupSize <= 0 {
		c.MinGroupSize = DefaultMinGroupSize
	}
	if c.MinConversationsPerUser <= 0 {
		c.MinConversationsPerUser = DefaultMinConversationsPerUser
	}
	if c.UsersNumber < 2*c.MinGroupSize {
		adjusted := 2 * c.MinGroupSize
		log.Error(fmt.Sprintf(
			"Too few users to fill groups of %d, raising users number from %d to %d",
			c.MinGroupSize, c.UsersNumber, adjusted,
		))
		c.UsersNumber = adjusted
	}
	return c
}

// Summary reports what a run actually produced, including attempts that were
// skipped rather than retried.
type Summary struct {
	Users         int
	Groups        int
	Conversations int
	Skipped       map[string]int
}

// Engine populates the store phase by phase until every connectivity
// invariant holds. Each phase is a convergence loop: sample from the local
// caches, mutate through the repositories, and re-check the predicate against
// the live store.
type Engine struct {
	log           *slog.Logger
	cfg           Config
	users         repositories.IUserRepository
	groups        repositories.IGroupRepository
	conversations repositories.IConversationRepository

	userCache         *Cache[domain.User]
	groupCache        *Cache[domain.Group]
	conversationCache *Cache[domain.Conversation]

	skipped map[string]int
}

func NewEngine(
	log *slog.Logger,
	cfg Config,
	users repositories.IUserRepository,
	groups repositories.IGroupRepository,
	conversations repositories.IConversationRepository,
) *Engine {
	return &Engine{
		log:               log,
		cfg:               cfg.Normalized(log),
		users:             users,
		groups:            groups,
		conversations:     conversations,
		userCache:         NewCache[domain.User](),
		groupCache:        NewCache[domain.Group](),
		conversationCache: NewCache[domain.Conversation](),
		skipped:           make(map[string]int),
	}
}

// Config returns the normalized configuration the engine runs with.
func (e *Engine) Config() Config {
	return e.cfg
}

// Run executes the six phases strictly in order. A later phase assumes all
// invariants of the earlier ones already hold.
func (e *Engine) Run() (Summary, error) {
	phases := []struct {
		name string
		fn   func() error
	}{
		{PhaseUsers, e.generateUsers},
		{PhaseGroups, e.generateGroups},
		{PhaseGroupSize, e.saturateGroups},
		{PhaseGroupCoverage, e.ensureGroupCoverage},
		{PhaseConversationCoverage, e.ensureConversationCoverage},
		{PhaseMessages, e.saturateMessages},
	}
	for _, phase := range phases {
		e.log.Info("Phase starting", "phase", phase.name)
		if err := phase.fn(); err != nil {
			return e.summary(), fmt.Errorf("phase %s: %w", phase.name, err)
		}
	}
	return e.summary(), nil
}

// generateUsers creates the requested number of users from random field sets.
// A colliding username is logged and skipped, never retried; the run proceeds
// with however many creations succeeded.
func (e *Engine) generateUsers() error {
	for i := 0; i < e.cfg.UsersNumber; i++ {
		user, err := e.users.CreateUser(generators.User())
		if err != nil {
			if !e.skippable(err) {
				return err
			}
			e.skip(PhaseUsers, err)
			continue
		}
		e.userCache.Put(user.ID, user)
	}
	if e.userCache.Len() == 0 {
		return fmt.Errorf("no user creation succeeded: %w", seederrors.ErrPhaseStalled)
	}
	return nil
}

// generateGroups creates groups, each owned by a uniformly random existing user.
func (e *Engine) generateGroups() error {
	for i := 0; i < e.cfg.GroupsNumber; i++ {
		ownerID, _ := e.userCache.RandomID()
		group, err := e.groups.CreateGroup(generators.GroupTitle(), ownerID)
		if err != nil {
			if !e.skippable(err) {
				return err
			}
			e.skip(PhaseGroups, err)
			continue
		}
		e.groupCache.Put(group.ID, group)
	}
	return nil
}

// saturateGroups keeps sampling random users into each group until the store
// reports the minimum member count. A no-op add (already owner or member)
// makes no progress and the loop retries with a fresh sample.
func (e *Engine) saturateGroups() error {
	for _, groupID := range e.groupCache.IDs() {
		err := e.converge(PhaseGroupSize,
			func() (bool, error) {
				group, err := e.groups.GetGroup(groupID)
				if err != nil {
					return false, err
				}
				return len(group.Members) >= e.cfg.MinGroupSize, nil
			},
			func() error {
				userID, ok := e.userCache.RandomID()
				if !ok {
					return fmt.Errorf("no users available: %w", seederrors.ErrPhaseStalled)
				}
				group, err := e.groups.AddMembership(groupID, userID, generators.Bool())
				if err != nil {
					return err
				}
				e.groupCache.Put(group.ID, group)
				return nil
			})
		if err != nil {
			return err
		}
	}
	return nil
}

// ensureGroupCoverage joins every user who belongs to no group into a random
// one. Users already covered by the saturation phase converge immediately.
func (e *Engine) ensureGroupCoverage() error {
	for _, userID := range e.userCache.IDs() {
		err := e.converge(PhaseGroupCoverage,
			func() (bool, error) {
				groups, err := e.groups.GroupsContainingUser(userID)
				if err != nil {
					return false, err
				}
				return len(groups) > 0, nil
			},
			func() error {
				groupID, ok := e.groupCache.RandomID()
				if !ok {
					return fmt.Errorf("no groups available: %w", seederrors.ErrPhaseStalled)
				}
				group, err := e.groups.AddMembership(groupID, userID, generators.Bool())
				if err != nil {
					return err
				}
				e.groupCache.Put(group.ID, group)
				return nil
			})
		if err != nil {
			return err
		}
	}
	return nil
}

// ensureConversationCoverage creates conversations until every user is party
// to the minimum number, choosing at random between a group conversation for
// one of the user's groups and a direct conversation with a random other
// user. A duplicate canonical key makes no progress and the loop re-iterates.
func (e *Engine) ensureConversationCoverage() error {
	for _, userID := range e.userCache.IDs() {
		err := e.converge(PhaseConversationCoverage,
			func() (bool, error) {
				conversations, err := e.conversations.ConversationsForUser(userID)
				if err != nil {
					return false, err
				}
				return len(conversations) >= e.cfg.MinConversationsPerUser, nil
			},
			func() error {
				kind, members, err := e.pickConversationTarget(userID)
				if err != nil {
					return err
				}
				conversation, created, err := e.conversations.CreateConversationIfAbsent(
					kind, members, generators.ConversationTitle(),
				)
				if err != nil {
					return err
				}
				if created {
					e.conversationCache.Put(conversation.Key, conversation)
				}
				return nil
			})
		if err != nil {
			return err
		}
	}
	return nil
}

// pickConversationTarget chooses the conversation kind and ordered member
// list for one coverage attempt. When the preferred branch has an empty pool
// (a single-user run, a user with no groups yet) it falls back to the other.
func (e *Engine) pickConversationTarget(userID string) (domain.ConversationType, []string, error) {
	wantGroup := generators.Bool()

	if !wantGroup {
		if otherID, ok := e.userCache.RandomIDExcept(userID); ok {
			return domain.ConversationUser, []string{userID, otherID}, nil
		}
		wantGroup = true
	}

	userGroups, err := e.groups.GroupsContainingUser(userID)
	if err != nil {
		return "", nil, err
	}
	if len(userGroups) == 0 {
		otherID, ok := e.userCache.RandomIDExcept(userID)
		if !ok {
			return "", nil, fmt.Errorf("user %s has no conversation partners: %w", userID, seederrors.ErrPhaseStalled)
		}
		return domain.ConversationUser, []string{userID, otherID}, nil
	}
	group := userGroups[generators.IntInRange(len(userGroups), 0)]
	return domain.ConversationGroup, []string{group.ID}, nil
}

// saturateMessages appends random messages until every conversation reaches
// the configured count, authored by uniformly random existing users.
func (e *Engine) saturateMessages() error {
	conversations, err := e.conversations.AllConversations()
	if err != nil {
		return err
	}
	for _, conversation := range conversations {
		key := conversation.Key
		err := e.converge(PhaseMessages,
			func() (bool, error) {
				current, found, err := e.conversations.FindConversation(key)
				if err != nil {
					return false, err
				}
				if !found {
					return false, fmt.Errorf("conversation %s disappeared: %w", key, seederrors.ErrNotFound)
				}
				return len(current.Messages) >= e.cfg.MessagesNumber, nil
			},
			func() error {
				authorID, ok := e.userCache.RandomID()
				if !ok {
					return fmt.Errorf("no users available: %w", seederrors.ErrPhaseStalled)
				}
				return e.conversations.AppendMessage(key, generators.MessageBody(), authorID)
			})
		if err != nil {
			return err
		}
	}
	return nil
}

// converge re-checks the predicate against the live store and keeps attempting
// until it holds. Validation and not-found failures of an attempt are logged
// and counted as skipped; anything else is a store fault and aborts the run.
func (e *Engine) converge(phase string, predicate func() (bool, error), attempt func() error) error {
	attempts := 0
	for {
		done, err := predicate()
		if err != nil {
			return err
		}
		if done {
			return nil
		}
		if e.cfg.MaxAttempts > 0 && attempts >= e.cfg.MaxAttempts {
			return fmt.Errorf("no convergence after %d attempts: %w", attempts, seederrors.ErrPhaseStalled)
		}
		attempts++
		if err := attempt(); err != nil {
			if !e.skippable(err) {
				return err
			}
			e.skip(phase, err)
		}
	}
}

func (e *Engine) skippable(err error) bool {
	return errors.Is(err, seederrors.ErrValidation) || errors.Is(err, seederrors.ErrNotFound)
}

func (e *Engine) skip(phase string, err error) {
	e.skipped[phase]++
	e.log.Warn("Attempt skipped", "phase", phase, "error", err.Error())
}

func (e *Engine) summary() Summary {
	return Summary{
		Users:         e.userCache.Len(),
		Groups:        e.groupCache.Len(),
		Conversations: e.conversationCache.Len(),
		Skipped:       e.skipped,
	}
}
