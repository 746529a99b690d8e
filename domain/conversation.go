package domain

import (
	"fmt"
	"strings"
	"time"
)

// ConversationType discriminates direct and group conversations.
type ConversationType string

const (
	ConversationUser  ConversationType = "user"
	ConversationGroup ConversationType = "group"
)

// Message is an immutable entry embedded in exactly one conversation.
type Message struct {
	AuthorID  string    `json:"author_id"`
	Content   string    `json:"message_content"`
	CreatedAt time.Time `json:"created_at"`
}

// Conversation is keyed by a canonical key instead of a store-assigned id:
// the two user ids joined in the order supplied for a direct conversation,
// the group id for a group conversation.
type Conversation struct {
	Key       string           `json:"conversation_id"`
	Type      ConversationType `json:"type"`
	Title     string           `json:"title"`
	Messages  []Message        `json:"messages"`
	CreatedAt time.Time        `json:"created_at"`
}

// CanonicalKey derives the lookup key from the conversation type and its
// ordered member ids. The member order is preserved: ["u1","u2"] and
// ["u2","u1"] yield distinct keys.
func CanonicalKey(kind ConversationType, members []string) (string, error) {
	if len(members) == 0 {
		return "", fmt.Errorf("members should be a non-empty sequence")
	}
	if kind == ConversationUser {
		return strings.Join(members, "_"), nil
	}
	return members[0], nil
}
