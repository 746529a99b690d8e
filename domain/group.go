package domain

import "time"

// Membership links a non-owner user to a group.
type Membership struct {
	UserID    string    `json:"user_id"`
	InvitedAt time.Time `json:"invited_at"`
	IsAdmin   bool      `json:"is_admin"`
}

// Group is owned by a single user. The owner is implicitly a member and
// must never appear in Members.
type Group struct {
	ID        string       `json:"id"`
	OwnerID   string       `json:"owner_id"`
	Title     string       `json:"title"`
	Members   []Membership `json:"members"`
	CreatedAt time.Time    `json:"created_at"`
}

// HasMember reports whether the user is the owner or a listed member.
func (g Group) HasMember(userID string) bool {
	if g.OwnerID == userID {
		return true
	}
	for _, m := range g.Members {
		if m.UserID == userID {
			return true
		}
	}
	return false
}
