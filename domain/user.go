// Package domain contains core concepts of the seeded social graph.
// This file defines User entities and the username rules.
// No storage, randomness, or CLI logic should be added here.
package domain

import (
	"regexp"
	"time"
)

// UsernameRegexp restricts usernames to latin letters, digits, dots and underscores.
var UsernameRegexp = regexp.MustCompile(`^[a-zA-Z0-9_.]+$`)

// User is immutable once created; the ID is assigned by the store.
type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	AboutInfo string    `json:"about_info"`
	CreatedAt time.Time `json:"created_at"`
}

// UserFields is the payload for a user creation, produced by the generators.
type UserFields struct {
	Username  string `validate:"required,username"`
	Name      string
	Email     string
	AboutInfo string
}
