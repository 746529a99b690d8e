// Package generators produces the random field values consumed by the
// population engine. All functions are pure draws from gofakeit; nothing here
// depends on prior state.
package generators

import (
	"fmt"
	"strings"

	"chat-seeder/domain"

	"github.com/brianvoe/gofakeit/v6"
)

// Seed initializes the underlying source. Pass 0 for a time-based seed.
func Seed(seed int64) {
	gofakeit.Seed(seed)
}

func User() domain.UserFields {
	name := gofakeit.FirstName()
	return domain.UserFields{
		Username:  gofakeit.Username(),
		Name:      name,
		Email:     fmt.Sprintf("%s@%s", strings.ToLower(name), gofakeit.DomainName()),
		AboutInfo: gofakeit.Sentence(6),
	}
}

func MessageBody() string {
	return gofakeit.Sentence(gofakeit.Number(4, 12))
}

func GroupTitle() string {
	return gofakeit.City()
}

func ConversationTitle() string {
	return strings.Join([]string{gofakeit.Word(), gofakeit.Word(), gofakeit.Word()}, " ")
}

// IntInRange draws uniformly from the half-open interval [min, max).
func IntInRange(max, min int) int {
	if max <= min {
		return min
	}
	return gofakeit.Number(min, max-1)
}

func Bool() bool {
	return gofakeit.Bool()
}
