package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_CanonicalKey_Direct_Preserves_Member_Order(t *testing.T) {
	req := require.New(t)

	key, err := CanonicalKey(ConversationUser, []string{"u1", "u2"})
	req.NoError(err)
	req.Equal("u1_u2", key)

	reversed, err := CanonicalKey(ConversationUser, []string{"u2", "u1"})
	req.NoError(err)
	req.Equal("u2_u1", reversed)
	req.NotEqual(key, reversed)
}

func Test_CanonicalKey_Group_Uses_Group_ID(t *testing.T) {
	req := require.New(t)
	key, err := CanonicalKey(ConversationGroup, []string{"group-42"})
	req.NoError(err)
	req.Equal("group-42", key)
}

func Test_CanonicalKey_Rejects_Empty_Members(t *testing.T) {
	req := require.New(t)
	_, err := CanonicalKey(ConversationUser, nil)
	req.Error(err)
}

func Test_Group_HasMember(t *testing.T) {
	req := require.New(t)
	group := Group{
		ID:      "g1",
		OwnerID: "owner",
		Members: []Membership{{UserID: "member"}},
	}
	req.True(group.HasMember("owner"))
	req.True(group.HasMember("member"))
	req.False(group.HasMember("stranger"))
}
