package chat

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewDirectChat_Requester_Is_Sole_Admin(t *testing.T) {
	req := require.New(t)
	now := time.Now()

	c := NewDirectChat("alice", "bob", now)

	req.Equal(ChatTypeDirect, c.Type)
	req.ElementsMatch([]string{"alice", "bob"}, c.MemberIDs)
	req.Equal([]string{"alice"}, c.AdminIDs)
	req.Equal("alice", c.CreatedBy)
}

func TestNewGroupChat_Dedupes_Members_And_Includes_Requester(t *testing.T) {
	req := require.New(t)
	name := "team"

	c := NewGroupChat("alice", []string{"bob", "alice", "bob", "", "carol"}, &name, nil, time.Now())

	req.Equal(ChatTypeGroup, c.Type)
	req.Equal([]string{"alice", "bob", "carol"}, c.MemberIDs)
	req.Equal([]string{"alice"}, c.AdminIDs)
	req.Equal("team", *c.Name)
}

func TestChat_HasMember_And_HasAdmin(t *testing.T) {
	req := require.New(t)
	c := NewGroupChat("alice", []string{"bob"}, nil, nil, time.Now())

	req.True(c.HasMember("bob"))
	req.False(c.HasMember("mallory"))
	req.True(c.HasAdmin("alice"))
	req.False(c.HasAdmin("bob"))

	var nilChat *Chat
	req.False(nilChat.HasMember("alice"))
	req.False(nilChat.HasAdmin("alice"))
}

func TestChat_AddMembers_Skips_Duplicates(t *testing.T) {
	c := NewGroupChat("alice", []string{"bob"}, nil, nil, time.Now())

	c.AddMembers([]string{"bob", "carol", "carol"})

	require.Equal(t, []string{"alice", "bob", "carol"}, c.MemberIDs)
}

func TestChat_RemoveMembers_Drops_Admin_Entries_Too(t *testing.T) {
	req := require.New(t)
	c := NewGroupChat("alice", []string{"bob", "carol"}, nil, nil, time.Now())
	c.AdminIDs = append(c.AdminIDs, "bob")

	c.RemoveMembers([]string{"bob"})

	req.Equal([]string{"alice", "carol"}, c.MemberIDs)
	req.Equal([]string{"alice"}, c.AdminIDs)
}
