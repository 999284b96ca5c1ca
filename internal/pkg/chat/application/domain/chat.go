package chat

import "time"

// ChatType distinguishes one-to-one threads from named group conversations.
type ChatType string

const (
	ChatTypeDirect ChatType = "direct"
	ChatTypeGroup  ChatType = "group"
)

// Chat is a conversation with a member set. A direct chat has exactly two
// distinct members and is unique per unordered member pair; group chats are
// named and admin-managed. The creator is always an initial admin.
type Chat struct {
	ID        string    `json:"id"`
	Type      ChatType  `json:"type"`
	Name      *string   `json:"name,omitempty"`
	PhotoURL  *string   `json:"photo_url,omitempty"`
	MemberIDs []string  `json:"member_ids"`
	AdminIDs  []string  `json:"admin_ids"`
	CreatedBy string    `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewDirectChat builds an unpersisted direct chat between two users.
// The requester becomes the sole initial admin.
func NewDirectChat(requesterID, otherUserID string, now time.Time) Chat {
	return Chat{
		Type:      ChatTypeDirect,
		MemberIDs: []string{requesterID, otherUserID},
		AdminIDs:  []string{requesterID},
		CreatedBy: requesterID,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// NewGroupChat builds an unpersisted group chat. The member set is the union
// of memberIDs and the requester, deduplicated; order is not significant.
func NewGroupChat(requesterID string, memberIDs []string, name, photoURL *string, now time.Time) Chat {
	members := dedupeIDs(append([]string{requesterID}, memberIDs...))
	return Chat{
		Type:      ChatTypeGroup,
		Name:      name,
		PhotoURL:  photoURL,
		MemberIDs: members,
		AdminIDs:  []string{requesterID},
		CreatedBy: requesterID,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// HasMember tells whether userID belongs to the chat's member set.
func (c *Chat) HasMember(userID string) bool {
	if c == nil {
		return false
	}
	for _, id := range c.MemberIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// HasAdmin tells whether userID belongs to the chat's admin set.
func (c *Chat) HasAdmin(userID string) bool {
	if c == nil {
		return false
	}
	for _, id := range c.AdminIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// AddMembers grows the member set, skipping duplicates.
func (c *Chat) AddMembers(ids []string) {
	c.MemberIDs = dedupeIDs(append(c.MemberIDs, ids...))
}

// RemoveMembers shrinks the member set. Admin entries for removed members are
// dropped as well so the admin set stays a subset of the member set.
func (c *Chat) RemoveMembers(ids []string) {
	gone := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		gone[id] = struct{}{}
	}
	keep := func(in []string) []string {
		out := in[:0]
		for _, id := range in {
			if _, ok := gone[id]; !ok {
				out = append(out, id)
			}
		}
		return out
	}
	c.MemberIDs = keep(c.MemberIDs)
	c.AdminIDs = keep(c.AdminIDs)
}

func dedupeIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
