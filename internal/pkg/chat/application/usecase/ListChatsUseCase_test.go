package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestListChats_Orders_By_Most_Recent_Activity(t *testing.T) {
	req := require.New(t)
	chats := newMemChatRepo()
	messages := newMemMessageRepo()
	ctx := context.Background()

	older := seedGroupChat(t, chats, "alice", "bob")
	newer := seedGroupChat(t, chats, "alice", "carol")
	req.NoError(chats.TouchChat(ctx, older.ID, time.Now().Add(-time.Hour)))
	req.NoError(chats.TouchChat(ctx, newer.ID, time.Now()))

	uc := NewListChatsUseCase(chats, messages, nil, testLogger())
	summaries, err := uc.Execute(ctx, ListChatsInput{UserID: "alice"})

	req.NoError(err)
	req.Len(summaries, 2)
	req.Equal(newer.ID, summaries[0].ID)
	req.Equal(older.ID, summaries[1].ID)
}

func TestListChats_Includes_Preview_And_Unread_Count(t *testing.T) {
	req := require.New(t)
	chats := newMemChatRepo()
	messages := newMemMessageRepo()
	c := seedGroupChat(t, chats, "alice", "bob")
	seedMessage(t, messages, c.ID, "bob", "first")
	last := seedMessage(t, messages, c.ID, "bob", "latest")

	uc := NewListChatsUseCase(chats, messages, nil, testLogger())
	summaries, err := uc.Execute(context.Background(), ListChatsInput{UserID: "alice"})

	req.NoError(err)
	req.Len(summaries, 1)
	req.Equal(*last.Content, *summaries[0].LastMessagePreview)
	req.Equal(2, summaries[0].UnreadCount)
}

func TestListChats_Unread_Counts_Own_Unseen_Messages_Too(t *testing.T) {
	req := require.New(t)
	chats := newMemChatRepo()
	messages := newMemMessageRepo()
	c := seedGroupChat(t, chats, "alice", "bob")
	seedMessage(t, messages, c.ID, "alice", "mine")

	uc := NewListChatsUseCase(chats, messages, nil, testLogger())
	summaries, err := uc.Execute(context.Background(), ListChatsInput{UserID: "alice"})

	req.NoError(err)
	req.Equal(1, summaries[0].UnreadCount)
}

func TestListChats_Caches_Preview_After_First_Read(t *testing.T) {
	req := require.New(t)
	chats := newMemChatRepo()
	messages := newMemMessageRepo()
	cache := newMemCache()
	c := seedGroupChat(t, chats, "alice", "bob")
	seedMessage(t, messages, c.ID, "bob", "hello")

	uc := NewListChatsUseCase(chats, messages, cache, testLogger())
	ctx := context.Background()

	_, err := uc.Execute(ctx, ListChatsInput{UserID: "alice"})
	req.NoError(err)

	cached, err := cache.Get(ctx, previewCacheKey(c.ID))
	req.NoError(err)
	req.Contains(cached, "hello")
}

func TestListChats_Excludes_Chats_Of_Other_Users(t *testing.T) {
	req := require.New(t)
	chats := newMemChatRepo()
	seedGroupChat(t, chats, "bob", "carol")

	uc := NewListChatsUseCase(chats, newMemMessageRepo(), nil, testLogger())
	summaries, err := uc.Execute(context.Background(), ListChatsInput{UserID: "alice"})

	req.NoError(err)
	req.Empty(summaries)
}
