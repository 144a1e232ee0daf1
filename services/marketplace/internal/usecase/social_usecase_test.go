package usecase

import (
	"context"
	"testing"
	"time"

	"classifieds/services/marketplace/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFavoriteUseCase(t *testing.T) {
	ctx := context.Background()
	repos := setupRepos(t)
	uc := NewFavoriteUseCase(repos.Favorites, repos.Listings)
	user := createUser(t, repos, "fan@example.com", entity.RoleUser)
	actor := actorFor(user)

	first := &entity.Listing{Title: "First", UserID: "seller", Status: entity.StatusApproved}
	second := &entity.Listing{Title: "Second", UserID: "seller", Status: entity.StatusApproved}
	require.NoError(t, repos.Listings.Create(ctx, first))
	require.NoError(t, repos.Listings.Create(ctx, second))

	added, err := uc.AddFavorite(ctx, actor, first.ID)
	require.NoError(t, err)
	assert.True(t, added)

	added, err = uc.AddFavorite(ctx, actor, first.ID)
	require.NoError(t, err)
	assert.False(t, added)

	time.Sleep(2 * time.Millisecond)
	_, err = uc.AddFavorite(ctx, actor, second.ID)
	require.NoError(t, err)

	_, err = uc.AddFavorite(ctx, actor, "missing")
	assert.ErrorIs(t, err, entity.ErrNotFound)

	_, err = uc.AddFavorite(ctx, actor, "")
	assert.ErrorIs(t, err, entity.ErrValidation)

	favorites, err := uc.ListFavorites(ctx, actor)
	require.NoError(t, err)
	require.Len(t, favorites, 2)
	assert.Equal(t, second.ID, favorites[0].ID)
	assert.Equal(t, first.ID, favorites[1].ID)

	require.NoError(t, uc.RemoveFavorite(ctx, actor, first.ID))
	favorites, err = uc.ListFavorites(ctx, actor)
	require.NoError(t, err)
	require.Len(t, favorites, 1)
	assert.Equal(t, second.ID, favorites[0].ID)
}

func TestMessageUseCase(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	repos := setupRepos(t)
	notifier := NewLocalNotifier()
	uc := NewMessageUseCase(repos.Messages, repos.Users, repos.Listings, notifier, testLogger())

	buyer := createUser(t, repos, "buyer@example.com", entity.RoleUser)
	seller := createUser(t, repos, "seller@example.com", entity.RoleUser)
	listing := &entity.Listing{Title: "Car", UserID: seller.ID, Status: entity.StatusApproved}
	require.NoError(t, repos.Listings.Create(ctx, listing))

	inbox, err := uc.Subscribe(ctx, actorFor(seller))
	require.NoError(t, err)

	sent, err := uc.SendMessage(ctx, actorFor(buyer), SendMessageInput{
		ToUserID:  seller.ID,
		ListingID: listing.ID,
		Content:   "  Still available?  ",
	})
	require.NoError(t, err)
	assert.Equal(t, "Still available?", sent.Content)

	select {
	case pushed := <-inbox:
		assert.Equal(t, sent.ID, pushed.ID)
	case <-time.After(time.Second):
		t.Fatal("message was not pushed to the recipient")
	}

	_, err = uc.SendMessage(ctx, actorFor(buyer), SendMessageInput{ToUserID: seller.ID, ListingID: listing.ID, Content: " "})
	assert.ErrorIs(t, err, entity.ErrValidation)

	_, err = uc.SendMessage(ctx, actorFor(buyer), SendMessageInput{ToUserID: "ghost", ListingID: listing.ID, Content: "hi"})
	assert.ErrorIs(t, err, entity.ErrNotFound)

	_, err = uc.SendMessage(ctx, actorFor(buyer), SendMessageInput{ToUserID: buyer.ID, ListingID: listing.ID, Content: "hi"})
	assert.ErrorIs(t, err, entity.ErrValidation)

	err = uc.MarkRead(ctx, actorFor(buyer), sent.ID)
	assert.ErrorIs(t, err, entity.ErrForbidden)
	require.NoError(t, uc.MarkRead(ctx, actorFor(seller), sent.ID))

	conversation, err := uc.Conversation(ctx, actorFor(seller), listing.ID)
	require.NoError(t, err)
	require.Len(t, conversation, 1)
	assert.True(t, conversation[0].Read)

	buyerMessages, err := uc.ListMessages(ctx, actorFor(buyer))
	require.NoError(t, err)
	assert.Len(t, buyerMessages, 1)
}

func TestLocalNotifier_UnsubscribesOnCancel(t *testing.T) {
	notifier := NewLocalNotifier()
	ctx, cancel := context.WithCancel(context.Background())

	ch, err := notifier.Subscribe(ctx, "user-1")
	require.NoError(t, err)
	cancel()

	select {
	case _, ok := <-ch:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("subscription was not closed")
	}

	assert.NoError(t, notifier.Publish(context.Background(), &entity.Message{ToUserID: "user-1"}))
}
