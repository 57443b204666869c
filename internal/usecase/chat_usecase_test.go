package usecase

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reuseu/internal/infrastructure/websocket"
	"reuseu/pkg/errors"
)

type recordingBroadcaster struct {
	mu     sync.Mutex
	events []websocket.ReceiveMessageData
	rooms  []string
}

func (b *recordingBroadcaster) Broadcast(room, event string, data interface{}) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if msg, ok := data.(websocket.ReceiveMessageData); ok && event == websocket.EventReceiveMessage {
		b.events = append(b.events, msg)
		b.rooms = append(b.rooms, room)
	}
	return nil
}

func TestChatPostAndList(t *testing.T) {
	f := newFixture()
	rec := &recordingBroadcaster{}
	uc := NewChatUseCase(f.chats, f.listings, f.admins, rec, nil)
	ctx := context.Background()
	l := f.seedListing(t, "seller", umass)

	_, err := uc.PostMessage(ctx, session("buyer", umass), l.ListingID, "Is this still available?")
	require.NoError(t, err)
	_, err = uc.PostMessage(ctx, session("seller", umass), l.ListingID, "Yes")
	require.NoError(t, err)

	msgs, err := uc.ListMessages(ctx, session("buyer", umass), l.ListingID)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "buyer", msgs[0].SenderID)
	assert.Equal(t, "Yes", msgs[1].Body)

	chat, err := f.chats.GetByListing(ctx, l.ListingID)
	require.NoError(t, err)
	assert.Equal(t, umass, chat.MarketplaceID)

	require.Len(t, rec.events, 2)
	assert.Equal(t, []string{l.ListingID, l.ListingID}, rec.rooms)
	assert.Equal(t, "seller", rec.events[1].Sender)
}

func TestChatRejections(t *testing.T) {
	f := newFixture()
	uc := NewChatUseCase(f.chats, f.listings, f.admins, nil, nil)
	ctx := context.Background()
	l := f.seedListing(t, "seller", umass)

	_, err := uc.PostMessage(ctx, session("buyer", umass), l.ListingID, "  ")
	assert.True(t, errors.Is(err, errors.CodeValidation))
	_, err = uc.PostMessage(ctx, session("buyer", umass), l.ListingID, strings.Repeat("a", 2001))
	assert.True(t, errors.Is(err, errors.CodeValidation))

	_, err = uc.PostMessage(ctx, session("buyer", smith), l.ListingID, "hi")
	assert.True(t, errors.Is(err, errors.CodeNotFound))
	assert.True(t, errors.Is(uc.AuthorizeRoom(ctx, session("buyer", smith), l.ListingID), errors.CodeNotFound))
	assert.NoError(t, uc.AuthorizeRoom(ctx, session("buyer", umass), l.ListingID))
}
