package usecase

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"reuseu/internal/domain/entity"
	"reuseu/internal/domain/repository"
	"reuseu/internal/infrastructure/websocket"
	"reuseu/pkg/errors"
)

const maxMessageLength = 2000

type ChatUseCase struct {
	chats       repository.ChatRepository
	listings    repository.ListingRepository
	admins      AdminChecker
	broadcaster Broadcaster
	log         *zap.Logger
}

func NewChatUseCase(chats repository.ChatRepository, listings repository.ListingRepository, admins AdminChecker, broadcaster Broadcaster, log *zap.Logger) *ChatUseCase {
	if log == nil {
		log = zap.NewNop()
	}
	return &ChatUseCase{
		chats:       chats,
		listings:    listings,
		admins:      admins,
		broadcaster: broadcaster,
		log:         log,
	}
}

// AuthorizeRoom allows joining a listing's room from the same marketplace.
func (uc *ChatUseCase) AuthorizeRoom(ctx context.Context, session entity.Session, listingID string) error {
	_, err := uc.listing(ctx, session, listingID)
	return err
}

func (uc *ChatUseCase) ListMessages(ctx context.Context, session entity.Session, listingID string) ([]*entity.Message, error) {
	if _, err := uc.listing(ctx, session, listingID); err != nil {
		return nil, err
	}
	return uc.chats.ListMessages(ctx, listingID)
}

// PostMessage persists a message in the listing's chat and pushes it to
// everyone in the room.
func (uc *ChatUseCase) PostMessage(ctx context.Context, session entity.Session, listingID, body string) (*entity.Message, error) {
	if strings.TrimSpace(body) == "" {
		return nil, errors.Validation("Message body is required")
	}
	if len(body) > maxMessageLength {
		return nil, errors.Validation("Message is too long")
	}
	listing, err := uc.listing(ctx, session, listingID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC().Format(time.RFC3339)
	if err := uc.chats.Ensure(ctx, &entity.Chat{
		ListingID:     listingID,
		MarketplaceID: listing.MarketplaceID,
		CreatedAt:     now,
	}); err != nil {
		return nil, err
	}
	msg := &entity.Message{SenderID: session.SubjectID, Body: body, Timestamp: now}
	if err := uc.chats.AppendMessage(ctx, listingID, msg); err != nil {
		return nil, err
	}

	if uc.broadcaster != nil {
		err := uc.broadcaster.Broadcast(listingID, websocket.EventReceiveMessage, websocket.ReceiveMessageData{
			Room:      listingID,
			Message:   body,
			Sender:    session.SubjectID,
			Timestamp: now,
		})
		if err != nil {
			uc.log.Warn("chat broadcast failed", zap.String("listing_id", listingID), zap.Error(err))
		}
	}
	return msg, nil
}

func (uc *ChatUseCase) listing(ctx context.Context, session entity.Session, listingID string) (*entity.Listing, error) {
	listing, err := uc.listings.GetByID(ctx, listingID)
	if err != nil {
		return nil, err
	}
	if !visible(session, listing.MarketplaceID, uc.admins) {
		return nil, errors.NotFound("Listing", nil)
	}
	return listing, nil
}
