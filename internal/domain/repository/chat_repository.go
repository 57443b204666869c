package repository

import (
	"context"

	"reuseu/internal/domain/entity"
)

type ChatRepository interface {
	GetByListing(ctx context.Context, listingID string) (*entity.Chat, error)
	// Ensure creates the chat header if the listing has none yet.
	Ensure(ctx context.Context, chat *entity.Chat) error
	AppendMessage(ctx context.Context, listingID string, message *entity.Message) error
	// ListMessages returns messages in the order they were appended.
	ListMessages(ctx context.Context, listingID string) ([]*entity.Message, error)
}
