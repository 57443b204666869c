package repository

import (
	"context"
	stderrors "errors"

	"reuseu/internal/domain/entity"
	"reuseu/internal/domain/repository"
	"reuseu/internal/infrastructure/treestore"
)

type treeChatRepository struct {
	store treestore.Store
}

func NewTreeChatRepository(store treestore.Store) repository.ChatRepository {
	return &treeChatRepository{store: store}
}

func (r *treeChatRepository) GetByListing(ctx context.Context, listingID string) (*entity.Chat, error) {
	if err := checkKey(listingID, "Chat"); err != nil {
		return nil, err
	}
	var chat entity.Chat
	if err := read(ctx, r.store, treestore.Join(chatRoot, listingID), &chat, "Chat"); err != nil {
		return nil, err
	}
	chat.ListingID = listingID
	return &chat, nil
}

func (r *treeChatRepository) Ensure(ctx context.Context, chat *entity.Chat) error {
	if err := checkKey(chat.ListingID, "Chat"); err != nil {
		return err
	}
	header := entity.Chat{
		ListingID:     chat.ListingID,
		MarketplaceID: chat.MarketplaceID,
		CreatedAt:     chat.CreatedAt,
	}
	err := r.store.Create(ctx, treestore.Join(chatRoot, chat.ListingID), header)
	if stderrors.Is(err, treestore.ErrExists) {
		return nil
	}
	return writeFailed("Chat", err)
}

func (r *treeChatRepository) AppendMessage(ctx context.Context, listingID string, message *entity.Message) error {
	if err := checkKey(listingID, "Chat"); err != nil {
		return err
	}
	message.MessageID = ""
	key, err := r.store.Push(ctx, treestore.Join(chatRoot, listingID, "Messages"), message)
	if err != nil {
		return writeFailed("Message", err)
	}
	message.MessageID = key
	return nil
}

func (r *treeChatRepository) ListMessages(ctx context.Context, listingID string) ([]*entity.Message, error) {
	if err := checkKey(listingID, "Chat"); err != nil {
		return nil, err
	}
	all, err := readChildren[entity.Message](ctx, r.store, treestore.Join(chatRoot, listingID, "Messages"), "Message")
	if err != nil {
		return nil, err
	}
	out := make([]*entity.Message, 0, len(all))
	for _, id := range sortedKeys(all) {
		m := all[id]
		m.MessageID = id
		out = append(out, m)
	}
	return out, nil
}
