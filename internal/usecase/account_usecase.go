package usecase

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"reuseu/internal/domain/entity"
	"reuseu/internal/domain/repository"
	"reuseu/internal/domain/service"
	"reuseu/pkg/errors"
)

type AccountUseCase struct {
	accounts repository.AccountRepository
	pictures service.BlobStore
	admins   AdminChecker
	log      *zap.Logger
}

func NewAccountUseCase(accounts repository.AccountRepository, pictures service.BlobStore, admins AdminChecker, log *zap.Logger) *AccountUseCase {
	if log == nil {
		log = zap.NewNop()
	}
	return &AccountUseCase{
		accounts: accounts,
		pictures: pictures,
		admins:   admins,
		log:      log,
	}
}

// Create registers the caller's account. The marketplace always comes from
// the e-mail address, never from the request.
func (uc *AccountUseCase) Create(ctx context.Context, session entity.Session, input entity.Account) (*entity.Account, error) {
	input.UserID = strings.TrimSpace(input.UserID)
	input.Email = strings.TrimSpace(input.Email)
	if input.UserID == "" {
		return nil, errors.Validation("UserID is required")
	}
	if input.Email == "" {
		return nil, errors.Validation("email is required")
	}
	marketplace, ok := service.ResolveMarketplace(input.Email)
	if !ok {
		return nil, errors.Validation("A valid .edu e-mail address is required")
	}
	if input.UserID != session.SubjectID {
		return nil, errors.Forbidden("UserID does not match the authenticated user", nil)
	}

	input.Marketplace = marketplace
	input.LegacyEmail = ""
	input.ProfileImage = ""
	input.Favorites = normalizeFavorites(input.Favorites)
	if input.CreatedAt == "" {
		input.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	}

	if err := uc.accounts.Create(ctx, &input); err != nil {
		return nil, err
	}
	uc.log.Info("account created", zap.String("uid", input.UserID), zap.String("marketplace_id", marketplace))
	return &input, nil
}

// Get looks the account up by id, then by username.
func (uc *AccountUseCase) Get(ctx context.Context, session entity.Session, idOrUsername string) (*entity.Account, error) {
	account, err := uc.accounts.GetByID(ctx, idOrUsername)
	if errors.Is(err, errors.CodeNotFound) {
		account, err = uc.accounts.GetByUsername(ctx, idOrUsername)
	}
	if err != nil {
		return nil, err
	}
	if account.UserID != session.SubjectID && !visible(session, account.Marketplace, uc.admins) {
		return nil, errors.NotFound("Account", nil)
	}
	return account, nil
}

func (uc *AccountUseCase) Update(ctx context.Context, session entity.Session, id string, patch entity.AccountPatch) (*entity.Account, error) {
	if !ownerOrAdmin(session, id, uc.admins) {
		return nil, errors.Forbidden("You can only edit your own account", nil)
	}
	current, err := uc.accounts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	email := current.ContactEmail()
	if patch.Email != nil {
		trimmed := strings.TrimSpace(*patch.Email)
		patch.Email = &trimmed
		email = trimmed
	}

	fields := patch.Fields()
	switch {
	case patch.Marketplace != nil:
		resolved, ok := service.ResolveMarketplace(email)
		if !ok || resolved != *patch.Marketplace {
			return nil, errors.Validation("marketplace_id must match the account's e-mail domain")
		}
	case current.Marketplace == "" && patch.Email != nil:
		if resolved, ok := service.ResolveMarketplace(email); ok {
			fields["marketplace_id"] = resolved
		} else {
			uc.log.Warn("could not derive marketplace from updated e-mail", zap.String("uid", id))
		}
	}

	if err := uc.accounts.Update(ctx, id, fields); err != nil {
		return nil, err
	}
	return uc.accounts.GetByID(ctx, id)
}

func (uc *AccountUseCase) Delete(ctx context.Context, session entity.Session, id string) error {
	if !ownerOrAdmin(session, id, uc.admins) {
		return errors.Forbidden("You can only delete your own account", nil)
	}
	account, err := uc.accounts.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := uc.accounts.Delete(ctx, id); err != nil {
		return err
	}
	if account.ProfileImage != "" && uc.pictures != nil {
		if err := uc.pictures.Delete(ctx, account.ProfileImage); err != nil {
			uc.log.Warn("profile picture left behind", zap.String("uid", id), zap.Error(err))
		}
	}
	return nil
}

func (uc *AccountUseCase) GetFavorites(ctx context.Context, session entity.Session, id string) ([]string, error) {
	account, err := uc.Get(ctx, session, id)
	if err != nil {
		return nil, err
	}
	return normalizeFavorites(account.Favorites), nil
}

func (uc *AccountUseCase) SetFavorites(ctx context.Context, session entity.Session, id string, favorites []string) ([]string, error) {
	if !ownerOrAdmin(session, id, uc.admins) {
		return nil, errors.Forbidden("You can only edit your own favorites", nil)
	}
	favorites = normalizeFavorites(favorites)
	if err := uc.accounts.SetFavorites(ctx, id, favorites); err != nil {
		return nil, err
	}
	return favorites, nil
}

// SetProfilePicture stores a base64 or data-URL image as the account's
// picture and returns its blob key.
func (uc *AccountUseCase) SetProfilePicture(ctx context.Context, session entity.Session, id, payload string) (string, error) {
	if !ownerOrAdmin(session, id, uc.admins) {
		return "", errors.Forbidden("You can only change your own picture", nil)
	}
	if _, err := uc.accounts.GetByID(ctx, id); err != nil {
		return "", err
	}
	data, contentType, err := decodePayload(payload)
	if err != nil {
		return "", err
	}

	key, err := uc.pictures.Put(ctx, "pfp/"+id, contentType, data)
	if err != nil {
		return "", err
	}
	if err := uc.accounts.SetProfileImage(ctx, id, key); err != nil {
		return "", err
	}
	return key, nil
}

// GetProfilePicture needs no session.
func (uc *AccountUseCase) GetProfilePicture(ctx context.Context, id string) ([]byte, error) {
	account, err := uc.accounts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if account.ProfileImage == "" {
		return nil, errors.NotFound("Profile picture", nil)
	}
	return uc.pictures.Get(ctx, account.ProfileImage)
}

func normalizeFavorites(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, id := range in {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
