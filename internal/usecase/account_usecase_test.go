package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reuseu/internal/domain/entity"
	"reuseu/pkg/errors"
)

func TestAccountCreateDerivesMarketplace(t *testing.T) {
	f := newFixture()
	uc := NewAccountUseCase(f.accounts, f.blobs, f.admins, nil)
	ctx := context.Background()

	created, err := uc.Create(ctx, entity.Session{SubjectID: "u1"}, entity.Account{
		UserID:      "u1",
		Username:    "lamp_lover",
		Email:       "Jo@UMass.EDU",
		Marketplace: "smith.edu",
		Favorites:   []string{"a", " a", "", "b"},
	})
	require.NoError(t, err)
	assert.Equal(t, umass, created.Marketplace)

	got, err := uc.Get(ctx, session("u1", umass), "u1")
	require.NoError(t, err)
	assert.Equal(t, "lamp_lover", got.Username)
	assert.Equal(t, []string{"a", "b"}, got.Favorites)
	assert.NotEmpty(t, got.CreatedAt)

	byName, err := uc.Get(ctx, session("u1", umass), "LAMP_LOVER")
	require.NoError(t, err)
	assert.Equal(t, "u1", byName.UserID)

	_, err = uc.Create(ctx, entity.Session{SubjectID: "u1"}, entity.Account{UserID: "u1", Email: "jo@umass.edu"})
	assert.True(t, errors.Is(err, errors.CodeConflict))
}

func TestAccountCreateValidationSkipsStore(t *testing.T) {
	f := newFixture()
	uc := NewAccountUseCase(f.accounts, f.blobs, f.admins, nil)

	cases := []entity.Account{
		{Email: "a@umass.edu"},
		{UserID: "u1"},
		{UserID: "u1", Email: "a@gmail.com"},
	}
	for _, in := range cases {
		_, err := uc.Create(context.Background(), entity.Session{SubjectID: "u1"}, in)
		assert.True(t, errors.Is(err, errors.CodeValidation), "%+v", in)
	}
	_, err := uc.Create(context.Background(), entity.Session{SubjectID: "other"}, entity.Account{UserID: "u1", Email: "a@umass.edu"})
	assert.True(t, errors.Is(err, errors.CodeForbidden))
	assert.Zero(t, f.store.calls.Load())
}

func TestAccountIsolation(t *testing.T) {
	f := newFixture()
	uc := NewAccountUseCase(f.accounts, f.blobs, f.admins, nil)
	ctx := context.Background()
	_, err := uc.Create(ctx, entity.Session{SubjectID: "u1"}, entity.Account{UserID: "u1", Email: "a@umass.edu"})
	require.NoError(t, err)

	_, err = uc.Get(ctx, session("u9", smith), "u1")
	assert.True(t, errors.Is(err, errors.CodeNotFound))

	_, err = uc.Get(ctx, session(adminUID, smith), "u1")
	assert.NoError(t, err)

	_, err = uc.Get(ctx, session("u1", umass), "missing")
	assert.True(t, errors.Is(err, errors.CodeNotFound))
}

func TestAccountUpdate(t *testing.T) {
	f := newFixture()
	uc := NewAccountUseCase(f.accounts, f.blobs, f.admins, nil)
	ctx := context.Background()
	_, err := uc.Create(ctx, entity.Session{SubjectID: "u1"}, entity.Account{UserID: "u1", Email: "a@umass.edu", School: "UMass"})
	require.NoError(t, err)
	s := session("u1", umass)

	about := "selling dorm stuff"
	updated, err := uc.Update(ctx, s, "u1", entity.AccountPatch{AboutMe: &about})
	require.NoError(t, err)
	assert.Equal(t, about, updated.AboutMe)
	assert.Equal(t, "UMass", updated.School)

	wrong := smith
	_, err = uc.Update(ctx, s, "u1", entity.AccountPatch{Marketplace: &wrong})
	assert.True(t, errors.Is(err, errors.CodeValidation))

	right := umass
	_, err = uc.Update(ctx, s, "u1", entity.AccountPatch{Marketplace: &right})
	assert.NoError(t, err)

	_, err = uc.Update(ctx, session("u2", umass), "u1", entity.AccountPatch{AboutMe: &about})
	assert.True(t, errors.Is(err, errors.CodeForbidden))
}

func TestAccountFavoritesAndPicture(t *testing.T) {
	f := newFixture()
	uc := NewAccountUseCase(f.accounts, f.blobs, f.admins, nil)
	ctx := context.Background()
	_, err := uc.Create(ctx, entity.Session{SubjectID: "u1"}, entity.Account{UserID: "u1", Email: "a@umass.edu"})
	require.NoError(t, err)
	s := session("u1", umass)

	favs, err := uc.SetFavorites(ctx, s, "u1", []string{"l2", "l1", "l2"})
	require.NoError(t, err)
	assert.Equal(t, []string{"l2", "l1"}, favs)
	got, err := uc.GetFavorites(ctx, s, "u1")
	require.NoError(t, err)
	assert.Equal(t, favs, got)

	_, err = uc.SetProfilePicture(ctx, s, "u1", "bm90IGFuIGltYWdl")
	assert.True(t, errors.Is(err, errors.CodeValidation))

	key, err := uc.SetProfilePicture(ctx, s, "u1", pngPayload(t))
	require.NoError(t, err)
	assert.Contains(t, key, "pfp/u1")

	data, err := uc.GetProfilePicture(ctx, "u1")
	require.NoError(t, err)
	assert.NotEmpty(t, data)

	require.NoError(t, uc.Delete(ctx, s, "u1"))
	assert.Equal(t, 0, f.blobs.Len())
	_, err = uc.GetProfilePicture(ctx, "u1")
	assert.True(t, errors.Is(err, errors.CodeNotFound))
}
