package usecase

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"reuseu/internal/domain/service"
	"reuseu/internal/infrastructure/ratelimit"
	"reuseu/pkg/errors"
)

type stubOracle struct {
	got service.PriceQuery
	r   service.PriceRange
	err error
}

func (o *stubOracle) Suggest(ctx context.Context, q service.PriceQuery) (service.PriceRange, error) {
	o.got = q
	return o.r, o.err
}

func TestNormalizeCategories(t *testing.T) {
	assert.Equal(t, []string{"Books"}, NormalizeCategories(" Books "))
	assert.Equal(t, []string{"A", "B"}, NormalizeCategories([]interface{}{"A", "", 3, "B"}))
	assert.Equal(t, []string{"first", "second"}, NormalizeCategories(map[string]interface{}{"2": "second", "1": "first"}))
	assert.Empty(t, NormalizeCategories(nil))
	assert.Empty(t, NormalizeCategories(42.0))
}

func TestPriceSuggest(t *testing.T) {
	oracle := &stubOracle{r: service.PriceRange{Min: 10, Max: 25}}
	uc := NewPriceUseCase(oracle, nil, nil, nil)
	s := session("u1", umass)

	r, err := uc.Suggest(context.Background(), s, PriceInput{Name: "Calculator", Category: []interface{}{"Electronics"}})
	require.NoError(t, err)
	assert.Equal(t, int64(10), r.Min)
	assert.Equal(t, int64(25), r.Max)
	assert.Equal(t, []string{"Electronics"}, oracle.got.Categories)

	_, err = uc.Suggest(context.Background(), s, PriceInput{Name: "Calculator"})
	assert.True(t, errors.Is(err, errors.CodeValidation))
	_, err = uc.Suggest(context.Background(), s, PriceInput{Category: "Books"})
	assert.True(t, errors.Is(err, errors.CodeValidation))

	oracle.err = stderrors.New("connection reset")
	_, err = uc.Suggest(context.Background(), s, PriceInput{Name: "Calculator", Category: "Electronics"})
	assert.True(t, errors.Is(err, errors.CodeUpstreamFailure))
}

func TestPriceSuggestRateLimited(t *testing.T) {
	limiter := ratelimit.NewRateLimiter(rate.Limit(0.001), 1)
	uc := NewPriceUseCase(&stubOracle{}, limiter, nil, nil)
	in := PriceInput{Name: "Desk", Category: "Furniture"}

	_, err := uc.Suggest(context.Background(), session("u1", umass), in)
	require.NoError(t, err)
	_, err = uc.Suggest(context.Background(), session("u1", umass), in)
	assert.True(t, errors.Is(err, errors.CodeTooManyRequests))
	_, err = uc.Suggest(context.Background(), session("u2", umass), in)
	assert.NoError(t, err)
}

func TestPriceSuggestWithoutOracle(t *testing.T) {
	uc := NewPriceUseCase(nil, nil, nil, nil)
	_, err := uc.Suggest(context.Background(), session("u1", umass), PriceInput{Name: "Desk", Category: "Furniture"})
	assert.True(t, errors.Is(err, errors.CodeUpstreamFailure))
}
