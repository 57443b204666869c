package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"reuseu/internal/domain/entity"
	"reuseu/internal/domain/service"
	"reuseu/internal/infrastructure/metrics"
	"reuseu/internal/infrastructure/ratelimit"
	"reuseu/pkg/errors"
)

type PriceUseCase struct {
	oracle  service.PriceOracle
	limiter *ratelimit.RateLimiter
	metrics *metrics.Metrics
	log     *zap.Logger
}

func NewPriceUseCase(oracle service.PriceOracle, limiter *ratelimit.RateLimiter, m *metrics.Metrics, log *zap.Logger) *PriceUseCase {
	if log == nil {
		log = zap.NewNop()
	}
	return &PriceUseCase{oracle: oracle, limiter: limiter, metrics: m, log: log}
}

// PriceInput is the decoded request. Category may be a JSON object of
// ordinal to label, a list, or a single string.
type PriceInput struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Category    interface{} `json:"category"`
}

func (uc *PriceUseCase) Suggest(ctx context.Context, session entity.Session, in PriceInput) (*service.PriceRange, error) {
	name := strings.TrimSpace(in.Name)
	categories := NormalizeCategories(in.Category)
	if name == "" || len(categories) == 0 {
		return nil, errors.Validation("Category and name are required")
	}
	if uc.limiter != nil {
		if ok, wait := uc.limiter.Allow(session.SubjectID); !ok {
			return nil, errors.TooManyRequests(fmt.Sprintf("Too many price suggestions, retry in %ds", int(wait.Seconds())+1))
		}
	}
	if uc.oracle == nil {
		uc.metrics.PriceSuggestion(metrics.LabelFailure)
		return nil, errors.Upstream("Price suggestions are not configured", nil)
	}

	r, err := uc.oracle.Suggest(ctx, service.PriceQuery{
		Name:        name,
		Description: strings.TrimSpace(in.Description),
		Categories:  categories,
	})
	if err != nil {
		uc.metrics.PriceSuggestion(metrics.LabelFailure)
		uc.log.Warn("price suggestion failed", zap.String("uid", session.SubjectID), zap.Error(err))
		if errors.KindOf(err) != errors.CodeUpstreamFailure {
			return nil, err
		}
		return nil, errors.Upstream("Failed to get price suggestion", err)
	}
	uc.metrics.PriceSuggestion(metrics.LabelSuccess)
	return &r, nil
}

// NormalizeCategories flattens the accepted category shapes into a list of
// non-empty labels. Object values are ordered by key.
func NormalizeCategories(v interface{}) []string {
	var out []string
	add := func(s string) {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	switch c := v.(type) {
	case string:
		add(c)
	case []interface{}:
		for _, item := range c {
			if s, ok := item.(string); ok {
				add(s)
			}
		}
	case []string:
		for _, s := range c {
			add(s)
		}
	case map[string]interface{}:
		keys := make([]string, 0, len(c))
		for k := range c {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if s, ok := c[k].(string); ok {
				add(s)
			}
		}
	}
	return out
}
