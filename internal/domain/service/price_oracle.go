package service

import "context"

// PriceQuery describes the item a seller wants a price range for.
type PriceQuery struct {
	Name        string
	Description string
	Categories  []string
}

type PriceRange struct {
	Min int64 `json:"minPrice"`
	Max int64 `json:"maxPrice"`
}

// PriceOracle suggests a resale price range.
type PriceOracle interface {
	Suggest(ctx context.Context, q PriceQuery) (PriceRange, error)
}
