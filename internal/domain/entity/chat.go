package entity

// Chat is the conversation attached to a listing.
type Chat struct {
	ListingID     string             `json:"ListingID"`
	MarketplaceID string             `json:"marketplace_id"`
	CreatedAt     string             `json:"CreatedAt"`
	Messages      map[string]Message `json:"Messages,omitempty"`
}
