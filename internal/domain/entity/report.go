package entity

type Report struct {
	ReportID      string `json:"report_id,omitempty"`
	MarketplaceID string `json:"marketplace_id"`
	ListingID     string `json:"listing_id"`
	UserID        string `json:"user_id"` // reporter
	Reason        string `json:"reason"`
	Description   string `json:"description,omitempty"`
	CreatedAt     string `json:"created_at"`
}
