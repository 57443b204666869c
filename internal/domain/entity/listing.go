package entity

type Listing struct {
	ListingID     string     `json:"ListingID"`
	UserID        string     `json:"UserID"`
	MarketplaceID string     `json:"marketplace_id"`
	Title         string     `json:"Title"`
	Description   string     `json:"Description,omitempty"`
	Price         int64      `json:"Price"`
	Categories    OrdinalMap `json:"Categories,omitempty"`
	Images        OrdinalMap `json:"Images,omitempty"`
	SellStatus    bool       `json:"SellStatus"` // true once sold
	BuyerID       string     `json:"BuyerID,omitempty"`
	CreateTime    string     `json:"CreateTime"`
}

type ListingPatch struct {
	Title       *string    `json:"Title"`
	Description *string    `json:"Description"`
	Price       *int64     `json:"Price"`
	Categories  OrdinalMap `json:"Categories"`
	SellStatus  *bool      `json:"SellStatus"`
}

// ListingFilter narrows List results. Empty fields match everything.
type ListingFilter struct {
	MarketplaceID string
	OwnerID       string
	Sold          *bool
}
