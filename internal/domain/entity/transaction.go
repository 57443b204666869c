package entity

type Transaction struct {
	TransactionID string `json:"TransactionID"`
	ListingID     string `json:"ListingID"`
	BuyerID       string `json:"BuyerID"`
	SellerID      string `json:"SellerID"`
	MarketplaceID string `json:"marketplace_id"`
	Price         int64  `json:"Price"`
	Timestamp     string `json:"Timestamp"`
}
