package entity

// Review is stored at /Review/{ListingID}; a listing has at most one.
type Review struct {
	ListingID  string `json:"ListingID"`
	Rating     int    `json:"Rating"`
	Review     string `json:"Review"`
	ReviewDate string `json:"ReviewDate"`
	ReviewerID string `json:"ReviewerID"`
	SellerID   string `json:"SellerID"`
}
