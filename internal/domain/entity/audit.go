package entity

import "time"

const (
	AuditOutcomeDeleted = "deleted"
	AuditOutcomePartial = "partial"
	AuditOutcomeFailed  = "failed"
)

// AuditEntry records one moderation cascade.
type AuditEntry struct {
	ID            string    `json:"id" firestore:"id"`
	AdminID       string    `json:"admin_id" firestore:"adminId"`
	ReportID      string    `json:"report_id" firestore:"reportId"`
	ListingID     string    `json:"listing_id" firestore:"listingId"`
	MarketplaceID string    `json:"marketplace_id,omitempty" firestore:"marketplaceId,omitempty"`
	Outcome       string    `json:"outcome" firestore:"outcome"`
	Removed       []string  `json:"removed,omitempty" firestore:"removed,omitempty"`
	Detail        string    `json:"detail,omitempty" firestore:"detail,omitempty"`
	CreatedAt     time.Time `json:"created_at" firestore:"createdAt"`
}
