package entity

// Session is the authenticated, tenant-scoped identity of a request. The
// zero value is the anonymous session used for pre-flight requests.
type Session struct {
	SubjectID     string `json:"subject_id"`
	MarketplaceID string `json:"marketplace_id"`
}

func (s Session) Anonymous() bool {
	return s.SubjectID == ""
}
