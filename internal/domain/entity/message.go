package entity

type Message struct {
	MessageID string `json:"MessageID,omitempty"`
	SenderID  string `json:"SenderID"`
	Body      string `json:"Body"`
	Timestamp string `json:"Timestamp"`
}
