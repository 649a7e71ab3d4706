package models

// Message is a post written by an account.
type Message struct {
	ID              int64  `json:"message_id"`
	PostedBy        int64  `json:"posted_by"`
	MessageText     string `json:"message_text"`
	TimePostedEpoch int64  `json:"time_posted_epoch"`
}
