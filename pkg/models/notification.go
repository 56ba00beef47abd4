package models

import "time"

// NotificationLog is an entry of the send history. Entries are never edited.
// ClientName is a snapshot taken at send time. Seq is the position inside the
// batch that shares SentAt.
type NotificationLog struct {
	ID         string    `bson:"_id" json:"id"`
	ClientID   string    `bson:"clientId" json:"clientId"`
	ClientName string    `bson:"clientName" json:"clientName"`
	Message    string    `bson:"message" json:"message"`
	SentAt     time.Time `bson:"sentAt" json:"sentAt"`
	Seq        int       `bson:"seq" json:"-"`
}

// NotificationDraft is a send waiting to be recorded
type NotificationDraft struct {
	ClientID   string `json:"clientId" validate:"required"`
	ClientName string `json:"clientName" validate:"required"`
	Message    string `json:"message" validate:"required"`
}
