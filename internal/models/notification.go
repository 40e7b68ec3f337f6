package models

import (
	"time"
)

const (
	NotificationJobApproved = "job_approved"
	NotificationJobRejected = "job_rejected"
)

// Notification is an in-app message created as a side effect of moderation;
// this subsystem only ever writes them.
type Notification struct {
	ID          string    `json:"id" bson:"_id"`
	UserID      string    `json:"user" bson:"user"`
	Message     string    `json:"message" bson:"message"`
	Type        string    `json:"type" bson:"type"`
	RelatedItem string    `json:"relatedItem,omitempty" bson:"relatedItem,omitempty"`
	IsRead      bool      `json:"isRead" bson:"isRead"`
	CreatedAt   time.Time `json:"createdAt" bson:"createdAt"`
}
