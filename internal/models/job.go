package models

import (
	"time"
)

const (
	JobStatusPending  = "pending"
	JobStatusApproved = "approved"
	JobStatusRejected = "rejected"
	JobStatusExpired  = "expired"
	JobStatusFilled   = "filled"
)

const (
	JobActionApprove = "approve"
	JobActionReject  = "reject"
)

type Job struct {
	ID            string    `json:"id" bson:"_id"`
	Title         string    `json:"title" bson:"title"`
	Description   string    `json:"description" bson:"description"`
	Location      string    `json:"location" bson:"location"`
	EmployerID    string    `json:"employer" bson:"employer"`
	EmployerEmail string    `json:"employerEmail,omitempty" bson:"employerEmail,omitempty"`
	Status        string    `json:"status" bson:"status"`
	CreatedAt     time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt" bson:"updatedAt"`
}

// ReviewJobRequest carries the admin's approve/reject decision. EmployerEmail
// is only consulted when the job record has none stored. Action validation
// lives in the service so the invalid-action path stays fail-fast.
type ReviewJobRequest struct {
	Action        string `json:"action"`
	EmployerEmail string `json:"employerEmail,omitempty"`
}
