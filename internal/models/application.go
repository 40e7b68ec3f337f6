package models

import (
	"time"
)

type Application struct {
	ID          string    `json:"id" bson:"_id"`
	JobID       string    `json:"job" bson:"job"`
	ApplicantID string    `json:"applicant" bson:"applicant"`
	Status      string    `json:"status" bson:"status"`
	CreatedAt   time.Time `json:"createdAt" bson:"createdAt"`
}
