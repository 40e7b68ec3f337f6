package models

import (
	"time"
)

const (
	ReportStatusPending  = "pending"
	ReportStatusResolved = "resolved"
)

const (
	ReportedItemUser = "user"
	ReportedItemJob  = "job"
)

const (
	ReportActionDisableUser   = "disableUser"
	ReportActionRemoveContent = "removeContent"
)

type Report struct {
	ID               string    `json:"id" bson:"_id"`
	ReporterID       string    `json:"reporter" bson:"reporter"`
	ReportedItem     string    `json:"reportedItem" bson:"reportedItem"`
	ReportedItemType string    `json:"reportedItemType" bson:"reportedItemType"`
	Reason           string    `json:"reason" bson:"reason"`
	Status           string    `json:"status" bson:"status"`
	ResolutionNotes  string    `json:"resolutionNotes,omitempty" bson:"resolutionNotes,omitempty"`
	ResolvedBy       string    `json:"resolvedBy,omitempty" bson:"resolvedBy,omitempty"`
	ResolvedAt       time.Time `json:"resolvedAt,omitempty" bson:"resolvedAt,omitempty"`
	CreatedAt        time.Time `json:"createdAt" bson:"createdAt"`
}

// ReporterInfo is the subset of the reporter's account shown alongside a
// pending report.
type ReporterInfo struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// PendingReport is a report joined with its reporter for the admin queue.
type PendingReport struct {
	Report
	Reporter ReporterInfo `json:"reporter"`
}

type ResolveReportRequest struct {
	Action          string `json:"action"`
	ResolutionNotes string `json:"resolutionNotes"`
}
