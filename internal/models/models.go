package models

import (
	"time"

	"gorm.io/gorm"
)

// Status vocabulary for a tracked application.
const (
	StatusApplied            = "Applied"
	StatusAssessment         = "Assessment"
	StatusInterviewScheduled = "Interview Scheduled"
	StatusOfferReceived      = "Offer Received"
	StatusRejected           = "Rejected"
	StatusFollowedUp         = "Followed Up"
	StatusWithdrew           = "Withdrew"
)

var knownStatuses = map[string]bool{
	StatusApplied:            true,
	StatusAssessment:         true,
	StatusInterviewScheduled: true,
	StatusOfferReceived:      true,
	StatusRejected:           true,
	StatusFollowedUp:         true,
	StatusWithdrew:           true,
}

// KnownStatus reports whether s is part of the status vocabulary.
func KnownStatus(s string) bool {
	return knownStatuses[s]
}

// Application mirrors one sheet row. The sheet stays the source of truth;
// this copy powers the dashboard fallback and the event log.
type Application struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Company          string `gorm:"uniqueIndex;not null" json:"company"`
	JobTitle         string `json:"job_title"`
	Contact          string `json:"contact"`
	Status           string `gorm:"default:'Applied'" json:"status"`
	Notes            string `gorm:"type:text" json:"notes"`
	Link             string `json:"link"`
	Salary           string `json:"salary"`
	Location         string `json:"location"`
	NextStepDate     string `json:"next_step_date"`
	RecruiterContact string `json:"recruiter_contact"`
	DateApplied      string `json:"date_applied"`
	LastUpdated      string `json:"last_updated"`
}

type ApplicationEvent struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	CreatedAt     time.Time `json:"created_at"`
	ApplicationID uint      `json:"application_id"`
	EventType     string    `json:"event_type"`
	Details       string    `gorm:"type:text" json:"details"`
}
