package domain

import (
	"time"

	"gorm.io/gorm"
)

// Application statuses. Any transition is allowed; the hiring pipeline is
// operator-driven and the model does not lock terminal states.
const (
	ApplicationStatusNew       = "new"
	ApplicationStatusReviewing = "reviewing"
	ApplicationStatusInterview = "interview"
	ApplicationStatusOffer     = "offer"
	ApplicationStatusRejected  = "rejected"
)

// Application represents a job application submitted from the careers page
type Application struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	JobID       uint       `gorm:"not null;index:idx_applications_job_status,priority:1" json:"job_id"`
	Job         *Job       `gorm:"foreignKey:JobID" json:"job,omitempty"`
	Name        string     `gorm:"not null" json:"name"`
	Email       string     `gorm:"not null;index" json:"email"`
	Phone       string     `gorm:"not null" json:"phone"`
	ResumeURL   string     `gorm:"not null" json:"resume_url"`
	CoverLetter *string    `gorm:"type:text" json:"cover_letter,omitempty"`
	LinkedIn    *string    `json:"linked_in,omitempty"`
	Status      string     `gorm:"default:'new';index:idx_applications_job_status,priority:2" json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}

// TableName specifies the table name for Application
func (Application) TableName() string {
	return "applications"
}

// BeforeCreate hook
func (a *Application) BeforeCreate(tx *gorm.DB) error {
	a.CreatedAt = time.Now()
	if a.Status == "" {
		a.Status = ApplicationStatusNew
	}
	return nil
}

// BeforeUpdate hook
func (a *Application) BeforeUpdate(tx *gorm.DB) error {
	now := time.Now()
	a.UpdatedAt = &now
	return nil
}

// ValidApplicationStatus reports whether s is a known application status.
func ValidApplicationStatus(s string) bool {
	switch s {
	case ApplicationStatusNew, ApplicationStatusReviewing, ApplicationStatusInterview,
		ApplicationStatusOffer, ApplicationStatusRejected:
		return true
	}
	return false
}
