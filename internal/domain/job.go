package domain

import (
	"time"

	"gorm.io/gorm"
)

// Job represents an open position on the careers page
type Job struct {
	ID               uint       `gorm:"primaryKey" json:"id"`
	Title            string     `gorm:"not null" json:"title"`
	Slug             string     `gorm:"uniqueIndex;not null" json:"slug"`
	Department       string     `gorm:"not null;index:idx_jobs_active_department,priority:2" json:"department"`
	Location         string     `gorm:"not null" json:"location"`
	Type             string     `gorm:"not null" json:"type"` // Full-time, Part-time, Contract
	Description      string     `gorm:"type:text;not null" json:"description"`
	Requirements     string     `gorm:"type:text" json:"requirements"`     // newline-separated
	Responsibilities string     `gorm:"type:text" json:"responsibilities"` // newline-separated
	SalaryMin        *int       `json:"salary_min,omitempty"`
	SalaryMax        *int       `json:"salary_max,omitempty"`
	SalaryCurrency   string     `gorm:"default:'USD'" json:"salary_currency"`
	IsActive         bool       `gorm:"default:true;index:idx_jobs_active_department,priority:1" json:"is_active"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        *time.Time `json:"updated_at,omitempty"`
}

// TableName specifies the table name for Job
func (Job) TableName() string {
	return "jobs"
}

// BeforeCreate hook
func (j *Job) BeforeCreate(tx *gorm.DB) error {
	j.CreatedAt = time.Now()
	return nil
}

// BeforeUpdate hook
func (j *Job) BeforeUpdate(tx *gorm.DB) error {
	now := time.Now()
	j.UpdatedAt = &now
	return nil
}
