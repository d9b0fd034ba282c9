package domain

import (
	"time"

	"gorm.io/gorm"
)

// Event represents a webinar, workshop or conference
type Event struct {
	ID               uint       `gorm:"primaryKey" json:"id"`
	Title            string     `gorm:"not null" json:"title"`
	Slug             string     `gorm:"uniqueIndex;not null" json:"slug"`
	Description      string     `gorm:"type:text;not null" json:"description"`
	Type             string     `gorm:"not null;index" json:"type"` // webinar, workshop, conference
	Date             time.Time  `gorm:"not null;index:idx_events_active_date,priority:2" json:"date"`
	Time             string     `gorm:"not null" json:"time"`
	Duration         string     `gorm:"not null" json:"duration"`
	Speakers         string     `gorm:"type:text" json:"speakers"` // newline-separated "name, role"
	RecordingURL     *string    `json:"recording_url,omitempty"`
	MaxAttendees     *int       `json:"max_attendees,omitempty"` // nil or 0 means unbounded
	CurrentAttendees int        `gorm:"default:0" json:"current_attendees"`
	IsActive         bool       `gorm:"default:true;index:idx_events_active_date,priority:1" json:"is_active"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        *time.Time `json:"updated_at,omitempty"`
}

// TableName specifies the table name for Event
func (Event) TableName() string {
	return "events"
}

// BeforeCreate hook
func (e *Event) BeforeCreate(tx *gorm.DB) error {
	e.CreatedAt = time.Now()
	return nil
}

// BeforeUpdate hook
func (e *Event) BeforeUpdate(tx *gorm.DB) error {
	now := time.Now()
	e.UpdatedAt = &now
	return nil
}

// HasCapacity reports whether the event limits its attendee count.
func (e *Event) HasCapacity() bool {
	return e.MaxAttendees != nil && *e.MaxAttendees > 0
}

// EventRegistration represents one attendee signup for an event.
// The (event_id, email) pair is unique at the storage level; the index is the
// final authority on duplicate registrations.
type EventRegistration struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	EventID   uint      `gorm:"not null;uniqueIndex:idx_registrations_event_email,priority:1" json:"event_id"`
	Event     *Event    `gorm:"foreignKey:EventID" json:"event,omitempty"`
	Name      string    `gorm:"not null" json:"name"`
	Email     string    `gorm:"not null;index;uniqueIndex:idx_registrations_event_email,priority:2" json:"email"`
	Company   *string   `json:"company,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for EventRegistration
func (EventRegistration) TableName() string {
	return "event_registrations"
}

// BeforeCreate hook
func (r *EventRegistration) BeforeCreate(tx *gorm.DB) error {
	r.CreatedAt = time.Now()
	return nil
}
