package domain

import (
	"time"

	"gorm.io/gorm"
)

// Contact statuses. Status changes are operator-driven and unconstrained.
const (
	ContactStatusNew     = "new"
	ContactStatusRead    = "read"
	ContactStatusReplied = "replied"
)

// Contact represents a contact form submission
type Contact struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	Name      string     `gorm:"not null" json:"name"`
	Email     string     `gorm:"not null;index" json:"email"`
	Company   *string    `json:"company,omitempty"`
	Subject   string     `gorm:"not null" json:"subject"`
	Message   string     `gorm:"type:text;not null" json:"message"`
	Status    string     `gorm:"default:'new';index:idx_contacts_status_created,priority:1" json:"status"` // new, read, replied
	CreatedAt time.Time  `gorm:"index:idx_contacts_status_created,priority:2" json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// TableName specifies the table name for Contact
func (Contact) TableName() string {
	return "contacts"
}

// BeforeCreate hook
func (c *Contact) BeforeCreate(tx *gorm.DB) error {
	c.CreatedAt = time.Now()
	if c.Status == "" {
		c.Status = ContactStatusNew
	}
	return nil
}

// BeforeUpdate hook
func (c *Contact) BeforeUpdate(tx *gorm.DB) error {
	now := time.Now()
	c.UpdatedAt = &now
	return nil
}

// ValidContactStatus reports whether s is a known contact status.
func ValidContactStatus(s string) bool {
	switch s {
	case ContactStatusNew, ContactStatusRead, ContactStatusReplied:
		return true
	}
	return false
}
