package domain

import (
	"time"

	"gorm.io/gorm"
)

// Resource represents a downloadable asset (whitepaper, ebook, template, guide)
type Resource struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	Title         string     `gorm:"not null" json:"title"`
	Slug          string     `gorm:"uniqueIndex;not null" json:"slug"`
	Description   string     `gorm:"type:text;not null" json:"description"`
	Type          string     `gorm:"not null;index" json:"type"` // whitepaper, ebook, template, guide
	FileURL       string     `gorm:"not null" json:"file_url"`
	ThumbnailURL  *string    `json:"thumbnail_url,omitempty"`
	IsGated       bool       `gorm:"default:false" json:"is_gated"`
	DownloadCount int        `gorm:"default:0" json:"download_count"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     *time.Time `json:"updated_at,omitempty"`
}

// TableName specifies the table name for Resource
func (Resource) TableName() string {
	return "resources"
}

// BeforeCreate hook
func (r *Resource) BeforeCreate(tx *gorm.DB) error {
	r.CreatedAt = time.Now()
	return nil
}

// BeforeUpdate hook
func (r *Resource) BeforeUpdate(tx *gorm.DB) error {
	now := time.Now()
	r.UpdatedAt = &now
	return nil
}

// ResourceDownload captures who requested a resource. Ungated requests may
// skip identity capture entirely, in which case no row is written and only the
// resource counter moves.
type ResourceDownload struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	ResourceID   uint      `gorm:"not null;index:idx_downloads_resource_email,priority:1" json:"resource_id"`
	Resource     *Resource `gorm:"foreignKey:ResourceID" json:"resource,omitempty"`
	Email        string    `gorm:"not null;index;index:idx_downloads_resource_email,priority:2" json:"email"`
	Name         *string   `json:"name,omitempty"`
	DownloadedAt time.Time `json:"downloaded_at"`
}

// TableName specifies the table name for ResourceDownload
func (ResourceDownload) TableName() string {
	return "resource_downloads"
}

// BeforeCreate hook
func (d *ResourceDownload) BeforeCreate(tx *gorm.DB) error {
	if d.DownloadedAt.IsZero() {
		d.DownloadedAt = time.Now()
	}
	return nil
}
