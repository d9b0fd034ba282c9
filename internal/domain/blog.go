package domain

import (
	"time"

	"gorm.io/gorm"
)

// BlogPost represents a published article on the insights page
type BlogPost struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Title       string     `gorm:"not null" json:"title"`
	Slug        string     `gorm:"uniqueIndex;not null" json:"slug"`
	Excerpt     string     `gorm:"type:text;not null" json:"excerpt"`
	Content     string     `gorm:"type:text;not null" json:"content"`
	AuthorName  string     `gorm:"not null" json:"author_name"`
	Category    string     `gorm:"not null;index:idx_posts_category_published,priority:1" json:"category"`
	Tags        string     `gorm:"type:text" json:"tags"` // comma-separated
	CoverImage  *string    `json:"cover_image,omitempty"`
	IsPublished bool       `gorm:"default:false;index:idx_posts_category_published,priority:2" json:"is_published"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	ViewCount   int        `gorm:"default:0" json:"view_count"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}

// TableName specifies the table name for BlogPost
func (BlogPost) TableName() string {
	return "blog_posts"
}

// BeforeCreate hook
func (p *BlogPost) BeforeCreate(tx *gorm.DB) error {
	p.CreatedAt = time.Now()
	if p.IsPublished && p.PublishedAt == nil {
		now := time.Now()
		p.PublishedAt = &now
	}
	return nil
}

// BeforeUpdate hook
func (p *BlogPost) BeforeUpdate(tx *gorm.DB) error {
	now := time.Now()
	p.UpdatedAt = &now
	if p.IsPublished && p.PublishedAt == nil {
		p.PublishedAt = &now
	}
	return nil
}
