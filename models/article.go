package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Article lifecycle states.
const (
	StatusDraft     = "Draft"
	StatusPublished = "Published"
)

// Article is an author-owned piece of content. Deletion is soft: DeletedAt is set and the
// row is filtered out of every listing, but read events and analytics keep referencing it.
type Article struct {
	ID        string     `gorm:"primaryKey;size:36" json:"id"`
	Title     string     `gorm:"size:150;not null" json:"title"`
	Content   string     `gorm:"type:text;not null" json:"content"`
	Category  string     `gorm:"size:64;index;not null" json:"category"`
	Status    string     `gorm:"size:16;index;not null;default:'Draft'" json:"status"`
	AuthorID  string     `gorm:"size:36;index;not null" json:"author_id"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `gorm:"index" json:"deleted_at,omitempty"`
	Author    *User      `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
}

// BeforeCreate assigns a UUID primary key when one is not provided.
func (a *Article) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

// Deleted reports whether the article has been soft deleted.
func (a *Article) Deleted() bool {
	return a.DeletedAt != nil
}
