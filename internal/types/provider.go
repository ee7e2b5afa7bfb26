package types

import (
	"time"

	"github.com/google/uuid"
)

type Provider struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name         string    `gorm:"column:name;uniqueIndex;not null" json:"name"`
	Category     string    `gorm:"column:category" json:"category"`
	WebsiteURL   string    `gorm:"column:website_url" json:"website_url"`
	ChangelogURL string    `gorm:"column:changelog_url" json:"changelog_url"`
	CreatedAt    time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time `gorm:"not null" json:"updated_at"`
}

func (Provider) TableName() string { return "provider" }
