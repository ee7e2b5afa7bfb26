package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// DocURL is a labeled documentation link attached to an update.
type DocURL struct {
	Label string `json:"label"`
	URL   string `json:"url"`
}

// Update is a fetched external announcement. SourceURL is the natural
// idempotency key: re-ingesting the same URL returns the existing row.
type Update struct {
	ID          uuid.UUID                   `gorm:"type:uuid;primaryKey" json:"id"`
	ProviderID  *uuid.UUID                  `gorm:"type:uuid;index" json:"provider_id,omitempty"`
	Provider    string                      `gorm:"column:provider;index" json:"provider"`
	Title       string                      `gorm:"column:title;not null" json:"title"`
	Summary     string                      `gorm:"column:summary" json:"summary,omitempty"`
	RawText     string                      `gorm:"column:raw_text" json:"raw_text,omitempty"`
	SourceURL   string                      `gorm:"column:source_url;uniqueIndex;not null" json:"source_url"`
	PublishedAt *time.Time                  `gorm:"column:published_at" json:"published_at,omitempty"`
	DocURLs     datatypes.JSONSlice[DocURL] `gorm:"column:doc_urls" json:"doc_urls"`
	FetchedAt   time.Time                   `gorm:"column:fetched_at;not null" json:"fetched_at"`
	Processed   bool                        `gorm:"column:processed;not null;default:false;index" json:"processed"`
}

func (Update) TableName() string { return "update_record" }
