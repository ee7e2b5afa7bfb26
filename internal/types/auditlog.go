package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// AuditLog rows are append-only, never updated or deleted.
type AuditLog struct {
	ID            uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	EntityType    string         `gorm:"column:entity_type;not null;index:idx_audit_entity" json:"entity_type"`
	EntityID      uuid.UUID      `gorm:"type:uuid;not null;index:idx_audit_entity" json:"entity_id"`
	Action        string         `gorm:"column:action;not null;index" json:"action"`
	PreviousValue datatypes.JSON `gorm:"column:previous_value" json:"previous_value,omitempty"`
	NewValue      datatypes.JSON `gorm:"column:new_value" json:"new_value,omitempty"`
	Actor         string         `gorm:"column:actor" json:"actor"`
	Timestamp     time.Time      `gorm:"column:timestamp;not null;index" json:"timestamp"`
}

func (AuditLog) TableName() string { return "audit_log" }
