package models

import (
	"time"

	"gorm.io/datatypes"
)

// Profile is a CRM user. Only active admins and salespeople own companies.
type Profile struct {
	ID        string `gorm:"type:uuid;primaryKey"`
	FullName  string `gorm:"type:text;not null"`
	Email     string `gorm:"size:320;not null;uniqueIndex"`
	Role      string `gorm:"type:text;not null"`
	Active    bool   `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Profile) TableName() string {
	return "profiles"
}

type AuditLog struct {
	ID         int64          `gorm:"primaryKey"`
	UserID     string         `gorm:"type:uuid;index"`
	Action     string         `gorm:"type:text;not null;index"`
	EntityType string         `gorm:"type:text;not null"`
	Details    datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt  time.Time
}

func (AuditLog) TableName() string {
	return "audit_logs"
}
