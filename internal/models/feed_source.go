package models

import (
	"time"

	"gorm.io/datatypes"
)

// FeedSource records per-endpoint collection health so operators can see
// which feeds are failing without digging through logs.
type FeedSource struct {
	ID           uint64         `gorm:"primaryKey;autoIncrement" json:"id"`
	URL          string         `gorm:"type:varchar(500);uniqueIndex;not null" json:"url"`
	Enabled      bool           `gorm:"not null;default:true" json:"enabled"`
	LastPollAt   *time.Time     `gorm:"type:timestamptz" json:"last_poll_at"`
	LastError    *string        `gorm:"type:text" json:"last_error"`
	HealthStatus string         `gorm:"type:varchar(20);default:'unknown'" json:"health_status"`
	Config       datatypes.JSON `gorm:"type:jsonb" json:"config,omitempty"`

	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"type:timestamptz;autoUpdateTime" json:"updated_at"`
}

func (FeedSource) TableName() string {
	return "dim_feed_source"
}
