package models

import (
	"time"

	"gorm.io/datatypes"
)

const (
	SentimentPositive = "positive"
	SentimentNegative = "negative"
	SentimentNeutral  = "neutral"
)

// NewsRaw is a staged article exactly as collected from a feed. Rows are
// never deleted; IsProcessed flips to true once the analysis row for the
// article has been durably saved.
type NewsRaw struct {
	ID          uint64         `gorm:"primaryKey;autoIncrement" json:"id"`
	FeedSource  string         `gorm:"type:varchar(500);not null;index" json:"feed_source"`
	Title       string         `gorm:"type:text;not null" json:"title"`
	Content     string         `gorm:"type:text;not null" json:"content"`
	Link        *string        `gorm:"type:varchar(500)" json:"link"`
	PublishedAt *time.Time     `gorm:"type:timestamptz" json:"published_date"`
	RawData     datatypes.JSON `gorm:"type:jsonb" json:"-"`
	IsProcessed bool           `gorm:"not null;default:false;index" json:"is_processed"`
	CreatedAt   time.Time      `gorm:"type:timestamptz;autoCreateTime;index" json:"created_at"`
}

func (NewsRaw) TableName() string {
	return "stg_news_raw"
}

// NewsAnalysis is the classified view of one raw article. Immutable once
// created. Ticker is nil when the classifier could not tie the article to a
// tracked instrument; Degraded marks rows whose neutral default was
// substituted after a provider failure rather than produced by it.
type NewsAnalysis struct {
	ID             uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	Ticker         *string   `gorm:"type:varchar(20);index" json:"ticker"`
	Title          string    `gorm:"type:text;not null" json:"title"`
	Content        string    `gorm:"type:text;not null" json:"content"`
	Sentiment      string    `gorm:"type:varchar(20);not null" json:"sentiment"`
	ImpactScore    float64   `gorm:"not null" json:"impact_score"`
	Analysis       *string   `gorm:"type:text" json:"analysis"`
	SourceURL      *string   `gorm:"type:varchar(500)" json:"source_url"`
	Degraded       bool      `gorm:"not null;default:false" json:"degraded"`
	DegradedReason *string   `gorm:"type:text" json:"degraded_reason,omitempty"`
	AnalyzedAt     time.Time `gorm:"type:timestamptz;not null" json:"analyzed_at"`
	CreatedAt      time.Time `gorm:"type:timestamptz;autoCreateTime;index" json:"created_at"`
}

func (NewsAnalysis) TableName() string {
	return "fct_news_analysis"
}
