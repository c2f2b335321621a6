package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Call kinds recorded in the usage ledger
const (
	KindMealPlan    = "meal_plan"
	KindReplaceMeal = "replace_meal"
	KindGroceryList = "grocery_list"
	KindMealImage   = "meal_image"
)

// Outcomes of a recorded call
const (
	OutcomeOK            = "ok"
	OutcomeRateLimited   = "rate_limited"
	OutcomeContentPolicy = "content_policy"
	OutcomeEmptyResponse = "empty_response"
	OutcomeParseError    = "parse_error"
	OutcomeError         = "error"
)

// UsageRecord is one call to an upstream provider. Prompts and meals are not stored.
type UsageRecord struct {
	ID               uuid.UUID `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt        time.Time `gorm:"index" json:"created_at"`
	Kind             string    `gorm:"size:32;not null;index" json:"kind"`
	Provider         string    `gorm:"size:32;not null" json:"provider"`
	Model            string    `gorm:"size:64" json:"model"`
	Outcome          string    `gorm:"size:32;not null" json:"outcome"`
	PromptTokens     int       `json:"prompt_tokens"`
	CompletionTokens int       `json:"completion_tokens"`
	LatencyMS        int64     `json:"latency_ms"`
}

// TableName returns the table name for the UsageRecord model
func (UsageRecord) TableName() string {
	return "usage_records"
}

// BeforeCreate assigns an id when none is set
func (u *UsageRecord) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// Succeeded reports whether the call produced a usable result
func (u UsageRecord) Succeeded() bool {
	return u.Outcome == OutcomeOK
}
