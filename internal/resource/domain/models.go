package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// Resource is a billable shared asset. A zero hourly rate marks the
// resource as count-billed instead of time-billed.
type Resource struct {
	ID         snowflake.ID    `json:"id" gorm:"primaryKey"`
	Name       string          `json:"name" gorm:"type:text;not null;uniqueIndex:ux_resources_name"`
	HourlyRate decimal.Decimal `json:"hourlyRate" gorm:"type:numeric(12,2);not null;default:0"`
	CreatedAt  time.Time       `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt  time.Time       `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Resource) TableName() string { return "resources" }

// CountBilled reports whether bills against this resource accrue by
// count rather than elapsed time.
func (r Resource) CountBilled() bool {
	return r.HourlyRate.IsZero()
}
