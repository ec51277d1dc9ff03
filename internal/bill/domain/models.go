package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// Bill statuses form a linear lifecycle: running -> pending -> completed.
const (
	StatusRunning   = "running"
	StatusPending   = "pending"
	StatusCompleted = "completed"
)

// Bill is one usage session and its billing record. HourlyRate and
// CountBilled are frozen at start so a later registry edit cannot flip
// the billing mode of an open session.
type Bill struct {
	ID            snowflake.ID     `json:"id" gorm:"primaryKey"`
	OwnerID       string           `json:"owner_id" gorm:"type:text;not null;index:ix_bills_owner_created,priority:1"`
	ResourceName  string           `json:"resource_name" gorm:"type:text;not null"`
	HourlyRate    decimal.Decimal  `json:"hourly_rate" gorm:"type:numeric(12,2);not null;default:0"`
	CountBilled   bool             `json:"count_billed" gorm:"not null;default:false"`
	StartTime     time.Time        `json:"start_time" gorm:"not null"`
	StopTime      *time.Time       `json:"stop_time"`
	Status        string           `json:"status" gorm:"type:text;not null;default:'running';index:ix_bills_status"`
	ElapsedTime   string           `json:"elapsed_time" gorm:"column:elapsed_time;type:text"`
	Count         *int64           `json:"count"`
	PricePerCount *decimal.Decimal `json:"price_per_count" gorm:"type:numeric(12,2)"`
	Cost          *decimal.Decimal `json:"cost" gorm:"type:numeric(12,2)"`
	PaymentMethod string           `json:"payment_method" gorm:"type:text"`
	CreatedAt     time.Time        `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP;index:ix_bills_owner_created,priority:2,sort:desc"`
}

// TableName sets the database table name.
func (Bill) TableName() string { return "bills" }
