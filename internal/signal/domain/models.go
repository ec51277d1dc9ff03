package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// Signal actions accepted from clients and relayed to field hardware.
const (
	ActionStart = "start"
	ActionStop  = "stop"
)

// Intent statuses. pending intents are drained by the relay worker;
// failed ones exhausted their publish attempts.
const (
	StatusPending = "pending"
	StatusSent    = "sent"
	StatusFailed  = "failed"
)

// Intent is one persisted signal awaiting delivery to the hardware
// broker. Persisting before publishing makes relay failures retryable
// instead of silently dropped.
type Intent struct {
	ID        snowflake.ID      `json:"id" gorm:"primaryKey"`
	BillID    snowflake.ID      `json:"bill_id" gorm:"not null"`
	Action    string            `json:"action" gorm:"type:text;not null"`
	Payload   datatypes.JSONMap `json:"payload"`
	Status    string            `json:"status" gorm:"type:text;not null;default:'pending';index:ix_signal_intents_status_created,priority:1"`
	Attempts  int               `json:"attempts" gorm:"not null;default:0"`
	LastError string            `json:"last_error" gorm:"type:text"`
	CreatedAt time.Time         `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP;index:ix_signal_intents_status_created,priority:2"`
	SentAt    *time.Time        `json:"sent_at"`
}

// TableName sets the database table name.
func (Intent) TableName() string { return "signal_intents" }
