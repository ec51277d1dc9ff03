package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// StopUpdate finalizes a running bill. Exactly one of ElapsedTime or
// Count is set, depending on the bill's frozen billing mode.
type StopUpdate struct {
	ID          snowflake.ID
	StopTime    time.Time
	ElapsedTime string
	Count       *int64
	Cost        decimal.Decimal
}

// ListFilter narrows the bill listing. Owner "all" matches every owner.
type ListFilter struct {
	OwnerID      string
	ResourceName string
	MonthStart   *time.Time
	MonthEnd     *time.Time
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, bill *Bill) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Bill, error)
	List(ctx context.Context, db *gorm.DB, filter ListFilter) ([]Bill, error)

	// MarkStopped transitions running -> pending with a single
	// conditional statement; zero rows affected means the bill was
	// missing or no longer running.
	MarkStopped(ctx context.Context, db *gorm.DB, update StopUpdate) (int64, error)

	// MarkPaid transitions pending -> completed.
	MarkPaid(ctx context.Context, db *gorm.DB, id snowflake.ID, paymentMethod string) (int64, error)

	// UpdateCost rewrites the cost of a pending bill.
	UpdateCost(ctx context.Context, db *gorm.DB, id snowflake.ID, cost decimal.Decimal) (int64, error)

	// UpdateFields overwrites only the supplied columns, regardless of
	// bill status.
	UpdateFields(ctx context.Context, db *gorm.DB, id snowflake.ID, fields map[string]any) (int64, error)

	DeleteByOwner(ctx context.Context, db *gorm.DB, ownerID string) (int64, error)
}
