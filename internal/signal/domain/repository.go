package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, intent *Intent) error
	FindPending(ctx context.Context, db *gorm.DB, limit int) ([]Intent, error)
	MarkSent(ctx context.Context, db *gorm.DB, id snowflake.ID, at time.Time) error
	MarkRetry(ctx context.Context, db *gorm.DB, id snowflake.ID, lastError string) error
	MarkFailed(ctx context.Context, db *gorm.DB, id snowflake.ID, lastError string) error
}
