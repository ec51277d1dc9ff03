package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	signaldomain "github.com/agrihub/fieldbill/internal/signal/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() signaldomain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, intent *signaldomain.Intent) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO signal_intents (id, bill_id, action, payload, status, attempts, created_at)
		 VALUES (?, ?, ?, ?, ?, 0, ?)`,
		intent.ID,
		intent.BillID,
		intent.Action,
		intent.Payload,
		intent.Status,
		intent.CreatedAt,
	).Error
}

func (r *repo) FindPending(ctx context.Context, db *gorm.DB, limit int) ([]signaldomain.Intent, error) {
	var intents []signaldomain.Intent
	err := db.WithContext(ctx).Raw(
		`SELECT id, bill_id, action, payload, status, attempts, last_error, created_at, sent_at
		 FROM signal_intents
		 WHERE status = ?
		 ORDER BY created_at ASC
		 LIMIT ?`,
		signaldomain.StatusPending,
		limit,
	).Scan(&intents).Error
	if err != nil {
		return nil, err
	}
	return intents, nil
}

func (r *repo) MarkSent(ctx context.Context, db *gorm.DB, id snowflake.ID, at time.Time) error {
	return db.WithContext(ctx).Exec(
		`UPDATE signal_intents
		 SET status = ?, attempts = attempts + 1, sent_at = ?, last_error = NULL
		 WHERE id = ?`,
		signaldomain.StatusSent,
		at,
		id,
	).Error
}

func (r *repo) MarkRetry(ctx context.Context, db *gorm.DB, id snowflake.ID, lastError string) error {
	return db.WithContext(ctx).Exec(
		`UPDATE signal_intents
		 SET attempts = attempts + 1, last_error = ?
		 WHERE id = ?`,
		lastError,
		id,
	).Error
}

func (r *repo) MarkFailed(ctx context.Context, db *gorm.DB, id snowflake.ID, lastError string) error {
	return db.WithContext(ctx).Exec(
		`UPDATE signal_intents
		 SET status = ?, attempts = attempts + 1, last_error = ?
		 WHERE id = ?`,
		signaldomain.StatusFailed,
		lastError,
		id,
	).Error
}
