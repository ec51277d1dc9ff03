package repository

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	billdomain "github.com/agrihub/fieldbill/internal/bill/domain"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const billColumns = `id, owner_id, resource_name, hourly_rate, count_billed,
	start_time, stop_time, status, elapsed_time, count, price_per_count,
	cost, payment_method, created_at`

type repo struct{}

func Provide() billdomain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, bill *billdomain.Bill) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO bills (id, owner_id, resource_name, hourly_rate, count_billed,
		  start_time, status, price_per_count, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		bill.ID,
		bill.OwnerID,
		bill.ResourceName,
		bill.HourlyRate,
		bill.CountBilled,
		bill.StartTime,
		bill.Status,
		bill.PricePerCount,
		bill.CreatedAt,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*billdomain.Bill, error) {
	var bill billdomain.Bill
	err := db.WithContext(ctx).Raw(
		`SELECT `+billColumns+` FROM bills WHERE id = ?`,
		id,
	).Scan(&bill).Error
	if err != nil {
		return nil, err
	}
	if bill.ID == 0 {
		return nil, nil
	}
	return &bill, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter billdomain.ListFilter) ([]billdomain.Bill, error) {
	query := `SELECT ` + billColumns + ` FROM bills`
	clauses := make([]string, 0, 3)
	args := make([]any, 0, 4)

	if filter.OwnerID != "" && filter.OwnerID != "all" {
		clauses = append(clauses, "owner_id = ?")
		args = append(args, filter.OwnerID)
	}
	if filter.ResourceName != "" {
		clauses = append(clauses, "resource_name = ?")
		args = append(args, filter.ResourceName)
	}
	if filter.MonthStart != nil && filter.MonthEnd != nil {
		clauses = append(clauses, "created_at >= ? AND created_at < ?")
		args = append(args, *filter.MonthStart, *filter.MonthEnd)
	}

	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY created_at DESC"

	var bills []billdomain.Bill
	err := db.WithContext(ctx).Raw(query, args...).Scan(&bills).Error
	if err != nil {
		return nil, err
	}
	return bills, nil
}

func (r *repo) MarkStopped(ctx context.Context, db *gorm.DB, update billdomain.StopUpdate) (int64, error) {
	res := db.WithContext(ctx).Exec(
		`UPDATE bills
		 SET stop_time = ?, elapsed_time = ?, count = ?, cost = ?, status = ?
		 WHERE id = ? AND status = ? AND stop_time IS NULL`,
		update.StopTime,
		update.ElapsedTime,
		update.Count,
		update.Cost,
		billdomain.StatusPending,
		update.ID,
		billdomain.StatusRunning,
	)
	return res.RowsAffected, res.Error
}

func (r *repo) MarkPaid(ctx context.Context, db *gorm.DB, id snowflake.ID, paymentMethod string) (int64, error) {
	res := db.WithContext(ctx).Exec(
		`UPDATE bills SET status = ?, payment_method = ? WHERE id = ? AND status = ?`,
		billdomain.StatusCompleted,
		paymentMethod,
		id,
		billdomain.StatusPending,
	)
	return res.RowsAffected, res.Error
}

func (r *repo) UpdateCost(ctx context.Context, db *gorm.DB, id snowflake.ID, cost decimal.Decimal) (int64, error) {
	res := db.WithContext(ctx).Exec(
		`UPDATE bills SET cost = ? WHERE id = ? AND status = ?`,
		cost,
		id,
		billdomain.StatusPending,
	)
	return res.RowsAffected, res.Error
}

func (r *repo) UpdateFields(ctx context.Context, db *gorm.DB, id snowflake.ID, fields map[string]any) (int64, error) {
	res := db.WithContext(ctx).
		Table("bills").
		Where("id = ?", id).
		Updates(fields)
	return res.RowsAffected, res.Error
}

func (r *repo) DeleteByOwner(ctx context.Context, db *gorm.DB, ownerID string) (int64, error) {
	res := db.WithContext(ctx).Exec(`DELETE FROM bills WHERE owner_id = ?`, ownerID)
	return res.RowsAffected, res.Error
}
