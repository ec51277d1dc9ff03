package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	resourcedomain "github.com/agrihub/fieldbill/internal/resource/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() resourcedomain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, resource *resourcedomain.Resource) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO resources (id, name, hourly_rate, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)`,
		resource.ID,
		resource.Name,
		resource.HourlyRate,
		resource.CreatedAt,
		resource.UpdatedAt,
	).Error
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) (int64, error) {
	res := db.WithContext(ctx).Exec(`DELETE FROM resources WHERE id = ?`, id)
	return res.RowsAffected, res.Error
}

func (r *repo) FindByName(ctx context.Context, db *gorm.DB, name string) (*resourcedomain.Resource, error) {
	var resource resourcedomain.Resource
	err := db.WithContext(ctx).Raw(
		`SELECT id, name, hourly_rate, created_at, updated_at
		 FROM resources WHERE name = ?`,
		name,
	).Scan(&resource).Error
	if err != nil {
		return nil, err
	}
	if resource.ID == 0 {
		return nil, nil
	}
	return &resource, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB) ([]resourcedomain.Resource, error) {
	var resources []resourcedomain.Resource
	err := db.WithContext(ctx).Raw(
		`SELECT id, name, hourly_rate, created_at, updated_at
		 FROM resources ORDER BY created_at ASC`,
	).Scan(&resources).Error
	if err != nil {
		return nil, err
	}
	return resources, nil
}
