package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, resource *Resource) error
	Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) (int64, error)
	FindByName(ctx context.Context, db *gorm.DB, name string) (*Resource, error)
	List(ctx context.Context, db *gorm.DB) ([]Resource, error)
}
