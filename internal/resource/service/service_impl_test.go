package service

import (
	"context"
	"errors"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	resourcedomain "github.com/agrihub/fieldbill/internal/resource/domain"
	"github.com/agrihub/fieldbill/internal/resource/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupResourceService(t *testing.T) resourcedomain.Service {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&resourcedomain.Resource{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	return New(Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  repository.Provide(),
	})
}

func TestCreateAndListResources(t *testing.T) {
	svc := setupResourceService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, resourcedomain.CreateRequest{Name: "plowing", HourlyRate: "12.5"})
	require.NoError(t, err)
	assert.Equal(t, "plowing", created.Name)
	assert.Equal(t, "12.50", created.HourlyRate)

	// No rate means count-billed, stored as zero.
	counted, err := svc.Create(ctx, resourcedomain.CreateRequest{Name: "baling"})
	require.NoError(t, err)
	assert.Equal(t, "0.00", counted.HourlyRate)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestCreateResourceValidation(t *testing.T) {
	svc := setupResourceService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, resourcedomain.CreateRequest{Name: "   "})
	assert.ErrorIs(t, err, resourcedomain.ErrInvalidName)

	_, err = svc.Create(ctx, resourcedomain.CreateRequest{Name: "plowing", HourlyRate: "-4"})
	assert.ErrorIs(t, err, resourcedomain.ErrInvalidRate)

	_, err = svc.Create(ctx, resourcedomain.CreateRequest{Name: "plowing", HourlyRate: "cheap"})
	assert.ErrorIs(t, err, resourcedomain.ErrInvalidRate)
}

func TestCreateDuplicateName(t *testing.T) {
	svc := setupResourceService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, resourcedomain.CreateRequest{Name: "plowing", HourlyRate: "10"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, resourcedomain.CreateRequest{Name: "plowing", HourlyRate: "20"})
	assert.ErrorIs(t, err, resourcedomain.ErrNameTaken)
}

func TestGetByName(t *testing.T) {
	svc := setupResourceService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, resourcedomain.CreateRequest{Name: "plowing", HourlyRate: "10"})
	require.NoError(t, err)

	got, err := svc.GetByName(ctx, "plowing")
	require.NoError(t, err)
	assert.Equal(t, "10.00", got.HourlyRate)

	_, err = svc.GetByName(ctx, "ghost")
	assert.ErrorIs(t, err, resourcedomain.ErrNotFound)
}

func TestDeleteResource(t *testing.T) {
	svc := setupResourceService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, resourcedomain.CreateRequest{Name: "plowing", HourlyRate: "10"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, created.ID))

	err = svc.Delete(ctx, created.ID)
	assert.ErrorIs(t, err, resourcedomain.ErrNotFound)

	err = svc.Delete(ctx, "not-an-id")
	assert.True(t, errors.Is(err, resourcedomain.ErrInvalidID))
}
