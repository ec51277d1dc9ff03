package service

import (
	"context"
	"errors"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	signaldomain "github.com/agrihub/fieldbill/internal/signal/domain"
	"github.com/agrihub/fieldbill/internal/signal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupSignalService(t *testing.T) (signaldomain.Service, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&signaldomain.Intent{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("snowflake node: %v", err)
	}

	svc := New(Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  repository.Provide(),
	})
	return svc, db
}

func TestEnqueuePersistsIntent(t *testing.T) {
	svc, db := setupSignalService(t)
	ctx := context.Background()

	node, _ := snowflake.NewNode(2)
	billID := node.Generate().String()

	resp, err := svc.Enqueue(ctx, signaldomain.EnqueueRequest{BillID: billID, Action: "start"})
	if err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	if resp.BillID != billID || resp.Action != "start" {
		t.Fatalf("unexpected response %+v", resp)
	}

	var intent signaldomain.Intent
	if err := db.Raw(`SELECT * FROM signal_intents WHERE bill_id = ?`, billID).Scan(&intent).Error; err != nil {
		t.Fatalf("find intent: %v", err)
	}
	if intent.Status != signaldomain.StatusPending {
		t.Fatalf("expected pending intent, got %s", intent.Status)
	}
	if intent.Attempts != 0 {
		t.Fatalf("expected zero attempts, got %d", intent.Attempts)
	}
}

func TestEnqueueValidation(t *testing.T) {
	svc, _ := setupSignalService(t)
	ctx := context.Background()

	_, err := svc.Enqueue(ctx, signaldomain.EnqueueRequest{BillID: "nope", Action: "start"})
	if !errors.Is(err, signaldomain.ErrInvalidBillID) {
		t.Fatalf("expected ErrInvalidBillID, got %v", err)
	}

	node, _ := snowflake.NewNode(2)
	_, err = svc.Enqueue(ctx, signaldomain.EnqueueRequest{BillID: node.Generate().String(), Action: "reboot"})
	if !errors.Is(err, signaldomain.ErrInvalidAction) {
		t.Fatalf("expected ErrInvalidAction, got %v", err)
	}
}
