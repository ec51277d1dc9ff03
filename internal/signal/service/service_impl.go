package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	billdomain "github.com/agrihub/fieldbill/internal/bill/domain"
	signaldomain "github.com/agrihub/fieldbill/internal/signal/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  signaldomain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	repo  signaldomain.Repository
	genID *snowflake.Node
}

func New(p Params) signaldomain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("signal.service"),
		repo:  p.Repo,
		genID: p.GenID,
	}
}

func (s *Service) Enqueue(ctx context.Context, req signaldomain.EnqueueRequest) (*signaldomain.Response, error) {
	billID, err := snowflake.ParseString(strings.TrimSpace(req.BillID))
	if err != nil {
		return nil, signaldomain.ErrInvalidBillID
	}

	action := strings.TrimSpace(req.Action)
	if !signaldomain.ValidAction(action) {
		return nil, signaldomain.ErrInvalidAction
	}

	intent := &signaldomain.Intent{
		ID:     s.genID.Generate(),
		BillID: billID,
		Action: action,
		Payload: datatypes.JSONMap{
			"billId": billID.String(),
			"action": action,
		},
		Status:    signaldomain.StatusPending,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.repo.Insert(ctx, s.db, intent); err != nil {
		return nil, err
	}

	return &signaldomain.Response{
		BillID: billID.String(),
		Action: action,
	}, nil
}

// Enqueuer adapts the service to the bill lifecycle's enqueue hook.
type Enqueuer struct {
	svc signaldomain.Service
}

func NewEnqueuer(svc signaldomain.Service) billdomain.SignalEnqueuer {
	return &Enqueuer{svc: svc}
}

func (e *Enqueuer) Enqueue(ctx context.Context, billID string, action string) error {
	_, err := e.svc.Enqueue(ctx, signaldomain.EnqueueRequest{
		BillID: billID,
		Action: action,
	})
	return err
}
