package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	billdomain "github.com/agrihub/fieldbill/internal/bill/domain"
	"github.com/agrihub/fieldbill/internal/clock"
	resourcedomain "github.com/agrihub/fieldbill/internal/resource/domain"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB           *gorm.DB
	Log          *zap.Logger
	GenID        *snowflake.Node
	Clock        clock.Clock
	Repo         billdomain.Repository
	ResourceRepo resourcedomain.Repository
	Signals      billdomain.SignalEnqueuer `optional:"true"`
}

type Service struct {
	db           *gorm.DB
	log          *zap.Logger
	repo         billdomain.Repository
	resourceRepo resourcedomain.Repository
	genID        *snowflake.Node
	clock        clock.Clock
	signals      billdomain.SignalEnqueuer
}

func New(p Params) billdomain.Service {
	return &Service{
		db:           p.DB,
		log:          p.Log.Named("bill.service"),
		repo:         p.Repo,
		resourceRepo: p.ResourceRepo,
		genID:        p.GenID,
		clock:        p.Clock,
		signals:      p.Signals,
	}
}

func (s *Service) Start(ctx context.Context, req billdomain.StartRequest) (*billdomain.StartResponse, error) {
	ownerID := strings.TrimSpace(req.OwnerID)
	if ownerID == "" {
		return nil, billdomain.ErrInvalidOwner
	}

	resourceName := strings.TrimSpace(req.ResourceName)
	if resourceName == "" {
		return nil, billdomain.ErrInvalidResource
	}

	resource, err := s.resourceRepo.FindByName(ctx, s.db, resourceName)
	if err != nil {
		return nil, err
	}
	if resource == nil {
		return nil, billdomain.ErrResourceNotFound
	}

	countBilled := resource.CountBilled()

	var price *decimal.Decimal
	if countBilled && req.PricePerCount != nil {
		parsed, err := decimal.NewFromString(strings.TrimSpace(*req.PricePerCount))
		if err != nil || parsed.IsNegative() {
			return nil, billdomain.ErrInvalidPrice
		}
		price = &parsed
	}

	now := s.clock.Now()
	bill := &billdomain.Bill{
		ID:           s.genID.Generate(),
		OwnerID:      ownerID,
		ResourceName: resourceName,
		// Rate and classification freeze here; a later registry edit
		// must not flip the billing mode of an open session.
		HourlyRate:    resource.HourlyRate,
		CountBilled:   countBilled,
		StartTime:     now,
		Status:        billdomain.StatusRunning,
		PricePerCount: price,
		CreatedAt:     now,
	}

	if err := s.repo.Insert(ctx, s.db, bill); err != nil {
		return nil, err
	}

	s.enqueueSignal(ctx, bill.ID, "start")

	resp := &billdomain.StartResponse{
		BillID:        bill.ID.String(),
		StartTime:     now,
		IsCountBilled: countBilled,
	}
	if price != nil {
		v := price.StringFixed(2)
		resp.PricePerCount = &v
	}
	return resp, nil
}

func (s *Service) Stop(ctx context.Context, req billdomain.StopRequest) (*billdomain.StopResponse, error) {
	billID, err := snowflake.ParseString(strings.TrimSpace(req.BillID))
	if err != nil {
		return nil, billdomain.ErrInvalidID
	}

	bill, err := s.repo.FindByID(ctx, s.db, billID)
	if err != nil {
		return nil, err
	}
	if bill == nil || bill.Status != billdomain.StatusRunning || bill.StopTime != nil {
		return nil, billdomain.ErrNotRunning
	}

	stopTime := s.clock.Now()
	update := billdomain.StopUpdate{
		ID:       billID,
		StopTime: stopTime,
	}
	resp := &billdomain.StopResponse{}

	if bill.CountBilled {
		if req.Count == nil {
			return nil, billdomain.ErrCountRequired
		}
		if *req.Count < 0 {
			return nil, billdomain.ErrInvalidCount
		}

		cost, err := countCost(bill, *req.Count, req.CostOverride)
		if err != nil {
			return nil, err
		}

		update.Count = req.Count
		update.Cost = cost
		resp.Count = req.Count
	} else {
		seconds := elapsedSeconds(bill.StartTime, stopTime)
		elapsed := formatElapsed(seconds)
		update.ElapsedTime = elapsed
		update.Cost = timeCost(seconds, bill.HourlyRate)
		resp.ElapsedTime = &elapsed
	}

	affected, err := s.repo.MarkStopped(ctx, s.db, update)
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		// Lost the race against a concurrent stop.
		return nil, billdomain.ErrNotRunning
	}

	s.enqueueSignal(ctx, billID, "stop")

	resp.Cost = update.Cost.StringFixed(2)
	return resp, nil
}

func (s *Service) List(ctx context.Context, req billdomain.ListRequest) ([]billdomain.View, error) {
	ownerID := strings.TrimSpace(req.OwnerID)
	if ownerID == "" {
		return nil, billdomain.ErrInvalidOwner
	}

	filter := billdomain.ListFilter{
		OwnerID:      ownerID,
		ResourceName: strings.TrimSpace(req.ResourceName),
	}

	if month := strings.TrimSpace(req.Month); month != "" {
		start, err := time.Parse("2006-01", month)
		if err != nil {
			return nil, billdomain.ErrInvalidMonth
		}
		end := start.AddDate(0, 1, 0)
		filter.MonthStart = &start
		filter.MonthEnd = &end
	}

	bills, err := s.repo.List(ctx, s.db, filter)
	if err != nil {
		return nil, err
	}

	views := make([]billdomain.View, 0, len(bills))
	for i := range bills {
		views = append(views, toView(&bills[i]))
	}
	return views, nil
}

func (s *Service) DeleteAllForOwner(ctx context.Context, ownerID string) error {
	ownerID = strings.TrimSpace(ownerID)
	if ownerID == "" {
		return billdomain.ErrInvalidOwner
	}

	affected, err := s.repo.DeleteByOwner(ctx, s.db, ownerID)
	if err != nil {
		return err
	}
	s.log.Info("deleted bills for owner",
		zap.String("owner_id", ownerID),
		zap.Int64("count", affected),
	)
	return nil
}

func (s *Service) enqueueSignal(ctx context.Context, billID snowflake.ID, action string) {
	if s.signals == nil {
		return
	}
	// Relay is best effort; a full outbox must never fail the
	// lifecycle transition that triggered it.
	if err := s.signals.Enqueue(ctx, billID.String(), action); err != nil {
		s.log.Warn("signal enqueue failed",
			zap.Error(err),
			zap.String("bill_id", billID.String()),
			zap.String("action", action),
		)
	}
}

func toView(b *billdomain.Bill) billdomain.View {
	view := billdomain.View{
		ID:            b.ID.String(),
		OwnerID:       b.OwnerID,
		ResourceName:  b.ResourceName,
		Status:        b.Status,
		StartTime:     b.StartTime,
		StopTime:      b.StopTime,
		ElapsedTime:   b.ElapsedTime,
		Count:         b.Count,
		PaymentMethod: b.PaymentMethod,
		CreatedAt:     b.CreatedAt,
	}
	if b.PricePerCount != nil {
		v := b.PricePerCount.StringFixed(2)
		view.PricePerCount = &v
	}
	if b.Cost != nil {
		v := b.Cost.StringFixed(2)
		view.Cost = &v
	}
	return view
}
