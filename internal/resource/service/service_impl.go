package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	resourcedomain "github.com/agrihub/fieldbill/internal/resource/domain"
	"github.com/agrihub/fieldbill/pkg/db"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  resourcedomain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	repo  resourcedomain.Repository
	genID *snowflake.Node
}

func New(p Params) resourcedomain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("resource.service"),
		repo:  p.Repo,
		genID: p.GenID,
	}
}

func (s *Service) Create(ctx context.Context, req resourcedomain.CreateRequest) (*resourcedomain.Response, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, resourcedomain.ErrInvalidName
	}

	rate := decimal.Zero
	if raw := strings.TrimSpace(req.HourlyRate); raw != "" {
		parsed, err := decimal.NewFromString(raw)
		if err != nil || parsed.IsNegative() {
			return nil, resourcedomain.ErrInvalidRate
		}
		rate = parsed
	}

	existing, err := s.repo.FindByName(ctx, s.db, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, resourcedomain.ErrNameTaken
	}

	now := time.Now().UTC()
	resource := &resourcedomain.Resource{
		ID:         s.genID.Generate(),
		Name:       name,
		HourlyRate: rate,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.repo.Insert(ctx, s.db, resource); err != nil {
		// The unique index closes the check-then-insert window.
		if db.IsDuplicateKeyErr(err) {
			return nil, resourcedomain.ErrNameTaken
		}
		return nil, err
	}

	return s.toResponse(resource), nil
}

func (s *Service) List(ctx context.Context) ([]resourcedomain.Response, error) {
	items, err := s.repo.List(ctx, s.db)
	if err != nil {
		return nil, err
	}

	resp := make([]resourcedomain.Response, 0, len(items))
	for i := range items {
		resp = append(resp, *s.toResponse(&items[i]))
	}
	return resp, nil
}

func (s *Service) GetByName(ctx context.Context, name string) (*resourcedomain.Response, error) {
	item, err := s.repo.FindByName(ctx, s.db, strings.TrimSpace(name))
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, resourcedomain.ErrNotFound
	}
	return s.toResponse(item), nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	resourceID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return resourcedomain.ErrInvalidID
	}

	affected, err := s.repo.Delete(ctx, s.db, resourceID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return resourcedomain.ErrNotFound
	}

	// Bills reference resources by name and carry a frozen rate, so
	// dropping a resource leaves running bills computable.
	return nil
}

func (s *Service) toResponse(r *resourcedomain.Resource) *resourcedomain.Response {
	return &resourcedomain.Response{
		ID:         r.ID.String(),
		Name:       r.Name,
		HourlyRate: r.HourlyRate.StringFixed(2),
		CreatedAt:  r.CreatedAt,
	}
}
