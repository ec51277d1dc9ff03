package domain

import (
	"context"
	"errors"
	"time"
)

type Service interface {
	Start(ctx context.Context, req StartRequest) (*StartResponse, error)
	Stop(ctx context.Context, req StopRequest) (*StopResponse, error)
	List(ctx context.Context, req ListRequest) ([]View, error)
	Edit(ctx context.Context, req EditRequest) error
	UpdateCost(ctx context.Context, billID, cost string) error
	Pay(ctx context.Context, billID, paymentMethod string) error
	DeleteAllForOwner(ctx context.Context, ownerID string) error
}

type StartRequest struct {
	OwnerID       string
	ResourceName  string
	PricePerCount *string
}

type StartResponse struct {
	BillID        string    `json:"billId"`
	StartTime     time.Time `json:"startTime"`
	IsCountBilled bool      `json:"isCountBilled"`
	PricePerCount *string   `json:"pricePerCount"`
}

type StopRequest struct {
	BillID       string
	Count        *int64
	CostOverride *string
}

type StopResponse struct {
	ElapsedTime *string `json:"elapsedTime,omitempty"`
	Count       *int64  `json:"count,omitempty"`
	Cost        string  `json:"cost"`
}

type ListRequest struct {
	OwnerID      string
	ResourceName string
	Month        string // YYYY-MM, optional
}

// View is the listing row shape, key-compatible with the legacy API.
type View struct {
	ID            string     `json:"id"`
	OwnerID       string     `json:"ownerId"`
	ResourceName  string     `json:"resourceName"`
	Status        string     `json:"status"`
	StartTime     time.Time  `json:"startTime"`
	StopTime      *time.Time `json:"stopTime"`
	ElapsedTime   string     `json:"elapsedTime,omitempty"`
	Count         *int64     `json:"count,omitempty"`
	PricePerCount *string    `json:"pricePerCount,omitempty"`
	Cost          *string    `json:"cost,omitempty"`
	PaymentMethod string     `json:"paymentMethod,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
}

type EditRequest struct {
	BillID        string
	ElapsedTime   *string
	Cost          *string
	Count         *int64
	PricePerCount *string
}

var (
	ErrInvalidOwner         = errors.New("invalid_owner")
	ErrInvalidResource      = errors.New("invalid_resource")
	ErrResourceNotFound     = errors.New("resource_not_found")
	ErrInvalidID            = errors.New("invalid_id")
	ErrInvalidPrice         = errors.New("invalid_price_per_count")
	ErrInvalidCost          = errors.New("invalid_cost")
	ErrInvalidMonth         = errors.New("invalid_month")
	ErrNotRunning           = errors.New("not_running")
	ErrCountRequired        = errors.New("count_required")
	ErrInvalidCount         = errors.New("invalid_count")
	ErrPriceNotConfigured   = errors.New("price_not_configured")
	ErrNoFields             = errors.New("no_fields")
	ErrNotFound             = errors.New("not_found")
	ErrNotPending           = errors.New("not_pending")
	ErrAlreadyPaid          = errors.New("already_paid")
	ErrInvalidPaymentMethod = errors.New("invalid_payment_method")
)

// SignalEnqueuer records a hardware signal intent alongside a bill
// transition. Implemented by the signal outbox.
type SignalEnqueuer interface {
	Enqueue(ctx context.Context, billID string, action string) error
}
