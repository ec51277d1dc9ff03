package domain

import (
	"context"
	"errors"
	"time"
)

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Response, error)
	List(ctx context.Context) ([]Response, error)
	GetByName(ctx context.Context, name string) (*Response, error)
	Delete(ctx context.Context, id string) error
}

type CreateRequest struct {
	Name       string `json:"name"`
	HourlyRate string `json:"hourlyRate"`
}

type Response struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	HourlyRate string    `json:"hourlyRate"`
	CreatedAt  time.Time `json:"createdAt"`
}

var (
	ErrInvalidName = errors.New("invalid_name")
	ErrInvalidRate = errors.New("invalid_hourly_rate")
	ErrNameTaken   = errors.New("name_taken")
	ErrInvalidID   = errors.New("invalid_id")
	ErrNotFound    = errors.New("not_found")
)
