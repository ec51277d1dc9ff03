package domain

import (
	"context"
	"errors"
)

type Service interface {
	Enqueue(ctx context.Context, req EnqueueRequest) (*Response, error)
}

type EnqueueRequest struct {
	BillID string
	Action string
}

type Response struct {
	BillID string `json:"billId"`
	Action string `json:"action"`
}

var (
	ErrInvalidBillID = errors.New("invalid_bill_id")
	ErrInvalidAction = errors.New("invalid_action")
)

func ValidAction(action string) bool {
	return action == ActionStart || action == ActionStop
}
