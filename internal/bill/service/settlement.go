package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	billdomain "github.com/agrihub/fieldbill/internal/bill/domain"
	"github.com/shopspring/decimal"
)

// Edit overwrites only the supplied fields. There is deliberately no
// status guard: admins correct completed bills through the same path.
func (s *Service) Edit(ctx context.Context, req billdomain.EditRequest) error {
	billID, err := snowflake.ParseString(strings.TrimSpace(req.BillID))
	if err != nil {
		return billdomain.ErrInvalidID
	}

	fields := map[string]any{}

	if req.ElapsedTime != nil {
		fields["elapsed_time"] = strings.TrimSpace(*req.ElapsedTime)
	}
	if req.Cost != nil {
		cost, err := parseNonNegative(*req.Cost)
		if err != nil {
			return billdomain.ErrInvalidCost
		}
		fields["cost"] = cost
	}
	if req.Count != nil {
		if *req.Count < 0 {
			return billdomain.ErrInvalidCount
		}
		fields["count"] = *req.Count
	}
	if req.PricePerCount != nil {
		price, err := parseNonNegative(*req.PricePerCount)
		if err != nil {
			return billdomain.ErrInvalidPrice
		}
		fields["price_per_count"] = price
	}

	if len(fields) == 0 {
		return billdomain.ErrNoFields
	}

	affected, err := s.repo.UpdateFields(ctx, s.db, billID, fields)
	if err != nil {
		return err
	}
	if affected == 0 {
		return billdomain.ErrNotFound
	}
	return nil
}

func (s *Service) UpdateCost(ctx context.Context, billID, cost string) error {
	id, err := snowflake.ParseString(strings.TrimSpace(billID))
	if err != nil {
		return billdomain.ErrInvalidID
	}

	parsed, err := parseNonNegative(cost)
	if err != nil {
		return billdomain.ErrInvalidCost
	}

	affected, err := s.repo.UpdateCost(ctx, s.db, id, parsed)
	if err != nil {
		return err
	}
	if affected == 0 {
		return billdomain.ErrNotPending
	}
	return nil
}

func (s *Service) Pay(ctx context.Context, billID, paymentMethod string) error {
	id, err := snowflake.ParseString(strings.TrimSpace(billID))
	if err != nil {
		return billdomain.ErrInvalidID
	}

	method := strings.TrimSpace(paymentMethod)
	if method == "" {
		return billdomain.ErrInvalidPaymentMethod
	}

	affected, err := s.repo.MarkPaid(ctx, s.db, id, method)
	if err != nil {
		return err
	}
	if affected == 0 {
		return billdomain.ErrAlreadyPaid
	}
	return nil
}

func parseNonNegative(raw string) (decimal.Decimal, error) {
	parsed, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Zero, err
	}
	if parsed.IsNegative() {
		return decimal.Zero, billdomain.ErrInvalidCost
	}
	return parsed, nil
}
