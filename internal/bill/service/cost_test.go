package service

import (
	"errors"
	"testing"
	"time"

	billdomain "github.com/agrihub/fieldbill/internal/bill/domain"
	"github.com/shopspring/decimal"
)

func TestFormatElapsed(t *testing.T) {
	cases := []struct {
		seconds int64
		want    string
	}{
		{0, "00:00:00"},
		{59, "00:00:59"},
		{5400, "01:30:00"},
		{86399, "23:59:59"},
		// Hours keep counting past a day.
		{259200, "72:00:00"},
	}
	for _, tc := range cases {
		if got := formatElapsed(tc.seconds); got != tc.want {
			t.Errorf("formatElapsed(%d) = %s, want %s", tc.seconds, got, tc.want)
		}
	}
}

func TestElapsedSeconds(t *testing.T) {
	start := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)

	if got := elapsedSeconds(start, start.Add(90*time.Minute)); got != 5400 {
		t.Fatalf("expected 5400, got %d", got)
	}
	// Sub-second remainders truncate.
	if got := elapsedSeconds(start, start.Add(time.Second+900*time.Millisecond)); got != 1 {
		t.Fatalf("expected 1, got %d", got)
	}
	// A stop before the start clamps to zero instead of going negative.
	if got := elapsedSeconds(start, start.Add(-time.Minute)); got != 0 {
		t.Fatalf("expected 0, got %d", got)
	}
}

func TestTimeCost(t *testing.T) {
	cases := []struct {
		seconds int64
		rate    string
		want    string
	}{
		{5400, "10", "15.00"},
		{3600, "10", "10.00"},
		{1800, "1", "0.50"},
		{1, "10", "0.00"},
		// 0.005 rounds away from zero.
		{1800, "0.01", "0.01"},
		{3600, "0", "0.00"},
	}
	for _, tc := range cases {
		rate, err := decimal.NewFromString(tc.rate)
		if err != nil {
			t.Fatalf("parse rate %q: %v", tc.rate, err)
		}
		if got := timeCost(tc.seconds, rate).StringFixed(2); got != tc.want {
			t.Errorf("timeCost(%d, %s) = %s, want %s", tc.seconds, tc.rate, got, tc.want)
		}
	}
}

func TestCountCost(t *testing.T) {
	price := decimal.RequireFromString("2.5")
	bill := &billdomain.Bill{PricePerCount: &price}

	got, err := countCost(bill, 40, nil)
	if err != nil {
		t.Fatalf("countCost: %v", err)
	}
	if got.StringFixed(2) != "100.00" {
		t.Fatalf("expected 100.00, got %s", got.StringFixed(2))
	}

	// Override beats the frozen price.
	override := "75.5"
	got, err = countCost(bill, 40, &override)
	if err != nil {
		t.Fatalf("countCost override: %v", err)
	}
	if got.StringFixed(2) != "75.50" {
		t.Fatalf("expected 75.50, got %s", got.StringFixed(2))
	}

	bad := "-3"
	if _, err := countCost(bill, 40, &bad); !errors.Is(err, billdomain.ErrInvalidCost) {
		t.Fatalf("expected ErrInvalidCost, got %v", err)
	}

	if _, err := countCost(&billdomain.Bill{}, 40, nil); !errors.Is(err, billdomain.ErrPriceNotConfigured) {
		t.Fatalf("expected ErrPriceNotConfigured, got %v", err)
	}

	// A configured zero price is a legitimate zero cost, not an error.
	zero := decimal.Zero
	got, err = countCost(&billdomain.Bill{PricePerCount: &zero}, 40, nil)
	if err != nil {
		t.Fatalf("countCost zero price: %v", err)
	}
	if !got.IsZero() {
		t.Fatalf("expected zero cost, got %s", got.StringFixed(2))
	}
}
