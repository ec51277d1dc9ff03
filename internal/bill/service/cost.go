package service

import (
	"fmt"
	"strings"
	"time"

	billdomain "github.com/agrihub/fieldbill/internal/bill/domain"
	"github.com/shopspring/decimal"
)

var secondsPerHour = decimal.NewFromInt(3600)

func elapsedSeconds(start, stop time.Time) int64 {
	diff := stop.Sub(start)
	if diff < 0 {
		return 0
	}
	return int64(diff / time.Second)
}

// formatElapsed renders whole seconds as HH:MM:SS. Hours are not capped
// at 24; a three-day session reads 72:00:00.
func formatElapsed(seconds int64) string {
	return fmt.Sprintf("%02d:%02d:%02d",
		seconds/3600,
		(seconds%3600)/60,
		seconds%60,
	)
}

// timeCost is (elapsed hours) x (hourly rate), rounded half-up to cents.
func timeCost(seconds int64, hourlyRate decimal.Decimal) decimal.Decimal {
	return decimal.NewFromInt(seconds).
		Div(secondsPerHour).
		Mul(hourlyRate).
		Round(2)
}

// countCost resolves the final cost of a count-billed bill: an explicit
// override wins, else count x the price frozen on the bill. A bill with
// no configured price cannot be closed without an override; a configured
// zero price legitimately yields a zero cost.
func countCost(bill *billdomain.Bill, count int64, override *string) (decimal.Decimal, error) {
	if override != nil {
		parsed, err := decimal.NewFromString(strings.TrimSpace(*override))
		if err != nil || parsed.IsNegative() {
			return decimal.Zero, billdomain.ErrInvalidCost
		}
		return parsed.Round(2), nil
	}

	if bill.PricePerCount == nil {
		return decimal.Zero, billdomain.ErrPriceNotConfigured
	}

	return decimal.NewFromInt(count).Mul(*bill.PricePerCount).Round(2), nil
}
