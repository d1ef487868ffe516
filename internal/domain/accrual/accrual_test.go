package accrual

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestCalculate_Scenarios(t *testing.T) {
	now := time.Date(2025, 9, 20, 12, 0, 0, 0, time.UTC)
	p := dec("10000")

	tests := []struct {
		name     string
		ago      time.Duration
		interest string
		penalty  string
		total    string
		days     int
	}{
		{"grace window", 3 * day, "0", "0", "10000", 3},
		{"interest window", 10 * day, "300", "0", "10300", 10},
		{"penalty window", 20 * day, "800", "1000", "11800", 20},
		{"same day", 5 * time.Hour, "0", "0", "10000", 0},
		{"partial day truncates", 7*day + 23*time.Hour, "0", "0", "10000", 7},
		{"first interest day", 8 * day, "100", "0", "10100", 8},
		{"last interest day", 15 * day, "800", "0", "10800", 15},
		{"first penalty day", 16 * day, "800", "200", "11000", 16},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := Calculate(p, now.Add(-tt.ago), now)
			assert.Equal(t, tt.days, b.DaysElapsed)
			assert.True(t, b.Interest.Equal(dec(tt.interest)), "interest=%s", b.Interest)
			assert.True(t, b.Penalty.Equal(dec(tt.penalty)), "penalty=%s", b.Penalty)
			assert.True(t, b.Total.Equal(dec(tt.total)), "total=%s", b.Total)
			assert.True(t, b.Principal.Equal(p))
		})
	}
}

func TestCalculate_TierProperties(t *testing.T) {
	s := DefaultSchedule()
	p := dec("12345.67")

	for d := 0; d <= 60; d++ {
		b := s.AtDay(p, d)
		switch {
		case d <= 7:
			require.True(t, b.Interest.IsZero(), "day %d", d)
			require.True(t, b.Penalty.IsZero(), "day %d", d)
		case d <= 15:
			want := p.Mul(dec("0.01")).Mul(decimal.NewFromInt(int64(d - 7)))
			require.True(t, b.Interest.Equal(want), "day %d", d)
			require.True(t, b.Penalty.IsZero(), "day %d", d)
		default:
			require.True(t, b.Interest.Equal(p.Mul(dec("0.08"))), "day %d", d)
			want := p.Mul(dec("0.02")).Mul(decimal.NewFromInt(int64(d - 15)))
			require.True(t, b.Penalty.Equal(want), "day %d", d)
		}
		require.True(t, b.Total.Equal(b.Principal.Add(b.Interest).Add(b.Penalty)))
		require.True(t, b.Total.GreaterThanOrEqual(p))
	}
}

func TestCalculate_Monotonic(t *testing.T) {
	s := DefaultSchedule()
	p := dec("5000")
	prev := s.AtDay(p, 0).Total
	for d := 1; d <= 90; d++ {
		cur := s.AtDay(p, d).Total
		require.True(t, cur.GreaterThanOrEqual(prev), "total decreased at day %d", d)
		prev = cur
	}
}

func TestDaysElapsed_ClockSkewClampsToZero(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 0, DaysElapsed(now.Add(2*time.Hour), now))

	b := Calculate(dec("9000"), now.Add(48*time.Hour), now)
	assert.Equal(t, 0, b.DaysElapsed)
	assert.True(t, b.Total.Equal(dec("9000")))
}

func TestBreakdown_Overdue(t *testing.T) {
	s := DefaultSchedule()
	assert.False(t, s.AtDay(dec("1"), 15).Overdue())
	assert.Equal(t, 0, s.AtDay(dec("1"), 15).DaysOverdue())

	b := s.AtDay(dec("1"), 19)
	assert.True(t, b.Overdue())
	assert.Equal(t, 4, b.DaysOverdue())

	// zero-value breakdown falls back to the default threshold
	assert.True(t, Breakdown{DaysElapsed: 16}.Overdue())
}

func TestSchedule_DueDate(t *testing.T) {
	borrow := time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC)
	due := DefaultSchedule().DueDate(borrow)
	assert.Equal(t, time.Date(2025, 3, 16, 9, 30, 0, 0, time.UTC), due)
	assert.False(t, Calculate(dec("100"), borrow, due).Overdue())
}
