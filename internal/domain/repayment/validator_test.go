package repayment

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coinlend-backend/internal/domain/accrual"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// owed20 is scenario 3: principal 10000, 20 days elapsed, total 11800.
func owed20() accrual.Breakdown { return accrual.DefaultSchedule().AtDay(dec("10000"), 20) }

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		in      Proposal
		wantErr error
		want    string
	}{
		{"within tolerance", Proposal{Amount: dec("11800.50"), Type: TypePartial}, nil, "11800.50"},
		{"exact tolerance edge", Proposal{Amount: dec("11918"), Type: TypePartial}, nil, "11918"},
		{"partial small", Proposal{Amount: dec("0.01"), Type: TypePartial}, nil, "0.01"},
		{"exceeds owed", Proposal{Amount: dec("15000"), Type: TypePartial}, ErrAmountExceedsOwed, ""},
		{"just over tolerance", Proposal{Amount: dec("11918.01"), Type: TypePartial}, ErrAmountExceedsOwed, ""},
		{"zero", Proposal{Amount: dec("0"), Type: TypePartial}, ErrInvalidAmount, ""},
		{"negative", Proposal{Amount: dec("-10"), Type: TypePartial}, ErrInvalidAmount, ""},
		{"full forces total", Proposal{Amount: dec("1"), Type: TypeFull}, nil, "11800"},
		{"early_full forces total", Proposal{Amount: dec("99999"), Type: TypeEarlyFull}, nil, "11800"},
		{"full ignores zero input", Proposal{Type: TypeFull}, nil, "11800"},
		{"unknown type", Proposal{Amount: dec("10"), Type: "weekly"}, ErrInvalidType, ""},
		{"receipt too large", Proposal{Amount: dec("10"), Type: TypePartial, ReceiptBytes: MaxReceiptBytes + 1}, ErrPayloadTooLarge, ""},
		{"receipt at cap", Proposal{Amount: dec("10"), Type: TypePartial, ReceiptBytes: MaxReceiptBytes}, nil, "10"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Validate(tt.in, owed20())
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr), "got %v want %v", err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.True(t, got.Amount.Equal(dec(tt.want)), "amount=%s", got.Amount)
			assert.Equal(t, tt.in.Type, got.Type)
		})
	}
}

func TestValidate_PreviewFollowsPriority(t *testing.T) {
	got, err := Validate(Proposal{Amount: dec("1500"), Type: TypePartial}, owed20())
	require.NoError(t, err)
	assert.True(t, got.Preview.Penalty.Equal(dec("1000")))
	assert.True(t, got.Preview.Interest.Equal(dec("500")))
	assert.True(t, got.Preview.Principal.IsZero())
}

func TestValidate_FullAlwaysEqualsTotal(t *testing.T) {
	s := accrual.DefaultSchedule()
	for d := 0; d < 40; d += 3 {
		owed := s.AtDay(dec("7321.45"), d)
		got, err := Validate(Proposal{Amount: dec("5"), Type: TypeFull}, owed)
		require.NoError(t, err)
		require.True(t, got.Amount.Equal(owed.Total), "day %d", d)
	}
}

func TestValidator_CustomTolerance(t *testing.T) {
	v := Validator{Tolerance: decimal.Zero}
	_, err := v.Validate(Proposal{Amount: dec("11800.01"), Type: TypePartial}, owed20())
	assert.ErrorIs(t, err, ErrAmountExceedsOwed)

	// no receipt cap configured
	_, err = v.Validate(Proposal{Amount: dec("1"), Type: TypePartial, ReceiptBytes: 50 << 20}, owed20())
	assert.NoError(t, err)
}

func TestRepayment_AllocationRoundTrip(t *testing.T) {
	var r Repayment
	a := accrual.Allocation{Penalty: dec("1"), Interest: dec("2"), Principal: dec("3"), Excess: dec("0.5")}
	r.SetAllocation(a)
	got := r.Allocation()
	assert.True(t, got.Total().Equal(dec("6.5")))
	assert.True(t, got.Interest.Equal(dec("2")))
}

func TestPaidSoFar_OnlyApproved(t *testing.T) {
	var a, b, pending Repayment
	a.Status = StatusApproved
	a.SetAllocation(accrual.Allocation{Penalty: dec("50"), Interest: dec("300"), Principal: dec("1000"), Excess: dec("0")})
	b.Status = StatusApproved
	b.SetAllocation(accrual.Allocation{Penalty: dec("0"), Interest: dec("0"), Principal: dec("250.5"), Excess: dec("1.5")})
	pending.Status = StatusPending
	pending.SetAllocation(accrual.Allocation{Principal: dec("9999")})

	got := PaidSoFar([]Repayment{a, pending, b})
	assert.True(t, got.Penalty.Equal(dec("50")))
	assert.True(t, got.Interest.Equal(dec("300")))
	assert.True(t, got.Principal.Equal(dec("1250.5")), got.Principal.String())
	assert.True(t, got.Excess.Equal(dec("1.5")))
	assert.True(t, PaidSoFar(nil).Total().IsZero())
}
