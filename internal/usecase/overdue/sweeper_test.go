package overdue

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"coinlend-backend/internal/domain/accrual"
	"coinlend-backend/internal/domain/loan"
	"coinlend-backend/internal/infrastructure/notify"
	"coinlend-backend/internal/testutil/loanmock"
)

var now = time.Date(2025, 9, 30, 12, 0, 0, 0, time.UTC)

type penalizerFn func(ctx context.Context, l *loan.Loan, days int, at time.Time) (bool, error)

func (f penalizerFn) ApplyOverduePenalty(ctx context.Context, l *loan.Loan, days int, at time.Time) (bool, error) {
	return f(ctx, l, days, at)
}

type events struct {
	mu  sync.Mutex
	got []notify.Event
}

func (e *events) Publish(_ context.Context, ev notify.Event) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.got = append(e.got, ev)
	return nil
}

func aged(id uint64, days int, st loan.Status) loan.Loan {
	return loan.Loan{
		ID:         id,
		LoanID:     fmt.Sprintf("L%d", id),
		BorrowerID: "u1",
		Principal:  decimal.NewFromInt(10000),
		Status:     st,
		BorrowDate: now.AddDate(0, 0, -days),
	}
}

func TestRunOnce(t *testing.T) {
	loans := []loan.Loan{
		aged(1, 3, loan.StatusApproved),  // in grace
		aged(2, 15, loan.StatusApproved), // due today, not overdue
		aged(3, 18, loan.StatusApproved), // 3 days past due
		aged(4, 20, loan.StatusOverdue),  // already persisted
	}

	var moved []uint64
	repo := &loanmock.Repo{
		ListByStatusFn: func(_ context.Context, afterID uint64, _ int, statuses ...loan.Status) ([]loan.Loan, error) {
			if afterID != 0 {
				t.Fatalf("unexpected second page after %d", afterID)
			}
			if len(statuses) != 2 {
				t.Fatalf("statuses = %v", statuses)
			}
			return loans, nil
		},
		UpdateStatusFn: func(_ context.Context, id uint64, to loan.Status, _ time.Time, from ...loan.Status) (bool, error) {
			if to != loan.StatusOverdue || len(from) != 1 || from[0] != loan.StatusApproved {
				t.Fatalf("bad transition %v -> %s", from, to)
			}
			moved = append(moved, id)
			return true, nil
		},
	}

	days := map[string]int{}
	pen := penalizerFn(func(_ context.Context, l *loan.Loan, d int, _ time.Time) (bool, error) {
		if l.Status != loan.StatusOverdue {
			t.Fatalf("penalizing %s in status %s", l.LoanID, l.Status)
		}
		days[l.LoanID] = d
		return true, nil
	})
	pub := &events{}

	s := NewSweeper(repo, pen, accrual.DefaultSchedule(), pub, 0)
	res, err := s.RunOnce(context.Background(), now)
	if err != nil {
		t.Fatalf("RunOnce: %v", err)
	}

	want := Result{Scanned: 4, MarkedOverdue: 1, Penalized: 2}
	if res != want {
		t.Fatalf("result = %+v, want %+v", res, want)
	}
	if len(moved) != 1 || moved[0] != 3 {
		t.Fatalf("moved = %v", moved)
	}
	if days["L3"] != 3 || days["L4"] != 5 {
		t.Fatalf("days overdue = %v", days)
	}
	if len(pub.got) != 1 || pub.got[0].Type != notify.LoanOverdue || pub.got[0].LoanID != "L3" {
		t.Fatalf("events = %+v", pub.got)
	}
}

func TestRunOnce_LostTransitionSkipsPenalty(t *testing.T) {
	repo := &loanmock.Repo{
		ListByStatusFn: func(context.Context, uint64, int, ...loan.Status) ([]loan.Loan, error) {
			return []loan.Loan{aged(7, 30, loan.StatusApproved)}, nil
		},
		// repaid between list and update
		UpdateStatusFn: func(context.Context, uint64, loan.Status, time.Time, ...loan.Status) (bool, error) {
			return false, nil
		},
	}
	pen := penalizerFn(func(context.Context, *loan.Loan, int, time.Time) (bool, error) {
		t.Fatal("penalizer must not run")
		return false, nil
	})

	res, err := NewSweeper(repo, pen, accrual.DefaultSchedule(), nil, 0).RunOnce(context.Background(), now)
	if err != nil {
		t.Fatal(err)
	}
	if res.MarkedOverdue != 0 || res.Penalized != 0 || res.Failed != 0 {
		t.Fatalf("result = %+v", res)
	}
}

func TestRunOnce_PerLoanFailureIsCounted(t *testing.T) {
	repo := &loanmock.Repo{
		ListByStatusFn: func(context.Context, uint64, int, ...loan.Status) ([]loan.Loan, error) {
			return []loan.Loan{aged(1, 20, loan.StatusOverdue), aged(2, 25, loan.StatusOverdue)}, nil
		},
	}
	pen := penalizerFn(func(_ context.Context, l *loan.Loan, _ int, _ time.Time) (bool, error) {
		if l.ID == 1 {
			return false, errors.New("db down")
		}
		return true, nil
	})

	res, err := NewSweeper(repo, pen, accrual.DefaultSchedule(), nil, 0).RunOnce(context.Background(), now)
	if err != nil {
		t.Fatal(err)
	}
	if res.Failed != 1 || res.Penalized != 1 {
		t.Fatalf("result = %+v", res)
	}
}

func TestRunOnce_Pages(t *testing.T) {
	var calls []uint64
	repo := &loanmock.Repo{
		ListByStatusFn: func(_ context.Context, afterID uint64, limit int, _ ...loan.Status) ([]loan.Loan, error) {
			calls = append(calls, afterID)
			if afterID > 0 {
				return nil, nil
			}
			page := make([]loan.Loan, limit)
			for i := range page {
				page[i] = aged(uint64(i+1), 1, loan.StatusApproved)
			}
			return page, nil
		},
	}

	res, err := NewSweeper(repo, nil, accrual.DefaultSchedule(), nil, 0).RunOnce(context.Background(), now)
	if err != nil {
		t.Fatal(err)
	}
	if res.Scanned != pageSize || len(calls) != 2 || calls[1] != pageSize {
		t.Fatalf("scanned=%d calls=%v", res.Scanned, calls)
	}
}

func TestRunOnce_ListError(t *testing.T) {
	repo := &loanmock.Repo{}
	if _, err := NewSweeper(repo, nil, accrual.DefaultSchedule(), nil, 0).RunOnce(context.Background(), now); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v", err)
	}
}

func TestStart_StopsOnCancel(t *testing.T) {
	runs := make(chan struct{}, 8)
	repo := &loanmock.Repo{
		ListByStatusFn: func(context.Context, uint64, int, ...loan.Status) ([]loan.Loan, error) {
			runs <- struct{}{}
			return nil, nil
		},
	}
	s := NewSweeper(repo, nil, accrual.DefaultSchedule(), nil, 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	s.Start(ctx)
	for i := 0; i < 2; i++ {
		select {
		case <-runs:
		case <-time.After(time.Second):
			t.Fatal("sweeper did not tick")
		}
	}
	cancel()
}
