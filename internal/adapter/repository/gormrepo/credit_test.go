package gormrepo

import (
	"context"
	"testing"
	"time"

	domain "coinlend-backend/internal/domain/credit"
	"coinlend-backend/internal/testutil/sqlitetest"
)

func TestCreditLog_ExistsForLoanOn(t *testing.T) {
	repo := NewCreditLogRepository(sqlitetest.Open(t))
	ctx := context.Background()
	loanID := uint64(42)
	now := time.Date(2025, 9, 6, 10, 0, 0, 0, time.UTC)

	ok, err := repo.ExistsForLoanOn(ctx, loanID, domain.LogDate(now))
	if err != nil || ok {
		t.Fatalf("empty table: ok=%v err=%v", ok, err)
	}

	l := &domain.Log{
		UserID: "uuuuuuuuuuuuuuuuuuuuuuuuuuuuuuuu", LoanID: &loanID, LogDate: domain.LogDate(now),
		PreviousScore: 100, NewScore: 90, Delta: -10, Reason: domain.ReasonLoanOverdue, CreatedAt: now,
	}
	if err := repo.Create(ctx, l); err != nil {
		t.Fatalf("Create: %v", err)
	}
	ok, err = repo.ExistsForLoanOn(ctx, loanID, domain.LogDate(now))
	if err != nil || !ok {
		t.Fatalf("after insert: ok=%v err=%v", ok, err)
	}
	ok, _ = repo.ExistsForLoanOn(ctx, loanID, domain.LogDate(now.Add(24*time.Hour)))
	if ok {
		t.Fatal("next day must not match")
	}

	// unique (loan_id, log_date) rejects a second row for the same day
	dup := *l
	dup.ID = 0
	if err := repo.Create(ctx, &dup); err == nil {
		t.Fatal("expected unique violation for same loan and day")
	}

	// rows without a loan are not constrained
	for i := 0; i < 2; i++ {
		if err := repo.Create(ctx, &domain.Log{
			UserID: l.UserID, LogDate: domain.LogDate(now), PreviousScore: 90, NewScore: 80,
			Delta: -10, Reason: domain.ReasonTradeVelocity, CreatedAt: now,
		}); err != nil {
			t.Fatalf("velocity log %d: %v", i, err)
		}
	}
	logs, err := repo.ListByUser(ctx, l.UserID, 0)
	if err != nil || len(logs) != 3 {
		t.Fatalf("ListByUser len=%d err=%v", len(logs), err)
	}
}
