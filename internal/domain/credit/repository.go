package credit

import (
	"context"
	"time"
)

type LogRepository interface {
	Create(ctx context.Context, l *Log) error
	ExistsForLoanOn(ctx context.Context, loanID uint64, day string) (bool, error)
	ListByUser(ctx context.Context, userID string, limit int) ([]Log, error)
}

// AttemptWindow counts recent attempts per user and action.
type AttemptWindow interface {
	// Record adds an attempt at now and returns the count inside the trailing window.
	Record(ctx context.Context, userID string, action Action, now time.Time) (int, error)
	// MarkPenalized returns true only for the first caller within a window.
	MarkPenalized(ctx context.Context, userID string, action Action) (bool, error)
}
