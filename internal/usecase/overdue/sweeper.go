// Package overdue periodically persists the overdue state of active loans and
// charges the daily credit penalty.
package overdue

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"

	"coinlend-backend/internal/domain/accrual"
	"coinlend-backend/internal/domain/loan"
	"coinlend-backend/internal/infrastructure/notify"
	"coinlend-backend/internal/telemetry"
)

const (
	DefaultInterval = time.Hour
	pageSize        = 200
)

// Penalizer charges the once-per-day overdue deduction for a loan.
type Penalizer interface {
	ApplyOverduePenalty(ctx context.Context, l *loan.Loan, daysOverdue int, now time.Time) (bool, error)
}

type Result struct {
	Scanned       int `json:"scanned"`
	MarkedOverdue int `json:"marked_overdue"`
	Penalized     int `json:"penalized"`
	Failed        int `json:"failed"`
}

type Sweeper struct {
	loans     loan.Repository
	penalizer Penalizer
	schedule  accrual.Schedule
	pub       notify.Publisher
	interval  time.Duration
	now       func() time.Time
}

func NewSweeper(loans loan.Repository, penalizer Penalizer, schedule accrual.Schedule, pub notify.Publisher, interval time.Duration) *Sweeper {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Sweeper{
		loans:     loans,
		penalizer: penalizer,
		schedule:  schedule,
		pub:       pub,
		interval:  interval,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Start launches the sweep loop in a background goroutine. The first sweep
// runs immediately.
func (s *Sweeper) Start(ctx context.Context) {
	if s == nil {
		return
	}
	go s.run(ctx)
	log.Infof("overdue sweeper started (interval=%s)", s.interval)
}

func (s *Sweeper) run(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}
		res, err := s.RunOnce(ctx, s.now())
		if err != nil && ctx.Err() == nil {
			log.WithError(err).Warn("overdue sweeper: run failed")
		} else if res.MarkedOverdue > 0 || res.Penalized > 0 || res.Failed > 0 {
			log.WithFields(log.Fields{
				"scanned":        res.Scanned,
				"marked_overdue": res.MarkedOverdue,
				"penalized":      res.Penalized,
				"failed":         res.Failed,
			}).Info("overdue sweeper: run finished")
		}

		timer := time.NewTimer(s.interval)
		select {
		case <-ctx.Done():
			if !timer.Stop() {
				<-timer.C
			}
			return
		case <-timer.C:
		}
	}
}

// RunOnce scans every approved or overdue loan as of now. A failure on one
// loan is counted and logged; only listing errors abort the run.
func (s *Sweeper) RunOnce(ctx context.Context, now time.Time) (Result, error) {
	ctx, span := telemetry.Start(ctx, "overdue.sweep")
	defer span.End()

	var res Result
	var after uint64
	for {
		page, err := s.loans.ListByStatus(ctx, after, pageSize, loan.StatusApproved, loan.StatusOverdue)
		if err != nil {
			return res, err
		}
		for i := range page {
			l := &page[i]
			after = l.ID
			res.Scanned++
			if err := s.sweep(ctx, l, now, &res); err != nil {
				res.Failed++
				log.WithError(err).WithField("loan_id", l.LoanID).Warn("overdue sweeper: loan failed")
			}
		}
		if len(page) < pageSize {
			return res, nil
		}
	}
}

func (s *Sweeper) sweep(ctx context.Context, l *loan.Loan, now time.Time, res *Result) error {
	b := s.schedule.Calculate(l.Principal, l.BorrowDate, now)
	if !b.Overdue() {
		return nil
	}

	if l.Status == loan.StatusApproved {
		moved, err := s.loans.UpdateStatus(ctx, l.ID, loan.StatusOverdue, now, loan.StatusApproved)
		if err != nil {
			return err
		}
		if !moved {
			// repaid or swept concurrently
			return nil
		}
		l.Status = loan.StatusOverdue
		res.MarkedOverdue++
		notify.Best(ctx, s.pub, notify.Event{Type: notify.LoanOverdue, UserID: l.BorrowerID, LoanID: l.LoanID, At: now})
	}

	if s.penalizer == nil {
		return nil
	}
	ok, err := s.penalizer.ApplyOverduePenalty(ctx, l, b.DaysOverdue(), now)
	if err != nil {
		return err
	}
	if ok {
		res.Penalized++
	}
	return nil
}
