// Package notify publishes loan lifecycle events for downstream consumers
// (borrower notifications, reporting).
package notify

import (
	"context"
	"encoding/json"
	"time"

	log "github.com/sirupsen/logrus"
)

type EventType string

const (
	LoanApproved       EventType = "loan.approved"
	LoanRejected       EventType = "loan.rejected"
	LoanOverdue        EventType = "loan.overdue"
	LoanRepaid         EventType = "loan.repaid"
	RepaymentSubmitted EventType = "repayment.submitted"
	RepaymentApproved  EventType = "repayment.approved"
	RepaymentRejected  EventType = "repayment.rejected"
	CreditDeducted     EventType = "credit.deducted"
)

type Event struct {
	Type   EventType         `json:"type"`
	UserID string            `json:"user_id"`
	LoanID string            `json:"loan_id,omitempty"`
	At     time.Time         `json:"at"`
	Data   map[string]string `json:"data,omitempty"`
}

type Publisher interface {
	Publish(ctx context.Context, ev Event) error
}

// Best publishes ev and only logs failures. Notifications never fail the
// operation that produced them.
func Best(ctx context.Context, p Publisher, ev Event) {
	if p == nil {
		return
	}
	if ev.At.IsZero() {
		ev.At = time.Now().UTC()
	}
	if err := p.Publish(ctx, ev); err != nil {
		log.WithError(err).WithFields(log.Fields{"event": ev.Type, "loan_id": ev.LoanID}).Warn("notify: publish failed")
	}
}

func encode(ev Event) ([]byte, map[string]string, error) {
	data, err := json.Marshal(ev)
	if err != nil {
		return nil, nil, err
	}
	attrs := map[string]string{"type": string(ev.Type), "user_id": ev.UserID}
	if ev.LoanID != "" {
		attrs["loan_id"] = ev.LoanID
	}
	return data, attrs, nil
}

// Nop logs events at debug level.
type Nop struct{}

func (Nop) Publish(_ context.Context, ev Event) error {
	log.WithFields(log.Fields{"event": ev.Type, "user_id": ev.UserID, "loan_id": ev.LoanID}).Debug("notify: dropped")
	return nil
}
