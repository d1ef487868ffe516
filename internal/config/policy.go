package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"coinlend-backend/internal/domain/loan"
	"coinlend-backend/internal/domain/repayment"
)

// Policy is the tunable lending policy. Values absent from the YAML file
// keep their defaults.
type Policy struct {
	Loan               loan.Policy     `yaml:",inline"`
	RepaymentTolerance decimal.Decimal `yaml:"repayment_tolerance"`
	MaxReceiptBytes    int             `yaml:"max_receipt_bytes"`
}

func DefaultPolicy() Policy {
	return Policy{
		Loan:               loan.DefaultPolicy(),
		RepaymentTolerance: repayment.DefaultTolerance,
		MaxReceiptBytes:    repayment.MaxReceiptBytes,
	}
}

// Validator builds the repayment validator for this policy.
func (p Policy) Validator() repayment.Validator {
	return repayment.Validator{Tolerance: p.RepaymentTolerance, MaxReceiptBytes: p.MaxReceiptBytes}
}

// LoadPolicy overlays path onto the defaults. An empty path returns defaults.
func LoadPolicy(path string) (Policy, error) {
	p := DefaultPolicy()
	if path == "" {
		return p, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return p, fmt.Errorf("read policy %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, &p); err != nil {
		return p, fmt.Errorf("parse policy %s: %w", path, err)
	}
	if err := p.validate(); err != nil {
		return p, fmt.Errorf("policy %s: %w", path, err)
	}
	return p, nil
}

func (p Policy) validate() error {
	l := p.Loan
	if !l.MinAmount.IsPositive() || l.MaxAmount.LessThan(l.MinAmount) {
		return errors.New("loan amount range is empty")
	}
	if l.MaxActiveLoans <= 0 {
		return errors.New("max_active_loans must be positive")
	}
	s := l.Schedule
	if s.GraceDays < 0 || s.PenaltyAfterDays < s.GraceDays {
		return errors.New("schedule days out of order")
	}
	if s.DailyInterestRate.IsNegative() || s.DailyPenaltyRate.IsNegative() {
		return errors.New("schedule rates must not be negative")
	}
	if p.RepaymentTolerance.IsNegative() {
		return errors.New("repayment_tolerance must not be negative")
	}
	if p.MaxReceiptBytes <= 0 {
		return errors.New("max_receipt_bytes must be positive")
	}
	return nil
}
