package service

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/elie009/utlityhub360-sub005/internal/domain/event"
	"github.com/elie009/utlityhub360-sub005/internal/domain/model"
	"github.com/elie009/utlityhub360-sub005/internal/domain/port"
)

// PenaltyEvaluation is the outcome of one overdue sweep over a loan.
type PenaltyEvaluation struct {
	Loan model.Loan
	// NewPenalties holds only penalties created by this evaluation; entries
	// that already carry an unpaid penalty are left alone.
	NewPenalties []model.Penalty
	Events       []event.DomainEvent
}

// PenaltyCalculator computes overdue penalties for unpaid, past-due schedule
// entries.
type PenaltyCalculator struct {
	policy port.PolicyProvider
}

// NewPenaltyCalculator wires the penalty policy.
func NewPenaltyCalculator(policy port.PolicyProvider) *PenaltyCalculator {
	return &PenaltyCalculator{policy: policy}
}

// EvaluateOverdue flips past-due unpaid entries to OVERDUE and charges the
// policy rate on each entry's outstanding amount. An entry that already has
// an unpaid penalty for the current overdue spell is skipped, so the sweep is
// safe to run repeatedly (e.g. from a daily batch): a second run with the
// same inputs creates nothing.
func (c *PenaltyCalculator) EvaluateOverdue(
	loan model.Loan,
	existing []model.Penalty,
	asOf time.Time,
) (PenaltyEvaluation, error) {
	rate := c.policy.PenaltyRatePct()
	if rate.IsNegative() {
		return PenaltyEvaluation{}, fmt.Errorf("evaluate overdue: penalty rate must not be negative, got %s", rate)
	}
	factor := rate.Div(decimal.NewFromInt(100))

	unpaidByEntry := make(map[int]bool)
	for _, p := range existing {
		if p.LoanID == loan.ID() && !p.IsPaid() {
			unpaidByEntry[p.EntryNumber] = true
		}
	}

	evaluation := PenaltyEvaluation{Loan: loan}
	for _, entry := range loan.Schedule() {
		if entry.IsPaid() || !entry.DueDate.Before(asOf) {
			continue
		}

		evaluation.Loan = evaluation.Loan.MarkEntryOverdue(entry.Number, asOf)
		if unpaidByEntry[entry.Number] {
			continue
		}

		amount := entry.Outstanding().Multiply(factor)
		if !amount.IsPositive() {
			continue
		}

		penalty, err := model.NewPenalty(loan.ID(), entry.Number, amount, asOf)
		if err != nil {
			return PenaltyEvaluation{}, fmt.Errorf("evaluate overdue: %w", err)
		}
		evaluation.NewPenalties = append(evaluation.NewPenalties, penalty)
		evaluation.Events = append(evaluation.Events, event.NewPenaltyAssessed(
			loan.ID(), penalty.ID, entry.Number, amount, asOf,
		))
	}

	return evaluation, nil
}
