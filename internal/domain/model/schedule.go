package model

import (
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/elie009/utlityhub360-sub005/internal/domain/valueobject"
	"github.com/elie009/utlityhub360-sub005/pkg/money"
)

// LoanTerms carries everything needed to generate a repayment schedule.
type LoanTerms struct {
	Principal     money.Money
	AnnualRatePct decimal.Decimal
	TermMonths    int
	Method        valueobject.AmortizationMethod
	Frequency     valueobject.PaymentFrequency
	StartDate     time.Time
	DownPayment   money.Money
	ProcessingFee money.Money
}

// FinancedAmount is the amount actually lent out: principal minus down payment.
func (t LoanTerms) FinancedAmount() money.Money {
	financed, _ := t.Principal.Subtract(t.DownPayment)
	return financed
}

// Validate checks the terms can produce a schedule.
func (t LoanTerms) Validate() error {
	if !t.FinancedAmount().IsPositive() {
		return fmt.Errorf("%w: financed amount must be positive, got %s", ErrInvalidTerms, t.FinancedAmount())
	}
	if t.AnnualRatePct.IsNegative() {
		return fmt.Errorf("%w: annual rate must not be negative, got %s", ErrInvalidTerms, t.AnnualRatePct)
	}
	if t.TermMonths < 1 {
		return fmt.Errorf("%w: term must be at least one month, got %d", ErrInvalidTerms, t.TermMonths)
	}
	if t.Method.IsZero() {
		return fmt.Errorf("%w: amortization method is required", ErrInvalidTerms)
	}
	if t.Frequency.IsZero() {
		return fmt.Errorf("%w: payment frequency is required", ErrInvalidTerms)
	}
	if t.StartDate.IsZero() {
		return fmt.Errorf("%w: start date is required", ErrInvalidTerms)
	}
	return nil
}

// ScheduleEntry is one period of a repayment schedule. The monetary portions
// are immutable once generated; only the settlement fields change as payments
// arrive. Settled tracks the amount applied so far without touching Total.
type ScheduleEntry struct {
	Number    int
	DueDate   time.Time
	Principal money.Money
	Interest  money.Money
	Total     money.Money
	Status    valueobject.ScheduleEntryStatus
	Settled   money.Money
	PaidAt    *time.Time
}

// Outstanding returns how much of the entry's total remains unpaid.
func (e ScheduleEntry) Outstanding() money.Money {
	out, _ := e.Total.Subtract(e.Settled)
	if out.IsNegative() {
		return money.Zero(e.Total.Currency())
	}
	return out
}

// SettledInterest returns the portion of settled funds attributed to interest.
// Within an entry, interest is satisfied before principal.
func (e ScheduleEntry) SettledInterest() money.Money {
	return e.Settled.Min(e.Interest)
}

// SettledPrincipal returns the portion of settled funds attributed to principal.
func (e ScheduleEntry) SettledPrincipal() money.Money {
	p, _ := e.Settled.Subtract(e.SettledInterest())
	return p
}

// IsPaid reports whether the entry has been fully settled.
func (e ScheduleEntry) IsPaid() bool {
	return e.Status.Equal(valueobject.ScheduleEntryStatusPaid)
}

// GenerateSchedule computes the full repayment schedule for the given terms.
//
// AMORTIZED uses the standard level-payment formula
//
//	payment = P * r * (1+r)^n / ((1+r)^n - 1)
//
// with per-period interest recomputed on the remaining balance. FLAT_RATE
// computes total interest once on the financed amount
// (financed * rate * termMonths/12) and splits both interest and principal
// evenly. In both methods the final period absorbs the accumulated rounding
// remainder so the balance closes at exactly zero.
func GenerateSchedule(terms LoanTerms) ([]ScheduleEntry, error) {
	if err := terms.Validate(); err != nil {
		return nil, err
	}

	periods := terms.Frequency.PeriodsForTerm(terms.TermMonths)
	periodRate := terms.AnnualRatePct.
		Div(decimal.NewFromInt(100)).
		Div(decimal.NewFromInt(int64(terms.Frequency.PeriodsPerYear())))

	if terms.Method.Equal(valueobject.MethodFlatRate) {
		return flatRateSchedule(terms, periods), nil
	}
	return amortizedSchedule(terms, periods, periodRate), nil
}

func amortizedSchedule(terms LoanTerms, periods int, periodRate decimal.Decimal) []ScheduleEntry {
	financed := terms.FinancedAmount()
	currency := financed.Currency()
	remaining := financed.Decimal()

	var payment decimal.Decimal
	if periodRate.IsZero() {
		payment = remaining.Div(decimal.NewFromInt(int64(periods))).RoundBank(2)
	} else {
		// Level payment via float64 for the power term, decimal for the rest.
		rate, _ := periodRate.Float64()
		factor := math.Pow(1+rate, float64(periods))
		principalFloat, _ := remaining.Float64()
		payment = decimal.NewFromFloat(principalFloat * rate * factor / (factor - 1)).RoundBank(2)
	}

	schedule := make([]ScheduleEntry, 0, periods)
	for period := 1; period <= periods; period++ {
		interest := remaining.Mul(periodRate).RoundBank(2)
		principal := payment.Sub(interest)

		// Last period absorbs the rounding remainder so the balance closes
		// at exactly zero.
		if period == periods {
			principal = remaining
		}
		remaining = remaining.Sub(principal)

		schedule = append(schedule, ScheduleEntry{
			Number:    period,
			DueDate:   dueDate(terms.StartDate, terms.Frequency, period),
			Principal: money.FromDecimal(principal, currency),
			Interest:  money.FromDecimal(interest, currency),
			Total:     money.FromDecimal(principal.Add(interest), currency),
			Status:    valueobject.ScheduleEntryStatusPending,
			Settled:   money.Zero(currency),
		})
	}
	return schedule
}

func flatRateSchedule(terms LoanTerms, periods int) []ScheduleEntry {
	financed := terms.FinancedAmount()
	currency := financed.Currency()
	n := decimal.NewFromInt(int64(periods))

	totalInterest := financed.Decimal().
		Mul(terms.AnnualRatePct).
		Div(decimal.NewFromInt(100)).
		Mul(decimal.NewFromInt(int64(terms.TermMonths))).
		Div(decimal.NewFromInt(12)).
		RoundBank(2)

	perInterest := totalInterest.Div(n).RoundBank(2)
	perPrincipal := financed.Decimal().Div(n).RoundBank(2)

	schedule := make([]ScheduleEntry, 0, periods)
	for period := 1; period <= periods; period++ {
		interest := perInterest
		principal := perPrincipal

		// Last period absorbs the rounding remainder for both portions.
		if period == periods {
			prior := decimal.NewFromInt(int64(periods - 1))
			interest = totalInterest.Sub(perInterest.Mul(prior))
			principal = financed.Decimal().Sub(perPrincipal.Mul(prior))
		}

		schedule = append(schedule, ScheduleEntry{
			Number:    period,
			DueDate:   dueDate(terms.StartDate, terms.Frequency, period),
			Principal: money.FromDecimal(principal, currency),
			Interest:  money.FromDecimal(interest, currency),
			Total:     money.FromDecimal(principal.Add(interest), currency),
			Status:    valueobject.ScheduleEntryStatusPending,
			Settled:   money.Zero(currency),
		})
	}
	return schedule
}

// dueDate advances from the start date by whole periods. Weekly and biweekly
// frequencies use fixed day increments; monthly advances by calendar months,
// clamping to the last valid day of the target month (31st -> 28th/29th/30th).
func dueDate(start time.Time, frequency valueobject.PaymentFrequency, period int) time.Time {
	switch frequency {
	case valueobject.FrequencyWeekly:
		return start.AddDate(0, 0, 7*period)
	case valueobject.FrequencyBiweekly:
		return start.AddDate(0, 0, 14*period)
	default:
		return addMonthsClamped(start, period)
	}
}

func addMonthsClamped(t time.Time, months int) time.Time {
	year, month, day := t.Date()
	first := time.Date(year, month, 1, 0, 0, 0, 0, t.Location())
	target := first.AddDate(0, months, 0)

	lastDay := target.AddDate(0, 1, -1).Day()
	if day > lastDay {
		day = lastDay
	}
	return time.Date(target.Year(), target.Month(), day,
		t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}
