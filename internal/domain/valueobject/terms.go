package valueobject

import "fmt"

// ---------------------------------------------------------------------------
// AmortizationMethod – immutable value object
// ---------------------------------------------------------------------------

// AmortizationMethod selects how interest is computed across the schedule.
type AmortizationMethod struct {
	value string
}

const (
	methodAmortized = "AMORTIZED"
	methodFlatRate  = "FLAT_RATE"
)

var (
	// MethodAmortized produces level total payments; the interest portion
	// shrinks and the principal portion grows each period.
	MethodAmortized = AmortizationMethod{value: methodAmortized}
	// MethodFlatRate computes interest once on the financed amount and
	// spreads it evenly across periods.
	MethodFlatRate = AmortizationMethod{value: methodFlatRate}
)

var validMethods = map[string]AmortizationMethod{
	methodAmortized: MethodAmortized,
	methodFlatRate:  MethodFlatRate,
}

// NewAmortizationMethod creates an AmortizationMethod from a raw string.
func NewAmortizationMethod(s string) (AmortizationMethod, error) {
	v, ok := validMethods[s]
	if !ok {
		return AmortizationMethod{}, fmt.Errorf("invalid amortization method: %q", s)
	}
	return v, nil
}

// String returns the string representation of the method.
func (m AmortizationMethod) String() string { return m.value }

// IsZero returns true if the method has not been initialised.
func (m AmortizationMethod) IsZero() bool { return m.value == "" }

// Equal returns true when both methods carry the same value.
func (m AmortizationMethod) Equal(other AmortizationMethod) bool {
	return m.value == other.value
}

// ---------------------------------------------------------------------------
// PaymentFrequency – immutable value object
// ---------------------------------------------------------------------------

// PaymentFrequency is the cadence at which schedule entries fall due.
type PaymentFrequency struct {
	value string
}

const (
	frequencyMonthly  = "MONTHLY"
	frequencyBiweekly = "BIWEEKLY"
	frequencyWeekly   = "WEEKLY"
)

var (
	FrequencyMonthly  = PaymentFrequency{value: frequencyMonthly}
	FrequencyBiweekly = PaymentFrequency{value: frequencyBiweekly}
	FrequencyWeekly   = PaymentFrequency{value: frequencyWeekly}
)

var validFrequencies = map[string]PaymentFrequency{
	frequencyMonthly:  FrequencyMonthly,
	frequencyBiweekly: FrequencyBiweekly,
	frequencyWeekly:   FrequencyWeekly,
}

// NewPaymentFrequency creates a PaymentFrequency from a raw string.
func NewPaymentFrequency(s string) (PaymentFrequency, error) {
	v, ok := validFrequencies[s]
	if !ok {
		return PaymentFrequency{}, fmt.Errorf("invalid payment frequency: %q", s)
	}
	return v, nil
}

// PeriodsPerYear returns how many periods of this frequency fit in a year.
func (f PaymentFrequency) PeriodsPerYear() int {
	switch f.value {
	case frequencyWeekly:
		return 52
	case frequencyBiweekly:
		return 26
	default:
		return 12
	}
}

// PeriodsForTerm converts a term expressed in months into a number of
// periods at this frequency.
func (f PaymentFrequency) PeriodsForTerm(termMonths int) int {
	periods := termMonths * f.PeriodsPerYear() / 12
	if periods < 1 {
		periods = 1
	}
	return periods
}

// String returns the string representation of the frequency.
func (f PaymentFrequency) String() string { return f.value }

// IsZero returns true if the frequency has not been initialised.
func (f PaymentFrequency) IsZero() bool { return f.value == "" }

// Equal returns true when both frequencies carry the same value.
func (f PaymentFrequency) Equal(other PaymentFrequency) bool {
	return f.value == other.value
}
