package valueobject

import "fmt"

// ---------------------------------------------------------------------------
// MatchStatus – immutable value object
// ---------------------------------------------------------------------------

// MatchStatus is the state of a reconciliation match.
type MatchStatus struct {
	value string
}

const (
	matchStatusMatched   = "MATCHED"
	matchStatusUnmatched = "UNMATCHED"
	matchStatusPending   = "PENDING"
	matchStatusDisputed  = "DISPUTED"
)

var (
	MatchStatusMatched   = MatchStatus{value: matchStatusMatched}
	MatchStatusUnmatched = MatchStatus{value: matchStatusUnmatched}
	MatchStatusPending   = MatchStatus{value: matchStatusPending}
	MatchStatusDisputed  = MatchStatus{value: matchStatusDisputed}
)

var validMatchStatuses = map[string]MatchStatus{
	matchStatusMatched:   MatchStatusMatched,
	matchStatusUnmatched: MatchStatusUnmatched,
	matchStatusPending:   MatchStatusPending,
	matchStatusDisputed:  MatchStatusDisputed,
}

// NewMatchStatus creates a MatchStatus from a raw string.
func NewMatchStatus(s string) (MatchStatus, error) {
	v, ok := validMatchStatuses[s]
	if !ok {
		return MatchStatus{}, fmt.Errorf("invalid match status: %q", s)
	}
	return v, nil
}

// Active reports whether the match currently binds its two sides. A disputed
// or unmatched match releases both sides for re-matching.
func (s MatchStatus) Active() bool {
	return s.value == matchStatusMatched || s.value == matchStatusPending
}

// String returns the string representation of the status.
func (s MatchStatus) String() string { return s.value }

// IsZero returns true if the status has not been initialised.
func (s MatchStatus) IsZero() bool { return s.value == "" }

// Equal returns true when both statuses carry the same value.
func (s MatchStatus) Equal(other MatchStatus) bool {
	return s.value == other.value
}

// ---------------------------------------------------------------------------
// MatchType – immutable value object
// ---------------------------------------------------------------------------

// MatchType records how a reconciliation match was produced.
type MatchType struct {
	value string
}

const (
	matchTypeAuto      = "AUTO"
	matchTypeManual    = "MANUAL"
	matchTypeSuggested = "SUGGESTED"
)

var (
	MatchTypeAuto      = MatchType{value: matchTypeAuto}
	MatchTypeManual    = MatchType{value: matchTypeManual}
	MatchTypeSuggested = MatchType{value: matchTypeSuggested}
)

// NewMatchType creates a MatchType from a raw string.
func NewMatchType(s string) (MatchType, error) {
	switch s {
	case matchTypeAuto:
		return MatchTypeAuto, nil
	case matchTypeManual:
		return MatchTypeManual, nil
	case matchTypeSuggested:
		return MatchTypeSuggested, nil
	default:
		return MatchType{}, fmt.Errorf("invalid match type: %q", s)
	}
}

// String returns the string representation of the match type.
func (t MatchType) String() string { return t.value }

// Equal returns true when both types carry the same value.
func (t MatchType) Equal(other MatchType) bool {
	return t.value == other.value
}
