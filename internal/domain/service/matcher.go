package service

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/elie009/utlityhub360-sub005/internal/domain/model"
	"github.com/elie009/utlityhub360-sub005/internal/domain/port"
	"github.com/elie009/utlityhub360-sub005/internal/domain/valueobject"
)

// Score weights. Amount agreement is the gate: without it a candidate scores
// zero regardless of how close the dates or descriptions are.
const (
	amountScore     = 65
	dateScoreMax    = 20
	overlapScoreMax = 15
	minTokenLength  = 3
)

// MatchSuggestion is one scored pairing of a system transaction with a
// statement item. Suggestions at or above the auto threshold carry MatchTypeAuto.
type MatchSuggestion struct {
	TransactionID   uuid.UUID
	StatementItemID uuid.UUID
	Score           int
	Type            valueobject.MatchType
	Reason          string
}

// ReconciliationMatcher scores statement items against system transactions.
// Matching is pure and deterministic: the same inputs always yield the same
// suggestions in the same order.
type ReconciliationMatcher struct {
	policy port.PolicyProvider
}

// NewReconciliationMatcher wires the matching policy.
func NewReconciliationMatcher(policy port.PolicyProvider) *ReconciliationMatcher {
	return &ReconciliationMatcher{policy: policy}
}

// SuggestMatches pairs each system transaction with its best-scoring unmatched
// statement item. Transactions are processed in date order (ties by ID) and
// greedily claim items, so an item feeds at most one suggestion. Candidates
// must agree on amount within the policy tolerance and fall inside the date
// window; ties on score break toward the smaller date distance, then toward
// the earlier item in statement order.
func (m *ReconciliationMatcher) SuggestMatches(
	transactions []model.SystemTransaction,
	items []model.StatementItem,
) []MatchSuggestion {
	window := m.policy.MatchDateWindowDays()
	tolerance := m.policy.MatchAmountToleranceMinor()
	threshold := m.policy.AutoMatchThreshold()

	ordered := append([]model.SystemTransaction(nil), transactions...)
	sort.SliceStable(ordered, func(i, j int) bool {
		if !ordered[i].Date.Equal(ordered[j].Date) {
			return ordered[i].Date.Before(ordered[j].Date)
		}
		return ordered[i].ID.String() < ordered[j].ID.String()
	})

	claimed := make(map[uuid.UUID]bool)
	var suggestions []MatchSuggestion

	for _, txn := range ordered {
		best := -1
		bestScore := 0
		bestDistance := 0
		var bestReason string

		for i, item := range items {
			if item.Matched || claimed[item.ID] {
				continue
			}
			score, distance, reason, ok := m.score(txn, item, window, tolerance)
			if !ok {
				continue
			}
			if best < 0 || score > bestScore || (score == bestScore && distance < bestDistance) {
				best = i
				bestScore = score
				bestDistance = distance
				bestReason = reason
			}
		}
		if best < 0 {
			continue
		}

		item := items[best]
		claimed[item.ID] = true
		matchType := valueobject.MatchTypeSuggested
		if bestScore >= threshold {
			matchType = valueobject.MatchTypeAuto
		}
		suggestions = append(suggestions, MatchSuggestion{
			TransactionID:   txn.ID,
			StatementItemID: item.ID,
			Score:           bestScore,
			Type:            matchType,
			Reason:          bestReason,
		})
	}

	return suggestions
}

// score rates one candidate pair. A pair outside the amount tolerance or the
// date window is not a candidate at all.
func (m *ReconciliationMatcher) score(
	txn model.SystemTransaction,
	item model.StatementItem,
	window int,
	tolerance int64,
) (score, distance int, reason string, ok bool) {
	diff := txn.Amount.Units() - item.Amount.Units()
	if diff < 0 {
		diff = -diff
	}
	if diff > tolerance {
		return 0, 0, "", false
	}

	distance = dayDistance(txn.Date, item.Date)
	if distance > window {
		return 0, 0, "", false
	}

	score = amountScore
	reasons := []string{"amount"}

	// Same-day candidates take the full date weight; the score decays
	// linearly to a floor just above zero at the window edge.
	dateScore := dateScoreMax * (window + 1 - distance) / (window + 1)
	score += dateScore
	if dateScore > 0 {
		reasons = append(reasons, "date")
	}

	if descriptionsOverlap(txn.Description, item.Description) ||
		(txn.Reference != "" && strings.Contains(strings.ToUpper(item.Description), strings.ToUpper(txn.Reference))) {
		score += overlapScoreMax
		reasons = append(reasons, "description")
	}

	return score, distance, strings.Join(reasons, "+"), true
}

// dayDistance is the absolute calendar distance in whole days, ignoring the
// time of day on either side.
func dayDistance(a, b time.Time) int {
	ad := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	bd := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	d := int(ad.Sub(bd).Hours() / 24)
	if d < 0 {
		d = -d
	}
	return d
}

// descriptionsOverlap reports whether the two descriptions share at least one
// meaningful token. Tokens shorter than three characters carry no signal
// (articles, bank noise) and are skipped.
func descriptionsOverlap(a, b string) bool {
	tokens := make(map[string]bool)
	for _, t := range strings.Fields(strings.ToUpper(a)) {
		if len(t) >= minTokenLength {
			tokens[t] = true
		}
	}
	if len(tokens) == 0 {
		return false
	}
	for _, t := range strings.Fields(strings.ToUpper(b)) {
		if len(t) >= minTokenLength && tokens[t] {
			return true
		}
	}
	return false
}
