package usecase_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/elie009/utlityhub360-sub005/internal/domain/model"
	"github.com/elie009/utlityhub360-sub005/internal/domain/valueobject"
	"github.com/elie009/utlityhub360-sub005/pkg/money"
)

var testNow = time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)

func testClock() fixedClock { return fixedClock{now: testNow} }

func defaultPolicy() stubPolicy {
	return stubPolicy{
		penaltyRatePct:     decimal.NewFromInt(5),
		dateWindowDays:     3,
		autoMatchThreshold: 95,
	}
}

func usd(s string) money.Money {
	m, err := money.NewFromString(s, "USD")
	if err != nil {
		panic(err)
	}
	return m
}

func standardTerms() model.LoanTerms {
	return model.LoanTerms{
		Principal:     usd("1200.00"),
		AnnualRatePct: decimal.NewFromInt(12),
		TermMonths:    12,
		Method:        valueobject.MethodAmortized,
		Frequency:     valueobject.FrequencyMonthly,
		StartDate:     time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC),
		DownPayment:   money.Zero(money.USD),
		ProcessingFee: money.Zero(money.USD),
	}
}

func pendingLoan(t *testing.T) model.Loan {
	t.Helper()
	loan, err := model.NewLoan(uuid.New(), standardTerms(), testNow)
	require.NoError(t, err)
	return loan.ClearEvents()
}

func activeLoan(t *testing.T) model.Loan {
	t.Helper()
	loan, err := pendingLoan(t).Disburse(testNow)
	require.NoError(t, err)
	return loan.ClearEvents()
}

func mustMatchType(t *testing.T, s string) valueobject.MatchType {
	t.Helper()
	mt, err := valueobject.NewMatchType(s)
	require.NoError(t, err)
	return mt
}
