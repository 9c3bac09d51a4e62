package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewLoanRepo(t *testing.T) {
	t.Run("creates repo with nil pool", func(t *testing.T) {
		repo := NewLoanRepo(nil)
		assert.NotNil(t, repo)
		assert.Nil(t, repo.pool)
	})
}

func TestNewJournalRepo(t *testing.T) {
	t.Run("creates repo with nil pool", func(t *testing.T) {
		repo := NewJournalRepo(nil)
		assert.NotNil(t, repo)
		assert.Nil(t, repo.pool)
	})
}

func TestNewPaymentRepo(t *testing.T) {
	repo := NewPaymentRepo(nil)
	assert.NotNil(t, repo)
}

func TestNewPenaltyRepo(t *testing.T) {
	repo := NewPenaltyRepo(nil)
	assert.NotNil(t, repo)
}

func TestNewStatementRepo(t *testing.T) {
	repo := NewStatementRepo(nil)
	assert.NotNil(t, repo)
}

func TestNewReconciliationRepo(t *testing.T) {
	repo := NewReconciliationRepo(nil)
	assert.NotNil(t, repo)
}

func TestNewOutboxRepo(t *testing.T) {
	repo := NewOutboxRepo(nil)
	assert.NotNil(t, repo)
}

func TestMoneyFrom(t *testing.T) {
	t.Run("rebuilds minor units and currency", func(t *testing.T) {
		m, err := moneyFrom(10662, "USD")
		assert.NoError(t, err)
		assert.Equal(t, int64(10662), m.Units())
		assert.Equal(t, "USD", m.Currency().Code())
	})

	t.Run("rejects a malformed currency code", func(t *testing.T) {
		_, err := moneyFrom(100, "usd")
		assert.Error(t, err)
	})
}
