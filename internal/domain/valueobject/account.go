package valueobject

import "fmt"

// ---------------------------------------------------------------------------
// AccountType – immutable value object
// ---------------------------------------------------------------------------

// AccountType classifies a ledger account in the accounting equation.
type AccountType struct {
	value string
}

const (
	accountTypeAsset     = "ASSET"
	accountTypeLiability = "LIABILITY"
	accountTypeExpense   = "EXPENSE"
	accountTypeRevenue   = "REVENUE"
	accountTypeEquity    = "EQUITY"
)

var (
	AccountTypeAsset     = AccountType{value: accountTypeAsset}
	AccountTypeLiability = AccountType{value: accountTypeLiability}
	AccountTypeExpense   = AccountType{value: accountTypeExpense}
	AccountTypeRevenue   = AccountType{value: accountTypeRevenue}
	AccountTypeEquity    = AccountType{value: accountTypeEquity}
)

var validAccountTypes = map[string]AccountType{
	accountTypeAsset:     AccountTypeAsset,
	accountTypeLiability: AccountTypeLiability,
	accountTypeExpense:   AccountTypeExpense,
	accountTypeRevenue:   AccountTypeRevenue,
	accountTypeEquity:    AccountTypeEquity,
}

// NewAccountType creates an AccountType from a raw string.
func NewAccountType(s string) (AccountType, error) {
	v, ok := validAccountTypes[s]
	if !ok {
		return AccountType{}, fmt.Errorf("invalid account type: %q", s)
	}
	return v, nil
}

// String returns the string representation of the account type.
func (a AccountType) String() string { return a.value }

// IsZero returns true if the account type has not been initialised.
func (a AccountType) IsZero() bool { return a.value == "" }

// Equal returns true when both account types carry the same value.
func (a AccountType) Equal(other AccountType) bool {
	return a.value == other.value
}

// ---------------------------------------------------------------------------
// EntrySide – immutable value object
// ---------------------------------------------------------------------------

// EntrySide is the debit/credit side of a journal line.
type EntrySide struct {
	value string
}

const (
	sideDebit  = "DEBIT"
	sideCredit = "CREDIT"
)

var (
	SideDebit  = EntrySide{value: sideDebit}
	SideCredit = EntrySide{value: sideCredit}
)

// NewEntrySide creates an EntrySide from a raw string.
func NewEntrySide(s string) (EntrySide, error) {
	switch s {
	case sideDebit:
		return SideDebit, nil
	case sideCredit:
		return SideCredit, nil
	default:
		return EntrySide{}, fmt.Errorf("invalid entry side: %q", s)
	}
}

// Opposite returns the other side.
func (e EntrySide) Opposite() EntrySide {
	if e.value == sideDebit {
		return SideCredit
	}
	return SideDebit
}

// IsDebit returns true for the debit side.
func (e EntrySide) IsDebit() bool { return e.value == sideDebit }

// String returns the string representation of the side.
func (e EntrySide) String() string { return e.value }

// IsZero returns true if the side has not been initialised.
func (e EntrySide) IsZero() bool { return e.value == "" }

// Equal returns true when both sides carry the same value.
func (e EntrySide) Equal(other EntrySide) bool {
	return e.value == other.value
}
