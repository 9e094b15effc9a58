package models

import (
	"time"
)

// Account types for the chart of accounts.
const (
	AccountTypeAsset     = "asset"
	AccountTypeLiability = "liability"
	AccountTypeEquity    = "equity"
	AccountTypeIncome    = "income"
	AccountTypeExpense   = "expense"
)

// Account is one entry in the chart of accounts. ParentID builds the
// hierarchy; an account with children cannot be deleted.
type Account struct {
	ID             string    `json:"id" db:"id"`
	OrganizationID string    `json:"organization_id" db:"organization_id"`
	Code           string    `json:"code" db:"code"`
	Name           string    `json:"name" db:"name"`
	Type           string    `json:"type" db:"type"`
	ParentID       *string   `json:"parent_id" db:"parent_id"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}

// JournalLine is one leg of a journal entry. Exactly one of Debit/Credit
// should be non-zero.
type JournalLine struct {
	AccountID string  `json:"account_id"`
	Debit     float64 `json:"debit"`
	Credit    float64 `json:"credit"`
}

// JournalEntry is a double-entry record. Lines must balance
// (sum of debits equals sum of credits) at creation time.
type JournalEntry struct {
	ID             string        `json:"id" db:"id"`
	OrganizationID string        `json:"organization_id" db:"organization_id"`
	Date           time.Time     `json:"date" db:"date"`
	Memo           string        `json:"memo" db:"memo"`
	Lines          []JournalLine `json:"lines" db:"lines"`
	CreatedAt      time.Time     `json:"created_at" db:"created_at"`
}

// TrialBalanceRow is one account's aggregate in the trial balance report.
type TrialBalanceRow struct {
	AccountID   string  `json:"account_id"`
	AccountCode string  `json:"account_code"`
	AccountName string  `json:"account_name"`
	Debit       float64 `json:"debit"`
	Credit      float64 `json:"credit"`
}
