package ledger

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/RandyMyers/mbzRevamp-sub007/internal/database"
	"github.com/RandyMyers/mbzRevamp-sub007/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.Init(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func testAccount(t *testing.T, s *Service, orgID, code, name, typ string) *models.Account {
	t.Helper()
	a, err := s.CreateAccount(orgID, &models.Account{Code: code, Name: name, Type: typ})
	require.NoError(t, err)
	return a
}

func TestCreateAccountValidation(t *testing.T) {
	s := NewService(testDB(t))

	_, err := s.CreateAccount("org1", &models.Account{Code: "1000", Name: "Cash", Type: "bogus"})
	assert.ErrorContains(t, err, "invalid account type")

	_, err = s.CreateAccount("org1", &models.Account{Name: "Cash", Type: models.AccountTypeAsset})
	assert.ErrorContains(t, err, "required")

	testAccount(t, s, "org1", "1000", "Cash", models.AccountTypeAsset)
	_, err = s.CreateAccount("org1", &models.Account{Code: "1000", Name: "Cash again", Type: models.AccountTypeAsset})
	assert.ErrorContains(t, err, "already exists")

	// Same code in another organization is fine.
	_, err = s.CreateAccount("org2", &models.Account{Code: "1000", Name: "Cash", Type: models.AccountTypeAsset})
	assert.NoError(t, err)
}

func TestCreateEntryBalanceGuard(t *testing.T) {
	s := NewService(testDB(t))
	cash := testAccount(t, s, "org1", "1000", "Cash", models.AccountTypeAsset)
	sales := testAccount(t, s, "org1", "4000", "Sales", models.AccountTypeIncome)

	_, err := s.CreateEntry("org1", &models.JournalEntry{
		Memo: "unbalanced",
		Lines: []models.JournalLine{
			{AccountID: cash.ID, Debit: 100},
			{AccountID: sales.ID, Credit: 90},
		},
	})
	assert.ErrorIs(t, err, ErrUnbalanced)

	entry, err := s.CreateEntry("org1", &models.JournalEntry{
		Memo: "cash sale",
		Lines: []models.JournalLine{
			{AccountID: cash.ID, Debit: 100},
			{AccountID: sales.ID, Credit: 100},
		},
	})
	require.NoError(t, err)

	got, err := s.GetEntry("org1", entry.ID)
	require.NoError(t, err)
	assert.Len(t, got.Lines, 2)
}

func TestCreateEntryBalancesToTheCent(t *testing.T) {
	s := NewService(testDB(t))
	cash := testAccount(t, s, "org1", "1000", "Cash", models.AccountTypeAsset)
	sales := testAccount(t, s, "org1", "4000", "Sales", models.AccountTypeIncome)

	// 0.1 + 0.2 vs 0.3 must not trip the guard on float noise.
	_, err := s.CreateEntry("org1", &models.JournalEntry{
		Lines: []models.JournalLine{
			{AccountID: cash.ID, Debit: 0.1},
			{AccountID: cash.ID, Debit: 0.2},
			{AccountID: sales.ID, Credit: 0.3},
		},
	})
	assert.NoError(t, err)
}

func TestCreateEntryLineRules(t *testing.T) {
	s := NewService(testDB(t))
	cash := testAccount(t, s, "org1", "1000", "Cash", models.AccountTypeAsset)

	_, err := s.CreateEntry("org1", &models.JournalEntry{
		Lines: []models.JournalLine{{AccountID: cash.ID, Debit: 100}},
	})
	assert.ErrorContains(t, err, "at least two lines")

	_, err = s.CreateEntry("org1", &models.JournalEntry{
		Lines: []models.JournalLine{
			{AccountID: cash.ID, Debit: 100, Credit: 100},
			{AccountID: cash.ID, Debit: 100},
		},
	})
	assert.ErrorContains(t, err, "exactly one")

	_, err = s.CreateEntry("org1", &models.JournalEntry{
		Lines: []models.JournalLine{
			{AccountID: cash.ID, Debit: 100},
			{AccountID: "missing", Credit: 100},
		},
	})
	assert.ErrorContains(t, err, "not found")
}

func TestDeleteAccountGuards(t *testing.T) {
	s := NewService(testDB(t))
	parent := testAccount(t, s, "org1", "1000", "Assets", models.AccountTypeAsset)

	child, err := s.CreateAccount("org1", &models.Account{
		Code: "1010", Name: "Cash", Type: models.AccountTypeAsset, ParentID: &parent.ID,
	})
	require.NoError(t, err)

	err = s.DeleteAccount("org1", parent.ID)
	assert.ErrorContains(t, err, "child accounts")

	sales := testAccount(t, s, "org1", "4000", "Sales", models.AccountTypeIncome)
	_, err = s.CreateEntry("org1", &models.JournalEntry{
		Lines: []models.JournalLine{
			{AccountID: child.ID, Debit: 50},
			{AccountID: sales.ID, Credit: 50},
		},
	})
	require.NoError(t, err)

	err = s.DeleteAccount("org1", child.ID)
	assert.ErrorContains(t, err, "journal entries")

	unused := testAccount(t, s, "org1", "5000", "Rent", models.AccountTypeExpense)
	require.NoError(t, s.DeleteAccount("org1", unused.ID))
}

func TestTrialBalance(t *testing.T) {
	s := NewService(testDB(t))
	cash := testAccount(t, s, "org1", "1000", "Cash", models.AccountTypeAsset)
	sales := testAccount(t, s, "org1", "4000", "Sales", models.AccountTypeIncome)

	for i := 0; i < 3; i++ {
		_, err := s.CreateEntry("org1", &models.JournalEntry{
			Lines: []models.JournalLine{
				{AccountID: cash.ID, Debit: 100},
				{AccountID: sales.ID, Credit: 100},
			},
		})
		require.NoError(t, err)
	}

	rows, err := s.TrialBalance("org1")
	require.NoError(t, err)
	require.Len(t, rows, 2)

	var totalDebit, totalCredit float64
	for _, row := range rows {
		totalDebit += row.Debit
		totalCredit += row.Credit
	}
	assert.Equal(t, 300.0, totalDebit)
	assert.Equal(t, totalDebit, totalCredit)
}
