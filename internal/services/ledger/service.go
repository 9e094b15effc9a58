package ledger

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/RandyMyers/mbzRevamp-sub007/internal/models"

	"github.com/google/uuid"
)

type Service struct {
	db *sql.DB
}

func NewService(db *sql.DB) *Service {
	return &Service{db: db}
}

// ErrUnbalanced signals that an entry's debits and credits differ.
var ErrUnbalanced = fmt.Errorf("journal entry is not balanced: debits must equal credits")

var validAccountTypes = map[string]bool{
	models.AccountTypeAsset:     true,
	models.AccountTypeLiability: true,
	models.AccountTypeEquity:    true,
	models.AccountTypeIncome:    true,
	models.AccountTypeExpense:   true,
}

// CreateAccount adds an account to the chart of accounts.
func (s *Service) CreateAccount(orgID string, a *models.Account) (*models.Account, error) {
	if a.Code == "" || a.Name == "" {
		return nil, fmt.Errorf("code and name are required")
	}
	if !validAccountTypes[a.Type] {
		return nil, fmt.Errorf("invalid account type: %s", a.Type)
	}
	if a.ParentID != nil {
		if _, err := s.GetAccount(orgID, *a.ParentID); err != nil {
			return nil, fmt.Errorf("parent account: %w", err)
		}
	}

	a.ID = uuid.New().String()
	a.OrganizationID = orgID
	now := time.Now().UTC()
	a.CreatedAt = now
	a.UpdatedAt = now

	_, err := s.db.Exec(`
		INSERT INTO accounts (id, organization_id, code, name, type, parent_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, a.ID, orgID, a.Code, a.Name, a.Type, a.ParentID, now, now)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE") {
			return nil, fmt.Errorf("account code %s already exists", a.Code)
		}
		return nil, err
	}
	return a, nil
}

// GetAccount loads one account scoped to the organization.
func (s *Service) GetAccount(orgID, id string) (*models.Account, error) {
	var a models.Account
	err := s.db.QueryRow(
		"SELECT id, organization_id, code, name, type, parent_id, created_at, updated_at FROM accounts WHERE id = ? AND organization_id = ?",
		id, orgID).Scan(&a.ID, &a.OrganizationID, &a.Code, &a.Name, &a.Type, &a.ParentID, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("account not found")
		}
		return nil, err
	}
	return &a, nil
}

// ListAccounts returns the chart of accounts ordered by code.
func (s *Service) ListAccounts(orgID string) ([]*models.Account, error) {
	rows, err := s.db.Query(
		"SELECT id, organization_id, code, name, type, parent_id, created_at, updated_at FROM accounts WHERE organization_id = ? ORDER BY code",
		orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	accounts := []*models.Account{}
	for rows.Next() {
		var a models.Account
		if err := rows.Scan(&a.ID, &a.OrganizationID, &a.Code, &a.Name, &a.Type, &a.ParentID,
			&a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		accounts = append(accounts, &a)
	}
	return accounts, rows.Err()
}

// UpdateAccount renames an account. Code and type are immutable once
// journal lines may reference them.
func (s *Service) UpdateAccount(orgID, id, name string) (*models.Account, error) {
	a, err := s.GetAccount(orgID, id)
	if err != nil {
		return nil, err
	}
	if name == "" {
		return nil, fmt.Errorf("name is required")
	}
	a.Name = name
	a.UpdatedAt = time.Now().UTC()
	_, err = s.db.Exec("UPDATE accounts SET name = ?, updated_at = ? WHERE id = ? AND organization_id = ?",
		name, a.UpdatedAt, id, orgID)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// DeleteAccount removes an account unless it has children or is
// referenced by journal lines.
func (s *Service) DeleteAccount(orgID, id string) error {
	if _, err := s.GetAccount(orgID, id); err != nil {
		return err
	}

	var children int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM accounts WHERE parent_id = ?", id).Scan(&children); err != nil {
		return err
	}
	if children > 0 {
		return fmt.Errorf("cannot delete an account with child accounts")
	}

	// Lines are stored as JSON; a LIKE probe on the account id is enough
	// since ids are UUIDs.
	var used int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM journal_entries WHERE lines LIKE ?", "%"+id+"%").Scan(&used); err != nil {
		return err
	}
	if used > 0 {
		return fmt.Errorf("cannot delete an account referenced by journal entries")
	}

	_, err := s.db.Exec("DELETE FROM accounts WHERE id = ? AND organization_id = ?", id, orgID)
	return err
}

// CreateEntry validates and stores a journal entry. The balance guard is
// the one invariant enforced: sum of debits must equal sum of credits to
// the cent at creation time.
func (s *Service) CreateEntry(orgID string, e *models.JournalEntry) (*models.JournalEntry, error) {
	if len(e.Lines) < 2 {
		return nil, fmt.Errorf("a journal entry needs at least two lines")
	}

	var debits, credits int64 // cents
	for _, line := range e.Lines {
		if line.Debit < 0 || line.Credit < 0 {
			return nil, fmt.Errorf("line amounts cannot be negative")
		}
		if (line.Debit > 0) == (line.Credit > 0) {
			return nil, fmt.Errorf("each line must have exactly one of debit or credit")
		}
		if _, err := s.GetAccount(orgID, line.AccountID); err != nil {
			return nil, fmt.Errorf("line account: %w", err)
		}
		debits += cents(line.Debit)
		credits += cents(line.Credit)
	}
	if debits != credits {
		return nil, ErrUnbalanced
	}

	e.ID = uuid.New().String()
	e.OrganizationID = orgID
	if e.Date.IsZero() {
		e.Date = time.Now().UTC()
	}
	e.CreatedAt = time.Now().UTC()

	linesJSON, _ := json.Marshal(e.Lines)
	_, err := s.db.Exec(`
		INSERT INTO journal_entries (id, organization_id, date, memo, lines, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, e.ID, orgID, e.Date, e.Memo, string(linesJSON), e.CreatedAt)
	if err != nil {
		return nil, err
	}
	return e, nil
}

// GetEntry loads one journal entry.
func (s *Service) GetEntry(orgID, id string) (*models.JournalEntry, error) {
	var e models.JournalEntry
	var linesJSON string
	err := s.db.QueryRow(
		"SELECT id, organization_id, date, memo, lines, created_at FROM journal_entries WHERE id = ? AND organization_id = ?",
		id, orgID).Scan(&e.ID, &e.OrganizationID, &e.Date, &e.Memo, &linesJSON, &e.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("journal entry not found")
		}
		return nil, err
	}
	json.Unmarshal([]byte(linesJSON), &e.Lines)
	return &e, nil
}

// ListEntries returns journal entries, newest first.
func (s *Service) ListEntries(orgID string) ([]*models.JournalEntry, error) {
	rows, err := s.db.Query(
		"SELECT id, organization_id, date, memo, lines, created_at FROM journal_entries WHERE organization_id = ? ORDER BY date DESC",
		orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []*models.JournalEntry{}
	for rows.Next() {
		var e models.JournalEntry
		var linesJSON string
		if err := rows.Scan(&e.ID, &e.OrganizationID, &e.Date, &e.Memo, &linesJSON, &e.CreatedAt); err != nil {
			return nil, err
		}
		json.Unmarshal([]byte(linesJSON), &e.Lines)
		entries = append(entries, &e)
	}
	return entries, rows.Err()
}

// TrialBalance aggregates debit and credit totals per account.
func (s *Service) TrialBalance(orgID string) ([]models.TrialBalanceRow, error) {
	accounts, err := s.ListAccounts(orgID)
	if err != nil {
		return nil, err
	}
	entries, err := s.ListEntries(orgID)
	if err != nil {
		return nil, err
	}

	totals := map[string]*models.TrialBalanceRow{}
	for _, a := range accounts {
		totals[a.ID] = &models.TrialBalanceRow{
			AccountID:   a.ID,
			AccountCode: a.Code,
			AccountName: a.Name,
		}
	}
	for _, e := range entries {
		for _, line := range e.Lines {
			row, ok := totals[line.AccountID]
			if !ok {
				continue
			}
			row.Debit += line.Debit
			row.Credit += line.Credit
		}
	}

	report := make([]models.TrialBalanceRow, 0, len(accounts))
	for _, a := range accounts {
		report = append(report, *totals[a.ID])
	}
	return report, nil
}

// cents converts an amount to integer cents for exact comparison.
func cents(v float64) int64 {
	return int64(math.Round(v * 100))
}
