package payroll

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/RandyMyers/mbzRevamp-sub007/internal/database"

	"github.com/google/uuid"
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

func insertEmployee(t *testing.T, db *sql.DB, orgID, first string, salary float64, active bool) string {
	t.Helper()
	id := uuid.New().String()
	now := time.Now().UTC()
	_, err := db.Exec(`
		INSERT INTO employees (id, organization_id, user_id, first_name, last_name, email,
			department, position, salary, hire_date, is_active, created_at, updated_at)
		VALUES (?, ?, '', ?, 'Tester', ?, 'eng', 'dev', ?, ?, ?, ?, ?)
	`, id, orgID, first, first+"@example.com", salary, now, active, now, now)
	require.NoError(t, err)
	return id
}

func TestProcessPayroll(t *testing.T) {
	db := testDB(t)
	s := NewService(db)
	insertEmployee(t, db, "org1", "Ada", 300000, true)
	insertEmployee(t, db, "org1", "Bayo", 5000000, true)
	insertEmployee(t, db, "org1", "Gone", 900000, false) // inactive, excluded

	p, err := s.Process("org1", 8, 2026)
	require.NoError(t, err)
	require.Len(t, p.Items, 2)
	assert.Equal(t, 8, p.Month)
	assert.Equal(t, 2026, p.Year)

	assert.Equal(t, 5300000.0, p.Totals.Gross)
	assert.InDelta(t, p.Items[0].NetPay+p.Items[1].NetPay, p.Totals.NetPay, 0.001)

	got, err := s.Get("org1", p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.Totals, got.Totals)
}

func TestProcessDuplicatePeriod(t *testing.T) {
	db := testDB(t)
	s := NewService(db)
	insertEmployee(t, db, "org1", "Ada", 300000, true)

	_, err := s.Process("org1", 8, 2026)
	require.NoError(t, err)

	_, err = s.Process("org1", 8, 2026)
	assert.ErrorIs(t, err, ErrDuplicatePeriod)

	// Another month, and another organization, are fine.
	_, err = s.Process("org1", 9, 2026)
	assert.NoError(t, err)

	insertEmployee(t, db, "org2", "Efe", 400000, true)
	_, err = s.Process("org2", 8, 2026)
	assert.NoError(t, err)
}

func TestProcessValidation(t *testing.T) {
	db := testDB(t)
	s := NewService(db)

	_, err := s.Process("org1", 13, 2026)
	assert.ErrorContains(t, err, "month")

	_, err = s.Process("org1", 1, 1999)
	assert.ErrorContains(t, err, "year")

	_, err = s.Process("org1", 8, 2026)
	assert.ErrorContains(t, err, "no active employees")
}

func TestUpdateItemRecomputesTotals(t *testing.T) {
	db := testDB(t)
	s := NewService(db)
	empID := insertEmployee(t, db, "org1", "Ada", 300000, true)
	insertEmployee(t, db, "org1", "Bayo", 300000, true)

	p, err := s.Process("org1", 8, 2026)
	require.NoError(t, err)
	before := p.Totals

	updated, err := s.UpdateItem("org1", p.ID, empID, 600000)
	require.NoError(t, err)

	want := Compute(600000)
	var item *struct {
		net  float64
		paye float64
	}
	for _, it := range updated.Items {
		if it.EmployeeID == empID {
			item = &struct {
				net  float64
				paye float64
			}{it.NetPay, it.PAYE}
		}
	}
	require.NotNil(t, item)
	assert.Equal(t, want.NetPay, item.net)
	assert.Equal(t, want.PAYE, item.paye)
	assert.Greater(t, updated.Totals.Gross, before.Gross)

	_, err = s.UpdateItem("org1", p.ID, "missing-employee", 600000)
	assert.Error(t, err)
}
