package affiliate

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

func testAffiliate(t *testing.T, s *Service) *models.Affiliate {
	t.Helper()
	a, err := s.Create("org1", &models.Affiliate{
		Name:           "Partner",
		Email:          "partner@example.com",
		CommissionRate: 0.1,
	})
	require.NoError(t, err)
	return a
}

func TestCommissionLifecycle(t *testing.T) {
	s := NewService(testDB(t))
	a := testAffiliate(t, s)

	c, err := s.RecordCommission("org1", a.ID, "order-1", 500)
	require.NoError(t, err)
	assert.Equal(t, 50.0, c.Amount)
	assert.Equal(t, models.CommissionStatusPending, c.Status)

	// Pending commissions do not touch the balance.
	got, err := s.Get("org1", a.ID)
	require.NoError(t, err)
	assert.Equal(t, 0.0, got.Balance)

	_, err = s.ApproveCommission("org1", c.ID)
	require.NoError(t, err)

	got, err = s.Get("org1", a.ID)
	require.NoError(t, err)
	assert.Equal(t, 50.0, got.Balance)

	_, err = s.ApproveCommission("org1", c.ID)
	assert.ErrorContains(t, err, "pending")
}

func TestCreatePayoutDrainsBalance(t *testing.T) {
	s := NewService(testDB(t))
	a := testAffiliate(t, s)

	for _, amount := range []float64{500.0, 300.0} {
		c, err := s.RecordCommission("org1", a.ID, "order", amount)
		require.NoError(t, err)
		_, err = s.ApproveCommission("org1", c.ID)
		require.NoError(t, err)
	}

	p, err := s.CreatePayout("org1", a.ID)
	require.NoError(t, err)
	assert.Equal(t, 80.0, p.Amount)
	assert.Equal(t, models.PayoutStatusPending, p.Status)

	got, err := s.Get("org1", a.ID)
	require.NoError(t, err)
	assert.Equal(t, 0.0, got.Balance)

	commissions, err := s.ListCommissions("org1", a.ID)
	require.NoError(t, err)
	for _, c := range commissions {
		assert.Equal(t, models.CommissionStatusPaid, c.Status)
		require.NotNil(t, c.PayoutID)
		assert.Equal(t, p.ID, *c.PayoutID)
	}

	_, err = s.CreatePayout("org1", a.ID)
	assert.ErrorContains(t, err, "no payable balance")
}

func TestPayoutTransitions(t *testing.T) {
	s := NewService(testDB(t))
	a := testAffiliate(t, s)

	c, err := s.RecordCommission("org1", a.ID, "order-1", 1000)
	require.NoError(t, err)
	_, err = s.ApproveCommission("org1", c.ID)
	require.NoError(t, err)
	p, err := s.CreatePayout("org1", a.ID)
	require.NoError(t, err)

	// Completing before processing is rejected.
	_, err = s.MarkCompleted("org1", p.ID)
	assert.ErrorContains(t, err, "expected processing")

	_, err = s.MarkProcessing("org1", p.ID)
	require.NoError(t, err)

	done, err := s.MarkCompleted("org1", p.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PayoutStatusCompleted, done.Status)

	_, err = s.MarkProcessing("org1", p.ID)
	assert.ErrorContains(t, err, "expected pending")
}

func TestFailedPayoutReversal(t *testing.T) {
	s := NewService(testDB(t))
	a := testAffiliate(t, s)

	c, err := s.RecordCommission("org1", a.ID, "order-1", 1000)
	require.NoError(t, err)
	_, err = s.ApproveCommission("org1", c.ID)
	require.NoError(t, err)
	p, err := s.CreatePayout("org1", a.ID)
	require.NoError(t, err)

	_, err = s.MarkProcessing("org1", p.ID)
	require.NoError(t, err)

	failed, err := s.MarkFailed("org1", p.ID, "bank transfer rejected")
	require.NoError(t, err)
	assert.Equal(t, models.PayoutStatusFailed, failed.Status)
	assert.Equal(t, "bank transfer rejected", failed.FailureReason)

	// The amount is back on the balance and the commissions are payable
	// again.
	got, err := s.Get("org1", a.ID)
	require.NoError(t, err)
	assert.Equal(t, 100.0, got.Balance)

	commissions, err := s.ListCommissions("org1", a.ID)
	require.NoError(t, err)
	require.Len(t, commissions, 1)
	assert.Equal(t, models.CommissionStatusApproved, commissions[0].Status)
	assert.Nil(t, commissions[0].PayoutID)

	// A retry payout picks the reversed amount up again.
	retry, err := s.CreatePayout("org1", a.ID)
	require.NoError(t, err)
	assert.Equal(t, 100.0, retry.Amount)
}

func TestCreateDefaults(t *testing.T) {
	s := NewService(testDB(t))

	a, err := s.Create("org1", &models.Affiliate{Name: "P", Email: "p@example.com", CommissionRate: 2.5})
	require.NoError(t, err)
	assert.Equal(t, 0.1, a.CommissionRate)
	assert.Len(t, a.Code, 8)
	assert.True(t, a.IsActive)
}
