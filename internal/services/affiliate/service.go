package affiliate

import (
	"database/sql"
	"fmt"
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

const affiliateColumns = `id, organization_id, user_id, name, email, code, commission_rate,
	balance, is_active, created_at, updated_at`

func scanAffiliate(row interface{ Scan(...any) error }) (*models.Affiliate, error) {
	var a models.Affiliate
	err := row.Scan(&a.ID, &a.OrganizationID, &a.UserID, &a.Name, &a.Email, &a.Code,
		&a.CommissionRate, &a.Balance, &a.IsActive, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// Create registers an affiliate with a unique referral code.
func (s *Service) Create(orgID string, a *models.Affiliate) (*models.Affiliate, error) {
	if a.Name == "" || a.Email == "" {
		return nil, fmt.Errorf("name and email are required")
	}
	if a.CommissionRate <= 0 || a.CommissionRate >= 1 {
		a.CommissionRate = 0.1
	}
	if a.Code == "" {
		a.Code = strings.ToUpper(uuid.New().String()[:8])
	}

	a.ID = uuid.New().String()
	a.OrganizationID = orgID
	a.IsActive = true
	now := time.Now().UTC()
	a.CreatedAt = now
	a.UpdatedAt = now

	_, err := s.db.Exec(`
		INSERT INTO affiliates (id, organization_id, user_id, name, email, code, commission_rate, balance, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, 0, 1, ?, ?)
	`, a.ID, orgID, a.UserID, a.Name, a.Email, a.Code, a.CommissionRate, now, now)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE") {
			return nil, fmt.Errorf("referral code already in use")
		}
		return nil, err
	}
	return a, nil
}

// Get loads one affiliate scoped to the organization.
func (s *Service) Get(orgID, id string) (*models.Affiliate, error) {
	row := s.db.QueryRow("SELECT "+affiliateColumns+" FROM affiliates WHERE id = ? AND organization_id = ?", id, orgID)
	a, err := scanAffiliate(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("affiliate not found")
		}
		return nil, err
	}
	return a, nil
}

// List returns the organization's affiliates.
func (s *Service) List(orgID string) ([]*models.Affiliate, error) {
	rows, err := s.db.Query("SELECT "+affiliateColumns+" FROM affiliates WHERE organization_id = ? ORDER BY created_at", orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	affiliates := []*models.Affiliate{}
	for rows.Next() {
		a, err := scanAffiliate(rows)
		if err != nil {
			return nil, err
		}
		affiliates = append(affiliates, a)
	}
	return affiliates, rows.Err()
}

// RecordCommission adds a pending commission for an order.
func (s *Service) RecordCommission(orgID, affiliateID, orderRef string, orderAmount float64) (*models.Commission, error) {
	a, err := s.Get(orgID, affiliateID)
	if err != nil {
		return nil, err
	}
	if orderAmount <= 0 {
		return nil, fmt.Errorf("order amount must be positive")
	}

	c := &models.Commission{
		ID:             uuid.New().String(),
		OrganizationID: orgID,
		AffiliateID:    affiliateID,
		OrderRef:       orderRef,
		Amount:         orderAmount * a.CommissionRate,
		Status:         models.CommissionStatusPending,
	}
	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now

	_, err = s.db.Exec(`
		INSERT INTO commissions (id, organization_id, affiliate_id, order_ref, amount, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, c.ID, orgID, affiliateID, orderRef, c.Amount, c.Status, now, now)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// ApproveCommission moves a pending commission to approved and credits
// the affiliate's balance.
func (s *Service) ApproveCommission(orgID, id string) (*models.Commission, error) {
	c, err := s.getCommission(orgID, id)
	if err != nil {
		return nil, err
	}
	if c.Status != models.CommissionStatusPending {
		return nil, fmt.Errorf("only a pending commission can be approved")
	}

	now := time.Now().UTC()
	if _, err := s.db.Exec("UPDATE commissions SET status = ?, updated_at = ? WHERE id = ?",
		models.CommissionStatusApproved, now, id); err != nil {
		return nil, err
	}
	if _, err := s.db.Exec("UPDATE affiliates SET balance = balance + ?, updated_at = ? WHERE id = ?",
		c.Amount, now, c.AffiliateID); err != nil {
		return nil, err
	}
	c.Status = models.CommissionStatusApproved
	c.UpdatedAt = now
	return c, nil
}

// ListCommissions returns an affiliate's commissions.
func (s *Service) ListCommissions(orgID, affiliateID string) ([]*models.Commission, error) {
	rows, err := s.db.Query(`
		SELECT id, organization_id, affiliate_id, order_ref, amount, status, payout_id, created_at, updated_at
		FROM commissions WHERE organization_id = ? AND affiliate_id = ? ORDER BY created_at DESC
	`, orgID, affiliateID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	commissions := []*models.Commission{}
	for rows.Next() {
		var c models.Commission
		if err := rows.Scan(&c.ID, &c.OrganizationID, &c.AffiliateID, &c.OrderRef, &c.Amount,
			&c.Status, &c.PayoutID, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		commissions = append(commissions, &c)
	}
	return commissions, rows.Err()
}

// CreatePayout opens a payout for the affiliate's full approved balance.
// The balance moves into the payout and the approved commissions are
// marked paid and tied to it.
func (s *Service) CreatePayout(orgID, affiliateID string) (*models.Payout, error) {
	a, err := s.Get(orgID, affiliateID)
	if err != nil {
		return nil, err
	}
	if a.Balance <= 0 {
		return nil, fmt.Errorf("affiliate has no payable balance")
	}

	p := &models.Payout{
		ID:             uuid.New().String(),
		OrganizationID: orgID,
		AffiliateID:    affiliateID,
		Amount:         a.Balance,
		Status:         models.PayoutStatusPending,
	}
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now

	if _, err := s.db.Exec(`
		INSERT INTO payouts (id, organization_id, affiliate_id, amount, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, p.ID, orgID, affiliateID, p.Amount, p.Status, now, now); err != nil {
		return nil, err
	}

	if _, err := s.db.Exec("UPDATE affiliates SET balance = 0, updated_at = ? WHERE id = ?", now, affiliateID); err != nil {
		return nil, err
	}
	if _, err := s.db.Exec(
		"UPDATE commissions SET status = ?, payout_id = ?, updated_at = ? WHERE affiliate_id = ? AND status = ?",
		models.CommissionStatusPaid, p.ID, now, affiliateID, models.CommissionStatusApproved); err != nil {
		return nil, err
	}
	return p, nil
}

// GetPayout loads one payout.
func (s *Service) GetPayout(orgID, id string) (*models.Payout, error) {
	var p models.Payout
	err := s.db.QueryRow(`
		SELECT id, organization_id, affiliate_id, amount, status, failure_reason, created_at, updated_at
		FROM payouts WHERE id = ? AND organization_id = ?
	`, id, orgID).Scan(&p.ID, &p.OrganizationID, &p.AffiliateID, &p.Amount, &p.Status,
		&p.FailureReason, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("payout not found")
		}
		return nil, err
	}
	return &p, nil
}

// MarkProcessing moves a pending payout into processing.
func (s *Service) MarkProcessing(orgID, id string) (*models.Payout, error) {
	return s.transition(orgID, id, models.PayoutStatusPending, models.PayoutStatusProcessing, "")
}

// MarkCompleted finishes a processing payout. Completed is terminal.
func (s *Service) MarkCompleted(orgID, id string) (*models.Payout, error) {
	return s.transition(orgID, id, models.PayoutStatusProcessing, models.PayoutStatusCompleted, "")
}

// MarkFailed fails a processing payout and performs the compensating
// reversal: the amount returns to the affiliate's balance and the paid
// commissions revert to approved. Two sequential writes, not a
// transaction, mirroring the ad hoc undo the flow requires.
func (s *Service) MarkFailed(orgID, id, reason string) (*models.Payout, error) {
	p, err := s.transition(orgID, id, models.PayoutStatusProcessing, models.PayoutStatusFailed, reason)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if _, err := s.db.Exec("UPDATE affiliates SET balance = balance + ?, updated_at = ? WHERE id = ?",
		p.Amount, now, p.AffiliateID); err != nil {
		return nil, err
	}
	if _, err := s.db.Exec(
		"UPDATE commissions SET status = ?, payout_id = NULL, updated_at = ? WHERE payout_id = ?",
		models.CommissionStatusApproved, now, p.ID); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) transition(orgID, id, from, to, reason string) (*models.Payout, error) {
	p, err := s.GetPayout(orgID, id)
	if err != nil {
		return nil, err
	}
	if p.Status != from {
		return nil, fmt.Errorf("payout is %s, expected %s", p.Status, from)
	}

	p.Status = to
	p.FailureReason = reason
	p.UpdatedAt = time.Now().UTC()
	if _, err := s.db.Exec("UPDATE payouts SET status = ?, failure_reason = ?, updated_at = ? WHERE id = ?",
		to, reason, p.UpdatedAt, id); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) getCommission(orgID, id string) (*models.Commission, error) {
	var c models.Commission
	err := s.db.QueryRow(`
		SELECT id, organization_id, affiliate_id, order_ref, amount, status, payout_id, created_at, updated_at
		FROM commissions WHERE id = ? AND organization_id = ?
	`, id, orgID).Scan(&c.ID, &c.OrganizationID, &c.AffiliateID, &c.OrderRef, &c.Amount,
		&c.Status, &c.PayoutID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("commission not found")
		}
		return nil, err
	}
	return &c, nil
}
