package campaign

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/RandyMyers/mbzRevamp-sub007/internal/models"

	"github.com/google/uuid"
)

const senderColumns = `id, organization_id, name, email, smtp_host, smtp_port, username, password,
	secure, dkim_selector, dkim_private_key, emails_sent_today, max_daily_limit, last_reset_at,
	is_active, mx_verified, spf_verified, dkim_verified, created_at, updated_at`

func scanSender(row interface{ Scan(...any) error }) (*models.Sender, error) {
	var m models.Sender
	err := row.Scan(
		&m.ID, &m.OrganizationID, &m.Name, &m.Email, &m.SMTPHost, &m.SMTPPort,
		&m.Username, &m.Password, &m.Secure, &m.DKIMSelector, &m.DKIMPrivateKey,
		&m.EmailsSentToday, &m.MaxDailyLimit, &m.LastResetAt, &m.IsActive,
		&m.MXVerified, &m.SPFVerified, &m.DKIMVerified, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// CreateSender stores a new SMTP sender account.
func (s *Service) CreateSender(orgID string, m *models.Sender) (*models.Sender, error) {
	if m.Email == "" || m.SMTPHost == "" || m.Username == "" || m.Password == "" {
		return nil, fmt.Errorf("email, smtp_host, username and password are required")
	}
	if m.Secure != "ssl" && m.Secure != "tls" {
		m.Secure = "tls"
	}
	if m.MaxDailyLimit <= 0 {
		m.MaxDailyLimit = 200
	}

	m.ID = uuid.New().String()
	m.OrganizationID = orgID
	m.IsActive = true
	now := time.Now().UTC()
	m.LastResetAt = now
	m.CreatedAt = now
	m.UpdatedAt = now

	_, err := s.db.Exec(`
		INSERT INTO senders (id, organization_id, name, email, smtp_host, smtp_port, username,
			password, secure, dkim_selector, dkim_private_key, max_daily_limit, last_reset_at,
			is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 1, ?, ?)
	`, m.ID, orgID, m.Name, m.Email, m.SMTPHost, m.SMTPPort, m.Username, m.Password,
		m.Secure, m.DKIMSelector, m.DKIMPrivateKey, m.MaxDailyLimit, now, now, now)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// GetSender loads one sender scoped to the organization, applying the
// lazy daily counter reset.
func (s *Service) GetSender(orgID, id string) (*models.Sender, error) {
	row := s.db.QueryRow("SELECT "+senderColumns+" FROM senders WHERE id = ? AND organization_id = ?", id, orgID)
	m, err := scanSender(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("sender not found")
		}
		return nil, err
	}
	if err := s.maybeResetDaily(m); err != nil {
		return nil, err
	}
	return m, nil
}

// ListSenders returns the organization's senders.
func (s *Service) ListSenders(orgID string) ([]*models.Sender, error) {
	rows, err := s.db.Query("SELECT "+senderColumns+" FROM senders WHERE organization_id = ? ORDER BY created_at", orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	senders := []*models.Sender{}
	for rows.Next() {
		m, err := scanSender(rows)
		if err != nil {
			return nil, err
		}
		senders = append(senders, m)
	}
	return senders, rows.Err()
}

// UpdateSender edits mutable sender fields.
func (s *Service) UpdateSender(orgID, id string, m *models.Sender) (*models.Sender, error) {
	existing, err := s.GetSender(orgID, id)
	if err != nil {
		return nil, err
	}

	if m.Name != "" {
		existing.Name = m.Name
	}
	if m.SMTPHost != "" {
		existing.SMTPHost = m.SMTPHost
	}
	if m.SMTPPort != 0 {
		existing.SMTPPort = m.SMTPPort
	}
	if m.Username != "" {
		existing.Username = m.Username
	}
	if m.Password != "" {
		existing.Password = m.Password
	}
	if m.Secure == "ssl" || m.Secure == "tls" {
		existing.Secure = m.Secure
	}
	if m.DKIMSelector != "" {
		existing.DKIMSelector = m.DKIMSelector
	}
	if m.DKIMPrivateKey != "" {
		existing.DKIMPrivateKey = m.DKIMPrivateKey
	}
	if m.MaxDailyLimit > 0 {
		existing.MaxDailyLimit = m.MaxDailyLimit
	}
	existing.UpdatedAt = time.Now().UTC()

	_, err = s.db.Exec(`
		UPDATE senders SET name = ?, smtp_host = ?, smtp_port = ?, username = ?, password = ?,
			secure = ?, dkim_selector = ?, dkim_private_key = ?, max_daily_limit = ?, updated_at = ?
		WHERE id = ? AND organization_id = ?
	`, existing.Name, existing.SMTPHost, existing.SMTPPort, existing.Username, existing.Password,
		existing.Secure, existing.DKIMSelector, existing.DKIMPrivateKey, existing.MaxDailyLimit,
		existing.UpdatedAt, id, orgID)
	if err != nil {
		return nil, err
	}
	return existing, nil
}

// DeleteSender removes a sender account.
func (s *Service) DeleteSender(orgID, id string) error {
	res, err := s.db.Exec("DELETE FROM senders WHERE id = ? AND organization_id = ?", id, orgID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("sender not found")
	}
	return nil
}

// SetSenderVerification stores the DNS check results.
func (s *Service) SetSenderVerification(id string, mx, spf, dkim bool) error {
	_, err := s.db.Exec(
		"UPDATE senders SET mx_verified = ?, spf_verified = ?, dkim_verified = ?, updated_at = ? WHERE id = ?",
		mx, spf, dkim, time.Now().UTC(), id)
	return err
}

// loadSenders fetches senders preserving the campaign's configured order
// and applying the lazy daily reset.
func (s *Service) loadSenders(orgID string, ids []string) ([]*models.Sender, error) {
	senders := make([]*models.Sender, 0, len(ids))
	for _, id := range ids {
		m, err := s.GetSender(orgID, id)
		if err != nil {
			return nil, fmt.Errorf("sender %s: %w", id, err)
		}
		senders = append(senders, m)
	}
	if len(senders) == 0 {
		return nil, fmt.Errorf("campaign has no senders")
	}
	return senders, nil
}

// maybeResetDaily zeroes the daily counter when the last reset happened
// on a previous UTC day. Stands in for an external midnight cron.
func (s *Service) maybeResetDaily(m *models.Sender) error {
	now := time.Now().UTC()
	last := m.LastResetAt.UTC()
	if last.Year() == now.Year() && last.YearDay() == now.YearDay() {
		return nil
	}
	m.EmailsSentToday = 0
	m.LastResetAt = now
	_, err := s.db.Exec(
		"UPDATE senders SET emails_sent_today = 0, last_reset_at = ?, updated_at = ? WHERE id = ?",
		now, now, m.ID)
	return err
}
