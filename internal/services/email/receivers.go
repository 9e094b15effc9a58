package email

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/RandyMyers/mbzRevamp-sub007/internal/models"

	"github.com/google/uuid"
)

const receiverColumns = `id, organization_id, email, imap_host, imap_port, username, password,
	is_active, last_fetched_at, created_at, updated_at`

func scanReceiver(row interface{ Scan(...any) error }) (*models.Receiver, error) {
	var m models.Receiver
	err := row.Scan(
		&m.ID, &m.OrganizationID, &m.Email, &m.IMAPHost, &m.IMAPPort,
		&m.Username, &m.Password, &m.IsActive, &m.LastFetchedAt,
		&m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// CreateReceiver stores an IMAP account for syncing.
func (s *Service) CreateReceiver(orgID string, m *models.Receiver) (*models.Receiver, error) {
	if m.Email == "" || m.IMAPHost == "" || m.Username == "" || m.Password == "" {
		return nil, fmt.Errorf("email, imap_host, username and password are required")
	}
	if m.IMAPPort == 0 {
		m.IMAPPort = 993
	}

	m.ID = uuid.New().String()
	m.OrganizationID = orgID
	m.IsActive = true
	now := time.Now().UTC()
	m.CreatedAt = now
	m.UpdatedAt = now

	_, err := s.db.Exec(`
		INSERT INTO receivers (id, organization_id, email, imap_host, imap_port, username, password, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, 1, ?, ?)
	`, m.ID, orgID, m.Email, m.IMAPHost, m.IMAPPort, m.Username, m.Password, now, now)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// GetReceiver loads one receiver scoped to the organization.
func (s *Service) GetReceiver(orgID, id string) (*models.Receiver, error) {
	row := s.db.QueryRow("SELECT "+receiverColumns+" FROM receivers WHERE id = ? AND organization_id = ?", id, orgID)
	m, err := scanReceiver(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("receiver not found")
		}
		return nil, err
	}
	return m, nil
}

// ListReceivers returns the organization's IMAP accounts.
func (s *Service) ListReceivers(orgID string) ([]*models.Receiver, error) {
	rows, err := s.db.Query("SELECT "+receiverColumns+" FROM receivers WHERE organization_id = ? ORDER BY created_at", orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	receivers := []*models.Receiver{}
	for rows.Next() {
		m, err := scanReceiver(rows)
		if err != nil {
			return nil, err
		}
		receivers = append(receivers, m)
	}
	return receivers, rows.Err()
}

// UpdateReceiver edits mutable receiver fields.
func (s *Service) UpdateReceiver(orgID, id string, m *models.Receiver) (*models.Receiver, error) {
	existing, err := s.GetReceiver(orgID, id)
	if err != nil {
		return nil, err
	}

	if m.IMAPHost != "" {
		existing.IMAPHost = m.IMAPHost
	}
	if m.IMAPPort != 0 {
		existing.IMAPPort = m.IMAPPort
	}
	if m.Username != "" {
		existing.Username = m.Username
	}
	if m.Password != "" {
		existing.Password = m.Password
	}
	existing.UpdatedAt = time.Now().UTC()

	_, err = s.db.Exec(`
		UPDATE receivers SET imap_host = ?, imap_port = ?, username = ?, password = ?, updated_at = ?
		WHERE id = ? AND organization_id = ?
	`, existing.IMAPHost, existing.IMAPPort, existing.Username, existing.Password,
		existing.UpdatedAt, id, orgID)
	if err != nil {
		return nil, err
	}
	return existing, nil
}

// DeleteReceiver removes an IMAP account.
func (s *Service) DeleteReceiver(orgID, id string) error {
	res, err := s.db.Exec("DELETE FROM receivers WHERE id = ? AND organization_id = ?", id, orgID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("receiver not found")
	}
	return nil
}
