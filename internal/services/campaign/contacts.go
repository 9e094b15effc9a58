package campaign

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/RandyMyers/mbzRevamp-sub007/internal/models"

	"github.com/google/uuid"
)

const contactColumns = `id, organization_id, first_name, last_name, email, country, language,
	subscribed, created_at, updated_at`

func scanContact(row interface{ Scan(...any) error }) (*models.Contact, error) {
	var m models.Contact
	err := row.Scan(
		&m.ID, &m.OrganizationID, &m.FirstName, &m.LastName, &m.Email,
		&m.Country, &m.Language, &m.Subscribed, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// CreateContact stores a marketing contact.
func (s *Service) CreateContact(orgID string, m *models.Contact) (*models.Contact, error) {
	if m.Email == "" || !strings.Contains(m.Email, "@") {
		return nil, fmt.Errorf("a valid email is required")
	}

	m.ID = uuid.New().String()
	m.OrganizationID = orgID
	m.Subscribed = true
	now := time.Now().UTC()
	m.CreatedAt = now
	m.UpdatedAt = now

	_, err := s.db.Exec(`
		INSERT INTO contacts (id, organization_id, first_name, last_name, email, country, language, subscribed, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, 1, ?, ?)
	`, m.ID, orgID, m.FirstName, m.LastName, m.Email, m.Country, m.Language, now, now)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE") {
			return nil, fmt.Errorf("contact with this email already exists")
		}
		return nil, err
	}
	return m, nil
}

// GetContact loads one contact scoped to the organization.
func (s *Service) GetContact(orgID, id string) (*models.Contact, error) {
	row := s.db.QueryRow("SELECT "+contactColumns+" FROM contacts WHERE id = ? AND organization_id = ?", id, orgID)
	m, err := scanContact(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("contact not found")
		}
		return nil, err
	}
	return m, nil
}

// GetContactAnyOrg loads a contact without tenant scoping. Used only by
// the public tracking endpoints, which see no auth context.
func (s *Service) GetContactAnyOrg(id string) (*models.Contact, error) {
	row := s.db.QueryRow("SELECT "+contactColumns+" FROM contacts WHERE id = ?", id)
	m, err := scanContact(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("contact not found")
		}
		return nil, err
	}
	return m, nil
}

// ListContacts returns the organization's contacts.
func (s *Service) ListContacts(orgID string) ([]*models.Contact, error) {
	rows, err := s.db.Query("SELECT "+contactColumns+" FROM contacts WHERE organization_id = ? ORDER BY created_at", orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	contacts := []*models.Contact{}
	for rows.Next() {
		m, err := scanContact(rows)
		if err != nil {
			return nil, err
		}
		contacts = append(contacts, m)
	}
	return contacts, rows.Err()
}

// UpdateContact edits contact fields.
func (s *Service) UpdateContact(orgID, id string, m *models.Contact) (*models.Contact, error) {
	existing, err := s.GetContact(orgID, id)
	if err != nil {
		return nil, err
	}

	if m.FirstName != "" {
		existing.FirstName = m.FirstName
	}
	if m.LastName != "" {
		existing.LastName = m.LastName
	}
	if m.Country != "" {
		existing.Country = m.Country
	}
	if m.Language != "" {
		existing.Language = m.Language
	}
	existing.UpdatedAt = time.Now().UTC()

	_, err = s.db.Exec(`
		UPDATE contacts SET first_name = ?, last_name = ?, country = ?, language = ?, updated_at = ?
		WHERE id = ? AND organization_id = ?
	`, existing.FirstName, existing.LastName, existing.Country, existing.Language,
		existing.UpdatedAt, id, orgID)
	if err != nil {
		return nil, err
	}
	return existing, nil
}

// DeleteContact removes a contact.
func (s *Service) DeleteContact(orgID, id string) error {
	res, err := s.db.Exec("DELETE FROM contacts WHERE id = ? AND organization_id = ?", id, orgID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("contact not found")
	}
	return nil
}

// Unsubscribe flags the contact so future dispatch runs skip it.
func (s *Service) Unsubscribe(contactID string) error {
	res, err := s.db.Exec("UPDATE contacts SET subscribed = 0, updated_at = ? WHERE id = ?",
		time.Now().UTC(), contactID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("contact not found")
	}
	return nil
}

// loadContacts fetches contacts preserving the campaign's target order.
func (s *Service) loadContacts(orgID string, ids []string) ([]*models.Contact, error) {
	contacts := make([]*models.Contact, 0, len(ids))
	for _, id := range ids {
		m, err := s.GetContact(orgID, id)
		if err != nil {
			return nil, fmt.Errorf("contact %s: %w", id, err)
		}
		contacts = append(contacts, m)
	}
	return contacts, nil
}
