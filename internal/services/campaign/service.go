package campaign

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/RandyMyers/mbzRevamp-sub007/internal/models"
	"github.com/RandyMyers/mbzRevamp-sub007/internal/services/mailer"

	"github.com/google/uuid"
)

type Service struct {
	db      *sql.DB
	mailer  mailer.Mailer
	baseURL string // public origin for tracking links
}

func NewService(db *sql.DB, m mailer.Mailer, baseURL string) *Service {
	return &Service{db: db, mailer: m, baseURL: baseURL}
}

const campaignColumns = `id, organization_id, name, status, subject, body, sender_ids,
	target_contact_ids, tracking_enabled, sent_count, delivered_count, bounced_count,
	opened_contact_ids, clicked_contact_ids, contact_cursor, sender_cursor, created_at, updated_at`

func scanCampaign(row interface{ Scan(...any) error }) (*models.Campaign, error) {
	var c models.Campaign
	var senderIDs, targetIDs, openedIDs, clickedIDs string
	err := row.Scan(
		&c.ID, &c.OrganizationID, &c.Name, &c.Status, &c.Subject, &c.Body,
		&senderIDs, &targetIDs, &c.TrackingEnabled,
		&c.SentCount, &c.DeliveredCount, &c.BouncedCount,
		&openedIDs, &clickedIDs, &c.ContactCursor, &c.SenderCursor,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	json.Unmarshal([]byte(senderIDs), &c.SenderIDs)
	json.Unmarshal([]byte(targetIDs), &c.TargetContactIDs)
	json.Unmarshal([]byte(openedIDs), &c.OpenedContactIDs)
	json.Unmarshal([]byte(clickedIDs), &c.ClickedContactIDs)
	return &c, nil
}

// Create stores a draft campaign.
func (s *Service) Create(orgID string, c *models.Campaign) (*models.Campaign, error) {
	if c.Name == "" {
		return nil, fmt.Errorf("campaign name is required")
	}

	c.ID = uuid.New().String()
	c.OrganizationID = orgID
	c.Status = models.CampaignStatusDraft
	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now

	senderIDs, _ := json.Marshal(orEmpty(c.SenderIDs))
	targetIDs, _ := json.Marshal(orEmpty(c.TargetContactIDs))

	_, err := s.db.Exec(`
		INSERT INTO campaigns (id, organization_id, name, status, subject, body, sender_ids,
			target_contact_ids, tracking_enabled, opened_contact_ids, clicked_contact_ids, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, '[]', '[]', ?, ?)
	`, c.ID, orgID, c.Name, c.Status, c.Subject, c.Body, string(senderIDs),
		string(targetIDs), c.TrackingEnabled, now, now)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Get loads one campaign scoped to the organization.
func (s *Service) Get(orgID, id string) (*models.Campaign, error) {
	row := s.db.QueryRow(
		"SELECT "+campaignColumns+" FROM campaigns WHERE id = ? AND organization_id = ?", id, orgID)
	c, err := scanCampaign(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("campaign not found")
		}
		return nil, err
	}
	return c, nil
}

// List returns the organization's campaigns, newest first.
func (s *Service) List(orgID string) ([]*models.Campaign, error) {
	rows, err := s.db.Query(
		"SELECT "+campaignColumns+" FROM campaigns WHERE organization_id = ? ORDER BY created_at DESC", orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	campaigns := []*models.Campaign{}
	for rows.Next() {
		c, err := scanCampaign(rows)
		if err != nil {
			return nil, err
		}
		campaigns = append(campaigns, c)
	}
	return campaigns, rows.Err()
}

// Update edits a draft or paused campaign's content and targeting.
// Running campaigns cannot be edited.
func (s *Service) Update(orgID, id string, c *models.Campaign) (*models.Campaign, error) {
	existing, err := s.Get(orgID, id)
	if err != nil {
		return nil, err
	}
	if existing.Status == models.CampaignStatusRunning {
		return nil, fmt.Errorf("cannot edit a running campaign")
	}

	if c.Name != "" {
		existing.Name = c.Name
	}
	if c.Subject != "" {
		existing.Subject = c.Subject
	}
	if c.Body != "" {
		existing.Body = c.Body
	}
	if c.SenderIDs != nil {
		existing.SenderIDs = c.SenderIDs
	}
	if c.TargetContactIDs != nil {
		existing.TargetContactIDs = c.TargetContactIDs
	}
	existing.TrackingEnabled = c.TrackingEnabled
	existing.UpdatedAt = time.Now().UTC()

	senderIDs, _ := json.Marshal(orEmpty(existing.SenderIDs))
	targetIDs, _ := json.Marshal(orEmpty(existing.TargetContactIDs))
	_, err = s.db.Exec(`
		UPDATE campaigns SET name = ?, subject = ?, body = ?, sender_ids = ?,
			target_contact_ids = ?, tracking_enabled = ?, updated_at = ?
		WHERE id = ? AND organization_id = ?
	`, existing.Name, existing.Subject, existing.Body, string(senderIDs),
		string(targetIDs), existing.TrackingEnabled, existing.UpdatedAt, id, orgID)
	if err != nil {
		return nil, err
	}
	return existing, nil
}

// Delete removes a campaign unless it is running.
func (s *Service) Delete(orgID, id string) error {
	c, err := s.Get(orgID, id)
	if err != nil {
		return err
	}
	if c.Status == models.CampaignStatusRunning {
		return fmt.Errorf("cannot delete a running campaign")
	}
	_, err = s.db.Exec("DELETE FROM campaigns WHERE id = ? AND organization_id = ?", id, orgID)
	return err
}

// Pause marks a running campaign paused. The dispatch loop also pauses
// campaigns itself on sender exhaustion.
func (s *Service) Pause(orgID, id string) error {
	c, err := s.Get(orgID, id)
	if err != nil {
		return err
	}
	if c.Status != models.CampaignStatusRunning {
		return fmt.Errorf("only a running campaign can be paused")
	}
	return s.setStatus(id, models.CampaignStatusPaused)
}

// RecordOpen adds the contact to the campaign's opened set. Returns true
// the first time the contact is recorded.
func (s *Service) RecordOpen(orgID, campaignID, contactID string) (bool, error) {
	return s.addToSet(orgID, campaignID, contactID, "opened_contact_ids")
}

// RecordClick adds the contact to the campaign's clicked set.
func (s *Service) RecordClick(orgID, campaignID, contactID string) (bool, error) {
	return s.addToSet(orgID, campaignID, contactID, "clicked_contact_ids")
}

func (s *Service) addToSet(orgID, campaignID, contactID, column string) (bool, error) {
	c, err := s.Get(orgID, campaignID)
	if err != nil {
		return false, err
	}

	var set []string
	switch column {
	case "opened_contact_ids":
		set = c.OpenedContactIDs
	case "clicked_contact_ids":
		set = c.ClickedContactIDs
	}
	for _, id := range set {
		if id == contactID {
			return false, nil
		}
	}
	set = append(set, contactID)

	data, _ := json.Marshal(set)
	_, err = s.db.Exec(
		// column name comes from the two fixed call sites above
		fmt.Sprintf("UPDATE campaigns SET %s = ?, updated_at = ? WHERE id = ?", column),
		string(data), time.Now().UTC(), campaignID)
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *Service) setStatus(id, status string) error {
	_, err := s.db.Exec("UPDATE campaigns SET status = ?, updated_at = ? WHERE id = ?",
		status, time.Now().UTC(), id)
	return err
}

func orEmpty(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}
