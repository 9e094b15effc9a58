package email

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/RandyMyers/mbzRevamp-sub007/internal/models"
	"github.com/RandyMyers/mbzRevamp-sub007/internal/services/mailer"

	"github.com/google/uuid"
)

type Service struct {
	db     *sql.DB
	mailer mailer.Mailer
}

func NewService(db *sql.DB, m mailer.Mailer) *Service {
	return &Service{db: db, mailer: m}
}

const messageColumns = `id, organization_id, receiver_id, folder, status, message_id,
	from_addr, to_addr, subject, text_body, html_body, received_at, created_at, updated_at`

func scanMessage(row interface{ Scan(...any) error }) (*models.EmailMessage, error) {
	var m models.EmailMessage
	err := row.Scan(
		&m.ID, &m.OrganizationID, &m.ReceiverID, &m.Folder, &m.Status, &m.MessageID,
		&m.From, &m.To, &m.Subject, &m.TextBody, &m.HTMLBody,
		&m.ReceivedAt, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

var validFolders = map[string]bool{
	models.FolderInbox:    true,
	models.FolderSent:     true,
	models.FolderDrafts:   true,
	models.FolderTrash:    true,
	models.FolderArchived: true,
}

// ListFolder returns the organization's messages in one folder, newest
// first, with simple limit/offset paging.
func (s *Service) ListFolder(orgID, folder string, limit, offset int) ([]*models.EmailMessage, error) {
	if !validFolders[folder] {
		return nil, fmt.Errorf("unknown folder: %s", folder)
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	rows, err := s.db.Query(
		"SELECT "+messageColumns+" FROM email_messages WHERE organization_id = ? AND folder = ? ORDER BY received_at DESC LIMIT ? OFFSET ?",
		orgID, folder, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages := []*models.EmailMessage{}
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

// Get loads one message and marks an unread inbox message read.
func (s *Service) Get(orgID, id string) (*models.EmailMessage, error) {
	row := s.db.QueryRow("SELECT "+messageColumns+" FROM email_messages WHERE id = ? AND organization_id = ?", id, orgID)
	m, err := scanMessage(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("message not found")
		}
		return nil, err
	}

	if m.Status == models.EmailStatusUnread {
		m.Status = models.EmailStatusRead
		if _, err := s.db.Exec("UPDATE email_messages SET status = ?, updated_at = ? WHERE id = ?",
			m.Status, time.Now().UTC(), m.ID); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// SaveDraft creates or updates a draft.
func (s *Service) SaveDraft(orgID, id string, m *models.EmailMessage) (*models.EmailMessage, error) {
	now := time.Now().UTC()

	if id == "" {
		m.ID = uuid.New().String()
		m.OrganizationID = orgID
		m.Folder = models.FolderDrafts
		m.Status = models.EmailStatusDraft
		m.ReceivedAt = now
		m.CreatedAt = now
		m.UpdatedAt = now
		_, err := s.db.Exec(`
			INSERT INTO email_messages (id, organization_id, folder, status, from_addr, to_addr,
				subject, text_body, html_body, received_at, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, m.ID, orgID, m.Folder, m.Status, m.From, m.To, m.Subject, m.TextBody, m.HTMLBody, now, now, now)
		if err != nil {
			return nil, err
		}
		return m, nil
	}

	existing, err := s.Get(orgID, id)
	if err != nil {
		return nil, err
	}
	if existing.Folder != models.FolderDrafts {
		return nil, fmt.Errorf("only drafts can be edited")
	}
	_, err = s.db.Exec(`
		UPDATE email_messages SET from_addr = ?, to_addr = ?, subject = ?, text_body = ?, html_body = ?, updated_at = ?
		WHERE id = ? AND organization_id = ?
	`, m.From, m.To, m.Subject, m.TextBody, m.HTMLBody, now, id, orgID)
	if err != nil {
		return nil, err
	}
	return s.Get(orgID, id)
}

// Move relocates a message to trash or archived.
func (s *Service) Move(orgID, id, folder string) error {
	if folder != models.FolderTrash && folder != models.FolderArchived {
		return fmt.Errorf("messages can only be moved to trash or archived")
	}
	res, err := s.db.Exec(
		"UPDATE email_messages SET folder = ?, updated_at = ? WHERE id = ? AND organization_id = ?",
		folder, time.Now().UTC(), id, orgID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("message not found")
	}
	return nil
}

// Delete removes a message permanently.
func (s *Service) Delete(orgID, id string) error {
	res, err := s.db.Exec("DELETE FROM email_messages WHERE id = ? AND organization_id = ?", id, orgID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("message not found")
	}
	return nil
}

// Send submits a one-off message through the given sender. Both outcomes
// are persisted: a sent copy in the sent folder, or a failed copy plus
// the classified error. An EmailLog row is written either way.
func (s *Service) Send(orgID string, sender *models.Sender, to, subject, html string) (*models.EmailMessage, error) {
	now := time.Now().UTC()
	m := &models.EmailMessage{
		ID:             uuid.New().String(),
		OrganizationID: orgID,
		From:           sender.Email,
		To:             to,
		Subject:        subject,
		HTMLBody:       html,
		ReceivedAt:     now,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	sendErr := s.mailer.Send(sender, mailer.Outbound{To: to, Subject: subject, HTML: html})
	if sendErr != nil {
		m.Folder = models.FolderDrafts
		m.Status = models.EmailStatusFailed
	} else {
		m.Folder = models.FolderSent
		m.Status = models.EmailStatusSent
	}

	if _, err := s.db.Exec(`
		INSERT INTO email_messages (id, organization_id, folder, status, from_addr, to_addr,
			subject, html_body, received_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, m.ID, orgID, m.Folder, m.Status, m.From, m.To, m.Subject, m.HTMLBody, now, now, now); err != nil {
		return nil, err
	}

	if err := s.writeLog(orgID, sender.Email, to, subject, sendErr); err != nil {
		return nil, err
	}

	if sendErr != nil {
		return m, sendErr
	}
	return m, nil
}

func (s *Service) writeLog(orgID, senderEmail, to, subject string, sendErr error) error {
	status := "sent"
	class := ""
	detail := ""
	if sendErr != nil {
		status = "failed"
		class = mailer.Classify(sendErr)
		detail = sendErr.Error()
	}
	_, err := s.db.Exec(`
		INSERT INTO email_logs (id, organization_id, sender_email, recipient_email, subject, status, error_class, error_detail, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, uuid.New().String(), orgID, senderEmail, to, subject, status, class, detail, time.Now().UTC())
	return err
}

// ListLogs returns recent send logs for the organization.
func (s *Service) ListLogs(orgID string, limit int) ([]*models.EmailLog, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	rows, err := s.db.Query(`
		SELECT id, organization_id, sender_email, recipient_email, subject, status, error_class, error_detail, created_at
		FROM email_logs WHERE organization_id = ? ORDER BY created_at DESC LIMIT ?
	`, orgID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	logs := []*models.EmailLog{}
	for rows.Next() {
		var l models.EmailLog
		if err := rows.Scan(&l.ID, &l.OrganizationID, &l.SenderEmail, &l.RecipientEmail,
			&l.Subject, &l.Status, &l.ErrorClass, &l.ErrorDetail, &l.CreatedAt); err != nil {
			return nil, err
		}
		logs = append(logs, &l)
	}
	return logs, rows.Err()
}
