// Package sync pulls messages from external IMAP mailboxes into the
// local folder collections. Deduplication is heuristic and best-effort:
// it filters most reprocessing after a crash mid-run but does not
// guarantee exactly-once ingestion.
package sync

import (
	"database/sql"
	"fmt"
	"log/slog"
	"net"
	"time"

	"github.com/RandyMyers/mbzRevamp-sub007/internal/models"

	"github.com/emersion/go-imap"
	"github.com/emersion/go-imap/client"
	"github.com/google/uuid"
	"github.com/jhillyerd/enmime/v2"
)

// Sync modes. ModeIncoming is the frequent inbox-only check; ModeFull
// walks every known folder and uses the receiver's watermark.
const (
	ModeIncoming = "incoming"
	ModeFull     = "full"
)

type Service struct {
	db *sql.DB

	// Timeout bounds the connection and each IMAP command.
	Timeout time.Duration

	// dial opens the IMAP connection. Defaults to implicit TLS.
	dial func(addr string, timeout time.Duration) (*client.Client, error)
}

func NewService(db *sql.DB) *Service {
	return &Service{db: db, Timeout: 2 * time.Minute, dial: dialTLS}
}

func dialTLS(addr string, timeout time.Duration) (*client.Client, error) {
	dialer := &net.Dialer{Timeout: timeout}
	return client.DialWithDialerTLS(dialer, addr, nil)
}

// Result summarizes one sync run.
type Result struct {
	Fetched    int      `json:"fetched"`
	Stored     int      `json:"stored"`
	Duplicates int      `json:"duplicates"`
	Folders    []string `json:"folders"`
	Errors     []string `json:"errors,omitempty"`
}

// parsedMessage is the subset of a parsed message the store path needs.
type parsedMessage struct {
	messageID string
	from      string
	to        string
	subject   string
	textBody  string
	htmlBody  string
	date      time.Time
}

// SyncReceiver runs one sync for the receiver. Folders the server does
// not expose are skipped; other per-folder errors are collected and the
// run continues with the next folder. Only a failed connection aborts.
// On a full run with no folder errors the watermark advances to the
// run's start time (not transactional with the inserts).
func (s *Service) SyncReceiver(receiver *models.Receiver, mode string) (*Result, error) {
	addr := fmt.Sprintf("%s:%d", receiver.IMAPHost, receiver.IMAPPort)
	c, err := s.dial(addr, s.Timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to IMAP server: %w", err)
	}
	c.Timeout = s.Timeout
	defer c.Logout()

	if err := c.Login(receiver.Username, receiver.Password); err != nil {
		return nil, fmt.Errorf("IMAP login failed: %w", err)
	}

	startedAt := time.Now().UTC()
	folders := []string{"INBOX"}
	if mode == ModeFull {
		folders = fullSyncFolders
	}

	// No provider exposes the whole candidate folder list, so only
	// folders the server actually has are attempted.
	mailboxes, err := listMailboxes(c)
	if err != nil {
		return nil, fmt.Errorf("failed to list mailboxes: %w", err)
	}

	result := &Result{}
	for _, folder := range folders {
		if !mailboxes[folder] {
			continue
		}
		route, ok := RouteFor(folder)
		if !ok {
			continue
		}
		if err := s.syncFolder(c, receiver, mode, folder, route, result); err != nil {
			slog.Warn("folder sync failed", "receiver", receiver.Email, "folder", folder, "error", err)
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", folder, err))
			continue
		}
		result.Folders = append(result.Folders, folder)
	}

	// A folder that errored mid-run may still have messages older than
	// startedAt, so the watermark only moves when every folder succeeded.
	if mode == ModeFull && len(result.Errors) == 0 {
		if err := s.advanceWatermark(receiver.ID, startedAt); err != nil {
			return result, fmt.Errorf("failed to advance watermark: %w", err)
		}
	}

	slog.Info("sync finished", "receiver", receiver.Email, "mode", mode,
		"fetched", result.Fetched, "stored", result.Stored, "duplicates", result.Duplicates)
	return result, nil
}

func listMailboxes(c *client.Client) (map[string]bool, error) {
	ch := make(chan *imap.MailboxInfo, 10)
	done := make(chan error, 1)
	go func() {
		done <- c.List("", "*", ch)
	}()

	names := make(map[string]bool)
	for m := range ch {
		names[m.Name] = true
	}
	if err := <-done; err != nil {
		return nil, err
	}
	return names, nil
}

func (s *Service) syncFolder(c *client.Client, receiver *models.Receiver, mode, folder string, route Route, result *Result) error {
	mbox, err := c.Select(folder, true)
	if err != nil {
		return err
	}
	if mbox.Messages == 0 {
		return nil
	}

	criteria := imap.NewSearchCriteria()
	switch {
	case mode == ModeIncoming:
		criteria.WithoutFlags = []string{imap.SeenFlag}
	case receiver.LastFetchedAt != nil:
		criteria.Since = *receiver.LastFetchedAt
	default:
		// first full sync: everything
	}

	ids, err := c.Search(criteria)
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		return nil
	}

	seqset := new(imap.SeqSet)
	seqset.AddNum(ids...)

	section := &imap.BodySectionName{Peek: true}
	items := []imap.FetchItem{section.FetchItem(), imap.FetchEnvelope, imap.FetchInternalDate}

	messages := make(chan *imap.Message, 10)
	done := make(chan error, 1)
	go func() {
		done <- c.Fetch(seqset, items, messages)
	}()

	for msg := range messages {
		result.Fetched++
		parsed, err := parseMessage(msg, section)
		if err != nil {
			slog.Warn("failed to parse message", "receiver", receiver.Email, "folder", folder, "error", err)
			continue
		}
		stored, err := s.storeMessage(receiver, route, parsed)
		if err != nil {
			slog.Warn("failed to store message", "receiver", receiver.Email, "folder", folder, "error", err)
			continue
		}
		if stored {
			result.Stored++
		} else {
			result.Duplicates++
		}
	}

	return <-done
}

func parseMessage(msg *imap.Message, section *imap.BodySectionName) (*parsedMessage, error) {
	body := msg.GetBody(section)
	if body == nil {
		return nil, fmt.Errorf("message has no body section")
	}

	env, err := enmime.ReadEnvelope(body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse MIME: %w", err)
	}

	p := &parsedMessage{
		messageID: env.GetHeader("Message-Id"),
		from:      env.GetHeader("From"),
		to:        env.GetHeader("To"),
		subject:   env.GetHeader("Subject"),
		textBody:  env.Text,
		htmlBody:  env.HTML,
		date:      msg.InternalDate,
	}
	if p.date.IsZero() && msg.Envelope != nil {
		p.date = msg.Envelope.Date
	}
	if p.date.IsZero() {
		p.date = time.Now().UTC()
	}
	return p, nil
}

// storeMessage inserts the message unless the dedup heuristic flags it.
// Returns true when a new row was created.
func (s *Service) storeMessage(receiver *models.Receiver, route Route, p *parsedMessage) (bool, error) {
	dup, err := s.isDuplicate(receiver.OrganizationID, p)
	if err != nil {
		return false, err
	}
	if dup {
		return false, nil
	}

	now := time.Now().UTC()
	_, err = s.db.Exec(`
		INSERT INTO email_messages (id, organization_id, receiver_id, folder, status, message_id,
			from_addr, to_addr, subject, text_body, html_body, received_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, uuid.New().String(), receiver.OrganizationID, receiver.ID, route.Folder, route.Status,
		p.messageID, p.from, p.to, p.subject, p.textBody, p.htmlBody, p.date.UTC(), now, now)
	if err != nil {
		return false, err
	}
	return true, nil
}

// isDuplicate applies the dedup heuristic: message-id scoped to the
// organization first, then (subject, from, same UTC calendar day) for
// messages without a usable message-id.
func (s *Service) isDuplicate(orgID string, p *parsedMessage) (bool, error) {
	if p.messageID != "" {
		var count int
		err := s.db.QueryRow(
			"SELECT COUNT(*) FROM email_messages WHERE organization_id = ? AND message_id = ?",
			orgID, p.messageID).Scan(&count)
		if err != nil {
			return false, err
		}
		return count > 0, nil
	}

	day := p.date.UTC().Format("2006-01-02")
	var count int
	err := s.db.QueryRow(`
		SELECT COUNT(*) FROM email_messages
		WHERE organization_id = ? AND subject = ? AND from_addr = ?
		  AND date(received_at) = ?
	`, orgID, p.subject, p.from, day).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *Service) advanceWatermark(receiverID string, t time.Time) error {
	_, err := s.db.Exec(
		"UPDATE receivers SET last_fetched_at = ?, updated_at = ? WHERE id = ?",
		t, time.Now().UTC(), receiverID)
	return err
}
