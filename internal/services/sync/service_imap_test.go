package sync

import (
	"bytes"
	"database/sql"
	"errors"
	"fmt"
	"net"
	"strconv"
	"testing"
	"time"

	"github.com/RandyMyers/mbzRevamp-sub007/internal/models"

	"github.com/emersion/go-imap"
	"github.com/emersion/go-imap/backend"
	"github.com/emersion/go-imap/backend/memory"
	"github.com/emersion/go-imap/client"
	"github.com/emersion/go-imap/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// startIMAPServer serves the backend on a loopback listener and returns
// the host and port a receiver can be pointed at.
func startIMAPServer(t *testing.T, be backend.Backend) (string, int) {
	t.Helper()

	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	srv := server.New(be)
	srv.AllowInsecureAuth = true
	go srv.Serve(l)
	t.Cleanup(func() { srv.Close() })

	host, portStr, err := net.SplitHostPort(l.Addr().String())
	require.NoError(t, err)
	port, err := strconv.Atoi(portStr)
	require.NoError(t, err)
	return host, port
}

// testIMAPService dials the loopback server in plaintext; production
// dials with implicit TLS, which the test server does not speak.
func testIMAPService(t *testing.T, db *sql.DB) *Service {
	t.Helper()
	s := NewService(db)
	s.Timeout = 10 * time.Second
	s.dial = func(addr string, _ time.Duration) (*client.Client, error) {
		return client.Dial(addr)
	}
	return s
}

func imapReceiver(host string, port int) *models.Receiver {
	return &models.Receiver{
		ID:             "recv-imap",
		OrganizationID: "org-imap",
		Email:          "inbox@example.com",
		IMAPHost:       host,
		IMAPPort:       port,
		Username:       "username",
		Password:       "password",
	}
}

func insertReceiverRow(t *testing.T, db *sql.DB, recv *models.Receiver) {
	t.Helper()
	now := time.Now().UTC()
	_, err := db.Exec(`
		INSERT INTO receivers (id, organization_id, email, imap_host, imap_port, username, password, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, 1, ?, ?)
	`, recv.ID, recv.OrganizationID, recv.Email, recv.IMAPHost, recv.IMAPPort, recv.Username, recv.Password, now, now)
	require.NoError(t, err)
}

func appendMessage(t *testing.T, be *memory.Backend, mailbox string, flags []string, id int) {
	t.Helper()
	user, err := be.Login(nil, "username", "password")
	require.NoError(t, err)
	mbox, err := user.GetMailbox(mailbox)
	require.NoError(t, err)

	body := fmt.Sprintf("From: sender%d@example.org\r\n"+
		"To: inbox@example.com\r\n"+
		"Subject: message %d\r\n"+
		"Message-ID: <msg%d@example.org>\r\n"+
		"Content-Type: text/plain\r\n"+
		"\r\n"+
		"body %d", id, id, id, id)
	require.NoError(t, mbox.CreateMessage(flags, time.Now(), bytes.NewBufferString(body)))
}

func countMessages(t *testing.T, db *sql.DB, orgID, folder, status string) int {
	t.Helper()
	var n int
	err := db.QueryRow(
		"SELECT COUNT(*) FROM email_messages WHERE organization_id = ? AND folder = ? AND status = ?",
		orgID, folder, status).Scan(&n)
	require.NoError(t, err)
	return n
}

func TestSyncReceiverIncomingFetchesUnseenOnly(t *testing.T) {
	// memory.New seeds INBOX with one already-seen message.
	be := memory.New()
	appendMessage(t, be, "INBOX", nil, 1)
	appendMessage(t, be, "INBOX", nil, 2)
	host, port := startIMAPServer(t, be)

	db := testDB(t)
	s := testIMAPService(t, db)
	recv := imapReceiver(host, port)

	res, err := s.SyncReceiver(recv, ModeIncoming)
	require.NoError(t, err)
	assert.Empty(t, res.Errors)
	assert.Equal(t, []string{"INBOX"}, res.Folders)
	assert.Equal(t, 2, res.Fetched)
	assert.Equal(t, 2, res.Stored)
	assert.Equal(t, 2, countMessages(t, db, recv.OrganizationID, models.FolderInbox, models.EmailStatusUnread))

	// The fetch peeks, so the messages stay unseen; a second incoming
	// run sees them again and dedup absorbs them.
	res, err = s.SyncReceiver(recv, ModeIncoming)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Fetched)
	assert.Equal(t, 0, res.Stored)
	assert.Equal(t, 2, res.Duplicates)
	assert.Equal(t, 2, countMessages(t, db, recv.OrganizationID, models.FolderInbox, models.EmailStatusUnread))
}

func TestSyncReceiverFullWalksFoldersAndAdvancesWatermark(t *testing.T) {
	be := memory.New()
	appendMessage(t, be, "INBOX", nil, 1)

	user, err := be.Login(nil, "username", "password")
	require.NoError(t, err)
	require.NoError(t, user.CreateMailbox("Sent"))
	appendMessage(t, be, "Sent", []string{imap.SeenFlag}, 2)

	host, port := startIMAPServer(t, be)

	db := testDB(t)
	s := testIMAPService(t, db)
	recv := imapReceiver(host, port)
	insertReceiverRow(t, db, recv)

	// No watermark yet: everything is fetched, including the seen
	// seed message and the Sent copy.
	res, err := s.SyncReceiver(recv, ModeFull)
	require.NoError(t, err)
	assert.Empty(t, res.Errors)
	assert.Equal(t, []string{"INBOX", "Sent"}, res.Folders)
	assert.Equal(t, 3, res.Stored)
	assert.Equal(t, 2, countMessages(t, db, recv.OrganizationID, models.FolderInbox, models.EmailStatusUnread))
	assert.Equal(t, 1, countMessages(t, db, recv.OrganizationID, models.FolderSent, models.EmailStatusSent))

	var mark *time.Time
	require.NoError(t, db.QueryRow("SELECT last_fetched_at FROM receivers WHERE id = ?", recv.ID).Scan(&mark))
	require.NotNil(t, mark)

	// With the watermark in the future nothing matches the SINCE
	// search, unlike an incoming run which would still see UNSEEN.
	future := time.Now().UTC().AddDate(0, 0, 2)
	recv.LastFetchedAt = &future
	res, err = s.SyncReceiver(recv, ModeFull)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Fetched)
	assert.Equal(t, 0, res.Stored)
}

// flakyUser fails SELECT for one mailbox while LIST still advertises it,
// the shape of a provider hiccup mid-run.
type flakyUser struct {
	backend.User
	broken string
}

func (u *flakyUser) GetMailbox(name string) (backend.Mailbox, error) {
	if name == u.broken {
		return nil, errors.New("mailbox temporarily unavailable")
	}
	return u.User.GetMailbox(name)
}

type flakyBackend struct {
	*memory.Backend
	broken string
}

func (b *flakyBackend) Login(ci *imap.ConnInfo, username, password string) (backend.User, error) {
	user, err := b.Backend.Login(ci, username, password)
	if err != nil {
		return nil, err
	}
	return &flakyUser{User: user, broken: b.broken}, nil
}

func TestSyncReceiverFullKeepsWatermarkOnFolderError(t *testing.T) {
	be := memory.New()
	appendMessage(t, be, "INBOX", nil, 1)

	user, err := be.Login(nil, "username", "password")
	require.NoError(t, err)
	require.NoError(t, user.CreateMailbox("Sent"))
	appendMessage(t, be, "Sent", []string{imap.SeenFlag}, 2)

	host, port := startIMAPServer(t, &flakyBackend{Backend: be, broken: "Sent"})

	db := testDB(t)
	s := testIMAPService(t, db)
	recv := imapReceiver(host, port)
	insertReceiverRow(t, db, recv)

	// The INBOX still syncs, the Sent failure is reported, and the
	// watermark stays put so the next run can retry the folder.
	res, err := s.SyncReceiver(recv, ModeFull)
	require.NoError(t, err)
	assert.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0], "Sent")
	assert.Equal(t, []string{"INBOX"}, res.Folders)
	assert.Equal(t, 2, res.Stored)

	var mark *time.Time
	require.NoError(t, db.QueryRow("SELECT last_fetched_at FROM receivers WHERE id = ?", recv.ID).Scan(&mark))
	assert.Nil(t, mark)
}
