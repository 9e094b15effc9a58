package sync

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

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

func testReceiver() *models.Receiver {
	return &models.Receiver{
		ID:             "recv1",
		OrganizationID: "org1",
		Email:          "inbox@example.com",
		IMAPHost:       "imap.example.com",
		IMAPPort:       993,
	}
}

func TestRouteFor(t *testing.T) {
	tests := []struct {
		imapFolder string
		folder     string
		status     string
	}{
		{"INBOX", models.FolderInbox, models.EmailStatusUnread},
		{"inbox", models.FolderInbox, models.EmailStatusUnread},
		{"Sent Items", models.FolderSent, models.EmailStatusSent},
		{"[Gmail]/Sent Mail", models.FolderSent, models.EmailStatusSent},
		{"Drafts", models.FolderDrafts, models.EmailStatusDraft},
		{"Deleted Items", models.FolderTrash, models.EmailStatusRead},
		{"Spam", models.FolderTrash, models.EmailStatusRead},
		{"Junk Email", models.FolderTrash, models.EmailStatusRead},
		{"[Gmail]/All Mail", models.FolderArchived, models.EmailStatusRead},
	}
	for _, tt := range tests {
		route, ok := RouteFor(tt.imapFolder)
		require.True(t, ok, tt.imapFolder)
		assert.Equal(t, tt.folder, route.Folder, tt.imapFolder)
		assert.Equal(t, tt.status, route.Status, tt.imapFolder)
	}

	_, ok := RouteFor("Some Custom Folder")
	assert.False(t, ok)
}

func TestEveryFullSyncFolderRoutes(t *testing.T) {
	for _, folder := range fullSyncFolders {
		_, ok := RouteFor(folder)
		assert.True(t, ok, folder)
	}
}

func TestStoreMessageDedupByMessageID(t *testing.T) {
	s := NewService(testDB(t))
	recv := testReceiver()
	route, _ := RouteFor("INBOX")

	msg := &parsedMessage{
		messageID: "<abc@mail.example.com>",
		from:      "alice@example.com",
		to:        recv.Email,
		subject:   "hello",
		textBody:  "hi there",
		date:      time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC),
	}

	stored, err := s.storeMessage(recv, route, msg)
	require.NoError(t, err)
	assert.True(t, stored)

	stored, err = s.storeMessage(recv, route, msg)
	require.NoError(t, err)
	assert.False(t, stored)

	// Same message-id in a different organization is not a duplicate.
	other := testReceiver()
	other.ID = "recv2"
	other.OrganizationID = "org2"
	stored, err = s.storeMessage(other, route, msg)
	require.NoError(t, err)
	assert.True(t, stored)
}

func TestStoreMessageDedupFallback(t *testing.T) {
	s := NewService(testDB(t))
	recv := testReceiver()
	route, _ := RouteFor("INBOX")

	// No message-id: dedup falls back to subject + from + UTC day.
	msg := &parsedMessage{
		from:    "alice@example.com",
		to:      recv.Email,
		subject: "no id",
		date:    time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC),
	}

	stored, err := s.storeMessage(recv, route, msg)
	require.NoError(t, err)
	assert.True(t, stored)

	// Same subject/from later the same day: duplicate.
	again := *msg
	again.date = time.Date(2026, 8, 1, 18, 30, 0, 0, time.UTC)
	stored, err = s.storeMessage(recv, route, &again)
	require.NoError(t, err)
	assert.False(t, stored)

	// Next day it counts as a new message.
	nextDay := *msg
	nextDay.date = time.Date(2026, 8, 2, 10, 0, 0, 0, time.UTC)
	stored, err = s.storeMessage(recv, route, &nextDay)
	require.NoError(t, err)
	assert.True(t, stored)
}

func TestStoreMessageRoutesFolderAndStatus(t *testing.T) {
	db := testDB(t)
	s := NewService(db)
	recv := testReceiver()
	route, _ := RouteFor("Sent Items")

	msg := &parsedMessage{
		messageID: "<sent@mail.example.com>",
		from:      recv.Email,
		to:        "bob@example.com",
		subject:   "outbound",
		date:      time.Now().UTC(),
	}
	stored, err := s.storeMessage(recv, route, msg)
	require.NoError(t, err)
	require.True(t, stored)

	var folder, status string
	err = db.QueryRow("SELECT folder, status FROM email_messages WHERE message_id = ?", msg.messageID).
		Scan(&folder, &status)
	require.NoError(t, err)
	assert.Equal(t, models.FolderSent, folder)
	assert.Equal(t, models.EmailStatusSent, status)
}

func TestAdvanceWatermark(t *testing.T) {
	db := testDB(t)
	s := NewService(db)

	now := time.Now().UTC()
	_, err := db.Exec(`
		INSERT INTO receivers (id, organization_id, email, imap_host, imap_port, username, password, is_active, created_at, updated_at)
		VALUES ('recv1', 'org1', 'inbox@example.com', 'imap.example.com', 993, 'user', 'pass', 1, ?, ?)
	`, now, now)
	require.NoError(t, err)

	mark := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	require.NoError(t, s.advanceWatermark("recv1", mark))

	var got time.Time
	err = db.QueryRow("SELECT last_fetched_at FROM receivers WHERE id = 'recv1'").Scan(&got)
	require.NoError(t, err)
	assert.True(t, got.Equal(mark))
}
