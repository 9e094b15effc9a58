package models

import (
	"time"
)

// Folders a message can live in. Each folder behaves as its own
// collection: list queries are always folder-scoped.
const (
	FolderInbox    = "inbox"
	FolderSent     = "sent"
	FolderDrafts   = "drafts"
	FolderTrash    = "trash"
	FolderArchived = "archived"
)

// Message statuses.
const (
	EmailStatusUnread = "unread"
	EmailStatusRead   = "read"
	EmailStatusDraft  = "draft"
	EmailStatusSent   = "sent"
	EmailStatusFailed = "failed"
)

// EmailMessage is one stored message. Inbound copies come from the IMAP
// sync, outbound copies from the send endpoint and the campaign
// dispatcher.
type EmailMessage struct {
	ID             string    `json:"id" db:"id"`
	OrganizationID string    `json:"organization_id" db:"organization_id"`
	ReceiverID     string    `json:"receiver_id,omitempty" db:"receiver_id"` // set on synced mail
	Folder         string    `json:"folder" db:"folder"`
	Status         string    `json:"status" db:"status"`
	MessageID      string    `json:"message_id" db:"message_id"` // RFC 5322 Message-Id, may be empty
	From           string    `json:"from" db:"from_addr"`
	To             string    `json:"to" db:"to_addr"`
	Subject        string    `json:"subject" db:"subject"`
	TextBody       string    `json:"text_body" db:"text_body"`
	HTMLBody       string    `json:"html_body" db:"html_body"`
	ReceivedAt     time.Time `json:"received_at" db:"received_at"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}

// Receiver is an IMAP account the sync service pulls mail from.
type Receiver struct {
	ID             string     `json:"id" db:"id"`
	OrganizationID string     `json:"organization_id" db:"organization_id"`
	Email          string     `json:"email" db:"email"`
	IMAPHost       string     `json:"imap_host" db:"imap_host"`
	IMAPPort       int        `json:"imap_port" db:"imap_port"`
	Username       string     `json:"username" db:"username"`
	Password       string     `json:"-" db:"password"`
	IsActive       bool       `json:"is_active" db:"is_active"`
	// Sync watermark: only messages newer than this are fetched on a
	// full sync. Advanced after a successful run, so a crash mid-sync
	// can reprocess messages (dedup catches most of them).
	LastFetchedAt *time.Time `json:"last_fetched_at" db:"last_fetched_at"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at" db:"updated_at"`
}

// EmailLog is the audit row written for every outbound send attempt.
type EmailLog struct {
	ID             string    `json:"id" db:"id"`
	OrganizationID string    `json:"organization_id" db:"organization_id"`
	SenderEmail    string    `json:"sender_email" db:"sender_email"`
	RecipientEmail string    `json:"recipient_email" db:"recipient_email"`
	Subject        string    `json:"subject" db:"subject"`
	Status         string    `json:"status" db:"status"`           // "sent" or "failed"
	ErrorClass     string    `json:"error_class" db:"error_class"` // timeout, connection, authentication, ssl, unknown
	ErrorDetail    string    `json:"error_detail" db:"error_detail"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}
