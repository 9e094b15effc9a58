package models

import (
	"time"
)

// Campaign statuses. Transitions: draft -> running -> paused | completed,
// paused -> running (manual resume).
const (
	CampaignStatusDraft     = "draft"
	CampaignStatusRunning   = "running"
	CampaignStatusPaused    = "paused"
	CampaignStatusCompleted = "completed"
)

// Campaign is an outbound email campaign. SenderIDs and TargetContactIDs
// are stored as JSON arrays; OpenedContactIDs/ClickedContactIDs are
// maintained by the tracking endpoints.
type Campaign struct {
	ID               string    `json:"id" db:"id"`
	OrganizationID   string    `json:"organization_id" db:"organization_id"`
	Name             string    `json:"name" db:"name"`
	Status           string    `json:"status" db:"status"`
	Subject          string    `json:"subject" db:"subject"`
	Body             string    `json:"body" db:"body"` // HTML template with {{placeholders}}
	SenderIDs        []string  `json:"sender_ids" db:"sender_ids"`
	TargetContactIDs []string  `json:"target_contact_ids" db:"target_contact_ids"`
	TrackingEnabled  bool      `json:"tracking_enabled" db:"tracking_enabled"`
	SentCount        int       `json:"sent_count" db:"sent_count"`
	DeliveredCount   int       `json:"delivered_count" db:"delivered_count"`
	BouncedCount     int       `json:"bounced_count" db:"bounced_count"`
	OpenedContactIDs []string  `json:"opened_contact_ids" db:"opened_contact_ids"`
	ClickedContactIDs []string `json:"clicked_contact_ids" db:"clicked_contact_ids"`
	// Resume points. ContactCursor is the index of the next contact to
	// send to; SenderCursor is the index of the sender the loop was on
	// when it stopped.
	ContactCursor int       `json:"contact_cursor" db:"contact_cursor"`
	SenderCursor  int       `json:"sender_cursor" db:"sender_cursor"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}

// Sender is an SMTP account used to dispatch campaign mail.
type Sender struct {
	ID              string    `json:"id" db:"id"`
	OrganizationID  string    `json:"organization_id" db:"organization_id"`
	Name            string    `json:"name" db:"name"`
	Email           string    `json:"email" db:"email"`
	SMTPHost        string    `json:"smtp_host" db:"smtp_host"`
	SMTPPort        int       `json:"smtp_port" db:"smtp_port"`
	Username        string    `json:"username" db:"username"`
	Password        string    `json:"-" db:"password"`
	Secure          string    `json:"secure" db:"secure"` // "ssl" or "tls"
	DKIMSelector    string    `json:"dkim_selector" db:"dkim_selector"`
	DKIMPrivateKey  string    `json:"-" db:"dkim_private_key"` // PEM, optional
	EmailsSentToday int       `json:"emails_sent_today" db:"emails_sent_today"`
	MaxDailyLimit   int       `json:"max_daily_limit" db:"max_daily_limit"`
	LastResetAt     time.Time `json:"last_reset_at" db:"last_reset_at"`
	IsActive        bool      `json:"is_active" db:"is_active"`
	// Domain verification results, refreshed by the verify endpoint.
	MXVerified   bool      `json:"mx_verified" db:"mx_verified"`
	SPFVerified  bool      `json:"spf_verified" db:"spf_verified"`
	DKIMVerified bool      `json:"dkim_verified" db:"dkim_verified"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// HasQuota reports whether the sender may send another email today.
func (s *Sender) HasQuota() bool {
	return s.IsActive && s.EmailsSentToday < s.MaxDailyLimit
}

// Contact is a marketing contact targeted by campaigns.
type Contact struct {
	ID             string    `json:"id" db:"id"`
	OrganizationID string    `json:"organization_id" db:"organization_id"`
	FirstName      string    `json:"first_name" db:"first_name"`
	LastName       string    `json:"last_name" db:"last_name"`
	Email          string    `json:"email" db:"email"`
	Country        string    `json:"country" db:"country"`
	Language       string    `json:"language" db:"language"`
	Subscribed     bool      `json:"subscribed" db:"subscribed"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}

// TrackingEvent is a single open or click recorded against a campaign.
type TrackingEvent struct {
	ID             string    `json:"id" db:"id"`
	OrganizationID string    `json:"organization_id" db:"organization_id"`
	CampaignID     string    `json:"campaign_id" db:"campaign_id"`
	ContactID      string    `json:"contact_id" db:"contact_id"`
	EventType      string    `json:"event_type" db:"event_type"` // "open" or "click"
	URL            string    `json:"url,omitempty" db:"url"`
	IPAddress      string    `json:"ip_address,omitempty" db:"ip_address"`
	Browser        string    `json:"browser,omitempty" db:"browser"`
	OS             string    `json:"os,omitempty" db:"os"`
	Device         string    `json:"device,omitempty" db:"device"`
	Country        string    `json:"country,omitempty" db:"country"`
	IsUnique       bool      `json:"is_unique" db:"is_unique"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}
