package tracking

import (
	"database/sql"
	"encoding/base64"
	"time"

	"github.com/RandyMyers/mbzRevamp-sub007/internal/models"

	"github.com/google/uuid"
	"github.com/mileusna/useragent"
)

// pixelB64 is a 1x1 transparent GIF, served on every open-tracking hit.
const pixelB64 = "R0lGODlhAQABAIAAAAAAAP///yH5BAEAAAAALAAAAAABAAEAAAIBRAA7"

// Pixel returns the decoded tracking GIF bytes.
func Pixel() []byte {
	data, _ := base64.StdEncoding.DecodeString(pixelB64)
	return data
}

// GeoResolver maps a client IP to a coarse country code. The default
// implementation uses a small static table; a real geoip backend can be
// swapped in.
type GeoResolver interface {
	Country(ip string) string
}

type Service struct {
	db  *sql.DB
	geo GeoResolver
}

func NewService(db *sql.DB, geo GeoResolver) *Service {
	if geo == nil {
		geo = staticGeo{}
	}
	return &Service{db: db, geo: geo}
}

// Event types.
const (
	EventOpen  = "open"
	EventClick = "click"
)

// Record stores one engagement event with device and geo attribution
// parsed from the request metadata. isUnique marks the first event of
// its type for the (campaign, contact) pair.
func (s *Service) Record(orgID, campaignID, contactID, eventType, url, ip, userAgent string, isUnique bool) error {
	ua := useragent.Parse(userAgent)
	device := "desktop"
	switch {
	case ua.Mobile:
		device = "mobile"
	case ua.Tablet:
		device = "tablet"
	case ua.Bot:
		device = "bot"
	}

	_, err := s.db.Exec(`
		INSERT INTO tracking_events (id, organization_id, campaign_id, contact_id, event_type,
			url, ip_address, browser, os, device, country, is_unique, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, uuid.New().String(), orgID, campaignID, contactID, eventType,
		url, ip, ua.Name, ua.OS, device, s.geo.Country(ip), isUnique, time.Now().UTC())
	return err
}

// ListEvents returns a campaign's engagement events, newest first.
func (s *Service) ListEvents(orgID, campaignID string, limit int) ([]*models.TrackingEvent, error) {
	if limit <= 0 || limit > 1000 {
		limit = 200
	}
	rows, err := s.db.Query(`
		SELECT id, organization_id, campaign_id, contact_id, event_type, url, ip_address,
			browser, os, device, country, is_unique, created_at
		FROM tracking_events WHERE organization_id = ? AND campaign_id = ?
		ORDER BY created_at DESC LIMIT ?
	`, orgID, campaignID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := []*models.TrackingEvent{}
	for rows.Next() {
		var e models.TrackingEvent
		if err := rows.Scan(&e.ID, &e.OrganizationID, &e.CampaignID, &e.ContactID, &e.EventType,
			&e.URL, &e.IPAddress, &e.Browser, &e.OS, &e.Device, &e.Country, &e.IsUnique,
			&e.CreatedAt); err != nil {
			return nil, err
		}
		events = append(events, &e)
	}
	return events, rows.Err()
}
