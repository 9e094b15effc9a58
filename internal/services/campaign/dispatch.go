package campaign

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/RandyMyers/mbzRevamp-sub007/internal/models"
	"github.com/RandyMyers/mbzRevamp-sub007/internal/services/mailer"
)

// DispatchResult summarizes one dispatch run.
type DispatchResult struct {
	Sent    int    `json:"sent"`
	Bounced int    `json:"bounced"`
	Skipped int    `json:"skipped"` // unsubscribed contacts
	Status  string `json:"status"`  // campaign status after the run
}

// Start moves a draft campaign to running and dispatches it. The loop
// runs to completion within the request, one synchronous send at a time.
func (s *Service) Start(orgID, id string) (*DispatchResult, error) {
	c, err := s.Get(orgID, id)
	if err != nil {
		return nil, err
	}
	if c.Status != models.CampaignStatusDraft {
		return nil, fmt.Errorf("only a draft campaign can be started")
	}
	if len(c.SenderIDs) == 0 {
		return nil, fmt.Errorf("campaign has no senders")
	}
	if len(c.TargetContactIDs) == 0 {
		return nil, fmt.Errorf("campaign has no target contacts")
	}
	return s.run(c)
}

// Resume continues a paused campaign from its persisted cursors.
func (s *Service) Resume(orgID, id string) (*DispatchResult, error) {
	c, err := s.Get(orgID, id)
	if err != nil {
		return nil, err
	}
	if c.Status != models.CampaignStatusPaused {
		return nil, fmt.Errorf("only a paused campaign can be resumed")
	}
	return s.run(c)
}

// run is the dispatch loop. Contacts are processed in stored order from
// the contact cursor; senders rotate from the sender cursor, skipping
// exhausted accounts. When every sender is at its daily cap the campaign
// pauses with its cursors persisted. Send failures count as bounces and
// do not stop the loop.
func (s *Service) run(c *models.Campaign) (*DispatchResult, error) {
	senders, err := s.loadSenders(c.OrganizationID, c.SenderIDs)
	if err != nil {
		return nil, err
	}
	contacts, err := s.loadContacts(c.OrganizationID, c.TargetContactIDs)
	if err != nil {
		return nil, err
	}

	if err := s.setStatus(c.ID, models.CampaignStatusRunning); err != nil {
		return nil, err
	}
	c.Status = models.CampaignStatusRunning

	result := &DispatchResult{}
	cursor := c.SenderCursor
	if cursor >= len(senders) {
		cursor = 0
	}

	i := c.ContactCursor
	for ; i < len(contacts); i++ {
		contact := contacts[i]
		if !contact.Subscribed {
			result.Skipped++
			continue
		}

		sender, next, ok := nextWithQuota(senders, cursor)
		if !ok {
			// Every sender hit its daily cap: pause and keep the
			// position so a later resume picks up here.
			c.ContactCursor = i
			c.SenderCursor = cursor
			c.Status = models.CampaignStatusPaused
			if err := s.persistProgress(c); err != nil {
				return nil, err
			}
			slog.Info("campaign paused, all senders exhausted",
				"campaign_id", c.ID, "contact_cursor", i)
			result.Status = c.Status
			return result, nil
		}
		cursor = next

		subject, body := s.renderFor(c, contact)
		err := s.mailer.Send(sender, mailer.Outbound{
			To:      contact.Email,
			Subject: subject,
			HTML:    body,
		})
		if err != nil {
			c.BouncedCount++
			result.Bounced++
			slog.Warn("campaign send failed",
				"campaign_id", c.ID, "contact", contact.Email, "error", err)
		} else {
			c.SentCount++
			c.DeliveredCount++
			result.Sent++
			sender.EmailsSentToday++
			if err := s.bumpSenderCount(sender); err != nil {
				return nil, err
			}
		}

		c.ContactCursor = i + 1
		c.SenderCursor = cursor
		if err := s.persistProgress(c); err != nil {
			return nil, err
		}
	}

	c.Status = models.CampaignStatusCompleted
	if err := s.persistProgress(c); err != nil {
		return nil, err
	}
	slog.Info("campaign completed",
		"campaign_id", c.ID, "sent", result.Sent, "bounced", result.Bounced)
	result.Status = c.Status
	return result, nil
}

// nextWithQuota finds the first sender with remaining quota starting at
// cursor. Returns the sender, the cursor for the next pick (one past the
// chosen sender, so the pool rotates), and whether any sender had quota.
func nextWithQuota(senders []*models.Sender, cursor int) (*models.Sender, int, bool) {
	for n := 0; n < len(senders); n++ {
		idx := (cursor + n) % len(senders)
		if senders[idx].HasQuota() {
			return senders[idx], (idx + 1) % len(senders), true
		}
	}
	return nil, cursor, false
}

func (s *Service) persistProgress(c *models.Campaign) error {
	_, err := s.db.Exec(`
		UPDATE campaigns SET status = ?, sent_count = ?, delivered_count = ?, bounced_count = ?,
			contact_cursor = ?, sender_cursor = ?, updated_at = ?
		WHERE id = ?
	`, c.Status, c.SentCount, c.DeliveredCount, c.BouncedCount,
		c.ContactCursor, c.SenderCursor, time.Now().UTC(), c.ID)
	return err
}

func (s *Service) bumpSenderCount(sender *models.Sender) error {
	_, err := s.db.Exec(
		"UPDATE senders SET emails_sent_today = ?, updated_at = ? WHERE id = ?",
		sender.EmailsSentToday, time.Now().UTC(), sender.ID)
	return err
}
