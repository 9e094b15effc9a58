package campaign

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/RandyMyers/mbzRevamp-sub007/internal/database"
	"github.com/RandyMyers/mbzRevamp-sub007/internal/models"
	"github.com/RandyMyers/mbzRevamp-sub007/internal/services/mailer"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeMailer records sends instead of talking SMTP. Recipients listed in
// failFor always error.
type fakeMailer struct {
	sends   []fakeSend
	failFor map[string]bool
}

type fakeSend struct {
	senderEmail string
	to          string
}

func (f *fakeMailer) Send(sender *models.Sender, out mailer.Outbound) error {
	if f.failFor[out.To] {
		return fmt.Errorf("550 mailbox unavailable")
	}
	f.sends = append(f.sends, fakeSend{senderEmail: sender.Email, to: out.To})
	return nil
}

func testDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.Init(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func dispatchFixture(t *testing.T, db *sql.DB, fake *fakeMailer, senderCount, dailyLimit, contactCount int) (*Service, *models.Campaign) {
	t.Helper()
	s := NewService(db, fake, "http://localhost:8080")

	senderIDs := make([]string, 0, senderCount)
	for i := 0; i < senderCount; i++ {
		sender, err := s.CreateSender("org1", &models.Sender{
			Email:         fmt.Sprintf("sender%d@example.com", i),
			SMTPHost:      "smtp.example.com",
			SMTPPort:      465,
			Username:      fmt.Sprintf("sender%d", i),
			Password:      "secret",
			MaxDailyLimit: dailyLimit,
		})
		require.NoError(t, err)
		senderIDs = append(senderIDs, sender.ID)
	}

	contactIDs := make([]string, 0, contactCount)
	for i := 0; i < contactCount; i++ {
		contact, err := s.CreateContact("org1", &models.Contact{
			FirstName: fmt.Sprintf("Contact%d", i),
			Email:     fmt.Sprintf("contact%d@example.com", i),
		})
		require.NoError(t, err)
		contactIDs = append(contactIDs, contact.ID)
	}

	c, err := s.Create("org1", &models.Campaign{
		Name:             "launch",
		Subject:          "Hello {{firstName}}",
		Body:             "<html><body><p>Hi {{firstName}}</p></body></html>",
		SenderIDs:        senderIDs,
		TargetContactIDs: contactIDs,
	})
	require.NoError(t, err)
	return s, c
}

func TestDispatchRoundRobin(t *testing.T) {
	fake := &fakeMailer{}
	s, c := dispatchFixture(t, testDB(t), fake, 2, 100, 4)

	result, err := s.Start("org1", c.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, result.Sent)
	assert.Equal(t, models.CampaignStatusCompleted, result.Status)

	// Senders alternate send by send.
	require.Len(t, fake.sends, 4)
	assert.Equal(t, "sender0@example.com", fake.sends[0].senderEmail)
	assert.Equal(t, "sender1@example.com", fake.sends[1].senderEmail)
	assert.Equal(t, "sender0@example.com", fake.sends[2].senderEmail)
	assert.Equal(t, "sender1@example.com", fake.sends[3].senderEmail)

	got, err := s.Get("org1", c.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, got.SentCount)
	assert.Equal(t, 4, got.DeliveredCount)
	assert.Equal(t, 0, got.BouncedCount)
}

func TestDispatchPausesWhenPoolExhausted(t *testing.T) {
	db := testDB(t)
	fake := &fakeMailer{}
	// Total daily quota 4 against 6 contacts.
	s, c := dispatchFixture(t, db, fake, 2, 2, 6)

	result, err := s.Start("org1", c.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, result.Sent)
	assert.Equal(t, models.CampaignStatusPaused, result.Status)
	assert.Len(t, fake.sends, 4)

	got, err := s.Get("org1", c.ID)
	require.NoError(t, err)
	assert.Equal(t, models.CampaignStatusPaused, got.Status)
	assert.Equal(t, 4, got.ContactCursor)

	// Quota restored: resume finishes the remaining contacts without
	// re-sending to anyone.
	_, err = db.Exec("UPDATE senders SET emails_sent_today = 0")
	require.NoError(t, err)

	resumed, err := s.Resume("org1", c.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, resumed.Sent)
	assert.Equal(t, models.CampaignStatusCompleted, resumed.Status)
	assert.Len(t, fake.sends, 6)
	assert.Equal(t, "contact4@example.com", fake.sends[4].to)
	assert.Equal(t, "contact5@example.com", fake.sends[5].to)
}

func TestDispatchSkipsUnsubscribed(t *testing.T) {
	db := testDB(t)
	fake := &fakeMailer{}
	s, c := dispatchFixture(t, db, fake, 1, 100, 3)

	require.NoError(t, s.Unsubscribe(c.TargetContactIDs[1]))

	result, err := s.Start("org1", c.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Sent)
	assert.Equal(t, 1, result.Skipped)
	for _, send := range fake.sends {
		assert.NotEqual(t, "contact1@example.com", send.to)
	}
}

func TestDispatchCountsBounces(t *testing.T) {
	fake := &fakeMailer{failFor: map[string]bool{"contact1@example.com": true}}
	s, c := dispatchFixture(t, testDB(t), fake, 1, 100, 3)

	result, err := s.Start("org1", c.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Sent)
	assert.Equal(t, 1, result.Bounced)
	assert.Equal(t, models.CampaignStatusCompleted, result.Status)

	got, err := s.Get("org1", c.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.BouncedCount)
	assert.Equal(t, 2, got.DeliveredCount)
}

func TestStartRequiresDraft(t *testing.T) {
	fake := &fakeMailer{}
	s, c := dispatchFixture(t, testDB(t), fake, 1, 100, 1)

	_, err := s.Start("org1", c.ID)
	require.NoError(t, err)

	_, err = s.Start("org1", c.ID)
	assert.ErrorContains(t, err, "draft")

	_, err = s.Resume("org1", c.ID)
	assert.ErrorContains(t, err, "paused")
}

func TestStartValidation(t *testing.T) {
	db := testDB(t)
	fake := &fakeMailer{}
	s := NewService(db, fake, "http://localhost:8080")

	c, err := s.Create("org1", &models.Campaign{Name: "empty"})
	require.NoError(t, err)

	_, err = s.Start("org1", c.ID)
	assert.ErrorContains(t, err, "no senders")
}
