package tracking

import (
	"path/filepath"
	"testing"

	"github.com/RandyMyers/mbzRevamp-sub007/internal/database"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	uaChromeDesktop = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	uaSafariIPhone  = "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Mobile/15E148 Safari/604.1"
	uaGooglebot     = "Mozilla/5.0 (compatible; Googlebot/2.1; +http://www.google.com/bot.html)"
)

func testService(t *testing.T) *Service {
	t.Helper()
	db, err := database.Init(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewService(db, nil)
}

func TestPixel(t *testing.T) {
	data := Pixel()
	require.NotEmpty(t, data)
	assert.Equal(t, "GIF89a", string(data[:6]))
}

func TestStaticGeo(t *testing.T) {
	geo := staticGeo{}
	assert.Equal(t, "NG", geo.Country("41.58.12.3"))
	assert.Equal(t, "US", geo.Country("8.8.8.8"))
	assert.Equal(t, "AU", geo.Country("1.1.1.1"))
	assert.Equal(t, "", geo.Country("192.168.1.10"))
	assert.Equal(t, "", geo.Country("127.0.0.1"))
	assert.Equal(t, "", geo.Country("not-an-ip"))
	assert.Equal(t, "", geo.Country("93.184.216.34"))
}

func TestRecordDeviceAttribution(t *testing.T) {
	s := testService(t)

	require.NoError(t, s.Record("org1", "camp1", "con1", EventOpen, "", "41.58.12.3", uaChromeDesktop, true))
	require.NoError(t, s.Record("org1", "camp1", "con2", EventOpen, "", "8.8.8.8", uaSafariIPhone, true))
	require.NoError(t, s.Record("org1", "camp1", "con3", EventClick, "https://example.com", "1.1.1.1", uaGooglebot, false))

	events, err := s.ListEvents("org1", "camp1", 0)
	require.NoError(t, err)
	require.Len(t, events, 3)

	byContact := map[string]string{}
	countries := map[string]string{}
	for _, e := range events {
		byContact[e.ContactID] = e.Device
		countries[e.ContactID] = e.Country
	}
	assert.Equal(t, "desktop", byContact["con1"])
	assert.Equal(t, "mobile", byContact["con2"])
	assert.Equal(t, "bot", byContact["con3"])
	assert.Equal(t, "NG", countries["con1"])
	assert.Equal(t, "US", countries["con2"])
}

func TestListEventsScopedToCampaign(t *testing.T) {
	s := testService(t)

	require.NoError(t, s.Record("org1", "camp1", "con1", EventOpen, "", "8.8.8.8", uaChromeDesktop, true))
	require.NoError(t, s.Record("org1", "camp2", "con1", EventOpen, "", "8.8.8.8", uaChromeDesktop, true))
	require.NoError(t, s.Record("org2", "camp1", "con9", EventOpen, "", "8.8.8.8", uaChromeDesktop, true))

	events, err := s.ListEvents("org1", "camp1", 0)
	require.NoError(t, err)
	assert.Len(t, events, 1)
}
