package stores

import (
	"database/sql"
	"path/filepath"
	"testing"

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

func TestConvert(t *testing.T) {
	assert.Equal(t, 100.0, Convert(100, "USD", "USD"))
	assert.InDelta(t, 108.0, Convert(100, "EUR", "USD"), 0.001)
	assert.InDelta(t, 100.0, Convert(108, "USD", "EUR"), 0.001)

	// Cross conversion routes through USD.
	assert.InDelta(t, 108.0/1.27, Convert(100, "EUR", "GBP"), 0.001)

	// Unknown currencies pass through unchanged.
	assert.Equal(t, 42.0, Convert(42, "XYZ", "USD"))
	assert.Equal(t, 42.0, Convert(42, "USD", "XYZ"))
}

func TestConvertRoundTrip(t *testing.T) {
	for from := range conversionRates {
		for to := range conversionRates {
			back := Convert(Convert(1000, from, to), to, from)
			assert.InDelta(t, 1000.0, back, 0.0001, "%s -> %s", from, to)
		}
	}
}

func TestStoreCRUD(t *testing.T) {
	s := NewService(testDB(t))

	_, err := s.CreateStore("org1", &models.Store{Name: "shop"})
	assert.ErrorContains(t, err, "required")

	created, err := s.CreateStore("org1", &models.Store{
		Name:           "shop",
		BaseURL:        "https://shop.example.com",
		ConsumerKey:    "ck_test",
		ConsumerSecret: "cs_test",
		Currency:       "EUR",
	})
	require.NoError(t, err)

	got, err := s.GetStore("org1", created.ID)
	require.NoError(t, err)
	assert.Equal(t, "EUR", got.Currency)

	// Stores are invisible to other organizations.
	_, err = s.GetStore("org2", created.ID)
	assert.ErrorContains(t, err, "not found")

	require.NoError(t, s.DeleteStore("org1", created.ID))
	_, err = s.GetStore("org1", created.ID)
	assert.ErrorContains(t, err, "not found")
}
