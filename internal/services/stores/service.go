// Package stores aggregates WooCommerce sales reports across an
// organization's shops into a single multi-currency revenue report.
package stores

import (
	"database/sql"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/RandyMyers/mbzRevamp-sub007/internal/models"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
)

type Service struct {
	db     *sql.DB
	client *resty.Client
}

func NewService(db *sql.DB) *Service {
	client := resty.New().
		SetTimeout(20 * time.Second).
		SetHeader("Accept", "application/json")
	return &Service{db: db, client: client}
}

// conversionRates holds static per-currency rates to USD. Aggregation
// converts store revenue to USD and then into the requested currency.
var conversionRates = map[string]float64{
	"USD": 1,
	"EUR": 1.08,
	"GBP": 1.27,
	"NGN": 0.00065,
	"CAD": 0.73,
	"AUD": 0.66,
}

// wooSalesReport is the subset of the WooCommerce v3 sales report the
// aggregation needs. Totals come back as strings.
type wooSalesReport struct {
	TotalSales  string `json:"total_sales"`
	TotalOrders int    `json:"total_orders"`
}

// CreateStore registers a WooCommerce shop.
func (s *Service) CreateStore(orgID string, m *models.Store) (*models.Store, error) {
	if m.Name == "" || m.BaseURL == "" || m.ConsumerKey == "" || m.ConsumerSecret == "" {
		return nil, fmt.Errorf("name, base_url, consumer_key and consumer_secret are required")
	}
	if _, ok := conversionRates[m.Currency]; !ok {
		m.Currency = "USD"
	}

	m.ID = uuid.New().String()
	m.OrganizationID = orgID
	m.IsActive = true
	now := time.Now().UTC()
	m.CreatedAt = now
	m.UpdatedAt = now

	_, err := s.db.Exec(`
		INSERT INTO stores (id, organization_id, name, base_url, consumer_key, consumer_secret, currency, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, 1, ?, ?)
	`, m.ID, orgID, m.Name, m.BaseURL, m.ConsumerKey, m.ConsumerSecret, m.Currency, now, now)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// GetStore loads one store scoped to the organization.
func (s *Service) GetStore(orgID, id string) (*models.Store, error) {
	var m models.Store
	err := s.db.QueryRow(`
		SELECT id, organization_id, name, base_url, consumer_key, consumer_secret, currency, is_active, created_at, updated_at
		FROM stores WHERE id = ? AND organization_id = ?
	`, id, orgID).Scan(&m.ID, &m.OrganizationID, &m.Name, &m.BaseURL, &m.ConsumerKey,
		&m.ConsumerSecret, &m.Currency, &m.IsActive, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("store not found")
		}
		return nil, err
	}
	return &m, nil
}

// ListStores returns the organization's active stores.
func (s *Service) ListStores(orgID string) ([]*models.Store, error) {
	rows, err := s.db.Query(`
		SELECT id, organization_id, name, base_url, consumer_key, consumer_secret, currency, is_active, created_at, updated_at
		FROM stores WHERE organization_id = ? ORDER BY created_at
	`, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []*models.Store{}
	for rows.Next() {
		var m models.Store
		if err := rows.Scan(&m.ID, &m.OrganizationID, &m.Name, &m.BaseURL, &m.ConsumerKey,
			&m.ConsumerSecret, &m.Currency, &m.IsActive, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, &m)
	}
	return result, rows.Err()
}

// DeleteStore removes a store registration.
func (s *Service) DeleteStore(orgID, id string) error {
	res, err := s.db.Exec("DELETE FROM stores WHERE id = ? AND organization_id = ?", id, orgID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("store not found")
	}
	return nil
}

// RevenueReport fans over the organization's stores sequentially,
// fetches each sales report and aggregates into the requested currency.
// Per-store fetch failures land in the store's FetchError field and do
// not fail the report.
func (s *Service) RevenueReport(orgID, currency string) (*models.RevenueReport, error) {
	if _, ok := conversionRates[currency]; !ok {
		currency = "USD"
	}

	storesList, err := s.ListStores(orgID)
	if err != nil {
		return nil, err
	}

	report := &models.RevenueReport{Currency: currency, Stores: []models.StoreReport{}}
	for _, store := range storesList {
		if !store.IsActive {
			continue
		}
		sr := models.StoreReport{
			StoreID:   store.ID,
			StoreName: store.Name,
			Currency:  store.Currency,
		}

		woo, err := s.fetchSalesReport(store)
		if err != nil {
			slog.Warn("store report fetch failed", "store", store.Name, "error", err)
			sr.FetchError = err.Error()
			report.Stores = append(report.Stores, sr)
			continue
		}

		revenue, _ := strconv.ParseFloat(woo.TotalSales, 64)
		sr.Orders = woo.TotalOrders
		sr.Revenue = revenue
		sr.Converted = Convert(revenue, store.Currency, currency)

		report.TotalOrders += sr.Orders
		report.TotalRevenue += sr.Converted
		report.Stores = append(report.Stores, sr)
	}
	return report, nil
}

func (s *Service) fetchSalesReport(store *models.Store) (*wooSalesReport, error) {
	var reports []wooSalesReport
	resp, err := s.client.R().
		SetQueryParams(map[string]string{
			"consumer_key":    store.ConsumerKey,
			"consumer_secret": store.ConsumerSecret,
		}).
		SetResult(&reports).
		Get(store.BaseURL + "/wp-json/wc/v3/reports/sales")
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("store API returned %s", resp.Status())
	}
	if len(reports) == 0 {
		return &wooSalesReport{TotalSales: "0"}, nil
	}
	return &reports[0], nil
}

// Convert converts an amount between two known currencies through USD.
// Unknown currencies pass through unchanged.
func Convert(amount float64, from, to string) float64 {
	fromRate, okFrom := conversionRates[from]
	toRate, okTo := conversionRates[to]
	if !okFrom || !okTo || toRate == 0 {
		return amount
	}
	return amount * fromRate / toRate
}
