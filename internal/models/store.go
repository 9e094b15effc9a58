package models

import (
	"time"
)

// Store is one WooCommerce shop polled for sales reports.
type Store struct {
	ID             string    `json:"id" db:"id"`
	OrganizationID string    `json:"organization_id" db:"organization_id"`
	Name           string    `json:"name" db:"name"`
	BaseURL        string    `json:"base_url" db:"base_url"`
	ConsumerKey    string    `json:"-" db:"consumer_key"`
	ConsumerSecret string    `json:"-" db:"consumer_secret"`
	Currency       string    `json:"currency" db:"currency"`
	IsActive       bool      `json:"is_active" db:"is_active"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}

// StoreReport is one store's slice of the aggregated revenue report.
type StoreReport struct {
	StoreID    string  `json:"store_id"`
	StoreName  string  `json:"store_name"`
	Currency   string  `json:"currency"`
	Orders     int     `json:"orders"`
	Revenue    float64 `json:"revenue"`           // in store currency
	Converted  float64 `json:"converted_revenue"` // in requested currency
	FetchError string  `json:"fetch_error,omitempty"`
}

// RevenueReport aggregates all stores into the requested currency.
type RevenueReport struct {
	Currency     string        `json:"currency"`
	TotalOrders  int           `json:"total_orders"`
	TotalRevenue float64       `json:"total_revenue"`
	Stores       []StoreReport `json:"stores"`
}
