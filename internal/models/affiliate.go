package models

import (
	"time"
)

// Commission statuses.
const (
	CommissionStatusPending  = "pending"
	CommissionStatusApproved = "approved"
	CommissionStatusPaid     = "paid"
)

// Payout statuses. Transitions: pending -> processing -> completed | failed.
// A failed payout reverses the affiliate's balance and commission statuses.
const (
	PayoutStatusPending    = "pending"
	PayoutStatusProcessing = "processing"
	PayoutStatusCompleted  = "completed"
	PayoutStatusFailed     = "failed"
)

// Affiliate is a referral partner accumulating commission earnings.
type Affiliate struct {
	ID             string    `json:"id" db:"id"`
	OrganizationID string    `json:"organization_id" db:"organization_id"`
	UserID         string    `json:"user_id,omitempty" db:"user_id"`
	Name           string    `json:"name" db:"name"`
	Email          string    `json:"email" db:"email"`
	Code           string    `json:"code" db:"code"` // referral code
	CommissionRate float64   `json:"commission_rate" db:"commission_rate"`
	Balance        float64   `json:"balance" db:"balance"` // approved, unpaid earnings
	IsActive       bool      `json:"is_active" db:"is_active"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}

// Commission is a single earned commission.
type Commission struct {
	ID             string    `json:"id" db:"id"`
	OrganizationID string    `json:"organization_id" db:"organization_id"`
	AffiliateID    string    `json:"affiliate_id" db:"affiliate_id"`
	OrderRef       string    `json:"order_ref" db:"order_ref"`
	Amount         float64   `json:"amount" db:"amount"`
	Status         string    `json:"status" db:"status"`
	PayoutID       *string   `json:"payout_id" db:"payout_id"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}

// Payout is a transfer of accumulated earnings to an affiliate.
type Payout struct {
	ID             string    `json:"id" db:"id"`
	OrganizationID string    `json:"organization_id" db:"organization_id"`
	AffiliateID    string    `json:"affiliate_id" db:"affiliate_id"`
	Amount         float64   `json:"amount" db:"amount"`
	Status         string    `json:"status" db:"status"`
	FailureReason  string    `json:"failure_reason,omitempty" db:"failure_reason"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}
