package models

import (
	"time"
)

// Platform roles, from widest to narrowest access.
const (
	RoleSuperAdmin = "super-admin"
	RoleStaff      = "staff"
	RoleEmployee   = "employee"
	RoleAffiliate  = "affiliate"
)

// Organization is the tenant boundary. Every business record carries an
// organization id and queries are always scoped to it.
type Organization struct {
	ID           string    `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	BaseCurrency string    `json:"base_currency" db:"base_currency"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// User is a platform account (admin, staff, employee or affiliate login).
type User struct {
	ID             string    `json:"id" db:"id"`
	OrganizationID string    `json:"organization_id" db:"organization_id"`
	Name           string    `json:"name" db:"name"`
	Email          string    `json:"email" db:"email"`
	Password       string    `json:"-" db:"password"`
	Role           string    `json:"role" db:"role"`
	IsActive       bool      `json:"is_active" db:"is_active"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}

// AuditLog records one mutation performed through the API.
type AuditLog struct {
	ID             string    `json:"id" db:"id"`
	OrganizationID string    `json:"organization_id" db:"organization_id"`
	ActorID        string    `json:"actor_id" db:"actor_id"`
	Action         string    `json:"action" db:"action"` // create, update, delete, approve...
	Entity         string    `json:"entity" db:"entity"`
	EntityID       string    `json:"entity_id" db:"entity_id"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}
