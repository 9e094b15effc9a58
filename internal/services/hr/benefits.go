package hr

import (
	"fmt"
	"time"

	"github.com/RandyMyers/mbzRevamp-sub007/internal/models"

	"github.com/google/uuid"
)

// Benefits and compliance requirements are persisted tables, safe across
// restarts and multiple instances.

// CreateBenefit adds a benefit definition.
func (s *Service) CreateBenefit(orgID string, b *models.Benefit) (*models.Benefit, error) {
	if b.Name == "" {
		return nil, fmt.Errorf("name is required")
	}
	b.ID = uuid.New().String()
	b.OrganizationID = orgID
	b.CreatedAt = time.Now().UTC()

	_, err := s.db.Exec(
		"INSERT INTO benefits (id, organization_id, name, description, monthly_cost, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		b.ID, orgID, b.Name, b.Description, b.MonthlyCost, b.CreatedAt)
	if err != nil {
		return nil, err
	}
	return b, nil
}

// ListBenefits returns the organization's benefit definitions.
func (s *Service) ListBenefits(orgID string) ([]*models.Benefit, error) {
	rows, err := s.db.Query(
		"SELECT id, organization_id, name, description, monthly_cost, created_at FROM benefits WHERE organization_id = ? ORDER BY name",
		orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	benefits := []*models.Benefit{}
	for rows.Next() {
		var b models.Benefit
		if err := rows.Scan(&b.ID, &b.OrganizationID, &b.Name, &b.Description, &b.MonthlyCost, &b.CreatedAt); err != nil {
			return nil, err
		}
		benefits = append(benefits, &b)
	}
	return benefits, rows.Err()
}

// DeleteBenefit removes a benefit definition.
func (s *Service) DeleteBenefit(orgID, id string) error {
	res, err := s.db.Exec("DELETE FROM benefits WHERE id = ? AND organization_id = ?", id, orgID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("benefit not found")
	}
	return nil
}

// CreateComplianceRequirement adds a statutory requirement entry.
func (s *Service) CreateComplianceRequirement(orgID string, c *models.ComplianceRequirement) (*models.ComplianceRequirement, error) {
	if c.Name == "" {
		return nil, fmt.Errorf("name is required")
	}
	if c.DueDay < 1 || c.DueDay > 31 {
		c.DueDay = 1
	}
	c.ID = uuid.New().String()
	c.OrganizationID = orgID
	c.CreatedAt = time.Now().UTC()

	_, err := s.db.Exec(
		"INSERT INTO compliance_requirements (id, organization_id, name, authority, due_day, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		c.ID, orgID, c.Name, c.Authority, c.DueDay, c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// ListComplianceRequirements returns the organization's requirements.
func (s *Service) ListComplianceRequirements(orgID string) ([]*models.ComplianceRequirement, error) {
	rows, err := s.db.Query(
		"SELECT id, organization_id, name, authority, due_day, created_at FROM compliance_requirements WHERE organization_id = ? ORDER BY due_day",
		orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reqs := []*models.ComplianceRequirement{}
	for rows.Next() {
		var c models.ComplianceRequirement
		if err := rows.Scan(&c.ID, &c.OrganizationID, &c.Name, &c.Authority, &c.DueDay, &c.CreatedAt); err != nil {
			return nil, err
		}
		reqs = append(reqs, &c)
	}
	return reqs, rows.Err()
}

// DeleteComplianceRequirement removes a requirement entry.
func (s *Service) DeleteComplianceRequirement(orgID, id string) error {
	res, err := s.db.Exec("DELETE FROM compliance_requirements WHERE id = ? AND organization_id = ?", id, orgID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("compliance requirement not found")
	}
	return nil
}
