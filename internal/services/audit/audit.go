package audit

import (
	"database/sql"
	"log/slog"
	"time"

	"github.com/RandyMyers/mbzRevamp-sub007/internal/models"

	"github.com/google/uuid"
)

type Service struct {
	db *sql.DB
}

func NewService(db *sql.DB) *Service {
	return &Service{db: db}
}

// Record writes one audit row. Audit failures are logged, never
// propagated: a broken audit trail must not fail the mutation it
// describes.
func (s *Service) Record(orgID, actorID, action, entity, entityID string) {
	_, err := s.db.Exec(
		"INSERT INTO audit_logs (id, organization_id, actor_id, action, entity, entity_id, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
		uuid.New().String(), orgID, actorID, action, entity, entityID, time.Now().UTC())
	if err != nil {
		slog.Error("failed to write audit log", "entity", entity, "action", action, "error", err)
	}
}

// List returns recent audit entries for the organization.
func (s *Service) List(orgID string, limit int) ([]*models.AuditLog, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	rows, err := s.db.Query(
		"SELECT id, organization_id, actor_id, action, entity, entity_id, created_at FROM audit_logs WHERE organization_id = ? ORDER BY created_at DESC LIMIT ?",
		orgID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	logs := []*models.AuditLog{}
	for rows.Next() {
		var l models.AuditLog
		if err := rows.Scan(&l.ID, &l.OrganizationID, &l.ActorID, &l.Action, &l.Entity, &l.EntityID, &l.CreatedAt); err != nil {
			return nil, err
		}
		logs = append(logs, &l)
	}
	return logs, rows.Err()
}
