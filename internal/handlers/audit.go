package handlers

import (
	"net/http"

	"github.com/RandyMyers/mbzRevamp-sub007/internal/services/audit"

	"github.com/gin-gonic/gin"
)

type AuditHandler struct {
	auditService *audit.Service
}

func NewAuditHandler(auditService *audit.Service) *AuditHandler {
	return &AuditHandler{auditService: auditService}
}

func (h *AuditHandler) List(c *gin.Context) {
	logs, err := h.auditService.List(orgID(c), queryInt(c, "limit", 100))
	if err != nil {
		fail(c, http.StatusInternalServerError, "failed to list audit logs", err)
		return
	}
	ok(c, http.StatusOK, "", logs)
}
