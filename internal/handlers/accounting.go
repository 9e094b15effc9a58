package handlers

import (
	"net/http"

	"github.com/RandyMyers/mbzRevamp-sub007/internal/models"
	"github.com/RandyMyers/mbzRevamp-sub007/internal/services/audit"
	"github.com/RandyMyers/mbzRevamp-sub007/internal/services/ledger"

	"github.com/gin-gonic/gin"
)

type AccountingHandler struct {
	ledgerService *ledger.Service
	auditService  *audit.Service
}

func NewAccountingHandler(ledgerService *ledger.Service, auditService *audit.Service) *AccountingHandler {
	return &AccountingHandler{ledgerService: ledgerService, auditService: auditService}
}

func (h *AccountingHandler) CreateAccount(c *gin.Context) {
	var m models.Account
	if err := c.ShouldBindJSON(&m); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body", err)
		return
	}
	created, err := h.ledgerService.CreateAccount(orgID(c), &m)
	if err != nil {
		failErr(c, err)
		return
	}
	h.auditService.Record(orgID(c), userID(c), "create", "account", created.ID)
	ok(c, http.StatusCreated, "account created", created)
}

func (h *AccountingHandler) GetAccount(c *gin.Context) {
	m, err := h.ledgerService.GetAccount(orgID(c), c.Param("id"))
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, "", m)
}

func (h *AccountingHandler) ListAccounts(c *gin.Context) {
	list, err := h.ledgerService.ListAccounts(orgID(c))
	if err != nil {
		fail(c, http.StatusInternalServerError, "failed to list accounts", err)
		return
	}
	ok(c, http.StatusOK, "", list)
}

func (h *AccountingHandler) UpdateAccount(c *gin.Context) {
	var req struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body", err)
		return
	}
	updated, err := h.ledgerService.UpdateAccount(orgID(c), c.Param("id"), req.Name)
	if err != nil {
		failErr(c, err)
		return
	}
	h.auditService.Record(orgID(c), userID(c), "update", "account", updated.ID)
	ok(c, http.StatusOK, "account updated", updated)
}

// DeleteAccount refuses to remove accounts with children or journal
// references.
func (h *AccountingHandler) DeleteAccount(c *gin.Context) {
	if err := h.ledgerService.DeleteAccount(orgID(c), c.Param("id")); err != nil {
		failErr(c, err)
		return
	}
	h.auditService.Record(orgID(c), userID(c), "delete", "account", c.Param("id"))
	ok(c, http.StatusOK, "account deleted", nil)
}

// CreateEntry posts a journal entry. Debits must equal credits to the
// cent or the entry is rejected.
func (h *AccountingHandler) CreateEntry(c *gin.Context) {
	var m models.JournalEntry
	if err := c.ShouldBindJSON(&m); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body", err)
		return
	}
	created, err := h.ledgerService.CreateEntry(orgID(c), &m)
	if err != nil {
		failErr(c, err)
		return
	}
	h.auditService.Record(orgID(c), userID(c), "create", "journal_entry", created.ID)
	ok(c, http.StatusCreated, "journal entry posted", created)
}

func (h *AccountingHandler) GetEntry(c *gin.Context) {
	m, err := h.ledgerService.GetEntry(orgID(c), c.Param("id"))
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, "", m)
}

func (h *AccountingHandler) ListEntries(c *gin.Context) {
	list, err := h.ledgerService.ListEntries(orgID(c))
	if err != nil {
		fail(c, http.StatusInternalServerError, "failed to list journal entries", err)
		return
	}
	ok(c, http.StatusOK, "", list)
}

func (h *AccountingHandler) TrialBalance(c *gin.Context) {
	rows, err := h.ledgerService.TrialBalance(orgID(c))
	if err != nil {
		fail(c, http.StatusInternalServerError, "failed to compute trial balance", err)
		return
	}
	ok(c, http.StatusOK, "", rows)
}
