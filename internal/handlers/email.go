package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/RandyMyers/mbzRevamp-sub007/internal/models"
	"github.com/RandyMyers/mbzRevamp-sub007/internal/services/audit"
	"github.com/RandyMyers/mbzRevamp-sub007/internal/services/campaign"
	"github.com/RandyMyers/mbzRevamp-sub007/internal/services/email"
	"github.com/RandyMyers/mbzRevamp-sub007/internal/services/mailer"
	"github.com/RandyMyers/mbzRevamp-sub007/internal/services/sync"

	"github.com/gin-gonic/gin"
)

type EmailHandler struct {
	emailService    *email.Service
	campaignService *campaign.Service
	syncService     *sync.Service
	auditService    *audit.Service
}

func NewEmailHandler(emailService *email.Service, campaignService *campaign.Service, syncService *sync.Service, auditService *audit.Service) *EmailHandler {
	return &EmailHandler{
		emailService:    emailService,
		campaignService: campaignService,
		syncService:     syncService,
		auditService:    auditService,
	}
}

func queryInt(c *gin.Context, key string, def int) int {
	v, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return def
	}
	return v
}

// ListFolder returns messages for one of inbox/sent/drafts/trash/archived.
func (h *EmailHandler) ListFolder(c *gin.Context) {
	list, err := h.emailService.ListFolder(orgID(c), c.Param("folder"),
		queryInt(c, "limit", 50), queryInt(c, "offset", 0))
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, "", list)
}

// Get returns a single message and marks it read.
func (h *EmailHandler) Get(c *gin.Context) {
	m, err := h.emailService.Get(orgID(c), c.Param("id"))
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, "", m)
}

func (h *EmailHandler) SaveDraft(c *gin.Context) {
	var m models.EmailMessage
	if err := c.ShouldBindJSON(&m); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body", err)
		return
	}
	saved, err := h.emailService.SaveDraft(orgID(c), c.Param("id"), &m)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, "draft saved", saved)
}

func (h *EmailHandler) Move(c *gin.Context) {
	var req struct {
		Folder string `json:"folder" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if err := h.emailService.Move(orgID(c), c.Param("id"), req.Folder); err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, "message moved", nil)
}

func (h *EmailHandler) Delete(c *gin.Context) {
	if err := h.emailService.Delete(orgID(c), c.Param("id")); err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, "message deleted", nil)
}

type SendEmailRequest struct {
	SenderID string `json:"sender_id" binding:"required"`
	To       string `json:"to" binding:"required,email"`
	Subject  string `json:"subject" binding:"required"`
	HTML     string `json:"html" binding:"required"`
}

// Send submits a one-off email through a configured sender. Delivery
// failures are logged with a mail error class and reported to the
// caller with an operator-friendly message.
func (h *EmailHandler) Send(c *gin.Context) {
	var req SendEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	sender, err := h.campaignService.GetSender(orgID(c), req.SenderID)
	if err != nil {
		failErr(c, err)
		return
	}

	msg, err := h.emailService.Send(orgID(c), sender, req.To, req.Subject, req.HTML)
	if err != nil {
		var sendErr *mailer.SendError
		if errors.As(err, &sendErr) {
			fail(c, http.StatusBadGateway, mailer.UserMessage(sendErr.Class), err)
			return
		}
		fail(c, http.StatusInternalServerError, "failed to send email", err)
		return
	}

	h.auditService.Record(orgID(c), userID(c), "send", "email", msg.ID)
	ok(c, http.StatusOK, "email sent", msg)
}

func (h *EmailHandler) ListLogs(c *gin.Context) {
	logs, err := h.emailService.ListLogs(orgID(c), queryInt(c, "limit", 100))
	if err != nil {
		fail(c, http.StatusInternalServerError, "failed to list email logs", err)
		return
	}
	ok(c, http.StatusOK, "", logs)
}

// --- receivers ---

func (h *EmailHandler) CreateReceiver(c *gin.Context) {
	var m models.Receiver
	if err := c.ShouldBindJSON(&m); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body", err)
		return
	}
	created, err := h.emailService.CreateReceiver(orgID(c), &m)
	if err != nil {
		failErr(c, err)
		return
	}
	h.auditService.Record(orgID(c), userID(c), "create", "receiver", created.ID)
	ok(c, http.StatusCreated, "receiver created", created)
}

func (h *EmailHandler) GetReceiver(c *gin.Context) {
	m, err := h.emailService.GetReceiver(orgID(c), c.Param("id"))
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, "", m)
}

func (h *EmailHandler) ListReceivers(c *gin.Context) {
	list, err := h.emailService.ListReceivers(orgID(c))
	if err != nil {
		fail(c, http.StatusInternalServerError, "failed to list receivers", err)
		return
	}
	ok(c, http.StatusOK, "", list)
}

func (h *EmailHandler) UpdateReceiver(c *gin.Context) {
	var m models.Receiver
	if err := c.ShouldBindJSON(&m); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body", err)
		return
	}
	updated, err := h.emailService.UpdateReceiver(orgID(c), c.Param("id"), &m)
	if err != nil {
		failErr(c, err)
		return
	}
	h.auditService.Record(orgID(c), userID(c), "update", "receiver", updated.ID)
	ok(c, http.StatusOK, "receiver updated", updated)
}

func (h *EmailHandler) DeleteReceiver(c *gin.Context) {
	if err := h.emailService.DeleteReceiver(orgID(c), c.Param("id")); err != nil {
		failErr(c, err)
		return
	}
	h.auditService.Record(orgID(c), userID(c), "delete", "receiver", c.Param("id"))
	ok(c, http.StatusOK, "receiver deleted", nil)
}

// SyncReceiver pulls mail for one receiver. mode=incoming checks unseen
// inbox mail only; mode=full walks every folder since the watermark.
func (h *EmailHandler) SyncReceiver(c *gin.Context) {
	mode := c.DefaultQuery("mode", sync.ModeIncoming)
	if mode != sync.ModeIncoming && mode != sync.ModeFull {
		fail(c, http.StatusBadRequest, "mode must be incoming or full", nil)
		return
	}

	receiver, err := h.emailService.GetReceiver(orgID(c), c.Param("id"))
	if err != nil {
		failErr(c, err)
		return
	}

	result, err := h.syncService.SyncReceiver(receiver, mode)
	if err != nil {
		fail(c, http.StatusBadGateway, "sync failed", err)
		return
	}

	h.auditService.Record(orgID(c), userID(c), "sync", "receiver", receiver.ID)
	ok(c, http.StatusOK, "sync finished", result)
}
