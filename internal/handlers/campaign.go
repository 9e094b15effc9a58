package handlers

import (
	"net/http"

	"github.com/RandyMyers/mbzRevamp-sub007/internal/models"
	"github.com/RandyMyers/mbzRevamp-sub007/internal/services/audit"
	"github.com/RandyMyers/mbzRevamp-sub007/internal/services/campaign"
	"github.com/RandyMyers/mbzRevamp-sub007/internal/services/domainverify"

	"github.com/gin-gonic/gin"
)

type CampaignHandler struct {
	campaignService *campaign.Service
	verifyService   *domainverify.Service
	auditService    *audit.Service
}

func NewCampaignHandler(campaignService *campaign.Service, verifyService *domainverify.Service, auditService *audit.Service) *CampaignHandler {
	return &CampaignHandler{
		campaignService: campaignService,
		verifyService:   verifyService,
		auditService:    auditService,
	}
}

func (h *CampaignHandler) Create(c *gin.Context) {
	var m models.Campaign
	if err := c.ShouldBindJSON(&m); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body", err)
		return
	}
	created, err := h.campaignService.Create(orgID(c), &m)
	if err != nil {
		failErr(c, err)
		return
	}
	h.auditService.Record(orgID(c), userID(c), "create", "campaign", created.ID)
	ok(c, http.StatusCreated, "campaign created", created)
}

func (h *CampaignHandler) Get(c *gin.Context) {
	m, err := h.campaignService.Get(orgID(c), c.Param("id"))
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, "", m)
}

func (h *CampaignHandler) List(c *gin.Context) {
	list, err := h.campaignService.List(orgID(c))
	if err != nil {
		fail(c, http.StatusInternalServerError, "failed to list campaigns", err)
		return
	}
	ok(c, http.StatusOK, "", list)
}

func (h *CampaignHandler) Update(c *gin.Context) {
	var m models.Campaign
	if err := c.ShouldBindJSON(&m); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body", err)
		return
	}
	updated, err := h.campaignService.Update(orgID(c), c.Param("id"), &m)
	if err != nil {
		failErr(c, err)
		return
	}
	h.auditService.Record(orgID(c), userID(c), "update", "campaign", updated.ID)
	ok(c, http.StatusOK, "campaign updated", updated)
}

func (h *CampaignHandler) Delete(c *gin.Context) {
	if err := h.campaignService.Delete(orgID(c), c.Param("id")); err != nil {
		failErr(c, err)
		return
	}
	h.auditService.Record(orgID(c), userID(c), "delete", "campaign", c.Param("id"))
	ok(c, http.StatusOK, "campaign deleted", nil)
}

// Start runs a draft campaign's dispatch loop synchronously and returns
// the outcome. A paused result means the sender pool ran out of quota.
func (h *CampaignHandler) Start(c *gin.Context) {
	result, err := h.campaignService.Start(orgID(c), c.Param("id"))
	if err != nil {
		failErr(c, err)
		return
	}
	h.auditService.Record(orgID(c), userID(c), "start", "campaign", c.Param("id"))
	ok(c, http.StatusOK, "campaign dispatched", result)
}

func (h *CampaignHandler) Pause(c *gin.Context) {
	if err := h.campaignService.Pause(orgID(c), c.Param("id")); err != nil {
		failErr(c, err)
		return
	}
	h.auditService.Record(orgID(c), userID(c), "pause", "campaign", c.Param("id"))
	ok(c, http.StatusOK, "campaign paused", nil)
}

// Resume continues a paused campaign from its saved cursors.
func (h *CampaignHandler) Resume(c *gin.Context) {
	result, err := h.campaignService.Resume(orgID(c), c.Param("id"))
	if err != nil {
		failErr(c, err)
		return
	}
	h.auditService.Record(orgID(c), userID(c), "resume", "campaign", c.Param("id"))
	ok(c, http.StatusOK, "campaign resumed", result)
}

func (h *CampaignHandler) ListEvents(c *gin.Context) {
	m, err := h.campaignService.Get(orgID(c), c.Param("id"))
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, "", gin.H{
		"sent_count":          m.SentCount,
		"delivered_count":     m.DeliveredCount,
		"bounced_count":       m.BouncedCount,
		"opened_contact_ids":  m.OpenedContactIDs,
		"clicked_contact_ids": m.ClickedContactIDs,
	})
}

// --- senders ---

func (h *CampaignHandler) CreateSender(c *gin.Context) {
	var m models.Sender
	if err := c.ShouldBindJSON(&m); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body", err)
		return
	}
	created, err := h.campaignService.CreateSender(orgID(c), &m)
	if err != nil {
		failErr(c, err)
		return
	}
	h.auditService.Record(orgID(c), userID(c), "create", "sender", created.ID)
	ok(c, http.StatusCreated, "sender created", created)
}

func (h *CampaignHandler) GetSender(c *gin.Context) {
	m, err := h.campaignService.GetSender(orgID(c), c.Param("id"))
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, "", m)
}

func (h *CampaignHandler) ListSenders(c *gin.Context) {
	list, err := h.campaignService.ListSenders(orgID(c))
	if err != nil {
		fail(c, http.StatusInternalServerError, "failed to list senders", err)
		return
	}
	ok(c, http.StatusOK, "", list)
}

func (h *CampaignHandler) UpdateSender(c *gin.Context) {
	var m models.Sender
	if err := c.ShouldBindJSON(&m); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body", err)
		return
	}
	updated, err := h.campaignService.UpdateSender(orgID(c), c.Param("id"), &m)
	if err != nil {
		failErr(c, err)
		return
	}
	h.auditService.Record(orgID(c), userID(c), "update", "sender", updated.ID)
	ok(c, http.StatusOK, "sender updated", updated)
}

func (h *CampaignHandler) DeleteSender(c *gin.Context) {
	if err := h.campaignService.DeleteSender(orgID(c), c.Param("id")); err != nil {
		failErr(c, err)
		return
	}
	h.auditService.Record(orgID(c), userID(c), "delete", "sender", c.Param("id"))
	ok(c, http.StatusOK, "sender deleted", nil)
}

// VerifySender runs MX/SPF/DKIM lookups for the sender's domain and
// stores the results on the sender.
func (h *CampaignHandler) VerifySender(c *gin.Context) {
	sender, err := h.campaignService.GetSender(orgID(c), c.Param("id"))
	if err != nil {
		failErr(c, err)
		return
	}
	domain := domainverify.DomainOf(sender.Email)
	if domain == "" {
		fail(c, http.StatusBadRequest, "sender email has no domain", nil)
		return
	}
	result, err := h.verifyService.Verify(domain, sender.DKIMSelector)
	if err != nil {
		fail(c, http.StatusInternalServerError, "domain verification failed", err)
		return
	}
	if err := h.campaignService.SetSenderVerification(sender.ID, result.MX, result.SPF, result.DKIM); err != nil {
		fail(c, http.StatusInternalServerError, "failed to store verification results", err)
		return
	}
	h.auditService.Record(orgID(c), userID(c), "verify", "sender", sender.ID)
	ok(c, http.StatusOK, "domain verified", result)
}

// --- contacts ---

func (h *CampaignHandler) CreateContact(c *gin.Context) {
	var m models.Contact
	if err := c.ShouldBindJSON(&m); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body", err)
		return
	}
	created, err := h.campaignService.CreateContact(orgID(c), &m)
	if err != nil {
		failErr(c, err)
		return
	}
	h.auditService.Record(orgID(c), userID(c), "create", "contact", created.ID)
	ok(c, http.StatusCreated, "contact created", created)
}

func (h *CampaignHandler) GetContact(c *gin.Context) {
	m, err := h.campaignService.GetContact(orgID(c), c.Param("id"))
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, "", m)
}

func (h *CampaignHandler) ListContacts(c *gin.Context) {
	list, err := h.campaignService.ListContacts(orgID(c))
	if err != nil {
		fail(c, http.StatusInternalServerError, "failed to list contacts", err)
		return
	}
	ok(c, http.StatusOK, "", list)
}

func (h *CampaignHandler) UpdateContact(c *gin.Context) {
	var m models.Contact
	if err := c.ShouldBindJSON(&m); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body", err)
		return
	}
	updated, err := h.campaignService.UpdateContact(orgID(c), c.Param("id"), &m)
	if err != nil {
		failErr(c, err)
		return
	}
	h.auditService.Record(orgID(c), userID(c), "update", "contact", updated.ID)
	ok(c, http.StatusOK, "contact updated", updated)
}

func (h *CampaignHandler) DeleteContact(c *gin.Context) {
	if err := h.campaignService.DeleteContact(orgID(c), c.Param("id")); err != nil {
		failErr(c, err)
		return
	}
	h.auditService.Record(orgID(c), userID(c), "delete", "contact", c.Param("id"))
	ok(c, http.StatusOK, "contact deleted", nil)
}
