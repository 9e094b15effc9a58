package handlers

import (
	"net/http"

	"github.com/RandyMyers/mbzRevamp-sub007/internal/models"
	"github.com/RandyMyers/mbzRevamp-sub007/internal/services/affiliate"
	"github.com/RandyMyers/mbzRevamp-sub007/internal/services/audit"

	"github.com/gin-gonic/gin"
)

type AffiliateHandler struct {
	affiliateService *affiliate.Service
	auditService     *audit.Service
}

func NewAffiliateHandler(affiliateService *affiliate.Service, auditService *audit.Service) *AffiliateHandler {
	return &AffiliateHandler{affiliateService: affiliateService, auditService: auditService}
}

func (h *AffiliateHandler) Create(c *gin.Context) {
	var m models.Affiliate
	if err := c.ShouldBindJSON(&m); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body", err)
		return
	}
	created, err := h.affiliateService.Create(orgID(c), &m)
	if err != nil {
		failErr(c, err)
		return
	}
	h.auditService.Record(orgID(c), userID(c), "create", "affiliate", created.ID)
	ok(c, http.StatusCreated, "affiliate created", created)
}

func (h *AffiliateHandler) Get(c *gin.Context) {
	m, err := h.affiliateService.Get(orgID(c), c.Param("id"))
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, "", m)
}

func (h *AffiliateHandler) List(c *gin.Context) {
	list, err := h.affiliateService.List(orgID(c))
	if err != nil {
		fail(c, http.StatusInternalServerError, "failed to list affiliates", err)
		return
	}
	ok(c, http.StatusOK, "", list)
}

type RecordCommissionRequest struct {
	OrderRef    string  `json:"order_ref" binding:"required"`
	OrderAmount float64 `json:"order_amount" binding:"required"`
}

func (h *AffiliateHandler) RecordCommission(c *gin.Context) {
	var req RecordCommissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body", err)
		return
	}
	commission, err := h.affiliateService.RecordCommission(orgID(c), c.Param("id"), req.OrderRef, req.OrderAmount)
	if err != nil {
		failErr(c, err)
		return
	}
	h.auditService.Record(orgID(c), userID(c), "create", "commission", commission.ID)
	ok(c, http.StatusCreated, "commission recorded", commission)
}

func (h *AffiliateHandler) ApproveCommission(c *gin.Context) {
	commission, err := h.affiliateService.ApproveCommission(orgID(c), c.Param("id"))
	if err != nil {
		failErr(c, err)
		return
	}
	h.auditService.Record(orgID(c), userID(c), "approve", "commission", commission.ID)
	ok(c, http.StatusOK, "commission approved", commission)
}

func (h *AffiliateHandler) ListCommissions(c *gin.Context) {
	list, err := h.affiliateService.ListCommissions(orgID(c), c.Param("id"))
	if err != nil {
		fail(c, http.StatusInternalServerError, "failed to list commissions", err)
		return
	}
	ok(c, http.StatusOK, "", list)
}

// CreatePayout drains the affiliate's balance into a pending payout and
// marks the approved commissions paid.
func (h *AffiliateHandler) CreatePayout(c *gin.Context) {
	payout, err := h.affiliateService.CreatePayout(orgID(c), c.Param("id"))
	if err != nil {
		failErr(c, err)
		return
	}
	h.auditService.Record(orgID(c), userID(c), "create", "payout", payout.ID)
	ok(c, http.StatusCreated, "payout created", payout)
}

func (h *AffiliateHandler) GetPayout(c *gin.Context) {
	payout, err := h.affiliateService.GetPayout(orgID(c), c.Param("id"))
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, "", payout)
}

func (h *AffiliateHandler) MarkPayoutProcessing(c *gin.Context) {
	payout, err := h.affiliateService.MarkProcessing(orgID(c), c.Param("id"))
	if err != nil {
		failErr(c, err)
		return
	}
	h.auditService.Record(orgID(c), userID(c), "process", "payout", payout.ID)
	ok(c, http.StatusOK, "payout processing", payout)
}

func (h *AffiliateHandler) MarkPayoutCompleted(c *gin.Context) {
	payout, err := h.affiliateService.MarkCompleted(orgID(c), c.Param("id"))
	if err != nil {
		failErr(c, err)
		return
	}
	h.auditService.Record(orgID(c), userID(c), "complete", "payout", payout.ID)
	ok(c, http.StatusOK, "payout completed", payout)
}

type FailPayoutRequest struct {
	Reason string `json:"reason"`
}

// MarkPayoutFailed fails a processing payout and reverses it: the amount
// returns to the affiliate balance and its commissions become approved
// again.
func (h *AffiliateHandler) MarkPayoutFailed(c *gin.Context) {
	var req FailPayoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body", err)
		return
	}
	payout, err := h.affiliateService.MarkFailed(orgID(c), c.Param("id"), req.Reason)
	if err != nil {
		failErr(c, err)
		return
	}
	h.auditService.Record(orgID(c), userID(c), "fail", "payout", payout.ID)
	ok(c, http.StatusOK, "payout failed and reversed", payout)
}
