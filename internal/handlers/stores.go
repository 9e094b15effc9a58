package handlers

import (
	"net/http"

	"github.com/RandyMyers/mbzRevamp-sub007/internal/models"
	"github.com/RandyMyers/mbzRevamp-sub007/internal/services/audit"
	"github.com/RandyMyers/mbzRevamp-sub007/internal/services/stores"

	"github.com/gin-gonic/gin"
)

type StoreHandler struct {
	storeService *stores.Service
	auditService *audit.Service
}

func NewStoreHandler(storeService *stores.Service, auditService *audit.Service) *StoreHandler {
	return &StoreHandler{storeService: storeService, auditService: auditService}
}

func (h *StoreHandler) Create(c *gin.Context) {
	var m models.Store
	if err := c.ShouldBindJSON(&m); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body", err)
		return
	}
	created, err := h.storeService.CreateStore(orgID(c), &m)
	if err != nil {
		failErr(c, err)
		return
	}
	h.auditService.Record(orgID(c), userID(c), "create", "store", created.ID)
	ok(c, http.StatusCreated, "store created", created)
}

func (h *StoreHandler) Get(c *gin.Context) {
	m, err := h.storeService.GetStore(orgID(c), c.Param("id"))
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, "", m)
}

func (h *StoreHandler) List(c *gin.Context) {
	list, err := h.storeService.ListStores(orgID(c))
	if err != nil {
		fail(c, http.StatusInternalServerError, "failed to list stores", err)
		return
	}
	ok(c, http.StatusOK, "", list)
}

func (h *StoreHandler) Delete(c *gin.Context) {
	if err := h.storeService.DeleteStore(orgID(c), c.Param("id")); err != nil {
		failErr(c, err)
		return
	}
	h.auditService.Record(orgID(c), userID(c), "delete", "store", c.Param("id"))
	ok(c, http.StatusOK, "store deleted", nil)
}

// RevenueReport aggregates WooCommerce sales across every store,
// normalized to the requested currency. Stores that fail to respond are
// reported per-store, not fatal.
func (h *StoreHandler) RevenueReport(c *gin.Context) {
	currency := c.DefaultQuery("currency", "USD")
	report, err := h.storeService.RevenueReport(orgID(c), currency)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, "", report)
}
