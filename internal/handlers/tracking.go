package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/RandyMyers/mbzRevamp-sub007/internal/services/campaign"
	"github.com/RandyMyers/mbzRevamp-sub007/internal/services/tracking"
	"github.com/RandyMyers/mbzRevamp-sub007/internal/utils"

	"github.com/gin-gonic/gin"
)

// TrackingHandler serves the public endpoints referenced from campaign
// mail. They never require auth and never error to the recipient: a
// broken open pixel still returns the gif.
type TrackingHandler struct {
	trackingService *tracking.Service
	campaignService *campaign.Service
}

func NewTrackingHandler(trackingService *tracking.Service, campaignService *campaign.Service) *TrackingHandler {
	return &TrackingHandler{trackingService: trackingService, campaignService: campaignService}
}

// Open serves the 1x1 gif and records the open.
func (h *TrackingHandler) Open(c *gin.Context) {
	campaignID := c.Param("campaignID")
	contactID := c.Param("contactID")

	contact, err := h.campaignService.GetContactAnyOrg(contactID)
	if err == nil {
		firstOpen, err := h.campaignService.RecordOpen(contact.OrganizationID, campaignID, contactID)
		if err != nil {
			slog.Warn("failed to record open", "campaign_id", campaignID, "error", err)
		} else if err := h.trackingService.Record(contact.OrganizationID, campaignID, contactID,
			tracking.EventOpen, "", utils.ClientIP(c.Request), c.Request.UserAgent(), firstOpen); err != nil {
			slog.Warn("failed to store open event", "campaign_id", campaignID, "error", err)
		}
	}

	c.Header("Cache-Control", "no-store, no-cache, must-revalidate")
	c.Data(http.StatusOK, "image/gif", tracking.Pixel())
}

// Click records the click and redirects to the original destination.
func (h *TrackingHandler) Click(c *gin.Context) {
	campaignID := c.Param("campaignID")
	contactID := c.Param("contactID")

	target := c.Query("url")
	if !strings.HasPrefix(target, "http://") && !strings.HasPrefix(target, "https://") {
		fail(c, http.StatusBadRequest, "invalid redirect url", nil)
		return
	}

	contact, err := h.campaignService.GetContactAnyOrg(contactID)
	if err == nil {
		firstClick, err := h.campaignService.RecordClick(contact.OrganizationID, campaignID, contactID)
		if err != nil {
			slog.Warn("failed to record click", "campaign_id", campaignID, "error", err)
		} else if err := h.trackingService.Record(contact.OrganizationID, campaignID, contactID,
			tracking.EventClick, target, utils.ClientIP(c.Request), c.Request.UserAgent(), firstClick); err != nil {
			slog.Warn("failed to store click event", "campaign_id", campaignID, "error", err)
		}
	}

	c.Redirect(http.StatusFound, target)
}

// Unsubscribe flags the contact so future dispatch loops skip them.
func (h *TrackingHandler) Unsubscribe(c *gin.Context) {
	if err := h.campaignService.Unsubscribe(c.Param("contactID")); err != nil {
		failErr(c, err)
		return
	}
	c.String(http.StatusOK, "You have been unsubscribed.")
}

// ListEvents returns the raw open/click events for a campaign.
func (h *TrackingHandler) ListEvents(c *gin.Context) {
	events, err := h.trackingService.ListEvents(orgID(c), c.Param("id"), queryInt(c, "limit", 200))
	if err != nil {
		fail(c, http.StatusInternalServerError, "failed to list tracking events", err)
		return
	}
	ok(c, http.StatusOK, "", events)
}
