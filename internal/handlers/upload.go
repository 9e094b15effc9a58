package handlers

import (
	"net/http"

	"github.com/RandyMyers/mbzRevamp-sub007/internal/services/audit"
	"github.com/RandyMyers/mbzRevamp-sub007/internal/services/upload"

	"github.com/gin-gonic/gin"
)

type UploadHandler struct {
	uploadService *upload.Service
	auditService  *audit.Service
}

func NewUploadHandler(uploadService *upload.Service, auditService *audit.Service) *UploadHandler {
	return &UploadHandler{uploadService: uploadService, auditService: auditService}
}

// Upload stores a multipart file. Images go to Cloudinary when it is
// configured; everything else lands on local disk under /uploads.
func (h *UploadHandler) Upload(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		fail(c, http.StatusBadRequest, "file is required", err)
		return
	}

	stored, err := h.uploadService.Store(c.Request.Context(), header)
	if err != nil {
		fail(c, http.StatusInternalServerError, "failed to store file", err)
		return
	}

	h.auditService.Record(orgID(c), userID(c), "upload", "file", stored.PublicID)
	ok(c, http.StatusCreated, "file uploaded", stored)
}
