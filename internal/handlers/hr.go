package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/RandyMyers/mbzRevamp-sub007/internal/models"
	"github.com/RandyMyers/mbzRevamp-sub007/internal/services/audit"
	"github.com/RandyMyers/mbzRevamp-sub007/internal/services/hr"

	"github.com/gin-gonic/gin"
)

type HRHandler struct {
	hrService    *hr.Service
	auditService *audit.Service
}

func NewHRHandler(hrService *hr.Service, auditService *audit.Service) *HRHandler {
	return &HRHandler{hrService: hrService, auditService: auditService}
}

func (h *HRHandler) CreateEmployee(c *gin.Context) {
	var m models.Employee
	if err := c.ShouldBindJSON(&m); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body", err)
		return
	}
	created, err := h.hrService.CreateEmployee(orgID(c), &m)
	if err != nil {
		failErr(c, err)
		return
	}
	h.auditService.Record(orgID(c), userID(c), "create", "employee", created.ID)
	ok(c, http.StatusCreated, "employee created", created)
}

func (h *HRHandler) GetEmployee(c *gin.Context) {
	m, err := h.hrService.GetEmployee(orgID(c), c.Param("id"))
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, "", m)
}

func (h *HRHandler) ListEmployees(c *gin.Context) {
	list, err := h.hrService.ListEmployees(orgID(c))
	if err != nil {
		fail(c, http.StatusInternalServerError, "failed to list employees", err)
		return
	}
	ok(c, http.StatusOK, "", list)
}

func (h *HRHandler) UpdateEmployee(c *gin.Context) {
	var m models.Employee
	if err := c.ShouldBindJSON(&m); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body", err)
		return
	}
	updated, err := h.hrService.UpdateEmployee(orgID(c), c.Param("id"), &m)
	if err != nil {
		failErr(c, err)
		return
	}
	h.auditService.Record(orgID(c), userID(c), "update", "employee", updated.ID)
	ok(c, http.StatusOK, "employee updated", updated)
}

// DeactivateEmployee soft-deletes; the employee drops out of future
// payroll runs but history keeps referencing them.
func (h *HRHandler) DeactivateEmployee(c *gin.Context) {
	if err := h.hrService.DeactivateEmployee(orgID(c), c.Param("id")); err != nil {
		failErr(c, err)
		return
	}
	h.auditService.Record(orgID(c), userID(c), "deactivate", "employee", c.Param("id"))
	ok(c, http.StatusOK, "employee deactivated", nil)
}

// --- leave ---

func (h *HRHandler) RequestLeave(c *gin.Context) {
	var m models.LeaveRequest
	if err := c.ShouldBindJSON(&m); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body", err)
		return
	}
	created, err := h.hrService.RequestLeave(orgID(c), &m)
	if err != nil {
		failErr(c, err)
		return
	}
	h.auditService.Record(orgID(c), userID(c), "create", "leave_request", created.ID)
	ok(c, http.StatusCreated, "leave requested", created)
}

func (h *HRHandler) GetLeave(c *gin.Context) {
	m, err := h.hrService.GetLeave(orgID(c), c.Param("id"))
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, "", m)
}

func (h *HRHandler) ListLeave(c *gin.Context) {
	list, err := h.hrService.ListLeave(orgID(c))
	if err != nil {
		fail(c, http.StatusInternalServerError, "failed to list leave requests", err)
		return
	}
	ok(c, http.StatusOK, "", list)
}

// ApproveLeave decides a pending request and debits the employee's
// balance for the request's start year. Deciding twice is a 409.
func (h *HRHandler) ApproveLeave(c *gin.Context) {
	m, err := h.hrService.ApproveLeave(orgID(c), c.Param("id"))
	if err != nil {
		failErr(c, err)
		return
	}
	h.auditService.Record(orgID(c), userID(c), "approve", "leave_request", m.ID)
	ok(c, http.StatusOK, "leave approved", m)
}

func (h *HRHandler) RejectLeave(c *gin.Context) {
	m, err := h.hrService.RejectLeave(orgID(c), c.Param("id"))
	if err != nil {
		failErr(c, err)
		return
	}
	h.auditService.Record(orgID(c), userID(c), "reject", "leave_request", m.ID)
	ok(c, http.StatusOK, "leave rejected", m)
}

func (h *HRHandler) GetLeaveBalance(c *gin.Context) {
	year, err := strconv.Atoi(c.DefaultQuery("year", strconv.Itoa(time.Now().UTC().Year())))
	if err != nil {
		fail(c, http.StatusBadRequest, "invalid year", err)
		return
	}
	balance, err := h.hrService.GetBalance(orgID(c), c.Param("id"), year)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, "", balance)
}

// --- benefits and compliance ---

func (h *HRHandler) CreateBenefit(c *gin.Context) {
	var m models.Benefit
	if err := c.ShouldBindJSON(&m); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body", err)
		return
	}
	created, err := h.hrService.CreateBenefit(orgID(c), &m)
	if err != nil {
		failErr(c, err)
		return
	}
	h.auditService.Record(orgID(c), userID(c), "create", "benefit", created.ID)
	ok(c, http.StatusCreated, "benefit created", created)
}

func (h *HRHandler) ListBenefits(c *gin.Context) {
	list, err := h.hrService.ListBenefits(orgID(c))
	if err != nil {
		fail(c, http.StatusInternalServerError, "failed to list benefits", err)
		return
	}
	ok(c, http.StatusOK, "", list)
}

func (h *HRHandler) DeleteBenefit(c *gin.Context) {
	if err := h.hrService.DeleteBenefit(orgID(c), c.Param("id")); err != nil {
		failErr(c, err)
		return
	}
	h.auditService.Record(orgID(c), userID(c), "delete", "benefit", c.Param("id"))
	ok(c, http.StatusOK, "benefit deleted", nil)
}

func (h *HRHandler) CreateComplianceRequirement(c *gin.Context) {
	var m models.ComplianceRequirement
	if err := c.ShouldBindJSON(&m); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body", err)
		return
	}
	created, err := h.hrService.CreateComplianceRequirement(orgID(c), &m)
	if err != nil {
		failErr(c, err)
		return
	}
	h.auditService.Record(orgID(c), userID(c), "create", "compliance_requirement", created.ID)
	ok(c, http.StatusCreated, "compliance requirement created", created)
}

func (h *HRHandler) ListComplianceRequirements(c *gin.Context) {
	list, err := h.hrService.ListComplianceRequirements(orgID(c))
	if err != nil {
		fail(c, http.StatusInternalServerError, "failed to list compliance requirements", err)
		return
	}
	ok(c, http.StatusOK, "", list)
}

func (h *HRHandler) DeleteComplianceRequirement(c *gin.Context) {
	if err := h.hrService.DeleteComplianceRequirement(orgID(c), c.Param("id")); err != nil {
		failErr(c, err)
		return
	}
	h.auditService.Record(orgID(c), userID(c), "delete", "compliance_requirement", c.Param("id"))
	ok(c, http.StatusOK, "compliance requirement deleted", nil)
}
