package handlers

import (
	"net/http"

	"github.com/RandyMyers/mbzRevamp-sub007/internal/services/audit"
	"github.com/RandyMyers/mbzRevamp-sub007/internal/services/payroll"

	"github.com/gin-gonic/gin"
)

type PayrollHandler struct {
	payrollService *payroll.Service
	auditService   *audit.Service
}

func NewPayrollHandler(payrollService *payroll.Service, auditService *audit.Service) *PayrollHandler {
	return &PayrollHandler{payrollService: payrollService, auditService: auditService}
}

type ProcessPayrollRequest struct {
	Month int `json:"month" binding:"required"`
	Year  int `json:"year" binding:"required"`
}

// Process computes a payroll run for all active employees in the period.
// One run per organization per month; a repeat is a 409.
func (h *PayrollHandler) Process(c *gin.Context) {
	var req ProcessPayrollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body", err)
		return
	}
	p, err := h.payrollService.Process(orgID(c), req.Month, req.Year)
	if err != nil {
		failErr(c, err)
		return
	}
	h.auditService.Record(orgID(c), userID(c), "process", "payroll", p.ID)
	ok(c, http.StatusCreated, "payroll processed", p)
}

func (h *PayrollHandler) Get(c *gin.Context) {
	p, err := h.payrollService.Get(orgID(c), c.Param("id"))
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, "", p)
}

func (h *PayrollHandler) List(c *gin.Context) {
	list, err := h.payrollService.List(orgID(c))
	if err != nil {
		fail(c, http.StatusInternalServerError, "failed to list payrolls", err)
		return
	}
	ok(c, http.StatusOK, "", list)
}

type UpdatePayrollItemRequest struct {
	GrossSalary float64 `json:"gross_salary" binding:"required"`
}

// UpdateItem adjusts one employee's gross in a run and recomputes that
// item and the run totals.
func (h *PayrollHandler) UpdateItem(c *gin.Context) {
	var req UpdatePayrollItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body", err)
		return
	}
	p, err := h.payrollService.UpdateItem(orgID(c), c.Param("id"), c.Param("employeeId"), req.GrossSalary)
	if err != nil {
		failErr(c, err)
		return
	}
	h.auditService.Record(orgID(c), userID(c), "update", "payroll", p.ID)
	ok(c, http.StatusOK, "payroll item updated", p)
}

func (h *PayrollHandler) Delete(c *gin.Context) {
	if err := h.payrollService.Delete(orgID(c), c.Param("id")); err != nil {
		failErr(c, err)
		return
	}
	h.auditService.Record(orgID(c), userID(c), "delete", "payroll", c.Param("id"))
	ok(c, http.StatusOK, "payroll deleted", nil)
}

type TaxPreviewRequest struct {
	GrossSalary float64 `json:"gross_salary" binding:"required"`
}

// TaxPreview returns the statutory deduction breakdown for a gross
// monthly salary without persisting anything.
func (h *PayrollHandler) TaxPreview(c *gin.Context) {
	var req TaxPreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if req.GrossSalary < 0 {
		fail(c, http.StatusBadRequest, "gross salary must not be negative", nil)
		return
	}
	ok(c, http.StatusOK, "", payroll.Compute(req.GrossSalary))
}
