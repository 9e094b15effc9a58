package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/RandyMyers/mbzRevamp-sub007/internal/services/hr"
	"github.com/RandyMyers/mbzRevamp-sub007/internal/services/ledger"
	"github.com/RandyMyers/mbzRevamp-sub007/internal/services/payroll"

	"github.com/gin-gonic/gin"
)

// failErr maps a service error onto the response envelope. Sentinel
// conflicts are 409, validation errors 400, missing rows 404, and
// anything else (database or transport failures) 500.
func failErr(c *gin.Context, err error) {
	switch {
	case errors.Is(err, payroll.ErrDuplicatePeriod), errors.Is(err, hr.ErrAlreadyDecided),
		strings.Contains(err.Error(), ", expected "):
		fail(c, http.StatusConflict, err.Error(), nil)
	case errors.Is(err, ledger.ErrUnbalanced):
		fail(c, http.StatusBadRequest, err.Error(), nil)
	case strings.Contains(err.Error(), "not found"):
		fail(c, http.StatusNotFound, err.Error(), nil)
	case validationShaped(err.Error()):
		fail(c, http.StatusBadRequest, err.Error(), nil)
	default:
		fail(c, http.StatusInternalServerError, "internal error", err)
	}
}

// validationShaped reports whether the message reads like rejected
// input rather than an infrastructure failure. Services return plain
// errors for both, so the text is the only signal.
func validationShaped(msg string) bool {
	for _, hint := range []string{
		"required", "must", "cannot", "only", "already",
		"has no", "no active", "invalid", "incorrect", "unknown", "out of range",
	} {
		if strings.Contains(msg, hint) {
			return true
		}
	}
	return false
}

func orgID(c *gin.Context) string {
	return c.GetString("organization_id")
}

func userID(c *gin.Context) string {
	return c.GetString("user_id")
}
