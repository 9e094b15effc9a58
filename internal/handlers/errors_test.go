package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/RandyMyers/mbzRevamp-sub007/internal/services/hr"
	"github.com/RandyMyers/mbzRevamp-sub007/internal/services/ledger"
	"github.com/RandyMyers/mbzRevamp-sub007/internal/services/payroll"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestFailErrStatusMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		err    error
		status int
	}{
		{payroll.ErrDuplicatePeriod, http.StatusConflict},
		{hr.ErrAlreadyDecided, http.StatusConflict},
		{errors.New("payout is pending, expected processing"), http.StatusConflict},
		{ledger.ErrUnbalanced, http.StatusBadRequest},
		{errors.New("campaign not found"), http.StatusNotFound},
		{errors.New("month must be between 1 and 12"), http.StatusBadRequest},
		{errors.New("a valid email is required"), http.StatusBadRequest},
		{errors.New("only drafts can be edited"), http.StatusBadRequest},
		{errors.New("unknown folder: junk2"), http.StatusBadRequest},
		// Infrastructure failures are not the caller's fault.
		{errors.New("database is locked"), http.StatusInternalServerError},
		{errors.New("failed to advance watermark: disk I/O error"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		failErr(c, tt.err)
		assert.Equal(t, tt.status, w.Code, tt.err.Error())
	}
}
