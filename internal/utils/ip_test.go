package utils

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClientIP(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.RemoteAddr = "10.0.0.5:4321"
	assert.Equal(t, "10.0.0.5", ClientIP(r))

	r.Header.Set("X-Real-Ip", "41.58.12.3")
	assert.Equal(t, "41.58.12.3", ClientIP(r))

	// X-Forwarded-For wins, first hop is the client.
	r.Header.Set("X-Forwarded-For", "102.89.1.2, 10.0.0.1")
	assert.Equal(t, "102.89.1.2", ClientIP(r))

	// Garbage forwarded headers fall through.
	r.Header.Set("X-Forwarded-For", "not-an-ip")
	r.Header.Set("X-Real-Ip", "also-bad")
	assert.Equal(t, "10.0.0.5", ClientIP(r))
}
