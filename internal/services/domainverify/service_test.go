package domainverify

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDomainOf(t *testing.T) {
	assert.Equal(t, "example.com", DomainOf("news@example.com"))
	assert.Equal(t, "mail.example.co.uk", DomainOf("a.b@mail.example.co.uk"))
	// Quoted local parts can contain @; the domain is after the last one.
	assert.Equal(t, "example.com", DomainOf(`"weird@local"@example.com`))
	assert.Equal(t, "", DomainOf("no-at-sign"))
	assert.Equal(t, "", DomainOf(""))
}

func TestVerifyRequiresDomain(t *testing.T) {
	s := NewService("")
	_, err := s.Verify("", "")
	assert.Error(t, err)
}
