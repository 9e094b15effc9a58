// Package domainverify checks a sender domain's DNS posture (MX, SPF
// and DKIM records) against a configurable resolver.
package domainverify

import (
	"fmt"
	"strings"
	"time"

	"github.com/miekg/dns"
)

type Service struct {
	resolver string // host:port of the DNS resolver
}

func NewService(resolver string) *Service {
	if resolver == "" {
		resolver = "8.8.8.8:53"
	}
	return &Service{resolver: resolver}
}

// Result carries the per-check outcomes for one domain.
type Result struct {
	Domain string `json:"domain"`
	MX     bool   `json:"mx"`
	SPF    bool   `json:"spf"`
	DKIM   bool   `json:"dkim"`
}

// Verify runs all checks for the domain. DKIM is only checked when a
// selector is configured; without one it reports false.
func (s *Service) Verify(domain, dkimSelector string) (*Result, error) {
	if domain == "" {
		return nil, fmt.Errorf("domain is required")
	}

	result := &Result{Domain: domain}
	result.MX = s.hasMX(domain)
	result.SPF = s.hasSPF(domain)
	if dkimSelector != "" {
		result.DKIM = s.hasDKIM(domain, dkimSelector)
	}
	return result, nil
}

// DomainOf extracts the domain part of an email address.
func DomainOf(email string) string {
	if i := strings.LastIndex(email, "@"); i >= 0 {
		return email[i+1:]
	}
	return ""
}

func (s *Service) hasMX(domain string) bool {
	answers, err := s.query(domain, dns.TypeMX)
	if err != nil {
		return false
	}
	for _, ans := range answers {
		if _, ok := ans.(*dns.MX); ok {
			return true
		}
	}
	return false
}

func (s *Service) hasSPF(domain string) bool {
	return s.hasTXTContaining(domain, "v=spf1")
}

func (s *Service) hasDKIM(domain, selector string) bool {
	return s.hasTXTContaining(selector+"._domainkey."+domain, "v=DKIM1")
}

func (s *Service) hasTXTContaining(name, marker string) bool {
	answers, err := s.query(name, dns.TypeTXT)
	if err != nil {
		return false
	}
	for _, ans := range answers {
		txt, ok := ans.(*dns.TXT)
		if !ok {
			continue
		}
		joined := strings.Join(txt.Txt, "")
		if strings.Contains(joined, marker) {
			return true
		}
	}
	return false
}

func (s *Service) query(name string, recordType uint16) ([]dns.RR, error) {
	c := dns.Client{Timeout: 5 * time.Second}
	m := dns.Msg{}
	m.SetQuestion(dns.Fqdn(name), recordType)

	r, _, err := c.Exchange(&m, s.resolver)
	if err != nil {
		return nil, fmt.Errorf("DNS query failed: %w", err)
	}
	if r.Rcode != dns.RcodeSuccess {
		return nil, fmt.Errorf("DNS query returned %s", dns.RcodeToString[r.Rcode])
	}
	return r.Answer, nil
}
