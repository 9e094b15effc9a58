package campaign

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/RandyMyers/mbzRevamp-sub007/internal/models"
)

// Personalize substitutes the supported placeholders with the contact's
// fields. Unknown placeholders are left untouched.
func Personalize(text string, contact *models.Contact) string {
	r := strings.NewReplacer(
		"{{firstName}}", contact.FirstName,
		"{{lastName}}", contact.LastName,
		"{{email}}", contact.Email,
		"{{country}}", contact.Country,
		"{{language}}", contact.Language,
	)
	return r.Replace(text)
}

// Both quote styles occur in the wild.
var hrefPattern = regexp.MustCompile(`(?i)href\s*=\s*(["'])(https?://[^"']+)["']`)

// RewriteLinks replaces every absolute anchor href with a tracking
// redirect carrying the original URL as a query parameter.
func RewriteLinks(html, baseURL, campaignID, contactID string) string {
	return hrefPattern.ReplaceAllStringFunc(html, func(match string) string {
		groups := hrefPattern.FindStringSubmatch(match)
		quote, original := groups[1], groups[2]
		tracked := fmt.Sprintf("%s/api/track/click/%s/%s?url=%s",
			baseURL, campaignID, contactID, url.QueryEscape(original))
		return fmt.Sprintf("href=%s%s%s", quote, tracked, quote)
	})
}

// AppendOpenPixel adds the 1x1 tracking image before the closing body
// tag, or at the end when the template has no body tag.
func AppendOpenPixel(html, baseURL, campaignID, contactID string) string {
	pixel := fmt.Sprintf(`<img src="%s/api/track/open/%s/%s" width="1" height="1" alt="" style="display:none"/>`,
		baseURL, campaignID, contactID)
	if i := strings.LastIndex(strings.ToLower(html), "</body>"); i >= 0 {
		return html[:i] + pixel + html[i:]
	}
	return html + pixel
}

// renderFor produces the personalized subject and body for one contact,
// applying tracking rewrites when the campaign has tracking enabled.
func (s *Service) renderFor(c *models.Campaign, contact *models.Contact) (subject, body string) {
	subject = Personalize(c.Subject, contact)
	body = Personalize(c.Body, contact)
	if c.TrackingEnabled {
		body = RewriteLinks(body, s.baseURL, c.ID, contact.ID)
		body = AppendOpenPixel(body, s.baseURL, c.ID, contact.ID)
	}
	return subject, body
}
