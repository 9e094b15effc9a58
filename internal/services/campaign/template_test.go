package campaign

import (
	"testing"

	"github.com/RandyMyers/mbzRevamp-sub007/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestPersonalize(t *testing.T) {
	contact := &models.Contact{
		FirstName: "Ada",
		LastName:  "Obi",
		Email:     "ada@example.com",
		Country:   "NG",
		Language:  "en",
	}

	got := Personalize("Hi {{firstName}} {{lastName}} ({{email}}, {{country}}/{{language}})", contact)
	assert.Equal(t, "Hi Ada Obi (ada@example.com, NG/en)", got)

	// Unknown placeholders survive untouched.
	assert.Equal(t, "{{company}} news for Ada", Personalize("{{company}} news for {{firstName}}", contact))
}

func TestRewriteLinks(t *testing.T) {
	html := `<p><a href="https://example.com/sale?x=1">Shop</a> and <a HREF="http://other.org">more</a></p>`
	got := RewriteLinks(html, "http://app.local", "camp1", "con1")

	assert.Contains(t, got, `href="http://app.local/api/track/click/camp1/con1?url=https%3A%2F%2Fexample.com%2Fsale%3Fx%3D1"`)
	assert.Contains(t, got, `href="http://app.local/api/track/click/camp1/con1?url=http%3A%2F%2Fother.org"`)
	assert.NotContains(t, got, `href="https://example.com`)

	// Relative links stay as-is.
	rel := `<a href="/local/page">here</a>`
	assert.Equal(t, rel, RewriteLinks(rel, "http://app.local", "camp1", "con1"))
}

func TestRewriteLinksSingleQuotedHref(t *testing.T) {
	html := `<a href='https://example.com/deal'>Deal</a>`
	got := RewriteLinks(html, "http://app.local", "camp1", "con1")

	assert.Contains(t, got, `href='http://app.local/api/track/click/camp1/con1?url=https%3A%2F%2Fexample.com%2Fdeal'`)
	assert.NotContains(t, got, "https://example.com/deal'>")
}

func TestAppendOpenPixel(t *testing.T) {
	withBody := "<html><body><p>hi</p></body></html>"
	got := AppendOpenPixel(withBody, "http://app.local", "camp1", "con1")
	assert.Contains(t, got, `src="http://app.local/api/track/open/camp1/con1"`)
	// The pixel lands inside the body element.
	assert.Less(t, len("<html><body><p>hi</p>"), len(got))
	assert.Contains(t, got, `style="display:none"/></body>`)

	noBody := "<p>hi</p>"
	got = AppendOpenPixel(noBody, "http://app.local", "camp1", "con1")
	assert.True(t, len(got) > len(noBody))
	assert.Contains(t, got, "/api/track/open/camp1/con1")
}
