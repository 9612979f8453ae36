package network

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/leadqual/internal/model"
)

func TestDomainFromURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"full url", "https://www.acme.com/about", "acme.com"},
		{"bare host", "acme.com", "acme.com"},
		{"http scheme", "http://acme.com", "acme.com"},
		{"uppercase", "HTTPS://WWW.ACME.COM", "acme.com"},
		{"subdomain kept", "https://blog.acme.com", "blog.acme.com"},
		{"empty", "", ""},
		{"whitespace only", "   ", ""},
		{"port stripped", "https://acme.com:8443/path", "acme.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, DomainFromURL(tt.raw))
		})
	}
}

func TestDomainFromEmail(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		email string
		want  string
	}{
		{"plain", "jane@acme.com", "acme.com"},
		{"uppercase", "JANE@ACME.COM", "acme.com"},
		{"trailing space", " jane@acme.com ", "acme.com"},
		{"no at sign", "janeacme.com", ""},
		{"empty domain", "jane@", ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, DomainFromEmail(tt.email))
		})
	}
}

func TestMatchWebsiteWinsOverEmail(t *testing.T) {
	t.Parallel()

	m := NewMatcher()
	roster := []model.Contact{
		{Name: "Jane Doe", Email: "jane@acme.com"},
		{Name: "Bob", Email: "bob@other.com"},
	}

	result := m.Match("https://www.acme.com", "lead@gmail.com", roster)

	assert.True(t, result.Determined())
	assert.Equal(t, "acme.com", result.LeadDomain)
	if assert.Len(t, result.Matches, 1) {
		assert.Equal(t, "Jane Doe", result.Matches[0].Name)
		assert.Equal(t, "jane@acme.com", result.Matches[0].Email)
		assert.Equal(t, "acme.com", result.Matches[0].MatchedDomain)
	}
}

func TestMatchEmailFallback(t *testing.T) {
	t.Parallel()

	m := NewMatcher()
	roster := []model.Contact{{Name: "Jane", Email: "jane@acme.com"}}

	result := m.Match("", "lead@acme.com", roster)

	assert.Equal(t, "acme.com", result.LeadDomain)
	assert.Len(t, result.Matches, 1)
}

func TestMatchUndetermined(t *testing.T) {
	t.Parallel()

	m := NewMatcher()
	result := m.Match("", "", []model.Contact{{Email: "jane@acme.com"}})

	assert.False(t, result.Determined())
	assert.Empty(t, result.LeadDomain)
	assert.Empty(t, result.Matches)
}

func TestMatchSkipsMalformedRosterEmails(t *testing.T) {
	t.Parallel()

	m := NewMatcher()
	roster := []model.Contact{
		{Name: "Broken", Email: "not-an-email"},
		{Name: "Empty", Email: ""},
		{Name: "Good", Email: "good@acme.com"},
	}

	result := m.Match("acme.com", "", roster)

	if assert.Len(t, result.Matches, 1) {
		assert.Equal(t, "Good", result.Matches[0].Name)
	}
}

func TestMatchSubdomainsNotFuzzed(t *testing.T) {
	t.Parallel()

	m := NewMatcher()
	roster := []model.Contact{{Name: "Sub", Email: "sub@mail.acme.com"}}

	result := m.Match("acme.com", "", roster)

	assert.Equal(t, "acme.com", result.LeadDomain)
	assert.Empty(t, result.Matches)
}
