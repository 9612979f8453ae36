// Package network matches leads against the user's existing contact network
// by email domain. A shared domain is used downstream as a proxy for a
// 1st-degree connection when no explicit connection degree exists.
package network

import (
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/leadqual/internal/model"
)

// ContactMatch is one roster entry whose email domain equals the lead's.
type ContactMatch struct {
	Name          string `json:"name"`
	Email         string `json:"email"`
	MatchedDomain string `json:"matched_domain"`
}

// MatchResult is the outcome of a domain match. It is a pure function of the
// lead snapshot and roster, never persisted. An undetermined lead domain is
// an absence of evidence, not a failure: LeadDomain is empty and Matches nil.
type MatchResult struct {
	LeadDomain string         `json:"lead_domain,omitempty"`
	Matches    []ContactMatch `json:"matches,omitempty"`
}

// Determined reports whether a lead domain could be derived at all.
func (r MatchResult) Determined() bool {
	return r.LeadDomain != ""
}

// Matcher performs domain matching. It is stateless and safe for concurrent
// use; construct one explicitly and inject it where needed.
type Matcher struct{}

// NewMatcher returns a Matcher.
func NewMatcher() *Matcher {
	return &Matcher{}
}

// Match derives the lead's domain (website first, email as fallback) and
// returns every roster contact sharing it. Matching is exact domain equality,
// case-insensitive, with a leading "www." stripped from websites; subdomains
// are not fuzzed. Roster entries with missing or malformed emails are
// skipped, never abort the batch.
func (m *Matcher) Match(leadWebsite, leadEmail string, roster []model.Contact) MatchResult {
	domain := DomainFromURL(leadWebsite)
	if domain == "" {
		domain = DomainFromEmail(leadEmail)
	}
	if domain == "" {
		zap.L().Debug("network: no lead domain derivable",
			zap.String("website", leadWebsite),
			zap.String("email", leadEmail),
		)
		return MatchResult{}
	}

	result := MatchResult{LeadDomain: domain}
	for _, contact := range roster {
		contactDomain := DomainFromEmail(contact.Email)
		if contactDomain == "" || contactDomain != domain {
			continue
		}
		result.Matches = append(result.Matches, ContactMatch{
			Name:          contact.DisplayName(),
			Email:         contact.Email,
			MatchedDomain: contactDomain,
		})
	}

	zap.L().Debug("network: domain match complete",
		zap.String("lead_domain", domain),
		zap.Int("roster_size", len(roster)),
		zap.Int("matches", len(result.Matches)),
	)
	return result
}

// DomainFromURL extracts a lower-cased domain from a website URL. A scheme is
// prepended when missing so bare hosts like "acme.com" parse. Returns "" when
// no host can be derived.
func DomainFromURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if !strings.HasPrefix(raw, "http://") && !strings.HasPrefix(raw, "https://") {
		raw = "http://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		zap.L().Debug("network: unparseable website url", zap.String("url", raw), zap.Error(err))
		return ""
	}
	host := strings.ToLower(u.Hostname())
	host = strings.TrimPrefix(host, "www.")
	return host
}

// DomainFromEmail extracts a lower-cased domain from an email address.
// Returns "" for missing or malformed addresses.
func DomainFromEmail(email string) string {
	email = strings.TrimSpace(email)
	if email == "" || !strings.Contains(email, "@") {
		return ""
	}
	parts := strings.Split(email, "@")
	if len(parts) < 2 || parts[1] == "" {
		return ""
	}
	return strings.ToLower(parts[1])
}
