// Package model defines the domain types shared across the qualification pipeline.
package model

import (
	"strings"
	"time"
)

// LeadProfile is a read-only snapshot of a lead at the start of a run.
// Nothing in the pipeline mutates it.
type LeadProfile struct {
	ID               string     `json:"id"`
	Name             string     `json:"name,omitempty"`
	Email            string     `json:"email,omitempty"`
	Company          string     `json:"company"`
	Website          string     `json:"website,omitempty"`
	Position         string     `json:"position,omitempty"`
	Industry         string     `json:"industry,omitempty"`
	Region           string     `json:"region,omitempty"`
	CompanySize      string     `json:"company_size,omitempty"`
	ConnectionDegree *int       `json:"connection_degree,omitempty"` // 1, 2, or nil when unknown
	LastContacted    *time.Time `json:"last_contacted,omitempty"`
	SalesforceID     string     `json:"salesforce_id,omitempty"`
	NotionPageID     string     `json:"notion_page_id,omitempty"`
}

// UserPreferences captures the user's ideal customer profile. Each entry may
// itself carry comma-joined multi-values ("SaaS, Fintech"); the scoring
// engine tokenizes on commas before matching.
type UserPreferences struct {
	Roles        []string `json:"roles,omitempty"`
	Industries   []string `json:"industries,omitempty"`
	Regions      []string `json:"regions,omitempty"`
	CompanySizes []string `json:"company_sizes,omitempty"`
}

// Empty reports whether no ICP dimension is set at all.
func (p UserPreferences) Empty() bool {
	return len(p.Roles) == 0 && len(p.Industries) == 0 &&
		len(p.Regions) == 0 && len(p.CompanySizes) == 0
}

// Contact is one loosely-typed roster entry from a network export (CSV/XLSX).
// Only Email is required for domain matching; everything else is best-effort.
type Contact struct {
	Name    string            `json:"name,omitempty"`
	Email   string            `json:"email"`
	Company string            `json:"company,omitempty"`
	Extra   map[string]string `json:"extra,omitempty"`
}

// DisplayName returns the contact name, falling back to the email local part.
func (c Contact) DisplayName() string {
	if c.Name != "" {
		return c.Name
	}
	if at := strings.IndexByte(c.Email, '@'); at > 0 {
		return c.Email[:at]
	}
	return c.Email
}
