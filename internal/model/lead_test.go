package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContactDisplayName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		contact Contact
		want    string
	}{
		{"name set", Contact{Name: "Jane Doe", Email: "jane@acme.com"}, "Jane Doe"},
		{"email local part", Contact{Email: "jane@acme.com"}, "jane"},
		{"malformed email", Contact{Email: "janeacme"}, "janeacme"},
		{"empty", Contact{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.contact.DisplayName())
		})
	}
}

func TestUserPreferencesEmpty(t *testing.T) {
	t.Parallel()

	assert.True(t, UserPreferences{}.Empty())
	assert.False(t, UserPreferences{Roles: []string{"CTO"}}.Empty())
	assert.False(t, UserPreferences{CompanySizes: []string{"11-50"}}.Empty())
}
