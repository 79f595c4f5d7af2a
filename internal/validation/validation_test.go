package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidatePassword(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{"Valid", "portfolio2024", false},
		{"Exactly Min Length", "abcdefg1", false},
		{"Too Short", "abc123", true},
		{"Exactly Max Length", strings.Repeat("a", MaxPasswordBytes), false},
		{"Too Long", strings.Repeat("a", MaxPasswordBytes+1), true},
		{"Letters Only", "onlyletters", false},
		{"Digits Only", "1234567890", false},
		{"Unicode Letter", "Ångström99", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePassword(tt.password)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateUsername(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		username string
		wantErr  bool
	}{
		{"Valid", "test_user123", false},
		{"Too Short", "tu", true},
		{"Too Long", strings.Repeat("u", 31), true},
		{"Illegal Chars", "user@123", true},
		{"Starts Dash", "-user", true},
		{"Ends Underscore", "user_", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateUsername(tt.username)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateEmail(t *testing.T) {
	t.Parallel()
	assert.NoError(t, ValidateEmail("ada@example.com"))
	assert.Error(t, ValidateEmail("not-an-email"))
	assert.Error(t, ValidateEmail("ada@example"))
	assert.Error(t, ValidateEmail(strings.Repeat("a", 64)+"@"+strings.Repeat("b", 190)+".com"))
}

func TestValidateProjectFields(t *testing.T) {
	t.Parallel()
	const desc = "A portfolio builder written in Go"
	tests := []struct {
		name    string
		title   string
		desc    string
		github  string
		live    string
		image   string
		wantErr string
	}{
		{name: "Valid minimal", title: "Folio", desc: desc},
		{name: "Valid links", title: "Folio", desc: desc, github: "https://github.com/ada/folio", live: "http://folio.dev", image: "https://cdn.example.com/a.png"},
		{name: "Valid www github", title: "Folio", desc: desc, github: "https://www.github.com/ada"},
		{name: "Missing title", title: "  ", desc: desc, wantErr: "title is required"},
		{name: "Short title", title: "Go", desc: desc, wantErr: "title must be at least 3 characters long"},
		{name: "Missing description", title: "Folio", wantErr: "description is required"},
		{name: "Short description", title: "Folio", desc: "too short", wantErr: "description must be at least 10 characters long"},
		{name: "Non github link", title: "Folio", desc: desc, github: "https://gitlab.com/ada", wantErr: "github_link must be a GitHub URL"},
		{name: "Live link without scheme", title: "Folio", desc: desc, live: "folio.dev", wantErr: "live_link must be a valid URL"},
		{name: "Image link without scheme", title: "Folio", desc: desc, image: "ftp://x", wantErr: "image_url must be a valid URL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateProjectFields(tt.title, tt.desc, tt.github, tt.live, tt.image)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.EqualError(t, err, tt.wantErr)
		})
	}
}

func TestValidatePostFields(t *testing.T) {
	t.Parallel()
	assert.NoError(t, ValidatePostFields("Title", "Body", "Summary", ""))
	assert.EqualError(t, ValidatePostFields("", "Body", "Summary", ""), "title is required")
	assert.EqualError(t, ValidatePostFields("Title", " ", "Summary", ""), "content is required")
	assert.EqualError(t, ValidatePostFields("Title", "Body", "", ""), "excerpt is required")
	assert.EqualError(t, ValidatePostFields("Title", "Body", "Summary", "cover.png"), "cover_image must be a valid URL")
}
