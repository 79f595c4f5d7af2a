package validation

import (
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	githubURLRegex = regexp.MustCompile(`^https?://(www\.)?github\.com/`)
	httpURLRegex   = regexp.MustCompile(`^https?://`)
)

const (
	MinProjectTitleLength       = 3
	MinProjectDescriptionLength = 10
	MaxTitleLength              = 200
)

// ValidateProjectFields checks the editable fields of a project.
// Optional links are only checked when non-empty.
func ValidateProjectFields(title, description, githubLink, liveLink, imageURL string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return errors.New("title is required")
	}
	if utf8.RuneCountInString(title) < MinProjectTitleLength {
		return errors.New("title must be at least 3 characters long")
	}
	if utf8.RuneCountInString(title) > MaxTitleLength {
		return errors.New("title must not exceed 200 characters")
	}

	description = strings.TrimSpace(description)
	if description == "" {
		return errors.New("description is required")
	}
	if utf8.RuneCountInString(description) < MinProjectDescriptionLength {
		return errors.New("description must be at least 10 characters long")
	}

	if githubLink != "" && !githubURLRegex.MatchString(githubLink) {
		return errors.New("github_link must be a GitHub URL")
	}
	if liveLink != "" && !httpURLRegex.MatchString(liveLink) {
		return errors.New("live_link must be a valid URL")
	}
	if imageURL != "" && !httpURLRegex.MatchString(imageURL) {
		return errors.New("image_url must be a valid URL")
	}

	return nil
}

// ValidatePostFields checks the required text fields of a post.
func ValidatePostFields(title, content, excerpt, coverImage string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return errors.New("title is required")
	}
	if utf8.RuneCountInString(title) > MaxTitleLength {
		return errors.New("title must not exceed 200 characters")
	}
	if strings.TrimSpace(content) == "" {
		return errors.New("content is required")
	}
	if strings.TrimSpace(excerpt) == "" {
		return errors.New("excerpt is required")
	}
	if coverImage != "" && !httpURLRegex.MatchString(coverImage) {
		return errors.New("cover_image must be a valid URL")
	}
	return nil
}
