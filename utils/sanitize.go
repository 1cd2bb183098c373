package utils

import (
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	contentPolicy = bluemonday.UGCPolicy()
	titlePolicy   = bluemonday.StrictPolicy()
	nameRe        = regexp.MustCompile(`^[A-Za-z ]+$`)
	emailRe       = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

// SanitizeContent cleans article body HTML to prevent XSS attacks while keeping
// user-generated formatting.
func SanitizeContent(input string) string {
	return contentPolicy.Sanitize(input)
}

// SanitizeTitle strips all markup; titles are plain text.
func SanitizeTitle(input string) string {
	return strings.TrimSpace(titlePolicy.Sanitize(input))
}

// IsValidName reports whether a display name contains only letters and spaces.
func IsValidName(name string) bool {
	return nameRe.MatchString(name)
}

// IsValidEmail performs a shallow shape check; deliverability is not verified.
func IsValidEmail(email string) bool {
	return emailRe.MatchString(email)
}
