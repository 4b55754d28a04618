package errors

import (
	"regexp"
	"slices"
	"strings"
	"unicode"
)

// Accepted values for the sort and direction query parameters.
var (
	SortFields = []string{"updated", "created", "pushed", "full_name"}
	Directions = []string{"asc", "desc"}
)

// usernameRegex matches GitHub logins: alphanumerics and single hyphens,
// not starting or ending with a hyphen.
var usernameRegex = regexp.MustCompile(`^[A-Za-z0-9](?:[A-Za-z0-9]|-[A-Za-z0-9])*$`)

// ValidateUsername validates a code-hosting username before it is placed in
// an upstream URL path.
//
// The validation rules are intentionally conservative:
//   - No empty names
//   - No control characters
//   - Maximum length of 39 characters
//   - Alphanumerics and single inner hyphens only
func ValidateUsername(name string) error {
	if name == "" {
		return New(ErrCodeInvalidUsername, "username cannot be empty")
	}

	if len(name) > 39 {
		return New(ErrCodeInvalidUsername, "username too long (max 39 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidUsername, "username contains invalid control characters")
		}
	}

	if !usernameRegex.MatchString(name) {
		return New(ErrCodeInvalidUsername, "invalid username: %q", name)
	}

	return nil
}

// ValidateSort validates a repository sort field. Empty means "use the default".
func ValidateSort(sort string) error {
	if sort == "" || slices.Contains(SortFields, sort) {
		return nil
	}
	return New(ErrCodeInvalidSort, "invalid sort %q (valid: %s)", sort, strings.Join(SortFields, ", "))
}

// ValidateDirection validates a sort direction. Empty means "use the default".
func ValidateDirection(direction string) error {
	if direction == "" || slices.Contains(Directions, direction) {
		return nil
	}
	return New(ErrCodeInvalidDirection, "invalid direction %q (valid: %s)", direction, strings.Join(Directions, ", "))
}

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	// Simple scheme validation without full URL parsing
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}

	return nil
}
