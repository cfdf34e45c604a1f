package utils

import (
	"fmt"
	"regexp"
)

// ValidateEmail validates an email address
func ValidateEmail(email string) error {
	emailRegex := regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	if !emailRegex.MatchString(email) {
		return fmt.Errorf("invalid email format: %s", email)
	}
	return nil
}

// ValidateImagePath rejects path traversal in stored image references
func ValidateImagePath(path string) error {
	if path == "" {
		return fmt.Errorf("image path must not be empty")
	}
	if regexp.MustCompile(`(^|[\\/])\.\.([\\/]|$)`).MatchString(path) {
		return fmt.Errorf("image path must not contain traversal segments: %s", path)
	}
	return nil
}

// SanitizeString removes potentially harmful characters
func SanitizeString(s string) string {
	// Remove control characters and potential SQL injection patterns
	sanitized := regexp.MustCompile(`[\x00-\x1f\x7f]`).ReplaceAllString(s, "")
	return sanitized
}
