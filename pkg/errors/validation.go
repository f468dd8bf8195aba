package errors

import (
	"strings"
	"unicode"
)

// ValidateKey validates a storage key for safety.
// Keys become file names (local storage) or object names (buckets), so they
// must not escape the configured directory or prefix.
//
// The validation rules are intentionally conservative:
//   - No empty keys
//   - No control characters or null bytes
//   - No path traversal sequences or absolute paths
//   - No backslashes
//   - Maximum length of 512 characters
func ValidateKey(key string) error {
	if key == "" {
		return New(ErrCodeInvalidKey, "key cannot be empty")
	}

	const maxKeyLength = 512
	if len(key) > maxKeyLength {
		return New(ErrCodeInvalidKey, "key too long (max %d characters)", maxKeyLength)
	}

	for _, r := range key {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidKey, "key contains invalid control characters")
		}
	}

	if strings.HasPrefix(key, "/") {
		return New(ErrCodeInvalidKey, "key must be relative (cannot start with /)")
	}

	dangerousPatterns := []string{
		"..",   // Parent directory
		"//",   // Double slash
		"\\",   // Backslash (Windows path)
		"\x00", // Null byte
	}
	for _, pattern := range dangerousPatterns {
		if strings.Contains(key, pattern) {
			return New(ErrCodeInvalidKey, "key contains invalid characters: %q", pattern)
		}
	}

	return nil
}

// ValidateLanguageTag does a cheap syntactic check of a BCP 47 tag before it
// is handed to a full parser. It only rejects obviously broken input.
func ValidateLanguageTag(tag string) error {
	if tag == "" {
		return New(ErrCodeInvalidLanguage, "language tag cannot be empty")
	}
	if len(tag) > 35 {
		return New(ErrCodeInvalidLanguage, "language tag too long: %q", tag)
	}
	for _, r := range tag {
		if !(r == '-' || r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)) || r > unicode.MaxASCII {
			return New(ErrCodeInvalidLanguage, "invalid language tag: %q", tag)
		}
	}
	return nil
}

// ValidateFormat checks that format is one of allowed, ignoring case.
func ValidateFormat(format string, allowed []string) error {
	f := strings.ToLower(strings.TrimSpace(format))
	for _, a := range allowed {
		if f == a {
			return nil
		}
	}
	return New(ErrCodeInvalidFormat, "unsupported format %q (supported: %s)", format, strings.Join(allowed, ", "))
}
