package errors

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// MaxCharacterLen bounds the length of a word in runes. The longest
// entries in common word lists are idioms of four to eight characters.
const MaxCharacterLen = 32

// ValidateCharacter validates the headword of a character record.
//
// Validation rules:
//   - Cannot be empty or whitespace
//   - Maximum of MaxCharacterLen runes
//   - No control characters
//   - Must contain at least one letter (Han or otherwise)
func ValidateCharacter(ch string) error {
	if strings.TrimSpace(ch) == "" {
		return New(ErrCodeInvalidCharacter, "character cannot be empty")
	}
	if !utf8.ValidString(ch) {
		return New(ErrCodeInvalidCharacter, "character is not valid UTF-8")
	}
	if utf8.RuneCountInString(ch) > MaxCharacterLen {
		return New(ErrCodeInvalidCharacter, "character too long (max %d runes)", MaxCharacterLen)
	}

	letter := false
	for _, r := range ch {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidCharacter, "character contains invalid control characters")
		}
		if unicode.IsLetter(r) {
			letter = true
		}
	}
	if !letter {
		return New(ErrCodeInvalidCharacter, "character must contain a letter: %q", ch)
	}
	return nil
}

// ValidateKey validates a store key such as a character ID before it is
// used in a file name or a redis key.
func ValidateKey(key string) error {
	if key == "" {
		return New(ErrCodeInvalidInput, "key cannot be empty")
	}
	if len(key) > 128 {
		return New(ErrCodeInvalidInput, "key too long (max 128 bytes)")
	}
	for _, r := range key {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidInput, "key contains invalid characters")
		}
	}
	if strings.ContainsAny(key, "/\\") || strings.Contains(key, "..") {
		return New(ErrCodeInvalidInput, "key cannot contain path separators: %q", key)
	}
	return nil
}

// ValidatePath validates a file path given on the command line.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}
	return nil
}

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}

	return nil
}
