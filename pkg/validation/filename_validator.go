package validation

import (
	"strings"
)

// FilenameValidator checks that an uploaded filename carries an accepted
// image extension. It is pure: no I/O, no side effects.
type FilenameValidator struct {
	allowedExtensions map[string]struct{}
}

// DefaultExtensions is the fixed allow-set of image extensions.
var DefaultExtensions = []string{"png", "jpg", "jpeg", "bmp", "tiff"}

// NewFilenameValidator creates a validator using the default allow-set
func NewFilenameValidator() *FilenameValidator {
	return NewFilenameValidatorWithExtensions(DefaultExtensions)
}

// NewFilenameValidatorWithExtensions creates a validator with a custom allow-set
func NewFilenameValidatorWithExtensions(extensions []string) *FilenameValidator {
	allowed := make(map[string]struct{}, len(extensions))
	for _, ext := range extensions {
		allowed[strings.ToLower(ext)] = struct{}{}
	}
	return &FilenameValidator{allowedExtensions: allowed}
}

// IsAllowed reports whether the filename has a dot-delimited extension with a
// non-empty stem whose lowercased suffix is in the allow-set.
func (v *FilenameValidator) IsAllowed(filename string) bool {
	stem, ext, ok := splitExtension(filename)
	if !ok || stem == "" {
		return false
	}
	_, allowed := v.allowedExtensions[strings.ToLower(ext)]
	return allowed
}

// Extension returns the lowercased extension of an accepted filename, without
// the leading dot. The second return is false when the filename is rejected.
func (v *FilenameValidator) Extension(filename string) (string, bool) {
	if !v.IsAllowed(filename) {
		return "", false
	}
	_, ext, _ := splitExtension(filename)
	return strings.ToLower(ext), true
}

// splitExtension splits on the last dot; ok is false when there is none
func splitExtension(filename string) (stem, ext string, ok bool) {
	idx := strings.LastIndex(filename, ".")
	if idx < 0 {
		return "", "", false
	}
	return filename[:idx], filename[idx+1:], true
}
