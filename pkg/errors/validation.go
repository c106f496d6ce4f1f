package errors

import (
	"strings"
	"unicode"
)

// ValidateMarker checks an escaping marker supplied on the command line or in
// a config file. An empty marker would strip nothing and is rejected so a
// typo in the config does not silently change how stored files are read.
func ValidateMarker(marker string) error {
	if marker == "" {
		return New(ErrCodeInvalidInput, "marker cannot be empty")
	}
	for _, r := range marker {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidInput, "marker contains whitespace or control characters: %q", marker)
		}
	}
	return nil
}

// ValidateOutputPath validates the path of the single output file.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 4096 characters
//   - No null bytes or control characters
//   - Must not name a directory (trailing separator)
func ValidateOutputPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "output path cannot be empty")
	}

	const maxPathLength = 4096
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "output path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "output path contains invalid characters")
		}
	}

	if strings.HasSuffix(path, "/") || strings.HasSuffix(path, "\\") {
		return New(ErrCodeInvalidPath, "output path must name a file, not a directory: %s", path)
	}

	return nil
}
