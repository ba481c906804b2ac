package errors

import (
	"strings"
	"unicode"
)

// validFormats are the artifact formats the render sinks can produce.
var validFormats = map[string]bool{
	"svg":  true,
	"png":  true,
	"json": true,
}

// ValidateFormat validates an output format name.
func ValidateFormat(format string) error {
	if format == "" {
		return New(ErrCodeInvalidFormat, "format cannot be empty")
	}
	if !validFormats[strings.ToLower(format)] {
		return New(ErrCodeInvalidFormat, "unsupported format %q (valid: svg, png, json)", format)
	}
	return nil
}

// ValidateOutputPath validates a user-supplied output file path for
// safety. The server reuses it for paths coming in over HTTP, so the
// rules are intentionally conservative:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No path traversal sequences (..)
//   - No backslashes (Windows-style paths)
func ValidateOutputPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	// Check for null bytes and control characters
	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	// Check for path traversal
	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
	}

	// No backslashes (potential Windows path injection)
	if strings.Contains(path, "\\") {
		return New(ErrCodeInvalidPath, "path cannot contain backslashes")
	}

	return nil
}

// ValidateRedisAddr validates a redis address of the form host:port.
func ValidateRedisAddr(addr string) error {
	if addr == "" {
		return New(ErrCodeInvalidInput, "redis address cannot be empty")
	}
	host, port, ok := strings.Cut(addr, ":")
	if !ok || host == "" || port == "" {
		return New(ErrCodeInvalidInput, "redis address must be host:port, got %q", addr)
	}
	for _, r := range port {
		if r < '0' || r > '9' {
			return New(ErrCodeInvalidInput, "redis address port must be numeric, got %q", port)
		}
	}
	return nil
}
