package httpmetrics

import (
	"strings"

	"github.com/google/uuid"
)

// idSegments lists path prefixes whose following segment is a user id, so
// arbitrary ids do not blow up label cardinality.
var idSegments = map[string]bool{
	"user":     true,
	"edit":     true,
	"memorize": true,
	"item":     true,
}

func NormalizePath(path string) string {
	if path == "" {
		return "/"
	}

	parts := strings.Split(path, "/")
	for i, part := range parts {
		if part == "" {
			continue
		}
		if isNumeric(part) || isUUID(part) || (i > 0 && idSegments[parts[i-1]]) {
			parts[i] = "{param}"
		}
	}

	result := strings.Join(parts, "/")
	if result == "" {
		return "/"
	}

	return result
}

func isUUID(s string) bool {
	if len(s) != 36 {
		return false
	}
	_, err := uuid.Parse(s)
	return err == nil
}

func isNumeric(s string) bool {
	if len(s) == 0 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
