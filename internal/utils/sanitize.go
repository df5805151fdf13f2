package utils

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var ugcPolicy = bluemonday.UGCPolicy()

// SanitizeContent strips markup that is not allowed in user submitted
// content before it is persisted.
func SanitizeContent(s string) string {
	return strings.TrimSpace(ugcPolicy.Sanitize(s))
}
