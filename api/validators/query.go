package validators

import (
	"net/http"
	"strconv"
	"strings"
	"unicode/utf8"
)

// ParseOptionalID reads an optional positive integer query parameter. Blank
// and malformed values are treated as absent.
func ParseOptionalID(r *http.Request, key string) *int64 {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return nil
	}
	return &id
}

// QueryText returns the trimmed query value cut to maxLen characters.
func QueryText(r *http.Request, key string, maxLen int) string {
	return truncate(strings.TrimSpace(r.URL.Query().Get(key)), maxLen)
}

func truncate(value string, maxLen int) string {
	if maxLen <= 0 || utf8.RuneCountInString(value) <= maxLen {
		return value
	}
	return string([]rune(value)[:maxLen])
}
