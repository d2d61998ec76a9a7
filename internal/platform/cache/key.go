package cache

import (
	"net/url"
	"regexp"
	"sort"
	"strings"
)

var unsafeKeyChars = regexp.MustCompile(`[^a-zA-Z0-9._-]`)

// Key builds a deterministic cache key from an endpoint path and a set of
// query parameters: the path plus sorted "k=v" pairs, with filesystem-
// unsafe characters escaped, per spec.md §4.1's cache-key rule.
func Key(endpoint string, params map[string]string) string {
	names := make([]string, 0, len(params))
	for k := range params {
		names = append(names, k)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString(sanitize(endpoint))
	for _, name := range names {
		b.WriteByte('_')
		b.WriteString(sanitize(name))
		b.WriteByte('=')
		b.WriteString(sanitize(params[name]))
	}
	return b.String()
}

func sanitize(s string) string {
	s = url.QueryEscape(s)
	return unsafeKeyChars.ReplaceAllString(s, "_")
}
