// Package inline resolves Telegram inline queries against the media index:
// access gate, query parsing, retrieval, per-record rendering, and page
// assembly. Every branch ends in a well-formed answer; no error escapes to
// the transport.
package inline

import "strings"

// typeSeparator splits a search term from a file-type filter, e.g.
// "lecture | video".
const typeSeparator = " | "

// ParseQuery splits raw inline input into a search term and an optional
// lowercased file-type filter. Only the first separator occurrence counts;
// everything after it becomes the filter. An empty trimmed input yields
// ("", "") and means browse mode, not an empty search. The filter is not
// validated here; the index treats an unrecognized tag as matching nothing.
func ParseQuery(raw string) (term, typeFilter string) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ""
	}
	if i := strings.Index(raw, typeSeparator); i >= 0 {
		term = strings.TrimSpace(raw[:i])
		typeFilter = strings.ToLower(strings.TrimSpace(raw[i+len(typeSeparator):]))
		return term, typeFilter
	}
	return raw, ""
}
