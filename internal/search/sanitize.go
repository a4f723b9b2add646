// Package search sanitises free-form task text into an FTS5 MATCH query
//: free-form user text is never passed to the engine verbatim.
package search

import "strings"

const stripChars = `*"():^{}~-+<>|@#\`

// Sanitize strips FTS5 operator characters, tokenizes on whitespace, quotes
// each remaining token, and OR-joins them. An input with no surviving
// tokens sanitises to "", which Store.Search treats as an empty result.
func Sanitize(text string) string {
	cleaned := strings.Map(func(r rune) rune {
		if strings.ContainsRune(stripChars, r) {
			return -1
		}
		return r
	}, text)

	fields := strings.Fields(cleaned)
	if len(fields) == 0 {
		return ""
	}

	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		tokens = append(tokens, `"`+f+`"`)
	}
	return strings.Join(tokens, " OR ")
}
