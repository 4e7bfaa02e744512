package search

import (
	"strconv"
	"strings"
)

// Query is the structured form of a chat search. It decouples what the
// user typed from what the index engine needs.
type Query struct {
	RawInput string // The original input from the user
	Terms    string // The actual text to match against message content
	RoomID   string // Target room; empty means the caller's current room
	Limit    int    // Maximum number of hits
}

// ParseQuery extracts command-line style arguments from a raw string.
// Example: /find "sunset sketch" --room room-12 --limit 5
func ParseQuery(input string) *Query {
	query := &Query{
		RawInput: input,
		Limit:    10,
	}

	parts := strings.Fields(input)
	var textTerms []string

	for i := 0; i < len(parts); i++ {
		part := parts[i]

		if strings.HasPrefix(part, "--") && i+1 < len(parts) {
			key := strings.TrimPrefix(part, "--")
			val := parts[i+1]

			switch key {
			case "room":
				query.RoomID = val
			case "limit":
				if limit, err := strconv.Atoi(val); err == nil && limit > 0 {
					query.Limit = limit
				}
			}
			i++ // Skip the consumed value
			continue
		}

		// Leading slash commands are not search terms
		if !strings.HasPrefix(part, "/") {
			textTerms = append(textTerms, strings.Trim(part, `"`))
		}
	}

	query.Terms = strings.Join(textTerms, " ")
	return query
}
