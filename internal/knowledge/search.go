package knowledge

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// DefaultSearchLimit is the result count used when none is given.
const DefaultSearchLimit = 5

// NoDocumentsMessage is returned when a search yields nothing to show,
// whether the API failed or simply found no match.
const NoDocumentsMessage = "No relevant documents found or unable to reach the knowledge API."

const resultSeparator = "\n---\n"

// Search queries the "search" endpoint and renders each hit as a text block.
// limit is passed through unchecked.
func (c *Client) Search(ctx context.Context, query string, limit int) string {
	params := url.Values{}
	params.Set("q", query)
	params.Set("limit", strconv.Itoa(limit))

	results, ok := extractSearchResults(c.Execute(ctx, "search", params))
	if !ok {
		return NoDocumentsMessage
	}
	return FormatSearchResults(results)
}

// FormatSearchResults renders results as blocks joined by a "---" line.
func FormatSearchResults(results []SearchResult) string {
	blocks := make([]string, 0, len(results))
	for _, r := range results {
		blocks = append(blocks, formatSearchResult(r))
	}
	return strings.Join(blocks, resultSeparator)
}

func formatSearchResult(r SearchResult) string {
	return fmt.Sprintf("\nTitle: %s\nSource: %s\nSummary: %s\nURL: %s\n",
		r.Title, r.Source, r.Snippet, r.URL)
}
