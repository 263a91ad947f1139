package knowledge

import "github.com/tidwall/gjson"

// Placeholders used when the API omits a field or sends null.
const (
	DefaultTitle     = "Untitled"
	DefaultSource    = "Unknown"
	DefaultSnippet   = "No summary available"
	DefaultURL       = "N/A"
	DefaultAuthor    = "Unknown"
	DefaultUpdatedAt = "Unknown"
)

// SearchResult is one entry of a search response.
type SearchResult struct {
	Title   string
	Source  string
	Snippet string
	URL     string
}

// Document is the payload of a document lookup.
type Document struct {
	Title     string
	Author    string
	UpdatedAt string
	Content   string
}

// field resolves key on obj, falling back to def when the key is missing or
// null. Non-string values keep their JSON text.
func field(obj gjson.Result, key, def string) string {
	v := obj.Get(gjson.Escape(key))
	if !v.Exists() || v.Type == gjson.Null {
		return def
	}
	if v.Type == gjson.String {
		return v.Str
	}
	return v.Raw
}

// extractSearchResults returns the entries under "results". ok is false when
// the response is absent, has no "results" array, or the array is empty.
func extractSearchResults(resp Response) (results []SearchResult, ok bool) {
	if !resp.Has("results") {
		return nil, false
	}
	list := resp.Get("results")
	if !list.IsArray() {
		return nil, false
	}

	list.ForEach(func(_, entry gjson.Result) bool {
		results = append(results, SearchResult{
			Title:   field(entry, "title", DefaultTitle),
			Source:  field(entry, "source", DefaultSource),
			Snippet: field(entry, "snippet", DefaultSnippet),
			URL:     field(entry, "url", DefaultURL),
		})
		return true
	})
	return results, len(results) > 0
}

// extractDocument returns the document fields. ok is false when the
// response is absent or has no "content" key.
func extractDocument(resp Response) (Document, bool) {
	if !resp.Has("content") {
		return Document{}, false
	}
	return Document{
		Title:     field(resp.body, "title", DefaultTitle),
		Author:    field(resp.body, "author", DefaultAuthor),
		UpdatedAt: field(resp.body, "updated_at", DefaultUpdatedAt),
		Content:   field(resp.body, "content", ""),
	}, true
}

// extractAnswer returns the "answer" value when the key is present.
func extractAnswer(resp Response) (string, bool) {
	if !resp.Has("answer") {
		return "", false
	}
	return field(resp.body, "answer", ""), true
}
