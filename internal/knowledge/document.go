package knowledge

import (
	"context"
	"fmt"
	"net/url"
)

// DocumentNotFoundMessage is returned when a document cannot be shown.
const DocumentNotFoundMessage = "Document not found or unavailable."

// PreviewLength is the number of characters of content shown.
const PreviewLength = 2000

// Retrieve fetches "documents/{docID}" and renders its metadata and a
// content preview.
func (c *Client) Retrieve(ctx context.Context, docID string) string {
	doc, ok := extractDocument(c.Execute(ctx, "documents/"+url.PathEscape(docID), nil))
	if !ok {
		return DocumentNotFoundMessage
	}
	return FormatDocument(doc)
}

// FormatDocument renders doc. The "..." marker follows the preview even when
// the content was not cut.
func FormatDocument(doc Document) string {
	return fmt.Sprintf("\nTitle: %s\nAuthor: %s\nLast Updated: %s\n\nContent:\n%s...\n",
		doc.Title, doc.Author, doc.UpdatedAt, preview(doc.Content, PreviewLength))
}

// preview returns the first n characters (runes) of s.
func preview(s string, n int) string {
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
