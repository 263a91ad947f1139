package knowledge

import (
	"context"
	"net/url"
)

const (
	answerPrefix = "Answer: "

	// NoAnswerPrefix introduces the search fallback when the assistant
	// has no direct answer.
	NoAnswerPrefix = "No direct answer found. Here are related documents:\n"
)

// Ask sends question to the "ask" endpoint. Without an answer it falls back
// to Search with the same question and the default limit.
func (c *Client) Ask(ctx context.Context, question string) string {
	params := url.Values{}
	params.Set("q", question)

	if answer, ok := extractAnswer(c.Execute(ctx, "ask", params)); ok {
		return answerPrefix + answer
	}
	return NoAnswerPrefix + c.Search(ctx, question, DefaultSearchLimit)
}
