package tools

import (
	"context"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeKnowledge struct {
	query    string
	limit    int
	docID    string
	question string
}

func (f *fakeKnowledge) Search(_ context.Context, query string, limit int) string {
	f.query, f.limit = query, limit
	return "search:" + query
}

func (f *fakeKnowledge) Retrieve(_ context.Context, docID string) string {
	f.docID = docID
	return "doc:" + docID
}

func (f *fakeKnowledge) Ask(_ context.Context, question string) string {
	f.question = question
	return "Answer: " + question
}

func call(t *testing.T, h Handler, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args

	result, err := h(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, result)
	return result
}

func text(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.Len(t, result.Content, 1)
	content, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content, got %T", result.Content[0])
	return content.Text
}

func TestSearchDocuments(t *testing.T) {
	t.Run("defaults limit to five", func(t *testing.T) {
		kb := &fakeKnowledge{}
		result := call(t, SearchDocuments(kb), map[string]any{"query": "vpn setup"})

		assert.False(t, result.IsError)
		assert.Equal(t, "search:vpn setup", text(t, result))
		assert.Equal(t, "vpn setup", kb.query)
		assert.Equal(t, 5, kb.limit)
	})

	t.Run("passes limit through unchecked", func(t *testing.T) {
		kb := &fakeKnowledge{}
		call(t, SearchDocuments(kb), map[string]any{"query": "q", "limit": float64(2)})
		assert.Equal(t, 2, kb.limit)

		call(t, SearchDocuments(kb), map[string]any{"query": "q", "limit": float64(-1)})
		assert.Equal(t, -1, kb.limit)
	})

	t.Run("requires a query", func(t *testing.T) {
		kb := &fakeKnowledge{}
		for _, args := range []map[string]any{{}, {"query": nil}, {"query": 3.0}} {
			result := call(t, SearchDocuments(kb), args)
			assert.True(t, result.IsError)
			assert.Equal(t, "query is required", text(t, result))
		}
		assert.Empty(t, kb.query)
	})

	t.Run("blank query reaches the API", func(t *testing.T) {
		kb := &fakeKnowledge{limit: -99}
		result := call(t, SearchDocuments(kb), map[string]any{"query": "  "})
		assert.False(t, result.IsError)
		assert.Equal(t, "  ", kb.query)
		assert.Equal(t, 5, kb.limit)
	})
}

func TestGetDocumentContent(t *testing.T) {
	kb := &fakeKnowledge{}
	result := call(t, GetDocumentContent(kb), map[string]any{"doc_id": "doc-42"})
	assert.False(t, result.IsError)
	assert.Equal(t, "doc:doc-42", text(t, result))
	assert.Equal(t, "doc-42", kb.docID)

	result = call(t, GetDocumentContent(kb), map[string]any{})
	assert.True(t, result.IsError)
	assert.Equal(t, "doc_id is required", text(t, result))

	result = call(t, GetDocumentContent(kb), map[string]any{"doc_id": "bad\nid"})
	assert.True(t, result.IsError)
	assert.Contains(t, text(t, result), "invalid doc_id")

	result = call(t, GetDocumentContent(kb), map[string]any{"doc_id": " "})
	assert.False(t, result.IsError)
	assert.Equal(t, " ", kb.docID)
}

func TestAskKnowledgeBase(t *testing.T) {
	kb := &fakeKnowledge{}
	result := call(t, AskKnowledgeBase(kb), map[string]any{"question": "who owns payroll?"})
	assert.False(t, result.IsError)
	assert.Equal(t, "Answer: who owns payroll?", text(t, result))

	result = call(t, AskKnowledgeBase(kb), map[string]any{"q": "wrong key"})
	assert.True(t, result.IsError)
	assert.Equal(t, "question is required", text(t, result))

	result = call(t, AskKnowledgeBase(kb), map[string]any{"question": ""})
	assert.False(t, result.IsError)
	assert.Equal(t, "Answer: ", text(t, result))
}

func TestToolDefinitions(t *testing.T) {
	tests := []struct {
		tool     mcp.Tool
		name     string
		required []string
	}{
		{tool: SearchDocumentsTool(), name: "search_documents", required: []string{"query"}},
		{tool: GetDocumentContentTool(), name: "get_document_content", required: []string{"doc_id"}},
		{tool: AskKnowledgeBaseTool(), name: "ask_knowledge_base", required: []string{"question"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.name, tt.tool.Name)
			assert.NotEmpty(t, tt.tool.Description)
			assert.ElementsMatch(t, tt.required, tt.tool.InputSchema.Required)
		})
	}

	limit, ok := SearchDocumentsTool().InputSchema.Properties["limit"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "number", limit["type"])
	assert.Equal(t, float64(5), limit["default"])
}
