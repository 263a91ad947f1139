package tools

import (
	"context"

	"github.com/kayz/kbmcp/internal/knowledge"
	"github.com/kayz/kbmcp/internal/logger"
	"github.com/kayz/kbmcp/internal/security"
	"github.com/mark3labs/mcp-go/mcp"
)

// Tool names as seen by the host.
const (
	SearchDocumentsName    = "search_documents"
	GetDocumentContentName = "get_document_content"
	AskKnowledgeBaseName   = "ask_knowledge_base"
)

// Knowledge is what the knowledge tools need from the API client.
type Knowledge interface {
	Search(ctx context.Context, query string, limit int) string
	Retrieve(ctx context.Context, docID string) string
	Ask(ctx context.Context, question string) string
}

// Handler matches mcp-go's tool handler signature.
type Handler func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error)

// SearchDocumentsTool describes search_documents.
func SearchDocumentsTool() mcp.Tool {
	return mcp.NewTool(SearchDocumentsName,
		mcp.WithDescription("Search internal documents related to the query."),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Search term or question to find in internal docs."),
		),
		mcp.WithNumber("limit",
			mcp.Description("Max number of results to return."),
			mcp.DefaultNumber(knowledge.DefaultSearchLimit),
		),
	)
}

// GetDocumentContentTool describes get_document_content.
func GetDocumentContentTool() mcp.Tool {
	return mcp.NewTool(GetDocumentContentName,
		mcp.WithDescription("Retrieve the full text of a document by ID."),
		mcp.WithString("doc_id",
			mcp.Required(),
			mcp.Description("Unique document identifier."),
		),
	)
}

// AskKnowledgeBaseTool describes ask_knowledge_base.
func AskKnowledgeBaseTool() mcp.Tool {
	return mcp.NewTool(AskKnowledgeBaseName,
		mcp.WithDescription("Ask the internal knowledge assistant a question. "+
			"This uses a company-internal QA API or search fallback."),
		mcp.WithString("question",
			mcp.Required(),
			mcp.Description("Question for the knowledge assistant."),
		),
	)
}

// SearchDocuments handles search_documents. limit defaults to 5 and is
// otherwise passed through as given.
func SearchDocuments(kb Knowledge) Handler {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		query, ok := stringArg(req, "query")
		if !ok {
			return mcp.NewToolResultError("query is required"), nil
		}

		limit := knowledge.DefaultSearchLimit
		if l, ok := req.Params.Arguments["limit"].(float64); ok {
			limit = int(l)
		}

		logger.Debug("[Tools] %s query=%q limit=%d", SearchDocumentsName, query, limit)
		return mcp.NewToolResultText(kb.Search(ctx, query, limit)), nil
	}
}

// GetDocumentContent handles get_document_content.
func GetDocumentContent(kb Knowledge) Handler {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		docID, ok := stringArg(req, "doc_id")
		if !ok {
			return mcp.NewToolResultError("doc_id is required"), nil
		}
		if err := security.ValidateDocID(docID); err != nil {
			return mcp.NewToolResultError("invalid doc_id: " + err.Error()), nil
		}

		logger.Debug("[Tools] %s doc_id=%q", GetDocumentContentName, docID)
		return mcp.NewToolResultText(kb.Retrieve(ctx, docID)), nil
	}
}

// AskKnowledgeBase handles ask_knowledge_base.
func AskKnowledgeBase(kb Knowledge) Handler {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		question, ok := stringArg(req, "question")
		if !ok {
			return mcp.NewToolResultError("question is required"), nil
		}

		logger.Debug("[Tools] %s question=%q", AskKnowledgeBaseName, question)
		return mcp.NewToolResultText(kb.Ask(ctx, question)), nil
	}
}

// stringArg reports false only when the argument is missing or not a string.
// Empty values are passed on to the API.
func stringArg(req mcp.CallToolRequest, name string) (string, bool) {
	v, ok := req.Params.Arguments[name].(string)
	return v, ok
}
