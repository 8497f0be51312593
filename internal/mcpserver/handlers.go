package mcpserver

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ziadkadry99/notebase/internal/notes"
	"github.com/ziadkadry99/notebase/internal/retriever"
)

// handleSearchNotes performs semantic search over the note index.
func (s *Server) handleSearchNotes(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: query"), nil
	}

	limit := request.GetInt("limit", s.topK)
	if limit <= 0 {
		limit = s.topK
	}

	opts := retriever.SearchOptions{TopK: limit}
	if tags := request.GetString("tags", ""); tags != "" {
		opts.FilterTags = notes.SplitTags(tags)
	}

	results, err := s.engine.Retriever().Search(ctx, query, opts)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
	}

	if len(results) == 0 {
		return mcp.NewToolResultText("No matching notes found. The directory may not be indexed yet; run `notebase index` first."), nil
	}

	return mcp.NewToolResultText(formatResults(results)), nil
}

// handleAskNotes answers a question from the notes.
func (s *Server) handleAskNotes(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	question, err := request.RequireString("question")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: question"), nil
	}

	res, err := s.engine.Answer(ctx, question, s.topK)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("answer failed: %v", err)), nil
	}

	var sb strings.Builder
	sb.WriteString(res.Answer)
	if len(res.Sources) > 0 {
		sb.WriteString("\n\nSources:\n")
		for _, src := range res.Sources {
			fmt.Fprintf(&sb, "- %s (relevance %.2f)\n", src.Title, src.RelevanceScore)
		}
	}
	fmt.Fprintf(&sb, "\nConfidence: %.2f", res.Confidence)

	return mcp.NewToolResultText(sb.String()), nil
}

// handleSummarizeTopic summarizes notes about a topic.
func (s *Server) handleSummarizeTopic(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	topic, err := request.RequireString("topic")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: topic"), nil
	}

	res, err := s.engine.Summarize(ctx, topic, s.topK)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("summarize failed: %v", err)), nil
	}

	return mcp.NewToolResultText(res.Summary), nil
}

// handleListTags lists the tag vocabulary.
func (s *Server) handleListTags(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	stats, err := s.engine.Retriever().GetStats(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("stats failed: %v", err)), nil
	}

	if len(stats.Tags) == 0 {
		return mcp.NewToolResultText("No tags found."), nil
	}
	return mcp.NewToolResultText(strings.Join(stats.Tags, ", ")), nil
}

// handleStats reports knowledge base statistics.
func (s *Server) handleStats(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	stats, err := s.engine.Retriever().GetStats(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("stats failed: %v", err)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf(
		"Notes: %d\nIndexed: %d\nTags: %d",
		stats.TotalNotes, stats.IndexedNotes, len(stats.Tags),
	)), nil
}

// formatResults converts search results into text for agent consumption.
func formatResults(results []retriever.Result) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Found %d result(s):\n", len(results))
	for i, r := range results {
		fmt.Fprintf(&sb, "\n%d. %s (relevance %.2f)\n", i+1, r.Title, r.RelevanceScore)
		if len(r.Tags) > 0 {
			fmt.Fprintf(&sb, "   Tags: %s\n", strings.Join(r.Tags, ", "))
		}
		content := r.Content
		if len(content) > 400 {
			content = content[:400] + "..."
		}
		fmt.Fprintf(&sb, "   %s\n", content)
	}
	return sb.String()
}
