package mcpserver

import "github.com/mark3labs/mcp-go/mcp"

// searchNotesTool defines the search_notes MCP tool.
var searchNotesTool = mcp.NewTool("search_notes",
	mcp.WithDescription("Search the user's personal notes semantically. Returns the most relevant notes with titles, tags, and content snippets."),
	mcp.WithString("query",
		mcp.Required(),
		mcp.Description("Natural language search query"),
	),
	mcp.WithNumber("limit",
		mcp.Description("Maximum number of results to return (default 5)"),
	),
	mcp.WithString("tags",
		mcp.Description("Comma-separated tags; only notes carrying any of them are returned"),
	),
)

// askNotesTool defines the ask_notes MCP tool.
var askNotesTool = mcp.NewTool("ask_notes",
	mcp.WithDescription("Answer a question from the user's notes, citing the notes the answer draws on."),
	mcp.WithString("question",
		mcp.Required(),
		mcp.Description("The question to answer"),
	),
)

// summarizeTopicTool defines the summarize_topic MCP tool.
var summarizeTopicTool = mcp.NewTool("summarize_topic",
	mcp.WithDescription("Summarize what the user's notes say about a topic, grouped by tags."),
	mcp.WithString("topic",
		mcp.Required(),
		mcp.Description("The topic to summarize"),
	),
)

// listTagsTool defines the list_tags MCP tool.
var listTagsTool = mcp.NewTool("list_tags",
	mcp.WithDescription("List every tag used across the user's notes."),
)

// kbStatsTool defines the kb_stats MCP tool.
var kbStatsTool = mcp.NewTool("kb_stats",
	mcp.WithDescription("Get knowledge base statistics: note counts and tag vocabulary."),
)
