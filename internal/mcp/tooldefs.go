package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// Tool definitions for the MCP surface. Descriptions are written for LLM
// clients deciding when to call each tool.

var scoreToolDef = mcp.NewTool("point_score",
	mcp.WithDescription("Score free text into an interaction point (arousal, valence, impact scope) using the keyword heuristic. Does not touch the ledger."),
	mcp.WithString("text",
		mcp.Required(),
		mcp.Description("Text to score"),
	),
	mcp.WithBoolean("markdown",
		mcp.Description("Strip markdown syntax before keyword counting (default false)"),
	),
)

var recordToolDef = mcp.NewTool("ledger_record",
	mcp.WithDescription("Score free text and append the resulting point to the ledger if it crosses the logging thresholds (high arousal or strongly negative valence). Returns the point, the logging decision with its reason, and the entry when one was written."),
	mcp.WithString("text",
		mcp.Required(),
		mcp.Description("Text to score and evaluate"),
	),
	mcp.WithBoolean("markdown",
		mcp.Description("Strip markdown syntax before keyword counting (default false)"),
	),
	mcp.WithBoolean("force",
		mcp.Description("Append the point regardless of the logging thresholds (default false)"),
	),
)

var appendToolDef = mcp.NewTool("ledger_append",
	mcp.WithDescription("Append a pre-scored interaction point directly to the ledger. Coordinates are validated: arousal 0-100, valence -50 to 50, impact scope at least 1."),
	mcp.WithNumber("arousal",
		mcp.Required(),
		mcp.Description("Intensity of the event, 0 to 100"),
	),
	mcp.WithNumber("valence",
		mcp.Required(),
		mcp.Description("Emotional direction of the event, -50 to 50"),
	),
	mcp.WithNumber("impact_scope",
		mcp.DefaultNumber(1),
		mcp.Description("Number of parties affected, at least 1 (default 1)"),
	),
	mcp.WithString("description",
		mcp.Required(),
		mcp.Description("Human-readable summary of the event"),
	),
	mcp.WithString("source_text",
		mcp.Description("Raw text the point was derived from, if any"),
	),
)

var verifyToolDef = mcp.NewTool("ledger_verify",
	mcp.WithDescription("Recompute every entry's hash linkage and content digest. Returns ok=true for an intact chain, or the first violation found."),
)

var listToolDef = mcp.NewTool("ledger_list",
	mcp.WithDescription("List ledger entries in chain order with pagination. Returns summaries without full source text."),
	mcp.WithNumber("limit",
		mcp.Description("Maximum entries to return (default 20, max 100)"),
	),
	mcp.WithNumber("offset",
		mcp.Description("Number of entries to skip (default 0)"),
	),
)

var entryToolDef = mcp.NewTool("ledger_entry",
	mcp.WithDescription("Fetch one ledger entry by chain index with its full point detail."),
	mcp.WithNumber("index",
		mcp.Required(),
		mcp.Description("Chain index of the entry, 0 is the genesis entry"),
	),
)
