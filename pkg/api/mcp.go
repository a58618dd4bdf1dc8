package api

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/hazyhaar/artikel/pkg/kit"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer creates an MCP server with every artikel tool registered.
func NewMCPServer(res *Resolver, version string, logger *slog.Logger) *server.MCPServer {
	srv := server.NewMCPServer("artikel", version, server.WithToolCapabilities(false))
	RegisterMCPTools(srv, res, logger)
	return srv
}

// RegisterMCPTools registers the artikel MCP tools on the server.
func RegisterMCPTools(srv *server.MCPServer, res *Resolver, logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	for _, t := range mcpTools(res) {
		kit.RegisterMCPTool(srv, t.tool, wrap(logger, t.tool.Name, t.endpoint), t.decode)
	}
}

type mcpTool struct {
	tool     mcp.Tool
	endpoint kit.Endpoint
	decode   func(mcp.CallToolRequest) (*kit.MCPDecodeResult, error)
}

func mcpTools(res *Resolver) []mcpTool {
	optionArgs := []mcp.ToolOption{
		mcp.WithString("lexicons", mcp.Description("Comma-separated lexicon filter (e.g. nouns-de)")),
		mcp.WithBoolean("builtin_only", mcp.Description("Skip on-disk lexicons and use only the built-in dictionary and rules")),
		mcp.WithBoolean("remote", mcp.Description("Ask the remote dictionary when the local result is unknown")),
		mcp.WithString("locale", mcp.Description("de-DE, de-AT or de-CH; echoed in the result")),
	}

	return []mcpTool{
		{
			tool: mcp.NewTool("determine_article", append([]mcp.ToolOption{
				mcp.WithDescription("Determine the definite article (der, die, das) of a German noun. Returns unknown when no rule or dictionary entry applies."),
				mcp.WithString("word", mcp.Required(), mcp.Description("The noun, in any case")),
			}, optionArgs...)...),
			endpoint: determineEndpoint(res),
			decode:   decodeDetermine,
		},
		{
			tool: mcp.NewTool("determine_articles", append([]mcp.ToolOption{
				mcp.WithDescription(fmt.Sprintf("Determine the articles of up to %d German nouns at once.", MaxBatch)),
				mcp.WithString("words", mcp.Required(), mcp.Description("Comma-separated list of nouns")),
			}, optionArgs...)...),
			endpoint: determineBatchEndpoint(res),
			decode:   decodeDetermineBatch,
		},
		{
			tool: mcp.NewTool("list_lexicons",
				mcp.WithDescription("List the loaded supplementary lexicons with source, license and entry count."),
			),
			endpoint: listLexiconsEndpoint(res.Registry()),
			decode:   decodeNone,
		},
		{
			tool: mcp.NewTool("list_rules",
				mcp.WithDescription("List the suffix and prefix rules in evaluation order, with the article each one assigns."),
			),
			endpoint: listRulesEndpoint(),
			decode:   decodeNone,
		},
	}
}

func decodeDetermine(req mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
	args := req.GetArguments()
	word, _ := args["word"].(string)
	opts, err := decodeOptions(args)
	if err != nil {
		return nil, err
	}
	return &kit.MCPDecodeResult{Request: &determineReq{Word: word, Opts: opts}}, nil
}

func decodeDetermineBatch(req mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
	args := req.GetArguments()
	wordsStr, _ := args["words"].(string)
	var words []string
	for _, w := range strings.Split(wordsStr, ",") {
		if w = strings.TrimSpace(w); w != "" {
			words = append(words, w)
		}
	}
	opts, err := decodeOptions(args)
	if err != nil {
		return nil, err
	}
	return &kit.MCPDecodeResult{Request: &determineBatchReq{Words: words, Opts: opts}}, nil
}

func decodeNone(_ mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
	return &kit.MCPDecodeResult{Request: nil}, nil
}

func decodeOptions(args map[string]any) (Options, error) {
	var opts Options
	if v, _ := args["lexicons"].(string); v != "" {
		opts.Lexicons = splitList(v)
	}
	opts.BuiltinOnly, _ = args["builtin_only"].(bool)
	opts.Remote, _ = args["remote"].(bool)

	locale, _ := args["locale"].(string)
	loc, err := ParseLocale(locale)
	if err != nil {
		return opts, err
	}
	opts.Locale = loc
	return opts, nil
}
