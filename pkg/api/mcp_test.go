package api

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/hazyhaar/artikel/pkg/kit"
	"github.com/mark3labs/mcp-go/mcp"
)

func callTool(t *testing.T, res *Resolver, name string, args map[string]any) (string, bool) {
	t.Helper()
	for _, tool := range mcpTools(res) {
		if tool.tool.Name != name {
			continue
		}
		req := mcp.CallToolRequest{}
		req.Params.Name = name
		req.Params.Arguments = args
		result, err := kit.MCPHandler(tool.endpoint, tool.decode)(context.Background(), req)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		return toolText(t, result), result.IsError
	}
	t.Fatalf("tool %q not registered", name)
	return "", false
}

func toolText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if len(result.Content) == 0 {
		t.Fatal("empty tool result")
	}
	switch c := result.Content[0].(type) {
	case mcp.TextContent:
		return c.Text
	case *mcp.TextContent:
		return c.Text
	}
	t.Fatalf("unexpected content type %T", result.Content[0])
	return ""
}

func TestMCPTools_Names(t *testing.T) {
	res := NewResolver(newTestRegistry(t), nil, newTestLogger())
	want := map[string]bool{
		"determine_article":  false,
		"determine_articles": false,
		"list_lexicons":      false,
		"list_rules":         false,
	}
	for _, tool := range mcpTools(res) {
		if _, ok := want[tool.tool.Name]; !ok {
			t.Errorf("unexpected tool %q", tool.tool.Name)
		}
		want[tool.tool.Name] = true
	}
	for name, seen := range want {
		if !seen {
			t.Errorf("tool %q missing", name)
		}
	}
}

func TestMCPDetermineArticle(t *testing.T) {
	res := NewResolver(newTestRegistry(t), newFakeRemote(), newTestLogger())

	tests := []struct {
		args    map[string]any
		article string
		stage   string
	}{
		{map[string]any{"word": "Mädchen"}, "das", "rule"},
		{map[string]any{"word": "Joghurt"}, "der", "lexicon"},
		{map[string]any{"word": "Joghurt", "builtin_only": true}, "unknown", "none"},
		{map[string]any{"word": "Xylofon", "remote": true}, "das", "remote"},
		{map[string]any{"word": ""}, "unknown", "none"},
	}
	for _, tt := range tests {
		text, isErr := callTool(t, res, "determine_article", tt.args)
		if isErr {
			t.Errorf("%v: tool error %s", tt.args, text)
			continue
		}
		var got resolutionJSON
		if err := json.Unmarshal([]byte(text), &got); err != nil {
			t.Fatalf("unmarshal %s: %v", text, err)
		}
		if got.Article != tt.article || got.Stage != tt.stage {
			t.Errorf("%v = %s/%s, want %s/%s", tt.args, got.Article, got.Stage, tt.article, tt.stage)
		}
	}
}

func TestMCPDetermineArticle_BadLocale(t *testing.T) {
	res := NewResolver(newTestRegistry(t), nil, newTestLogger())

	_, isErr := callTool(t, res, "determine_article", map[string]any{"word": "Haus", "locale": "en-GB"})
	if !isErr {
		t.Error("expected tool error for unsupported locale")
	}
}

func TestMCPDetermineArticles(t *testing.T) {
	res := NewResolver(newTestRegistry(t), nil, newTestLogger())

	text, isErr := callTool(t, res, "determine_articles", map[string]any{"words": "Mädchen, Freiheit,,Lehrer"})
	if isErr {
		t.Fatalf("tool error: %s", text)
	}
	var got struct {
		Results []resolutionJSON `json:"results"`
	}
	if err := json.Unmarshal([]byte(text), &got); err != nil {
		t.Fatal(err)
	}
	want := []string{"das", "die", "der"}
	if len(got.Results) != len(want) {
		t.Fatalf("results = %d, want %d", len(got.Results), len(want))
	}
	for i, r := range got.Results {
		if r.Article != want[i] {
			t.Errorf("result[%d] = %s, want %s", i, r.Article, want[i])
		}
	}

	if _, isErr := callTool(t, res, "determine_articles", map[string]any{"words": " , "}); !isErr {
		t.Error("expected tool error for empty list")
	}
}

func TestMCPListRules(t *testing.T) {
	res := NewResolver(newTestRegistry(t), nil, newTestLogger())

	text, isErr := callTool(t, res, "list_rules", nil)
	if isErr {
		t.Fatalf("tool error: %s", text)
	}
	var got rulesResponse
	if err := json.Unmarshal([]byte(text), &got); err != nil {
		t.Fatal(err)
	}
	if len(got.Rules) != 28 {
		t.Errorf("rules = %d, want 28", len(got.Rules))
	}
}

func TestMCPListLexicons(t *testing.T) {
	res := NewResolver(newTestRegistry(t), nil, newTestLogger())

	text, isErr := callTool(t, res, "list_lexicons", nil)
	if isErr {
		t.Fatalf("tool error: %s", text)
	}
	var got lexiconsResponse
	if err := json.Unmarshal([]byte(text), &got); err != nil {
		t.Fatal(err)
	}
	if len(got.Lexicons) != 1 || got.Lexicons[0].ID != "nouns-test" {
		t.Errorf("lexicons = %+v", got.Lexicons)
	}
}
