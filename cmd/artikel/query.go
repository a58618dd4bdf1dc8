package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/hazyhaar/artikel/pkg/api"
	"github.com/hazyhaar/artikel/pkg/mcpquic"
	"github.com/mark3labs/mcp-go/mcp"
)

func cmdQuery(args []string) {
	fs := flag.NewFlagSet("query", flag.ExitOnError)
	addr := fs.String("addr", "localhost:8420", "server UDP address")
	insecure := fs.Bool("insecure", false, "skip certificate verification (self-signed dev servers)")
	remote := fs.Bool("remote", false, "let the server ask Wiktionary for unknown words")
	verbose := fs.Bool("v", false, "show which stage decided")
	timeout := fs.Duration("timeout", 30*time.Second, "overall timeout")
	fs.Parse(args)

	logger := newLogger("info")
	if fs.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Usage: artikel query [-addr host:port] [-insecure] word...")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	c, err := mcpquic.Dial(ctx, *addr, mcpquic.ClientTLSConfig(*insecure), version)
	if err != nil {
		fatal(logger, "connect", err)
	}
	defer c.Close()

	res, err := c.CallTool(ctx, "determine_articles", map[string]any{
		"words":  strings.Join(fs.Args(), ","),
		"remote": *remote,
	})
	if err != nil {
		fatal(logger, "determine_articles", err)
	}
	results, err := decodeBatch(res)
	if err != nil {
		fatal(logger, "determine_articles", err)
	}
	for _, r := range results {
		fmt.Println(formatResolution(r, *verbose))
	}
}

// decodeBatch extracts the batch results from a determine_articles call.
func decodeBatch(res *mcp.CallToolResult) ([]*api.Resolution, error) {
	var text string
	for _, c := range res.Content {
		switch tc := c.(type) {
		case mcp.TextContent:
			text = tc.Text
		case *mcp.TextContent:
			text = tc.Text
		}
	}
	if res.IsError {
		return nil, errors.New(text)
	}
	var body struct {
		Results []*api.Resolution `json:"results"`
	}
	if err := json.Unmarshal([]byte(text), &body); err != nil {
		return nil, fmt.Errorf("decode results: %w", err)
	}
	return body.Results, nil
}
