// Command artikel determines the definite article of German nouns. It
// runs as an HTTP/MCP service, a one-shot classifier, or an importer that
// builds supplementary lexicons.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
)

var version = "dev"

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "serve":
		cmdServe(os.Args[2:])
	case "classify":
		cmdClassify(os.Args[2:])
	case "mcp":
		cmdMCP(os.Args[2:])
	case "query":
		cmdQuery(os.Args[2:])
	case "import":
		cmdImport(os.Args[2:])
	case "version":
		fmt.Println(version)
	default:
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprint(os.Stderr, `Usage: artikel <command> [flags]

Commands:
  serve      Start the HTTP API (and MCP over HTTP and QUIC)
  classify   Print the article of each word given as argument or on stdin
  mcp        Serve MCP over stdio, or over QUIC with -quic
  query      Ask a running server over MCP-over-QUIC
  import     Build lexicons from public noun datasets
  version    Print the version
`)
}

// newLogger returns a text logger on stderr at the named level.
func newLogger(level string) *slog.Logger {
	var l slog.Level
	switch strings.ToLower(level) {
	case "debug":
		l = slog.LevelDebug
	case "warn", "warning":
		l = slog.LevelWarn
	case "error":
		l = slog.LevelError
	default:
		l = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: l}))
}

func fatal(logger *slog.Logger, msg string, err error) {
	logger.Error(msg, "error", err)
	os.Exit(1)
}
