package main

import (
	"context"
	"crypto/tls"
	"flag"
	"os/signal"
	"syscall"

	"github.com/hazyhaar/artikel/pkg/api"
	"github.com/hazyhaar/artikel/pkg/chassis"
	"github.com/hazyhaar/artikel/pkg/mcpquic"
	"github.com/mark3labs/mcp-go/server"
)

func cmdMCP(args []string) {
	fs := flag.NewFlagSet("mcp", flag.ExitOnError)
	cfgPath := fs.String("config", "config.yaml", "path to config file")
	quicAddr := fs.String("quic", "", "serve MCP over QUIC on this UDP address instead of stdio")
	fs.Parse(args)

	cfg, logger := setup(*cfgPath)
	reg := loadRegistry(cfg, logger)
	remote, closeRemote := openRemote(cfg, logger)
	defer closeRemote()

	srv := api.NewMCPServer(api.NewResolver(reg, remote, logger), version, logger)

	if *quicAddr == "" {
		if err := server.ServeStdio(srv); err != nil {
			fatal(logger, "stdio server", err)
		}
		return
	}

	var tlsCfg *tls.Config
	var err error
	if cfg.TLS.Cert != "" {
		tlsCfg, err = chassis.ProductionTLSConfig(cfg.TLS.Cert, cfg.TLS.Key)
	} else {
		tlsCfg, err = chassis.DevelopmentTLSConfig()
	}
	if err != nil {
		fatal(logger, "TLS setup", err)
	}

	ln, err := mcpquic.Listen(*quicAddr, tlsCfg, srv, logger)
	if err != nil {
		fatal(logger, "listen", err)
	}
	defer ln.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if err := ln.Serve(ctx); err != nil && ctx.Err() == nil {
		fatal(logger, "serve", err)
	}
}
