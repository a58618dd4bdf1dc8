// Package chassis runs the artikel API on one port over two transports:
//
//   - TCP: HTTP/1.1 and HTTP/2 over TLS
//   - UDP: QUIC, demultiplexed by ALPN
//     "h3"             -> HTTP/3, same handler as TCP
//     "artikel-mcp-v1" -> MCP JSON-RPC over a QUIC stream
//
// TCP responses advertise HTTP/3 through Alt-Svc. Without cert files a
// self-signed ECDSA P-256 certificate is generated at startup.
package chassis

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"

	"github.com/hazyhaar/artikel/pkg/mcpquic"
	"github.com/mark3labs/mcp-go/server"
	"github.com/quic-go/quic-go"
	"github.com/quic-go/quic-go/http3"
)

const (
	connErrorMCPDisabled     quic.ApplicationErrorCode = 0x10
	connErrorUnsupportedALPN quic.ApplicationErrorCode = 0x11
)

// Server is the dual-transport chassis.
type Server struct {
	addr       string
	logger     *slog.Logger
	tlsCfg     *tls.Config
	handler    http.Handler
	mcpHandler *mcpquic.Handler

	mu        sync.Mutex
	tcpServer *http.Server
	h3Server  *http3.Server
	quicLn    *quic.Listener
}

// Config holds configuration for the chassis server.
type Config struct {
	Addr      string            // TCP and UDP listen address, e.g. ":8443"
	TLS       *tls.Config       // overrides CertFile/KeyFile when set
	CertFile  string            // empty = self-signed
	KeyFile   string
	Handler   http.Handler      // REST API
	MCPServer *server.MCPServer // nil disables MCP over QUIC
	Logger    *slog.Logger
}

// New prepares a Server. Nothing is bound until Start.
func New(cfg Config) (*Server, error) {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	logger := cfg.Logger.With("component", "chassis")

	tlsCfg := cfg.TLS
	if tlsCfg == nil {
		var err error
		if cfg.CertFile != "" && cfg.KeyFile != "" {
			tlsCfg, err = ProductionTLSConfig(cfg.CertFile, cfg.KeyFile)
			if err != nil {
				return nil, fmt.Errorf("load TLS cert: %w", err)
			}
			logger.Info("TLS certificate loaded", "cert", cfg.CertFile)
		} else {
			tlsCfg, err = DevelopmentTLSConfig()
			if err != nil {
				return nil, fmt.Errorf("generate dev TLS: %w", err)
			}
			logger.Warn("TLS: using a self-signed development certificate")
		}
	}

	s := &Server{
		addr:    cfg.Addr,
		logger:  logger,
		tlsCfg:  tlsCfg,
		handler: cfg.Handler,
	}
	if cfg.MCPServer != nil {
		s.mcpHandler = mcpquic.NewHandler(cfg.MCPServer, cfg.Logger)
	}
	return s, nil
}

// securityHeaders adds the standard headers for a JSON API.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "no-referrer")
		h.Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")
		next.ServeHTTP(w, r)
	})
}

// altSvc advertises HTTP/3 on the port of addr.
func altSvc(addr string, next http.Handler) http.Handler {
	_, port, _ := net.SplitHostPort(addr)
	if port == "" {
		port = "8443"
	}
	value := fmt.Sprintf(`h3=":%s"; ma=86400`, port)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Alt-Svc", value)
		next.ServeHTTP(w, r)
	})
}

// Start binds both listeners and blocks until ctx is cancelled or a
// listener fails.
func (s *Server) Start(ctx context.Context) error {
	handler := securityHeaders(altSvc(s.addr, s.handler))

	tcpTLS := s.tlsCfg.Clone()
	tcpTLS.NextProtos = []string{"h2", "http/1.1"}

	quicTLS := s.tlsCfg.Clone()
	quicTLS.NextProtos = []string{http3.NextProtoH3, mcpquic.ALPN}

	ln, err := quic.ListenAddr(s.addr, quicTLS, mcpquic.QUICConfig())
	if err != nil {
		return fmt.Errorf("QUIC listen: %w", err)
	}
	tcpLn, err := tls.Listen("tcp", s.addr, tcpTLS)
	if err != nil {
		ln.Close()
		return fmt.Errorf("TCP listen: %w", err)
	}

	s.mu.Lock()
	s.quicLn = ln
	s.tcpServer = &http.Server{Handler: handler, TLSConfig: tcpTLS}
	s.h3Server = &http3.Server{Handler: handler}
	tcpServer := s.tcpServer
	s.mu.Unlock()

	s.logger.Info("chassis started", "addr", s.addr, "mcp_quic", s.mcpHandler != nil)

	errCh := make(chan error, 2)
	go func() {
		if err := tcpServer.Serve(tcpLn); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("TCP: %w", err)
		}
	}()
	go func() {
		if err := s.acceptQUIC(ctx, ln); err != nil {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		return nil
	case err := <-errCh:
		return err
	}
}

// acceptQUIC dispatches each QUIC connection by its negotiated ALPN.
func (s *Server) acceptQUIC(ctx context.Context, ln *quic.Listener) error {
	for {
		conn, err := ln.Accept(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, quic.ErrServerClosed) {
				return nil
			}
			return fmt.Errorf("QUIC accept: %w", err)
		}

		switch alpn := conn.ConnectionState().TLS.NegotiatedProtocol; alpn {
		case http3.NextProtoH3:
			go func() {
				if err := s.h3Server.ServeQUICConn(conn); err != nil {
					s.logger.Debug("HTTP/3 connection done", "remote", conn.RemoteAddr(), "error", err)
				}
			}()
		case mcpquic.ALPN:
			if s.mcpHandler == nil {
				conn.CloseWithError(connErrorMCPDisabled, "MCP not enabled")
				continue
			}
			go s.mcpHandler.ServeConn(ctx, conn)
		default:
			s.logger.Warn("unsupported ALPN", "alpn", alpn, "remote", conn.RemoteAddr())
			conn.CloseWithError(connErrorUnsupportedALPN, "unsupported ALPN: "+alpn)
		}
	}
}

// Stop shuts down both transports.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var errs []error
	if s.tcpServer != nil {
		errs = append(errs, s.tcpServer.Shutdown(ctx))
	}
	if s.h3Server != nil {
		errs = append(errs, s.h3Server.Close())
	}
	if s.quicLn != nil {
		errs = append(errs, s.quicLn.Close())
	}
	s.logger.Info("chassis stopped")
	return errors.Join(errs...)
}
