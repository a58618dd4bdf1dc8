package mcpquic

import (
	"bufio"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"

	"github.com/google/uuid"
	"github.com/hazyhaar/artikel/pkg/kit"
	"github.com/mark3labs/mcp-go/server"
	"github.com/quic-go/quic-go"
)

// Handler serves MCP sessions on already-accepted QUIC connections. The
// chassis hands it every connection that negotiated ALPN.
type Handler struct {
	mcp    *server.MCPServer
	logger *slog.Logger
}

// NewHandler creates a Handler dispatching to srv.
func NewHandler(srv *server.MCPServer, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{mcp: srv, logger: logger.With("component", "mcpquic")}
}

// ServeConn runs one MCP session on the first stream the peer opens and
// returns when the stream or ctx ends. The connection is closed on return.
func (h *Handler) ServeConn(ctx context.Context, conn *quic.Conn) {
	remote := conn.RemoteAddr().String()
	log := h.logger.With("remote", remote)

	stream, err := conn.AcceptStream(ctx)
	if err != nil {
		log.Warn("accept stream", "error", err)
		conn.CloseWithError(ConnErrorProtocolViolation, "no stream")
		return
	}
	if err := readPreamble(stream); err != nil {
		log.Warn("rejecting connection", "error", err)
		stream.CancelRead(StreamErrorBadPreamble)
		stream.CancelWrite(StreamErrorBadPreamble)
		conn.CloseWithError(ConnErrorProtocolViolation, "bad preamble")
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sess := newSession("quic-"+uuid.NewString()[:8], stream)
	log = log.With("session", sess.id)
	if err := h.mcp.RegisterSession(ctx, sess); err != nil {
		log.Error("register session", "error", err)
		stream.Close()
		conn.CloseWithError(ConnErrorNoError, "session rejected")
		return
	}
	defer h.mcp.UnregisterSession(ctx, sess.id)

	ctx = kit.WithTransport(ctx, "mcp_quic")
	ctx = h.mcp.WithContext(ctx, sess)
	go sess.forwardNotifications(ctx)

	log.Info("session started")
	scanner := bufio.NewScanner(stream)
	scanner.Buffer(make([]byte, 0, 64*1024), MaxLineSize)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		resp := h.mcp.HandleMessage(ctx, json.RawMessage(line))
		if resp == nil {
			continue
		}
		if err := sess.send(resp); err != nil {
			log.Warn("write response", "error", err)
			break
		}
	}
	if err := scanner.Err(); err != nil {
		if errors.Is(err, bufio.ErrTooLong) {
			stream.CancelRead(StreamErrorMessageTooLarge)
		}
		if ctx.Err() == nil {
			log.Warn("read", "error", err)
		}
	}
	stream.Close()
	conn.CloseWithError(ConnErrorNoError, "session ended")
	log.Info("session ended")
}

// Listener is a standalone MCP-over-QUIC endpoint for deployments that
// do not run the chassis.
type Listener struct {
	ln      *quic.Listener
	handler *Handler
	logger  *slog.Logger
}

// Listen binds addr. tlsCfg must offer ALPN.
func Listen(addr string, tlsCfg *tls.Config, srv *server.MCPServer, logger *slog.Logger) (*Listener, error) {
	h := NewHandler(srv, logger)
	ln, err := quic.ListenAddr(addr, tlsCfg, QUICConfig())
	if err != nil {
		return nil, fmt.Errorf("quic listen %s: %w", addr, err)
	}
	h.logger.Info("listening", "addr", ln.Addr().String())
	return &Listener{ln: ln, handler: h, logger: h.logger}, nil
}

// Addr returns the bound UDP address.
func (l *Listener) Addr() net.Addr { return l.ln.Addr() }

// Serve accepts connections until ctx is cancelled or the listener closes.
func (l *Listener) Serve(ctx context.Context) error {
	for {
		conn, err := l.ln.Accept(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("quic accept: %w", err)
		}
		if alpn := conn.ConnectionState().TLS.NegotiatedProtocol; alpn != ALPN {
			conn.CloseWithError(ConnErrorUnsupportedALPN, "unsupported ALPN: "+alpn)
			continue
		}
		go l.handler.ServeConn(ctx, conn)
	}
}

// Close stops accepting connections.
func (l *Listener) Close() error {
	return l.ln.Close()
}
