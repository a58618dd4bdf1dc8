package mcpquic

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/client/transport"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/quic-go/quic-go"
)

// Client is an initialized MCP session over QUIC.
type Client struct {
	conn   *quic.Conn
	stream *quic.Stream
	mcp    *client.Client
}

// Dial connects to addr, sends the preamble and performs the MCP
// initialize handshake. A nil tlsCfg skips certificate verification.
func Dial(ctx context.Context, addr string, tlsCfg *tls.Config, version string) (*Client, error) {
	if tlsCfg == nil {
		tlsCfg = ClientTLSConfig(true)
	}
	conn, err := quic.DialAddr(ctx, addr, tlsCfg, QUICConfig())
	if err != nil {
		return nil, fmt.Errorf("quic dial %s: %w", addr, err)
	}
	if alpn := conn.ConnectionState().TLS.NegotiatedProtocol; alpn != ALPN {
		conn.CloseWithError(ConnErrorUnsupportedALPN, "unsupported ALPN")
		return nil, fmt.Errorf("%w: got %q", ErrUnsupportedALPN, alpn)
	}

	stream, err := conn.OpenStreamSync(ctx)
	if err != nil {
		conn.CloseWithError(ConnErrorProtocolViolation, "open stream")
		return nil, fmt.Errorf("open stream: %w", err)
	}
	c := &Client{conn: conn, stream: stream}
	if err := writePreamble(stream); err != nil {
		c.closeTransport()
		return nil, err
	}

	mc := client.NewClient(transport.NewIO(stream, streamWriter{stream}, nopReadCloser{}))
	if err := mc.Start(ctx); err != nil {
		c.closeTransport()
		return nil, fmt.Errorf("mcp start: %w", err)
	}

	initReq := mcp.InitializeRequest{}
	initReq.Params.ProtocolVersion = mcp.LATEST_PROTOCOL_VERSION
	initReq.Params.ClientInfo = mcp.Implementation{Name: "artikel-query", Version: version}

	initCtx, cancel := context.WithTimeout(ctx, handshakeTimeout)
	defer cancel()
	if _, err := mc.Initialize(initCtx, initReq); err != nil {
		mc.Close()
		c.closeTransport()
		return nil, fmt.Errorf("mcp initialize: %w", err)
	}
	c.mcp = mc
	return c, nil
}

// ListTools returns the tools the server exposes.
func (c *Client) ListTools(ctx context.Context) (*mcp.ListToolsResult, error) {
	if c.mcp == nil {
		return nil, ErrNotConnected
	}
	return c.mcp.ListTools(ctx, mcp.ListToolsRequest{})
}

// CallTool invokes a tool by name.
func (c *Client) CallTool(ctx context.Context, name string, args map[string]any) (*mcp.CallToolResult, error) {
	if c.mcp == nil {
		return nil, ErrNotConnected
	}
	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args
	return c.mcp.CallTool(ctx, req)
}

// Close ends the session and the QUIC connection.
func (c *Client) Close() error {
	if c.mcp != nil {
		c.mcp.Close()
		c.mcp = nil
	}
	c.closeTransport()
	return nil
}

func (c *Client) closeTransport() {
	if c.stream != nil {
		c.stream.Close()
	}
	if c.conn != nil {
		c.conn.CloseWithError(ConnErrorNoError, "client closing")
	}
}

type streamWriter struct{ s *quic.Stream }

func (w streamWriter) Write(p []byte) (int, error) { return w.s.Write(p) }
func (w streamWriter) Close() error                { return w.s.Close() }

type nopReadCloser struct{}

func (nopReadCloser) Read([]byte) (int, error) { return 0, io.EOF }
func (nopReadCloser) Close() error             { return nil }
