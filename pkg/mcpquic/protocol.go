// Package mcpquic carries MCP JSON-RPC over a single bidirectional QUIC
// stream. A connection negotiates the artikel-mcp-v1 ALPN, the client
// writes a 4-byte preamble, and each message is one newline-terminated
// JSON line in either direction.
package mcpquic

import (
	"bytes"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/quic-go/quic-go"
)

const (
	ALPN     = "artikel-mcp-v1"
	Preamble = "ART1"

	// MaxLineSize bounds a single JSON-RPC message. A batch of 100 words
	// with full results stays far below it.
	MaxLineSize = 1 << 20

	IdleTimeout      = 5 * time.Minute
	KeepAlive        = 30 * time.Second
	handshakeTimeout = 10 * time.Second
)

// Stream error codes.
const (
	StreamErrorBadPreamble     quic.StreamErrorCode = 0x02
	StreamErrorMessageTooLarge quic.StreamErrorCode = 0x03
)

// Connection error codes.
const (
	ConnErrorNoError           quic.ApplicationErrorCode = 0x00
	ConnErrorUnsupportedALPN   quic.ApplicationErrorCode = 0x01
	ConnErrorProtocolViolation quic.ApplicationErrorCode = 0x03
)

var (
	ErrBadPreamble     = errors.New("mcpquic: bad preamble, expected " + Preamble)
	ErrUnsupportedALPN = errors.New("mcpquic: " + ALPN + " not negotiated")
	ErrNotConnected    = errors.New("mcpquic: client not connected")
)

// QUICConfig returns the transport settings shared by the listener, the
// chassis and the client.
func QUICConfig() *quic.Config {
	return &quic.Config{
		HandshakeIdleTimeout:       handshakeTimeout,
		MaxStreamReceiveWindow:     4 * MaxLineSize,
		MaxConnectionReceiveWindow: 16 * MaxLineSize,
		MaxIdleTimeout:             IdleTimeout,
		KeepAlivePeriod:            KeepAlive,
	}
}

// ClientTLSConfig offers only the MCP ALPN. insecure skips certificate
// verification for self-signed development servers.
func ClientTLSConfig(insecure bool) *tls.Config {
	return &tls.Config{
		NextProtos:         []string{ALPN},
		MinVersion:         tls.VersionTLS13,
		InsecureSkipVerify: insecure,
	}
}

func writePreamble(w io.Writer) error {
	if _, err := io.WriteString(w, Preamble); err != nil {
		return fmt.Errorf("write preamble: %w", err)
	}
	return nil
}

func readPreamble(r io.Reader) error {
	buf := make([]byte, len(Preamble))
	if _, err := io.ReadFull(r, buf); err != nil {
		return fmt.Errorf("read preamble: %w", err)
	}
	if !bytes.Equal(buf, []byte(Preamble)) {
		return fmt.Errorf("%w: got %q", ErrBadPreamble, buf)
	}
	return nil
}
