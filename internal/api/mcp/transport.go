package mcp

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
)

// maxLineSize is the largest single JSON-RPC message the stdio transport
// accepts. Tool arguments are small; 4 MiB leaves plenty of headroom.
const maxLineSize = 4 * 1024 * 1024

// StdioTransport serves MCP over newline-delimited JSON-RPC on stdin/stdout.
// Logs go to stderr so they never corrupt the protocol stream.
type StdioTransport struct {
	server *Server
	in     io.Reader
	out    io.Writer
	logger *log.Logger
}

// NewStdioTransport creates a transport bound to os.Stdin and os.Stdout.
func NewStdioTransport(server *Server) *StdioTransport {
	return &StdioTransport{
		server: server,
		in:     os.Stdin,
		out:    os.Stdout,
		logger: log.New(os.Stderr, "assistant-mcp: ", log.LstdFlags),
	}
}

// NewStdioTransportWithStreams creates a transport with explicit streams,
// used by tests.
func NewStdioTransportWithStreams(server *Server, in io.Reader, out io.Writer, logOut io.Writer) *StdioTransport {
	return &StdioTransport{
		server: server,
		in:     in,
		out:    out,
		logger: log.New(logOut, "assistant-mcp: ", log.LstdFlags),
	}
}

// Serve reads requests line by line until EOF or context cancellation.
func (t *StdioTransport) Serve(ctx context.Context) error {
	t.logger.Printf("session %s started", t.server.SessionID())

	scanner := bufio.NewScanner(t.in)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)

	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		resp := t.server.HandleRequest(ctx, line)
		if resp == nil {
			continue
		}
		if err := t.writeResponse(resp); err != nil {
			return fmt.Errorf("write response: %w", err)
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read request: %w", err)
	}
	t.logger.Printf("session %s closed", t.server.SessionID())
	return nil
}

func (t *StdioTransport) writeResponse(resp *JSONRPCResponse) error {
	data, err := json.Marshal(resp)
	if err != nil {
		// The response itself failed to serialize. Send a generic internal
		// error so the client is not left waiting.
		data, _ = json.Marshal(errorResponse(resp.ID, ErrCodeInternalError, "failed to serialize response"))
	}
	data = append(data, '\n')
	_, err = t.out.Write(data)
	return err
}
