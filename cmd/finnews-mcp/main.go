// Command finnews-mcp bridges a stdio MCP client (such as a desktop
// assistant) to a running finnews-server over HTTP. Each newline-delimited
// JSON-RPC message on stdin is posted to the server's /mcp endpoint and the
// response echoed to stdout.
package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

const (
	defaultServerURL = "http://localhost:4270"
	requestTimeout   = 120 * time.Second

	// Tool results can carry large markdown tables.
	maxMessageSize = 10 * 1024 * 1024
)

// StdioProxy forwards JSON-RPC messages between a stdio pair and the HTTP
// MCP endpoint.
type StdioProxy struct {
	endpoint   string
	httpClient *http.Client
}

// NewStdioProxy creates a proxy targeting serverURL's /mcp endpoint.
func NewStdioProxy(serverURL string) *StdioProxy {
	return &StdioProxy{
		endpoint: serverURL + "/mcp",
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
	}
}

func main() {
	serverURL := os.Getenv("FINNEWS_SERVER_URL")
	if serverURL == "" {
		serverURL = defaultServerURL
	}

	proxy := NewStdioProxy(serverURL)
	if err := proxy.Run(os.Stdin, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "proxy error: %v\n", err)
		os.Exit(1)
	}
}

// Run reads newline-delimited JSON-RPC from r until EOF, forwarding each
// message and writing one response line per message. A transport failure is
// reported to the client as a JSON-RPC error rather than terminating the
// stream.
func (p *StdioProxy) Run(r io.Reader, w io.Writer) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxMessageSize)

	for scanner.Scan() {
		msg := bytes.TrimSpace(scanner.Bytes())
		if len(msg) == 0 {
			continue
		}

		resp, err := p.forward(msg)
		if err != nil {
			resp = transportError(msg, err)
		}

		w.Write(resp)
		w.Write([]byte("\n"))
	}

	return scanner.Err()
}

// forward posts one JSON-RPC message and returns the trimmed response body.
func (p *StdioProxy) forward(msg []byte) ([]byte, error) {
	resp, err := p.httpClient.Post(p.endpoint, "application/json", bytes.NewReader(msg))
	if err != nil {
		return nil, fmt.Errorf("server request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, string(body))
	}

	return bytes.TrimSpace(body), nil
}

// transportError builds a JSON-RPC error response carrying the original
// request id when one can be recovered.
func transportError(request []byte, cause error) []byte {
	var req struct {
		ID json.RawMessage `json:"id"`
	}
	id := json.RawMessage("null")
	if err := json.Unmarshal(request, &req); err == nil && req.ID != nil {
		id = req.ID
	}

	resp := map[string]interface{}{
		"jsonrpc": "2.0",
		"id":      id,
		"error": map[string]interface{}{
			"code":    -32000,
			"message": cause.Error(),
		},
	}
	data, _ := json.Marshal(resp)
	return data
}
