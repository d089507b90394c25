// Package testserver runs the full dashboard stack behind httptest for
// end-to-end tests.
package testserver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"

	"github.com/ganot/rbm-dashboard/internal/app"
	"github.com/ganot/rbm-dashboard/internal/config"
	"github.com/ganot/rbm-dashboard/internal/sqlite"
)

type TestServer struct {
	Server *httptest.Server
	App    *app.App
	DB     *sqlite.DB
}

// New starts a server over an in-memory SQLite database private to the test.
func New(t *testing.T) *TestServer {
	return NewWithConfig(t, config.Default())
}

// NewWithConfig is New with a caller-supplied config. Storage settings are
// ignored.
func NewWithConfig(t *testing.T, cfg config.Config) *TestServer {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := sqlite.New(dsn)
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())

	a := app.Build(cfg, sqlite.NewBlobStore(db), nil, db.Close)
	server := httptest.NewServer(a.Handler())

	t.Cleanup(func() {
		server.Close()
		_ = a.Close()
	})

	return &TestServer{Server: server, App: a, DB: db}
}

// URL joins path onto the server's base URL.
func (ts *TestServer) URL(path string) string {
	return ts.Server.URL + path
}

// Get fetches path and decodes the JSON response into out, returning the
// status code.
func (ts *TestServer) Get(t *testing.T, path string, out any) int {
	t.Helper()
	resp, err := http.Get(ts.URL(path))
	require.NoError(t, err)
	return decode(t, resp, out)
}

// PostJSON posts body as JSON and decodes the JSON response into out.
func (ts *TestServer) PostJSON(t *testing.T, path string, body any, out any) int {
	t.Helper()
	var payload []byte
	switch b := body.(type) {
	case string:
		payload = []byte(b)
	default:
		var err error
		payload, err = json.Marshal(body)
		require.NoError(t, err)
	}

	resp, err := http.Post(ts.URL(path), "application/json", bytes.NewReader(payload))
	require.NoError(t, err)
	return decode(t, resp, out)
}

// Do sends req and decodes the JSON response into out.
func (ts *TestServer) Do(t *testing.T, req *http.Request, out any) int {
	t.Helper()
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return decode(t, resp, out)
}

// ConnectMCP opens an MCP client session against /mcp.
func (ts *TestServer) ConnectMCP(t *testing.T) *sdkmcp.ClientSession {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	t.Cleanup(cancel)

	client := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "test-client", Version: "1.0.0"}, nil)
	session, err := client.Connect(ctx, &sdkmcp.StreamableClientTransport{Endpoint: ts.URL("/mcp")}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = session.Close() })
	return session
}

func decode(t *testing.T, resp *http.Response, out any) int {
	t.Helper()
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if out != nil && len(body) > 0 {
		require.NoError(t, json.Unmarshal(body, out), "body: %s", body)
	}
	return resp.StatusCode
}
