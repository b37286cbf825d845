package server

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemow/glance/internal/store"
	"github.com/teemow/glance/internal/widgets"
)

func TestNew_RequiresCollaborators(t *testing.T) {
	h := newHarness(true)
	deps := widgets.Deps{Store: store.New()}
	dash := widgets.NewDashboard(nil, nil, nil, deps)

	_, err := New(Config{Dashboard: dash})
	assert.Error(t, err)

	_, err = New(Config{Auth: h.auth})
	assert.Error(t, err)
}

func TestMCPMount(t *testing.T) {
	h := newHarness(true)
	mcp := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	srv, err := New(Config{Auth: h.auth, Dashboard: h.dash, MCP: mcp})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, MCPPath, nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)

	rec = httptest.NewRecorder()
	h.server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, MCPPath, nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestStartAndShutdown(t *testing.T) {
	h := newHarness(true)
	srv, err := New(Config{Addr: "127.0.0.1:0", Auth: h.auth, Dashboard: h.dash})
	require.NoError(t, err)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	require.Eventually(t, func() bool {
		return srv.Addr() != "127.0.0.1:0"
	}, 2*time.Second, 10*time.Millisecond)

	resp, err := http.Get("http://" + srv.Addr() + "/healthz")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, srv.Shutdown(ctx))
	assert.True(t, errors.Is(<-errCh, http.ErrServerClosed))
}
