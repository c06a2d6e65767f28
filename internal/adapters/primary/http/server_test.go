package http

import (
	"context"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fredcamaral/vidspot/internal/adapters/secondary/renderer"
	"github.com/fredcamaral/vidspot/internal/domain/entities"
	"github.com/fredcamaral/vidspot/internal/domain/services"
	"github.com/fredcamaral/vidspot/internal/test/builders"
)

// getTestServerConfig returns a test server configuration
func getTestServerConfig() *entities.ServerConfig {
	return &entities.ServerConfig{
		Host:            "127.0.0.1",
		Port:            0,
		ReadTimeout:     5,
		WriteTimeout:    5,
		ShutdownTimeout: 2,
		CORSOrigins:     []string{"http://localhost:4180"},
	}
}

type serverFixture struct {
	server  *Server
	session *services.EditorSession
	player  *builders.FakePlayer
	clock   *builders.ManualClock
}

func newServerFixture(t *testing.T) *serverFixture {
	t.Helper()

	tmpl, err := renderer.NewTemplateRenderer()
	require.NoError(t, err)

	player := builders.NewFakePlayer(60)
	clock := builders.NewManualClock()
	session := services.NewEditorSession(player, services.SessionOptions{
		Clock: clock,
		NewID: builders.SequentialIDs("id"),
	})
	session.SetContainerSize(1000, 500)

	server := NewServer(session, tmpl, getTestServerConfig())
	server.SetLogger(NewHTTPLoggerWithLevel("test", false, entities.LogLevelError))

	return &serverFixture{server: server, session: session, player: player, clock: clock}
}

func TestNewServer(t *testing.T) {
	t.Run("creates server", func(t *testing.T) {
		f := newServerFixture(t)
		assert.NotNil(t, f.server.connMgr)
		assert.False(t, f.server.IsRunning())
		assert.Empty(t, f.server.URL())
	})

	t.Run("panics without config", func(t *testing.T) {
		assert.Panics(t, func() {
			NewServer(nil, nil, nil)
		})
	})

	t.Run("logging config", func(t *testing.T) {
		s := NewServerWithLogging(nil, nil, getTestServerConfig(), &entities.LoggingConfig{Level: "warn"})
		assert.Equal(t, entities.LogLevelWarn, s.logger.Level())
	})
}

func TestServerLifecycle(t *testing.T) {
	f := newServerFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, f.server.Start(ctx, 0, "127.0.0.1"))
	assert.True(t, f.server.IsRunning())
	assert.Regexp(t, `^http://127\.0\.0\.1:\d+$`, f.server.URL())

	t.Run("second start fails", func(t *testing.T) {
		assert.Error(t, f.server.Start(ctx, 0, "127.0.0.1"))
	})

	t.Run("serves the editor shell", func(t *testing.T) {
		resp, err := http.Get(f.server.URL() + "/")
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
		assert.Equal(t, "DENY", resp.Header.Get("X-Frame-Options"))
	})

	require.NoError(t, f.server.Stop(ctx))
	assert.False(t, f.server.IsRunning())
	assert.Error(t, f.server.Stop(ctx), "stopping twice fails")
}

func TestServerStartPortInUse(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer func() { _ = listener.Close() }()

	f := newServerFixture(t)
	port := listener.Addr().(*net.TCPAddr).Port

	err = f.server.Start(context.Background(), port, "127.0.0.1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "listening on")
	assert.False(t, f.server.IsRunning())
}

func TestListenURL(t *testing.T) {
	addr := &net.TCPAddr{IP: net.ParseIP("127.0.0.1"), Port: 4180}

	tests := []struct {
		host     string
		expected string
	}{
		{host: "127.0.0.1", expected: "http://127.0.0.1:4180"},
		{host: "localhost", expected: "http://localhost:4180"},
		{host: "", expected: "http://localhost:4180"},
		{host: "0.0.0.0", expected: "http://localhost:4180"},
		{host: "::1", expected: "http://[::1]:4180"},
	}

	for _, tt := range tests {
		t.Run(tt.host, func(t *testing.T) {
			assert.Equal(t, tt.expected, listenURL(addr, tt.host))
		})
	}
}

func TestServerClosesClientsWhenSessionCloses(t *testing.T) {
	f := newServerFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, f.server.Start(ctx, 0, "127.0.0.1"))
	defer func() { _ = f.server.Stop(ctx) }()

	conn := dialEditor(t, f.server)
	defer func() { _ = conn.Close() }()
	require.Eventually(t, func() bool { return f.server.Connections() == 1 }, time.Second, 5*time.Millisecond)

	f.session.Close()

	waitForEvent(t, conn, entities.EventTypeSessionClosed)
	assert.Eventually(t, func() bool { return f.server.Connections() == 0 }, time.Second, 5*time.Millisecond)
}
