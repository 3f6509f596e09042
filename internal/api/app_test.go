package api

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/ldupont/messager/internal/config"
	"github.com/ldupont/messager/internal/database"
	"github.com/ldupont/messager/internal/session"
	"github.com/ldupont/messager/internal/stats"
	"github.com/ldupont/messager/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newTestApp(t *testing.T, db database.Repository, sessions session.Store) *MessengerApp {
	t.Helper()
	return NewMessengerApp(
		http.NewServeMux(),
		testutil.TestLogger(t),
		db,
		sessions,
		nil,
		&config.Config{ServerAddr: "localhost:8000"},
	)
}

func TestNewMessengerApp(t *testing.T) {
	mux := http.NewServeMux()
	logger := testutil.TestLogger(t)
	db := &database.MockRepository{}
	sessions := &session.MockStore{}
	statsUpdater := &stats.MockStatsUpdater{}
	statsUpdater.On("RegisterMetric", mock.AnythingOfType("string")).Times(5)
	defer statsUpdater.AssertExpectations(t)

	cfg := &config.Config{
		ServerAddr:     "localhost:8080",
		DatabaseDSN:    "dsn",
		RedisAddr:      "localhost:6379",
		AllowedOrigins: []string{"http://localhost:3000"},
	}

	app := NewMessengerApp(mux, logger, db, sessions, statsUpdater, cfg)

	assert.NotNil(t, app, "expected app to be initialized")
	assert.NotNil(t, app.mux, "expected server to be initialized")
	assert.Equal(t, app.log, logger, "expected logger to be set")
	assert.Equal(t, app.db, db, "expected db to be set")
	assert.Equal(t, app.sessions, sessions, "expected session store to be set")
	assert.Equal(t, app.mux.Addr, cfg.ServerAddr, "expected server address to match config")

	routes := []struct {
		method  string
		path    string
		pattern string
	}{
		{http.MethodPost, "/login", "POST /login"},
		{http.MethodPost, "/register", "POST /register"},
		{http.MethodPost, "/logout", "POST /logout"},
		{http.MethodGet, "/session", "GET /session"},
		{http.MethodGet, "/users", "GET /users"},
		{http.MethodGet, "/conversations", "GET /conversations"},
		{http.MethodGet, "/messages", "GET /messages"},
		{http.MethodPost, "/message", "POST /message"},
		{http.MethodGet, "/rooms", "GET /rooms"},
		{http.MethodGet, "/room-messages", "GET /room-messages"},
		{http.MethodPost, "/room-messages", "POST /room-messages"},
		{http.MethodGet, "/healthz", "GET /healthz"},
	}

	for _, rt := range routes {
		_, pattern := mux.Handler(&http.Request{URL: &url.URL{Path: rt.path}, Method: rt.method})
		assert.Equal(t, rt.pattern, pattern, "expected %s %s to be registered", rt.method, rt.path)
	}
}
