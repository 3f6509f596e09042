package api

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ldupont/messager/internal/session"
	"github.com/ldupont/messager/internal/testutil"
	"github.com/ldupont/messager/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestErrorHandler_PanicRecovery(t *testing.T) {
	buf := &bytes.Buffer{}
	app := &MessengerApp{
		log: testutil.TestLogger(t),
	}

	app.log.SetOutput(buf)

	// handler that panics
	panicHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic(errors.New("test panic"))
	})

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	handler := app.errorHandler(panicHandler)
	handler.ServeHTTP(rr, req)

	assert.Equal(t, "close", rr.Header().Get("Connection"))
	assert.Contains(t, buf.String(), "panic: test panic")
}

func Test_errorHandler_NoPanic(t *testing.T) {
	app := &MessengerApp{}

	// simple handler that does not panic
	called := false
	okHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	handler := app.errorHandler(okHandler)
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "ok", rr.Body.String())
	assert.True(t, called, "expected handler to be called")
}

func Test_bearerToken(t *testing.T) {
	tcases := []struct {
		name     string
		header   string
		expected string
		ok       bool
	}{
		{name: "no header", header: "", ok: false},
		{name: "wrong scheme", header: "Basic dXNlcjpwYXNz", ok: false},
		{name: "empty token", header: "Bearer ", ok: false},
		{name: "valid", header: "Bearer abc123", expected: "abc123", ok: true},
	}

	for _, tc := range tcases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}

			token, ok := bearerToken(req)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.expected, token)
		})
	}
}

func Test_authMiddleware(t *testing.T) {
	snapshot := types.User{
		Id:         1,
		Username:   "alice",
		Email:      "alice@example.com",
		ExternalId: "ext-1",
	}

	verifiedHandler := func(w http.ResponseWriter, r *http.Request) {
		user, ok := SessionUser(r.Context())
		if !ok {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		token, ok := SessionToken(r.Context())
		if !ok || token == "" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}

		assert.Equal(t, snapshot, user, "expected snapshot from the session store")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	}

	t.Run("valid token", func(t *testing.T) {
		sessions := &session.MockStore{}
		sessions.On("Get", mock.Anything, "valid-token").Return(snapshot, nil).Once()
		defer sessions.AssertExpectations(t)

		app := newTestApp(t, nil, sessions)

		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer valid-token")
		app.authMiddleware(verifiedHandler)(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "ok", rr.Body.String())
		assert.Equal(t, "no-store, no-cache, must-revalidate, private", rr.Header().Get("Cache-Control"))
	})

	t.Run("missing header", func(t *testing.T) {
		sessions := &session.MockStore{}
		defer sessions.AssertExpectations(t)

		app := newTestApp(t, nil, sessions)

		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		app.authMiddleware(verifiedHandler)(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("header without bearer prefix", func(t *testing.T) {
		sessions := &session.MockStore{}
		defer sessions.AssertExpectations(t)

		app := newTestApp(t, nil, sessions)

		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "token abc")
		app.authMiddleware(verifiedHandler)(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("unknown or expired token", func(t *testing.T) {
		sessions := &session.MockStore{}
		sessions.On("Get", mock.Anything, "stale-token").Return(types.User{}, session.ErrNotFound).Once()
		defer sessions.AssertExpectations(t)

		app := newTestApp(t, nil, sessions)

		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer stale-token")
		app.authMiddleware(verifiedHandler)(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("session store failure", func(t *testing.T) {
		sessions := &session.MockStore{}
		sessions.On("Get", mock.Anything, "any-token").Return(types.User{}, errors.New("redis down")).Once()
		defer sessions.AssertExpectations(t)

		buf := &bytes.Buffer{}
		app := newTestApp(t, nil, sessions)
		app.log.SetOutput(buf)

		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer any-token")
		app.authMiddleware(verifiedHandler)(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.Contains(t, buf.String(), "session lookup failed")
	})
}
