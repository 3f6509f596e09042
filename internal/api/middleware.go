package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/ldupont/messager/internal/session"
	"github.com/ldupont/messager/internal/stats"
)

const bearerPrefix = "Bearer "

func (s *MessengerApp) errorHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				var panicError error
				switch e := err.(type) {
				case error:
					panicError = e
				default:
					panicError = fmt.Errorf("%v", e)
				}
				s.log.Printf("panic: %v", panicError)
				errResp := NewInternalServerError(panicError)
				w.Header().Set("Connection", "close")
				s.writeJson(w, errResp.StatusCode, errResp)
				return
			}
		}()

		next.ServeHTTP(w, r)
	})
}

// bearerToken extracts the token from an Authorization: Bearer header. A
// missing header, a different scheme, or an empty token all report false.
func bearerToken(r *http.Request) (string, bool) {
	authHeader := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(authHeader, bearerPrefix)
	if !ok || token == "" {
		return "", false
	}

	return token, true
}

// authMiddleware resolves the bearer token to a cached identity snapshot.
// Requests are rejected before any database work happens.
func (s *MessengerApp) authMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			s.incr(stats.UnauthorizedRequests)
			errResp := NewUnauthorizedError()
			s.writeJson(w, errResp.StatusCode, errResp)
			return
		}

		user, err := s.sessions.Get(r.Context(), token)
		if err != nil {
			if !errors.Is(err, session.ErrNotFound) {
				s.log.Printf("session lookup failed: %v", err)
			}
			s.incr(stats.UnauthorizedRequests)
			errResp := NewUnauthorizedError()
			s.writeJson(w, errResp.StatusCode, errResp)
			return
		}

		ctx := WithSession(r.Context(), user, token)
		w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate, private")

		next(w, r.WithContext(ctx))
	}
}
