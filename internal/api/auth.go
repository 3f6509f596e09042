package api

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ldupont/messager/internal/database"
	"github.com/ldupont/messager/internal/stats"
	"github.com/ldupont/messager/internal/types"
	"github.com/teris-io/shortid"
	"golang.org/x/crypto/bcrypt"
)

const (
	minPasswordLength = 6
	// 128 bits of entropy, hex-encoded
	sessionTokenBytes = 16
)

type contextKey string

const (
	sessionUserKey  contextKey = "session-user"
	sessionTokenKey contextKey = "session-token"
)

// WithSession attaches the verified identity snapshot and its bearer token
// to the request context.
func WithSession(ctx context.Context, user types.User, token string) context.Context {
	ctx = context.WithValue(ctx, sessionUserKey, user)
	return context.WithValue(ctx, sessionTokenKey, token)
}

func SessionUser(ctx context.Context) (types.User, bool) {
	user, ok := ctx.Value(sessionUserKey).(types.User)
	return user, ok
}

func SessionToken(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(sessionTokenKey).(string)
	return token, ok
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SessionResponse is the body returned by both login and register.
type SessionResponse struct {
	Token string     `json:"token"`
	User  types.User `json:"user"`
}

func newSessionToken() (string, error) {
	buf := make([]byte, sessionTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}

	return hex.EncodeToString(buf), nil
}

func hashPassword(passwd string) (string, error) {
	passwdHash, err := bcrypt.GenerateFromPassword([]byte(passwd), bcrypt.DefaultCost)
	return string(passwdHash), err
}

func verifyPassword(passwdHash, passwd string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(passwdHash), []byte(passwd))
	return err == nil
}

// issueSession mints a fresh opaque token and caches the identity snapshot
// against it. Each login issues a distinct token; concurrent sessions per
// user are allowed.
func (s *MessengerApp) issueSession(ctx context.Context, user database.User) (string, types.User, error) {
	token, err := newSessionToken()
	if err != nil {
		return "", types.User{}, err
	}

	snapshot := types.User{
		Id:         user.Id,
		Username:   user.Username,
		Email:      user.Email,
		ExternalId: user.ExternalId,
	}

	if err := s.sessions.Put(ctx, token, snapshot); err != nil {
		return "", types.User{}, err
	}

	return token, snapshot, nil
}

func (s *MessengerApp) login(w http.ResponseWriter, r *http.Request) {
	var lr LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&lr); err != nil {
		errResp := NewBadRequestError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	if lr.Username == "" || lr.Password == "" {
		errResp := NewMissingFieldsError("username and password are required")
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	dbUser, err := s.db.GetAccountByUsername(r.Context(), lr.Username)
	if err != nil {
		var errResp *ApiError
		if errors.Is(err, sql.ErrNoRows) {
			// same response as a wrong password: don't reveal which was off
			errResp = NewInvalidCredentialsError()
		} else {
			errResp = NewInternalServerError(err)
			s.log.Println("get account:", err)
		}
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	if !verifyPassword(dbUser.PasswordHash, lr.Password) {
		errResp := NewInvalidCredentialsError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	if err := s.db.UpdateLastLogin(r.Context(), dbUser.Id); err != nil {
		s.log.Println("update last login:", err)
		errResp := NewInternalServerError(err)
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	token, snapshot, err := s.issueSession(r.Context(), dbUser)
	if err != nil {
		s.log.Println("issue session:", err)
		errResp := NewInternalServerError(err)
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	s.incr(stats.Logins)
	s.writeJson(w, http.StatusOK, SessionResponse{Token: token, User: snapshot})
}

func (s *MessengerApp) register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errResp := NewBadRequestError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	if req.Username == "" || req.Email == "" || req.Password == "" {
		errResp := NewMissingFieldsError("username, email and password are required")
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	if len(req.Password) < minPasswordLength {
		errResp := NewWeakPasswordError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	pwdHash, err := hashPassword(req.Password)
	if err != nil {
		errResp := NewInternalServerError(err)
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	externalId, err := shortid.Generate()
	if err != nil {
		s.log.Println("generate external id:", err)
		errResp := NewInternalServerError(err)
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	params := database.CreateAccountParams{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: pwdHash,
		ExternalId:   externalId,
	}

	newUser, err := s.db.CreateAccount(r.Context(), params)
	if err != nil {
		var errResp *ApiError
		if errors.Is(err, database.ErrAlreadyExists) {
			errResp = NewAlreadyExistsError()
		} else {
			errResp = NewInternalServerError(err)
			s.log.Println("create account:", err)
		}
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	token, snapshot, err := s.issueSession(r.Context(), newUser)
	if err != nil {
		s.log.Println("issue session:", err)
		errResp := NewInternalServerError(err)
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	s.incr(stats.Registrations)
	s.writeJson(w, http.StatusCreated, SessionResponse{Token: token, User: snapshot})
}

func (s *MessengerApp) logout(w http.ResponseWriter, r *http.Request) {
	token, ok := SessionToken(r.Context())
	if !ok {
		errResp := NewUnauthorizedError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	if err := s.sessions.Delete(r.Context(), token); err != nil {
		s.log.Println("delete session:", err)
		errResp := NewInternalServerError(err)
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// session echoes the cached identity snapshot. It deliberately does not
// re-read the user row: the session is a cache of identity, not a source of
// truth.
func (s *MessengerApp) session(w http.ResponseWriter, r *http.Request) {
	user, ok := SessionUser(r.Context())
	if !ok {
		errResp := NewUnauthorizedError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	s.writeJson(w, http.StatusOK, user)
}
