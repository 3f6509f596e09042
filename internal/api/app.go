package api

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/gorilla/handlers"
	"github.com/ldupont/messager/internal/config"
	"github.com/ldupont/messager/internal/database"
	"github.com/ldupont/messager/internal/session"
	"github.com/ldupont/messager/internal/stats"
)

type MessengerApp struct {
	log      *log.Logger
	db       database.Repository
	sessions session.Store
	stats    stats.StatsProvider
	mux      *http.Server
}

func NewMessengerApp(mux *http.ServeMux, logger *log.Logger, db database.Repository, sessions session.Store, statsProvider stats.StatsProvider, cfg *config.Config) *MessengerApp {
	s := &MessengerApp{
		log:      logger,
		db:       db,
		sessions: sessions,
		stats:    statsProvider,
	}

	mux.HandleFunc("POST /register", s.register)
	mux.HandleFunc("POST /login", s.login)
	mux.HandleFunc("POST /logout", s.authMiddleware(s.logout))
	mux.HandleFunc("GET /session", s.authMiddleware(s.session))
	mux.HandleFunc("GET /users", s.authMiddleware(s.listUsers))
	mux.HandleFunc("GET /conversations", s.authMiddleware(s.listConversations))
	mux.HandleFunc("GET /messages", s.authMiddleware(s.getMessages))
	mux.HandleFunc("POST /message", s.authMiddleware(s.postMessage))
	mux.HandleFunc("GET /rooms", s.authMiddleware(s.listRooms))
	mux.HandleFunc("GET /room-messages", s.authMiddleware(s.getRoomMessages))
	mux.HandleFunc("POST /room-messages", s.authMiddleware(s.postRoomMessage))
	mux.HandleFunc("GET /healthz", s.healthCheck)

	if statsProvider != nil {
		statsProvider.RegisterMetric(stats.Logins)
		statsProvider.RegisterMetric(stats.Registrations)
		statsProvider.RegisterMetric(stats.MessagesSent)
		statsProvider.RegisterMetric(stats.RoomMessagesSent)
		statsProvider.RegisterMetric(stats.UnauthorizedRequests)
	}

	h := handlers.CORS(
		handlers.MaxAge(3600),
		handlers.AllowedOrigins(cfg.AllowedOrigins),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Origin", "Content-Type", "Accept", "Authorization"}),
		handlers.AllowCredentials(),
	)(mux)

	h = s.errorHandler(h)

	srv := &http.Server{
		Addr:    cfg.ServerAddr,
		Handler: h,
	}

	s.mux = srv
	return s
}

func (s *MessengerApp) incr(name string) {
	if s.stats != nil {
		s.stats.Incr(name)
	}
}

func (s *MessengerApp) Start() error {
	s.log.Printf("starting server on %s\n", s.mux.Addr)
	return s.mux.ListenAndServe()
}

func (s *MessengerApp) Shutdown(ctx context.Context) error {
	s.log.Println("shutting down HTTP server...")
	if err := s.mux.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	return nil
}
