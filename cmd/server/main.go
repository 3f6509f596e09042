package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/ldupont/messager/internal/api"
	"github.com/ldupont/messager/internal/config"
	"github.com/ldupont/messager/internal/database"
	"github.com/ldupont/messager/internal/session"
	"github.com/ldupont/messager/internal/stats"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
)

type stringSliceFlag []string

func (s *stringSliceFlag) String() string {
	return strings.Join(*s, ",")
}

func (s *stringSliceFlag) Set(value string) error {
	*s = append(*s, strings.Split(value, ",")...)
	return nil
}

var (
	addr           string
	dsn            string
	redisAddr      string
	redisPassword  string
	sessionTTL     int
	allowedOrigins stringSliceFlag
)

func main() {
	flag.StringVar(&addr, "addr", "localhost:8000", "server address")
	flag.StringVar(&dsn, "dsn", "host=localhost user=postgres password=postgres dbname=postgres sslmode=disable", "database connection string")
	flag.StringVar(&redisAddr, "redis-addr", "localhost:6379", "redis address for the session store")
	flag.StringVar(&redisPassword, "redis-password", "", "redis password")
	flag.IntVar(&sessionTTL, "session-ttl", 3600, "session lifetime in seconds")
	flag.Var(&allowedOrigins, "allowed-origins", "comma-separated list of allowed origins for CORS")
	flag.Parse()

	logger := log.New(os.Stderr, "[messager] ", log.LstdFlags)

	cfg, err := config.NewConfig(addr, dsn, redisAddr, redisPassword, sessionTTL, allowedOrigins)
	if err != nil {
		logger.Fatal("config:", err)
	}

	repo, err := database.NewPgRepository(cfg.DatabaseDSN)
	if err != nil {
		logger.Fatal("db open:", err)
	}
	defer func() {
		if err := repo.Close(); err != nil {
			logger.Fatal("db close:", err)
		}
	}()

	if err := repo.Migrate(); err != nil {
		logger.Fatal("migrate:", err)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	defer rdb.Close()

	pingCtx, cancelPing := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelPing()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		logger.Fatal("redis ping:", err)
	}

	sessionStore := session.NewRedisStore(rdb, cfg.SessionTTL)

	mux := http.NewServeMux()

	statsUpdater := stats.NewStatsUpdater(mux)

	app := api.NewMessengerApp(mux, logger, repo, sessionStore, statsUpdater, cfg)

	statsUpdater.Run()
	defer statsUpdater.Stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- app.Start()
	}()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigs:
		logger.Printf("received signal: %s\n", sig)
	case err := <-errCh:
		logger.Println("server:", err)
	}

	shutDownCtx, cancel := context.WithTimeout(
		context.Background(),
		10*time.Second,
	)
	defer cancel()

	if err := app.Shutdown(shutDownCtx); err != nil {
		logger.Fatalln("HTTP server shutdown:", err)
	}

	logger.Println("shutdown complete")
}
