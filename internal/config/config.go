package config

import (
	"fmt"
	"time"
)

// DefaultSessionTTL is how long an issued session token stays valid. Expiry
// is fixed from creation, not sliding.
const DefaultSessionTTL = 3600 * time.Second

type Config struct {
	ServerAddr     string
	DatabaseDSN    string
	RedisAddr      string
	RedisPassword  string
	SessionTTL     time.Duration
	AllowedOrigins []string
}

func NewConfig(serverAddr, databaseDSN, redisAddr, redisPassword string, sessionTTLSeconds int, allowedOrigins []string) (*Config, error) {
	if serverAddr == "" {
		return nil, fmt.Errorf("server address cannot be empty")
	}
	if databaseDSN == "" {
		return nil, fmt.Errorf("database DSN cannot be empty")
	}
	if redisAddr == "" {
		return nil, fmt.Errorf("redis address cannot be empty")
	}

	ttl := DefaultSessionTTL
	if sessionTTLSeconds > 0 {
		ttl = time.Duration(sessionTTLSeconds) * time.Second
	}

	return &Config{
		ServerAddr:     serverAddr,
		DatabaseDSN:    databaseDSN,
		RedisAddr:      redisAddr,
		RedisPassword:  redisPassword,
		SessionTTL:     ttl,
		AllowedOrigins: allowedOrigins,
	}, nil
}
