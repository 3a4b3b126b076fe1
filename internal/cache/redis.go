package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"lactalog-backend/internal/config"

	"github.com/redis/go-redis/v9"
)

var (
	redisClient *redis.Client
	ctx         = context.Background()
)

// SessionRecord is the cached shape of a login session. Keeping it here, not
// in the session package, avoids an import cycle (session depends on cache).
type SessionRecord struct {
	Token     string    `json:"token"`
	Email     string    `json:"email"`
	Password  string    `json:"password,omitempty"`
	UserID    int       `json:"user_id"`
	Name      string    `json:"name"`
	Role      int       `json:"role"`
	ClienteID int       `json:"cliente_id"`
	ExpiresAt time.Time `json:"expires_at"`
}

// InitRedis initializes the Redis connection. The cache is optional: when
// Redis is unreachable sessions live in process memory only and do not
// survive a restart.
func InitRedis(cfg *config.Config) {
	if cfg.Redis.Host == "" {
		log.Println("[Redis] No host configured, session cache disabled")
		return
	}

	addr := fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port)
	redisClient = redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: cfg.Redis.Password,
		DB:       0,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if err := redisClient.Ping(pingCtx).Err(); err != nil {
		log.Printf("[Redis] Connection failed (%v), session cache disabled", err)
		redisClient = nil
		return
	}

	log.Printf("[Redis] Connected to %s", addr)
}

func sessionKey(sessionID string) string {
	return "session:" + sessionID
}

// SaveSession stores a session record with the given TTL.
func SaveSession(sessionID string, rec *SessionRecord, ttl time.Duration) {
	if redisClient == nil {
		return
	}

	data, err := json.Marshal(rec)
	if err != nil {
		log.Printf("[Redis] Failed to marshal session %s: %v", sessionID, err)
		return
	}

	if err := redisClient.Set(ctx, sessionKey(sessionID), data, ttl).Err(); err != nil {
		log.Printf("[Redis] Failed to save session %s: %v", sessionID, err)
	}
}

// GetSession looks up a session record. Returns nil when the cache is
// disabled or the session is not present.
func GetSession(sessionID string) *SessionRecord {
	if redisClient == nil {
		return nil
	}

	data, err := redisClient.Get(ctx, sessionKey(sessionID)).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Printf("[Redis] Failed to read session %s: %v", sessionID, err)
		}
		return nil
	}

	var rec SessionRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		log.Printf("[Redis] Corrupt session record %s: %v", sessionID, err)
		return nil
	}

	return &rec
}

// DeleteSession removes a session record.
func DeleteSession(sessionID string) {
	if redisClient == nil {
		return
	}

	if err := redisClient.Del(ctx, sessionKey(sessionID)).Err(); err != nil {
		log.Printf("[Redis] Failed to delete session %s: %v", sessionID, err)
	}
}

// Close shuts down the Redis connection.
func Close() {
	if redisClient != nil {
		redisClient.Close()
	}
}
