package session

import (
	"crypto/rand"
	"encoding/hex"
	"log"
	"sync"
	"time"

	"lactalog-backend/internal/cache"
	"lactalog-backend/internal/config"
	"lactalog-backend/internal/metrics"
	"lactalog-backend/internal/timeutil"
	"lactalog-backend/internal/upstream"
)

// Record holds everything the server keeps for one logged-in user: the
// resolved profile and the upstream gateway carrying the bearer token (and,
// for remembered sessions, the credentials used to renew it).
type Record struct {
	SessionID string
	UserID    int
	Name      string
	Email     string
	Role      int
	ClienteID int
	Gateway   *upstream.Gateway
	ExpiresAt time.Time
}

// Store is the in-memory session table, backed by the optional Redis cache
// so sessions survive a restart when Redis is available.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Record
	ttl      time.Duration
	client   *upstream.Client
}

func NewStore(cfg *config.Config, client *upstream.Client) *Store {
	return &Store{
		sessions: make(map[string]*Record),
		ttl:      time.Duration(cfg.Session.TTLMinutes) * time.Minute,
		client:   client,
	}
}

func (s *Store) TTL() time.Duration {
	return s.ttl
}

// newSessionID returns a random 128-bit hex identifier.
func newSessionID() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// Put registers a new session record and mirrors it to the cache.
func (s *Store) Put(rec *Record) {
	s.mu.Lock()
	s.sessions[rec.SessionID] = rec
	metrics.ActiveSessions.Set(float64(len(s.sessions)))
	s.mu.Unlock()

	email, password := rec.Gateway.Credentials()
	cache.SaveSession(rec.SessionID, &cache.SessionRecord{
		Token:     rec.Gateway.Token(),
		Email:     email,
		Password:  password,
		UserID:    rec.UserID,
		Name:      rec.Name,
		Role:      rec.Role,
		ClienteID: rec.ClienteID,
		ExpiresAt: rec.ExpiresAt,
	}, time.Until(rec.ExpiresAt))
}

// Get returns the record for a session ID, restoring it from the cache if
// the process restarted since login. Expired sessions are dropped.
func (s *Store) Get(sessionID string) (*Record, bool) {
	s.mu.RLock()
	rec, ok := s.sessions[sessionID]
	s.mu.RUnlock()

	if ok {
		if timeutil.Now().After(rec.ExpiresAt) {
			s.Delete(sessionID)
			return nil, false
		}
		return rec, true
	}

	cached := cache.GetSession(sessionID)
	if cached == nil {
		return nil, false
	}
	if timeutil.Now().After(cached.ExpiresAt) {
		cache.DeleteSession(sessionID)
		return nil, false
	}

	rec = &Record{
		SessionID: sessionID,
		UserID:    cached.UserID,
		Name:      cached.Name,
		Email:     cached.Email,
		Role:      cached.Role,
		ClienteID: cached.ClienteID,
		Gateway:   s.client.NewGateway(cached.Token, cached.Email, cached.Password),
		ExpiresAt: cached.ExpiresAt,
	}

	s.mu.Lock()
	// Another request may have restored it first; keep whichever is present.
	if existing, ok := s.sessions[sessionID]; ok {
		rec = existing
	} else {
		s.sessions[sessionID] = rec
	}
	metrics.ActiveSessions.Set(float64(len(s.sessions)))
	s.mu.Unlock()

	log.Printf("[Session] Restored session %s for %s from cache", sessionID, rec.Email)
	return rec, true
}

// Delete removes a session from memory and the cache.
func (s *Store) Delete(sessionID string) {
	s.mu.Lock()
	delete(s.sessions, sessionID)
	metrics.ActiveSessions.Set(float64(len(s.sessions)))
	s.mu.Unlock()

	cache.DeleteSession(sessionID)
}

// Count returns the number of sessions currently held in memory.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Sweep drops expired sessions. Meant to run periodically from main.
func (s *Store) Sweep() {
	now := timeutil.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	for id, rec := range s.sessions {
		if now.After(rec.ExpiresAt) {
			delete(s.sessions, id)
			cache.DeleteSession(id)
		}
	}
	metrics.ActiveSessions.Set(float64(len(s.sessions)))
}

// StartSweeper launches a background goroutine that expires sessions on an
// interval until stop is closed.
func (s *Store) StartSweeper(interval time.Duration, stop <-chan struct{}) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.Sweep()
			case <-stop:
				return
			}
		}
	}()
}
