package session

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"lactalog-backend/internal/auth"
	"lactalog-backend/internal/config"
	"lactalog-backend/internal/models"
	"lactalog-backend/internal/timeutil"
	"lactalog-backend/internal/upstream"
)

var (
	// ErrInvalidCredentials is returned when the upstream rejects the
	// password grant.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrAccessDenied is returned for driver accounts, which exist only as
	// transport references and must not use the dashboard.
	ErrAccessDenied = errors.New("access denied for this account")

	// ErrProfileNotFound is returned when authentication succeeds but no
	// user record matches the login email.
	ErrProfileNotFound = errors.New("no profile found for this account")
)

// Manager performs logins against the upstream API and manages the
// resulting dashboard sessions.
type Manager struct {
	cfg    *config.Config
	client *upstream.Client
	store  *Store
	jwt    *auth.JWTManager
}

func NewManager(cfg *config.Config, client *upstream.Client, store *Store, jwt *auth.JWTManager) *Manager {
	return &Manager{cfg: cfg, client: client, store: store, jwt: jwt}
}

func (m *Manager) Store() *Store {
	return m.store
}

// Login authenticates against the upstream, resolves the user's profile by
// email, and creates a dashboard session. When remember is set the
// credentials are kept so the session can renew its upstream token after
// expiry; otherwise the session ends when the token does.
func (m *Manager) Login(ctx context.Context, email, password string, remember bool) (string, *models.AuthResponse, error) {
	token, err := m.client.PasswordGrant(ctx, email, password)
	if err != nil {
		if errors.Is(err, upstream.ErrAuthenticationFailed) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}

	gwEmail, gwPassword := email, password
	if !remember {
		gwEmail, gwPassword = "", ""
	}
	gw := m.client.NewGateway(token, gwEmail, gwPassword)

	user, err := m.resolveProfile(ctx, gw, email)
	if err != nil {
		return "", nil, err
	}

	if user.Role == models.RoleDriver {
		log.Printf("[Session] Login denied for driver account %s", email)
		return "", nil, ErrAccessDenied
	}
	// A client account must be bound to a cliente or it cannot be scoped.
	if user.Role == models.RoleCliente && user.ClienteID == 0 {
		log.Printf("[Session] Login denied for unbound client account %s", email)
		return "", nil, ErrAccessDenied
	}

	sessionID, err := newSessionID()
	if err != nil {
		return "", nil, err
	}

	rec := &Record{
		SessionID: sessionID,
		UserID:    user.UserID,
		Name:      user.Name,
		Email:     user.Email,
		Role:      user.Role,
		ClienteID: user.ClienteID,
		Gateway:   gw,
		ExpiresAt: timeutil.Now().Add(m.store.TTL()),
	}
	m.store.Put(rec)

	jwtToken, err := m.jwt.GenerateToken(sessionID, user)
	if err != nil {
		m.store.Delete(sessionID)
		return "", nil, err
	}

	log.Printf("[Session] User %s logged in (role %d)", user.Email, user.Role)

	return sessionID, &models.AuthResponse{
		Token:     jwtToken,
		UserID:    user.UserID,
		Name:      user.Name,
		Role:      user.Role,
		ClienteID: user.ClienteID,
	}, nil
}

// resolveProfile finds the user record whose email matches the login email.
// The upstream token endpoint does not return the profile, so it has to be
// looked up from the user list.
func (m *Manager) resolveProfile(ctx context.Context, gw *upstream.Gateway, email string) (*models.User, error) {
	users, err := gw.ListUsers(ctx)
	if err != nil {
		return nil, err
	}

	for _, u := range users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return nil, ErrProfileNotFound
}

// Logout tears down a session.
func (m *Manager) Logout(sessionID string) {
	m.store.Delete(sessionID)
	log.Printf("[Session] Session %s logged out", sessionID)
}

// Resolve validates a dashboard JWT and returns the live session record.
func (m *Manager) Resolve(tokenString string) (*Record, error) {
	claims, err := m.jwt.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}

	rec, ok := m.store.Get(claims.SessionID)
	if !ok {
		return nil, errors.New("session expired")
	}
	return rec, nil
}

// Ping reports whether the upstream API is reachable.
func (m *Manager) Ping(ctx context.Context) bool {
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return m.client.Ping(pingCtx)
}
