package auth

import (
	"errors"
	"time"

	"lactalog-backend/internal/config"
	"lactalog-backend/internal/models"
	"lactalog-backend/internal/timeutil"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the dashboard's own session token. It never carries the upstream
// bearer token; that stays server-side in the session store, keyed by
// SessionID.
type Claims struct {
	SessionID string `json:"session_id"`
	UserID    int    `json:"user_id"`
	Email     string `json:"email"`
	Role      int    `json:"role"`
	ClienteID int    `json:"cliente_id,omitempty"`
	jwt.RegisteredClaims
}

type JWTManager struct {
	cfg *config.Config
}

func NewJWTManager(cfg *config.Config) *JWTManager {
	return &JWTManager{cfg: cfg}
}

// GenerateToken creates a new JWT for an authenticated session
func (j *JWTManager) GenerateToken(sessionID string, user *models.User) (string, error) {
	now := timeutil.Now()
	expirationTime := now.Add(time.Duration(j.cfg.JWT.ExpirationHours) * time.Hour)

	claims := &Claims{
		SessionID: sessionID,
		UserID:    user.UserID,
		Email:     user.Email,
		Role:      user.Role,
		ClienteID: user.ClienteID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expirationTime),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    j.cfg.JWT.Issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(j.cfg.JWT.Secret))
}

// ValidateToken verifies a JWT and returns the claims
func (j *JWTManager) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		// Verify signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return []byte(j.cfg.JWT.Secret), nil
	})

	if err != nil {
		return nil, err
	}

	if !token.Valid {
		return nil, errors.New("invalid token")
	}

	return claims, nil
}
