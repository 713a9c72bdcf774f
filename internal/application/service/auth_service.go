package service

import (
	"context"
	"crypto/subtle"
	"time"

	"github.com/sangkips/pos-billing-api/internal/domain/entity"
	"github.com/sangkips/pos-billing-api/pkg/apperror"
	"github.com/sangkips/pos-billing-api/pkg/logger"
	"github.com/sangkips/pos-billing-api/pkg/utils"
)

// Credentials is the configured shop login.
type Credentials struct {
	Username string
	// PasswordHash is a bcrypt hash. When empty, Password is hashed at startup.
	PasswordHash string
	Password     string
	Role         string
}

// AuthService handles authentication-related operations
type AuthService struct {
	username     string
	passwordHash string
	role         string
	jwtManager   *utils.JWTManager
}

// NewAuthService creates a new auth service. Without a password or hash
// every login is rejected.
func NewAuthService(creds Credentials, jwtManager *utils.JWTManager) *AuthService {
	hash := creds.PasswordHash
	if hash == "" && creds.Password != "" {
		h, err := utils.HashPassword(creds.Password)
		if err != nil {
			logger.LogError("service", "NewAuthService", "hash configured password", nil, err)
		} else {
			hash = h
		}
	}
	role := creds.Role
	if role == "" {
		role = "admin"
	}
	return &AuthService{
		username:     creds.Username,
		passwordHash: hash,
		role:         role,
		jwtManager:   jwtManager,
	}
}

// LoginOutput represents the login output
type LoginOutput struct {
	Token   string          `json:"token"`
	Session *entity.Session `json:"session"`
}

// Login checks the credentials and issues a session token that lapses after
// the configured timeout.
func (s *AuthService) Login(ctx context.Context, username, password, deviceID string) (*LoginOutput, error) {
	if s.passwordHash == "" || s.username == "" {
		return nil, apperror.ErrInvalidLogin
	}
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.username)) == 1
	passOK := utils.CheckPasswordHash(password, s.passwordHash)
	if !userOK || !passOK {
		return nil, apperror.ErrInvalidLogin
	}

	token, expiresAt, err := s.jwtManager.GenerateSessionToken(s.username, s.role)
	if err != nil {
		return nil, err
	}

	return &LoginOutput{
		Token: token,
		Session: &entity.Session{
			DeviceID:      deviceID,
			Username:      s.username,
			Role:          s.role,
			Authenticated: true,
			ExpiresAt:     expiresAt,
		},
	}, nil
}

// Authenticate validates a session token and returns the signed-in session
// for deviceID.
func (s *AuthService) Authenticate(token, deviceID string) (*entity.Session, error) {
	claims, err := s.jwtManager.ValidateSessionToken(token)
	if err != nil {
		return nil, apperror.ErrInvalidToken
	}
	var expiresAt time.Time
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}
	return &entity.Session{
		DeviceID:      deviceID,
		Username:      claims.Username,
		Role:          claims.Role,
		Authenticated: true,
		ExpiresAt:     expiresAt,
	}, nil
}

// SessionTimeout is how long a login stays valid.
func (s *AuthService) SessionTimeout() time.Duration {
	return s.jwtManager.Expiry()
}
