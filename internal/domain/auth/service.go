package auth

import (
	"context"
	"time"

	"golang.org/x/crypto/bcrypt"

	"shopledger/internal/core/apperror"
	"shopledger/pkg/logger"
)

// Credentials is the single operator account the service accepts.
// PasswordHash is a bcrypt hash; plaintext never lives in config.
type Credentials struct {
	Username     string
	PasswordHash string
}

// Service performs login against the configured credentials and
// issues access tokens.
type Service struct {
	creds Credentials
	jwt   *JWTService
}

func NewService(creds Credentials, jwt *JWTService) *Service {
	return &Service{creds: creds, jwt: jwt}
}

// HashPassword hashes a plaintext password for storage in config.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Login verifies the credentials and returns a signed access token
// with its expiry. Unknown users and wrong passwords are
// indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, username, password string) (string, time.Time, error) {
	if username != s.creds.Username {
		return "", time.Time{}, apperror.NewUnauthorized("invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(s.creds.PasswordHash), []byte(password)); err != nil {
		logger.Warn(ctx, "failed login attempt", "username", username)
		return "", time.Time{}, apperror.NewUnauthorized("invalid credentials")
	}

	token, expiresAt, err := s.jwt.GenerateAccessToken(username)
	if err != nil {
		return "", time.Time{}, apperror.NewInternal(err)
	}

	logger.Info(ctx, "login succeeded", "username", username)
	return token, expiresAt, nil
}
