package services

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"usergroups/internal/repositories"
	"usergroups/internal/validation"

	"github.com/dgrijalva/jwt-go"
	"github.com/rs/zerolog"
)

// DefaultTokenTTL is how long an issued token stays valid.
const DefaultTokenTTL = 120 * time.Second

// AuthService handles business logic for authentication and authorization.
type AuthService struct {
	userRepo  repositories.UserRepository
	rules     *validation.Rules
	passwords PasswordHasher
	jwtSecret []byte
	tokenTTL  time.Duration
	log       zerolog.Logger
}

// NewAuthService creates a new AuthService. A non-positive ttl falls back to DefaultTokenTTL.
func NewAuthService(userRepo repositories.UserRepository, rules *validation.Rules, passwords PasswordHasher, jwtSecret string, ttl time.Duration, log zerolog.Logger) *AuthService {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &AuthService{
		userRepo:  userRepo,
		rules:     rules,
		passwords: passwords,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  ttl,
		log:       log,
	}
}

// Login checks the credentials in body against active users and issues a
// signed token whose subject is the user's id. Soft-deleted users cannot log
// in. A malformed body is a 400, a credential mismatch a 401.
func (s *AuthService) Login(ctx context.Context, body []byte) (Result, error) {
	creds, err := s.rules.Credentials(body)
	if err != nil {
		return Result{StatusCode: http.StatusBadRequest, Payload: Payload{"success": false, "message": err.Error()}}, nil
	}

	users, err := s.userRepo.GetAll(ctx)
	if err != nil {
		return Result{}, persistenceError("login", err)
	}

	for _, user := range users {
		if user.IsDeleted || user.Login != creds.Login || !s.passwords.Compare(user.Password, creds.Password) {
			continue
		}

		token, err := s.IssueToken(user.ID)
		if err != nil {
			return Result{}, err
		}
		return Result{StatusCode: http.StatusOK, Payload: Payload{"success": true, "token": token}}, nil
	}

	s.log.Info().Str("login", creds.Login).Msg("rejected login attempt")
	return Result{StatusCode: http.StatusUnauthorized, Payload: Payload{"success": false, "message": `Bad login\password combination`}}, nil
}

// IssueToken signs an HS256 token for userID that expires after the configured TTL.
func (s *AuthService) IssueToken(userID string) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.StandardClaims{
		Subject:   userID,
		IssuedAt:  now.Unix(),
		ExpiresAt: now.Add(s.tokenTTL).Unix(),
	})

	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return tokenString, nil
}

// ValidateToken parses and validates a JWT token, returning the claims if valid.
func (s *AuthService) ValidateToken(tokenString string) (*jwt.StandardClaims, error) {
	claims := &jwt.StandardClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}
