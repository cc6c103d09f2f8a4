// Package auth issues and verifies credentials for the clinic API.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/brightsmile/clinic-platform/internal/users"
	"github.com/brightsmile/clinic-platform/pkg/logging"
)

// Claims are the JWT claims embedded in every issued token.
type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// Result is returned by Login and Register: a signed token plus the public
// view of the account.
type Result struct {
	Token string      `json:"token"`
	User  *users.User `json:"user"`
}

// Service authenticates accounts against the user repository.
type Service struct {
	repo        users.Repository
	secret      []byte
	tokenExpiry time.Duration
	logger      *logging.Logger
}

// NewService creates an auth service signing tokens with secret.
func NewService(repo users.Repository, secret string, tokenExpiry time.Duration, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	if tokenExpiry <= 0 {
		tokenExpiry = 7 * 24 * time.Hour
	}
	return &Service{
		repo:        repo,
		secret:      []byte(secret),
		tokenExpiry: tokenExpiry,
		logger:      logger,
	}
}

// Register creates a new account and returns a signed token for it.
func (s *Service) Register(ctx context.Context, name, email, password string) (*Result, error) {
	if strings.TrimSpace(name) == "" || strings.TrimSpace(email) == "" || password == "" {
		return nil, ErrMissingFields
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("auth: hash password: %w", err)
	}

	user, err := s.repo.Create(ctx, &users.CreateUserParams{
		Email:        email,
		Name:         name,
		Role:         users.RoleUser,
		PasswordHash: string(hash),
	})
	if err != nil {
		return nil, err
	}

	token, err := s.issueToken(user)
	if err != nil {
		return nil, err
	}

	s.logger.Info("user registered", "email", user.Email)
	return &Result{Token: token, User: user}, nil
}

// Login verifies credentials and returns a signed token.
func (s *Service) Login(ctx context.Context, email, password string) (*Result, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, users.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.issueToken(user)
	if err != nil {
		return nil, err
	}

	return &Result{Token: token, User: user}, nil
}

// UpdateProfile changes the display name and/or password of an account.
func (s *Service) UpdateProfile(ctx context.Context, userID, name, password string) (*users.User, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(name) != "" {
		user.Name = name
	}
	user.PasswordHash = ""
	if password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("auth: hash password: %w", err)
		}
		user.PasswordHash = string(hash)
	}

	return s.repo.Update(ctx, user)
}

// VerifyToken parses a signed token and returns its claims.
func (s *Service) VerifyToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

func (s *Service) issueToken(user *users.User) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenExpiry)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: sign token: %w", err)
	}
	return signed, nil
}
