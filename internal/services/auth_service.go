package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"blogadmin/internal/apperr"
	"blogadmin/internal/config"
	"blogadmin/internal/models"
	"blogadmin/internal/utils"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the payload of an access token.
type Claims struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

type Token struct {
	Token string `json:"token"`
}

type AuthService struct {
	users  *UserService
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewAuthService(users *UserService, cfg config.JWTConfig) *AuthService {
	return &AuthService{
		users:  users,
		secret: []byte(cfg.Secret),
		ttl:    cfg.Expires,
		now:    time.Now,
	}
}

// Login checks name and password. Unknown users and wrong passwords fail
// with the same error.
func (s *AuthService) Login(ctx context.Context, name, password string) (Token, error) {
	u, err := s.users.FindByName(ctx, name)
	if errors.Is(err, apperr.ErrNotFound) {
		return Token{}, apperr.InvalidCredentials("invalid name or password")
	}
	if err != nil {
		return Token{}, err
	}
	if !utils.CheckPasswordHash(password, u.Password) {
		return Token{}, apperr.InvalidCredentials("invalid name or password")
	}
	return s.GenerateToken(u)
}

func (s *AuthService) GenerateToken(u *models.User) (Token, error) {
	now := s.now()
	claims := Claims{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
		Role:  u.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  strconv.FormatUint(uint64(u.ID), 10),
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	if s.ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(s.ttl))
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return Token{}, fmt.Errorf("sign token: %w", err)
	}
	return Token{Token: signed}, nil
}

func (s *AuthService) ParseToken(raw string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, apperr.Unauthorized("invalid token", err)
	}
	return claims, nil
}

// ValidateUser resolves the token owner to a live user. Tokens of deleted
// users yield a not-found error.
func (s *AuthService) ValidateUser(ctx context.Context, claims *Claims) (*models.User, error) {
	return s.users.FindOne(ctx, claims.ID)
}
