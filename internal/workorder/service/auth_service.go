package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Jkweks/workorder-dashboard/internal/config"
	"github.com/Jkweks/workorder-dashboard/internal/middleware"
	"github.com/Jkweks/workorder-dashboard/internal/workorder/entity"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var (
	ErrUnknownRole         = errors.New("unknown role")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
)

// TokenPair is an access/refresh token pair.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

// AuthService issues JWT pairs for shop staff. There is no user table; the
// dashboard posts a display name and a deployment role, and the role claim
// drives the client's status visibility lookup. Refresh token JTIs live in
// redis so logout can revoke them.
type AuthService struct {
	rdb *redis.Client
	cfg *config.Config
}

// NewAuthService creates the auth service.
func NewAuthService(rdb *redis.Client, cfg *config.Config) *AuthService {
	return &AuthService{rdb: rdb, cfg: cfg}
}

// Login validates the role against the permission table and issues a pair.
func (s *AuthService) Login(ctx context.Context, name, role string) (*TokenPair, error) {
	if _, ok := entity.PermissionsFor(role); !ok {
		return nil, ErrUnknownRole
	}

	pair, refreshJti, err := s.GenerateTokenPair(name, role)
	if err != nil {
		return nil, err
	}

	if err := s.rdb.Set(ctx, "token:refresh:"+refreshJti, name, s.cfg.JWT.RefreshTokenExpire).Err(); err != nil {
		return nil, fmt.Errorf("store refresh token: %w", err)
	}
	return pair, nil
}

// Refresh rotates a valid refresh token into a new pair.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.parseToken(refreshToken)
	if err != nil {
		return nil, ErrInvalidRefreshToken
	}
	jti := claims.ID
	if jti == "" {
		return nil, ErrInvalidRefreshToken
	}

	if _, err := s.rdb.Get(ctx, "token:refresh:"+jti).Result(); err != nil {
		return nil, ErrInvalidRefreshToken
	}
	s.rdb.Del(ctx, "token:refresh:"+jti)

	pair, newJti, err := s.GenerateTokenPair(claims.Name, claims.Role)
	if err != nil {
		return nil, err
	}
	if err := s.rdb.Set(ctx, "token:refresh:"+newJti, claims.Name, s.cfg.JWT.RefreshTokenExpire).Err(); err != nil {
		return nil, fmt.Errorf("store refresh token: %w", err)
	}
	return pair, nil
}

// Logout revokes the refresh token.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	claims, err := s.parseToken(refreshToken)
	if err != nil || claims.ID == "" {
		return ErrInvalidRefreshToken
	}
	return s.rdb.Del(ctx, "token:refresh:"+claims.ID).Err()
}

// GenerateTokenPair builds a signed access/refresh pair. Exposed without
// redis involvement so token shape is testable on its own.
func (s *AuthService) GenerateTokenPair(name, role string) (*TokenPair, string, error) {
	now := time.Now()

	accessClaims := middleware.JWTClaims{
		Name: name,
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.cfg.JWT.Issuer,
			Subject:   name,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.JWT.AccessTokenExpire)),
			ID:        uuid.New().String(),
		},
	}
	accessToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, accessClaims).SignedString([]byte(s.cfg.JWT.Secret))
	if err != nil {
		return nil, "", fmt.Errorf("sign access token: %w", err)
	}

	refreshJti := uuid.New().String()
	refreshClaims := middleware.JWTClaims{
		Name: name,
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.cfg.JWT.Issuer,
			Subject:   name,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.JWT.RefreshTokenExpire)),
			ID:        refreshJti,
		},
	}
	refreshToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, refreshClaims).SignedString([]byte(s.cfg.JWT.Secret))
	if err != nil {
		return nil, "", fmt.Errorf("sign refresh token: %w", err)
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.cfg.JWT.AccessTokenExpire.Seconds()),
	}, refreshJti, nil
}

func (s *AuthService) parseToken(tokenString string) (*middleware.JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &middleware.JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.JWT.Secret), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*middleware.JWTClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidRefreshToken
	}
	return claims, nil
}
