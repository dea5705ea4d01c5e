package service

import (
	"context"
	"errors"
	"fmt"

	"bizlevel/internal/config"
	"bizlevel/internal/domain"
	"bizlevel/internal/dto"
	"bizlevel/internal/logger"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

var ErrInvalidJWTToken = errors.New("invalid jwt token")

// AuthService verifies access tokens issued by the auth provider and
// resolves the caller's profile.
type AuthService interface {
	ValidateToken(ctx context.Context, tokenString string) (*domain.Identity, error)
	// EnsureProfile creates the caller's profile on first sight.
	EnsureProfile(ctx context.Context, id domain.Identity) error
	GetProfile(ctx context.Context, userID string) (*domain.Profile, error)
	IsAdmin(ctx context.Context, userID string) (bool, error)
}

type authServiceImpl struct {
	profiles domain.ProfileRepository
	jwtCfg   config.JWTConfig
}

// NewAuthService creates a new instance of AuthService.
func NewAuthService(profiles domain.ProfileRepository, jwtCfg config.JWTConfig) (AuthService, error) {
	if jwtCfg.SecretKey == "" {
		return nil, errors.New("jwt secret key is not configured")
	}
	return &authServiceImpl{profiles: profiles, jwtCfg: jwtCfg}, nil
}

func (s *authServiceImpl) ValidateToken(ctx context.Context, tokenString string) (*domain.Identity, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if s.jwtCfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.jwtCfg.Issuer))
	}
	if s.jwtCfg.Audience != "" {
		opts = append(opts, jwt.WithAudience(s.jwtCfg.Audience))
	}

	claims := &dto.AuthClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.jwtCfg.SecretKey), nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			logger.Get().Debug("JWT token expired", zap.Error(err))
		} else {
			logger.Get().Warn("JWT validation failed",
				zap.Error(err),
				zap.String("token_snippet", tokenString[:min(len(tokenString), 20)]+"..."))
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidJWTToken, err)
	}
	if !token.Valid || claims.Subject == "" {
		return nil, ErrInvalidJWTToken
	}

	return &domain.Identity{
		UserID: claims.Subject,
		Email:  claims.Email,
		Role:   claims.Role,
		Token:  tokenString,
	}, nil
}

func (s *authServiceImpl) EnsureProfile(ctx context.Context, id domain.Identity) error {
	if err := s.profiles.EnsureProfile(ctx, &domain.Profile{ID: id.UserID, Email: id.Email}); err != nil {
		return domain.NewInternalError("Failed to ensure profile", err)
	}
	return nil
}

func (s *authServiceImpl) GetProfile(ctx context.Context, userID string) (*domain.Profile, error) {
	profile, err := s.profiles.GetProfile(ctx, userID)
	if err != nil {
		return nil, domain.NewInternalError("Failed to load profile", err)
	}
	if profile == nil {
		return nil, domain.NewNotFoundError(fmt.Sprintf("Profile not found for user: %s", userID))
	}
	return profile, nil
}

func (s *authServiceImpl) IsAdmin(ctx context.Context, userID string) (bool, error) {
	profile, err := s.profiles.GetProfile(ctx, userID)
	if err != nil {
		return false, domain.NewInternalError("Failed to load profile", err)
	}
	return profile != nil && profile.IsAdmin(), nil
}
