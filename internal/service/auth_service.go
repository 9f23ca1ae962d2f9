package service

import (
	"context"
	"errors"
	"time"

	"github.com/koaestudio/koa-photos-backend/internal/models"
	"github.com/koaestudio/koa-photos-backend/internal/repository"
	"github.com/koaestudio/koa-photos-backend/pkg/bcrypt"
	jwtPkg "github.com/koaestudio/koa-photos-backend/pkg/jwt"
	"github.com/koaestudio/koa-photos-backend/pkg/kv"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type AuthService struct {
	userRepo   *repository.AdminUserRepository
	jwtManager *jwtPkg.Manager
	revoked    kv.Store
	sessionTTL time.Duration
	logger     *zap.Logger
}

func NewAuthService(
	userRepo *repository.AdminUserRepository,
	jwtManager *jwtPkg.Manager,
	revoked kv.Store,
	sessionTTL time.Duration,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		jwtManager: jwtManager,
		revoked:    revoked,
		sessionTTL: sessionTTL,
		logger:     logger.Named("auth"),
	}
}

func (s *AuthService) SignIn(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if err := bcrypt.ComparePassword(user.Password, req.Password); err != nil {
		s.logger.Info("admin sign-in rejected", zap.String("email", req.Email))
		return nil, ErrInvalidCredentials
	}

	token, claims, err := s.jwtManager.GenerateSessionToken(user.ID, user.Email, s.sessionTTL)
	if err != nil {
		return nil, err
	}

	return &models.AuthResponse{
		Token:     token,
		ExpiresAt: claims.ExpiresAt.Time,
		User:      *user,
	}, nil
}

// Authenticate validates a session token and rejects signed-out ones.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*jwtPkg.Claims, error) {
	claims, err := s.jwtManager.ValidateToken(token, jwtPkg.TokenTypeSession)
	if err != nil {
		return nil, ErrUnauthorized
	}

	_, err = s.revoked.Get(ctx, revocationKey(claims.ID))
	if err == nil {
		return nil, ErrUnauthorized
	}
	if !errors.Is(err, kv.ErrNotFound) {
		return nil, err
	}
	return claims, nil
}

// SignOut revokes the session until it would have expired anyway.
func (s *AuthService) SignOut(ctx context.Context, claims *jwtPkg.Claims) error {
	if claims == nil || claims.ExpiresAt == nil {
		return ErrUnauthorized
	}
	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl <= 0 {
		return nil
	}
	return s.revoked.Set(ctx, revocationKey(claims.ID), "1", ttl)
}

func (s *AuthService) CurrentUser(ctx context.Context, userID string) (*models.AdminUser, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, notFound(err, ErrUnauthorized)
	}
	return user, nil
}

func revocationKey(tokenID string) string {
	return "session:revoked:" + tokenID
}
