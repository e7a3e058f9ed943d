package services

import (
	"context"
	"crypto/subtle"
	"fmt"
	"log/slog"
	"time"

	"github.com/artivisi/aplikasi-akunting-sub005/internal/apperrors"
	portssvc "github.com/artivisi/aplikasi-akunting-sub005/internal/core/ports/services"
	"github.com/artivisi/aplikasi-akunting-sub005/internal/middleware"
	"github.com/artivisi/aplikasi-akunting-sub005/internal/platform/config"
	"github.com/artivisi/aplikasi-akunting-sub005/internal/utils"
)

// authService authenticates the single configured operator and issues JWTs.
type authService struct {
	cfg *config.Config
}

// NewAuthService creates a new auth service.
func NewAuthService(cfg *config.Config) portssvc.AuthSvcFacade {
	return &authService{cfg: cfg}
}

var _ portssvc.AuthSvcFacade = (*authService)(nil)

func (s *authService) Authenticate(ctx context.Context, username string, password string) (string, time.Time, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	usernameMatch := subtle.ConstantTimeCompare([]byte(username), []byte(s.cfg.AdminUsername)) == 1
	passwordMatch := s.cfg.AdminPasswordHash != "" && utils.VerifyPassword(s.cfg.AdminPasswordHash, password)
	if !usernameMatch || !passwordMatch {
		logger.Warn("Login attempt rejected", slog.String("username", username))
		return "", time.Time{}, fmt.Errorf("%w: invalid credentials", apperrors.ErrUnauthorized)
	}

	expiryTime := time.Now().Add(s.cfg.JWTExpiryDuration)
	token, err := utils.GenerateJWT(s.cfg.AdminUsername, s.cfg.JWTSecret, s.cfg.JWTExpiryDuration, s.cfg.JWTIssuer)
	if err != nil {
		logger.Error("Failed to generate access token", slog.String("error", err.Error()))
		return "", time.Time{}, fmt.Errorf("failed to generate token: %w", err)
	}

	logger.Info("Operator logged in", slog.String("username", username))
	return token, expiryTime, nil
}

func (s *authService) ValidateAccessToken(ctx context.Context, tokenString string) (string, error) {
	claims, err := utils.ParseAndValidateJWT(tokenString, s.cfg.JWTSecret)
	if err != nil {
		return "", fmt.Errorf("%w: %s", apperrors.ErrUnauthorized, err.Error())
	}
	return claims.Subject, nil
}
