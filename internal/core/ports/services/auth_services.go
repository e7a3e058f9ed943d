package services

import (
	"context"
	"time"
)

// AuthSvcFacade defines the interface for operator authentication.
type AuthSvcFacade interface {
	// Authenticate verifies the configured operator credentials and returns
	// a signed access token.
	Authenticate(ctx context.Context, username string, password string) (string, time.Time, error)

	// ValidateAccessToken parses and verifies a token string, returning the
	// subject username.
	ValidateAccessToken(ctx context.Context, tokenString string) (string, error)
}
