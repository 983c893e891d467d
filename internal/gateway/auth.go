package gateway

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/valyala/fasthttp"

	"github.com/cltpj/cltpj/internal/common"
)

// AuthClient exchanges credentials for opaque tokens against the remote
// auth service.
type AuthClient struct {
	rest   *restClient
	logger *slog.Logger
}

// NewAuthClient creates an auth gateway client.
func NewAuthClient(cfg Config) (*AuthClient, error) {
	logger := slog.Default().With("component", "auth_gateway")

	rest, err := newRESTClient(cfg, logger)
	if err != nil {
		return nil, err
	}

	return &AuthClient{rest: rest, logger: logger}, nil
}

type credentialsRequest struct {
	Email  string `json:"email"`
	Secret string `json:"senha"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

// Login exchanges email and secret for a token.
func (c *AuthClient) Login(ctx context.Context, email, secret string) (string, error) {
	return c.exchange(ctx, "/api/auth/login", email, secret)
}

// Register exchanges registration data for a token.
func (c *AuthClient) Register(ctx context.Context, email, secret string) (string, error) {
	return c.exchange(ctx, "/api/auth/register", email, secret)
}

func (c *AuthClient) exchange(ctx context.Context, path, email, secret string) (string, error) {
	var out tokenResponse
	err := c.rest.doJSON(ctx, fasthttp.MethodPost, path, "", credentialsRequest{Email: email, Secret: secret}, &out)
	if err != nil {
		return "", err
	}

	if out.Token == "" {
		return "", fmt.Errorf("%w: exchange returned no token", common.ErrInvalidResponse)
	}

	c.logger.Debug("Credential exchange succeeded", "path", path)

	return out.Token, nil
}
