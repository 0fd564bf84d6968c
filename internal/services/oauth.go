package services

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/famcart/backend/internal/config"
	"github.com/famcart/backend/pkg/logger"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const googleIssuer = "https://accounts.google.com"

// OAuthService drives the Google authorization-code flow. The ID token
// returned by the code exchange is verified with the issuer's keys
// rather than calling the userinfo endpoint.
type OAuthService struct {
	Cfg *config.Config
}

func NewOAuthService(cfg *config.Config) *OAuthService {
	return &OAuthService{Cfg: cfg}
}

// SSOProfile is the identity extracted from a verified ID token.
type SSOProfile struct {
	ProviderUserID string
	Email          string
	Name           string
	Image          *string
}

func (s *OAuthService) googleConfig() (*oauth2.Config, error) {
	if !s.Cfg.SSO.Google.Enabled {
		return nil, errors.New("google oauth is not enabled")
	}
	return &oauth2.Config{
		ClientID:     s.Cfg.SSO.Google.ClientID,
		ClientSecret: s.Cfg.SSO.Google.ClientSecret,
		RedirectURL:  s.Cfg.SSO.Google.RedirectURL,
		Scopes:       []string{oidc.ScopeOpenID, "profile", "email"},
		Endpoint:     google.Endpoint,
	}, nil
}

func (s *OAuthService) GenerateState() (string, error) {
	nonce := make([]byte, 32)
	if _, err := rand.Read(nonce); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(nonce), nil
}

func (s *OAuthService) AuthCodeURL(state string) (string, error) {
	cfg, err := s.googleConfig()
	if err != nil {
		return "", err
	}
	return cfg.AuthCodeURL(state, oauth2.AccessTypeOffline), nil
}

func (s *OAuthService) ExchangeCode(ctx context.Context, code string) (*oauth2.Token, error) {
	cfg, err := s.googleConfig()
	if err != nil {
		return nil, err
	}

	token, err := cfg.Exchange(ctx, code)
	if err != nil {
		logger.Warn("oauth_exchange_failed", map[string]interface{}{
			"provider": "google",
			"error":    err.Error(),
		})
		return nil, errors.New("failed to exchange code for token")
	}

	return token, nil
}

func (s *OAuthService) VerifyIDToken(ctx context.Context, token *oauth2.Token) (*SSOProfile, error) {
	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok || rawIDToken == "" {
		return nil, errors.New("token response did not include an id_token")
	}

	provider, err := oidc.NewProvider(ctx, googleIssuer)
	if err != nil {
		return nil, err
	}

	verifier := provider.Verifier(&oidc.Config{ClientID: s.Cfg.SSO.Google.ClientID})
	idToken, err := verifier.Verify(ctx, rawIDToken)
	if err != nil {
		logger.Warn("oauth_id_token_invalid", map[string]interface{}{
			"provider": "google",
			"error":    err.Error(),
		})
		return nil, errors.New("invalid id token")
	}

	var claims struct {
		Sub           string `json:"sub"`
		Email         string `json:"email"`
		EmailVerified bool   `json:"email_verified"`
		Name          string `json:"name"`
		Picture       string `json:"picture"`
	}
	if err := idToken.Claims(&claims); err != nil {
		return nil, err
	}
	if claims.Email == "" {
		return nil, errors.New("id token did not include an email claim")
	}

	profile := &SSOProfile{
		ProviderUserID: claims.Sub,
		Email:          claims.Email,
		Name:           claims.Name,
	}
	if claims.Picture != "" {
		profile.Image = &claims.Picture
	}
	return profile, nil
}
