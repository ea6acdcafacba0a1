package auth

import (
	"context"
	"errors"
	"strings"

	"portfolio-cms/internal/config"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"
)

// ErrNoEmail is returned when a verified ID token carries no e-mail claim.
var ErrNoEmail = errors.New("id token has no email claim")

// Authenticator is a struct that holds the OIDC provider, OAuth2 config, and ID token verifier.
type Authenticator struct {
	*oidc.Provider
	*oauth2.Config
	*oidc.IDTokenVerifier
}

// Claims are the identity fields read from a verified ID token.
type Claims struct {
	Subject       string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
}

// NewAuthenticator creates a new Authenticator by setting up the OIDC provider
// and OAuth2 configuration based on the application's config.
func NewAuthenticator(ctx context.Context, cfg *config.OIDCConfig) (*Authenticator, error) {
	provider, err := oidc.NewProvider(ctx, cfg.IssuerURL)
	if err != nil {
		return nil, err
	}

	verifier := provider.Verifier(&oidc.Config{ClientID: cfg.ClientID})

	oauth2Config := &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURL:  cfg.RedirectURL,
		Endpoint:     provider.Endpoint(),
		Scopes:       []string{oidc.ScopeOpenID, "profile", "email"},
	}

	return &Authenticator{
		Provider:        provider,
		Config:          oauth2Config,
		IDTokenVerifier: verifier,
	}, nil
}

// VerifyIDToken checks the signature and claims of a raw ID token and
// returns its identity. The e-mail is lower-cased.
func (a *Authenticator) VerifyIDToken(ctx context.Context, rawIDToken string) (*Claims, error) {
	token, err := a.IDTokenVerifier.Verify(ctx, rawIDToken)
	if err != nil {
		return nil, err
	}
	var claims Claims
	if err := token.Claims(&claims); err != nil {
		return nil, err
	}
	claims.Email = strings.ToLower(strings.TrimSpace(claims.Email))
	if claims.Email == "" {
		return nil, ErrNoEmail
	}
	return &claims, nil
}
