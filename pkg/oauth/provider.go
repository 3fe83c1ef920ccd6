// Package oauth wraps the authorization-code handshake with external identity
// providers. Each Provider owns its consent URL and code exchange and returns
// a normalized Profile; callers never see provider-specific payloads.
package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
)

// Profile is the verified external identity handed to the reconciliation
// layer after a successful code exchange. SubjectID is the provider's stable
// identifier for the user, distinct from our local user id.
type Profile struct {
	SubjectID string
	Provider  string
	Email     string
	FirstName string
	LastName  string
	AvatarURL string
}

// Provider is one external identity source.
//
// AuthURL returns the consent URL for the given anti-CSRF state nonce.
// Exchange trades the callback code for a verified Profile; implementations
// must fail rather than return a profile with an empty subject id or email.
type Provider interface {
	Name() string
	AuthURL(state string) string
	Exchange(ctx context.Context, code string) (*Profile, error)
}

// fetchJSON calls an endpoint with the token-bearing client and decodes the
// JSON body into dest. Shared by the concrete providers.
func fetchJSON(ctx context.Context, cfg *oauth2.Config, tok *oauth2.Token, url string, dest any) error {
	client := cfg.Client(ctx, tok)
	resp, err := client.Get(url)
	if err != nil {
		return fmt.Errorf("oauth: calling %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("oauth: %s returned status %d", url, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("oauth: decoding %s response: %w", url, err)
	}
	return nil
}
