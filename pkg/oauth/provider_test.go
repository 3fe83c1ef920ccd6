package oauth_test

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-identity-service/pkg/oauth"
)

func TestGoogleAuthURLCarriesStateAndCallback(t *testing.T) {
	p := oauth.NewGoogleProvider("client-id", "client-secret", "https://api.example/auth/google/callback")
	assert.Equal(t, "google", p.Name())

	u, err := url.Parse(p.AuthURL("nonce-123"))
	require.NoError(t, err)
	q := u.Query()
	assert.Equal(t, "nonce-123", q.Get("state"))
	assert.Equal(t, "client-id", q.Get("client_id"))
	assert.Equal(t, "https://api.example/auth/google/callback", q.Get("redirect_uri"))
	assert.Contains(t, q.Get("scope"), "email")
}

func TestLinkedInAuthURLCarriesStateAndCallback(t *testing.T) {
	p := oauth.NewLinkedInProvider("client-id", "client-secret", "https://api.example/auth/linkedin/callback")
	assert.Equal(t, "linkedin", p.Name())

	u, err := url.Parse(p.AuthURL("nonce-456"))
	require.NoError(t, err)
	q := u.Query()
	assert.Equal(t, "nonce-456", q.Get("state"))
	assert.Equal(t, "https://api.example/auth/linkedin/callback", q.Get("redirect_uri"))
	assert.Contains(t, q.Get("scope"), "openid")
}
