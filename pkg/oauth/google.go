package oauth

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

// googleUser is the portion of the userinfo response we care about.
type googleUser struct {
	ID         string `json:"id"`
	Email      string `json:"email"`
	GivenName  string `json:"given_name"`
	FamilyName string `json:"family_name"`
	Picture    string `json:"picture"`
}

type GoogleProvider struct {
	config *oauth2.Config
}

func NewGoogleProvider(clientID, clientSecret, callbackURL string) *GoogleProvider {
	return &GoogleProvider{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  callbackURL,
			Scopes:       []string{"email", "profile"},
			Endpoint:     google.Endpoint,
		},
	}
}

func (p *GoogleProvider) Name() string { return "google" }

func (p *GoogleProvider) AuthURL(state string) string {
	return p.config.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

func (p *GoogleProvider) Exchange(ctx context.Context, code string) (*Profile, error) {
	tok, err := p.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("oauth: exchanging google code: %w", err)
	}
	var gu googleUser
	if err := fetchJSON(ctx, p.config, tok, googleUserInfoURL, &gu); err != nil {
		return nil, err
	}
	if gu.ID == "" || gu.Email == "" {
		return nil, fmt.Errorf("oauth: google returned an incomplete profile")
	}
	return &Profile{
		SubjectID: gu.ID,
		Provider:  p.Name(),
		Email:     gu.Email,
		FirstName: gu.GivenName,
		LastName:  gu.FamilyName,
		AvatarURL: gu.Picture,
	}, nil
}
