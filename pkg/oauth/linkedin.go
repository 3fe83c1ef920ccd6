package oauth

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/linkedin"
)

// LinkedIn's OpenID Connect userinfo endpoint.
const linkedinUserInfoURL = "https://api.linkedin.com/v2/userinfo"

type linkedinUser struct {
	Sub        string `json:"sub"`
	Email      string `json:"email"`
	GivenName  string `json:"given_name"`
	FamilyName string `json:"family_name"`
	Picture    string `json:"picture"`
}

type LinkedInProvider struct {
	config *oauth2.Config
}

func NewLinkedInProvider(clientID, clientSecret, callbackURL string) *LinkedInProvider {
	return &LinkedInProvider{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  callbackURL,
			Scopes:       []string{"openid", "profile", "email"},
			Endpoint:     linkedin.Endpoint,
		},
	}
}

func (p *LinkedInProvider) Name() string { return "linkedin" }

func (p *LinkedInProvider) AuthURL(state string) string {
	return p.config.AuthCodeURL(state)
}

func (p *LinkedInProvider) Exchange(ctx context.Context, code string) (*Profile, error) {
	tok, err := p.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("oauth: exchanging linkedin code: %w", err)
	}
	var lu linkedinUser
	if err := fetchJSON(ctx, p.config, tok, linkedinUserInfoURL, &lu); err != nil {
		return nil, err
	}
	if lu.Sub == "" || lu.Email == "" {
		return nil, fmt.Errorf("oauth: linkedin returned an incomplete profile")
	}
	return &Profile{
		SubjectID: lu.Sub,
		Provider:  p.Name(),
		Email:     lu.Email,
		FirstName: lu.GivenName,
		LastName:  lu.FamilyName,
		AvatarURL: lu.Picture,
	}, nil
}
