package helpers

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenOptions is the explicit signing configuration for the issuer. It is
// built once from config at startup; the issuer never reads the environment.
type TokenOptions struct {
	SigningKey string
	Issuer     string
	Audience   string
	TTL        time.Duration // zero means 24h
}

// TokenIssuer builds and signs session tokens (HS256). Claims carry only the
// user id and email; no secret material is ever placed in a token.
//
// Expiry policy: every token carries an exp claim of now+TTL. There is no
// refresh or revocation flow; callers re-authenticate when the token lapses.
type TokenIssuer struct {
	key      []byte
	issuer   string
	audience string
	ttl      time.Duration
}

func NewTokenIssuer(opts TokenOptions) *TokenIssuer {
	ttl := opts.TTL
	if ttl == 0 {
		ttl = 24 * time.Hour
	}
	return &TokenIssuer{
		key:      []byte(opts.SigningKey),
		issuer:   opts.Issuer,
		audience: opts.Audience,
		ttl:      ttl,
	}
}

// SessionClaims is the claim set of a session token.
type SessionClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Issue signs a session token for the given user identity and returns the
// compact token together with its expiry.
func (i *TokenIssuer) Issue(userID, email string) (string, time.Time, error) {
	now := time.Now()
	exp := now.Add(i.ttl)
	claims := &SessionClaims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    i.issuer,
			Audience:  jwt.ClaimStrings{i.audience},
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := t.SignedString(i.key)
	return s, exp, err
}

// Parse validates a session token and returns its claims.
func (i *TokenIssuer) Parse(tokenStr string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if i.issuer != "" {
		opts = append(opts, jwt.WithIssuer(i.issuer))
	}
	if i.audience != "" {
		opts = append(opts, jwt.WithAudience(i.audience))
	}
	tkn, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		return i.key, nil
	}, opts...)
	if err != nil {
		return nil, err
	}
	if !tkn.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}
