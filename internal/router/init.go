package router

import (
	"github.com/oksasatya/go-identity-service/internal/application"
	"github.com/oksasatya/go-identity-service/internal/container"
	pginfra "github.com/oksasatya/go-identity-service/internal/infrastructure/postgres"
	handlers "github.com/oksasatya/go-identity-service/internal/interface/http"
	"github.com/oksasatya/go-identity-service/internal/router/modules"
	"github.com/oksasatya/go-identity-service/pkg/helpers"
	"github.com/oksasatya/go-identity-service/pkg/oauth"
)

func buildService() *application.Service {
	cfg := container.GetConfig()

	svc := application.NewService(
		pginfra.NewUserRepository(container.GetPGPool()),
		helpers.NewBcryptHasher(),
		container.GetTokens(),
		container.GetRedis(),
		container.GetLogger(),
	)
	svc.Pub = container.GetRabbitPub()
	svc.GCS = container.GetGCS()
	svc.GCSBucket = cfg.GCSBucket
	svc.ES = container.GetES()
	svc.ESUsersIndex = cfg.ESUsersIndex
	svc.AppName = cfg.AppName
	svc.MailEnabled = cfg.MailSendEnabled
	return svc
}

func buildProviders() map[string]oauth.Provider {
	cfg := container.GetConfig()
	providers := map[string]oauth.Provider{}
	if cfg.GoogleClientID != "" {
		providers["google"] = oauth.NewGoogleProvider(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleCallbackURL)
	}
	if cfg.LinkedInClientID != "" {
		providers["linkedin"] = oauth.NewLinkedInProvider(cfg.LinkedInClientID, cfg.LinkedInClientSecret, cfg.LinkedInCallbackURL)
	}
	return providers
}

// InitModules initializes all application modules and registers them with the
// router registry. Called once during startup after the container is filled.
func InitModules(r *Registry) {
	cfg := container.GetConfig()
	svc := buildService()

	authHandler := handlers.NewAuthHandler(svc, container.GetLogger(), cfg.CookieDomain, cfg.CookieSecure)
	oauthHandler := handlers.NewOAuthHandler(
		buildProviders(),
		svc,
		container.GetRedis(),
		container.GetLogger(),
		cfg.CookieDomain,
		cfg.CookieSecure,
		cfg.FrontendURL,
		cfg.OAuthStateTTL,
	)
	profileHandler := handlers.NewProfileHandler(svc, container.GetLogger())

	r.Add(modules.NewAuthModule(authHandler, oauthHandler))
	r.Add(modules.NewProfileModule(profileHandler, container.GetTokens()))
}
