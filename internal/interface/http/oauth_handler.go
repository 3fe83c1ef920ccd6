package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-identity-service/internal/application"
	"github.com/oksasatya/go-identity-service/pkg/helpers"
	"github.com/oksasatya/go-identity-service/pkg/oauth"
	"github.com/oksasatya/go-identity-service/pkg/response"
)

// OAuthHandler drives the redirect/callback legs of the external-provider
// handshake. The reconciliation itself lives in the application service; this
// layer only validates the state nonce and converts the provider profile.
type OAuthHandler struct {
	Providers   map[string]oauth.Provider
	Svc         *application.Service
	RDB         *redis.Client
	Logger      *logrus.Logger
	Cookies     *helpers.Manager
	FrontendURL string
	StateTTL    time.Duration
}

func NewOAuthHandler(providers map[string]oauth.Provider, svc *application.Service, rdb *redis.Client, logger *logrus.Logger, cookieDomain string, cookieSecure bool, frontendURL string, stateTTL time.Duration) *OAuthHandler {
	return &OAuthHandler{
		Providers:   providers,
		Svc:         svc,
		RDB:         rdb,
		Logger:      logger,
		Cookies:     helpers.NewCookie(cookieDomain, cookieSecure),
		FrontendURL: frontendURL,
		StateTTL:    stateTTL,
	}
}

func keyOAuthState(state string) string { return "oauth:state:" + state }

// Redirect GET /api/auth/:provider
// Stores a state nonce in Redis and sends the user to the provider's consent page.
func (h *OAuthHandler) Redirect(c *gin.Context) {
	p, ok := h.Providers[c.Param("provider")]
	if !ok {
		response.Error[any](c, http.StatusNotFound, "unknown provider", nil)
		return
	}
	state := uuid.NewString()
	if err := h.RDB.Set(c.Request.Context(), keyOAuthState(state), p.Name(), h.StateTTL).Err(); err != nil {
		h.Logger.WithError(err).Error("store oauth state failed")
		response.Error[any](c, http.StatusInternalServerError, "sign-in unavailable", nil)
		return
	}
	c.Redirect(http.StatusFound, p.AuthURL(state))
}

// Callback GET /api/auth/:provider/callback
// Verifies the state nonce, exchanges the code for a verified profile,
// reconciles it to a local account, and redirects to the frontend with the
// session token.
func (h *OAuthHandler) Callback(c *gin.Context) {
	p, ok := h.Providers[c.Param("provider")]
	if !ok {
		response.Error[any](c, http.StatusNotFound, "unknown provider", nil)
		return
	}

	state := c.Query("state")
	code := c.Query("code")
	if state == "" || code == "" {
		response.Error[any](c, http.StatusBadRequest, "missing state or code", nil)
		return
	}

	ctx := c.Request.Context()
	stored, err := h.RDB.GetDel(ctx, keyOAuthState(state)).Result()
	if err != nil || stored != p.Name() {
		response.Error[any](c, http.StatusBadRequest, "invalid or expired state", nil)
		return
	}

	profile, err := p.Exchange(ctx, code)
	if err != nil {
		h.Logger.WithError(err).WithField("provider", p.Name()).Warn("oauth exchange failed")
		response.Error[any](c, http.StatusBadGateway, "provider exchange failed", nil)
		return
	}

	res, err := h.Svc.Reconcile(ctx, application.ExternalProfile{
		SubjectID: profile.SubjectID,
		Provider:  profile.Provider,
		Email:     profile.Email,
		FirstName: profile.FirstName,
		LastName:  profile.LastName,
		AvatarURL: profile.AvatarURL,
	})
	if err != nil {
		h.Logger.WithError(err).WithField("provider", p.Name()).Error("reconcile failed")
		response.Error[any](c, http.StatusInternalServerError, "sign-in failed", nil)
		return
	}

	h.Cookies.SetAccessToken(c, res.Token, res.ExpiresAt)
	c.Redirect(http.StatusFound, h.FrontendURL+"/auth/callback?token="+res.Token)
}
