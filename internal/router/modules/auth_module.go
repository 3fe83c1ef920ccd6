package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/go-identity-service/internal/interface/http"
)

// AuthModule wires the public authentication surface:
// POST /api/auth/register, POST /api/auth/login, POST /api/auth/logout,
// GET /api/auth/:provider and GET /api/auth/:provider/callback.
type AuthModule struct {
	Auth  *handlers.AuthHandler
	OAuth *handlers.OAuthHandler
}

func NewAuthModule(auth *handlers.AuthHandler, oauth *handlers.OAuthHandler) *AuthModule {
	return &AuthModule{Auth: auth, OAuth: oauth}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	rg.POST("/auth/register", m.Auth.Register)
	rg.POST("/auth/login", m.Auth.Login)
	rg.POST("/auth/logout", m.Auth.Logout)

	rg.GET("/auth/:provider", m.OAuth.Redirect)
	rg.GET("/auth/:provider/callback", m.OAuth.Callback)
}
