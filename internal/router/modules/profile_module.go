package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/go-identity-service/internal/interface/http"
	"github.com/oksasatya/go-identity-service/internal/interface/middleware"
	"github.com/oksasatya/go-identity-service/pkg/helpers"
)

// ProfileModule wires the authenticated surface:
// GET/PUT /api/profile, POST /api/profile/avatar, GET /api/users/search.
type ProfileModule struct {
	Handler *handlers.ProfileHandler
	Tokens  *helpers.TokenIssuer
}

func NewProfileModule(h *handlers.ProfileHandler, tokens *helpers.TokenIssuer) *ProfileModule {
	return &ProfileModule{Handler: h, Tokens: tokens}
}

func (m *ProfileModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/")
	auth.Use(middleware.Auth(m.Tokens))
	{
		auth.GET("/profile", m.Handler.Get)
		auth.PUT("/profile", m.Handler.Update)
		auth.POST("/profile/avatar", m.Handler.UploadAvatar)
		auth.GET("/users/search", m.Handler.Search)
	}
}
