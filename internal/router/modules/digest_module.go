package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sideshelf/sideshelf/internal/container"
	handlers "github.com/sideshelf/sideshelf/internal/interface/http"
	"github.com/sideshelf/sideshelf/internal/interface/middleware"
	"github.com/sideshelf/sideshelf/pkg/helpers"
)

// DigestModule wires the digest routes. Creation, sending, and deletion are
// admin-only; list/subscribe/unsubscribe are available to any session.

type DigestModule struct {
	Handler *handlers.DigestHandler
	JWT     *helpers.JWTManager
}

func NewDigestModule(h *handlers.DigestHandler, jwt *helpers.JWTManager) *DigestModule {
	return &DigestModule{Handler: h, JWT: jwt}
}

func (m *DigestModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/")
	auth.Use(middleware.Auth(container.GetRedis(), m.JWT))
	auth.Use(middleware.RateLimit(container.GetRedis(), 60, time.Minute, middleware.KeyByUserID(), nil))
	{
		auth.GET("/digests", m.Handler.List)
		auth.POST("/digests/:id/subscribe", m.Handler.Subscribe)
		auth.DELETE("/digests/:id/subscribe", m.Handler.Unsubscribe)

		admin := auth.Group("/")
		admin.Use(middleware.AdminOnly())
		{
			admin.POST("/digests", m.Handler.Create)
			admin.POST("/digests/:id/send", m.Handler.SendIssue)
			admin.DELETE("/digests/:id", m.Handler.Delete)
		}
	}
}
