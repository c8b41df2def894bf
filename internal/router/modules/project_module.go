package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sideshelf/sideshelf/internal/container"
	handlers "github.com/sideshelf/sideshelf/internal/interface/http"
	"github.com/sideshelf/sideshelf/internal/interface/middleware"
	"github.com/sideshelf/sideshelf/pkg/helpers"
)

// ProjectModule wires project CRUD, engagement, and search routes.
// Public: GET /api/projects, GET /api/projects/:id, GET /api/projects/search,
// plus read-only comment/reaction listings.

type ProjectModule struct {
	Handler *handlers.ProjectHandler
	JWT     *helpers.JWTManager
}

func NewProjectModule(h *handlers.ProjectHandler, jwt *helpers.JWTManager) *ProjectModule {
	return &ProjectModule{Handler: h, JWT: jwt}
}

func (m *ProjectModule) Register(rg *gin.RouterGroup) {
	publicLimiter := middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByIP(), nil)

	rg.GET("/projects", publicLimiter, m.Handler.List)
	rg.GET("/projects/search", publicLimiter, m.Handler.Search)
	rg.GET("/projects/:id", publicLimiter, m.Handler.Get)
	rg.GET("/projects/:id/comments", publicLimiter, m.Handler.ListComments)
	rg.GET("/projects/:id/reactions", publicLimiter, m.Handler.ListReactions)

	auth := rg.Group("/")
	auth.Use(middleware.Auth(container.GetRedis(), m.JWT))
	auth.Use(middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID(), nil))
	{
		auth.POST("/projects", m.Handler.Create)
		auth.PUT("/projects/:id", m.Handler.Update)
		auth.DELETE("/projects/:id", m.Handler.HardDelete)
		auth.POST("/projects/:id/screenshot", m.Handler.UploadScreenshot)

		auth.POST("/projects/:id/like", m.Handler.Like)
		auth.DELETE("/projects/:id/like", m.Handler.Unlike)
		auth.POST("/projects/:id/comments", m.Handler.AddComment)
		auth.POST("/projects/:id/whispers", m.Handler.AddWhisper)
		auth.GET("/projects/:id/whispers", m.Handler.ListWhispers)
		auth.POST("/projects/:id/reactions", m.Handler.AddReaction)
	}
}
