package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sideshelf/sideshelf/internal/container"
	handlers "github.com/sideshelf/sideshelf/internal/interface/http"
	"github.com/sideshelf/sideshelf/internal/interface/middleware"
)

// WeatherModule exposes the public current-conditions widget.

type WeatherModule struct {
	Handler *handlers.WeatherHandler
}

func NewWeatherModule(h *handlers.WeatherHandler) *WeatherModule {
	return &WeatherModule{Handler: h}
}

func (m *WeatherModule) Register(rg *gin.RouterGroup) {
	rl := middleware.RateLimit(container.GetRedis(), 60, time.Minute, middleware.KeyByIP(), nil)
	rg.GET("/weather", rl, m.Handler.Current)
}
