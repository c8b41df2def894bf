package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/sideshelf/sideshelf/pkg/helpers"
	"github.com/sideshelf/sideshelf/pkg/response"
	"github.com/sideshelf/sideshelf/pkg/validation"
	"github.com/sideshelf/sideshelf/pkg/weather"
)

// WeatherHandler serves a small current-conditions widget, cached briefly in
// Redis so repeated lookups near the same coordinates stay cheap.
type WeatherHandler struct {
	Resolver weather.Resolver
	Redis    *redis.Client
	CacheTTL time.Duration
	Logger   *logrus.Logger
}

func NewWeatherHandler(resolver weather.Resolver, rdb *redis.Client, ttl time.Duration, logger *logrus.Logger) *WeatherHandler {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &WeatherHandler{Resolver: resolver, Redis: rdb, CacheTTL: ttl, Logger: logger}
}

type weatherQuery struct {
	Lat float64 `form:"lat" binding:"required,latitude"`
	Lon float64 `form:"lon" binding:"required,longitude"`
}

func (h *WeatherHandler) Current(c *gin.Context) {
	var q weatherQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid coordinates", validation.ToDetails(err))
		return
	}

	ctx := c.Request.Context()
	key := fmt.Sprintf("weather:%.2f:%.2f", q.Lat, q.Lon)
	if h.Redis != nil {
		var cached weather.Current
		if ok, err := helpers.RedisGetJSON(ctx, h.Redis, key, &cached); err == nil && ok {
			response.Success(c, http.StatusOK, cached, "weather", map[string]any{"cached": true})
			return
		}
	}

	cur, err := h.Resolver.Current(ctx, q.Lat, q.Lon)
	if err != nil {
		h.Logger.WithError(err).Warn("weather lookup failed")
		response.Error[any](c, http.StatusBadGateway, "weather unavailable", nil)
		return
	}
	if h.Redis != nil {
		if err := helpers.RedisSetJSON(ctx, h.Redis, key, cur, h.CacheTTL); err != nil {
			h.Logger.WithError(err).Warn("weather cache write failed")
		}
	}
	response.Success(c, http.StatusOK, cur, "weather", map[string]any{"cached": false})
}
