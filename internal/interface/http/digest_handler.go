package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	app "github.com/sideshelf/sideshelf/internal/application"
	"github.com/sideshelf/sideshelf/pkg/response"
	"github.com/sideshelf/sideshelf/pkg/validation"
)

type DigestHandler struct {
	Svc    *app.DigestService
	Logger *logrus.Logger
}

func NewDigestHandler(svc *app.DigestService, logger *logrus.Logger) *DigestHandler {
	return &DigestHandler{Svc: svc, Logger: logger}
}

type createDigestRequest struct {
	Title       string `json:"title" binding:"required,min=2,max=120"`
	Description string `json:"description" binding:"max=500"`
}

type sendIssueRequest struct {
	Subject string `json:"subject" binding:"required,max=200"`
	Body    string `json:"body" binding:"required,max=50000"`
}

func (h *DigestHandler) Create(c *gin.Context) {
	var req createDigestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	d, err := h.Svc.Create(c.Request.Context(), req.Title, req.Description)
	if err != nil {
		response.Error[any](c, http.StatusInternalServerError, "failed to create digest", nil)
		return
	}
	response.Success(c, http.StatusCreated, d, "digest created", nil)
}

func (h *DigestHandler) List(c *gin.Context) {
	digests, err := h.Svc.List(c.Request.Context(), limitQuery(c, 50))
	if err != nil {
		response.Error[any](c, http.StatusInternalServerError, "failed to list digests", nil)
		return
	}
	response.Success(c, http.StatusOK, digests, "digests", map[string]any{"count": len(digests)})
}

func (h *DigestHandler) Subscribe(c *gin.Context) {
	err := h.Svc.Subscribe(c.Request.Context(), c.GetString("userID"), c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, app.ErrDigestNotFound):
			response.Error[any](c, http.StatusNotFound, "digest not found", nil)
		case errors.Is(err, app.ErrDigestInactive):
			response.Error[any](c, http.StatusConflict, "digest is no longer active", nil)
		default:
			response.Error[any](c, http.StatusInternalServerError, "failed to subscribe", nil)
		}
		return
	}
	response.Success[any](c, http.StatusOK, map[string]any{"subscribed": true}, "subscribed", nil)
}

func (h *DigestHandler) Unsubscribe(c *gin.Context) {
	err := h.Svc.Unsubscribe(c.Request.Context(), c.GetString("userID"), c.Param("id"))
	if err != nil {
		if errors.Is(err, app.ErrDigestNotFound) {
			response.Error[any](c, http.StatusNotFound, "digest not found", nil)
			return
		}
		response.Error[any](c, http.StatusInternalServerError, "failed to unsubscribe", nil)
		return
	}
	response.Success[any](c, http.StatusOK, map[string]any{"subscribed": false}, "unsubscribed", nil)
}

// Delete applies the retention policy: digests with live subscribers are
// deactivated, others are deleted outright. The outcome is returned so the
// admin can see which path was taken.
func (h *DigestHandler) Delete(c *gin.Context) {
	outcome, err := h.Svc.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, app.ErrDigestNotFound) {
			response.Error[any](c, http.StatusNotFound, "digest not found", nil)
			return
		}
		h.Logger.WithError(err).WithField("digest_id", c.Param("id")).Error("digest delete failed")
		response.Error[any](c, http.StatusBadGateway, "deletion could not be completed", nil)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"outcome": outcome}, "digest delete resolved", nil)
}

func (h *DigestHandler) SendIssue(c *gin.Context) {
	var req sendIssueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	sent, err := h.Svc.SendIssue(c.Request.Context(), c.Param("id"), req.Subject, req.Body)
	if err != nil {
		switch {
		case errors.Is(err, app.ErrDigestNotFound):
			response.Error[any](c, http.StatusNotFound, "digest not found", nil)
		case errors.Is(err, app.ErrDigestInactive):
			response.Error[any](c, http.StatusConflict, "digest is no longer active", nil)
		default:
			response.Error[any](c, http.StatusInternalServerError, "failed to send issue", nil)
		}
		return
	}
	response.Success(c, http.StatusOK, gin.H{"queued": sent}, "issue queued", nil)
}
