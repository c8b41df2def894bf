package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	app "github.com/sideshelf/sideshelf/internal/application"
	"github.com/sideshelf/sideshelf/pkg/response"
	"github.com/sideshelf/sideshelf/pkg/validation"
)

type ProjectHandler struct {
	Svc    *app.ProjectService
	Logger *logrus.Logger
}

func NewProjectHandler(svc *app.ProjectService, logger *logrus.Logger) *ProjectHandler {
	return &ProjectHandler{Svc: svc, Logger: logger}
}

type projectRequest struct {
	Title         string   `json:"title" binding:"required,min=2,max=120"`
	Summary       string   `json:"summary" binding:"required,max=300"`
	Body          string   `json:"body" binding:"max=20000"`
	RepoURL       string   `json:"repo_url" binding:"omitempty,url"`
	DemoURL       string   `json:"demo_url" binding:"omitempty,url"`
	ScreenshotURL string   `json:"screenshot_url" binding:"omitempty,url"`
	Tags          []string `json:"tags" binding:"max=10,dive,max=30"`
}

type projectUpdateRequest struct {
	Title         string   `json:"title" binding:"omitempty,min=2,max=120"`
	Summary       string   `json:"summary" binding:"omitempty,max=300"`
	Body          string   `json:"body" binding:"omitempty,max=20000"`
	RepoURL       string   `json:"repo_url" binding:"omitempty,url"`
	DemoURL       string   `json:"demo_url" binding:"omitempty,url"`
	ScreenshotURL string   `json:"screenshot_url" binding:"omitempty,url"`
	Tags          []string `json:"tags" binding:"omitempty,max=10,dive,max=30"`
}

type commentRequest struct {
	Body string `json:"body" binding:"required,max=2000"`
}

type whisperRequest struct {
	Body string `json:"body" binding:"required,max=2000"`
}

type reactionRequest struct {
	Emoji string `json:"emoji" binding:"required,max=16"`
}

func limitQuery(c *gin.Context, def int) int {
	n, err := strconv.Atoi(c.Query("limit"))
	if err != nil || n <= 0 {
		return def
	}
	return n
}

func (h *ProjectHandler) Create(c *gin.Context) {
	var req projectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	p, err := h.Svc.Create(c.Request.Context(), c.GetString("userID"), app.ProjectInput{
		Title: req.Title, Summary: req.Summary, Body: req.Body,
		RepoURL: req.RepoURL, DemoURL: req.DemoURL, ScreenshotURL: req.ScreenshotURL,
		Tags: req.Tags,
	})
	if err != nil {
		response.Error[any](c, http.StatusInternalServerError, "failed to create project", nil)
		return
	}
	response.Success(c, http.StatusCreated, p, "project created", nil)
}

func (h *ProjectHandler) Get(c *gin.Context) {
	p, err := h.Svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error[any](c, http.StatusNotFound, "project not found", nil)
		return
	}
	response.Success(c, http.StatusOK, p, "project", nil)
}

func (h *ProjectHandler) List(c *gin.Context) {
	projects, err := h.Svc.List(c.Request.Context(), limitQuery(c, 20))
	if err != nil {
		response.Error[any](c, http.StatusInternalServerError, "failed to list projects", nil)
		return
	}
	response.Success(c, http.StatusOK, projects, "projects", map[string]any{"count": len(projects)})
}

func (h *ProjectHandler) Update(c *gin.Context) {
	var req projectUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	p, err := h.Svc.Update(c.Request.Context(), c.GetString("userID"), c.Param("id"), app.ProjectInput{
		Title: req.Title, Summary: req.Summary, Body: req.Body,
		RepoURL: req.RepoURL, DemoURL: req.DemoURL, ScreenshotURL: req.ScreenshotURL,
		Tags: req.Tags,
	})
	if err != nil {
		switch {
		case errors.Is(err, app.ErrProjectNotFound):
			response.Error[any](c, http.StatusNotFound, "project not found", nil)
		case errors.Is(err, app.ErrNotOwner):
			response.Error[any](c, http.StatusForbidden, "not the project owner", nil)
		default:
			response.Error[any](c, http.StatusInternalServerError, "failed to update project", nil)
		}
		return
	}
	response.Success(c, http.StatusOK, p, "project updated", nil)
}

// HardDelete removes the project and all engagement scoped to it. Partial
// commits report success=false with group counts; re-invoking retries the
// remainder.
func (h *ProjectHandler) HardDelete(c *gin.Context) {
	sum, err := h.Svc.HardDelete(c.Request.Context(), c.GetString("userID"), c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, app.ErrProjectNotFound):
			response.Error[any](c, http.StatusNotFound, "project not found", nil)
		case errors.Is(err, app.ErrNotOwner):
			response.Error[any](c, http.StatusForbidden, "not the project owner", nil)
		default:
			h.Logger.WithError(err).WithField("project_id", c.Param("id")).Error("project hard delete failed")
			response.Error[any](c, http.StatusBadGateway, "deletion could not be started", nil)
		}
		return
	}

	meta := map[string]any{
		"groups_total":     sum.Total,
		"groups_succeeded": sum.Succeeded,
		"groups_failed":    sum.Failed,
		"documents":        sum.Documents,
	}
	if sum.Failed > 0 {
		response.Error[any](c, http.StatusOK, "deletion incomplete, retry to finish", meta)
		return
	}
	response.Success[any](c, http.StatusOK, map[string]any{"deleted": true}, "project deleted", meta)
}

func (h *ProjectHandler) Like(c *gin.Context) {
	err := h.Svc.Like(c.Request.Context(), c.GetString("userID"), c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, app.ErrProjectNotFound):
			response.Error[any](c, http.StatusNotFound, "project not found", nil)
		case errors.Is(err, app.ErrAlreadyLiked):
			response.Error[any](c, http.StatusConflict, "already liked", nil)
		default:
			response.Error[any](c, http.StatusInternalServerError, "failed to like project", nil)
		}
		return
	}
	response.Success[any](c, http.StatusOK, map[string]any{"liked": true}, "project liked", nil)
}

func (h *ProjectHandler) Unlike(c *gin.Context) {
	err := h.Svc.Unlike(c.Request.Context(), c.GetString("userID"), c.Param("id"))
	if err != nil {
		if errors.Is(err, app.ErrNotLiked) {
			response.Error[any](c, http.StatusConflict, "not liked", nil)
			return
		}
		response.Error[any](c, http.StatusInternalServerError, "failed to unlike project", nil)
		return
	}
	response.Success[any](c, http.StatusOK, map[string]any{"liked": false}, "project unliked", nil)
}

func (h *ProjectHandler) AddComment(c *gin.Context) {
	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	cm, err := h.Svc.AddComment(c.Request.Context(), c.GetString("userID"), c.Param("id"), req.Body)
	if err != nil {
		if errors.Is(err, app.ErrProjectNotFound) {
			response.Error[any](c, http.StatusNotFound, "project not found", nil)
			return
		}
		response.Error[any](c, http.StatusInternalServerError, "failed to add comment", nil)
		return
	}
	response.Success(c, http.StatusCreated, cm, "comment added", nil)
}

func (h *ProjectHandler) ListComments(c *gin.Context) {
	comments, err := h.Svc.ListComments(c.Request.Context(), c.Param("id"), limitQuery(c, 50))
	if err != nil {
		response.Error[any](c, http.StatusInternalServerError, "failed to list comments", nil)
		return
	}
	response.Success(c, http.StatusOK, comments, "comments", map[string]any{"count": len(comments)})
}

func (h *ProjectHandler) AddWhisper(c *gin.Context) {
	var req whisperRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	w, err := h.Svc.AddWhisper(c.Request.Context(), c.GetString("userID"), c.Param("id"), req.Body)
	if err != nil {
		if errors.Is(err, app.ErrProjectNotFound) {
			response.Error[any](c, http.StatusNotFound, "project not found", nil)
			return
		}
		response.Error[any](c, http.StatusInternalServerError, "failed to send whisper", nil)
		return
	}
	response.Success(c, http.StatusCreated, w, "whisper sent", nil)
}

// ListWhispers is author-only; whispers are private feedback.
func (h *ProjectHandler) ListWhispers(c *gin.Context) {
	whispers, err := h.Svc.ListWhispers(c.Request.Context(), c.GetString("userID"), c.Param("id"), limitQuery(c, 50))
	if err != nil {
		switch {
		case errors.Is(err, app.ErrProjectNotFound):
			response.Error[any](c, http.StatusNotFound, "project not found", nil)
		case errors.Is(err, app.ErrNotOwner):
			response.Error[any](c, http.StatusForbidden, "not the project owner", nil)
		default:
			response.Error[any](c, http.StatusInternalServerError, "failed to list whispers", nil)
		}
		return
	}
	response.Success(c, http.StatusOK, whispers, "whispers", map[string]any{"count": len(whispers)})
}

func (h *ProjectHandler) AddReaction(c *gin.Context) {
	var req reactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	r, err := h.Svc.AddReaction(c.Request.Context(), c.GetString("userID"), c.Param("id"), req.Emoji)
	if err != nil {
		if errors.Is(err, app.ErrProjectNotFound) {
			response.Error[any](c, http.StatusNotFound, "project not found", nil)
			return
		}
		response.Error[any](c, http.StatusInternalServerError, "failed to add reaction", nil)
		return
	}
	response.Success(c, http.StatusCreated, r, "reaction added", nil)
}

func (h *ProjectHandler) ListReactions(c *gin.Context) {
	reactions, err := h.Svc.ListReactions(c.Request.Context(), c.Param("id"), limitQuery(c, 100))
	if err != nil {
		response.Error[any](c, http.StatusInternalServerError, "failed to list reactions", nil)
		return
	}
	response.Success(c, http.StatusOK, reactions, "reactions", map[string]any{"count": len(reactions)})
}

func (h *ProjectHandler) Search(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		response.Error[any](c, http.StatusBadRequest, "missing query", nil)
		return
	}
	hits, err := h.Svc.Search(c.Request.Context(), q, limitQuery(c, 10))
	if err != nil {
		h.Logger.WithError(err).Warn("project search failed")
		response.Error[any](c, http.StatusBadGateway, "search unavailable", nil)
		return
	}
	response.Success(c, http.StatusOK, hits, "search results", map[string]any{"count": len(hits)})
}

func (h *ProjectHandler) UploadScreenshot(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "missing file", nil)
		return
	}
	f, err := fh.Open()
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "cannot read file", nil)
		return
	}
	defer f.Close()

	url, err := h.Svc.UploadScreenshot(c.Request.Context(), c.GetString("userID"), c.Param("id"), f, fh.Filename, fh.Header.Get("Content-Type"))
	if err != nil {
		switch {
		case errors.Is(err, app.ErrProjectNotFound):
			response.Error[any](c, http.StatusNotFound, "project not found", nil)
		case errors.Is(err, app.ErrNotOwner):
			response.Error[any](c, http.StatusForbidden, "not the project owner", nil)
		default:
			response.Error[any](c, http.StatusInternalServerError, "failed to upload screenshot", nil)
		}
		return
	}
	response.Success(c, http.StatusOK, gin.H{"screenshot_url": url}, "screenshot uploaded", nil)
}
