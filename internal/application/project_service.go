package application

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/sideshelf/sideshelf/internal/cascade"
	"github.com/sideshelf/sideshelf/internal/domain/entity"
	repo "github.com/sideshelf/sideshelf/internal/domain/repository"
	"github.com/sideshelf/sideshelf/pkg/helpers"
)

var (
	ErrProjectNotFound = errors.New("project not found")
	ErrNotOwner        = errors.New("not the project owner")
	ErrAlreadyLiked    = errors.New("already liked")
	ErrNotLiked        = errors.New("not liked")
)

type ProjectService struct {
	Repo        repo.ProjectRepository
	Users       repo.UserRepository
	Engagements repo.EngagementRepository
	Cascade     *cascade.Engine
	GCS         *storage.Client
	GCSBucket   string
	Logger      *logrus.Logger
	Indexer     *ProjectIndexer
}

type ProjectInput struct {
	Title         string
	Summary       string
	Body          string
	RepoURL       string
	DemoURL       string
	ScreenshotURL string
	Tags          []string
}

func (s *ProjectService) Create(ctx context.Context, authorID string, in ProjectInput) (*entity.Project, error) {
	author, err := s.Users.GetByID(ctx, authorID)
	if err != nil || author == nil {
		return nil, ErrUserNotFound
	}
	p := &entity.Project{
		AuthorID:        author.ID,
		AuthorName:      author.Name,
		AuthorAvatarURL: author.AvatarURL,
		Title:           in.Title,
		Summary:         in.Summary,
		Body:            in.Body,
		RepoURL:         in.RepoURL,
		DemoURL:         in.DemoURL,
		ScreenshotURL:   in.ScreenshotURL,
		Tags:            in.Tags,
	}
	if err := s.Repo.Create(ctx, p); err != nil {
		return nil, err
	}
	if s.Indexer != nil {
		_ = s.Indexer.Index(ctx, p)
	}
	return p, nil
}

func (s *ProjectService) Get(ctx context.Context, id string) (*entity.Project, error) {
	p, err := s.Repo.GetByID(ctx, id)
	if err != nil || p == nil {
		return nil, ErrProjectNotFound
	}
	return p, nil
}

func (s *ProjectService) List(ctx context.Context, limit int) ([]*entity.Project, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.Repo.List(ctx, limit)
}

func (s *ProjectService) ListByAuthor(ctx context.Context, authorID string) ([]*entity.Project, error) {
	return s.Repo.ListByAuthor(ctx, authorID)
}

func (s *ProjectService) Update(ctx context.Context, callerID, id string, in ProjectInput) (*entity.Project, error) {
	p, err := s.Repo.GetByID(ctx, id)
	if err != nil || p == nil {
		return nil, ErrProjectNotFound
	}
	if p.AuthorID != callerID {
		return nil, ErrNotOwner
	}
	if in.Title != "" {
		p.Title = in.Title
	}
	if in.Summary != "" {
		p.Summary = in.Summary
	}
	if in.Body != "" {
		p.Body = in.Body
	}
	if in.RepoURL != "" {
		p.RepoURL = in.RepoURL
	}
	if in.DemoURL != "" {
		p.DemoURL = in.DemoURL
	}
	if in.ScreenshotURL != "" {
		p.ScreenshotURL = in.ScreenshotURL
	}
	if in.Tags != nil {
		p.Tags = in.Tags
	}
	if err := s.Repo.Update(ctx, p); err != nil {
		return nil, err
	}
	if s.Indexer != nil {
		_ = s.Indexer.Index(ctx, p)
	}
	return p, nil
}

// HardDelete removes the project and everything scoped to it through the
// cascade engine. Only the author may delete.
func (s *ProjectService) HardDelete(ctx context.Context, callerID, id string) (cascade.Summary, error) {
	p, err := s.Repo.GetByID(ctx, id)
	if err != nil || p == nil {
		return cascade.Summary{}, ErrProjectNotFound
	}
	if p.AuthorID != callerID {
		return cascade.Summary{}, ErrNotOwner
	}

	sum, err := s.Cascade.HardDeleteProject(ctx, id)
	if err != nil {
		return cascade.Summary{}, err
	}
	if sum.Failed == 0 && s.Indexer != nil {
		_ = s.Indexer.Delete(ctx, id)
	}
	return sum, nil
}

func (s *ProjectService) Like(ctx context.Context, userID, projectID string) error {
	if _, err := s.Get(ctx, projectID); err != nil {
		return err
	}
	liked, err := s.Engagements.HasLiked(ctx, userID, projectID)
	if err != nil {
		return err
	}
	if liked {
		return ErrAlreadyLiked
	}
	if err := s.Engagements.CreateLike(ctx, &entity.Like{UserID: userID, ProjectID: projectID}); err != nil {
		return err
	}
	return s.Repo.AdjustLikeCount(ctx, projectID, 1)
}

func (s *ProjectService) Unlike(ctx context.Context, userID, projectID string) error {
	liked, err := s.Engagements.HasLiked(ctx, userID, projectID)
	if err != nil {
		return err
	}
	if !liked {
		return ErrNotLiked
	}
	if err := s.Engagements.DeleteLike(ctx, userID, projectID); err != nil {
		return err
	}
	return s.Repo.AdjustLikeCount(ctx, projectID, -1)
}

func (s *ProjectService) AddComment(ctx context.Context, userID, projectID, body string) (*entity.Comment, error) {
	if _, err := s.Get(ctx, projectID); err != nil {
		return nil, err
	}
	author, err := s.Users.GetByID(ctx, userID)
	if err != nil || author == nil {
		return nil, ErrUserNotFound
	}
	c := &entity.Comment{
		ProjectID:       projectID,
		AuthorID:        author.ID,
		AuthorName:      author.Name,
		AuthorAvatarURL: author.AvatarURL,
		Body:            body,
	}
	if err := s.Engagements.CreateComment(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *ProjectService) ListComments(ctx context.Context, projectID string, limit int) ([]*entity.Comment, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.Engagements.ListComments(ctx, projectID, limit)
}

// AddWhisper sends private feedback to the project's author.
func (s *ProjectService) AddWhisper(ctx context.Context, senderID, projectID, body string) (*entity.Whisper, error) {
	if _, err := s.Get(ctx, projectID); err != nil {
		return nil, err
	}
	sender, err := s.Users.GetByID(ctx, senderID)
	if err != nil || sender == nil {
		return nil, ErrUserNotFound
	}
	w := &entity.Whisper{
		ProjectID:  projectID,
		SenderID:   sender.ID,
		SenderName: sender.Name,
		Body:       body,
	}
	if err := s.Engagements.CreateWhisper(ctx, w); err != nil {
		return nil, err
	}
	return w, nil
}

// ListWhispers is restricted to the project's author; whispers are private.
func (s *ProjectService) ListWhispers(ctx context.Context, callerID, projectID string, limit int) ([]*entity.Whisper, error) {
	p, err := s.Get(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if p.AuthorID != callerID {
		return nil, ErrNotOwner
	}
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.Engagements.ListWhispers(ctx, projectID, limit)
}

func (s *ProjectService) AddReaction(ctx context.Context, userID, projectID, emoji string) (*entity.Reaction, error) {
	if _, err := s.Get(ctx, projectID); err != nil {
		return nil, err
	}
	r := &entity.Reaction{ProjectID: projectID, UserID: userID, Emoji: emoji}
	if err := s.Engagements.CreateReaction(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *ProjectService) ListReactions(ctx context.Context, projectID string, limit int) ([]*entity.Reaction, error) {
	if limit <= 0 || limit > 200 {
		limit = 100
	}
	return s.Engagements.ListReactions(ctx, projectID, limit)
}

func (s *ProjectService) Search(ctx context.Context, q string, size int) ([]map[string]any, error) {
	return s.Indexer.Search(ctx, q, size)
}

// UploadScreenshot stores a project screenshot in GCS and returns its URL.
func (s *ProjectService) UploadScreenshot(ctx context.Context, callerID, projectID string, r io.Reader, filename, contentType string) (string, error) {
	p, err := s.Get(ctx, projectID)
	if err != nil {
		return "", err
	}
	if p.AuthorID != callerID {
		return "", ErrNotOwner
	}
	if s.GCS == nil || s.GCSBucket == "" {
		return "", errors.New("gcs not configured")
	}
	id := uuid.NewString()
	ext := strings.ToLower(filepath.Ext(filename))
	objectPath := filepath.ToSlash(filepath.Join("screenshots", projectID, id+ext))
	url, err := helpers.UploadImageToGCS(ctx, s.GCS, s.GCSBucket, objectPath, contentType, r)
	if err != nil {
		return "", err
	}
	p.ScreenshotURL = url
	if err := s.Repo.Update(ctx, p); err != nil {
		return "", err
	}
	return url, nil
}
