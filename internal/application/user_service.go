package application

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/sideshelf/sideshelf/internal/cascade"
	"github.com/sideshelf/sideshelf/internal/domain/entity"
	repo "github.com/sideshelf/sideshelf/internal/domain/repository"
	"github.com/sideshelf/sideshelf/pkg/helpers"
	"github.com/sideshelf/sideshelf/pkg/mailer"
	mailtpl "github.com/sideshelf/sideshelf/pkg/mailer/templates"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrForbidden          = errors.New("forbidden")
	ErrAlreadyWithdrawn   = errors.New("user already withdrawn")
)

type UserService struct {
	Repo      repo.UserRepository
	Projects  repo.ProjectRepository
	Cascade   *cascade.Engine
	JWT       *helpers.JWTManager
	GCS       *storage.Client
	GCSBucket string
	Redis     *redis.Client
	Logger    *logrus.Logger
	Pub       *helpers.RabbitPublisher
	Indexer   *ProjectIndexer
	Activity  repo.ActivityLogRepository
}

// recordActivity appends an audit entry; failures are logged, never fatal.
func (s *UserService) recordActivity(ctx context.Context, userID, action string) {
	if s.Activity == nil {
		return
	}
	if err := s.Activity.Record(ctx, &entity.ActivityLog{UserID: userID, Action: action}); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("action", action).Warn("failed to record activity log")
	}
}

type TokenPair struct {
	AccessToken        string
	AccessTokenExpiry  time.Time
	RefreshToken       string
	RefreshTokenExpiry time.Time
}

func sessionKey(userID string) string {
	return "user:session:" + userID
}

func nowRFC3339() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

type SignupInput struct {
	Email    string
	Password string
	Name     string
}

func (s *UserService) Signup(ctx context.Context, in SignupInput) (*entity.User, error) {
	if existing, err := s.Repo.GetByEmail(ctx, in.Email); err == nil && existing != nil {
		return nil, ErrEmailTaken
	}
	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	u := &entity.User{
		Email:    in.Email,
		Password: hash,
		Name:     in.Name,
		Role:     entity.RoleUser,
	}
	if err := s.Repo.Create(ctx, u); err != nil {
		return nil, err
	}

	s.enqueueEmail(ctx, mailer.EmailJob{
		To:       u.Email,
		Template: mailtpl.Welcome,
		Data:     map[string]any{"Name": u.Name, "Type": mailtpl.Welcome},
	})
	return u, nil
}

// Authenticate validates email/password and returns the user without issuing
// tokens. A withdrawn account can no longer log in.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*entity.User, error) {
	u, err := s.Repo.GetByEmail(ctx, email)
	if err != nil || u == nil {
		return nil, ErrInvalidCredentials
	}
	if u.IsWithdrawn {
		return nil, ErrInvalidCredentials
	}
	if !helpers.CompareHashAndPassword(u.Password, password) {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

// IssueTokens generates access/refresh tokens and records a session in Redis.
func (s *UserService) IssueTokens(ctx context.Context, u *entity.User) (TokenPair, error) {
	sid := uuid.NewString()
	access, aexp, err := s.JWT.GenerateAccessToken(u.ID, sid)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Error("generate access token failed")
		}
		return TokenPair{}, err
	}
	refresh, rexp, err := s.JWT.GenerateRefreshToken(u.ID, sid)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Error("generate refresh token failed")
		}
		return TokenPair{}, err
	}

	if s.Redis != nil {
		fields := map[string]any{
			"user_id":    u.ID,
			"email":      u.Email,
			"name":       u.Name,
			"avatar_url": u.AvatarURL,
			"role":       u.Role,
			"sid":        sid,
			"logged_in":  true,
			"created_at": nowRFC3339(),
		}
		key := sessionKey(u.ID)
		pipe := s.Redis.Pipeline()
		pipe.HSet(ctx, key, fields)
		pipe.Expire(ctx, key, 24*time.Hour)
		if _, rErr := pipe.Exec(ctx); rErr != nil && s.Logger != nil {
			s.Logger.WithError(rErr).WithField("key", key).Warn("redis pipeline failed")
		}
	}

	return TokenPair{AccessToken: access, AccessTokenExpiry: aexp, RefreshToken: refresh, RefreshTokenExpiry: rexp}, nil
}

type LoginResponse struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
}

func (s *UserService) Login(ctx context.Context, email, password string) (*LoginResponse, TokenPair, error) {
	u, err := s.Authenticate(ctx, email, password)
	if err != nil {
		return nil, TokenPair{}, err
	}
	pair, err := s.IssueTokens(ctx, u)
	if err != nil {
		return nil, TokenPair{}, err
	}
	s.recordActivity(ctx, u.ID, "user.login")
	resp := &LoginResponse{UserID: u.ID, Email: u.Email, Name: u.Name}
	return resp, pair, nil
}

func (s *UserService) Refresh(ctx context.Context, refreshToken string) (TokenPair, string, error) {
	claims, err := s.JWT.ParseRefreshToken(refreshToken)
	if err != nil {
		return TokenPair{}, "", ErrInvalidCredentials
	}
	u, err := s.Repo.GetByID(ctx, claims.UserID)
	if err != nil || u == nil {
		return TokenPair{}, "", ErrInvalidCredentials
	}
	// Validate current session id matches the token's sid
	if s.Redis != nil {
		key := sessionKey(u.ID)
		data, rErr := s.Redis.HGetAll(ctx, key).Result()
		if rErr != nil || len(data) == 0 || data["sid"] != claims.SessionID {
			return TokenPair{}, "", ErrInvalidCredentials
		}
	}
	pair, err := s.IssueTokens(ctx, u)
	if err != nil {
		return TokenPair{}, "", err
	}
	return pair, u.ID, nil
}

func (s *UserService) Logout(ctx context.Context, userID string) {
	if s.Redis != nil && userID != "" {
		_ = s.Redis.Del(ctx, sessionKey(userID)).Err()
	}
}

func (s *UserService) GetProfile(ctx context.Context, userID string) (*entity.User, error) {
	u, err := s.Repo.GetByID(ctx, userID)
	if err != nil || u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}

type UpdateProfileInput struct {
	Name      string
	AvatarURL string
}

func (s *UserService) UpdateProfile(ctx context.Context, userID string, in UpdateProfileInput) (*entity.User, error) {
	u, err := s.Repo.GetByID(ctx, userID)
	if err != nil || u == nil {
		return nil, ErrUserNotFound
	}
	if in.Name != "" {
		u.Name = in.Name
	}
	if in.AvatarURL != "" {
		u.AvatarURL = in.AvatarURL
	}
	if err := s.Repo.Update(ctx, u); err != nil {
		return nil, err
	}

	if s.Redis != nil {
		key := sessionKey(u.ID)
		pipe := s.Redis.Pipeline()
		pipe.HSet(ctx, key, map[string]any{
			"name":       u.Name,
			"avatar_url": u.AvatarURL,
			"updated_at": nowRFC3339(),
		})
		if ttl, tErr := s.Redis.TTL(ctx, key).Result(); tErr == nil && ttl > 0 {
			pipe.Expire(ctx, key, ttl)
		}
		if _, pErr := pipe.Exec(ctx); pErr != nil && s.Logger != nil {
			s.Logger.WithError(pErr).WithField("key", key).Warn("redis pipeline failed")
		}
	}
	return u, nil
}

// UploadAvatar stores an avatar in GCS and updates the profile with its URL.
func (s *UserService) UploadAvatar(ctx context.Context, userID string, r io.Reader, filename, contentType string) (string, error) {
	u, err := s.Repo.GetByID(ctx, userID)
	if err != nil || u == nil {
		return "", ErrUserNotFound
	}
	if s.GCS == nil || s.GCSBucket == "" {
		return "", errors.New("gcs not configured")
	}
	id := uuid.NewString()
	ext := strings.ToLower(filepath.Ext(filename))
	objectPath := filepath.ToSlash(filepath.Join("avatars", userID, id+ext))
	url, err := helpers.UploadImageToGCS(ctx, s.GCS, s.GCSBucket, objectPath, contentType, r)
	if err != nil {
		return "", err
	}
	u.AvatarURL = url
	if err := s.Repo.Update(ctx, u); err != nil {
		return "", err
	}
	if s.Redis != nil {
		s.Redis.HSet(ctx, sessionKey(u.ID), map[string]any{
			"avatar_url": u.AvatarURL,
			"updated_at": nowRFC3339(),
		})
	}
	return url, nil
}

// HardDelete removes the target user and their entire footprint through the
// cascade engine. Callers may only delete themselves. Partial commit failure
// is reported in the summary; re-invoking the operation is the retry path.
func (s *UserService) HardDelete(ctx context.Context, callerID, targetID string) (cascade.Summary, error) {
	if callerID != targetID {
		return cascade.Summary{}, ErrForbidden
	}
	if _, err := s.Repo.GetByID(ctx, targetID); err != nil {
		return cascade.Summary{}, ErrUserNotFound
	}

	// Capture project ids up front so the search index can be cleaned once
	// the documents are gone.
	var projectIDs []string
	if s.Projects != nil {
		if projects, err := s.Projects.ListByAuthor(ctx, targetID); err == nil {
			for _, p := range projects {
				projectIDs = append(projectIDs, p.ID)
			}
		}
	}

	sum, err := s.Cascade.HardDeleteUser(ctx, targetID)
	if err != nil {
		return cascade.Summary{}, err
	}

	s.Logout(ctx, targetID)
	s.recordActivity(ctx, targetID, "user.hard_delete")
	if sum.Failed == 0 && s.Indexer != nil {
		for _, id := range projectIDs {
			_ = s.Indexer.Delete(ctx, id)
		}
	}
	return sum, nil
}

type WithdrawInput struct {
	Reason   string
	Feedback string
}

// Withdraw anonymizes the user's authored content and marks the account
// withdrawn. The root user document is flagged only after every dependent
// update group committed, so a partially-failed withdrawal can be re-invoked
// instead of being rejected as already withdrawn.
func (s *UserService) Withdraw(ctx context.Context, callerID, targetID string, in WithdrawInput) (cascade.Summary, error) {
	if callerID != targetID {
		return cascade.Summary{}, ErrForbidden
	}
	u, err := s.Repo.GetByID(ctx, targetID)
	if err != nil || u == nil {
		return cascade.Summary{}, ErrUserNotFound
	}
	if u.IsWithdrawn {
		return cascade.Summary{}, ErrAlreadyWithdrawn
	}

	sum, err := s.Cascade.AnonymizeUserContent(ctx, targetID)
	if err != nil {
		return cascade.Summary{}, err
	}
	if sum.Failed > 0 {
		return sum, nil
	}

	if err := s.Repo.UpdateFields(ctx, targetID, map[string]any{
		"isWithdrawn":      true,
		"withdrawnAt":      time.Now().UTC(),
		"withdrawReason":   in.Reason,
		"withdrawFeedback": in.Feedback,
	}); err != nil {
		return sum, err
	}

	s.Logout(ctx, targetID)
	s.recordActivity(ctx, targetID, "user.withdraw")
	s.reindexAnonymized(ctx, targetID)
	s.enqueueEmail(ctx, mailer.EmailJob{
		To:       u.Email,
		Template: mailtpl.WithdrawalConfirmed,
		Data:     map[string]any{"Name": u.Name, "Type": mailtpl.WithdrawalConfirmed},
	})
	return sum, nil
}

// reindexAnonymized refreshes the search documents of the user's projects so
// discovery shows the placeholder author name.
func (s *UserService) reindexAnonymized(ctx context.Context, userID string) {
	if s.Indexer == nil || s.Projects == nil {
		return
	}
	projects, err := s.Projects.ListByAuthor(ctx, userID)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", userID).Warn("reindex after withdrawal failed")
		}
		return
	}
	for _, p := range projects {
		_ = s.Indexer.Index(ctx, p)
	}
}

func (s *UserService) enqueueEmail(ctx context.Context, job mailer.EmailJob) {
	if s.Pub == nil {
		return
	}
	if err := s.Pub.PublishJSON(ctx, job); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("template", job.Template).Warn("failed to publish email job")
	}
}
