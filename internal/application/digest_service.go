package application

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/sideshelf/sideshelf/internal/cascade"
	"github.com/sideshelf/sideshelf/internal/domain/entity"
	repo "github.com/sideshelf/sideshelf/internal/domain/repository"
	"github.com/sideshelf/sideshelf/pkg/helpers"
	"github.com/sideshelf/sideshelf/pkg/mailer"
	mailtpl "github.com/sideshelf/sideshelf/pkg/mailer/templates"
)

var (
	ErrDigestNotFound = errors.New("digest not found")
	ErrDigestInactive = errors.New("digest is inactive")
)

type DigestService struct {
	Repo   repo.DigestRepository
	Users  repo.UserRepository
	Guard  *cascade.RetentionGuard
	Logger *logrus.Logger
	Pub    *helpers.RabbitPublisher
}

func (s *DigestService) Create(ctx context.Context, title, description string) (*entity.Digest, error) {
	d := &entity.Digest{
		Title:       title,
		Description: description,
		IsActive:    true,
	}
	if err := s.Repo.Create(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *DigestService) Get(ctx context.Context, id string) (*entity.Digest, error) {
	d, err := s.Repo.GetByID(ctx, id)
	if err != nil || d == nil {
		return nil, ErrDigestNotFound
	}
	return d, nil
}

func (s *DigestService) List(ctx context.Context, limit int) ([]*entity.Digest, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.Repo.List(ctx, limit)
}

func (s *DigestService) Subscribe(ctx context.Context, userID, digestID string) error {
	d, err := s.Get(ctx, digestID)
	if err != nil {
		return err
	}
	if !d.IsActive {
		return ErrDigestInactive
	}
	return s.Repo.Subscribe(ctx, userID, digestID)
}

func (s *DigestService) Unsubscribe(ctx context.Context, userID, digestID string) error {
	if _, err := s.Get(ctx, digestID); err != nil {
		return err
	}
	return s.Repo.Unsubscribe(ctx, userID, digestID)
}

// Delete applies the retention policy: a digest with at least one active
// subscription is deactivated instead of deleted, so subscribers keep their
// reference. Only a digest with no live subscribers is removed outright.
func (s *DigestService) Delete(ctx context.Context, digestID string) (cascade.RetentionOutcome, error) {
	if _, err := s.Get(ctx, digestID); err != nil {
		return "", err
	}
	target := cascade.DocRef{Collection: entity.ColDigests, ID: digestID}
	outcome, err := s.Guard.DeleteOrDeactivate(ctx, target, entity.ColDigestSubscriptions, "digestId", "isActive")
	if err != nil {
		return "", err
	}
	if s.Logger != nil {
		s.Logger.WithFields(logrus.Fields{
			"digest_id": digestID,
			"outcome":   outcome,
		}).Info("digest delete resolved")
	}
	return outcome, nil
}

// SendIssue queues one email job per active subscriber. Delivery is handled
// by the email worker; a partially-published batch is reported in the count.
func (s *DigestService) SendIssue(ctx context.Context, digestID, subject, body string) (int, error) {
	d, err := s.Get(ctx, digestID)
	if err != nil {
		return 0, err
	}
	if !d.IsActive {
		return 0, ErrDigestInactive
	}
	subs, err := s.Repo.ListActiveSubscriptions(ctx, digestID)
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, sub := range subs {
		u, uErr := s.Users.GetByID(ctx, sub.UserID)
		if uErr != nil || u == nil || u.IsWithdrawn {
			continue
		}
		job := mailer.EmailJob{
			To:       u.Email,
			Template: mailtpl.DigestIssue,
			Data: map[string]any{
				"Name":    u.Name,
				"Digest":  d.Title,
				"Subject": subject,
				"Body":    body,
				"Type":    mailtpl.DigestIssue,
			},
		}
		if s.Pub == nil {
			continue
		}
		if pErr := s.Pub.PublishJSON(ctx, job); pErr != nil {
			if s.Logger != nil {
				s.Logger.WithError(pErr).WithFields(logrus.Fields{
					"digest_id": digestID,
					"user_id":   sub.UserID,
				}).Warn("failed to publish digest email job")
			}
			continue
		}
		sent++
	}
	return sent, nil
}
