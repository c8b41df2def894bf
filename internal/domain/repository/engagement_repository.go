package repository

import (
	"context"

	"github.com/sideshelf/sideshelf/internal/domain/entity"
)

// EngagementRepository covers the per-project dependent collections:
// comments, likes, whispers and reactions.
type EngagementRepository interface {
	CreateComment(ctx context.Context, c *entity.Comment) error
	ListComments(ctx context.Context, projectID string, limit int) ([]*entity.Comment, error)

	// CreateLike writes the deterministic userId_projectId document; a
	// repeated like overwrites the same document, keeping the pair unique.
	CreateLike(ctx context.Context, l *entity.Like) error
	DeleteLike(ctx context.Context, userID, projectID string) error
	HasLiked(ctx context.Context, userID, projectID string) (bool, error)

	CreateWhisper(ctx context.Context, w *entity.Whisper) error
	ListWhispers(ctx context.Context, projectID string, limit int) ([]*entity.Whisper, error)

	CreateReaction(ctx context.Context, r *entity.Reaction) error
	ListReactions(ctx context.Context, projectID string, limit int) ([]*entity.Reaction, error)
}
