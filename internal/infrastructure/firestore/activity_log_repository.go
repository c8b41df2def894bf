package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"

	"github.com/sideshelf/sideshelf/internal/domain/entity"
	"github.com/sideshelf/sideshelf/internal/domain/repository"
)

type ActivityLogRepository struct {
	client *firestore.Client
}

func NewActivityLogRepository(client *firestore.Client) *ActivityLogRepository {
	return &ActivityLogRepository{client: client}
}

func (r *ActivityLogRepository) Record(ctx context.Context, log *entity.ActivityLog) error {
	doc := r.client.Collection(entity.ColActivityLogs).NewDoc()
	log.ID = doc.ID
	if log.CreatedAt.IsZero() {
		log.CreatedAt = time.Now().UTC()
	}
	_, err := doc.Create(ctx, log)
	return err
}

var _ repository.ActivityLogRepository = (*ActivityLogRepository)(nil)
