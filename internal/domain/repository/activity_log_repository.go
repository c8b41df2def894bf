package repository

import (
	"context"

	"github.com/sideshelf/sideshelf/internal/domain/entity"
)

// ActivityLogRepository appends audit records. Entries are time-boxed; the
// cleanup job in cmd/main purges anything past the retention window, so
// there is no read or delete surface here.
type ActivityLogRepository interface {
	Record(ctx context.Context, log *entity.ActivityLog) error
}
