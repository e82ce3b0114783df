package backend

import (
	"context"
	"time"

	"github.com/fernandisraphael-art/solinvestti-sub000/internal"
	"github.com/fernandisraphael-art/solinvestti-sub000/internal/config"
	"github.com/fernandisraphael-art/solinvestti-sub000/internal/storage"
)

type PushService struct {
	db     *storage.DB
	client *Client
	cfg    config.Config
}

func NewPushService(db *storage.DB, cfg config.Config) *PushService {
	return &PushService{db: db, client: NewClient(cfg), cfg: cfg}
}

// PushUnsynced drains locally persisted generators to the backend in
// configured batch sizes, marking each batch synced only after the backend
// accepted it.
func (s *PushService) PushUnsynced(ctx context.Context) (int, error) {
	total := 0
	for {
		stored, err := s.db.ListUnsyncedGenerators(s.cfg.BackendPushBatch)
		if err != nil {
			return total, err
		}
		if len(stored) == 0 {
			break
		}

		records := make([]internal.GeneratorRecord, 0, len(stored))
		ids := make([]int, 0, len(stored))
		for _, g := range stored {
			records = append(records, g.Record)
			ids = append(ids, g.ID)
		}

		if _, err := s.client.PushGenerators(ctx, records); err != nil {
			return total, err
		}
		if err := s.db.MarkGeneratorsSynced(ids); err != nil {
			return total, err
		}
		total += len(stored)
	}

	if total > 0 {
		_ = s.db.SetMetadata("backend.last_push", time.Now().UTC().Format(time.RFC3339))
	}
	return total, nil
}
