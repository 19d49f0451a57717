package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/shuldan/config/pkg/config"
	"github.com/shuldan/config/pkg/snapshot"
)

// store keeps encoded records, so every Load goes through the codec exactly
// like the networked backends.
type store struct {
	mu      sync.RWMutex
	records map[string]snapshot.Record
	opts    *snapshot.Options
}

func New(opts ...snapshot.Option) snapshot.Store {
	return &store{
		records: make(map[string]snapshot.Record),
		opts:    snapshot.NewOptions(opts...),
	}
}

func (s *store) Save(ctx context.Context, name string, cfg *config.LayeredConfig) (snapshot.Revision, error) {
	if err := ctx.Err(); err != nil {
		return snapshot.Revision{}, err
	}

	rec, err := s.opts.Encode(name, cfg)
	if err != nil {
		return snapshot.Revision{}, err
	}

	s.mu.Lock()
	rec.Payload = slices.Clone(rec.Payload)
	s.records[name] = rec
	s.mu.Unlock()

	s.opts.Logger.Debug("config snapshot saved", "name", name, "revision", rec.ID, "codec", rec.Codec)

	rev, _ := rec.Revision()
	return rev, nil
}

func (s *store) Load(ctx context.Context, name string) (*snapshot.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := snapshot.ValidateName(name); err != nil {
		return nil, err
	}

	s.mu.RLock()
	rec, ok := s.records[name]
	s.mu.RUnlock()

	if !ok {
		return nil, snapshot.ErrSnapshotNotFound.WithDetail("name", name)
	}

	snap, err := s.opts.Decode(rec)
	if err != nil {
		s.opts.Logger.Error("config snapshot unreadable", "name", name, "error", err)
		return nil, err
	}
	return snap, nil
}

func (s *store) Delete(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := snapshot.ValidateName(name); err != nil {
		return err
	}

	s.mu.Lock()
	_, ok := s.records[name]
	delete(s.records, name)
	s.mu.Unlock()

	if !ok {
		return snapshot.ErrSnapshotNotFound.WithDetail("name", name)
	}

	s.opts.Logger.Debug("config snapshot deleted", "name", name)
	return nil
}
