package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/shuldan/config/pkg/config"
	"github.com/shuldan/config/pkg/snapshot"
)

const (
	fieldID      = "id"
	fieldCodec   = "codec"
	fieldPayload = "payload"
	fieldSavedAt = "saved_at"
)

// store keeps one hash per snapshot name.
type store struct {
	client redis.UniversalClient
	opts   *options
}

func New(client redis.UniversalClient, opts ...Option) snapshot.Store {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	return &store{
		client: client,
		opts:   o,
	}
}

func (s *store) key(name string) string {
	return fmt.Sprintf(s.opts.keyFormat, name)
}

// Save writes the hash and its expiry in one MULTI/EXEC transaction, so a
// failed save leaves the previous snapshot in place.
func (s *store) Save(ctx context.Context, name string, cfg *config.LayeredConfig) (snapshot.Revision, error) {
	rec, err := s.opts.store.Encode(name, cfg)
	if err != nil {
		return snapshot.Revision{}, err
	}

	key := s.key(name)
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key,
			fieldID, rec.ID,
			fieldCodec, rec.Codec,
			fieldPayload, string(rec.Payload),
			fieldSavedAt, rec.SavedAt.Format(time.RFC3339Nano),
		)
		if s.opts.ttl > 0 {
			pipe.Expire(ctx, key, s.opts.ttl)
		}
		return nil
	})
	if err != nil {
		s.opts.store.Logger.Error("config snapshot save failed", "name", name, "key", key, "error", err)
		return snapshot.Revision{}, snapshot.ErrSaveFailed.
			WithDetail("name", name).
			WithDetail("key", key).
			WithCause(err)
	}

	s.opts.store.Logger.Debug("config snapshot saved", "name", name, "key", key, "revision", rec.ID)

	rev, _ := rec.Revision()
	return rev, nil
}

func (s *store) Load(ctx context.Context, name string) (*snapshot.Snapshot, error) {
	if err := snapshot.ValidateName(name); err != nil {
		return nil, err
	}

	key := s.key(name)
	fields, err := s.client.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, snapshot.ErrLoadFailed.
			WithDetail("name", name).
			WithDetail("key", key).
			WithCause(err)
	}
	if len(fields) == 0 {
		return nil, snapshot.ErrSnapshotNotFound.WithDetail("name", name)
	}

	savedAt, err := time.Parse(time.RFC3339Nano, fields[fieldSavedAt])
	if err != nil {
		return nil, snapshot.ErrCorruptRecord.
			WithDetail("name", name).
			WithDetail("reason", "invalid "+fieldSavedAt).
			WithCause(err)
	}

	snap, err := s.opts.store.Decode(snapshot.Record{
		ID:      fields[fieldID],
		Name:    name,
		Codec:   fields[fieldCodec],
		Payload: []byte(fields[fieldPayload]),
		SavedAt: savedAt,
	})
	if err != nil {
		s.opts.store.Logger.Error("config snapshot unreadable", "name", name, "key", key, "error", err)
		return nil, err
	}

	s.opts.store.Logger.Debug("config snapshot loaded", "name", name, "key", key, "revision", snap.ID.String())
	return snap, nil
}

func (s *store) Delete(ctx context.Context, name string) error {
	if err := snapshot.ValidateName(name); err != nil {
		return err
	}

	key := s.key(name)
	n, err := s.client.Del(ctx, key).Result()
	if err != nil {
		return snapshot.ErrDeleteFailed.
			WithDetail("name", name).
			WithDetail("key", key).
			WithCause(err)
	}
	if n == 0 {
		return snapshot.ErrSnapshotNotFound.WithDetail("name", name)
	}

	s.opts.store.Logger.Debug("config snapshot deleted", "name", name, "key", key)
	return nil
}
