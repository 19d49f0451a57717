package database

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/shuldan/config/pkg/config"
	"github.com/shuldan/config/pkg/snapshot"
)

var _ snapshot.Store = (*Store)(nil)

// Store keeps one row per snapshot name. Call Migrate once before use.
type Store struct {
	db      *sql.DB
	table   string
	dialect dialect
	opts    *snapshot.Options
}

func New(db *sql.DB, driver string, opts ...Option) (*Store, error) {
	o := &options{
		table: defaultTable,
		store: snapshot.NewOptions(),
	}
	for _, opt := range opts {
		opt(o)
	}

	name, err := normalizeDriver(driver)
	if err != nil {
		return nil, err
	}
	if !tableName.MatchString(o.table) {
		return nil, ErrInvalidTable.WithDetail("table", o.table)
	}

	return &Store{
		db:      db,
		table:   o.table,
		dialect: newDialect(name, o.table),
		opts:    o.store,
	}, nil
}

// Migrate creates the snapshot table if it does not exist yet.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, s.dialect.createTable); err != nil {
		return ErrSchemaFailed.WithDetail("table", s.table).WithCause(err)
	}
	return nil
}

func (s *Store) Save(ctx context.Context, name string, cfg *config.LayeredConfig) (snapshot.Revision, error) {
	rec, err := s.opts.Encode(name, cfg)
	if err != nil {
		return snapshot.Revision{}, err
	}

	_, err = s.db.ExecContext(ctx, s.dialect.upsert,
		rec.Name, rec.ID, rec.Codec, string(rec.Payload), rec.SavedAt.UnixNano())
	if err != nil {
		s.opts.Logger.Error("config snapshot save failed", "name", name, "table", s.table, "error", err)
		return snapshot.Revision{}, snapshot.ErrSaveFailed.WithDetail("name", name).WithCause(err)
	}

	s.opts.Logger.Debug("config snapshot saved", "name", name, "table", s.table, "revision", rec.ID)

	rev, _ := rec.Revision()
	return rev, nil
}

func (s *Store) Load(ctx context.Context, name string) (*snapshot.Snapshot, error) {
	if err := snapshot.ValidateName(name); err != nil {
		return nil, err
	}

	rec := snapshot.Record{Name: name}
	var savedAt int64
	err := s.db.QueryRowContext(ctx, s.dialect.selectOne, name).
		Scan(&rec.ID, &rec.Codec, &rec.Payload, &savedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, snapshot.ErrSnapshotNotFound.WithDetail("name", name)
	}
	if err != nil {
		return nil, snapshot.ErrLoadFailed.WithDetail("name", name).WithCause(err)
	}
	rec.SavedAt = time.Unix(0, savedAt).UTC()

	snap, err := s.opts.Decode(rec)
	if err != nil {
		s.opts.Logger.Error("config snapshot unreadable", "name", name, "table", s.table, "error", err)
		return nil, err
	}

	s.opts.Logger.Debug("config snapshot loaded", "name", name, "table", s.table, "revision", rec.ID)
	return snap, nil
}

func (s *Store) Delete(ctx context.Context, name string) error {
	if err := snapshot.ValidateName(name); err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, s.dialect.deleteOne, name)
	if err != nil {
		return snapshot.ErrDeleteFailed.WithDetail("name", name).WithCause(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return snapshot.ErrDeleteFailed.WithDetail("name", name).WithCause(err)
	}
	if n == 0 {
		return snapshot.ErrSnapshotNotFound.WithDetail("name", name)
	}

	s.opts.Logger.Debug("config snapshot deleted", "name", name, "table", s.table)
	return nil
}
