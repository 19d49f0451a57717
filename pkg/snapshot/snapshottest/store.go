// Package snapshottest runs the behaviour every snapshot.Store must share.
//
//	func TestStore_Compliance(t *testing.T) {
//		snapshottest.TestStore(t, func(t *testing.T, opts ...snapshot.Option) snapshot.Store {
//			return memory.New(opts...)
//		})
//	}
package snapshottest

import (
	"context"
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/shuldan/config/pkg/config"
	"github.com/shuldan/config/pkg/errors"
	"github.com/shuldan/config/pkg/snapshot"
)

// StoreFactory returns an empty store. It is called once per test case.
type StoreFactory func(t *testing.T, opts ...snapshot.Option) snapshot.Store

var fixedTime = time.Date(2024, 5, 17, 10, 30, 0, 0, time.UTC)

// Sample is the container saved by the compliance tests.
func Sample() *config.LayeredConfig {
	return config.New(
		config.NewLayer(config.Entry{Key: "one", Value: "foo"}, config.Entry{Key: "two", Value: "bar"}),
		config.NewLayer(
			config.Entry{Key: "foo", Value: "bar"},
			config.Entry{Key: "one", Value: "baz"},
			config.Entry{Key: "retries", Value: 3},
			config.Entry{Key: "hosts", Value: []any{"a", "b"}},
		),
	)
}

func TestStore(t *testing.T, factory StoreFactory) {
	t.Helper()

	for _, codec := range []config.Codec{config.JSONCodec{}, config.YAMLCodec{}} {
		t.Run("SaveLoad/"+codec.Name(), func(t *testing.T) {
			testSaveLoad(t, factory, codec)
		})
	}
	t.Run("Overwrite", func(t *testing.T) { testOverwrite(t, factory) })
	t.Run("LoadMissing", func(t *testing.T) { testLoadMissing(t, factory) })
	t.Run("Delete", func(t *testing.T) { testDelete(t, factory) })
	t.Run("InvalidName", func(t *testing.T) { testInvalidName(t, factory) })
}

// AssertSameConfig compares every observable part of two containers.
func AssertSameConfig(t *testing.T, want, got *config.LayeredConfig) {
	t.Helper()

	if !reflect.DeepEqual(got.All(), want.All()) {
		t.Errorf("All() = %v, expected %v", got.All(), want.All())
	}
	if !reflect.DeepEqual(got.DefaultConfig(), want.DefaultConfig()) {
		t.Errorf("DefaultConfig() = %v, expected %v", got.DefaultConfig(), want.DefaultConfig())
	}
	if !reflect.DeepEqual(got.CustomConfig(), want.CustomConfig()) {
		t.Errorf("CustomConfig() = %v, expected %v", got.CustomConfig(), want.CustomConfig())
	}
	if !reflect.DeepEqual(got.Keys(), want.Keys()) {
		t.Errorf("Keys() = %v, expected %v", got.Keys(), want.Keys())
	}
}

func testSaveLoad(t *testing.T, factory StoreFactory, codec config.Codec) {
	id := uuid.MustParse("8d3a1c52-7a43-4b8e-9a57-2f2b5d7f1e01")
	s := factory(t,
		snapshot.WithCodec(codec),
		snapshot.WithClock(func() time.Time { return fixedTime }),
		snapshot.WithIDGenerator(func() uuid.UUID { return id }),
	)
	ctx := context.Background()
	cfg := Sample()

	rev, err := s.Save(ctx, "mailer", cfg)
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	want := snapshot.Revision{ID: id, Name: "mailer", Codec: codec.Name(), SavedAt: fixedTime}
	if !sameRevision(rev, want) {
		t.Errorf("Save revision = %+v, expected %+v", rev, want)
	}

	snap, err := s.Load(ctx, "mailer")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !sameRevision(snap.Revision, want) {
		t.Errorf("Load revision = %+v, expected %+v", snap.Revision, want)
	}
	AssertSameConfig(t, cfg, snap.Config)
}

func testOverwrite(t *testing.T, factory StoreFactory) {
	s := factory(t)
	ctx := context.Background()
	cfg := Sample()

	first, err := s.Save(ctx, "mailer", cfg)
	if err != nil {
		t.Fatalf("first Save failed: %v", err)
	}

	cfg.Set("foo", "changed").Remove("one")
	second, err := s.Save(ctx, "mailer", cfg)
	if err != nil {
		t.Fatalf("second Save failed: %v", err)
	}
	if first.ID == second.ID {
		t.Error("each save must get a new revision id")
	}

	snap, err := s.Load(ctx, "mailer")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if snap.ID != second.ID {
		t.Errorf("Load returned revision %s, expected %s", snap.ID, second.ID)
	}
	if snap.Config.Get("foo") != "changed" || snap.Config.Get("one") != "foo" {
		t.Errorf("stale snapshot loaded: %v", snap.Config.All())
	}
}

func testLoadMissing(t *testing.T, factory StoreFactory) {
	s := factory(t)

	snap, err := s.Load(context.Background(), "missing")
	if snap != nil {
		t.Error("expected no snapshot")
	}
	if !errors.Is(err, snapshot.ErrSnapshotNotFound) {
		t.Errorf("expected ErrSnapshotNotFound, got %v", err)
	}
}

func testDelete(t *testing.T, factory StoreFactory) {
	s := factory(t)
	ctx := context.Background()

	if _, err := s.Save(ctx, "mailer", Sample()); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := s.Delete(ctx, "mailer"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := s.Load(ctx, "mailer"); !errors.Is(err, snapshot.ErrSnapshotNotFound) {
		t.Errorf("expected ErrSnapshotNotFound after delete, got %v", err)
	}
	if err := s.Delete(ctx, "mailer"); !errors.Is(err, snapshot.ErrSnapshotNotFound) {
		t.Errorf("expected ErrSnapshotNotFound for second delete, got %v", err)
	}
}

func testInvalidName(t *testing.T, factory StoreFactory) {
	s := factory(t)
	ctx := context.Background()

	if _, err := s.Save(ctx, " ", Sample()); !errors.Is(err, snapshot.ErrInvalidName) {
		t.Errorf("Save: expected ErrInvalidName, got %v", err)
	}
	if _, err := s.Load(ctx, ""); !errors.Is(err, snapshot.ErrInvalidName) {
		t.Errorf("Load: expected ErrInvalidName, got %v", err)
	}
	if err := s.Delete(ctx, ""); !errors.Is(err, snapshot.ErrInvalidName) {
		t.Errorf("Delete: expected ErrInvalidName, got %v", err)
	}
}

func sameRevision(a, b snapshot.Revision) bool {
	return a.ID == b.ID && a.Name == b.Name && a.Codec == b.Codec && a.SavedAt.Equal(b.SavedAt)
}
