package redis

import (
	"bytes"
	"context"
	"errors"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/shuldan/config/pkg/config"
	frameworkErrors "github.com/shuldan/config/pkg/errors"
	"github.com/shuldan/config/pkg/logger"
	"github.com/shuldan/config/pkg/snapshot"
	"github.com/shuldan/config/pkg/snapshot/snapshottest"
)

func TestStore_Compliance(t *testing.T) {
	snapshottest.TestStore(t, func(t *testing.T, opts ...snapshot.Option) snapshot.Store {
		return New(newMockClient(), WithStoreOptions(opts...))
	})
}

func TestStore_KeyFormat(t *testing.T) {
	client := newMockClient()
	s := New(client, WithKeyFormat("app:%s:config"))

	if _, err := s.Save(context.Background(), "mailer", snapshottest.Sample()); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	h, ok := client.hashes["app:mailer:config"]
	if !ok {
		t.Fatalf("expected hash under app:mailer:config, got keys %v", client.calls)
	}
	for _, field := range []string{fieldID, fieldCodec, fieldPayload, fieldSavedAt} {
		if h[field] == "" {
			t.Errorf("field %s not written", field)
		}
	}
	if h[fieldCodec] != "json" {
		t.Errorf("codec = %s, expected json", h[fieldCodec])
	}
}

func TestStore_TTL(t *testing.T) {
	client := newMockClient()
	s := New(client, WithTTL(time.Hour))

	if _, err := s.Save(context.Background(), "mailer", snapshottest.Sample()); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if ttl := client.ttls["config:snapshot:mailer"]; ttl != time.Hour {
		t.Errorf("ttl = %v, expected 1h", ttl)
	}

	client = newMockClient()
	s = New(client)
	if _, err := s.Save(context.Background(), "mailer", snapshottest.Sample()); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if slices.Contains(client.calls, "Expire config:snapshot:mailer") {
		t.Error("Expire must not be sent without a ttl")
	}
}

func TestStore_ClientErrors(t *testing.T) {
	boom := errors.New("connection refused")
	ctx := context.Background()

	t.Run("save", func(t *testing.T) {
		client := newMockClient()
		client.hsetErr = boom
		_, err := New(client).Save(ctx, "mailer", snapshottest.Sample())
		if !frameworkErrors.Is(err, snapshot.ErrSaveFailed) {
			t.Errorf("expected ErrSaveFailed, got %v", err)
		}
		if !frameworkErrors.Is(err, boom) {
			t.Error("client error must be kept as cause")
		}
	})

	t.Run("expire keeps previous snapshot", func(t *testing.T) {
		client := newMockClient()
		var logs bytes.Buffer
		lg, err := logger.NewLogger(logger.WithWriter(&logs), logger.WithJSON())
		if err != nil {
			t.Fatalf("NewLogger failed: %v", err)
		}
		s := New(client, WithTTL(time.Minute), WithStoreOptions(snapshot.WithLogger(lg)))

		first, err := s.Save(ctx, "mailer", snapshottest.Sample())
		if err != nil {
			t.Fatalf("first Save failed: %v", err)
		}

		client.expireErr = boom
		_, err = s.Save(ctx, "mailer", snapshottest.Sample().Set("foo", "changed"))
		if !frameworkErrors.Is(err, snapshot.ErrSaveFailed) {
			t.Errorf("expected ErrSaveFailed, got %v", err)
		}
		if !strings.Contains(logs.String(), "config snapshot save failed") {
			t.Errorf("failed save not logged: %s", logs.String())
		}

		snap, err := s.Load(ctx, "mailer")
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if snap.ID != first.ID {
			t.Errorf("loaded revision %s, expected the earlier %s", snap.ID, first.ID)
		}
		if snap.Config.Get("foo") != "bar" {
			t.Errorf("failed save leaked into the stored snapshot: %v", snap.Config.All())
		}
		if ttl := client.ttls["config:snapshot:mailer"]; ttl != time.Minute {
			t.Errorf("ttl = %v, expected the earlier 1m", ttl)
		}
	})

	t.Run("load", func(t *testing.T) {
		client := newMockClient()
		client.hgetallErr = boom
		_, err := New(client).Load(ctx, "mailer")
		if !frameworkErrors.Is(err, snapshot.ErrLoadFailed) {
			t.Errorf("expected ErrLoadFailed, got %v", err)
		}
	})

	t.Run("delete", func(t *testing.T) {
		client := newMockClient()
		client.delErr = boom
		err := New(client).Delete(ctx, "mailer")
		if !frameworkErrors.Is(err, snapshot.ErrDeleteFailed) {
			t.Errorf("expected ErrDeleteFailed, got %v", err)
		}
	})
}

func TestStore_CorruptHash(t *testing.T) {
	tests := []struct {
		name  string
		patch func(h map[string]string)
		cause error
	}{
		{"bad timestamp", func(h map[string]string) { h[fieldSavedAt] = "yesterday" }, nil},
		{"bad id", func(h map[string]string) { h[fieldID] = "not-a-uuid" }, nil},
		{"bad payload", func(h map[string]string) { h[fieldPayload] = `{"only":"one"}` }, config.ErrMalformedSnapshot},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newMockClient()
			s := New(client)
			ctx := context.Background()
			if _, err := s.Save(ctx, "mailer", snapshottest.Sample()); err != nil {
				t.Fatalf("Save failed: %v", err)
			}
			tt.patch(client.hashes["config:snapshot:mailer"])

			_, err := s.Load(ctx, "mailer")
			if !frameworkErrors.Is(err, snapshot.ErrCorruptRecord) {
				t.Fatalf("expected ErrCorruptRecord, got %v", err)
			}
			if tt.cause != nil && !frameworkErrors.Is(err, tt.cause) {
				t.Errorf("expected cause %v in %v", tt.cause, err)
			}
		})
	}
}
