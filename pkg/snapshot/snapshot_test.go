package snapshot

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/shuldan/config/pkg/config"
	"github.com/shuldan/config/pkg/errors"
)

func sample() *config.LayeredConfig {
	return config.FromMaps(map[string]any{"one": "foo"}, map[string]any{"one": "bar", "two": 2})
}

func TestNewOptions_Defaults(t *testing.T) {
	o := NewOptions(WithCodec(nil), WithLogger(nil), WithClock(nil), WithIDGenerator(nil))

	if _, ok := o.Codec.(config.JSONCodec); !ok {
		t.Errorf("default codec = %T, expected JSONCodec", o.Codec)
	}
	if o.Logger == nil || o.Clock == nil || o.NewID == nil {
		t.Error("nil options must keep the defaults")
	}
}

func TestOptions_Encode(t *testing.T) {
	id := uuid.MustParse("00000000-0000-4000-8000-000000000001")
	at := time.Date(2024, 1, 2, 3, 4, 5, 0, time.FixedZone("X", 3600))
	o := NewOptions(
		WithCodec(config.YAMLCodec{}),
		WithClock(func() time.Time { return at }),
		WithIDGenerator(func() uuid.UUID { return id }),
	)

	rec, err := o.Encode("mailer", sample())
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if rec.ID != id.String() || rec.Name != "mailer" || rec.Codec != "yaml" {
		t.Errorf("unexpected record %+v", rec)
	}
	if !rec.SavedAt.Equal(at) || rec.SavedAt.Location() != time.UTC {
		t.Errorf("SavedAt = %v, expected %v in UTC", rec.SavedAt, at)
	}
	if len(rec.Payload) == 0 {
		t.Error("payload must not be empty")
	}

	if _, err := o.Encode("", sample()); !errors.Is(err, ErrInvalidName) {
		t.Errorf("expected ErrInvalidName, got %v", err)
	}
}

func TestOptions_DecodeUsesRecordedCodec(t *testing.T) {
	rec, err := NewOptions(WithCodec(config.YAMLCodec{})).Encode("mailer", sample())
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	snap, err := NewOptions(WithCodec(config.JSONCodec{})).Decode(rec)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if snap.Codec != "yaml" || snap.Config.Get("one") != "bar" || snap.Config.Get("two") != 2 {
		t.Errorf("unexpected snapshot %+v / %v", snap.Revision, snap.Config.All())
	}
}

func TestOptions_DecodeCorrupt(t *testing.T) {
	good, err := NewOptions().Encode("mailer", sample())
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	badID := good
	badID.ID = "not-a-uuid"

	badCodec := good
	badCodec.Codec = "xml"

	badPayload := good
	badPayload.Payload = []byte(`{"one":"foo"}`)

	for name, rec := range map[string]Record{"id": badID, "codec": badCodec, "payload": badPayload} {
		t.Run(name, func(t *testing.T) {
			snap, err := NewOptions().Decode(rec)
			if snap != nil {
				t.Error("expected no snapshot")
			}
			if !errors.Is(err, ErrCorruptRecord) {
				t.Errorf("expected ErrCorruptRecord, got %v", err)
			}
		})
	}

	_, err = NewOptions().Decode(badPayload)
	if !errors.Is(err, config.ErrMalformedSnapshot) {
		t.Errorf("payload errors must keep the config cause, got %v", err)
	}
}
