// Package snapshot persists LayeredConfig containers by name. Only the
// defaults and custom layers are stored, encoded with a config.Codec; the
// merged view is rebuilt on load.
package snapshot

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/shuldan/config/pkg/config"
	"github.com/shuldan/config/pkg/contracts"
	"github.com/shuldan/config/pkg/logger"
)

// Store keeps the latest snapshot per name. Implementations are safe for
// concurrent use.
type Store interface {
	// Save replaces the snapshot stored under name and returns its new revision.
	Save(ctx context.Context, name string, cfg *config.LayeredConfig) (Revision, error)

	// Load returns ErrSnapshotNotFound when nothing is stored under name.
	Load(ctx context.Context, name string) (*Snapshot, error)

	Delete(ctx context.Context, name string) error
}

type Revision struct {
	ID      uuid.UUID
	Name    string
	Codec   string
	SavedAt time.Time
}

type Snapshot struct {
	Revision
	Config *config.LayeredConfig
}

// Record is the storage form of a snapshot shared by all backends.
type Record struct {
	ID      string
	Name    string
	Codec   string
	Payload []byte
	SavedAt time.Time
}

type Options struct {
	Codec  config.Codec
	Logger contracts.Logger
	Clock  func() time.Time
	NewID  func() uuid.UUID
}

type Option func(*Options)

func WithCodec(codec config.Codec) Option {
	return func(o *Options) {
		if codec != nil {
			o.Codec = codec
		}
	}
}

func WithLogger(l contracts.Logger) Option {
	return func(o *Options) {
		if l != nil {
			o.Logger = l
		}
	}
}

func WithClock(clock func() time.Time) Option {
	return func(o *Options) {
		if clock != nil {
			o.Clock = clock
		}
	}
}

func WithIDGenerator(newID func() uuid.UUID) Option {
	return func(o *Options) {
		if newID != nil {
			o.NewID = newID
		}
	}
}

func NewOptions(opts ...Option) *Options {
	o := &Options{
		Codec:  config.JSONCodec{},
		Logger: logger.NewNop(),
		Clock:  time.Now,
		NewID:  uuid.New,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrInvalidName
	}
	return nil
}

// Encode serializes cfg into a new record with a fresh revision.
func (o *Options) Encode(name string, cfg *config.LayeredConfig) (Record, error) {
	if err := ValidateName(name); err != nil {
		return Record{}, err
	}

	payload, err := cfg.Serialize(o.Codec)
	if err != nil {
		return Record{}, ErrSaveFailed.WithDetail("name", name).WithCause(err)
	}

	return Record{
		ID:      o.NewID().String(),
		Name:    name,
		Codec:   o.Codec.Name(),
		Payload: payload,
		SavedAt: o.Clock().UTC(),
	}, nil
}

// Decode rebuilds a snapshot with the codec recorded at save time, so records
// written before a codec change still load.
func (o *Options) Decode(rec Record) (*Snapshot, error) {
	rev, err := rec.Revision()
	if err != nil {
		return nil, ErrCorruptRecord.
			WithDetail("name", rec.Name).
			WithDetail("reason", "invalid revision id").
			WithCause(err)
	}

	codec, err := config.CodecByName(rec.Codec)
	if err != nil {
		return nil, ErrCorruptRecord.
			WithDetail("name", rec.Name).
			WithDetail("reason", "unknown codec "+rec.Codec).
			WithCause(err)
	}

	cfg, err := config.Deserialize(rec.Payload, codec)
	if err != nil {
		return nil, ErrCorruptRecord.
			WithDetail("name", rec.Name).
			WithDetail("reason", "undecodable payload").
			WithCause(err)
	}

	return &Snapshot{Revision: rev, Config: cfg}, nil
}

func (r Record) Revision() (Revision, error) {
	id, err := uuid.Parse(r.ID)
	if err != nil {
		return Revision{}, err
	}
	return Revision{
		ID:      id,
		Name:    r.Name,
		Codec:   r.Codec,
		SavedAt: r.SavedAt,
	}, nil
}
