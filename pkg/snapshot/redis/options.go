package redis

import (
	"time"

	"github.com/shuldan/config/pkg/snapshot"
)

type Option func(*options)

type options struct {
	keyFormat string
	ttl       time.Duration
	store     *snapshot.Options
}

func defaultOptions() *options {
	return &options{
		keyFormat: "config:snapshot:%s",
		store:     snapshot.NewOptions(),
	}
}

// WithKeyFormat sets the fmt pattern mapping a snapshot name to its hash key.
func WithKeyFormat(format string) Option {
	return func(c *options) {
		c.keyFormat = format
	}
}

// WithTTL expires snapshots that have not been saved again within ttl.
func WithTTL(ttl time.Duration) Option {
	return func(c *options) {
		c.ttl = ttl
	}
}

func WithStoreOptions(opts ...snapshot.Option) Option {
	return func(c *options) {
		c.store = snapshot.NewOptions(opts...)
	}
}
