package database

import (
	"regexp"

	"github.com/shuldan/config/pkg/snapshot"
)

const defaultTable = "config_snapshots"

var tableName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

type Option func(*options)

type options struct {
	table string
	store *snapshot.Options
}

func WithTable(table string) Option {
	return func(o *options) {
		o.table = table
	}
}

func WithStoreOptions(opts ...snapshot.Option) Option {
	return func(o *options) {
		o.store = snapshot.NewOptions(opts...)
	}
}
