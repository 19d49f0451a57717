package database

import "github.com/shuldan/config/pkg/errors"

var newDatabaseCode = errors.WithPrefix("SNAPSHOT_DB")

var (
	ErrUnsupportedDriver = newDatabaseCode().New("unsupported snapshot database driver {{.driver}}")
	ErrInvalidTable      = newDatabaseCode().New("invalid snapshot table name {{.table}}")
	ErrSchemaFailed      = newDatabaseCode().New("failed to create snapshot table {{.table}}")
	ErrOpenFailed        = newDatabaseCode().New("failed to open {{.driver}} database")
)
