package snapshot

import "github.com/shuldan/config/pkg/errors"

var newSnapshotCode = errors.WithPrefix("SNAPSHOT")

var (
	ErrInvalidName      = newSnapshotCode().New("config snapshot name must not be empty")
	ErrSnapshotNotFound = newSnapshotCode().New("config snapshot {{.name}} not found")
	ErrSaveFailed       = newSnapshotCode().New("failed to save config snapshot {{.name}}")
	ErrLoadFailed       = newSnapshotCode().New("failed to load config snapshot {{.name}}")
	ErrDeleteFailed     = newSnapshotCode().New("failed to delete config snapshot {{.name}}")
	ErrCorruptRecord    = newSnapshotCode().New("config snapshot {{.name}} is corrupt: {{.reason}}")
)
