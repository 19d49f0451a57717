package config

import "github.com/shuldan/config/pkg/errors"

var newConfigCode = errors.WithPrefix("CONFIG")

var (
	ErrInvalidLayer      = newConfigCode().New("config layer must be a mapping: {{.reason}}")
	ErrMalformedSnapshot = newConfigCode().New("malformed {{.codec}} config snapshot: {{.reason}}")
	ErrEncodeSnapshot    = newConfigCode().New("failed to encode config snapshot with {{.codec}} codec")
	ErrUnknownCodec      = newConfigCode().New("unknown config codec {{.codec}}")
)
