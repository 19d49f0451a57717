package config

import (
	"encoding"
	"encoding/json"
	"fmt"
	"iter"
	"strings"
)

const eol = " \n"

var (
	_ fmt.Stringer               = (*LayeredConfig)(nil)
	_ json.Marshaler             = (*LayeredConfig)(nil)
	_ encoding.BinaryMarshaler   = (*LayeredConfig)(nil)
	_ encoding.BinaryUnmarshaler = (*LayeredConfig)(nil)
)

// LayeredConfig overlays custom values on top of defaults. Reads go through
// the merged view, writes only ever touch the custom layer. It does no
// locking; guard a shared instance externally. The zero value is an empty
// container ready to use.
type LayeredConfig struct {
	defaults *Layer
	custom   *Layer
	merged   *Layer
}

// New copies both layers; either may be nil.
func New(defaults, custom *Layer) *LayeredConfig {
	c := &LayeredConfig{
		defaults: defaults.Clone(),
		custom:   custom.Clone(),
	}
	c.merge()
	return c
}

func FromMaps(defaults, custom map[string]any) *LayeredConfig {
	return New(LayerFromMap(defaults), LayerFromMap(custom))
}

// merge rebuilds the merged view: defaults order first, overridden keys stay
// in place, keys only present in custom follow in their own order.
func (c *LayeredConfig) merge() {
	merged := c.defaults.Clone()
	for k, v := range c.custom.All() {
		merged.Set(k, v)
	}
	c.merged = merged
}

// Get returns the effective value of key, or nil when it is not set.
// Use Lookup to tell a stored nil apart from a missing key.
func (c *LayeredConfig) Get(key string) any {
	return valueOr(c.merged.Get(key))
}

func (c *LayeredConfig) Lookup(key string) (any, bool) {
	return c.merged.Get(key)
}

// Has reports whether key is present in the merged view, even with a nil value.
func (c *LayeredConfig) Has(key string) bool {
	return c.merged.Has(key)
}

func (c *LayeredConfig) Set(key string, value any) *LayeredConfig {
	c.customLayer().Set(key, value)
	c.merge()
	return c
}

// Append stores value in the custom layer under the next positional key and
// returns that key.
func (c *LayeredConfig) Append(value any) string {
	key := IntKey(c.custom.NextIndex())
	c.customLayer().Set(key, value)
	c.merge()
	return key
}

func (c *LayeredConfig) customLayer() *Layer {
	if c.custom == nil {
		c.custom = NewLayer()
	}
	return c.custom
}

// Remove deletes a custom value. Keys that only exist in the defaults are left
// alone and reported as false; a removed override falls back to its default.
func (c *LayeredConfig) Remove(key string) bool {
	if !c.custom.Delete(key) {
		return false
	}
	c.merge()
	return true
}

func (c *LayeredConfig) Unset(key string) {
	c.Remove(key)
}

func (c *LayeredConfig) All() map[string]any {
	return c.merged.Map()
}

// Keys lists the merged keys in iteration order.
func (c *LayeredConfig) Keys() []string {
	return c.merged.Keys()
}

func (c *LayeredConfig) Entries() iter.Seq2[string, any] {
	return c.merged.All()
}

func (c *LayeredConfig) Len() int {
	return c.merged.Len()
}

func (c *LayeredConfig) DefaultConfig() map[string]any {
	return c.defaults.Map()
}

func (c *LayeredConfig) CustomConfig() map[string]any {
	return c.custom.Map()
}

func (c *LayeredConfig) Defaults() *Layer {
	return c.defaults.Clone()
}

func (c *LayeredConfig) Custom() *Layer {
	return c.custom.Clone()
}

// String renders one "key \t => value" line per merged entry. It is meant
// for humans and cannot be parsed back.
func (c *LayeredConfig) String() string {
	lines := make([]string, 0, c.merged.Len())
	for k, v := range c.merged.All() {
		lines = append(lines, fmt.Sprintf("%s \t => %s", k, display(v)))
	}
	return strings.Join(lines, ","+eol)
}

// MarshalJSON encodes the merged view.
func (c *LayeredConfig) MarshalJSON() ([]byte, error) {
	return c.merged.MarshalJSON()
}

func (c *LayeredConfig) MarshalBinary() ([]byte, error) {
	return c.Serialize(JSONCodec{})
}

// UnmarshalBinary replaces the receiver's layers. The receiver is left
// untouched when data is malformed.
func (c *LayeredConfig) UnmarshalBinary(data []byte) error {
	fresh, err := Deserialize(data, JSONCodec{})
	if err != nil {
		return err
	}
	*c = *fresh
	return nil
}

// Serialize encodes the defaults and custom layers. A nil codec means JSON.
// Values survive a round trip when they are int, float64, string, bool, nil,
// []any or map[string]any; other integer widths come back as int, and named
// types such as time.Duration come back in their encoded form.
func (c *LayeredConfig) Serialize(codec Codec) ([]byte, error) {
	if codec == nil {
		codec = JSONCodec{}
	}
	data, err := codec.Encode(c.defaults, c.custom)
	if err != nil {
		return nil, ErrEncodeSnapshot.WithDetail("codec", codec.Name()).WithCause(err)
	}
	return data, nil
}

// Deserialize rebuilds a container from Serialize output. Input that does not
// decode to exactly two layers is rejected with ErrMalformedSnapshot.
func Deserialize(data []byte, codec Codec) (*LayeredConfig, error) {
	if codec == nil {
		codec = JSONCodec{}
	}
	defaults, custom, err := codec.Decode(data)
	if err != nil {
		return nil, err
	}
	return New(defaults, custom), nil
}

func valueOr(v any, ok bool) any {
	if !ok {
		return nil
	}
	return v
}

func display(v any) string {
	if v == nil {
		return ""
	}
	return fmt.Sprint(v)
}
