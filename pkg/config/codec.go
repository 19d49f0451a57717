package config

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml"
)

// Codec encodes the (defaults, custom) pair of a LayeredConfig. The merged
// view is never encoded; it is rebuilt on decode.
type Codec interface {
	Name() string
	Encode(defaults, custom *Layer) ([]byte, error)
	Decode(data []byte) (defaults, custom *Layer, err error)
}

var (
	_ Codec = JSONCodec{}
	_ Codec = YAMLCodec{}
)

// CodecByName resolves "json", "yaml" or "yml".
func CodecByName(name string) (Codec, error) {
	switch strings.ToLower(name) {
	case "json":
		return JSONCodec{}, nil
	case "yaml", "yml":
		return YAMLCodec{}, nil
	default:
		return nil, ErrUnknownCodec.WithDetail("codec", name)
	}
}

// JSONCodec writes the pair as a two element array of objects.
type JSONCodec struct{}

func (JSONCodec) Name() string {
	return "json"
}

func (JSONCodec) Encode(defaults, custom *Layer) ([]byte, error) {
	return json.Marshal([]*Layer{defaults.Clone(), custom.Clone()})
}

func (c JSONCodec) Decode(data []byte) (*Layer, *Layer, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, nil, malformed(c, err.Error(), err)
	}
	if len(raw) != 2 {
		return nil, nil, malformed(c, fmt.Sprintf("expected 2 layers, got %d", len(raw)), nil)
	}

	layers := [2]*Layer{NewLayer(), NewLayer()}
	for i, r := range raw {
		if err := layers[i].UnmarshalJSON(r); err != nil {
			return nil, nil, malformed(c, fmt.Sprintf("%s layer: %v", layerName(i), err), err)
		}
	}
	return layers[0], layers[1], nil
}

// YAMLCodec writes the pair as a two element sequence of mappings.
type YAMLCodec struct{}

func (YAMLCodec) Name() string {
	return "yaml"
}

func (YAMLCodec) Encode(defaults, custom *Layer) ([]byte, error) {
	return yaml.Marshal([]yaml.MapSlice{toMapSlice(defaults), toMapSlice(custom)})
}

func (c YAMLCodec) Decode(data []byte) (*Layer, *Layer, error) {
	var raw []yaml.MapSlice
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, nil, malformed(c, err.Error(), err)
	}
	if len(raw) != 2 {
		return nil, nil, malformed(c, fmt.Sprintf("expected 2 layers, got %d", len(raw)), nil)
	}
	return fromMapSlice(raw[0]), fromMapSlice(raw[1]), nil
}

func toMapSlice(l *Layer) yaml.MapSlice {
	ms := make(yaml.MapSlice, 0, l.Len())
	for k, v := range l.All() {
		ms = append(ms, yaml.MapItem{Key: k, Value: v})
	}
	return ms
}

func fromMapSlice(ms yaml.MapSlice) *Layer {
	l := NewLayer()
	for _, item := range ms {
		l.Set(keyString(item.Key), normalize(item.Value))
	}
	return l
}

func keyString(k any) string {
	if s, ok := k.(string); ok {
		return s
	}
	return fmt.Sprint(k)
}

// normalize maps decoder specific value types onto the ones a caller would
// have stored: integer literals become int, literals with a fraction or
// exponent float64, mappings map[string]any and sequences []any.
func normalize(v any) any {
	switch val := v.(type) {
	case json.Number:
		if i, err := strconv.Atoi(val.String()); err == nil {
			return i
		}
		if f, err := val.Float64(); err == nil {
			return f
		}
		return val.String()
	case int64:
		if val >= math.MinInt && val <= math.MaxInt {
			return int(val)
		}
		return val
	case uint64:
		if val <= math.MaxInt {
			return int(val)
		}
		return val
	case map[string]any:
		for k, item := range val {
			val[k] = normalize(item)
		}
		return val
	case map[any]any:
		m := make(map[string]any, len(val))
		for k, item := range val {
			m[keyString(k)] = normalize(item)
		}
		return m
	case yaml.MapSlice:
		m := make(map[string]any, len(val))
		for _, item := range val {
			m[keyString(item.Key)] = normalize(item.Value)
		}
		return m
	case []any:
		for i, item := range val {
			val[i] = normalize(item)
		}
		return val
	default:
		return v
	}
}

func malformed(c Codec, reason string, cause error) error {
	err := ErrMalformedSnapshot.
		WithDetail("codec", c.Name()).
		WithDetail("reason", reason)
	if cause != nil {
		return err.WithCause(cause)
	}
	return err
}

func layerName(i int) string {
	if i == 0 {
		return "defaults"
	}
	return "custom"
}
