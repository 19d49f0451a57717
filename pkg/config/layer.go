package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"iter"
	"maps"
	"slices"
	"strconv"
)

// Entry is a single key/value pair of a Layer.
type Entry struct {
	Key   string
	Value any
}

// Layer is an insertion ordered map of configuration values. Overwriting an
// existing key keeps its position; new keys are appended. A nil *Layer reads
// as empty.
type Layer struct {
	keys   []string
	values map[string]any
}

func NewLayer(entries ...Entry) *Layer {
	l := &Layer{
		keys:   make([]string, 0, len(entries)),
		values: make(map[string]any, len(entries)),
	}
	for _, e := range entries {
		l.Set(e.Key, e.Value)
	}
	return l
}

// LayerFromMap builds a layer from a plain map. Go maps carry no order, so
// keys are sorted.
func LayerFromMap(m map[string]any) *Layer {
	l := &Layer{
		keys:   make([]string, 0, len(m)),
		values: make(map[string]any, len(m)),
	}
	for _, k := range slices.Sorted(maps.Keys(m)) {
		l.Set(k, m[k])
	}
	return l
}

// IntKey returns the canonical key of a positional entry.
func IntKey(i int) string {
	return strconv.Itoa(i)
}

func (l *Layer) Get(key string) (any, bool) {
	if l == nil {
		return nil, false
	}
	v, ok := l.values[key]
	return v, ok
}

func (l *Layer) Has(key string) bool {
	_, ok := l.Get(key)
	return ok
}

func (l *Layer) Set(key string, value any) {
	if l.values == nil {
		l.values = make(map[string]any)
	}
	if _, exists := l.values[key]; !exists {
		l.keys = append(l.keys, key)
	}
	l.values[key] = value
}

func (l *Layer) Delete(key string) bool {
	if l == nil {
		return false
	}
	if _, exists := l.values[key]; !exists {
		return false
	}
	delete(l.values, key)
	if i := slices.Index(l.keys, key); i >= 0 {
		l.keys = slices.Delete(l.keys, i, i+1)
	}
	return true
}

func (l *Layer) Len() int {
	if l == nil {
		return 0
	}
	return len(l.keys)
}

func (l *Layer) Keys() []string {
	if l == nil {
		return []string{}
	}
	return slices.Clone(l.keys)
}

// All iterates the entries in insertion order.
func (l *Layer) All() iter.Seq2[string, any] {
	return func(yield func(string, any) bool) {
		if l == nil {
			return
		}
		for _, k := range l.keys {
			if !yield(k, l.values[k]) {
				return
			}
		}
	}
}

// Map returns an unordered copy of the layer.
func (l *Layer) Map() map[string]any {
	m := make(map[string]any, l.Len())
	for k, v := range l.All() {
		m[k] = v
	}
	return m
}

// Clone is shallow: nested maps and slices are shared with the original.
func (l *Layer) Clone() *Layer {
	c := &Layer{
		keys:   make([]string, 0, l.Len()),
		values: make(map[string]any, l.Len()),
	}
	for k, v := range l.All() {
		c.Set(k, v)
	}
	return c
}

// NextIndex is the positional key an appended value receives: one past the
// greatest non-negative integer key, or 0.
func (l *Layer) NextIndex() int {
	next := 0
	for k := range l.All() {
		if i, ok := parseIntKey(k); ok && i >= next {
			next = i + 1
		}
	}
	return next
}

func (l *Layer) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	i := 0
	for k, v := range l.All() {
		if i > 0 {
			buf.WriteByte(',')
		}
		i++

		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		vb, err := json.Marshal(jsonValue(v))
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads an object keeping its key order. null and [] decode to
// an empty layer.
func (l *Layer) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return ErrInvalidLayer.WithDetail("reason", err.Error()).WithCause(err)
	}

	fresh := NewLayer()
	switch tok {
	case nil:
	case json.Delim('['):
		if dec.More() {
			return ErrInvalidLayer.WithDetail("reason", "got a non-empty array")
		}
	case json.Delim('{'):
		for dec.More() {
			kt, err := dec.Token()
			if err != nil {
				return ErrInvalidLayer.WithDetail("reason", err.Error()).WithCause(err)
			}
			key, _ := kt.(string)

			var v any
			if err := dec.Decode(&v); err != nil {
				return ErrInvalidLayer.
					WithDetail("reason", fmt.Sprintf("value of %q: %v", key, err)).
					WithCause(err)
			}
			fresh.Set(key, normalize(v))
		}
	default:
		return ErrInvalidLayer.WithDetail("reason", fmt.Sprintf("got %v", tok))
	}

	*l = *fresh
	return nil
}

// floatValue marks integral floats with a fraction ("2.0") so they decode back
// to float64 instead of int.
type floatValue float64

func (f floatValue) MarshalJSON() ([]byte, error) {
	b, err := json.Marshal(float64(f))
	if err != nil {
		return nil, err
	}
	if !bytes.ContainsAny(b, ".eE") {
		b = append(b, ".0"...)
	}
	return b, nil
}

func jsonValue(v any) any {
	switch val := v.(type) {
	case float64:
		return floatValue(val)
	case float32:
		return floatValue(val)
	case map[string]any:
		m := make(map[string]any, len(val))
		for k, item := range val {
			m[k] = jsonValue(item)
		}
		return m
	case []any:
		s := make([]any, len(val))
		for i, item := range val {
			s[i] = jsonValue(item)
		}
		return s
	default:
		return v
	}
}

func parseIntKey(k string) (int, bool) {
	i, err := strconv.Atoi(k)
	if err != nil || strconv.Itoa(i) != k {
		return 0, false
	}
	return i, true
}
