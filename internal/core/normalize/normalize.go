// Package normalize turns the backend's inconsistent list responses into
// plain slices. A list endpoint may answer with a bare array or with an
// object that wraps the array under one of several keys.
package normalize

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/rs/zerolog"
)

// Shape classifies a list response.
type Shape int

const (
	ShapeUnknown Shape = iota
	ShapeSequence
	ShapeWrapped
)

func (s Shape) String() string {
	switch s {
	case ShapeSequence:
		return "sequence"
	case ShapeWrapped:
		return "wrapped"
	default:
		return "unknown"
	}
}

var (
	// DefaultKeys is the wrapper-key priority used by most views.
	DefaultKeys = []string{"data", "items", "results"}
	// AdminKeys is the priority used by the admin dashboard.
	AdminKeys = []string{"data", "students", "items", "results"}
)

// Normalizer unwraps list responses using an ordered set of wrapper keys.
type Normalizer struct {
	keys []string
	log  zerolog.Logger
}

// New returns a normalizer. With no keys it uses DefaultKeys.
func New(log zerolog.Logger, keys ...string) *Normalizer {
	if len(keys) == 0 {
		keys = DefaultKeys
	}
	return &Normalizer{keys: keys, log: log}
}

// With returns a normalizer sharing the logger but using other keys.
func (n *Normalizer) With(keys ...string) *Normalizer {
	return New(n.log, keys...)
}

// List normalizes an already decoded value. A []any is returned unchanged,
// other slice kinds are copied element by element. A map holding a slice
// under one of the keys yields that slice. Anything else yields an empty
// slice and a warning, except nil which is silently empty.
func (n *Normalizer) List(v any) []any {
	if v == nil {
		return []any{}
	}
	if seq, ok := v.([]any); ok {
		return seq
	}
	if m, ok := v.(map[string]any); ok {
		for _, k := range n.keys {
			if inner, found := m[k]; found {
				if seq, isSeq := asSlice(inner); isSeq {
					return seq
				}
			}
		}
		n.warn(ShapeUnknown, fmt.Sprintf("object with %d keys", len(m)))
		return []any{}
	}
	if seq, ok := asSlice(v); ok {
		return seq
	}
	n.warn(ShapeUnknown, fmt.Sprintf("%T", v))
	return []any{}
}

// Classify inspects a raw JSON body and returns its shape together with the
// JSON of the sequence it carries. For ShapeUnknown the returned body is nil.
func (n *Normalizer) Classify(raw []byte) (Shape, json.RawMessage) {
	body := bytes.TrimSpace(raw)
	if len(body) == 0 {
		return ShapeUnknown, nil
	}
	switch body[0] {
	case '[':
		return ShapeSequence, json.RawMessage(body)
	case '{':
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(body, &obj); err != nil {
			return ShapeUnknown, nil
		}
		for _, k := range n.keys {
			inner := bytes.TrimSpace(obj[k])
			if len(inner) > 0 && inner[0] == '[' {
				return ShapeWrapped, json.RawMessage(inner)
			}
		}
	}
	return ShapeUnknown, nil
}

// DecodeList decodes a list response into a typed slice. Unknown shapes
// produce an empty slice and a warning; element decode failures are errors.
func DecodeList[T any](n *Normalizer, raw []byte) ([]T, Shape, error) {
	shape, body := n.Classify(raw)
	if shape == ShapeUnknown {
		if !isNull(raw) {
			n.warn(shape, snippet(raw))
		}
		return []T{}, shape, nil
	}
	out := []T{}
	if err := json.Unmarshal(body, &out); err != nil {
		return []T{}, shape, fmt.Errorf("decode %s list: %w", shape, err)
	}
	return out, shape, nil
}

func (n *Normalizer) warn(shape Shape, got string) {
	n.log.Warn().
		Str("shape", shape.String()).
		Strs("keys", n.keys).
		Str("got", got).
		Msg("unexpected list response shape")
}

func asSlice(v any) ([]any, bool) {
	if seq, ok := v.([]any); ok {
		return seq, true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

func isNull(raw []byte) bool {
	body := bytes.TrimSpace(raw)
	return len(body) == 0 || bytes.Equal(body, []byte("null"))
}

func snippet(raw []byte) string {
	const limit = 80
	body := bytes.TrimSpace(raw)
	if len(body) > limit {
		return string(body[:limit]) + "..."
	}
	return string(body)
}
