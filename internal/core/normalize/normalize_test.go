package normalize

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

type row struct {
	ID int `json:"id"`
}

func newTestNormalizer(buf *bytes.Buffer, keys ...string) *Normalizer {
	return New(zerolog.New(buf), keys...)
}

func TestList_SequenceIsIdentity(t *testing.T) {
	n := newTestNormalizer(&bytes.Buffer{})
	in := []any{1.0, 2.0, 3.0}

	out := n.List(in)
	if len(out) != 3 {
		t.Fatalf("expected 3 items, got %d", len(out))
	}
	if &out[0] != &in[0] {
		t.Fatalf("expected the same backing slice")
	}
}

func TestList_Nil(t *testing.T) {
	var buf bytes.Buffer
	n := newTestNormalizer(&buf)

	out := n.List(nil)
	if out == nil || len(out) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", out)
	}
	if buf.Len() != 0 {
		t.Fatalf("nil should not log, got %s", buf.String())
	}
}

func TestList_WrappedResults(t *testing.T) {
	n := newTestNormalizer(&bytes.Buffer{})

	out := n.List(map[string]any{"results": []any{map[string]any{"id": 1.0}}})
	if len(out) != 1 {
		t.Fatalf("expected 1 item, got %d", len(out))
	}
}

func TestList_KeyPriority(t *testing.T) {
	n := newTestNormalizer(&bytes.Buffer{}, AdminKeys...)

	out := n.List(map[string]any{
		"items":    []any{"x", "y"},
		"students": []any{"s"},
	})
	if len(out) != 1 || out[0] != "s" {
		t.Fatalf("expected students to win over items, got %#v", out)
	}
}

func TestList_UnknownShapeWarns(t *testing.T) {
	var buf bytes.Buffer
	n := newTestNormalizer(&buf)

	out := n.List(map[string]any{"foo": 1.0})
	if len(out) != 0 {
		t.Fatalf("expected empty slice, got %#v", out)
	}
	if !strings.Contains(buf.String(), "unexpected list response shape") {
		t.Fatalf("expected warning, got %q", buf.String())
	}
}

func TestList_WrappedNonSequenceIsUnknown(t *testing.T) {
	n := newTestNormalizer(&bytes.Buffer{})

	if out := n.List(map[string]any{"data": "nope"}); len(out) != 0 {
		t.Fatalf("expected empty slice, got %#v", out)
	}
}

func TestList_TypedSlice(t *testing.T) {
	n := newTestNormalizer(&bytes.Buffer{})

	out := n.List([]string{"a", "b"})
	if len(out) != 2 || out[1] != "b" {
		t.Fatalf("unexpected result %#v", out)
	}
}

func TestDecodeList_Shapes(t *testing.T) {
	n := newTestNormalizer(&bytes.Buffer{})

	cases := []struct {
		name  string
		raw   string
		shape Shape
		want  int
	}{
		{"bare array", `[{"id":1},{"id":2}]`, ShapeSequence, 2},
		{"data wrapper", `{"data":[{"id":1}]}`, ShapeWrapped, 1},
		{"items wrapper", `{"items":[{"id":1}],"count":1}`, ShapeWrapped, 1},
		{"results wrapper", `{"results":[]}`, ShapeWrapped, 0},
		{"null", `null`, ShapeUnknown, 0},
		{"empty body", ``, ShapeUnknown, 0},
		{"unknown object", `{"foo":1}`, ShapeUnknown, 0},
		{"scalar", `42`, ShapeUnknown, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, shape, err := DecodeList[row](n, []byte(tc.raw))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if shape != tc.shape {
				t.Fatalf("expected shape %s, got %s", tc.shape, shape)
			}
			if got == nil || len(got) != tc.want {
				t.Fatalf("expected %d rows, got %#v", tc.want, got)
			}
		})
	}
}

func TestDecodeList_ElementMismatch(t *testing.T) {
	n := newTestNormalizer(&bytes.Buffer{})

	if _, _, err := DecodeList[row](n, []byte(`[{"id":"one"}]`)); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestDecodeList_CustomKey(t *testing.T) {
	n := newTestNormalizer(&bytes.Buffer{}).With("report")

	got, shape, err := DecodeList[row](n, []byte(`{"report":[{"id":7}]}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if shape != ShapeWrapped || len(got) != 1 || got[0].ID != 7 {
		t.Fatalf("unexpected result %v %#v", shape, got)
	}
}
