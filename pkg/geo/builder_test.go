package geo

import (
	"encoding/json"
	"testing"
)

// docBuilder assembles GEO documents for tests, entry by entry.
type docBuilder struct {
	entries []any
}

func newDoc() *docBuilder {
	return &docBuilder{}
}

func (b *docBuilder) add(key string, value any) *docBuilder {
	b.entries = append(b.entries, key, value)
	return b
}

func (b *docBuilder) pointRefs(indices ...int) *docBuilder {
	return b.add("topology", []any{"pointref", []any{"indices", indices}})
}

// attributes adds an attributes block; sections alternate a section name
// and the attribute entries of that section.
func (b *docBuilder) attributes(sections ...any) *docBuilder {
	return b.add("attributes", sections)
}

func (b *docBuilder) primitives(prims ...any) *docBuilder {
	return b.add("primitives", prims)
}

func (b *docBuilder) bytes(t *testing.T) []byte {
	t.Helper()
	data, err := json.Marshal(b.entries)
	if err != nil {
		t.Fatalf("marshal test document: %v", err)
	}
	return data
}

// attribute builds a numeric [descriptor, values] attribute entry.
func attribute(name string, tuples ...[]float64) []any {
	size := 0
	if len(tuples) > 0 {
		size = len(tuples[0])
	}
	return []any{
		[]any{"scope", "public", "type", "numeric", "name", name, "options", map[string]any{}},
		[]any{"size", size, "storage", "fpreal32",
			"defaults", []any{"size", 1, "storage", "fpreal64", "values", []any{0}},
			"values", []any{"size", size, "storage", "fpreal32", "tuples", tuples},
		},
	}
}

// attrs wraps attribute entries into a section value.
func attrs(entries ...[]any) []any {
	out := make([]any, len(entries))
	for i, e := range entries {
		out[i] = e
	}
	return out
}

func poly(closed bool, vertices ...int) []any {
	return []any{
		[]any{"type", "Poly"},
		[]any{"vertex", vertices, "closed", closed},
	}
}

func polyRun(closed bool, lists ...[]int) []any {
	data := make([]any, len(lists))
	for i, l := range lists {
		data[i] = []any{l}
	}
	return []any{
		[]any{"type", "run", "runtype", "Poly",
			"varyingfields", []any{"vertex"},
			"uniformfields", map[string]any{"closed": closed}},
		data,
	}
}

func triangle() [][]float64 {
	return [][]float64{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}
}

// triangleDoc is a single closed triangle with point positions only.
func triangleDoc() *docBuilder {
	return newDoc().
		add("fileversion", "12.0.581").
		add("pointcount", 3).
		add("vertexcount", 3).
		add("primitivecount", 1).
		pointRefs(0, 1, 2).
		attributes("pointattributes", attrs(attribute("P", triangle()...))).
		primitives(poly(true, 0, 1, 2))
}
