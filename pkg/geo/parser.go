package geo

import (
	"fmt"
	"io"
	"os"

	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"

	"github.com/Faultbox/geo2obj/pkg/encoding"
)

// jsonAPI keeps numbers as json.Number so indices and components are
// converted explicitly rather than through float64.
var jsonAPI = jsoniter.Config{
	UseNumber:              true,
	ValidateJsonRawMessage: true,
}.Froze()

// Parser decodes GEO documents. The zero value is not usable; use NewParser.
type Parser struct {
	log *zap.Logger
}

// Option configures a Parser.
type Option func(*Parser)

// WithLogger routes non-fatal diagnostics (dropped attributes, header count
// mismatches, binding overrides) to log.
func WithLogger(log *zap.Logger) Option {
	return func(p *Parser) {
		if log != nil {
			p.log = log
		}
	}
}

// NewParser creates a Parser. Diagnostics are discarded unless WithLogger
// is given.
func NewParser(opts ...Option) *Parser {
	p := &Parser{log: zap.NewNop()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse parses a GEO document with a default Parser.
func Parse(data []byte) (*Geometry, error) {
	return NewParser().Parse(data)
}

// ParseFile parses a GEO file from disk with a default Parser.
func ParseFile(path string) (*Geometry, error) {
	return NewParser().ParseFile(path)
}

// Parse parses a GEO document from raw bytes. Gzip-compressed and
// BOM-prefixed input is accepted.
func (p *Parser) Parse(data []byte) (*Geometry, error) {
	text, err := encoding.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
	}
	return p.unmarshal(text)
}

// ParseReader parses a GEO document from a stream. The whole stream is
// read, and anything after the document other than whitespace is an error,
// as with Parse.
func (p *Parser) ParseReader(r io.Reader) (*Geometry, error) {
	src, err := encoding.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
	}
	text, err := io.ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
	}
	return p.unmarshal(text)
}

func (p *Parser) unmarshal(text []byte) (*Geometry, error) {
	var root any
	if err := jsonAPI.Unmarshal(text, &root); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
	}
	return p.decode(root)
}

// ParseFile parses a GEO file from disk.
func (p *Parser) ParseFile(path string) (*Geometry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading GEO file: %w", err)
	}
	return p.Parse(data)
}

// decode walks the top-level key/value list in document order.
func (p *Parser) decode(root any) (*Geometry, error) {
	if _, ok := root.([]any); !ok {
		return nil, fmt.Errorf("%w: document is %T, not a list", ErrMalformedDocument, root)
	}
	doc, err := toPairList(root, "document")
	if err != nil {
		return nil, err
	}

	g := newGeometry()
	for _, kv := range doc {
		var err error
		switch kv.key {
		case "fileversion":
			if s, ok := kv.value.(string); ok {
				g.FileVersion = s
			}
		case "pointcount":
			g.Counts.Points, err = asInt(kv.value, kv.key)
		case "vertexcount":
			g.Counts.Vertices, err = asInt(kv.value, kv.key)
		case "primitivecount":
			g.Counts.Primitives, err = asInt(kv.value, kv.key)
		case "info":
			// Informational only.
		case "topology":
			err = p.decodeTopology(g, kv.value)
		case "attributes":
			err = p.decodeAttributes(g, kv.value)
		case "primitives":
			err = p.decodePrimitives(g, kv.value)
		default:
			p.log.Debug("ignoring GEO entry", zap.String("key", kv.key))
		}
		if err != nil {
			return nil, err
		}
	}

	if err := g.Validate(); err != nil {
		return nil, err
	}
	for _, m := range g.CountMismatches() {
		p.log.Warn("GEO header count mismatch", zap.String("detail", m))
	}

	return g, nil
}

func (p *Parser) decodeTopology(g *Geometry, v any) error {
	topology, err := toPairList(v, "topology")
	if err != nil {
		return err
	}

	for _, entry := range topology {
		if entry.key != "pointref" {
			return fmt.Errorf("%w: %q", ErrUnsupportedTopologyEntry, entry.key)
		}
		ref, err := toPairList(entry.value, "pointref")
		if err != nil {
			return err
		}
		indices, err := ref.require("indices", "pointref")
		if err != nil {
			return err
		}
		if g.PointRefs, err = asIntSlice(indices, "pointref indices"); err != nil {
			return err
		}
	}
	return nil
}

func (p *Parser) decodeAttributes(g *Geometry, v any) error {
	sections, err := toPairList(v, "attributes")
	if err != nil {
		return err
	}

	for _, section := range sections {
		var scope Binding
		switch section.key {
		case "pointattributes":
			scope = BindingPoint
		case "vertexattributes":
			scope = BindingVertex
		default:
			p.log.Debug("ignoring GEO attribute section", zap.String("section", section.key))
			continue
		}

		entries, err := asArray(section.value, section.key)
		if err != nil {
			return err
		}
		for i, entry := range entries {
			what := fmt.Sprintf("%s[%d]", section.key, i)
			if err := p.decodeAttribute(g, scope, entry, what); err != nil {
				return err
			}
		}
	}
	return nil
}

// decodeAttribute decodes one [descriptor, values] entry. The tuples are
// only decoded for recognized names, so attributes stored in other layouts
// (strings, packed arrays) can still be dropped without failing the parse.
func (p *Parser) decodeAttribute(g *Geometry, scope Binding, entry any, what string) error {
	parts, err := asArray(entry, what)
	if err != nil {
		return err
	}
	if len(parts) != 2 {
		return fmt.Errorf("%w: %s has %d parts, expected [descriptor, values]",
			ErrMalformedDocument, what, len(parts))
	}

	desc, err := toPairList(parts[0], what+" descriptor")
	if err != nil {
		return err
	}
	nameValue, err := desc.require("name", what+" descriptor")
	if err != nil {
		return err
	}
	name, err := asString(nameValue, what+" name")
	if err != nil {
		return err
	}

	switch name {
	case AttrPosition, AttrNormal, AttrUV:
	default:
		p.log.Warn("dropping unsupported GEO attribute",
			zap.String("name", name), zap.Stringer("scope", scope))
		return nil
	}

	if name == AttrPosition && scope != BindingPoint {
		return fmt.Errorf("%w: %q bound per %s", ErrUnsupportedAttributeScope, name, scope)
	}

	tuples, err := decodeTuples(parts[1], fmt.Sprintf("%s (%s)", what, name))
	if err != nil {
		return err
	}

	switch name {
	case AttrPosition:
		g.Points = tuples
	case AttrNormal:
		p.bind(g, &g.NormalBinding, scope, name, tuples)
	case AttrUV:
		p.bind(g, &g.UVBinding, scope, name, tuples)
	}
	return nil
}

// bind stores a normal or UV table. The scope parsed last wins: when a
// document supplies the attribute in both scopes the earlier table is
// discarded, so at most one scope is ever populated per attribute.
func (p *Parser) bind(g *Geometry, binding *Binding, scope Binding, name string, tuples [][]float64) {
	if *binding != BindingNone && *binding != scope {
		p.log.Warn("GEO attribute bound in both scopes, keeping the later one",
			zap.String("name", name),
			zap.Stringer("dropped", *binding),
			zap.Stringer("kept", scope))
		delete(g.attributes(*binding), name)
	}
	g.attributes(scope)[name] = tuples
	*binding = scope
}

// decodeTuples digs the tuple array out of
// ["size",N,"storage",S,"values",["size",N,"storage",S,"tuples",[...]]].
func decodeTuples(v any, what string) ([][]float64, error) {
	outer, err := toPairList(v, what)
	if err != nil {
		return nil, err
	}
	values, err := outer.require("values", what)
	if err != nil {
		return nil, err
	}
	inner, err := toPairList(values, what+" values")
	if err != nil {
		return nil, err
	}
	tuples, err := inner.require("tuples", what+" values")
	if err != nil {
		return nil, err
	}
	return asTuples(tuples, what+" tuples")
}
