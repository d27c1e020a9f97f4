// Package geo decodes Houdini GEO documents (the JSON flavour of the .geo
// ASCII format) into a normalized polygon model.
//
// A GEO document is a flat list alternating keys and values, where nested
// structures follow the same convention. Only polygon primitives are
// understood; the model keeps points, the vertex-to-point table, polygons and
// the point or vertex bound normals and UVs.
package geo

import (
	"fmt"

	"github.com/Faultbox/geo2obj/pkg/math"
)

// Recognized attribute names.
const (
	AttrPosition = "P"
	AttrNormal   = "N"
	AttrUV       = "uv"
)

// Binding records which scope supplied an attribute.
type Binding uint8

// Binding constants.
const (
	BindingNone   Binding = iota // Attribute absent
	BindingPoint                 // One tuple per point
	BindingVertex                // One tuple per vertex
)

// String returns the scope name as used in GEO section names.
func (b Binding) String() string {
	switch b {
	case BindingNone:
		return "none"
	case BindingPoint:
		return "point"
	case BindingVertex:
		return "vertex"
	default:
		return fmt.Sprintf("Unknown(%d)", uint8(b))
	}
}

// Polygon is a single face. Vertices index Geometry.PointRefs and the
// vertex attribute tables, not Geometry.Points.
type Polygon struct {
	Vertices []int
	Closed   bool
}

// Counts holds the element counts declared in the document header.
// A value of -1 means the document did not declare the count.
type Counts struct {
	Points     int
	Vertices   int
	Primitives int
}

// Geometry is the decoded content of one GEO document.
type Geometry struct {
	FileVersion string
	Counts      Counts

	Points    [][]float64
	PointRefs []int
	Polygons  []Polygon

	PointAttributes  map[string][][]float64
	VertexAttributes map[string][][]float64

	NormalBinding Binding
	UVBinding     Binding
}

func newGeometry() *Geometry {
	return &Geometry{
		Counts:           Counts{Points: -1, Vertices: -1, Primitives: -1},
		PointAttributes:  make(map[string][][]float64),
		VertexAttributes: make(map[string][][]float64),
	}
}

// attributes returns the attribute table for a scope.
func (g *Geometry) attributes(scope Binding) map[string][][]float64 {
	switch scope {
	case BindingPoint:
		return g.PointAttributes
	case BindingVertex:
		return g.VertexAttributes
	default:
		return nil
	}
}

// NormalTuples returns the normals of the active scope, or nil when the
// document has none.
func (g *Geometry) NormalTuples() [][]float64 {
	return g.attributes(g.NormalBinding)[AttrNormal]
}

// UVTuples returns the UVs of the active scope, or nil when the document
// has none.
func (g *Geometry) UVTuples() [][]float64 {
	return g.attributes(g.UVBinding)[AttrUV]
}

// Validate checks that every reference in the geometry resolves and that
// every point carries at least x, y and z.
func (g *Geometry) Validate() error {
	if len(g.Polygons) > 0 && g.Points == nil {
		return fmt.Errorf("%w: polygons present but no %q attribute", ErrMalformedDocument, AttrPosition)
	}
	for i, pt := range g.Points {
		if len(pt) < 3 {
			return fmt.Errorf("%w: point %d has %d components, need at least 3",
				ErrMalformedDocument, i, len(pt))
		}
	}

	for i, p := range g.PointRefs {
		if p < 0 || p >= len(g.Points) {
			return fmt.Errorf("%w: vertex %d references point %d of %d",
				ErrMalformedDocument, i, p, len(g.Points))
		}
	}

	for i, poly := range g.Polygons {
		for _, v := range poly.Vertices {
			if v < 0 || v >= len(g.PointRefs) {
				return fmt.Errorf("%w: polygon %d references vertex %d of %d",
					ErrMalformedDocument, i, v, len(g.PointRefs))
			}
		}
	}

	for name, tuples := range g.PointAttributes {
		if len(tuples) != len(g.Points) {
			return fmt.Errorf("%w: point attribute %q has %d tuples for %d points",
				ErrMalformedDocument, name, len(tuples), len(g.Points))
		}
	}
	for name, tuples := range g.VertexAttributes {
		if len(tuples) != len(g.PointRefs) {
			return fmt.Errorf("%w: vertex attribute %q has %d tuples for %d vertices",
				ErrMalformedDocument, name, len(tuples), len(g.PointRefs))
		}
	}

	bound := []struct {
		name    string
		binding Binding
	}{
		{AttrNormal, g.NormalBinding},
		{AttrUV, g.UVBinding},
	}
	for _, b := range bound {
		if b.binding != BindingNone && g.attributes(b.binding)[b.name] == nil {
			return fmt.Errorf("%w: %q bound per %s but has no tuples",
				ErrMalformedDocument, b.name, b.binding)
		}
	}

	return nil
}

// CountMismatches describes every header count that disagrees with the
// decoded data. The header is informational, so these are not errors.
func (g *Geometry) CountMismatches() []string {
	var out []string
	check := func(what string, declared, derived int) {
		if declared >= 0 && declared != derived {
			out = append(out, fmt.Sprintf("%s: header declares %d, document has %d", what, declared, derived))
		}
	}
	check("pointcount", g.Counts.Points, len(g.Points))
	check("vertexcount", g.Counts.Vertices, len(g.PointRefs))
	check("primitivecount", g.Counts.Primitives, len(g.Polygons))
	return out
}

// Bounds returns the axis-aligned bounding box of the points.
// ok is false when there are no points.
func (g *Geometry) Bounds() (min, max math.Vec3, ok bool) {
	if len(g.Points) == 0 {
		return math.Vec3{}, math.Vec3{}, false
	}

	min = math.FromTuple(g.Points[0])
	max = min
	for _, pt := range g.Points[1:] {
		v := math.FromTuple(pt)
		min = min.Min(v)
		max = max.Max(v)
	}
	return min, max, true
}
