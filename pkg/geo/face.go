package geo

import "strconv"

// FaceVertex is one corner of an OBJ face statement. All indices are
// 1-based; VT and VN are 0 when the face carries no texture or normal.
type FaceVertex struct {
	V  int
	VT int
	VN int
}

// AppendTo appends the OBJ token for fv: v, v/vt, v//vn or v/vt/vn.
func (fv FaceVertex) AppendTo(dst []byte) []byte {
	dst = strconv.AppendInt(dst, int64(fv.V), 10)
	switch {
	case fv.VT > 0 && fv.VN > 0:
		dst = append(dst, '/')
		dst = strconv.AppendInt(dst, int64(fv.VT), 10)
		dst = append(dst, '/')
		dst = strconv.AppendInt(dst, int64(fv.VN), 10)
	case fv.VN > 0:
		dst = append(dst, '/', '/')
		dst = strconv.AppendInt(dst, int64(fv.VN), 10)
	case fv.VT > 0:
		dst = append(dst, '/')
		dst = strconv.AppendInt(dst, int64(fv.VT), 10)
	}
	return dst
}

// String returns the OBJ token for fv.
func (fv FaceVertex) String() string {
	return string(fv.AppendTo(nil))
}

// index resolves the OBJ index of an attribute with binding b for a corner
// that uses vertex and, through it, point.
func (b Binding) index(point, vertex int) int {
	switch b {
	case BindingPoint:
		return point + 1
	case BindingVertex:
		return vertex + 1
	default:
		return 0
	}
}

// FaceVertex resolves the OBJ indices of a vertex. The position index comes
// from the referenced point; texture and normal indices follow their
// bindings, using the point for point-bound data and the vertex itself for
// vertex-bound data.
func (g *Geometry) FaceVertex(vertex int) FaceVertex {
	point := g.PointRefs[vertex]
	return FaceVertex{
		V:  point + 1,
		VT: g.UVBinding.index(point, vertex),
		VN: g.NormalBinding.index(point, vertex),
	}
}

// Face resolves every corner of p.
func (g *Geometry) Face(p Polygon) []FaceVertex {
	out := make([]FaceVertex, len(p.Vertices))
	for i, v := range p.Vertices {
		out[i] = g.FaceVertex(v)
	}
	return out
}
