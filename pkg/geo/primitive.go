package geo

import (
	"fmt"
	"slices"
)

// primitiveKind is the closed set of primitive encodings that decode to
// polygons.
type primitiveKind int

const (
	kindPoly    primitiveKind = iota // ["type","Poly"], ["vertex",[...],"closed",b]
	kindPolyRun                      // ["type","run","runtype","Poly",...], [[[...]],...]
)

// primitiveKindOf matches the descriptor's type tag.
func primitiveKindOf(desc pairList, what string) (primitiveKind, error) {
	typeValue, err := desc.require("type", what)
	if err != nil {
		return 0, err
	}
	typ, err := asString(typeValue, what+" type")
	if err != nil {
		return 0, err
	}

	switch typ {
	case "Poly":
		return kindPoly, nil
	case "run":
		runtype := ""
		if v, ok := desc.lookup("runtype"); ok {
			runtype, _ = v.(string)
		}
		if runtype == "Poly" {
			return kindPolyRun, nil
		}
		return 0, fmt.Errorf("%w: %s is a run of %q", ErrUnsupportedPrimitiveType, what, runtype)
	default:
		return 0, fmt.Errorf("%w: %s has type %q", ErrUnsupportedPrimitiveType, what, typ)
	}
}

func (p *Parser) decodePrimitives(g *Geometry, v any) error {
	prims, err := asArray(v, "primitives")
	if err != nil {
		return err
	}

	for i, prim := range prims {
		polys, err := decodePrimitive(prim, fmt.Sprintf("primitive %d", i))
		if err != nil {
			return err
		}
		g.Polygons = append(g.Polygons, polys...)
	}
	return nil
}

// decodePrimitive decodes one [descriptor, data] record.
func decodePrimitive(v any, what string) ([]Polygon, error) {
	record, err := asArray(v, what)
	if err != nil {
		return nil, err
	}
	if len(record) != 2 {
		return nil, fmt.Errorf("%w: %s has %d parts, expected [descriptor, data]",
			ErrMalformedDocument, what, len(record))
	}

	desc, err := toPairList(record[0], what+" descriptor")
	if err != nil {
		return nil, err
	}
	kind, err := primitiveKindOf(desc, what)
	if err != nil {
		return nil, err
	}

	switch kind {
	case kindPoly:
		poly, err := decodePoly(record[1], what)
		if err != nil {
			return nil, err
		}
		return []Polygon{poly}, nil
	default:
		return decodePolyRun(desc, record[1], what)
	}
}

func decodePoly(v any, what string) (Polygon, error) {
	data, err := toPairList(v, what)
	if err != nil {
		return Polygon{}, err
	}

	vertexValue, err := data.require("vertex", what)
	if err != nil {
		return Polygon{}, err
	}
	vertices, err := asIntSlice(vertexValue, what+" vertex")
	if err != nil {
		return Polygon{}, err
	}

	poly := Polygon{Vertices: vertices}
	if closed, ok := data.lookup("closed"); ok {
		if poly.Closed, err = asBool(closed, what+" closed"); err != nil {
			return Polygon{}, err
		}
	}
	return poly, nil
}

// decodePolyRun expands a run where only the vertex list varies and every
// polygon shares one closed flag. Any other field split is a different
// encoding and is rejected.
func decodePolyRun(desc pairList, v any, what string) ([]Polygon, error) {
	varyingValue, err := desc.require("varyingfields", what)
	if err != nil {
		return nil, err
	}
	varyingList, err := asArray(varyingValue, what+" varyingfields")
	if err != nil {
		return nil, err
	}
	varying := make([]string, len(varyingList))
	for i, f := range varyingList {
		if varying[i], err = asString(f, what+" varyingfields"); err != nil {
			return nil, err
		}
	}
	if !slices.Equal(varying, []string{"vertex"}) {
		return nil, fmt.Errorf("%w: %s varies %q", ErrUnsupportedRunShape, what, varying)
	}

	uniformValue, err := desc.require("uniformfields", what)
	if err != nil {
		return nil, err
	}
	uniform, err := toPairList(uniformValue, what+" uniformfields")
	if err != nil {
		return nil, err
	}
	if keys := uniform.distinctKeys(); !slices.Equal(keys, []string{"closed"}) {
		return nil, fmt.Errorf("%w: %s has uniform fields %q", ErrUnsupportedRunShape, what, keys)
	}
	closedValue, _ := uniform.lookup("closed")
	closed, err := asBool(closedValue, what+" closed")
	if err != nil {
		return nil, err
	}

	entries, err := asArray(v, what+" data")
	if err != nil {
		return nil, err
	}
	polys := make([]Polygon, 0, len(entries))
	for i, entry := range entries {
		entryWhat := fmt.Sprintf("%s entry %d", what, i)
		fields, err := asArray(entry, entryWhat)
		if err != nil {
			return nil, err
		}
		if len(fields) != len(varying) {
			return nil, fmt.Errorf("%w: %s has %d fields, expected %d",
				ErrMalformedDocument, entryWhat, len(fields), len(varying))
		}
		vertices, err := asIntSlice(fields[0], entryWhat+" vertex")
		if err != nil {
			return nil, err
		}
		polys = append(polys, Polygon{Vertices: vertices, Closed: closed})
	}
	return polys, nil
}
