// Package obj writes decoded GEO geometry as Wavefront OBJ text.
package obj

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/moby/sys/atomicwriter"

	"github.com/Faultbox/geo2obj/pkg/geo"
)

// Extension is the file extension WriteFile requires.
const Extension = ".obj"

// OBJ writer errors.
var (
	ErrInvalidOutputPath = errors.New("invalid OBJ output path: must end in " + Extension)
)

// Encode writes g as OBJ text. name is used for the header comment and the
// group statement.
//
// Statements are emitted in order: v for every point, vn and vt for the
// normals and UVs of their active scope, then one f per polygon. Only the
// first three components of any tuple are written.
//
// g is validated first; nothing is written for geometry with unresolvable
// references.
func Encode(w io.Writer, g *geo.Geometry, name string) error {
	if err := g.Validate(); err != nil {
		return err
	}

	bw := bufio.NewWriter(w)
	e := encoder{w: bw}

	e.line("# " + name + Extension)
	e.line("")
	e.line("g " + name)

	e.tuples("v", g.Points)
	e.tuples("vn", g.NormalTuples())
	e.tuples("vt", g.UVTuples())
	for _, p := range g.Polygons {
		e.face(g, p)
	}

	if e.err != nil {
		return fmt.Errorf("writing OBJ: %w", e.err)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("writing OBJ: %w", err)
	}
	return nil
}

// WriteFile writes g to path with mode 0644. The document is encoded in
// full before the file is touched, and the file is replaced atomically, so
// a failure leaves any previous file in place and no partial output behind.
func WriteFile(path string, g *geo.Geometry) error {
	if !strings.HasSuffix(path, Extension) {
		return fmt.Errorf("%w: %s", ErrInvalidOutputPath, path)
	}
	name := strings.TrimSuffix(filepath.Base(path), Extension)

	var buf bytes.Buffer
	if err := Encode(&buf, g, name); err != nil {
		return err
	}
	if err := atomicwriter.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("writing OBJ file: %w", err)
	}
	return nil
}

// encoder accumulates the first write error so statements can be emitted
// without checking every call.
type encoder struct {
	w   *bufio.Writer
	buf []byte
	err error
}

func (e *encoder) write(b []byte) {
	if e.err != nil {
		return
	}
	_, e.err = e.w.Write(b)
}

func (e *encoder) line(s string) {
	e.buf = append(append(e.buf[:0], s...), '\n')
	e.write(e.buf)
}

func (e *encoder) tuples(keyword string, tuples [][]float64) {
	for _, t := range tuples {
		e.buf = append(e.buf[:0], keyword...)
		for _, c := range t[:min(len(t), 3)] {
			e.buf = append(e.buf, ' ')
			e.buf = strconv.AppendFloat(e.buf, c, 'g', -1, 64)
		}
		e.buf = append(e.buf, '\n')
		e.write(e.buf)
	}
}

func (e *encoder) face(g *geo.Geometry, p geo.Polygon) {
	e.buf = append(e.buf[:0], 'f')
	for _, v := range p.Vertices {
		e.buf = append(e.buf, ' ')
		e.buf = g.FaceVertex(v).AppendTo(e.buf)
	}
	e.buf = append(e.buf, '\n')
	e.write(e.buf)
}
