// Package mesh reads binary STL meshes and computes their bounding boxes.
//
// Binary STL layout (all little-endian):
//
//	header     80 bytes, ignored
//	count      uint32
//	triangles  count x 50 bytes:
//	             normal     3 x float32
//	             vertices   9 x float32
//	             attributes uint16
package mesh

import (
	"bufio"
	"encoding/binary"
	"io"
	"math"
	"os"

	"github.com/matzehuels/treedot/pkg/errors"
)

const (
	headerSize = 80

	// maxPrealloc caps the capacity reserved from the header count.
	maxPrealloc = 1 << 20
)

// Vector is a point or direction in model space.
type Vector struct {
	X, Y, Z float64
}

// Min returns the component-wise minimum of a and b.
func (a Vector) Min(b Vector) Vector {
	return Vector{math.Min(a.X, b.X), math.Min(a.Y, b.Y), math.Min(a.Z, b.Z)}
}

// Max returns the component-wise maximum of a and b.
func (a Vector) Max(b Vector) Vector {
	return Vector{math.Max(a.X, b.X), math.Max(a.Y, b.Y), math.Max(a.Z, b.Z)}
}

func (a Vector) Sub(b Vector) Vector { return Vector{a.X - b.X, a.Y - b.Y, a.Z - b.Z} }
func (a Vector) Add(b Vector) Vector { return Vector{a.X + b.X, a.Y + b.Y, a.Z + b.Z} }

func (a Vector) MulScalar(s float64) Vector { return Vector{a.X * s, a.Y * s, a.Z * s} }

// Triangle is one facet as stored in the file.
type Triangle struct {
	Normal     Vector
	V1, V2, V3 Vector
	Attributes uint16
}

// Mesh is an ordered list of triangles.
type Mesh struct {
	Triangles []Triangle
}

// stlTriangle mirrors the 50-byte on-disk record.
type stlTriangle struct {
	Normal     [3]float32
	Vertices   [9]float32
	Attributes uint16
}

// LoadSTL reads the binary STL file at path.
func LoadSTL(path string) (*Mesh, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeIO, err, "open %s", path)
	}
	defer file.Close()

	m, err := LoadSTLFromReader(file)
	if err != nil && errors.Is(err, errors.ErrCodeDeserialization) {
		return nil, errors.Wrap(errors.ErrCodeDeserialization, err, "read %s", path)
	}
	return m, err
}

// LoadSTLFromReader reads a binary STL mesh from r. A file that ends before
// the number of triangles promised by its header is an error.
func LoadSTLFromReader(r io.Reader) (*Mesh, error) {
	br := bufio.NewReader(r)

	var header [headerSize]byte
	if _, err := io.ReadFull(br, header[:]); err != nil {
		return nil, errors.Wrap(errors.ErrCodeDeserialization, err, "read STL header")
	}

	var count uint32
	if err := binary.Read(br, binary.LittleEndian, &count); err != nil {
		return nil, errors.Wrap(errors.ErrCodeDeserialization, err, "read triangle count")
	}

	triangles := make([]Triangle, 0, min(int(count), maxPrealloc))
	var rec stlTriangle
	for i := uint32(0); i < count; i++ {
		if err := binary.Read(br, binary.LittleEndian, &rec); err != nil {
			return nil, errors.Wrap(errors.ErrCodeDeserialization, err, "read triangle %d of %d", i, count)
		}
		triangles = append(triangles, Triangle{
			Normal:     vec(rec.Normal[0], rec.Normal[1], rec.Normal[2]),
			V1:         vec(rec.Vertices[0], rec.Vertices[1], rec.Vertices[2]),
			V2:         vec(rec.Vertices[3], rec.Vertices[4], rec.Vertices[5]),
			V3:         vec(rec.Vertices[6], rec.Vertices[7], rec.Vertices[8]),
			Attributes: rec.Attributes,
		})
	}
	return &Mesh{Triangles: triangles}, nil
}

func vec(x, y, z float32) Vector {
	return Vector{float64(x), float64(y), float64(z)}
}

// Box is an axis-aligned bounding box.
type Box struct {
	Min, Max Vector
}

// Size returns the extent of the box along each axis.
func (b Box) Size() Vector { return b.Max.Sub(b.Min) }

// Center returns the midpoint of the box.
func (b Box) Center() Vector { return b.Min.Add(b.Max).MulScalar(0.5) }

// BoundingBox returns the smallest box containing every vertex of the mesh.
// An empty mesh has no bounding box.
func (m *Mesh) BoundingBox() (Box, error) {
	if len(m.Triangles) == 0 {
		return Box{}, errors.New(errors.ErrCodeInvalidInput, "mesh has no triangles")
	}
	first := m.Triangles[0].V1
	box := Box{Min: first, Max: first}
	for _, t := range m.Triangles {
		for _, v := range [3]Vector{t.V1, t.V2, t.V3} {
			box.Min = box.Min.Min(v)
			box.Max = box.Max.Max(v)
		}
	}
	return box, nil
}
