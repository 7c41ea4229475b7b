package geometry

import "fmt"

// Vertex is a point in 3D space. Two vertices are the same vertex iff all
// three coordinates compare equal.
type Vertex struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

func (v Vertex) String() string {
	return fmt.Sprintf("(%v, %v, %v)", v.X, v.Y, v.Z)
}

// Face is an ordered polygon in winding order, fully denormalized.
type Face []Vertex

// WireMesh is the list-of-faces form, the only form that crosses the network.
type WireMesh []Face

// Snapshot is the envelope of one synchronization exchange.
type Snapshot struct {
	Faces WireMesh `json:"faces"`
}

// IndexedMesh holds a deduplicated vertex list and faces as index sequences
// into it.
type IndexedMesh struct {
	Vertices []Vertex
	Faces    [][]int
}

// Validate checks that every face has at least three vertices and that every
// index is in range.
func (m IndexedMesh) Validate() error {
	for i, face := range m.Faces {
		if len(face) < 3 {
			return fmt.Errorf("face %d has %d vertices, need at least 3", i, len(face))
		}
		for _, idx := range face {
			if idx < 0 || idx >= len(m.Vertices) {
				return fmt.Errorf("face %d references vertex %d, mesh has %d vertices", i, idx, len(m.Vertices))
			}
		}
	}
	return nil
}

// Clone returns a deep copy so callers never share backing arrays.
func (m IndexedMesh) Clone() IndexedMesh {
	out := IndexedMesh{
		Vertices: make([]Vertex, len(m.Vertices)),
		Faces:    make([][]int, len(m.Faces)),
	}
	copy(out.Vertices, m.Vertices)
	for i, face := range m.Faces {
		out.Faces[i] = append([]int(nil), face...)
	}
	return out
}
