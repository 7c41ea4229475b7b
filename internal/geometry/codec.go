package geometry

// EncodeToWire replaces every vertex index with its coordinates, producing a
// self-contained list of faces. The input must satisfy IndexedMesh.Validate.
func EncodeToWire(m IndexedMesh) WireMesh {
	faces := make(WireMesh, 0, len(m.Faces))
	for _, indices := range m.Faces {
		face := make(Face, len(indices))
		for i, idx := range indices {
			face[i] = m.Vertices[idx]
		}
		faces = append(faces, face)
	}
	return faces
}

// DecodeFromWire rebuilds the indexed form. Distinct coordinates get the next
// free index the first time they are seen while scanning faces in order, so
// the output is deterministic for a given input.
func DecodeFromWire(w WireMesh) IndexedMesh {
	seen := make(map[Vertex]int)
	m := IndexedMesh{
		Vertices: make([]Vertex, 0),
		Faces:    make([][]int, 0, len(w)),
	}

	for _, face := range w {
		indices := make([]int, len(face))
		for i, v := range face {
			idx, ok := seen[v]
			if !ok {
				idx = len(m.Vertices)
				seen[v] = idx
				m.Vertices = append(m.Vertices, v)
			}
			indices[i] = idx
		}
		m.Faces = append(m.Faces, indices)
	}
	return m
}

// Triangulate fans every face around its first vertex. Faces are assumed
// convex, which holds for the meshes the modeling tools exchange.
func Triangulate(m IndexedMesh) [][3]int {
	var tris [][3]int
	for _, face := range m.Faces {
		for i := 1; i+1 < len(face); i++ {
			tris = append(tris, [3]int{face[0], face[i], face[i+1]})
		}
	}
	return tris
}
