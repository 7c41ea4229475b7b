package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cube() IndexedMesh {
	return IndexedMesh{
		Vertices: []Vertex{
			{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0},
			{0, 0, 1}, {1, 0, 1}, {1, 1, 1}, {0, 1, 1},
		},
		Faces: [][]int{
			{0, 3, 2, 1}, {4, 5, 6, 7}, {0, 1, 5, 4},
			{1, 2, 6, 5}, {2, 3, 7, 6}, {3, 0, 4, 7},
		},
	}
}

func TestEncodeToWire(t *testing.T) {
	m := IndexedMesh{
		Vertices: []Vertex{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}},
		Faces:    [][]int{{0, 1, 2}},
	}

	w := EncodeToWire(m)

	require.Len(t, w, 1)
	assert.Equal(t, Face{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}, w[0])
}

func TestDecodeFromWire_RoundTrip(t *testing.T) {
	m := cube()

	got := DecodeFromWire(EncodeToWire(m))

	require.NoError(t, got.Validate())
	assert.Equal(t, EncodeToWire(m), EncodeToWire(got), "faces as coordinate sequences must survive")
	assert.Len(t, got.Vertices, len(m.Vertices))
}

func TestDecodeFromWire_FirstSeenOrder(t *testing.T) {
	w := WireMesh{
		{{5, 5, 5}, {1, 0, 0}, {0, 1, 0}},
		{{0, 1, 0}, {1, 0, 0}, {9, 9, 9}},
	}

	got := DecodeFromWire(w)

	assert.Equal(t, []Vertex{{5, 5, 5}, {1, 0, 0}, {0, 1, 0}, {9, 9, 9}}, got.Vertices)
	assert.Equal(t, [][]int{{0, 1, 2}, {2, 1, 3}}, got.Faces)
}

func TestDecodeFromWire_Deterministic(t *testing.T) {
	w := EncodeToWire(cube())

	assert.Equal(t, DecodeFromWire(w), DecodeFromWire(w))
}

func TestDecodeFromWire_SharedVertexDeduplicated(t *testing.T) {
	shared := Vertex{X: 0.5, Y: 0.25, Z: -1}
	w := WireMesh{
		{{0, 0, 0}, shared, {1, 0, 0}},
		{shared, {2, 2, 2}, {3, 3, 3}},
	}

	got := DecodeFromWire(w)

	count := 0
	for _, v := range got.Vertices {
		if v == shared {
			count++
		}
	}
	assert.Equal(t, 1, count)
	assert.Equal(t, got.Faces[0][1], got.Faces[1][0])
}

func TestDecodeFromWire_Empty(t *testing.T) {
	got := DecodeFromWire(WireMesh{})

	assert.Empty(t, got.Vertices)
	assert.Empty(t, got.Faces)
	assert.NoError(t, got.Validate())
}

func TestValidate(t *testing.T) {
	t.Run("IndexOutOfRange", func(t *testing.T) {
		m := IndexedMesh{Vertices: []Vertex{{}, {}, {}}, Faces: [][]int{{0, 1, 3}}}
		assert.Error(t, m.Validate())
	})

	t.Run("ShortFace", func(t *testing.T) {
		m := IndexedMesh{Vertices: []Vertex{{}, {}}, Faces: [][]int{{0, 1}}}
		assert.Error(t, m.Validate())
	})

	t.Run("Valid", func(t *testing.T) {
		assert.NoError(t, cube().Validate())
	})
}

func TestClone_DoesNotShare(t *testing.T) {
	m := cube()
	c := m.Clone()

	c.Vertices[0].X = 42
	c.Faces[0][0] = 7

	assert.Equal(t, 0.0, m.Vertices[0].X)
	assert.Equal(t, 0, m.Faces[0][0])
}

func TestTriangulate(t *testing.T) {
	tris := Triangulate(cube())

	require.Len(t, tris, 12)
	assert.Equal(t, [3]int{0, 3, 2}, tris[0])
	assert.Equal(t, [3]int{0, 2, 1}, tris[1])
}

func TestDigest(t *testing.T) {
	a := WireMesh{{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}}
	b := WireMesh{{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}}
	c := WireMesh{{{0, 0, 0}, {0, 1, 0}, {1, 0, 0}}}

	assert.Equal(t, "[(0, 0, 0), (1, 0, 0), (0, 1, 0)]", a.String())
	assert.Equal(t, Digest(a), Digest(b))
	assert.NotEqual(t, Digest(a), Digest(c), "winding order is part of identity")
	assert.Len(t, Digest(a), 64)
}
