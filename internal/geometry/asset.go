package geometry

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

// DecodeAssetFile reads a mesh from an OBJ-style text file.
func DecodeAssetFile(path string) (IndexedMesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return IndexedMesh{}, fmt.Errorf("open asset %s: %w", path, err)
	}
	defer f.Close()

	m, err := ParseAsset(f)
	if err != nil {
		return IndexedMesh{}, fmt.Errorf("asset %s: %w", path, err)
	}
	return m, nil
}

// ParseAsset reads "v x y z" and "f a b c ..." records. Face references are
// 1-based and may carry "/"-separated texture and normal indices, which are
// dropped. Any other record type and blank lines are skipped.
func ParseAsset(r io.Reader) (IndexedMesh, error) {
	m := IndexedMesh{
		Vertices: make([]Vertex, 0),
		Faces:    make([][]int, 0),
	}
	var faceSrc []sourceLine // per face, for range errors

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		text := strings.TrimSpace(scanner.Text())
		tokens := strings.Fields(text)
		if len(tokens) == 0 {
			continue
		}

		switch tokens[0] {
		case "v":
			v, err := parseVertex(tokens[1:])
			if err != nil {
				return IndexedMesh{}, &ParseError{Line: lineNo, Text: text, Err: err}
			}
			m.Vertices = append(m.Vertices, v)
		case "f":
			face, err := parseFace(tokens[1:])
			if err != nil {
				return IndexedMesh{}, &ParseError{Line: lineNo, Text: text, Err: err}
			}
			m.Faces = append(m.Faces, face)
			faceSrc = append(faceSrc, sourceLine{no: lineNo, text: text})
		}
	}
	if err := scanner.Err(); err != nil {
		return IndexedMesh{}, fmt.Errorf("read asset: %w", err)
	}

	// faces may reference vertices declared later in the file
	for i, face := range m.Faces {
		for _, idx := range face {
			if idx >= len(m.Vertices) {
				return IndexedMesh{}, &ParseError{
					Line: faceSrc[i].no,
					Text: faceSrc[i].text,
					Err:  fmt.Errorf("vertex %d out of range, file has %d vertices", idx+1, len(m.Vertices)),
				}
			}
		}
	}
	return m, nil
}

type sourceLine struct {
	no   int
	text string
}

func parseVertex(fields []string) (Vertex, error) {
	if len(fields) < 3 {
		return Vertex{}, fmt.Errorf("vertex needs 3 coordinates, got %d", len(fields))
	}
	var xyz [3]float64
	for i := range xyz {
		f, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return Vertex{}, err
		}
		// NaN never dedups and neither value survives JSON encoding
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return Vertex{}, fmt.Errorf("coordinate %q is not a finite number", fields[i])
		}
		xyz[i] = f
	}
	return Vertex{X: xyz[0], Y: xyz[1], Z: xyz[2]}, nil
}

func parseFace(refs []string) ([]int, error) {
	if len(refs) < 3 {
		return nil, fmt.Errorf("face needs at least 3 vertices, got %d", len(refs))
	}
	face := make([]int, len(refs))
	for i, ref := range refs {
		head, _, _ := strings.Cut(ref, "/")
		n, err := strconv.Atoi(head)
		if err != nil {
			return nil, err
		}
		if n < 1 {
			return nil, errors.New("face references are 1-based")
		}
		face[i] = n - 1
	}
	return face, nil
}
