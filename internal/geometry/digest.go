package geometry

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// String renders faces as "[(x, y, z), ...], [...]".
func (w WireMesh) String() string {
	var b strings.Builder
	for i, face := range w {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteByte('[')
		for j, v := range face {
			if j > 0 {
				b.WriteString(", ")
			}
			b.WriteString(v.String())
		}
		b.WriteByte(']')
	}
	return b.String()
}

// Digest is the SHA-256 of the textual face list. Identical snapshots share
// a digest, which is what the logs and mesh handles carry.
func Digest(w WireMesh) string {
	sum := sha256.Sum256([]byte(w.String()))
	return hex.EncodeToString(sum[:])
}
