package geometry

import (
	"encoding/json"
	"errors"
)

// UnmarshalSnapshot parses a snapshot body. Malformed JSON, a missing
// "faces" field and faces with fewer than three vertices are DecodeErrors.
func UnmarshalSnapshot(data []byte) (Snapshot, error) {
	var raw struct {
		Faces *WireMesh `json:"faces"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return Snapshot{}, &DecodeError{Err: err}
	}
	if raw.Faces == nil {
		return Snapshot{}, &DecodeError{Err: errors.New(`missing "faces" field`)}
	}
	for _, face := range *raw.Faces {
		if len(face) < 3 {
			return Snapshot{}, &DecodeError{Err: errors.New("face with fewer than 3 vertices")}
		}
	}
	return Snapshot{Faces: *raw.Faces}, nil
}
