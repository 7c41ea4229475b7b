package dto

import (
	"time"

	"meshsync/internal/microservices/http-api/service"
)

// MeshStatusResponse for GET /model/status
type MeshStatusResponse struct {
	MeshID    string    `json:"mesh_id"`
	Name      string    `json:"name"`
	Digest    string    `json:"digest"`
	Vertices  int       `json:"vertices"`
	Faces     int       `json:"faces"`
	Triangles int       `json:"triangles"`
	CreatedAt time.Time `json:"created_at"`
}

// FromMeshStatus converts a service status to its response DTO
func FromMeshStatus(st service.MeshStatus) *MeshStatusResponse {
	return &MeshStatusResponse{
		MeshID:    st.Handle.ID.String(),
		Name:      st.Handle.Name,
		Digest:    st.Handle.Digest,
		Vertices:  st.Vertices,
		Faces:     st.Faces,
		Triangles: st.Triangles,
		CreatedAt: st.Handle.CreatedAt,
	}
}
