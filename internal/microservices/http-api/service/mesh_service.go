package service

import (
	"context"
	"fmt"
	"log/slog"

	"meshsync/internal/geometry"
	"meshsync/internal/scene"
)

// placeholder face created for unrecognized console commands when enabled
var placeholderFaces = geometry.WireMesh{
	{{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0.5, Z: 0}, {X: 1, Y: 1, Z: 0.5}},
}

// MeshStatus summarizes the current mesh for the status command and GET /model.
type MeshStatus struct {
	Handle    scene.Handle
	Vertices  int
	Faces     int
	Triangles int
}

type MeshService interface {
	Exists() bool
	// CreateFromAsset fails with scene.ErrDuplicateName when a mesh exists.
	CreateFromAsset(ctx context.Context) (scene.Handle, error)
	// CreatePlaceholder replaces whatever mesh exists with a single triangle.
	CreatePlaceholder(ctx context.Context) (scene.Handle, error)
	ReplaceFromSnapshot(ctx context.Context, snap geometry.Snapshot) (scene.Handle, error)
	// Snapshot fails with scene.ErrMissingName when no mesh exists.
	Snapshot(ctx context.Context) (geometry.Snapshot, error)
	Status(ctx context.Context) (MeshStatus, error)
}

// AssetLoader produces the mesh for the create command.
type AssetLoader func() (geometry.IndexedMesh, error)

// FileAssetLoader reads the asset at path on every call.
func FileAssetLoader(path string) AssetLoader {
	return func() (geometry.IndexedMesh, error) {
		return geometry.DecodeAssetFile(path)
	}
}

type meshService struct {
	store    scene.Store
	meshName string
	load     AssetLoader
	logger   *slog.Logger
}

func NewMeshService(store scene.Store, meshName string, load AssetLoader, logger *slog.Logger) MeshService {
	if logger == nil {
		logger = slog.Default()
	}
	return &meshService{
		store:    store,
		meshName: meshName,
		load:     load,
		logger:   logger,
	}
}

func (s *meshService) Exists() bool {
	return s.store.Exists(s.meshName)
}

func (s *meshService) CreateFromAsset(ctx context.Context) (scene.Handle, error) {
	// check first so a taken name never costs an asset parse
	if s.store.Exists(s.meshName) {
		return scene.Handle{}, fmt.Errorf("create %s: %w", s.meshName, scene.ErrDuplicateName)
	}

	mesh, err := s.load()
	if err != nil {
		return scene.Handle{}, err
	}
	return s.store.Create(s.meshName, mesh)
}

func (s *meshService) CreatePlaceholder(ctx context.Context) (scene.Handle, error) {
	return s.store.Replace(s.meshName, geometry.DecodeFromWire(placeholderFaces))
}

func (s *meshService) ReplaceFromSnapshot(ctx context.Context, snap geometry.Snapshot) (scene.Handle, error) {
	mesh := geometry.DecodeFromWire(snap.Faces)
	if err := mesh.Validate(); err != nil {
		return scene.Handle{}, &geometry.DecodeError{Err: err}
	}

	h, err := s.store.Replace(s.meshName, mesh)
	if err != nil {
		return scene.Handle{}, err
	}
	s.logger.Info("mesh_replaced",
		"name", s.meshName,
		"mesh_id", h.ID.String(),
		"digest", h.Digest,
	)
	return h, nil
}

func (s *meshService) Snapshot(ctx context.Context) (geometry.Snapshot, error) {
	mesh, err := s.store.Read(s.meshName)
	if err != nil {
		return geometry.Snapshot{}, err
	}
	return geometry.Snapshot{Faces: geometry.EncodeToWire(mesh)}, nil
}

func (s *meshService) Status(ctx context.Context) (MeshStatus, error) {
	h, mesh, err := s.store.Load(s.meshName)
	if err != nil {
		return MeshStatus{}, err
	}
	return MeshStatus{
		Handle:    h,
		Vertices:  len(mesh.Vertices),
		Faces:     len(mesh.Faces),
		Triangles: len(geometry.Triangulate(mesh)),
	}, nil
}
