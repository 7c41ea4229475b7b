package handler

import (
	_ "embed"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"meshsync/internal/geometry"
	"meshsync/internal/microservices/http-api/dto"
	"meshsync/internal/microservices/http-api/middleware"
	"meshsync/internal/microservices/http-api/service"
	"meshsync/internal/scene"
)

//go:embed snapshot.schema.json
var snapshotSchemaJSON string

// snapshotSchema is compiled once; the schema is a build-time constant.
var snapshotSchema = jsonschema.MustCompileString("snapshot.schema.json", snapshotSchemaJSON)

type ModelHandler struct {
	meshService service.MeshService
	maxBytes    int64
	logger      *slog.Logger
}

func NewModelHandler(meshService service.MeshService, maxBytes int64, logger *slog.Logger) *ModelHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ModelHandler{
		meshService: meshService,
		maxBytes:    maxBytes,
		logger:      logger,
	}
}

// RegisterRoutes registers model routes. Only Update is rate limited.
func (h *ModelHandler) RegisterRoutes(router gin.IRouter, limit gin.HandlerFunc) {
	router.POST("/model", limit, h.Update) // receive a snapshot from the peer
	router.GET("/model", h.Get)            // current mesh in wire form
	router.GET("/model/status", h.Status)  // counts and digest
}

// Update replaces the local mesh with the posted snapshot
// POST /model
func (h *ModelHandler) Update(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBytes)
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "snapshot too large"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	snap, err := decodeSnapshot(body)
	if err != nil {
		h.logger.Warn("snapshot_rejected",
			"request_id", c.GetString(middleware.RequestIDKey),
			"remote_addr", c.ClientIP(),
			"error", err.Error(),
		)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.logger.Info("snapshot_received",
		"request_id", c.GetString(middleware.RequestIDKey),
		"remote_addr", c.ClientIP(),
		"faces", len(snap.Faces),
		"bytes", len(body),
	)

	if _, err := h.meshService.ReplaceFromSnapshot(c.Request.Context(), snap); err != nil {
		var decodeErr *geometry.DecodeError
		if errors.As(err, &decodeErr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logger.Error("mesh_replace_failed",
			"request_id", c.GetString(middleware.RequestIDKey),
			"error", err.Error(),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	// the acknowledgment is a bare 200 with a JSON content type and no body
	c.Header("Content-Type", "application/json")
	c.Status(http.StatusOK)
}

// Get returns the current mesh as a snapshot
// GET /model
func (h *ModelHandler) Get(c *gin.Context) {
	snap, err := h.meshService.Snapshot(c.Request.Context())
	if err != nil {
		if errors.Is(err, scene.ErrMissingName) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, snap)
}

// Status returns counts and the digest of the current mesh
// GET /model/status
func (h *ModelHandler) Status(c *gin.Context) {
	st, err := h.meshService.Status(c.Request.Context())
	if err != nil {
		if errors.Is(err, scene.ErrMissingName) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, dto.FromMeshStatus(st))
}

// decodeSnapshot validates the body against the snapshot schema before the
// typed decode, so shape errors name the offending JSON path.
func decodeSnapshot(body []byte) (geometry.Snapshot, error) {
	var doc any
	if err := json.Unmarshal(body, &doc); err != nil {
		return geometry.Snapshot{}, &geometry.DecodeError{Err: err}
	}
	if err := snapshotSchema.Validate(doc); err != nil {
		return geometry.Snapshot{}, &geometry.DecodeError{Err: err}
	}
	return geometry.UnmarshalSnapshot(body)
}
