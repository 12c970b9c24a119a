package command

import (
	"context"

	"github.com/alem-hub/student-id-registry/internal/domain/student"
	"github.com/alem-hub/student-id-registry/pkg/logger"
)

// SaveRecordsHandler writes the registry to its storage backend.
type SaveRecordsHandler struct {
	registry *student.Registry
	storage  student.Storage
	log      *logger.Logger
}

// NewSaveRecordsHandler creates a new SaveRecordsHandler.
func NewSaveRecordsHandler(registry *student.Registry, storage student.Storage, log *logger.Logger) *SaveRecordsHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &SaveRecordsHandler{registry: registry, storage: storage, log: log}
}

// Handle saves every record and returns how many were written.
func (h *SaveRecordsHandler) Handle(ctx context.Context) (int, error) {
	if err := h.registry.Save(ctx, h.storage); err != nil {
		h.log.Error("save failed", logger.Err(err))
		return 0, err
	}
	return h.registry.Len(), nil
}
