package query

import (
	"github.com/alem-hub/student-id-registry/internal/domain/student"
)

// StudentDTO is one row of the student listing.
type StudentDTO struct {
	Position  int    `json:"position"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Major     string `json:"major"`
	StartYear string `json:"start_year"`
	StudentID string `json:"student_id"`
}

// ListStudentsHandler returns the registry content in registration order.
type ListStudentsHandler struct {
	registry *student.Registry
}

// NewListStudentsHandler creates a new ListStudentsHandler.
func NewListStudentsHandler(registry *student.Registry) *ListStudentsHandler {
	return &ListStudentsHandler{registry: registry}
}

// Handle returns every record as a DTO. Positions start at 1.
func (h *ListStudentsHandler) Handle() []StudentDTO {
	records := h.registry.List()
	out := make([]StudentDTO, 0, len(records))
	for i, s := range records {
		out = append(out, StudentDTO{
			Position:  i + 1,
			FirstName: s.FirstName,
			LastName:  s.LastName,
			Major:     s.MajorName,
			StartYear: s.StartYear,
			StudentID: s.StudentID,
		})
	}
	return out
}
