package asset

import (
	"time"

	"github.com/google/uuid"
)

// Asset is one versioned file of a project. Versions start at 1 and grow by
// one per upload; at most one asset per project is final.
type Asset struct {
	ID         uuid.UUID      `json:"id"`
	ProjectID  uuid.UUID      `json:"project_id"`
	UploadedBy uuid.UUID      `json:"uploaded_by"`
	Version    int            `json:"version"`
	Type       string         `json:"type"`
	FileURL    string         `json:"file_url"`
	Notes      string         `json:"notes,omitempty"`
	IsFinal    bool           `json:"is_final"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
}

// CreateAssetInput carries everything but the version, which the store allocates.
type CreateAssetInput struct {
	ProjectID  uuid.UUID
	UploadedBy uuid.UUID
	Type       string
	FileURL    string
	Notes      string
	Metadata   map[string]any
}
