package comment

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

const errInvalidVisibilityFmt = "invalid comment visibility: %s"

type Visibility string

const (
	VisibilityClient   Visibility = "client"
	VisibilityInternal Visibility = "internal"
)

func (v Visibility) Validate() error {
	switch v {
	case VisibilityClient, VisibilityInternal:
		return nil
	default:
		return fmt.Errorf(errInvalidVisibilityFmt, v)
	}
}

type Comment struct {
	ID          uuid.UUID  `json:"id"`
	ProjectID   uuid.UUID  `json:"project_id"`
	AuthorID    uuid.UUID  `json:"author_id"`
	ParentID    *uuid.UUID `json:"parent_id,omitempty"`
	Message     string     `json:"message"`
	Visibility  Visibility `json:"visibility"`
	Attachments []string   `json:"attachments"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

type CreateCommentInput struct {
	ProjectID   uuid.UUID
	AuthorID    uuid.UUID
	ParentID    *uuid.UUID
	Message     string
	Visibility  Visibility
	Attachments []string
}
