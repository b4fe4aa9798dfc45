package memory

import (
	"context"
	"studio-service/internal/domain/comment"
	apperrors "studio-service/pkg/errors"
	"time"

	"github.com/google/uuid"
)

const errCommentNotFound = "comment not found"

type CommentRepository struct {
	s *Store
}

func NewCommentRepository(s *Store) *CommentRepository {
	return &CommentRepository{s: s}
}

func (r *CommentRepository) Create(ctx context.Context, input comment.CreateCommentInput) (*comment.Comment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.projects[input.ProjectID]; !ok {
		return nil, apperrors.NotFound(errProjectNotFound)
	}

	attachments := input.Attachments
	if attachments == nil {
		attachments = []string{}
	}

	now := r.s.now()
	c := &comment.Comment{
		ID:          uuid.New(),
		ProjectID:   input.ProjectID,
		AuthorID:    input.AuthorID,
		ParentID:    input.ParentID,
		Message:     input.Message,
		Visibility:  input.Visibility,
		Attachments: attachments,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	r.s.comments[c.ID] = cloneComment(c)

	return cloneComment(c), nil
}

func (r *CommentRepository) GetByID(ctx context.Context, id uuid.UUID) (*comment.Comment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	c, ok := r.s.comments[id]
	if !ok {
		return nil, apperrors.NotFound(errCommentNotFound)
	}
	return cloneComment(c), nil
}

func (r *CommentRepository) ListByProject(ctx context.Context, projectID uuid.UUID) ([]*comment.Comment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var comments []*comment.Comment
	for _, c := range r.s.comments {
		if c.ProjectID == projectID {
			comments = append(comments, cloneComment(c))
		}
	}
	sortByCreated(comments,
		func(c *comment.Comment) time.Time { return c.CreatedAt },
		func(c *comment.Comment) uuid.UUID { return c.ID })
	return comments, nil
}
