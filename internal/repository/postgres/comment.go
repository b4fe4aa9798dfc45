package postgres

import (
	"context"
	"studio-service/internal/domain/comment"
	apperrors "studio-service/pkg/errors"

	"github.com/google/uuid"
)

const commentColumns = `id, project_id, author_id, parent_id, message, visibility, attachments, created_at, updated_at`

type CommentRepository struct {
	db *DB
}

func NewCommentRepository(db *DB) *CommentRepository {
	return &CommentRepository{db: db}
}

func scanComment(row rowScanner) (*comment.Comment, error) {
	c := &comment.Comment{}
	err := row.Scan(&c.ID, &c.ProjectID, &c.AuthorID, &c.ParentID, &c.Message, &c.Visibility, &c.Attachments, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

func (r *CommentRepository) Create(ctx context.Context, input comment.CreateCommentInput) (*comment.Comment, error) {
	query := `
		INSERT INTO project_comments (id, project_id, author_id, parent_id, message, visibility, attachments)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + commentColumns

	c, err := scanComment(r.db.Pool.QueryRow(ctx, query,
		uuid.New(), input.ProjectID, input.AuthorID, input.ParentID, input.Message, input.Visibility, textArray(input.Attachments),
	))
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, apperrors.NotFound(errProjectNotFound)
		}
		return nil, errFailedCreateComment(err)
	}
	return c, nil
}

func (r *CommentRepository) GetByID(ctx context.Context, id uuid.UUID) (*comment.Comment, error) {
	query := `SELECT ` + commentColumns + ` FROM project_comments WHERE id = $1`

	c, err := scanComment(r.db.Pool.QueryRow(ctx, query, id))
	if err != nil {
		if isNoRows(err) {
			return nil, apperrors.NotFound(errCommentNotFound)
		}
		return nil, errFailedGetComment(err)
	}
	return c, nil
}

func (r *CommentRepository) ListByProject(ctx context.Context, projectID uuid.UUID) ([]*comment.Comment, error) {
	query := `SELECT ` + commentColumns + ` FROM project_comments WHERE project_id = $1 ORDER BY created_at`

	rows, err := r.db.Pool.Query(ctx, query, projectID)
	if err != nil {
		return nil, errFailedListComments(err)
	}
	defer rows.Close()

	var comments []*comment.Comment
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, errFailedScanComment(err)
		}
		comments = append(comments, c)
	}

	return comments, rows.Err()
}
