package service

import (
	"context"
	"studio-service/internal/domain/account"
	"studio-service/internal/domain/comment"
	"studio-service/internal/domain/notification"
	"studio-service/internal/rbac/presets"
	"studio-service/internal/repository"
	apperrors "studio-service/pkg/errors"
	"studio-service/pkg/validator"

	"github.com/google/uuid"
)

type CommentService struct {
	comments repository.CommentRepository
	guard    *Guard
	notifier *Notifier
}

func NewCommentService(comments repository.CommentRepository, guard *Guard, notifier *Notifier) *CommentService {
	return &CommentService{comments: comments, guard: guard, notifier: notifier}
}

type PostCommentRequest struct {
	ProjectID   uuid.UUID
	ParentID    *uuid.UUID
	Message     string
	Visibility  comment.Visibility
	Attachments []string
}

// PostComment adds a comment for a project member. Clients may only post
// client-visible comments; internal comments only reach the team.
func (s *CommentService) PostComment(ctx context.Context, actor *account.Profile, req PostCommentRequest) (*comment.Comment, error) {
	if err := s.guard.Authorize(actor, presets.ResourceComment, presets.ActionCreate); err != nil {
		return nil, err
	}
	if err := req.Visibility.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}
	if err := validator.Message("message", req.Message); err != nil {
		return nil, apperrors.Validation(err.Error())
	}
	if actor.ProfileType == account.ProfileClient && req.Visibility == comment.VisibilityInternal {
		return nil, apperrors.Forbidden(msgClientInternalComment)
	}
	if _, err := s.guard.Project(ctx, actor, req.ProjectID); err != nil {
		return nil, err
	}

	if req.ParentID != nil {
		parent, err := s.comments.GetByID(ctx, *req.ParentID)
		if err != nil {
			return nil, err
		}
		if parent.ProjectID != req.ProjectID {
			return nil, apperrors.Validation(msgParentOtherProject)
		}
	}

	c, err := s.comments.Create(ctx, comment.CreateCommentInput{
		ProjectID:   req.ProjectID,
		AuthorID:    actor.ID,
		ParentID:    req.ParentID,
		Message:     req.Message,
		Visibility:  req.Visibility,
		Attachments: req.Attachments,
	})
	if err != nil {
		return nil, err
	}

	audience := AudienceStakeholders
	if c.Visibility == comment.VisibilityInternal {
		audience = AudienceTeam
	}
	s.notifier.Publish(ctx, Fanout{
		ProjectID: c.ProjectID,
		Type:      notification.TypeCommentPosted,
		Payload:   map[string]any{"comment_id": c.ID.String(), "visibility": string(c.Visibility)},
		Exclude:   actor.ID,
		Audience:  audience,
	})
	return c, nil
}

// ListComments is open to active assignees, clients of the owning account,
// producers and admins. Clients never receive internal comments.
func (s *CommentService) ListComments(ctx context.Context, actor *account.Profile, projectID uuid.UUID) ([]*comment.Comment, error) {
	if err := s.guard.Authorize(actor, presets.ResourceComment, presets.ActionRead); err != nil {
		return nil, err
	}
	if _, err := s.guard.Project(ctx, actor, projectID); err != nil {
		return nil, err
	}

	comments, err := s.comments.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	return visibleComments(comments, actor), nil
}

func visibleComments(comments []*comment.Comment, reader *account.Profile) []*comment.Comment {
	visible := make([]*comment.Comment, 0, len(comments))
	for _, c := range comments {
		if c.Visibility == comment.VisibilityInternal && reader.ProfileType == account.ProfileClient {
			continue
		}
		visible = append(visible, c)
	}
	return visible
}
