package handler

import (
	"net/http"
	"studio-service/internal/auth"
	"studio-service/internal/domain/comment"
	"studio-service/internal/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type CommentHandler struct {
	comments CommentService
}

func NewCommentHandler(comments CommentService) *CommentHandler {
	return &CommentHandler{comments: comments}
}

type PostCommentRequest struct {
	ParentID    *uuid.UUID         `json:"parent_id"`
	Message     string             `json:"message"`
	Visibility  comment.Visibility `json:"visibility"`
	Attachments []string           `json:"attachments"`
}

func (h *CommentHandler) PostComment(c echo.Context) error {
	actor, err := auth.GetProfile(c)
	if err != nil {
		return err
	}
	projectID, err := pathID(c, paramID)
	if err != nil {
		return err
	}

	var req PostCommentRequest
	if err := bindStrictJSON(c, &req); err != nil {
		return err
	}

	cm, err := h.comments.PostComment(c.Request().Context(), actor, service.PostCommentRequest{
		ProjectID:   projectID,
		ParentID:    req.ParentID,
		Message:     req.Message,
		Visibility:  req.Visibility,
		Attachments: req.Attachments,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, cm)
}

func (h *CommentHandler) ListComments(c echo.Context) error {
	actor, err := auth.GetProfile(c)
	if err != nil {
		return err
	}
	projectID, err := pathID(c, paramID)
	if err != nil {
		return err
	}

	list, err := h.comments.ListComments(c.Request().Context(), actor, projectID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, list)
}
