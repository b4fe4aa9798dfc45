package handler

import (
	"net/http"
	"studio-service/internal/auth"
	"studio-service/internal/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type AssignmentHandler struct {
	assignments AssignmentService
}

func NewAssignmentHandler(assignments AssignmentService) *AssignmentHandler {
	return &AssignmentHandler{assignments: assignments}
}

type CreateAssignmentRequest struct {
	UserID   uuid.UUID `json:"user_id"`
	Role     string    `json:"role"`
	Stage    string    `json:"stage"`
	Workload *int      `json:"workload"`
}

func (h *AssignmentHandler) CreateAssignment(c echo.Context) error {
	actor, err := auth.GetProfile(c)
	if err != nil {
		return err
	}
	projectID, err := pathID(c, paramID)
	if err != nil {
		return err
	}

	var req CreateAssignmentRequest
	if err := bindStrictJSON(c, &req); err != nil {
		return err
	}

	a, err := h.assignments.CreateAssignment(c.Request().Context(), actor, service.CreateAssignmentRequest{
		ProjectID: projectID,
		UserID:    req.UserID,
		Role:      req.Role,
		Stage:     req.Stage,
		Workload:  req.Workload,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, a)
}

// RemoveAssignment deactivates the assignment; the row is kept for history.
func (h *AssignmentHandler) RemoveAssignment(c echo.Context) error {
	actor, err := auth.GetProfile(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, paramID)
	if err != nil {
		return err
	}

	a, err := h.assignments.RemoveAssignment(c.Request().Context(), actor, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, a)
}

func (h *AssignmentHandler) ListAssignments(c echo.Context) error {
	actor, err := auth.GetProfile(c)
	if err != nil {
		return err
	}
	projectID, err := pathID(c, paramID)
	if err != nil {
		return err
	}

	list, err := h.assignments.ListAssignments(c.Request().Context(), actor, projectID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, list)
}

func (h *AssignmentHandler) ListAssignedProjects(c echo.Context) error {
	actor, err := auth.GetProfile(c)
	if err != nil {
		return err
	}
	userID, err := pathID(c, paramID)
	if err != nil {
		return err
	}

	projects, err := h.assignments.ListAssignedProjects(c.Request().Context(), actor, userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, projects)
}

func (h *AssignmentHandler) GetAssignedProjectDetails(c echo.Context) error {
	actor, err := auth.GetProfile(c)
	if err != nil {
		return err
	}
	userID, err := pathID(c, paramID)
	if err != nil {
		return err
	}
	projectID, err := pathID(c, paramProjectID)
	if err != nil {
		return err
	}

	view, err := h.assignments.GetAssignedProjectDetails(c.Request().Context(), actor, projectID, userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, view)
}
