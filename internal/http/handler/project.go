package handler

import (
	"net/http"
	"studio-service/internal/auth"
	"studio-service/internal/domain/project"
	"studio-service/internal/service"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type ProjectHandler struct {
	projects ProjectService
}

func NewProjectHandler(projects ProjectService) *ProjectHandler {
	return &ProjectHandler{projects: projects}
}

type CreateProjectRequest struct {
	ClientAccountID uuid.UUID      `json:"client_account_id"`
	Title           string         `json:"title"`
	Metadata        map[string]any `json:"metadata"`
}

func (h *ProjectHandler) CreateProject(c echo.Context) error {
	actor, err := auth.GetProfile(c)
	if err != nil {
		return err
	}

	var req CreateProjectRequest
	if err := bindStrictJSON(c, &req); err != nil {
		return err
	}

	proj, brief, err := h.projects.CreateProject(c.Request().Context(), actor, service.CreateProjectRequest{
		ClientAccountID: req.ClientAccountID,
		Title:           req.Title,
		Metadata:        req.Metadata,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, map[string]any{jsonKeyProject: proj, jsonKeyBrief: brief})
}

func (h *ProjectHandler) GetProject(c echo.Context) error {
	actor, err := auth.GetProfile(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, paramID)
	if err != nil {
		return err
	}

	proj, err := h.projects.GetProject(c.Request().Context(), actor, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, proj)
}

func (h *ProjectHandler) ListAccountProjects(c echo.Context) error {
	actor, err := auth.GetProfile(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, paramID)
	if err != nil {
		return err
	}

	summaries, err := h.projects.ListProjectsForAccount(c.Request().Context(), actor, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, summaries)
}

type StatusRequest[T ~string] struct {
	Status T `json:"status"`
}

func (h *ProjectHandler) UpdateProjectStatus(c echo.Context) error {
	actor, err := auth.GetProfile(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, paramID)
	if err != nil {
		return err
	}

	var req StatusRequest[project.Status]
	if err := bindStrictJSON(c, &req); err != nil {
		return err
	}

	proj, err := h.projects.UpdateProjectStatus(c.Request().Context(), actor, id, req.Status)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, proj)
}

type VisibilityRequest struct {
	Visibility project.Visibility `json:"visibility"`
}

func (h *ProjectHandler) SetVisibility(c echo.Context) error {
	actor, err := auth.GetProfile(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, paramID)
	if err != nil {
		return err
	}

	var req VisibilityRequest
	if err := bindStrictJSON(c, &req); err != nil {
		return err
	}

	proj, err := h.projects.SetProjectVisibility(c.Request().Context(), actor, id, req.Visibility)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, proj)
}

// ListPublicProjects serves the portfolio and needs no identity.
func (h *ProjectHandler) ListPublicProjects(c echo.Context) error {
	projects, err := h.projects.ListPublicProjects(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, projects)
}

func (h *ProjectHandler) GetBrief(c echo.Context) error {
	actor, err := auth.GetProfile(c)
	if err != nil {
		return err
	}
	projectID, err := pathID(c, paramID)
	if err != nil {
		return err
	}

	brief, err := h.projects.GetBrief(c.Request().Context(), actor, projectID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, brief)
}

type UpdateBriefRequest struct {
	Objective         *string        `json:"objective"`
	Audience          *string        `json:"audience"`
	KeyMessages       []string       `json:"key_messages"`
	BudgetRange       *string        `json:"budget_range"`
	DeadlineDate      *time.Time     `json:"deadline_date"`
	ReferencesPayload map[string]any `json:"references_payload"`
	Attachments       []string       `json:"attachments"`
}

func (h *ProjectHandler) UpdateBrief(c echo.Context) error {
	actor, err := auth.GetProfile(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, paramID)
	if err != nil {
		return err
	}

	var req UpdateBriefRequest
	if err := bindStrictJSON(c, &req); err != nil {
		return err
	}

	brief, err := h.projects.UpdateBrief(c.Request().Context(), actor, id, project.UpdateBriefInput{
		Objective:         req.Objective,
		Audience:          req.Audience,
		KeyMessages:       req.KeyMessages,
		BudgetRange:       req.BudgetRange,
		DeadlineDate:      req.DeadlineDate,
		ReferencesPayload: req.ReferencesPayload,
		Attachments:       req.Attachments,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, brief)
}

func (h *ProjectHandler) SubmitBrief(c echo.Context) error {
	actor, err := auth.GetProfile(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, paramID)
	if err != nil {
		return err
	}

	brief, err := h.projects.SubmitBrief(c.Request().Context(), actor, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, brief)
}

func (h *ProjectHandler) TransitionBrief(c echo.Context) error {
	actor, err := auth.GetProfile(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, paramID)
	if err != nil {
		return err
	}

	var req StatusRequest[project.BriefStatus]
	if err := bindStrictJSON(c, &req); err != nil {
		return err
	}

	brief, err := h.projects.TransitionBrief(c.Request().Context(), actor, id, req.Status)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, brief)
}

type CreateMilestoneRequest struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	DueAt       *time.Time `json:"due_at"`
}

func (h *ProjectHandler) CreateMilestone(c echo.Context) error {
	actor, err := auth.GetProfile(c)
	if err != nil {
		return err
	}
	projectID, err := pathID(c, paramID)
	if err != nil {
		return err
	}

	var req CreateMilestoneRequest
	if err := bindStrictJSON(c, &req); err != nil {
		return err
	}

	m, err := h.projects.CreateMilestone(c.Request().Context(), actor, service.CreateMilestoneRequest{
		ProjectID:   projectID,
		Name:        req.Name,
		Description: req.Description,
		DueAt:       req.DueAt,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, m)
}

func (h *ProjectHandler) ListMilestones(c echo.Context) error {
	actor, err := auth.GetProfile(c)
	if err != nil {
		return err
	}
	projectID, err := pathID(c, paramID)
	if err != nil {
		return err
	}

	milestones, err := h.projects.ListMilestones(c.Request().Context(), actor, projectID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, milestones)
}

func (h *ProjectHandler) ApproveMilestone(c echo.Context) error {
	actor, err := auth.GetProfile(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, paramID)
	if err != nil {
		return err
	}

	m, err := h.projects.ApproveMilestone(c.Request().Context(), actor, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, m)
}

type PublishUpdateRequest struct {
	Title      string             `json:"title"`
	Body       string             `json:"body"`
	Visibility project.Visibility `json:"visibility"`
}

func (h *ProjectHandler) PublishUpdate(c echo.Context) error {
	actor, err := auth.GetProfile(c)
	if err != nil {
		return err
	}
	projectID, err := pathID(c, paramID)
	if err != nil {
		return err
	}

	var req PublishUpdateRequest
	if err := bindStrictJSON(c, &req); err != nil {
		return err
	}

	update, err := h.projects.PublishUpdate(c.Request().Context(), actor, service.PublishUpdateRequest{
		ProjectID:  projectID,
		Title:      req.Title,
		Body:       req.Body,
		Visibility: req.Visibility,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, update)
}

func (h *ProjectHandler) ListUpdates(c echo.Context) error {
	actor, err := auth.GetProfile(c)
	if err != nil {
		return err
	}
	projectID, err := pathID(c, paramID)
	if err != nil {
		return err
	}

	updates, err := h.projects.ListUpdates(c.Request().Context(), actor, projectID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, updates)
}
