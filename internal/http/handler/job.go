package handler

import (
	"net/http"
	"studio-service/internal/auth"
	"studio-service/internal/domain/job"
	"studio-service/internal/service"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type JobHandler struct {
	jobs          JobService
	maxUploadSize int64
}

func NewJobHandler(jobs JobService, maxUploadSize int64) *JobHandler {
	return &JobHandler{jobs: jobs, maxUploadSize: maxUploadSize}
}

type CreateJobRequest struct {
	ProjectID      *uuid.UUID `json:"project_id"`
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	Category       string     `json:"category"`
	SkillsRequired []string   `json:"skills_required"`
	BudgetAmount   float64    `json:"budget_amount"`
	BudgetCurrency string     `json:"budget_currency"`
	EstimatedHours *int       `json:"estimated_hours"`
	DeadlineDate   *time.Time `json:"deadline_date"`
}

func (h *JobHandler) CreateJob(c echo.Context) error {
	actor, err := auth.GetProfile(c)
	if err != nil {
		return err
	}

	var req CreateJobRequest
	if err := bindStrictJSON(c, &req); err != nil {
		return err
	}

	j, err := h.jobs.CreateJob(c.Request().Context(), actor, service.CreateJobRequest{
		ProjectID:      req.ProjectID,
		Title:          req.Title,
		Description:    req.Description,
		Category:       req.Category,
		SkillsRequired: req.SkillsRequired,
		BudgetAmount:   req.BudgetAmount,
		BudgetCurrency: req.BudgetCurrency,
		EstimatedHours: req.EstimatedHours,
		DeadlineDate:   req.DeadlineDate,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, j)
}

func (h *JobHandler) ListOpenJobs(c echo.Context) error {
	actor, err := auth.GetProfile(c)
	if err != nil {
		return err
	}

	jobs, err := h.jobs.ListOpenJobs(c.Request().Context(), actor)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, jobs)
}

func (h *JobHandler) ListMyJobs(c echo.Context) error {
	actor, err := auth.GetProfile(c)
	if err != nil {
		return err
	}

	jobs, err := h.jobs.ListMyJobs(c.Request().Context(), actor)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, jobs)
}

func (h *JobHandler) GetJob(c echo.Context) error {
	actor, err := auth.GetProfile(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, paramID)
	if err != nil {
		return err
	}

	view, err := h.jobs.GetJobDetails(c.Request().Context(), actor, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, view)
}

// ApplyToJob claims an open job. A job already taken answers 409.
func (h *JobHandler) ApplyToJob(c echo.Context) error {
	actor, err := auth.GetProfile(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, paramID)
	if err != nil {
		return err
	}

	j, err := h.jobs.ApplyToJob(c.Request().Context(), actor, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, j)
}

func (h *JobHandler) StartJob(c echo.Context) error {
	actor, err := auth.GetProfile(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, paramID)
	if err != nil {
		return err
	}

	j, err := h.jobs.StartJob(c.Request().Context(), actor, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, j)
}

func (h *JobHandler) SubmitDeliverable(c echo.Context) error {
	actor, err := auth.GetProfile(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, paramID)
	if err != nil {
		return err
	}

	upload, err := readUpload(c, h.maxUploadSize)
	if err != nil {
		return err
	}

	d, err := h.jobs.SubmitDeliverable(c.Request().Context(), actor, service.SubmitDeliverableRequest{
		JobID: id,
		Notes: c.FormValue(formNotes),
		File:  upload,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, d)
}

func (h *JobHandler) ListDeliverables(c echo.Context) error {
	actor, err := auth.GetProfile(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, paramID)
	if err != nil {
		return err
	}

	list, err := h.jobs.ListDeliverables(c.Request().Context(), actor, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, list)
}

type ReviewDeliverableRequest struct {
	Scores    job.Scores      `json:"scores"`
	Feedback  string          `json:"feedback"`
	Checklist map[string]bool `json:"checklist"`
	Decision  job.Decision    `json:"decision"`
}

func (h *JobHandler) ReviewDeliverable(c echo.Context) error {
	actor, err := auth.GetProfile(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, paramID)
	if err != nil {
		return err
	}

	var req ReviewDeliverableRequest
	if err := bindStrictJSON(c, &req); err != nil {
		return err
	}

	review, j, err := h.jobs.ReviewDeliverable(c.Request().Context(), actor, service.ReviewRequest{
		DeliverableID: id,
		Scores:        req.Scores,
		Feedback:      req.Feedback,
		Checklist:     req.Checklist,
		Decision:      req.Decision,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{jsonKeyReview: review, jsonKeyJob: j})
}

func (h *JobHandler) CompleteJob(c echo.Context) error {
	actor, err := auth.GetProfile(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, paramID)
	if err != nil {
		return err
	}

	j, payment, err := h.jobs.CompleteJob(c.Request().Context(), actor, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{jsonKeyJob: j, jsonKeyPayment: payment})
}

func (h *JobHandler) UpdatePaymentStatus(c echo.Context) error {
	actor, err := auth.GetProfile(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, paramID)
	if err != nil {
		return err
	}

	var req StatusRequest[job.PaymentStatus]
	if err := bindStrictJSON(c, &req); err != nil {
		return err
	}

	payment, err := h.jobs.UpdatePaymentStatus(c.Request().Context(), actor, id, req.Status)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, payment)
}

func (h *JobHandler) ListPayments(c echo.Context) error {
	actor, err := auth.GetProfile(c)
	if err != nil {
		return err
	}
	creatorID, err := pathID(c, paramID)
	if err != nil {
		return err
	}

	payments, err := h.jobs.ListPayments(c.Request().Context(), actor, creatorID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, payments)
}

func (h *JobHandler) GetCreatorStats(c echo.Context) error {
	actor, err := auth.GetProfile(c)
	if err != nil {
		return err
	}
	creatorID, err := pathID(c, paramID)
	if err != nil {
		return err
	}

	stats, err := h.jobs.GetCreatorStats(c.Request().Context(), actor, creatorID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats)
}
