package handler

import (
	"net/http"
	"studio-service/internal/auth"
	"studio-service/internal/generation"

	"github.com/labstack/echo/v4"
)

type GenerationHandler struct {
	generator ConceptGenerator
}

func NewGenerationHandler(generator ConceptGenerator) *GenerationHandler {
	return &GenerationHandler{generator: generator}
}

type GenerateConceptRequest struct {
	ImageRefs []string `json:"image_refs"`
	Style     string   `json:"style"`
	Prompt    string   `json:"prompt"`
}

func (h *GenerationHandler) GenerateConcept(c echo.Context) error {
	actor, err := auth.GetProfile(c)
	if err != nil {
		return err
	}
	projectID, err := pathID(c, paramID)
	if err != nil {
		return err
	}

	var req GenerateConceptRequest
	if err := bindStrictJSON(c, &req); err != nil {
		return err
	}

	result, err := h.generator.GenerateConcept(c.Request().Context(), actor, projectID, generation.Request{
		ImageRefs: req.ImageRefs,
		Style:     req.Style,
		Prompt:    req.Prompt,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}
