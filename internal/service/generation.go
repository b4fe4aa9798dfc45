package service

import (
	"context"
	"strings"
	"studio-service/internal/domain/account"
	"studio-service/internal/generation"
	"studio-service/internal/rbac/presets"
	apperrors "studio-service/pkg/errors"
	"studio-service/pkg/validator"

	"github.com/google/uuid"
)

type GenerationService struct {
	generator Generator
	guard     *Guard
}

func NewGenerationService(generator Generator, guard *Guard) *GenerationService {
	return &GenerationService{generator: generator, guard: guard}
}

// GenerateConcept asks the generation service for a concept image within a
// project the actor can see.
func (s *GenerationService) GenerateConcept(ctx context.Context, actor *account.Profile, projectID uuid.UUID, req generation.Request) (*generation.Result, error) {
	if err := s.guard.Authorize(actor, presets.ResourceGeneration, presets.ActionCreate); err != nil {
		return nil, err
	}

	req.Style = strings.TrimSpace(req.Style)
	req.Prompt = strings.TrimSpace(req.Prompt)
	if err := validator.Required("style", req.Style); err != nil {
		return nil, apperrors.Validation(err.Error())
	}
	if err := validator.Message("prompt", req.Prompt); err != nil {
		return nil, apperrors.Validation(err.Error())
	}
	if _, err := s.guard.Project(ctx, actor, projectID); err != nil {
		return nil, err
	}

	return s.generator.Generate(ctx, req)
}
