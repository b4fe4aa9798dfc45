package service

import (
	"context"
	"errors"
	"studio-service/internal/domain/account"
	"studio-service/internal/generation"
	apperrors "studio-service/pkg/errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubGenerator struct {
	calls []generation.Request
	err   error
}

func (g *stubGenerator) Generate(_ context.Context, req generation.Request) (*generation.Result, error) {
	g.calls = append(g.calls, req)
	if g.err != nil {
		return nil, g.err
	}
	return &generation.Result{ImageURL: "https://img.test/" + req.Style + ".png"}, nil
}

func TestGenerateConcept(t *testing.T) {
	f := newFixture(t)
	acct := f.account(t)
	client := f.client(t, acct)
	outsider := f.profile(t, account.ProfileCreative, nil)
	p, _ := f.project(t, client, acct)

	gen := &stubGenerator{}
	svc := NewGenerationService(gen, f.guard)

	res, err := svc.GenerateConcept(f.ctx, client, p.ID, generation.Request{Style: " noir ", Prompt: "city at dusk"})
	require.NoError(t, err)
	assert.Equal(t, "https://img.test/noir.png", res.ImageURL)
	require.Len(t, gen.calls, 1)
	assert.Equal(t, "noir", gen.calls[0].Style)

	tests := []struct {
		name    string
		actor   *account.Profile
		project uuid.UUID
		req     generation.Request
		wantErr error
	}{
		{"missing style", client, p.ID, generation.Request{Prompt: "x"}, apperrors.ErrValidation},
		{"missing prompt", client, p.ID, generation.Request{Style: "noir"}, apperrors.ErrValidation},
		{"not a member", outsider, p.ID, generation.Request{Style: "noir", Prompt: "x"}, apperrors.ErrForbidden},
		{"unknown project", client, uuid.New(), generation.Request{Style: "noir", Prompt: "x"}, apperrors.ErrNotFound},
		{"no actor", nil, p.ID, generation.Request{Style: "noir", Prompt: "x"}, apperrors.ErrUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.GenerateConcept(f.ctx, tt.actor, tt.project, tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
	assert.Len(t, gen.calls, 1, "rejected requests never reach the generator")
}

func TestGenerateConcept_UpstreamError(t *testing.T) {
	f := newFixture(t)
	acct := f.account(t)
	client := f.client(t, acct)
	p, _ := f.project(t, client, acct)

	upstream := apperrors.ExternalService("generation failed", errors.New("boom"))
	svc := NewGenerationService(&stubGenerator{err: upstream}, f.guard)

	_, err := svc.GenerateConcept(f.ctx, client, p.ID, generation.Request{Style: "noir", Prompt: "x"})
	assert.ErrorIs(t, err, apperrors.ErrExternalService)
}
