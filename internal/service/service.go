// Package service holds the lifecycle engine: every operation takes the
// acting profile, checks role and project membership, applies the state
// change through a repository and fans out notifications.
package service

import (
	"context"
	"log/slog"
	"studio-service/internal/audit"
	"studio-service/internal/domain/account"
	"studio-service/internal/generation"
	"time"

	"github.com/google/uuid"
)

const (
	defaultPageSize = 50
	maxPageSize     = 200
)

// Auditor records authoritative actions. *audit.Logger satisfies it.
type Auditor interface {
	Record(ctx context.Context, event audit.Event)
}

// Generator calls the external concept-generation service.
type Generator interface {
	Generate(ctx context.Context, req generation.Request) (*generation.Result, error)
}

type nopAuditor struct{}

func (nopAuditor) Record(context.Context, audit.Event) {}

func orNopAuditor(a Auditor) Auditor {
	if a == nil {
		return nopAuditor{}
	}
	return a
}

func orDefaultLogger(log *slog.Logger) *slog.Logger {
	if log == nil {
		return slog.Default()
	}
	return log
}

func defaultClock() time.Time {
	return time.Now().UTC()
}

// auditEvent builds a successful event for an action the actor performed.
func auditEvent(actor *account.Profile, resource audit.ResourceType, id uuid.UUID, action audit.Action, metadata map[string]any) audit.Event {
	ev := audit.Event{
		ResourceType: resource,
		ResourceID:   &id,
		Action:       action,
		Status:       audit.StatusSuccess,
		Metadata:     metadata,
	}
	if actor != nil {
		actorID := actor.ID
		ev.ActorID = &actorID
	}
	return ev
}
