package handler

import (
	"net/http"
	"studio-service/internal/audit"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const msgInvalidAuditFilter = "invalid audit filter"

type AuditHandler struct {
	events AuditQuerier
}

func NewAuditHandler(events AuditQuerier) *AuditHandler {
	return &AuditHandler{events: events}
}

// ListEvents reads the audit trail. Supported query parameters:
// actor_id, resource_type, resource_id, action, since, until (RFC 3339),
// limit and offset.
func (h *AuditHandler) ListEvents(c echo.Context) error {
	var (
		actorID, resourceType, resourceID, action string
		since, until                              time.Time
		filter                                    audit.QueryFilter
	)
	err := echo.QueryParamsBinder(c).
		String("actor_id", &actorID).
		String("resource_type", &resourceType).
		String("resource_id", &resourceID).
		String("action", &action).
		Time("since", &since, time.RFC3339).
		Time("until", &until, time.RFC3339).
		Int("limit", &filter.Limit).
		Int("offset", &filter.Offset).
		BindError()
	if err != nil || filter.Limit < 0 || filter.Offset < 0 {
		return echo.NewHTTPError(http.StatusBadRequest, msgInvalidAuditFilter)
	}

	if filter.ActorID, err = optionalUUID(actorID); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, msgInvalidAuditFilter)
	}
	if filter.ResourceID, err = optionalUUID(resourceID); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, msgInvalidAuditFilter)
	}
	if resourceType != "" {
		rt := audit.ResourceType(resourceType)
		filter.ResourceType = &rt
	}
	if action != "" {
		a := audit.Action(action)
		filter.Action = &a
	}
	if !since.IsZero() {
		filter.StartTime = &since
	}
	if !until.IsZero() {
		filter.EndTime = &until
	}

	events, err := h.events.Query(c.Request().Context(), filter)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, events)
}

func optionalUUID(raw string) (*uuid.UUID, error) {
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, err
	}
	return &id, nil
}
