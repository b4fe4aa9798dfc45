package handler

import (
	"net/http"
	"studio-service/internal/auth"

	"github.com/labstack/echo/v4"
)

type InboxHandler struct {
	inbox InboxService
}

func NewInboxHandler(inbox InboxService) *InboxHandler {
	return &InboxHandler{inbox: inbox}
}

func (h *InboxHandler) ListNotifications(c echo.Context) error {
	actor, err := auth.GetProfile(c)
	if err != nil {
		return err
	}
	limit, err := queryLimitParam(c)
	if err != nil {
		return err
	}

	list, err := h.inbox.ListInbox(c.Request().Context(), actor, limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, list)
}

func (h *InboxHandler) UnreadCount(c echo.Context) error {
	actor, err := auth.GetProfile(c)
	if err != nil {
		return err
	}

	n, err := h.inbox.UnreadCount(c.Request().Context(), actor)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]int{jsonKeyUnread: n})
}

func (h *InboxHandler) MarkRead(c echo.Context) error {
	actor, err := auth.GetProfile(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, paramID)
	if err != nil {
		return err
	}

	n, err := h.inbox.MarkRead(c.Request().Context(), actor, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, n)
}
