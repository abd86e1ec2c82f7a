package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/portfolio/internal/service"
	"github.com/Skotchmaster/portfolio/internal/transport"
	"github.com/Skotchmaster/portfolio/pkg/logging"
)

type ContactHTTP struct {
	Svc *service.ContactService
}

func (h *ContactHTTP) Submit(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "contacts.submit")

	var req service.ContactInput
	if err := c.Bind(&req); err != nil {
		l.Warn("contact_submit_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	if _, err := h.Svc.Submit(ctx, req); err != nil {
		if errors.Is(err, service.ErrValidation) {
			return echo.NewHTTPError(http.StatusBadRequest, clientMessage(err))
		}
		l.Error("contact_submit_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Error submitting contact form")
	}
	return c.JSON(http.StatusCreated, echo.Map{"message": "Contact form submitted successfully"})
}

func (h *ContactHTTP) GetContacts(c echo.Context) error {
	ctx := c.Request().Context()

	list, err := h.Svc.List(ctx, service.ContactListQuery{
		SortBy:    c.QueryParam("sortBy"),
		SortOrder: c.QueryParam("sortOrder"),
		Filter:    c.QueryParam("filter"),
	})
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			return echo.NewHTTPError(http.StatusBadRequest, clientMessage(err))
		}
		logging.FromContext(ctx).Error("get_contacts_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Error fetching messages")
	}
	return c.JSON(http.StatusOK, list)
}

func (h *ContactHTTP) UnreadCount(c echo.Context) error {
	ctx := c.Request().Context()

	n, err := h.Svc.UnreadCount(ctx)
	if err != nil {
		logging.FromContext(ctx).Error("unread_count_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Error fetching unread count")
	}
	return c.JSON(http.StatusOK, echo.Map{"count": n})
}

func (h *ContactHTTP) MarkRead(c echo.Context) error {
	return h.setRead(c, true, "Messages marked as read")
}

func (h *ContactHTTP) MarkUnread(c echo.Context) error {
	return h.setRead(c, false, "Messages marked as unread")
}

func (h *ContactHTTP) setRead(c echo.Context, read bool, msg string) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "contacts.set_read")

	var req transport.IDsRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("contacts_set_read_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	n, err := h.Svc.SetRead(ctx, req.IDs, read)
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			return echo.NewHTTPError(http.StatusBadRequest, clientMessage(err))
		}
		l.Error("contacts_set_read_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Error updating messages")
	}
	return c.JSON(http.StatusOK, echo.Map{"message": msg, "modified": n})
}

func (h *ContactHTTP) DeleteContacts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "contacts.delete")

	var req transport.IDsRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("contacts_delete_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	n, err := h.Svc.Delete(ctx, req.IDs)
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			return echo.NewHTTPError(http.StatusBadRequest, clientMessage(err))
		}
		l.Error("contacts_delete_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Error deleting messages")
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Messages deleted successfully", "deleted": n})
}
