package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/portfolio/internal/models"
	"github.com/Skotchmaster/portfolio/internal/service"
	"github.com/Skotchmaster/portfolio/internal/transport"
	"github.com/Skotchmaster/portfolio/pkg/logging"
)

type TimelineHTTP struct {
	Svc *service.TimelineService
}

func (h *TimelineHTTP) GetTimeline(c echo.Context) error {
	ctx := c.Request().Context()

	els, err := h.Svc.List(ctx)
	if err != nil {
		logging.FromContext(ctx).Error("get_timeline_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot get timeline")
	}
	return c.JSON(http.StatusOK, els)
}

func (h *TimelineHTTP) CreateElement(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "timeline.create")

	var req models.TimelineElement
	if err := c.Bind(&req); err != nil {
		l.Warn("timeline_create_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	el, err := h.Svc.Create(ctx, req)
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			return echo.NewHTTPError(http.StatusBadRequest, clientMessage(err))
		}
		l.Error("timeline_create_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot create element")
	}
	return c.JSON(http.StatusCreated, el)
}

func (h *TimelineHTTP) BulkCreate(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "timeline.bulk")

	var req transport.BulkTimelineRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("timeline_bulk_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid elements array")
	}

	els, err := h.Svc.Bulk(ctx, req.Elements)
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			return echo.NewHTTPError(http.StatusBadRequest, clientMessage(err))
		}
		l.Error("timeline_bulk_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot create elements")
	}
	return c.JSON(http.StatusCreated, els)
}

func (h *TimelineHTTP) Reorder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "timeline.reorder")

	var req transport.ReorderRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("timeline_reorder_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid elements array")
	}

	ids := make([]string, len(req.Elements))
	for i, el := range req.Elements {
		ids[i] = el.ID
	}

	if err := h.Svc.Reorder(ctx, ids); err != nil {
		if errors.Is(err, service.ErrValidation) {
			l.Warn("timeline_reorder_rejected", "status", 400, "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, clientMessage(err))
		}
		l.Error("timeline_reorder_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot reorder elements")
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Elements reordered successfully"})
}

func (h *TimelineHTTP) UpdateElement(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "timeline.update")

	var req service.TimelinePatch
	if err := c.Bind(&req); err != nil {
		l.Warn("timeline_update_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	el, err := h.Svc.Update(ctx, c.Param("id"), req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "Timeline element not found")
		case errors.Is(err, service.ErrValidation):
			return echo.NewHTTPError(http.StatusBadRequest, clientMessage(err))
		default:
			l.Error("timeline_update_failed", "status", 500, "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "cannot update element")
		}
	}
	return c.JSON(http.StatusOK, el)
}

func (h *TimelineHTTP) DeleteElement(c echo.Context) error {
	ctx := c.Request().Context()

	if err := h.Svc.Delete(ctx, c.Param("id")); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Element not found")
		}
		logging.FromContext(ctx).Error("timeline_delete_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot delete element")
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Element deleted"})
}
