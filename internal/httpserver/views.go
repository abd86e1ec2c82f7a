package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/portfolio/internal/service"
	"github.com/Skotchmaster/portfolio/internal/transport"
	"github.com/Skotchmaster/portfolio/internal/util"
	"github.com/Skotchmaster/portfolio/pkg/logging"
)

type ViewHTTP struct {
	Svc *service.ViewService
}

func (h *ViewHTTP) RecordView(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "views.record")

	var req transport.ViewRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("record_view_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	v, err := h.Svc.Record(ctx, req.ProjectID, req.SessionID)
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			return echo.NewHTTPError(http.StatusBadRequest, "sessionId is required")
		}
		l.Error("record_view_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to record view")
	}
	return c.JSON(http.StatusCreated, v)
}

func (h *ViewHTTP) GetViews(c echo.Context) error {
	ctx := c.Request().Context()

	views, err := h.Svc.List(ctx, c.QueryParam("projectId"))
	if err != nil {
		logging.FromContext(ctx).Error("get_views_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Error fetching views")
	}
	return c.JSON(http.StatusOK, echo.Map{"views": views})
}

func (h *ViewHTTP) TotalViews(c echo.Context) error {
	ctx := c.Request().Context()

	n, err := h.Svc.Total(ctx, c.QueryParam("projectId"))
	if err != nil {
		logging.FromContext(ctx).Error("total_views_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Error fetching total views")
	}
	return c.JSON(http.StatusOK, echo.Map{"totalViews": n})
}

func (h *ViewHTTP) ProjectViews(c echo.Context) error {
	ctx := c.Request().Context()

	n, err := h.Svc.ForProject(ctx, c.Param("projectId"))
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			return echo.NewHTTPError(http.StatusBadRequest, "projectId is required")
		}
		logging.FromContext(ctx).Error("project_views_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Error fetching view count by project")
	}
	return c.JSON(http.StatusOK, echo.Map{"projectViews": n})
}

func (h *ViewHTTP) DailyViews(c echo.Context) error {
	ctx := c.Request().Context()

	days, err := h.Svc.Daily(ctx, c.QueryParam("projectId"), util.ParseIntDefault(c.QueryParam("days"), 0))
	if err != nil {
		logging.FromContext(ctx).Error("daily_views_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Error fetching daily views")
	}
	return c.JSON(http.StatusOK, echo.Map{"days": days})
}
