package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/portfolio/internal/models"
	"github.com/Skotchmaster/portfolio/internal/service"
	"github.com/Skotchmaster/portfolio/internal/util"
	"github.com/Skotchmaster/portfolio/pkg/logging"
)

const defaultSearchPageSize = 10

type ProjectHTTP struct {
	Svc *service.ProjectService
}

func (h *ProjectHTTP) GetProjects(c echo.Context) error {
	ctx := c.Request().Context()

	projects, err := h.Svc.List(ctx)
	if err != nil {
		logging.FromContext(ctx).Error("get_projects_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot get projects")
	}
	return c.JSON(http.StatusOK, projects)
}

func (h *ProjectHTTP) GetProject(c echo.Context) error {
	ctx := c.Request().Context()

	p, err := h.Svc.Get(ctx, c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Project not found")
		}
		logging.FromContext(ctx).Error("get_project_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot get project")
	}
	return c.JSON(http.StatusOK, p)
}

func (h *ProjectHTTP) SearchProjects(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "projects.search")

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), defaultSearchPageSize)

	total, items, err := h.Svc.Search(ctx, c.QueryParam("q"), page, size)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			return echo.NewHTTPError(http.StatusBadRequest, "query parameter q is required")
		case errors.Is(err, service.ErrSearchUnavailable):
			l.Warn("search_unavailable", "status", 503, "error", err)
			return echo.NewHTTPError(http.StatusServiceUnavailable, "search is unavailable")
		default:
			l.Error("search_failed", "status", 500, "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "search failed")
		}
	}

	if items == nil {
		items = []models.Project{}
	}
	return c.JSON(http.StatusOK, echo.Map{
		"data": items,
		"meta": echo.Map{"page": page, "size": size, "total": total},
	})
}

func (h *ProjectHTTP) CreateProject(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "projects.create")

	var req models.Project
	if err := c.Bind(&req); err != nil {
		l.Warn("project_create_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	p, err := h.Svc.Create(ctx, req)
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			return echo.NewHTTPError(http.StatusBadRequest, clientMessage(err))
		}
		l.Error("project_create_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot create project")
	}

	l.Info("project_created", "project_id", p.ID)
	return c.JSON(http.StatusCreated, p)
}

func (h *ProjectHTTP) BulkCreateProjects(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "projects.bulk")

	var req []models.Project
	if err := c.Bind(&req); err != nil {
		l.Warn("project_bulk_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	res, err := h.Svc.Bulk(ctx, req)
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			return echo.NewHTTPError(http.StatusBadRequest, clientMessage(err))
		}
		l.Error("project_bulk_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot create projects")
	}

	l.Info("project_bulk_done", "created", len(res.Created), "duplicates", len(res.Duplicates))
	return c.JSON(http.StatusCreated, res)
}

func (h *ProjectHTTP) UpdateProject(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "projects.update")

	var req service.ProjectPatch
	if err := c.Bind(&req); err != nil {
		l.Warn("project_update_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	p, err := h.Svc.Update(ctx, c.Param("id"), req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "Project not found")
		case errors.Is(err, service.ErrValidation):
			return echo.NewHTTPError(http.StatusBadRequest, clientMessage(err))
		default:
			l.Error("project_update_failed", "status", 500, "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "cannot update project")
		}
	}
	return c.JSON(http.StatusOK, p)
}

func (h *ProjectHTTP) DeleteProject(c echo.Context) error {
	ctx := c.Request().Context()

	if err := h.Svc.Delete(ctx, c.Param("id")); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Project not found")
		}
		logging.FromContext(ctx).Error("project_delete_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot delete project")
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Project deleted"})
}
