package httpserver

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/Skotchmaster/portfolio/internal/metrics"
	authmw "github.com/Skotchmaster/portfolio/internal/middleware/auth"
	"github.com/Skotchmaster/portfolio/pkg/logging"
)

const (
	readyTimeout = 2 * time.Second

	// DefaultBodyLimit caps request bodies under /api, uploads included.
	DefaultBodyLimit = "20M"
)

// Pinger is a backend that /health/ready checks.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Deps struct {
	AuthHandler     *AuthHTTP
	UserHandler     *UserHTTP
	ProjectHandler  *ProjectHTTP
	SkillHandler    *SkillHTTP
	TimelineHandler *TimelineHTTP
	ContactHandler  *ContactHTTP
	ViewHandler     *ViewHTTP
	MediaHandler    *MediaHTTP

	AuthMW    *authmw.AutoRefreshMiddleware
	Metrics   *metrics.Metrics
	Checks    map[string]Pinger
	BodyLimit string
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", d.ready)
	e.GET("/metrics", echo.WrapHandler(d.Metrics.Handler()))

	e.GET("/uploads/:filename", d.MediaHandler.Serve)

	limit := d.BodyLimit
	if limit == "" {
		limit = DefaultBodyLimit
	}
	api := e.Group("/api", middleware.BodyLimit(limit))
	gated := d.AuthMW.RequireAuth

	auth := api.Group("/auth")
	auth.POST("/refresh", d.AuthHandler.Refresh)
	auth.POST("/check-token", d.AuthHandler.CheckToken)
	auth.POST("/logout", d.AuthHandler.LogOut)

	users := api.Group("/users")
	users.POST("/login", d.AuthHandler.Login)
	users.GET("", d.UserHandler.GetUsers, gated)
	users.POST("", d.UserHandler.CreateUser, gated)
	users.PUT("/:id", d.UserHandler.UpdateUser, gated)
	users.DELETE("/:id", d.UserHandler.DeleteUser, gated)

	projects := api.Group("/projects")
	projects.GET("", d.ProjectHandler.GetProjects)
	projects.GET("/search", d.ProjectHandler.SearchProjects)
	projects.GET("/:id", d.ProjectHandler.GetProject)
	projects.POST("", d.ProjectHandler.CreateProject, gated)
	projects.POST("/bulk", d.ProjectHandler.BulkCreateProjects, gated)
	projects.PUT("/:id", d.ProjectHandler.UpdateProject, gated)
	projects.DELETE("/:id", d.ProjectHandler.DeleteProject, gated)

	skills := api.Group("/skills")
	skills.GET("", d.SkillHandler.GetSkills)
	skills.POST("", d.SkillHandler.SaveSkills, gated)
	skills.DELETE("/:id", d.SkillHandler.DeleteSkill, gated)
	skills.DELETE("", d.SkillHandler.DeleteAllSkills, gated)

	timeline := api.Group("/timeline")
	timeline.GET("", d.TimelineHandler.GetTimeline)
	timeline.POST("", d.TimelineHandler.CreateElement, gated)
	timeline.POST("/bulk", d.TimelineHandler.BulkCreate, gated)
	timeline.PUT("/reorder", d.TimelineHandler.Reorder, gated)
	timeline.PUT("/:id", d.TimelineHandler.UpdateElement, gated)
	timeline.DELETE("/:id", d.TimelineHandler.DeleteElement, gated)

	contacts := api.Group("/contacts")
	contacts.POST("", d.ContactHandler.Submit)
	contacts.GET("", d.ContactHandler.GetContacts, gated)
	contacts.GET("/unread-count", d.ContactHandler.UnreadCount, gated)
	contacts.PUT("/mark-read", d.ContactHandler.MarkRead, gated)
	contacts.PUT("/mark-unread", d.ContactHandler.MarkUnread, gated)
	contacts.DELETE("", d.ContactHandler.DeleteContacts, gated)

	views := api.Group("/views")
	views.POST("", d.ViewHandler.RecordView)
	views.GET("", d.ViewHandler.GetViews)
	views.GET("/total", d.ViewHandler.TotalViews)
	views.GET("/project/:projectId", d.ViewHandler.ProjectViews)
	views.GET("/daily", d.ViewHandler.DailyViews, gated)

	upload := api.Group("/upload", gated)
	upload.POST("", d.MediaHandler.Upload)
	upload.DELETE("/:filename", d.MediaHandler.Delete)
}

func (d *Deps) ready(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), readyTimeout)
	defer cancel()

	names := make([]string, 0, len(d.Checks))
	for name := range d.Checks {
		names = append(names, name)
	}
	sort.Strings(names)

	status := http.StatusOK
	checks := make(map[string]string, len(names))
	for _, name := range names {
		if err := d.Checks[name].Ping(ctx); err != nil {
			logging.FromContext(ctx).Warn("readiness_check_failed", "backend", name, "error", err)
			checks[name] = err.Error()
			status = http.StatusServiceUnavailable
			continue
		}
		checks[name] = "ok"
	}
	return c.JSON(status, echo.Map{"checks": checks})
}
