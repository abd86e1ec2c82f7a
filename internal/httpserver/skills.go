package httpserver

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/portfolio/internal/models"
	"github.com/Skotchmaster/portfolio/internal/service"
	"github.com/Skotchmaster/portfolio/pkg/logging"
)

type SkillHTTP struct {
	Svc *service.SkillService
}

func (h *SkillHTTP) GetSkills(c echo.Context) error {
	ctx := c.Request().Context()

	skills, err := h.Svc.List(ctx)
	if err != nil {
		logging.FromContext(ctx).Error("get_skills_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot get skills")
	}
	return c.JSON(http.StatusOK, skills)
}

// decodeSkills accepts either a single skill object or an array of them.
func decodeSkills(body []byte) ([]models.Skill, error) {
	body = bytes.TrimSpace(body)
	if len(body) > 0 && body[0] == '[' {
		var many []models.Skill
		if err := json.Unmarshal(body, &many); err != nil {
			return nil, err
		}
		return many, nil
	}
	var one models.Skill
	if err := json.Unmarshal(body, &one); err != nil {
		return nil, err
	}
	return []models.Skill{one}, nil
}

func (h *SkillHTTP) SaveSkills(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "skills.save")

	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	in, err := decodeSkills(body)
	if err != nil {
		l.Warn("save_skills_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	saved, err := h.Svc.Save(ctx, in)
	if err != nil {
		l.Error("save_skills_failed", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "cannot save skills")
	}
	return c.JSON(http.StatusOK, saved)
}

func (h *SkillHTTP) DeleteSkill(c echo.Context) error {
	ctx := c.Request().Context()

	if err := h.Svc.Delete(ctx, c.Param("id")); err != nil {
		logging.FromContext(ctx).Error("delete_skill_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot delete skill")
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Skill deleted successfully"})
}

func (h *SkillHTTP) DeleteAllSkills(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "skills.delete_all")

	n, err := h.Svc.DeleteAll(ctx)
	if err != nil {
		l.Error("delete_skills_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot delete skills")
	}
	l.Info("skills_deleted", "count", n)
	return c.JSON(http.StatusOK, echo.Map{"message": "All skills deleted successfully"})
}
