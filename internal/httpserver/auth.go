package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	authmw "github.com/Skotchmaster/portfolio/internal/middleware/auth"
	"github.com/Skotchmaster/portfolio/internal/service"
	"github.com/Skotchmaster/portfolio/internal/transport"
	"github.com/Skotchmaster/portfolio/pkg/logging"
	"github.com/Skotchmaster/portfolio/pkg/tokens"
)

type AuthHTTP struct {
	Svc *service.AuthService
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.login")

	var req transport.LoginRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("login_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	res, err := h.Svc.Login(ctx, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid credentials")
		case errors.Is(err, tokens.ErrMissingSecret):
			l.Error("login_failed", "status", 500, "reason", "signing secret missing", "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "Server configuration error")
		default:
			l.Error("login_failed", "status", 500, "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "Server error")
		}
	}

	return c.JSON(http.StatusOK, transport.LoginResponse{
		Token:        res.AccessToken,
		RefreshToken: res.RefreshToken,
	})
}

func (h *AuthHTTP) Refresh(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.refresh")

	var req transport.RefreshRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("refresh_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	access, err := h.Svc.Refresh(ctx, req.RefreshToken)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMissingRefreshToken):
			return echo.NewHTTPError(http.StatusUnauthorized, "Refresh token is required")
		case errors.Is(err, service.ErrInvalidRefreshToken):
			return echo.NewHTTPError(http.StatusForbidden, "Invalid refresh token")
		case errors.Is(err, service.ErrUserNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		case errors.Is(err, tokens.ErrMissingSecret):
			l.Error("refresh_failed", "status", 500, "reason", "signing secret missing", "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "Server configuration error")
		default:
			l.Error("refresh_failed", "status", 500, "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "Server error")
		}
	}

	return c.JSON(http.StatusOK, transport.RefreshResponse{AccessToken: access.Value})
}

func (h *AuthHTTP) CheckToken(c echo.Context) error {
	ctx := c.Request().Context()

	res, err := h.Svc.Probe(ctx, c.Request().Header.Get(authmw.HeaderAuthToken))
	if err != nil {
		logging.FromContext(ctx).Error("check_token_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Server configuration error")
	}
	return c.JSON(http.StatusOK, res)
}

func (h *AuthHTTP) LogOut(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.logout")

	var req transport.RefreshRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("logout_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	revoked, err := h.Svc.Logout(ctx, req.RefreshToken)
	if err != nil {
		l.Error("logout_failed", "status", 500, "reason", "cannot revoke refresh token", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error")
	}

	l.Info("successful_logout", "revoked", revoked)
	return c.JSON(http.StatusOK, echo.Map{"message": "Logged out"})
}
