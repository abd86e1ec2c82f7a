// Package authmw guards routes with the access token carried in the
// x-auth-token header and renews tokens that are about to expire.
package authmw

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/portfolio/internal/metrics"
	"github.com/Skotchmaster/portfolio/pkg/logging"
	loggingmw "github.com/Skotchmaster/portfolio/pkg/middleware/logging"
	"github.com/Skotchmaster/portfolio/pkg/tokens"
)

const HeaderAuthToken = "x-auth-token"

type AutoRefreshMiddleware struct {
	Tokens  *tokens.Issuer
	Metrics *metrics.Metrics
}

func NewAutoRefreshMiddleware(iss *tokens.Issuer, m *metrics.Metrics) *AutoRefreshMiddleware {
	return &AutoRefreshMiddleware{Tokens: iss, Metrics: m}
}

// RequireAuth lets the request through only with a valid access token. When
// the token has less than tokens.RenewWindow left, a fresh one is returned in
// the x-auth-token response header; the request keeps the original claims.
func (m *AutoRefreshMiddleware) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		l := logging.FromContext(ctx).With("mw", "auth.require")

		raw := c.Request().Header.Get(HeaderAuthToken)
		if raw == "" {
			m.Metrics.GateDecision(metrics.GateMissing)
			l.Warn("auth_denied", "status", 401, "reason", "no token")
			return echo.NewHTTPError(http.StatusUnauthorized, "No token, authorization denied")
		}

		claims, err := m.Tokens.VerifyAccess(raw)
		if err != nil {
			switch {
			case errors.Is(err, tokens.ErrMissingSecret):
				m.Metrics.GateDecision(metrics.GateConfig)
				l.Error("auth_config_error", "status", 500, "error", err)
				return echo.NewHTTPError(http.StatusInternalServerError, "Server configuration error")
			case errors.Is(err, tokens.ErrExpired):
				m.Metrics.GateDecision(metrics.GateExpired)
			default:
				m.Metrics.GateDecision(metrics.GateInvalid)
			}
			l.Warn("auth_denied", "status", 401, "reason", "token rejected", "error", err)
			return echo.NewHTTPError(http.StatusUnauthorized, "Token is not valid")
		}

		outcome := metrics.GateAllowed
		if m.Tokens.NearExpiry(claims) {
			fresh, err := m.Tokens.Issue(claims.Subject, tokens.KindAccess)
			if err != nil {
				m.Metrics.GateDecision(metrics.GateConfig)
				l.Error("auth_renew_failed", "status", 500, "user_id", claims.Subject, "error", err)
				return echo.NewHTTPError(http.StatusInternalServerError, "Server configuration error")
			}
			c.Response().Header().Set(HeaderAuthToken, fresh.Value)
			m.Metrics.TokenIssued(string(tokens.KindAccess), "renew")
			outcome = metrics.GateRenewed
			l.Info("auth_token_renewed", "user_id", claims.Subject, "remaining", m.Tokens.Remaining(claims).String())
		}
		m.Metrics.GateDecision(outcome)

		setUserContext(c, claims)
		return next(c)
	}
}

func setUserContext(c echo.Context, claims *tokens.Claims) {
	c.Set(loggingmw.UserIDKey, claims.Subject)
	l := logging.FromContext(c.Request().Context()).With("user_id", claims.Subject)
	c.SetRequest(c.Request().WithContext(logging.IntoContext(c.Request().Context(), l)))
}

// UserID returns the subject set by RequireAuth, or "" on public routes.
func UserID(c echo.Context) string {
	id, _ := c.Get(loggingmw.UserIDKey).(string)
	return id
}
