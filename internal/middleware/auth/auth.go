package auth

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/sweetlab/sweet_shop/internal/logging"
	"github.com/sweetlab/sweet_shop/internal/models"
	"github.com/sweetlab/sweet_shop/internal/repo"
	"github.com/sweetlab/sweet_shop/internal/tokens"
)

const (
	ContextUserKey   = "user"
	ContextUserIDKey = "userID"
)

type Middleware struct {
	Tokens *tokens.Service
	Repo   *repo.GormRepo
}

// CurrentUser returns the identity bound by RequireAuth/OptionalAuth,
// or nil for an anonymous request.
func CurrentUser(c echo.Context) *models.User {
	if u, ok := c.Get(ContextUserKey).(*models.User); ok {
		return u
	}
	return nil
}

func CurrentUserID(c echo.Context) string {
	if id, ok := c.Get(ContextUserIDKey).(string); ok {
		return id
	}
	return ""
}

func (m *Middleware) resolve(c echo.Context) (*models.User, error) {
	raw := tokens.ExtractBearer(c.Request().Header.Get(echo.HeaderAuthorization))
	if raw == "" {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}

	claims, err := m.Tokens.Parse(raw)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}

	uid, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "token is invalid")
	}

	user, err := m.Repo.UserByID(c.Request().Context(), uid)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "token is invalid")
	}

	return user, nil
}

func bindUser(c echo.Context, user *models.User) {
	c.Set(ContextUserKey, user)
	c.Set(ContextUserIDKey, user.ID.String())
}

// RequireAuth rejects any request without a verifiable bearer token that
// resolves to an existing user.
func (m *Middleware) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		user, err := m.resolve(c)
		if err != nil {
			return err
		}
		bindUser(c, user)
		return next(c)
	}
}

// OptionalAuth binds an identity when a valid token is present and lets the
// request through anonymously on any failure.
func (m *Middleware) OptionalAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		user, err := m.resolve(c)
		if err == nil {
			bindUser(c, user)
		} else {
			logging.FromContext(c.Request().Context()).Debug("optional_auth_skipped", "error", err)
		}
		return next(c)
	}
}

// RequireAdmin must be composed after RequireAuth.
func (m *Middleware) RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		user := CurrentUser(c)
		if user == nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
		}
		if !user.Admin() {
			return echo.NewHTTPError(http.StatusForbidden, "admin privileges required")
		}
		return next(c)
	}
}

// RequireRoles admits only identities whose role is among the given ones.
func (m *Middleware) RequireRoles(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user := CurrentUser(c)
			if user == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
			}
			for _, role := range roles {
				if user.Role == role {
					return next(c)
				}
			}
			return echo.NewHTTPError(http.StatusForbidden,
				"access denied, required role: "+strings.Join(roles, " or "))
		}
	}
}

// RequireOwnerOrAdmin admits admins unconditionally, everyone else only when
// the resolved resource owner matches the identity.
func RequireOwnerOrAdmin(ownerID func(echo.Context) string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user := CurrentUser(c)
			if user == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
			}
			if user.Admin() {
				return next(c)
			}
			if CurrentUserID(c) != ownerID(c) {
				return echo.NewHTTPError(http.StatusForbidden, "you can only access your own resources")
			}
			return next(c)
		}
	}
}
