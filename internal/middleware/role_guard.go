package middleware

import (
	"net/http"

	"sweetshop/internal/authz"
	"sweetshop/internal/domain/model"

	"github.com/labstack/echo/v4"
)

// RequireOperation はcontextのroleがopを実行できるか確認する。
// ロール判定はauthzの許可表に集約してあり、ここでは参照するだけ。
func RequireOperation(op authz.Operation) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, ok := c.Get(CtxUserRoleKey).(model.Role)
			if !ok || role == "" {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}

			if !authz.Permit(role, op) {
				return c.JSON(http.StatusForbidden, errorJSON("admin only"))
			}

			return next(c)
		}
	}
}
