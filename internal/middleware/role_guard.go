package middleware

import (
	"github.com/ZEN8890/Pinventory-Api/internal/domain/model"

	"github.com/labstack/echo/v4"
)

//contextに入っているroleが許可リストにあるか確認します。adminは常に通す。

func RequireRole(roles ...model.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, ok := c.Get(CtxUserRoleKey).(string)
			if !ok || role == "" {
				return unauthorized(c)
			}

			if model.Role(role) == model.RoleAdmin {
				return next(c)
			}
			for _, r := range roles {
				if model.Role(role) == r {
					return next(c)
				}
			}
			return forbidden(c, "insufficient role")
		}
	}
}

// 管理者だけ
func AdminOnly() echo.MiddlewareFunc {
	return RequireRole()
}

// supervisor以上
func SupervisorOrAbove() echo.MiddlewareFunc {
	return RequireRole(model.RoleSupervisor)
}
