package handler

import (
	"strconv"

	"github.com/ZEN8890/Pinventory-Api/internal/middleware"
	"github.com/ZEN8890/Pinventory-Api/internal/usecase"

	"github.com/labstack/echo/v4"
)

// AuthJWTが入れたログインユーザー
func actorFromContext(c echo.Context) (usecase.Actor, bool) {
	id, ok := c.Get(middleware.CtxUserIDKey).(int64)
	if !ok || id <= 0 {
		return usecase.Actor{}, false
	}
	name, ok := c.Get(middleware.CtxUsernameKey).(string)
	if !ok || name == "" {
		return usecase.Actor{}, false
	}
	return usecase.Actor{UserID: id, Username: name}, true
}

// page/limitのクエリ（未指定ならdef）
func queryInt(c echo.Context, name string, def int) (int, bool) {
	v := c.QueryParam(name)
	if v == "" {
		return def, true
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
