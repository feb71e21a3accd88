package handler

import (
	"net/http"
	"strconv"

	"github.com/ZEN8890/Pinventory-Api/internal/middleware"
	"github.com/ZEN8890/Pinventory-Api/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /audit-logs（管理者のみ）
type AuditHandler struct {
	uc *usecase.AuditUsecase
}

func NewAuditHandler(uc *usecase.AuditUsecase) *AuditHandler {
	return &AuditHandler{uc: uc}
}

func (h *AuditHandler) RegisterRoutes(api *echo.Group) {
	api.GET("/audit-logs", h.list, middleware.AdminOnly())
}

func (h *AuditHandler) list(c echo.Context) error {
	limit, ok := queryInt(c, "limit", 50)
	if !ok {
		return badRequest(c, "invalid limit")
	}
	offset, ok := queryInt(c, "offset", 0)
	if !ok {
		return badRequest(c, "invalid offset")
	}

	var actorID int64
	if v := c.QueryParam("actor_user_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return badRequest(c, "invalid actor_user_id")
		}
		actorID = id
	}

	out, err := h.uc.List(c.Request().Context(), usecase.ListAuditLogsInput{
		Action:       c.QueryParam("action"),
		ResourceType: c.QueryParam("resource_type"),
		ResourceID:   c.QueryParam("resource_id"),
		Actor:        c.QueryParam("actor"),
		ActorUserID:  actorID,
		From:         c.QueryParam("from"),
		To:           c.QueryParam("to"),
		Limit:        limit,
		Offset:       offset,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
