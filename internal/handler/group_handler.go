package handler

import (
	"net/http"
	"strconv"

	"github.com/ZEN8890/Pinventory-Api/internal/middleware"
	"github.com/ZEN8890/Pinventory-Api/internal/usecase"

	"github.com/labstack/echo/v4"
)

type GroupCreateRequest struct {
	Name        string   `json:"group_name"`
	Description string   `json:"description"`
	SKUs        []string `json:"skus"`
}

// skusがnullなら所属はそのまま、[]なら空にする
type GroupUpdateRequest struct {
	Name        *string   `json:"group_name"`
	Description *string   `json:"description"`
	SKUs        *[]string `json:"skus"`
}

// /groups
type GroupHandler struct {
	uc *usecase.GroupUsecase
}

// DI
func NewGroupHandler(uc *usecase.GroupUsecase) *GroupHandler {
	return &GroupHandler{uc: uc}
}

func (h *GroupHandler) RegisterRoutes(api *echo.Group) {
	api.GET("/groups", h.list)
	api.POST("/groups", h.create, middleware.SupervisorOrAbove())
	api.PUT("/groups/:id", h.update, middleware.SupervisorOrAbove())
	api.DELETE("/groups/:id", h.delete, middleware.SupervisorOrAbove())
}

func (h *GroupHandler) list(c echo.Context) error {
	groups, err := h.uc.List(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, groups)
}

func (h *GroupHandler) create(c echo.Context) error {
	var req GroupCreateRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	actor, ok := actorFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	g, err := h.uc.Create(c.Request().Context(), actor, usecase.CreateGroupInput{
		Name:        req.Name,
		Description: req.Description,
		SKUs:        req.SKUs,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, g)
}

func (h *GroupHandler) update(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return badRequest(c, "invalid id")
	}
	var req GroupUpdateRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	actor, ok := actorFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	in := usecase.UpdateGroupInput{Name: req.Name, Description: req.Description}
	if req.SKUs != nil {
		in.SKUs = *req.SKUs
		in.ReplaceSKUs = true
	}
	g, err := h.uc.Update(c.Request().Context(), actor, id, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, g)
}

func (h *GroupHandler) delete(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return badRequest(c, "invalid id")
	}
	actor, ok := actorFromContext(c)
	if !ok {
		return unauthorized(c)
	}
	if err := h.uc.Delete(c.Request().Context(), actor, id); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, SuccessResponse{Message: "deleted"})
}
