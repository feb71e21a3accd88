package handler

import (
	"net/http"

	"github.com/ZEN8890/Pinventory-Api/internal/domain/model"
	"github.com/ZEN8890/Pinventory-Api/internal/middleware"
	"github.com/ZEN8890/Pinventory-Api/internal/usecase"

	"github.com/labstack/echo/v4"
)

type StaffCreateRequest struct {
	Username string     `json:"username"`
	Password string     `json:"password"`
	Phone    string     `json:"phone"`
	Role     model.Role `json:"role"`
}

// 省略した項目は変更しない
type StaffUpdateRequest struct {
	Password *string     `json:"password"`
	Phone    *string     `json:"phone"`
	Role     *model.Role `json:"role"`
}

// /staff（管理者のみ）
type StaffHandler struct {
	uc *usecase.StaffUsecase
}

// DI
func NewStaffHandler(uc *usecase.StaffUsecase) *StaffHandler {
	return &StaffHandler{uc: uc}
}

func (h *StaffHandler) RegisterRoutes(api *echo.Group) {
	staff := api.Group("/staff", middleware.AdminOnly())

	staff.GET("", h.list)
	staff.POST("", h.create)
	staff.PUT("/:username", h.update)
	staff.DELETE("/:username", h.delete)
	staff.POST("/:username/force-logout", h.forceLogout)
}

func (h *StaffHandler) list(c echo.Context) error {
	users, err := h.uc.List(c.Request().Context(), c.QueryParam("q"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, users)
}

func (h *StaffHandler) create(c echo.Context) error {
	var req StaffCreateRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	actor, ok := actorFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	u, err := h.uc.Create(c.Request().Context(), actor, usecase.CreateStaffInput{
		Username: req.Username,
		Password: req.Password,
		Phone:    req.Phone,
		Role:     req.Role,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, u)
}

func (h *StaffHandler) update(c echo.Context) error {
	var req StaffUpdateRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	actor, ok := actorFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	u, err := h.uc.Update(c.Request().Context(), actor, c.Param("username"), usecase.UpdateStaffInput{
		Password: req.Password,
		Phone:    req.Phone,
		Role:     req.Role,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, u)
}

func (h *StaffHandler) delete(c echo.Context) error {
	actor, ok := actorFromContext(c)
	if !ok {
		return unauthorized(c)
	}
	if err := h.uc.Delete(c.Request().Context(), actor, c.Param("username")); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, SuccessResponse{Message: "deleted"})
}

// 強制ログアウト（既存トークン無効化）
func (h *StaffHandler) forceLogout(c echo.Context) error {
	actor, ok := actorFromContext(c)
	if !ok {
		return unauthorized(c)
	}
	if err := h.uc.ForceLogout(c.Request().Context(), actor, c.Param("username")); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, SuccessResponse{Message: "ok"})
}
