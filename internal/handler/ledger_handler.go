package handler

import (
	"net/http"
	"strconv"

	"github.com/ZEN8890/Pinventory-Api/internal/middleware"
	"github.com/ZEN8890/Pinventory-Api/internal/usecase"

	"github.com/labstack/echo/v4"
)

// 期間削除（start/endは必須、typeは省略でboth）
// start_date/end_date（start/end も可）
type TimelogDeleteRequest struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Start     string `json:"start"`
	End       string `json:"end"`
	Type      string `json:"type"`
}

// /timelog（台帳の検索・削除）
type LedgerHandler struct {
	uc *usecase.LedgerUsecase
}

// DI
func NewLedgerHandler(uc *usecase.LedgerUsecase) *LedgerHandler {
	return &LedgerHandler{uc: uc}
}

func (h *LedgerHandler) RegisterRoutes(api *echo.Group) {
	api.GET("/timelog", h.query)
	api.GET("/ai/logs", h.query)
	api.GET("/products/:sku/history", h.history)
	api.DELETE("/timelog/:id", h.deleteOne, middleware.AdminOnly())
	api.POST("/timelog/delete", h.deleteRange, middleware.AdminOnly())
}

// 検索条件（export と共通）
func ledgerQueryFromRequest(c echo.Context) (usecase.LedgerQueryInput, bool) {
	page, ok := queryInt(c, "page", 1)
	if !ok {
		return usecase.LedgerQueryInput{}, false
	}
	limit, ok := queryInt(c, "limit", 100)
	if !ok {
		return usecase.LedgerQueryInput{}, false
	}
	return usecase.LedgerQueryInput{
		SKU:       c.QueryParam("sku"),
		Start:     firstNonEmpty(c.QueryParam("start"), c.QueryParam("start_date")),
		End:       firstNonEmpty(c.QueryParam("end"), c.QueryParam("end_date")),
		Direction: c.QueryParam("type"),
		Page:      page,
		Limit:     limit,
	}, true
}

func (h *LedgerHandler) query(c echo.Context) error {
	in, ok := ledgerQueryFromRequest(c)
	if !ok {
		return badRequest(c, "invalid page or limit")
	}
	out, err := h.uc.Query(c.Request().Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *LedgerHandler) history(c echo.Context) error {
	out, err := h.uc.History(c.Request().Context(), c.Param("sku"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *LedgerHandler) deleteOne(c echo.Context) error {
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

func (h *LedgerHandler) deleteRange(c echo.Context) error {
	var req TimelogDeleteRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	actor, ok := actorFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	out, err := h.uc.DeleteRange(c.Request().Context(), actor, usecase.DeleteRangeInput{
		Start:     firstNonEmpty(req.StartDate, req.Start),
		End:       firstNonEmpty(req.EndDate, req.End),
		Direction: req.Type,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
