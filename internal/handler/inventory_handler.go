package handler

import (
	"net/http"
	"strings"

	"github.com/ZEN8890/Pinventory-Api/internal/domain/model"
	"github.com/ZEN8890/Pinventory-Api/internal/middleware"
	"github.com/ZEN8890/Pinventory-Api/internal/usecase"

	"github.com/labstack/echo/v4"
)

// 商品登録
type ProductCreateRequest struct {
	Barcode  string `json:"barcode"`
	Name     string `json:"name"`
	Quantity int64  `json:"quantity"`
}

type ProductRenameRequest struct {
	Name string `json:"name"`
}

// スキャナからの入出庫（action: in/out, masuk/keluar, receipt/issue）
// qty が無ければ1個（バーコード1回分）
type ScanRequest struct {
	Barcode  string `json:"barcode"`
	Qty      *int64 `json:"qty"`
	Action   string `json:"action"`
	Username string `json:"username"`
}

// 入出庫API
type AdjustmentRequest struct {
	SKU       string `json:"sku"`
	Quantity  int64  `json:"quantity"`
	Direction string `json:"direction"`
	Actor     string `json:"actor"`
}

// /products と /scan, /adjustments をまとめる
type InventoryHandler struct {
	uc *usecase.InventoryUsecase
}

// DI
func NewInventoryHandler(uc *usecase.InventoryUsecase) *InventoryHandler {
	return &InventoryHandler{uc: uc}
}

// apiはログイン済みグループ
func (h *InventoryHandler) RegisterRoutes(api *echo.Group) {
	api.GET("/products", h.list)
	api.GET("/products/:sku", h.detail)
	api.POST("/products", h.create, middleware.SupervisorOrAbove())
	api.PUT("/products/:sku", h.rename, middleware.SupervisorOrAbove())

	api.POST("/scan", h.scan)
	api.POST("/adjustments", h.adjust)
}

func (h *InventoryHandler) list(c echo.Context) error {
	page, ok := queryInt(c, "page", 1)
	if !ok {
		return badRequest(c, "invalid page")
	}
	limit, ok := queryInt(c, "limit", 50)
	if !ok {
		return badRequest(c, "invalid limit")
	}

	out, err := h.uc.ListItems(c.Request().Context(), usecase.ListItemsInput{
		Page:  page,
		Limit: limit,
		Q:     c.QueryParam("q"),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *InventoryHandler) detail(c echo.Context) error {
	item, err := h.uc.GetItem(c.Request().Context(), c.Param("sku"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, item)
}

func (h *InventoryHandler) create(c echo.Context) error {
	var req ProductCreateRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	actor, ok := actorFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	item, err := h.uc.CreateItem(c.Request().Context(), actor, usecase.CreateItemInput{
		SKU:      req.Barcode,
		Name:     req.Name,
		Quantity: req.Quantity,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, item)
}

func (h *InventoryHandler) rename(c echo.Context) error {
	var req ProductRenameRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	actor, ok := actorFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	item, err := h.uc.RenameItem(c.Request().Context(), actor, c.Param("sku"), req.Name)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, item)
}

func (h *InventoryHandler) scan(c echo.Context) error {
	var req ScanRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	qty := int64(1)
	if req.Qty != nil {
		qty = *req.Qty
	}
	return h.apply(c, req.Barcode, qty, req.Action, req.Username)
}

func (h *InventoryHandler) adjust(c echo.Context) error {
	var req AdjustmentRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	return h.apply(c, req.SKU, req.Quantity, req.Direction, req.Actor)
}

// 記録者はbodyにあればそれ、無ければログインユーザー
func (h *InventoryHandler) apply(c echo.Context, sku string, qty int64, action, actorName string) error {
	dir, ok := model.ParseDirection(action)
	if !ok || dir == model.DirectionBoth {
		return badRequest(c, "invalid direction")
	}

	actorName = strings.TrimSpace(actorName)
	if actorName == "" {
		actor, ok := actorFromContext(c)
		if !ok {
			return unauthorized(c)
		}
		actorName = actor.Username
	}

	out, err := h.uc.Apply(c.Request().Context(), usecase.AdjustInput{
		SKU:       sku,
		Quantity:  qty,
		Direction: dir,
		Actor:     actorName,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
