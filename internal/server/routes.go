package server

import (
	"github.com/ZEN8890/Pinventory-Api/internal/config"
	"github.com/ZEN8890/Pinventory-Api/internal/handler"
	"github.com/ZEN8890/Pinventory-Api/internal/middleware"
	"github.com/ZEN8890/Pinventory-Api/internal/repository"

	"github.com/labstack/echo/v4"
)

// ルート登録に必要なhandler
type Handlers struct {
	Health    *handler.HealthHandler
	Auth      *handler.AuthHandler
	Inventory *handler.InventoryHandler
	Ledger    *handler.LedgerHandler
	Transfer  *handler.TransferHandler
	Staff     *handler.StaffHandler
	Group     *handler.GroupHandler
	Audit     *handler.AuditHandler
}

// /api 配下。health と login 以外はJWT＋token_version必須。
func RegisterRoutes(e *echo.Echo, cfg config.Config, userRepo repository.UserRepository, h Handlers) {
	public := e.Group("/api")
	h.Health.RegisterRoutes(public)
	h.Auth.RegisterRoutes(public)

	api := e.Group("/api")
	api.Use(middleware.AuthJWT(cfg))
	api.Use(middleware.TokenVersionGuard(userRepo))

	h.Inventory.RegisterRoutes(api)
	h.Ledger.RegisterRoutes(api)
	h.Transfer.RegisterRoutes(api)
	h.Staff.RegisterRoutes(api)
	h.Group.RegisterRoutes(api)
	h.Audit.RegisterRoutes(api)
}
