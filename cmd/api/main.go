package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/ZEN8890/Pinventory-Api/internal/config"
	"github.com/ZEN8890/Pinventory-Api/internal/handler"
	"github.com/ZEN8890/Pinventory-Api/internal/infra/db"
	infraRepo "github.com/ZEN8890/Pinventory-Api/internal/infra/repository"
	"github.com/ZEN8890/Pinventory-Api/internal/infra/spreadsheet"
	"github.com/ZEN8890/Pinventory-Api/internal/logger"
	"github.com/ZEN8890/Pinventory-Api/internal/server"
	"github.com/ZEN8890/Pinventory-Api/internal/usecase"
	auth "github.com/ZEN8890/Pinventory-Api/internal/usecase/auth_usecase"
	"github.com/ZEN8890/Pinventory-Api/internal/validator"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal", slog.Any("error", err))
		os.Exit(1)
	}
}

func run() error {
	//.envは無くてもよい（本番は環境変数）
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	//DB接続
	gormDB, err := db.Open(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(gormDB); err != nil {
			log.Warn("db close", slog.Any("error", err))
		}
	}()

	if cfg.DBAutoMigrate {
		sqlDB, err := gormDB.DB()
		if err != nil {
			return err
		}
		if err := db.Migrate(ctx, sqlDB); err != nil {
			return err
		}
	}

	//Repository（GORM実装）生成
	itemRepo := infraRepo.NewStockItemGormRepository(gormDB)
	ledgerRepo := infraRepo.NewLedgerGormRepository(gormDB)
	groupRepo := infraRepo.NewGroupGormRepository(gormDB)
	userRepo := infraRepo.NewUserGormRepository(gormDB)
	auditRepo := infraRepo.NewAuditLogGormRepository(gormDB)
	txm := infraRepo.NewTxManagerGorm(gormDB)

	//usecaseに渡す部品
	clock := usecase.SystemClock{}
	loc := cfg.Location()
	excel := spreadsheet.NewExcelCodec()

	//bcrypt（スタッフ登録：Hash / ログイン：Verify）
	hasher := auth.NewBcryptPasswordHasher(12)
	verifier := auth.NewBcryptPasswordVerifier()
	issuer := auth.NewJWTIssuer(cfg.JWTSecret, cfg.AccessTokenTTL)

	//Usecase生成
	inventoryUC := usecase.NewInventoryUsecase(txm, itemRepo, clock)
	ledgerUC := usecase.NewLedgerUsecase(txm, ledgerRepo, itemRepo, clock, loc)
	importUC := usecase.NewImportUsecase(txm, excel, clock)
	exportUC := usecase.NewExportUsecase(ledgerRepo, itemRepo, excel, clock, loc)
	staffUC := usecase.NewStaffUsecase(userRepo, auditRepo, validator.NewStaffValidator(), hasher, clock)
	groupUC := usecase.NewGroupUsecase(txm, groupRepo, clock)
	auditUC := usecase.NewAuditUsecase(auditRepo, loc)
	loginUC := auth.NewLoginUsecase(userRepo, verifier, hasher, issuer, clock)

	if err := staffUC.EnsureAdmin(ctx, cfg.BootstrapAdminUsername, cfg.BootstrapAdminPassword); err != nil {
		return err
	}

	//Handler生成
	e := server.New(cfg, log)
	server.RegisterRoutes(e, cfg, userRepo, server.Handlers{
		Health:    handler.NewHealthHandler(func(ctx context.Context) error { return db.Ping(ctx, gormDB) }),
		Auth:      handler.NewAuthHandler(loginUC),
		Inventory: handler.NewInventoryHandler(inventoryUC),
		Ledger:    handler.NewLedgerHandler(ledgerUC),
		Transfer:  handler.NewTransferHandler(importUC, exportUC, cfg.MaxImportBytes, clock),
		Staff:     handler.NewStaffHandler(staffUC),
		Group:     handler.NewGroupHandler(groupUC),
		Audit:     handler.NewAuditHandler(auditUC),
	})

	//Server起動（シグナルで止める）
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return server.Run(gctx, e, ":"+cfg.Port, cfg.ShutdownTimeout)
	})
	return g.Wait()
}
