package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/ZEN8890/Pinventory-Api/internal/config"
	"github.com/ZEN8890/Pinventory-Api/internal/middleware"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

// New は共通ミドルウェア込みのechoを返す（ルートはRegisterRoutesで足す）
func New(cfg config.Config, logger *slog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(echomw.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.RequestLogger(logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSAllowedOrigins,
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		ExposeHeaders: []string{
			echo.HeaderContentDisposition,
			echo.HeaderXRequestID,
		},
	}))
	e.Use(echomw.BodyLimit(bodyLimit(cfg.MaxImportBytes)))

	return e
}

// importのファイル分＋multipartの余白
func bodyLimit(maxImport int64) string {
	if maxImport <= 0 {
		return "10M"
	}
	mb := maxImport/(1<<20) + 1
	return strconv.FormatInt(mb, 10) + "M"
}

// Run はctxが終わるまで待ち受け、終わったらshutdownTimeout内で止める
func Run(ctx context.Context, e *echo.Echo, addr string, shutdownTimeout time.Duration) error {
	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", slog.String("addr", addr))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	slog.Info("server shutting down")
	if err := e.Shutdown(sctx); err != nil {
		return err
	}
	return <-errCh
}
