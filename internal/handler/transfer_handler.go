package handler

import (
	"bytes"
	"fmt"
	"io"
	"net/http"

	"github.com/ZEN8890/Pinventory-Api/internal/middleware"
	"github.com/ZEN8890/Pinventory-Api/internal/usecase"

	"github.com/labstack/echo/v4"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Excelの取り込み・書き出し
type TransferHandler struct {
	importUC *usecase.ImportUsecase
	exportUC *usecase.ExportUsecase
	maxBytes int64
	clock    usecase.Clock
}

// DI
func NewTransferHandler(importUC *usecase.ImportUsecase, exportUC *usecase.ExportUsecase, maxBytes int64, clock usecase.Clock) *TransferHandler {
	return &TransferHandler{importUC: importUC, exportUC: exportUC, maxBytes: maxBytes, clock: clock}
}

func (h *TransferHandler) RegisterRoutes(api *echo.Group) {
	api.POST("/products/import", h.importProducts, middleware.AdminOnly())
	api.GET("/products/export", h.exportProducts)
	api.GET("/timelog/export", h.exportLedger)
}

// multipartのfileを丸ごと置き換えで取り込む
func (h *TransferHandler) importProducts(c echo.Context) error {
	actor, ok := actorFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	fh, err := c.FormFile("file")
	if err != nil {
		return badRequest(c, "file required")
	}
	if h.maxBytes > 0 && fh.Size > h.maxBytes {
		return c.JSON(http.StatusRequestEntityTooLarge, ErrorResponse{Error: "file too large", Code: "INVALID_INPUT"})
	}

	f, err := fh.Open()
	if err != nil {
		return badRequest(c, "file unreadable")
	}
	defer f.Close()

	out, err := h.importUC.Import(c.Request().Context(), actor, f)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *TransferHandler) exportProducts(c echo.Context) error {
	return h.sendWorkbook(c, "products", func(w io.Writer) error {
		return h.exportUC.ExportProducts(c.Request().Context(), w)
	})
}

func (h *TransferHandler) exportLedger(c echo.Context) error {
	in, ok := ledgerQueryFromRequest(c)
	if !ok {
		return badRequest(c, "invalid page or limit")
	}
	return h.sendWorkbook(c, "timelog", func(w io.Writer) error {
		return h.exportUC.ExportLedger(c.Request().Context(), w, in)
	})
}

// 書き終わってからヘッダーを返す（途中で失敗したらJSONのエラーにする）
func (h *TransferHandler) sendWorkbook(c echo.Context, prefix string, write func(io.Writer) error) error {
	var buf bytes.Buffer
	if err := write(&buf); err != nil {
		return writeError(c, err)
	}

	name := fmt.Sprintf("%s_%s.xlsx", prefix, h.clock.Now().Format("20060102_150405"))
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, name))
	return c.Blob(http.StatusOK, xlsxContentType, buf.Bytes())
}
