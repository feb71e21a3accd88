package usecase

import (
	"context"
	"io"
	"time"

	"github.com/ZEN8890/Pinventory-Api/internal/domain/model"
	repo "github.com/ZEN8890/Pinventory-Api/internal/repository"
)

// スプレッドシートの書き出し（ヘッダー固定・オートフィルタ付き）
type SheetWriter interface {
	WriteSheet(w io.Writer, sheet string, header []string, rows [][]any) error
}

const exportTimeLayout = "02/01/2006 15:04:05"

type ExportUsecase struct {
	ledger repo.LedgerRepository
	items  repo.StockItemRepository
	writer SheetWriter
	clock  Clock
	loc    *time.Location
}

// DI
func NewExportUsecase(
	ledger repo.LedgerRepository,
	items repo.StockItemRepository,
	writer SheetWriter,
	clock Clock,
	loc *time.Location,
) *ExportUsecase {
	if loc == nil {
		loc = time.UTC
	}
	return &ExportUsecase{ledger: ledger, items: items, writer: writer, clock: clock, loc: loc}
}

// 商品一覧（名前順）
func (u *ExportUsecase) ExportProducts(ctx context.Context, w io.Writer) error {
	items, _, err := u.items.List(ctx, repo.StockItemListQuery{})
	if err != nil {
		return storageError(ctx, "export.products", err)
	}

	rows := make([][]any, 0, len(items))
	for _, it := range items {
		rows = append(rows, []any{it.Name, it.SKU, it.Quantity})
	}
	return u.writer.WriteSheet(w, "Products", []string{"Name", "Barcode", "Quantity"}, rows)
}

// 台帳（検索と同じ条件、ページングなし）
func (u *ExportUsecase) ExportLedger(ctx context.Context, w io.Writer, in LedgerQueryInput) error {
	in.Limit = 0
	in.Page = 0
	f, err := buildLedgerFilter(in, u.loc, u.clock.Now())
	if err != nil {
		return err
	}

	entries, _, err := u.ledger.List(ctx, f)
	if err != nil {
		return storageError(ctx, "export.ledger", err)
	}

	rows := make([][]any, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []any{
			e.Actor,
			e.SKU,
			e.ItemName,
			abs(e.Delta),
			directionLabel(e.Direction),
			e.ResultingQuantity,
			e.OccurredAt.In(u.loc).Format(exportTimeLayout),
		})
	}
	header := []string{"Staff", "Barcode", "Item Name", "Quantity", "Type", "Stock After", "Timestamp"}
	return u.writer.WriteSheet(w, "Timelog", header, rows)
}

func abs(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}

func directionLabel(d model.Direction) string {
	switch d {
	case model.DirectionReceipt:
		return "Receipt"
	case model.DirectionIssue:
		return "Issue"
	default:
		return string(d)
	}
}
