package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/ZEN8890/Pinventory-Api/internal/domain/model"
	repo "github.com/ZEN8890/Pinventory-Api/internal/repository"
)

// スプレッドシートの読み込み（1枚目のシートの全行）
type SheetReader interface {
	ReadRows(r io.Reader) ([][]string, error)
}

type ImportUsecase struct {
	tx     repo.TransactionManager
	reader SheetReader
	clock  Clock
}

// DI
func NewImportUsecase(tx repo.TransactionManager, reader SheetReader, clock Clock) *ImportUsecase {
	return &ImportUsecase{tx: tx, reader: reader, clock: clock}
}

type ImportResult struct {
	Imported int   `json:"imported"`
	Skipped  int   `json:"skipped"`
	Replaced int64 `json:"replaced"`
}

type importRow struct {
	SKU      string
	Name     string
	Quantity int64
}

// Import は商品表を丸ごと入れ替える（台帳には書かない）。
// 1行でも数量が不正なら何も変えない。
func (u *ImportUsecase) Import(ctx context.Context, actor Actor, r io.Reader) (ImportResult, error) {
	raw, err := u.reader.ReadRows(r)
	if err != nil {
		return ImportResult{}, NewHTTPError(http.StatusBadRequest, "invalid spreadsheet")
	}

	rows, skipped, err := parseImportRows(raw)
	if err != nil {
		return ImportResult{}, err
	}

	var replaced int64
	err = u.tx.WithinTx(ctx, func(tx repo.TxRepos) error {
		//スキャンを待たせてから入れ替える
		if err := tx.Items().LockForReplace(ctx); err != nil {
			return err
		}
		n, err := tx.Items().DeleteAll(ctx)
		if err != nil {
			return err
		}
		replaced = n

		for _, row := range rows {
			if err := tx.Items().Upsert(ctx, row.SKU, row.Name, row.Quantity); err != nil {
				return err
			}
		}

		after, _ := json.Marshal(map[string]any{
			"imported": len(rows),
			"skipped":  skipped,
			"replaced": n,
		})
		return tx.Audit().Create(ctx, model.AuditLog{
			ActorUserID:  actor.UserID,
			Actor:        actor.Username,
			Action:       model.AuditActionImportInventory,
			ResourceType: model.AuditResourceProduct,
			ResourceID:   "import",
			AfterJSON:    string(after),
			CreatedAt:    u.clock.Now(),
		})
	})
	if err != nil {
		return ImportResult{}, storageError(ctx, "inventory.import", err, slog.Int("rows", len(rows)))
	}

	slog.InfoContext(ctx, "inventory imported",
		slog.String("actor", actor.Username),
		slog.Int("imported", len(rows)),
		slog.Int("skipped", skipped),
		slog.Int64("replaced", replaced),
	)
	return ImportResult{Imported: len(rows), Skipped: skipped, Replaced: replaced}, nil
}

// ヘッダー行（name, barcode, quantity）から列を探し、データ行を読む。
// 同じバーコードは後の行が勝つ。
func parseImportRows(raw [][]string) ([]importRow, int, error) {
	if len(raw) == 0 {
		return nil, 0, NewHTTPError(http.StatusBadRequest, "missing header row")
	}

	col := map[string]int{"name": -1, "barcode": -1, "quantity": -1}
	for i, h := range raw[0] {
		key := strings.ToLower(strings.TrimSpace(h))
		if idx, ok := col[key]; ok && idx < 0 {
			col[key] = i
		}
	}
	for _, key := range []string{"name", "barcode", "quantity"} {
		if col[key] < 0 {
			return nil, 0, NewHTTPError(http.StatusBadRequest, "missing column: "+key)
		}
	}

	cell := func(row []string, i int) string {
		if i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}

	var rows []importRow
	index := map[string]int{}
	skipped := 0
	for n, row := range raw[1:] {
		name := cell(row, col["name"])
		sku := strings.TrimSpace(strings.TrimPrefix(cell(row, col["barcode"]), "'"))
		if name == "" || sku == "" {
			skipped++
			continue
		}
		if len(sku) > maxSKULen || len(name) > maxNameLen {
			return nil, 0, NewHTTPError(http.StatusBadRequest, fmt.Sprintf("row %d: value too long", n+2))
		}

		qty, ok := parseQuantity(cell(row, col["quantity"]))
		if !ok {
			return nil, 0, NewHTTPError(http.StatusBadRequest, fmt.Sprintf("row %d: invalid quantity", n+2))
		}

		r := importRow{SKU: sku, Name: name, Quantity: qty}
		if i, dup := index[sku]; dup {
			rows[i] = r
			continue
		}
		index[sku] = len(rows)
		rows = append(rows, r)
	}
	return rows, skipped, nil
}

// 整数（"12" / "12.0"）で0以上、上限以下だけ
func parseQuantity(s string) (int64, bool) {
	if s == "" {
		return 0, false
	}
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		return v, v >= 0 && v <= maxQuantity
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f < 0 || f != math.Trunc(f) || f > float64(maxQuantity) {
		return 0, false
	}
	return int64(f), true
}
