package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/ZEN8890/Pinventory-Api/internal/domain/model"
	repo "github.com/ZEN8890/Pinventory-Api/internal/repository"
)

type LedgerUsecase struct {
	tx     repo.TransactionManager
	ledger repo.LedgerRepository
	items  repo.StockItemRepository
	clock  Clock
	loc    *time.Location
}

// DI
// locは日付だけの指定（YYYY-MM-DD）をどの地域の1日として扱うか
func NewLedgerUsecase(
	tx repo.TransactionManager,
	ledger repo.LedgerRepository,
	items repo.StockItemRepository,
	clock Clock,
	loc *time.Location,
) *LedgerUsecase {
	if loc == nil {
		loc = time.UTC
	}
	return &LedgerUsecase{tx: tx, ledger: ledger, items: items, clock: clock, loc: loc}
}

// GET /timelogの入力DTO
type LedgerQueryInput struct {
	SKU       string
	Start     string
	End       string
	Direction string
	Page      int
	//0なら全件
	Limit int
}

type LedgerQueryOutput struct {
	Entries []model.LedgerEntry `json:"entries"`
	Total   int64               `json:"total"`
	Start   time.Time           `json:"start"`
	End     time.Time           `json:"end"`
	Page    int                 `json:"page"`
	Limit   int                 `json:"limit"`
}

// 入力を台帳の検索条件にする（エクスポートでも使う）
func buildLedgerFilter(in LedgerQueryInput, loc *time.Location, now time.Time) (repo.LedgerFilter, error) {
	from, to, err := resolveRange(in.Start, in.End, loc, now)
	if err != nil {
		return repo.LedgerFilter{}, err
	}
	dir, ok := model.ParseDirection(in.Direction)
	if !ok {
		return repo.LedgerFilter{}, NewHTTPError(http.StatusBadRequest, "invalid type")
	}
	if in.Limit < 0 || in.Limit > 1000 {
		return repo.LedgerFilter{}, NewHTTPError(http.StatusBadRequest, "invalid limit")
	}
	page := in.Page
	if page < 1 {
		page = 1
	}

	f := repo.LedgerFilter{
		SKU:       strings.TrimSpace(in.SKU),
		From:      &from,
		To:        &to,
		Direction: dir,
		Limit:     in.Limit,
	}
	if in.Limit > 0 {
		f.Offset = (page - 1) * in.Limit
	}
	return f, nil
}

// 期間・向きで台帳を検索（新しい順）
func (u *LedgerUsecase) Query(ctx context.Context, in LedgerQueryInput) (LedgerQueryOutput, error) {
	f, err := buildLedgerFilter(in, u.loc, u.clock.Now())
	if err != nil {
		return LedgerQueryOutput{}, err
	}

	entries, total, err := u.ledger.List(ctx, f)
	if err != nil {
		return LedgerQueryOutput{}, storageError(ctx, "ledger.query", err)
	}

	page := in.Page
	if page < 1 {
		page = 1
	}
	return LedgerQueryOutput{
		Entries: entries,
		Total:   total,
		Start:   *f.From,
		End:     *f.To,
		Page:    page,
		Limit:   in.Limit,
	}, nil
}

type HistoryOutput struct {
	SKU     string              `json:"sku"`
	Entries []model.LedgerEntry `json:"entries"`
	// 履歴が途切れずに現在数まで繋がっているか（インポートや削除があるとfalse）
	Continuous bool `json:"continuous"`
	// 商品が残っていれば現在数
	Quantity *int64 `json:"quantity,omitempty"`
}

// 1つのSKUの全履歴（古い順）
func (u *LedgerUsecase) History(ctx context.Context, sku string) (HistoryOutput, error) {
	sku = strings.TrimSpace(sku)
	if sku == "" {
		return HistoryOutput{}, NewHTTPError(http.StatusBadRequest, "invalid sku")
	}

	entries, _, err := u.ledger.List(ctx, repo.LedgerFilter{SKU: sku, Ascending: true})
	if err != nil {
		return HistoryOutput{}, storageError(ctx, "ledger.history", err, slog.String("sku", sku))
	}

	out := HistoryOutput{SKU: sku, Entries: entries}

	item, err := u.items.FindBySKU(ctx, sku)
	switch {
	case err == nil:
		q := item.Quantity
		out.Quantity = &q
	case errors.Is(err, repo.ErrNotFound):
		if len(entries) == 0 {
			return HistoryOutput{}, NewHTTPError(http.StatusNotFound, "product not found")
		}
	default:
		return HistoryOutput{}, storageError(ctx, "ledger.history", err, slog.String("sku", sku))
	}

	if len(entries) > 0 && out.Quantity != nil {
		last := entries[len(entries)-1]
		out.Continuous = model.VerifyChain(entries, entries[0].PreviousQuantity()) == nil &&
			last.ResultingQuantity == *out.Quantity
	}
	return out, nil
}

// 1件削除（管理者）
func (u *LedgerUsecase) Delete(ctx context.Context, actor Actor, id int64) error {
	if id <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		if err := r.Ledger().Delete(ctx, id); err != nil {
			return err
		}
		after, _ := json.Marshal(map[string]int64{"id": id})
		return r.Audit().Create(ctx, model.AuditLog{
			ActorUserID:  actor.UserID,
			Actor:        actor.Username,
			Action:       model.AuditActionPurgeLedger,
			ResourceType: model.AuditResourceLedger,
			ResourceID:   strconv.FormatInt(id, 10),
			AfterJSON:    string(after),
			CreatedAt:    u.clock.Now(),
		})
	})
	if errors.Is(err, repo.ErrNotFound) {
		return NewHTTPError(http.StatusNotFound, "log not found")
	}
	if err != nil {
		return storageError(ctx, "ledger.delete", err, slog.Int64("id", id))
	}
	return nil
}

type DeleteRangeInput struct {
	Start     string
	End       string
	Direction string
}

type DeleteRangeOutput struct {
	Deleted int64     `json:"deleted"`
	Start   time.Time `json:"start"`
	End     time.Time `json:"end"`
}

// 期間削除（両端の日を含む）。件数を返す。
func (u *LedgerUsecase) DeleteRange(ctx context.Context, actor Actor, in DeleteRangeInput) (DeleteRangeOutput, error) {
	from, to, err := resolveRequiredRange(in.Start, in.End, u.loc)
	if err != nil {
		return DeleteRangeOutput{}, err
	}
	dir, ok := model.ParseDirection(in.Direction)
	if !ok {
		return DeleteRangeOutput{}, NewHTTPError(http.StatusBadRequest, "invalid type")
	}

	var n int64
	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		deleted, err := r.Ledger().DeleteRange(ctx, from, to, dir)
		if err != nil {
			return err
		}
		n = deleted

		after, _ := json.Marshal(map[string]any{
			"start":     from,
			"end":       to,
			"direction": dir,
			"deleted":   deleted,
		})
		return r.Audit().Create(ctx, model.AuditLog{
			ActorUserID:  actor.UserID,
			Actor:        actor.Username,
			Action:       model.AuditActionPurgeLedger,
			ResourceType: model.AuditResourceLedger,
			ResourceID:   "range",
			AfterJSON:    string(after),
			CreatedAt:    u.clock.Now(),
		})
	})
	if err != nil {
		return DeleteRangeOutput{}, storageError(ctx, "ledger.delete_range", err)
	}
	return DeleteRangeOutput{Deleted: n, Start: from, End: to}, nil
}
