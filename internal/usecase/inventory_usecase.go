package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/ZEN8890/Pinventory-Api/internal/domain/model"
	repo "github.com/ZEN8890/Pinventory-Api/internal/repository"
)

const (
	maxSKULen  = 128
	maxNameLen = 255
	// 1回の入出庫・在庫数の上限
	maxQuantity int64 = 1_000_000_000
)

type InventoryUsecase struct {
	tx    repo.TransactionManager
	items repo.StockItemRepository
	clock Clock
}

// DI
func NewInventoryUsecase(tx repo.TransactionManager, items repo.StockItemRepository, clock Clock) *InventoryUsecase {
	return &InventoryUsecase{tx: tx, items: items, clock: clock}
}

// 入庫/出庫の入力
type AdjustInput struct {
	SKU       string
	Quantity  int64
	Direction model.Direction
	Actor     string
}

// 調整結果（更新後の在庫と追加された履歴）
type AdjustResult struct {
	Item  model.StockItem   `json:"product"`
	Entry model.LedgerEntry `json:"entry"`
}

// Apply は在庫の増減と台帳への追記を1つのTxで行う。
// 在庫がマイナスになる場合は何も書かない。SKUは作らない。
func (u *InventoryUsecase) Apply(ctx context.Context, in AdjustInput) (AdjustResult, error) {
	sku := strings.TrimSpace(in.SKU)
	actor := strings.TrimSpace(in.Actor)

	if sku == "" || len(sku) > maxSKULen {
		return AdjustResult{}, NewHTTPError(http.StatusBadRequest, "invalid sku")
	}
	if in.Quantity <= 0 {
		return AdjustResult{}, NewHTTPError(http.StatusBadRequest, "quantity must be > 0")
	}
	if in.Quantity > maxQuantity {
		return AdjustResult{}, NewHTTPError(http.StatusBadRequest, "quantity too large")
	}
	sign := in.Direction.Sign()
	if sign == 0 {
		return AdjustResult{}, NewHTTPError(http.StatusBadRequest, "invalid direction")
	}
	if actor == "" {
		return AdjustResult{}, NewHTTPError(http.StatusBadRequest, "actor required")
	}

	delta := sign * in.Quantity

	var out AdjustResult
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		//在庫を更新（足りなければここで止まる）
		item, err := r.Items().Adjust(ctx, sku, delta)
		if err != nil {
			return err
		}

		//履歴を作成（更新後の数量を残す）
		entry := model.LedgerEntry{
			SKU:               item.SKU,
			ItemName:          item.Name,
			Delta:             delta,
			Direction:         in.Direction,
			Actor:             actor,
			OccurredAt:        u.clock.Now(),
			ResultingQuantity: item.Quantity,
		}
		if err := r.Ledger().Append(ctx, &entry); err != nil {
			return err
		}

		out = AdjustResult{Item: item, Entry: entry}
		return nil
	})
	switch {
	case err == nil:
		return out, nil
	case errors.Is(err, repo.ErrNotFound):
		return AdjustResult{}, NewHTTPError(http.StatusNotFound, "product not found")
	case errors.Is(err, repo.ErrInsufficientStock):
		return AdjustResult{}, newInvalidState("insufficient stock")
	case errors.Is(err, repo.ErrOutOfRange):
		return AdjustResult{}, NewHTTPError(http.StatusBadRequest, "quantity out of range")
	default:
		return AdjustResult{}, storageError(ctx, "inventory.apply", err,
			slog.String("sku", sku), slog.String("actor", actor), slog.Int64("delta", delta))
	}
}

// バーコードで1件取得
func (u *InventoryUsecase) GetItem(ctx context.Context, sku string) (model.StockItem, error) {
	sku = strings.TrimSpace(sku)
	if sku == "" {
		return model.StockItem{}, NewHTTPError(http.StatusBadRequest, "invalid sku")
	}

	item, err := u.items.FindBySKU(ctx, sku)
	if errors.Is(err, repo.ErrNotFound) {
		return model.StockItem{}, NewHTTPError(http.StatusNotFound, "product not found")
	}
	if err != nil {
		return model.StockItem{}, storageError(ctx, "inventory.get", err, slog.String("sku", sku))
	}
	return item, nil
}

// GET /productsの入力DTO
type ListItemsInput struct {
	Page  int
	Limit int
	Q     string
}

type ItemListOutput struct {
	Items []model.StockItem `json:"items"`
	Total int64             `json:"total"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
}

func (u *InventoryUsecase) ListItems(ctx context.Context, in ListItemsInput) (ItemListOutput, error) {
	if in.Page < 1 {
		return ItemListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid page")
	}
	if in.Limit < 1 || in.Limit > 500 {
		return ItemListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid limit")
	}
	if len(in.Q) > 100 {
		return ItemListOutput{}, NewHTTPError(http.StatusBadRequest, "q too long")
	}

	items, total, err := u.items.List(ctx, repo.StockItemListQuery{
		Page:  in.Page,
		Limit: in.Limit,
		Q:     strings.TrimSpace(in.Q),
	})
	if err != nil {
		return ItemListOutput{}, storageError(ctx, "inventory.list", err)
	}
	return ItemListOutput{Items: items, Total: total, Page: in.Page, Limit: in.Limit}, nil
}

type CreateItemInput struct {
	SKU      string
	Name     string
	Quantity int64
}

// 商品の新規登録。初期在庫があれば台帳にも残す（0からの履歴を再生できるように）。
func (u *InventoryUsecase) CreateItem(ctx context.Context, actor Actor, in CreateItemInput) (model.StockItem, error) {
	sku := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(in.SKU), "'"))
	name := strings.TrimSpace(in.Name)

	if sku == "" || len(sku) > maxSKULen {
		return model.StockItem{}, NewHTTPError(http.StatusBadRequest, "invalid sku")
	}
	if name == "" || len(name) > maxNameLen {
		return model.StockItem{}, NewHTTPError(http.StatusBadRequest, "name required")
	}
	if in.Quantity < 0 || in.Quantity > maxQuantity {
		return model.StockItem{}, NewHTTPError(http.StatusBadRequest, "quantity must be between 0 and 1000000000")
	}

	var created model.StockItem
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		item, err := r.Items().Create(ctx, model.StockItem{SKU: sku, Name: name, Quantity: in.Quantity})
		if err != nil {
			return err
		}
		created = item

		if in.Quantity > 0 {
			if err := r.Ledger().Append(ctx, &model.LedgerEntry{
				SKU:               sku,
				ItemName:          name,
				Delta:             in.Quantity,
				Direction:         model.DirectionReceipt,
				Actor:             actor.Username,
				OccurredAt:        u.clock.Now(),
				ResultingQuantity: in.Quantity,
			}); err != nil {
				return err
			}
		}

		after, _ := json.Marshal(item)
		return r.Audit().Create(ctx, model.AuditLog{
			ActorUserID:  actor.UserID,
			Actor:        actor.Username,
			Action:       model.AuditActionCreateProduct,
			ResourceType: model.AuditResourceProduct,
			ResourceID:   sku,
			AfterJSON:    string(after),
			CreatedAt:    u.clock.Now(),
		})
	})
	if errors.Is(err, repo.ErrDuplicate) {
		return model.StockItem{}, NewHTTPError(http.StatusConflict, "barcode already exists")
	}
	if errors.Is(err, repo.ErrOutOfRange) {
		return model.StockItem{}, NewHTTPError(http.StatusBadRequest, "quantity out of range")
	}
	if err != nil {
		return model.StockItem{}, storageError(ctx, "inventory.create", err, slog.String("sku", sku))
	}
	return created, nil
}

// 商品名の変更。過去の台帳の名前は書き換えない。
func (u *InventoryUsecase) RenameItem(ctx context.Context, actor Actor, sku string, name string) (model.StockItem, error) {
	sku = strings.TrimSpace(sku)
	name = strings.TrimSpace(name)
	if sku == "" {
		return model.StockItem{}, NewHTTPError(http.StatusBadRequest, "invalid sku")
	}
	if name == "" || len(name) > maxNameLen {
		return model.StockItem{}, NewHTTPError(http.StatusBadRequest, "name required")
	}

	var renamed model.StockItem
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		before, err := r.Items().FindBySKU(ctx, sku)
		if err != nil {
			return err
		}
		if err := r.Items().Rename(ctx, sku, name); err != nil {
			return err
		}
		renamed = before
		renamed.Name = name

		beforeJSON, _ := json.Marshal(map[string]string{"name": before.Name})
		afterJSON, _ := json.Marshal(map[string]string{"name": name})
		return r.Audit().Create(ctx, model.AuditLog{
			ActorUserID:  actor.UserID,
			Actor:        actor.Username,
			Action:       model.AuditActionRenameProduct,
			ResourceType: model.AuditResourceProduct,
			ResourceID:   sku,
			BeforeJSON:   string(beforeJSON),
			AfterJSON:    string(afterJSON),
			CreatedAt:    u.clock.Now(),
		})
	})
	if errors.Is(err, repo.ErrNotFound) {
		return model.StockItem{}, NewHTTPError(http.StatusNotFound, "product not found")
	}
	if err != nil {
		return model.StockItem{}, storageError(ctx, "inventory.rename", err, slog.String("sku", sku))
	}
	return renamed, nil
}
