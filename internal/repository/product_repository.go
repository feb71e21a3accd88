package repository

import (
	"context"
	"errors"

	"github.com/ZEN8890/Pinventory-Api/internal/domain/model"
)

var (
	ErrNotFound = errors.New("not found")
	// 一意制約違反（バーコード・ユーザー名の重複）
	ErrDuplicate = errors.New("duplicate")
	// 在庫がマイナスになる調整
	ErrInsufficientStock = errors.New("insufficient stock")
	// 数量が列の範囲を超える
	ErrOutOfRange = errors.New("value out of range")
)

// 一覧検索
type StockItemListQuery struct {
	Page  int
	Limit int
	// 商品名 or バーコードの部分一致
	Q string
}

// 在庫（SKUごとの現在数）の永続化を約束。
type StockItemRepository interface {
	FindBySKU(ctx context.Context, sku string) (model.StockItem, error)
	List(ctx context.Context, q StockItemListQuery) ([]model.StockItem, int64, error)

	Create(ctx context.Context, item model.StockItem) (model.StockItem, error)
	Rename(ctx context.Context, sku string, name string) error

	// あれば置き換え、なければ作成（同じ入力なら何度呼んでも同じ結果）
	Upsert(ctx context.Context, sku string, name string, quantity int64) error

	// 現在数にdeltaを足す。マイナスになるならErrInsufficientStock、無ければErrNotFound。
	// 更新後の値を返す。
	Adjust(ctx context.Context, sku string, delta int64) (model.StockItem, error)

	// インポート中は他の書き込みを止める（Tx内でのみ有効）
	LockForReplace(ctx context.Context) error
	DeleteAll(ctx context.Context) (int64, error)
}
