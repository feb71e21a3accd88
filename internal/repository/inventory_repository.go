package repository

import (
	"context"
	"time"

	"github.com/ZEN8890/Pinventory-Api/internal/domain/model"
)

// 台帳の絞り込み条件。nilは「条件なし」。
type LedgerFilter struct {
	SKU       string
	From      *time.Time
	To        *time.Time
	Direction model.Direction
	//0なら全件
	Limit  int
	Offset int
	//古い順（履歴の再生用）
	Ascending bool
}

// 台帳（在庫の増減履歴）の約束。追記と管理用の削除だけ。
type LedgerRepository interface {
	Append(ctx context.Context, entry *model.LedgerEntry) error
	List(ctx context.Context, filter LedgerFilter) ([]model.LedgerEntry, int64, error)

	Delete(ctx context.Context, id int64) error
	DeleteRange(ctx context.Context, from, to time.Time, direction model.Direction) (int64, error)
}
