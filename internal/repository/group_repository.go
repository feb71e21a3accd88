package repository

import (
	"context"

	"github.com/ZEN8890/Pinventory-Api/internal/domain/model"
)

type GroupRepository interface {
	Create(ctx context.Context, g model.ProductGroup) (model.ProductGroup, error)
	FindByID(ctx context.Context, id int64) (model.ProductGroup, error)
	// 所属商品つきで返す（グループ名→商品名順）
	ListWithItems(ctx context.Context) ([]model.ProductGroup, error)
	Update(ctx context.Context, g model.ProductGroup) error
	Delete(ctx context.Context, id int64) error

	// 所属を丸ごと置き換える
	ReplaceMembers(ctx context.Context, groupID int64, skus []string) error
}
