package repository

import (
	"context"
	"strings"
	"time"

	"github.com/ZEN8890/Pinventory-Api/internal/domain/model"
	repo "github.com/ZEN8890/Pinventory-Api/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type StockItemGormRepository struct {
	db *gorm.DB
}

// DI
func NewStockItemGormRepository(db *gorm.DB) *StockItemGormRepository {
	return &StockItemGormRepository{db: db}
}

var _ repo.StockItemRepository = (*StockItemGormRepository)(nil)

// バーコードで1件取得
func (r *StockItemGormRepository) FindBySKU(ctx context.Context, sku string) (model.StockItem, error) {
	var item model.StockItem
	err := r.db.WithContext(ctx).Where("barcode = ?", sku).First(&item).Error
	if err != nil {
		return model.StockItem{}, mapError(err, "product", sku)
	}
	return item, nil
}

// 検索/ページング付きで返す。名前順。
func (r *StockItemGormRepository) List(ctx context.Context, q repo.StockItemListQuery) ([]model.StockItem, int64, error) {
	var items []model.StockItem
	var total int64

	tx := r.db.WithContext(ctx).Model(&model.StockItem{})

	// q name/barcodeを対象
	if s := strings.TrimSpace(q.Q); s != "" {
		like := "%" + s + "%"
		tx = tx.Where("name ILIKE ? OR barcode ILIKE ?", like, like)
	}

	//total（件数）
	if err := tx.Count(&total).Error; err != nil {
		return []model.StockItem{}, 0, mapError(err, "products", q.Q)
	}

	tx = tx.Order("name ASC").Order("id ASC")
	if q.Limit > 0 {
		page := q.Page
		if page < 1 {
			page = 1
		}
		tx = tx.Offset((page - 1) * q.Limit).Limit(q.Limit)
	}
	if err := tx.Find(&items).Error; err != nil {
		return []model.StockItem{}, 0, mapError(err, "products", q.Q)
	}
	return items, total, nil
}

// 商品の作成
func (r *StockItemGormRepository) Create(ctx context.Context, item model.StockItem) (model.StockItem, error) {
	if err := r.db.WithContext(ctx).Create(&item).Error; err != nil {
		return model.StockItem{}, mapError(err, "product", item.SKU)
	}
	return item, nil
}

// 商品名の変更（台帳の過去の名前はそのまま）
func (r *StockItemGormRepository) Rename(ctx context.Context, sku string, name string) error {
	res := r.db.WithContext(ctx).Model(&model.StockItem{}).
		Where("barcode = ?", sku).
		Updates(map[string]interface{}{
			"name":       name,
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return mapError(res.Error, "product", sku)
	}
	if res.RowsAffected == 0 {
		return mapError(gorm.ErrRecordNotFound, "product", sku)
	}
	return nil
}

// INSERT … ON CONFLICT (barcode) DO UPDATE
func (r *StockItemGormRepository) Upsert(ctx context.Context, sku string, name string, quantity int64) error {
	item := model.StockItem{SKU: sku, Name: name, Quantity: quantity}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "barcode"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "quantity", "updated_at"}),
		}).
		Create(&item).Error
	return mapError(err, "product", sku)
}

// 在庫がマイナスにならないときだけ足す（1文で判定と更新）。
// 0件ならどちらの理由かを確認する。
func (r *StockItemGormRepository) Adjust(ctx context.Context, sku string, delta int64) (model.StockItem, error) {
	var item model.StockItem
	res := r.db.WithContext(ctx).
		Model(&item).
		Clauses(clause.Returning{}).
		Where("barcode = ? AND quantity + ? >= 0", sku, delta).
		Updates(map[string]interface{}{
			"quantity":   gorm.Expr("quantity + ?", delta),
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return model.StockItem{}, mapError(res.Error, "product", sku)
	}
	if res.RowsAffected == 1 {
		return item, nil
	}

	var n int64
	if err := r.db.WithContext(ctx).Model(&model.StockItem{}).Where("barcode = ?", sku).Count(&n).Error; err != nil {
		return model.StockItem{}, mapError(err, "product", sku)
	}
	if n == 0 {
		return model.StockItem{}, mapError(gorm.ErrRecordNotFound, "product", sku)
	}
	return model.StockItem{}, mapError(repo.ErrInsufficientStock, "product", sku)
}

// 同じTxのあいだ他の書き込み（スキャン）を待たせる。読み取りは通す。
func (r *StockItemGormRepository) LockForReplace(ctx context.Context) error {
	err := r.db.WithContext(ctx).Exec("LOCK TABLE products IN EXCLUSIVE MODE").Error
	return mapError(err, "products", "lock")
}

// インポート前の全削除
func (r *StockItemGormRepository) DeleteAll(ctx context.Context) (int64, error) {
	res := r.db.WithContext(ctx).
		Session(&gorm.Session{AllowGlobalUpdate: true}).
		Delete(&model.StockItem{})
	if res.Error != nil {
		return 0, mapError(res.Error, "products", "all")
	}
	return res.RowsAffected, nil
}
