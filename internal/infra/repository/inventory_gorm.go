package repository

import (
	"context"
	"time"

	"github.com/ZEN8890/Pinventory-Api/internal/domain/model"
	repo "github.com/ZEN8890/Pinventory-Api/internal/repository"

	"gorm.io/gorm"
)

type LedgerGormRepository struct {
	db *gorm.DB
}

func NewLedgerGormRepository(db *gorm.DB) *LedgerGormRepository {
	return &LedgerGormRepository{db: db}
}

var _ repo.LedgerRepository = (*LedgerGormRepository)(nil)

// 履歴の追記（IDはDBが採番）
func (r *LedgerGormRepository) Append(ctx context.Context, entry *model.LedgerEntry) error {
	if err := entry.Validate(); err != nil {
		return err
	}
	if entry.OccurredAt.IsZero() {
		entry.OccurredAt = time.Now()
	}
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return mapError(err, "ledger entry", entry.SKU)
	}
	return nil
}

func applyDirection(q *gorm.DB, d model.Direction) *gorm.DB {
	switch d {
	case model.DirectionReceipt:
		return q.Where("qty_change > 0")
	case model.DirectionIssue:
		return q.Where("qty_change < 0")
	default:
		return q
	}
}

// 条件で一覧。デフォルトは新しい順、同じ時刻ならID順で安定させる。
func (r *LedgerGormRepository) List(ctx context.Context, filter repo.LedgerFilter) ([]model.LedgerEntry, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.LedgerEntry{})

	if filter.SKU != "" {
		q = q.Where("barcode = ?", filter.SKU)
	}
	if filter.From != nil {
		q = q.Where(`"timestamp" >= ?`, *filter.From)
	}
	if filter.To != nil {
		q = q.Where(`"timestamp" <= ?`, *filter.To)
	}
	q = applyDirection(q, filter.Direction)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, mapError(err, "ledger", filter.SKU)
	}

	if filter.Ascending {
		q = q.Order(`"timestamp" ASC`).Order("id ASC")
	} else {
		q = q.Order(`"timestamp" DESC`).Order("id DESC")
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		q = q.Offset(filter.Offset)
	}

	entries := []model.LedgerEntry{}
	if err := q.Find(&entries).Error; err != nil {
		return nil, 0, mapError(err, "ledger", filter.SKU)
	}
	return entries, total, nil
}

// 1件削除（管理者用）
func (r *LedgerGormRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&model.LedgerEntry{}, id)
	if res.Error != nil {
		return mapError(res.Error, "ledger entry", id)
	}
	if res.RowsAffected == 0 {
		return mapError(gorm.ErrRecordNotFound, "ledger entry", id)
	}
	return nil
}

// 期間（両端含む）で削除して件数を返す
func (r *LedgerGormRepository) DeleteRange(ctx context.Context, from, to time.Time, direction model.Direction) (int64, error) {
	q := r.db.WithContext(ctx).Where(`"timestamp" >= ? AND "timestamp" <= ?`, from, to)
	q = applyDirection(q, direction)

	res := q.Delete(&model.LedgerEntry{})
	if res.Error != nil {
		return 0, mapError(res.Error, "ledger", "range")
	}
	return res.RowsAffected, nil
}
