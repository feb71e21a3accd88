package repository

import (
	"context"

	"github.com/ZEN8890/Pinventory-Api/internal/domain/model"
	repo "github.com/ZEN8890/Pinventory-Api/internal/repository"

	"gorm.io/gorm"
)

type AuditLogGormRepository struct {
	db *gorm.DB
}

func NewAuditLogGormRepository(db *gorm.DB) *AuditLogGormRepository {
	return &AuditLogGormRepository{db: db}
}

var _ repo.AuditLogRepository = (*AuditLogGormRepository)(nil)

// 同じTxの中で呼ばれれば、パージや入れ替えと一緒にロールバックされる
func (r *AuditLogGormRepository) Create(ctx context.Context, log model.AuditLog) error {
	if err := r.db.WithContext(ctx).Create(&log).Error; err != nil {
		return mapError(err, "audit log", log.Action)
	}
	return nil
}

func auditScope(f repo.AuditLogFilter) func(*gorm.DB) *gorm.DB {
	return func(q *gorm.DB) *gorm.DB {
		if len(f.Actions) > 0 {
			q = q.Where("action IN ?", f.Actions)
		}
		if f.ResourceType != "" {
			q = q.Where("resource_type = ?", f.ResourceType)
		}
		if f.ResourceID != "" {
			q = q.Where("resource_id = ?", f.ResourceID)
		}
		if f.Actor != "" {
			q = q.Where("actor = ?", f.Actor)
		}
		if f.ActorUserID != nil {
			q = q.Where("actor_user_id = ?", *f.ActorUserID)
		}
		if f.Since != nil {
			q = q.Where("created_at >= ?", *f.Since)
		}
		if f.Until != nil {
			q = q.Where("created_at <= ?", *f.Until)
		}
		return q
	}
}

func (r *AuditLogGormRepository) List(ctx context.Context, filter repo.AuditLogFilter) ([]model.AuditLog, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.AuditLog{}).Scopes(auditScope(filter))

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, mapError(err, "audit logs", "count")
	}

	//新しい順（同時刻はID順）
	q = q.Order("created_at DESC").Order("id DESC")
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		q = q.Offset(filter.Offset)
	}

	logs := []model.AuditLog{}
	if err := q.Find(&logs).Error; err != nil {
		return nil, 0, mapError(err, "audit logs", "list")
	}
	return logs, total, nil
}
