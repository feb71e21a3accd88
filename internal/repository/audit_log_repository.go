package repository

import (
	"context"
	"time"

	"github.com/ZEN8890/Pinventory-Api/internal/domain/model"
)

// 監査ログの検索条件。ゼロ値の項目では絞り込まない。
type AuditLogFilter struct {
	// どれかに一致（例: PURGE_LEDGER と IMPORT_INVENTORY）
	Actions      []model.AuditAction
	ResourceType model.AuditResourceType
	// バーコード・ユーザー名・グループID・台帳ID・"range"/"import"
	ResourceID  string
	Actor       string
	ActorUserID *int64
	Since       *time.Time
	Until       *time.Time
	// 0なら全件
	Limit  int
	Offset int
}

type AuditLogRepository interface {
	Create(ctx context.Context, log model.AuditLog) error

	// 新しい順。totalはLimit/Offsetをかける前の件数。
	List(ctx context.Context, filter AuditLogFilter) ([]model.AuditLog, int64, error)
}
