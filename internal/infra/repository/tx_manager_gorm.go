package repository

import (
	"context"

	repo "github.com/ZEN8890/Pinventory-Api/internal/repository"

	"gorm.io/gorm"
)

type txReposGorm struct {
	items  repo.StockItemRepository
	ledger repo.LedgerRepository
	groups repo.GroupRepository
	audit  repo.AuditLogRepository
}

func (r *txReposGorm) Items() repo.StockItemRepository { return r.items }
func (r *txReposGorm) Ledger() repo.LedgerRepository    { return r.ledger }
func (r *txReposGorm) Groups() repo.GroupRepository     { return r.groups }
func (r *txReposGorm) Audit() repo.AuditLogRepository   { return r.audit }

type TxManagerGorm struct {
	db *gorm.DB
}

func NewTxManagerGorm(db *gorm.DB) *TxManagerGorm {
	return &TxManagerGorm{db: db}
}

var _ repo.TransactionManager = (*TxManagerGorm)(nil)

// fnがnilを返せばcommit、エラー/panicならrollback（panicは再送出）。
func (tm *TxManagerGorm) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	return tm.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		//repoはtxを持ったDBで作り直す
		r := &txReposGorm{
			items:  NewStockItemGormRepository(tx),
			ledger: NewLedgerGormRepository(tx),
			groups: NewGroupGormRepository(tx),
			audit:  NewAuditLogGormRepository(tx),
		}
		return fn(r)
	})
}
