package repository

import "context"

// トランザクション内で使う約束
type TxRepos interface {
	Items() StockItemRepository
	Ledger() LedgerRepository
	Groups() GroupRepository
	Audit() AuditLogRepository
}

// UsecaseからTxの開始/commit/rollbackを隠す。
// fnがエラーを返す（またはpanicする）とrollback。
type TransactionManager interface {
	WithinTx(ctx context.Context, fn func(r TxRepos) error) error
}
