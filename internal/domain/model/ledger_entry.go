package model

import (
	"errors"
	"fmt"
	"time"
)

// 在庫の増減履歴（台帳）。1回の調整につき1件、追記のみ。
// ItemNameは書き込み時点の商品名（後の名称変更に影響されない）。
type LedgerEntry struct {
	ID                int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	SKU               string    `gorm:"column:barcode;type:varchar(128);not null;index" json:"sku"`
	ItemName          string    `gorm:"column:name;type:varchar(255);not null" json:"item_name"`
	Delta             int64     `gorm:"column:qty_change;not null" json:"delta"`
	Direction         Direction `gorm:"column:action_type;type:varchar(16);not null" json:"direction"`
	Actor             string    `gorm:"column:username;type:varchar(100);not null" json:"actor"`
	OccurredAt        time.Time `gorm:"column:timestamp;not null;index" json:"occurred_at"`
	ResultingQuantity int64     `gorm:"column:current_stock;not null" json:"resulting_quantity"`
}

func (LedgerEntry) TableName() string { return "inventory_logs" }

// この履歴が反映される直前の在庫数
func (e LedgerEntry) PreviousQuantity() int64 {
	return e.ResultingQuantity - e.Delta
}

var ErrLedgerGap = errors.New("ledger gap")

// VerifyChain は古い順に並んだ同一SKUの履歴が途切れず繋がっているかを確認する。
// 先頭の直前値はstartと一致する必要がある（インポートで初期化された場合はその値）。
func VerifyChain(entries []LedgerEntry, start int64) error {
	prev := start
	for i, e := range entries {
		if e.PreviousQuantity() != prev {
			return fmt.Errorf("%w: entry %d (id=%d) starts at %d, previous resulting %d",
				ErrLedgerGap, i, e.ID, e.PreviousQuantity(), prev)
		}
		prev = e.ResultingQuantity
	}
	return nil
}

var ErrInvalidEntry = errors.New("invalid ledger entry")

// 追記前のチェック（向きと差分の符号が合っていること）
func (e LedgerEntry) Validate() error {
	switch {
	case e.SKU == "":
		return fmt.Errorf("%w: sku required", ErrInvalidEntry)
	case e.Actor == "":
		return fmt.Errorf("%w: actor required", ErrInvalidEntry)
	case e.Delta == 0:
		return fmt.Errorf("%w: delta must not be 0", ErrInvalidEntry)
	case e.Direction != DirectionOf(e.Delta):
		return fmt.Errorf("%w: direction %s does not match delta %d", ErrInvalidEntry, e.Direction, e.Delta)
	case e.ResultingQuantity < 0:
		return fmt.Errorf("%w: resulting quantity %d", ErrInvalidEntry, e.ResultingQuantity)
	}
	return nil
}
