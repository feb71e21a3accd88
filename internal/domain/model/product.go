package model

import "time"

// 在庫（SKU=バーコード単位）。
// quantityは必ず0以上（DBのCHECK制約でも守る）。
type StockItem struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	SKU       string    `gorm:"column:barcode;type:varchar(128);uniqueIndex;not null" json:"sku"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	Quantity  int64     `gorm:"not null;default:0" json:"quantity"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (StockItem) TableName() string { return "products" }
