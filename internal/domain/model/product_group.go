package model

import "time"

// 商品グループ
type ProductGroup struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string    `gorm:"column:group_name;type:varchar(255);not null" json:"group_name"`
	Description string    `gorm:"type:text;not null;default:''" json:"description"`
	CreatedAt   time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`

	//所属商品（一覧取得時のみ）
	Items []StockItem `gorm:"-" json:"products"`
}

func (ProductGroup) TableName() string { return "product_groups" }

// グループ所属。インポートで products を作り直しても残るようにバーコードで持つ。
type GroupMember struct {
	GroupID int64  `gorm:"primaryKey"`
	SKU     string `gorm:"column:barcode;primaryKey;type:varchar(128)"`
}

func (GroupMember) TableName() string { return "grouping_products" }
