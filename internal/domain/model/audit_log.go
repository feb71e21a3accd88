package model

import "time"

// 台帳の外で行う管理操作（パージ・インポート・スタッフ管理など）。
type AuditAction string

const (
	AuditActionCreateProduct AuditAction = "CREATE_PRODUCT"
	AuditActionRenameProduct AuditAction = "RENAME_PRODUCT"
	//在庫の一括インポート（全件入れ替え）
	AuditActionImportInventory AuditAction = "IMPORT_INVENTORY"
	//台帳の削除
	AuditActionPurgeLedger AuditAction = "PURGE_LEDGER"

	AuditActionCreateStaff AuditAction = "CREATE_STAFF"
	AuditActionUpdateStaff AuditAction = "UPDATE_STAFF"
	AuditActionDeleteStaff AuditAction = "DELETE_STAFF"
	AuditActionForceLogout AuditAction = "FORCE_LOGOUT"

	AuditActionCreateGroup AuditAction = "CREATE_GROUP"
	AuditActionUpdateGroup AuditAction = "UPDATE_GROUP"
	AuditActionDeleteGroup AuditAction = "DELETE_GROUP"
)

func (a AuditAction) Valid() bool {
	switch a {
	case AuditActionCreateProduct, AuditActionRenameProduct, AuditActionImportInventory, AuditActionPurgeLedger,
		AuditActionCreateStaff, AuditActionUpdateStaff, AuditActionDeleteStaff, AuditActionForceLogout,
		AuditActionCreateGroup, AuditActionUpdateGroup, AuditActionDeleteGroup:
		return true
	}
	return false
}

// 何に対する操作か
type AuditResourceType string

const (
	AuditResourceProduct AuditResourceType = "product"
	AuditResourceLedger  AuditResourceType = "ledger"
	AuditResourceUser    AuditResourceType = "user"
	AuditResourceGroup   AuditResourceType = "group"
)

func (t AuditResourceType) Valid() bool {
	switch t {
	case AuditResourceProduct, AuditResourceLedger, AuditResourceUser, AuditResourceGroup:
		return true
	}
	return false
}

// 監査ログ（管理者操作ログ）。
// 「誰が」「何を」「どの対象に」「どう変えたか」を残す。
type AuditLog struct {
	ID int64 `gorm:"primaryKey;autoIncrement" json:"id"`

	//操作したユーザーのID（0はシステム）
	ActorUserID int64 `gorm:"not null;index" json:"actor_user_id"`

	//操作したユーザー名
	Actor string `gorm:"type:varchar(100);not null" json:"actor"`

	Action AuditAction `gorm:"type:varchar(50);not null;index" json:"action"`

	ResourceType AuditResourceType `gorm:"type:varchar(50);not null;index" json:"resource_type"`

	//対象のID（バーコード・ユーザー名なども入るので文字列）
	ResourceID string `gorm:"type:varchar(255);not null" json:"resource_id"`

	//JSON文字列で保存する。
	BeforeJSON string `gorm:"type:text" json:"before_json"`

	//JSON文字列で保存する。
	AfterJSON string `gorm:"type:text" json:"after_json"`

	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
}
