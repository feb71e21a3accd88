package repository

import (
	"context"

	"github.com/ZEN8890/Pinventory-Api/internal/domain/model"
)

// スタッフ一覧の条件
type UserListQuery struct {
	Roles []model.Role
	// ユーザー名 or 電話番号の部分一致
	Q string
}

// 保存・取得を約束
type UserRepository interface {
	//新規ユーザー作成（ユーザー名重複はErrDuplicate）
	Create(ctx context.Context, user *model.User) error
	// IDからユーザーを1件取得する。
	FindByID(ctx context.Context, userID int64) (*model.User, error)
	//ユーザー名から1件取得する。
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	List(ctx context.Context, q UserListQuery) ([]model.User, error)
	// ユーザー情報の更新=>パスワード・電話・ロール・最後のログインなど
	Update(ctx context.Context, user *model.User) error
	Delete(ctx context.Context, userID int64) error
	//トークンのバージョンを＋１
	IncrementTokenVersion(ctx context.Context, userID int64) error
}
