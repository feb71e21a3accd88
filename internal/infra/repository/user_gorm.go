package repository

import (
	"context"
	"strings"

	"github.com/ZEN8890/Pinventory-Api/internal/domain/model"
	domainrepo "github.com/ZEN8890/Pinventory-Api/internal/repository"

	"gorm.io/gorm"
)

type userGormRepository struct {
	db *gorm.DB
}

// DI
// main.goでこれをnewしてusecase/middlewareに注入します。
func NewUserGormRepository(db *gorm.DB) domainrepo.UserRepository {
	return &userGormRepository{db: db}
}

// Create はユーザーを新規作成
func (r *userGormRepository) Create(ctx context.Context, user *model.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return mapError(err, "user", user.Username)
	}
	return nil
}

// usernameでユーザーを1件取得
func (r *userGormRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	var u model.User
	err := r.db.WithContext(ctx).
		Where("username = ?", username).
		First(&u).Error
	if err != nil {
		return nil, mapError(err, "user", username)
	}
	return &u, nil
}

// IDでユーザーを1件取得
func (r *userGormRepository) FindByID(ctx context.Context, id int64) (*model.User, error) {
	var u model.User
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&u).Error
	if err != nil {
		return nil, mapError(err, "user", id)
	}
	return &u, nil
}

// スタッフ一覧（ロール・検索語で絞り込み）
func (r *userGormRepository) List(ctx context.Context, q domainrepo.UserListQuery) ([]model.User, error) {
	tx := r.db.WithContext(ctx).Model(&model.User{})
	if len(q.Roles) > 0 {
		tx = tx.Where("role IN ?", q.Roles)
	}
	if s := strings.TrimSpace(q.Q); s != "" {
		like := "%" + s + "%"
		tx = tx.Where("username ILIKE ? OR phone ILIKE ?", like, like)
	}

	users := []model.User{}
	if err := tx.Order("username ASC").Find(&users).Error; err != nil {
		return nil, mapError(err, "users", q.Q)
	}
	return users, nil
}

// ユーザーを更新。
func (r *userGormRepository) Update(ctx context.Context, user *model.User) error {
	if err := r.db.WithContext(ctx).Save(user).Error; err != nil {
		return mapError(err, "user", user.Username)
	}
	return nil
}

func (r *userGormRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&model.User{}, id)
	if res.Error != nil {
		return mapError(res.Error, "user", id)
	}
	if res.RowsAffected == 0 {
		return mapError(gorm.ErrRecordNotFound, "user", id)
	}
	return nil
}

// token_versionを+1 します。
func (r *userGormRepository) IncrementTokenVersion(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("id = ?", id).
		UpdateColumn("token_version", gorm.Expr("token_version + ?", 1))

	if res.Error != nil {
		return mapError(res.Error, "user", id)
	}

	// 0件更新は「対象がない」
	if res.RowsAffected == 0 {
		return mapError(gorm.ErrRecordNotFound, "user", id)
	}
	return nil
}
