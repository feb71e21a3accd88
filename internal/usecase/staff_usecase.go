package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/ZEN8890/Pinventory-Api/internal/domain/model"
	repo "github.com/ZEN8890/Pinventory-Api/internal/repository"
)

// usecaseがValidatorInterfaceに依存する約束
type StaffValidator interface {
	ValidateCreate(ctx context.Context, in CreateStaffInput) error
	ValidateUpdate(ctx context.Context, in UpdateStaffInput) error
}

// 平文パスワードからハッシュへ。
type PasswordHasher interface {
	Hash(plain string) (string, error)
}

type StaffUsecase struct {
	users     repo.UserRepository
	audit     repo.AuditLogRepository
	validator StaffValidator
	hasher    PasswordHasher
	clock     Clock
}

// DI
func NewStaffUsecase(
	users repo.UserRepository,
	audit repo.AuditLogRepository,
	validator StaffValidator,
	hasher PasswordHasher,
	clock Clock,
) *StaffUsecase {
	return &StaffUsecase{users: users, audit: audit, validator: validator, hasher: hasher, clock: clock}
}

type CreateStaffInput struct {
	Username string
	Password string
	Phone    string
	// 空ならstaff
	Role model.Role
}

// nilは「変更しない」
type UpdateStaffInput struct {
	Password *string
	Phone    *string
	Role     *model.Role
}

func validationError(err error) error {
	if errors.Is(err, ErrInvalidInput) {
		msg := strings.TrimPrefix(err.Error(), ErrInvalidInput.Error()+": ")
		return NewHTTPError(http.StatusBadRequest, msg)
	}
	return NewHTTPError(http.StatusBadRequest, "invalid input")
}

// staff/supervisorの一覧（qでユーザー名・電話番号を検索）
func (u *StaffUsecase) List(ctx context.Context, q string) ([]model.User, error) {
	if len(q) > 100 {
		return nil, NewHTTPError(http.StatusBadRequest, "q too long")
	}
	users, err := u.users.List(ctx, repo.UserListQuery{
		Roles: []model.Role{model.RoleStaff, model.RoleSupervisor},
		Q:     strings.TrimSpace(q),
	})
	if err != nil {
		return nil, storageError(ctx, "staff.list", err)
	}
	return users, nil
}

func (u *StaffUsecase) Create(ctx context.Context, actor Actor, in CreateStaffInput) (model.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Phone = strings.TrimSpace(in.Phone)
	if err := u.validator.ValidateCreate(ctx, in); err != nil {
		return model.User{}, validationError(err)
	}
	if in.Role == "" {
		in.Role = model.RoleStaff
	}

	hashed, err := u.hasher.Hash(in.Password)
	if err != nil {
		return model.User{}, NewHTTPError(http.StatusInternalServerError, "hash error")
	}

	now := u.clock.Now()
	user := &model.User{
		Username:     in.Username,
		PasswordHash: hashed, // ハッシュを保存（平文は保存しない）
		Phone:        in.Phone,
		Role:         in.Role,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := u.users.Create(ctx, user); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return model.User{}, NewHTTPError(http.StatusConflict, "username already exists")
		}
		return model.User{}, storageError(ctx, "staff.create", err, slog.String("username", in.Username))
	}

	u.writeAudit(ctx, actor, model.AuditActionCreateStaff, user.Username, nil, staffSnapshot(*user))
	return *user, nil
}

// 管理者アカウントはスタッフ画面からは触らせない
func (u *StaffUsecase) findStaff(ctx context.Context, username string) (*model.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, NewHTTPError(http.StatusBadRequest, "invalid username")
	}
	user, err := u.users.FindByUsername(ctx, username)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, NewHTTPError(http.StatusNotFound, "staff not found")
	}
	if err != nil {
		return nil, storageError(ctx, "staff.find", err, slog.String("username", username))
	}
	if user.Role == model.RoleAdmin {
		return nil, NewHTTPError(http.StatusForbidden, "cannot manage admin account")
	}
	return user, nil
}

// パスワード・電話・ロールの更新。パスワードかロールが変わると既存トークンは無効。
func (u *StaffUsecase) Update(ctx context.Context, actor Actor, username string, in UpdateStaffInput) (model.User, error) {
	if err := u.validator.ValidateUpdate(ctx, in); err != nil {
		return model.User{}, validationError(err)
	}
	user, err := u.findStaff(ctx, username)
	if err != nil {
		return model.User{}, err
	}
	before := staffSnapshot(*user)

	revoke := false
	if in.Password != nil {
		hashed, err := u.hasher.Hash(*in.Password)
		if err != nil {
			return model.User{}, NewHTTPError(http.StatusInternalServerError, "hash error")
		}
		user.PasswordHash = hashed
		revoke = true
	}
	if in.Phone != nil {
		user.Phone = strings.TrimSpace(*in.Phone)
	}
	if in.Role != nil && *in.Role != user.Role {
		user.Role = *in.Role
		revoke = true
	}
	if revoke {
		user.TokenVersion++
	}
	user.UpdatedAt = u.clock.Now()

	if err := u.users.Update(ctx, user); err != nil {
		return model.User{}, storageError(ctx, "staff.update", err, slog.String("username", user.Username))
	}

	u.writeAudit(ctx, actor, model.AuditActionUpdateStaff, user.Username, before, staffSnapshot(*user))
	return *user, nil
}

func (u *StaffUsecase) Delete(ctx context.Context, actor Actor, username string) error {
	user, err := u.findStaff(ctx, username)
	if err != nil {
		return err
	}
	if err := u.users.Delete(ctx, user.ID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "staff not found")
		}
		return storageError(ctx, "staff.delete", err, slog.String("username", user.Username))
	}
	u.writeAudit(ctx, actor, model.AuditActionDeleteStaff, user.Username, staffSnapshot(*user), nil)
	return nil
}

// 強制ログアウト（token_version+1で発行済みトークンを全部無効にする）
func (u *StaffUsecase) ForceLogout(ctx context.Context, actor Actor, username string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return NewHTTPError(http.StatusBadRequest, "invalid username")
	}
	user, err := u.users.FindByUsername(ctx, username)
	if errors.Is(err, repo.ErrNotFound) {
		return NewHTTPError(http.StatusNotFound, "staff not found")
	}
	if err != nil {
		return storageError(ctx, "staff.force_logout", err, slog.String("username", username))
	}
	if err := u.users.IncrementTokenVersion(ctx, user.ID); err != nil {
		return storageError(ctx, "staff.force_logout", err, slog.String("username", username))
	}

	u.writeAudit(ctx, actor, model.AuditActionForceLogout, user.Username,
		map[string]int{"token_version": user.TokenVersion},
		map[string]int{"token_version": user.TokenVersion + 1})
	return nil
}

// EnsureAdmin は起動時に管理者アカウントを用意する（既にあれば何もしない）。
func (u *StaffUsecase) EnsureAdmin(ctx context.Context, username, password string) error {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil
	}

	existing, err := u.users.FindByUsername(ctx, username)
	if err == nil {
		if existing.Role != model.RoleAdmin {
			slog.WarnContext(ctx, "bootstrap admin exists with non-admin role", slog.String("username", username))
		}
		return nil
	}
	if !errors.Is(err, repo.ErrNotFound) {
		return err
	}

	hashed, err := u.hasher.Hash(password)
	if err != nil {
		return err
	}
	now := u.clock.Now()
	if err := u.users.Create(ctx, &model.User{
		Username:     username,
		PasswordHash: hashed,
		Role:         model.RoleAdmin,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}); err != nil && !errors.Is(err, repo.ErrDuplicate) {
		return err
	}
	slog.InfoContext(ctx, "bootstrap admin created", slog.String("username", username))
	return nil
}

type staffView struct {
	Username     string     `json:"username"`
	Phone        string     `json:"phone"`
	Role         model.Role `json:"role"`
	TokenVersion int        `json:"token_version"`
}

func staffSnapshot(u model.User) staffView {
	return staffView{Username: u.Username, Phone: u.Phone, Role: u.Role, TokenVersion: u.TokenVersion}
}

// 監査ログの失敗は本処理を止めない（ログだけ残す）
func (u *StaffUsecase) writeAudit(ctx context.Context, actor Actor, action model.AuditAction, target string, before, after any) {
	log := model.AuditLog{
		ActorUserID:  actor.UserID,
		Actor:        actor.Username,
		Action:       action,
		ResourceType: model.AuditResourceUser,
		ResourceID:   target,
		CreatedAt:    u.clock.Now(),
	}
	if before != nil {
		b, _ := json.Marshal(before)
		log.BeforeJSON = string(b)
	}
	if after != nil {
		b, _ := json.Marshal(after)
		log.AfterJSON = string(b)
	}
	if err := u.audit.Create(ctx, log); err != nil {
		slog.ErrorContext(ctx, "audit log write failed",
			slog.String("action", string(action)), slog.String("target", target), slog.Any("error", err))
	}
}
