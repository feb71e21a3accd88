package validator

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/ZEN8890/Pinventory-Api/internal/domain/model"
	"github.com/ZEN8890/Pinventory-Api/internal/usecase"
)

var (
	usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_.\-]{3,50}$`)
	phonePattern    = regexp.MustCompile(`^\+?[0-9\- ]{6,20}$`)
)

// パスワード最低文字数
const minPasswordLen = 6

type staffValidator struct{}

// Usecaseは interface を依存注入
func NewStaffValidator() usecase.StaffValidator {
	return &staffValidator{}
}

// スタッフ作成の入力を検証
func (v *staffValidator) ValidateCreate(ctx context.Context, in usecase.CreateStaffInput) error {
	if !usernamePattern.MatchString(strings.TrimSpace(in.Username)) {
		return fmt.Errorf("%w: username must be 3-50 letters, digits, '_', '.', '-'", usecase.ErrInvalidInput)
	}
	if len(in.Password) < minPasswordLen {
		return fmt.Errorf("%w: password too short", usecase.ErrInvalidInput)
	}
	if err := validatePhone(in.Phone); err != nil {
		return err
	}
	if in.Role != "" {
		if err := validateStaffRole(in.Role); err != nil {
			return err
		}
	}
	return nil
}

// スタッフ更新の入力を検証（最低1項目）
func (v *staffValidator) ValidateUpdate(ctx context.Context, in usecase.UpdateStaffInput) error {
	if in.Password == nil && in.Phone == nil && in.Role == nil {
		return fmt.Errorf("%w: nothing to update", usecase.ErrInvalidInput)
	}
	if in.Password != nil && len(*in.Password) < minPasswordLen {
		return fmt.Errorf("%w: password too short", usecase.ErrInvalidInput)
	}
	if in.Phone != nil {
		if err := validatePhone(*in.Phone); err != nil {
			return err
		}
	}
	if in.Role != nil {
		if err := validateStaffRole(*in.Role); err != nil {
			return err
		}
	}
	return nil
}

// 電話番号は空でもよい
func validatePhone(phone string) error {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return nil
	}
	if !phonePattern.MatchString(phone) {
		return fmt.Errorf("%w: invalid phone", usecase.ErrInvalidInput)
	}
	return nil
}

// スタッフ画面から付けられるのはstaff/supervisorだけ
func validateStaffRole(role model.Role) error {
	switch role {
	case model.RoleStaff, model.RoleSupervisor:
		return nil
	default:
		return fmt.Errorf("%w: role must be staff or supervisor", usecase.ErrInvalidInput)
	}
}
