package repository

import (
	"context"
	"errors"
	"fmt"

	repo "github.com/ZEN8890/Pinventory-Api/internal/repository"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// PostgreSQLのエラーコード
const (
	pgUniqueViolation = "23505"
	pgCheckViolation  = "23514"
	pgNumericRange    = "22003"
)

// mapError はgorm/pgconnのエラーをrepositoryのエラーに寄せる。
// ctxのキャンセル・タイムアウトはそのまま返す。
func mapError(err error, entity string, key any) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s %v: %w", entity, key, err)
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s %v: %w", entity, key, repo.ErrNotFound)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return fmt.Errorf("%s %v: %w", entity, key, repo.ErrDuplicate)
		case pgCheckViolation:
			//数量のCHECK制約（最後の砦）
			return fmt.Errorf("%s %v: %w", entity, key, repo.ErrInsufficientStock)
		case pgNumericRange:
			return fmt.Errorf("%s %v: %w", entity, key, repo.ErrOutOfRange)
		}
	}
	return fmt.Errorf("%s %v: %w", entity, key, err)
}
