package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/ZEN8890/Pinventory-Api/internal/domain/model"
	repo "github.com/ZEN8890/Pinventory-Api/internal/repository"
)

type GroupUsecase struct {
	tx     repo.TransactionManager
	groups repo.GroupRepository
	clock  Clock
}

// DI
func NewGroupUsecase(tx repo.TransactionManager, groups repo.GroupRepository, clock Clock) *GroupUsecase {
	return &GroupUsecase{tx: tx, groups: groups, clock: clock}
}

type CreateGroupInput struct {
	Name        string
	Description string
	SKUs        []string
}

// nilは「変更しない」。SKUsを渡すと所属を丸ごと置き換える。
type UpdateGroupInput struct {
	Name        *string
	Description *string
	SKUs        []string
	ReplaceSKUs bool
}

func normalizeSKUs(skus []string) []string {
	out := make([]string, 0, len(skus))
	for _, s := range skus {
		s = strings.TrimSpace(s)
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

// 所属させる商品は登録済みであること
func checkSKUsExist(ctx context.Context, items repo.StockItemRepository, skus []string) error {
	for _, sku := range skus {
		if _, err := items.FindBySKU(ctx, sku); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return NewHTTPError(http.StatusBadRequest, fmt.Sprintf("unknown sku: %s", sku))
			}
			return err
		}
	}
	return nil
}

func (u *GroupUsecase) Create(ctx context.Context, actor Actor, in CreateGroupInput) (model.ProductGroup, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" || len(name) > maxNameLen {
		return model.ProductGroup{}, NewHTTPError(http.StatusBadRequest, "group_name required")
	}
	skus := normalizeSKUs(in.SKUs)

	var created model.ProductGroup
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		if err := checkSKUsExist(ctx, r.Items(), skus); err != nil {
			return err
		}
		g, err := r.Groups().Create(ctx, model.ProductGroup{Name: name, Description: strings.TrimSpace(in.Description)})
		if err != nil {
			return err
		}
		if err := r.Groups().ReplaceMembers(ctx, g.ID, skus); err != nil {
			return err
		}
		created = g

		after, _ := json.Marshal(map[string]any{"group_name": g.Name, "skus": skus})
		return r.Audit().Create(ctx, model.AuditLog{
			ActorUserID:  actor.UserID,
			Actor:        actor.Username,
			Action:       model.AuditActionCreateGroup,
			ResourceType: model.AuditResourceGroup,
			ResourceID:   fmt.Sprint(g.ID),
			AfterJSON:    string(after),
			CreatedAt:    u.clock.Now(),
		})
	})
	if he, ok := AsHTTPError(err); ok {
		return model.ProductGroup{}, he
	}
	if err != nil {
		return model.ProductGroup{}, storageError(ctx, "group.create", err, slog.String("name", name))
	}
	return created, nil
}

// グループ一覧（所属商品つき）
func (u *GroupUsecase) List(ctx context.Context) ([]model.ProductGroup, error) {
	groups, err := u.groups.ListWithItems(ctx)
	if err != nil {
		return nil, storageError(ctx, "group.list", err)
	}
	return groups, nil
}

func (u *GroupUsecase) Update(ctx context.Context, actor Actor, id int64, in UpdateGroupInput) (model.ProductGroup, error) {
	if id <= 0 {
		return model.ProductGroup{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if in.Name != nil {
		n := strings.TrimSpace(*in.Name)
		if n == "" || len(n) > maxNameLen {
			return model.ProductGroup{}, NewHTTPError(http.StatusBadRequest, "group_name required")
		}
	}
	if in.Name == nil && in.Description == nil && !in.ReplaceSKUs {
		return model.ProductGroup{}, NewHTTPError(http.StatusBadRequest, "nothing to update")
	}
	skus := normalizeSKUs(in.SKUs)

	var updated model.ProductGroup
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		g, err := r.Groups().FindByID(ctx, id)
		if err != nil {
			return err
		}
		before, _ := json.Marshal(map[string]string{"group_name": g.Name, "description": g.Description})

		if in.Name != nil {
			g.Name = strings.TrimSpace(*in.Name)
		}
		if in.Description != nil {
			g.Description = strings.TrimSpace(*in.Description)
		}
		if err := r.Groups().Update(ctx, g); err != nil {
			return err
		}
		if in.ReplaceSKUs {
			if err := checkSKUsExist(ctx, r.Items(), skus); err != nil {
				return err
			}
			if err := r.Groups().ReplaceMembers(ctx, id, skus); err != nil {
				return err
			}
		}
		updated = g

		after, _ := json.Marshal(map[string]any{"group_name": g.Name, "description": g.Description, "skus": skus})
		return r.Audit().Create(ctx, model.AuditLog{
			ActorUserID:  actor.UserID,
			Actor:        actor.Username,
			Action:       model.AuditActionUpdateGroup,
			ResourceType: model.AuditResourceGroup,
			ResourceID:   fmt.Sprint(id),
			BeforeJSON:   string(before),
			AfterJSON:    string(after),
			CreatedAt:    u.clock.Now(),
		})
	})
	if he, ok := AsHTTPError(err); ok {
		return model.ProductGroup{}, he
	}
	if errors.Is(err, repo.ErrNotFound) {
		return model.ProductGroup{}, NewHTTPError(http.StatusNotFound, "group not found")
	}
	if err != nil {
		return model.ProductGroup{}, storageError(ctx, "group.update", err, slog.Int64("id", id))
	}
	return updated, nil
}

func (u *GroupUsecase) Delete(ctx context.Context, actor Actor, id int64) error {
	if id <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		if err := r.Groups().Delete(ctx, id); err != nil {
			return err
		}
		return r.Audit().Create(ctx, model.AuditLog{
			ActorUserID:  actor.UserID,
			Actor:        actor.Username,
			Action:       model.AuditActionDeleteGroup,
			ResourceType: model.AuditResourceGroup,
			ResourceID:   fmt.Sprint(id),
			CreatedAt:    u.clock.Now(),
		})
	})
	if errors.Is(err, repo.ErrNotFound) {
		return NewHTTPError(http.StatusNotFound, "group not found")
	}
	if err != nil {
		return storageError(ctx, "group.delete", err, slog.Int64("id", id))
	}
	return nil
}
