package repository

import (
	"context"
	"time"

	"github.com/ZEN8890/Pinventory-Api/internal/domain/model"
	repo "github.com/ZEN8890/Pinventory-Api/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GroupGormRepository struct {
	db *gorm.DB
}

func NewGroupGormRepository(db *gorm.DB) *GroupGormRepository {
	return &GroupGormRepository{db: db}
}

var _ repo.GroupRepository = (*GroupGormRepository)(nil)

func (r *GroupGormRepository) Create(ctx context.Context, g model.ProductGroup) (model.ProductGroup, error) {
	g.Items = nil
	if err := r.db.WithContext(ctx).Create(&g).Error; err != nil {
		return model.ProductGroup{}, mapError(err, "group", g.Name)
	}
	return g, nil
}

func (r *GroupGormRepository) FindByID(ctx context.Context, id int64) (model.ProductGroup, error) {
	var g model.ProductGroup
	if err := r.db.WithContext(ctx).First(&g, id).Error; err != nil {
		return model.ProductGroup{}, mapError(err, "group", id)
	}
	return g, nil
}

// 所属行（商品が消えているバーコードは出さない）
type groupMemberRow struct {
	GroupID   int64
	ID        int64
	Barcode   string
	Name      string
	Quantity  int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// グループ一覧＋所属商品
func (r *GroupGormRepository) ListWithItems(ctx context.Context) ([]model.ProductGroup, error) {
	groups := []model.ProductGroup{}
	if err := r.db.WithContext(ctx).Order("group_name ASC").Order("id ASC").Find(&groups).Error; err != nil {
		return nil, mapError(err, "groups", "list")
	}
	if len(groups) == 0 {
		return groups, nil
	}

	ids := make([]int64, 0, len(groups))
	index := make(map[int64]int, len(groups))
	for i := range groups {
		ids = append(ids, groups[i].ID)
		index[groups[i].ID] = i
		groups[i].Items = []model.StockItem{}
	}

	var rows []groupMemberRow
	err := r.db.WithContext(ctx).
		Table("grouping_products AS gp").
		Select("gp.group_id, p.id, p.barcode, p.name, p.quantity, p.created_at, p.updated_at").
		Joins("JOIN products AS p ON p.barcode = gp.barcode").
		Where("gp.group_id IN ?", ids).
		Order("p.name ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, mapError(err, "group members", "list")
	}

	for _, row := range rows {
		i := index[row.GroupID]
		groups[i].Items = append(groups[i].Items, model.StockItem{
			ID:        row.ID,
			SKU:       row.Barcode,
			Name:      row.Name,
			Quantity:  row.Quantity,
			CreatedAt: row.CreatedAt,
			UpdatedAt: row.UpdatedAt,
		})
	}
	return groups, nil
}

func (r *GroupGormRepository) Update(ctx context.Context, g model.ProductGroup) error {
	res := r.db.WithContext(ctx).Model(&model.ProductGroup{}).Where("id = ?", g.ID).Updates(map[string]interface{}{
		"group_name":  g.Name,
		"description": g.Description,
		"updated_at":  time.Now(),
	})
	if res.Error != nil {
		return mapError(res.Error, "group", g.ID)
	}
	if res.RowsAffected == 0 {
		return mapError(gorm.ErrRecordNotFound, "group", g.ID)
	}
	return nil
}

// 所属はON DELETE CASCADEで消える
func (r *GroupGormRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&model.ProductGroup{}, id)
	if res.Error != nil {
		return mapError(res.Error, "group", id)
	}
	if res.RowsAffected == 0 {
		return mapError(gorm.ErrRecordNotFound, "group", id)
	}
	return nil
}

// 所属を丸ごと置き換える（重複バーコードは1つに）
func (r *GroupGormRepository) ReplaceMembers(ctx context.Context, groupID int64, skus []string) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("group_id = ?", groupID).Delete(&model.GroupMember{}).Error; err != nil {
		return mapError(err, "group members", groupID)
	}

	members := make([]model.GroupMember, 0, len(skus))
	seen := make(map[string]struct{}, len(skus))
	for _, sku := range skus {
		if _, ok := seen[sku]; ok {
			continue
		}
		seen[sku] = struct{}{}
		members = append(members, model.GroupMember{GroupID: groupID, SKU: sku})
	}
	if len(members) == 0 {
		return nil
	}

	err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&members).Error
	return mapError(err, "group members", groupID)
}
