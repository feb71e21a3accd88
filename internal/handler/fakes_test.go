package handler_test

import (
	"context"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/ZEN8890/Pinventory-Api/internal/domain/model"
	repo "github.com/ZEN8890/Pinventory-Api/internal/repository"
)

// =====================
// handlerテスト用のメモリ実装（Txはそのまま実行するだけ）
// =====================

type memRepos struct {
	items   map[string]model.StockItem
	ledger  []model.LedgerEntry
	audit   []model.AuditLog
	groups  map[int64]model.ProductGroup
	members map[int64][]string
	users   map[string]*model.User
	nextID  int64
}

func newMemRepos(items ...model.StockItem) *memRepos {
	r := &memRepos{
		items:   map[string]model.StockItem{},
		groups:  map[int64]model.ProductGroup{},
		members: map[int64][]string{},
		users:   map[string]*model.User{},
	}
	for _, it := range items {
		r.items[it.SKU] = it
	}
	return r
}

func (r *memRepos) id() int64 {
	r.nextID++
	return r.nextID
}

type fakeTx struct{ r *memRepos }

func (t fakeTx) WithinTx(ctx context.Context, fn func(repo.TxRepos) error) error {
	return fn(t.r)
}

func (r *memRepos) Items() repo.StockItemRepository { return itemRepo{r} }
func (r *memRepos) Ledger() repo.LedgerRepository   { return ledgerRepo{r} }
func (r *memRepos) Groups() repo.GroupRepository    { return groupRepo{r} }
func (r *memRepos) Audit() repo.AuditLogRepository  { return auditRepo{r} }

// ---- items ----

type itemRepo struct{ r *memRepos }

func (i itemRepo) FindBySKU(_ context.Context, sku string) (model.StockItem, error) {
	it, ok := i.r.items[sku]
	if !ok {
		return model.StockItem{}, repo.ErrNotFound
	}
	return it, nil
}

func (i itemRepo) List(_ context.Context, q repo.StockItemListQuery) ([]model.StockItem, int64, error) {
	out := []model.StockItem{}
	for _, it := range i.r.items {
		if q.Q == "" || strings.Contains(strings.ToLower(it.Name), strings.ToLower(q.Q)) || strings.Contains(it.SKU, q.Q) {
			out = append(out, it)
		}
	}
	sort.Slice(out, func(a, b int) bool { return out[a].Name < out[b].Name })
	return out, int64(len(out)), nil
}

func (i itemRepo) Create(_ context.Context, item model.StockItem) (model.StockItem, error) {
	if _, ok := i.r.items[item.SKU]; ok {
		return model.StockItem{}, repo.ErrDuplicate
	}
	item.ID = i.r.id()
	i.r.items[item.SKU] = item
	return item, nil
}

func (i itemRepo) Rename(_ context.Context, sku, name string) error {
	it, ok := i.r.items[sku]
	if !ok {
		return repo.ErrNotFound
	}
	it.Name = name
	i.r.items[sku] = it
	return nil
}

func (i itemRepo) Upsert(_ context.Context, sku, name string, quantity int64) error {
	it := i.r.items[sku]
	it.SKU, it.Name, it.Quantity = sku, name, quantity
	i.r.items[sku] = it
	return nil
}

func (i itemRepo) Adjust(_ context.Context, sku string, delta int64) (model.StockItem, error) {
	it, ok := i.r.items[sku]
	if !ok {
		return model.StockItem{}, repo.ErrNotFound
	}
	if it.Quantity+delta < 0 {
		return model.StockItem{}, repo.ErrInsufficientStock
	}
	it.Quantity += delta
	i.r.items[sku] = it
	return it, nil
}

func (i itemRepo) LockForReplace(context.Context) error { return nil }

func (i itemRepo) DeleteAll(context.Context) (int64, error) {
	n := int64(len(i.r.items))
	i.r.items = map[string]model.StockItem{}
	return n, nil
}

// ---- ledger ----

type ledgerRepo struct{ r *memRepos }

func (l ledgerRepo) Append(_ context.Context, e *model.LedgerEntry) error {
	if err := e.Validate(); err != nil {
		return err
	}
	e.ID = l.r.id()
	l.r.ledger = append(l.r.ledger, *e)
	return nil
}

func matches(e model.LedgerEntry, sku string, from, to *time.Time, d model.Direction) bool {
	if sku != "" && e.SKU != sku {
		return false
	}
	if from != nil && e.OccurredAt.Before(*from) {
		return false
	}
	if to != nil && e.OccurredAt.After(*to) {
		return false
	}
	switch d {
	case model.DirectionReceipt:
		return e.Delta > 0
	case model.DirectionIssue:
		return e.Delta < 0
	}
	return true
}

func (l ledgerRepo) List(_ context.Context, f repo.LedgerFilter) ([]model.LedgerEntry, int64, error) {
	out := []model.LedgerEntry{}
	for _, e := range l.r.ledger {
		if matches(e, f.SKU, f.From, f.To, f.Direction) {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(a, b int) bool {
		if f.Ascending {
			return out[a].ID < out[b].ID
		}
		return out[a].ID > out[b].ID
	})
	total := int64(len(out))
	if f.Offset > 0 {
		if f.Offset >= len(out) {
			return []model.LedgerEntry{}, total, nil
		}
		out = out[f.Offset:]
	}
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, total, nil
}

func (l ledgerRepo) Delete(_ context.Context, id int64) error {
	for i, e := range l.r.ledger {
		if e.ID == id {
			l.r.ledger = append(l.r.ledger[:i], l.r.ledger[i+1:]...)
			return nil
		}
	}
	return repo.ErrNotFound
}

func (l ledgerRepo) DeleteRange(_ context.Context, from, to time.Time, d model.Direction) (int64, error) {
	kept := l.r.ledger[:0]
	var n int64
	for _, e := range l.r.ledger {
		if matches(e, "", &from, &to, d) {
			n++
			continue
		}
		kept = append(kept, e)
	}
	l.r.ledger = kept
	return n, nil
}

// ---- audit ----

type auditRepo struct{ r *memRepos }

func (a auditRepo) Create(_ context.Context, log model.AuditLog) error {
	log.ID = a.r.id()
	a.r.audit = append(a.r.audit, log)
	return nil
}

// 新しい順（IDの降順）で絞り込む
func (a auditRepo) List(_ context.Context, f repo.AuditLogFilter) ([]model.AuditLog, int64, error) {
	out := []model.AuditLog{}
	for i := len(a.r.audit) - 1; i >= 0; i-- {
		l := a.r.audit[i]
		if len(f.Actions) > 0 && !slices.Contains(f.Actions, l.Action) {
			continue
		}
		if f.ResourceType != "" && l.ResourceType != f.ResourceType {
			continue
		}
		if f.ResourceID != "" && l.ResourceID != f.ResourceID {
			continue
		}
		if f.Actor != "" && l.Actor != f.Actor {
			continue
		}
		if f.ActorUserID != nil && l.ActorUserID != *f.ActorUserID {
			continue
		}
		if f.Since != nil && l.CreatedAt.Before(*f.Since) {
			continue
		}
		if f.Until != nil && l.CreatedAt.After(*f.Until) {
			continue
		}
		out = append(out, l)
	}
	total := int64(len(out))
	if f.Offset > 0 {
		out = out[min(f.Offset, len(out)):]
	}
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, total, nil
}

// ---- groups ----

type groupRepo struct{ r *memRepos }

func (g groupRepo) Create(_ context.Context, pg model.ProductGroup) (model.ProductGroup, error) {
	pg.ID = g.r.id()
	g.r.groups[pg.ID] = pg
	return pg, nil
}

func (g groupRepo) FindByID(_ context.Context, id int64) (model.ProductGroup, error) {
	pg, ok := g.r.groups[id]
	if !ok {
		return model.ProductGroup{}, repo.ErrNotFound
	}
	return pg, nil
}

func (g groupRepo) ListWithItems(context.Context) ([]model.ProductGroup, error) {
	out := []model.ProductGroup{}
	for id, pg := range g.r.groups {
		pg.Items = []model.StockItem{}
		for _, sku := range g.r.members[id] {
			pg.Items = append(pg.Items, g.r.items[sku])
		}
		out = append(out, pg)
	}
	sort.Slice(out, func(a, b int) bool { return out[a].Name < out[b].Name })
	return out, nil
}

func (g groupRepo) Update(_ context.Context, pg model.ProductGroup) error {
	if _, ok := g.r.groups[pg.ID]; !ok {
		return repo.ErrNotFound
	}
	g.r.groups[pg.ID] = pg
	return nil
}

func (g groupRepo) Delete(_ context.Context, id int64) error {
	if _, ok := g.r.groups[id]; !ok {
		return repo.ErrNotFound
	}
	delete(g.r.groups, id)
	delete(g.r.members, id)
	return nil
}

func (g groupRepo) ReplaceMembers(_ context.Context, id int64, skus []string) error {
	g.r.members[id] = append([]string(nil), skus...)
	return nil
}

// ---- users ----

type userRepo struct{ r *memRepos }

func (u userRepo) Create(_ context.Context, user *model.User) error {
	if _, ok := u.r.users[user.Username]; ok {
		return repo.ErrDuplicate
	}
	user.ID = u.r.id()
	cp := *user
	u.r.users[user.Username] = &cp
	return nil
}

func (u userRepo) FindByID(_ context.Context, id int64) (*model.User, error) {
	for _, user := range u.r.users {
		if user.ID == id {
			cp := *user
			return &cp, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (u userRepo) FindByUsername(_ context.Context, name string) (*model.User, error) {
	user, ok := u.r.users[name]
	if !ok {
		return nil, repo.ErrNotFound
	}
	cp := *user
	return &cp, nil
}

func (u userRepo) List(_ context.Context, q repo.UserListQuery) ([]model.User, error) {
	out := []model.User{}
	for _, user := range u.r.users {
		for _, role := range q.Roles {
			if user.Role == role {
				out = append(out, *user)
				break
			}
		}
	}
	sort.Slice(out, func(a, b int) bool { return out[a].Username < out[b].Username })
	return out, nil
}

func (u userRepo) Update(_ context.Context, user *model.User) error {
	if _, ok := u.r.users[user.Username]; !ok {
		return repo.ErrNotFound
	}
	cp := *user
	u.r.users[user.Username] = &cp
	return nil
}

func (u userRepo) Delete(_ context.Context, id int64) error {
	for name, user := range u.r.users {
		if user.ID == id {
			delete(u.r.users, name)
			return nil
		}
	}
	return repo.ErrNotFound
}

func (u userRepo) IncrementTokenVersion(_ context.Context, id int64) error {
	for _, user := range u.r.users {
		if user.ID == id {
			user.TokenVersion++
			return nil
		}
	}
	return repo.ErrNotFound
}

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }
