package usecase_test

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/ZEN8890/Pinventory-Api/internal/domain/model"
	repo "github.com/ZEN8890/Pinventory-Api/internal/repository"
)

// memStore はテスト用のトランザクション付きストア。
// Txは1本ずつ実行し、エラーなら開始時点の状態に戻す。
type memStore struct {
	mu    sync.Mutex
	state *memState

	// 設定するとAppendが失敗する（ロールバック確認用）
	failAppend error
}

type memState struct {
	items   map[string]model.StockItem
	ledger  []model.LedgerEntry
	audit   []model.AuditLog
	nextID  int64
	store   *memStore
	members map[int64][]string
	groups  map[int64]model.ProductGroup
}

func newMemStore(items ...model.StockItem) *memStore {
	s := &memStore{}
	s.state = &memState{
		items:   map[string]model.StockItem{},
		members: map[int64][]string{},
		groups:  map[int64]model.ProductGroup{},
		store:   s,
	}
	for _, it := range items {
		s.state.nextID++
		it.ID = s.state.nextID
		s.state.items[it.SKU] = it
	}
	return s
}

func (st *memState) clone() *memState {
	c := &memState{
		items:   make(map[string]model.StockItem, len(st.items)),
		ledger:  append([]model.LedgerEntry(nil), st.ledger...),
		audit:   append([]model.AuditLog(nil), st.audit...),
		nextID:  st.nextID,
		store:   st.store,
		members: make(map[int64][]string, len(st.members)),
		groups:  make(map[int64]model.ProductGroup, len(st.groups)),
	}
	for k, v := range st.items {
		c.items[k] = v
	}
	for k, v := range st.members {
		c.members[k] = append([]string(nil), v...)
	}
	for k, v := range st.groups {
		c.groups[k] = v
	}
	return c
}

func (s *memStore) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	work := s.state.clone()
	if err := fn(work); err != nil {
		return err
	}
	s.state = work
	return nil
}

// Tx外の読み取り用
func (s *memStore) Items() repo.StockItemRepository { return lockedItems{s} }
func (s *memStore) Ledger() repo.LedgerRepository   { return lockedLedger{s} }

func (s *memStore) snapshot() *memState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

// ---- TxRepos（memState自身が全部を実装する）----

func (st *memState) Items() repo.StockItemRepository { return st }
func (st *memState) Ledger() repo.LedgerRepository   { return ledgerView{st} }
func (st *memState) Groups() repo.GroupRepository    { return groupView{st} }
func (st *memState) Audit() repo.AuditLogRepository  { return auditView{st} }

func (st *memState) FindBySKU(_ context.Context, sku string) (model.StockItem, error) {
	it, ok := st.items[sku]
	if !ok {
		return model.StockItem{}, fmt.Errorf("product %s: %w", sku, repo.ErrNotFound)
	}
	return it, nil
}

func (st *memState) List(_ context.Context, q repo.StockItemListQuery) ([]model.StockItem, int64, error) {
	out := []model.StockItem{}
	for _, it := range st.items {
		if q.Q == "" || strings.Contains(strings.ToLower(it.Name), strings.ToLower(q.Q)) || strings.Contains(it.SKU, q.Q) {
			out = append(out, it)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	total := int64(len(out))
	if q.Limit > 0 {
		start := (q.Page - 1) * q.Limit
		if start > len(out) {
			start = len(out)
		}
		end := start + q.Limit
		if end > len(out) {
			end = len(out)
		}
		out = out[start:end]
	}
	return out, total, nil
}

func (st *memState) Create(_ context.Context, item model.StockItem) (model.StockItem, error) {
	if _, ok := st.items[item.SKU]; ok {
		return model.StockItem{}, fmt.Errorf("product %s: %w", item.SKU, repo.ErrDuplicate)
	}
	st.nextID++
	item.ID = st.nextID
	st.items[item.SKU] = item
	return item, nil
}

func (st *memState) Rename(_ context.Context, sku string, name string) error {
	it, ok := st.items[sku]
	if !ok {
		return repo.ErrNotFound
	}
	it.Name = name
	st.items[sku] = it
	return nil
}

func (st *memState) Upsert(_ context.Context, sku string, name string, quantity int64) error {
	it, ok := st.items[sku]
	if !ok {
		st.nextID++
		it = model.StockItem{ID: st.nextID, SKU: sku}
	}
	it.Name = name
	it.Quantity = quantity
	st.items[sku] = it
	return nil
}

func (st *memState) Adjust(_ context.Context, sku string, delta int64) (model.StockItem, error) {
	it, ok := st.items[sku]
	if !ok {
		return model.StockItem{}, fmt.Errorf("product %s: %w", sku, repo.ErrNotFound)
	}
	if it.Quantity+delta < 0 {
		return model.StockItem{}, fmt.Errorf("product %s: %w", sku, repo.ErrInsufficientStock)
	}
	it.Quantity += delta
	st.items[sku] = it
	return it, nil
}

func (st *memState) LockForReplace(context.Context) error { return nil }

func (st *memState) DeleteAll(context.Context) (int64, error) {
	n := int64(len(st.items))
	st.items = map[string]model.StockItem{}
	return n, nil
}

type ledgerView struct{ st *memState }

func (v ledgerView) Append(_ context.Context, e *model.LedgerEntry) error {
	if err := v.st.store.failAppend; err != nil {
		return err
	}
	if err := e.Validate(); err != nil {
		return err
	}
	v.st.nextID++
	e.ID = v.st.nextID
	v.st.ledger = append(v.st.ledger, *e)
	return nil
}

func matchLedger(e model.LedgerEntry, f repo.LedgerFilter) bool {
	if f.SKU != "" && e.SKU != f.SKU {
		return false
	}
	if f.From != nil && e.OccurredAt.Before(*f.From) {
		return false
	}
	if f.To != nil && e.OccurredAt.After(*f.To) {
		return false
	}
	switch f.Direction {
	case model.DirectionReceipt:
		return e.Delta > 0
	case model.DirectionIssue:
		return e.Delta < 0
	}
	return true
}

func (v ledgerView) List(_ context.Context, f repo.LedgerFilter) ([]model.LedgerEntry, int64, error) {
	out := []model.LedgerEntry{}
	for _, e := range v.st.ledger {
		if matchLedger(e, f) {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if !a.OccurredAt.Equal(b.OccurredAt) {
			if f.Ascending {
				return a.OccurredAt.Before(b.OccurredAt)
			}
			return a.OccurredAt.After(b.OccurredAt)
		}
		if f.Ascending {
			return a.ID < b.ID
		}
		return a.ID > b.ID
	})
	total := int64(len(out))
	if f.Offset > 0 {
		if f.Offset > len(out) {
			f.Offset = len(out)
		}
		out = out[f.Offset:]
	}
	if f.Limit > 0 && f.Limit < len(out) {
		out = out[:f.Limit]
	}
	return out, total, nil
}

func (v ledgerView) Delete(_ context.Context, id int64) error {
	for i, e := range v.st.ledger {
		if e.ID == id {
			v.st.ledger = append(v.st.ledger[:i], v.st.ledger[i+1:]...)
			return nil
		}
	}
	return repo.ErrNotFound
}

func (v ledgerView) DeleteRange(_ context.Context, from, to time.Time, d model.Direction) (int64, error) {
	f := repo.LedgerFilter{From: &from, To: &to, Direction: d}
	kept := v.st.ledger[:0:0]
	var n int64
	for _, e := range v.st.ledger {
		if matchLedger(e, f) {
			n++
			continue
		}
		kept = append(kept, e)
	}
	v.st.ledger = kept
	return n, nil
}

type auditView struct{ st *memState }

func (v auditView) Create(_ context.Context, log model.AuditLog) error {
	v.st.nextID++
	log.ID = v.st.nextID
	v.st.audit = append(v.st.audit, log)
	return nil
}

func (v auditView) List(context.Context, repo.AuditLogFilter) ([]model.AuditLog, int64, error) {
	return append([]model.AuditLog(nil), v.st.audit...), int64(len(v.st.audit)), nil
}

type groupView struct{ st *memState }

func (v groupView) Create(_ context.Context, g model.ProductGroup) (model.ProductGroup, error) {
	v.st.nextID++
	g.ID = v.st.nextID
	v.st.groups[g.ID] = g
	return g, nil
}

func (v groupView) FindByID(_ context.Context, id int64) (model.ProductGroup, error) {
	g, ok := v.st.groups[id]
	if !ok {
		return model.ProductGroup{}, repo.ErrNotFound
	}
	return g, nil
}

func (v groupView) ListWithItems(context.Context) ([]model.ProductGroup, error) {
	out := []model.ProductGroup{}
	for id, g := range v.st.groups {
		g.Items = []model.StockItem{}
		for _, sku := range v.st.members[id] {
			if it, ok := v.st.items[sku]; ok {
				g.Items = append(g.Items, it)
			}
		}
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (v groupView) Update(_ context.Context, g model.ProductGroup) error {
	if _, ok := v.st.groups[g.ID]; !ok {
		return repo.ErrNotFound
	}
	v.st.groups[g.ID] = g
	return nil
}

func (v groupView) Delete(_ context.Context, id int64) error {
	if _, ok := v.st.groups[id]; !ok {
		return repo.ErrNotFound
	}
	delete(v.st.groups, id)
	delete(v.st.members, id)
	return nil
}

func (v groupView) ReplaceMembers(_ context.Context, id int64, skus []string) error {
	v.st.members[id] = append([]string(nil), skus...)
	return nil
}

// ---- Tx外（ロックしてから読む）----

type lockedItems struct{ s *memStore }

func (l lockedItems) with(fn func(st *memState)) {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	fn(l.s.state)
}

func (l lockedItems) FindBySKU(ctx context.Context, sku string) (it model.StockItem, err error) {
	l.with(func(st *memState) { it, err = st.FindBySKU(ctx, sku) })
	return
}

func (l lockedItems) List(ctx context.Context, q repo.StockItemListQuery) (items []model.StockItem, n int64, err error) {
	l.with(func(st *memState) { items, n, err = st.List(ctx, q) })
	return
}

func (l lockedItems) Create(ctx context.Context, item model.StockItem) (out model.StockItem, err error) {
	l.with(func(st *memState) { out, err = st.Create(ctx, item) })
	return
}

func (l lockedItems) Rename(ctx context.Context, sku, name string) (err error) {
	l.with(func(st *memState) { err = st.Rename(ctx, sku, name) })
	return
}

func (l lockedItems) Upsert(ctx context.Context, sku, name string, q int64) (err error) {
	l.with(func(st *memState) { err = st.Upsert(ctx, sku, name, q) })
	return
}

func (l lockedItems) Adjust(ctx context.Context, sku string, d int64) (out model.StockItem, err error) {
	l.with(func(st *memState) { out, err = st.Adjust(ctx, sku, d) })
	return
}

func (l lockedItems) LockForReplace(context.Context) error { return nil }

func (l lockedItems) DeleteAll(ctx context.Context) (n int64, err error) {
	l.with(func(st *memState) { n, err = st.DeleteAll(ctx) })
	return
}

type lockedLedger struct{ s *memStore }

func (l lockedLedger) with(fn func(v ledgerView)) {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	fn(ledgerView{l.s.state})
}

func (l lockedLedger) Append(ctx context.Context, e *model.LedgerEntry) (err error) {
	l.with(func(v ledgerView) { err = v.Append(ctx, e) })
	return
}

func (l lockedLedger) List(ctx context.Context, f repo.LedgerFilter) (out []model.LedgerEntry, n int64, err error) {
	l.with(func(v ledgerView) { out, n, err = v.List(ctx, f) })
	return
}

func (l lockedLedger) Delete(ctx context.Context, id int64) (err error) {
	l.with(func(v ledgerView) { err = v.Delete(ctx, id) })
	return
}

func (l lockedLedger) DeleteRange(ctx context.Context, from, to time.Time, d model.Direction) (n int64, err error) {
	l.with(func(v ledgerView) { n, err = v.DeleteRange(ctx, from, to, d) })
	return
}

var (
	_ repo.TransactionManager  = (*memStore)(nil)
	_ repo.TxRepos             = (*memState)(nil)
	_ repo.StockItemRepository = lockedItems{}
	_ repo.LedgerRepository    = lockedLedger{}
	_ repo.GroupRepository     = groupView{}
)
