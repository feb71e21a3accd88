package usecase_test

import (
	"context"
	"io"
	"time"

	"github.com/ZEN8890/Pinventory-Api/internal/domain/model"
	repo "github.com/ZEN8890/Pinventory-Api/internal/repository"

	"github.com/stretchr/testify/mock"
)

// =====================
// TxManager / TxRepos mocks
// =====================

// TxManagerMock は WithinTx の中で渡す repos を固定して unit テストを回す
type TxManagerMock struct {
	mock.Mock
	Repos repo.TxRepos
}

func (m *TxManagerMock) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	m.Called(ctx)
	return fn(m.Repos)
}

type TxReposMock struct {
	items  repo.StockItemRepository
	ledger repo.LedgerRepository
	groups repo.GroupRepository
	audit  repo.AuditLogRepository
}

func (r *TxReposMock) Items() repo.StockItemRepository { return r.items }
func (r *TxReposMock) Ledger() repo.LedgerRepository    { return r.ledger }
func (r *TxReposMock) Groups() repo.GroupRepository     { return r.groups }
func (r *TxReposMock) Audit() repo.AuditLogRepository   { return r.audit }

// =====================
// Repository mocks
// =====================

type StockItemRepoMock struct{ mock.Mock }

func (m *StockItemRepoMock) FindBySKU(ctx context.Context, sku string) (model.StockItem, error) {
	args := m.Called(ctx, sku)
	it, _ := args.Get(0).(model.StockItem)
	return it, args.Error(1)
}

func (m *StockItemRepoMock) List(ctx context.Context, q repo.StockItemListQuery) ([]model.StockItem, int64, error) {
	args := m.Called(ctx, q)
	items, _ := args.Get(0).([]model.StockItem)
	return items, args.Get(1).(int64), args.Error(2)
}

func (m *StockItemRepoMock) Create(ctx context.Context, item model.StockItem) (model.StockItem, error) {
	args := m.Called(ctx, item)
	it, _ := args.Get(0).(model.StockItem)
	return it, args.Error(1)
}

func (m *StockItemRepoMock) Rename(ctx context.Context, sku string, name string) error {
	args := m.Called(ctx, sku, name)
	return args.Error(0)
}

func (m *StockItemRepoMock) Upsert(ctx context.Context, sku string, name string, quantity int64) error {
	panic("not used in mock tests")
}

func (m *StockItemRepoMock) Adjust(ctx context.Context, sku string, delta int64) (model.StockItem, error) {
	args := m.Called(ctx, sku, delta)
	it, _ := args.Get(0).(model.StockItem)
	return it, args.Error(1)
}

func (m *StockItemRepoMock) LockForReplace(ctx context.Context) error {
	panic("not used in mock tests")
}

func (m *StockItemRepoMock) DeleteAll(ctx context.Context) (int64, error) {
	panic("not used in mock tests")
}

type LedgerRepoMock struct{ mock.Mock }

func (m *LedgerRepoMock) Append(ctx context.Context, entry *model.LedgerEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *LedgerRepoMock) List(ctx context.Context, filter repo.LedgerFilter) ([]model.LedgerEntry, int64, error) {
	args := m.Called(ctx, filter)
	entries, _ := args.Get(0).([]model.LedgerEntry)
	return entries, args.Get(1).(int64), args.Error(2)
}

func (m *LedgerRepoMock) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *LedgerRepoMock) DeleteRange(ctx context.Context, from, to time.Time, direction model.Direction) (int64, error) {
	args := m.Called(ctx, from, to, direction)
	return args.Get(0).(int64), args.Error(1)
}

type AuditRepoMock struct{ mock.Mock }

func (m *AuditRepoMock) Create(ctx context.Context, log model.AuditLog) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}

func (m *AuditRepoMock) List(ctx context.Context, filter repo.AuditLogFilter) ([]model.AuditLog, int64, error) {
	args := m.Called(ctx, filter)
	logs, _ := args.Get(0).([]model.AuditLog)
	return logs, args.Get(1).(int64), args.Error(2)
}

type GroupRepoMock struct{ mock.Mock }

func (m *GroupRepoMock) Create(ctx context.Context, g model.ProductGroup) (model.ProductGroup, error) {
	args := m.Called(ctx, g)
	out, _ := args.Get(0).(model.ProductGroup)
	return out, args.Error(1)
}

func (m *GroupRepoMock) FindByID(ctx context.Context, id int64) (model.ProductGroup, error) {
	args := m.Called(ctx, id)
	out, _ := args.Get(0).(model.ProductGroup)
	return out, args.Error(1)
}

func (m *GroupRepoMock) ListWithItems(ctx context.Context) ([]model.ProductGroup, error) {
	args := m.Called(ctx)
	out, _ := args.Get(0).([]model.ProductGroup)
	return out, args.Error(1)
}

func (m *GroupRepoMock) Update(ctx context.Context, g model.ProductGroup) error {
	args := m.Called(ctx, g)
	return args.Error(0)
}

func (m *GroupRepoMock) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *GroupRepoMock) ReplaceMembers(ctx context.Context, groupID int64, skus []string) error {
	args := m.Called(ctx, groupID, skus)
	return args.Error(0)
}

type UserRepoMock struct{ mock.Mock }

func (m *UserRepoMock) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *UserRepoMock) FindByID(ctx context.Context, id int64) (*model.User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *UserRepoMock) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	args := m.Called(ctx, username)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *UserRepoMock) List(ctx context.Context, q repo.UserListQuery) ([]model.User, error) {
	args := m.Called(ctx, q)
	users, _ := args.Get(0).([]model.User)
	return users, args.Error(1)
}

func (m *UserRepoMock) Update(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *UserRepoMock) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *UserRepoMock) IncrementTokenVersion(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// =====================
// helpers
// =====================

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

// ハッシュ化はテストでは接頭辞をつけるだけ
type fakeHasher struct{}

func (fakeHasher) Hash(plain string) (string, error) { return "hashed:" + plain, nil }

// 読み込み結果を固定
type fakeSheetReader struct {
	rows [][]string
	err  error
}

func (r fakeSheetReader) ReadRows(io.Reader) ([][]string, error) { return r.rows, r.err }

// 書き込まれた内容を保持
type captureSheetWriter struct {
	sheet  string
	header []string
	rows   [][]any
}

func (w *captureSheetWriter) WriteSheet(_ io.Writer, sheet string, header []string, rows [][]any) error {
	w.sheet, w.header, w.rows = sheet, header, rows
	return nil
}
