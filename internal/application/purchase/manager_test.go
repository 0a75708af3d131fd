package purchase

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/gamesup/internal/domain/game"
	"github.com/xiebiao/gamesup/internal/domain/purchase"
	"github.com/xiebiao/gamesup/internal/domain/user"
	"github.com/xiebiao/gamesup/pkg/clock"
	apperrors "github.com/xiebiao/gamesup/pkg/errors"
)

// ========== 测试替身 ==========

type passthroughTx struct {
	calls int
}

func (t *passthroughTx) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	t.calls++
	return fn(ctx)
}

// memoryRepo 保存聚合的深拷贝，未Save的修改不会生效（相当于回滚）
type memoryRepo struct {
	mu         sync.Mutex
	purchases  map[uint]*purchase.Purchase
	nextID     uint
	nextLineID uint
	saveErr    error
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{purchases: map[uint]*purchase.Purchase{}}
}

func clonePurchase(p *purchase.Purchase) *purchase.Purchase {
	c := *p
	c.Lines = append([]purchase.Line{}, p.Lines...)
	if p.PaidAt != nil {
		paidAt := *p.PaidAt
		c.PaidAt = &paidAt
	}
	return &c
}

func (r *memoryRepo) assignLineIDs(p *purchase.Purchase) {
	for i := range p.Lines {
		if p.Lines[i].ID == 0 {
			r.nextLineID++
			p.Lines[i].ID = r.nextLineID
			p.Lines[i].PurchaseID = p.ID
		}
	}
}

func (r *memoryRepo) Create(_ context.Context, p *purchase.Purchase) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	p.ID = r.nextID
	r.assignLineIDs(p)
	r.purchases[p.ID] = clonePurchase(p)
	return nil
}

func (r *memoryRepo) FindByID(_ context.Context, id uint) (*purchase.Purchase, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.purchases[id]
	if !ok {
		return nil, purchase.NewPurchaseNotFound(id)
	}
	return clonePurchase(p), nil
}

func (r *memoryRepo) LockByID(ctx context.Context, id uint) (*purchase.Purchase, error) {
	return r.FindByID(ctx, id)
}

func (r *memoryRepo) Save(_ context.Context, p *purchase.Purchase) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.saveErr != nil {
		return r.saveErr
	}
	r.assignLineIDs(p)
	r.purchases[p.ID] = clonePurchase(p)
	return nil
}

func (r *memoryRepo) Delete(_ context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.purchases[id]; !ok {
		return purchase.NewPurchaseNotFound(id)
	}
	delete(r.purchases, id)
	return nil
}

func (r *memoryRepo) filter(match func(p *purchase.Purchase) bool, params purchase.ListParams) ([]*purchase.Purchase, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var all []*purchase.Purchase
	for _, p := range r.purchases {
		if match(p) {
			all = append(all, clonePurchase(p))
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID > all[j].ID })

	total := int64(len(all))
	params = params.Normalize()
	start := params.Offset()
	if start > len(all) {
		start = len(all)
	}
	end := start + params.PageSize
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], total, nil
}

func (r *memoryRepo) List(_ context.Context, params purchase.ListParams) ([]*purchase.Purchase, int64, error) {
	return r.filter(func(*purchase.Purchase) bool { return true }, params)
}

func (r *memoryRepo) ListByUserID(_ context.Context, userID uint, params purchase.ListParams) ([]*purchase.Purchase, int64, error) {
	return r.filter(func(p *purchase.Purchase) bool { return p.UserID == userID }, params)
}

func (r *memoryRepo) ListByStatus(_ context.Context, status purchase.Status, params purchase.ListParams) ([]*purchase.Purchase, int64, error) {
	return r.filter(func(p *purchase.Purchase) bool { return p.Status == status }, params)
}

type userDirectory map[uint]*user.User

func (d userDirectory) FindByID(_ context.Context, id uint) (*user.User, error) {
	u, ok := d[id]
	if !ok {
		return nil, user.NewUserNotFound(id)
	}
	return u, nil
}

type gameCatalog map[uint]*game.Game

func (c gameCatalog) FindByID(_ context.Context, id uint) (*game.Game, error) {
	g, ok := c[id]
	if !ok {
		return nil, game.NewGameNotFound(id)
	}
	copied := *g
	return &copied, nil
}

type fixture struct {
	manager *Manager
	repo    *memoryRepo
	tx      *passthroughTx
	games   gameCatalog
	clock   *clock.Manual
}

var startTime = time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)

func newFixture() *fixture {
	repo := newMemoryRepo()
	tx := &passthroughTx{}
	users := userDirectory{1: {ID: 1, Email: "player@gamesup.io"}, 2: {ID: 2, Email: "other@gamesup.io"}}
	games := gameCatalog{
		10: {ID: 10, Title: "Celeste", BasePrice: decimal.RequireFromString("29.99"), Currency: "EUR"},
		11: {ID: 11, Title: "Hades", BasePrice: decimal.RequireFromString("24.50"), Currency: "EUR"},
	}
	clk := clock.NewManual(startTime)
	return &fixture{
		manager: NewManager(tx, repo, users, games, clk),
		repo:    repo,
		tx:      tx,
		games:   games,
		clock:   clk,
	}
}

func (f *fixture) create(t *testing.T) *purchase.Purchase {
	t.Helper()
	p, err := f.manager.Create(context.Background(), 1, "eur")
	require.NoError(t, err)
	return p
}

func (f *fixture) stored(t *testing.T, id uint) *purchase.Purchase {
	t.Helper()
	p, err := f.repo.FindByID(context.Background(), id)
	require.NoError(t, err)
	return p
}

func requireKind(t *testing.T, err error, kind apperrors.Kind) {
	t.Helper()
	require.Error(t, err)
	assert.Equal(t, kind, apperrors.GetAppError(err).Kind(), err.Error())
}

// ========== Create ==========

func TestManager_Create(t *testing.T) {
	f := newFixture()

	p, err := f.manager.Create(context.Background(), 1, " eur ")
	require.NoError(t, err)
	assert.NotZero(t, p.ID)
	assert.Equal(t, purchase.StatusPending, p.Status)
	assert.Equal(t, "EUR", p.Currency)
	assert.Empty(t, p.Lines)
	assert.Equal(t, "0.00", p.TotalAmount.StringFixed(2))
	assert.Equal(t, startTime, p.CreatedAt)
	assert.Nil(t, p.PaidAt)
}

func TestManager_Create_Validation(t *testing.T) {
	tests := []struct {
		name     string
		userID   uint
		currency string
		kind     apperrors.Kind
		message  string
	}{
		{"zero user id", 0, "EUR", apperrors.KindInvalidArgument, "invalid user id"},
		{"blank currency", 1, "   ", apperrors.KindInvalidArgument, "currency cannot be empty"},
		{"malformed currency", 1, "EURO", apperrors.KindInvalidArgument, "3-letter"},
		{"unknown user", 99, "EUR", apperrors.KindNotFound, "user not found with id: 99"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			p, err := f.manager.Create(context.Background(), tt.userID, tt.currency)
			assert.Nil(t, p)
			requireKind(t, err, tt.kind)
			assert.Contains(t, err.Error(), tt.message)
			assert.Empty(t, f.repo.purchases)
		})
	}
}

// ========== 明细 ==========

func TestManager_AddLine_SnapshotsCatalogPrice(t *testing.T) {
	f := newFixture()
	p := f.create(t)

	p, err := f.manager.AddLine(context.Background(), p.ID, 10, 2)
	require.NoError(t, err)
	require.Len(t, p.Lines, 1)
	assert.Equal(t, "59.98", p.TotalAmount.StringFixed(2))
	assert.Equal(t, "29.99", p.Lines[0].UnitPriceAtPurchase.StringFixed(2))
	assert.Equal(t, "EUR", p.Lines[0].Currency)
	assert.NotZero(t, p.Lines[0].ID)
	assert.Equal(t, 1, f.tx.calls)

	// 目录改价不影响已加入的明细
	f.games[10].BasePrice = decimal.RequireFromString("9.99")
	stored := f.stored(t, p.ID)
	assert.Equal(t, "29.99", stored.Lines[0].UnitPriceAtPurchase.StringFixed(2))
	assert.Equal(t, "59.98", stored.TotalAmount.StringFixed(2))

	// 新加入的明细使用新价格
	p, err = f.manager.AddLine(context.Background(), p.ID, 10, 1)
	require.NoError(t, err)
	assert.Equal(t, "9.99", p.Lines[1].UnitPriceAtPurchase.StringFixed(2))
	assert.Equal(t, "69.97", p.TotalAmount.StringFixed(2))
}

func TestManager_AddLine_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("quantity must be positive", func(t *testing.T) {
		f := newFixture()
		p := f.create(t)
		for _, qty := range []int{0, -3} {
			_, err := f.manager.AddLine(ctx, p.ID, 10, qty)
			requireKind(t, err, apperrors.KindInvalidArgument)
			assert.Contains(t, err.Error(), "quantity must be greater than 0")
		}
	})

	t.Run("unknown purchase", func(t *testing.T) {
		f := newFixture()
		_, err := f.manager.AddLine(ctx, 404, 10, 1)
		requireKind(t, err, apperrors.KindNotFound)
		assert.Contains(t, err.Error(), "purchase not found with id: 404")
	})

	t.Run("unknown game", func(t *testing.T) {
		f := newFixture()
		p := f.create(t)
		_, err := f.manager.AddLine(ctx, p.ID, 77, 1)
		requireKind(t, err, apperrors.KindNotFound)
		assert.Contains(t, err.Error(), "game not found with id: 77")
		assert.Empty(t, f.stored(t, p.ID).Lines)
	})

	t.Run("total exceeds decimal(10,2)", func(t *testing.T) {
		f := newFixture()
		p := f.create(t)
		_, err := f.manager.AddLine(ctx, p.ID, 10, 10000000)
		requireKind(t, err, apperrors.KindInvalidArgument)
		assert.ErrorIs(t, err, purchase.ErrTotalTooLarge)

		stored := f.stored(t, p.ID)
		assert.Empty(t, stored.Lines)
		assert.Equal(t, "0.00", stored.TotalAmount.StringFixed(2))
	})

	t.Run("zero ids", func(t *testing.T) {
		f := newFixture()
		p := f.create(t)
		_, err := f.manager.AddLine(ctx, 0, 10, 1)
		requireKind(t, err, apperrors.KindInvalidArgument)
		_, err = f.manager.AddLine(ctx, p.ID, 0, 1)
		requireKind(t, err, apperrors.KindInvalidArgument)
	})
}

func TestManager_AddThenRemoveLine(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	p := f.create(t)

	p, err := f.manager.AddLine(ctx, p.ID, 10, 2)
	require.NoError(t, err)
	p, err = f.manager.AddLine(ctx, p.ID, 11, 1)
	require.NoError(t, err)
	assert.Equal(t, "84.48", p.TotalAmount.StringFixed(2))

	p, err = f.manager.RemoveLine(ctx, p.ID, p.Lines[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "24.50", p.TotalAmount.StringFixed(2))

	p, err = f.manager.RemoveLine(ctx, p.ID, p.Lines[0].ID)
	require.NoError(t, err)
	assert.Empty(t, p.Lines)
	assert.Equal(t, "0.00", p.TotalAmount.StringFixed(2))

	stored := f.stored(t, p.ID)
	assert.Empty(t, stored.Lines)
	assert.True(t, stored.TotalAmount.IsZero())
}

func TestManager_RemoveLine_OtherPurchaseLine(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	a := f.create(t)
	b := f.create(t)
	b, err := f.manager.AddLine(ctx, b.ID, 10, 1)
	require.NoError(t, err)

	_, err = f.manager.RemoveLine(ctx, a.ID, b.Lines[0].ID)
	requireKind(t, err, apperrors.KindNotFound)
	assert.Contains(t, err.Error(), "line not found with id:")
	assert.Len(t, f.stored(t, b.ID).Lines, 1)
}

func TestManager_RemoveLine_ZeroLineID(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	p := f.create(t)

	_, err := f.manager.RemoveLine(ctx, p.ID, 0)
	requireKind(t, err, apperrors.KindInvalidArgument)
	assert.ErrorIs(t, err, purchase.ErrInvalidLineID)
	assert.Equal(t, "invalid line id", apperrors.GetAppError(err).Message)
}

// ========== 状态机 ==========

func TestManager_MarkAsPaid(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	p := f.create(t)

	_, err := f.manager.MarkAsPaid(ctx, p.ID)
	requireKind(t, err, apperrors.KindInvalidState)
	assert.Contains(t, err.Error(), "cannot mark empty purchase as paid")

	_, err = f.manager.AddLine(ctx, p.ID, 10, 1)
	require.NoError(t, err)

	f.clock.Advance(time.Hour)
	p, err = f.manager.MarkAsPaid(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, purchase.StatusPaid, p.Status)
	require.NotNil(t, p.PaidAt)
	assert.Equal(t, startTime.Add(time.Hour), *p.PaidAt)

	// 第二次支付失败，支付时间不变
	f.clock.Advance(time.Hour)
	_, err = f.manager.MarkAsPaid(ctx, p.ID)
	requireKind(t, err, apperrors.KindInvalidState)
	assert.Contains(t, err.Error(), "can only mark pending purchases as paid")
	assert.Equal(t, startTime.Add(time.Hour), *f.stored(t, p.ID).PaidAt)
}

func TestManager_FullLifecycle(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	p := f.create(t)

	_, err := f.manager.AddLine(ctx, p.ID, 10, 1)
	require.NoError(t, err)

	_, err = f.manager.MarkAsShipped(ctx, p.ID)
	requireKind(t, err, apperrors.KindInvalidState)
	assert.Contains(t, err.Error(), "can only ship paid purchases")

	_, err = f.manager.MarkAsPaid(ctx, p.ID)
	require.NoError(t, err)

	_, err = f.manager.MarkAsDelivered(ctx, p.ID)
	requireKind(t, err, apperrors.KindInvalidState)
	assert.Contains(t, err.Error(), "can only deliver shipped purchases")

	_, err = f.manager.MarkAsShipped(ctx, p.ID)
	require.NoError(t, err)
	p, err = f.manager.MarkAsDelivered(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, purchase.StatusDelivered, p.Status)
	assert.NotNil(t, p.PaidAt)

	_, err = f.manager.Cancel(ctx, p.ID)
	requireKind(t, err, apperrors.KindInvalidState)
	assert.Contains(t, err.Error(), "cannot cancel delivered purchase")
	assert.Equal(t, purchase.StatusDelivered, f.stored(t, p.ID).Status)
}

func TestManager_CancelFreezesLines(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	p := f.create(t)
	p, err := f.manager.AddLine(ctx, p.ID, 10, 1)
	require.NoError(t, err)
	lineID := p.Lines[0].ID

	p, err = f.manager.Cancel(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, purchase.StatusCanceled, p.Status)
	assert.Equal(t, "29.99", p.TotalAmount.StringFixed(2))
	assert.Nil(t, p.PaidAt)

	_, err = f.manager.AddLine(ctx, p.ID, 11, 1)
	requireKind(t, err, apperrors.KindInvalidState)
	assert.Contains(t, err.Error(), "cannot modify purchase with status: CANCELED")

	_, err = f.manager.RemoveLine(ctx, p.ID, lineID)
	requireKind(t, err, apperrors.KindInvalidState)

	_, err = f.manager.MarkAsPaid(ctx, p.ID)
	requireKind(t, err, apperrors.KindInvalidState)

	// 重复取消保持CANCELED
	p, err = f.manager.Cancel(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, purchase.StatusCanceled, p.Status)
}

func TestManager_CancelPaidKeepsPaidAt(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	p := f.create(t)
	_, err := f.manager.AddLine(ctx, p.ID, 10, 1)
	require.NoError(t, err)
	_, err = f.manager.MarkAsPaid(ctx, p.ID)
	require.NoError(t, err)

	p, err = f.manager.Cancel(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, purchase.StatusCanceled, p.Status)
	assert.NotNil(t, p.PaidAt)
}

func TestManager_SaveFailureLeavesStateUntouched(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	p := f.create(t)

	f.repo.saveErr = apperrors.Wrap(errors.New("connection reset"), "failed to update purchase")
	_, err := f.manager.AddLine(ctx, p.ID, 10, 1)
	requireKind(t, err, apperrors.KindInternal)

	f.repo.saveErr = nil
	stored := f.stored(t, p.ID)
	assert.Empty(t, stored.Lines)
	assert.True(t, stored.TotalAmount.IsZero())
}

// ========== 删除与查询 ==========

func TestManager_Delete(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	p := f.create(t)
	_, err := f.manager.AddLine(ctx, p.ID, 10, 1)
	require.NoError(t, err)
	_, err = f.manager.MarkAsPaid(ctx, p.ID)
	require.NoError(t, err)

	require.NoError(t, f.manager.Delete(ctx, p.ID))

	_, err = f.manager.Get(ctx, p.ID)
	requireKind(t, err, apperrors.KindNotFound)

	err = f.manager.Delete(ctx, p.ID)
	requireKind(t, err, apperrors.KindNotFound)
}

func TestManager_ListQueries(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	first := f.create(t)
	second := f.create(t)
	other, err := f.manager.Create(ctx, 2, "USD")
	require.NoError(t, err)
	_, err = f.manager.Cancel(ctx, second.ID)
	require.NoError(t, err)

	page, err := f.manager.List(ctx, purchase.ListParams{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.Total)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 20, page.PageSize)
	assert.Equal(t, other.ID, page.Items[0].ID)

	page, err = f.manager.ListByUser(ctx, 1, purchase.ListParams{Page: 1, PageSize: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Total)
	require.Len(t, page.Items, 1)
	assert.Equal(t, second.ID, page.Items[0].ID)

	_, err = f.manager.ListByUser(ctx, 42, purchase.ListParams{})
	requireKind(t, err, apperrors.KindNotFound)
	assert.Contains(t, err.Error(), "user not found with id: 42")

	page, err = f.manager.ListByStatus(ctx, "pending", purchase.ListParams{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Total)
	assert.ElementsMatch(t, []uint{first.ID, other.ID}, []uint{page.Items[0].ID, page.Items[1].ID})

	page, err = f.manager.ListByStatus(ctx, "CANCELED", purchase.ListParams{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)

	_, err = f.manager.ListByStatus(ctx, "", purchase.ListParams{})
	requireKind(t, err, apperrors.KindInvalidArgument)

	_, err = f.manager.ListByStatus(ctx, "REFUNDED", purchase.ListParams{})
	requireKind(t, err, apperrors.KindInvalidArgument)
}
