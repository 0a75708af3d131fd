package purchase

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/xiebiao/gamesup/internal/domain/game"
	"github.com/xiebiao/gamesup/internal/domain/purchase"
	"github.com/xiebiao/gamesup/internal/domain/user"
	"github.com/xiebiao/gamesup/pkg/clock"
	apperrors "github.com/xiebiao/gamesup/pkg/errors"
	"github.com/xiebiao/gamesup/pkg/logger"
	"github.com/xiebiao/gamesup/pkg/metrics"
	"github.com/xiebiao/gamesup/pkg/tracing"
)

const tracerName = "gamesup/application/purchase"

// TxManager 事务边界，mysql.TxManager实现
type TxManager interface {
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// Manager 订单聚合管理器
//
// 写操作统一流程：开启事务 → LockByID（SELECT ... FOR UPDATE）→ 修改聚合 → Save
// 任何一步失败整个事务回滚，不会留下部分写入
type Manager struct {
	tx        TxManager
	purchases purchase.Repository
	users     user.Finder
	games     game.Finder
	clock     clock.Clock
}

func NewManager(
	tx TxManager,
	purchases purchase.Repository,
	users user.Finder,
	games game.Finder,
	clk clock.Clock,
) *Manager {
	return &Manager{
		tx:        tx,
		purchases: purchases,
		users:     users,
		games:     games,
		clock:     clk,
	}
}

// Page 分页结果
type Page struct {
	Items    []*purchase.Purchase
	Total    int64
	Page     int
	PageSize int
}

// Create 为用户创建PENDING状态的空订单
func (m *Manager) Create(ctx context.Context, userID uint, currency string) (*purchase.Purchase, error) {
	var result *purchase.Purchase
	err := m.observe(ctx, "create", func(ctx context.Context) error {
		p, err := purchase.New(userID, currency, m.clock.Now())
		if err != nil {
			return err
		}
		if _, err := m.users.FindByID(ctx, userID); err != nil {
			return err
		}
		if err := m.purchases.Create(ctx, p); err != nil {
			return err
		}
		result = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.RecordPurchaseCreated()
	logger.FromCtx(ctx).Info("purchase created",
		zap.Uint("purchase_id", result.ID),
		zap.Uint("user_id", result.UserID),
		zap.String("currency", result.Currency),
	)
	return result, nil
}

// AddLine 加入一条明细，单价和币种取自目录当前值并固化为快照
func (m *Manager) AddLine(ctx context.Context, purchaseID, gameID uint, quantity int) (*purchase.Purchase, error) {
	return m.mutate(ctx, "add_line", purchaseID, func(ctx context.Context, p *purchase.Purchase) error {
		if gameID == 0 {
			return purchase.ErrInvalidGameID
		}
		if quantity <= 0 {
			return purchase.ErrInvalidQuantity
		}
		if err := p.EnsureMutable(); err != nil {
			return err
		}

		g, err := m.games.FindByID(ctx, gameID)
		if err != nil {
			return err
		}
		return p.AddLine(g.ID, quantity, g.BasePrice, g.Currency)
	})
}

// RemoveLine 删除明细，lineID必须属于该订单
func (m *Manager) RemoveLine(ctx context.Context, purchaseID, lineID uint) (*purchase.Purchase, error) {
	return m.mutate(ctx, "remove_line", purchaseID, func(_ context.Context, p *purchase.Purchase) error {
		if lineID == 0 {
			return purchase.ErrInvalidLineID
		}
		return p.RemoveLine(lineID)
	})
}

// MarkAsPaid PENDING → PAID，记录支付时间
func (m *Manager) MarkAsPaid(ctx context.Context, purchaseID uint) (*purchase.Purchase, error) {
	return m.transition(ctx, "mark_paid", purchaseID, func(p *purchase.Purchase) error {
		return p.MarkAsPaid(m.clock.Now())
	})
}

// MarkAsShipped PAID → SHIPPED
func (m *Manager) MarkAsShipped(ctx context.Context, purchaseID uint) (*purchase.Purchase, error) {
	return m.transition(ctx, "mark_shipped", purchaseID, (*purchase.Purchase).MarkAsShipped)
}

// MarkAsDelivered SHIPPED → DELIVERED
func (m *Manager) MarkAsDelivered(ctx context.Context, purchaseID uint) (*purchase.Purchase, error) {
	return m.transition(ctx, "mark_delivered", purchaseID, (*purchase.Purchase).MarkAsDelivered)
}

// Cancel 除DELIVERED外任意状态 → CANCELED；已取消的订单再次取消直接成功
func (m *Manager) Cancel(ctx context.Context, purchaseID uint) (*purchase.Purchase, error) {
	return m.transition(ctx, "cancel", purchaseID, (*purchase.Purchase).Cancel)
}

// Delete 管理端物理删除订单及明细，不检查状态
func (m *Manager) Delete(ctx context.Context, purchaseID uint) error {
	err := m.observe(ctx, "delete", func(ctx context.Context) error {
		if purchaseID == 0 {
			return purchase.ErrInvalidPurchaseID
		}
		return m.purchases.Delete(ctx, purchaseID)
	})
	if err != nil {
		return err
	}

	logger.FromCtx(ctx).Info("purchase deleted", zap.Uint("purchase_id", purchaseID))
	return nil
}

// Get 查询订单
func (m *Manager) Get(ctx context.Context, purchaseID uint) (*purchase.Purchase, error) {
	var result *purchase.Purchase
	err := m.observe(ctx, "get", func(ctx context.Context) error {
		if purchaseID == 0 {
			return purchase.ErrInvalidPurchaseID
		}
		p, err := m.purchases.FindByID(ctx, purchaseID)
		if err != nil {
			return err
		}
		result = p
		return nil
	})
	return result, err
}

// List 全部订单，最新的在前
func (m *Manager) List(ctx context.Context, params purchase.ListParams) (*Page, error) {
	params = params.Normalize()
	var page *Page
	err := m.observe(ctx, "list", func(ctx context.Context) error {
		items, total, err := m.purchases.List(ctx, params)
		if err != nil {
			return err
		}
		page = newPage(items, total, params)
		return nil
	})
	return page, err
}

// ListByUser 用户的订单，用户不存在返回NotFound
func (m *Manager) ListByUser(ctx context.Context, userID uint, params purchase.ListParams) (*Page, error) {
	params = params.Normalize()
	var page *Page
	err := m.observe(ctx, "list_by_user", func(ctx context.Context) error {
		if userID == 0 {
			return purchase.ErrInvalidUserID
		}
		if _, err := m.users.FindByID(ctx, userID); err != nil {
			return err
		}
		items, total, err := m.purchases.ListByUserID(ctx, userID, params)
		if err != nil {
			return err
		}
		page = newPage(items, total, params)
		return nil
	})
	return page, err
}

// ListByStatus 按状态名查询（PENDING/PAID/SHIPPED/DELIVERED/CANCELED）
func (m *Manager) ListByStatus(ctx context.Context, status string, params purchase.ListParams) (*Page, error) {
	params = params.Normalize()
	var page *Page
	err := m.observe(ctx, "list_by_status", func(ctx context.Context) error {
		s, err := purchase.ParseStatus(status)
		if err != nil {
			return err
		}
		items, total, err := m.purchases.ListByStatus(ctx, s, params)
		if err != nil {
			return err
		}
		page = newPage(items, total, params)
		return nil
	})
	return page, err
}

// transition 状态流转，成功后记录日志和指标
func (m *Manager) transition(ctx context.Context, op string, purchaseID uint, apply func(p *purchase.Purchase) error) (*purchase.Purchase, error) {
	var from purchase.Status
	p, err := m.mutate(ctx, op, purchaseID, func(_ context.Context, p *purchase.Purchase) error {
		from = p.Status
		return apply(p)
	})
	if err != nil {
		return nil, err
	}

	if from != p.Status {
		metrics.RecordPurchaseTransition(p.Status.String())
		logger.FromCtx(ctx).Info("purchase status changed",
			zap.Uint("purchase_id", p.ID),
			zap.Stringer("from", from),
			zap.Stringer("to", p.Status),
		)
	}
	return p, nil
}

// mutate 在事务中锁定订单、执行修改并保存
func (m *Manager) mutate(ctx context.Context, op string, purchaseID uint, fn func(ctx context.Context, p *purchase.Purchase) error) (*purchase.Purchase, error) {
	var result *purchase.Purchase
	err := m.observe(ctx, op, func(ctx context.Context) error {
		if purchaseID == 0 {
			return purchase.ErrInvalidPurchaseID
		}
		return m.tx.Transaction(ctx, func(ctx context.Context) error {
			p, err := m.purchases.LockByID(ctx, purchaseID)
			if err != nil {
				return err
			}
			if err := fn(ctx, p); err != nil {
				return err
			}
			if err := m.purchases.Save(ctx, p); err != nil {
				return err
			}
			result = p
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// observe 每个操作一个span，记录耗时和结果；基础设施错误打Error日志
func (m *Manager) observe(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	start := time.Now()
	ctx, span := tracing.StartSpan(ctx, tracerName, "purchase."+op)
	defer span.End()

	err := fn(ctx)
	metrics.ObservePurchaseOperation(op, start, err)
	if err == nil {
		return nil
	}

	tracing.RecordError(span, err)
	appErr := apperrors.GetAppError(err)
	if appErr.Kind() == apperrors.KindInternal {
		logger.FromCtx(ctx).Error("purchase operation failed",
			zap.String("operation", op),
			zap.Error(err),
		)
	} else {
		logger.FromCtx(ctx).Debug("purchase operation rejected",
			zap.String("operation", op),
			zap.String("reason", appErr.Message),
		)
	}
	return err
}

func newPage(items []*purchase.Purchase, total int64, params purchase.ListParams) *Page {
	return &Page{
		Items:    items,
		Total:    total,
		Page:     params.Page,
		PageSize: params.PageSize,
	}
}
