package purchase

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/xiebiao/gamesup/pkg/money"
)

// Status 订单状态
// 持久化为tinyint，对外展示为大写名称
type Status int

const (
	StatusPending   Status = 1 // 购物篮，唯一可修改明细的状态
	StatusPaid      Status = 2
	StatusShipped   Status = 3
	StatusDelivered Status = 4 // 终态
	StatusCanceled  Status = 5 // 终态
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "PENDING"
	case StatusPaid:
		return "PAID"
	case StatusShipped:
		return "SHIPPED"
	case StatusDelivered:
		return "DELIVERED"
	case StatusCanceled:
		return "CANCELED"
	default:
		return "UNKNOWN"
	}
}

// ParseStatus 解析状态名（不区分大小写），BASKET是PENDING的别名
func ParseStatus(name string) (Status, error) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "PENDING", "BASKET":
		return StatusPending, nil
	case "PAID":
		return StatusPaid, nil
	case "SHIPPED":
		return StatusShipped, nil
	case "DELIVERED":
		return StatusDelivered, nil
	case "CANCELED", "CANCELLED":
		return StatusCanceled, nil
	case "":
		return 0, ErrStatusRequired
	default:
		return 0, newUnknownStatus(name)
	}
}

// transitions 合法的状态流转
// 明细增删是PENDING上的自环，不在此表中
var transitions = map[Status][]Status{
	StatusPending:   {StatusPaid, StatusCanceled},
	StatusPaid:      {StatusShipped, StatusCanceled},
	StatusShipped:   {StatusDelivered, StatusCanceled},
	StatusDelivered: {},
	StatusCanceled:  {StatusCanceled},
}

// CanTransitionTo 检查是否可以流转到目标状态
func (s Status) CanTransitionTo(target Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// Purchase 订单（聚合根）
// 1. Lines由Purchase独占，删除订单时一并删除
// 2. TotalAmount是派生值，只能由recalculateTotal写入
// 3. PaidAt仅在PENDING→PAID时设置一次，之后不再清空
type Purchase struct {
	ID          uint
	UserID      uint
	Status      Status
	Currency    string
	TotalAmount decimal.Decimal
	Lines       []Line
	CreatedAt   time.Time
	PaidAt      *time.Time
	UpdatedAt   time.Time
}

// Line 订单明细
// UnitPriceAtPurchase是加入时的价格快照，之后目录改价不影响已有明细
type Line struct {
	ID                  uint
	PurchaseID          uint
	GameID              uint
	Quantity            int
	UnitPriceAtPurchase decimal.Decimal
	Currency            string
}

// Subtotal 小计 = 数量 × 快照单价
func (l Line) Subtotal() decimal.Decimal {
	return l.UnitPriceAtPurchase.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// New 创建PENDING状态的空订单
func New(userID uint, currency string, now time.Time) (*Purchase, error) {
	if userID == 0 {
		return nil, ErrInvalidUserID
	}
	code, err := NormalizeCurrency(currency)
	if err != nil {
		return nil, err
	}

	return &Purchase{
		UserID:      userID,
		Status:      StatusPending,
		Currency:    code,
		TotalAmount: decimal.Zero,
		Lines:       []Line{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// NormalizeCurrency 去空格、转大写，必须是3位字母（ISO 4217格式）
func NormalizeCurrency(currency string) (string, error) {
	if strings.TrimSpace(currency) == "" {
		return "", ErrCurrencyRequired
	}
	code := money.NormalizeCurrency(currency)
	if code == "" {
		return "", newInvalidCurrency(currency)
	}
	return code, nil
}

// IsMutable 只有PENDING状态可以增删明细
func (p *Purchase) IsMutable() bool {
	return p.Status == StatusPending
}

// EnsureMutable 不可修改时返回带当前状态的错误
func (p *Purchase) EnsureMutable() error {
	if !p.IsMutable() {
		return newNotMutable(p.Status)
	}
	return nil
}

// AddLine 追加明细，单价和币种由调用方从目录快照传入
// 加入后的总额不能超过money.MaxAmount（total_amount列为decimal(10,2)）
func (p *Purchase) AddLine(gameID uint, quantity int, unitPrice decimal.Decimal, currency string) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	if err := p.EnsureMutable(); err != nil {
		return err
	}

	line := Line{
		PurchaseID:          p.ID,
		GameID:              gameID,
		Quantity:            quantity,
		UnitPriceAtPurchase: unitPrice,
		Currency:            currency,
	}
	if p.CalculateTotal().Add(line.Subtotal()).GreaterThan(money.MaxAmount) {
		return ErrTotalTooLarge
	}

	p.Lines = append(p.Lines, line)
	p.recalculateTotal()
	return nil
}

// RemoveLine 按明细ID删除，只在本订单的明细中查找
func (p *Purchase) RemoveLine(lineID uint) error {
	if err := p.EnsureMutable(); err != nil {
		return err
	}

	for i, line := range p.Lines {
		if line.ID == lineID {
			p.Lines = append(p.Lines[:i], p.Lines[i+1:]...)
			p.recalculateTotal()
			return nil
		}
	}
	return NewLineNotFound(lineID)
}

// MarkAsPaid PENDING→PAID，要求至少一条明细
func (p *Purchase) MarkAsPaid(now time.Time) error {
	if p.Status != StatusPending {
		return ErrNotPending
	}
	if len(p.Lines) == 0 {
		return ErrEmptyPurchase
	}

	p.Status = StatusPaid
	paidAt := now
	p.PaidAt = &paidAt
	return nil
}

// MarkAsShipped PAID→SHIPPED
func (p *Purchase) MarkAsShipped() error {
	if p.Status != StatusPaid {
		return ErrNotPaid
	}
	p.Status = StatusShipped
	return nil
}

// MarkAsDelivered SHIPPED→DELIVERED
func (p *Purchase) MarkAsDelivered() error {
	if p.Status != StatusShipped {
		return ErrNotShipped
	}
	p.Status = StatusDelivered
	return nil
}

// Cancel 除DELIVERED外都可以取消，只修改状态
func (p *Purchase) Cancel() error {
	if !p.Status.CanTransitionTo(StatusCanceled) {
		return ErrCannotCancelDelivered
	}
	p.Status = StatusCanceled
	return nil
}

// recalculateTotal total = Σ quantity × unitPrice（精确十进制运算）
func (p *Purchase) recalculateTotal() {
	p.TotalAmount = p.CalculateTotal()
}

// CalculateTotal 按当前明细重新计算的总额（不修改聚合）
func (p *Purchase) CalculateTotal() decimal.Decimal {
	total := decimal.Zero
	for _, line := range p.Lines {
		total = total.Add(line.Subtotal())
	}
	return total
}

// IsOwnedBy 是否属于指定用户
func (p *Purchase) IsOwnedBy(userID uint) bool {
	return p.UserID == userID
}
