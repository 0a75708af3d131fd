package dto

import (
	"time"

	"github.com/xiebiao/gamesup/internal/domain/purchase"
	"github.com/xiebiao/gamesup/pkg/money"
)

// CreatePurchaseRequest 创建订单
// owner_id为空时为当前用户创建；只有管理员可以为其他用户创建
// 字段校验交给订单管理器，保证错误信息一致
type CreatePurchaseRequest struct {
	OwnerID  uint   `json:"owner_id" example:"1"`
	Currency string `json:"currency" example:"EUR"`
}

// AddLineRequest 加入明细，单价由服务端从游戏目录获取
type AddLineRequest struct {
	ItemID   uint `json:"item_id" example:"3"`
	Quantity int  `json:"quantity" example:"2"`
}

// ListPurchasesRequest 订单列表查询，user_id和status不能同时使用
type ListPurchasesRequest struct {
	UserID   uint   `form:"user_id" example:"1"`
	Status   string `form:"status" example:"PAID"`
	Page     int    `form:"page" binding:"omitempty,min=1" example:"1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100" example:"20"`
}

// PurchaseResponse 订单，金额为两位小数字符串
type PurchaseResponse struct {
	ID          uint            `json:"id" example:"7"`
	UserID      uint            `json:"user_id" example:"1"`
	Status      string          `json:"status" example:"PENDING"`
	Currency    string          `json:"currency" example:"EUR"`
	TotalAmount string          `json:"total_amount" example:"59.98"`
	Lines       []*LineResponse `json:"lines"`
	CreatedAt   string          `json:"created_at" example:"2026-05-01T10:00:00Z"`
	PaidAt      *string         `json:"paid_at" example:"2026-05-01T10:05:00Z"`
}

// LineResponse 订单明细
type LineResponse struct {
	ID                  uint   `json:"id" example:"12"`
	ItemID              uint   `json:"item_id" example:"3"`
	Quantity            int    `json:"quantity" example:"2"`
	UnitPriceAtPurchase string `json:"unit_price_at_purchase" example:"29.99"`
	Subtotal            string `json:"subtotal" example:"59.98"`
	Currency            string `json:"currency" example:"EUR"`
}

func NewPurchaseResponse(p *purchase.Purchase) *PurchaseResponse {
	resp := &PurchaseResponse{
		ID:          p.ID,
		UserID:      p.UserID,
		Status:      p.Status.String(),
		Currency:    p.Currency,
		TotalAmount: money.Format(p.TotalAmount),
		Lines:       make([]*LineResponse, len(p.Lines)),
		CreatedAt:   p.CreatedAt.UTC().Format(time.RFC3339),
	}
	if p.PaidAt != nil {
		paidAt := p.PaidAt.UTC().Format(time.RFC3339)
		resp.PaidAt = &paidAt
	}
	for i, line := range p.Lines {
		resp.Lines[i] = &LineResponse{
			ID:                  line.ID,
			ItemID:              line.GameID,
			Quantity:            line.Quantity,
			UnitPriceAtPurchase: money.Format(line.UnitPriceAtPurchase),
			Subtotal:            money.Format(line.Subtotal()),
			Currency:            line.Currency,
		}
	}
	return resp
}

func NewPurchaseListResponse(items []*purchase.Purchase) []*PurchaseResponse {
	list := make([]*PurchaseResponse, len(items))
	for i, p := range items {
		list[i] = NewPurchaseResponse(p)
	}
	return list
}
