package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	apppurchase "github.com/xiebiao/gamesup/internal/application/purchase"
	"github.com/xiebiao/gamesup/internal/domain/purchase"
	"github.com/xiebiao/gamesup/internal/interface/http/dto"
	"github.com/xiebiao/gamesup/internal/interface/http/middleware"
	apperrors "github.com/xiebiao/gamesup/pkg/errors"
	"github.com/xiebiao/gamesup/pkg/response"
)

// PurchaseManager 订单聚合管理器，apppurchase.Manager实现
type PurchaseManager interface {
	Create(ctx context.Context, userID uint, currency string) (*purchase.Purchase, error)
	AddLine(ctx context.Context, purchaseID, gameID uint, quantity int) (*purchase.Purchase, error)
	RemoveLine(ctx context.Context, purchaseID, lineID uint) (*purchase.Purchase, error)
	MarkAsPaid(ctx context.Context, purchaseID uint) (*purchase.Purchase, error)
	MarkAsShipped(ctx context.Context, purchaseID uint) (*purchase.Purchase, error)
	MarkAsDelivered(ctx context.Context, purchaseID uint) (*purchase.Purchase, error)
	Cancel(ctx context.Context, purchaseID uint) (*purchase.Purchase, error)
	Delete(ctx context.Context, purchaseID uint) error
	Get(ctx context.Context, purchaseID uint) (*purchase.Purchase, error)
	List(ctx context.Context, params purchase.ListParams) (*apppurchase.Page, error)
	ListByUser(ctx context.Context, userID uint, params purchase.ListParams) (*apppurchase.Page, error)
	ListByStatus(ctx context.Context, status string, params purchase.ListParams) (*apppurchase.Page, error)
}

var errStatusWithUser = apperrors.New(apperrors.ErrCodeInvalidParams, "user_id and status cannot be combined")

// PurchaseHandler 订单HTTP处理器
// 普通用户只能访问自己的订单，管理员不受限制
type PurchaseHandler struct {
	manager PurchaseManager
}

func NewPurchaseHandler(manager PurchaseManager) *PurchaseHandler {
	return &PurchaseHandler{manager: manager}
}

// Create 创建订单
// @Summary      创建订单
// @Description  创建PENDING状态的空订单；owner_id为空时为当前用户创建
// @Tags         订单
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.CreatePurchaseRequest true "订单信息"
// @Success      201 {object} response.Response{data=dto.PurchaseResponse}
// @Failure      400 {object} response.Response "参数错误"
// @Failure      403 {object} response.Response "为其他用户创建"
// @Failure      404 {object} response.Response "用户不存在"
// @Router       /api/v1/purchases [post]
func (h *PurchaseHandler) Create(c *gin.Context) {
	var req dto.CreatePurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	owner := req.OwnerID
	if owner == 0 {
		owner = middleware.MustGetUserID(c)
	}
	if owner != middleware.GetUserID(c) && !middleware.IsAdmin(c) {
		response.Error(c, apperrors.ErrForbidden)
		return
	}

	p, err := h.manager.Create(c.Request.Context(), owner, req.Currency)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto.NewPurchaseResponse(p))
}

// List 订单列表
// @Summary      订单列表
// @Description  管理员可按user_id或status过滤；普通用户只能查看自己的订单
// @Tags         订单
// @Produce      json
// @Security     BearerAuth
// @Param        user_id   query int    false "用户ID"
// @Param        status    query string false "状态" Enums(PENDING, PAID, SHIPPED, DELIVERED, CANCELED)
// @Param        page      query int    false "页码"
// @Param        page_size query int    false "每页数量"
// @Success      200 {object} response.Response{data=response.PageData{list=[]dto.PurchaseResponse}}
// @Failure      400 {object} response.Response "状态不合法"
// @Failure      404 {object} response.Response "用户不存在"
// @Router       /api/v1/purchases [get]
func (h *PurchaseHandler) List(c *gin.Context) {
	var req dto.ListPurchasesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindError(c, err)
		return
	}
	params := purchase.ListParams{Page: req.Page, PageSize: req.PageSize}
	ctx := c.Request.Context()

	if !middleware.IsAdmin(c) {
		self := middleware.MustGetUserID(c)
		if (req.UserID != 0 && req.UserID != self) || req.Status != "" {
			response.Error(c, apperrors.ErrForbidden)
			return
		}
		req.UserID = self
	}

	var (
		page *apppurchase.Page
		err  error
	)
	switch {
	case req.UserID != 0 && req.Status != "":
		err = errStatusWithUser
	case req.UserID != 0:
		page, err = h.manager.ListByUser(ctx, req.UserID, params)
	case c.Request.URL.Query().Has("status"):
		page, err = h.manager.ListByStatus(ctx, req.Status, params)
	default:
		page, err = h.manager.List(ctx, params)
	}
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithPage(c, dto.NewPurchaseListResponse(page.Items), page.Total, page.Page, page.PageSize)
}

// Get 订单详情
// @Summary      订单详情
// @Tags         订单
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "订单ID"
// @Success      200 {object} response.Response{data=dto.PurchaseResponse}
// @Failure      403 {object} response.Response "不是自己的订单"
// @Failure      404 {object} response.Response "订单不存在"
// @Router       /api/v1/purchases/{id} [get]
func (h *PurchaseHandler) Get(c *gin.Context) {
	p, ok := h.load(c)
	if !ok {
		return
	}
	response.Success(c, dto.NewPurchaseResponse(p))
}

// AddLine 加入明细
// @Summary      加入明细
// @Description  单价取游戏目录当前价格并固化；只有PENDING订单可以修改
// @Tags         订单
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path int                true "订单ID"
// @Param        request body dto.AddLineRequest true "明细"
// @Success      200 {object} response.Response{data=dto.PurchaseResponse}
// @Failure      400 {object} response.Response "数量不合法"
// @Failure      404 {object} response.Response "订单或游戏不存在"
// @Failure      409 {object} response.Response "订单状态不允许修改"
// @Router       /api/v1/purchases/{id}/lines [post]
func (h *PurchaseHandler) AddLine(c *gin.Context) {
	var req dto.AddLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	h.mutate(c, func(ctx context.Context, id uint) (*purchase.Purchase, error) {
		return h.manager.AddLine(ctx, id, req.ItemID, req.Quantity)
	})
}

// RemoveLine 删除明细
// @Summary      删除明细
// @Tags         订单
// @Produce      json
// @Security     BearerAuth
// @Param        id     path int true "订单ID"
// @Param        lineId path int true "明细ID"
// @Success      200 {object} response.Response{data=dto.PurchaseResponse}
// @Failure      404 {object} response.Response "订单或明细不存在"
// @Failure      409 {object} response.Response "订单状态不允许修改"
// @Router       /api/v1/purchases/{id}/lines/{lineId} [delete]
func (h *PurchaseHandler) RemoveLine(c *gin.Context) {
	lineID, ok := pathID(c, "lineId")
	if !ok {
		return
	}
	h.mutate(c, func(ctx context.Context, id uint) (*purchase.Purchase, error) {
		return h.manager.RemoveLine(ctx, id, lineID)
	})
}

// Pay 支付
// @Summary      标记为已支付
// @Tags         订单
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "订单ID"
// @Success      200 {object} response.Response{data=dto.PurchaseResponse}
// @Failure      409 {object} response.Response "非PENDING或空订单"
// @Router       /api/v1/purchases/{id}/pay [post]
func (h *PurchaseHandler) Pay(c *gin.Context) {
	h.mutate(c, h.manager.MarkAsPaid)
}

// Ship 发货
// @Summary      标记为已发货（管理员）
// @Tags         订单
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "订单ID"
// @Success      200 {object} response.Response{data=dto.PurchaseResponse}
// @Failure      409 {object} response.Response "订单未支付"
// @Router       /api/v1/purchases/{id}/ship [post]
func (h *PurchaseHandler) Ship(c *gin.Context) {
	h.mutate(c, h.manager.MarkAsShipped)
}

// Deliver 签收
// @Summary      标记为已签收（管理员）
// @Tags         订单
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "订单ID"
// @Success      200 {object} response.Response{data=dto.PurchaseResponse}
// @Failure      409 {object} response.Response "订单未发货"
// @Router       /api/v1/purchases/{id}/deliver [post]
func (h *PurchaseHandler) Deliver(c *gin.Context) {
	h.mutate(c, h.manager.MarkAsDelivered)
}

// Cancel 取消
// @Summary      取消订单
// @Description  已签收的订单不能取消；重复取消直接成功
// @Tags         订单
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "订单ID"
// @Success      200 {object} response.Response{data=dto.PurchaseResponse}
// @Failure      409 {object} response.Response "订单已签收"
// @Router       /api/v1/purchases/{id}/cancel [post]
func (h *PurchaseHandler) Cancel(c *gin.Context) {
	h.mutate(c, h.manager.Cancel)
}

// Delete 删除订单
// @Summary      删除订单（管理员）
// @Description  不检查状态，订单和明细一并删除
// @Tags         订单
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "订单ID"
// @Success      200 {object} response.Response
// @Failure      404 {object} response.Response "订单不存在"
// @Router       /api/v1/purchases/{id} [delete]
func (h *PurchaseHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.manager.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// load 读取订单并校验归属
func (h *PurchaseHandler) load(c *gin.Context) (*purchase.Purchase, bool) {
	id, ok := pathID(c, "id")
	if !ok {
		return nil, false
	}
	p, err := h.manager.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return nil, false
	}
	if !middleware.IsAdmin(c) && !p.IsOwnedBy(middleware.GetUserID(c)) {
		response.Error(c, apperrors.ErrForbidden)
		return nil, false
	}
	return p, true
}

// mutate 校验归属后执行写操作
func (h *PurchaseHandler) mutate(c *gin.Context, op func(ctx context.Context, id uint) (*purchase.Purchase, error)) {
	current, ok := h.load(c)
	if !ok {
		return
	}
	p, err := op(c.Request.Context(), current.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.NewPurchaseResponse(p))
}
