package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/xiebiao/gamesup/internal/domain/purchase"
	apperrors "github.com/xiebiao/gamesup/pkg/errors"
)

type purchaseRepository struct {
	db *gorm.DB
}

// NewPurchaseRepository 创建订单仓储
func NewPurchaseRepository(db *gorm.DB) purchase.Repository {
	return &purchaseRepository{db: db}
}

// preloadLines 明细按ID升序（即加入顺序）
func preloadLines(db *gorm.DB) *gorm.DB {
	return db.Preload("Lines", func(db *gorm.DB) *gorm.DB {
		return db.Order("purchase_lines.id ASC")
	})
}

func (r *purchaseRepository) Create(ctx context.Context, p *purchase.Purchase) error {
	model := toPurchaseModel(p)
	if err := getDB(ctx, r.db).Create(model).Error; err != nil {
		return apperrors.Wrap(err, "failed to create purchase")
	}

	p.ID = model.ID
	p.UpdatedAt = model.UpdatedAt
	for i := range p.Lines {
		p.Lines[i].ID = model.Lines[i].ID
		p.Lines[i].PurchaseID = model.ID
	}
	return nil
}

func (r *purchaseRepository) FindByID(ctx context.Context, id uint) (*purchase.Purchase, error) {
	return r.find(ctx, getDB(ctx, r.db), id)
}

// LockByID SELECT ... FOR UPDATE，锁住订单行直到事务结束
// 同一订单的并发修改在此排队，避免读-改-写丢失更新
func (r *purchaseRepository) LockByID(ctx context.Context, id uint) (*purchase.Purchase, error) {
	db := getDB(ctx, r.db).Clauses(clause.Locking{Strength: "UPDATE"})
	return r.find(ctx, db, id)
}

func (r *purchaseRepository) find(_ context.Context, db *gorm.DB, id uint) (*purchase.Purchase, error) {
	var model PurchaseModel
	if err := preloadLines(db).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, purchase.NewPurchaseNotFound(id)
		}
		return nil, apperrors.Wrap(err, "failed to query purchase")
	}
	return toPurchaseEntity(&model), nil
}

// Save 更新订单字段，并让purchase_lines与聚合中的明细保持一致：
// 删除不在聚合中的明细，插入ID为0的新明细，已有明细不可变因此不更新
func (r *purchaseRepository) Save(ctx context.Context, p *purchase.Purchase) error {
	return withTx(ctx, r.db, func(tx *gorm.DB) error {
		result := tx.Model(&PurchaseModel{ID: p.ID}).Updates(map[string]interface{}{
			"status":       int(p.Status),
			"total_amount": p.TotalAmount,
			"paid_at":      p.PaidAt,
		})
		if result.Error != nil {
			return apperrors.Wrap(result.Error, "failed to update purchase")
		}

		keep := make([]uint, 0, len(p.Lines))
		for _, line := range p.Lines {
			if line.ID != 0 {
				keep = append(keep, line.ID)
			}
		}
		del := tx.Where("purchase_id = ?", p.ID)
		if len(keep) > 0 {
			del = del.Where("id NOT IN ?", keep)
		}
		if err := del.Delete(&PurchaseLineModel{}).Error; err != nil {
			return apperrors.Wrap(err, "failed to delete purchase lines")
		}

		for i := range p.Lines {
			if p.Lines[i].ID != 0 {
				continue
			}
			lineModel := toLineModel(p.ID, p.Lines[i])
			if err := tx.Create(lineModel).Error; err != nil {
				return apperrors.Wrap(err, "failed to create purchase line")
			}
			p.Lines[i].ID = lineModel.ID
			p.Lines[i].PurchaseID = p.ID
		}
		return nil
	})
}

// Delete 先删明细再删订单，同一事务
func (r *purchaseRepository) Delete(ctx context.Context, id uint) error {
	return withTx(ctx, r.db, func(tx *gorm.DB) error {
		if err := tx.Where("purchase_id = ?", id).Delete(&PurchaseLineModel{}).Error; err != nil {
			return apperrors.Wrap(err, "failed to delete purchase lines")
		}

		result := tx.Delete(&PurchaseModel{}, id)
		if result.Error != nil {
			return apperrors.Wrap(result.Error, "failed to delete purchase")
		}
		if result.RowsAffected == 0 {
			return purchase.NewPurchaseNotFound(id)
		}
		return nil
	})
}

func (r *purchaseRepository) List(ctx context.Context, params purchase.ListParams) ([]*purchase.Purchase, int64, error) {
	return r.list(ctx, getDB(ctx, r.db).Model(&PurchaseModel{}), params)
}

func (r *purchaseRepository) ListByUserID(ctx context.Context, userID uint, params purchase.ListParams) ([]*purchase.Purchase, int64, error) {
	query := getDB(ctx, r.db).Model(&PurchaseModel{}).Where("user_id = ?", userID)
	return r.list(ctx, query, params)
}

func (r *purchaseRepository) ListByStatus(ctx context.Context, status purchase.Status, params purchase.ListParams) ([]*purchase.Purchase, int64, error) {
	query := getDB(ctx, r.db).Model(&PurchaseModel{}).Where("status = ?", int(status))
	return r.list(ctx, query, params)
}

func (r *purchaseRepository) list(_ context.Context, query *gorm.DB, params purchase.ListParams) ([]*purchase.Purchase, int64, error) {
	params = params.Normalize()
	// Count和Find共用条件，Session保证两次查询互不影响
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "failed to count purchases")
	}
	if total == 0 {
		return []*purchase.Purchase{}, 0, nil
	}

	var models []PurchaseModel
	err := preloadLines(query).
		Order("created_at DESC").
		Order("id DESC").
		Scopes(paginate(params.Page, params.PageSize)).
		Find(&models).Error
	if err != nil {
		return nil, 0, apperrors.Wrap(err, "failed to list purchases")
	}

	purchases := make([]*purchase.Purchase, len(models))
	for i := range models {
		purchases[i] = toPurchaseEntity(&models[i])
	}
	return purchases, total, nil
}

func toPurchaseModel(p *purchase.Purchase) *PurchaseModel {
	model := &PurchaseModel{
		ID:          p.ID,
		UserID:      p.UserID,
		Status:      int(p.Status),
		Currency:    p.Currency,
		TotalAmount: p.TotalAmount,
		PaidAt:      p.PaidAt,
		CreatedAt:   p.CreatedAt,
		Lines:       make([]PurchaseLineModel, len(p.Lines)),
	}
	for i, line := range p.Lines {
		model.Lines[i] = *toLineModel(p.ID, line)
	}
	return model
}

func toLineModel(purchaseID uint, line purchase.Line) *PurchaseLineModel {
	return &PurchaseLineModel{
		ID:                  line.ID,
		PurchaseID:          purchaseID,
		GameID:              line.GameID,
		Quantity:            line.Quantity,
		UnitPriceAtPurchase: line.UnitPriceAtPurchase,
		Currency:            line.Currency,
	}
}

func toPurchaseEntity(model *PurchaseModel) *purchase.Purchase {
	p := &purchase.Purchase{
		ID:          model.ID,
		UserID:      model.UserID,
		Status:      purchase.Status(model.Status),
		Currency:    model.Currency,
		TotalAmount: model.TotalAmount,
		PaidAt:      model.PaidAt,
		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
		Lines:       make([]purchase.Line, len(model.Lines)),
	}
	for i, lm := range model.Lines {
		p.Lines[i] = purchase.Line{
			ID:                  lm.ID,
			PurchaseID:          lm.PurchaseID,
			GameID:              lm.GameID,
			Quantity:            lm.Quantity,
			UnitPriceAtPurchase: lm.UnitPriceAtPurchase,
			Currency:            lm.Currency,
		}
	}
	return p
}
