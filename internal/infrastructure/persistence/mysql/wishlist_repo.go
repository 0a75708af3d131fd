package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/xiebiao/gamesup/internal/domain/wishlist"
	apperrors "github.com/xiebiao/gamesup/pkg/errors"
)

type wishlistRepository struct {
	db *gorm.DB
}

// NewWishlistRepository 创建愿望单仓储
func NewWishlistRepository(db *gorm.DB) wishlist.Repository {
	return &wishlistRepository{db: db}
}

func preloadItems(db *gorm.DB) *gorm.DB {
	return db.Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("wishlist_items.id ASC")
	})
}

// Ensure INSERT ... ON DUPLICATE KEY UPDATE，user_id唯一索引保证并发首次访问只建一行
func (r *wishlistRepository) Ensure(ctx context.Context, userID uint) error {
	err := getDB(ctx, r.db).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&WishlistModel{UserID: userID}).Error
	if err != nil {
		return apperrors.Wrap(err, "failed to create wishlist")
	}
	return nil
}

func (r *wishlistRepository) FindByUserID(ctx context.Context, userID uint) (*wishlist.Wishlist, error) {
	return r.find(getDB(ctx, r.db), userID)
}

// LockByUserID 锁住愿望单行直到事务结束
func (r *wishlistRepository) LockByUserID(ctx context.Context, userID uint) (*wishlist.Wishlist, error) {
	return r.find(getDB(ctx, r.db).Clauses(clause.Locking{Strength: "UPDATE"}), userID)
}

func (r *wishlistRepository) find(db *gorm.DB, userID uint) (*wishlist.Wishlist, error) {
	var model WishlistModel
	if err := preloadItems(db).Where("user_id = ?", userID).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, apperrors.Wrap(err, "failed to query wishlist")
	}
	return toWishlistEntity(&model), nil
}

// Save 删除不在聚合中的明细，插入ID为0的新明细
func (r *wishlistRepository) Save(ctx context.Context, w *wishlist.Wishlist) error {
	return withTx(ctx, r.db, func(tx *gorm.DB) error {
		result := tx.Model(&WishlistModel{ID: w.ID}).Update("updated_at", w.UpdatedAt)
		if result.Error != nil {
			return apperrors.Wrap(result.Error, "failed to update wishlist")
		}

		keep := make([]uint, 0, len(w.Items))
		for _, item := range w.Items {
			if item.ID != 0 {
				keep = append(keep, item.ID)
			}
		}
		del := tx.Where("wishlist_id = ?", w.ID)
		if len(keep) > 0 {
			del = del.Where("id NOT IN ?", keep)
		}
		if err := del.Delete(&WishlistItemModel{}).Error; err != nil {
			return apperrors.Wrap(err, "failed to delete wishlist items")
		}

		for i := range w.Items {
			if w.Items[i].ID != 0 {
				continue
			}
			itemModel := &WishlistItemModel{WishlistID: w.ID, GameID: w.Items[i].GameID, AddedAt: w.Items[i].AddedAt}
			if err := tx.Create(itemModel).Error; err != nil {
				if isDuplicateError(err) {
					return wishlist.NewAlreadyInWishlist(w.Items[i].GameID)
				}
				return apperrors.Wrap(err, "failed to create wishlist item")
			}
			w.Items[i].ID = itemModel.ID
			w.Items[i].WishlistID = w.ID
		}
		return nil
	})
}

func toWishlistEntity(model *WishlistModel) *wishlist.Wishlist {
	w := &wishlist.Wishlist{
		ID:        model.ID,
		UserID:    model.UserID,
		Items:     make([]wishlist.Item, len(model.Items)),
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
	for i, item := range model.Items {
		w.Items[i] = wishlist.Item{
			ID:         item.ID,
			WishlistID: item.WishlistID,
			GameID:     item.GameID,
			AddedAt:    item.AddedAt,
		}
	}
	return w
}
