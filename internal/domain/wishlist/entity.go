package wishlist

import (
	"time"
)

// Wishlist 用户愿望单，每个用户最多一个，首次访问时创建
type Wishlist struct {
	ID        uint
	UserID    uint
	Items     []Item // 按加入时间排序
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Item 愿望单中的一个游戏
type Item struct {
	ID         uint
	WishlistID uint
	GameID     uint
	AddedAt    time.Time
}

// New 创建空愿望单
func New(userID uint, now time.Time) (*Wishlist, error) {
	if userID == 0 {
		return nil, ErrInvalidUserID
	}
	return &Wishlist{UserID: userID, CreatedAt: now, UpdatedAt: now}, nil
}

// Contains 游戏是否已在愿望单中
func (w *Wishlist) Contains(gameID uint) bool {
	return w.indexOf(gameID) >= 0
}

// Add 加入游戏，重复加入返回InvalidState
func (w *Wishlist) Add(gameID uint, now time.Time) error {
	if gameID == 0 {
		return ErrInvalidGameID
	}
	if w.Contains(gameID) {
		return NewAlreadyInWishlist(gameID)
	}
	w.Items = append(w.Items, Item{WishlistID: w.ID, GameID: gameID, AddedAt: now})
	w.UpdatedAt = now
	return nil
}

// Remove 移除游戏，不在愿望单中返回NotFound
func (w *Wishlist) Remove(gameID uint, now time.Time) error {
	if gameID == 0 {
		return ErrInvalidGameID
	}
	i := w.indexOf(gameID)
	if i < 0 {
		return NewNotInWishlist(gameID)
	}
	w.Items = append(w.Items[:i], w.Items[i+1:]...)
	w.UpdatedAt = now
	return nil
}

// Clear 清空
func (w *Wishlist) Clear(now time.Time) {
	w.Items = nil
	w.UpdatedAt = now
}

// GameIDs 按加入顺序
func (w *Wishlist) GameIDs() []uint {
	ids := make([]uint, len(w.Items))
	for i, item := range w.Items {
		ids[i] = item.GameID
	}
	return ids
}

func (w *Wishlist) indexOf(gameID uint) int {
	for i, item := range w.Items {
		if item.GameID == gameID {
			return i
		}
	}
	return -1
}
