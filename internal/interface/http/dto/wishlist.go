package dto

// AddWishlistGameRequest 加入愿望单
type AddWishlistGameRequest struct {
	GameID uint `json:"game_id" example:"3"`
}

// WishlistContainsResponse 是否在愿望单中
type WishlistContainsResponse struct {
	GameID   uint `json:"game_id" example:"3"`
	Contains bool `json:"contains" example:"true"`
}
