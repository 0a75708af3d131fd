package dto

// PublishGameRequest 发布游戏
// 价格使用字符串传输，避免浮点误差
type PublishGameRequest struct {
	Title       string `json:"title" binding:"required,max=200" example:"Hollow Knight"`
	Description string `json:"description" binding:"max=5000" example:"A challenging 2D action-adventure"`
	BasePrice   string `json:"base_price" binding:"required" example:"14.99"`
	Currency    string `json:"currency" binding:"required" example:"EUR"`
}

// UpdatePriceRequest 修改价格
type UpdatePriceRequest struct {
	Price string `json:"price" binding:"required" example:"9.99"`
}

// ListGamesRequest 游戏列表查询
type ListGamesRequest struct {
	Page     int    `form:"page" binding:"omitempty,min=1" example:"1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100" example:"20"`
	Keyword  string `form:"keyword" binding:"omitempty,max=100" example:"knight"`
	SortBy   string `form:"sort_by" binding:"omitempty,oneof=price_asc price_desc created_at_desc" example:"created_at_desc"`
}
