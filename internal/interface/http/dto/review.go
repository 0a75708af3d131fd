package dto

// WriteReviewRequest 发表评价，评分和评论长度由领域层校验
type WriteReviewRequest struct {
	Rating  int    `json:"rating" example:"5"`
	Comment string `json:"comment" example:"Best roguelike I've played"`
}

// UpdateReviewRequest 修改评价
type UpdateReviewRequest struct {
	Rating  int    `json:"rating" example:"4"`
	Comment string `json:"comment" example:"Still great after 100 hours"`
}

// ListReviewsRequest 评价列表分页
type ListReviewsRequest struct {
	Page     int `form:"page" binding:"omitempty,min=1" example:"1"`
	PageSize int `form:"page_size" binding:"omitempty,min=1,max=100" example:"20"`
}
