package review

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

const (
	MinRating        = 1
	MaxRating        = 5
	MaxCommentLength = 2000
)

// Review 玩家对游戏的评价
type Review struct {
	ID        uint
	UserID    uint // 作者
	GameID    uint
	Rating    int    // 1~5
	Comment   string // 可为空
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Stats 游戏评分统计，没有评价时Average为0
type Stats struct {
	GameID  uint
	Count   int64
	Average decimal.Decimal
}

// New 创建评价，评论去除首尾空白
func New(userID, gameID uint, rating int, comment string, now time.Time) (*Review, error) {
	comment, err := validate(rating, comment)
	if err != nil {
		return nil, err
	}
	return &Review{
		UserID:    userID,
		GameID:    gameID,
		Rating:    rating,
		Comment:   comment,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Edit 修改评分和评论，作者和游戏不可修改
func (r *Review) Edit(rating int, comment string, now time.Time) error {
	comment, err := validate(rating, comment)
	if err != nil {
		return err
	}
	r.Rating = rating
	r.Comment = comment
	r.UpdatedAt = now
	return nil
}

// IsWrittenBy 是否为该用户所写
func (r *Review) IsWrittenBy(userID uint) bool {
	return r.UserID == userID
}

func validate(rating int, comment string) (string, error) {
	if rating < MinRating || rating > MaxRating {
		return "", ErrInvalidRating
	}
	comment = strings.TrimSpace(comment)
	if utf8.RuneCountInString(comment) > MaxCommentLength {
		return "", ErrCommentTooLong
	}
	return comment, nil
}
