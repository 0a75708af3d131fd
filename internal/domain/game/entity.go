package game

import (
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Game 游戏目录条目
// BasePrice是当前售价，订单明细在加入时会复制一份快照，之后改价不影响已有订单
type Game struct {
	ID          uint
	Title       string
	Slug        string // 由标题生成，唯一
	Description string
	BasePrice   decimal.Decimal
	Currency    string
	PublisherID uint // 发布者（管理员）用户ID
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewGame 创建游戏（工厂方法），参数校验由Service负责
func NewGame(title, description string, basePrice decimal.Decimal, currency string, publisherID uint) *Game {
	now := time.Now()
	return &Game{
		Title:       strings.TrimSpace(title),
		Slug:        Slugify(title),
		Description: description,
		BasePrice:   basePrice,
		Currency:    currency,
		PublisherID: publisherID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// UpdatePrice 修改目录价格
func (g *Game) UpdatePrice(newPrice decimal.Decimal) error {
	if !isValidPrice(newPrice) {
		return ErrInvalidPrice
	}
	g.BasePrice = newPrice
	g.UpdatedAt = time.Now()
	return nil
}

var nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify "The Witcher 3: Wild Hunt" -> "the-witcher-3-wild-hunt"
func Slugify(title string) string {
	slug := nonAlphanumeric.ReplaceAllString(strings.ToLower(strings.TrimSpace(title)), "-")
	return strings.Trim(slug, "-")
}
