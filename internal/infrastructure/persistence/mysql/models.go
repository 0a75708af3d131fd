package mysql

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// UserModel 用户表
type UserModel struct {
	ID        uint           `gorm:"primaryKey"`
	Email     string         `gorm:"uniqueIndex;size:100;not null;comment:邮箱"`
	Password  string         `gorm:"size:255;not null;comment:密码（bcrypt）"`
	Nickname  string         `gorm:"size:50;not null;comment:昵称"`
	Role      string         `gorm:"size:16;not null;default:USER;comment:角色(USER/ADMIN)"`
	CreatedAt time.Time      `gorm:"comment:创建时间"`
	UpdatedAt time.Time      `gorm:"comment:更新时间"`
	DeletedAt gorm.DeletedAt `gorm:"index;comment:删除时间（软删除）"`
}

func (UserModel) TableName() string {
	return "users"
}

// GameModel 游戏目录表
type GameModel struct {
	ID          uint            `gorm:"primaryKey"`
	Title       string          `gorm:"index:idx_search;size:200;not null;comment:标题"`
	Slug        string          `gorm:"uniqueIndex;size:220;not null;comment:URL标识"`
	Description string          `gorm:"type:text;comment:描述"`
	BasePrice   decimal.Decimal `gorm:"type:decimal(10,2);index:idx_list;not null;comment:当前售价"`
	Currency    string          `gorm:"type:char(3);not null;comment:币种"`
	PublisherID uint            `gorm:"index;not null;comment:发布者用户ID"`
	CreatedAt   time.Time       `gorm:"index:idx_list;comment:创建时间"`
	UpdatedAt   time.Time       `gorm:"comment:更新时间"`
	DeletedAt   gorm.DeletedAt  `gorm:"index;comment:删除时间（软删除）"`
}

func (GameModel) TableName() string {
	return "games"
}

// PurchaseModel 订单表
// 订单只能通过管理端接口物理删除，因此没有DeletedAt
type PurchaseModel struct {
	ID          uint                `gorm:"primaryKey"`
	UserID      uint                `gorm:"index;not null;comment:下单用户ID"`
	Status      int                 `gorm:"index;type:tinyint;not null;default:1;comment:状态(1待支付2已支付3已发货4已签收5已取消)"`
	Currency    string              `gorm:"type:char(3);not null;comment:币种"`
	TotalAmount decimal.Decimal     `gorm:"type:decimal(10,2);not null;default:0;comment:总金额(由明细计算)"`
	PaidAt      *time.Time          `gorm:"comment:支付时间"`
	Lines       []PurchaseLineModel `gorm:"foreignKey:PurchaseID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time           `gorm:"index;comment:创建时间"`
	UpdatedAt   time.Time           `gorm:"comment:更新时间"`
}

func (PurchaseModel) TableName() string {
	return "purchases"
}

// PurchaseLineModel 订单明细表
type PurchaseLineModel struct {
	ID                  uint            `gorm:"primaryKey"`
	PurchaseID          uint            `gorm:"index;not null;comment:订单ID"`
	GameID              uint            `gorm:"index;not null;comment:游戏ID"`
	Quantity            int             `gorm:"not null;comment:数量"`
	UnitPriceAtPurchase decimal.Decimal `gorm:"type:decimal(10,2);not null;comment:加入时单价快照"`
	Currency            string          `gorm:"type:char(3);not null;comment:币种快照"`
}

func (PurchaseLineModel) TableName() string {
	return "purchase_lines"
}

// ReviewModel 评价表，同一用户可对同一游戏写多条评价
type ReviewModel struct {
	ID        uint      `gorm:"primaryKey"`
	UserID    uint      `gorm:"index;not null;comment:作者用户ID"`
	GameID    uint      `gorm:"index:idx_game_created;not null;comment:游戏ID"`
	Rating    int       `gorm:"type:tinyint;not null;comment:评分(1-5)"`
	Comment   string    `gorm:"type:text;comment:评论"`
	CreatedAt time.Time `gorm:"index:idx_game_created;comment:创建时间"`
	UpdatedAt time.Time `gorm:"comment:更新时间"`
}

func (ReviewModel) TableName() string {
	return "reviews"
}

// WishlistModel 愿望单表，每个用户一行
type WishlistModel struct {
	ID        uint                `gorm:"primaryKey"`
	UserID    uint                `gorm:"uniqueIndex;not null;comment:用户ID"`
	Items     []WishlistItemModel `gorm:"foreignKey:WishlistID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time           `gorm:"comment:创建时间"`
	UpdatedAt time.Time           `gorm:"comment:更新时间"`
}

func (WishlistModel) TableName() string {
	return "wishlists"
}

// WishlistItemModel 愿望单明细表
type WishlistItemModel struct {
	ID         uint      `gorm:"primaryKey"`
	WishlistID uint      `gorm:"uniqueIndex:idx_wishlist_game;not null;comment:愿望单ID"`
	GameID     uint      `gorm:"uniqueIndex:idx_wishlist_game;index;not null;comment:游戏ID"`
	AddedAt    time.Time `gorm:"not null;comment:加入时间"`
}

func (WishlistItemModel) TableName() string {
	return "wishlist_items"
}
