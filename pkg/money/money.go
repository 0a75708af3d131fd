// Package money 金额与币种的通用处理
// 金额统一使用decimal.Decimal，数据库列为decimal(10,2)
package money

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Scale 金额小数位数
const Scale = 2

// MaxAmount decimal(10,2)能表示的最大值
var MaxAmount = decimal.RequireFromString("99999999.99")

// NormalizeCurrency 去空格转大写，返回值为空表示格式不合法（必须是3位字母）
func NormalizeCurrency(currency string) string {
	code := strings.ToUpper(strings.TrimSpace(currency))
	if len(code) != 3 {
		return ""
	}
	for _, r := range code {
		if r < 'A' || r > 'Z' {
			return ""
		}
	}
	return code
}

// IsValidAmount 非负、不超过MaxAmount、最多两位小数
func IsValidAmount(amount decimal.Decimal) bool {
	if amount.IsNegative() || amount.GreaterThan(MaxAmount) {
		return false
	}
	return amount.Equal(amount.Round(Scale))
}

// Format 固定两位小数的字符串，例如 "59.98"
func Format(amount decimal.Decimal) string {
	return amount.StringFixed(Scale)
}
