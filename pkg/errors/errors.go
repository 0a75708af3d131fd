package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError 自定义应用错误
// 1. Code用于客户端判断错误类型，同一类错误共用一个码段
// 2. Message是可直接返回给调用方的提示信息（包含出错的ID或状态）
// 3. Err是内部错误，仅记录到日志，不返回给客户端
type AppError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

// Unwrap 支持errors.Is和errors.As
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is 按错误码比较
// Newf生成的带参数错误与同码的预定义错误视为同一种错误：
//
//	errors.Is(Newf(ErrCodePurchaseNotFound, "purchase not found with id: %d", 7), ErrPurchaseNotFound) == true
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// Kind 错误种类（由错误码段决定）
func (e *AppError) Kind() Kind {
	return KindOf(e.Code)
}

// HTTPStatus 错误种类对应的HTTP状态码
func (e *AppError) HTTPStatus() int {
	return e.Kind().HTTPStatus()
}

// New 创建新的AppError
func New(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Newf 创建带格式化信息的AppError
func Newf(code int, format string, args ...interface{}) *AppError {
	return &AppError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap 包装系统错误（如数据库错误、网络错误）
// 用途：将底层错误转换为业务错误，隐藏实现细节
func Wrap(err error, message string) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: message,
		Err:     err,
	}
}

// Wrapf 格式化包装错误
func Wrapf(err error, format string, args ...interface{}) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: fmt.Sprintf(format, args...),
		Err:     err,
	}
}

// =========================================
// 错误种类
// =========================================

// Kind 错误种类，调用方按种类映射传输层响应
type Kind int

const (
	KindInternal Kind = iota
	KindInvalidArgument
	KindNotFound
	KindInvalidState
	KindUnauthorized
	KindForbidden
)

func (k Kind) String() string {
	switch k {
	case KindInvalidArgument:
		return "InvalidArgument"
	case KindNotFound:
		return "NotFound"
	case KindInvalidState:
		return "InvalidState"
	case KindUnauthorized:
		return "Unauthorized"
	case KindForbidden:
		return "Forbidden"
	default:
		return "Internal"
	}
}

// HTTPStatus 400 / 404 / 409 / 401 / 403 / 500
func (k Kind) HTTPStatus() int {
	switch k {
	case KindInvalidArgument:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindInvalidState:
		return http.StatusConflict
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// KindOf 根据错误码段判断错误种类
func KindOf(code int) Kind {
	switch {
	case code == ErrCodeForbidden:
		return KindForbidden
	case code >= 40900 && code < 41000:
		return KindInvalidArgument
	case code >= 40400 && code < 40500:
		return KindNotFound
	case code >= 40100 && code < 40200:
		return KindUnauthorized
	case code >= 40000 && code < 40100:
		return KindInvalidState
	default:
		return KindInternal
	}
}

// =========================================
// 错误码定义
// =========================================
// 规范：
// - 400xx: 业务规则/状态冲突（InvalidState）
// - 401xx: 认证授权
// - 404xx: 资源不存在（NotFound）
// - 409xx: 参数错误（InvalidArgument）
// - 5xxxx: 服务端错误

const (
	// 系统级错误码（50000-50099）
	ErrCodeInternal      = 50000
	ErrCodeDatabaseError = 50001
	ErrCodeRedisError    = 50002

	// 认证授权错误（40100-40199）
	ErrCodeUnauthorized    = 40100 // 未登录
	ErrCodeInvalidToken    = 40101 // Token无效
	ErrCodeTokenExpired    = 40102 // Token过期
	ErrCodeInvalidPassword = 40103 // 密码错误
	ErrCodeForbidden       = 40104 // 无权限

	// 资源错误（40400-40499）
	ErrCodeNotFound         = 40400
	ErrCodeUserNotFound     = 40401
	ErrCodeGameNotFound     = 40402
	ErrCodePurchaseNotFound = 40403
	ErrCodeLineNotFound     = 40404
	ErrCodeReviewNotFound   = 40405
	ErrCodeNotInWishlist    = 40406

	// 业务规则错误（40000-40099）
	ErrCodeBusinessError         = 40000
	ErrCodeInvalidPurchaseStatus = 40002 // 状态不允许此操作
	ErrCodeEmailDuplicate        = 40003
	ErrCodeSlugDuplicate         = 40004
	ErrCodePurchaseNotMutable    = 40006 // 非PENDING状态不可修改明细
	ErrCodeEmptyPurchase         = 40007 // 空订单不可支付
	ErrCodeDuplicateEntry        = 40009
	ErrCodeAlreadyInWishlist     = 40010

	// 参数错误（40900-40999）
	ErrCodeInvalidParams   = 40900
	ErrCodeBindError       = 40901
	ErrCodeWeakPassword    = 40902
	ErrCodeInvalidQuantity = 40903
	ErrCodeInvalidCurrency = 40904
	ErrCodeInvalidPrice    = 40905
	ErrCodeInvalidStatus   = 40906
	ErrCodeAmountTooLarge  = 40907 // 金额超出decimal(10,2)范围
	ErrCodeInvalidRating   = 40908
)

// =========================================
// 预定义错误
// =========================================

var (
	// 系统错误
	ErrInternal      = New(ErrCodeInternal, "internal server error")
	ErrDatabaseError = New(ErrCodeDatabaseError, "database error")
	ErrRedisError    = New(ErrCodeRedisError, "cache service error")

	// 认证授权
	ErrUnauthorized    = New(ErrCodeUnauthorized, "login required")
	ErrInvalidToken    = New(ErrCodeInvalidToken, "invalid token")
	ErrTokenExpired    = New(ErrCodeTokenExpired, "token expired")
	ErrInvalidPassword = New(ErrCodeInvalidPassword, "invalid email or password")
	ErrForbidden       = New(ErrCodeForbidden, "permission denied")

	// 资源不存在
	ErrNotFound     = New(ErrCodeNotFound, "resource not found")
	ErrUserNotFound = New(ErrCodeUserNotFound, "user not found")
	ErrGameNotFound = New(ErrCodeGameNotFound, "game not found")

	// 业务规则
	ErrEmailDuplicate = New(ErrCodeEmailDuplicate, "email already registered")
	ErrSlugDuplicate  = New(ErrCodeSlugDuplicate, "a game with the same title already exists")
	ErrWeakPassword   = New(ErrCodeWeakPassword, "password must be 8-20 characters with letters and digits")

	// 参数错误
	ErrInvalidParams = New(ErrCodeInvalidParams, "invalid parameters")
	ErrBindError     = New(ErrCodeBindError, "malformed request")
)

// =========================================
// 辅助函数
// =========================================

// IsAppError 判断是否为AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError 提取AppError（如果不是AppError则包装成Internal错误）
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return Wrap(err, "internal server error")
}
