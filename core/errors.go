package core

import "strconv"

// DomainError 是领域层的统一错误类型。
//
// 设计原则：
//   - 所有领域层错误都使用此类型
//   - 提供错误代码（Code）和消息（Message）
//   - 支持错误检查函数（IsXXX）
//
// 使用场景：
//   - Store 错误：NOT_FOUND, UNAVAILABLE
//   - Registry 错误：UNREGISTERED
//   - Engine 错误：INVALID_INPUT
type DomainError struct {
	Code    string // 错误代码（如 "NOT_FOUND", "UNREGISTERED"）
	Message string // 错误消息
	Module  string // 模块名称（如 "store", "registry"）
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError 创建新的领域错误
func NewDomainError(module, code, message string) *DomainError {
	return &DomainError{
		Module:  module,
		Code:    code,
		Message: message,
	}
}

// GetDomainError 获取 DomainError，如果不是则返回 nil
func GetDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	if domainErr, ok := err.(*DomainError); ok {
		return domainErr
	}
	return nil
}

// 错误代码常量
const (
	ErrorCodeNotFound     = "NOT_FOUND"     // 资源不存在
	ErrorCodeUnregistered = "UNREGISTERED"  // 商品未注册（无 tag）
	ErrorCodeInvalidInput = "INVALID_INPUT" // 输入无效
	ErrorCodeUnavailable  = "UNAVAILABLE"   // 存储不可用
)

// 模块名称常量
const (
	ModuleStore    = "store"    // 存储模块
	ModuleRegistry = "registry" // 商品标签注册模块
	ModuleEngine   = "engine"   // 推荐计算模块
	ModuleBatch    = "batch"    // 批量任务模块
)

// UnregisteredGoods 构造"商品未注册"错误
func UnregisteredGoods(goodsID string) *DomainError {
	return NewDomainError(ModuleRegistry, ErrorCodeUnregistered,
		"registry: goods "+strconv.Quote(goodsID)+" not registered")
}

// 通用错误检查函数

// IsNotFound 检查错误是否为 NOT_FOUND
func IsNotFound(err error) bool {
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == ErrorCodeNotFound
	}
	return false
}

// IsUnregistered 检查错误是否为 UNREGISTERED
func IsUnregistered(err error) bool {
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == ErrorCodeUnregistered
	}
	return false
}

// IsInvalidInput 检查错误是否为 INVALID_INPUT
func IsInvalidInput(err error) bool {
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == ErrorCodeInvalidInput
	}
	return false
}
