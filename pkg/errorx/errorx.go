package errorx

import (
	"errors"
	"fmt"
)

// CodeError 带业务错误码的自定义错误
// 实现了 error 接口，支持 %w 包装底层错误，且能被 errors.Is/errors.As 识别
type CodeError struct {
	Code  int    // 业务错误码
	Msg   string // 错误消息（用于界面横幅展示）
	cause error  // 被包装的底层错误
}

// Error 实现标准 error 接口
// 当存在底层错误时，返回格式为 "消息: 底层错误"；否则仅返回消息
func (e *CodeError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.cause)
	}
	return e.Msg
}

// Unwrap 实现 errors.Unwrap 接口，支持 errors.Is/errors.As 向下追溯
func (e *CodeError) Unwrap() error {
	return e.cause
}

// New 创建一个新的 CodeError
func New(code int, msg string) *CodeError {
	return &CodeError{
		Code: code,
		Msg:  msg,
	}
}

// Newf 创建一个带格式化消息的 CodeError
func Newf(code int, format string, args ...any) *CodeError {
	return &CodeError{
		Code: code,
		Msg:  fmt.Sprintf(format, args...),
	}
}

// Wrap 包装底层错误，添加业务错误码和消息
// 用法: errorx.Wrap(err, CodeRequestFailed, "消息发送失败")
func Wrap(err error, code int, msg string) *CodeError {
	return &CodeError{
		Code:  code,
		Msg:   msg,
		cause: err,
	}
}

// Wrapf 包装底层错误，支持格式化消息
func Wrapf(err error, code int, format string, args ...any) *CodeError {
	return &CodeError{
		Code:  code,
		Msg:   fmt.Sprintf(format, args...),
		cause: err,
	}
}

// GetCode 从错误中提取业务错误码，如果不是 CodeError 则返回默认码
func GetCode(err error) int {
	var codeErr *CodeError
	if errors.As(err, &codeErr) {
		return codeErr.Code
	}
	return CodeRequestFailed
}

// 业务状态码常量定义
const (
	CodeSuccess         = 1000 // 成功
	CodeInvalidParam    = 1001 // 请求参数错误
	CodeUnauthorized    = 1002 // 未授权（403/401，不可重试）
	CodeNotFound        = 1003 // 资源不存在
	CodeRequestFailed   = 1004 // 通用请求失败（网络错误或非 2xx）
	CodeServerBusy      = 1005 // 服务繁忙
	CodeConnLost        = 1006 // 推送连接断开（自动重连中）
	CodeReconnectFailed = 1007 // 重连次数耗尽（终态，需手动刷新）
)

// 预定义常用错误实例
// 这些实例既可直接返回，也可用于 errors.Is 比较
var (
	ErrInvalidParam    = New(CodeInvalidParam, "请求参数错误")
	ErrNotAuthorized   = New(CodeUnauthorized, "没有权限与该用户对话")
	ErrNotFound        = New(CodeNotFound, "资源不存在")
	ErrRequestFailed   = New(CodeRequestFailed, "加载/发送失败，请重试")
	ErrConnLost        = New(CodeConnLost, "连接已断开，正在重连…")
	ErrReconnectFailed = New(CodeReconnectFailed, "无法重新连接，请刷新页面")
)

// IsUnauthorized 检查错误是否为未授权类型
// 界面层据此展示"没有权限"而非通用失败文案
func IsUnauthorized(err error) bool {
	var codeErr *CodeError
	return errors.As(err, &codeErr) && codeErr.Code == CodeUnauthorized
}

// IsNotFound 检查错误是否为"未找到"类型
func IsNotFound(err error) bool {
	var codeErr *CodeError
	return errors.As(err, &codeErr) && codeErr.Code == CodeNotFound
}
