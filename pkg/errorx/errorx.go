package errorx

import (
	"errors"
	"fmt"
)

// CodeError 带业务错误码的自定义错误
// 实现了 error 接口，支持 %w 包装底层错误，且能被 errors.Is/errors.As 识别
type CodeError struct {
	Code   int               // 业务错误码
	Msg    string            // 错误消息
	Fields map[string]string // 字段级错误（仅 CodeInvalidParam 使用）
	cause  error             // 被包装的底层错误
}

// Error 实现 Go 标准 error 接口
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

// Is 按业务错误码比较，使预定义实例可直接用于 errors.Is
func (e *CodeError) Is(target error) bool {
	var t *CodeError
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code
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
// 用法: errorx.Wrap(err, CodeNotFound, "群组不存在")
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

// NewValidation 创建字段级校验错误
// fields: 字段名 -> 提示信息
func NewValidation(fields map[string]string) *CodeError {
	return &CodeError{
		Code:   CodeInvalidParam,
		Msg:    ErrInvalidParam.Msg,
		Fields: fields,
	}
}

// GetCode 从错误中提取业务错误码，如果不是 CodeError 则返回默认码
func GetCode(err error) int {
	var codeErr *CodeError
	if errors.As(err, &codeErr) {
		return codeErr.Code
	}
	return CodeServerBusy // 默认返回服务繁忙
}

// 业务状态码常量定义
const (
	CodeSuccess              = 1000 // 成功
	CodeInvalidParam         = 1001 // 请求参数错误（ValidationError）
	CodeUserExist            = 1002 // 用户已存在
	CodeUserNotExist         = 1003 // 用户不存在
	CodeInvalidPassword      = 1004 // 密码错误
	CodeServerBusy           = 1005 // 服务繁忙
	CodeUnauthorized         = 1006 // 未授权/认证失败
	CodeForbidden            = 1007 // 无权限
	CodeNotFound             = 1008 // 资源不存在
	CodeDuplicate            = 1009 // 唯一约束冲突
	CodeStoreUnavailable     = 1010 // 存储不可用
	CodeCacheError           = 1011 // 缓存错误
	CodeInvalidTransition    = 1012 // 非法状态流转
	CodeUnsupportedOperation = 1013 // 存储降级，操作不可用
	CodeConflict             = 1014 // 并发修改冲突
	CodeDuplicateSlug        = 1015 // slug 已被占用
)

// 预定义常用错误实例
// 这些实例既可直接返回，也可用于 errors.Is 比较
var (
	ErrInvalidParam         = New(CodeInvalidParam, "请求参数错误")
	ErrServerBusy           = New(CodeServerBusy, "服务繁忙")
	ErrUnauthorized         = New(CodeUnauthorized, "请先登录")
	ErrForbidden            = New(CodeForbidden, "无权执行该操作")
	ErrNotFound             = New(CodeNotFound, "资源不存在")
	ErrStoreUnavailable     = New(CodeStoreUnavailable, "存储服务暂不可用，请稍后重试")
	ErrUnsupportedOperation = New(CodeUnsupportedOperation, "当前存储不支持审核状态，操作未生效")
	ErrConflict             = New(CodeConflict, "数据已被其他请求修改，请刷新后重试")
	ErrDuplicateSlug        = New(CodeDuplicateSlug, "slug 已被占用")
)

// IsNotFound 检查错误是否为"未找到"类型
func IsNotFound(err error) bool {
	return GetCode(err) == CodeNotFound
}
