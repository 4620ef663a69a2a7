package service

import (
	"errors"
	"sort"
	"strings"

	"github.com/dualpascal/blog-api/pkg/validate"
	"gorm.io/gorm"
)

var (
	// ErrNotFound 资源不存在，也用于他人的资源
	ErrNotFound = errors.New("资源不存在")
	// ErrForbidden 无权操作
	ErrForbidden = errors.New("无权操作")
	// ErrTranslationExists 原文已有译文
	ErrTranslationExists = errors.New("该文章已有译文")
	// ErrInvalidCredentials 用户名或密码错误
	ErrInvalidCredentials = errors.New("用户名或密码错误")
	// ErrAccountSuspended 账号已停用
	ErrAccountSuspended = errors.New("账号已停用")
	// ErrPreviewFailed 预览渲染失败
	ErrPreviewFailed = errors.New("预览失败")
	// ErrCaptcha 验证码错误
	ErrCaptcha = errors.New("验证码错误")
)

// ValidationError 字段校验错误，记录不会被保存
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "参数校验失败: " + strings.Join(parts, "; ")
}

// invalid 单字段校验错误
func invalid(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: msg}}
}

// validateStruct 校验请求结构体
func validateStruct(req interface{}) error {
	if fields := validate.Struct(req); fields != nil {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// IsValidation 是否校验错误
func IsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

// notFound 将记录不存在转换为 ErrNotFound
func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

// pageOffset 计算偏移量，页码从1开始
func pageOffset(page, size int) (int, int) {
	if page < 1 {
		page = 1
	}
	return page, (page - 1) * size
}
