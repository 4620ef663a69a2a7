package validate

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var httpURLPattern = regexp.MustCompile(`^(http|https)://.+$`)

// IsHTTPURL 是否http(s)地址
func IsHTTPURL(s string) bool {
	return httpURLPattern.MatchString(s)
}

var (
	validate = validator.New()
	once     sync.Once
)

// 错误信息模板
var msgMap = map[string]string{
	"required": "不能为空",
	"min":      "长度不能小于%v",
	"max":      "长度不能大于%v",
	"email":    "必须是有效的邮箱地址",
	"httpurl":  "必须以http://或https://开头",
	"oneof":    "必须是[%v]中的一个",
	"locale":   "不支持的语言",
	"alphanum": "只能包含字母和数字",
	"gte":      "必须大于等于%v",
	"lte":      "必须小于等于%v",
}

// Register 注册自定义校验规则
func Register(v *validator.Validate) {
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"json", "form"} {
			name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return fld.Name
	})
	_ = v.RegisterValidation("httpurl", func(fl validator.FieldLevel) bool {
		return IsHTTPURL(fl.Field().String())
	})
	_ = v.RegisterValidation("locale", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return s == "ja" || s == "en"
	})
}

// instance 与gin共用 binding 标签
func instance() *validator.Validate {
	once.Do(func() {
		validate.SetTagName("binding")
		Register(validate)
	})
	return validate
}

// RegisterGin 将自定义规则注册到gin的绑定校验器
func RegisterGin() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		Register(v)
	}
}

// Struct 校验结构体，返回字段名到错误信息的映射，无错误时返回nil
func Struct(i interface{}) map[string]string {
	err := instance().Struct(i)
	if err == nil {
		return nil
	}
	return Fields(err)
}

// Fields 将校验错误转换为字段错误映射
func Fields(err error) map[string]string {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return map[string]string{"_": err.Error()}
	}
	fields := make(map[string]string, len(errs))
	for _, e := range errs {
		if _, exists := fields[e.Field()]; exists {
			continue
		}
		fields[e.Field()] = Message(e)
	}
	return fields
}

// Message 单个字段错误的中文描述
func Message(e validator.FieldError) string {
	tmpl, ok := msgMap[e.Tag()]
	if !ok {
		return "验证失败"
	}
	if e.Param() != "" && strings.Contains(tmpl, "%v") {
		return fmt.Sprintf(tmpl, e.Param())
	}
	return tmpl
}
