// Package validation 提供全局参数校验引擎
// 同一个 validator 实例既作为 gin 的 binding.Validator，也供 Service 层直接校验入参，
// 校验失败统一转换为带字段级提示的 errorx.CodeError
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"community_server/pkg/errorx"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/locales/en"
	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	zh_translations "github.com/go-playground/validator/v10/translations/zh"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9\-_]+$`)

var (
	mu       sync.RWMutex
	validate *validator.Validate
	trans    ut.Translator
	once     sync.Once
)

// Init 按 locale 初始化校验引擎并替换 gin 默认的 Validator
// locale 取值 "en" 或 "zh"，其他值按 "en" 处理
func Init(locale string) error {
	v, t, err := build(locale)
	if err != nil {
		return err
	}
	mu.Lock()
	validate, trans = v, t
	mu.Unlock()
	binding.Validator = &ginValidator{}
	return nil
}

func build(locale string) (*validator.Validate, ut.Translator, error) {
	v := validator.New()
	// 与 gin 保持一致，规则写在 binding tag 中
	v.SetTagName("binding")

	// 提示信息使用 json 字段名（如 cover_image），而不是 Go 结构体字段名
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			name = strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		}
		return name
	})

	if err := v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		return slugPattern.MatchString(fl.Field().String())
	}); err != nil {
		return nil, nil, err
	}

	enT := en.New()
	zhT := zh.New()
	uni := ut.New(enT, zhT, enT)
	if locale != "zh" {
		locale = "en"
	}
	t, ok := uni.GetTranslator(locale)
	if !ok {
		return nil, nil, fmt.Errorf("uni.GetTranslator(%s) failed", locale)
	}

	var err error
	slugMsg := "{0} may only contain lowercase letters, digits, '-' and '_'"
	if locale == "zh" {
		err = zh_translations.RegisterDefaultTranslations(v, t)
		slugMsg = "{0}只能包含小写字母、数字、'-'和'_'"
	} else {
		err = en_translations.RegisterDefaultTranslations(v, t)
	}
	if err != nil {
		return nil, nil, err
	}

	err = v.RegisterTranslation("slug", t,
		func(ut ut.Translator) error { return ut.Add("slug", slugMsg, true) },
		func(ut ut.Translator, fe validator.FieldError) string {
			msg, _ := ut.T("slug", fe.Field())
			return msg
		})
	if err != nil {
		return nil, nil, err
	}
	return v, t, nil
}

// engine 未显式 Init 时使用英文提示
func engine() (*validator.Validate, ut.Translator) {
	once.Do(func() {
		mu.RLock()
		ready := validate != nil
		mu.RUnlock()
		if !ready {
			v, t, err := build("en")
			if err != nil {
				panic(err)
			}
			mu.Lock()
			if validate == nil {
				validate, trans = v, t
			}
			mu.Unlock()
		}
	})
	mu.RLock()
	defer mu.RUnlock()
	return validate, trans
}

// Struct 校验结构体，失败时返回 CodeInvalidParam 错误，Fields 为 字段名 -> 提示信息
func Struct(obj any) error {
	v, _ := engine()
	if err := v.Struct(obj); err != nil {
		return Translate(err)
	}
	return nil
}

// Translate 将 validator 错误转换为 errorx 校验错误，其他错误原样返回
func Translate(err error) error {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}
	_, t := engine()
	fields := make(map[string]string, len(validationErrs))
	for _, fe := range validationErrs {
		fields[fieldPath(fe)] = fe.Translate(t)
	}
	return errorx.NewValidation(fields)
}

// fieldPath 去掉顶层结构体名，如 CreateGroupRequest.slug -> slug
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

// ginValidator 实现 binding.StructValidator，让 ShouldBind 使用同一套规则
type ginValidator struct{}

func (g *ginValidator) ValidateStruct(obj any) error {
	if obj == nil {
		return nil
	}
	value := reflect.ValueOf(obj)
	if value.Kind() == reflect.Ptr {
		if value.IsNil() {
			return nil
		}
		value = value.Elem()
	}
	if value.Kind() != reflect.Struct {
		return nil
	}
	v, _ := engine()
	return v.Struct(obj)
}

func (g *ginValidator) Engine() any {
	v, _ := engine()
	return v
}
