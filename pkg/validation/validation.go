package validation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var (
	slugRe     = regexp.MustCompile(`^[a-z0-9_-]+$`)
	usernameRe = regexp.MustCompile(`^[\w.@+-]+$`)
)

// ValidSlug 分组 slug：小写字母、数字、- 和 _
func ValidSlug(s string) bool { return len(s) <= 100 && slugRe.MatchString(s) }

// ValidUsername 与注册表单一致：字母数字和 @.+-_，最长 150
func ValidUsername(s string) bool { return len(s) <= 150 && usernameRe.MatchString(s) }

// NotBlank 去掉空白后非空
func NotBlank(s string) bool { return strings.TrimSpace(s) != "" }

// Register 在 validator 上注册自定义规则：notblank、slug、username
func Register(v *validator.Validate) error {
	rules := map[string]func(string) bool{
		"notblank": NotBlank,
		"slug":     ValidSlug,
		"username": ValidUsername,
	}
	for tag, fn := range rules {
		fn := fn
		if err := v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
			return fn(fl.Field().String())
		}); err != nil {
			return fmt.Errorf("register %s: %w", tag, err)
		}
	}
	return nil
}

// RegisterGin 注册到 gin 的默认 binding 校验器
func RegisterGin() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected gin validator engine %T", binding.Validator.Engine())
	}
	return Register(v)
}

// Messages 把 validator 错误转成 字段 -> 提示
func Messages(err error) map[string]string {
	out := map[string]string{}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		out["non_field_errors"] = err.Error()
		return out
	}
	for _, fe := range verrs {
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required", "notblank":
			out[field] = "this field is required"
		case "max":
			out[field] = fmt.Sprintf("must be at most %s characters", fe.Param())
		case "min":
			out[field] = fmt.Sprintf("must be at least %s characters", fe.Param())
		default:
			out[field] = fmt.Sprintf("failed %s validation", fe.Tag())
		}
	}
	return out
}
