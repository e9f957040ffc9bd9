package validator

import (
	"fmt"
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"jadwal-kuliah/internal/model"
)

var hhmmPattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

// IsHHMM 是否为补零的 24 小时制 "HH:MM"
func IsHHMM(s string) bool {
	return hhmmPattern.MatchString(s)
}

// Register 在 gin 默认校验引擎上注册业务校验标签：
//
//	period  PAGI | SIANG | SORE
//	day     SENIN .. SABTU
//	hhmm    "07:00"
func Register() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("gin 校验引擎不是 validator/v10")
	}
	return RegisterOn(v)
}

// RegisterOn 在指定的 validator 实例上注册业务校验标签
func RegisterOn(v *validator.Validate) error {
	rules := map[string]validator.Func{
		"period": func(fl validator.FieldLevel) bool {
			return model.Period(fl.Field().String()).Valid()
		},
		"day": func(fl validator.FieldLevel) bool {
			return model.Day(fl.Field().String()).Valid()
		},
		"hhmm": func(fl validator.FieldLevel) bool {
			return IsHHMM(fl.Field().String())
		},
	}
	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return fmt.Errorf("注册校验标签 %s 失败: %w", tag, err)
		}
	}
	return nil
}
