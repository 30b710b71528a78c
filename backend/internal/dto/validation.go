package dto

import (
	"github.com/go-playground/validator/v10"

	"peopledesk/backend/internal/model"
)

// RegisterValidators 注册请求 DTO 使用的自定义校验标签
func RegisterValidators(v *validator.Validate) error {
	return v.RegisterValidation("isodate", func(fl validator.FieldLevel) bool {
		_, err := model.ParseDate(fl.Field().String())
		return err == nil
	})
}
