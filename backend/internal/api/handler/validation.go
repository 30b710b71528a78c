package handler

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"peopledesk/backend/internal/dto"
)

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		if err := dto.RegisterValidators(v); err != nil {
			panic(fmt.Sprintf("注册校验器失败: %v", err))
		}
		// 错误信息使用 json 字段名
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				return f.Name
			}
			return name
		})
	}
}

// validationDetail 将绑定错误转换为简短的客户端提示
func validationDetail(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return "请求体格式错误"
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			parts = append(parts, fe.Field()+" 为必填项")
		case "isodate":
			parts = append(parts, fe.Field()+" 必须是日期（YYYY-MM-DD）")
		default:
			parts = append(parts, fmt.Sprintf("%s 未通过 %s 校验", fe.Field(), fe.Tag()))
		}
	}
	return strings.Join(parts, "; ")
}
