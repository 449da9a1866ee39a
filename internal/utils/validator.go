package utils

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"task-go/internal/models"
)

var validate *validator.Validate

// InitValidator 初始化验证器
func InitValidator() {
	validate = validator.New()

	// 注册自定义验证函数
	validate.RegisterValidation("taskstatus", validateTaskStatus)
}

// RegisterGinValidators 把自定义校验注册进gin的绑定引擎
func RegisterGinValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("taskstatus", validateTaskStatus)
	}
}

// GetValidator 获取验证器实例
func GetValidator() *validator.Validate {
	if validate == nil {
		InitValidator()
	}
	return validate
}

// validateTaskStatus 验证任务状态码
func validateTaskStatus(fl validator.FieldLevel) bool {
	return models.Status(fl.Field().String()).IsValid()
}

// ValidateStruct 验证结构体
func ValidateStruct(s interface{}) error {
	v := GetValidator()
	if err := v.Struct(s); err != nil {
		return formatValidationError(err)
	}
	return nil
}

// formatValidationError 格式化验证错误
func formatValidationError(err error) error {
	var errors []string

	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		for _, e := range validationErrors {
			field := e.Field()
			tag := e.Tag()
			param := e.Param()

			var message string
			switch tag {
			case "required":
				message = fmt.Sprintf("%s是必填字段", field)
			case "min":
				message = fmt.Sprintf("%s长度不能小于%s", field, param)
			case "max":
				message = fmt.Sprintf("%s长度不能大于%s", field, param)
			case "email":
				message = fmt.Sprintf("%s必须是有效的邮箱地址", field)
			case "hexcolor":
				message = fmt.Sprintf("%s必须是HEX颜色值，如 #FF0000", field)
			case "taskstatus":
				message = fmt.Sprintf("%s必须是 nao_iniciado/em_andamento/concluida 之一", field)
			default:
				message = fmt.Sprintf("%s验证失败: %s", field, tag)
			}

			errors = append(errors, message)
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("%s", strings.Join(errors, "; "))
	}

	return err
}
