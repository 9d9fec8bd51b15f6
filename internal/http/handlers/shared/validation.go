package shared

import (
	"errors"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/ciudad-suerte/internal/http/response"
	"github.com/ciudad-suerte/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// DateLayout 请求中的日期格式
const DateLayout = "2006-01-02"

var (
	slotTimePattern  = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)
	registerOnce     sync.Once
	registerErr      error
	customValidators = map[string]validator.Func{
		"hhmm":        validateSlotTime,
		"national_id": validateNationalID,
		"birthdate":   validateBirthDate,
	}
)

// RegisterValidators 向 gin 的校验引擎注册自定义 tag，可重复调用
func RegisterValidators() error {
	registerOnce.Do(func() {
		engine, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			registerErr = errors.New("gin validator engine is not validator/v10")
			return
		}
		for tag, fn := range customValidators {
			if err := engine.RegisterValidation(tag, fn); err != nil {
				registerErr = err
				return
			}
		}
	})
	return registerErr
}

func validateSlotTime(fl validator.FieldLevel) bool {
	return slotTimePattern.MatchString(strings.TrimSpace(fl.Field().String()))
}

func validateNationalID(fl validator.FieldLevel) bool {
	return service.ValidIDNumber(fl.Field().String())
}

// validateBirthDate YYYY-MM-DD 且不晚于今天；年龄下限由登记流程判断
func validateBirthDate(fl validator.FieldLevel) bool {
	parsed, err := time.Parse(DateLayout, strings.TrimSpace(fl.Field().String()))
	if err != nil {
		return false
	}
	return !parsed.After(time.Now())
}

// BindJSON 绑定并校验请求体，失败时写 400 响应
func BindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fe.Field())
			}
			RequestLog(c).Debugw("request_validation_failed", "fields", fields)
			RespondError(c, response.CodeBadRequest, "error.validation_failed", nil)
			return false
		}
		RespondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return false
	}
	return true
}
