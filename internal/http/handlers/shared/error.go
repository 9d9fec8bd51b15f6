package shared

import (
	"errors"

	"github.com/ciudad-suerte/internal/constants"
	"github.com/ciudad-suerte/internal/http/response"
	"github.com/ciudad-suerte/internal/i18n"
	"github.com/ciudad-suerte/internal/logger"
	"github.com/ciudad-suerte/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequestLog 提供携带 request_id 的日志实例。
func RequestLog(c *gin.Context) *zap.SugaredLogger {
	if c == nil {
		return logger.S()
	}
	if id := c.GetString(constants.CtxKeyRequestID); id != "" {
		return logger.SW("request_id", id)
	}
	return logger.S()
}

// RespondError 返回国际化错误响应，并在有原始错误时记录日志。
func RespondError(c *gin.Context, code int, key string, err error) {
	RespondErrorf(c, code, key, err)
}

// RespondErrorf 带参数的国际化错误响应。
func RespondErrorf(c *gin.Context, code int, key string, err error, args ...interface{}) {
	logHandlerError(c, response.WrapError(code, key, err))
	response.Error(c, code, i18n.Sprintf(i18n.ResolveLocale(c), key, args...))
}

// RespondErrorWithMsg 返回自定义消息错误响应，并在有原始错误时记录日志。
func RespondErrorWithMsg(c *gin.Context, code int, msg string, err error) {
	logHandlerError(c, response.WrapError(code, "", err))
	response.Error(c, code, msg)
}

// logHandlerError 只记录带原始错误的响应
func logHandlerError(c *gin.Context, appErr *response.AppError) {
	if appErr == nil || appErr.Err == nil {
		return
	}
	log := RequestLog(c)
	if appErr.Code >= response.CodeInternal {
		log.Errorw("handler_error", "code", appErr.Code, "key", appErr.Key, "error", appErr.Err)
		return
	}
	log.Warnw("handler_error", "code", appErr.Code, "key", appErr.Key, "error", appErr.Err)
}

// LocalizeCheck 按请求语言生成校验结果文案；厅服务返回的拒绝原因原样透传。
func LocalizeCheck(c *gin.Context, result service.CheckResult) string {
	return localizeRule(i18n.ResolveLocale(c), result.Key, result.Message, result.Args, result.Cause)
}

func localizeRule(locale, key, message string, args []interface{}, cause error) string {
	if errors.Is(cause, service.ErrVoucherRejected) && message != "" {
		return message
	}
	if key != "" && i18n.Has(key) {
		return i18n.Sprintf(locale, key, args...)
	}
	if message != "" {
		return message
	}
	return i18n.T(locale, "error.bad_request")
}

// RespondCheck 返回校验拒绝，data 中附带 is_valid 与 message。
func RespondCheck(c *gin.Context, result service.CheckResult) {
	msg := LocalizeCheck(c, result)
	response.ErrorWithData(c, checkCode(result.Cause), msg, gin.H{
		"is_valid": false,
		"message":  msg,
	})
}

func checkCode(cause error) int {
	for _, rule := range serviceErrorRules {
		if errors.Is(cause, rule.target) {
			return rule.code
		}
	}
	return response.CodeRuleRejected
}
