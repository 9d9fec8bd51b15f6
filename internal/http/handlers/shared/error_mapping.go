package shared

import (
	"errors"

	"github.com/ciudad-suerte/internal/http/response"
	"github.com/ciudad-suerte/internal/service"

	"github.com/gin-gonic/gin"
)

// mappedHandlerError 定义业务错误到接口错误响应的映射关系。
type mappedHandlerError struct {
	target error
	code   int
	key    string
	args   []interface{}
}

var serviceErrorRules = []mappedHandlerError{
	{target: service.ErrInvalidInput, code: response.CodeBadRequest, key: "error.validation_failed"},
	{target: service.ErrTerminalNotConfigured, code: response.CodeTerminalNotConfigured, key: "error.terminal_not_configured"},
	{target: service.ErrInvalidTerminalConfig, code: response.CodeBadRequest, key: "error.terminal_config_invalid"},
	{target: service.ErrPersonNotFound, code: response.CodeNotFound, key: "error.person_not_found"},
	{target: service.ErrPersonAlreadyExists, code: response.CodeConflict, key: "error.person_exists"},
	{target: service.ErrPersonUnderage, code: response.CodeRuleRejected, key: "error.person_underage"},
	{target: service.ErrInvalidIDNumber, code: response.CodeBadRequest, key: "error.id_number_invalid"},
	{target: service.ErrVoucherCodeRequired, code: response.CodeBadRequest, key: "error.voucher_code_required"},
	{target: service.ErrVoucherAlreadyUsed, code: response.CodeConflict, key: "error.voucher_used"},
	{target: service.ErrVoucherRejected, code: response.CodeRuleRejected, key: "error.voucher_remote_rejected"},
	{target: service.ErrVoucherUnreachable, code: response.CodeUpstreamUnavailable, key: "error.voucher_remote_timeout"},
	{target: service.ErrCooldownActive, code: response.CodeRuleRejected, key: "rule.cooldown"},
	{target: service.ErrCouponNotFound, code: response.CodeNotFound, key: "error.coupon_not_found"},
	{target: service.ErrCouponAlreadyReprinted, code: response.CodeConflict, key: "error.coupon_already_reprinted"},
	{target: service.ErrCouponCodeConflict, code: response.CodeInternal, key: "error.coupon_generation_failed"},
	{target: service.ErrCouponIDsRequired, code: response.CodeBadRequest, key: "error.coupon_ids_required"},
	{target: service.ErrRoomNotFound, code: response.CodeNotFound, key: "error.room_not_found"},
	{target: service.ErrRoomInUse, code: response.CodeConflict, key: "error.room_in_use"},
	{target: service.ErrRoomNameExists, code: response.CodeConflict, key: "error.room_name_exists"},
	{target: service.ErrInvalidOperationalSlot, code: response.CodeBadRequest, key: "error.operational_slot_invalid"},
	{target: service.ErrInvalidCredentials, code: response.CodeUnauthorized, key: "error.login_invalid"},
	{target: service.ErrStaffInactive, code: response.CodeForbidden, key: "error.staff_inactive"},
	{target: service.ErrStaffNotFound, code: response.CodeNotFound, key: "error.not_found"},
	{target: service.ErrUsernameExists, code: response.CodeConflict, key: "error.username_exists"},
	{target: service.ErrInvalidRole, code: response.CodeBadRequest, key: "error.role_invalid"},
	{target: service.ErrPasswordTooShort, code: response.CodeBadRequest, key: "error.password_too_short", args: []interface{}{service.MinPasswordLength}},
	{target: service.ErrInvalidToken, code: response.CodeUnauthorized, key: "error.token_invalid"},
}

// RespondServiceError 统一映射 service 层错误；规则拒绝按请求语言重新生成文案。
func RespondServiceError(c *gin.Context, err error) {
	var ruleErr *service.RuleError
	if errors.As(err, &ruleErr) {
		RespondCheck(c, service.CheckResult{
			Key:     ruleErr.Key,
			Message: ruleErr.Message,
			Args:    ruleErr.Args,
			Cause:   ruleErr.Cause,
		})
		return
	}
	for _, rule := range serviceErrorRules {
		if errors.Is(err, rule.target) {
			RespondErrorf(c, rule.code, rule.key, nil, rule.args...)
			return
		}
	}
	RespondError(c, response.CodeInternal, "error.internal", err)
}
