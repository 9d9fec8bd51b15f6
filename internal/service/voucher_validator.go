package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ciudad-suerte/internal/config"
	"github.com/ciudad-suerte/internal/constants"
	"github.com/ciudad-suerte/internal/i18n"
	"github.com/ciudad-suerte/internal/logger"
	"github.com/ciudad-suerte/internal/metrics"
)

const (
	voucherTimeoutKey  = "error.voucher_remote_timeout"
	voucherRejectedKey = "error.voucher_remote_rejected"

	remoteAcceptedDefault = "Cupón Generado Correctamente"
	remoteRejectedDefault = "Cupón No Pertenece a la Sala"

	maxRemoteBodyBytes = 64 << 10
)

// VoucherValidator 厅票据远程校验
type VoucherValidator struct {
	cfg    config.VoucherValidationConfig
	rooms  *RoomDirectory
	client *http.Client
}

// NewVoucherValidator 创建远程校验器
func NewVoucherValidator(cfg config.VoucherValidationConfig, rooms *RoomDirectory, client *http.Client) *VoucherValidator {
	if client == nil {
		client = &http.Client{}
	}
	return &VoucherValidator{cfg: cfg, rooms: rooms, client: client}
}

type remoteVoucherRequest struct {
	Action string `json:"strAction"`
	Code   string `json:"validCode"`
}

type remoteVoucherResponse struct {
	Error   interface{} `json:"error"`
	Message string      `json:"message"`
}

// ValidateRemote 调用厅服务校验票据
// 未启用或无可用地址时放行；网络错误、超时或响应无法解析时拒绝
func (v *VoucherValidator) ValidateRemote(ctx context.Context, code string, roomID uint, roomIP string) CheckResult {
	if !v.cfg.Enabled {
		metrics.VoucherValidations.WithLabelValues("disabled").Inc()
		return Pass("voucher.validation_disabled", i18n.T(i18n.LocaleES, "voucher.validation_disabled"))
	}

	ip := strings.TrimSpace(roomIP)
	if ip == "" && v.rooms != nil {
		if room, err := v.rooms.Get(ctx, roomID); err == nil {
			ip = strings.TrimSpace(room.IPAddress)
		}
	}
	if ip == "" {
		metrics.VoucherValidations.WithLabelValues("no_endpoint").Inc()
		return Pass("voucher.no_endpoint", i18n.T(i18n.LocaleES, "voucher.no_endpoint"))
	}

	started := time.Now()
	resp, err := v.post(ctx, v.endpoint(ip), remoteVoucherRequest{Action: v.action(), Code: code})
	metrics.VoucherValidationDuration.Observe(time.Since(started).Seconds())
	if err != nil {
		logger.Warnw("voucher_remote_validation_failed", "room_id", roomID, "room_ip", ip, "error", err)
		metrics.VoucherValidations.WithLabelValues("unreachable").Inc()
		return Reject(ErrVoucherUnreachable, voucherTimeoutKey, i18n.T(i18n.LocaleES, voucherTimeoutKey))
	}

	if truthy(resp.Error) {
		metrics.VoucherValidations.WithLabelValues("rejected").Inc()
		message := strings.TrimSpace(resp.Message)
		if message == "" {
			message = remoteRejectedDefault
		}
		return Reject(ErrVoucherRejected, voucherRejectedKey, message)
	}
	metrics.VoucherValidations.WithLabelValues("accepted").Inc()
	message := strings.TrimSpace(resp.Message)
	if message == "" {
		message = remoteAcceptedDefault
	}
	return Pass("voucher.accepted", message)
}

func (v *VoucherValidator) post(ctx context.Context, endpoint string, payload remoteVoucherRequest) (*remoteVoucherResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, v.cfg.Timeout())
	defer cancel()

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := v.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxRemoteBodyBytes))
	if err != nil {
		return nil, err
	}
	var decoded remoteVoucherResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, fmt.Errorf("decode voucher response (status %d): %w", resp.StatusCode, err)
	}
	return &decoded, nil
}

func (v *VoucherValidator) endpoint(ip string) string {
	scheme := strings.TrimSpace(v.cfg.Scheme)
	if scheme == "" {
		scheme = "http"
	}
	path := strings.TrimSpace(v.cfg.Path)
	if path == "" {
		path = constants.VoucherValidationPath
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return scheme + "://" + ip + path
}

func (v *VoucherValidator) action() string {
	if action := strings.TrimSpace(v.cfg.Action); action != "" {
		return action
	}
	return constants.VoucherValidationAction
}

// truthy 兼容布尔、数字与字符串形式的 error 字段
func truthy(value interface{}) bool {
	switch v := value.(type) {
	case nil:
		return false
	case bool:
		return v
	case float64:
		return v != 0
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "", "0", "false", "no":
			return false
		}
		return true
	case []interface{}:
		return len(v) > 0
	case map[string]interface{}:
		return len(v) > 0
	}
	return true
}
