package shared

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ciudad-suerte/internal/constants"
	"github.com/ciudad-suerte/internal/http/response"
	"github.com/ciudad-suerte/internal/service"

	"github.com/gin-gonic/gin"
)

type testEnvelope struct {
	StatusCode int                    `json:"status_code"`
	Msg        string                 `json:"msg"`
	Data       map[string]interface{} `json:"data"`
}

func newTestContext(t *testing.T, method, body string) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(method, "/test", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Request.Header.Set("Accept-Language", "es")
	return c, w
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) testEnvelope {
	t.Helper()
	var resp testEnvelope
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response failed: %v (%s)", err, w.Body.String())
	}
	return resp
}

type validationPayload struct {
	Start     string `json:"start" binding:"required,hhmm"`
	IDNumber  string `json:"id_number" binding:"required,national_id"`
	BirthDate string `json:"birth_date" binding:"required,birthdate"`
}

func TestRegisterValidatorsCustomTags(t *testing.T) {
	if err := RegisterValidators(); err != nil {
		t.Fatalf("register validators failed: %v", err)
	}
	if err := RegisterValidators(); err != nil {
		t.Fatalf("second registration should be a no-op: %v", err)
	}

	tomorrow := time.Now().AddDate(0, 0, 2).Format(DateLayout)
	cases := []struct {
		name string
		body string
		ok   bool
	}{
		{name: "valid", body: `{"start":"08:30","id_number":"30.111.222","birth_date":"1985-06-15"}`, ok: true},
		{name: "hour out of range", body: `{"start":"24:00","id_number":"30111222","birth_date":"1985-06-15"}`},
		{name: "short id", body: `{"start":"08:30","id_number":"123","birth_date":"1985-06-15"}`},
		{name: "bad date", body: `{"start":"08:30","id_number":"30111222","birth_date":"15/06/1985"}`},
		{name: "future date", body: fmt.Sprintf(`{"start":"08:30","id_number":"30111222","birth_date":"%s"}`, tomorrow)},
		{name: "broken json", body: `{"start":`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, w := newTestContext(t, http.MethodPost, tc.body)
			var payload validationPayload
			if got := BindJSON(c, &payload); got != tc.ok {
				t.Fatalf("BindJSON want %v got %v", tc.ok, got)
			}
			if tc.ok {
				return
			}
			if resp := decodeEnvelope(t, w); resp.StatusCode != response.CodeBadRequest {
				t.Fatalf("status_code want 400 got %d", resp.StatusCode)
			}
		})
	}
}

func TestRespondServiceErrorMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
		msg  string
	}{
		{name: "reprinted", err: service.ErrCouponAlreadyReprinted, code: response.CodeConflict, msg: "El cupón ya fue reimpreso previamente."},
		{name: "wrapped not configured", err: fmt.Errorf("resolve: %w", service.ErrTerminalNotConfigured), code: response.CodeTerminalNotConfigured},
		{name: "password length arg", err: service.ErrPasswordTooShort, code: response.CodeBadRequest, msg: fmt.Sprintf("La contraseña debe tener al menos %d caracteres.", service.MinPasswordLength)},
		{name: "unknown", err: fmt.Errorf("disk full"), code: response.CodeInternal},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, w := newTestContext(t, http.MethodGet, "")
			RespondServiceError(c, tc.err)
			resp := decodeEnvelope(t, w)
			if resp.StatusCode != tc.code {
				t.Fatalf("status_code want %d got %d", tc.code, resp.StatusCode)
			}
			if tc.msg != "" && resp.Msg != tc.msg {
				t.Fatalf("msg want %q got %q", tc.msg, resp.Msg)
			}
		})
	}
}

func TestRespondServiceErrorRuleRejection(t *testing.T) {
	c, w := newTestContext(t, http.MethodPost, "")
	c.Set(constants.CtxKeyRequestID, "req-9")
	limit := service.CheckResult{Key: "rule.daily_limit", Args: []interface{}{10}, Cause: service.ErrDailyLimitReached}
	RespondServiceError(c, limit.Err())

	resp := decodeEnvelope(t, w)
	if resp.StatusCode != response.CodeRuleRejected {
		t.Fatalf("status_code want 422 got %d", resp.StatusCode)
	}
	if !strings.Contains(resp.Msg, "10 cupones") {
		t.Fatalf("daily limit message should include the limit: %q", resp.Msg)
	}
	if resp.Data["is_valid"] != false || resp.Data["request_id"] != "req-9" {
		t.Fatalf("unexpected data: %+v", resp.Data)
	}
}

func TestLocalizeCheckPassesRemoteMessage(t *testing.T) {
	c, _ := newTestContext(t, http.MethodPost, "")
	remote := service.Reject(service.ErrVoucherRejected, "error.voucher_remote_rejected", "Ticket anulado")
	if got := LocalizeCheck(c, remote); got != "Ticket anulado" {
		t.Fatalf("remote rejection should pass through, got %q", got)
	}
	empty := service.Reject(service.ErrVoucherRejected, "error.voucher_remote_rejected", "")
	if got := LocalizeCheck(c, empty); got != "Cupón No Pertenece a la Sala" {
		t.Fatalf("empty remote message should fall back to catalog, got %q", got)
	}
}

func TestCurrentActorAndTerminal(t *testing.T) {
	c, w := newTestContext(t, http.MethodGet, "")
	if _, ok := CurrentActor(c); ok {
		t.Fatalf("actor without staff id should fail")
	}
	if resp := decodeEnvelope(t, w); resp.StatusCode != response.CodeUnauthorized {
		t.Fatalf("status_code want 401 got %d", resp.StatusCode)
	}

	c, _ = newTestContext(t, http.MethodGet, "")
	c.Set(constants.CtxKeyStaffID, uint(7))
	c.Set(constants.CtxKeyStaffUsername, "cajero01")
	c.Set(constants.CtxKeyStaffRole, constants.RoleCashier)
	actor, ok := CurrentActor(c)
	if !ok || actor.StaffID != 7 || actor.Username != "cajero01" || actor.Role != constants.RoleCashier {
		t.Fatalf("unexpected actor: %+v", actor)
	}

	c, w = newTestContext(t, http.MethodGet, "")
	if _, ok := CurrentTerminal(c); ok {
		t.Fatalf("terminal without context should fail")
	}
	if resp := decodeEnvelope(t, w); resp.StatusCode != response.CodeTerminalNotConfigured {
		t.Fatalf("status_code want 428 got %d", resp.StatusCode)
	}
}

func TestPagination(t *testing.T) {
	page, size := NormalizePagination(0, 1000)
	if page != 1 || size != 100 {
		t.Fatalf("want 1/100 got %d/%d", page, size)
	}
	p := BuildPagination(2, 20, 41)
	if p.TotalPage != 3 || p.Total != 41 {
		t.Fatalf("unexpected pagination: %+v", p)
	}
}
