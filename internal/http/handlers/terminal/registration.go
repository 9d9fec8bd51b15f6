package terminal

import (
	"strings"
	"time"

	"github.com/ciudad-suerte/internal/http/handlers/shared"
	"github.com/ciudad-suerte/internal/http/response"
	"github.com/ciudad-suerte/internal/i18n"
	"github.com/ciudad-suerte/internal/models"
	"github.com/ciudad-suerte/internal/service"

	"github.com/gin-gonic/gin"
)

// RegisterRequest 参与者登记请求
type RegisterRequest struct {
	FirstName string `json:"first_name" binding:"required,max=100"`
	LastName  string `json:"last_name" binding:"required,max=100"`
	IDNumber  string `json:"id_number" binding:"required,national_id"`
	Email     string `json:"email" binding:"omitempty,email"`
	Phone     string `json:"phone" binding:"omitempty,max=20"`
	BirthDate string `json:"birth_date" binding:"required,birthdate"`
	Print     bool   `json:"print"`
}

// Register 登记新参与者并发放注册券
func (h *Handler) Register(c *gin.Context) {
	terminal, ok := shared.CurrentTerminal(c)
	if !ok {
		return
	}
	actor, ok := shared.CurrentActor(c)
	if !ok {
		return
	}
	var req RegisterRequest
	if !shared.BindJSON(c, &req) {
		return
	}
	birth, err := time.ParseInLocation(shared.DateLayout, strings.TrimSpace(req.BirthDate), h.Config.Raffle.Location())
	if err != nil {
		shared.RespondError(c, response.CodeBadRequest, "error.validation_failed", nil)
		return
	}

	result, err := h.RegistrationService.Register(c.Request.Context(), terminal, actor, service.RegistrationInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		IDNumber:  req.IDNumber,
		Email:     req.Email,
		Phone:     req.Phone,
		BirthDate: birth,
	})
	if err != nil {
		shared.RespondServiceError(c, err)
		return
	}

	var report service.PrintReport
	if req.Print {
		report = h.dispatchPrint(c, terminal, couponIDs(result.Coupons), false)
	}
	locale := i18n.ResolveLocale(c)
	response.SuccessWithMsg(c, i18n.Sprintf(locale, "register.completed", len(result.Coupons)), gin.H{
		"person":  result.Person,
		"coupons": result.Coupons,
		"print":   report,
	})
}

// LookupPerson 按证件号查询参与者
func (h *Handler) LookupPerson(c *gin.Context) {
	person, err := h.PersonService.Lookup(c.Param("id_number"))
	if err != nil {
		shared.RespondServiceError(c, err)
		return
	}
	response.Success(c, person)
}

func couponIDs(coupons []models.Coupon) []uint {
	ids := make([]uint, 0, len(coupons))
	for _, coupon := range coupons {
		ids = append(ids, coupon.ID)
	}
	return ids
}
