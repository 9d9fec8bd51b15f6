package service

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/ciudad-suerte/internal/constants"
	"github.com/ciudad-suerte/internal/models"
	"github.com/ciudad-suerte/internal/repository"

	"gorm.io/gorm"
)

var idNumberPattern = regexp.MustCompile(`^[0-9A-Za-z]{6,20}$`)

// RegistrationInput 参与者登记参数
type RegistrationInput struct {
	FirstName string
	LastName  string
	IDNumber  string
	Email     string
	Phone     string
	BirthDate time.Time
}

// RegistrationResult 登记结果
type RegistrationResult struct {
	Person  *models.Person  `json:"person"`
	Coupons []models.Coupon `json:"coupons"`
}

// RegistrationService 新参与者登记并发放注册券
type RegistrationService struct {
	personRepo repository.PersonRepository
	issuance   *IssuanceService
	rules      RaffleRules
	clock      Clock
}

// NewRegistrationService 创建登记服务
func NewRegistrationService(personRepo repository.PersonRepository, issuance *IssuanceService, rules RaffleRules, clock Clock) *RegistrationService {
	return &RegistrationService{personRepo: personRepo, issuance: issuance, rules: rules, clock: clock}
}

// Register 在一个事务内创建参与者及注册券，证件号重复时整体回滚
func (s *RegistrationService) Register(_ context.Context, terminal *TerminalContext, actor Actor, input RegistrationInput) (*RegistrationResult, error) {
	if terminal == nil {
		return nil, ErrTerminalNotConfigured
	}
	person, err := s.normalize(input)
	if err != nil {
		return nil, err
	}

	existing, err := s.personRepo.GetByIDNumber(person.IDNumber)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrPersonAlreadyExists
	}

	var coupons []models.Coupon
	err = s.personRepo.DB().Transaction(func(tx *gorm.DB) error {
		if err := s.personRepo.WithTx(tx).Create(person); err != nil {
			return err
		}
		issued, err := s.issuance.IssueCoupons(tx, IssueInput{
			Person:       person,
			Quantity:     s.rules.RegisterCoupons,
			Source:       constants.CouponSourceRegister,
			RoomID:       terminal.Room.ID,
			RoomName:     terminal.Room.Name,
			TerminalName: terminal.TerminalName,
			Settings:     terminal.Settings,
			CreatedByID:  staffIDPtr(actor.StaffID),
			Printed:      false,
		})
		if err != nil {
			return err
		}
		coupons = issued
		return nil
	})
	if err != nil {
		if repository.IsUniqueViolationOn(err, "persons", "id_number") {
			return nil, ErrPersonAlreadyExists
		}
		return nil, err
	}
	recordIssued(constants.CouponSourceRegister, len(coupons))
	return &RegistrationResult{Person: person, Coupons: coupons}, nil
}

func (s *RegistrationService) normalize(input RegistrationInput) (*models.Person, error) {
	idNumber := NormalizeIDNumber(input.IDNumber)
	if !ValidIDNumber(idNumber) {
		return nil, ErrInvalidIDNumber
	}
	first := strings.TrimSpace(input.FirstName)
	last := strings.TrimSpace(input.LastName)
	if first == "" || last == "" || input.BirthDate.IsZero() {
		return nil, ErrInvalidInput
	}
	now := s.clock.now().In(s.rules.location())
	if AgeOn(input.BirthDate, now) < s.rules.MinimumAge {
		return nil, ErrPersonUnderage
	}
	return &models.Person{
		FirstName: first,
		LastName:  last,
		IDNumber:  idNumber,
		Email:     strings.ToLower(strings.TrimSpace(input.Email)),
		Phone:     strings.TrimSpace(input.Phone),
		BirthDate: input.BirthDate,
		CreatedAt: s.clock.now(),
	}, nil
}

// NormalizeIDNumber 去掉空白与分隔符
func NormalizeIDNumber(raw string) string {
	replacer := strings.NewReplacer(".", "", "-", "", " ", "")
	return strings.ToUpper(replacer.Replace(strings.TrimSpace(raw)))
}

// ValidIDNumber 规范化后为 6-20 位字母数字
func ValidIDNumber(raw string) bool {
	return idNumberPattern.MatchString(NormalizeIDNumber(raw))
}

// AgeOn 计算 at 当天的周岁
func AgeOn(birth, at time.Time) int {
	age := at.Year() - birth.Year()
	if at.Month() < birth.Month() || (at.Month() == birth.Month() && at.Day() < birth.Day()) {
		age--
	}
	return age
}
