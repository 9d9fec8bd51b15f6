package service

import (
	"strconv"
	"strings"

	"github.com/ciudad-suerte/internal/constants"
	"github.com/ciudad-suerte/internal/logger"
	"github.com/ciudad-suerte/internal/models"
	"github.com/ciudad-suerte/internal/repository"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// PersonLookup 按证件号查询返回的摘要
type PersonLookup struct {
	ID        uint   `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	FullName  string `json:"full_name"`
	IDNumber  string `json:"id_number"`
}

// PersonService 参与者查询与维护
type PersonService struct {
	repo  repository.PersonRepository
	audit *AuditService
}

// NewPersonService 创建参与者服务
func NewPersonService(repo repository.PersonRepository, audit *AuditService) *PersonService {
	return &PersonService{repo: repo, audit: audit}
}

// Lookup 按证件号查询
func (s *PersonService) Lookup(idNumber string) (*PersonLookup, error) {
	normalized := NormalizeIDNumber(idNumber)
	if normalized == "" {
		return nil, ErrInvalidIDNumber
	}
	person, err := s.repo.GetByIDNumber(normalized)
	if err != nil {
		return nil, err
	}
	if person == nil {
		return nil, ErrPersonNotFound
	}
	return &PersonLookup{
		ID:        person.ID,
		FirstName: person.FirstName,
		LastName:  person.LastName,
		FullName:  person.FullName(),
		IDNumber:  person.IDNumber,
	}, nil
}

// List 分页列表
func (s *PersonService) List(filter repository.PersonListFilter) ([]repository.PersonWithCouponCount, int64, error) {
	return s.repo.List(filter)
}

// NormalizeNames 全量整理姓名空白与大小写，返回修改条数
func (s *PersonService) NormalizeNames(actor Actor) (int, error) {
	persons, err := s.repo.ListAll()
	if err != nil {
		return 0, err
	}
	updated := 0
	for _, person := range persons {
		first := NormalizePersonName(person.FirstName)
		last := NormalizePersonName(person.LastName)
		if first == person.FirstName && last == person.LastName {
			continue
		}
		if err := s.repo.UpdateNames(person.ID, first, last); err != nil {
			return updated, err
		}
		updated++
	}
	if err := s.audit.Record(AuditRecordInput{
		Actor:      actor,
		Action:     constants.AuditActionPersonNormalize,
		TargetType: "person",
		TargetID:   strconv.Itoa(updated),
		Detail:     models.JSON{"updated": updated, "total": len(persons)},
	}); err != nil {
		logger.Warnw("person_normalize_audit_failed", "error", err)
	}
	return updated, nil
}

// NormalizePersonName 折叠空白并转为首字母大写
func NormalizePersonName(value string) string {
	collapsed := strings.Join(strings.Fields(value), " ")
	return cases.Title(language.Spanish).String(collapsed)
}
