package service

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ciudad-suerte/internal/constants"
	"github.com/ciudad-suerte/internal/repository"

	"gorm.io/gorm"
)

var scopeLabelPattern = regexp.MustCompile(`[^A-Za-z0-9]`)

// SequenceScope 券号计数器作用域
type SequenceScope struct {
	RoomID       uint
	RoomName     string
	TerminalName string
	Manual       bool
}

// SequenceService 券号生成服务
type SequenceService struct {
	repo repository.SequenceRepository
}

// NewSequenceService 创建券号生成服务
func NewSequenceService(repo repository.SequenceRepository) *SequenceService {
	return &SequenceService{repo: repo}
}

// NextCode 在事务内锁定计数器、加一并返回格式化券号
// tx 为 nil 时自行开启事务
func (s *SequenceService) NextCode(tx *gorm.DB, scope SequenceScope) (string, error) {
	if tx == nil {
		var code string
		err := s.repo.DB().Transaction(func(inner *gorm.DB) error {
			var err error
			code, err = s.nextCode(inner, scope)
			return err
		})
		return code, err
	}
	return s.nextCode(tx, scope)
}

func (s *SequenceService) nextCode(tx *gorm.DB, scope SequenceScope) (string, error) {
	repo := s.repo.WithTx(tx)
	label := roomLabel(scope.RoomID, scope.RoomName)
	if scope.Manual {
		seq, err := repo.LockOrCreateManual(scope.RoomID)
		if err != nil {
			return "", err
		}
		seq.LastNumber++
		if err := repo.SaveManualNumber(seq); err != nil {
			return "", err
		}
		return FormatManualCode(label, seq.LastNumber), nil
	}

	terminal := strings.TrimSpace(scope.TerminalName)
	seq, err := repo.LockOrCreate(scope.RoomID, terminal)
	if err != nil {
		return "", err
	}
	seq.LastNumber++
	if err := repo.SaveNumber(seq); err != nil {
		return "", err
	}
	return FormatCouponCode(label, terminalLabel(terminal), seq.LastNumber), nil
}

// FormatCouponCode 普通券号：厅标签 + 终端标签 + 六位序号
func FormatCouponCode(roomLabel, terminalLabel string, number int64) string {
	return fmt.Sprintf("%s%s-%0*d", roomLabel, terminalLabel, constants.CouponNumberWidth, number)
}

// FormatManualCode 手工券号
func FormatManualCode(roomLabel string, number int64) string {
	return fmt.Sprintf("%s%s-%0*d", constants.ManualCouponPrefix, roomLabel, constants.CouponNumberWidth, number)
}

// SanitizeLabel 去除非字母数字字符
func SanitizeLabel(raw string) string {
	return scopeLabelPattern.ReplaceAllString(raw, "")
}

func roomLabel(roomID uint, roomName string) string {
	if label := SanitizeLabel(roomName); label != "" {
		return label
	}
	return fmt.Sprintf("ROOM%d", roomID)
}

func terminalLabel(terminalName string) string {
	if label := SanitizeLabel(terminalName); label != "" {
		return label
	}
	return constants.DefaultTerminalLabel
}
