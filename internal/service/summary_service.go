package service

import (
	"context"
	"time"

	"github.com/ciudad-suerte/internal/models"
	"github.com/ciudad-suerte/internal/repository"
)

// RoomSummary 单厅券统计
type RoomSummary struct {
	RoomID   uint             `json:"room_id"`
	RoomName string           `json:"room_name"`
	BySource map[string]int64 `json:"by_source"`
	Total    int64            `json:"total"`
}

// Summary 区间内券统计
type Summary struct {
	From     time.Time        `json:"from"`
	To       time.Time        `json:"to"`
	Rooms    []RoomSummary    `json:"rooms"`
	BySource map[string]int64 `json:"by_source"`
	Total    int64            `json:"total"`
}

// SummaryService 统计与查询
type SummaryService struct {
	couponRepo repository.CouponRepository
	rooms      *RoomDirectory
	rules      RaffleRules
	clock      Clock
}

// NewSummaryService 创建统计服务
func NewSummaryService(couponRepo repository.CouponRepository, rooms *RoomDirectory, rules RaffleRules, clock Clock) *SummaryService {
	return &SummaryService{couponRepo: couponRepo, rooms: rooms, rules: rules, clock: clock}
}

// Summarize 按厅与来源统计，区间缺省为当天
func (s *SummaryService) Summarize(ctx context.Context, from, to *time.Time) (*Summary, error) {
	start, end := s.rules.DayBounds(s.clock.now())
	if from != nil {
		start = *from
	}
	if to != nil {
		end = *to
	}
	rows, err := s.couponRepo.Summary(start, end)
	if err != nil {
		return nil, err
	}
	roomSet := s.rooms.Load(ctx)
	summary := &Summary{From: start, To: end, BySource: map[string]int64{}}
	index := map[uint]int{}
	for _, row := range rows {
		pos, ok := index[row.RoomID]
		if !ok {
			name := ""
			if room, found := roomSet.Find(row.RoomID); found {
				name = room.Name
			}
			summary.Rooms = append(summary.Rooms, RoomSummary{RoomID: row.RoomID, RoomName: name, BySource: map[string]int64{}})
			pos = len(summary.Rooms) - 1
			index[row.RoomID] = pos
		}
		summary.Rooms[pos].BySource[row.Source] += row.Total
		summary.Rooms[pos].Total += row.Total
		summary.BySource[row.Source] += row.Total
		summary.Total += row.Total
	}
	return summary, nil
}

// ListCoupons 券分页查询
func (s *SummaryService) ListCoupons(filter repository.CouponListFilter) ([]models.Coupon, int64, error) {
	return s.couponRepo.List(filter)
}
