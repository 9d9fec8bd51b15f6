package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/ciudad-suerte/internal/models"
)

const slotLayout = "15:04"

type slotWindow struct {
	start      int
	end        int
	multiplier int
}

// parseSlot 解析 HH:MM 时段，返回当天秒数区间
func parseSlot(slot models.OperationalSlot) (slotWindow, error) {
	start, err := time.Parse(slotLayout, strings.TrimSpace(slot.Start))
	if err != nil {
		return slotWindow{}, fmt.Errorf("%w: start %q", ErrInvalidOperationalSlot, slot.Start)
	}
	end, err := time.Parse(slotLayout, strings.TrimSpace(slot.End))
	if err != nil {
		return slotWindow{}, fmt.Errorf("%w: end %q", ErrInvalidOperationalSlot, slot.End)
	}
	return slotWindow{
		start:      secondsOfDay(start),
		end:        secondsOfDay(end),
		multiplier: slot.Multiplier,
	}, nil
}

func secondsOfDay(t time.Time) int {
	return t.Hour()*3600 + t.Minute()*60 + t.Second()
}

// MultiplierAt 取第一个包含 at 的时段倍数（闭区间，不跨午夜），无匹配为 1
func MultiplierAt(slots models.OperationalSlots, at time.Time) int {
	now := secondsOfDay(at)
	for _, slot := range slots {
		window, err := parseSlot(slot)
		if err != nil {
			continue
		}
		if window.start <= now && now <= window.end {
			if window.multiplier < 1 {
				return 1
			}
			return window.multiplier
		}
	}
	return 1
}

// SlotOverlap 重叠的两个时段（按配置顺序）
type SlotOverlap struct {
	First  models.OperationalSlot `json:"first"`
	Second models.OperationalSlot `json:"second"`
}

// Label 展示用时段区间
func (o SlotOverlap) Label() (string, string) {
	return o.First.Start + "-" + o.First.End, o.Second.Start + "-" + o.Second.End
}

// FindSlotOverlaps 检测相互重叠的时段，仅用于配置告警
func FindSlotOverlaps(slots models.OperationalSlots) []SlotOverlap {
	windows := make([]slotWindow, len(slots))
	valid := make([]bool, len(slots))
	for i, slot := range slots {
		window, err := parseSlot(slot)
		if err == nil {
			windows[i] = window
			valid[i] = true
		}
	}
	var overlaps []SlotOverlap
	for i := range slots {
		if !valid[i] {
			continue
		}
		for j := i + 1; j < len(slots); j++ {
			if !valid[j] {
				continue
			}
			if windows[i].start <= windows[j].end && windows[j].start <= windows[i].end {
				overlaps = append(overlaps, SlotOverlap{First: slots[i], Second: slots[j]})
			}
		}
	}
	return overlaps
}

// ValidateSlots 校验时段格式与倍数
func ValidateSlots(slots models.OperationalSlots) error {
	for _, slot := range slots {
		window, err := parseSlot(slot)
		if err != nil {
			return err
		}
		if window.end <= window.start {
			return fmt.Errorf("%w: %s-%s", ErrInvalidOperationalSlot, slot.Start, slot.End)
		}
		if slot.Multiplier < 1 {
			return fmt.Errorf("%w: multiplier %d", ErrInvalidOperationalSlot, slot.Multiplier)
		}
	}
	return nil
}
