package service

import (
	"time"

	"github.com/ciudad-suerte/internal/config"
)

// RaffleRules 抽奖业务规则参数
type RaffleRules struct {
	DailyEntryLimit int
	Cooldown        time.Duration
	RegisterCoupons int
	MinimumAge      int
	Location        *time.Location
}

// DefaultRaffleRules 默认规则：每日 10 张、两小时冷却、注册送 5 张、18 岁
func DefaultRaffleRules() RaffleRules {
	return RaffleRules{
		DailyEntryLimit: 10,
		Cooldown:        2 * time.Hour,
		RegisterCoupons: 5,
		MinimumAge:      18,
		Location:        time.Local,
	}
}

// RaffleRulesFromConfig 从配置构建规则，非法值回退默认
func RaffleRulesFromConfig(cfg config.RaffleConfig) RaffleRules {
	rules := DefaultRaffleRules()
	if cfg.DailyEntryLimit > 0 {
		rules.DailyEntryLimit = cfg.DailyEntryLimit
	}
	if cfg.CooldownMinutes > 0 {
		rules.Cooldown = time.Duration(cfg.CooldownMinutes) * time.Minute
	}
	if cfg.RegisterCoupons > 0 {
		rules.RegisterCoupons = cfg.RegisterCoupons
	}
	if cfg.MinimumAge > 0 {
		rules.MinimumAge = cfg.MinimumAge
	}
	rules.Location = cfg.Location()
	return rules
}

func (r RaffleRules) location() *time.Location {
	if r.Location == nil {
		return time.Local
	}
	return r.Location
}

// DayBounds 返回 at 所在业务日的 [开始, 结束)
func (r RaffleRules) DayBounds(at time.Time) (time.Time, time.Time) {
	local := at.In(r.location())
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, local.Location())
	return start, start.AddDate(0, 0, 1)
}

// Clock 可注入的时钟
type Clock func() time.Time

// now 返回 UTC 时间，落库时间统一为 UTC
func (c Clock) now() time.Time {
	if c == nil {
		return time.Now().UTC()
	}
	return c().UTC()
}
