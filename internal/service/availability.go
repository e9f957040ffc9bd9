package service

import (
	"sort"

	"jadwal-kuliah/internal/model"
)

// ── 可用性过滤（纯函数，无副作用） ──

// AvailableDays 返回时段可排课的上课日
// SORE 为周一至周六，PAGI / SIANG 为周一至周五；未知时段返回空
func AvailableDays(period model.Period) []model.Day {
	switch period {
	case model.PeriodSore:
		return append([]model.Day(nil), model.AllDays...)
	case model.PeriodPagi, model.PeriodSiang:
		return append([]model.Day(nil), model.WeekDays...)
	}
	return []model.Day{}
}

// IsDayAvailable 上课日是否属于该时段
func IsDayAvailable(period model.Period, day model.Day) bool {
	for _, d := range AvailableDays(period) {
		if d == day {
			return true
		}
	}
	return false
}

// AvailableTimeSlots 从目录中筛出时段可用的时间段，按开始时间升序
// SORE 下给定上课日时：周六只保留 day_specific 时间段，其余日只保留非 day_specific；
// PAGI / SIANG 不按 day_specific 过滤。day 为 nil 时不按上课日过滤
func AvailableTimeSlots(catalog []model.TimeSlot, period model.Period, day *model.Day) []model.TimeSlot {
	result := make([]model.TimeSlot, 0, len(catalog))
	for _, slot := range catalog {
		if slot.Period != period {
			continue
		}
		if period == model.PeriodSore && day != nil {
			if slot.DaySpecific != (*day == model.DaySabtu) {
				continue
			}
		}
		result = append(result, slot)
	}
	sortSlots(result)
	return result
}

// IsSlotAvailable 时间段在 (period, day) 下是否可选
func IsSlotAvailable(slot model.TimeSlot, period model.Period, day model.Day) bool {
	if !IsDayAvailable(period, day) {
		return false
	}
	return len(AvailableTimeSlots([]model.TimeSlot{slot}, period, &day)) == 1
}

// sortSlots 按开始时间升序；开始时间相同时按结束时间、ID，保证结果稳定
func sortSlots(slots []model.TimeSlot) {
	sort.SliceStable(slots, func(i, j int) bool {
		if slots[i].StartTime != slots[j].StartTime {
			return slots[i].StartTime < slots[j].StartTime
		}
		if slots[i].EndTime != slots[j].EndTime {
			return slots[i].EndTime < slots[j].EndTime
		}
		return slots[i].TimeSlotID < slots[j].TimeSlotID
	})
}
