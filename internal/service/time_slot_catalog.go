package service

import (
	"strings"

	"jadwal-kuliah/internal/model"
)

// defaultSlot 默认目录中的一个时间段
type defaultSlot struct {
	start, end  string
	period      model.Period
	daySpecific bool
}

// defaultCatalog 与迁移 000002 的种子数据一致
var defaultCatalog = []defaultSlot{
	{"07:00", "07:50", model.PeriodPagi, false},
	{"07:50", "08:40", model.PeriodPagi, false},
	{"08:40", "09:30", model.PeriodPagi, false},
	{"09:45", "10:35", model.PeriodPagi, false},
	{"10:35", "11:25", model.PeriodPagi, false},
	{"11:25", "12:15", model.PeriodPagi, false},

	{"12:50", "13:30", model.PeriodSiang, false},
	{"13:30", "14:10", model.PeriodSiang, false},
	{"14:10", "14:50", model.PeriodSiang, false},
	{"15:05", "15:45", model.PeriodSiang, false},
	{"15:45", "16:25", model.PeriodSiang, false},
	{"16:25", "17:05", model.PeriodSiang, false},

	// SORE 工作日
	{"16:30", "19:10", model.PeriodSore, false},
	{"19:10", "19:50", model.PeriodSore, false},
	{"19:50", "20:30", model.PeriodSore, false},
	{"20:30", "21:10", model.PeriodSore, false},

	// SORE 周六
	{"07:00", "07:40", model.PeriodSore, true},
	{"07:40", "08:20", model.PeriodSore, true},
	{"08:20", "09:00", model.PeriodSore, true},
	{"09:30", "10:10", model.PeriodSore, true},
	{"10:10", "10:50", model.PeriodSore, true},
	{"10:50", "11:30", model.PeriodSore, true},
}

// DefaultTimeSlots 返回默认时间段目录（未持久化，无 ID）
func DefaultTimeSlots() []model.TimeSlot {
	slots := make([]model.TimeSlot, 0, len(defaultCatalog))
	for _, d := range defaultCatalog {
		slots = append(slots, model.TimeSlot{
			DisplayText: displayText(d.start, d.end),
			Period:      d.period,
			DaySpecific: d.daySpecific,
			StartTime:   d.start,
			EndTime:     d.end,
		})
	}
	return slots
}

// displayText "07:00" + "07:50" → "07.00-07.50"
func displayText(start, end string) string {
	return strings.ReplaceAll(start, ":", ".") + "-" + strings.ReplaceAll(end, ":", ".")
}
