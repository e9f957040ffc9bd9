package model

// Period 上课时段（班次）
type Period string

const (
	PeriodPagi  Period = "PAGI"  // 上午班
	PeriodSiang Period = "SIANG" // 下午班
	PeriodSore  Period = "SORE"  // 晚班（含周六专用时间段）
)

// AllPeriods 全部时段，按一天内的先后排列
var AllPeriods = []Period{PeriodPagi, PeriodSiang, PeriodSore}

// Valid 是否为已知时段
func (p Period) Valid() bool {
	switch p {
	case PeriodPagi, PeriodSiang, PeriodSore:
		return true
	}
	return false
}

// Day 上课日
type Day string

const (
	DaySenin  Day = "SENIN"
	DaySelasa Day = "SELASA"
	DayRabu   Day = "RABU"
	DayKamis  Day = "KAMIS"
	DayJumat  Day = "JUMAT"
	DaySabtu  Day = "SABTU"
)

// WeekDays 周一至周五
var WeekDays = []Day{DaySenin, DaySelasa, DayRabu, DayKamis, DayJumat}

// AllDays 周一至周六
var AllDays = []Day{DaySenin, DaySelasa, DayRabu, DayKamis, DayJumat, DaySabtu}

// Valid 是否为已知上课日
func (d Day) Valid() bool {
	return d.Order() > 0
}

// Order 返回 1(周一)..6(周六)，未知值返回 0
func (d Day) Order() int {
	for i, v := range AllDays {
		if v == d {
			return i + 1
		}
	}
	return 0
}
