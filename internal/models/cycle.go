package models

import "strings"

// Cycle is the recurrence unit governing how an expiry date advances.
type Cycle string

const (
	CycleDay      Cycle = "day"
	CycleWeek     Cycle = "week"
	CycleMonth    Cycle = "month"
	CycleQuarter  Cycle = "quarter"
	CycleHalfYear Cycle = "halfyear"
	CycleYear     Cycle = "year"
	Cycle2Year    Cycle = "2year"
	Cycle3Year    Cycle = "3year"
	Cycle4Year    Cycle = "4year"
	Cycle5Year    Cycle = "5year"
)

var Cycles = []Cycle{
	CycleDay, CycleWeek, CycleMonth, CycleQuarter, CycleHalfYear,
	CycleYear, Cycle2Year, Cycle3Year, Cycle4Year, Cycle5Year,
}

var cycleAliases = map[string]Cycle{
	"daily":     CycleDay,
	"天":         CycleDay,
	"日":         CycleDay,
	"weekly":    CycleWeek,
	"周":         CycleWeek,
	"monthly":   CycleMonth,
	"月":         CycleMonth,
	"季度":        CycleQuarter,
	"季":         CycleQuarter,
	"half-year": CycleHalfYear,
	"半年":        CycleHalfYear,
	"annual":    CycleYear,
	"yearly":    CycleYear,
	"年":         CycleYear,
	"2-year":    Cycle2Year,
	"两年":        Cycle2Year,
	"2年":        Cycle2Year,
	"3-year":    Cycle3Year,
	"三年":        Cycle3Year,
	"3年":        Cycle3Year,
	"4-year":    Cycle4Year,
	"四年":        Cycle4Year,
	"4年":        Cycle4Year,
	"5-year":    Cycle5Year,
	"五年":        Cycle5Year,
	"5年":        Cycle5Year,
}

func (c Cycle) Valid() bool {
	switch c {
	case CycleDay, CycleWeek, CycleMonth, CycleQuarter, CycleHalfYear,
		CycleYear, Cycle2Year, Cycle3Year, Cycle4Year, Cycle5Year:
		return true
	}
	return false
}

// ParseCycle resolves a cycle name, tolerating the alias spellings accepted
// on CSV import (english long forms and chinese labels). Empty input maps to
// the monthly cycle.
func ParseCycle(s string) (Cycle, bool) {
	key := strings.ToLower(strings.TrimSpace(s))
	if key == "" {
		return CycleMonth, true
	}
	if c := Cycle(key); c.Valid() {
		return c, true
	}
	if c, ok := cycleAliases[key]; ok {
		return c, true
	}
	return "", false
}
