package export

import (
	"fmt"
	"io"
	"strings"
	"time"

	"renewalpulse/internal/models"
)

const icsStamp = "20060102T150405Z"

// WriteICS renders enabled records as an iCalendar feed: one all-day VEVENT
// per record on its expiry date, recurring per its cycle, so any calendar
// app can subscribe to the renewal schedule.
func WriteICS(w io.Writer, subs []*models.Subscription, calName string) error {
	var b strings.Builder
	now := time.Now().UTC().Format(icsStamp)

	b.WriteString("BEGIN:VCALENDAR\r\n")
	b.WriteString("VERSION:2.0\r\n")
	b.WriteString("PRODID:-//renewalpulse//renewal calendar//EN\r\n")
	b.WriteString("CALSCALE:GREGORIAN\r\n")
	fmt.Fprintf(&b, "X-WR-CALNAME:%s\r\n", escapeICS(calName))

	for _, sub := range subs {
		if !sub.Enabled {
			continue
		}
		day := sub.ExpiresAt.Format("20060102")
		b.WriteString("BEGIN:VEVENT\r\n")
		fmt.Fprintf(&b, "UID:%s@renewalpulse\r\n", sub.ID)
		fmt.Fprintf(&b, "DTSTAMP:%s\r\n", now)
		fmt.Fprintf(&b, "DTSTART;VALUE=DATE:%s\r\n", day)
		fmt.Fprintf(&b, "SUMMARY:%s\r\n", escapeICS(summaryLine(sub)))
		if rule := rruleFor(sub.Cycle); rule != "" {
			fmt.Fprintf(&b, "RRULE:%s\r\n", rule)
		}
		if sub.RenewURL != "" {
			fmt.Fprintf(&b, "URL:%s\r\n", escapeICS(sub.RenewURL))
		}
		if sub.Notes != "" {
			fmt.Fprintf(&b, "DESCRIPTION:%s\r\n", escapeICS(sub.Notes))
		}
		b.WriteString("TRANSP:TRANSPARENT\r\n")
		b.WriteString("END:VEVENT\r\n")
	}

	b.WriteString("END:VCALENDAR\r\n")
	_, err := io.WriteString(w, b.String())
	return err
}

func summaryLine(sub *models.Subscription) string {
	return fmt.Sprintf("%s renewal (%s %s)", sub.Name, sub.Amount.StringFixed(2), sub.Currency)
}

// rruleFor maps a cycle onto an iCalendar recurrence rule. Monthly rules
// lean on the calendar app's own end-of-month handling.
func rruleFor(c models.Cycle) string {
	switch c {
	case models.CycleDay:
		return "FREQ=DAILY"
	case models.CycleWeek:
		return "FREQ=WEEKLY"
	case models.CycleMonth:
		return "FREQ=MONTHLY"
	case models.CycleQuarter:
		return "FREQ=MONTHLY;INTERVAL=3"
	case models.CycleHalfYear:
		return "FREQ=MONTHLY;INTERVAL=6"
	case models.CycleYear:
		return "FREQ=YEARLY"
	case models.Cycle2Year:
		return "FREQ=YEARLY;INTERVAL=2"
	case models.Cycle3Year:
		return "FREQ=YEARLY;INTERVAL=3"
	case models.Cycle4Year:
		return "FREQ=YEARLY;INTERVAL=4"
	case models.Cycle5Year:
		return "FREQ=YEARLY;INTERVAL=5"
	}
	return ""
}

func escapeICS(s string) string {
	r := strings.NewReplacer(
		"\\", "\\\\",
		";", "\\;",
		",", "\\,",
		"\n", "\\n",
		"\r", "",
	)
	return r.Replace(s)
}
