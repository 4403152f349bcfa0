package constants

import "time"

// TurkishMonths maps month numbers to their Turkish names, as used in
// report folder layouts ("06-Haziran") and KPI filename filters.
var TurkishMonths = map[time.Month]string{
	time.January:   "Ocak",
	time.February:  "Şubat",
	time.March:     "Mart",
	time.April:     "Nisan",
	time.May:       "Mayıs",
	time.June:      "Haziran",
	time.July:      "Temmuz",
	time.August:    "Ağustos",
	time.September: "Eylül",
	time.October:   "Ekim",
	time.November:  "Kasım",
	time.December:  "Aralık",
}

// TurkishMonthName returns the Turkish name for a month number, or "" if out of range.
func TurkishMonthName(month int) string {
	if month < 1 || month > 12 {
		return ""
	}
	return TurkishMonths[time.Month(month)]
}
