// Package report renders analysis results as PDF and XLSX documents.
package report

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// Currency formats v as "$1,234.56", or "N/A" when v is nil.
func Currency(v *float64) string {
	if v == nil {
		return "N/A"
	}
	return printer.Sprintf("$%.2f", *v)
}

// Count formats n with thousands separators.
func Count(n int) string {
	return printer.Sprintf("%d", n)
}

// Percent formats v as "12.5%", or "N/A" when v is nil.
func Percent(v *float64) string {
	if v == nil {
		return "N/A"
	}
	return strconv.FormatFloat(*v, 'f', -1, 64) + "%"
}

// FileName returns "flight_analysis_{city}_{timestamp}.{ext}" for a report
// generated at ts.
func FileName(city string, ts time.Time, ext string) string {
	slug := strings.ToLower(strings.Join(strings.Fields(city), "_"))
	if slug == "" {
		slug = "report"
	}
	return fmt.Sprintf("flight_analysis_%s_%s.%s", slug, ts.Format("20060102_150405"), ext)
}
