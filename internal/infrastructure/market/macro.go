package market

import (
	"fmt"
	"sort"
	"strings"
)

// macroEvents is the static macro release calendar. Update as the calendar
// of tracked prints changes.
var macroEvents = map[string]string{
	"FOMC":   "Federal Open Market Committee rate decision",
	"CPI":    "Consumer Price Index inflation print",
	"NFP":    "Non-Farm Payrolls jobs report",
	"PPI":    "Producer Price Index",
	"GDP":    "Gross Domestic Product estimate",
	"PCE":    "Personal Consumption Expenditures price index",
	"JOLTS":  "Job Openings and Labor Turnover Survey",
	"PMI":    "Purchasing Managers Index (ISM)",
	"RETAIL": "Retail Sales report",
}

// MacroCalendar returns the known macro release codes with descriptions,
// sorted by code.
func MacroCalendar() []string {
	codes := make([]string, 0, len(macroEvents))
	for code := range macroEvents {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// DescribeMacroEvent returns the human-readable description for a macro
// release code.
func DescribeMacroEvent(code string) string {
	if desc, ok := macroEvents[strings.ToUpper(code)]; ok {
		return desc
	}
	return fmt.Sprintf("Unknown macro release: %s", code)
}
