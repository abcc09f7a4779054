package market

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMacroCalendar_SortedAndKnown(t *testing.T) {
	codes := MacroCalendar()
	assert.NotEmpty(t, codes)
	assert.True(t, sort.StringsAreSorted(codes))
	assert.Contains(t, codes, "FOMC")
	assert.Contains(t, codes, "CPI")
}

func TestDescribeMacroEvent(t *testing.T) {
	assert.Contains(t, DescribeMacroEvent("cpi"), "Consumer Price Index", "lookup is case-insensitive")
	assert.Contains(t, DescribeMacroEvent("XYZ"), "Unknown macro release")
}
