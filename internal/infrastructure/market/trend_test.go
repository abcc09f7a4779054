package market

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sawpanic/catalystrun/internal/domain/catalyst"
)

func ptr(v float64) *float64 { return &v }

func TestClassifySectorTrend(t *testing.T) {
	cases := []struct {
		name   string
		bench  *float64
		sector *float64
		vol    *float64
		want   string
	}{
		{"no benchmark data", nil, ptr(5.0), ptr(12.0), catalyst.TrendNeutral},
		{"strong rally calm vol", ptr(2.0), ptr(3.0), ptr(12.0), catalyst.TrendStrongRiskOn},
		{"mild rally", ptr(0.5), nil, nil, catalyst.TrendRiskOn},
		{"flat", ptr(0.0), nil, nil, catalyst.TrendNeutral},
		{"mild selloff", ptr(-0.5), nil, nil, catalyst.TrendRiskOff},
		{"broad selloff weak sector", ptr(-2.0), ptr(-3.0), nil, catalyst.TrendStrongRiskOff},
		{"rally negated by elevated vol", ptr(0.5), nil, ptr(28.0), catalyst.TrendNeutral},
		{"rally crushed by panic vol", ptr(0.5), nil, ptr(40.0), catalyst.TrendRiskOff},
		{"selloff with panic vol", ptr(-2.0), nil, ptr(40.0), catalyst.TrendStrongRiskOff},
		{"sector strength reinforces a mild rally", ptr(0.5), ptr(2.5), nil, catalyst.TrendRiskOn},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, ClassifySectorTrend(c.bench, c.sector, c.vol))
		})
	}
}
