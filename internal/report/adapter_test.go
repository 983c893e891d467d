package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cltpj/cltpj/internal/model"
)

func resultWithNet(netCLT float64) *model.SimulationResult {
	return &model.SimulationResult{NetPayCLT: &netCLT}
}

func TestDisplayValuePrefersServerFormatting(t *testing.T) {
	r := resultWithNet(4123.45)
	r.Formatted = map[string]string{"salarioLiquidoClt": "R$ 4.123,45 (srv)"}

	assert.Equal(t, "R$ 4.123,45 (srv)", DisplayValue(r, "salarioLiquidoClt", r.NetCLT()))
}

func TestDisplayValueFallsBackToLocalFormatting(t *testing.T) {
	r := resultWithNet(4123.45)

	// No map at all.
	assert.Equal(t, "4.123,45", DisplayValue(r, "salarioLiquidoClt", r.NetCLT()))

	// Map present but key absent or empty.
	r.Formatted = map[string]string{"salarioLiquidoClt": ""}
	assert.Equal(t, "4.123,45", DisplayValue(r, "salarioLiquidoClt", r.NetCLT()))
}

func TestFieldRows(t *testing.T) {
	r := resultWithNet(4100)
	r.NetPayPJ = 4800.10
	r.BenefitTotalCLT = 500
	r.SuggestedReserve = 480.01

	rows := FieldRows(r)
	require.Len(t, rows, 4)
	assert.Equal(t, "Salário líquido CLT", rows[0].Label)
	assert.Equal(t, "4.100,00", rows[0].Value)
	assert.Equal(t, "4.800,10", rows[1].Value)
	assert.Equal(t, "500,00", rows[2].Value)
	assert.Equal(t, "480,01", rows[3].Value)
}

func TestFieldRowsWithComparison(t *testing.T) {
	r := resultWithNet(4100)
	r.Comparison = &model.Comparison{
		CLT: model.RegimeBreakdown{Deductions: 900},
		PJ:  model.RegimeBreakdown{Deductions: 700, BenefitTotal: 150},
	}

	rows := FieldRows(r)
	require.Len(t, rows, 7)
	assert.Equal(t, "Descontos CLT", rows[4].Label)
	assert.Equal(t, "900,00", rows[4].Value)
	assert.Equal(t, "150,00", rows[6].Value)
}

func TestChartSeriesPrefersComparison(t *testing.T) {
	r := resultWithNet(4100)
	r.Comparison = &model.Comparison{
		CLT: model.RegimeBreakdown{NetPay: 4100, BenefitTotal: 500, SuggestedReserve: 0},
		PJ:  model.RegimeBreakdown{NetPay: 4800, BenefitTotal: 0, SuggestedReserve: 480},
	}

	series := ChartSeries(r)
	require.Len(t, series, 2)
	assert.Equal(t, "CLT", series[0].Regime)
	assert.InDelta(t, 500, series[0].Benefits, 0.001)
	assert.InDelta(t, 480, series[1].Reserve, 0.001)
}

func TestChartSeriesFallsBackToTopLevelFields(t *testing.T) {
	r := resultWithNet(4100)
	r.NetPayPJ = 4800
	r.BenefitTotalCLT = 500
	r.SuggestedReserve = 480

	series := ChartSeries(r)
	require.Len(t, series, 2)
	assert.InDelta(t, 4100, series[0].NetPay, 0.001)
	assert.InDelta(t, 500, series[0].Benefits, 0.001)
	assert.InDelta(t, 4800, series[1].NetPay, 0.001)
	assert.InDelta(t, 480, series[1].Reserve, 0.001)
}
