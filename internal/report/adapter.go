// Package report maps a simulation result into display-ready and
// export-ready structures. Everything here is a pure function of the
// result.
package report

import (
	"github.com/cltpj/cltpj/internal/model"
	"github.com/cltpj/cltpj/internal/money"
)

// FieldRow is one label/value line of the tabular rendering.
type FieldRow struct {
	Label string
	Value string
}

// Series is the fixed three-category numeric series for one regime,
// used for charting.
type Series struct {
	Regime   string
	NetPay   float64
	Benefits float64
	Reserve  float64
}

// DisplayValue renders one numeric field of the result, preferring the
// server-supplied preformatted string under the wire key and falling back
// to local formatting. This is the single source chain; render sites never
// pick between the two themselves.
func DisplayValue(r *model.SimulationResult, wireKey string, value float64) string {
	if r != nil {
		if s, ok := r.Formatted[wireKey]; ok && s != "" {
			return s
		}
	}
	return money.FormatDecimal(value)
}

// FieldRows flattens the result into the label/value table shared by the
// terminal view and both export artifacts.
func FieldRows(r *model.SimulationResult) []FieldRow {
	rows := []FieldRow{
		{Label: "Salário líquido CLT", Value: DisplayValue(r, "salarioLiquidoClt", r.NetCLT())},
		{Label: "Salário líquido PJ", Value: DisplayValue(r, "salarioLiquidoPj", r.NetPayPJ)},
		{Label: "Benefícios CLT", Value: DisplayValue(r, "totalBeneficiosClt", r.BenefitTotalCLT)},
		{Label: "Reserva de emergência sugerida", Value: DisplayValue(r, "reservaSugerida", r.SuggestedReserve)},
	}

	if r.Comparison == nil {
		return rows
	}

	rows = append(rows,
		FieldRow{Label: "Descontos CLT", Value: money.FormatDecimal(r.Comparison.CLT.Deductions)},
		FieldRow{Label: "Descontos PJ", Value: money.FormatDecimal(r.Comparison.PJ.Deductions)},
		FieldRow{Label: "Total de benefícios PJ", Value: money.FormatDecimal(r.Comparison.PJ.BenefitTotal)},
	)

	return rows
}

// ChartSeries builds the per-regime series. The nested comparison is the
// preferred source; without it the top-level figures are used and the
// contractor side has no benefit total to show.
func ChartSeries(r *model.SimulationResult) []Series {
	if r.Comparison != nil {
		return []Series{
			{
				Regime:   "CLT",
				NetPay:   r.Comparison.CLT.NetPay,
				Benefits: r.Comparison.CLT.BenefitTotal,
				Reserve:  r.Comparison.CLT.SuggestedReserve,
			},
			{
				Regime:   "PJ",
				NetPay:   r.Comparison.PJ.NetPay,
				Benefits: r.Comparison.PJ.BenefitTotal,
				Reserve:  r.Comparison.PJ.SuggestedReserve,
			},
		}
	}

	return []Series{
		{Regime: "CLT", NetPay: r.NetCLT(), Benefits: r.BenefitTotalCLT},
		{Regime: "PJ", NetPay: r.NetPayPJ, Reserve: r.SuggestedReserve},
	}
}
