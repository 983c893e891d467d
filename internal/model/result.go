package model

// RegimeBreakdown is the per-regime slice of the comparative result.
type RegimeBreakdown struct {
	BenefitNames     []string `json:"beneficios"`
	NetPay           float64  `json:"salarioLiquido"`
	Deductions       float64  `json:"descontos"`
	BenefitTotal     float64  `json:"totalBeneficios"`
	SuggestedReserve float64  `json:"reservaSugerida"`
}

// Comparison nests the two regime breakdowns side by side.
type Comparison struct {
	CLT RegimeBreakdown `json:"clt"`
	PJ  RegimeBreakdown `json:"pj"`
}

// SimulationResult is the computed response from the simulation gateway.
// NetPayCLT is a pointer because it doubles as the structural validity
// check: a response without it is unusable and must not be trusted.
// Formatted optionally carries server-rendered display strings keyed by
// wire field name; absent keys fall back to local formatting.
type SimulationResult struct {
	NetPayCLT        *float64          `json:"salarioLiquidoClt"`
	Formatted        map[string]string `json:"formatado,omitempty"`
	Comparison       *Comparison       `json:"comparativo,omitempty"`
	NetPayPJ         float64           `json:"salarioLiquidoPj"`
	BenefitTotalCLT  float64           `json:"totalBeneficiosClt"`
	SuggestedReserve float64           `json:"reservaSugerida"`
}

// NetCLT returns the primary net-pay figure, or zero when absent.
func (r *SimulationResult) NetCLT() float64 {
	if r == nil || r.NetPayCLT == nil {
		return 0
	}
	return *r.NetPayCLT
}

// Usable reports whether the result carries the primary net-pay field.
func (r *SimulationResult) Usable() bool {
	return r != nil && r.NetPayCLT != nil
}
