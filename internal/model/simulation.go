package model

// Tax regimes the contractor side can be simulated under.
const (
	RegimeSimplesNacional = "Simples Nacional"
	RegimeLucroPresumido  = "Lucro Presumido"
	RegimeMEI             = "MEI"
)

// TaxRegimes is the fixed option set for the contractor-side tax selector.
var TaxRegimes = []string{
	RegimeSimplesNacional,
	RegimeLucroPresumido,
	RegimeMEI,
}

// ValidTaxRegime reports whether the selector holds one of the fixed options.
func ValidTaxRegime(regime string) bool {
	for _, r := range TaxRegimes {
		if r == regime {
			return true
		}
	}
	return false
}

// SimulationDraft is the mutable working state of one CLT vs PJ comparison.
// It is created empty, edited in place by the coordinator, frozen into a
// SimulationRequest on submit, and discarded on reset.
type SimulationDraft struct {
	TaxRegime   string
	SalaryCLT   CurrencyAmount
	SalaryPJ    CurrencyAmount
	ReservePct  int
	BenefitsCLT BenefitCollection
	BenefitsPJ  BenefitCollection
}

// BenefitPayload is the wire form of one benefit entry, with the amount
// already converted to decimal reais.
type BenefitPayload struct {
	Name  string  `json:"nome"`
	Value float64 `json:"valor"`
}

// SimulationRequest is the normalized, wire-ready payload derived from a
// draft. Immutable once constructed.
type SimulationRequest struct {
	TaxRegime    string           `json:"regimeTributario"`
	BenefitNames []string         `json:"beneficios"`
	BenefitsCLT  []BenefitPayload `json:"beneficiosClt"`
	BenefitsPJ   []BenefitPayload `json:"beneficiosPj"`
	SalaryCLT    float64          `json:"salarioClt"`
	SalaryPJ     float64          `json:"salarioPj"`
	ReservePct   int              `json:"reservaEmergencia"`
}
