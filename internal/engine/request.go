package engine

import (
	"github.com/cltpj/cltpj/internal/common"
	"github.com/cltpj/cltpj/internal/model"
	"github.com/cltpj/cltpj/internal/money"
)

// BuildRequest freezes a draft into the wire-ready payload. This is the
// single point where centavos become decimal reais.
func BuildRequest(d *model.SimulationDraft) (model.SimulationRequest, error) {
	if !d.BenefitsCLT.Resolved() || !d.BenefitsPJ.Resolved() {
		return model.SimulationRequest{}, common.NewValidationError("beneficios", "a custom benefit is still unnamed")
	}

	req := model.SimulationRequest{
		SalaryCLT:    money.ToDecimalUnits(d.SalaryCLT),
		SalaryPJ:     money.ToDecimalUnits(d.SalaryPJ),
		TaxRegime:    d.TaxRegime,
		ReservePct:   d.ReservePct,
		BenefitsCLT:  benefitPayloads(d.BenefitsCLT),
		BenefitsPJ:   benefitPayloads(d.BenefitsPJ),
		BenefitNames: flattenNames(d.BenefitsCLT, d.BenefitsPJ),
	}

	return req, nil
}

func benefitPayloads(c model.BenefitCollection) []model.BenefitPayload {
	payloads := make([]model.BenefitPayload, 0, len(c.Entries))
	for _, e := range c.Entries {
		payloads = append(payloads, model.BenefitPayload{
			Name:  e.Name,
			Value: money.ToDecimalUnits(e.Amount),
		})
	}
	return payloads
}

// flattenNames joins the benefit names of both regimes, deduplicated,
// salaried side first.
func flattenNames(collections ...model.BenefitCollection) []string {
	seen := make(map[string]bool)
	var names []string
	for _, c := range collections {
		for _, e := range c.Entries {
			if !seen[e.Name] {
				seen[e.Name] = true
				names = append(names, e.Name)
			}
		}
	}
	return names
}
