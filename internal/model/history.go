package model

import "time"

// DraftSnapshot is the opaque blob stored alongside a history record: the
// inputs that produced the result, serialized write-mostly. Nothing on the
// client re-hydrates it into an editable draft; it exists for display and
// for whatever the server wants to do with it.
type DraftSnapshot struct {
	TaxRegime   string           `json:"regimeTributario"`
	BenefitsCLT []BenefitPayload `json:"beneficiosClt"`
	BenefitsPJ  []BenefitPayload `json:"beneficiosPj"`
	ReservePct  int              `json:"reservaEmergencia"`
}

// HistoryRecord is one persisted simulation outcome.
type HistoryRecord struct {
	CreatedAt time.Time `json:"criadoEm"`
	ID        string    `json:"id"`
	Verdict   string    `json:"veredicto"`
	Payload   string    `json:"dados"`
	NetPayCLT float64   `json:"salarioLiquidoClt"`
	NetPayPJ  float64   `json:"salarioLiquidoPj"`
}
