package models

import "time"

// Analysis is one laboratory test result tied to a transport. As with
// Transport, the upstream owns the record and the JSON field names.
type Analysis struct {
	AnalysisID       int       `json:"ANALISISID"`
	TransportID      int       `json:"TRANSPORTEID"`
	CreatedByUserID  int       `json:"USUARIOID_ANALISIS"`
	ModifiedByUserID int       `json:"USUARIOID_MODIFICACION"`
	AnalyzedAt       time.Time `json:"FECHAHORAANALISIS"`
	ModifiedAt       time.Time `json:"FECHAHORAMODIFICACION"`
	Closed           bool      `json:"CERRADO"`
	Anomaly          bool      `json:"ANOMALIA"`
	AnomalyVerified  *bool     `json:"ANOMALIA_VERIFICADA"`
	AnomalyNote      string    `json:"ANOMALIA_OBSERVACION"`
	Version          int       `json:"VERSION"`

	Measurements
}

// Measurements holds the lab values of an analysis. The *_KG fields are
// grams-per-liter figures derived from the percentage and the transport's
// volume; they are never edited directly.
type Measurements struct {
	FatPct         float64 `json:"MG_PORCENTUAL"`
	FatGrams       float64 `json:"MG_KG"`
	ProteinPct     float64 `json:"PROT_PORCENTUAL"`
	ProteinGrams   float64 `json:"PROT_KG"`
	LactosePct     float64 `json:"LACT_PORCENTUAL"`
	LactoseGrams   float64 `json:"LACT_KG"`
	NonFatPct      float64 `json:"SNG_PORCENTUAL"`
	NonFatGrams    float64 `json:"SNG_KG"`
	TotalSolidsPct float64 `json:"ST_PORCENTUAL"`
	TotalSolidsGr  float64 `json:"ST_KG"`
	Urea           float64 `json:"UREA"`
	ColonyCount    float64 `json:"UFC"`
	SomaticCells   float64 `json:"CS"`
	Water          bool    `json:"AGUA"`
	Antibiotic     bool    `json:"ANTIBIOTICO"`
}

// AnomalyIsVerified reports whether a flagged anomaly has been confirmed.
func (a *Analysis) AnomalyIsVerified() bool {
	return a.AnomalyVerified != nil && *a.AnomalyVerified
}

// UpdateAnalysisRequest is the full-field-set payload sent on edit. The
// upstream expects the incremented VERSION alongside every measurement.
type UpdateAnalysisRequest struct {
	Measurements
	ModifiedByUserID int       `json:"USUARIOID_MODIFICACION"`
	ModifiedAt       time.Time `json:"FECHAHORAMODIFICACION"`
	Version          int       `json:"VERSION"`
}
