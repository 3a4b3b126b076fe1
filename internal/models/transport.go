package models

import "time"

// Transport is one milk pickup event, owned by the upstream API. Field names
// follow the upstream's JSON contract.
type Transport struct {
	TransportID        int       `json:"TRANSPORTEID"`
	ClienteID          int       `json:"CLIENTEID"`
	CreatedByUserID    int       `json:"USUARIOID_TRANSPORTE"`
	ModifiedByUserID   int       `json:"USUARIOID_MODIFICACION"`
	TransportedAt      time.Time `json:"FECHAHORATRANSPORTE"`
	ModifiedAt         time.Time `json:"FECHAHORAMODIFICACION"`
	Liters             float64   `json:"LITROS"`
	Temperature        float64   `json:"TEMPERATURA"`
	AlcoholPositive    bool      `json:"PALCOHOL"`
	Closed             bool      `json:"CERRADO"`
	Anomaly            bool      `json:"ANOMALIA"`
	AnomalyVerified    *bool     `json:"ANOMALIA_VERIFICADA"`
	AnomalyNote        string    `json:"ANOMALIA_OBSERVACION"`
	Seized             bool      `json:"DECOMISO"`
	SeizureNote        string    `json:"DECOMISO_OBSERVACION"`
	Version            int       `json:"VERSION"`
}

// AnomalyIsVerified reports whether a flagged anomaly has been confirmed.
// The upstream sends null for records that never had an anomaly.
func (t *Transport) AnomalyIsVerified() bool {
	return t.AnomalyVerified != nil && *t.AnomalyVerified
}

// CreateTransportRequest is the request body for creating a transport.
type CreateTransportRequest struct {
	CreatedByUserID int       `json:"USUARIOID_TRANSPORTE"`
	ClienteID       int       `json:"CLIENTEID"`
	TransportedAt   time.Time `json:"FECHAHORATRANSPORTE"`
	Liters          float64   `json:"LITROS"`
	AlcoholPositive bool      `json:"PALCOHOL"`
	Temperature     float64   `json:"TEMPERATURA"`
}

// VerifyAnomalyRequest carries the mandatory verification note.
type VerifyAnomalyRequest struct {
	AnomalyNote string `json:"ANOMALIA_OBSERVACION"`
}

// SeizeTransportRequest carries the mandatory seizure reason.
type SeizeTransportRequest struct {
	SeizureNote string `json:"DECOMISO_OBSERVACION"`
}
