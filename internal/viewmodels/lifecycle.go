package viewmodels

import (
	"lactalog-backend/internal/models"
)

// CloseConfirmations is how many consecutive confirmations the UI must
// collect before a close or seizure request is actually sent.
const CloseConfirmations = 2

// Affordances tells the UI which lifecycle actions the viewer may take on a
// record. Seized records are terminal: every affordance is off.
type Affordances struct {
	CanEdit          bool `json:"can_edit"`
	CanClose         bool `json:"can_close"`
	CanReopen        bool `json:"can_reopen"`
	CanVerifyAnomaly bool `json:"can_verify_anomaly"`
	CanSeize         bool `json:"can_seize"`
	CanDelete        bool `json:"can_delete"`

	// ReopenNotice is set when the record is closed and the viewer cannot
	// reopen it themselves; the UI shows a "request reopening" hint.
	ReopenNotice bool `json:"reopen_notice"`

	// Confirmations is the number of confirmations close and seize require.
	Confirmations int `json:"confirmations"`
}

// TransportActions computes the viewer's permitted actions on a transport.
func TransportActions(t *models.Transport, role int) Affordances {
	if t.Seized {
		return Affordances{Confirmations: CloseConfirmations}
	}

	isAdmin := role == models.RoleAdmin
	isClient := role == models.RoleCliente

	a := Affordances{
		CanEdit:          !t.Closed && !isClient,
		CanClose:         !t.Closed && !isClient,
		CanReopen:        t.Closed && isAdmin,
		CanVerifyAnomaly: t.Anomaly && !t.AnomalyIsVerified() && !isClient,
		CanSeize:         isAdmin,
		CanDelete:        isAdmin,
		ReopenNotice:     t.Closed && !isAdmin,
		Confirmations:    CloseConfirmations,
	}
	return a
}

// AnalysisActions computes the viewer's permitted actions on an analysis.
// Seizure lives on the transport, so an analysis under a seized transport is
// locked the same way.
func AnalysisActions(a *models.Analysis, parent *models.Transport, role int) Affordances {
	if parent != nil && parent.Seized {
		return Affordances{Confirmations: CloseConfirmations}
	}

	isAdmin := role == models.RoleAdmin
	isClient := role == models.RoleCliente

	return Affordances{
		CanEdit:          !a.Closed && !isClient,
		CanClose:         !a.Closed && !isClient,
		CanReopen:        a.Closed && isAdmin,
		CanVerifyAnomaly: a.Anomaly && !a.AnomalyIsVerified() && !isClient,
		CanDelete:        isAdmin,
		ReopenNotice:     a.Closed && !isAdmin,
		Confirmations:    CloseConfirmations,
	}
}
