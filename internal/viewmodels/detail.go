package viewmodels

import (
	"context"
	"errors"

	"lactalog-backend/internal/models"
	"lactalog-backend/internal/timeutil"
	"lactalog-backend/internal/upstream"

	"golang.org/x/sync/errgroup"
)

// AnalysisDetail is the full edit/print view of one analysis: the record,
// its parent transport, and the resolved names around it.
type AnalysisDetail struct {
	Analysis     *models.Analysis  `json:"analysis"`
	Transport    *models.Transport `json:"transport"`
	ClienteName  string            `json:"cliente_name"`
	ModifiedBy   string            `json:"modified_by"`
	OutOfRange   []MeasurementRange `json:"out_of_range,omitempty"`
	Actions      Affordances       `json:"actions"`
}

// LoadAnalysisDetail fetches an analysis and the records it references. The
// transport, the cliente list, and the last-modifier lookup run
// concurrently once the analysis itself is in hand.
func LoadAnalysisDetail(ctx context.Context, gw *upstream.Gateway, id int, role int) (*AnalysisDetail, error) {
	a, err := gw.GetAnalysis(ctx, id)
	if err != nil {
		return nil, err
	}

	detail := &AnalysisDetail{
		Analysis:    a,
		ClienteName: PlaceholderName,
		ModifiedBy:  PlaceholderName,
	}

	g, gctx := errgroup.WithContext(ctx)

	var clientes []*models.Cliente
	g.Go(func() error {
		t, err := gw.GetTransport(gctx, a.TransportID)
		if err != nil {
			var apiErr *upstream.APIError
			if errors.As(err, &apiErr) && apiErr.Status == 404 {
				return nil
			}
			return err
		}
		detail.Transport = t
		return nil
	})
	g.Go(func() error {
		var err error
		clientes, err = gw.ListClientes(gctx)
		return err
	})
	g.Go(func() error {
		if a.ModifiedByUserID == 0 {
			return nil
		}
		u, err := gw.GetUser(gctx, a.ModifiedByUserID)
		if err != nil {
			// A deleted modifier is expected; keep the placeholder.
			var apiErr *upstream.APIError
			if errors.As(err, &apiErr) && apiErr.Status == 404 {
				return nil
			}
			return err
		}
		detail.ModifiedBy = u.Name
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	if detail.Transport != nil {
		detail.ClienteName = ClienteNameIndex(clientes).Lookup(detail.Transport.ClienteID)
	}
	detail.OutOfRange = OutOfRange(&a.Measurements)
	detail.Actions = AnalysisActions(a, detail.Transport, role)
	return detail, nil
}

// ErrAnalysisClosed rejects edits on a closed analysis.
var ErrAnalysisClosed = errors.New("analysis is closed and cannot be edited")

// BuildAnalysisPayload turns an edit submission into the full update body
// the upstream expects: every measurement re-rounded, the grams fields
// recomputed from the transport volume, and the version bumped. When the
// parent transport is gone, liters is nil and the record's existing derived
// values are carried over instead of being recomputed against zero volume.
func BuildAnalysisPayload(current *models.Analysis, edited *models.Measurements, liters *float64, editorUserID int) (*models.UpdateAnalysisRequest, error) {
	if current.Closed {
		return nil, ErrAnalysisClosed
	}

	m := *edited
	if liters != nil {
		RecomputeDerived(&m, *liters)
	} else {
		RoundMeasurements(&m)
		m.FatGrams = current.FatGrams
		m.ProteinGrams = current.ProteinGrams
		m.LactoseGrams = current.LactoseGrams
		m.NonFatGrams = current.NonFatGrams
		m.TotalSolidsGr = current.TotalSolidsGr
	}

	return &models.UpdateAnalysisRequest{
		Measurements:     m,
		ModifiedByUserID: editorUserID,
		ModifiedAt:       timeutil.Now(),
		Version:          current.Version + 1,
	}, nil
}
