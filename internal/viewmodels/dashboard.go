package viewmodels

import (
	"context"

	"lactalog-backend/internal/models"
	"lactalog-backend/internal/upstream"

	"golang.org/x/sync/errgroup"
)

// dashboardWindow is how many of the most recent transports feed the daily
// volume chart.
const dashboardWindow = 30

// Summary is the dashboard payload: headline counts plus the recent daily
// volume chart, one series per cliente over a shared day axis.
type Summary struct {
	DriverCount                  int              `json:"driver_count"`
	ClienteCount                 int              `json:"cliente_count"`
	OpenTransports               int              `json:"open_transports"`
	OpenAnalyses                 int              `json:"open_analyses"`
	UnverifiedTransportAnomalies int              `json:"unverified_transport_anomalies"`
	UnverifiedAnalysisAnomalies  int              `json:"unverified_analysis_anomalies"`
	Days                         []string         `json:"days"`
	DailyVolumes                 []ClienteVolumes `json:"daily_volumes"`
}

// BuildSummary assembles the dashboard from the four upstream lists. The
// fetches run concurrently and the summary is all-or-nothing: if any list
// fails, the whole summary fails rather than rendering partial numbers.
func BuildSummary(ctx context.Context, gw *upstream.Gateway) (*Summary, error) {
	var (
		users      []*models.User
		clientes   []*models.Cliente
		transports []*models.Transport
		analyses   []*models.Analysis
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		users, err = gw.ListUsers(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		clientes, err = gw.ListClientes(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		transports, err = gw.ListTransports(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		analyses, err = gw.ListAnalyses(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	s := &Summary{ClienteCount: len(clientes)}

	for _, u := range users {
		if u.Role == models.RoleDriver {
			s.DriverCount++
		}
	}
	for _, t := range transports {
		if !t.Closed {
			s.OpenTransports++
		}
		if t.Anomaly && !t.AnomalyIsVerified() {
			s.UnverifiedTransportAnomalies++
		}
	}
	for _, a := range analyses {
		if !a.Closed {
			s.OpenAnalyses++
		}
		if a.Anomaly && !a.AnomalyIsVerified() {
			s.UnverifiedAnalysisAnomalies++
		}
	}

	s.Days, s.DailyVolumes = DailyVolumesByCliente(
		MostRecentTransports(transports, dashboardWindow), clientes)
	return s, nil
}
