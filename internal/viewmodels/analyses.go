package viewmodels

import (
	"fmt"
	"sort"
	"strings"

	"lactalog-backend/internal/models"
	"lactalog-backend/internal/timeutil"
)

// AnalysisRow is one analysis list entry joined against its parent
// transport and the cliente it belongs to.
type AnalysisRow struct {
	*models.Analysis
	ClienteID    int         `json:"CLIENTEID"`
	ClienteName  string      `json:"cliente_name"`
	AnalyzedDate string      `json:"analyzed_date"`
	Liters       float64     `json:"LITROS"`
	Seized       bool        `json:"DECOMISO"`
	Actions      Affordances `json:"actions"`
}

// TransportIndex maps transport IDs to their records for the analysis join.
func TransportIndex(transports []*models.Transport) map[int]*models.Transport {
	idx := make(map[int]*models.Transport, len(transports))
	for _, t := range transports {
		idx[t.TransportID] = t
	}
	return idx
}

// BuildAnalysisRows joins, scopes, filters, and sorts the analysis list for
// one viewer. The cliente and volume come through the parent transport;
// analyses whose transport no longer exists keep the placeholder name and
// are never scoped away from admins or staff.
func BuildAnalysisRows(analyses []*models.Analysis, transports map[int]*models.Transport, clientes NameIndex, q Query) []AnalysisRow {
	rows := make([]AnalysisRow, 0, len(analyses))
	search := strings.ToLower(strings.TrimSpace(q.Search))

	for _, a := range analyses {
		parent := transports[a.TransportID]

		if q.Role == models.RoleCliente {
			if parent == nil || parent.ClienteID != q.ClienteID {
				continue
			}
		}
		if !q.Category.matchAnalysis(a, parent) {
			continue
		}

		row := AnalysisRow{
			Analysis:     a,
			AnalyzedDate: timeutil.FormatART(a.AnalyzedAt, timeutil.DisplayLayout),
			ClienteName:  PlaceholderName,
			Actions:      AnalysisActions(a, parent, q.Role),
		}
		if parent != nil {
			row.ClienteID = parent.ClienteID
			row.ClienteName = clientes.Lookup(parent.ClienteID)
			row.Liters = parent.Liters
			row.Seized = parent.Seized
		}

		if search != "" && !row.matches(search) {
			continue
		}
		rows = append(rows, row)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].AnalyzedAt.After(rows[j].AnalyzedAt)
	})
	return rows
}

func (r *AnalysisRow) matches(search string) bool {
	fields := []string{
		strings.ToLower(r.ClienteName),
		r.AnalyzedDate,
		fmt.Sprintf("%d", r.AnalysisID),
		fmt.Sprintf("%d", r.TransportID),
		fmt.Sprintf("%g", r.Liters),
	}
	for _, f := range fields {
		if strings.Contains(f, search) {
			return true
		}
	}
	return false
}
