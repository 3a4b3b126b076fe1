package viewmodels

import (
	"testing"
	"time"

	"lactalog-backend/internal/models"
)

func sampleAnalyses() ([]*models.Analysis, map[int]*models.Transport, NameIndex) {
	base := time.Date(2026, 8, 10, 9, 0, 0, 0, time.UTC)

	transports := TransportIndex([]*models.Transport{
		{TransportID: 1, ClienteID: 10, Liters: 1000},
		{TransportID: 2, ClienteID: 20, Liters: 500, Seized: true},
	})
	analyses := []*models.Analysis{
		{AnalysisID: 1, TransportID: 1, AnalyzedAt: base},
		{AnalysisID: 2, TransportID: 2, AnalyzedAt: base.Add(time.Hour), Closed: true},
		{AnalysisID: 3, TransportID: 7, AnalyzedAt: base.Add(2 * time.Hour), Anomaly: true},
	}
	clientes := NameIndex{10: "Tambo Norte", 20: "Tambo Sur"}
	return analyses, transports, clientes
}

func TestBuildAnalysisRowsJoin(t *testing.T) {
	analyses, transports, clientes := sampleAnalyses()
	rows := BuildAnalysisRows(analyses, transports, clientes, Query{Role: models.RoleAdmin})

	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	// Newest first: analysis 3 is the orphan.
	if rows[0].AnalysisID != 3 {
		t.Fatalf("expected analysis 3 first, got %d", rows[0].AnalysisID)
	}
	if rows[0].ClienteName != PlaceholderName {
		t.Fatalf("orphan analysis should show placeholder cliente, got %q", rows[0].ClienteName)
	}
	if rows[2].ClienteName != "Tambo Norte" || rows[2].Liters != 1000 {
		t.Fatalf("join failed for analysis 1: %q / %v", rows[2].ClienteName, rows[2].Liters)
	}
	if !rows[1].Seized {
		t.Fatalf("analysis 2 should inherit the parent's seized flag")
	}
}

func TestBuildAnalysisRowsClientScoping(t *testing.T) {
	analyses, transports, clientes := sampleAnalyses()
	rows := BuildAnalysisRows(analyses, transports, clientes, Query{Role: models.RoleCliente, ClienteID: 10})

	if len(rows) != 1 || rows[0].AnalysisID != 1 {
		t.Fatalf("cliente 10 should see only analysis 1, got %d rows", len(rows))
	}
}

func TestBuildAnalysisRowsSeizedCategory(t *testing.T) {
	analyses, transports, clientes := sampleAnalyses()
	rows := BuildAnalysisRows(analyses, transports, clientes,
		Query{Role: models.RoleAdmin, Category: CategorySeized})

	if len(rows) != 1 || rows[0].AnalysisID != 2 {
		t.Fatalf("seized category should resolve through the parent transport, got %d rows", len(rows))
	}
}

func TestBuildAnalysisRowsFilterIdempotent(t *testing.T) {
	analyses, transports, clientes := sampleAnalyses()
	q := Query{Role: models.RoleAdmin, Category: CategoryAnomalous, Search: "3"}

	first := BuildAnalysisRows(analyses, transports, clientes, q)
	second := BuildAnalysisRows(analyses, transports, clientes, q)

	if len(first) != len(second) {
		t.Fatalf("same query must yield same rows: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].AnalysisID != second[i].AnalysisID {
			t.Fatalf("row %d differs between identical queries", i)
		}
	}
}

func TestBuildUserRows(t *testing.T) {
	users := []*models.User{
		{UserID: 1, Name: "Ana", Role: models.RoleAdmin},
		{UserID: 2, Name: "Bruno", Role: models.RoleCliente},
		{UserID: 3, Name: "Carla", Role: models.RoleStaff, Email: "carla@lactalog.test"},
		{UserID: 4, Name: "Diego", Role: models.RoleDriver},
	}

	rows := BuildUserRows(users, "")
	if len(rows) != 2 {
		t.Fatalf("only staff and drivers belong on the personnel screen, got %d rows", len(rows))
	}
	if rows[0].Name != "Carla" || rows[1].Name != "Diego" {
		t.Fatalf("rows not sorted by name: %q, %q", rows[0].Name, rows[1].Name)
	}

	rows = BuildUserRows(users, "carla@")
	if len(rows) != 1 || rows[0].UserID != 3 {
		t.Fatalf("email search failed, got %d rows", len(rows))
	}
}
