package printing

import (
	"bytes"
	"testing"
	"time"

	"lactalog-backend/internal/models"
	"lactalog-backend/internal/viewmodels"
)

func sampleDetail() *viewmodels.AnalysisDetail {
	return &viewmodels.AnalysisDetail{
		Analysis: &models.Analysis{
			AnalysisID:  7,
			TransportID: 3,
			AnalyzedAt:  time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC),
			Measurements: models.Measurements{
				FatPct:       4.2,
				FatGrams:     42,
				ProteinPct:   3.4,
				ProteinGrams: 34,
				Water:        false,
				Antibiotic:   true,
			},
		},
		Transport:   &models.Transport{TransportID: 3, Liters: 1000},
		ClienteName: "Tambo Norte",
		ModifiedBy:  "Ana",
	}
}

func TestAnalysisReportProducesPDF(t *testing.T) {
	pdf, err := AnalysisReport(sampleDetail())
	if err != nil {
		t.Fatalf("AnalysisReport: %v", err)
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF")) {
		t.Fatalf("output does not look like a PDF: %q", pdf[:10])
	}
}

func TestAnalysisReportWithAnomalyBlock(t *testing.T) {
	d := sampleDetail()
	d.Analysis.Anomaly = true
	d.Analysis.AnomalyNote = "recuento fuera de rango"

	pdf, err := AnalysisReport(d)
	if err != nil {
		t.Fatalf("AnalysisReport: %v", err)
	}
	if len(pdf) == 0 {
		t.Fatalf("empty report")
	}
}

func TestAnalysisReportTolerateMissingTransport(t *testing.T) {
	d := sampleDetail()
	d.Transport = nil

	if _, err := AnalysisReport(d); err != nil {
		t.Fatalf("AnalysisReport without parent transport: %v", err)
	}
}

func TestYesNo(t *testing.T) {
	if got := yesNo(true); got != "Si" {
		t.Fatalf("yesNo(true) = %q", got)
	}
	if got := yesNo(false); got != "No" {
		t.Fatalf("yesNo(false) = %q", got)
	}
}
