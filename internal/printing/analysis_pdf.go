package printing

import (
	"bytes"
	"fmt"

	"lactalog-backend/internal/timeutil"
	"lactalog-backend/internal/viewmodels"

	"github.com/jung-kurt/gofpdf/v2"
)

// measurementLine is one printed row: the value with its unit next to the
// reference band the lab considers normal.
type measurementLine struct {
	Label     string
	Value     string
	Reference string
}

func yesNo(b bool) string {
	if b {
		return "Si"
	}
	return "No"
}

// lines lays out the fixed field order of the printed report.
func lines(d *viewmodels.AnalysisDetail) []measurementLine {
	m := d.Analysis.Measurements
	return []measurementLine{
		{"Materia grasa", fmt.Sprintf("%.2f %% / %.2f gr/l", m.FatPct, m.FatGrams), "3.3 - 4.0 % / 33 - 40 gr/l"},
		{"Proteina", fmt.Sprintf("%.2f %% / %.2f gr/l", m.ProteinPct, m.ProteinGrams), "3.0 - 3.5 % / 30 - 35 gr/l"},
		{"Lactosa", fmt.Sprintf("%.2f %% / %.2f gr/l", m.LactosePct, m.LactoseGrams), "4.8 - 5.2 % / 48 - 52 gr/l"},
		{"Solidos no grasos", fmt.Sprintf("%.2f %% / %.2f gr/l", m.NonFatPct, m.NonFatGrams), "8.5 - 9.5 % / 85 - 95 gr/l"},
		{"Solidos totales", fmt.Sprintf("%.2f %% / %.2f gr/l", m.TotalSolidsPct, m.TotalSolidsGr), "12 - 13 % / 120 - 130 gr/l"},
		{"Urea", fmt.Sprintf("%.2f mg/dL", m.Urea), "10 - 16 mg/dL"},
		{"UFC", fmt.Sprintf("%.0f UFC/ml", m.ColonyCount), "50000 - 250000 UFC/ml"},
		{"Celulas somaticas", fmt.Sprintf("%.0f celulas/ml", m.SomaticCells), "200 - 400 celulas/ml"},
		{"Agua agregada", yesNo(m.Water), "No"},
		{"Antibiotico", yesNo(m.Antibiotic), "No"},
	}
}

// AnalysisReport renders the printable PDF of one analysis.
func AnalysisReport(d *viewmodels.AnalysisDetail) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(190, 10, "Lactalog - Informe de Analisis", "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(190, 6, fmt.Sprintf("Generado: %s", timeutil.FormatART(timeutil.Now(), timeutil.DisplayLayout)), "", 1, "C", false, 0, "")
	pdf.Ln(5)

	pdf.SetFillColor(240, 240, 240)
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(190, 8, "Datos del analisis", "1", 1, "L", true, 0, "")

	a := d.Analysis
	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(95, 7, fmt.Sprintf("Analisis Nro %d", a.AnalysisID), "LB", 0, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Transporte Nro %d", a.TransportID), "RB", 1, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Cliente: %s", d.ClienteName), "LB", 0, "L", false, 0, "")
	if d.Transport != nil {
		pdf.CellFormat(95, 7, fmt.Sprintf("Volumen: %.0f litros", d.Transport.Liters), "RB", 1, "L", false, 0, "")
	} else {
		pdf.CellFormat(95, 7, "", "RB", 1, "L", false, 0, "")
	}
	pdf.CellFormat(95, 7, fmt.Sprintf("Fecha: %s", timeutil.FormatART(a.AnalyzedAt, timeutil.DisplayLayout)), "LB", 0, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Ultima modificacion: %s", d.ModifiedBy), "RB", 1, "L", false, 0, "")
	pdf.Ln(5)

	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(190, 8, "Resultados", "1", 1, "L", true, 0, "")

	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(200, 200, 200)
	pdf.CellFormat(60, 7, "Parametro", "1", 0, "C", true, 0, "")
	pdf.CellFormat(65, 7, "Valor", "1", 0, "C", true, 0, "")
	pdf.CellFormat(65, 7, "Rango normal", "1", 1, "C", true, 0, "")

	pdf.SetFont("Arial", "", 10)
	for _, line := range lines(d) {
		pdf.CellFormat(60, 6, line.Label, "1", 0, "L", false, 0, "")
		pdf.CellFormat(65, 6, line.Value, "1", 0, "C", false, 0, "")
		pdf.CellFormat(65, 6, line.Reference, "1", 1, "C", false, 0, "")
	}
	pdf.Ln(5)

	if a.Anomaly {
		pdf.SetFont("Arial", "B", 12)
		pdf.SetFillColor(255, 200, 200)
		pdf.CellFormat(190, 8, "Anomalia registrada", "1", 1, "L", true, 0, "")
		pdf.SetFont("Arial", "", 10)
		note := a.AnomalyNote
		if note == "" {
			note = "Sin observaciones"
		}
		pdf.CellFormat(190, 7, note, "1", 1, "L", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}
	return buf.Bytes(), nil
}
