package viewmodels

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"lactalog-backend/internal/models"
)

// decimalPattern trims free-form numeric input down to digits plus at most
// two decimal places. A comma works as the decimal separator.
var decimalPattern = regexp.MustCompile(`^(\d*)([.,]\d{0,2})?`)

// NormalizeDecimal sanitizes a numeric input string: keeps the leading
// digits and up to two decimals, converts a comma separator to a dot, and
// drops everything else. Invalid input collapses to the empty string.
func NormalizeDecimal(s string) string {
	m := decimalPattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return ""
	}
	out := m[1] + strings.Replace(m[2], ",", ".", 1)
	if out == "." {
		return ""
	}
	return out
}

// ParseAmount normalizes and parses a numeric input. Empty input is zero.
func ParseAmount(s string) (float64, error) {
	n := NormalizeDecimal(s)
	if n == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(strings.TrimSuffix(n, "."), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q", s)
	}
	return v, nil
}

// Round2 rounds to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// DerivedGrams computes a grams-per-liter figure from the transport volume
// and a percentage measurement, rounded to two decimals.
func DerivedGrams(liters, pct float64) float64 {
	return Round2(liters * pct / 100)
}

// MeasurementRange is the advisory normal band for one lab value. Values
// outside the band are flagged to the operator but never rejected.
type MeasurementRange struct {
	Field string
	Label string
	Unit  string
	Min   float64
	Max   float64
}

// MeasurementRanges lists the advisory bands for the editable lab values.
var MeasurementRanges = []MeasurementRange{
	{Field: "MG_PORCENTUAL", Label: "Materia grasa", Unit: "%", Min: 3.3, Max: 5.5},
	{Field: "PROT_PORCENTUAL", Label: "Proteina", Unit: "%", Min: 3.3, Max: 3.5},
	{Field: "LACT_PORCENTUAL", Label: "Lactosa", Unit: "%", Min: 4.8, Max: 5.2},
	{Field: "SNG_PORCENTUAL", Label: "Solidos no grasos", Unit: "%", Min: 8.6, Max: 9.5},
	{Field: "ST_PORCENTUAL", Label: "Solidos totales", Unit: "%", Min: 11.9, Max: 13.5},
	{Field: "UREA", Label: "Urea", Unit: "mg/dL", Min: 10, Max: 16},
	{Field: "UFC", Label: "UFC", Unit: "UFC/ml", Min: 50000, Max: 250000},
	{Field: "CS", Label: "Celulas somaticas", Unit: "celulas/ml", Min: 200, Max: 400},
}

// RangeHint returns the advisory band for an upstream field name.
func RangeHint(field string) (MeasurementRange, bool) {
	for _, r := range MeasurementRanges {
		if r.Field == field {
			return r, true
		}
	}
	return MeasurementRange{}, false
}

// OutOfRange lists the fields of a measurement set that fall outside their
// advisory bands. An empty result means everything looks normal.
func OutOfRange(m *models.Measurements) []MeasurementRange {
	values := map[string]float64{
		"MG_PORCENTUAL":   m.FatPct,
		"PROT_PORCENTUAL": m.ProteinPct,
		"LACT_PORCENTUAL": m.LactosePct,
		"SNG_PORCENTUAL":  m.NonFatPct,
		"ST_PORCENTUAL":   m.TotalSolidsPct,
		"UREA":            m.Urea,
		"UFC":             m.ColonyCount,
		"CS":              m.SomaticCells,
	}

	var out []MeasurementRange
	for _, r := range MeasurementRanges {
		v := values[r.Field]
		if v < r.Min || v > r.Max {
			out = append(out, r)
		}
	}
	return out
}

// RecomputeDerived refreshes every grams field of a measurement set from
// the transport volume, and rounds the percentages the same way the edit
// form would.
// RoundMeasurements re-rounds every entered numeric field to two decimals.
func RoundMeasurements(m *models.Measurements) {
	m.FatPct = Round2(m.FatPct)
	m.ProteinPct = Round2(m.ProteinPct)
	m.LactosePct = Round2(m.LactosePct)
	m.NonFatPct = Round2(m.NonFatPct)
	m.TotalSolidsPct = Round2(m.TotalSolidsPct)
	m.Urea = Round2(m.Urea)
	m.ColonyCount = Round2(m.ColonyCount)
	m.SomaticCells = Round2(m.SomaticCells)
}

func RecomputeDerived(m *models.Measurements, liters float64) {
	RoundMeasurements(m)

	m.FatGrams = DerivedGrams(liters, m.FatPct)
	m.ProteinGrams = DerivedGrams(liters, m.ProteinPct)
	m.LactoseGrams = DerivedGrams(liters, m.LactosePct)
	m.NonFatGrams = DerivedGrams(liters, m.NonFatPct)
	m.TotalSolidsGr = DerivedGrams(liters, m.TotalSolidsPct)
}
