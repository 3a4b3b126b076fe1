package viewmodels

import (
	"fmt"

	"lactalog-backend/internal/models"
)

// Category is the list filter selector. Categories narrow the visible rows;
// they never widen them, so stacking search on top of a category only ever
// removes rows.
type Category string

const (
	CategoryAll                 Category = ""
	CategoryOpen                Category = "open"
	CategoryClosed              Category = "closed"
	CategoryAnomalous           Category = "anomalous"
	CategoryAnomalousUnverified Category = "anomalousNotVerified"
	CategorySeized              Category = "decomisado"
)

// ParseCategory validates a filter selector coming from the request.
func ParseCategory(s string) (Category, error) {
	switch Category(s) {
	case CategoryAll, CategoryOpen, CategoryClosed, CategoryAnomalous,
		CategoryAnomalousUnverified, CategorySeized:
		return Category(s), nil
	}
	return CategoryAll, fmt.Errorf("unknown filter category %q", s)
}

// matchTransport reports whether a transport belongs to the category.
func (c Category) matchTransport(t *models.Transport) bool {
	switch c {
	case CategoryOpen:
		return !t.Closed
	case CategoryClosed:
		return t.Closed
	case CategoryAnomalous:
		return t.Anomaly
	case CategoryAnomalousUnverified:
		return t.Anomaly && !t.AnomalyIsVerified()
	case CategorySeized:
		return t.Seized
	}
	return true
}

// matchAnalysis reports whether an analysis belongs to the category. The
// seized category is resolved through the parent transport, since seizure
// is a transport-level state.
func (c Category) matchAnalysis(a *models.Analysis, parent *models.Transport) bool {
	switch c {
	case CategoryOpen:
		return !a.Closed
	case CategoryClosed:
		return a.Closed
	case CategoryAnomalous:
		return a.Anomaly
	case CategoryAnomalousUnverified:
		return a.Anomaly && !a.AnomalyIsVerified()
	case CategorySeized:
		return parent != nil && parent.Seized
	}
	return true
}

// Query is the combined list filter: a category, a free-text search, and the
// viewer identity used for role scoping.
type Query struct {
	Category  Category
	Search    string
	Role      int
	ClienteID int
}
