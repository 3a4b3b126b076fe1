package viewmodels

import (
	"fmt"
	"sort"
	"strings"

	"lactalog-backend/internal/models"
	"lactalog-backend/internal/timeutil"
)

// PlaceholderName stands in when a referenced user record no longer exists.
const PlaceholderName = "______________"

// NameIndex maps record IDs to display names for the list joins.
type NameIndex map[int]string

// UserNameIndex builds an id -> name lookup from the user list.
func UserNameIndex(users []*models.User) NameIndex {
	idx := make(NameIndex, len(users))
	for _, u := range users {
		idx[u.UserID] = u.Name
	}
	return idx
}

// ClienteNameIndex builds an id -> name lookup from the cliente list.
func ClienteNameIndex(clientes []*models.Cliente) NameIndex {
	idx := make(NameIndex, len(clientes))
	for _, c := range clientes {
		idx[c.ClienteID] = c.Name
	}
	return idx
}

// Lookup resolves a name, falling back to the placeholder for dangling
// references.
func (idx NameIndex) Lookup(id int) string {
	if name, ok := idx[id]; ok && name != "" {
		return name
	}
	return PlaceholderName
}

// TransportRow is one list entry with the foreign keys already resolved to
// names and the viewer's affordances attached.
type TransportRow struct {
	*models.Transport
	ClienteName     string      `json:"cliente_name"`
	DriverName      string      `json:"driver_name"`
	TransportedDate string      `json:"transported_date"`
	Actions         Affordances `json:"actions"`
}

// BuildTransportRows joins, scopes, filters, and sorts the transport list
// for one viewer. Client-role viewers only ever see their own cliente's
// rows, regardless of what the query asks for.
func BuildTransportRows(transports []*models.Transport, clientes NameIndex, users NameIndex, q Query) []TransportRow {
	rows := make([]TransportRow, 0, len(transports))
	search := strings.ToLower(strings.TrimSpace(q.Search))

	for _, t := range transports {
		if q.Role == models.RoleCliente && t.ClienteID != q.ClienteID {
			continue
		}
		if !q.Category.matchTransport(t) {
			continue
		}

		row := TransportRow{
			Transport:       t,
			ClienteName:     clientes.Lookup(t.ClienteID),
			DriverName:      users.Lookup(t.CreatedByUserID),
			TransportedDate: timeutil.FormatART(t.TransportedAt, timeutil.DisplayLayout),
			Actions:         TransportActions(t, q.Role),
		}

		if search != "" && !row.matches(search) {
			continue
		}
		rows = append(rows, row)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].TransportedAt.After(rows[j].TransportedAt)
	})
	return rows
}

// matches checks the search text against the row's visible columns.
func (r *TransportRow) matches(search string) bool {
	fields := []string{
		strings.ToLower(r.ClienteName),
		strings.ToLower(r.DriverName),
		r.TransportedDate,
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

// MostRecentTransports returns the n most recent transports by pickup time,
// without mutating the input slice.
func MostRecentTransports(transports []*models.Transport, n int) []*models.Transport {
	sorted := make([]*models.Transport, len(transports))
	copy(sorted, transports)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].TransportedAt.After(sorted[j].TransportedAt)
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

// ClienteVolumes is one cliente's pickup volume series, aligned to the
// shared day axis of the chart.
type ClienteVolumes struct {
	ClienteID   int       `json:"cliente_id"`
	ClienteName string    `json:"cliente_name"`
	Liters      []float64 `json:"liters"`
}

// DailyVolumesByCliente buckets transports by local calendar day, one series
// per cliente over a shared day axis (oldest day first). Every cliente gets a
// row, zero-filled where it had no pickups; transports referencing an unknown
// cliente are dropped.
func DailyVolumesByCliente(transports []*models.Transport, clientes []*models.Cliente) ([]string, []ClienteVolumes) {
	daySet := make(map[string]bool)
	for _, t := range transports {
		daySet[timeutil.DayKey(t.TransportedAt)] = true
	}
	days := make([]string, 0, len(daySet))
	for d := range daySet {
		days = append(days, d)
	}
	sort.Strings(days)

	dayIndex := make(map[string]int, len(days))
	for i, d := range days {
		dayIndex[d] = i
	}

	byCliente := make(map[int][]float64, len(clientes))
	series := make([]ClienteVolumes, 0, len(clientes))
	for _, c := range clientes {
		byCliente[c.ClienteID] = make([]float64, len(days))
		series = append(series, ClienteVolumes{ClienteID: c.ClienteID, ClienteName: c.Name})
	}
	for _, t := range transports {
		row, ok := byCliente[t.ClienteID]
		if !ok {
			continue
		}
		row[dayIndex[timeutil.DayKey(t.TransportedAt)]] += t.Liters
	}

	sort.Slice(series, func(i, j int) bool { return series[i].ClienteID < series[j].ClienteID })
	for i := range series {
		liters := byCliente[series[i].ClienteID]
		for j, v := range liters {
			liters[j] = Round2(v)
		}
		series[i].Liters = liters
	}
	return days, series
}
