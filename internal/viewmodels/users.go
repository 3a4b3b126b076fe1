package viewmodels

import (
	"sort"
	"strings"

	"lactalog-backend/internal/models"
)

// UserRow is one entry of the personnel screen. Only staff and driver
// accounts are listed there; admin and client accounts are managed
// elsewhere.
type UserRow struct {
	*models.User
	RoleName string `json:"role_name"`
}

var roleNames = map[int]string{
	models.RoleAdmin:   "Administrador",
	models.RoleCliente: "Cliente",
	models.RoleStaff:   "Operario",
	models.RoleDriver:  "Transportista",
}

// RoleName returns the display label for a role code.
func RoleName(role int) string {
	if name, ok := roleNames[role]; ok {
		return name
	}
	return PlaceholderName
}

// BuildUserRows filters the user list down to staff and drivers, applies
// the search, and sorts by name.
func BuildUserRows(users []*models.User, search string) []UserRow {
	search = strings.ToLower(strings.TrimSpace(search))

	rows := make([]UserRow, 0, len(users))
	for _, u := range users {
		if u.Role != models.RoleStaff && u.Role != models.RoleDriver {
			continue
		}
		row := UserRow{User: u, RoleName: RoleName(u.Role)}
		if search != "" && !row.matches(search) {
			continue
		}
		rows = append(rows, row)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return strings.ToLower(rows[i].Name) < strings.ToLower(rows[j].Name)
	})
	return rows
}

func (r *UserRow) matches(search string) bool {
	fields := []string{
		strings.ToLower(r.Name),
		strings.ToLower(r.Email),
		strings.ToLower(r.Phone),
		strings.ToLower(r.RoleName),
	}
	for _, f := range fields {
		if strings.Contains(f, search) {
			return true
		}
	}
	return false
}

// NewDriverDefaults applies the fixed attributes every account created from
// the personnel screen gets.
func NewDriverDefaults(u *models.User) {
	u.Role = models.RoleDriver
	u.External = true
}
