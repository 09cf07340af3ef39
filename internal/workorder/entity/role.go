package entity

// Deployment roles.
const (
	RoleAdmin = "admin"
	RolePM    = "pm"
	RoleShop  = "shop"
)

// RolePermission maps a role to the order statuses it may see and edit.
// This is a lookup table for clients; the server does not enforce status
// transitions on write paths.
type RolePermission struct {
	VisibleStatuses  []string `json:"visible_statuses"`
	EditableStatuses []string `json:"editable_statuses"`
	CanCreate        bool     `json:"can_create"`
	CanDelete        bool     `json:"can_delete"`
}

var rolePermissions = map[string]RolePermission{
	RoleAdmin: {
		VisibleStatuses:  Statuses,
		EditableStatuses: Statuses,
		CanCreate:        true,
		CanDelete:        true,
	},
	RolePM: {
		VisibleStatuses:  Statuses,
		EditableStatuses: []string{StatusDraft, StatusIssued, StatusOnHold},
		CanCreate:        true,
		CanDelete:        false,
	},
	RoleShop: {
		VisibleStatuses:  []string{StatusIssued, StatusInProgress, StatusOnHold, StatusComplete},
		EditableStatuses: []string{StatusInProgress, StatusOnHold, StatusComplete},
		CanCreate:        false,
		CanDelete:        false,
	},
}

// PermissionsFor returns the permission row for a role.
func PermissionsFor(role string) (RolePermission, bool) {
	p, ok := rolePermissions[role]
	return p, ok
}

// RolePermissions returns the full role table keyed by role name.
func RolePermissions() map[string]RolePermission {
	out := make(map[string]RolePermission, len(rolePermissions))
	for k, v := range rolePermissions {
		out[k] = v
	}
	return out
}

// CanSeeStatus reports whether a role may see orders in the given status.
func (p RolePermission) CanSeeStatus(status string) bool {
	for _, s := range p.VisibleStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// CanEditStatus reports whether a role may edit orders in the given status.
func (p RolePermission) CanEditStatus(status string) bool {
	for _, s := range p.EditableStatuses {
		if s == status {
			return true
		}
	}
	return false
}
