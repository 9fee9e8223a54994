package domain

import "strings"

// Well-known role identifiers.
const (
	// RoleCEO is the reserved full-access role. It is never editable or deletable.
	RoleCEO = "ceo"
	// RoleStaff is the default role assigned when an application is approved.
	RoleStaff = "staff"
	// RoleUnassigned means "no role / no company access".
	RoleUnassigned = "unassigned"
)

// PermissionAll is the wildcard sentinel that grants every permission.
const PermissionAll = "all"

// Permission identifiers enforced in code. The full assignable catalog is
// AllPermissions below; identifiers only used as page grants stay there.
const (
	PermissionStaffs          = "staffs"
	PermissionAnnouncements   = "announcements"
	PermissionCompanySettings = "company_settings"
)

// Role is a named permission bundle. System roles are global seed rows and
// cannot be deleted; custom roles belong to a single company.
type Role struct {
	RoleID      string   `json:"roleID"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Permissions []string `json:"permissions"`
	IsSystem    bool     `json:"isSystem"`
	CompanyID   *string  `json:"companyID,omitempty"` // nil for system roles
	UserCount   int      `json:"userCount"`           // derived, recomputed on demand
}

// Grants reports whether the role grants the given permission: either the
// permission set contains the "all" wildcard or the specific identifier.
func (r Role) Grants(permission string) bool {
	for _, p := range r.Permissions {
		if p == PermissionAll || p == permission {
			return true
		}
	}
	return false
}

// RoleAssignment is the authoritative user→role join row from user_roles.
// The stored role string may be the role id or the role's display name,
// historical data uses both conventions.
type RoleAssignment struct {
	UserID string `json:"userID"`
	Role   string `json:"role"`
}

// MatchesRole reports whether the assignment refers to the given role,
// matching the stored string against the role id or display name,
// case-insensitively. Neither convention is treated as canonical.
func (a RoleAssignment) MatchesRole(r Role) bool {
	stored := strings.ToLower(strings.TrimSpace(a.Role))
	if stored == "" {
		return false
	}
	return stored == strings.ToLower(r.RoleID) || stored == strings.ToLower(r.Name)
}

// Permission is an atomic capability, typically a page or feature key.
type Permission struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	Description string `json:"description"`
	Route       string `json:"route,omitempty"`
}

// AllPermissions is the closed catalog of assignable permissions.
var AllPermissions = []Permission{
	{ID: "dashboard", Label: "Dashboard", Description: "View the company dashboard", Route: "/dashboard"},
	{ID: "attendance", Label: "Attendance", Description: "Clock in/out and view own work sessions", Route: "/attendance"},
	{ID: "staffs", Label: "Staff Management", Description: "View and manage company staff", Route: "/staffs"},
	{ID: "roles", Label: "Role Management", Description: "Create roles and edit permissions", Route: "/roles"},
	{ID: "leave_requests", Label: "Leave Requests", Description: "Review and approve leave requests", Route: "/leave-requests"},
	{ID: "salary", Label: "Salary", Description: "View and publish salary information", Route: "/salary"},
	{ID: "announcements", Label: "Announcements", Description: "Send company-wide announcements"},
	{ID: "reports", Label: "Reports", Description: "View attendance and activity reports", Route: "/reports"},
	{ID: "verification", Label: "Verification", Description: "Review identity verification requests", Route: "/verification"},
	{ID: "company_settings", Label: "Company Settings", Description: "Edit company profile and working hours", Route: "/company-settings"},
}
