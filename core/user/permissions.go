package user

// Permission tokens. Every gated API endpoint names exactly one.
const (
	PermManageUsers    = "manage_users"
	PermManagePrograms = "manage_programs"
	PermManageClasses  = "manage_classes"
	PermManageTeachers = "manage_teachers"

	PermGradeActivity = "grade_activity"
	PermViewGradebook = "view_gradebook"

	PermRecordAttendance = "record_attendance"
	PermViewAttendance   = "view_attendance"

	PermViewDashboard = "view_dashboard"
)

// rolePermissions maps a role to the permission tokens it carries.
// Built once at startup; never mutated.
var rolePermissions = map[string][]string{
	RoleAdminOwner:     allPermissions,
	RoleAdminPrincipal: allPermissions,
	RoleAdmin: {
		PermManageUsers, PermManagePrograms, PermManageClasses, PermManageTeachers,
		PermViewGradebook, PermViewAttendance, PermViewDashboard,
	},
	RoleTeacher: {
		PermGradeActivity, PermViewGradebook,
		PermRecordAttendance, PermViewAttendance,
		PermViewDashboard,
	},
	RoleStudent: {
		PermViewGradebook, PermViewAttendance,
	},
}

var allPermissions = []string{
	PermManageUsers, PermManagePrograms, PermManageClasses, PermManageTeachers,
	PermGradeActivity, PermViewGradebook,
	PermRecordAttendance, PermViewAttendance,
	PermViewDashboard,
}

// RolePermissions returns the union of the permission tokens carried by all
// the given roles.
func RolePermissions(roles []string) map[string]struct{} {
	perms := make(map[string]struct{})
	for _, role := range roles {
		for _, perm := range rolePermissions[role] {
			perms[perm] = struct{}{}
		}
	}
	return perms
}

// HasPermission reports whether any of the given roles carries perm.
// The effective permission set is the union over all roles, not the first match.
func HasPermission(roles []string, perm string) bool {
	_, ok := RolePermissions(roles)[perm]
	return ok
}
