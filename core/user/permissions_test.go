package user

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_HasPermission(t *testing.T) {
	tests := []struct {
		name  string
		roles []string
		perm  string
		want  bool
	}{
		{name: "no roles", roles: nil, perm: PermViewGradebook, want: false},
		{name: "unknown role", roles: []string{"janitor:"}, perm: PermViewGradebook, want: false},
		{name: "student views gradebook", roles: []string{RoleStudent}, perm: PermViewGradebook, want: true},
		{name: "student cannot grade", roles: []string{RoleStudent}, perm: PermGradeActivity, want: false},
		{name: "teacher grades", roles: []string{RoleTeacher}, perm: PermGradeActivity, want: true},
		{name: "teacher records attendance", roles: []string{RoleTeacher}, perm: PermRecordAttendance, want: true},
		{name: "teacher cannot manage users", roles: []string{RoleTeacher}, perm: PermManageUsers, want: false},
		{name: "admin manages users", roles: []string{RoleAdmin}, perm: PermManageUsers, want: true},
		{name: "admin cannot grade", roles: []string{RoleAdmin}, perm: PermGradeActivity, want: false},
		{name: "owner grades", roles: []string{RoleAdminOwner}, perm: PermGradeActivity, want: true},
		// the effective set is the union over all roles, not the first match
		{name: "union: student+teacher grades", roles: []string{RoleStudent, RoleTeacher}, perm: PermGradeActivity, want: true},
		{name: "union: admin+teacher grades", roles: []string{RoleAdmin, RoleTeacher}, perm: PermGradeActivity, want: true},
		{name: "union: admin+teacher manages users", roles: []string{RoleTeacher, RoleAdmin}, perm: PermManageUsers, want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HasPermission(tt.roles, tt.perm); got != tt.want {
				t.Errorf("HasPermission(%v, %q) = %v; want %v", tt.roles, tt.perm, got, tt.want)
			}
		})
	}
}

func Test_RolePermissions_union(t *testing.T) {
	// granted iff p ∈ ⋃ permissions(r) for r in roles
	roles := []string{RoleStudent, RoleTeacher}
	got := RolePermissions(roles)

	want := make(map[string]struct{})
	for _, role := range roles {
		for perm := range RolePermissions([]string{role}) {
			want[perm] = struct{}{}
		}
	}
	assert.Equal(t, want, got)

	// admin roles carry everything
	assert.Len(t, RolePermissions([]string{RoleAdminOwner}), len(allPermissions))
	assert.Len(t, RolePermissions([]string{RoleAdminPrincipal}), len(allPermissions))
}
