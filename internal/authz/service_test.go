package authz

import (
	"fmt"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupAuthzServiceTest(t *testing.T) *Service {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	svc, err := NewService(db)
	if err != nil {
		t.Fatalf("new authz service failed: %v", err)
	}
	if err := svc.BootstrapBuiltinRoles(); err != nil {
		t.Fatalf("bootstrap builtin roles failed: %v", err)
	}
	return svc
}

func TestBuiltinRoleMatrix(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	cases := []struct {
		role   string
		object string
		action string
		want   bool
	}{
		{"cashier", "/api/v1/terminal/entries", "post", true},
		{"cashier", "/api/v1/terminal/persons/30111222", "GET", true},
		{"cashier", "/api/v1/terminal/coupons/9/reprint", "POST", false},
		{"cashier", "/api/v1/terminal/config", "PUT", false},
		{"cashier", "/api/v1/admin/summary", "GET", false},
		{"floor_manager", "/api/v1/terminal/entries", "POST", true},
		{"floor_manager", "/api/v1/terminal/coupons/9/reprint", "POST", true},
		{"floor_manager", "/api/v1/admin/summary", "GET", true},
		{"floor_manager", "/api/v1/admin/rooms", "POST", false},
		{"floor_manager", "/api/v1/admin/purge", "POST", false},
		{"admin", "/api/v1/admin/purge", "POST", true},
		{"admin", "/api/v1/admin/staff/3", "PUT", true},
		{"admin", "/api/v1/terminal/coupons/9/reprint", "POST", true},
		{"owner", "/api/v1/terminal/entries", "POST", false},
	}
	for _, tc := range cases {
		allow, err := svc.EnforceRole(tc.role, tc.object, tc.action)
		if err != nil {
			t.Fatalf("enforce %s %s %s failed: %v", tc.role, tc.action, tc.object, err)
		}
		if allow != tc.want {
			t.Fatalf("enforce %s %s %s = %v, want %v", tc.role, tc.action, tc.object, allow, tc.want)
		}
	}
}

func TestBootstrapIsIdempotent(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	before, err := svc.GetRolePolicies("cashier")
	if err != nil {
		t.Fatalf("get policies failed: %v", err)
	}
	if err := svc.BootstrapBuiltinRoles(); err != nil {
		t.Fatalf("second bootstrap failed: %v", err)
	}
	after, err := svc.GetRolePolicies("cashier")
	if err != nil {
		t.Fatalf("get policies failed: %v", err)
	}
	if len(before) == 0 || len(before) != len(after) {
		t.Fatalf("policies changed across bootstraps: %d -> %d", len(before), len(after))
	}
}

func TestDescribeRoles(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	roles, err := svc.DescribeRoles()
	if err != nil {
		t.Fatalf("describe roles failed: %v", err)
	}
	byRole := map[string]RolePolicies{}
	for _, role := range roles {
		byRole[role.Role] = role
	}
	if len(byRole) != 3 {
		t.Fatalf("roles = %v, want 3", roles)
	}
	manager := byRole["role:floor_manager"]
	if len(manager.Inherits) != 1 || manager.Inherits[0] != "role:cashier" {
		t.Fatalf("unexpected manager inheritance: %+v", manager)
	}
	admin := byRole["role:admin"]
	if len(admin.Policies) != 1 || admin.Policies[0].Object != "/*" || admin.Policies[0].Action != "*" {
		t.Fatalf("unexpected admin policies: %+v", admin.Policies)
	}
}

func TestNormalizeObject(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{in: "/api/v1/terminal/entries", want: "/terminal/entries"},
		{in: "/terminal/entries", want: "/terminal/entries"},
		{in: "admin/rooms", want: "/admin/rooms"},
		{in: "/api/v1", want: "/"},
		{in: "", want: "/"},
	}
	for _, item := range cases {
		got := NormalizeObject(item.in)
		if got != item.want {
			t.Fatalf("normalize object failed, in=%q want=%q got=%q", item.in, item.want, got)
		}
	}
}
