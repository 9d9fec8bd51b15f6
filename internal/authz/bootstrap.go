package authz

import (
	"fmt"

	"github.com/ciudad-suerte/internal/constants"
)

// RoleSeed 预置角色定义
type RoleSeed struct {
	Role     string
	Inherits []string
	Policies []Policy
}

// BuiltinRoleSeeds 系统预置角色矩阵
func BuiltinRoleSeeds() []RoleSeed {
	return []RoleSeed{
		{
			Role: constants.RoleCashier,
			Policies: []Policy{
				{Object: "/terminal/register", Action: "POST"},
				{Object: "/terminal/entries", Action: "POST"},
				{Object: "/terminal/entries/precheck", Action: "POST"},
				{Object: "/terminal/persons/:id_number", Action: "GET"},
				{Object: "/terminal/manual-coupons", Action: "POST"},
				{Object: "/terminal/manual-coupons/pending", Action: "GET"},
				{Object: "/terminal/manual-coupons/print", Action: "POST"},
				{Object: "/terminal/config", Action: "GET"},
				{Object: "/terminal/rooms", Action: "GET"},
				{Object: "/admin/me", Action: "GET"},
			},
		},
		{
			Role:     constants.RoleFloorManager,
			Inherits: []string{constants.RoleCashier},
			Policies: []Policy{
				{Object: "/terminal/coupons/:id/reprint", Action: "POST"},
				{Object: "/terminal/config", Action: "PUT"},
				{Object: "/admin/summary", Action: "GET"},
				{Object: "/admin/coupons", Action: "GET"},
				{Object: "/admin/persons", Action: "GET"},
				{Object: "/admin/rooms", Action: "GET"},
			},
		},
		{
			Role:     constants.RoleAdmin,
			Inherits: []string{constants.RoleFloorManager},
			Policies: []Policy{
				{Object: "/*", Action: "*"},
			},
		},
	}
}

// BootstrapBuiltinRoles 初始化预置角色与默认策略
func (s *Service) BootstrapBuiltinRoles() error {
	if s == nil || s.enforcer == nil {
		return fmt.Errorf("authz service unavailable")
	}

	changed := false
	for _, seed := range BuiltinRoleSeeds() {
		role, err := NormalizeRole(seed.Role)
		if err != nil {
			return err
		}

		exists, err := s.enforcer.HasNamedGroupingPolicy("g", role, roleAnchor)
		if err != nil {
			return fmt.Errorf("check builtin role failed: %w", err)
		}
		if !exists {
			added, err := s.enforcer.AddNamedGroupingPolicy("g", role, roleAnchor)
			if err != nil {
				return fmt.Errorf("create builtin role failed: %w", err)
			}
			if added {
				changed = true
			}
		}

		for _, parent := range seed.Inherits {
			parentRole, err := NormalizeRole(parent)
			if err != nil {
				return err
			}
			added, err := s.enforcer.AddNamedGroupingPolicy("g", role, parentRole)
			if err != nil {
				return fmt.Errorf("link role inheritance failed: %w", err)
			}
			if added {
				changed = true
			}
		}

		for _, policy := range seed.Policies {
			action := NormalizeAction(policy.Action)
			if action == "" {
				return fmt.Errorf("builtin policy action is required")
			}
			added, err := s.enforcer.AddPolicy(role, NormalizeObject(policy.Object), action)
			if err != nil {
				return fmt.Errorf("add builtin policy failed: %w", err)
			}
			if added {
				changed = true
			}
		}
	}

	if changed {
		return s.ReloadPolicy()
	}
	return nil
}
