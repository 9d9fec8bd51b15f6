package service

import (
	"context"
	"errors"
	"testing"

	"github.com/ciudad-suerte/internal/config"
	"github.com/ciudad-suerte/internal/constants"
	"github.com/ciudad-suerte/internal/models"
	"github.com/ciudad-suerte/internal/repository"
)

func setupStaffServiceTest(t *testing.T) (*AuthService, *StaffService) {
	t.Helper()
	db := openServiceTestDB(t, "staff_service_test")
	repo := repository.NewStaffRepository(db)
	cfg := &config.Config{JWT: config.JWTConfig{SecretKey: "test-secret", ExpireHours: 1}}
	audit := NewAuditService(repository.NewAuditLogRepository(db))
	return NewAuthService(cfg, repo), NewStaffService(repo, audit)
}

func TestLoginAndResolveStaff(t *testing.T) {
	auth, staff := setupStaffServiceTest(t)
	admin := Actor{StaffID: 1, Username: "admin", Role: constants.RoleAdmin}
	created, err := staff.Create(admin, CreateStaffInput{
		Username: "cajero1",
		Password: "secreto123",
		FullName: "Cajero Uno",
		Role:     constants.RoleCashier,
	})
	if err != nil {
		t.Fatalf("create staff failed: %v", err)
	}

	if _, _, _, err := auth.Login("cajero1", "incorrecta"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("err = %v, want ErrInvalidCredentials", err)
	}
	user, token, _, err := auth.Login(" cajero1 ", "secreto123")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if user.LastLoginAt == nil {
		t.Fatalf("last login not recorded")
	}

	claims, err := auth.ParseJWT(token)
	if err != nil {
		t.Fatalf("parse token failed: %v", err)
	}
	if claims.StaffID != created.ID || claims.Role != constants.RoleCashier {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	state, err := auth.ResolveStaff(context.Background(), claims)
	if err != nil || state.Username != "cajero1" {
		t.Fatalf("resolve staff: %+v %v", state, err)
	}

	inactive := false
	if _, err := staff.Update(context.Background(), admin, created.ID, UpdateStaffInput{IsActive: &inactive}); err != nil {
		t.Fatalf("deactivate failed: %v", err)
	}
	if _, err := auth.ResolveStaff(context.Background(), claims); !errors.Is(err, ErrStaffInactive) {
		t.Fatalf("err = %v, want ErrStaffInactive", err)
	}
	if _, _, _, err := auth.Login("cajero1", "secreto123"); !errors.Is(err, ErrStaffInactive) {
		t.Fatalf("err = %v, want ErrStaffInactive", err)
	}
}

func TestStaffCreateValidation(t *testing.T) {
	_, staff := setupStaffServiceTest(t)
	admin := Actor{StaffID: 1, Username: "admin", Role: constants.RoleAdmin}
	input := CreateStaffInput{Username: "jefe1", Password: "secreto123", Role: constants.RoleFloorManager}
	if _, err := staff.Create(admin, input); err != nil {
		t.Fatalf("create staff failed: %v", err)
	}
	if _, err := staff.Create(admin, input); !errors.Is(err, ErrUsernameExists) {
		t.Fatalf("err = %v, want ErrUsernameExists", err)
	}
	if _, err := staff.Create(admin, CreateStaffInput{Username: "x1", Password: "secreto123", Role: "owner"}); !errors.Is(err, ErrInvalidRole) {
		t.Fatalf("err = %v, want ErrInvalidRole", err)
	}
	if _, err := staff.Create(admin, CreateStaffInput{Username: "x2", Password: "corta", Role: constants.RoleCashier}); !errors.Is(err, ErrPasswordTooShort) {
		t.Fatalf("err = %v, want ErrPasswordTooShort", err)
	}
}

func TestAuthRejectsForeignToken(t *testing.T) {
	auth, _ := setupStaffServiceTest(t)
	other := NewAuthService(&config.Config{JWT: config.JWTConfig{SecretKey: "otra-clave"}}, nil)
	token, _, err := other.GenerateJWT(&models.StaffUser{ID: 3, Username: "intruso", Role: constants.RoleAdmin})
	if err != nil {
		t.Fatalf("generate token failed: %v", err)
	}
	if _, err := auth.ParseJWT(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("err = %v, want ErrInvalidToken", err)
	}
	if _, err := auth.ParseJWT("not-a-token"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("err = %v, want ErrInvalidToken", err)
	}
}
