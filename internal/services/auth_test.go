package services

import (
	"testing"

	"github.com/nathantkn/restockd/internal/config"
	"github.com/nathantkn/restockd/internal/models"
	"github.com/nathantkn/restockd/internal/utils"
	"github.com/nathantkn/restockd/pkg/apperrors"
)

func newAuthFixture(t *testing.T) *AuthService {
	t.Helper()
	utils.SetJWTSecret("test-secret")
	return NewAuthService(newTestDB(t), &config.JWTConfig{Secret: "test-secret", ExpireHour: 1})
}

func TestRegisterAndLogin(t *testing.T) {
	svc := newAuthFixture(t)

	user, err := svc.Register(&RegisterRequest{
		Email:     "alex@donors.org",
		Password:  "hunter22",
		Role:      models.RoleDonor,
		FirstName: "Alex",
		LastName:  "Rivera",
	})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if user.Password == "hunter22" {
		t.Error("password must be stored hashed")
	}

	resp, err := svc.Login(&LoginRequest{Email: "alex@donors.org", Password: "hunter22"})
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if resp.Token == "" {
		t.Error("login should issue a token")
	}
	if resp.User.ID != user.ID {
		t.Errorf("logged-in user id = %d, expected %d", resp.User.ID, user.ID)
	}
}

func TestRegister_Validation(t *testing.T) {
	svc := newAuthFixture(t)

	if _, err := svc.Register(&RegisterRequest{
		Email: "x@y.org", Password: "hunter22", Role: models.RoleAdmin,
	}); !apperrors.IsValidation(err) {
		t.Errorf("admin self-registration should fail validation, got %v", err)
	}

	if _, err := svc.Register(&RegisterRequest{
		Email: "bank@y.org", Password: "hunter22", Role: models.RoleFoodBank,
	}); !apperrors.IsValidation(err) {
		t.Errorf("food bank without org name should fail validation, got %v", err)
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc := newAuthFixture(t)

	req := &RegisterRequest{Email: "alex@donors.org", Password: "hunter22", Role: models.RoleDonor}
	if _, err := svc.Register(req); err != nil {
		t.Fatalf("first Register failed: %v", err)
	}
	if _, err := svc.Register(req); !apperrors.IsConflict(err) {
		t.Errorf("duplicate email should conflict, got %v", err)
	}
}

func TestLogin_BadCredentials(t *testing.T) {
	svc := newAuthFixture(t)

	if _, err := svc.Register(&RegisterRequest{
		Email: "alex@donors.org", Password: "hunter22", Role: models.RoleDonor,
	}); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	if _, err := svc.Login(&LoginRequest{Email: "alex@donors.org", Password: "wrong"}); !apperrors.IsValidation(err) {
		t.Errorf("wrong password should fail validation, got %v", err)
	}
	if _, err := svc.Login(&LoginRequest{Email: "nobody@donors.org", Password: "hunter22"}); !apperrors.IsValidation(err) {
		t.Errorf("unknown email should fail validation, got %v", err)
	}
}

func TestChangePassword(t *testing.T) {
	svc := newAuthFixture(t)

	user, err := svc.Register(&RegisterRequest{
		Email: "alex@donors.org", Password: "hunter22", Role: models.RoleDonor,
	})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	if err := svc.ChangePassword(user.ID, &ChangePasswordRequest{
		OldPassword: "wrong", NewPassword: "newpass99",
	}); !apperrors.IsValidation(err) {
		t.Errorf("wrong old password should fail validation, got %v", err)
	}

	if err := svc.ChangePassword(user.ID, &ChangePasswordRequest{
		OldPassword: "hunter22", NewPassword: "newpass99",
	}); err != nil {
		t.Fatalf("ChangePassword failed: %v", err)
	}

	if _, err := svc.Login(&LoginRequest{Email: "alex@donors.org", Password: "newpass99"}); err != nil {
		t.Errorf("login with new password failed: %v", err)
	}
}
