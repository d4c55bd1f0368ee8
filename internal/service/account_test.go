package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/sakif/commentator/internal/apperror"
)

// =========================================================================
// REGISTER TESTS
// =========================================================================

func TestRegister(t *testing.T) {
	accounts, _, _, _ := newTestServices(t)

	account, err := accounts.Register(context.Background(), RegisterInput{
		Username:  "newuser1",
		Password:  "password123",
		Email:     "email@email.com",
		FirstName: "John",
		LastName:  "Doe",
	})
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	if account.Username != "newuser1" {
		t.Errorf("Username = %q, want %q", account.Username, "newuser1")
	}
	if account.Email != "email@email.com" {
		t.Errorf("Email = %q, want %q", account.Email, "email@email.com")
	}
	if account.FirstName != "John" || account.LastName != "Doe" {
		t.Errorf("name = %q %q, want John Doe", account.FirstName, account.LastName)
	}

	// Password opacity: the stored hash is never the plaintext.
	if account.PasswordHash == "password123" {
		t.Error("PasswordHash equals the plaintext password")
	}
	if account.PasswordHash == "" {
		t.Error("PasswordHash is empty")
	}
}

func TestRegister_DuplicateUsername(t *testing.T) {
	accounts, _, accountRepo, _ := newTestServices(t)
	registerTestUser(t, accounts, "newuser1", "email@email.com")

	// Same username, different email — exactly one account may exist after.
	_, err := accounts.Register(context.Background(), RegisterInput{
		Username:  "newuser1",
		Password:  "password456",
		Email:     "other@email.com",
		FirstName: "Jane",
		LastName:  "Doe",
	})
	if !errors.Is(err, apperror.ErrConflict) {
		t.Fatalf("Register(duplicate) error = %v, want ErrConflict", err)
	}

	var appErr *apperror.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("Register(duplicate) error = %v, want *apperror.AppError", err)
	}
	if appErr.Field != "username" {
		t.Errorf("conflict field = %q, want %q", appErr.Field, "username")
	}
	if len(accountRepo.accounts) != 1 {
		t.Errorf("account count = %d, want 1", len(accountRepo.accounts))
	}
}

func TestRegister_ValidationFailures(t *testing.T) {
	accounts, _, accountRepo, _ := newTestServices(t)

	valid := RegisterInput{
		Username:  "newuser1",
		Password:  "password123",
		Email:     "email@email.com",
		FirstName: "John",
		LastName:  "Doe",
	}

	tests := []struct {
		name      string
		mutate    func(*RegisterInput)
		wantField string
	}{
		{"missing username", func(in *RegisterInput) { in.Username = "" }, "username"},
		{"overlong username", func(in *RegisterInput) { in.Username = strings.Repeat("a", 31) }, "username"},
		{"missing password", func(in *RegisterInput) { in.Password = "" }, "password"},
		{"overlong password", func(in *RegisterInput) { in.Password = strings.Repeat("a", 73) }, "password"},
		{"missing email", func(in *RegisterInput) { in.Email = "" }, "email"},
		{"overlong email", func(in *RegisterInput) { in.Email = strings.Repeat("a", 45) + "@email.com" }, "email"},
		{"malformed email", func(in *RegisterInput) { in.Email = "not-an-email" }, "email"},
		{"missing first name", func(in *RegisterInput) { in.FirstName = "" }, "first_name"},
		{"missing last name", func(in *RegisterInput) { in.LastName = "" }, "last_name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid
			tt.mutate(&in)

			_, err := accounts.Register(context.Background(), in)
			if !errors.Is(err, apperror.ErrValidation) {
				t.Fatalf("Register() error = %v, want ErrValidation", err)
			}
			var appErr *apperror.AppError
			if !errors.As(err, &appErr) {
				t.Fatalf("Register() error = %v, want *apperror.AppError", err)
			}
			if appErr.Field != tt.wantField {
				t.Errorf("validation field = %q, want %q", appErr.Field, tt.wantField)
			}
		})
	}

	// No failed attempt may leave a row behind.
	if len(accountRepo.accounts) != 0 {
		t.Errorf("account count = %d after failed registrations, want 0", len(accountRepo.accounts))
	}
}

// =========================================================================
// AUTHENTICATE TESTS
// =========================================================================

func TestAuthenticate(t *testing.T) {
	accounts, _, _, _ := newTestServices(t)
	registerTestUser(t, accounts, "newuser1", "email@email.com")

	account, err := accounts.Authenticate(context.Background(), "newuser1", "password123")
	if err != nil {
		t.Fatalf("Authenticate() error = %v", err)
	}
	if account.Username != "newuser1" {
		t.Errorf("Username = %q, want %q", account.Username, "newuser1")
	}
}

func TestAuthenticate_AntiEnumeration(t *testing.T) {
	accounts, _, _, _ := newTestServices(t)
	registerTestUser(t, accounts, "newuser1", "email@email.com")

	// Wrong password for an existing user and any password for a
	// nonexistent user must produce the IDENTICAL outward error — an
	// attacker probing /login learns nothing about which usernames exist.
	_, errWrongPassword := accounts.Authenticate(context.Background(), "newuser1", "incorrectpassword")
	_, errUnknownUser := accounts.Authenticate(context.Background(), "newuser2", "password123")

	for _, err := range []error{errWrongPassword, errUnknownUser} {
		if !errors.Is(err, apperror.ErrUnauthorized) {
			t.Fatalf("Authenticate() error = %v, want ErrUnauthorized", err)
		}
	}
	if errWrongPassword.Error() != errUnknownUser.Error() {
		t.Errorf("failure messages differ: %q vs %q — enumeration is possible",
			errWrongPassword.Error(), errUnknownUser.Error())
	}
}

// =========================================================================
// GET (ACCOUNT DETAIL) TESTS
// =========================================================================

func TestGet_RequiresAuthentication(t *testing.T) {
	accounts, _, _, _ := newTestServices(t)
	registerTestUser(t, accounts, "newuser1", "email@email.com")

	_, _, err := accounts.Get(context.Background(), "", "newuser1")
	if !errors.Is(err, apperror.ErrForbidden) {
		t.Errorf("Get(anonymous) error = %v, want ErrForbidden", err)
	}
}

func TestGet_AnyIdentityMayView(t *testing.T) {
	accounts, feedbackSvc, _, _ := newTestServices(t)
	registerTestUser(t, accounts, "newuser1", "email@email.com")
	registerTestUser(t, accounts, "newuser2", "email2@email.com")

	if _, err := feedbackSvc.Create(context.Background(), "newuser1", "newuser1", "Hot Dating Tips", "JK no girlfriend."); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	// A DIFFERENT authenticated user may still view the profile.
	account, feedback, err := accounts.Get(context.Background(), "newuser2", "newuser1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if account.Username != "newuser1" {
		t.Errorf("Username = %q, want %q", account.Username, "newuser1")
	}
	if len(feedback) != 1 {
		t.Errorf("len(feedback) = %d, want 1", len(feedback))
	}
}

func TestGet_NotFound(t *testing.T) {
	accounts, _, _, _ := newTestServices(t)
	registerTestUser(t, accounts, "newuser1", "email@email.com")

	_, _, err := accounts.Get(context.Background(), "newuser1", "nobody")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("Get(nobody) error = %v, want ErrNotFound", err)
	}
}

// =========================================================================
// DELETE (ACCOUNT) TESTS
// =========================================================================

func TestDeleteAccount_SelfOnly(t *testing.T) {
	accounts, _, accountRepo, _ := newTestServices(t)
	registerTestUser(t, accounts, "newuser1", "email@email.com")
	registerTestUser(t, accounts, "newuser2", "email2@email.com")

	// Another user may not delete the account, and the denial has no
	// side effect.
	err := accounts.Delete(context.Background(), "newuser2", "newuser1")
	if !errors.Is(err, apperror.ErrForbidden) {
		t.Fatalf("Delete(other) error = %v, want ErrForbidden", err)
	}
	if _, ok := accountRepo.accounts["newuser1"]; !ok {
		t.Fatal("denied delete removed the account anyway")
	}

	// Anonymous may not either.
	if err := accounts.Delete(context.Background(), "", "newuser1"); !errors.Is(err, apperror.ErrForbidden) {
		t.Fatalf("Delete(anonymous) error = %v, want ErrForbidden", err)
	}

	// Self-delete succeeds.
	if err := accounts.Delete(context.Background(), "newuser1", "newuser1"); err != nil {
		t.Fatalf("Delete(self) error = %v", err)
	}
	if _, ok := accountRepo.accounts["newuser1"]; ok {
		t.Error("account still present after self-delete")
	}
}

func TestDeleteAccount_CascadesToFeedback(t *testing.T) {
	accounts, feedbackSvc, _, feedbackRepo := newTestServices(t)
	registerTestUser(t, accounts, "newuser1", "email@email.com")
	registerTestUser(t, accounts, "newuser2", "email2@email.com")

	fb1, _ := feedbackSvc.Create(context.Background(), "newuser1", "newuser1", "one", "content")
	fb2, _ := feedbackSvc.Create(context.Background(), "newuser1", "newuser1", "two", "content")
	other, _ := feedbackSvc.Create(context.Background(), "newuser2", "newuser2", "other", "content")

	if err := accounts.Delete(context.Background(), "newuser1", "newuser1"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	for _, id := range []int64{fb1.ID, fb2.ID} {
		if _, ok := feedbackRepo.items[id]; ok {
			t.Errorf("feedback %d orphaned after account deletion", id)
		}
	}
	if _, ok := feedbackRepo.items[other.ID]; !ok {
		t.Error("unrelated feedback deleted by cascade")
	}
}
