package service

import (
	"fmt"
	"net/mail"
	"strings"
)

// Field length bounds, shared by validation and the database schema.
const (
	MaxUsernameLength = 30
	MaxEmailLength    = 50
	MaxNameLength     = 30
	MaxTitleLength    = 100
	MaxPasswordBytes  = 72 // bcrypt input limit
)

// FieldError is one validation failure: which form field and why.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidateRegistration checks a registration request and returns every
// failure it finds, one per field.
//
// This is a standalone function — no request object, no form framework — so
// it can be called from the HTTP handler, a CLI, or a test with a plain
// struct. Register runs it before touching the credential store or the
// database; if anything fails, no mutation happens.
//
// Note the uniqueness of username/email is NOT checked here: that belongs
// to the store's constraints, which are race-free where a pre-check isn't.
func ValidateRegistration(in RegisterInput) []FieldError {
	var errs []FieldError

	if in.Username == "" {
		errs = append(errs, FieldError{"username", "Username required."})
	} else if len(in.Username) > MaxUsernameLength {
		errs = append(errs, FieldError{"username",
			fmt.Sprintf("Username must be %d characters or less.", MaxUsernameLength)})
	}

	if in.Password == "" {
		errs = append(errs, FieldError{"password", "Password required."})
	} else if len(in.Password) > MaxPasswordBytes {
		errs = append(errs, FieldError{"password",
			fmt.Sprintf("Password must be %d bytes or less.", MaxPasswordBytes)})
	}

	if in.Email == "" {
		errs = append(errs, FieldError{"email", "Email required."})
	} else if len(in.Email) > MaxEmailLength {
		errs = append(errs, FieldError{"email",
			fmt.Sprintf("Email must be %d characters or less.", MaxEmailLength)})
	} else if !validEmail(in.Email) {
		errs = append(errs, FieldError{"email", "Email must be a valid email address."})
	}

	if in.FirstName == "" {
		errs = append(errs, FieldError{"first_name", "First name required."})
	} else if len(in.FirstName) > MaxNameLength {
		errs = append(errs, FieldError{"first_name",
			fmt.Sprintf("First name must be %d characters or less.", MaxNameLength)})
	}

	if in.LastName == "" {
		errs = append(errs, FieldError{"last_name", "Last name required."})
	} else if len(in.LastName) > MaxNameLength {
		errs = append(errs, FieldError{"last_name",
			fmt.Sprintf("Last name must be %d characters or less.", MaxNameLength)})
	}

	return errs
}

// ValidateFeedback checks feedback title and content.
func ValidateFeedback(title, content string) []FieldError {
	var errs []FieldError

	if strings.TrimSpace(title) == "" {
		errs = append(errs, FieldError{"title", "Title required."})
	} else if len(title) > MaxTitleLength {
		errs = append(errs, FieldError{"title",
			fmt.Sprintf("Title must be %d characters or less.", MaxTitleLength)})
	}

	if strings.TrimSpace(content) == "" {
		errs = append(errs, FieldError{"content", "Content required."})
	}

	return errs
}

// validEmail does a syntactic check via net/mail. We reject addresses with a
// display name ("John <j@x.com>") — the form field is the bare address.
func validEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}
