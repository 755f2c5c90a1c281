// Package schema holds the declarative validation rules for the auth
// forms. The core consumes the rules; rendering the messages is the UI's
// problem.
package schema

import "regexp"

// Errors maps field name to validation message. Empty means valid.
type Errors map[string]string

// Field names used as error keys.
const (
	FieldUsername        = "username"
	FieldEmail           = "email"
	FieldPassword        = "password"
	FieldConfirmPassword = "confirmPassword"
)

const (
	minUsernameLen = 2
	minPasswordLen = 6
)

// Good enough for form gating; the server validates authoritatively.
var emailRegexp = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// LoginForm is the login page input.
type LoginForm struct {
	Email    string
	Password string
}

// Validate applies the login rules and returns per-field messages.
func (f LoginForm) Validate() Errors {
	errs := Errors{}
	if !emailRegexp.MatchString(f.Email) {
		errs[FieldEmail] = "Please enter a valid email address"
	}
	if len(f.Password) < minPasswordLen {
		errs[FieldPassword] = "Password must be at least 6 characters long"
	}
	return errs
}

// RegisterForm is the signup page input.
type RegisterForm struct {
	Username        string
	Email           string
	Password        string
	ConfirmPassword string
}

// Validate applies the signup rules. The password mismatch error is
// reported under the confirm field.
func (f RegisterForm) Validate() Errors {
	errs := Errors{}
	if len(f.Username) < minUsernameLen {
		errs[FieldUsername] = "Please enter a name"
	}
	if !emailRegexp.MatchString(f.Email) {
		errs[FieldEmail] = "Please enter a valid email address"
	}
	if len(f.Password) < minPasswordLen {
		errs[FieldPassword] = "Please enter a valid password"
	}
	if len(f.ConfirmPassword) < minPasswordLen {
		errs[FieldConfirmPassword] = "Please enter a valid password"
	} else if f.Password != f.ConfirmPassword {
		errs[FieldConfirmPassword] = "Passwords do not match"
	}
	return errs
}
