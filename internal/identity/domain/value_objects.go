package domain

import (
	"regexp"
	"strings"
	"unicode/utf8"

	sharedDomain "github.com/felixgeelhaar/tasklist/internal/shared/domain"
)

// Messages returned to API callers when registration or login input is rejected.
const (
	MsgNameTooShort     = "Name must be of minimum 5 characters!"
	MsgUsernameTooShort = "Username must be of minimum 5 characters!"
	MsgInvalidEmail     = "Enter a valid email"
	MsgInvalidPassword  = "Enter a valid password"
	MsgEmptyPassword    = "Password cannot be empty"
)

const (
	MinNameLength     = 5
	MinUsernameLength = 5
	MinPasswordLength = 8
	MaxPasswordLength = 16
)

var (
	emailRegex    = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	passwordRegex = regexp.MustCompile(`^[a-zA-Z0-9!@#$%^&*]+$`)
)

// Name is a display name of at least MinNameLength characters.
type Name struct {
	value string
}

// NewName validates a display name.
func NewName(value string) (Name, error) {
	if utf8.RuneCountInString(value) < MinNameLength {
		return Name{}, sharedDomain.NewValidationError("name", MsgNameTooShort)
	}
	return Name{value: value}, nil
}

func (n Name) String() string { return n.value }

// Username is the unique handle of an account.
type Username struct {
	value string
}

// NewUsername validates a username.
func NewUsername(value string) (Username, error) {
	if utf8.RuneCountInString(value) < MinUsernameLength {
		return Username{}, sharedDomain.NewValidationError("username", MsgUsernameTooShort)
	}
	return Username{value: value}, nil
}

func (u Username) String() string { return u.value }

// Email is a syntactically valid, lower-cased address.
type Email struct {
	value string
}

// NewEmail validates and normalizes an email address.
func NewEmail(value string) (Email, error) {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" || !emailRegex.MatchString(value) {
		return Email{}, sharedDomain.NewValidationError("email", MsgInvalidEmail)
	}
	return Email{value: value}, nil
}

func (e Email) String() string { return e.value }

// Equals checks if two emails are equal.
func (e Email) Equals(other Email) bool {
	return e.value == other.value
}

// Password is a plaintext password that satisfies the registration policy:
// 8 to 16 characters from letters, digits and !@#$%^&*.
// It is only held long enough to be hashed.
type Password struct {
	value string
}

// NewPassword validates a password chosen at registration.
func NewPassword(value string) (Password, error) {
	n := len(value)
	if n < MinPasswordLength || n > MaxPasswordLength || !passwordRegex.MatchString(value) {
		return Password{}, sharedDomain.NewValidationError("password", MsgInvalidPassword)
	}
	return Password{value: value}, nil
}

// Plaintext returns the raw password for hashing.
func (p Password) Plaintext() string { return p.value }

// ValidateLoginPassword checks only that a password was supplied.
func ValidateLoginPassword(value string) error {
	if value == "" {
		return sharedDomain.NewValidationError("password", MsgEmptyPassword)
	}
	return nil
}
