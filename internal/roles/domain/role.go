package domain

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"
)

// MaxNameLength bounds application, role and user names (varchar(255) columns).
const MaxNameLength = 255

var (
	ErrEmptyName    = errors.New("name must not be empty")
	ErrNameTooLong  = errors.New("name exceeds 255 characters")
	ErrNameHasComma = errors.New("name must not contain a comma")
)

// Role is a named permission group within an application.
type Role struct {
	Application string
	Name        string
	CreatedAt   time.Time
}

// Membership records that a user holds a role within an application.
type Membership struct {
	Application string
	UserName    string
	RoleName    string
	CreatedAt   time.Time
}

// ValidateName checks a role or user name. Commas are rejected because hosts
// commonly join name lists with them.
func ValidateName(name string) error {
	if err := ValidateApplication(name); err != nil {
		return err
	}
	if strings.Contains(name, ",") {
		return ErrNameHasComma
	}
	return nil
}

// ValidateApplication checks an application (tenant) identifier.
func ValidateApplication(app string) error {
	if app == "" {
		return ErrEmptyName
	}
	if utf8.RuneCountInString(app) > MaxNameLength {
		return ErrNameTooLong
	}
	return nil
}
