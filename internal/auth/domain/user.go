package domain

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/AlibekovAA/profile-editor/internal/common/clock"
	"github.com/AlibekovAA/profile-editor/internal/common/constants"
	commonerrors "github.com/AlibekovAA/profile-editor/internal/common/errors"
)

type User struct {
	ID        string
	Email     string
	Name      string
	LoginTime time.Time
}

// UserRecord is the wire and storage shape of a User.
type UserRecord struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	LoginTime string `json:"loginTime"`
}

func (u User) ToRecord() UserRecord {
	return UserRecord{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		LoginTime: clock.FormatTimestamp(u.LoginTime),
	}
}

func UserFromRecord(r UserRecord) (User, error) {
	u := User{ID: r.ID, Email: r.Email, Name: r.Name}
	if r.LoginTime != "" {
		t, err := clock.ParseTimestamp(r.LoginTime)
		if err != nil {
			return User{}, fmt.Errorf("invalid loginTime %q: %w", r.LoginTime, err)
		}
		u.LoginTime = t.UTC()
	}
	return u, nil
}

var (
	ErrMissingCredentials = commonerrors.NewDomainError(
		"MISSING_CREDENTIALS",
		commonerrors.CategoryValidation,
		400,
		"Please enter both email and password",
	)

	ErrPasswordTooShort = commonerrors.NewDomainError(
		"PASSWORD_TOO_SHORT",
		commonerrors.CategoryValidation,
		400,
		"Password must be at least 3 characters",
	)
)

// ValidateCredentials applies the demo login rules: both values must be
// non-blank and the password must be long enough. Any such pair is accepted.
func ValidateCredentials(email, password string) error {
	if strings.TrimSpace(email) == "" || strings.TrimSpace(password) == "" {
		return ErrMissingCredentials
	}
	if utf8.RuneCountInString(password) < constants.LoginPasswordMinLength {
		return ErrPasswordTooShort
	}
	return nil
}

// DisplayName is the local part of email, or "User" when it is empty.
func DisplayName(email string) string {
	local, _, _ := strings.Cut(strings.TrimSpace(email), "@")
	if local == "" {
		return "User"
	}
	return local
}

func NewUser(id, email string, loginTime time.Time) User {
	trimmed := strings.TrimSpace(email)
	return User{
		ID:        id,
		Email:     trimmed,
		Name:      DisplayName(trimmed),
		LoginTime: loginTime,
	}
}
