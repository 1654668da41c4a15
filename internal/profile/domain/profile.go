package domain

import (
	"time"

	"github.com/AlibekovAA/profile-editor/internal/common/constants"
)

type ID string

type Profile struct {
	ID        ID
	Name      string
	Bio       string
	Email     string
	Phone     string
	Location  string
	UpdatedAt time.Time
}

// Update is a partial profile write. A nil field is left untouched by Merge;
// a non-nil pointer to "" clears the field.
type Update struct {
	Name     *string
	Bio      *string
	Email    *string
	Phone    *string
	Location *string
}

// Fields lists the json names of the fields present in the update.
func (u Update) Fields() []string {
	fields := make([]string, 0, 5)
	if u.Name != nil {
		fields = append(fields, "name")
	}
	if u.Bio != nil {
		fields = append(fields, "bio")
	}
	if u.Email != nil {
		fields = append(fields, "email")
	}
	if u.Phone != nil {
		fields = append(fields, "phone")
	}
	if u.Location != nil {
		fields = append(fields, "location")
	}
	return fields
}

// Merge returns p with every present field of u applied and UpdatedAt set to
// at. p itself is not modified.
func (p Profile) Merge(u Update, at time.Time) Profile {
	merged := p
	if u.Name != nil {
		merged.Name = *u.Name
	}
	if u.Bio != nil {
		merged.Bio = *u.Bio
	}
	if u.Email != nil {
		merged.Email = *u.Email
	}
	if u.Phone != nil {
		merged.Phone = *u.Phone
	}
	if u.Location != nil {
		merged.Location = *u.Location
	}
	merged.UpdatedAt = at
	return merged
}

// NextTimestamp returns now truncated to milliseconds, bumped past prev when
// the clock has not advanced far enough to order the two writes.
func NextTimestamp(prev, now time.Time) time.Time {
	next := now.UTC().Truncate(time.Millisecond)
	if !next.After(prev) {
		next = prev.UTC().Truncate(time.Millisecond).Add(time.Millisecond)
	}
	return next
}

func Seed(now time.Time) Profile {
	return Profile{
		ID:        ID(constants.ProfileID),
		Name:      "John Doe",
		Bio:       "Full-stack developer passionate about creating amazing user experiences. I love working with modern technologies and building scalable applications that make a difference.",
		Email:     "john.doe@example.com",
		Phone:     "+1 (555) 123-4567",
		Location:  "San Francisco, CA",
		UpdatedAt: now.UTC().Truncate(time.Millisecond),
	}
}

func StringPtr(s string) *string {
	return &s
}
