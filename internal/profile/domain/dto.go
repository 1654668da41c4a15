package domain

import (
	"fmt"

	"github.com/AlibekovAA/profile-editor/internal/common/clock"
)

// Record is the wire shape of a profile shared by the API and its clients.
type Record struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Bio       string `json:"bio"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Location  string `json:"location"`
	UpdatedAt string `json:"updatedAt"`
}

// Patch is the wire shape of a partial update. Unknown keys, id and updatedAt
// are ignored by the decoder.
type Patch struct {
	Name     *string `json:"name,omitempty"`
	Bio      *string `json:"bio,omitempty"`
	Email    *string `json:"email,omitempty"`
	Phone    *string `json:"phone,omitempty"`
	Location *string `json:"location,omitempty"`
}

func ToRecord(p Profile) Record {
	return Record{
		ID:        string(p.ID),
		Name:      p.Name,
		Bio:       p.Bio,
		Email:     p.Email,
		Phone:     p.Phone,
		Location:  p.Location,
		UpdatedAt: clock.FormatTimestamp(p.UpdatedAt),
	}
}

func FromRecord(r Record) (Profile, error) {
	p := Profile{
		ID:       ID(r.ID),
		Name:     r.Name,
		Bio:      r.Bio,
		Email:    r.Email,
		Phone:    r.Phone,
		Location: r.Location,
	}
	if r.UpdatedAt != "" {
		ts, err := clock.ParseTimestamp(r.UpdatedAt)
		if err != nil {
			return Profile{}, fmt.Errorf("invalid updatedAt %q: %w", r.UpdatedAt, err)
		}
		p.UpdatedAt = ts.UTC()
	}
	return p, nil
}

func (p Patch) ToUpdate() Update {
	return Update{
		Name:     p.Name,
		Bio:      p.Bio,
		Email:    p.Email,
		Phone:    p.Phone,
		Location: p.Location,
	}
}

func PatchFromUpdate(u Update) Patch {
	return Patch{
		Name:     u.Name,
		Bio:      u.Bio,
		Email:    u.Email,
		Phone:    u.Phone,
		Location: u.Location,
	}
}
