package repository

import (
	"context"

	"github.com/AlibekovAA/profile-editor/internal/profile/domain"
)

// Store owns the single profile record.
type Store interface {
	Read(ctx context.Context) (domain.Profile, error)
	// Write merges u into the record, refreshes UpdatedAt so that it is
	// strictly greater than the previous value and returns the result.
	Write(ctx context.Context, u domain.Update) (domain.Profile, error)
}
