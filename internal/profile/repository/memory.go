package repository

import (
	"context"
	"sync"

	"github.com/AlibekovAA/profile-editor/internal/common/clock"
	"github.com/AlibekovAA/profile-editor/internal/profile/domain"
)

type MemoryStore struct {
	mu      sync.Mutex
	profile domain.Profile
	clock   clock.Clock
}

// NewMemoryStore returns a store seeded with the default profile.
func NewMemoryStore(clk clock.Clock) *MemoryStore {
	if clk == nil {
		clk = clock.NewRealClock()
	}
	return NewMemoryStoreWithSeed(domain.Seed(clk.Now()), clk)
}

func NewMemoryStoreWithSeed(seed domain.Profile, clk clock.Clock) *MemoryStore {
	if clk == nil {
		clk = clock.NewRealClock()
	}
	return &MemoryStore{profile: seed, clock: clk}
}

func (s *MemoryStore) Read(ctx context.Context) (domain.Profile, error) {
	if err := ctx.Err(); err != nil {
		return domain.Profile{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.profile, nil
}

func (s *MemoryStore) Write(ctx context.Context, u domain.Update) (domain.Profile, error) {
	if err := ctx.Err(); err != nil {
		return domain.Profile{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	at := domain.NextTimestamp(s.profile.UpdatedAt, s.clock.Now())
	s.profile = s.profile.Merge(u, at)
	return s.profile, nil
}
