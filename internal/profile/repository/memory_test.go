package repository_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/AlibekovAA/profile-editor/internal/common/clock"
	"github.com/AlibekovAA/profile-editor/internal/profile/domain"
	"github.com/AlibekovAA/profile-editor/internal/profile/repository"
)

var baseTime = time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

func TestMemoryStore_Read_Seed(t *testing.T) {
	store := repository.NewMemoryStore(clock.NewMockClock(baseTime))

	p, err := store.Read(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if p.ID != "1" || p.Name != "John Doe" || p.Email != "john.doe@example.com" {
		t.Errorf("unexpected seed %+v", p)
	}
	if !p.UpdatedAt.Equal(baseTime) {
		t.Errorf("expected seed timestamp %v, got %v", baseTime, p.UpdatedAt)
	}
}

func TestMemoryStore_Read_Idempotent(t *testing.T) {
	store := repository.NewMemoryStore(clock.NewMockClock(baseTime))

	first, _ := store.Read(context.Background())
	second, _ := store.Read(context.Background())

	if first != second {
		t.Errorf("expected identical reads, got %+v and %+v", first, second)
	}
}

func TestMemoryStore_Write_MergesPartialUpdate(t *testing.T) {
	clk := clock.NewMockClock(baseTime)
	store := repository.NewMemoryStore(clk)
	before, _ := store.Read(context.Background())

	clk.Advance(time.Second)
	written, err := store.Write(context.Background(), domain.Update{Bio: domain.StringPtr("Writes Go services all day.")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	after, _ := store.Read(context.Background())
	if after != written {
		t.Errorf("read after write differs: %+v vs %+v", after, written)
	}
	if after.Bio != "Writes Go services all day." {
		t.Errorf("bio not applied: %q", after.Bio)
	}
	if after.Name != before.Name || after.Email != before.Email || after.Phone != before.Phone || after.Location != before.Location {
		t.Errorf("omitted fields changed: %+v", after)
	}
	if !after.UpdatedAt.After(before.UpdatedAt) {
		t.Errorf("expected timestamp to advance: %v -> %v", before.UpdatedAt, after.UpdatedAt)
	}
}

func TestMemoryStore_Write_StrictlyIncreasingWithFrozenClock(t *testing.T) {
	store := repository.NewMemoryStore(clock.NewMockClock(baseTime))

	prev, _ := store.Read(context.Background())
	for i := 0; i < 5; i++ {
		next, err := store.Write(context.Background(), domain.Update{Name: domain.StringPtr("Jane Doe")})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !next.UpdatedAt.After(prev.UpdatedAt) {
			t.Fatalf("write %d: timestamp %v not after %v", i, next.UpdatedAt, prev.UpdatedAt)
		}
		prev = next
	}
}

func TestMemoryStore_Write_EmptyStringClearsField(t *testing.T) {
	store := repository.NewMemoryStore(clock.NewMockClock(baseTime))

	p, _ := store.Write(context.Background(), domain.Update{Location: domain.StringPtr("")})
	if p.Location != "" {
		t.Errorf("expected location cleared, got %q", p.Location)
	}
}

func TestMemoryStore_Write_IgnoresReturnedCopyMutation(t *testing.T) {
	store := repository.NewMemoryStore(clock.NewMockClock(baseTime))

	p, _ := store.Read(context.Background())
	p.Name = "Mallory"

	again, _ := store.Read(context.Background())
	if again.Name != "John Doe" {
		t.Errorf("store mutated through returned copy: %q", again.Name)
	}
}

func TestMemoryStore_ContextCancelled(t *testing.T) {
	store := repository.NewMemoryStore(nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := store.Read(ctx); err == nil {
		t.Error("expected read error on cancelled context")
	}
	if _, err := store.Write(ctx, domain.Update{}); err == nil {
		t.Error("expected write error on cancelled context")
	}
}

func TestMemoryStore_ConcurrentWrites(t *testing.T) {
	store := repository.NewMemoryStore(clock.NewMockClock(baseTime))

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = store.Write(context.Background(), domain.Update{Name: domain.StringPtr("Concurrent")})
		}()
	}
	wg.Wait()

	p, _ := store.Read(context.Background())
	if want := baseTime.Add(50 * time.Millisecond); !p.UpdatedAt.Equal(want) {
		t.Errorf("expected %v after 50 bumped writes, got %v", want, p.UpdatedAt)
	}
}
