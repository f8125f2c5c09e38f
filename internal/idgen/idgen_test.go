package idgen

import (
	"testing"

	"github.com/elast0ny/wamp-async/message"
)

func TestNextIsInDomain(t *testing.T) {
	always := func(message.ID) bool { return false }
	for i := 0; i < 1000; i++ {
		id, err := Next(always)
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		if id < 1 || int64(id) > maxID {
			t.Fatalf("Next() = %d, want in [1, %d]", id, maxID)
		}
	}
}

func TestNextRetriesOnCollision(t *testing.T) {
	calls := 0
	taken := func(message.ID) bool {
		calls++
		return calls <= 3
	}
	id, err := Next(taken)
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if calls != 4 {
		t.Fatalf("expected 4 draws (3 collisions + 1 success), got %d", calls)
	}
	if id < 1 {
		t.Fatalf("Next() = %d, want >= 1", id)
	}
}

func TestNextAvoidsKnownSet(t *testing.T) {
	used := map[message.ID]bool{}
	for i := 0; i < 500; i++ {
		id, err := Next(func(id message.ID) bool { return used[id] })
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		if used[id] {
			t.Fatalf("Next() returned an id already marked taken: %d", id)
		}
		used[id] = true
	}
}
