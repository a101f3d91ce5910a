package store

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/lexhawkins/GameSoftware/internal/game"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()

	if _, err := st.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get(missing) err = %v, want ErrNotFound", err)
	}
	if err := st.Save(ctx, &Session{}); err == nil {
		t.Error("Save accepted a session without an ID")
	}

	s := NewSession("abc", game.New())
	if err := st.Save(ctx, s); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := st.Get(ctx, "abc")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != s {
		t.Error("Get returned a different session")
	}
	if st.Len() != 1 {
		t.Errorf("Len = %d, want 1", st.Len())
	}
	if err := st.Delete(ctx, "abc"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := st.Get(ctx, "abc"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get after Delete err = %v, want ErrNotFound", err)
	}
}

func TestSessionSerializesShots(t *testing.T) {
	g := game.New(game.WithRand(rand.New(rand.NewSource(3))))
	g.PlacePlayerShip(0, 0, true)
	g.PlacePlayerShip(1, 0, true)
	g.PlacePlayerShip(2, 0, true)
	g.StartBattle()
	s := NewSession("s", g)

	// Many goroutines fire at the same cell; exactly one shot may land.
	var wg sync.WaitGroup
	var mu sync.Mutex
	accepted := 0
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Do(func(g *game.Game) {
				if res := g.PlayerFire(4, 4); res.OK {
					mu.Lock()
					accepted++
					mu.Unlock()
				}
			})
		}()
	}
	wg.Wait()
	if accepted != 1 {
		t.Errorf("%d shots accepted at the same cell, want 1", accepted)
	}
	s.Do(func(g *game.Game) {
		if st := g.Stats(); st.PlayerShots != 1 || st.BotShots != 1 {
			t.Errorf("Stats = %+v, want one shot each", st)
		}
	})
}

func TestPrune(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()
	now := time.Now().UTC()

	old := NewSession("old", game.New())
	old.CreatedAt = now.Add(-48 * time.Hour)
	fresh := NewSession("fresh", game.New())
	for _, s := range []*Session{old, fresh} {
		if err := st.Save(ctx, s); err != nil {
			t.Fatalf("Save(%s): %v", s.ID, err)
		}
	}

	n, err := st.Prune(ctx, now.Add(-24*time.Hour))
	if err != nil {
		t.Fatalf("Prune: %v", err)
	}
	if n != 1 {
		t.Errorf("Prune removed %d sessions, want 1", n)
	}
	if _, err := st.Get(ctx, "old"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(old) err = %v, want ErrNotFound", err)
	}
	if _, err := st.Get(ctx, "fresh"); err != nil {
		t.Errorf("Get(fresh): %v", err)
	}
}
