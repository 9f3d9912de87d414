package store

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/lorenzotomasdiez/werewolf/internal/game"
)

func newEngine(t *testing.T) *game.Engine {
	t.Helper()
	s, err := game.NewSession(game.Settings{Players: 5, Wolves: 1, Seed: 1})
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	return game.NewEngine(s)
}

func TestCreateAndGet(t *testing.T) {
	m := NewMemory()
	e := m.Create(newEngine(t))
	if _, err := uuid.Parse(e.ID); err != nil {
		t.Errorf("id %q is not a uuid: %v", e.ID, err)
	}
	got, err := m.Get(e.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != e {
		t.Error("Get should return the stored entry")
	}
}

func TestGetUnknown(t *testing.T) {
	if _, err := NewMemory().Get("nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	m := NewMemory()
	e := m.Create(newEngine(t))
	if err := m.Delete(e.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := m.Get(e.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
	if err := m.Delete(e.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("double delete should be ErrNotFound, got %v", err)
	}
}

func TestDoSerializes(t *testing.T) {
	e := NewMemory().Create(newEngine(t))
	var (
		wg      sync.WaitGroup
		inside  int
		overlap bool
	)
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			e.Do(func(*game.Engine) error {
				inside++
				if inside > 1 {
					overlap = true
				}
				time.Sleep(time.Millisecond)
				inside--
				return nil
			})
		}()
	}
	wg.Wait()
	if overlap {
		t.Error("Do calls overlapped")
	}
}

func TestSubmitDoesNotWaitForDo(t *testing.T) {
	e := NewMemory().Create(newEngine(t))
	release := make(chan struct{})
	started := make(chan struct{})
	go e.Do(func(*game.Engine) error {
		close(started)
		<-release
		return nil
	})
	<-started
	defer close(release)

	done := make(chan error, 1)
	go func() {
		done <- e.Submit(func(s *game.Session) { s.SubmitVote(2) })
	}()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Submit waited for the running Do")
	}
}

func TestSubmitAfterGameOver(t *testing.T) {
	e := NewMemory().Create(newEngine(t))
	if err := e.Do(func(engine *game.Engine) error {
		_, err := engine.Run(context.Background())
		return err
	}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	called := false
	err := e.Submit(func(*game.Session) { called = true })
	if !errors.Is(err, game.ErrGameOver) {
		t.Errorf("expected ErrGameOver, got %v", err)
	}
	if called {
		t.Error("input should not reach a finished game")
	}
}

func TestDoReturnsError(t *testing.T) {
	e := NewMemory().Create(newEngine(t))
	want := errors.New("boom")
	if err := e.Do(func(*game.Engine) error { return want }); !errors.Is(err, want) {
		t.Errorf("expected the callback error, got %v", err)
	}
}

func TestListAndPrune(t *testing.T) {
	m := NewMemory()
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	tick := 0
	m.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	}
	old := m.Create(newEngine(t))
	mid := m.Create(newEngine(t))
	recent := m.Create(newEngine(t))

	list := m.List()
	if len(list) != 3 || list[0] != old || list[2] != recent {
		t.Fatalf("expected oldest first, got %v", list)
	}
	if n := m.Prune(mid.CreatedAt); n != 1 {
		t.Errorf("expected 1 pruned, got %d", n)
	}
	if _, err := m.Get(old.ID); !errors.Is(err, ErrNotFound) {
		t.Error("old entry should be pruned")
	}
	if _, err := m.Get(mid.ID); err != nil {
		t.Error("entry at the cutoff should stay")
	}
}
