package game

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestGameOverWhenWolvesEliminated(t *testing.T) {
	s := newTestSession(t, 6, []int{2, 3}, nil)
	if s.GameOver() {
		t.Fatal("fresh session should not be over")
	}
	if _, ok := s.Winner(); ok {
		t.Fatal("fresh session should have no winner")
	}

	kill(s, 2)
	if s.GameOver() {
		t.Fatal("one wolf left against four villagers is not over")
	}
	kill(s, 3)
	if !s.GameOver() {
		t.Fatal("expected game over with no wolves alive")
	}
	if side, ok := s.Winner(); !ok || side != Villager {
		t.Errorf("expected villagers to win, got %v (%v)", side, ok)
	}
}

func TestGameOverAtParity(t *testing.T) {
	s := newTestSession(t, 6, []int{2, 3}, nil)
	kill(s, 1)
	if s.GameOver() {
		t.Fatal("two wolves against three villagers is not over")
	}
	kill(s, 4)
	if !s.GameOver() {
		t.Fatal("expected game over at parity")
	}
	if side, ok := s.Winner(); !ok || side != Wolf {
		t.Errorf("expected wolves to win, got %v (%v)", side, ok)
	}
}

func TestSubmitSlotsOverwriteAndClear(t *testing.T) {
	s := newTestSession(t, 4, []int{4}, nil)
	s.SubmitVote(2)
	s.SubmitVote(3)
	if got := s.takeVote(); got != 3 {
		t.Errorf("expected latest vote 3, got %d", got)
	}
	if got := s.takeVote(); got != NoTarget {
		t.Errorf("expected vote slot cleared, got %d", got)
	}

	s.SubmitMessage("a")
	s.SubmitMessage("b")
	if got := s.takeMessage(); got != "b" {
		t.Errorf("expected latest message, got %q", got)
	}
	if got := s.takeMessage(); got != "" {
		t.Errorf("expected message slot cleared, got %q", got)
	}
}

func TestSubmitFromOtherGoroutines(t *testing.T) {
	s := newTestSession(t, 4, []int{4}, nil)
	done := make(chan struct{})
	go func() {
		for i := range 100 {
			s.SubmitVote(i%3 + 2)
			s.SubmitMessage("spam")
		}
		close(done)
	}()
	for range 100 {
		s.takeVote()
		s.takeMessage()
	}
	<-done
}

func TestParticipantsReturnsCopies(t *testing.T) {
	s := newTestSession(t, 4, []int{4}, nil)
	ps := s.Participants()
	ps[1].Alive = false
	ps[3].Mates = append(ps[3].Mates, 99)
	if p, _ := s.Participant(2); !p.Alive {
		t.Error("mutating a copy must not kill the seat")
	}
	if p, _ := s.Participant(4); len(p.Mates) != 0 {
		t.Error("mutating a copy must not change mates")
	}
	if _, ok := s.Participant(99); ok {
		t.Error("unknown seat should not be found")
	}
}

func TestAliveIsOrdered(t *testing.T) {
	s := newTestSession(t, 6, []int{6}, nil)
	kill(s, 3)
	alive := s.Alive()
	want := []int{1, 2, 4, 5, 6}
	if len(alive) != len(want) {
		t.Fatalf("expected %d alive, got %d", len(want), len(alive))
	}
	for i, p := range alive {
		if p.ID != want[i] {
			t.Errorf("alive[%d] = %d, want %d", i, p.ID, want[i])
		}
	}
}

func TestBoundedReturnsOnDeadline(t *testing.T) {
	start := time.Now()
	_, err := bounded(context.Background(), 20*time.Millisecond, func(ctx context.Context) (int, error) {
		time.Sleep(time.Second)
		return 1, nil
	})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline exceeded, got %v", err)
	}
	if time.Since(start) > 500*time.Millisecond {
		t.Error("bounded call should not wait for a call that ignores its context")
	}
}

func TestBoundedRecoversPanic(t *testing.T) {
	_, err := bounded(context.Background(), time.Second, func(context.Context) (string, error) {
		panic("boom")
	})
	if err == nil {
		t.Fatal("expected panic converted to error")
	}
}

type panicking struct{ scripted }

func (p *panicking) Vote(context.Context, Prompt) (int, error) { panic("broken provider") }

func TestPanickingStrategyFallsBack(t *testing.T) {
	s := newTestSession(t, 4, []int{4}, map[int]Strategy{2: &panicking{}})
	out := s.ResolveDay(context.Background())
	found := false
	for _, b := range out.Ballots {
		if b.VoterID == 2 {
			found = true
		}
	}
	if !found {
		t.Error("expected seat 2's fallback ballot")
	}
}

func TestPhaseTextRoundTrip(t *testing.T) {
	for _, want := range []Phase{Night, Day, Terminal} {
		b, _ := want.MarshalText()
		var got Phase
		if err := got.UnmarshalText(b); err != nil || got != want {
			t.Errorf("%s: got %v, err %v", want, got, err)
		}
	}
	var p Phase
	if err := p.UnmarshalText([]byte("dusk")); err == nil {
		t.Error("expected an error for an unknown phase")
	}
}
