package game

import (
	"context"
	"slices"
	"sync/atomic"
	"testing"
	"time"
)

// scripted returns canned decisions and counts how often it was asked.
type scripted struct {
	speech string
	vote   int
	night  int
	err    error
	block  bool

	speaks atomic.Int32
	votes  atomic.Int32
	nights atomic.Int32
}

func (s *scripted) Speak(ctx context.Context, _ Prompt) (string, error) {
	s.speaks.Add(1)
	if s.block {
		<-ctx.Done()
		return "too late", ctx.Err()
	}
	return s.speech, s.err
}

func (s *scripted) Vote(ctx context.Context, _ Prompt) (int, error) {
	s.votes.Add(1)
	if s.block {
		<-ctx.Done()
		return NoTarget, ctx.Err()
	}
	return s.vote, s.err
}

func (s *scripted) NightTarget(ctx context.Context, _ Prompt) (int, error) {
	s.nights.Add(1)
	if s.block {
		<-ctx.Done()
		return NoTarget, ctx.Err()
	}
	return s.night, s.err
}

// recordingStrategy keeps the last prompt it saw.
type recordingStrategy struct {
	last Prompt
}

func (r *recordingStrategy) Speak(_ context.Context, p Prompt) (string, error) {
	r.last = p
	return "", nil
}

func (r *recordingStrategy) Vote(_ context.Context, p Prompt) (int, error) {
	r.last = p
	return NoTarget, nil
}

func (r *recordingStrategy) NightTarget(_ context.Context, p Prompt) (int, error) {
	r.last = p
	return NoTarget, nil
}

// newTestSession builds a session with the given wolves and scripted
// strategies. Seats missing from strategies use the random defaults.
func newTestSession(t *testing.T, players int, wolfIDs []int, strategies map[int]Strategy) *Session {
	t.Helper()
	s, err := NewSession(Settings{
		Players:         players,
		Wolves:          len(wolfIDs),
		HumanName:       "Hana",
		Names:           []string{"Bob", "Chloe", "David", "Emma", "Franck", "Gina", "Hugo", "Irina", "Jules", "Kim"},
		Seed:            42,
		StrategyTimeout: 50 * time.Millisecond,
	}, WithStrategies(func(seat Seat) Strategy {
		return strategies[seat.ID]
	}))
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	forceRoles(s, wolfIDs...)
	return s
}

// forceRoles overrides the shuffled deal and rebinds strategies.
func forceRoles(s *Session, wolfIDs ...int) {
	s.villagers, s.wolves = nil, nil
	for _, p := range s.seats {
		p.Mates = nil
		p.Alignment = Villager
		if slices.Contains(wolfIDs, p.ID) {
			p.Alignment = Wolf
			s.wolves = append(s.wolves, p.ID)
		} else {
			s.villagers = append(s.villagers, p.ID)
		}
	}
	s.linkWolves()
	s.bindStrategies()
}

func kill(s *Session, ids ...int) {
	for _, id := range ids {
		s.seat(id).Alive = false
	}
}

func aliveCount(s *Session) int {
	return len(s.aliveSeats())
}

func hasLine(log []string, line string) bool {
	return slices.Contains(log, line)
}
