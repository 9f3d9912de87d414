package game

import (
	"context"
	"fmt"
	"slices"
)

// RandomVillager is the default strategy for villager seats.
type RandomVillager struct {
	rng *Rand
}

// NewRandomVillager returns a villager strategy drawing from rng.
func NewRandomVillager(rng *Rand) *RandomVillager {
	return &RandomVillager{rng: rng}
}

func (s *RandomVillager) Speak(_ context.Context, p Prompt) (string, error) {
	return innocentLine(p.Self.Name), nil
}

func (s *RandomVillager) Vote(_ context.Context, p Prompt) (int, error) {
	return s.rng.Pick(p.Candidates), nil
}

// NightTarget always abstains: villagers have no night action.
func (s *RandomVillager) NightTarget(context.Context, Prompt) (int, error) {
	return NoTarget, nil
}

// RandomWolf is the default strategy for wolf seats. It never votes
// against a mate while another candidate exists.
type RandomWolf struct {
	rng *Rand
}

// NewRandomWolf returns a wolf strategy drawing from rng.
func NewRandomWolf(rng *Rand) *RandomWolf {
	return &RandomWolf{rng: rng}
}

func (s *RandomWolf) Speak(_ context.Context, p Prompt) (string, error) {
	return innocentLine(p.Self.Name), nil
}

func (s *RandomWolf) Vote(_ context.Context, p Prompt) (int, error) {
	return s.rng.Pick(NonMates(p)), nil
}

func (s *RandomWolf) NightTarget(_ context.Context, p Prompt) (int, error) {
	return s.rng.Pick(p.Candidates), nil
}

// NewDefaultStrategy returns the random strategy for an alignment.
func NewDefaultStrategy(a Alignment, rng *Rand) Strategy {
	if a == Wolf {
		return NewRandomWolf(rng)
	}
	return NewRandomVillager(rng)
}

// NonMates filters the prompt's candidates down to non-mates, or returns
// all candidates when only mates are left.
func NonMates(p Prompt) []Candidate {
	if len(p.Mates) == 0 {
		return p.Candidates
	}
	out := slices.DeleteFunc(slices.Clone(p.Candidates), func(c Candidate) bool {
		return slices.ContainsFunc(p.Mates, func(m Candidate) bool { return m.ID == c.ID })
	})
	if len(out) == 0 {
		return p.Candidates
	}
	return out
}

func innocentLine(name string) string {
	return fmt.Sprintf("I'm %s, and I'm innocent!", name)
}

// humanSeat reads the human's input slots. It never blocks: an empty slot
// means silence or abstention.
type humanSeat struct {
	s *Session
}

func (h humanSeat) Speak(context.Context, Prompt) (string, error) {
	return h.s.takeMessage(), nil
}

func (h humanSeat) Vote(context.Context, Prompt) (int, error) {
	return h.s.takeVote(), nil
}

func (h humanSeat) NightTarget(context.Context, Prompt) (int, error) {
	return h.s.takeNightTarget(), nil
}
