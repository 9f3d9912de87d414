package game

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// bounded runs call with a deadline and returns as soon as the deadline
// passes, even if call ignores its context. A panic in call becomes an error.
func bounded[T any](ctx context.Context, timeout time.Duration, call func(context.Context) (T, error)) (T, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type result struct {
		v   T
		err error
	}
	done := make(chan result, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				var zero T
				done <- result{zero, fmt.Errorf("strategy panic: %v", r)}
			}
		}()
		v, err := call(ctx)
		done <- result{v, err}
	}()

	select {
	case r := <-done:
		return r.v, r.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

func (s *Session) prompt(p *Participant, pool []*Participant) Prompt {
	mates := make([]Candidate, 0, len(p.Mates))
	for _, id := range p.Mates {
		mates = append(mates, s.seat(id).candidate())
	}
	return Prompt{
		Self:       p.candidate(),
		Alignment:  p.Alignment,
		Mates:      mates,
		Persona:    p.Persona,
		History:    p.recent(s.window),
		Candidates: candidates(pool),
	}
}

// speak asks a seat for a discussion line. Failures mean silence.
func (s *Session) speak(ctx context.Context, p *Participant) string {
	prompt := s.prompt(p, nil)
	text, err := bounded(ctx, s.timeout, func(ctx context.Context) (string, error) {
		return p.strategy.Speak(ctx, prompt)
	})
	if err != nil {
		s.warnFallback(p, "speak", err)
		return ""
	}
	return strings.TrimSpace(text)
}

// ballot asks an autonomous seat for a vote among pool. Failures fall back
// to the seat's default strategy.
func (s *Session) ballot(ctx context.Context, p *Participant, pool []*Participant) int {
	prompt := s.prompt(p, pool)
	target, err := bounded(ctx, s.timeout, func(ctx context.Context) (int, error) {
		return p.strategy.Vote(ctx, prompt)
	})
	if err != nil {
		s.warnFallback(p, "vote", err)
		target, _ = p.fallback.Vote(ctx, prompt)
	}
	return target
}

// hunt asks the acting wolf for a victim among pool. Failures fall back to
// the seat's default strategy.
func (s *Session) hunt(ctx context.Context, p *Participant, pool []*Participant) int {
	prompt := s.prompt(p, pool)
	target, err := bounded(ctx, s.timeout, func(ctx context.Context) (int, error) {
		return p.strategy.NightTarget(ctx, prompt)
	})
	if err != nil {
		s.warnFallback(p, "night", err)
		target, _ = p.fallback.NightTarget(ctx, prompt)
	}
	if target == NoTarget && p.Human {
		// A human wolf that names nobody hunts at random.
		target, _ = p.fallback.NightTarget(ctx, prompt)
	}
	return target
}

func (s *Session) warnFallback(p *Participant, action string, err error) {
	s.log.Warn().
		Err(err).
		Int("seat", p.ID).
		Str("name", p.Name).
		Str("action", action).
		Msg("strategy unavailable, using fallback")
}
