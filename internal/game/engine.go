package game

import (
	"context"
	"errors"
	"fmt"
)

// Engine drives a session through Night, Day and Terminal. The win
// condition is checked after every phase, so a night that ends the game
// never reaches a vote. Terminal is absorbing.
type Engine struct {
	session   *Session
	records   []Record
	OnPhase   func(phase Phase, turn int)
	OnNight   func(NightOutcome)
	OnDay     func(DayOutcome)
	OnMessage func(Message)
}

// NewEngine creates an engine for a fresh session.
func NewEngine(s *Session) *Engine {
	return &Engine{session: s}
}

// Session returns the session being driven.
func (e *Engine) Session() *Session { return e.session }

// Records returns every phase resolved so far.
func (e *Engine) Records() []Record { return e.records }

// Discuss runs one discussion round of the current day. The caller decides
// when discussion is over by calling Step.
func (e *Engine) Discuss(ctx context.Context) ([]Message, error) {
	s := e.session
	switch s.phase {
	case Terminal:
		return nil, ErrGameOver
	case Night:
		return nil, ErrNotDay
	}
	msgs := s.Discuss(ctx)
	e.emit(msgs)
	return msgs, nil
}

// Step resolves the current phase and moves to the next one.
func (e *Engine) Step(ctx context.Context) (Record, error) {
	s := e.session
	var rec Record
	switch s.phase {
	case Terminal:
		return Record{}, ErrGameOver
	case Night:
		s.turn++
		if e.OnPhase != nil {
			e.OnPhase(Night, s.turn)
		}
		out := s.ResolveNight(ctx)
		rec = Record{Turn: s.turn, Phase: Night, Night: &out}
		if e.OnNight != nil {
			e.OnNight(out)
		}
		s.phase = Day
	case Day:
		if e.OnPhase != nil {
			e.OnPhase(Day, s.turn)
		}
		out := s.ResolveDay(ctx)
		rec = Record{Turn: s.turn, Phase: Day, Day: &out}
		e.emit(out.Messages)
		if e.OnDay != nil {
			e.OnDay(out)
		}
		s.phase = Night
	}
	e.records = append(e.records, rec)

	if s.GameOver() {
		s.phase = Terminal
		if e.OnPhase != nil {
			e.OnPhase(Terminal, s.turn)
		}
	}
	return rec, nil
}

// Run steps until the game is over or ctx is cancelled between phases.
func (e *Engine) Run(ctx context.Context) (*Transcript, error) {
	for {
		if err := ctx.Err(); err != nil {
			return e.Transcript(), fmt.Errorf("game: %w", err)
		}
		if _, err := e.Step(ctx); err != nil {
			if errors.Is(err, ErrGameOver) {
				return e.Transcript(), nil
			}
			return e.Transcript(), err
		}
	}
}

// Transcript returns the game so far, with every seat revealed.
func (e *Engine) Transcript() *Transcript {
	s := e.session
	t := &Transcript{
		Players: s.Participants(),
		Records: append([]Record(nil), e.records...),
		Turns:   s.turn,
		Over:    s.phase == Terminal,
	}
	if side, ok := s.Winner(); ok && t.Over {
		t.Winner = side.String()
	}
	return t
}

func (e *Engine) emit(msgs []Message) {
	if e.OnMessage == nil {
		return
	}
	for _, m := range msgs {
		e.OnMessage(m)
	}
}
