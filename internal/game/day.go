package game

import (
	"context"
	"fmt"
	"slices"
	"strings"
)

// Discuss runs one discussion round: the human's pending line is broadcast
// first, then every living autonomous seat speaks in id order. Empty lines
// are silent passes. Discuss may run any number of times before ResolveDay
// closes the discussion.
func (s *Session) Discuss(ctx context.Context) []Message {
	s.discussed = true
	var msgs []Message
	if m, ok := s.flushHuman(); ok {
		msgs = append(msgs, m)
	}
	for _, p := range s.aliveSeats() {
		if p.Human {
			continue
		}
		text := s.speak(ctx, p)
		if text == "" {
			continue
		}
		msgs = append(msgs, s.broadcast(p, text))
	}
	return msgs
}

// flushHuman broadcasts the human's pending line, if any. A dead human's
// input is dropped.
func (s *Session) flushHuman() (Message, bool) {
	h := s.human()
	text := strings.TrimSpace(s.takeMessage())
	if !h.Alive || text == "" {
		return Message{}, false
	}
	return s.broadcast(h, text), true
}

func (s *Session) broadcast(speaker *Participant, text string) Message {
	m := Message{SpeakerID: speaker.ID, Speaker: speaker.Name, Text: text}
	speaker.note("Said: " + text)
	for _, p := range s.aliveSeats() {
		if p.ID != speaker.ID {
			p.listen(m.String())
		}
	}
	return m
}

// ResolveDay closes the discussion and runs the vote. If no discussion
// round ran this day one runs first; a line the human submitted since the
// last round is still broadcast. Every living seat then casts at most one
// vote. Votes for oneself, for the dead or for unknown seats are dropped.
// The seat with the most votes is eliminated, ties going to the lowest id.
// With no valid vote nobody dies.
//
// Like ResolveNight it leaves Turn and Phase alone; Engine.Step advances
// them, so callers should go through the Engine.
func (s *Session) ResolveDay(ctx context.Context) DayOutcome {
	out := DayOutcome{Turn: s.turn}
	h := s.human()
	if !h.Alive {
		s.clearInbox()
	}

	if !s.discussed {
		out.Messages = s.Discuss(ctx)
	} else if m, ok := s.flushHuman(); ok {
		out.Messages = append(out.Messages, m)
	}
	s.discussed = false

	alive := s.aliveSeats()
	for _, p := range alive {
		var target int
		if p.Human {
			target = s.takeVote()
		} else {
			target = s.ballot(ctx, p, without(alive, p.ID))
		}
		if target == NoTarget {
			continue
		}
		voted := find(alive, target)
		if voted == nil || voted.ID == p.ID {
			s.log.Debug().Int("seat", p.ID).Int("target", target).Msg("invalid vote dropped")
			continue
		}
		out.Ballots = append(out.Ballots, Ballot{VoterID: p.ID, Voter: p.Name, TargetID: voted.ID, Target: voted.Name})
	}

	for _, b := range out.Ballots {
		line := fmt.Sprintf("%s votes against %s.", b.Voter, b.Target)
		for _, p := range alive {
			p.listen(line)
		}
	}

	out.Tally = tally(out.Ballots)
	if len(out.Tally) == 0 {
		out.Summary = "Nobody was lynched."
		s.log.Debug().Int("turn", s.turn).Msg("day resolved without votes")
		return out
	}

	condemned := s.seat(out.Tally[0].ID)
	condemned.Alive = false
	out.EliminatedID, out.EliminatedName = condemned.ID, condemned.Name
	out.Summary = fmt.Sprintf("%s was lynched by the village.", condemned.Name)
	s.log.Debug().Int("turn", s.turn).Int("eliminated", condemned.ID).Msg("day resolved")
	return out
}

// tally counts ballots per target, most votes first and lowest id first
// among equals, so the leader is always Tally[0].
func tally(ballots []Ballot) []TallyEntry {
	counts := map[int]*TallyEntry{}
	for _, b := range ballots {
		e, ok := counts[b.TargetID]
		if !ok {
			e = &TallyEntry{ID: b.TargetID, Name: b.Target}
			counts[b.TargetID] = e
		}
		e.Votes++
	}
	out := make([]TallyEntry, 0, len(counts))
	for _, e := range counts {
		out = append(out, *e)
	}
	slices.SortFunc(out, func(a, b TallyEntry) int {
		if a.Votes != b.Votes {
			return b.Votes - a.Votes
		}
		return a.ID - b.ID
	})
	return out
}
