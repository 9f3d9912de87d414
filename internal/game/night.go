package game

import (
	"context"
	"fmt"
)

// ResolveNight puts the village to sleep, lets the acting wolf pick one
// living villager and wakes the survivors. At most one seat dies. With no
// living wolf or no living villager the night passes quietly.
//
// ResolveNight keeps no state of its own and leaves Turn and Phase alone:
// the Engine numbers the turn before calling it once per turn and moves the
// phase afterwards. Callers should go through Engine.Step.
func (s *Session) ResolveNight(ctx context.Context) NightOutcome {
	out := NightOutcome{Turn: s.turn}
	if !s.human().Alive {
		s.clearInbox()
	}

	for _, p := range s.aliveSeats() {
		p.sleep()
	}

	wolves := s.aliveIn(s.wolves)
	villagers := s.aliveIn(s.villagers)
	if len(wolves) == 0 || len(villagers) == 0 {
		s.wake()
		out.Summary = "A quiet night, nobody died."
		return out
	}

	actor := wolves[0]
	target := s.hunt(ctx, actor, villagers)
	if victim := find(villagers, target); victim != nil {
		victim.Alive = false
		actor.note("Targets " + victim.Name + ".")
		out.VictimID, out.VictimName = victim.ID, victim.Name
	} else if target != NoTarget {
		s.log.Debug().Int("seat", actor.ID).Int("target", target).Msg("invalid night target dropped")
	}

	s.wake()
	if out.VictimID != NoTarget {
		out.Summary = fmt.Sprintf("During the night, %s was killed.", out.VictimName)
	} else {
		out.Summary = "The night passed, nobody died."
	}
	s.log.Debug().Int("turn", s.turn).Int("victim", out.VictimID).Msg("night resolved")
	return out
}

func (s *Session) wake() {
	for _, p := range s.aliveSeats() {
		p.wakeUp()
	}
}
