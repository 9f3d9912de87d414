package game

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestResolveNightKillsTarget(t *testing.T) {
	wolf := &scripted{night: 3}
	s := newTestSession(t, 5, []int{2}, map[int]Strategy{2: wolf})

	out := s.ResolveNight(context.Background())
	if out.VictimID != 3 {
		t.Fatalf("expected victim 3, got %d", out.VictimID)
	}
	if out.VictimName != "Chloe" {
		t.Errorf("expected victim name Chloe, got %q", out.VictimName)
	}
	if !strings.Contains(out.Summary, "Chloe") {
		t.Errorf("summary should name the victim: %q", out.Summary)
	}
	if p, _ := s.Participant(3); p.Alive {
		t.Error("victim should be dead")
	}
	if aliveCount(s) != 4 {
		t.Errorf("expected 4 alive, got %d", aliveCount(s))
	}
}

func TestResolveNightLogsSleepAndWake(t *testing.T) {
	s := newTestSession(t, 5, []int{2}, map[int]Strategy{2: &scripted{night: 3}})
	s.ResolveNight(context.Background())

	for _, p := range s.Participants() {
		if !hasLine(p.Log, "Falls asleep.") {
			t.Errorf("seat %d never fell asleep", p.ID)
		}
		woke := hasLine(p.Log, "Wakes up.")
		if p.Alive && !woke {
			t.Errorf("living seat %d never woke up", p.ID)
		}
		if !p.Alive && woke {
			t.Errorf("victim %d should not wake up", p.ID)
		}
	}
	actor, _ := s.Participant(2)
	if !hasLine(actor.Log, "Targets Chloe.") {
		t.Errorf("acting wolf log missing target line: %v", actor.Log)
	}
}

func TestResolveNightLowestWolfActs(t *testing.T) {
	first := &scripted{night: 2}
	second := &scripted{night: 4}
	s := newTestSession(t, 7, []int{3, 5}, map[int]Strategy{3: first, 5: second})

	out := s.ResolveNight(context.Background())
	if out.VictimID != 2 {
		t.Errorf("expected the lowest wolf's target 2, got %d", out.VictimID)
	}
	if second.nights.Load() != 0 {
		t.Error("only one wolf should pick the victim")
	}

	kill(s, 3)
	out = s.ResolveNight(context.Background())
	if out.VictimID != 4 {
		t.Errorf("expected the surviving wolf to act and kill 4, got %d", out.VictimID)
	}
}

func TestResolveNightQuietWithoutWolves(t *testing.T) {
	wolf := &scripted{night: 3}
	s := newTestSession(t, 5, []int{2}, map[int]Strategy{2: wolf})
	kill(s, 2)

	out := s.ResolveNight(context.Background())
	if out.VictimID != NoTarget {
		t.Errorf("expected no victim, got %d", out.VictimID)
	}
	if !strings.Contains(out.Summary, "quiet") {
		t.Errorf("expected quiet night summary, got %q", out.Summary)
	}
	if wolf.nights.Load() != 0 {
		t.Error("a dead wolf must not act")
	}
}

func TestResolveNightQuietWithoutVillagers(t *testing.T) {
	s := newTestSession(t, 5, []int{4, 5}, map[int]Strategy{4: &scripted{night: 1}})
	kill(s, 1, 2, 3)

	out := s.ResolveNight(context.Background())
	if out.VictimID != NoTarget {
		t.Errorf("expected no victim, got %d", out.VictimID)
	}
}

func TestResolveNightDropsInvalidTargets(t *testing.T) {
	for _, target := range []int{2, 4, 5, 99, -3} {
		wolf := &scripted{night: target}
		s := newTestSession(t, 6, []int{2, 4}, map[int]Strategy{2: wolf})
		kill(s, 5)

		out := s.ResolveNight(context.Background())
		if out.VictimID != NoTarget {
			t.Errorf("target %d: expected invalid target dropped, got victim %d", target, out.VictimID)
		}
		if aliveCount(s) != 5 {
			t.Errorf("target %d: nobody should die, alive=%d", target, aliveCount(s))
		}
		if !strings.Contains(out.Summary, "nobody died") {
			t.Errorf("target %d: unexpected summary %q", target, out.Summary)
		}
	}
}

func TestResolveNightAbstainingWolf(t *testing.T) {
	s := newTestSession(t, 5, []int{2}, map[int]Strategy{2: &scripted{night: NoTarget}})
	out := s.ResolveNight(context.Background())
	if out.VictimID != NoTarget {
		t.Errorf("expected no victim, got %d", out.VictimID)
	}
}

func TestResolveNightFallsBackOnProviderError(t *testing.T) {
	s := newTestSession(t, 5, []int{2}, map[int]Strategy{2: &scripted{err: errors.New("provider down")}})
	out := s.ResolveNight(context.Background())
	if out.VictimID == NoTarget {
		t.Fatal("expected fallback to pick a victim")
	}
	if victim, _ := s.Participant(out.VictimID); victim.Alignment != Villager {
		t.Errorf("fallback picked a non-villager: %+v", victim)
	}
}

func TestResolveNightFallsBackOnTimeout(t *testing.T) {
	s := newTestSession(t, 5, []int{2}, map[int]Strategy{2: &scripted{block: true}})
	out := s.ResolveNight(context.Background())
	if out.VictimID == NoTarget {
		t.Fatal("expected fallback to pick a victim after timeout")
	}
}

func TestHumanWolfChoosesVictim(t *testing.T) {
	s := newTestSession(t, 6, []int{1, 4}, nil)
	actor, ok := s.NightActor()
	if !ok || actor.ID != 1 {
		t.Fatalf("expected the human to act, got %+v", actor)
	}

	s.SubmitNightTarget(3)
	out := s.ResolveNight(context.Background())
	if out.VictimID != 3 {
		t.Errorf("expected human's target 3, got %d", out.VictimID)
	}
}

func TestHumanWolfWithoutChoiceHuntsAtRandom(t *testing.T) {
	s := newTestSession(t, 6, []int{1, 4}, nil)
	out := s.ResolveNight(context.Background())
	if out.VictimID == NoTarget {
		t.Fatal("expected a random victim when the human wolf names nobody")
	}
	if victim, _ := s.Participant(out.VictimID); victim.Alignment != Villager {
		t.Errorf("random hunt picked a wolf: %+v", victim)
	}
}

func TestNightCandidatesAreLivingVillagers(t *testing.T) {
	s := newTestSession(t, 6, []int{2, 4}, nil)
	kill(s, 5)
	got := s.NightCandidates()
	want := []int{1, 3, 6}
	if len(got) != len(want) {
		t.Fatalf("expected %d candidates, got %v", len(want), got)
	}
	for i, c := range got {
		if c.ID != want[i] {
			t.Errorf("candidate %d = %d, want %d", i, c.ID, want[i])
		}
	}
}
