package agent

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/lorenzotomasdiez/werewolf/internal/chat"
	"github.com/lorenzotomasdiez/werewolf/internal/game"
)

type mockLLM struct {
	mu        sync.Mutex
	responses []string
	err       error
	calls     [][]chat.Message
	models    []string
}

func (m *mockLLM) ChatCompletion(_ context.Context, model string, msgs []chat.Message) (*chat.Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, msgs)
	m.models = append(m.models, model)
	if m.err != nil {
		return nil, m.err
	}
	text := ""
	if len(m.responses) > 0 {
		text = m.responses[0]
		if len(m.responses) > 1 {
			m.responses = m.responses[1:]
		}
	}
	return &chat.Response{Choices: []chat.Choice{{Message: chat.Message{Role: "assistant", Content: text}}}}, nil
}

var (
	bob   = game.Candidate{ID: 2, Name: "Bob"}
	chloe = game.Candidate{ID: 3, Name: "Chloe"}
	david = game.Candidate{ID: 4, Name: "David"}
)

func villagerPrompt() game.Prompt {
	return game.Prompt{
		Self:       game.Candidate{ID: 5, Name: "Emma"},
		Alignment:  game.Villager,
		History:    []string{"Heard: Bob: Chloe is quiet."},
		Candidates: []game.Candidate{bob, chloe, david},
	}
}

func wolfPrompt() game.Prompt {
	return game.Prompt{
		Self:       game.Candidate{ID: 5, Name: "Emma"},
		Alignment:  game.Wolf,
		Mates:      []game.Candidate{chloe},
		Persona:    "A grumpy baker who trusts nobody.",
		Candidates: []game.Candidate{bob, chloe, david},
	}
}

func newAgent(llm ChatClient) *Agent {
	return New(llm, "test-model", game.NewRand(1), WithRandomVotes(0, 0))
}

func TestSpeakReturnsCleanLine(t *testing.T) {
	llm := &mockLLM{responses: []string{"Emma: \"I think Chloe is hiding something.\"\nextra"}}
	text, err := newAgent(llm).Speak(context.Background(), villagerPrompt())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "I think Chloe is hiding something." {
		t.Errorf("unexpected line %q", text)
	}
	if llm.models[0] != "test-model" {
		t.Errorf("expected test-model, got %q", llm.models[0])
	}
	user := llm.calls[0][1].Content
	if !strings.Contains(user, "Bob: Chloe is quiet.") {
		t.Errorf("prompt should carry the history, got %q", user)
	}
}

func TestSpeakEmptyReplyIsUnusable(t *testing.T) {
	_, err := newAgent(&mockLLM{responses: []string{"   "}}).Speak(context.Background(), villagerPrompt())
	if !errors.Is(err, ErrUnusableAnswer) {
		t.Errorf("expected ErrUnusableAnswer, got %v", err)
	}
}

func TestSpeakProviderError(t *testing.T) {
	_, err := newAgent(&mockLLM{err: errors.New("503")}).Speak(context.Background(), villagerPrompt())
	if err == nil {
		t.Fatal("expected provider error")
	}
}

func TestWolfPromptKeepsMatesSecret(t *testing.T) {
	llm := &mockLLM{responses: []string{"Bob has been too quiet."}}
	newAgent(llm).Speak(context.Background(), wolfPrompt())
	system := llm.calls[0][0].Content
	if !strings.Contains(system, "WEREWOLF") || !strings.Contains(system, "Chloe") {
		t.Errorf("wolf system prompt should name the role and mates, got %q", system)
	}
	if !strings.Contains(system, "Never reveal") {
		t.Error("wolf system prompt should ask to keep the secret")
	}
	if !strings.Contains(system, "grumpy baker") {
		t.Error("persona should be part of the system prompt")
	}

	llm = &mockLLM{responses: []string{"Bob?"}}
	newAgent(llm).Speak(context.Background(), villagerPrompt())
	if strings.Contains(llm.calls[0][0].Content, "WEREWOLF.") {
		t.Error("villager prompt must not say the seat is a werewolf")
	}
}

func TestVoteMatchesName(t *testing.T) {
	for _, reply := range []string{"Chloe", "chloe.", "  CHLOE!  ", `{"name": "Chloe"}`, "```json\n{\"name\":\"Chloe\"}\n```", "I vote for Chloe."} {
		id, err := newAgent(&mockLLM{responses: []string{reply}}).Vote(context.Background(), villagerPrompt())
		if err != nil {
			t.Errorf("%q: unexpected error: %v", reply, err)
			continue
		}
		if id != chloe.ID {
			t.Errorf("%q: expected Chloe (%d), got %d", reply, chloe.ID, id)
		}
	}
}

func TestVoteRetriesOnceThenGivesUp(t *testing.T) {
	llm := &mockLLM{responses: []string{"Nobody", "Zelda"}}
	_, err := newAgent(llm).Vote(context.Background(), villagerPrompt())
	if !errors.Is(err, ErrUnusableAnswer) {
		t.Fatalf("expected ErrUnusableAnswer, got %v", err)
	}
	if len(llm.calls) != maxAnswerAttempts {
		t.Fatalf("expected %d calls, got %d", maxAnswerAttempts, len(llm.calls))
	}
	last := llm.calls[1]
	if last[len(last)-1].Content != retryHint {
		t.Error("second attempt should remind the format")
	}
}

func TestVoteRetrySucceeds(t *testing.T) {
	llm := &mockLLM{responses: []string{"hmm", "David"}}
	id, err := newAgent(llm).Vote(context.Background(), villagerPrompt())
	if err != nil || id != david.ID {
		t.Errorf("expected David after retry, got %d (%v)", id, err)
	}
}

func TestWolfNeverVotesMate(t *testing.T) {
	llm := &mockLLM{responses: []string{"Chloe"}}
	_, err := newAgent(llm).Vote(context.Background(), wolfPrompt())
	if !errors.Is(err, ErrUnusableAnswer) {
		t.Errorf("a mate's name is not a valid wolf vote, got %v", err)
	}
	user := llm.calls[0][1].Content
	if strings.Contains(user, "vote for: Bob, Chloe") {
		t.Errorf("mates must not be offered as candidates: %q", user)
	}
}

func TestRandomVotesSkipProvider(t *testing.T) {
	llm := &mockLLM{err: errors.New("should not be called")}
	a := New(llm, "m", game.NewRand(3), WithRandomVotes(1, 1))
	for range 20 {
		id, err := a.Vote(context.Background(), wolfPrompt())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if id == chloe.ID {
			t.Fatal("random wolf vote hit a mate")
		}
	}
	if len(llm.calls) != 0 {
		t.Errorf("expected no provider calls, got %d", len(llm.calls))
	}
}

func TestNightTarget(t *testing.T) {
	p := wolfPrompt()
	p.Candidates = []game.Candidate{bob, david}
	llm := &mockLLM{responses: []string{"David"}}
	id, err := newAgent(llm).NightTarget(context.Background(), p)
	if err != nil || id != david.ID {
		t.Errorf("expected David, got %d (%v)", id, err)
	}
	if !strings.Contains(llm.calls[0][1].Content, "Bob, David") {
		t.Errorf("night prompt should list the villagers: %q", llm.calls[0][1].Content)
	}

	llm = &mockLLM{}
	id, err = newAgent(llm).NightTarget(context.Background(), villagerPrompt())
	if err != nil || id != game.NoTarget {
		t.Errorf("villagers have no night action, got %d (%v)", id, err)
	}
	if len(llm.calls) != 0 {
		t.Error("villager night should not call the provider")
	}
}

func TestMatchAmbiguousSentence(t *testing.T) {
	pool := []game.Candidate{bob, chloe}
	if _, ok := Match("Bob or Chloe, hard to say", pool); ok {
		t.Error("a reply naming two candidates should not match")
	}
	if id, ok := Match("Bob, definitely Bob", pool); !ok || id != bob.ID {
		t.Errorf("repeating one name should match it, got %d (%v)", id, ok)
	}
	if _, ok := Match("", pool); ok {
		t.Error("empty reply should not match")
	}
}

func TestFactoryCyclesModels(t *testing.T) {
	llm := &mockLLM{}
	f := Factory(llm, []string{"a", "b"}, game.NewRand(1))
	for id, want := range map[int]string{2: "a", 3: "b", 4: "a"} {
		s := f(game.Seat{ID: id})
		ag, ok := s.(*Agent)
		if !ok {
			t.Fatalf("seat %d: expected *Agent, got %T", id, s)
		}
		if ag.model != want {
			t.Errorf("seat %d: expected model %q, got %q", id, want, ag.model)
		}
	}
	if Factory(llm, nil, game.NewRand(1))(game.Seat{ID: 2}) != nil {
		t.Error("no models should keep the default strategy")
	}
}

func TestAgentDrivesSession(t *testing.T) {
	llm := &mockLLM{responses: []string{"I have a bad feeling."}}
	rng := game.NewRand(9)
	s, err := game.NewSession(game.Settings{Players: 5, Wolves: 1, Seed: 9},
		game.WithRand(rng),
		game.WithStrategies(Factory(llm, []string{"m"}, rng)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	msgs := s.Discuss(context.Background())
	if len(msgs) != 4 {
		t.Fatalf("expected 4 AI lines, got %+v", msgs)
	}
	for _, m := range msgs {
		if m.Text != "I have a bad feeling." {
			t.Errorf("unexpected line %+v", m)
		}
	}
	// Unmatched vote names fall back to random ballots.
	out := s.ResolveDay(context.Background())
	if len(out.Ballots) != 4 {
		t.Errorf("expected 4 fallback ballots, got %d", len(out.Ballots))
	}
}
