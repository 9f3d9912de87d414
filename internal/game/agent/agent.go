// Package agent implements a game.Strategy backed by a chat-completions
// provider. Every failure surfaces as an error so the session can fall back
// to the seat's random default.
package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/lorenzotomasdiez/werewolf/internal/chat"
	"github.com/lorenzotomasdiez/werewolf/internal/game"
)

const (
	DefaultVillagerRandomVotes = 0.3
	DefaultWolfRandomVotes     = 0.2

	maxAnswerAttempts = 2
)

// ErrUnusableAnswer is returned when the provider's reply names no candidate.
var ErrUnusableAnswer = errors.New("agent: unusable answer")

var codeBlockRe = regexp.MustCompile("(?s)```(?:json)?\\s*\\n?(.*?)\\n?```")

// ChatClient abstracts the chat client for testability.
type ChatClient interface {
	ChatCompletion(ctx context.Context, model string, messages []chat.Message) (*chat.Response, error)
}

// Agent speaks, votes and hunts by asking a language model.
type Agent struct {
	llm            ChatClient
	model          string
	rng            *game.Rand
	villagerRandom float64
	wolfRandom     float64
}

// Option configures an Agent.
type Option func(*Agent)

// WithRandomVotes sets the share of votes cast at random instead of asking
// the model, per alignment.
func WithRandomVotes(villager, wolf float64) Option {
	return func(a *Agent) {
		a.villagerRandom, a.wolfRandom = villager, wolf
	}
}

// New creates an Agent using model on llm.
func New(llm ChatClient, model string, rng *game.Rand, opts ...Option) *Agent {
	a := &Agent{
		llm:            llm,
		model:          model,
		rng:            rng,
		villagerRandom: DefaultVillagerRandomVotes,
		wolfRandom:     DefaultWolfRandomVotes,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Factory binds an Agent to every autonomous seat, cycling through models by
// seat order. With no models it keeps the random defaults.
func Factory(llm ChatClient, models []string, rng *game.Rand, opts ...Option) game.StrategyFactory {
	return func(seat game.Seat) game.Strategy {
		if llm == nil || len(models) == 0 {
			return nil
		}
		// Autonomous seats start at id 2.
		i := max(seat.ID-2, 0) % len(models)
		return New(llm, models[i], rng, opts...)
	}
}

func (a *Agent) Speak(ctx context.Context, p game.Prompt) (string, error) {
	text, err := a.ask(ctx, speakMessages(p))
	if err != nil {
		return "", err
	}
	text = cleanLine(text, p.Self.Name)
	if text == "" {
		return "", ErrUnusableAnswer
	}
	return text, nil
}

func (a *Agent) Vote(ctx context.Context, p game.Prompt) (int, error) {
	pool := p.Candidates
	share := a.villagerRandom
	if p.Alignment == game.Wolf {
		pool = game.NonMates(p)
		share = a.wolfRandom
	}
	if len(pool) == 0 {
		return game.NoTarget, nil
	}
	if a.rng.Float64() < share {
		return a.rng.Pick(pool), nil
	}
	return a.choose(ctx, voteMessages(p, pool), pool)
}

func (a *Agent) NightTarget(ctx context.Context, p game.Prompt) (int, error) {
	if p.Alignment != game.Wolf || len(p.Candidates) == 0 {
		return game.NoTarget, nil
	}
	return a.choose(ctx, nightMessages(p), p.Candidates)
}

func (a *Agent) ask(ctx context.Context, msgs []chat.Message) (string, error) {
	resp, err := a.llm.ChatCompletion(ctx, a.model, msgs)
	if err != nil {
		return "", fmt.Errorf("agent: %w", err)
	}
	text, ok := resp.Content()
	if !ok {
		return "", ErrUnusableAnswer
	}
	return strings.TrimSpace(text), nil
}

// choose asks for a name until it matches a candidate, reminding the model
// of the format once.
func (a *Agent) choose(ctx context.Context, msgs []chat.Message, pool []game.Candidate) (int, error) {
	for attempt := range maxAnswerAttempts {
		if err := ctx.Err(); err != nil {
			return game.NoTarget, err
		}
		if attempt > 0 {
			msgs = append(msgs, chat.User(retryHint))
		}
		raw, err := a.ask(ctx, msgs)
		if err != nil {
			return game.NoTarget, err
		}
		if id, ok := Match(raw, pool); ok {
			return id, nil
		}
	}
	return game.NoTarget, ErrUnusableAnswer
}

// Match resolves a model reply to a candidate id. It accepts a bare name, a
// JSON object with a "name" field (optionally in a code block) or a sentence
// naming exactly one candidate. Matching ignores case and punctuation.
func Match(raw string, pool []game.Candidate) (int, bool) {
	answer := normalize(extractName(raw))
	if answer == "" {
		return game.NoTarget, false
	}
	for _, c := range pool {
		if normalize(c.Name) == answer {
			return c.ID, true
		}
	}

	words := strings.FieldsFunc(answer, func(r rune) bool { return !isNameRune(r) })
	found := game.NoTarget
	for _, c := range pool {
		name := normalize(c.Name)
		for _, w := range words {
			if w == name {
				if found != game.NoTarget && found != c.ID {
					return game.NoTarget, false
				}
				found = c.ID
			}
		}
	}
	return found, found != game.NoTarget
}

func extractName(raw string) string {
	var v struct {
		Name string `json:"name"`
	}
	raw = strings.TrimSpace(raw)
	if err := json.Unmarshal([]byte(raw), &v); err == nil && v.Name != "" {
		return v.Name
	}
	if m := codeBlockRe.FindStringSubmatch(raw); len(m) > 1 {
		inner := strings.TrimSpace(m[1])
		if err := json.Unmarshal([]byte(inner), &v); err == nil && v.Name != "" {
			return v.Name
		}
		return inner
	}
	start, end := strings.Index(raw, "{"), strings.LastIndex(raw, "}")
	if start >= 0 && end > start {
		if err := json.Unmarshal([]byte(raw[start:end+1]), &v); err == nil && v.Name != "" {
			return v.Name
		}
	}
	return raw
}

func isNameRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '-'
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimFunc(s, func(r rune) bool { return !isNameRune(r) }))
}

// cleanLine strips quotes and an echoed "Name:" prefix from a spoken line.
func cleanLine(text, self string) string {
	text = strings.TrimSpace(text)
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		text = strings.TrimSpace(text[:i])
	}
	if prefix := self + ":"; len(text) >= len(prefix) && strings.EqualFold(text[:len(prefix)], prefix) {
		text = strings.TrimSpace(text[len(prefix):])
	}
	return strings.TrimSpace(strings.Trim(text, "\"“”"))
}
