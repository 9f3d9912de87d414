package game

import (
	"context"
	"fmt"
)

// Alignment is the hidden side a seat plays for.
type Alignment int

const (
	Villager Alignment = iota
	Wolf
)

func (a Alignment) String() string {
	if a == Wolf {
		return "wolf"
	}
	return "villager"
}

// MarshalText encodes the alignment as its lowercase name.
func (a Alignment) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText accepts "villager" or "wolf".
func (a *Alignment) UnmarshalText(b []byte) error {
	switch string(b) {
	case "villager":
		*a = Villager
	case "wolf":
		*a = Wolf
	default:
		return fmt.Errorf("game: unknown alignment %q", string(b))
	}
	return nil
}

// Phase is the state of the game loop.
type Phase int

const (
	Night Phase = iota
	Day
	Terminal
)

func (p Phase) String() string {
	switch p {
	case Night:
		return "night"
	case Day:
		return "day"
	default:
		return "terminal"
	}
}

// MarshalText encodes the phase as its lowercase name.
func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText accepts the names MarshalText produces.
func (p *Phase) UnmarshalText(b []byte) error {
	switch string(b) {
	case "night":
		*p = Night
	case "day":
		*p = Day
	case "terminal":
		*p = Terminal
	default:
		return fmt.Errorf("game: unknown phase %q", string(b))
	}
	return nil
}

// NoTarget is the id returned by a strategy that abstains or has no choice.
// Seat ids start at 1.
const NoTarget = 0

// Candidate identifies a seat without exposing its alignment.
type Candidate struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Prompt is everything a strategy may look at when deciding.
type Prompt struct {
	Self       Candidate
	Alignment  Alignment
	Mates      []Candidate // empty for villagers
	Persona    string
	History    []string // most recent log lines, oldest first
	Candidates []Candidate
}

// Strategy decides what an autonomous seat says, who it votes for and,
// for wolves, who dies at night. Vote and NightTarget return NoTarget to
// abstain. Errors make the engine fall back to its default behaviour.
type Strategy interface {
	Speak(ctx context.Context, p Prompt) (string, error)
	Vote(ctx context.Context, p Prompt) (int, error)
	NightTarget(ctx context.Context, p Prompt) (int, error)
}

// Seat is handed to a StrategyFactory once roles are dealt.
type Seat struct {
	ID        int
	Name      string
	Alignment Alignment
	Mates     []Candidate
	Persona   string
}

// StrategyFactory binds a strategy to an autonomous seat. Returning nil
// keeps the random default for the seat's alignment.
type StrategyFactory func(seat Seat) Strategy

// PersonaSource supplies flavour text for autonomous seats.
type PersonaSource interface {
	Pick(a Alignment) string
}

// Message is one public line of the day discussion.
type Message struct {
	SpeakerID int    `json:"speaker_id"`
	Speaker   string `json:"speaker"`
	Text      string `json:"text"`
}

func (m Message) String() string {
	return m.Speaker + ": " + m.Text
}

// Ballot is one valid vote.
type Ballot struct {
	VoterID  int    `json:"voter_id"`
	Voter    string `json:"voter"`
	TargetID int    `json:"target_id"`
	Target   string `json:"target"`
}

// TallyEntry is the vote count for one target.
type TallyEntry struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Votes int    `json:"votes"`
}

// NightOutcome is the result of one night resolution.
type NightOutcome struct {
	Turn       int    `json:"turn"`
	VictimID   int    `json:"victim_id,omitempty"`
	VictimName string `json:"victim_name,omitempty"`
	Summary    string `json:"summary"`
}

// DayOutcome is the result of one day resolution.
type DayOutcome struct {
	Turn           int          `json:"turn"`
	Messages       []Message    `json:"messages,omitempty"`
	Ballots        []Ballot     `json:"ballots,omitempty"`
	Tally          []TallyEntry `json:"tally,omitempty"`
	EliminatedID   int          `json:"eliminated_id,omitempty"`
	EliminatedName string       `json:"eliminated_name,omitempty"`
	Summary        string       `json:"summary"`
}

// Record is one resolved phase.
type Record struct {
	Turn  int           `json:"turn"`
	Phase Phase         `json:"phase"`
	Night *NightOutcome `json:"night,omitempty"`
	Day   *DayOutcome   `json:"day,omitempty"`
}

// Summary returns the outcome text of whichever phase was resolved.
func (r Record) Summary() string {
	switch {
	case r.Night != nil:
		return r.Night.Summary
	case r.Day != nil:
		return r.Day.Summary
	}
	return ""
}

// Transcript is the full history of a game.
type Transcript struct {
	Players []Participant `json:"players"`
	Records []Record      `json:"records"`
	Turns   int           `json:"turns"`
	Over    bool          `json:"over"`
	Winner  string        `json:"winner,omitempty"`
}
