package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/lorenzotomasdiez/werewolf/internal/chat"
	"github.com/lorenzotomasdiez/werewolf/internal/config"
	"github.com/lorenzotomasdiez/werewolf/internal/game"
	"github.com/lorenzotomasdiez/werewolf/internal/game/agent"
	"github.com/lorenzotomasdiez/werewolf/internal/models"
	"github.com/lorenzotomasdiez/werewolf/internal/output"
	"github.com/lorenzotomasdiez/werewolf/internal/persona"
)

// Sampling settings for every provider call.
const (
	temperature = 0.7
	maxTokens   = 80
)

// app carries what the persistent pre-run resolved for the subcommands.
type app struct {
	cfg *config.Config
	log zerolog.Logger
}

// provider is the part of the chat client a game needs.
type provider interface {
	agent.ChatClient
	models.Lister
}

// client returns the configured provider, or nil when AI seats play at
// random. The result is a nil interface in that case, never a nil pointer.
func (a *app) client() provider {
	if !a.cfg.Remote() {
		return nil
	}
	return chat.NewClient(a.cfg.APIKey,
		chat.WithBaseURL(a.cfg.BaseURL),
		chat.WithTemperature(temperature),
		chat.WithMaxTokens(maxTokens),
	)
}

func (a *app) personas() (persona.Pack, error) {
	if a.cfg.PersonaFile == "" {
		return persona.Default(), nil
	}
	return persona.Load(a.cfg.PersonaFile)
}

// newEngine deals a new game: it picks a model per AI seat, names the seats,
// draws personas and binds the agents.
func (a *app) newEngine(ctx context.Context, humanName string, players, wolves int, seed uint64) (*game.Engine, error) {
	if err := game.ValidateCounts(players, wolves); err != nil {
		return nil, err
	}
	pack, err := a.personas()
	if err != nil {
		return nil, err
	}

	rng := game.NewRand(seed)
	seats := players - 1
	llm := a.client()

	var seatModels []string
	nameModel := a.cfg.Model
	if llm != nil {
		seatModels = models.ForSeats(ctx, llm, a.cfg.Model, seats)
		if nameModel == "" && len(seatModels) > 0 {
			nameModel = seatModels[0]
		}
		a.log.Debug().Strs("models", seatModels).Str("provider", a.cfg.Provider).Msg("models selected")
	}

	var namer persona.Completer
	var strategies agent.ChatClient
	if llm != nil {
		namer, strategies = llm, llm
	}
	names := persona.Names(ctx, namer, nameModel, seats)

	s, err := game.NewSession(game.Settings{
		Players:         players,
		Wolves:          wolves,
		HumanName:       humanName,
		Names:           names,
		StrategyTimeout: a.cfg.StrategyTimeout,
	},
		game.WithRand(rng),
		game.WithLogger(a.log),
		game.WithPersonas(persona.NewPool(pack, rng)),
		game.WithStrategies(agent.Factory(strategies, seatModels, rng)),
	)
	if err != nil {
		return nil, err
	}
	return game.NewEngine(s), nil
}

// newWriter creates the output directory for a game named after slug.
func (a *app) newWriter(slug string) (*output.Writer, error) {
	dir, err := output.CreateOutputDir(a.cfg.OutputDir, output.GenerateSlug(slug))
	if err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}
	return output.NewWriter(dir), nil
}

// record prints engine events and appends them to the game log. Day
// banners are left to the caller when showDay is false.
func record(e *game.Engine, p *output.Printer, w *output.Writer, showDay bool) {
	e.OnPhase = func(phase game.Phase, turn int) {
		w.Log(fmt.Sprintf("Phase: %s %d", phase, turn))
		if phase == game.Day && !showDay {
			return
		}
		p.Phase(phase, turn)
	}
	e.OnMessage = func(m game.Message) {
		p.Message(m)
		w.Log(m.String())
	}
	e.OnNight = func(o game.NightOutcome) {
		p.Night(o)
		w.Log(o.Summary)
	}
	e.OnDay = func(o game.DayOutcome) {
		p.Day(o)
		for _, b := range o.Ballots {
			w.Log(fmt.Sprintf("%s votes against %s.", b.Voter, b.Target))
		}
		w.Log(o.Summary)
	}
}

// saveGame writes the transcript, the report and the log.
func saveGame(w *output.Writer, t *game.Transcript) error {
	if err := w.WriteJSON(t); err != nil {
		return fmt.Errorf("writing JSON: %w", err)
	}
	if err := w.WriteMarkdown(t); err != nil {
		return fmt.Errorf("writing markdown: %w", err)
	}
	if err := w.WriteLog(); err != nil {
		return fmt.Errorf("writing log: %w", err)
	}
	return nil
}
