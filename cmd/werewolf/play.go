package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lorenzotomasdiez/werewolf/internal/game"
	"github.com/lorenzotomasdiez/werewolf/internal/output"
)

func newPlayCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play a game from the terminal",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runPlay(cmd)
		},
	}
	cmd.Flags().String("name", "", "Your name at the table (asked for when empty)")
	cmd.Flags().Uint64("seed", 0, "Random seed (0 picks one)")
	return cmd
}

func (a *app) runPlay(cmd *cobra.Command) error {
	name, _ := cmd.Flags().GetString("name")
	seed, _ := cmd.Flags().GetUint64("seed")

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	out := cmd.OutOrStdout()
	in := newPrompter(ctx, cmd.InOrStdin(), out)
	p := output.NewPrinter(out)
	p.Banner("Werewolf")

	if strings.TrimSpace(name) == "" {
		name = in.ask("Your name: ")
	}
	engine, err := a.newEngine(ctx, name, a.cfg.Players, a.cfg.Wolves, seed)
	if err != nil {
		return err
	}
	s := engine.Session()
	w, err := a.newWriter("werewolf-" + s.Human().Name)
	if err != nil {
		return err
	}
	record(engine, p, w, false)
	p.Role(s.Human(), s.Participants())

	for s.Phase() != game.Terminal && ctx.Err() == nil {
		switch s.Phase() {
		case game.Night:
			if actor, ok := s.NightActor(); ok && actor.Human {
				s.SubmitNightTarget(in.choose("Choose tonight's victim", s.NightCandidates()))
			}
		case game.Day:
			p.Phase(game.Day, s.Turn())
			if s.Human().Alive {
				if err := discuss(ctx, engine, in); err != nil {
					return err
				}
			}
		}
		if _, err := engine.Step(ctx); err != nil {
			return err
		}
	}

	t := engine.Transcript()
	p.Result(t)
	if err := saveGame(w, t); err != nil {
		return err
	}
	fmt.Fprintf(out, "\nGame saved to: %s\n", w.Dir())
	return nil
}

// discuss lets the human talk for as many rounds as they like, then asks
// for their vote. An empty line ends the discussion.
func discuss(ctx context.Context, e *game.Engine, in *prompter) error {
	s := e.Session()
	fmt.Fprintln(in.out, "Say something, or press Enter to stay silent.")
	if line := in.ask("> "); line != "" {
		s.SubmitMessage(line)
	}
	if _, err := e.Discuss(ctx); err != nil {
		return err
	}
	for ctx.Err() == nil {
		fmt.Fprintln(in.out, "Reply, or press Enter to move to the vote.")
		line := in.ask("> ")
		if line == "" {
			break
		}
		s.SubmitMessage(line)
		if _, err := e.Discuss(ctx); err != nil {
			return err
		}
	}

	self := s.Human().ID
	var pool []game.Candidate
	for _, q := range s.Alive() {
		if q.ID != self {
			pool = append(pool, game.Candidate{ID: q.ID, Name: q.Name})
		}
	}
	s.SubmitVote(in.choose("Vote to lynch", pool))
	return nil
}

// prompter reads lines from the human without blocking cancellation.
type prompter struct {
	ctx   context.Context
	out   io.Writer
	lines chan string
}

func newPrompter(ctx context.Context, r io.Reader, out io.Writer) *prompter {
	p := &prompter{ctx: ctx, out: out, lines: make(chan string)}
	go func() {
		defer close(p.lines)
		sc := bufio.NewScanner(r)
		for sc.Scan() {
			select {
			case p.lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
	}()
	return p
}

// ask prints label and returns the trimmed reply. It returns "" once input
// is exhausted or the game is interrupted.
func (p *prompter) ask(label string) string {
	fmt.Fprint(p.out, label)
	select {
	case line, ok := <-p.lines:
		if !ok {
			fmt.Fprintln(p.out)
		}
		return strings.TrimSpace(line)
	case <-p.ctx.Done():
		fmt.Fprintln(p.out)
		return ""
	}
}

// choose lists pool and reads a seat id. An empty reply abstains.
func (p *prompter) choose(label string, pool []game.Candidate) int {
	if len(pool) == 0 {
		return game.NoTarget
	}
	fmt.Fprintf(p.out, "%s (empty to abstain):\n", label)
	for _, c := range pool {
		fmt.Fprintf(p.out, "  %2d  %s\n", c.ID, c.Name)
	}
	for {
		reply := p.ask("id> ")
		if reply == "" {
			return game.NoTarget
		}
		id, err := strconv.Atoi(reply)
		if err == nil {
			for _, c := range pool {
				if c.ID == id {
					return id
				}
			}
		}
		fmt.Fprintf(p.out, "%q is not one of the listed ids.\n", reply)
	}
}
