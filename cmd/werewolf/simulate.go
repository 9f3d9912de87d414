package main

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/lorenzotomasdiez/werewolf/internal/output"
)

func newSimulateCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run a whole game unattended; the human seat always abstains",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runSimulate(cmd)
		},
	}
	cmd.Flags().String("name", "Observer", "Name of the silent human seat")
	cmd.Flags().Uint64("seed", 0, "Random seed (0 picks one)")
	return cmd
}

func (a *app) runSimulate(cmd *cobra.Command) error {
	name, _ := cmd.Flags().GetString("name")
	seed, _ := cmd.Flags().GetUint64("seed")

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	out := cmd.OutOrStdout()
	engine, err := a.newEngine(ctx, name, a.cfg.Players, a.cfg.Wolves, seed)
	if err != nil {
		return err
	}
	w, err := a.newWriter("simulation")
	if err != nil {
		return err
	}

	p := output.NewPrinter(out)
	p.Banner("Werewolf simulation")
	s := engine.Session()
	fmt.Fprintf(out, "Players: %d | Wolves: %d | Output: %s\n", a.cfg.Players, a.cfg.Wolves, w.Dir())
	p.Alive(s.Alive())
	record(engine, p, w, true)

	t, err := engine.Run(ctx)
	if err != nil {
		a.log.Warn().Err(err).Msg("simulation interrupted")
	}
	p.Result(t)
	if err := saveGame(w, t); err != nil {
		return err
	}
	fmt.Fprintf(out, "\nGame saved to: %s\n", w.Dir())
	return nil
}
