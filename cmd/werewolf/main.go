package main

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/lorenzotomasdiez/werewolf/internal/config"
)

func main() {
	if err := newRootCmd(&app{}).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "werewolf",
		Short: "Play Werewolf against AI villagers and wolves",
		Long: "A game of Werewolf: one human seat and a table of AI players backed by Groq or OpenRouter " +
			"language models, or by random play when no provider is configured. Wolves kill at night, " +
			"the village lynches by day, and the game ends when one side wins.",
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
	}

	root.PersistentFlags().String("env-file", ".env", "Path to a .env file (missing is fine)")
	root.PersistentFlags().String("provider", "", "LLM provider: groq, openrouter or none (overrides WEREWOLF_PROVIDER)")
	root.PersistentFlags().String("api-key", "", "API key for the provider (overrides GROQ_API_KEY / OPENROUTER_API_KEY)")
	root.PersistentFlags().String("model", "", "Model for every AI seat (overrides WEREWOLF_MODEL)")
	root.PersistentFlags().Int("players", 10, "Number of seats, the human included")
	root.PersistentFlags().Int("wolves", 2, "Number of wolves")
	root.PersistentFlags().Duration("timeout", 20*time.Second, "Time limit for each AI decision")
	root.PersistentFlags().String("output-dir", "output", "Output directory for game records")
	root.PersistentFlags().String("personas", "", "YAML persona pack (default: built-in)")
	root.PersistentFlags().String("log-level", "info", "Log level: debug, info, warn, error")

	root.AddCommand(newPlayCmd(a))
	root.AddCommand(newSimulateCmd(a))
	root.AddCommand(newServeCmd(a))
	return root
}

// setup loads configuration from the environment, lets explicitly set flags
// override it and sets up logging.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	flags := cmd.Flags()
	envFile, _ := flags.GetString("env-file")
	if err := config.LoadDotEnv(envFile); err != nil {
		return err
	}

	if flags.Changed("provider") {
		v, _ := flags.GetString("provider")
		os.Setenv("WEREWOLF_PROVIDER", v)
	}
	// The key goes through the environment so it also selects the provider
	// when none is named.
	if flags.Changed("api-key") {
		key, _ := flags.GetString("api-key")
		os.Setenv(config.KeyEnv(os.Getenv("WEREWOLF_PROVIDER")), key)
	}
	cfg, err := config.Read()
	if err != nil {
		return err
	}

	if flags.Changed("model") {
		cfg.Model, _ = flags.GetString("model")
	}
	if flags.Changed("players") {
		cfg.Players, _ = flags.GetInt("players")
	}
	if flags.Changed("wolves") {
		cfg.Wolves, _ = flags.GetInt("wolves")
	}
	if flags.Changed("timeout") {
		cfg.StrategyTimeout, _ = flags.GetDuration("timeout")
	}
	if flags.Changed("output-dir") {
		cfg.OutputDir, _ = flags.GetString("output-dir")
	}
	if flags.Changed("personas") {
		cfg.PersonaFile, _ = flags.GetString("personas")
	}
	if flags.Changed("log-level") {
		cfg.LogLevel, _ = flags.GetString("log-level")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	lvl, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("config: invalid log level %q", cfg.LogLevel)
	}
	a.cfg = cfg
	a.log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		Level(lvl).
		With().Timestamp().Logger()
	return nil
}
