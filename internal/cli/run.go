package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"keyremap/internal/action"
	"keyremap/internal/app"
	"keyremap/internal/config"
	"keyremap/internal/logging"
)

func newRunCommand(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Start watching the keyboard (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDaemon(cmd, v)
		},
	}
}

func runDaemon(cmd *cobra.Command, v *viper.Viper) error {
	cfg, err := config.Load(v.GetString(keyConfig))
	if err != nil {
		return err
	}
	sources, err := app.BuildSources(cfg)
	if err != nil {
		return fmt.Errorf("event source: %w", err)
	}
	a, err := app.New(cfg, action.NewSystem(), sources...)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log := logging.FromContext(ctx)
	log.Info().
		Str("source", cfg.Source.EffectiveKind()).
		Int("shortcuts", len(cfg.Shortcuts)).
		Str("target", cfg.ActivationTarget).
		Msg("starting")

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "[main] ready. Press the activation key or a trigger. Ctrl+C to exit.")
	runErr := a.Run(ctx)
	fmt.Fprintln(out, "[main] stopped")
	return runErr
}
