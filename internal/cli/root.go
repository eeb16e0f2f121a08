// Package cli provides the cobra commands of the keyremap binary.
package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"keyremap/internal/logging"
)

const envPrefix = "KEYREMAP"

const (
	keyConfig    = "config"
	keyLogLevel  = "log-level"
	keyLogFormat = "log-format"
)

// NewRootCommand builds the command tree. Settings resolve flag > env > default
// through v.
func NewRootCommand(v *viper.Viper) *cobra.Command {
	root := &cobra.Command{
		Use:   "keyremap",
		Short: "Open a page on the activation key and expand shortcut triggers into text",
		Long: `keyremap watches the keyboard for two kinds of events:

  - the activation key opens the configured target (a URL by default)
  - a trigger character types the text bound to it into the focused input

Running keyremap without a subcommand is the same as 'keyremap run'.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			logCfg, err := logging.ParseConfig(v.GetString(keyLogLevel), v.GetString(keyLogFormat))
			if err != nil {
				return err
			}
			logCfg.Out = cmd.ErrOrStderr()
			cmd.SetContext(logging.WithContext(cmd.Context(), logging.New(logCfg)))
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDaemon(cmd, v)
		},
	}

	pf := root.PersistentFlags()
	pf.String(keyConfig, "", "path to config.json (default: user config dir)")
	pf.String(keyLogLevel, "info", "log level (trace, debug, info, warn, error)")
	pf.String(keyLogFormat, logging.FormatConsole, "log format (console or json)")
	bindFlags(v, pf, map[string]string{
		keyConfig:    keyConfig,
		keyLogLevel:  keyLogLevel,
		keyLogFormat: keyLogFormat,
	})

	root.AddCommand(
		newRunCommand(v),
		newConfigCommand(v),
		newSendCommand(v),
		newDoctorCommand(v),
	)
	return root
}

// bindFlags binds each flag name to its viper key.
func bindFlags(v *viper.Viper, fs *pflag.FlagSet, keys map[string]string) {
	for key, name := range keys {
		if f := fs.Lookup(name); f != nil {
			_ = v.BindPFlag(key, f)
		}
	}
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()
	return v
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := NewRootCommand(newViper()).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "[main] %v\n", err)
		os.Exit(1)
	}
}
