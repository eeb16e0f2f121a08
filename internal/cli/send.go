package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"unicode/utf8"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"keyremap/internal/config"
	"keyremap/internal/event"
	"keyremap/internal/spool"
)

const keySendSpool = "send.spool"

func newSendCommand(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "send",
		Short: "Append a signal to the spool read by a running instance",
		Long: `Writes one signal line to the spool file. A keyremap instance running
with source.kind=spool picks it up. Useful for binding keys in a window
manager or for testing shortcuts without a keyboard hook.`,
	}
	cmd.PersistentFlags().String("spool", "", "spool file (default: source.spool_path from config)")
	bindFlags(v, cmd.PersistentFlags(), map[string]string{keySendSpool: "spool"})

	cmd.AddCommand(&cobra.Command{
		Use:   "activation",
		Short: "Send the activation signal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return send(cmd, v, event.Activation())
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "trigger <char>",
		Short: "Send a trigger character",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if utf8.RuneCountInString(args[0]) != 1 {
				return fmt.Errorf("trigger %q must be exactly one character", args[0])
			}
			r, _ := utf8.DecodeRuneInString(args[0])
			return send(cmd, v, event.Trigger(r))
		},
	})
	return cmd
}

func send(cmd *cobra.Command, v *viper.Viper, ev event.RawEvent) error {
	path := v.GetString(keySendSpool)
	if path == "" {
		cfg, err := config.Read(v.GetString(keyConfig))
		switch {
		case errors.Is(err, fs.ErrNotExist):
			path = config.DefaultSpoolPath()
		case err != nil:
			return err
		default:
			path = cfg.Source.Spool()
		}
	}
	if err := spool.Append(path, ev); err != nil {
		return fmt.Errorf("send %s: %w", ev, err)
	}
	return nil
}
