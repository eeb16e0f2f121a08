package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"keyremap/internal/clipboard"
	"keyremap/internal/doctor"
	"keyremap/internal/hotkey/uiohook"
	"keyremap/internal/netclient"
)

const (
	keyDoctorTimeout  = "doctor.timeout"
	keyDoctorRetries  = "doctor.retries"
	keyDoctorInsecure = "doctor.insecure"
	keyDoctorHTTP2    = "doctor.http2"
)

func newDoctorCommand(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check runtime requirements and diagnose issues",
		Long: `Doctor checks that keyremap can run on this machine:

  - the config file loads
  - the activation target answers (http and https targets only)
  - a clipboard backend is available
  - the configured event source can start`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDoctor(cmd, v)
		},
	}
	f := cmd.Flags()
	f.Duration("timeout", netclient.DefaultTimeout, "timeout per probe request")
	f.Int("retries", 3, "probe attempts before the target is reported unreachable")
	f.Bool("insecure", false, "skip TLS certificate verification when probing")
	f.Bool("http2", true, "allow HTTP/2 when probing")
	bindFlags(v, f, map[string]string{
		keyDoctorTimeout:  "timeout",
		keyDoctorRetries:  "retries",
		keyDoctorInsecure: "insecure",
		keyDoctorHTTP2:    "http2",
	})
	return cmd
}

func runDoctor(cmd *cobra.Command, v *viper.Viper) error {
	httpClient, transport := netclient.New(netclient.Options{
		Timeout:     v.GetDuration(keyDoctorTimeout),
		EnableHTTP2: v.GetBool(keyDoctorHTTP2),
		VerifySSL:   !v.GetBool(keyDoctorInsecure),
	})
	defer transport.CloseIdleConnections()

	env := doctor.Env{
		Doer: httpClient,
		Retry: netclient.RetryOptions{
			MaxRetry:  v.GetInt(keyDoctorRetries),
			BaseDelay: 200 * time.Millisecond,
		},
		ClipboardSupported: clipboard.Supported,
		HookSupported:      uiohook.Supported,
	}
	report := doctor.Run(cmd.Context(), doctor.Checks(v.GetString(keyConfig), env))
	report.Render(cmd.OutOrStdout())
	if !report.OK() {
		return fmt.Errorf("requirements not met")
	}
	return nil
}
