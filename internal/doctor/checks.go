package doctor

import (
	"context"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"keyremap/internal/config"
	"keyremap/internal/netclient"
)

// Env holds the probes the checks depend on, so tests can replace them.
type Env struct {
	Doer               netclient.Doer
	Retry              netclient.RetryOptions
	ClipboardSupported func() bool
	HookSupported      bool
	LookPath           func(string) (string, error)
}

// Checks returns the standard check list for the config at path. The config
// is loaded once; checks that need it fail when it cannot be loaded.
func Checks(path string, env Env) []Check {
	if env.LookPath == nil {
		env.LookPath = exec.LookPath
	}
	cfg, loadErr := config.Load(path)
	return []Check{
		{Name: "config", Run: func(context.Context) Result { return checkConfig(path, cfg, loadErr) }},
		{Name: "activation-target", Run: func(ctx context.Context) Result {
			if loadErr != nil {
				return skip("config not loaded")
			}
			return checkTarget(ctx, cfg.ActivationTarget, env)
		}},
		{Name: "clipboard", Run: func(context.Context) Result { return checkClipboard(env) }},
		{Name: "event-source", Run: func(context.Context) Result {
			if loadErr != nil {
				return skip("config not loaded")
			}
			return checkSource(cfg.Source, env)
		}},
	}
}

func checkConfig(path string, cfg config.Config, err error) Result {
	if err != nil {
		return fail("%v", err)
	}
	if path == "" {
		path, _ = config.DefaultPath()
	}
	if dups := cfg.DuplicateTriggers(); len(dups) > 0 {
		names := make([]string, len(dups))
		for i, d := range dups {
			names[i] = string(d)
		}
		return warn("%s: %d shortcuts, duplicate triggers %s (first wins)", path, len(cfg.Shortcuts), strings.Join(names, ","))
	}
	return ok("%s: %d shortcuts", path, len(cfg.Shortcuts))
}

func checkTarget(ctx context.Context, target string, env Env) Result {
	u, err := url.Parse(target)
	if err != nil {
		return fail("invalid target %q: %v", target, err)
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
	case "":
		return fail("target %q has no scheme", target)
	default:
		return skip("%s: scheme %s is not probed", target, u.Scheme)
	}
	if env.Doer == nil {
		return skip("%s: no http client", target)
	}
	res, err := netclient.Probe(ctx, env.Doer, target, env.Retry)
	if err != nil {
		return fail("%v", err)
	}
	return ok("%s answered %d after %d attempt(s)", target, res.StatusCode, res.Attempts)
}

func checkClipboard(env Env) Result {
	if env.ClipboardSupported == nil {
		return skip("no clipboard probe")
	}
	if !env.ClipboardSupported() {
		return fail("no clipboard backend found (install xclip, xsel or wl-clipboard)")
	}
	return ok("clipboard backend available")
}

func checkSource(src config.Source, env Env) Result {
	switch src.EffectiveKind() {
	case config.SourceHook:
		if !env.HookSupported {
			return fail("keyboard hook not built in (rebuild with cgo) or use source.kind=spool")
		}
		return ok("keyboard hook (activation %s, leader %s)", src.Activation(), src.Leader())
	case config.SourceSpool:
		return checkSpoolDir(src.Spool())
	case config.SourceAppleScript:
		if r := checkSpoolDir(src.Spool()); r.Status == StatusFail {
			return r
		}
		p, err := env.LookPath("osascript")
		if err != nil {
			return fail("osascript not found: %v", err)
		}
		return ok("applescript monitor via %s", p)
	default:
		return fail("unknown source kind %q", src.Kind)
	}
}

func checkSpoolDir(path string) Result {
	dir := filepath.Dir(path)
	f, err := os.CreateTemp(dir, ".keyremap-doctor-*")
	if err != nil {
		return fail("spool dir %s not writable: %v", dir, err)
	}
	name := f.Name()
	_ = f.Close()
	_ = os.Remove(name)
	return ok("spool %s", path)
}
