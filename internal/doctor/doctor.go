// Package doctor checks that the prerequisites for running keyremap are in
// place: a loadable config, a reachable activation target, a clipboard
// backend and a usable event source.
package doctor

import (
	"context"
	"fmt"
	"io"
	"strings"

	"golang.org/x/sync/errgroup"
)

type Status string

const (
	StatusOK   Status = "ok"
	StatusWarn Status = "warn"
	StatusFail Status = "fail"
	StatusSkip Status = "skip"
)

type Result struct {
	Name   string
	Status Status
	Detail string
}

type Check struct {
	Name string
	Run  func(ctx context.Context) Result
}

type Report struct {
	Results []Result
}

// OK reports whether no check failed. Warnings and skips do not count.
func (r Report) OK() bool {
	for _, res := range r.Results {
		if res.Status == StatusFail {
			return false
		}
	}
	return true
}

func (r Report) Render(w io.Writer) {
	width := 0
	for _, res := range r.Results {
		width = max(width, len(res.Name))
	}
	for _, res := range r.Results {
		fmt.Fprintf(w, "[%-4s] %-*s  %s\n", res.Status, width, res.Name, res.Detail)
	}
	if r.OK() {
		fmt.Fprintln(w, "all checks passed")
	} else {
		fmt.Fprintln(w, "some checks failed")
	}
}

// Run executes the checks concurrently. Results keep the order of checks.
// A panicking check is reported as failed.
func Run(ctx context.Context, checks []Check) Report {
	results := make([]Result, len(checks))
	g, gctx := errgroup.WithContext(ctx)
	for i, c := range checks {
		g.Go(func() error {
			results[i] = runOne(gctx, c)
			return nil
		})
	}
	_ = g.Wait()
	return Report{Results: results}
}

func runOne(ctx context.Context, c Check) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			res = Result{Status: StatusFail, Detail: fmt.Sprintf("check panicked: %v", r)}
		}
		res.Name = c.Name
	}()
	res = c.Run(ctx)
	if strings.TrimSpace(string(res.Status)) == "" {
		res.Status = StatusFail
		if res.Detail == "" {
			res.Detail = "check reported no status"
		}
	}
	return res
}

func ok(format string, args ...any) Result {
	return Result{Status: StatusOK, Detail: fmt.Sprintf(format, args...)}
}

func warn(format string, args ...any) Result {
	return Result{Status: StatusWarn, Detail: fmt.Sprintf(format, args...)}
}

func fail(format string, args ...any) Result {
	return Result{Status: StatusFail, Detail: fmt.Sprintf(format, args...)}
}

func skip(format string, args ...any) Result {
	return Result{Status: StatusSkip, Detail: fmt.Sprintf(format, args...)}
}
