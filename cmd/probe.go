package main

import (
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v2"
	"github.com/xinsproject/servicecall/caller"
	"github.com/xinsproject/servicecall/caller/metrics"
	"github.com/xinsproject/servicecall/log"
	"github.com/xinsproject/servicecall/probe"
	"github.com/xinsproject/servicecall/prometheus"
)

func runProbe(cliCtx *cli.Context) error {
	cfg, err := loadConfig(cliCtx)
	if err != nil {
		return cli.Exit(err, 1)
	}
	descriptors, err := cfg.Descriptors.Build()
	if err != nil {
		return cli.Exit(err, 1)
	}
	name := cliCtx.String(flagDescriptor)
	d, ok := descriptors[name]
	if !ok {
		return cli.Exit(fmt.Sprintf("descriptor %s is not one of the configured roots %v", name, cfg.Descriptors.Roots), 1)
	}

	opts := []caller.Option{caller.WithLogger(log.WithFields("module", "caller", "descriptor", name))}
	if cfg.Prometheus.Enabled {
		prometheus.Init()
		metrics.Register()
		opts = append(opts, caller.WithObserver(metrics.New(name)))
	}
	callJournal, err := openJournal(cliCtx.Context, cfg.Journal, descriptors)
	if err != nil {
		return cli.Exit(err, 1)
	}
	if callJournal != nil {
		defer callJournal.Close()
		opts = append(opts, caller.WithObserver(callJournal.Observer(name)))
	}

	sc, err := caller.NewServiceCaller(d, probe.New(cfg.Probe, nil), opts...)
	if err != nil {
		return cli.Exit(err, 1)
	}
	calls := cliCtx.Int(flagCalls)
	if calls <= 0 {
		calls = cfg.Probe.Attempts
	}
	reports, err := probe.Run(cliCtx.Context, sc, calls, cfg.Caller.Retry, cfg.Probe)
	if err != nil {
		return cli.Exit(err, 1)
	}
	if failed := printReports(os.Stdout, sc, reports); failed > 0 {
		return cli.Exit(fmt.Sprintf("%d of %d calls failed", failed, len(reports)), 1)
	}
	return nil
}

// printReports returns the number of failed calls
func printReports(w io.Writer, sc *caller.ServiceCaller, reports []probe.Report) int {
	failed := 0
	for _, r := range reports {
		if r.Err != nil {
			failed++
			fmt.Fprintf(w, "call %d: FAILED %v\n", r.Call, r.Err)
			continue
		}
		fmt.Fprintf(w, "call %d: %s answered (%s)\n", r.Call, r.Result.SucceededTarget.URL(), r.Result.Result)
		for i, target := range r.Result.FailedTargets {
			fmt.Fprintf(w, "  skipped %s: %s\n", target.URL(), sc.ReasonFor(r.Result.Failures[i]))
		}
	}
	return failed
}
