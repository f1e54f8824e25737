// OmniScribe end-to-end runner: drives the deployed app through a headless
// browser and reports scenario pass/fail with the captured diagnostics.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Josephaswisher/omniscribe/internal/config"
	"github.com/Josephaswisher/omniscribe/internal/fixture"
	"github.com/Josephaswisher/omniscribe/internal/obs"
	"github.com/Josephaswisher/omniscribe/internal/scenario"
	"github.com/Josephaswisher/omniscribe/internal/suite"
)

func main() {
	os.Exit(run())
}

func run() int {
	var flags config.Flags
	flag.StringVar(&flags.ConfigPath, "config", "", "Path to YAML config file")
	flag.StringVar(&flags.BaseURL, "base-url", "", "Target deployment base URL (overrides E2E_BASE_URL)")
	flag.BoolVar(&flags.Headed, "headed", false, "Run the browser with a visible window")
	flag.StringVar(&flags.ArtifactDir, "artifacts", "", "Directory for screenshots (default system temp dir)")
	flag.StringVar(&flags.Scenarios, "scenario", "", "Comma-separated scenario names (default all)")
	flag.IntVar(&flags.Parallel, "parallel", 0, "Max scenarios running concurrently (default 1)")
	flag.BoolVar(&flags.Fixture, "fixture", false, "Run against a local in-process fixture app instead of a deployment")
	flag.Parse()

	obs.Init()
	log := obs.Pkg("main")

	cfg, err := config.LoadConfig(flags)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	if cfg.Fixture {
		baseURL, shutdown, err := fixture.Start("127.0.0.1:0")
		if err != nil {
			log.Error("fixture server failed to start", "error", err)
			return 2
		}
		defer shutdown()
		cfg.BaseURL = baseURL
		log.Info("fixture app started", "base_url", baseURL)
	}

	scenarios, err := suite.Select(cfg, cfg.Scenarios)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("run starting",
		"base_url", cfg.BaseURL,
		"scenarios", len(scenarios),
		"parallel", cfg.Parallel,
		"artifacts", cfg.ArtifactDir,
	)

	runner := scenario.NewRunner()
	results := runner.RunAll(ctx, scenarios, cfg.Parallel)

	report := &scenario.Report{Results: results}
	report.Print(os.Stdout)
	return report.ExitCode()
}
