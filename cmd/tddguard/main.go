package main

import (
	"context"
	"fmt"
	"io"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/unbound-force/tddguard/internal/config"
	"github.com/unbound-force/tddguard/internal/cycle"
	"github.com/unbound-force/tddguard/internal/guardian"
	"github.com/unbound-force/tddguard/internal/loader"
	"github.com/unbound-force/tddguard/internal/model"
	"github.com/unbound-force/tddguard/internal/report"
)

// logger is the application-wide structured logger (writes to stderr).
var logger = charmlog.NewWithOptions(os.Stderr, charmlog.Options{
	ReportTimestamp: false,
})

// Set by build flags.
var version = "dev"

func main() {
	root := &cobra.Command{
		Use:   "tddguard",
		Short: "tddguard: test generation and TDD-cycle enforcement",
		Long: `tddguard analyzes source units, synthesizes multi-strategy test
suites (normal, edge, property, mutation), detects violations of
test-first discipline, and tracks Red-Green-Blue cycles.`,
		Version: version,
	}

	root.AddCommand(newGuardCmd())
	root.AddCommand(newSchemaCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// guardParams holds the parsed flags for the guard command.
type guardParams struct {
	pkgPath     string
	format      string
	configPath  string
	mode        string
	intensity   float64
	workers     int
	interactive bool
	stdout      io.Writer
	stderr      io.Writer
}

// runGuard is the extracted, testable body of the guard command.
func runGuard(p guardParams) error {
	if p.format != "text" && p.format != "json" {
		return fmt.Errorf("invalid format %q: must be 'text' or 'json'", p.format)
	}

	cfg, err := config.Load(p.configPath)
	if err != nil {
		return err
	}
	if err := cfg.Override(p.mode, p.intensity, p.workers); err != nil {
		return err
	}

	logger.Info("loading package", "pkg", p.pkgPath)
	loaded, err := loader.Load(p.pkgPath)
	if err != nil {
		return err
	}
	if len(loaded.Units) == 0 {
		logger.Warn("no source files found to guard")
		return nil
	}

	eng := guardian.New(guardian.Config{
		Mode:                       cfg.Generation.Mode,
		Intensity:                  cfg.Generation.Intensity,
		Workers:                    cfg.Generation.Workers,
		CoverageTarget:             cfg.Thresholds.CoverageTarget,
		AssertionStrengthThreshold: cfg.Thresholds.AssertionStrength,
	}, cycle.NewMemoryStore())

	var results []model.GuardianResult
	for _, unit := range loaded.Units {
		res, err := eng.Run(context.Background(), unit, loaded.Metadata)
		if err != nil {
			// Analysis failures are fatal per unit, not per run.
			logger.Error("analysis failed", "unit", unit.ID, "err", err)
			continue
		}
		results = append(results, *res)
	}
	if len(results) == 0 {
		return fmt.Errorf("no unit in %q could be analyzed", p.pkgPath)
	}

	tests, violations := 0, 0
	for _, r := range results {
		tests += len(r.Suite)
		violations += len(r.Violations)
	}
	logger.Info("guard complete",
		"units", len(results), "tests", tests, "violations", violations)

	if p.interactive {
		return runInteractiveGuard(results)
	}

	switch p.format {
	case "json":
		return report.WriteJSON(p.stdout, results, guardian.Version)
	default:
		return report.WriteText(p.stdout, results)
	}
}

func newGuardCmd() *cobra.Command {
	var (
		format      string
		configPath  string
		mode        string
		intensity   float64
		workers     int
		interactive bool
	)

	cmd := &cobra.Command{
		Use:   "guard [package]",
		Short: "Generate tests and detect TDD violations for a package",
		Long: `Guard a Go package: analyze each source file, synthesize a
multi-strategy test suite, and report test-first discipline
violations and suite quality.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGuard(guardParams{
				pkgPath:     args[0],
				format:      format,
				configPath:  configPath,
				mode:        mode,
				intensity:   intensity,
				workers:     workers,
				interactive: interactive,
				stdout:      os.Stdout,
				stderr:      os.Stderr,
			})
		},
	}

	cmd.Flags().StringVar(&format, "format", "text",
		"output format: text or json")
	cmd.Flags().StringVar(&configPath, "config", "",
		"path to .tddguard.yaml (default: built-in defaults)")
	cmd.Flags().StringVar(&mode, "mode", "",
		"generation mode: minimal, standard, or comprehensive")
	cmd.Flags().Float64Var(&intensity, "intensity", -1,
		"generation intensity in [0,1] (-1 = use config)")
	cmd.Flags().IntVar(&workers, "workers", 0,
		"generation worker limit (0 = use config)")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false,
		"launch interactive TUI for browsing results")

	return cmd
}

func newSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON Schema for tddguard guard output",
		Long: `Print the JSON Schema (Draft 2020-12) that documents the
structure of tddguard guard --format=json output. Useful for
validating output or generating client types.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), report.Schema)
			return err
		},
	}
}
