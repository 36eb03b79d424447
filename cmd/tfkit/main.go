// tfkit - static analysis for Terraform configurations
//
// Usage:
//   tfkit scan ./infra [--format json|sarif] [--strict] [--ignore TF013]
//   tfkit validate ./infra --fail-on-warning
//   tfkit graph ./infra --format dot
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/vk/tfkit/internal/config"
	"github.com/vk/tfkit/internal/ctxlog"
	"github.com/vk/tfkit/internal/model"
	"github.com/vk/tfkit/internal/report"
	"github.com/vk/tfkit/internal/scan"
	"github.com/vk/tfkit/internal/validator"
)

var (
	version = "dev"
	commit  = "none"
)

func main() {
	app := &cli.App{
		Name:    "tfkit",
		Usage:   "static analysis for Terraform configurations",
		Version: fmt.Sprintf("%s (commit: %s)", version, commit),

		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "warn",
				Usage:   "log level (debug, info, warn, error)",
				EnvVars: []string{"TFKIT_LOG_LEVEL"},
			},
			&cli.StringFlag{
				Name:    "log-format",
				Value:   "text",
				Usage:   "log format (text, json)",
				EnvVars: []string{"TFKIT_LOG_FORMAT"},
			},
		},

		Commands: []*cli.Command{
			scanCommand(),
			validateCommand(),
			graphCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		if _, ok := err.(cli.ExitCoder); !ok {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		cli.HandleExitCoder(err)
	}
}

func scanCommand() *cli.Command {
	return &cli.Command{
		Name:      "scan",
		Usage:     "full analysis: issues, health summary and score",
		ArgsUsage: "[paths...]",
		Flags: append(analysisFlags(),
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Value:   "text",
				Usage:   "output format (text, json, sarif)",
			},
		),
		Action: func(c *cli.Context) error {
			res, opts, err := runScan(c)
			if err != nil {
				return err
			}
			switch c.String("format") {
			case "text":
				printIssues(c.App.Writer, res.Issues)
				printHealth(c.App.Writer, res.Health)
			case "json":
				if err := writeJSON(c.App.Writer, scanOutput(res)); err != nil {
					return err
				}
			case "sarif":
				log := report.Sarif(version, res.Issues, validator.NewRegistry().Rules())
				if err := writeJSON(c.App.Writer, log); err != nil {
					return err
				}
			default:
				return cli.Exit(fmt.Sprintf("unknown format %q", c.String("format")), 2)
			}
			if res.Failed(opts) {
				return cli.Exit("", 1)
			}
			return nil
		},
	}
}

func validateCommand() *cli.Command {
	return &cli.Command{
		Name:      "validate",
		Usage:     "run validation rules and report issues",
		ArgsUsage: "[paths...]",
		Flags: append(analysisFlags(),
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Value:   "text",
				Usage:   "output format (text, json)",
			},
		),
		Action: func(c *cli.Context) error {
			res, opts, err := runScan(c)
			if err != nil {
				return err
			}
			switch c.String("format") {
			case "text":
				printIssues(c.App.Writer, res.Issues)
				fmt.Fprintf(c.App.Writer, "\n%d error(s), %d warning(s), %d info(s), %d ignored\n",
					res.Errors, res.Warnings, res.Infos, res.Ignored)
			case "json":
				if err := writeJSON(c.App.Writer, res.Issues); err != nil {
					return err
				}
			default:
				return cli.Exit(fmt.Sprintf("unknown format %q", c.String("format")), 2)
			}
			if res.Failed(opts) {
				return cli.Exit("", 1)
			}
			return nil
		},
	}
}

func graphCommand() *cli.Command {
	return &cli.Command{
		Name:      "graph",
		Usage:     "export the dependency graph",
		ArgsUsage: "[paths...]",
		Flags: append(analysisFlags(),
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Value:   "json",
				Usage:   "output format (json, dot)",
			},
		),
		Action: func(c *cli.Context) error {
			res, _, err := runScan(c)
			if err != nil {
				return err
			}
			switch c.String("format") {
			case "json":
				return writeJSON(c.App.Writer, res.Snapshot)
			case "dot":
				fmt.Fprint(c.App.Writer, report.Dot(res.Graph))
				return nil
			default:
				return cli.Exit(fmt.Sprintf("unknown format %q", c.String("format")), 2)
			}
		},
	}
}

func analysisFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:  "strict",
			Usage: "escalate selected warnings to errors",
		},
		&cli.StringSliceFlag{
			Name:  "ignore",
			Usage: "rule ids to filter from the output (repeatable)",
		},
		&cli.BoolFlag{
			Name:  "fail-on-warning",
			Usage: "exit non-zero when warnings remain",
		},
		&cli.StringSliceFlag{
			Name:  "category",
			Usage: "rule categories to run (default: all)",
		},
		&cli.IntFlag{
			Name:  "workers",
			Value: 4,
			Usage: "rule evaluation concurrency",
		},
	}
}

func runScan(c *cli.Context) (*scan.Result, config.Options, error) {
	paths := c.Args().Slice()
	if len(paths) == 0 {
		paths = []string{"."}
	}

	opts := config.Default()
	opts.Strict = c.Bool("strict")
	opts.FailOnWarning = c.Bool("fail-on-warning")
	opts.RuleWorkers = c.Int("workers")
	for _, id := range c.StringSlice("ignore") {
		opts.IgnoreRules[id] = true
	}
	for _, cat := range c.StringSlice("category") {
		opts.EnabledCategories[model.Category(cat)] = true
	}

	scanner, err := scan.New(opts)
	if err != nil {
		return nil, opts, cli.Exit(err.Error(), 2)
	}

	logger := newLogger(c.String("log-level"), c.String("log-format"), os.Stderr)
	ctx := ctxlog.WithLogger(context.Background(), logger)

	res, err := scanner.Scan(ctx, paths...)
	if err != nil {
		return nil, opts, err
	}
	return res, opts, nil
}

// newLogger builds an isolated logger; the global default is never touched.
func newLogger(levelStr, formatStr string, outW io.Writer) *slog.Logger {
	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelWarn
	}

	handlerOpts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if formatStr == "json" {
		handler = slog.NewJSONHandler(outW, handlerOpts)
	} else {
		handler = slog.NewTextHandler(outW, handlerOpts)
	}
	return slog.New(handler)
}

type scanJSON struct {
	ScanID string          `json:"scan_id"`
	Issues []model.Issue   `json:"issues"`
	Health report.Health   `json:"health"`
	Graph  report.Snapshot `json:"graph"`
}

func scanOutput(res *scan.Result) scanJSON {
	return scanJSON{
		ScanID: res.ScanID,
		Issues: res.Issues,
		Health: res.Health,
		Graph:  res.Snapshot,
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printIssues(w io.Writer, issues []model.Issue) {
	if len(issues) == 0 {
		fmt.Fprintln(w, "No issues found.")
		return
	}
	for _, issue := range issues {
		fmt.Fprintf(w, "%s:%d [%s/%s] %s", issue.File, issue.Line, issue.Severity, issue.RuleID, issue.Message)
		if issue.Resource != "" {
			fmt.Fprintf(w, " (%s)", issue.Resource)
		}
		fmt.Fprintln(w)
		if issue.Suggestion != "" {
			fmt.Fprintf(w, "    hint: %s\n", issue.Suggestion)
		}
	}
}

func printHealth(w io.Writer, h report.Health) {
	fmt.Fprintf(w, "\nObjects: %d (%d resources, %d data sources, %d modules)\n",
		h.TotalObjects, h.Resources, h.DataSources, h.Modules)
	fmt.Fprintf(w, "Variables: %d/%d used   Outputs: %d/%d connected\n",
		h.Variables.Used, h.Variables.Total, h.Outputs.Total-h.Outputs.Orphaned, h.Outputs.Total)
	fmt.Fprintf(w, "Unused: %d   Orphaned: %d   Incomplete: %d   Cycles: %d\n",
		h.UnusedCount, h.OrphanedCount, h.IncompleteCount, len(h.Cycles))
	fmt.Fprintf(w, "Health score: %d/100\n", h.Score)
}
