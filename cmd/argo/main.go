package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-sweep/internal/config"
	"github.com/rxtech-lab/argo-sweep/internal/logger"
	"github.com/rxtech-lab/argo-sweep/internal/trading/broker"
	"github.com/rxtech-lab/argo-sweep/internal/version"
	"github.com/rxtech-lab/argo-sweep/pkg/marketdata/provider"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func configFlag(required bool) *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "config",
		Aliases:  []string{"c"},
		Usage:    "Path to the YAML configuration `FILE`",
		Required: required,
	}
}

func dateFlag(name string, usage string, value time.Time) *cli.TimestampFlag {
	return &cli.TimestampFlag{
		Name:     name,
		Usage:    usage,
		Value:    value,
		Required: value.IsZero(),
		Config: cli.TimestampConfig{
			Layouts: []string{config.DateLayout},
		},
	}
}

// ratio prints an optional ratio, "n/a" when absent.
func ratio(v optional.Option[float64]) string {
	if v.IsNone() {
		return "n/a"
	}

	return fmt.Sprintf("%.4f", v.Unwrap())
}

// newCommand builds the argo command tree over a.
func newCommand(a *app, stdout io.Writer) *cli.Command {
	return &cli.Command{
		Name:    "argo",
		Usage:   "Day-stepped strategy simulation, live hand-off and parameter sweeps",
		Version: version.GetVersion(),
		Commands: []*cli.Command{
			{
				Name:  "simulate",
				Usage: "Run one backtest and append it to the ledger",
				Flags: []cli.Flag{
					configFlag(true),
					&cli.StringSliceFlag{
						Name:  "set",
						Usage: "Override a parameter as `key=value`, repeatable",
					},
					&cli.StringFlag{
						Name:  "run-id",
						Usage: "Identifier attached to the run's log lines",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					overrides, err := config.ParseOverrides(cmd.StringSlice("set"))
					if err != nil {
						return err
					}

					result, err := a.simulate(ctx, cmd.String("config"), cmd.String("run-id"), overrides)
					if err != nil {
						return err
					}

					fmt.Fprintf(stdout, "%s -> %s: %.2f -> %.2f, TAE %s\n",
						result.Record.FechaInicio.Format(config.DateLayout),
						result.Record.FechaFin.Format(config.DateLayout),
						result.Record.DineroInicial,
						result.Record.DineroFinal,
						ratio(result.Record.Tae),
					)

					return nil
				},
			},
			{
				Name:  "live",
				Usage: "Run the backtest, then poll the live market until orders are placed or the cutoff passes",
				Flags: []cli.Flag{configFlag(true)},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					result, err := a.live(ctx, cmd.String("config"))
					if err != nil {
						return err
					}

					fmt.Fprintf(stdout, "%s: %s\n", result.State, result.Outcome.TakeOr("NONE"))

					return nil
				},
			},
			{
				Name:  "sweep",
				Usage: "Run or generate parameter sweeps",
				Commands: []*cli.Command{
					{
						Name:  "run",
						Usage: "Run every configuration of a sweep file in parallel",
						Flags: []cli.Flag{
							configFlag(true),
							&cli.StringFlag{
								Name:  "configs",
								Usage: "JSON or YAML list of override maps",
								Value: "config_tests.json",
							},
							&cli.IntFlag{
								Name:    "workers",
								Aliases: []string{"w"},
								Usage:   "Simulations in flight, defaults to sweep.workers of the config",
							},
							&cli.BoolFlag{
								Name:  "in-process",
								Usage: "Run simulations inside this process instead of one process each",
							},
						},
						Action: func(ctx context.Context, cmd *cli.Command) error {
							results, err := a.runSweep(ctx, sweepOptions{
								configPath:  cmd.String("config"),
								configsPath: cmd.String("configs"),
								workers:     int(cmd.Int("workers")),
								inProcess:   cmd.Bool("in-process"),
								binary:      "",
							})

							for _, result := range results {
								status := "ok"
								if result.Err != nil {
									status = result.Err.Error()
								}

								fmt.Fprintf(stdout, "%d\t%.2fs\t%s\n", result.Config.Index, result.DurationSeconds, status)
							}

							return err
						},
					},
					{
						Name:      "generate",
						Usage:     "Write the cartesian product of the given axes",
						ArgsUsage: "key=v1,v2 [key(v1,v2) ...]",
						Flags: []cli.Flag{
							configFlag(false),
							&cli.StringFlag{
								Name:    "out",
								Aliases: []string{"o"},
								Usage:   "Output file",
								Value:   "config_tests.json",
							},
						},
						Action: func(ctx context.Context, cmd *cli.Command) error {
							count, err := a.generateSweep(ctx, cmd.String("config"), cmd.String("out"), cmd.Args().Slice())
							if err != nil {
								return err
							}

							fmt.Fprintf(stdout, "%d configurations written to %s\n", count, cmd.String("out"))

							return nil
						},
					},
				},
			},
			{
				Name:  "summary",
				Usage: "Summarize the last runs of the ledger",
				Flags: []cli.Flag{
					configFlag(false),
					&cli.StringFlag{
						Name:  "ledger",
						Usage: "Ledger file, defaults to ledger_path of the config",
					},
					&cli.IntFlag{
						Name:    "last",
						Aliases: []string{"n"},
						Usage:   "Number of most recent runs to summarize",
						Value:   10,
					},
					&cli.BoolFlag{
						Name:  "charts",
						Usage: "Also render the TAE histogram and the return timeline",
					},
					&cli.StringFlag{
						Name:  "charts-dir",
						Usage: "Chart output directory, defaults to results_dir of the config",
					},
				},
				Action: func(_ context.Context, cmd *cli.Command) error {
					text, charts, err := a.summary(summaryOptions{
						configPath: cmd.String("config"),
						ledgerPath: cmd.String("ledger"),
						lastN:      int(cmd.Int("last")),
						charts:     cmd.Bool("charts"),
						chartsDir:  cmd.String("charts-dir"),
					})
					if err != nil {
						return err
					}

					fmt.Fprintln(stdout, text)

					for _, chart := range charts {
						fmt.Fprintln(stdout, chart)
					}

					return nil
				},
			},
			{
				Name:  "download",
				Usage: "Download daily bars into a parquet or csv file",
				Flags: []cli.Flag{
					configFlag(false),
					&cli.StringFlag{
						Name:    "provider",
						Aliases: []string{"p"},
						Usage:   fmt.Sprintf("Data provider (%s or %s)", provider.ProviderPolygon, provider.ProviderBinance),
						Value:   string(provider.ProviderPolygon),
					},
					&cli.StringSliceFlag{
						Name:    "symbols",
						Aliases: []string{"s"},
						Usage:   "Symbols to download, defaults to market.symbols of the config",
					},
					dateFlag("start", "First day in `YYYY-MM-DD` format", time.Time{}),
					dateFlag("end", "Last day in `YYYY-MM-DD` format, defaults to today", time.Now()),
					&cli.StringFlag{
						Name:    "out",
						Aliases: []string{"o"},
						Usage:   "Output file, defaults to market.data_path of the config",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					path, err := a.download(ctx, downloadOptions{
						configPath: cmd.String("config"),
						provider:   cmd.String("provider"),
						symbols:    cmd.StringSlice("symbols"),
						start:      cmd.Timestamp("start"),
						end:        cmd.Timestamp("end"),
						out:        cmd.String("out"),
					})
					if err != nil {
						return err
					}

					fmt.Fprintf(stdout, "Downloaded bars to %s\n", path)

					return nil
				},
			},
			{
				Name:  "config",
				Usage: "Configuration helpers",
				Commands: []*cli.Command{
					{
						Name:  "schema",
						Usage: "Print the JSON schema of the configuration file",
						Flags: []cli.Flag{
							&cli.StringFlag{
								Name:    "out",
								Aliases: []string{"o"},
								Usage:   "Write to a file instead of stdout",
							},
						},
						Action: func(_ context.Context, cmd *cli.Command) error {
							return writeSchema(cmd.String("out"))
						},
					},
					{
						Name:  "validate",
						Usage: "Load and validate a configuration file",
						Flags: []cli.Flag{configFlag(true)},
						Action: func(_ context.Context, cmd *cli.Command) error {
							if _, err := loadConfig(cmd.String("config"), nil); err != nil {
								return err
							}

							fmt.Fprintln(stdout, "configuration is valid")

							return nil
						},
					},
				},
			},
			{
				Name:  "brokers",
				Usage: "List the supported broker kinds",
				Action: func(_ context.Context, _ *cli.Command) error {
					infos := make([]broker.Info, 0)

					for _, kind := range broker.SupportedKinds() {
						info, err := broker.GetInfo(kind)
						if err != nil {
							return err
						}

						infos = append(infos, info)
					}

					out, err := json.MarshalIndent(infos, "", "  ")
					if err != nil {
						return err
					}

					fmt.Fprintln(stdout, string(out))

					return nil
				},
			},
			{
				Name:  "version",
				Usage: "Print the binary version",
				Action: func(_ context.Context, _ *cli.Command) error {
					fmt.Fprintln(stdout, version.GetVersion())

					return nil
				},
			},
		},
	}
}

func main() {
	level := zapcore.InfoLevel
	if os.Getenv("ARGO_DEBUG") != "" {
		level = zapcore.DebugLevel
	}

	log, err := logger.NewLoggerWithLevel(level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newCommand(newApp(log), os.Stdout).Run(ctx, os.Args); err != nil {
		log.Error("argo failed", zap.Error(err))
		stop()
		os.Exit(1)
	}
}
