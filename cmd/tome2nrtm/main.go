// Command tome2nrtm converts a TOME tournament export into the
// JSON format of the NRTM tournament reporting app.
package main

import (
	"errors"
	"io"
	"log/slog"
	"os"

	"github.com/gereons/tome2nrtm/internal/config"
	"github.com/gereons/tome2nrtm/internal/input"
	"github.com/gereons/tome2nrtm/internal/report"
	"github.com/gereons/tome2nrtm/nrtm"
	"github.com/gereons/tome2nrtm/tome"
	"github.com/spf13/cobra"
)

var errUsage = errors.New("usage: tome2nrtm inputfile")

type options struct {
	output  string
	compact bool
	report  bool
}

func newRootCommand() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "tome2nrtm inputfile",
		Short: "Convert a TOME tournament export to NRTM json",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errUsage
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("compact") {
				cfg.Compact = opts.compact
			}

			logger := newLogger(cmd.ErrOrStderr(), cfg.LogLevel)

			var reportWriter io.Writer
			if opts.report {
				reportWriter = cmd.ErrOrStderr()
			}

			data, err := convert(args[0], cfg, logger, reportWriter)
			if err != nil {
				return err
			}

			if opts.output != "" {
				logger.Debug("writing output", slog.String("path", opts.output))
				return os.WriteFile(opts.output, data, 0o644)
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write the json to this file instead of stdout")
	cmd.Flags().BoolVar(&opts.compact, "compact", false, "write compact json")
	cmd.Flags().BoolVar(&opts.report, "report", false, "print the rounds and rankings to stderr")

	return cmd
}

func newLogger(w io.Writer, level slog.Leveler) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// Runs the whole conversion and returns the encoded document.
// Nothing is returned unless every stage succeeded.
func convert(path string, cfg *config.Config, logger *slog.Logger, reportWriter io.Writer) ([]byte, error) {
	data, err := input.ReadExport(path)
	if err != nil {
		return nil, err
	}

	export, err := tome.Decode(data)
	if err != nil {
		return nil, err
	}
	logger.Debug(
		"decoded export",
		slog.Int("tournaments", len(export.Tournaments)),
		slog.Int("participants", len(export.Participants)),
		slog.Int("matches", len(export.Matches)),
	)

	if reportWriter != nil {
		for _, t := range export.Tournaments {
			if err := report.Write(reportWriter, t); err != nil {
				return nil, err
			}
		}
	}

	tournament, err := nrtm.Create(export)
	if err != nil {
		return nil, err
	}
	logger.Debug(
		"ranked tournament",
		slog.String("name", tournament.Name),
		slog.Int("players", len(tournament.Players)),
		slog.Int("eliminationPlayers", len(tournament.EliminationPlayers)),
		slog.Int("rounds", len(tournament.Rounds)),
	)

	encoded, err := nrtm.Encode(tournament, cfg.OutputIndent())
	if err != nil {
		return nil, err
	}
	return append(encoded, '\n'), nil
}

// Executes the command and returns the exit status. A failure
// is logged at error level.
func run(args []string, stdout, stderr io.Writer) int {
	cmd := newRootCommand()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	if err := cmd.Execute(); err != nil {
		var level slog.Leveler = slog.LevelWarn
		if cfg, cfgErr := config.Load(); cfgErr == nil {
			level = cfg.LogLevel
		}
		newLogger(stderr, level).Error("conversion failed", slog.Any("error", err))
		return 1
	}
	return 0
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}
