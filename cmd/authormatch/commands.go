package main

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/helixir/author-match/internal/config"
	"github.com/helixir/author-match/internal/dedup"
	"github.com/helixir/author-match/internal/names"
	"github.com/helixir/author-match/internal/observability"
)

// newRootCommand creates the root command with all subcommands.
func newRootCommand() *cobra.Command {
	v := viper.New()

	root := &cobra.Command{
		Use:     "authormatch",
		Short:   "Match two author lists",
		Version: version,
		Long: `authormatch resolves two author lists into the pairs that refer to the
same person and the records unique to either list.

Configuration is read from config.yaml (., ./config, /etc/author-match),
AUTHORMATCH_* environment variables and command line flags, in increasing
order of precedence.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().String("log-level", "", "log level: trace, debug, info, warn, error")
	root.PersistentFlags().String("log-format", "", "log format: json, console")
	mustBind(v, "logging.level", root.PersistentFlags().Lookup("log-level"))
	mustBind(v, "logging.format", root.PersistentFlags().Lookup("log-format"))

	root.AddCommand(
		newMatchCommand(v),
		newDistanceCommand(v),
		newNormalizersCommand(),
	)
	return root
}

func newMatchCommand(v *viper.Viper) *cobra.Command {
	var leftPath, rightPath string

	cmd := &cobra.Command{
		Use:   "match",
		Short: "Partition two author lists into common and unique records",
		Long: `Reads two JSON arrays of author records and prints the match partition.

Each record is an object with a required "full_name" and optional "ids"
and "affiliations" fields. Use "-" to read one of the lists from stdin.`,
		Example: `  authormatch match --left a.json --right b.json --threshold 0.4
  authormatch match --left a.json --right - --normalizers last_name,full_name < b.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runMatch(cmd, v, leftPath, rightPath)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&leftPath, "left", "", "path to the left author list (required)")
	flags.StringVar(&rightPath, "right", "", "path to the right author list (required)")
	flags.Float64("threshold", 0, "largest distance accepted as a match")
	flags.StringSlice("normalizers", nil, "ordered normalization cascade")
	flags.Int("workers", 0, "components resolved concurrently (0 uses GOMAXPROCS)")
	flags.String("distance", "", "distance function: name, ground_truth")
	flags.String("metrics-out", "", "write Prometheus text metrics to this file")
	_ = cmd.MarkFlagRequired("left")
	_ = cmd.MarkFlagRequired("right")

	mustBind(v, "matching.threshold", flags.Lookup("threshold"))
	mustBind(v, "matching.normalizers", flags.Lookup("normalizers"))
	mustBind(v, "matching.workers", flags.Lookup("workers"))
	mustBind(v, "matching.distance", flags.Lookup("distance"))
	mustBind(v, "metrics.output_path", flags.Lookup("metrics-out"))

	return cmd
}

func runMatch(cmd *cobra.Command, v *viper.Viper, leftPath, rightPath string) error {
	if cmd.Flags().Changed("metrics-out") {
		v.Set("metrics.enabled", true)
	}

	cfg, err := config.LoadWith(v)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := newLogger(cmd, cfg)

	if leftPath == "-" && rightPath == "-" {
		return fmt.Errorf("only one of --left and --right can read from stdin")
	}
	left, err := loadRecords(cmd.InOrStdin(), leftPath)
	if err != nil {
		return fmt.Errorf("load left list: %w", err)
	}
	right, err := loadRecords(cmd.InOrStdin(), rightPath)
	if err != nil {
		return fmt.Errorf("load right list: %w", err)
	}

	var (
		registry *prometheus.Registry
		metrics  *observability.Metrics
	)
	if cfg.Metrics.Enabled {
		registry = prometheus.NewRegistry()
		metrics = observability.NewMetrics(cfg.Metrics.Namespace, registry)
	}

	matcher, err := newMatcher(cfg, logger, metrics)
	if err != nil {
		return err
	}

	runID := uuid.NewString()
	ctx := observability.WithRunID(cmd.Context(), runID)

	part, err := matcher.Match(ctx, left, right)
	if err != nil {
		return fmt.Errorf("match: %w", err)
	}

	logger.Info().
		Str("run_id", runID).
		Int("common", len(part.Common)).
		Int("left_only", len(part.LeftOnly)).
		Int("right_only", len(part.RightOnly)).
		Interface("by_stage", part.CountByStage()).
		Msg("match completed")

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(part); err != nil {
		return fmt.Errorf("write partition: %w", err)
	}

	if registry != nil && cfg.Metrics.OutputPath != "" {
		if err := prometheus.WriteToTextfile(cfg.Metrics.OutputPath, registry); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
	}

	return nil
}

func newDistanceCommand(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:     "distance NAME NAME",
		Short:   "Print the name distance between two author names",
		Example: `  authormatch distance "Albert Einstein" "A. Einstein"`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadWith(v)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if cfg.Matching.Distance != config.DistanceName {
				return fmt.Errorf("distance %q needs identifiers; only %q compares bare names",
					cfg.Matching.Distance, config.DistanceName)
			}
			logger := newLogger(cmd, cfg)

			parser, err := names.NewParser(cfg.Matching.ParseCacheSize, nil)
			if err != nil {
				return err
			}
			d, err := dedup.NewNameDistance(parser).Between(args[0], args[1])
			if err != nil {
				return err
			}
			logger.Debug().
				Stringer("left", parser.Parse(args[0])).
				Stringer("right", parser.Parse(args[1])).
				Float64("distance", d).
				Msg("distance computed")

			_, err = fmt.Fprintln(cmd.OutOrStdout(), strconv.FormatFloat(d, 'f', -1, 64))
			return err
		},
	}
}

func newNormalizersCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "normalizers",
		Short: "List the available normalizers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			for _, name := range dedup.NewNormalizerRegistry(nil).Names() {
				if _, err := fmt.Fprintln(cmd.OutOrStdout(), name); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func newMatcher(cfg *config.Config, logger zerolog.Logger, metrics *observability.Metrics) (*dedup.Matcher, error) {
	var observer names.CacheObserver
	if metrics != nil {
		observer = metrics
	}
	parser, err := names.NewParser(cfg.Matching.ParseCacheSize, observer)
	if err != nil {
		return nil, err
	}

	cascade, err := dedup.NewNormalizerRegistry(parser).Cascade(cfg.Matching.Normalizers...)
	if err != nil {
		return nil, err
	}

	var dist dedup.Distance = dedup.NewNameDistance(parser)
	if cfg.Matching.Distance == config.DistanceGroundTruth {
		dist = dedup.GroundTruth
	}

	return dedup.NewMatcher(
		dedup.MatcherConfig{
			Threshold: cfg.Matching.Threshold,
			Workers:   cfg.Matching.Workers,
		},
		dist,
		cascade,
		logger,
		metrics,
	), nil
}

func newLogger(cmd *cobra.Command, cfg *config.Config) zerolog.Logger {
	logCfg := cfg.Logging.ObservabilityConfig()
	switch logCfg.Output {
	case "stderr":
		logCfg.Writer = cmd.ErrOrStderr()
	case "stdout":
		logCfg.Writer = cmd.OutOrStdout()
	}
	return observability.NewLogger(logCfg).With().Str("component", "cli").Logger()
}

func mustBind(v *viper.Viper, key string, flag *pflag.Flag) {
	if err := v.BindPFlag(key, flag); err != nil {
		panic(fmt.Sprintf("binding flag for %s: %v", key, err))
	}
}
