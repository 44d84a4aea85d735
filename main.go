package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"sync"
	"time"

	"almanac/almanac"
	"almanac/commands"
	"almanac/config"
	"almanac/files"
	"almanac/view"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type options struct {
	configDir string
	part      string
	from, to  string
	out       string
	trace     bool
	watch     bool
	view      bool
	verbose   bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:   "almanac <input>",
		Short: "Find the lowest location number for the seeds of an almanac",
		Long: `Reads an almanac (a "seeds:" line followed by "X-to-Y map:" blocks of
"dest src len" rules) and sends the seeds through every map.

Parts:
  points  every seed number on its own
  ranges  seeds as (start, length) pairs
  all     both`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, args[0])
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.configDir, "config", "", "config directory (default $XDG_CONFIG_HOME/almanac)")
	flags.StringVarP(&opts.part, "part", "p", "", "solver to run: points, ranges or all (prefixes work)")
	flags.StringVar(&opts.from, "from", "", "first category of the chain")
	flags.StringVar(&opts.to, "to", "", "last category of the chain")
	flags.StringVarP(&opts.out, "out", "o", "", "also write the answers to this file")
	flags.BoolVar(&opts.trace, "trace", false, "log the intervals after every map")
	flags.BoolVarP(&opts.watch, "watch", "w", false, "solve again whenever the input changes")
	flags.BoolVar(&opts.view, "view", false, "show the intervals per map in the terminal")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "debug logging")
	return cmd
}

// merge lets flags that were set win over the config file.
func merge(cmd *cobra.Command, opts *options, s config.Settings) config.Settings {
	flags := cmd.Flags()
	if flags.Changed("part") {
		s.Solve.Part = opts.part
	}
	if flags.Changed("from") {
		s.Chain.From = opts.from
	}
	if flags.Changed("to") {
		s.Chain.To = opts.to
	}
	if flags.Changed("view") {
		s.View.Enabled = opts.view
	}
	if opts.verbose {
		s.Log.Level = "debug"
	}
	return s
}

func NewLogger(c config.LogConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(c.Level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	zc := zap.NewDevelopmentConfig()
	zc.Level = zap.NewAtomicLevelAt(level)
	if c.File != "" {
		zc = zap.NewProductionConfig()
		zc.Level = zap.NewAtomicLevelAt(level)
		zc.OutputPaths = []string{c.File}
	}
	return zc.Build()
}

func run(cmd *cobra.Command, opts *options, input string) error {
	cfg := config.NewConfig(nil, opts.configDir)
	if err := cfg.Init(); err != nil {
		return err
	}

	var mu sync.Mutex
	settings := merge(cmd, opts, cfg.Settings())
	log, err := NewLogger(settings.Log)
	if err != nil {
		return err
	}
	defer log.Sync()
	cfg.SetLogger(log)

	solve := func() error {
		mu.Lock()
		s := settings
		mu.Unlock()
		return solveOnce(cmd, opts, s, log, input)
	}

	if !opts.watch {
		return solve()
	}

	// Both watchers only queue a solve; the loop below runs them one at a
	// time. A change that arrives mid-solve leaves one pending solve behind.
	changes := make(chan struct{}, 1)
	changed := func() {
		select {
		case changes <- struct{}{}:
		default:
		}
	}

	if err := cfg.Watch(func(s config.Settings) {
		mu.Lock()
		settings = merge(cmd, opts, s)
		mu.Unlock()
		changed()
	}); err != nil {
		return err
	}
	defer cfg.Cleanup()

	w, err := files.Watch(input, log, changed)
	if err != nil {
		return err
	}
	defer w.Close()

	log.Info("watching", zap.String("input", input), zap.String("config", cfg.File()))
	ctx := cmd.Context()
	for {
		if err := solve(); err != nil {
			log.Error("solve", zap.Error(err))
		}
		select {
		case <-ctx.Done():
			return nil
		case <-changes:
		}
	}
}

func solveOnce(cmd *cobra.Command, opts *options, s config.Settings, log *zap.Logger, input string) error {
	start := time.Now()
	a, err := files.Read(input)
	if err != nil {
		return err
	}

	solver := almanac.NewSolver(log)
	solver.From, solver.To = s.Chain.From, s.Chain.To
	results, err := commands.Defaults(log, solver).Exec(s.Solve.Part, a)
	if err != nil {
		return err
	}

	var report strings.Builder
	for _, r := range results {
		fmt.Fprintf(&report, "%s: %d\n", r.Name, r.Answer)
	}
	fmt.Fprint(cmd.OutOrStdout(), report.String())
	fmt.Fprintf(cmd.ErrOrStderr(), "took %v\n", time.Since(start))

	if opts.out != "" {
		if err := files.Write(opts.out, strings.NewReader(report.String())); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
	}

	if !opts.trace && !s.View.Enabled {
		return nil
	}
	ranged := !strings.HasPrefix("points", s.Solve.Part)
	trace, err := solver.Trace(a, ranged)
	if err != nil {
		return err
	}
	for _, r := range trace {
		log.Info("stage",
			zap.String("name", r.Stage.Name),
			zap.Int("rules", len(r.Stage.Rules)),
			zap.Stringer("intervals", r.Output))
	}
	if s.View.Enabled {
		return view.Show(trace, strings.TrimSpace(strings.ReplaceAll(report.String(), "\n", "  ")))
	}
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
