package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/apex/log"
	"github.com/apex/log/handlers/cli"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/text/message"

	"github.com/N7DR/drscp/internal/config"
	"github.com/N7DR/drscp/internal/contest"
	"github.com/N7DR/drscp/internal/pipeline"
	"github.com/N7DR/drscp/internal/report"
	"github.com/N7DR/drscp/internal/scheduler"
	"github.com/N7DR/drscp/internal/scp"
)

func registerGenerateFlags(cmd *cobra.Command) {
	flags := cmd.Flags()

	flags.String("dir", "", "directory of contest logs, a comma-separated list, an @list file, or a .toml manifest")
	flags.String("start", "", "contest start, UTC (YYYY-MM-DD[THH[:MM[:SS]]])")
	flags.Int("hrs", 0, "contest duration in hours")

	flags.BoolP("verbose", "v", false, "be verbose")
	flags.IntP("cutoff", "l", 1, "drop calls heard this many times or fewer, per contest and band")
	flags.IntP("parallel", "p", 1, "number of contest directories to process simultaneously")
	flags.String("trace", "", "provide detailed information on the processing of one callsign")
	flags.Int("tl", 1, "do not auto-include an entrant's call unless it claims at least this many QSOs")
	flags.BoolP("xscp", "x", false, "generate eXtended SCP output (CALL count)")
	flags.Int("xpc", 100, "retain only the calls carrying the top n percent of the count mass")
	flags.BoolP("bad-qsos", "i", false, "echo rejected QSO lines to stderr")

	flags.String("csv", "", "also write call,count records to this CSV file")
	flags.String("report", "", "write a per-band occupancy HTML report to this file")
	flags.String("ui", config.UIAuto, "progress display (auto|plain|tui)")
	flags.Bool("timings", false, "print per-stage timing summaries")
	flags.String("cache-dir", "", "ingest cache directory (empty disables the cache)")
	flags.Bool("no-color", false, "disable colored output")

	_ = cmd.MarkFlagRequired("dir")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, dirValue, startValue, hrs, err := readGenerateConfig(cmd)
	if err != nil {
		return err
	}

	setupLogging(cfg)

	contests, err := contest.Resolve(dirValue, startValue, hrs)
	if err != nil {
		return err
	}

	log.Debugf("cutoff limit = %d", cfg.CutoffLimit)
	log.Debugf("directories to process in parallel = %d", cfg.MaxParallel)
	log.Debugf("contests to process = %d", len(contests))

	ctx := context.Background()

	var result *scheduler.Result
	if useTUI(cfg, len(contests)) {
		result, err = runWithUI(ctx, contests, cfg)
	} else {
		result, err = scheduler.Run(ctx, contests, cfg, pipeline.NullSink{})
	}
	if err != nil {
		return err
	}

	if cfg.Verbose {
		p := message.NewPrinter(message.MatchLanguage("en"))
		total := 0
		for _, st := range result.Stats {
			total += st.QSOs
		}
		p.Fprintf(os.Stderr, "%d calls from %d QSOs\n", len(result.Counts), total)
	}

	if cfg.XSCP {
		err = scp.WriteXSCP(os.Stdout, result.Counts)
	} else {
		err = scp.WriteSCP(os.Stdout, result.Counts)
	}
	if err != nil {
		return err
	}

	if cfg.CSVPath != "" {
		if err := scp.WriteCSVFile(cfg.CSVPath, result.Counts); err != nil {
			return err
		}
	}
	if cfg.ReportPath != "" {
		if err := report.Write(cfg.ReportPath, result.Stats); err != nil {
			return err
		}
	}

	return nil
}

// readGenerateConfig folds defaults, DRSCP_* environment values and flags
// (in that order) into the run configuration.
func readGenerateConfig(cmd *cobra.Command) (config.Config, string, string, int, error) {
	flags := cmd.Flags()
	cfg := config.FromEnv(config.Default())

	cfg.Verbose, _ = flags.GetBool("verbose")
	cfg.CutoffLimit, _ = flags.GetInt("cutoff")
	cfg.TLLimit, _ = flags.GetInt("tl")
	cfg.XSCP, _ = flags.GetBool("xscp")
	cfg.XSCPPercent, _ = flags.GetInt("xpc")
	cfg.ShowBadQSOs, _ = flags.GetBool("bad-qsos")
	cfg.CSVPath, _ = flags.GetString("csv")
	cfg.ReportPath, _ = flags.GetString("report")
	cfg.Timings, _ = flags.GetBool("timings")

	traced, _ := flags.GetString("trace")
	cfg.TraceCall = strings.ToUpper(strings.TrimSpace(traced))

	// env may have seeded these; an explicit flag still wins
	if flags.Changed("parallel") || cfg.MaxParallel == 0 {
		cfg.MaxParallel, _ = flags.GetInt("parallel")
	}
	if flags.Changed("ui") {
		cfg.UIMode, _ = flags.GetString("ui")
	}
	if flags.Changed("cache-dir") {
		cfg.CacheDir, _ = flags.GetString("cache-dir")
	}

	if noColor, _ := flags.GetBool("no-color"); noColor {
		color.NoColor = true
	}

	if cfg.MaxParallel < 1 {
		return config.Config{}, "", "", 0, fmt.Errorf("invalid --parallel value %d", cfg.MaxParallel)
	}
	if cfg.XSCPPercent < 1 || cfg.XSCPPercent > 100 {
		return config.Config{}, "", "", 0, fmt.Errorf("invalid --xpc value %d (expected 1..100)", cfg.XSCPPercent)
	}
	if _, err := readUIMode(cfg.UIMode); err != nil {
		return config.Config{}, "", "", 0, err
	}

	dirValue, err := flags.GetString("dir")
	if err != nil || dirValue == "" {
		return config.Config{}, "", "", 0, fmt.Errorf("no --dir value present")
	}
	startValue, _ := flags.GetString("start")
	hrs, _ := flags.GetInt("hrs")

	return cfg, dirValue, startValue, hrs, nil
}

// setupLogging routes apex/log to stderr. Verbose runs see the pipeline
// narration (debug); tracing runs see traced-call events (info); everything
// else only warnings.
func setupLogging(cfg config.Config) {
	log.SetHandler(cli.New(os.Stderr))

	switch {
	case cfg.Verbose:
		log.SetLevel(log.DebugLevel)
	case cfg.Tracing():
		log.SetLevel(log.InfoLevel)
	default:
		log.SetLevel(log.WarnLevel)
	}
}
