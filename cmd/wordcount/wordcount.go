// Command wordcount measures the cost of counting word frequencies with different map strategies.
//
// For every selected strategy and load level, it prints a line
//
//	<strategy>\t<level>\t<value>
//
// to standard output, where value is the number of retained heap bytes (in memory mode)
// or the number of nanoseconds needed to count the corpus once (in time mode).
package main

// spellchecker:words wordcount

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/FAU-CDI/wordcount"
	"github.com/FAU-CDI/wordcount/internal/bench"
	"github.com/FAU-CDI/wordcount/internal/corpus"
	"github.com/FAU-CDI/wordcount/internal/counter"
	"github.com/FAU-CDI/wordcount/internal/loadfactor"
	"github.com/FAU-CDI/wordcount/internal/results"
	"github.com/FAU-CDI/wordcount/internal/status"
	"github.com/dustin/go-humanize"
	"github.com/pkg/profile"
	"github.com/tkw1536/pkglib/perf"
)

var st *status.Status

func main() {
	st = status.NewStatus(os.Stderr, logLevel())

	if debugServer != "" {
		go listenDebug()
	}
	if debugProfile != "" {
		defer profile.Start(profile.MemProfile, profile.ProfilePath(debugProfile), profile.Quiet).Stop()
	}

	if (synthetic == 0) == (len(nArgs) == 0) || len(nArgs) > 1 {
		fmt.Fprintln(os.Stderr, "Usage: wordcount [-help] [...flags] [/path/to/corpus.txt | /path/to/directory | -synthetic N]")
		flag.PrintDefaults()
		os.Exit(1)
	}

	strategies, err := counter.Select(splitList(strategyNames)...)
	if err != nil {
		st.LogFatal("select strategies", err)
	}
	levels, err := loadfactor.ParseLevels(splitList(levelList)...)
	if err != nil {
		st.LogFatal("parse levels", err)
	}
	measure, stage, err := parseMode(mode)
	if err != nil {
		st.LogFatal("parse mode", err)
	}

	var c *corpus.Corpus
	if err := st.DoStage(status.StageCorpus, func() (err error) {
		c, err = loadCorpus()
		return err
	}); err != nil {
		os.Exit(1)
	}

	if stage == status.StageMemory {
		if err := st.DoStage(status.StageBaseline, func() error {
			st.Log("baseline", "distinct", c.DistinctCount(), "retained", humanize.Bytes(uint64(c.Baseline())))
			if !verbose {
				return nil
			}
			for _, level := range levels {
				st.LogDebug("structure sizes", "level", level, "sizes", bench.Sizes(c, strategies, level))
			}
			return nil
		}); err != nil {
			os.Exit(1)
		}
	}

	var table *results.Table
	if err := st.DoStage(stage, func() (err error) {
		table, err = bench.Sweep(c, strategies, levels, measure, st)
		return err
	}); err != nil {
		os.Exit(1)
	}

	if err := st.DoStage(status.StageReport, func() error {
		_, err := table.WriteTo(os.Stdout)
		return err
	}); err != nil {
		os.Exit(1)
	}

	for _, stage := range st.All() {
		st.LogDebug("stage summary", "stage", stage.Stage, "took", stage.Diff())
	}
	st.Log("finished", "took", st.Diff(), "now", perf.Now())
}

// loadCorpus loads the corpus selected by the command line.
func loadCorpus() (*corpus.Corpus, error) {
	if synthetic > 0 {
		st.Log("generating synthetic corpus", "tokens", synthetic, "vocabulary", vocabulary, "seed", seed)
		return corpus.Zipf(synthetic, vocabulary, seed), nil
	}

	path, err := wordcount.FindCorpus(nArgs...)
	if err != nil {
		return nil, err
	}
	return corpus.Load(path, st)
}

var nArgs []string

var strategyNames string
var levelList string
var mode string = "memory"

var synthetic int
var vocabulary int = 20_000
var seed uint64 = 1

var quiet bool
var verbose bool

var debugServer string
var debugProfile string

func init() {
	flag.StringVar(&strategyNames, "strategies", strategyNames, "comma-separated strategies to measure, one of "+strings.Join(counter.Names(), ", ")+". Defaults to all strategies")
	flag.StringVar(&levelList, "levels", levelList, "comma-separated load levels to measure. Defaults to all levels")
	flag.StringVar(&mode, "mode", mode, "what to measure, either 'memory' (retained bytes) or 'time' (nanoseconds per count)")
	flag.IntVar(&synthetic, "synthetic", synthetic, "instead of loading a corpus, generate a synthetic corpus with the given number of tokens")
	flag.IntVar(&vocabulary, "vocabulary", vocabulary, "number of distinct words of a synthetic corpus")
	flag.Uint64Var(&seed, "seed", seed, "seed of a synthetic corpus")
	flag.BoolVar(&quiet, "quiet", quiet, "only log warnings and errors")
	flag.BoolVar(&verbose, "verbose", verbose, "log debug messages")
	flag.StringVar(&debugServer, "debug-listen", debugServer, "start a profiling server on the given address")
	flag.StringVar(&debugProfile, "debug-profile", debugProfile, "write a memory profile to the given directory")

	flag.Parse()
	nArgs = flag.Args()
}

func logLevel() slog.Level {
	switch {
	case quiet:
		return slog.LevelWarn
	case verbose:
		return slog.LevelDebug
	default:
		return slog.LevelInfo
	}
}

var errUnknownMode = errors.New("unknown mode")

// parseMode returns the measure and stage belonging to the given mode.
func parseMode(mode string) (bench.Measure, status.Stage, error) {
	switch mode {
	case "memory":
		return bench.Retained, status.StageMemory, nil
	case "time":
		return bench.Time, status.StageTime, nil
	default:
		return nil, status.StageInitial, fmt.Errorf("%w: %q", errUnknownMode, mode)
	}
}

// splitList splits a comma-separated list, omitting empty elements.
func splitList(value string) (parts []string) {
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		parts = append(parts, part)
	}
	return parts
}
