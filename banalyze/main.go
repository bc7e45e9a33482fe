package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/pkg/profile"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/decibelcooper/fccbana/analysis"
	"github.com/decibelcooper/fccbana/config"
	"github.com/decibelcooper/fccbana/input"
	"github.com/decibelcooper/fccbana/tuple"
)

var (
	channel    = flag.String("channel", "signal", "decay channel: signal or dsds")
	configFile = flag.String("config", "", "YAML configuration file")
	output     = flag.String("o", "", "output ROOT file (default <channel>.root)")
	plots      = flag.String("plots", "", "prefix of the cut histogram PNGs (none if empty)")
	nThreads   = flag.Int("t", 4, "number of files decoded concurrently")
	seed       = flag.Uint64("seed", 0, "smearing seed (overrides the configuration if non-zero)")
	maxEvents  = flag.Int("n", 0, "maximum number of events (0 for all)")
	collection = flag.String("collection", "MCParticle", "LCIO collection of MC particles")
	tag        = flag.String("tag", "Particle", "proio tag of MC particles")
	verbose    = flag.Bool("v", false, "debug logging")
	doProfile  = flag.Bool("profile", false, "write a CPU profile")
)

func printUsage() {
	fmt.Fprintf(os.Stderr, `Usage: `+os.Args[0]+` [options] <input-files>...

Selects B decays in generator-level LCIO (.slcio) or proio (.proio) files
and writes MC truth and smeared tuples.

options:
`,
	)
	flag.PrintDefaults()
}

func main() {
	flag.Usage = printUsage
	flag.Parse()
	if flag.NArg() < 1 {
		printUsage()
		log.Fatal("Invalid arguments")
	}

	logCfg := zap.NewProductionConfig()
	if *verbose {
		logCfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	logger, err := logCfg.Build()
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	if err := run(logger); err != nil {
		logger.Fatal("banalyze failed", zap.Error(err))
	}
}

func run(logger *zap.Logger) error {
	if *doProfile {
		defer profile.Start().Stop()
	}

	cfg := config.Default()
	if *configFile != "" {
		var err error
		if cfg, err = config.Load(*configFile); err != nil {
			return err
		}
	}
	if *seed != 0 {
		cfg.Seed = *seed
	}

	an, err := analysis.New(*channel, cfg, logger.With(zap.String("channel", *channel)))
	if err != nil {
		return err
	}
	c := an.Common()

	outPath := *output
	if outPath == "" {
		outPath = an.Name() + ".root"
	}
	f, err := tuple.Create(outPath)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := c.Attach(f); err != nil {
		return err
	}

	if err := process(an, logger); err != nil {
		return err
	}

	if err := c.WriteHistograms(f); err != nil {
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", outPath, err)
	}
	if *plots != "" {
		if err := c.Plot(*plots); err != nil {
			return err
		}
	}

	c.LogSummary()
	s := c.Summary()
	fmt.Printf("%s: %d decays, %d written (p %.3f, fd_b %.3f, fd_tau %.3f), %d incomplete\n",
		an.Name(), s.Decays, s.Written, s.EffMomentum, s.EffBFlight, s.EffTauFlight, s.Incomplete)
	return nil
}

// process feeds every decoded event to an, stopping early after
// -n events or on the first analysis error.
func process(an analysis.Analyzer, logger *zap.Logger) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	opts := input.Options{Collection: *collection, Tag: *tag}
	events, wait := input.Stream(ctx, flag.Args(), opts, *nThreads, logger)

	var procErr error
	nEvents := 0
	for evt := range events {
		if procErr != nil || (*maxEvents > 0 && nEvents >= *maxEvents) {
			cancel()
			continue
		}
		if err := an.Process(evt); err != nil {
			procErr = fmt.Errorf("event %d: %w", evt.Number, err)
			continue
		}
		nEvents++
	}

	err := wait()
	if procErr != nil {
		return procErr
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	logger.Debug("events processed", zap.Int("events", nEvents))
	return nil
}
