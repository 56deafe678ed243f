package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/jeongseonghan/bersim/internal/config"
	"github.com/jeongseonghan/bersim/internal/report"
	"github.com/jeongseonghan/bersim/internal/selftest"
	"github.com/jeongseonghan/bersim/internal/server"
	"github.com/jeongseonghan/bersim/internal/sim"
)

func usageError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "bersim: "+format+"\n", args...)
	flag.Usage()
	os.Exit(2)
}

func main() {
	def := config.Default()
	configPath := flag.String("config", "", "YAML configuration file")
	src := flag.String("source", def.Source, "Bit source: random, predefined")
	fecName := flag.String("fec", def.FEC, "FEC: none, hamming74, cyclic85, bch1557, bch1575")
	modName := flag.String("modulation", def.Modulation, "Modulation: ask, fsk, bpsk, qpsk, <M>psk, <M>qam")
	chanName := flag.String("channel", def.Channel, "Channel: awgn, rayleigh")
	errName := flag.String("error", def.Error, "Error rate: ber, ser")
	units := flag.String("units", def.Units, "h² units: dbs, times")
	start := flag.Float64("hsquare-start", def.HSquare.Start, "First h² value")
	end := flag.Float64("hsquare-end", def.HSquare.End, "Last h² value (inclusive)")
	step := flag.Float64("hsquare-step", def.HSquare.Step, "h² step")
	iterations := flag.Int("iterations", def.Iterations, "Source bits per h² point")
	workers := flag.Int("workers", def.Workers, "Worker goroutines (0 = GOMAXPROCS)")
	seed := flag.Uint64("seed", def.Seed, "Random seed (0 = from the clock)")
	quiet := flag.Bool("quiet", def.Quiet, "Print only the h² and rate columns")
	output := flag.String("output", def.Output, "Write results to this parquet file")
	listen := flag.String("listen", def.Listen, "Serve status, results and metrics on this address")
	selfTest := flag.Bool("self-test", false, "Run the built-in self test and exit")
	flag.Parse()

	if flag.NArg() > 0 {
		usageError("unexpected arguments %v", flag.Args())
	}

	cfg := def
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			usageError("%v", err)
		}
		cfg = loaded
	}

	// Flags given on the command line win over the file.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "source":
			cfg.Source = *src
		case "fec":
			cfg.FEC = *fecName
		case "modulation":
			cfg.Modulation = *modName
		case "channel":
			cfg.Channel = *chanName
		case "error":
			cfg.Error = *errName
		case "units":
			cfg.Units = *units
		case "hsquare-start":
			cfg.HSquare.Start = *start
		case "hsquare-end":
			cfg.HSquare.End = *end
		case "hsquare-step":
			cfg.HSquare.Step = *step
		case "iterations":
			cfg.Iterations = *iterations
		case "workers":
			cfg.Workers = *workers
		case "seed":
			cfg.Seed = *seed
		case "quiet":
			cfg.Quiet = *quiet
		case "output":
			cfg.Output = *output
		case "listen":
			cfg.Listen = *listen
		}
	})

	if err := cfg.Validate(); err != nil {
		usageError("%v", err)
	}
	simCfg, err := cfg.Sim()
	if err != nil {
		usageError("%v", err)
	}
	if cfg.Seed == 0 {
		cfg.Seed = uint64(time.Now().UnixNano())
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err = run(ctx, cfg, simCfg, *selfTest, os.Stdout)
	switch {
	case errors.Is(err, errInterrupted):
		fmt.Println("\nInterrupted")
	case err != nil:
		stop()
		log.Fatalf("%v", err)
	}
}

var (
	errInterrupted    = errors.New("interrupted")
	errSelfTestFailed = errors.New("self test failed")
)

// run builds the simulator and either runs the self test or the sweep,
// writing results to out and optionally to a parquet file and the HTTP
// server. A failing server stops the sweep and its error is returned.
func run(ctx context.Context, cfg config.Config, simCfg sim.Config, selfTest bool, out io.Writer) error {
	ctx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	s, err := sim.New(ctx, simCfg, sim.Options{
		Workers: cfg.EffectiveWorkers(),
		Seed:    cfg.Seed,
		Metrics: sim.NewPrometheusMetrics(reg),
	})
	if err != nil {
		return fmt.Errorf("failed to initialize simulator: %w", err)
	}

	if selfTest {
		suite := selftest.Suite{Codec: s.Codec(), Tables: s.Tables(), Pool: s.Pool(), Workers: cfg.EffectiveWorkers()}
		rep, err := suite.Run(ctx)
		if err != nil {
			return fmt.Errorf("self test: %w", err)
		}
		rep.Print(out)
		if !rep.OK() {
			return fmt.Errorf("%w: %d of %d checks", errSelfTestFailed, rep.Failed, len(rep.Checks))
		}
		return nil
	}

	if !cfg.Quiet {
		log.Printf("Run %s, seed %d, %d workers", s.RunID(), s.Seed(), cfg.EffectiveWorkers())
	}

	var handlers *server.Handlers
	var srv *server.Server
	if cfg.Listen != "" {
		handlers = server.NewHandlers(s.RunID(), simCfg, cfg.HSquare)
		srv = server.NewServer(cfg.Listen, handlers, reg)
		go func() {
			if err := srv.Start(); err != nil {
				cancel(fmt.Errorf("server error: %w", err))
			}
		}()
		defer func() {
			shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
			defer done()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				log.Printf("Server shutdown: %v", err)
			}
		}()
	}

	var pw *report.ParquetWriter
	var outFile *os.File
	if cfg.Output != "" {
		outFile, err = os.Create(cfg.Output)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		pw = report.NewParquetWriter(outFile, simCfg, s.Seed())
	}

	printer := report.NewPrinter(out, simCfg, cfg.HSquare, cfg.Quiet)
	printer.Header()
	results, sweepErr := s.Sweep(ctx, cfg.HSquare, func(r sim.Result) error {
		if err := printer.Point(r); err != nil {
			return err
		}
		if pw != nil {
			if err := pw.Write(r); err != nil {
				return err
			}
		}
		if handlers != nil {
			handlers.Record(r)
		}
		return nil
	})
	printer.Summary(results)

	if pw != nil {
		if err := pw.Close(); err != nil && sweepErr == nil {
			sweepErr = err
		}
		if err := outFile.Close(); err != nil && sweepErr == nil {
			sweepErr = fmt.Errorf("close %s: %w", cfg.Output, err)
		}
	}
	if handlers != nil {
		handlers.Finish(sweepErr)
	}

	if sweepErr == nil && srv != nil {
		log.Printf("Sweep complete, serving results on %s until interrupted", cfg.Listen)
		<-ctx.Done()
	}
	// A server failure cancels ctx with its own cause.
	if cause := context.Cause(ctx); cause != nil && !errors.Is(cause, context.Canceled) {
		return cause
	}
	switch {
	case errors.Is(sweepErr, context.Canceled):
		return errInterrupted
	case sweepErr != nil:
		return fmt.Errorf("simulation failed: %w", sweepErr)
	}
	return nil
}
