package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"sync"
	"time"

	"go.uber.org/zap"
	"gopkg.in/natefinch/lumberjack.v2"

	loggable "github.com/gxo-labs/loggable/pkg/loggable/v1"
	loggableerrors "github.com/gxo-labs/loggable/pkg/loggable/v1/errors"
	loggablelog "github.com/gxo-labs/loggable/pkg/loggable/v1/log"
	"github.com/gxo-labs/loggable/pkg/loggable/v1/record"
	"github.com/gxo-labs/loggable/pkg/loggable/v1/sink"

	"github.com/gxo-labs/loggable/internal/config"
	"github.com/gxo-labs/loggable/internal/dispatch"
	"github.com/gxo-labs/loggable/internal/events"
	"github.com/gxo-labs/loggable/internal/logger"
	"github.com/gxo-labs/loggable/internal/metadata"
	"github.com/gxo-labs/loggable/internal/metrics"
	"github.com/gxo-labs/loggable/internal/registry"
	"github.com/gxo-labs/loggable/internal/sinks"
	"github.com/gxo-labs/loggable/internal/tracing"
)

const (
	ExitSuccess         = 0
	ExitFailure         = 1
	ExitUsageError      = 2
	DefaultLogLevel     = "info"
	DefaultLogFmt       = "text"
	DefaultSink         = "log"
	DefaultEventBusSize = 256
)

var (
	version   = "dev"
	commit    = "none"
	buildDate = "unknown"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(ExitUsageError)
	}
	switch os.Args[1] {
	case "validate":
		os.Exit(runValidateCommand(os.Args[2:]))
	case "demo":
		os.Exit(runDemoCommand(os.Args[2:]))
	case "--version", "-version", "version":
		printVersion()
		os.Exit(ExitSuccess)
	default:
		usage()
		os.Exit(ExitUsageError)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s <validate|demo|version> [flags...]\n\n", os.Args[0])
	fmt.Fprintln(os.Stderr, "  validate  Validate a method declaration file.")
	fmt.Fprintln(os.Stderr, "  demo      Run instrumented sample calls and print the records.")
	fmt.Fprintln(os.Stderr, "  version   Print version information.")
}

func printVersion() {
	fmt.Printf("loggable version %s\n", version)
	fmt.Printf("commit: %s\n", commit)
	fmt.Printf("built: %s\n", buildDate)
	fmt.Printf("go version: %s\n", runtime.Version())
	fmt.Printf("os/arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
}

func runValidateCommand(args []string) int {
	validateFlags := flag.NewFlagSet("validate", flag.ExitOnError)
	configPath := validateFlags.String("config", "", "Path to the declaration YAML file to validate (required)")
	logLevel := validateFlags.String("log-level", DefaultLogLevel, "Log level for validation output (debug, info, warn, error)")

	validateFlags.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s validate -config <path> [flags...]\n\n", os.Args[0])
		fmt.Fprintln(os.Stderr, "Validates the structure and schema compatibility of a method declaration file.")
		fmt.Fprintln(os.Stderr, "\nFlags:")
		validateFlags.PrintDefaults()
	}

	if err := validateFlags.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing validate flags: %v\n", err)
		return ExitUsageError
	}
	if *configPath == "" {
		fmt.Fprintln(os.Stderr, "Error: -config flag is required for validation")
		validateFlags.Usage()
		return ExitUsageError
	}

	log := logger.NewLogger(*logLevel, "text", os.Stderr)
	log.Infof("Validating declarations: %s", *configPath)

	methods, err := config.LoadDeclarationsFromFile(*configPath)
	if err != nil {
		logLoadError(log, err)
		return ExitFailure
	}

	for _, m := range methods {
		log.Debugf("Declared %s (%d parameter(s))", m.Key(), m.NumParams())
	}
	log.Infof("Declaration validation successful: %s (%d method(s))", *configPath, len(methods))
	return ExitSuccess
}

func logLoadError(log loggablelog.Logger, err error) {
	var validationErr *loggableerrors.ValidationError
	var configErr *loggableerrors.ConfigError
	if errors.As(err, &validationErr) {
		log.Errorf("Declaration validation failed:\n%s", validationErr.Error())
	} else if errors.As(err, &configErr) {
		log.Errorf("Declaration configuration error:\n%s", configErr.Error())
	} else {
		log.Errorf("Failed to load or validate declarations: %v", err)
	}
}

func runDemoCommand(args []string) int {
	demoFlags := flag.NewFlagSet("demo", flag.ExitOnError)
	configPath := demoFlags.String("config", "", "Path to a declaration YAML file (built-in declarations when empty)")
	logLevel := demoFlags.String("log-level", DefaultLogLevel, "Log level (debug, info, warn, error)")
	logFormat := demoFlags.String("log-format", DefaultLogFmt, "Log format (text, json)")
	sinkName := demoFlags.String("sink", DefaultSink, "Record sink (log, slog, zap, writer)")
	logFile := demoFlags.String("log-file", "", "Write records to this rolling file instead of stdout (writer sink)")

	demoFlags.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s demo [flags...]\n\n", os.Args[0])
		fmt.Fprintln(os.Stderr, "Runs instrumented sample calls and prints a summary.")
		fmt.Fprintln(os.Stderr, "\nFlags:")
		demoFlags.PrintDefaults()
	}

	if err := demoFlags.Parse(args); err != nil {
		return ExitUsageError
	}
	if *logFormat != "text" && *logFormat != "json" {
		fmt.Fprintln(os.Stderr, "Error: -log-format must be 'text' or 'json'")
		return ExitUsageError
	}

	var logWriter io.Writer = os.Stderr
	log := logger.NewLogger(*logLevel, *logFormat, logWriter)
	log = log.With("loggable_version", version)
	log.Infof("loggable demo v%s starting...", version)

	reg := registry.NewStaticRegistry()
	if *configPath != "" {
		if err := reg.LoadFile(*configPath); err != nil {
			logLoadError(log, err)
			return ExitFailure
		}
	} else if err := registerBuiltins(reg); err != nil {
		log.Errorf("Failed to register built-in declarations: %v", err)
		return ExitFailure
	}
	log.Debugf("Registered declarations: %v", reg.List())

	primary, closeSink, err := newPrimarySink(*sinkName, *logFile, *logFormat, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitUsageError
	}
	defer closeSink()
	memory := sinks.NewMemorySink()
	recordSink := sinks.NewMultiSink(primary, memory, sinks.NewSpanEventSink())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tracerProvider, err := tracing.NewProviderFromEnv(ctx, log)
	if err != nil {
		log.Warnf("Failed to initialize tracing from environment: %v. Using NoOp tracer.", err)
		tracerProvider, _ = tracing.NewNoOpProvider()
	}

	metricsProvider := metrics.NewPrometheusRegistryProvider()
	eventBus := events.NewChannelEventBus(DefaultEventBusSize, log)

	interceptor, err := dispatch.NewDispatcher(log,
		loggable.WithSink(recordSink),
		loggable.WithEventBus(eventBus),
		loggable.WithRegistry(reg),
		loggable.WithMetricsRegistryProvider(metricsProvider),
		loggable.WithTracerProvider(tracerProvider),
	)
	if err != nil {
		log.Errorf("Failed to create interceptor: %v", err)
		return ExitFailure
	}

	var wg sync.WaitGroup
	if instruments := interceptor.Instruments(); instruments != nil {
		listener := events.NewMetricsEventListener(eventBus, instruments, log)
		wg.Add(1)
		go func() {
			defer wg.Done()
			listener.Start(ctx)
		}()
	}

	runErr := runSampleCalls(ctx, interceptor, reg, log)

	eventBus.Close()
	wg.Wait()

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	if shutdownErr := tracerProvider.Shutdown(shutdownCtx); shutdownErr != nil {
		log.Warnf("Error shutting down tracer provider: %v", shutdownErr)
	}

	printSummary(log, memory, metricsProvider)
	if runErr != nil {
		log.Errorf("Demo failed: %v", runErr)
		return ExitFailure
	}
	return ExitSuccess
}

func registerBuiltins(reg *registry.StaticRegistry) error {
	greet, err := config.Declare("Greeter", "greet", config.DefaultLogConfig(),
		config.Logged("name"), config.Param("lastName"))
	if err != nil {
		return err
	}
	if err := reg.Register(greet); err != nil {
		return err
	}
	divide, err := metadata.DeclareFunc((&Calculator{}).Divide,
		config.NewLogConfig(config.WithLogResult(false)),
		config.Logged("a"), config.Logged("b"))
	if err != nil {
		return err
	}
	return reg.Register(divide)
}

// runSampleCalls exercises the success and failure paths. Business errors are
// expected results of the demo and are only reported.
func runSampleCalls(ctx context.Context, interceptor loggable.InterceptorV1, reg *registry.StaticRegistry, log loggablelog.Logger) error {
	greetDecl, err := reg.Get("Greeter", "greet")
	if err != nil {
		return err
	}
	divideDecl, err := reg.Get("Calculator", "Divide")
	if err != nil {
		return err
	}

	greeter := &Greeter{}
	calculator := &Calculator{}
	greet := loggable.Wrap2(interceptor, greetDecl, greeter.Greet)
	divide := loggable.Wrap2(interceptor, divideDecl, calculator.Divide)

	if msg, err := greet(ctx, "Ada", "Lovelace"); err == nil {
		log.Infof("greet returned %q", msg)
	}
	if _, err := greet(ctx, "", "Hopper"); err != nil {
		log.Infof("greet failed as expected: %v", err)
	}
	if q, err := divide(ctx, 42, 6); err == nil {
		log.Infof("divide returned %d", q)
	}
	if _, err := divide(ctx, 1, 0); err != nil {
		log.Infof("divide failed as expected: %v", err)
	}

	out, err := interceptor.InvokeNamed(ctx, "Greeter", "greet", []any{"Grace", "Hopper"}, func(ctx context.Context) (any, error) {
		return greeter.Greet(ctx, "Grace", "Hopper")
	})
	if err == nil {
		log.Infof("greet (by name) returned %q", out)
	}
	return nil
}

func newPrimarySink(name, logFile, logFormat string, log loggablelog.Logger) (sink.Sink, func(), error) {
	noop := func() {}
	switch name {
	case "log":
		return sinks.NewLoggerSink(log), noop, nil
	case "slog":
		return sinks.NewSlogSink(slog.New(logger.NewHandler("info", logFormat, os.Stdout))), noop, nil
	case "zap":
		var zl *zap.Logger
		var err error
		if logFormat == "json" {
			zl, err = zap.NewProduction()
		} else {
			zl, err = zap.NewDevelopment()
		}
		if err != nil {
			return nil, noop, fmt.Errorf("failed to build zap logger: %w", err)
		}
		zs := sinks.NewZapSink(zl)
		return zs, func() { _ = zs.Sync() }, nil
	case "writer":
		if logFile == "" {
			return sinks.NewWriterSink(os.Stdout), noop, nil
		}
		ws := sinks.NewWriterSink(&lumberjack.Logger{
			Filename:   logFile,
			MaxSize:    10,
			MaxBackups: 3,
			MaxAge:     7,
		})
		return ws, func() { _ = ws.Close() }, nil
	default:
		return nil, noop, fmt.Errorf("unknown sink '%s' (expected log, slog, zap or writer)", name)
	}
}

func printSummary(log loggablelog.Logger, memory *sinks.MemorySink, provider *metrics.PrometheusRegistryProvider) {
	log.Infof("Records written: total=%d pre=%d post_success=%d post_failure=%d",
		memory.Count(),
		len(memory.ByPhase(record.PhasePre)),
		len(memory.ByPhase(record.PhasePostSuccess)),
		len(memory.ByPhase(record.PhasePostFailure)))

	families, err := provider.Registry().Gather()
	if err != nil {
		log.Warnf("Failed to gather metrics: %v", err)
		return
	}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			labels := ""
			for i, lp := range m.GetLabel() {
				if i > 0 {
					labels += ","
				}
				labels += lp.GetName() + "=" + lp.GetValue()
			}
			switch {
			case m.GetCounter() != nil:
				log.Infof("metric %s{%s} = %v", mf.GetName(), labels, m.GetCounter().GetValue())
			case m.GetHistogram() != nil:
				log.Infof("metric %s{%s} count=%d", mf.GetName(), labels, m.GetHistogram().GetSampleCount())
			}
		}
	}
}
