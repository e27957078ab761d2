package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/signalsfoundry/spice-go/internal/config"
	"github.com/signalsfoundry/spice-go/internal/logging"
	"github.com/signalsfoundry/spice-go/internal/observability"
	"github.com/signalsfoundry/spice-go/spice"
)

// app holds the state shared by every subcommand for one invocation.
type app struct {
	// backend overrides the native backend; nil uses CSPICE.
	backend spice.Backend

	configPath  string
	kernels     []string
	logLevel    string
	logFormat   string
	metricsAddr string

	cfg        *config.Config
	log        logging.Logger
	metrics    *observability.NativeCollector
	metricsSrv *http.Server
	tracer     *observability.Tracer
	sess       *spice.Session
}

// run executes one spicectl invocation. The session is closed whether or
// not the command succeeds.
func run(ctx context.Context, a *app, args []string, stdout, stderr io.Writer) error {
	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	if terr := a.teardown(ctx); err == nil {
		err = terr
	}
	return err
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:          "spicectl",
		Short:        "Query SPICE kernels: time conversion, ephemerides, occultations and DSK shape data",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "YAML config file")
	flags.StringArrayVarP(&a.kernels, "kernel", "k", nil, "Kernel to furnish before running (repeatable; replaces configured kernels)")
	flags.StringVar(&a.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	flags.StringVar(&a.logFormat, "log-format", "", "Log format: text or json")
	flags.StringVar(&a.metricsAddr, "metrics-addr", "", "Serve Prometheus /metrics on this address while the command runs")

	root.AddCommand(
		newKernelsCmd(a),
		newTimeCmd(a),
		newSpkposCmd(a),
		newOccultCmd(a),
		newSweepCmd(a),
		newDSKCmd(a),
		newSGP4Cmd(a),
		newVersionCmd(a),
		newConfigCmd(a),
	)
	return root
}

// resolveConfig loads the config file and environment, applies changed
// flags and validates the result. Flags win over the environment, which
// wins over the config file.
func (a *app) resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return nil, err
	}
	flags := cmd.Flags()
	if flags.Changed("kernel") {
		cfg.Kernels = a.kernels
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = a.logLevel
	}
	if flags.Changed("log-format") {
		cfg.Log.Format = a.logFormat
	}
	if flags.Changed("metrics-addr") {
		cfg.MetricsAddr = a.metricsAddr
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// setup resolves configuration and opens the session.
func (a *app) setup(cmd *cobra.Command) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := a.resolveConfig(cmd)
	if err != nil {
		return err
	}
	a.cfg = cfg

	a.log = logging.NewWithWriter(cmd.ErrOrStderr(), cfg.Log)
	ctx = logging.ContextWithLogger(ctx, a.log)
	cmd.SetContext(ctx)
	a.log.Debug(ctx, "configuration resolved",
		logging.Any("kernels", cfg.Kernels),
		logging.String("metrics_addr", cfg.MetricsAddr),
		logging.Any("tracing_enabled", cfg.Tracing.Enabled),
	)

	a.metrics, err = observability.NewNativeCollector(prometheus.NewRegistry())
	if err != nil {
		return fmt.Errorf("init metrics: %w", err)
	}
	if cfg.MetricsAddr != "" {
		a.metricsSrv = serveMetrics(ctx, cfg.MetricsAddr, a.metrics, a.log)
	}

	if a.tracer, err = observability.InitTracing(ctx, cfg.Tracing, cmd.ErrOrStderr(), a.log); err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}

	opts := []spice.Option{spice.WithLogger(a.log), spice.WithMetrics(a.metrics)}
	if a.backend != nil {
		opts = append(opts, spice.WithBackend(a.backend))
	}
	if a.sess, err = spice.Open(opts...); err != nil {
		return err
	}
	return a.sess.LoadKernels(ctx, cfg.Kernels...)
}

func (a *app) teardown(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	var err error
	if a.sess != nil {
		err = a.sess.Close(ctx)
		a.sess = nil
	}
	a.tracer.Close(ctx)
	a.tracer = nil
	if a.metricsSrv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = a.metricsSrv.Shutdown(shutdownCtx)
		a.metricsSrv = nil
	}
	return err
}

func serveMetrics(ctx context.Context, addr string, collector *observability.NativeCollector, log logging.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", collector.Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Warn(ctx, "metrics server exited", logging.Err(err))
		}
	}()

	log.Info(ctx, "serving Prometheus metrics", logging.String("addr", addr))
	return srv
}
