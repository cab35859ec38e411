package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/etwodev/srvconf/pkg/config"
	"github.com/etwodev/srvconf/pkg/engine"
	"github.com/etwodev/srvconf/pkg/handler"
	srvlog "github.com/etwodev/srvconf/pkg/log"
	"github.com/etwodev/srvconf/pkg/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

const (
	defaultPath = "Server.toml"
	envPrefix   = "SRVCONF_"
)

// cliExtras are the [extended-fields] keys understood by the srvconf binary.
//
// Zero values are filled from extrasDefaults after the document is decoded,
// so an explicit 0 means "use the default". Set log-max-backups to a
// negative number to keep every rotated file.
type cliExtras struct {
	LogFile       string `toml:"log-file" yaml:"log-file" json:"log-file" env:"LOG_FILE"`
	LogMaxSize    int    `toml:"log-max-size" yaml:"log-max-size" json:"log-max-size" env:"LOG_MAX_SIZE"`
	LogMaxBackups int    `toml:"log-max-backups" yaml:"log-max-backups" json:"log-max-backups" env:"LOG_MAX_BACKUPS"`
	MetricsAddr   string `toml:"metrics-addr" yaml:"metrics-addr" json:"metrics-addr" env:"METRICS_ADDR"`
}

var extrasDefaults = cliExtras{
	LogMaxSize:    100,
	LogMaxBackups: 3,
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "srvconf",
		Short:        "Typed server settings",
		Long:         "srvconf creates, validates and serves typed server settings documents.",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newInitCmd(), newCheckCmd(), newServeCmd())
	return rootCmd
}

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init [path]",
		Short: "Write the default settings template",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := pathArg(args)
			if err := config.WriteTemplate(path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
			return nil
		},
	}
}

func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [path]",
		Short: "Load settings, apply env and flag overrides, print the resolved plan",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSettings(cmd, pathArg(args))
			if err != nil {
				return err
			}
			plan, err := engine.NewPlan(s)
			if err != nil {
				return fmt.Errorf("check: %w", err)
			}
			printPlan(cmd.OutOrStdout(), s, plan)
			return nil
		},
	}
	config.RegisterFlags(cmd.Flags())
	return cmd
}

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve [path]",
		Short: "Run an echo server bound to the settings",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSettings(cmd, pathArg(args))
			if err != nil {
				return err
			}
			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()
			return serve(ctx, s)
		},
	}
	config.RegisterFlags(cmd.Flags())
	return cmd
}

// loadSettings layers the document, extension defaults, SRVCONF_ env vars
// and changed flags, in that order.
func loadSettings(cmd *cobra.Command, path string) (*config.Settings[cliExtras], error) {
	s, err := config.Load[cliExtras](path)
	if err != nil {
		return nil, err
	}
	if err := s.ApplyExtensionDefaults(extrasDefaults); err != nil {
		return nil, err
	}
	if err := config.ApplyEnv(s, envPrefix); err != nil {
		return nil, err
	}
	if err := config.ApplyFlags(cmd.Flags(), s); err != nil {
		return nil, err
	}
	return s, nil
}

func serve(ctx context.Context, s *config.Settings[cliExtras]) error {
	plan, err := engine.NewPlan(s)
	if err != nil {
		return fmt.Errorf("serve: %w", err)
	}

	var out io.Writer = os.Stdout
	if s.ExtendedFields.LogFile != "" {
		w := srvlog.FileWriter(s.ExtendedFields.LogFile, s.ExtendedFields.LogMaxSize, s.ExtendedFields.LogMaxBackups)
		defer w.Close()
		out = w
	}
	logger := srvlog.New(s.Mode, out, "srvconf-engine")

	reg := prometheus.NewRegistry()
	metrics, err := engine.NewMetrics(reg)
	if err != nil {
		return fmt.Errorf("serve: failed registering metrics: %w", err)
	}
	if addr := s.ExtendedFields.MetricsAddr; addr != "" {
		stop := serveMetrics(addr, reg, logger)
		defer stop()
	}

	h := middleware.Chain(handler.Echo, middleware.NewLogging(s.EnableLog, logger))
	return engine.NewServer(plan, h, logger, metrics).Run(ctx)
}

func serveMetrics(addr string, reg *prometheus.Registry, logger zerolog.Logger) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Str("addr", addr).Msg("metrics server stopped")
		}
	}()

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
}

func printPlan(w io.Writer, s *config.Settings[cliExtras], p *engine.Plan) {
	fmt.Fprintf(w, "mode:                %s\n", s.Mode)
	fmt.Fprintf(w, "listeners:           %s\n", strings.Join(p.Addrs, ", "))
	if p.Multicore {
		loops := "one per CPU"
		if p.NumEventLoop > 0 {
			loops = fmt.Sprint(p.NumEventLoop)
		}
		fmt.Fprintf(w, "event loops:         %s\n", loops)
	} else {
		fmt.Fprintf(w, "event loops:         1\n")
	}
	fmt.Fprintf(w, "max connections:     %d\n", p.MaxConnections)
	fmt.Fprintf(w, "max connection rate: %d/s\n", p.MaxConnectionRate)
	if p.KeepAlive > 0 {
		fmt.Fprintf(w, "keep-alive:          %s\n", p.KeepAlive)
	} else {
		fmt.Fprintf(w, "keep-alive:          %s\n", s.KeepAlive)
	}
	fmt.Fprintf(w, "client timeout:      %s\n", p.ClientTimeout)
	fmt.Fprintf(w, "shutdown timeout:    %s\n", p.ShutdownTimeout)
	fmt.Fprintf(w, "logging middleware:  %t\n", s.EnableLog)
	for _, name := range p.Unsupported {
		fmt.Fprintf(w, "ignored:             %s\n", name)
	}
}

func pathArg(args []string) string {
	if len(args) == 1 {
		return args[0]
	}
	return defaultPath
}
