package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"

	"github.com/mrsinham/vitalis/cmd/vitalis/admin"
	"github.com/mrsinham/vitalis/cmd/vitalis/wizard"
	"github.com/mrsinham/vitalis/internal/api"
	"github.com/mrsinham/vitalis/internal/bootstrap"
	"github.com/mrsinham/vitalis/internal/config"
	"github.com/mrsinham/vitalis/internal/logger"
	"github.com/mrsinham/vitalis/internal/narration"
	"github.com/mrsinham/vitalis/internal/reconcile"
	"github.com/mrsinham/vitalis/internal/store"
	"github.com/mrsinham/vitalis/internal/vitals"
)

// version is set at build time via -ldflags
var version = "dev"

type options struct {
	from   string
	vitals string
	serve  bool
}

func main() {
	// Check for admin subcommand (before flag.Parse)
	if len(os.Args) > 1 && os.Args[1] == "admin" {
		if err := runAdmin(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		os.Exit(0)
	}

	var opts options
	flag.StringVar(&opts.from, "from", "", "Pre-fill the first check-in from a YAML file")
	flag.StringVar(&opts.vitals, "vitals", "", "Override vital durations and units from a YAML file")
	flag.BoolVar(&opts.serve, "serve", false, "Serve the admin HTTP API from this process")
	showVersion := flag.Bool("version", false, "Show version information")
	help := flag.Bool("help", false, "Show help message")
	flag.Usage = printHelp
	flag.Parse()

	if *help {
		printHelp()
		os.Exit(0)
	}
	if *showVersion {
		fmt.Printf("vitalis version %s\n", version)
		os.Exit(0)
	}

	if err := runKiosk(opts); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// openLog sends logs to the data directory so they never draw over the UI.
func openLog(cfg config.Config, component string) (*logrus.Entry, func(), error) {
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("create data dir: %w", err)
	}
	log, closer, err := logger.OpenFile(cfg.LogLevel, cfg.LogPath())
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return log.WithComponent(component), func() { _ = closer.Close() }, nil
}

func runKiosk(opts options) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	entry, closeLog, err := openLog(cfg, "kiosk")
	if err != nil {
		return err
	}
	defer closeLog()

	catalogue := vitals.DefaultConfigs()
	if opts.vitals != "" {
		overrides, err := vitals.LoadOverrides(opts.vitals)
		if err != nil {
			return err
		}
		catalogue = vitals.ApplyOverrides(catalogue, overrides)
	}

	wcfg := wizard.Config{
		Catalogue:        catalogue,
		Sampler:          vitals.NewRandomSampler(nil),
		Timing:           vitals.Timing{Tick: cfg.MeasurementTick, Speedup: cfg.MeasurementSpeedup},
		SuccessCountdown: cfg.SuccessCountdown,
		AssistancePoll:   cfg.AssistancePoll,
		ReceiptDir:       filepath.Join(cfg.DataDir, "receipts"),
		Log:              entry,
	}
	if opts.from != "" {
		draft, err := wizard.LoadDraftYAML(opts.from)
		if err != nil {
			return err
		}
		wcfg.Draft = draft
	}

	if cfg.NarrationCommand != "" {
		n, err := narration.NewCommandNarrator(cfg.NarrationCommand, entry)
		if err != nil {
			return err
		}
		wcfg.Narrator = n
	} else {
		wcfg.Narrator = narration.Nop{}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	notifier := &wizard.Notifier{}
	rt, err := bootstrap.Open(ctx, cfg, entry, bootstrap.Options{
		Redis:     true,
		OnWarning: notifier.Warn,
	})
	if err != nil {
		return err
	}
	defer rt.Close()

	wcfg.Backend = rt.Gateway
	wcfg.OpenAdmin = func() wizard.Subview {
		return admin.New(rt.Gateway, admin.Options{
			Poll:      cfg.DashboardPoll,
			Catalogue: catalogue,
			Log:       entry.WithField("view", "admin"),
		})
	}

	if cfg.RemoteEnabled() {
		settings, err := rt.Gateway.Settings()
		if err != nil {
			entry.WithError(err).Warn("load kiosk settings, using defaults")
		}
		worker := reconcile.NewWorker(rt.Gateway, rt.Locker(cfg.LockTTL), settings.KioskID, cfg.SyncInterval, entry.WithField("worker", "reconcile"))
		go worker.Run(ctx)
	}

	if opts.serve {
		srv := newAPIServer(cfg, rt, entry.WithField("server", "api"))
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				entry.WithError(err).Error("http server error")
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				entry.WithError(err).Error("graceful shutdown failed")
			}
		}()
	}

	entry.WithField("version", version).Info("kiosk starting up")
	return wizard.Run(ctx, wcfg, notifier)
}

func runAdmin() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	entry, closeLog, err := openLog(cfg, "admin")
	if err != nil {
		return err
	}
	defer closeLog()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rt, err := bootstrap.Open(ctx, cfg, entry, bootstrap.Options{})
	if err != nil {
		if errors.Is(err, store.ErrLocked) {
			return fmt.Errorf("the kiosk is running; open the dashboard from the welcome screen instead: %w", err)
		}
		return err
	}
	defer rt.Close()

	dash := admin.New(rt.Gateway, admin.Options{
		Poll:       cfg.DashboardPoll,
		Standalone: true,
		Log:        entry,
	})
	p := tea.NewProgram(dash, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return err
	}
	return nil
}

func newAPIServer(cfg config.Config, rt *bootstrap.Runtime, entry *logrus.Entry) *http.Server {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	required := map[string]api.Check{
		"store": func(ctx context.Context) error {
			_, err := rt.Store.Get(store.KeySettings, new(map[string]interface{}))
			return err
		},
	}
	optional := map[string]api.Check{}
	if rt.Mirror != nil {
		optional["postgres"] = rt.Mirror.Ping
	}
	if rt.Redis != nil {
		optional["redis"] = func(ctx context.Context) error { return rt.Redis.Ping(ctx).Err() }
	}

	router := api.NewRouter(api.RouterConfig{
		Service:  rt.Gateway,
		Log:      entry,
		Registry: reg,
		Required: required,
		Optional: optional,
		Env:      cfg.Env,
		Version:  version,
	})
	c := cors.New(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch},
		AllowedHeaders: []string{"Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
	})

	return &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           c.Handler(router),
		ReadHeaderTimeout: 5 * time.Second,
	}
}

func printHelp() {
	fmt.Println("vitalis")
	fmt.Println("=======")
	fmt.Println()
	fmt.Println("Patient self check-in kiosk: registration, guided vital signs and staff assistance.")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  vitalis [options]        Run the kiosk")
	fmt.Println("  vitalis admin            Open the staff dashboard on its own")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --from <FILE>            Pre-fill the first check-in from a YAML file")
	fmt.Println("  --vitals <FILE>          Override vital durations and units (YAML)")
	fmt.Println("  --serve                  Serve the admin HTTP API from the kiosk process")
	fmt.Println("  --version                Show version information")
	fmt.Println("  --help                   Show this help message")
	fmt.Println()
	fmt.Println("Environment:")
	fmt.Println("  VITALIS_DATA_DIR         Local store, log file and receipts (default: ./data)")
	fmt.Println("  POSTGRES_DSN             Remote mirror; local-only when unset")
	fmt.Println("  REDIS_URL                Reconciliation lock server")
	fmt.Println("  KAFKA_BROKERS            Check-in event stream")
	fmt.Println("  NARRATION_COMMAND        Text-to-speech command, e.g. 'espeak'")
	fmt.Println()
	fmt.Println("Keys on the welcome screen:")
	fmt.Println("  Enter  start a check-in    a  staff dashboard    F1-F6  accessibility toolbar")
}
